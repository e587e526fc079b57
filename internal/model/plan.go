package model

// PlanOptions are the independent toggles of the planning loop.
type PlanOptions struct {
	UseCritique bool
	UseMemory   bool
}

// PlanOutcome is the terminal state of a planning run.
type PlanOutcome string

const (
	PlanOutcomeApprovedDraft           PlanOutcome = "approved-draft"
	PlanOutcomeApprovedAfterRefinement PlanOutcome = "approved-after-one-refinement"
	PlanOutcomeCritiqueDisabledDraft   PlanOutcome = "critique-disabled-draft"
	PlanOutcomeReplanned               PlanOutcome = "replanned"
	// PlanOutcomeFallback means the external service failed and the input order was kept.
	PlanOutcomeFallback  PlanOutcome = "fallback-input-order"
	PlanOutcomeHeuristic PlanOutcome = "heuristic"
)

// Ordering is the structured response of a reasoning service.
type Ordering struct {
	Rationale string
	TaskIDs   []string
}

// PlanResult is the result of planning or replanning.
type PlanResult struct {
	// Tasks contains every input task exactly once.
	Tasks     []*Task
	Outcome   PlanOutcome
	Rationale string
	// Critique is the flaw the critique service found, if any.
	Critique string
}
