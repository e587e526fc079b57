// Package planner orders the tasks of a day.
//
// The Controller drives the draft, critique and single refinement loop against an external
// reasoning service and never fails: when the service can't be used the input order is kept.
package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/slok/daysim/internal/log"
	"github.com/slok/daysim/internal/model"
	"github.com/slok/daysim/internal/reasoning"
)

// PlanRequest is the input of an initial planning.
type PlanRequest struct {
	Tasks   []*model.Task
	Profile model.UserProfile
	Options model.PlanOptions
}

// ReplanRequest is the input of a mid-day replanning.
type ReplanRequest struct {
	// Tasks are only the not yet executed tasks.
	Tasks         []*model.Task
	Profile       model.UserProfile
	CurrentTime   int
	CurrentEnergy float64
	History       []string
}

// Planner knows how to order tasks for a day and reorder them when the day goes wrong.
type Planner interface {
	Plan(ctx context.Context, req PlanRequest) model.PlanResult
	Replan(ctx context.Context, req ReplanRequest) model.PlanResult
}

// Digester returns the textual digest of past lessons.
type Digester interface {
	Digest(ctx context.Context) string
}

// ControllerConfig is the configuration for the planning controller.
type ControllerConfig struct {
	Reasoner reasoning.Reasoner
	// Critic is optional, without it plans are never critiqued.
	Critic reasoning.Critic
	// Feedback is optional, without it the digest is always empty.
	Feedback Digester
	// Timeout bounds every external call, zero means no timeout.
	Timeout time.Duration
	Logger  log.Logger
}

func (c *ControllerConfig) defaults() error {
	if c.Reasoner == nil {
		return fmt.Errorf("reasoner is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout can't be negative")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "planner.Controller"})
	return nil
}

// Controller is the LLM backed planner.
type Controller struct {
	reasoner reasoning.Reasoner
	critic   reasoning.Critic
	feedback Digester
	timeout  time.Duration
	logger   log.Logger
}

var _ Planner = &Controller{}

// NewController creates a new planning controller.
func NewController(cfg ControllerConfig) (*Controller, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Controller{
		reasoner: cfg.Reasoner,
		critic:   cfg.Critic,
		feedback: cfg.Feedback,
		timeout:  cfg.Timeout,
		logger:   cfg.Logger,
	}, nil
}

// Plan drafts an ordering and, if enabled, critiques it once and refines it at most once.
func (c *Controller) Plan(ctx context.Context, req PlanRequest) model.PlanResult {
	logger := c.logger.WithCtxValues(ctx)

	digest := ""
	if req.Options.UseMemory && c.feedback != nil {
		digest = c.feedback.Digest(ctx)
	}

	logger.Infof("Drafting initial plan")
	draft, rationale, err := c.order(ctx, planPrompt(req.Tasks, req.Profile, digest, ""), req.Tasks)
	if err != nil {
		logger.Warningf("Draft failed, keeping input order: %s", err)
		return fallback(req.Tasks)
	}
	logger.Debugf("Draft rationale: %s", rationale)

	if !req.Options.UseCritique || c.critic == nil {
		logger.Infof("Critique disabled, skipping validation")
		return model.PlanResult{Tasks: draft, Outcome: model.PlanOutcomeCritiqueDisabledDraft, Rationale: rationale}
	}

	verdict, err := c.critique(ctx, draft, req.Profile)
	if err != nil {
		logger.Warningf("Critique failed, approving draft: %s", err)
		return model.PlanResult{Tasks: draft, Outcome: model.PlanOutcomeApprovedDraft, Rationale: rationale}
	}
	// A blank verdict has no flaw to refine with.
	verdict = strings.TrimSpace(verdict)
	if verdict == "" || reasoning.IsApproved(verdict) {
		logger.Infof("Critic approved the draft")
		return model.PlanResult{Tasks: draft, Outcome: model.PlanOutcomeApprovedDraft, Rationale: rationale}
	}

	// Single refinement, the refined plan is not critiqued again.
	logger.Infof("Critic detected flaw, refining: %s", verdict)
	refined, rationale, err := c.order(ctx, planPrompt(req.Tasks, req.Profile, digest, verdict), req.Tasks)
	if err != nil {
		logger.Warningf("Refinement failed, keeping input order: %s", err)
		res := fallback(req.Tasks)
		res.Critique = verdict
		return res
	}

	return model.PlanResult{
		Tasks:     refined,
		Outcome:   model.PlanOutcomeApprovedAfterRefinement,
		Rationale: rationale,
		Critique:  verdict,
	}
}

// Replan orders the remaining tasks using the recent execution history. It never uses
// the feedback memory nor the critic.
func (c *Controller) Replan(ctx context.Context, req ReplanRequest) model.PlanResult {
	logger := c.logger.WithCtxValues(ctx)

	history := req.History
	if len(history) > replanHistorySize {
		history = history[len(history)-replanHistorySize:]
	}

	logger.Infof("Replanning %d remaining tasks", len(req.Tasks))
	tasks, rationale, err := c.order(ctx, replanPrompt(req.Tasks, req.Profile, req.CurrentTime, req.CurrentEnergy, history), req.Tasks)
	if err != nil {
		logger.Warningf("Replan failed, keeping current order: %s", err)
		return fallback(req.Tasks)
	}

	return model.PlanResult{Tasks: tasks, Outcome: model.PlanOutcomeReplanned, Rationale: rationale}
}

func (c *Controller) order(ctx context.Context, prompt string, tasks []*model.Task) ([]*model.Task, string, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	ordering, err := c.reasoner.GenerateOrdering(ctx, prompt)
	if err != nil {
		return nil, "", err
	}
	if ordering == nil {
		return nil, "", fmt.Errorf("nil ordering: %w", model.ErrMalformedResponse)
	}

	return Reconcile(tasks, ordering.TaskIDs), ordering.Rationale, nil
}

func (c *Controller) critique(ctx context.Context, tasks []*model.Task, profile model.UserProfile) (string, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	return c.critic.GenerateCritique(ctx, tasks, profile)
}

func (c *Controller) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout == 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func fallback(tasks []*model.Task) model.PlanResult {
	return model.PlanResult{
		Tasks:   append([]*model.Task(nil), tasks...),
		Outcome: model.PlanOutcomeFallback,
	}
}
