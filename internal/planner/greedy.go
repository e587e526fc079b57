package planner

import (
	"context"
	"slices"

	"github.com/slok/daysim/internal/model"
)

// ShortestJobFirst is the baseline planner. It sorts by estimate once and never reorders.
type ShortestJobFirst struct{}

var _ Planner = ShortestJobFirst{}

// Plan sorts the tasks by estimated duration, keeping the input order on ties.
func (ShortestJobFirst) Plan(_ context.Context, req PlanRequest) model.PlanResult {
	tasks := append([]*model.Task(nil), req.Tasks...)
	slices.SortStableFunc(tasks, func(a, b *model.Task) int {
		return a.EstimatedDurationMins - b.EstimatedDurationMins
	})

	return model.PlanResult{Tasks: tasks, Outcome: model.PlanOutcomeHeuristic, Rationale: "Shortest job first."}
}

// Replan keeps the current order.
func (ShortestJobFirst) Replan(_ context.Context, req ReplanRequest) model.PlanResult {
	return model.PlanResult{Tasks: append([]*model.Task(nil), req.Tasks...), Outcome: model.PlanOutcomeHeuristic}
}
