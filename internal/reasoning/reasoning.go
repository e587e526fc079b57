// Package reasoning defines the external services that order and review task plans.
package reasoning

import (
	"context"
	"strings"

	"github.com/slok/daysim/internal/model"
)

// Approved is the critique verdict meaning the plan needs no changes.
const Approved = "APPROVED"

// Reasoner knows how to turn a natural-language planning request into a task ordering.
type Reasoner interface {
	GenerateOrdering(ctx context.Context, prompt string) (*model.Ordering, error)
}

// Critic reviews an ordered plan. It returns Approved or a one sentence flaw.
type Critic interface {
	GenerateCritique(ctx context.Context, tasks []*model.Task, profile model.UserProfile) (string, error)
}

// IsApproved returns true when a critique verdict approves the plan.
func IsApproved(verdict string) bool {
	return strings.TrimSpace(verdict) == Approved
}
