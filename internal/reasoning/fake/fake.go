package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/slok/daysim/internal/log"
	"github.com/slok/daysim/internal/model"
	"github.com/slok/daysim/internal/reasoning"
)

// OrderingAnswer is a scripted reasoning service answer.
type OrderingAnswer struct {
	Ordering *model.Ordering
	Err      error
}

// CritiqueAnswer is a scripted critique service answer.
type CritiqueAnswer struct {
	Verdict string
	Err     error
}

// ReasonerConfig is the configuration for the fake reasoner.
type ReasonerConfig struct {
	Orderings []OrderingAnswer
	Critiques []CritiqueAnswer
	Logger    log.Logger
}

func (c *ReasonerConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "reasoning.Fake"})
	return nil
}

// Reasoner is a scripted reasoning.Reasoner and reasoning.Critic that records its calls.
// Once a script is consumed orderings are empty (keep input order) and critiques approve.
type Reasoner struct {
	orderings []OrderingAnswer
	critiques []CritiqueAnswer
	prompts   []string
	critiqued [][]string
	mu        sync.Mutex
	logger    log.Logger
}

var (
	_ reasoning.Reasoner = &Reasoner{}
	_ reasoning.Critic   = &Reasoner{}
)

// NewReasoner creates a new fake reasoner.
func NewReasoner(cfg ReasonerConfig) (*Reasoner, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Reasoner{
		orderings: cfg.Orderings,
		critiques: cfg.Critiques,
		logger:    cfg.Logger,
	}, nil
}

// GenerateOrdering returns the next scripted ordering.
func (r *Reasoner) GenerateOrdering(ctx context.Context, prompt string) (*model.Ordering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prompts = append(r.prompts, prompt)

	if len(r.orderings) == 0 {
		return &model.Ordering{Rationale: "Keep the given order."}, nil
	}
	ans := r.orderings[0]
	r.orderings = r.orderings[1:]

	return ans.Ordering, ans.Err
}

// GenerateCritique returns the next scripted verdict.
func (r *Reasoner) GenerateCritique(ctx context.Context, tasks []*model.Task, profile model.UserProfile) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	r.critiqued = append(r.critiqued, ids)

	if len(r.critiques) == 0 {
		return reasoning.Approved, nil
	}
	ans := r.critiques[0]
	r.critiques = r.critiques[1:]

	return ans.Verdict, ans.Err
}

// Prompts returns the planning prompts received so far.
func (r *Reasoner) Prompts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.prompts...)
}

// Critiqued returns the task ids of every plan sent for critique.
func (r *Reasoner) Critiqued() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.critiqued...)
}
