// Package gemini implements the reasoning and critique services on top of Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/slok/daysim/internal/log"
	"github.com/slok/daysim/internal/model"
	"github.com/slok/daysim/internal/reasoning"
)

// ReasonerConfig is the configuration for the Gemini reasoner.
type ReasonerConfig struct {
	Generator Generator
	Logger    log.Logger
}

func (c *ReasonerConfig) defaults() error {
	if c.Generator == nil {
		return fmt.Errorf("generator is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "gemini.Reasoner"})
	return nil
}

// Reasoner implements reasoning.Reasoner and reasoning.Critic.
type Reasoner struct {
	gen    Generator
	logger log.Logger
}

var (
	_ reasoning.Reasoner = &Reasoner{}
	_ reasoning.Critic   = &Reasoner{}
)

// NewReasoner creates a new Gemini reasoner.
func NewReasoner(cfg ReasonerConfig) (*Reasoner, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Reasoner{
		gen:    cfg.Generator,
		logger: cfg.Logger,
	}, nil
}

type orderingJSON struct {
	Rationale      *string   `json:"rationale"`
	OrderedTaskIDs *[]string `json:"ordered_task_ids"`
}

// GenerateOrdering implements reasoning.Reasoner. Both rationale and ordered ids are required.
func (r *Reasoner) GenerateOrdering(ctx context.Context, prompt string) (*model.Ordering, error) {
	var resp orderingJSON
	if err := r.generate(ctx, prompt, &resp); err != nil {
		return nil, err
	}

	if resp.OrderedTaskIDs == nil {
		return nil, fmt.Errorf("missing ordered_task_ids: %w", model.ErrMalformedResponse)
	}
	if resp.Rationale == nil {
		return nil, fmt.Errorf("missing rationale: %w", model.ErrMalformedResponse)
	}

	return &model.Ordering{
		Rationale: *resp.Rationale,
		TaskIDs:   *resp.OrderedTaskIDs,
	}, nil
}

type critiqueJSON struct {
	Feedback string `json:"feedback"`
}

// GenerateCritique implements reasoning.Critic. A response without feedback approves the plan.
func (r *Reasoner) GenerateCritique(ctx context.Context, tasks []*model.Task, profile model.UserProfile) (string, error) {
	var resp critiqueJSON
	if err := r.generate(ctx, critiquePrompt(tasks, profile), &resp); err != nil {
		return "", err
	}

	feedback := strings.TrimSpace(resp.Feedback)
	if feedback == "" {
		return reasoning.Approved, nil
	}

	return feedback, nil
}

func (r *Reasoner) generate(ctx context.Context, prompt string, out any) error {
	raw, err := r.gen.GenerateJSON(ctx, prompt)
	if err != nil {
		return fmt.Errorf("could not generate: %w", err)
	}

	clean := stripCodeFences(raw)
	if err := json.Unmarshal([]byte(clean), out); err != nil {
		r.logger.Debugf("Invalid JSON answer: %q", raw)
		return fmt.Errorf("invalid JSON %q: %w", err.Error(), model.ErrMalformedResponse)
	}

	return nil
}

var (
	openFenceRe  = regexp.MustCompile("(?m)^```(?:json)?\\s*")
	closeFenceRe = regexp.MustCompile("(?m)```\\s*$")
)

// stripCodeFences removes markdown code fences models add despite JSON mode.
func stripCodeFences(s string) string {
	s = openFenceRe.ReplaceAllString(s, "")
	s = closeFenceRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func critiquePrompt(tasks []*model.Task, profile model.UserProfile) string {
	var plan strings.Builder
	for _, t := range tasks {
		fmt.Fprintf(&plan, "- %s (Est: %dm, Priority: %d)\n", t.Description, t.EstimatedDurationMins, t.Priority)
	}

	return fmt.Sprintf(`You are a Harsh Critic reviewing a student's daily schedule.

### USER CONSTRAINTS
- Work Hours: %d:00 to %d:00
- Energy: Starts high, drops fast. Complex tasks after 3 PM are risky.

### PROPOSED PLAN (In Order)
%s
### YOUR JOB
Identify 1 CRITICAL FLAW in this plan.
- Are hard tasks placed too late?
- Do the tasks actually fit in the hours available?
- Is the order illogical?

If the plan is perfect, say "APPROVED".
If there is a flaw, explain it in 1 sentence starting with "FLAW:".

Output JSON: { "feedback": "..." }
`, profile.StartHour, profile.EndHour, plan.String())
}
