package evaluate

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/slok/daysim/internal/app/day"
	"github.com/slok/daysim/internal/log"
	"github.com/slok/daysim/internal/model"
)

// DayRunner runs one simulated day.
type DayRunner interface {
	Run(ctx context.Context, opts day.RunOptions) (*model.DayReport, error)
}

// TaskSource generates the tasks of a day.
type TaskSource interface {
	Generate(n int) []*model.Task
}

// Agent is one of the compared planning strategies.
type Agent struct {
	Label       string
	Runner      DayRunner
	PlanOptions model.PlanOptions
}

// ServiceConfig is the configuration for the evaluation service.
type ServiceConfig struct {
	TaskSource TaskSource
	// MaxConcurrentDays bounds the days running at the same time.
	MaxConcurrentDays int
	Logger            log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.TaskSource == nil {
		return fmt.Errorf("task source is required")
	}
	if c.MaxConcurrentDays == 0 {
		c.MaxConcurrentDays = 4
	}
	if c.MaxConcurrentDays < 0 {
		return fmt.Errorf("max concurrent days must be positive")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Evaluate"})
	return nil
}

// Service compares planning agents over the same generated days.
type Service struct {
	tasks       TaskSource
	concurrency int
	logger      log.Logger
}

// NewService creates a new evaluation service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		tasks:       cfg.TaskSource,
		concurrency: cfg.MaxConcurrentDays,
		logger:      cfg.Logger,
	}, nil
}

// EvaluateOptions are the options of an evaluation.
type EvaluateOptions struct {
	Agents        []Agent
	Days          int
	TasksPerDay   int
	Profile       model.UserProfile
	Perturbations []day.Perturbation
}

func (o EvaluateOptions) validate() error {
	if len(o.Agents) == 0 {
		return fmt.Errorf("at least one agent is required: %w", model.ErrNotValid)
	}
	labels := map[string]struct{}{}
	for _, a := range o.Agents {
		if a.Label == "" || a.Runner == nil {
			return fmt.Errorf("agents require label and runner: %w", model.ErrNotValid)
		}
		if _, ok := labels[a.Label]; ok {
			return fmt.Errorf("agent %q: %w", a.Label, model.ErrAlreadyExists)
		}
		labels[a.Label] = struct{}{}
	}
	if o.Days <= 0 {
		return fmt.Errorf("days must be positive: %w", model.ErrNotValid)
	}
	if o.TasksPerDay <= 0 {
		return fmt.Errorf("tasks per day must be positive: %w", model.ErrNotValid)
	}
	return o.Profile.Validate()
}

// Evaluation is the result of an evaluation.
type Evaluation struct {
	// Results are grouped by agent, in agent order, and then by day.
	Results   []model.DayResult
	Summaries []model.AgentSummary
}

// Evaluate runs every agent over the same generated days, concurrently.
func (s *Service) Evaluate(ctx context.Context, opts EvaluateOptions) (*Evaluation, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Same initial conditions for every agent.
	daysTasks := make([][]*model.Task, opts.Days)
	for i := range daysTasks {
		daysTasks[i] = s.tasks.Generate(opts.TasksPerDay)
	}

	results := make([]model.DayResult, len(opts.Agents)*opts.Days)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for ai, agent := range opts.Agents {
		for di, tasks := range daysTasks {
			g.Go(func() error {
				report, err := agent.Runner.Run(gctx, day.RunOptions{
					AgentLabel:    agent.Label,
					Tasks:         model.CloneTasks(tasks),
					Profile:       opts.Profile,
					PlanOptions:   agent.PlanOptions,
					Perturbations: opts.Perturbations,
				})
				if err != nil {
					return fmt.Errorf("agent %s day %d: %w", agent.Label, di+1, err)
				}
				results[ai*opts.Days+di] = report.Result
				s.logger.Infof("%s day %d: %.0f%% success", agent.Label, di+1, report.Result.SuccessRate*100)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Evaluation{
		Results:   results,
		Summaries: model.SummarizeResults(results),
	}, nil
}
