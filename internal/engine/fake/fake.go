package fake

import (
	"fmt"
	"sync"

	"github.com/slok/daysim/internal/log"
	"github.com/slok/daysim/internal/model"
)

// Step is a scripted execution outcome.
type Step struct {
	// Fail makes the execution fail without mutating anything.
	Fail bool
	// CostMins is the total time the task takes. If zero the task estimate is used.
	CostMins int
	// EnergyCost is the energy drained. If zero 10 is used.
	EnergyCost float64
	// Message overrides the returned message.
	Message string
}

// ExecutorConfig is the configuration for the fake executor.
type ExecutorConfig struct {
	Steps  []Step
	Logger log.Logger
}

func (c *ExecutorConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "engine.Fake"})
	return nil
}

// Executor is a fake implementation of engine.Executor that follows a script.
// Once the script is consumed every task completes in its estimated time.
type Executor struct {
	steps    []Step
	executed []string
	mu       sync.Mutex
	logger   log.Logger
}

// NewExecutor creates a new fake executor.
func NewExecutor(cfg ExecutorConfig) (*Executor, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Executor{
		steps:  cfg.Steps,
		logger: cfg.Logger,
	}, nil
}

// Execute runs the next scripted step.
func (e *Executor) Execute(task *model.Task, env *model.Environment) (model.TaskStatus, string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.executed = append(e.executed, task.ID)

	step := Step{}
	if len(e.steps) > 0 {
		step = e.steps[0]
		e.steps = e.steps[1:]
	}

	if step.Fail {
		msg := step.Message
		if msg == "" {
			msg = fmt.Sprintf("Ran out of time on '%s'.", task.Description)
		}
		return model.TaskStatusFailed, msg
	}

	cost := step.CostMins
	if cost == 0 {
		cost = task.EstimatedDurationMins
	}
	energy := step.EnergyCost
	if energy == 0 {
		energy = 10
	}

	env.CurrentTime += cost
	env.CurrentEnergy -= energy
	task.ActualDurationMins = &cost
	task.Status = model.TaskStatusCompleted

	msg := step.Message
	if msg == "" {
		msg = fmt.Sprintf("Task '%s' done in %dm (Est: %dm).", task.Description, cost, task.EstimatedDurationMins)
	}
	e.logger.Debugf("Executed fake task %s", task.ID)

	return model.TaskStatusCompleted, msg
}

// Executed returns the IDs of the tasks executed, in order.
func (e *Executor) Executed() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]string(nil), e.executed...)
}
