package engine

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/slok/daysim/internal/log"
	"github.com/slok/daysim/internal/model"
)

// Executor runs one task against a day environment.
type Executor interface {
	Execute(task *model.Task, env *model.Environment) (model.TaskStatus, string)
}

// Rand is the random source used by the engine. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	NormFloat64() float64
	IntN(n int) int
}

const (
	fatigueEnergyThreshold = 30
	fatigueFactor          = 1.5
	durationSigma          = 0.2
	interruptionProb       = 0.15
	interruptionMinMins    = 15
	interruptionMaxMins    = 60 // Exclusive.
	energyCostPerTask      = 10
)

// Message markers used by the execution messages, used to detect delays.
const (
	MarkerInterruption = "interruption"
	MarkerFatigue      = "tired"
	MarkerCrisis       = "DELAY"
)

// EngineConfig is the configuration for the stochastic engine.
type EngineConfig struct {
	// Rand is the random source, if missing a random seeded one is used.
	Rand   Rand
	Logger log.Logger
}

func (c *EngineConfig) defaults() error {
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "engine.Stochastic"})
	return nil
}

// Engine executes tasks with log-normal durations, fatigue and random interruptions.
// It's safe for concurrent use, the only shared state is the random source.
type Engine struct {
	rand   Rand
	mu     sync.Mutex
	logger log.Logger
}

// NewEngine creates a new stochastic engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		rand:   cfg.Rand,
		logger: cfg.Logger,
	}, nil
}

// NewSeededEngine creates a new engine with a reproducible random source.
func NewSeededEngine(seed uint64, logger log.Logger) (*Engine, error) {
	return NewEngine(EngineConfig{
		Rand:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		Logger: logger,
	})
}

// Execute simulates the execution of a task. On failure nothing is mutated.
func (e *Engine) Execute(task *model.Task, env *model.Environment) (model.TaskStatus, string) {
	if task.EstimatedDurationMins <= 0 {
		return model.TaskStatusFailed, fmt.Sprintf("Task '%s' has an invalid estimate of %dm.", task.Description, task.EstimatedDurationMins)
	}

	fatigue := 1.0
	if env.CurrentEnergy < fatigueEnergyThreshold {
		fatigue = fatigueFactor
	}

	duration, interruption := e.draw(task.EstimatedDurationMins, env.Profile.WorkSpeedMultiplier*fatigue)
	cost := duration + interruption

	if env.CurrentTime+cost > env.Profile.DayEndMins() {
		remaining := env.RemainingMins()
		e.logger.Debugf("Task %s doesn't fit: cost %dm, remaining %dm", task.ID, cost, remaining)
		return model.TaskStatusFailed, fmt.Sprintf("Ran out of time on '%s'. Required %dm, but day ends in %dm (short by %dm).",
			task.Description, cost, remaining, cost-remaining)
	}

	env.CurrentTime += cost
	env.CurrentEnergy -= energyCostPerTask * fatigue
	task.ActualDurationMins = &duration
	task.Status = model.TaskStatusCompleted

	var sb strings.Builder
	fmt.Fprintf(&sb, "Task '%s' done in %dm (Est: %dm).", task.Description, duration, task.EstimatedDurationMins)
	if interruption > 0 {
		fmt.Fprintf(&sb, " + %dm %s.", interruption, MarkerInterruption)
	}
	if fatigue > 1.0 {
		fmt.Fprintf(&sb, " (User was %s).", MarkerFatigue)
	}

	return model.TaskStatusCompleted, sb.String()
}

// draw returns the scaled actual duration and the interruption minutes.
func (e *Engine) draw(estimate int, scale float64) (duration, interruption int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Log-normal located at ln(estimate): exp(ln(est)+σz) == est*exp(σz).
	sample := float64(estimate) * math.Exp(durationSigma*e.rand.NormFloat64())
	duration = int(sample * scale)

	if e.rand.Float64() < interruptionProb {
		interruption = interruptionMinMins + e.rand.IntN(interruptionMaxMins-interruptionMinMins)
	}

	return duration, interruption
}
