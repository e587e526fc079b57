// Package tasksource generates synthetic task sets for simulated days.
package tasksource

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/slok/daysim/internal/log"
	"github.com/slok/daysim/internal/model"
)

var (
	verbs     = []string{"Read", "Write", "Code", "Review", "Email", "Debug"}
	nouns     = []string{"Paper", "Report", "Module", "Notes", "Professor", "Script"}
	estimates = []int{30, 45, 60, 90, 120}
)

// Rand is the random source used by the generator. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// GeneratorConfig is the configuration for the task generator.
type GeneratorConfig struct {
	// Rand is the random source, if missing a random seeded one is used.
	Rand   Rand
	Logger log.Logger
}

func (c *GeneratorConfig) defaults() error {
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "tasksource.Generator"})
	return nil
}

// Generator creates random academic and personal tasks.
type Generator struct {
	rand   Rand
	mu     sync.Mutex
	logger log.Logger
}

// NewGenerator creates a new task generator.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Generator{
		rand:   cfg.Rand,
		logger: cfg.Logger,
	}, nil
}

// NewSeededGenerator creates a generator that produces the same tasks (except IDs) for the same seed.
func NewSeededGenerator(seed uint64, logger log.Logger) (*Generator, error) {
	return NewGenerator(GeneratorConfig{
		Rand:   rand.New(rand.NewPCG(seed, ^seed)),
		Logger: logger,
	})
}

// Generate returns n pending tasks due on the first day.
func (g *Generator) Generate(n int) []*model.Task {
	g.mu.Lock()
	defer g.mu.Unlock()

	tasks := make([]*model.Task, 0, n)
	for i := range n {
		tasks = append(tasks, &model.Task{
			ID:                    ulid.Make().String(),
			Description:           fmt.Sprintf("%s %s %d", verbs[g.rand.IntN(len(verbs))], nouns[g.rand.IntN(len(nouns))], i+1),
			EstimatedDurationMins: estimates[g.rand.IntN(len(estimates))],
			DeadlineDay:           1,
			Priority:              1 + g.rand.IntN(5),
			Status:                model.TaskStatusPending,
		})
	}
	g.logger.Debugf("Generated %d tasks", n)

	return tasks
}
