package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/slok/daysim/internal/log"
	"github.com/slok/daysim/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.LessonRepository and
// storage.DayResultRepository.
type Repository struct {
	lessons []string
	results []model.DayResult
	mu      sync.RWMutex
	logger  log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		logger: cfg.Logger,
	}, nil
}

// AppendLesson appends a lesson keeping only the most recent ones.
func (r *Repository) AppendLesson(ctx context.Context, lesson string, keep int) error {
	if keep <= 0 {
		return fmt.Errorf("keep must be positive: %w", model.ErrNotValid)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.lessons = append(r.lessons, lesson)
	if len(r.lessons) > keep {
		r.lessons = append([]string(nil), r.lessons[len(r.lessons)-keep:]...)
	}
	r.logger.Debugf("Appended lesson, %d stored", len(r.lessons))

	return nil
}

// ListLessons returns the stored lessons, oldest first.
func (r *Repository) ListLessons(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string{}, r.lessons...), nil
}

// SaveDayResult stores a day result.
func (r *Repository) SaveDayResult(ctx context.Context, res model.DayResult) error {
	if res.ID == "" {
		return fmt.Errorf("id is required: %w", model.ErrNotValid)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.results {
		if existing.ID == res.ID {
			return fmt.Errorf("day result %s: %w", res.ID, model.ErrAlreadyExists)
		}
	}

	r.results = append(r.results, res)
	r.logger.Debugf("Saved day result: %s", res.ID)

	return nil
}

// ListDayResults returns the stored results, oldest first.
func (r *Repository) ListDayResults(ctx context.Context, agentLabel string) ([]model.DayResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]model.DayResult, 0, len(r.results))
	for _, res := range r.results {
		if agentLabel != "" && res.AgentLabel != agentLabel {
			continue
		}
		results = append(results, res)
	}

	return results, nil
}
