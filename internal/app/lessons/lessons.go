package lessons

import (
	"context"
	"fmt"

	"github.com/slok/daysim/internal/log"
	"github.com/slok/daysim/internal/storage"
)

// ServiceConfig is the configuration for the lessons service.
type ServiceConfig struct {
	Repository storage.LessonRepository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Lessons"})
	return nil
}

// Service lists the stored day-end lessons.
type Service struct {
	repo   storage.LessonRepository
	logger log.Logger
}

// NewService creates a new lessons service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// List returns the stored lessons, oldest first. Unlike planning, storage errors are returned.
func (s *Service) List(ctx context.Context) ([]string, error) {
	lessons, err := s.repo.ListLessons(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list lessons: %w", err)
	}

	s.logger.Debugf("Listed %d lessons", len(lessons))

	return lessons, nil
}
