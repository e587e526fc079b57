package results

import (
	"context"
	"fmt"

	"github.com/slok/daysim/internal/log"
	"github.com/slok/daysim/internal/model"
	"github.com/slok/daysim/internal/storage"
)

// ServiceConfig is the configuration for the results service.
type ServiceConfig struct {
	Repository storage.DayResultRepository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Results"})
	return nil
}

// Service lists stored day results.
type Service struct {
	repo   storage.DayResultRepository
	logger log.Logger
}

// NewService creates a new results service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// ListOptions are the options for listing results.
type ListOptions struct {
	// AgentLabel filters by agent, empty lists every agent.
	AgentLabel string
}

// Listing is the stored results with their per agent summaries.
type Listing struct {
	Results   []model.DayResult
	Summaries []model.AgentSummary
}

// List returns the stored day results, oldest first.
func (s *Service) List(ctx context.Context, opts ListOptions) (*Listing, error) {
	res, err := s.repo.ListDayResults(ctx, opts.AgentLabel)
	if err != nil {
		return nil, fmt.Errorf("could not list day results: %w", err)
	}

	return &Listing{
		Results:   res,
		Summaries: model.SummarizeResults(res),
	}, nil
}
