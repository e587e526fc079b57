// Package feedback is the bounded memory of past days. Day-end lessons are appended to it and
// planners read them back as a short digest.
package feedback

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/slok/daysim/internal/log"
	"github.com/slok/daysim/internal/storage"
)

const (
	// DefaultMaxLessons is the number of most recent lessons kept.
	DefaultMaxLessons = 5
	// NoHistory is the digest returned when there are no lessons.
	NoHistory = "No past history."
)

// StoreConfig is the configuration for the feedback store.
type StoreConfig struct {
	Repository storage.LessonRepository
	MaxLessons int
	Logger     log.Logger
}

func (c *StoreConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.MaxLessons == 0 {
		c.MaxLessons = DefaultMaxLessons
	}
	if c.MaxLessons < 0 {
		return fmt.Errorf("max lessons must be positive")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "feedback.Store"})
	return nil
}

// Store is the bounded lessons log shared by every simulated day. Appends are serialized.
type Store struct {
	repo       storage.LessonRepository
	maxLessons int
	mu         sync.Mutex
	logger     log.Logger
}

// NewStore creates a new feedback store.
func NewStore(cfg StoreConfig) (*Store, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Store{
		repo:       cfg.Repository,
		maxLessons: cfg.MaxLessons,
		logger:     cfg.Logger,
	}, nil
}

// Append adds a lesson, dropping the oldest ones over the limit.
func (s *Store) Append(ctx context.Context, lesson string) error {
	lesson = strings.TrimSpace(lesson)
	if lesson == "" {
		return fmt.Errorf("lesson can't be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.AppendLesson(ctx, lesson, s.maxLessons); err != nil {
		return fmt.Errorf("could not append lesson: %w", err)
	}

	s.logger.Infof("Lesson saved: %s", lesson)
	return nil
}

// Lessons returns the stored lessons, oldest first. Storage errors are an empty history.
func (s *Store) Lessons(ctx context.Context) []string {
	lessons, err := s.repo.ListLessons(ctx)
	if err != nil {
		s.logger.Warningf("Could not read lessons, using empty history: %s", err)
		return nil
	}

	// The backend could hold more if it was written with a bigger limit.
	if len(lessons) > s.maxLessons {
		lessons = lessons[len(lessons)-s.maxLessons:]
	}

	return lessons
}

// Digest returns the lessons as a bulleted newline-joined text, or NoHistory.
func (s *Store) Digest(ctx context.Context) string {
	lessons := s.Lessons(ctx)
	if len(lessons) == 0 {
		return NoHistory
	}

	lines := make([]string, 0, len(lessons))
	for _, l := range lessons {
		lines = append(lines, "- "+l)
	}

	return strings.Join(lines, "\n")
}
