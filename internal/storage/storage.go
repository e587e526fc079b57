package storage

import (
	"context"

	"github.com/slok/daysim/internal/model"
)

// LessonRepository is the persistence of the day-end lessons.
type LessonRepository interface {
	// AppendLesson appends a lesson and truncates the log to the most recent keep lessons
	// as a single atomic operation.
	AppendLesson(ctx context.Context, lesson string, keep int) error
	// ListLessons returns the stored lessons, oldest first.
	ListLessons(ctx context.Context) ([]string, error)
}

// DayResultRepository is the persistence of the per-day summaries.
type DayResultRepository interface {
	SaveDayResult(ctx context.Context, r model.DayResult) error
	// ListDayResults returns the results, oldest first. Empty label returns every agent.
	ListDayResults(ctx context.Context, agentLabel string) ([]model.DayResult, error)
}
