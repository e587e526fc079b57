package model

import (
	"fmt"
	"slices"
)

// TaskStatus represents the execution state of a task.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusDelayed   TaskStatus = "delayed"
)

// Task is a single unit of schedulable work of a simulated day.
//
// Tasks are mutated in place only by the execution engine, and only once: when
// the task completes, ActualDurationMins and Status are set together.
type Task struct {
	ID                    string
	Description           string
	EstimatedDurationMins int
	DeadlineDay           int
	// Priority goes from 1 (high) to 5 (low).
	Priority int
	// Dependencies are task IDs this task depends on. They are carried as data,
	// nothing enforces the ordering.
	Dependencies []string
	Status       TaskStatus
	// ActualDurationMins is nil until the task is completed.
	ActualDurationMins *int
}

// Clone returns a deep copy of the task.
func (t Task) Clone() *Task {
	c := t
	c.Dependencies = slices.Clone(t.Dependencies)
	if t.ActualDurationMins != nil {
		d := *t.ActualDurationMins
		c.ActualDurationMins = &d
	}
	return &c
}

// Validate validates the task.
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("id is required: %w", ErrNotValid)
	}

	if t.EstimatedDurationMins <= 0 {
		return fmt.Errorf("task %s estimated duration must be positive: %w", t.ID, ErrNotValid)
	}

	if t.Priority < 1 || t.Priority > 5 {
		return fmt.Errorf("task %s priority must be between 1 and 5: %w", t.ID, ErrNotValid)
	}

	switch t.Status {
	case TaskStatusPending, TaskStatusCompleted, TaskStatusFailed, TaskStatusDelayed:
	default:
		return fmt.Errorf("task %s has unknown status %q: %w", t.ID, t.Status, ErrNotValid)
	}

	if (t.ActualDurationMins != nil) != (t.Status == TaskStatusCompleted) {
		return fmt.Errorf("task %s actual duration must be set only when completed: %w", t.ID, ErrNotValid)
	}

	return nil
}

// ValidateTasks validates every task and checks the IDs are unique.
func ValidateTasks(tasks []*Task) error {
	ids := make(map[string]struct{}, len(tasks))
	for i, t := range tasks {
		if t == nil {
			return fmt.Errorf("task %d is missing: %w", i, ErrNotValid)
		}
		if err := t.Validate(); err != nil {
			return err
		}
		if _, ok := ids[t.ID]; ok {
			return fmt.Errorf("task %s: %w", t.ID, ErrAlreadyExists)
		}
		ids[t.ID] = struct{}{}
	}

	return nil
}

// CloneTasks deep copies a task list.
func CloneTasks(tasks []*Task) []*Task {
	res := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		res = append(res, t.Clone())
	}
	return res
}
