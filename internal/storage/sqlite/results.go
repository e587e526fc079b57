package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/slok/daysim/internal/model"
)

// SaveDayResult stores a day result.
func (r *Repository) SaveDayResult(ctx context.Context, res model.DayResult) error {
	if res.ID == "" {
		return fmt.Errorf("id is required: %w", model.ErrNotValid)
	}

	query := `
		INSERT INTO day_results (
			id, agent_label,
			tasks_completed, total_tasks,
			success_rate, energy_left,
			created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		res.ID,
		res.AgentLabel,
		res.TasksCompleted,
		res.TotalTasks,
		res.SuccessRate,
		res.EnergyLeft,
		res.CreatedAt.Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: day_results.") {
			return fmt.Errorf("day result already exists: %w", model.ErrAlreadyExists)
		}
		return fmt.Errorf("could not insert day result: %w", err)
	}

	r.logger.Debugf("Saved day result: %s", res.ID)
	return nil
}

// ListDayResults returns the stored results, oldest first.
func (r *Repository) ListDayResults(ctx context.Context, agentLabel string) ([]model.DayResult, error) {
	query := `
		SELECT
			id, agent_label,
			tasks_completed, total_tasks,
			success_rate, energy_left,
			created_at
		FROM day_results
		WHERE (? = '' OR agent_label = ?)
		ORDER BY created_at ASC, rowid ASC
	`

	rows, err := r.db.QueryContext(ctx, query, agentLabel, agentLabel)
	if err != nil {
		return nil, fmt.Errorf("could not query day results: %w", err)
	}
	defer rows.Close()

	var results []model.DayResult
	for rows.Next() {
		var res model.DayResult
		var createdAt int64
		err := rows.Scan(
			&res.ID,
			&res.AgentLabel,
			&res.TasksCompleted,
			&res.TotalTasks,
			&res.SuccessRate,
			&res.EnergyLeft,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		res.CreatedAt = time.Unix(createdAt, 0).UTC()
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}
