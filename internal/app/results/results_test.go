package results_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/daysim/internal/app/results"
	"github.com/slok/daysim/internal/model"
	"github.com/slok/daysim/internal/storage/memory"
)

func TestServiceList(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	stored := []model.DayResult{
		{ID: "d1", AgentLabel: "greedy", TasksCompleted: 3, TotalTasks: 6, SuccessRate: 0.5, EnergyLeft: 60, CreatedAt: t0},
		{ID: "d2", AgentLabel: "llm", TasksCompleted: 6, TotalTasks: 6, SuccessRate: 1, EnergyLeft: 30, CreatedAt: t0.Add(time.Minute)},
		{ID: "d3", AgentLabel: "greedy", TasksCompleted: 6, TotalTasks: 6, SuccessRate: 1, EnergyLeft: 40, CreatedAt: t0.Add(2 * time.Minute)},
	}

	tests := map[string]struct {
		opts         results.ListOptions
		expIDs       []string
		expSummaries []model.AgentSummary
	}{
		"Listing without filter returns every agent.": {
			expIDs: []string{"d1", "d2", "d3"},
			expSummaries: []model.AgentSummary{
				{AgentLabel: "greedy", Days: 2, TasksCompleted: 9, TotalTasks: 12, MeanSuccessRate: 0.75, MeanEnergyLeft: 50},
				{AgentLabel: "llm", Days: 1, TasksCompleted: 6, TotalTasks: 6, MeanSuccessRate: 1, MeanEnergyLeft: 30},
			},
		},

		"Listing by agent filters the results.": {
			opts:   results.ListOptions{AgentLabel: "llm"},
			expIDs: []string{"d2"},
			expSummaries: []model.AgentSummary{
				{AgentLabel: "llm", Days: 1, TasksCompleted: 6, TotalTasks: 6, MeanSuccessRate: 1, MeanEnergyLeft: 30},
			},
		},

		"Listing an unknown agent is empty.": {
			opts: results.ListOptions{AgentLabel: "nobody"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo, err := memory.NewRepository(memory.RepositoryConfig{})
			require.NoError(t, err)
			for _, r := range stored {
				require.NoError(t, repo.SaveDayResult(ctx, r))
			}

			svc, err := results.NewService(results.ServiceConfig{Repository: repo})
			require.NoError(t, err)

			got, err := svc.List(ctx, test.opts)
			require.NoError(t, err)

			var ids []string
			for _, r := range got.Results {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, test.expIDs, ids)
			assert.Equal(t, test.expSummaries, got.Summaries)
		})
	}
}
