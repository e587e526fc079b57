package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/daysim/internal/log"
	"github.com/slok/daysim/internal/model"
	"github.com/slok/daysim/internal/storage/sqlite"
)

func newRepo(t *testing.T, path string) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{
		DBPath: path,
		Logger: log.Noop,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestNewRepositoryRequiresPath(t *testing.T) {
	_, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db path is required")
}

func TestRepositoryLessons(t *testing.T) {
	tests := map[string]struct {
		lessons    []string
		keep       int
		expLessons []string
		expErr     bool
	}{
		"No lessons should return an empty list.": {
			keep:       5,
			expLessons: []string{},
		},

		"Lessons under the limit should be kept in order.": {
			lessons:    []string{"a", "b", "c"},
			keep:       5,
			expLessons: []string{"a", "b", "c"},
		},

		"A sixth lesson should drop the oldest one.": {
			lessons:    []string{"1", "2", "3", "4", "5", "6"},
			keep:       5,
			expLessons: []string{"2", "3", "4", "5", "6"},
		},

		"An invalid limit should fail.": {
			lessons: []string{"a"},
			keep:    0,
			expErr:  true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t, filepath.Join(t.TempDir(), "test.db"))

			for _, l := range test.lessons {
				err := repo.AppendLesson(ctx, l, test.keep)
				if test.expErr {
					assert.True(t, errors.Is(err, model.ErrNotValid))
					return
				}
				require.NoError(t, err)
			}

			got, err := repo.ListLessons(ctx)
			require.NoError(t, err)
			assert.Equal(t, test.expLessons, got)
		})
	}
}

func TestRepositoryLessonsPersistAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	repo1, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{DBPath: path})
	require.NoError(t, err)
	for i := 1; i <= 7; i++ {
		require.NoError(t, repo1.AppendLesson(ctx, fmt.Sprintf("day-%d", i), 5))
	}
	require.NoError(t, repo1.Close())

	repo2 := newRepo(t, path)
	got, err := repo2.ListLessons(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"day-3", "day-4", "day-5", "day-6", "day-7"}, got)
}

func TestRepositoryLessonsConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, filepath.Join(t.TempDir(), "test.db"))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.AppendLesson(ctx, fmt.Sprintf("lesson-%d", i), 5))
		}(i)
	}
	wg.Wait()

	got, err := repo.ListLessons(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestRepositoryDayResults(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, filepath.Join(t.TempDir(), "test.db"))

	createdAt := time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)
	results := []model.DayResult{
		{ID: "r1", AgentLabel: "greedy", TasksCompleted: 3, TotalTasks: 6, SuccessRate: 0.5, EnergyLeft: 40, CreatedAt: createdAt},
		{ID: "r2", AgentLabel: "llm", TasksCompleted: 6, TotalTasks: 6, SuccessRate: 1, EnergyLeft: 25.5, CreatedAt: createdAt},
		{ID: "r3", AgentLabel: "greedy", TasksCompleted: 4, TotalTasks: 6, SuccessRate: 4.0 / 6.0, EnergyLeft: 30, CreatedAt: createdAt.Add(time.Minute)},
	}
	for _, r := range results {
		require.NoError(t, repo.SaveDayResult(ctx, r))
	}

	all, err := repo.ListDayResults(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, results, all)

	greedy, err := repo.ListDayResults(ctx, "greedy")
	require.NoError(t, err)
	assert.Equal(t, []model.DayResult{results[0], results[2]}, greedy)

	err = repo.SaveDayResult(ctx, results[0])
	assert.True(t, errors.Is(err, model.ErrAlreadyExists))

	err = repo.SaveDayResult(ctx, model.DayResult{AgentLabel: "llm"})
	assert.True(t, errors.Is(err, model.ErrNotValid))
}
