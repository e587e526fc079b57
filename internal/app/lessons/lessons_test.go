package lessons_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/daysim/internal/app/lessons"
	"github.com/slok/daysim/internal/storage/memory"
)

type failingRepo struct{}

func (failingRepo) AppendLesson(context.Context, string, int) error { return errors.New("boom") }
func (failingRepo) ListLessons(context.Context) ([]string, error)   { return nil, errors.New("boom") }

func TestServiceList(t *testing.T) {
	tests := map[string]struct {
		setup      func(t *testing.T) *lessons.Service
		expLessons []string
		expErr     bool
	}{
		"Stored lessons are listed oldest first.": {
			setup: func(t *testing.T) *lessons.Service {
				repo, err := memory.NewRepository(memory.RepositoryConfig{})
				require.NoError(t, err)
				require.NoError(t, repo.AppendLesson(context.Background(), "first", 5))
				require.NoError(t, repo.AppendLesson(context.Background(), "second", 5))
				svc, err := lessons.NewService(lessons.ServiceConfig{Repository: repo})
				require.NoError(t, err)
				return svc
			},
			expLessons: []string{"first", "second"},
		},

		"Storage errors are returned.": {
			setup: func(t *testing.T) *lessons.Service {
				svc, err := lessons.NewService(lessons.ServiceConfig{Repository: failingRepo{}})
				require.NoError(t, err)
				return svc
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := test.setup(t).List(context.Background())
			if test.expErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expLessons, got)
		})
	}
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := lessons.NewService(lessons.ServiceConfig{})
	assert.Error(t, err)
}
