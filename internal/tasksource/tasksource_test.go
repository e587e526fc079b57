package tasksource_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/daysim/internal/model"
	"github.com/slok/daysim/internal/tasksource"
)

func TestGeneratorGenerate(t *testing.T) {
	g, err := tasksource.NewGenerator(tasksource.GeneratorConfig{})
	require.NoError(t, err)

	tasks := g.Generate(50)
	require.Len(t, tasks, 50)
	require.NoError(t, model.ValidateTasks(tasks))

	for _, task := range tasks {
		assert.Contains(t, []int{30, 45, 60, 90, 120}, task.EstimatedDurationMins)
		assert.Equal(t, 1, task.DeadlineDay)
		assert.Equal(t, model.TaskStatusPending, task.Status)
		assert.Nil(t, task.ActualDurationMins)
	}
	assert.Regexp(t, `^\w+ \w+ 1$`, tasks[0].Description)
	assert.Regexp(t, `^\w+ \w+ 50$`, tasks[49].Description)
}

func TestSeededGeneratorIsReproducible(t *testing.T) {
	strip := func(tasks []*model.Task) []model.Task {
		res := make([]model.Task, 0, len(tasks))
		for _, t := range tasks {
			c := *t
			c.ID = ""
			res = append(res, c)
		}
		return res
	}

	g1, err := tasksource.NewSeededGenerator(42, nil)
	require.NoError(t, err)
	g2, err := tasksource.NewSeededGenerator(42, nil)
	require.NoError(t, err)

	t1, t2 := g1.Generate(10), g2.Generate(10)
	assert.Equal(t, strip(t1), strip(t2))

	ids := make([]string, 0, 20)
	for _, t := range append(t1, t2...) {
		ids = append(ids, t.ID)
	}
	slices.Sort(ids)
	assert.Len(t, slices.Compact(ids), 20)
}

func TestGeneratorZeroTasks(t *testing.T) {
	g, err := tasksource.NewGenerator(tasksource.GeneratorConfig{})
	require.NoError(t, err)
	assert.Empty(t, g.Generate(0))
}
