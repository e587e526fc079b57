package day_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/daysim/internal/app/day"
	enginefake "github.com/slok/daysim/internal/engine/fake"
	"github.com/slok/daysim/internal/feedback"
	"github.com/slok/daysim/internal/model"
	"github.com/slok/daysim/internal/planner"
	reasoningfake "github.com/slok/daysim/internal/reasoning/fake"
	"github.com/slok/daysim/internal/storage/memory"
)

func newTasks(ids ...string) []*model.Task {
	tasks := make([]*model.Task, 0, len(ids))
	for i, id := range ids {
		tasks = append(tasks, &model.Task{
			ID:                    id,
			Description:           "Task " + id,
			EstimatedDurationMins: 30 * (i + 1),
			DeadlineDay:           1,
			Priority:              3,
			Status:                model.TaskStatusPending,
		})
	}
	return tasks
}

type failingLessons struct{}

func (failingLessons) Append(context.Context, string) error { return errors.New("disk full") }

type failingResults struct{}

func (failingResults) SaveDayResult(context.Context, model.DayResult) error {
	return errors.New("disk full")
}
func (failingResults) ListDayResults(context.Context, string) ([]model.DayResult, error) {
	return nil, errors.New("disk full")
}

var fixedNow = time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)

func TestServiceRun(t *testing.T) {
	tests := map[string]struct {
		tasks         []*model.Task
		steps         []enginefake.Step
		orderings     []reasoningfake.OrderingAnswer
		options       day.RunOptions
		expExecuted   []string
		expCompleted  int
		expPending    []string
		expHalt       *model.Halt
		expReplans    int
		expLesson     string
		expEndTime    int
		expEnergyLeft float64
		expSuccess    float64
		expLessons    []string
		check         func(t *testing.T, r *model.DayReport)
	}{
		"A day without incidents should complete every task.": {
			tasks:         newTasks("a", "b", "c"),
			options:       day.RunOptions{PlanOptions: model.PlanOptions{UseMemory: true}},
			expExecuted:   []string{"a", "b", "c"},
			expCompleted:  3,
			expPending:    []string{},
			expLesson:     day.LessonSuccess,
			expEndTime:    540 + 30 + 60 + 90,
			expEnergyLeft: 70,
			expSuccess:    1,
			expLessons:    []string{day.LessonSuccess},
		},

		"A failing task should halt the day.": {
			tasks: newTasks("a", "b", "c"),
			steps: []enginefake.Step{
				{},
				{Fail: true, Message: "Ran out of time on 'Task b'. Required 90m, but day ends in 60m (short by 30m)."},
			},
			options:      day.RunOptions{PlanOptions: model.PlanOptions{UseMemory: true}},
			expExecuted:  []string{"a", "b"},
			expCompleted: 1,
			expPending:   []string{"b", "c"},
			expHalt: &model.Halt{
				TaskID:  "b",
				Message: "Ran out of time on 'Task b'. Required 90m, but day ends in 60m (short by 30m).",
			},
			expLesson:     "Failure: Missed 2 tasks. Do not over-commit on deadlines.",
			expEndTime:    570,
			expEnergyLeft: 90,
			expSuccess:    1.0 / 3.0,
			expLessons:    []string{"Failure: Missed 2 tasks. Do not over-commit on deadlines."},
		},

		"An interruption should trigger a replan of the remaining tasks.": {
			tasks: newTasks("a", "b", "c"),
			steps: []enginefake.Step{
				{CostMins: 50, Message: "Task 'Task a' done in 30m (Est: 30m). + 20m interruption."},
			},
			orderings: []reasoningfake.OrderingAnswer{
				{Ordering: &model.Ordering{TaskIDs: []string{"a", "b", "c"}}},
				{Ordering: &model.Ordering{TaskIDs: []string{"c", "b"}}},
			},
			expExecuted:   []string{"a", "c", "b"},
			expCompleted:  3,
			expPending:    []string{},
			expReplans:    1,
			expLesson:     day.LessonSuccess,
			expEndTime:    540 + 50 + 90 + 60,
			expEnergyLeft: 70,
			expSuccess:    1,
		},

		"Marker words in a task description should not replan.": {
			tasks: func() []*model.Task {
				ts := newTasks("a", "b")
				ts[0].Description = "Review interruption policy when tired after DELAY"
				return ts
			}(),
			expExecuted:   []string{"a", "b"},
			expCompleted:  2,
			expPending:    []string{},
			expLesson:     day.LessonSuccess,
			expEndTime:    540 + 30 + 60,
			expEnergyLeft: 80,
			expSuccess:    1,
		},

		"Fatigue on the last task should not replan.": {
			tasks: newTasks("a"),
			steps: []enginefake.Step{
				{Message: "Task 'Task a' done in 45m (Est: 30m). (User was tired)."},
			},
			expExecuted:   []string{"a"},
			expCompleted:  1,
			expPending:    []string{},
			expLesson:     day.LessonSuccess,
			expEndTime:    570,
			expEnergyLeft: 90,
			expSuccess:    1,
		},

		"A crisis after the second execution should delay the day and replan.": {
			tasks:         newTasks("a", "b", "c"),
			options:       day.RunOptions{Perturbations: []day.Perturbation{day.Crisis()}},
			expExecuted:   []string{"a", "b", "c"},
			expCompleted:  3,
			expPending:    []string{},
			expReplans:    1,
			expLesson:     day.LessonSuccess,
			expEndTime:    540 + 30 + 60 + 120 + 90,
			expEnergyLeft: 40,
			expSuccess:    1,
			check: func(t *testing.T, r *model.DayReport) {
				require.Len(t, r.History, 3)
				assert.True(t, strings.HasSuffix(r.History[1], " + (MAJOR UNEXPECTED DELAY)"))
				assert.NotContains(t, r.History[0], "DELAY")
			},
		},

		"Low energy at the end of the day should be a burnout lesson.": {
			tasks:         newTasks("a", "b"),
			steps:         []enginefake.Step{{EnergyCost: 50}, {EnergyCost: 45}},
			options:       day.RunOptions{PlanOptions: model.PlanOptions{UseMemory: true}},
			expExecuted:   []string{"a", "b"},
			expCompleted:  2,
			expPending:    []string{},
			expLesson:     day.LessonBurnout,
			expEndTime:    630,
			expEnergyLeft: 5,
			expSuccess:    1,
			expLessons:    []string{day.LessonBurnout},
		},

		"Running out of day should leave tasks pending without a halt.": {
			tasks:         newTasks("a", "b", "c"),
			steps:         []enginefake.Step{{CostMins: 480}},
			expExecuted:   []string{"a"},
			expCompleted:  1,
			expPending:    []string{"b", "c"},
			expLesson:     "Failure: Missed 2 tasks. Do not over-commit on deadlines.",
			expEndTime:    1020,
			expEnergyLeft: 90,
			expSuccess:    1.0 / 3.0,
		},

		"Memory disabled should not save the lesson.": {
			tasks:         newTasks("a"),
			options:       day.RunOptions{PlanOptions: model.PlanOptions{UseMemory: false}},
			expExecuted:   []string{"a"},
			expCompleted:  1,
			expPending:    []string{},
			expLesson:     day.LessonSuccess,
			expEndTime:    570,
			expEnergyLeft: 90,
			expSuccess:    1,
		},

		"A day without tasks should have a zero success rate.": {
			tasks:         []*model.Task{},
			options:       day.RunOptions{PlanOptions: model.PlanOptions{UseMemory: true}},
			expExecuted:   nil,
			expPending:    []string{},
			expLesson:     day.LessonSuccess,
			expEndTime:    540,
			expEnergyLeft: 100,
			expSuccess:    0,
			expLessons:    []string{day.LessonSuccess},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			exec, err := enginefake.NewExecutor(enginefake.ExecutorConfig{Steps: test.steps})
			require.NoError(t, err)
			reasoner, err := reasoningfake.NewReasoner(reasoningfake.ReasonerConfig{Orderings: test.orderings})
			require.NoError(t, err)
			plnr, err := planner.NewController(planner.ControllerConfig{Reasoner: reasoner})
			require.NoError(t, err)
			repo, err := memory.NewRepository(memory.RepositoryConfig{})
			require.NoError(t, err)
			store, err := feedback.NewStore(feedback.StoreConfig{Repository: repo})
			require.NoError(t, err)

			svc, err := day.NewService(day.ServiceConfig{
				Planner:     plnr,
				Executor:    exec,
				Lessons:     store,
				Results:     repo,
				TimeNowFunc: func() time.Time { return fixedNow },
			})
			require.NoError(t, err)

			opts := test.options
			opts.AgentLabel = "agent"
			opts.Tasks = test.tasks
			opts.Profile = model.DefaultUserProfile()

			report, err := svc.Run(ctx, opts)
			require.NoError(t, err)

			assert.Equal(t, test.expExecuted, exec.Executed())
			assert.Equal(t, test.expCompleted, report.Result.TasksCompleted)
			assert.Equal(t, len(test.tasks), report.Result.TotalTasks)
			assert.InDelta(t, test.expSuccess, report.Result.SuccessRate, 1e-9)
			assert.InDelta(t, test.expEnergyLeft, report.Result.EnergyLeft, 1e-9)
			assert.Equal(t, test.expPending, report.Pending)
			assert.Equal(t, test.expHalt, report.Halt)
			assert.Equal(t, test.expReplans, report.Replans)
			assert.Equal(t, test.expLesson, report.Lesson)
			assert.Equal(t, test.expEndTime, report.EndTimeMins)
			assert.Len(t, report.History, len(test.expExecuted))
			assert.Equal(t, fixedNow, report.Result.CreatedAt)
			if test.expLessons == nil {
				assert.Empty(t, store.Lessons(ctx))
			} else {
				assert.Equal(t, test.expLessons, store.Lessons(ctx))
			}

			results, err := repo.ListDayResults(ctx, "agent")
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, report.Result, results[0])

			// Completed tasks keep their actual duration, the rest never get one.
			for _, task := range test.tasks {
				assert.Equal(t, task.Status == model.TaskStatusCompleted, task.ActualDurationMins != nil, task.ID)
			}

			if test.check != nil {
				test.check(t, report)
			}
		})
	}
}

func TestServiceRunInvalidOptions(t *testing.T) {
	badProfile := model.DefaultUserProfile()
	badProfile.StartHour, badProfile.EndHour = 10, 9

	completed := newTasks("a")
	completed[0].Status = model.TaskStatusCompleted
	d := 30
	completed[0].ActualDurationMins = &d

	tests := map[string]struct {
		opts day.RunOptions
	}{
		"Missing agent label": {
			opts: day.RunOptions{Tasks: newTasks("a"), Profile: model.DefaultUserProfile()},
		},
		"Invalid profile": {
			opts: day.RunOptions{AgentLabel: "x", Tasks: newTasks("a"), Profile: badProfile},
		},
		"Duplicated task IDs": {
			opts: day.RunOptions{AgentLabel: "x", Tasks: newTasks("a", "a"), Profile: model.DefaultUserProfile()},
		},
		"Already executed task": {
			opts: day.RunOptions{AgentLabel: "x", Tasks: completed, Profile: model.DefaultUserProfile()},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			exec, err := enginefake.NewExecutor(enginefake.ExecutorConfig{})
			require.NoError(t, err)
			svc, err := day.NewService(day.ServiceConfig{Planner: planner.ShortestJobFirst{}, Executor: exec})
			require.NoError(t, err)

			_, err = svc.Run(context.Background(), test.opts)
			assert.Error(t, err)
			assert.Empty(t, exec.Executed())
		})
	}
}

func TestServiceRunIgnoresStorageErrors(t *testing.T) {
	exec, err := enginefake.NewExecutor(enginefake.ExecutorConfig{})
	require.NoError(t, err)
	svc, err := day.NewService(day.ServiceConfig{
		Planner:  planner.ShortestJobFirst{},
		Executor: exec,
		Lessons:  failingLessons{},
		Results:  failingResults{},
	})
	require.NoError(t, err)

	report, err := svc.Run(context.Background(), day.RunOptions{
		AgentLabel:  "greedy",
		Tasks:       newTasks("a", "b"),
		Profile:     model.DefaultUserProfile(),
		PlanOptions: model.PlanOptions{UseMemory: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Result.TasksCompleted)
	assert.Equal(t, model.PlanOutcomeHeuristic, report.PlanOutcome)
}

func TestServiceRunContextCancelled(t *testing.T) {
	exec, err := enginefake.NewExecutor(enginefake.ExecutorConfig{})
	require.NoError(t, err)
	svc, err := day.NewService(day.ServiceConfig{Planner: planner.ShortestJobFirst{}, Executor: exec})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = svc.Run(ctx, day.RunOptions{AgentLabel: "greedy", Tasks: newTasks("a"), Profile: model.DefaultUserProfile()})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, exec.Executed())
}

func TestLesson(t *testing.T) {
	tests := map[string]struct {
		energy  float64
		pending int
		exp     string
	}{
		"Burnout wins over missed tasks": {energy: 19.9, pending: 3, exp: day.LessonBurnout},
		"Negative energy is burnout":     {energy: -10, pending: 0, exp: day.LessonBurnout},
		"Missed tasks":                   {energy: 20, pending: 1, exp: "Failure: Missed 1 tasks. Do not over-commit on deadlines."},
		"Success":                        {energy: 50, pending: 0, exp: day.LessonSuccess},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, day.Lesson(test.energy, test.pending))
		})
	}
}

func TestIsDelaySignal(t *testing.T) {
	tests := map[string]struct {
		msg         string
		description string
		exp         bool
	}{
		"Plain completion": {msg: "Task 'x' done in 30m (Est: 30m).", description: "x", exp: false},
		"Interruption":     {msg: "Task 'x' done in 30m (Est: 30m). + 20m interruption.", description: "x", exp: true},
		"Fatigue":          {msg: "Task 'x' done in 45m (Est: 30m). (User was tired).", description: "x", exp: true},
		"Crisis":           {msg: "Task 'x' done in 30m (Est: 30m). + (MAJOR UNEXPECTED DELAY)", description: "x", exp: true},
		"Markers in the description are ignored": {
			msg:         "Task 'Handle interruption when tired after DELAY' done in 30m (Est: 30m).",
			description: "Handle interruption when tired after DELAY",
			exp:         false,
		},
		"A description named as a marker keeps the real marker": {
			msg:         "Task 'tired' done in 45m (Est: 30m). (User was tired).",
			description: "tired",
			exp:         true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, day.IsDelaySignal(test.msg, test.description))
		})
	}
}
