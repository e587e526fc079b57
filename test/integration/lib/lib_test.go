package lib_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdklib "github.com/slok/daysim/pkg/lib"
	intlib "github.com/slok/daysim/test/integration/lib"
)

func TestIntegrationSDKLLMDay(t *testing.T) {
	config := intlib.NewConfig(t)
	client := intlib.NewClient(t, config)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	tests := map[string]struct {
		opts        sdklib.RunDayOpts
		expOutcomes []string
	}{
		"Without critique the draft is used.": {
			opts:        sdklib.RunDayOpts{Planner: sdklib.PlannerLLM, Label: "llm-no-critique", NumTasks: 4, DisableCritique: true},
			expOutcomes: []string{"critique-disabled-draft", "fallback-input-order"},
		},
		"With critique the plan is approved or refined once.": {
			opts:        sdklib.RunDayOpts{Planner: sdklib.PlannerLLM, NumTasks: 4, Crisis: true},
			expOutcomes: []string{"approved-draft", "approved-after-one-refinement", "fallback-input-order"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			report, err := client.RunDay(ctx, test.opts)
			require.NoError(t, err)
			assert.Contains(t, test.expOutcomes, report.PlanOutcome)
			assert.Equal(t, report.Result.TotalTasks, report.Result.TasksCompleted+len(report.Pending))
			assert.NotEmpty(t, report.Lesson)
		})
	}

	lessons, err := client.Lessons(ctx)
	require.NoError(t, err)
	assert.Len(t, lessons, 2)
}
