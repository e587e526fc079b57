package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/daysim/internal/model"
)

func TestSummarizeResults(t *testing.T) {
	tests := map[string]struct {
		results []model.DayResult
		exp     []model.AgentSummary
	}{
		"No results": {},
		"Multiple agents keep first appearance order": {
			results: []model.DayResult{
				{AgentLabel: "llm", TasksCompleted: 6, TotalTasks: 6, SuccessRate: 1, EnergyLeft: 40},
				{AgentLabel: "greedy", TasksCompleted: 3, TotalTasks: 6, SuccessRate: 0.5, EnergyLeft: 70},
				{AgentLabel: "llm", TasksCompleted: 3, TotalTasks: 6, SuccessRate: 0.5, EnergyLeft: 20},
			},
			exp: []model.AgentSummary{
				{AgentLabel: "llm", Days: 2, TasksCompleted: 9, TotalTasks: 12, MeanSuccessRate: 0.75, MeanEnergyLeft: 30},
				{AgentLabel: "greedy", Days: 1, TasksCompleted: 3, TotalTasks: 6, MeanSuccessRate: 0.5, MeanEnergyLeft: 70},
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, model.SummarizeResults(test.results))
		})
	}
}
