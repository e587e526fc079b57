package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), append([]string{"daysim", "--no-log"}, args...), nil, &stdout, &stderr)
	return stdout.String(), err
}

func TestRunGreedyDayStoresLessonAndResult(t *testing.T) {
	dataDir := t.TempDir()

	out, err := runCLI(t, "--data-dir", dataDir, "run", "--planner", "greedy", "--seed", "3", "--format", "json")
	require.NoError(t, err)

	var report struct {
		Result struct {
			AgentLabel string `json:"agent_label"`
			TotalTasks int    `json:"total_tasks"`
		} `json:"result"`
		PlanOutcome string `json:"plan_outcome"`
		Lesson      string `json:"lesson"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "greedy", report.Result.AgentLabel)
	assert.Equal(t, 6, report.Result.TotalTasks)
	assert.Equal(t, "heuristic", report.PlanOutcome)
	assert.NotEmpty(t, report.Lesson)

	out, err = runCLI(t, "--data-dir", dataDir, "results", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"agent_label": "greedy"`)

	// The greedy baseline doesn't learn.
	out, err = runCLI(t, "--data-dir", dataDir, "lessons", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"lessons": []}`, out)
}

func TestRunScenario(t *testing.T) {
	dir := t.TempDir()
	scenario := filepath.Join(dir, "day.yaml")
	require.NoError(t, os.WriteFile(scenario, []byte(`profile:
  start_hour: 9
  end_hour: 10
tasks:
  - id: big
    description: Write Report 1
    estimated_duration_mins: 300
`), 0o600))

	out, err := runCLI(t, "--data-dir", dir, "--store", "memory", "run", "--planner", "greedy", "--scenario", scenario, "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Halted:     big")
	assert.Contains(t, out, "Completed:  0/1 (0%)")
}

func TestEvaluateGreedy(t *testing.T) {
	out, err := runCLI(t, "--data-dir", t.TempDir(), "--store", "json", "evaluate", "--agent", "greedy", "--days", "3", "--seed", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "MEAN SUCCESS")
	assert.Regexp(t, `greedy\s+3\s+`, out)
}

func TestRunLLMWithoutAPIKeyFails(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, err := runCLI(t, "--data-dir", t.TempDir(), "--store", "memory", "run", "--planner", "llm")
	assert.Error(t, err)
}

func TestInvalidCommand(t *testing.T) {
	_, err := runCLI(t, "fly")
	assert.Error(t, err)
}
