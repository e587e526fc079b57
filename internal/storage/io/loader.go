package io

import (
	"context"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/slok/daysim/internal/model"
)

// ScenarioYAMLRepository loads day scenarios from YAML files.
type ScenarioYAMLRepository struct {
	fs fs.FS
}

// NewScenarioYAMLRepository creates a new YAML scenario repository.
func NewScenarioYAMLRepository(filesystem fs.FS) *ScenarioYAMLRepository {
	return &ScenarioYAMLRepository{fs: filesystem}
}

// GetScenario loads a day scenario from a YAML file and returns a validated domain model.
func (r *ScenarioYAMLRepository) GetScenario(ctx context.Context, path string) (*model.DayScenario, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var sc ScenarioConfig
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	scenario := sc.toModel()
	if err := scenario.Profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	if len(scenario.Tasks) == 0 {
		return nil, fmt.Errorf("at least one task is required: %w", model.ErrNotValid)
	}
	if err := model.ValidateTasks(scenario.Tasks); err != nil {
		return nil, fmt.Errorf("invalid tasks: %w", err)
	}

	return scenario, nil
}

// ScenarioConfig represents the YAML structure of a day scenario.
type ScenarioConfig struct {
	Profile ProfileConfig `yaml:"profile"`
	Tasks   []TaskConfig  `yaml:"tasks"`
	Options OptionsConfig `yaml:"options"`
	Crisis  bool          `yaml:"crisis"`
}

// OptionsConfig represents the YAML structure of the planning options, both enabled by default.
type OptionsConfig struct {
	Critique *bool `yaml:"critique"`
	Memory   *bool `yaml:"memory"`
}

// ProfileConfig represents the YAML structure of the operator profile. Missing fields use the defaults.
type ProfileConfig struct {
	DailyEnergyCap      *float64 `yaml:"daily_energy_cap"`
	FocusDecayRate      *float64 `yaml:"focus_decay_rate"`
	ProcrastinationProb *float64 `yaml:"procrastination_prob"`
	WorkSpeedMultiplier *float64 `yaml:"work_speed_multiplier"`
	StartHour           *int     `yaml:"start_hour"`
	EndHour             *int     `yaml:"end_hour"`
}

// TaskConfig represents the YAML structure of a task.
type TaskConfig struct {
	ID                    string   `yaml:"id"`
	Description           string   `yaml:"description"`
	EstimatedDurationMins int      `yaml:"estimated_duration_mins"`
	DeadlineDay           int      `yaml:"deadline_day"`
	Priority              int      `yaml:"priority"`
	Dependencies          []string `yaml:"dependencies"`
}

func (c ScenarioConfig) toModel() *model.DayScenario {
	p := model.DefaultUserProfile()
	setIf(&p.DailyEnergyCap, c.Profile.DailyEnergyCap)
	setIf(&p.FocusDecayRate, c.Profile.FocusDecayRate)
	setIf(&p.ProcrastinationProb, c.Profile.ProcrastinationProb)
	setIf(&p.WorkSpeedMultiplier, c.Profile.WorkSpeedMultiplier)
	setIf(&p.StartHour, c.Profile.StartHour)
	setIf(&p.EndHour, c.Profile.EndHour)

	tasks := make([]*model.Task, 0, len(c.Tasks))
	for _, t := range c.Tasks {
		task := &model.Task{
			ID:                    t.ID,
			Description:           t.Description,
			EstimatedDurationMins: t.EstimatedDurationMins,
			DeadlineDay:           t.DeadlineDay,
			Priority:              t.Priority,
			Dependencies:          t.Dependencies,
			Status:                model.TaskStatusPending,
		}
		if task.DeadlineDay == 0 {
			task.DeadlineDay = 1
		}
		if task.Priority == 0 {
			task.Priority = 1
		}
		tasks = append(tasks, task)
	}

	opts := model.PlanOptions{UseCritique: true, UseMemory: true}
	setIf(&opts.UseCritique, c.Options.Critique)
	setIf(&opts.UseMemory, c.Options.Memory)

	return &model.DayScenario{Profile: p, Tasks: tasks, Options: opts, Crisis: c.Crisis}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
