package lib

import (
	"time"

	"github.com/slok/daysim/internal/model"
)

// PlannerType selects who orders the tasks of a day.
type PlannerType string

const (
	// PlannerLLM uses the Gemini backed planning controller.
	PlannerLLM PlannerType = "llm"
	// PlannerGreedy sorts by shortest estimate.
	PlannerGreedy PlannerType = "greedy"
)

// Task is a unit of work of a day.
type Task struct {
	ID                    string
	Description           string
	EstimatedDurationMins int
	// Priority goes from 1 (high) to 5 (low), 0 means 1.
	Priority     int
	Dependencies []string
}

// Profile is the simulated operator capacity.
type Profile struct {
	DailyEnergyCap      float64
	WorkSpeedMultiplier float64
	StartHour           int
	EndHour             int
}

// DefaultProfile returns the default 9 to 17 operator.
func DefaultProfile() Profile {
	p := model.DefaultUserProfile()
	return Profile{
		DailyEnergyCap:      p.DailyEnergyCap,
		WorkSpeedMultiplier: p.WorkSpeedMultiplier,
		StartHour:           p.StartHour,
		EndHour:             p.EndHour,
	}
}

// DayResult is the summary of a simulated day.
type DayResult struct {
	ID             string
	AgentLabel     string
	TasksCompleted int
	TotalTasks     int
	SuccessRate    float64
	EnergyLeft     float64
	CreatedAt      time.Time
}

// DayReport is the full outcome of a simulated day.
type DayReport struct {
	Result      DayResult
	PlanOutcome string
	// EndTime is the wall clock when the day ended (HH:MM).
	EndTime string
	Replans int
	Pending []string
	History []string
	// HaltedOn is the ID of the task that didn't fit, if any.
	HaltedOn string
	Lesson   string
}

func (t Task) toModel() *model.Task {
	prio := t.Priority
	if prio == 0 {
		prio = 1
	}
	return &model.Task{
		ID:                    t.ID,
		Description:           t.Description,
		EstimatedDurationMins: t.EstimatedDurationMins,
		DeadlineDay:           1,
		Priority:              prio,
		Dependencies:          t.Dependencies,
		Status:                model.TaskStatusPending,
	}
}

func (p Profile) toModel() model.UserProfile {
	m := model.DefaultUserProfile()
	m.DailyEnergyCap = p.DailyEnergyCap
	m.WorkSpeedMultiplier = p.WorkSpeedMultiplier
	m.StartHour = p.StartHour
	m.EndHour = p.EndHour
	return m
}

func fromModelResult(r model.DayResult) DayResult {
	return DayResult{
		ID:             r.ID,
		AgentLabel:     r.AgentLabel,
		TasksCompleted: r.TasksCompleted,
		TotalTasks:     r.TotalTasks,
		SuccessRate:    r.SuccessRate,
		EnergyLeft:     r.EnergyLeft,
		CreatedAt:      r.CreatedAt,
	}
}

func fromModelReport(r model.DayReport) DayReport {
	rep := DayReport{
		Result:      fromModelResult(r.Result),
		PlanOutcome: string(r.PlanOutcome),
		EndTime:     model.FormatClock(r.EndTimeMins),
		Replans:     r.Replans,
		Pending:     r.Pending,
		History:     r.History,
		Lesson:      r.Lesson,
	}
	if r.Halt != nil {
		rep.HaltedOn = r.Halt.TaskID
	}
	return rep
}
