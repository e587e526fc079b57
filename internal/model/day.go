package model

import "time"

// DayResult is the minimal per-day summary used for batch analysis.
type DayResult struct {
	ID             string
	AgentLabel     string
	TasksCompleted int
	TotalTasks     int
	SuccessRate    float64
	EnergyLeft     float64
	CreatedAt      time.Time
}

// Halt describes why a day stopped before running out of tasks or time.
type Halt struct {
	TaskID  string
	Message string
}

// DayReport is the full outcome of a simulated day.
type DayReport struct {
	Result      DayResult
	PlanOutcome PlanOutcome
	EndTimeMins int
	Replans     int
	// Pending are the IDs of the tasks left when the day ended.
	Pending []string
	History []string
	Halt    *Halt
	Lesson  string
}

// DayScenario is a hand written day: the operator profile and its tasks.
type DayScenario struct {
	Profile UserProfile
	Tasks   []*Task
	Options PlanOptions
	// Crisis injects the two hour emergency after the second execution.
	Crisis bool
}
