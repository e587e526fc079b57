package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/daysim/internal/model"
)

// JSONPrinter prints simulation information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type dayResultOutput struct {
	ID             string    `json:"id"`
	AgentLabel     string    `json:"agent_label"`
	TasksCompleted int       `json:"tasks_completed"`
	TotalTasks     int       `json:"total_tasks"`
	SuccessRate    float64   `json:"success_rate"`
	EnergyLeft     float64   `json:"energy_left"`
	CreatedAt      time.Time `json:"created_at"`
}

type haltOutput struct {
	TaskID  string `json:"task_id"`
	Message string `json:"message"`
}

type dayReportOutput struct {
	Result      dayResultOutput `json:"result"`
	PlanOutcome string          `json:"plan_outcome"`
	Replans     int             `json:"replans"`
	EndTime     string          `json:"end_time"`
	Pending     []string        `json:"pending"`
	History     []string        `json:"history"`
	Halt        *haltOutput     `json:"halt,omitempty"`
	Lesson      string          `json:"lesson"`
}

type agentSummaryOutput struct {
	AgentLabel      string  `json:"agent_label"`
	Days            int     `json:"days"`
	TasksCompleted  int     `json:"tasks_completed"`
	TotalTasks      int     `json:"total_tasks"`
	MeanSuccessRate float64 `json:"mean_success_rate"`
	MeanEnergyLeft  float64 `json:"mean_energy_left"`
}

type resultsOutput struct {
	Results   []dayResultOutput    `json:"results"`
	Summaries []agentSummaryOutput `json:"summaries"`
}

type lessonsOutput struct {
	Lessons []string `json:"lessons"`
}

type messageOutput struct {
	Message string `json:"message"`
}

func toDayResultOutput(r model.DayResult) dayResultOutput {
	return dayResultOutput{
		ID:             r.ID,
		AgentLabel:     r.AgentLabel,
		TasksCompleted: r.TasksCompleted,
		TotalTasks:     r.TotalTasks,
		SuccessRate:    r.SuccessRate,
		EnergyLeft:     r.EnergyLeft,
		CreatedAt:      r.CreatedAt.UTC(),
	}
}

// PrintDayReport prints the outcome of a day in JSON format.
func (j *JSONPrinter) PrintDayReport(r model.DayReport) error {
	output := dayReportOutput{
		Result:      toDayResultOutput(r.Result),
		PlanOutcome: string(r.PlanOutcome),
		Replans:     r.Replans,
		EndTime:     FormatClock(r.EndTimeMins),
		Pending:     nonNil(r.Pending),
		History:     nonNil(r.History),
		Lesson:      r.Lesson,
	}
	if r.Halt != nil {
		output.Halt = &haltOutput{TaskID: r.Halt.TaskID, Message: r.Halt.Message}
	}

	return j.encode(output)
}

// PrintResults prints day results and summaries in JSON format.
func (j *JSONPrinter) PrintResults(results []model.DayResult, summaries []model.AgentSummary) error {
	output := resultsOutput{
		Results:   make([]dayResultOutput, 0, len(results)),
		Summaries: make([]agentSummaryOutput, 0, len(summaries)),
	}
	for _, r := range results {
		output.Results = append(output.Results, toDayResultOutput(r))
	}
	for _, s := range summaries {
		output.Summaries = append(output.Summaries, agentSummaryOutput{
			AgentLabel:      s.AgentLabel,
			Days:            s.Days,
			TasksCompleted:  s.TasksCompleted,
			TotalTasks:      s.TotalTasks,
			MeanSuccessRate: s.MeanSuccessRate,
			MeanEnergyLeft:  s.MeanEnergyLeft,
		})
	}

	return j.encode(output)
}

// PrintLessons prints the stored lessons in JSON format.
func (j *JSONPrinter) PrintLessons(lessons []string) error {
	return j.encode(lessonsOutput{Lessons: nonNil(lessons)})
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
