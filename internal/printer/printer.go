package printer

import "github.com/slok/daysim/internal/model"

// Printer knows how to print simulation information in different formats.
type Printer interface {
	PrintDayReport(report model.DayReport) error
	PrintResults(results []model.DayResult, summaries []model.AgentSummary) error
	PrintLessons(lessons []string) error
	PrintMessage(msg string) error
}

var (
	_ Printer = &TablePrinter{}
	_ Printer = &JSONPrinter{}
)
