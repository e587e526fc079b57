package printer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/slok/daysim/internal/model"
)

// TablePrinter prints simulation information in a human readable table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintDayReport prints the outcome of a day.
func (t *TablePrinter) PrintDayReport(r model.DayReport) error {
	fmt.Fprintf(t.writer, "Day:        %s\n", r.Result.ID)
	fmt.Fprintf(t.writer, "Agent:      %s\n", r.Result.AgentLabel)
	fmt.Fprintf(t.writer, "Simulated:  %s\n", FormatTimestamp(r.Result.CreatedAt))
	fmt.Fprintf(t.writer, "Plan:       %s\n", r.PlanOutcome)
	fmt.Fprintf(t.writer, "Replans:    %d\n", r.Replans)
	fmt.Fprintf(t.writer, "Ended at:   %s\n", FormatClock(r.EndTimeMins))
	fmt.Fprintf(t.writer, "Completed:  %d/%d (%s)\n", r.Result.TasksCompleted, r.Result.TotalTasks, FormatPercent(r.Result.SuccessRate))
	fmt.Fprintf(t.writer, "Energy:     %.0f\n", r.Result.EnergyLeft)

	if r.Halt != nil {
		fmt.Fprintf(t.writer, "Halted:     %s (%s)\n", r.Halt.TaskID, r.Halt.Message)
	}
	if len(r.Pending) > 0 {
		fmt.Fprintf(t.writer, "Pending:    %s\n", strings.Join(r.Pending, ", "))
	}
	fmt.Fprintf(t.writer, "Lesson:     %s\n", r.Lesson)

	if len(r.History) == 0 {
		return nil
	}

	fmt.Fprintln(t.writer)
	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "#\tRESULT")
	for i, msg := range r.History {
		fmt.Fprintf(tw, "%d\t%s\n", i+1, msg)
	}

	return nil
}

// PrintResults prints day results followed by the per agent summary.
func (t *TablePrinter) PrintResults(results []model.DayResult, summaries []model.AgentSummary) error {
	if len(results) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tAGENT\tCOMPLETED\tSUCCESS\tENERGY\tCREATED")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\t%.0f\t%s\n",
			r.ID,
			r.AgentLabel,
			r.TasksCompleted,
			r.TotalTasks,
			FormatPercent(r.SuccessRate),
			r.EnergyLeft,
			TimeAgo(r.CreatedAt),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(t.writer)
	tw = tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "AGENT\tDAYS\tCOMPLETED\tMEAN SUCCESS\tMEAN ENERGY")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%d/%d\t%s\t%.1f\n",
			s.AgentLabel,
			s.Days,
			s.TasksCompleted,
			s.TotalTasks,
			FormatPercent(s.MeanSuccessRate),
			s.MeanEnergyLeft,
		)
	}

	return nil
}

// PrintLessons prints the stored lessons, oldest first.
func (t *TablePrinter) PrintLessons(lessons []string) error {
	if len(lessons) == 0 {
		fmt.Fprintln(t.writer, "No past history.")
		return nil
	}

	for _, l := range lessons {
		fmt.Fprintf(t.writer, "- %s\n", l)
	}

	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}
