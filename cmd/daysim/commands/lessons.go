package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/daysim/internal/app/lessons"
)

type LessonsCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewLessonsCommand returns the lessons command.
func NewLessonsCommand(rootCmd *RootCommand, app *kingpin.Application) *LessonsCommand {
	c := &LessonsCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("lessons", "List the lessons learned on past days.")
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func (c LessonsCommand) Name() string { return c.Cmd.FullCommand() }

func (c LessonsCommand) Run(ctx context.Context) error {
	repos, err := newRepositories(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer repos.Close()

	svc, err := lessons.NewService(lessons.ServiceConfig{
		Repository: repos.Lessons,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	ls, err := svc.List(ctx)
	if err != nil {
		return err
	}

	if err := newPrinter(c.format, c.rootCmd.Stdout).PrintLessons(ls); err != nil {
		return fmt.Errorf("could not print lessons: %w", err)
	}

	return nil
}
