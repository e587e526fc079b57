package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/daysim/internal/app/results"
)

type ResultsCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	agent  string
	format string
}

// NewResultsCommand returns the results command.
func NewResultsCommand(rootCmd *RootCommand, app *kingpin.Application) *ResultsCommand {
	c := &ResultsCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("results", "List stored day results.")
	c.Cmd.Flag("agent", "Filter by agent label.").StringVar(&c.agent)
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func (c ResultsCommand) Name() string { return c.Cmd.FullCommand() }

func (c ResultsCommand) Run(ctx context.Context) error {
	repos, err := newRepositories(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer repos.Close()

	svc, err := results.NewService(results.ServiceConfig{
		Repository: repos.Results,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	listing, err := svc.List(ctx, results.ListOptions{AgentLabel: c.agent})
	if err != nil {
		return err
	}

	if err := newPrinter(c.format, c.rootCmd.Stdout).PrintResults(listing.Results, listing.Summaries); err != nil {
		return fmt.Errorf("could not print results: %w", err)
	}

	return nil
}
