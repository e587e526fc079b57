package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/daysim/internal/conventions"
	"github.com/slok/daysim/internal/log"
	"github.com/slok/daysim/internal/planner"
	"github.com/slok/daysim/internal/printer"
	"github.com/slok/daysim/internal/reasoning/gemini"
	"github.com/slok/daysim/internal/storage"
	"github.com/slok/daysim/internal/storage/jsonfile"
	"github.com/slok/daysim/internal/storage/memory"
	"github.com/slok/daysim/internal/storage/sqlite"
)

// repositories are the storage dependencies of a command.
type repositories struct {
	Lessons storage.LessonRepository
	Results storage.DayResultRepository
	close   func() error
}

func (r repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

func newRepositories(ctx context.Context, root *RootCommand) (*repositories, error) {
	logger := root.Logger

	switch root.Store {
	case StoreSQLite:
		repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
			DBPath: conventions.DBPath(root.DataDir),
			Logger: logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create sqlite repository: %w", err)
		}
		return &repositories{Lessons: repo, Results: repo, close: repo.Close}, nil

	case StoreJSON:
		lessons, err := jsonfile.NewRepository(jsonfile.RepositoryConfig{
			Path:   conventions.LessonsJSONPath(root.DataDir),
			Logger: logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create json repository: %w", err)
		}
		results, err := memory.NewRepository(memory.RepositoryConfig{Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("could not create memory repository: %w", err)
		}
		return &repositories{Lessons: lessons, Results: results}, nil

	case StoreMemory:
		repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("could not create memory repository: %w", err)
		}
		return &repositories{Lessons: repo, Results: repo}, nil
	}

	return nil, fmt.Errorf("unknown store %q", root.Store)
}

// llmFlags are the flags of the commands that talk with the reasoning service.
type llmFlags struct {
	apiKey  string
	model   string
	timeout time.Duration
}

func (f *llmFlags) register(cmd *kingpin.CmdClause) {
	cmd.Flag("gemini-api-key", "Gemini API key.").Envar("GEMINI_API_KEY").StringVar(&f.apiKey)
	cmd.Flag("gemini-model", "Gemini model name.").Envar("GEMINI_MODEL_NAME").Default(gemini.DefaultModel).StringVar(&f.model)
	cmd.Flag("llm-timeout", "Timeout of every reasoning service call.").Default("60s").DurationVar(&f.timeout)
}

// newController returns an LLM planner backed by Gemini.
func (f *llmFlags) newController(ctx context.Context, digester planner.Digester, logger log.Logger) (*planner.Controller, error) {
	client, err := gemini.NewClient(ctx, gemini.ClientConfig{
		APIKey: f.apiKey,
		Model:  f.model,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create gemini client: %w", err)
	}

	reasoner, err := gemini.NewReasoner(gemini.ReasonerConfig{Generator: client, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("could not create reasoner: %w", err)
	}

	return planner.NewController(planner.ControllerConfig{
		Reasoner: reasoner,
		Critic:   reasoner,
		Feedback: digester,
		Timeout:  f.timeout,
		Logger:   logger,
	})
}

func newPrinter(format string, w io.Writer) printer.Printer {
	switch format {
	case "json":
		return printer.NewJSONPrinter(w)
	default: // table
		return printer.NewTablePrinter(w)
	}
}
