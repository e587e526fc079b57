package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/daysim/internal/app/day"
	"github.com/slok/daysim/internal/conventions"
	"github.com/slok/daysim/internal/engine"
	"github.com/slok/daysim/internal/feedback"
	"github.com/slok/daysim/internal/model"
	"github.com/slok/daysim/internal/planner"
	"github.com/slok/daysim/internal/storage/io"
	"github.com/slok/daysim/internal/tasksource"
)

const (
	plannerLLM    = "llm"
	plannerGreedy = "greedy"
)

type RunCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	planner    string
	label      string
	scenario   string
	tasks      int
	seed       uint64
	noCritique bool
	noMemory   bool
	crisis     bool
	format     string
	llm        llmFlags
}

// NewRunCommand returns the run command.
func NewRunCommand(rootCmd *RootCommand, app *kingpin.Application) *RunCommand {
	c := &RunCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("run", "Simulate one work day.")
	c.Cmd.Flag("planner", "Planner that orders the tasks.").Default(plannerLLM).EnumVar(&c.planner, plannerLLM, plannerGreedy)
	c.Cmd.Flag("label", "Agent label stored with the day result (defaults to the planner).").StringVar(&c.label)
	c.Cmd.Flag("scenario", "YAML file with the profile and tasks of the day, if missing tasks are generated.").StringVar(&c.scenario)
	c.Cmd.Flag("tasks", "Number of generated tasks.").Default(fmt.Sprint(conventions.DefaultTasksPerDay)).IntVar(&c.tasks)
	c.Cmd.Flag("seed", "Seed for task generation and execution randomness (0 is random).").Uint64Var(&c.seed)
	c.Cmd.Flag("no-critique", "Disable the plan critique.").BoolVar(&c.noCritique)
	c.Cmd.Flag("no-memory", "Disable the lessons from past days.").BoolVar(&c.noMemory)
	c.Cmd.Flag("crisis", "Inject a two hour emergency after the second task.").BoolVar(&c.crisis)
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")
	c.llm.register(c.Cmd)

	return c
}

func (c RunCommand) Name() string { return c.Cmd.FullCommand() }

func (c RunCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	sc, err := c.loadDay(ctx)
	if err != nil {
		return err
	}

	repos, err := newRepositories(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer repos.Close()

	store, err := feedback.NewStore(feedback.StoreConfig{
		Repository: repos.Lessons,
		MaxLessons: conventions.MaxLessons,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create feedback store: %w", err)
	}

	var p planner.Planner = planner.ShortestJobFirst{}
	if c.planner == plannerLLM {
		p, err = c.llm.newController(ctx, store, logger)
		if err != nil {
			return err
		}
	}

	var exec *engine.Engine
	if c.seed != 0 {
		exec, err = engine.NewSeededEngine(c.seed, logger)
	} else {
		exec, err = engine.NewEngine(engine.EngineConfig{Logger: logger})
	}
	if err != nil {
		return fmt.Errorf("could not create engine: %w", err)
	}

	svc, err := day.NewService(day.ServiceConfig{
		Planner:  p,
		Executor: exec,
		Lessons:  store,
		Results:  repos.Results,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	var perturbations []day.Perturbation
	if c.crisis || sc.Crisis {
		perturbations = append(perturbations, day.Crisis())
	}

	label := c.label
	if label == "" {
		label = c.planner
	}

	// The greedy baseline has no memory to learn from.
	useMemory := !c.noMemory && sc.Options.UseMemory && c.planner == plannerLLM
	report, err := svc.Run(ctx, day.RunOptions{
		AgentLabel: label,
		Tasks:      sc.Tasks,
		Profile:    sc.Profile,
		PlanOptions: model.PlanOptions{
			UseCritique: !c.noCritique && sc.Options.UseCritique,
			UseMemory:   useMemory,
		},
		Perturbations: perturbations,
	})
	if err != nil {
		return fmt.Errorf("could not run day: %w", err)
	}

	if err := newPrinter(c.format, c.rootCmd.Stdout).PrintDayReport(*report); err != nil {
		return fmt.Errorf("could not print day report: %w", err)
	}

	return nil
}

// loadDay returns the scenario file, or a generated day with every option enabled.
func (c RunCommand) loadDay(ctx context.Context) (*model.DayScenario, error) {
	if c.scenario == "" {
		var gen *tasksource.Generator
		var err error
		if c.seed != 0 {
			gen, err = tasksource.NewSeededGenerator(c.seed, c.rootCmd.Logger)
		} else {
			gen, err = tasksource.NewGenerator(tasksource.GeneratorConfig{Logger: c.rootCmd.Logger})
		}
		if err != nil {
			return nil, fmt.Errorf("could not create task generator: %w", err)
		}

		profile := model.DefaultUserProfile()
		profile.ProcrastinationProb = 0.3
		return &model.DayScenario{
			Profile: profile,
			Tasks:   gen.Generate(c.tasks),
			Options: model.PlanOptions{UseCritique: true, UseMemory: true},
		}, nil
	}

	path, err := filepath.Abs(c.scenario)
	if err != nil {
		return nil, fmt.Errorf("could not resolve scenario path: %w", err)
	}

	repo := io.NewScenarioYAMLRepository(os.DirFS("/"))
	sc, err := repo.GetScenario(ctx, path[1:])
	if err != nil {
		return nil, fmt.Errorf("could not load scenario: %w", err)
	}

	return sc, nil
}
