package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/daysim/internal/app/day"
	"github.com/slok/daysim/internal/app/evaluate"
	"github.com/slok/daysim/internal/conventions"
	"github.com/slok/daysim/internal/engine"
	"github.com/slok/daysim/internal/feedback"
	"github.com/slok/daysim/internal/model"
	"github.com/slok/daysim/internal/planner"
	"github.com/slok/daysim/internal/tasksource"
)

// Evaluation agents.
const (
	agentGreedy        = "greedy"
	agentLLM           = "llm"
	agentLLMNoCritique = "llm-no-critique"
	agentLLMNoMemory   = "llm-no-memory"
)

var agentOptions = map[string]model.PlanOptions{
	agentGreedy:        {},
	agentLLM:           {UseCritique: true, UseMemory: true},
	agentLLMNoCritique: {UseCritique: false, UseMemory: true},
	agentLLMNoMemory:   {UseCritique: true, UseMemory: false},
}

type EvaluateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	agents      []string
	days        int
	tasks       int
	seed        uint64
	concurrency int
	crisis      bool
	format      string
	llm         llmFlags
}

// NewEvaluateCommand returns the evaluate command.
func NewEvaluateCommand(rootCmd *RootCommand, app *kingpin.Application) *EvaluateCommand {
	c := &EvaluateCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("evaluate", "Compare planning agents over the same simulated days.")
	c.Cmd.Flag("agent", "Agent to evaluate (repeatable).").Default(agentGreedy, agentLLM).EnumsVar(&c.agents, agentGreedy, agentLLM, agentLLMNoCritique, agentLLMNoMemory)
	c.Cmd.Flag("days", "Days simulated per agent.").Default(fmt.Sprint(conventions.DefaultEvaluationDays)).IntVar(&c.days)
	c.Cmd.Flag("tasks", "Generated tasks per day.").Default(fmt.Sprint(conventions.DefaultTasksPerDay)).IntVar(&c.tasks)
	c.Cmd.Flag("seed", "Seed for task generation and execution randomness (0 is random).").Uint64Var(&c.seed)
	c.Cmd.Flag("concurrency", "Maximum days simulated at the same time.").Default("2").IntVar(&c.concurrency)
	c.Cmd.Flag("crisis", "Inject a two hour emergency after the second task of every day.").BoolVar(&c.crisis)
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")
	c.llm.register(c.Cmd)

	return c
}

func (c EvaluateCommand) Name() string { return c.Cmd.FullCommand() }

func (c EvaluateCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

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

	var exec *engine.Engine
	var gen *tasksource.Generator
	if c.seed != 0 {
		exec, err = engine.NewSeededEngine(c.seed, logger)
		if err == nil {
			gen, err = tasksource.NewSeededGenerator(c.seed, logger)
		}
	} else {
		exec, err = engine.NewEngine(engine.EngineConfig{Logger: logger})
		if err == nil {
			gen, err = tasksource.NewGenerator(tasksource.GeneratorConfig{Logger: logger})
		}
	}
	if err != nil {
		return fmt.Errorf("could not create simulation dependencies: %w", err)
	}

	// LLM agents share one controller, the plan options make the difference.
	var llmPlanner planner.Planner
	agents := make([]evaluate.Agent, 0, len(c.agents))
	for _, label := range c.agents {
		var p planner.Planner = planner.ShortestJobFirst{}
		if label != agentGreedy {
			if llmPlanner == nil {
				llmPlanner, err = c.llm.newController(ctx, store, logger)
				if err != nil {
					return err
				}
			}
			p = llmPlanner
		}

		runner, err := day.NewService(day.ServiceConfig{
			Planner:  p,
			Executor: exec,
			Lessons:  store,
			Results:  repos.Results,
			Logger:   logger,
		})
		if err != nil {
			return fmt.Errorf("could not create day service: %w", err)
		}

		agents = append(agents, evaluate.Agent{Label: label, Runner: runner, PlanOptions: agentOptions[label]})
	}

	svc, err := evaluate.NewService(evaluate.ServiceConfig{
		TaskSource:        gen,
		MaxConcurrentDays: c.concurrency,
		Logger:            logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	var perturbations []day.Perturbation
	if c.crisis {
		perturbations = append(perturbations, day.Crisis())
	}

	// Same harder profile for every agent.
	profile := model.DefaultUserProfile()
	profile.ProcrastinationProb = 0.4
	profile.WorkSpeedMultiplier = 1.1

	ev, err := svc.Evaluate(ctx, evaluate.EvaluateOptions{
		Agents:        agents,
		Days:          c.days,
		TasksPerDay:   c.tasks,
		Profile:       profile,
		Perturbations: perturbations,
	})
	if err != nil {
		return fmt.Errorf("could not evaluate: %w", err)
	}

	if err := newPrinter(c.format, c.rootCmd.Stdout).PrintResults(ev.Results, ev.Summaries); err != nil {
		return fmt.Errorf("could not print evaluation: %w", err)
	}

	return nil
}
