package lib

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/slok/daysim/internal/app/day"
	"github.com/slok/daysim/internal/app/lessons"
	"github.com/slok/daysim/internal/app/results"
	"github.com/slok/daysim/internal/conventions"
	"github.com/slok/daysim/internal/engine"
	"github.com/slok/daysim/internal/feedback"
	"github.com/slok/daysim/internal/log"
	"github.com/slok/daysim/internal/model"
	"github.com/slok/daysim/internal/planner"
	"github.com/slok/daysim/internal/reasoning/gemini"
	"github.com/slok/daysim/internal/storage/sqlite"
	"github.com/slok/daysim/internal/tasksource"
)

// ErrNoAPIKey is returned when an LLM day is requested without a Gemini API key.
var ErrNoAPIKey = errors.New("gemini api key is required for the llm planner")

// Config configures the SDK client. An empty Config{} stores data in ~/.daysim.
type Config struct {
	// DataDir is the base directory for daysim data.
	// Default: ~/.daysim.
	DataDir string

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger

	// GeminiAPIKey enables PlannerLLM.
	GeminiAPIKey string
	// GeminiModel defaults to gemini-2.5-flash.
	GeminiModel string
	// LLMTimeout bounds each reasoning call. Default: 60s.
	LLMTimeout time.Duration

	// Seed makes task generation and execution reproducible. Zero is random.
	Seed uint64
}

func (c *Config) defaults() error {
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.DataDir = filepath.Join(home, conventions.DefaultDataDir)
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	if c.LLMTimeout == 0 {
		c.LLMTimeout = 60 * time.Second
	}
	return nil
}

// Client is the daysim SDK client.
type Client struct {
	cfg     Config
	repo    *sqlite.Repository
	store   *feedback.Store
	engine  *engine.Engine
	tasks   *tasksource.Generator
	llm     planner.Planner
	lessons *lessons.Service
	results *results.Service
	logger  log.Logger
}

// New creates a new SDK client. Close it when done.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger := cfg.Logger

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: conventions.DBPath(cfg.DataDir),
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}

	c := &Client{cfg: cfg, repo: repo, logger: logger}
	if err := c.init(ctx); err != nil {
		repo.Close()
		return nil, err
	}

	return c, nil
}

func (c *Client) init(ctx context.Context) (err error) {
	c.store, err = feedback.NewStore(feedback.StoreConfig{Repository: c.repo, MaxLessons: conventions.MaxLessons, Logger: c.logger})
	if err != nil {
		return fmt.Errorf("could not create feedback store: %w", err)
	}

	if c.cfg.Seed != 0 {
		c.engine, err = engine.NewSeededEngine(c.cfg.Seed, c.logger)
		if err == nil {
			c.tasks, err = tasksource.NewSeededGenerator(c.cfg.Seed, c.logger)
		}
	} else {
		c.engine, err = engine.NewEngine(engine.EngineConfig{Logger: c.logger})
		if err == nil {
			c.tasks, err = tasksource.NewGenerator(tasksource.GeneratorConfig{Logger: c.logger})
		}
	}
	if err != nil {
		return fmt.Errorf("could not create simulation: %w", err)
	}

	if c.cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, gemini.ClientConfig{APIKey: c.cfg.GeminiAPIKey, Model: c.cfg.GeminiModel, Logger: c.logger})
		if err != nil {
			return fmt.Errorf("could not create gemini client: %w", err)
		}
		reasoner, err := gemini.NewReasoner(gemini.ReasonerConfig{Generator: client, Logger: c.logger})
		if err != nil {
			return fmt.Errorf("could not create reasoner: %w", err)
		}
		c.llm, err = planner.NewController(planner.ControllerConfig{
			Reasoner: reasoner,
			Critic:   reasoner,
			Feedback: c.store,
			Timeout:  c.cfg.LLMTimeout,
			Logger:   c.logger,
		})
		if err != nil {
			return fmt.Errorf("could not create planner: %w", err)
		}
	}

	c.lessons, err = lessons.NewService(lessons.ServiceConfig{Repository: c.repo, Logger: c.logger})
	if err != nil {
		return fmt.Errorf("could not create lessons service: %w", err)
	}
	c.results, err = results.NewService(results.ServiceConfig{Repository: c.repo, Logger: c.logger})
	if err != nil {
		return fmt.Errorf("could not create results service: %w", err)
	}

	return nil
}

// Close releases the client resources.
func (c *Client) Close() error { return c.repo.Close() }

// RunDayOpts are the options of a simulated day.
type RunDayOpts struct {
	// Planner defaults to PlannerGreedy.
	Planner PlannerType
	// Label defaults to the planner name.
	Label string
	// Tasks of the day, if empty NumTasks tasks are generated.
	Tasks    []Task
	NumTasks int
	// Profile defaults to DefaultProfile.
	Profile *Profile

	DisableCritique bool
	DisableMemory   bool
	// Crisis injects a two hour emergency after the second task.
	Crisis bool
}

// RunDay plans and simulates one day, storing its result and lesson.
func (c *Client) RunDay(ctx context.Context, opts RunDayOpts) (*DayReport, error) {
	if opts.Planner == "" {
		opts.Planner = PlannerGreedy
	}
	if opts.Label == "" {
		opts.Label = string(opts.Planner)
	}

	var p planner.Planner
	switch opts.Planner {
	case PlannerGreedy:
		p = planner.ShortestJobFirst{}
	case PlannerLLM:
		if c.llm == nil {
			return nil, ErrNoAPIKey
		}
		p = c.llm
	default:
		return nil, fmt.Errorf("unknown planner %q: %w", opts.Planner, model.ErrNotValid)
	}

	tasks := make([]*model.Task, 0, len(opts.Tasks))
	for _, t := range opts.Tasks {
		tasks = append(tasks, t.toModel())
	}
	if len(tasks) == 0 {
		n := opts.NumTasks
		if n == 0 {
			n = conventions.DefaultTasksPerDay
		}
		tasks = c.tasks.Generate(n)
	}

	profile := DefaultProfile()
	if opts.Profile != nil {
		profile = *opts.Profile
	}

	svc, err := day.NewService(day.ServiceConfig{
		Planner:  p,
		Executor: c.engine,
		Lessons:  c.store,
		Results:  c.repo,
		Logger:   c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create day service: %w", err)
	}

	var perturbations []day.Perturbation
	if opts.Crisis {
		perturbations = append(perturbations, day.Crisis())
	}

	report, err := svc.Run(ctx, day.RunOptions{
		AgentLabel: opts.Label,
		Tasks:      tasks,
		Profile:    profile.toModel(),
		PlanOptions: model.PlanOptions{
			UseCritique: !opts.DisableCritique,
			UseMemory:   !opts.DisableMemory && opts.Planner == PlannerLLM,
		},
		Perturbations: perturbations,
	})
	if err != nil {
		return nil, err
	}

	rep := fromModelReport(*report)
	return &rep, nil
}

// Lessons returns the remembered day-end lessons, oldest first.
func (c *Client) Lessons(ctx context.Context) ([]string, error) {
	return c.lessons.List(ctx)
}

// Results returns the stored day results, oldest first. An empty agent returns all.
func (c *Client) Results(ctx context.Context, agent string) ([]DayResult, error) {
	listing, err := c.results.List(ctx, results.ListOptions{AgentLabel: agent})
	if err != nil {
		return nil, err
	}

	res := make([]DayResult, 0, len(listing.Results))
	for _, r := range listing.Results {
		res = append(res, fromModelResult(r))
	}
	return res, nil
}
