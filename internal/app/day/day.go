package day

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/daysim/internal/engine"
	"github.com/slok/daysim/internal/log"
	"github.com/slok/daysim/internal/model"
	"github.com/slok/daysim/internal/planner"
	"github.com/slok/daysim/internal/storage"
)

// Lesson texts saved at the end of a day.
const (
	LessonBurnout       = "Burnout Warning: Ended day with very low energy. Schedule fewer hard tasks next time."
	LessonMissedPattern = "Failure: Missed %d tasks. Do not over-commit on deadlines."
	LessonSuccess       = "Success: Plan worked well."

	burnoutEnergyThreshold = 20
)

// LessonAppender stores day-end lessons.
type LessonAppender interface {
	Append(ctx context.Context, lesson string) error
}

// Perturbation is an exogenous event applied right after an execution.
type Perturbation struct {
	// AfterExecution is the 1-based execution count that triggers the event.
	AfterExecution int
	ElapsedMins    int
	EnergyLoss     float64
	// Note is appended to the message of the triggering execution.
	Note string
}

// Crisis returns the emergency meeting event: two hours lost after the second task.
func Crisis() Perturbation {
	return Perturbation{
		AfterExecution: 2,
		ElapsedMins:    120,
		EnergyLoss:     30,
		Note:           " + (MAJOR UNEXPECTED " + engine.MarkerCrisis + ")",
	}
}

// ServiceConfig is the configuration for the day service.
type ServiceConfig struct {
	Planner  planner.Planner
	Executor engine.Executor
	// Lessons is optional, without it lessons are computed but not saved.
	Lessons LessonAppender
	// Results is optional, without it day results are not persisted.
	Results storage.DayResultRepository
	Logger  log.Logger
	// TimeNowFunc is used to set the result creation time.
	TimeNowFunc func() time.Time
}

func (c *ServiceConfig) defaults() error {
	if c.Planner == nil {
		return fmt.Errorf("planner is required")
	}
	if c.Executor == nil {
		return fmt.Errorf("executor is required")
	}
	if c.TimeNowFunc == nil {
		c.TimeNowFunc = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Day"})
	return nil
}

// Service runs simulated days.
type Service struct {
	planner  planner.Planner
	executor engine.Executor
	lessons  LessonAppender
	results  storage.DayResultRepository
	timeNow  func() time.Time
	logger   log.Logger
}

// NewService creates a new day service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		planner:  cfg.Planner,
		executor: cfg.Executor,
		lessons:  cfg.Lessons,
		results:  cfg.Results,
		timeNow:  cfg.TimeNowFunc,
		logger:   cfg.Logger,
	}, nil
}

// RunOptions are the options to run a day.
type RunOptions struct {
	// AgentLabel identifies who planned the day in the results.
	AgentLabel string
	// Tasks are mutated by the execution, clone them if they are reused.
	Tasks         []*model.Task
	Profile       model.UserProfile
	PlanOptions   model.PlanOptions
	Perturbations []Perturbation
}

func (o RunOptions) validate() error {
	if o.AgentLabel == "" {
		return fmt.Errorf("agent label is required: %w", model.ErrNotValid)
	}
	if err := o.Profile.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	if err := model.ValidateTasks(o.Tasks); err != nil {
		return fmt.Errorf("invalid tasks: %w", err)
	}
	for _, t := range o.Tasks {
		if t.Status != model.TaskStatusPending {
			return fmt.Errorf("task %s is not pending: %w", t.ID, model.ErrNotValid)
		}
	}
	return nil
}

// Run plans and executes one day. Once the day started only context cancellation
// returns an error, storage failures are logged and ignored.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*model.DayReport, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	dayID := ulid.Make().String()
	ctx = s.logger.SetValuesOnCtx(ctx, log.Kv{"day-id": dayID, "agent": opts.AgentLabel})
	logger := s.logger.WithCtxValues(ctx)

	env := model.NewEnvironment(opts.Profile)
	plan := s.planner.Plan(ctx, planner.PlanRequest{
		Tasks:   opts.Tasks,
		Profile: opts.Profile,
		Options: opts.PlanOptions,
	})
	logger.Infof("Day planned (%s): %s", plan.Outcome, strings.Join(taskIDs(plan.Tasks), ", "))

	report := &model.DayReport{PlanOutcome: plan.Outcome}
	pending := plan.Tasks
	completed := 0
	executions := 0

	for len(pending) > 0 && !env.DayOver() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("day interrupted: %w", err)
		}

		task := pending[0]
		status, msg := s.executor.Execute(task, env)
		executions++

		for _, p := range opts.Perturbations {
			if p.AfterExecution != executions {
				continue
			}
			env.Perturb(p.ElapsedMins, p.EnergyLoss)
			msg += p.Note
			logger.Warningf("Exogenous event: +%dm, -%.0f energy", p.ElapsedMins, p.EnergyLoss)
		}

		report.History = append(report.History, msg)
		logger.Infof("[%s] %s", model.FormatClock(env.CurrentTime), msg)

		// Failed tasks would fail again, retrying them would loop forever.
		if status != model.TaskStatusCompleted {
			report.Halt = &model.Halt{TaskID: task.ID, Message: msg}
			logger.Warningf("Task %s failed, halting the day", task.ID)
			break
		}
		completed++
		pending = pending[1:]

		if IsDelaySignal(msg, task.Description) && len(pending) > 0 {
			logger.Infof("Delay detected, replanning")
			res := s.planner.Replan(ctx, planner.ReplanRequest{
				Tasks:         pending,
				Profile:       opts.Profile,
				CurrentTime:   env.CurrentTime,
				CurrentEnergy: env.CurrentEnergy,
				History:       report.History,
			})
			pending = res.Tasks
			report.Replans++
		}
	}

	report.EndTimeMins = env.CurrentTime
	report.Pending = taskIDs(pending)
	report.Lesson = Lesson(env.CurrentEnergy, len(pending))
	report.Result = model.DayResult{
		ID:             dayID,
		AgentLabel:     opts.AgentLabel,
		TasksCompleted: completed,
		TotalTasks:     len(opts.Tasks),
		SuccessRate:    successRate(completed, len(opts.Tasks)),
		EnergyLeft:     env.DisplayEnergy(),
		CreatedAt:      s.timeNow().UTC(),
	}

	if opts.PlanOptions.UseMemory && s.lessons != nil {
		if err := s.lessons.Append(ctx, report.Lesson); err != nil {
			logger.Errorf("Could not save lesson: %s", err)
		}
	}

	if s.results != nil {
		if err := s.results.SaveDayResult(ctx, report.Result); err != nil {
			logger.Errorf("Could not save day result: %s", err)
		}
	}

	logger.Infof("Day finished at %s: %d/%d tasks", model.FormatClock(env.CurrentTime), completed, len(opts.Tasks))

	return report, nil
}

// IsDelaySignal returns true when an execution message reports an interruption,
// fatigue or an injected crisis. Messages quote the task description, the quoted
// description is ignored so a task named after a marker doesn't look like a delay.
func IsDelaySignal(msg, description string) bool {
	if description != "" {
		msg = strings.ReplaceAll(msg, "'"+description+"'", "")
	}

	return strings.Contains(msg, engine.MarkerInterruption) ||
		strings.Contains(msg, engine.MarkerFatigue) ||
		strings.Contains(msg, engine.MarkerCrisis)
}

// Lesson derives the day-end lesson from the final energy and the tasks left.
func Lesson(energy float64, pending int) string {
	switch {
	case energy < burnoutEnergyThreshold:
		return LessonBurnout
	case pending > 0:
		return fmt.Sprintf(LessonMissedPattern, pending)
	default:
		return LessonSuccess
	}
}

func successRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total)
}

func taskIDs(tasks []*model.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}
