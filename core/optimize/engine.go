package optimize

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/factorysched/core/logger"
	"github.com/kilianp07/factorysched/core/metrics"
	"github.com/kilianp07/factorysched/core/model"
	"github.com/kilianp07/factorysched/internal/eventbus"
)

// Inputs is the immutable snapshot consumed by one run. Callers must not
// mutate it while the run is in flight.
type Inputs struct {
	Machines []model.Machine
	Prices   model.PriceSeries
	Forecast model.DemandForecast
	Horizon  int
}

// Result is the outcome of one successful run.
type Result struct {
	RunID     string
	Schedule  model.Schedule
	Cost      model.CostResult
	Objective float64
	SolveTime time.Duration
}

// RunStartedEvent is published when a run begins.
type RunStartedEvent struct {
	RunID    string
	Horizon  int
	Machines int
	Time     time.Time
}

// RunCompletedEvent is published after a validated schedule and cost result
// are available.
type RunCompletedEvent struct {
	RunID string
	Cost  model.CostResult
	Time  time.Time
}

// RunFailedEvent is published when any stage of a run fails.
type RunFailedEvent struct {
	RunID string
	Err   error
	Time  time.Time
}

// Engine chains Builder, Solver, Validator and Reporter for one run at a
// time. Independent engines may run in parallel as long as each receives its
// own input snapshot.
type Engine struct {
	Builder   Builder
	Solver    Solver
	Validator Validator
	Reporter  Reporter
	Log       logger.Logger
	Sink      metrics.MetricsSink
	Bus       eventbus.EventBus
}

// NewEngine creates an Engine with the given builder and solver. Sink and
// bus may be nil when no observability is wired.
func NewEngine(b Builder, s Solver, log logger.Logger, sink metrics.MetricsSink, bus eventbus.EventBus) *Engine {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Engine{Builder: b, Solver: s, Log: log, Sink: sink, Bus: bus}
}

// Run executes one optimization over the snapshot. Every failure aborts the
// run and is reported to the caller as a typed error; nothing is retried.
func (e *Engine) Run(ctx context.Context, in Inputs) (*Result, error) {
	runID := uuid.NewString()
	start := time.Now()
	e.publish(RunStartedEvent{RunID: runID, Horizon: in.Horizon, Machines: len(in.Machines), Time: start})
	e.logf("run %s: horizon=%d machines=%d policy=%s", runID, in.Horizon, len(in.Machines), e.Builder.Policy)

	problem, err := e.Builder.Build(in.Machines, in.Prices, in.Forecast, in.Horizon)
	if err != nil {
		return nil, e.fail(runID, in, "input_error", start, 0, err)
	}

	solveStart := time.Now()
	sol, err := e.Solver.Solve(ctx, problem)
	solveTime := time.Since(solveStart)
	if err != nil {
		status := "internal"
		var sf *SolveFailure
		if errors.As(err, &sf) {
			status = sf.Kind.String()
		}
		return nil, e.fail(runID, in, status, start, solveTime, err)
	}

	sched, err := e.Validator.Validate(problem, sol)
	if err != nil {
		return nil, e.fail(runID, in, "invalid", start, solveTime, err)
	}

	cost, err := e.Reporter.Report(problem, sched)
	if err != nil {
		return nil, e.fail(runID, in, "inconsistent", start, solveTime, err)
	}

	res := &Result{RunID: runID, Schedule: sched, Cost: cost, Objective: sol.Objective, SolveTime: solveTime}
	now := time.Now()
	rec := metrics.RunResult{
		RunID:         runID,
		Status:        "optimal",
		Policy:        e.Builder.Policy.String(),
		Horizon:       in.Horizon,
		Machines:      len(in.Machines),
		SolveTime:     solveTime,
		Objective:     sol.Objective,
		BaselineCost:  cost.BaselineCost,
		OptimizedCost: cost.OptimizedCost,
		SavingsAbs:    cost.SavingsAbs,
		SavingsPct:    cost.SavingsPct,
		Time:          now,
	}
	if err := e.Sink.RecordRun(rec); err != nil {
		e.logf("run %s: record metrics: %v", runID, err)
	}
	if sr, ok := e.Sink.(metrics.ScheduleRecorder); ok {
		if err := sr.RecordSchedule(runID, sched.Entries); err != nil {
			e.logf("run %s: record schedule: %v", runID, err)
		}
	}
	e.publish(RunCompletedEvent{RunID: runID, Cost: cost, Time: now})
	e.logf("run %s: optimal in %s, baseline=%.4f optimized=%.4f savings=%.2f%%",
		runID, solveTime, cost.BaselineCost, cost.OptimizedCost, cost.SavingsPct)
	return res, nil
}

func (e *Engine) fail(runID string, in Inputs, status string, start time.Time, solveTime time.Duration, err error) error {
	now := time.Now()
	rec := metrics.RunResult{
		RunID:     runID,
		Status:    status,
		Policy:    e.Builder.Policy.String(),
		Horizon:   in.Horizon,
		Machines:  len(in.Machines),
		SolveTime: solveTime,
		Time:      now,
	}
	if rerr := e.Sink.RecordRun(rec); rerr != nil {
		e.logf("run %s: record metrics: %v", runID, rerr)
	}
	e.publish(RunFailedEvent{RunID: runID, Err: err, Time: now})
	if e.Log != nil {
		e.Log.Errorf("run %s: %s: %v", runID, status, err)
	}
	return err
}

func (e *Engine) publish(ev eventbus.Event) {
	if e.Bus != nil {
		e.Bus.Publish(ev)
	}
}

func (e *Engine) logf(format string, args ...any) {
	if e.Log != nil {
		e.Log.Infof(format, args...)
	}
}
