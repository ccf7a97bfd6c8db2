package metrics

import (
	"time"

	"github.com/kilianp07/factorysched/core/model"
)

// RunResult captures the outcome of one optimization run.
type RunResult struct {
	RunID         string
	Status        string
	Policy        string
	Horizon       int
	Machines      int
	SolveTime     time.Duration
	Objective     float64
	BaselineCost  float64
	OptimizedCost float64
	SavingsAbs    float64
	SavingsPct    float64
	Time          time.Time
}

// MetricsSink records optimization run results for observability purposes.
type MetricsSink interface {
	RecordRun(res RunResult) error
}

// ScheduleRecorder is implemented by sinks able to record the per-entry
// schedule produced by a successful run.
type ScheduleRecorder interface {
	RecordSchedule(runID string, entries []model.ScheduleEntry) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunResult) error { return nil }

func (NopSink) RecordSchedule(string, []model.ScheduleEntry) error { return nil }
