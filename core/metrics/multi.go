package metrics

import (
	"errors"

	"github.com/kilianp07/factorysched/core/model"
)

// MultiSink fans run results out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the result to every sink. One sink failing does not
// stop delivery to the others; all errors are joined.
func (m *MultiSink) RecordRun(res RunResult) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordRun(res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordSchedule forwards schedule entries to every sink that records them.
func (m *MultiSink) RecordSchedule(runID string, entries []model.ScheduleEntry) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(ScheduleRecorder); ok {
			if err := rec.RecordSchedule(runID, entries); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
