package optimize

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/kilianp07/factorysched/core/metrics"
	"github.com/kilianp07/factorysched/core/model"
	"github.com/kilianp07/factorysched/internal/eventbus"
)

type captureSink struct {
	runs      []metrics.RunResult
	schedules [][]model.ScheduleEntry
}

func (c *captureSink) RecordRun(r metrics.RunResult) error {
	c.runs = append(c.runs, r)
	return nil
}

func (c *captureSink) RecordSchedule(_ string, entries []model.ScheduleEntry) error {
	c.schedules = append(c.schedules, entries)
	return nil
}

type failingSolver struct{ err error }

func (s failingSolver) Solve(context.Context, *Problem) (*Solution, error) { return nil, s.err }

func specInputs() Inputs {
	machines := []model.Machine{{ID: "A", Capacity: 10, MinProduction: 0, EnergyRate: 1}}
	return Inputs{
		Machines: machines,
		Prices:   testPrices(3, 10, 5, 10),
		Forecast: flatForecast(machines, 3, 4),
		Horizon:  3,
	}
}

func TestEngineRunSpecScenario(t *testing.T) {
	sink := &captureSink{}
	bus := eventbus.New()
	events := bus.Subscribe()
	eng := NewEngine(Builder{}, SimplexSolver{}, nil, sink, bus)

	res, err := eng.Run(context.Background(), specInputs())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if math.Abs(res.Objective-100) > 1e-6 {
		t.Fatalf("objective: expected 100 got %v", res.Objective)
	}
	if res.Cost.SavingsAbs != 0 {
		t.Fatalf("expected zero savings, got %#v", res.Cost)
	}
	if len(res.Schedule.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(res.Schedule.Entries))
	}
	if len(sink.runs) != 1 || sink.runs[0].Status != "optimal" {
		t.Fatalf("sink runs: %#v", sink.runs)
	}
	if len(sink.schedules) != 1 {
		t.Fatalf("schedule not recorded")
	}

	if _, ok := (<-events).(RunStartedEvent); !ok {
		t.Fatalf("expected RunStartedEvent first")
	}
	if _, ok := (<-events).(RunCompletedEvent); !ok {
		t.Fatalf("expected RunCompletedEvent second")
	}
}

func TestEngineRunCumulativeSavings(t *testing.T) {
	machines := []model.Machine{{ID: "A", Capacity: 10, MinProduction: 0, EnergyRate: 1}}
	in := Inputs{
		Machines: machines,
		Prices:   testPrices(3, 5, 10, 5),
		Forecast: model.DemandForecast{
			{MachineID: "A", Slot: 0, Demand: 0},
			{MachineID: "A", Slot: 1, Demand: 8},
			{MachineID: "A", Slot: 2, Demand: 0},
		},
		Horizon: 3,
	}
	eng := NewEngine(Builder{Policy: DemandCumulative}, SimplexSolver{}, nil, nil, nil)
	res, err := eng.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if math.Abs(res.Cost.SavingsPct-50) > 1e-6 {
		t.Fatalf("expected 50%% savings, got %v", res.Cost.SavingsPct)
	}
	// Demand satisfied cumulatively at every prefix.
	if q, _ := res.Schedule.Quantity("A", 0); math.Abs(q-8) > 1e-6 {
		t.Fatalf("slot 0: expected 8 got %v", q)
	}
}

func TestEngineRunIdempotentObjective(t *testing.T) {
	eng := NewEngine(Builder{}, SimplexSolver{}, nil, nil, nil)
	in := specInputs()
	r1, err := eng.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	r2, err := eng.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if math.Abs(r1.Objective-r2.Objective) > 1e-9 {
		t.Fatalf("objectives differ: %v vs %v", r1.Objective, r2.Objective)
	}
	if r1.RunID == r2.RunID {
		t.Fatalf("run ids must differ")
	}
}

func TestEngineRunInputError(t *testing.T) {
	sink := &captureSink{}
	bus := eventbus.New()
	events := bus.Subscribe()
	eng := NewEngine(Builder{}, SimplexSolver{}, nil, sink, bus)

	in := specInputs()
	in.Forecast = in.Forecast[:len(in.Forecast)-1]
	res, err := eng.Run(context.Background(), in)
	if res != nil {
		t.Fatalf("no partial schedule may be returned")
	}
	var incomplete *IncompleteInputError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteInputError, got %v", err)
	}
	if len(sink.runs) != 1 || sink.runs[0].Status != "input_error" {
		t.Fatalf("sink runs: %#v", sink.runs)
	}
	<-events // RunStartedEvent
	if _, ok := (<-events).(RunFailedEvent); !ok {
		t.Fatalf("expected RunFailedEvent")
	}
}

func TestEngineRunSolveFailureStatus(t *testing.T) {
	sink := &captureSink{}
	eng := NewEngine(Builder{}, failingSolver{err: &SolveFailure{Kind: FailureTimeout, Err: context.DeadlineExceeded}}, nil, sink, nil)
	_, err := eng.Run(context.Background(), specInputs())
	var sf *SolveFailure
	if !errors.As(err, &sf) || sf.Kind != FailureTimeout {
		t.Fatalf("expected timeout failure, got %v", err)
	}
	if len(sink.runs) != 1 || sink.runs[0].Status != "timeout" {
		t.Fatalf("sink runs: %#v", sink.runs)
	}
}

func TestEngineRunInfeasibleStatus(t *testing.T) {
	sink := &captureSink{}
	eng := NewEngine(Builder{}, SimplexSolver{}, nil, sink, nil)
	in := specInputs()
	in.Forecast = flatForecast(in.Machines, 3, 15) // above capacity
	_, err := eng.Run(context.Background(), in)
	var sf *SolveFailure
	if !errors.As(err, &sf) || sf.Kind != FailureInfeasible {
		t.Fatalf("expected infeasible failure, got %v", err)
	}
	if sink.runs[0].Status != "infeasible" {
		t.Fatalf("status: %s", sink.runs[0].Status)
	}
}
