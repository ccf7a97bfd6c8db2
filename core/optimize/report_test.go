package optimize

import (
	"errors"
	"math"
	"testing"

	"github.com/kilianp07/factorysched/core/model"
)

func TestReportZeroSavingsOnDemandFloor(t *testing.T) {
	machines := []model.Machine{{ID: "A", Capacity: 10, MinProduction: 0, EnergyRate: 1}}
	p, err := Builder{}.Build(machines, testPrices(3, 10, 5, 10), flatForecast(machines, 3, 4), 3)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	sched := model.Schedule{Horizon: 3, Entries: []model.ScheduleEntry{
		{MachineID: "A", Slot: 0, Quantity: 4},
		{MachineID: "A", Slot: 1, Quantity: 4},
		{MachineID: "A", Slot: 2, Quantity: 4},
	}}
	cost, err := Reporter{}.Report(p, sched)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if math.Abs(cost.BaselineCost-100) > 1e-9 || math.Abs(cost.OptimizedCost-100) > 1e-9 {
		t.Fatalf("costs: %#v", cost)
	}
	if cost.SavingsAbs != 0 || cost.SavingsPct != 0 {
		t.Fatalf("expected zero savings, got %#v", cost)
	}
}

func TestReportPositiveSavingsCumulative(t *testing.T) {
	machines := []model.Machine{{ID: "A", Capacity: 10, MinProduction: 0, EnergyRate: 1}}
	forecast := model.DemandForecast{
		{MachineID: "A", Slot: 0, Demand: 0},
		{MachineID: "A", Slot: 1, Demand: 8},
		{MachineID: "A", Slot: 2, Demand: 0},
	}
	p, err := Builder{Policy: DemandCumulative}.Build(machines, testPrices(3, 5, 10, 5), forecast, 3)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	sched := model.Schedule{Horizon: 3, Entries: []model.ScheduleEntry{
		{MachineID: "A", Slot: 0, Quantity: 8},
		{MachineID: "A", Slot: 1, Quantity: 0},
		{MachineID: "A", Slot: 2, Quantity: 0},
	}}
	cost, err := Reporter{}.Report(p, sched)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if math.Abs(cost.BaselineCost-80) > 1e-9 {
		t.Fatalf("baseline: expected 80 got %v", cost.BaselineCost)
	}
	if math.Abs(cost.OptimizedCost-40) > 1e-9 {
		t.Fatalf("optimized: expected 40 got %v", cost.OptimizedCost)
	}
	if math.Abs(cost.SavingsAbs-40) > 1e-9 || math.Abs(cost.SavingsPct-50) > 1e-9 {
		t.Fatalf("savings: %#v", cost)
	}
}

func TestReportCumulativeDemandAboveCapacity(t *testing.T) {
	// One slot demands more than capacity. The cumulative prefix bound keeps
	// the problem feasible by building ahead, and the reference allocation
	// must do the same instead of pricing the capacity-clamped demand.
	machines := []model.Machine{{ID: "A", Capacity: 10, MinProduction: 0, EnergyRate: 1}}
	forecast := model.DemandForecast{
		{MachineID: "A", Slot: 0, Demand: 0},
		{MachineID: "A", Slot: 1, Demand: 15},
	}
	p, err := Builder{Policy: DemandCumulative}.Build(machines, testPrices(2, 1, 1), forecast, 2)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	sched := model.Schedule{Horizon: 2, Entries: []model.ScheduleEntry{
		{MachineID: "A", Slot: 0, Quantity: 5},
		{MachineID: "A", Slot: 1, Quantity: 10},
	}}
	cost, err := Reporter{}.Report(p, sched)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if math.Abs(cost.BaselineCost-15) > 1e-9 || math.Abs(cost.OptimizedCost-15) > 1e-9 {
		t.Fatalf("costs: %#v", cost)
	}
	if cost.SavingsAbs != 0 {
		t.Fatalf("expected zero savings, got %#v", cost)
	}
}

func TestReportCumulativeSpillFavorsCheapEarlySlots(t *testing.T) {
	// With the excess spilled into slot 0 the baseline prices 5 units at 2
	// and 10 at 4; a schedule shifting everything early must still win.
	machines := []model.Machine{{ID: "A", Capacity: 10, MinProduction: 0, EnergyRate: 1}}
	forecast := model.DemandForecast{
		{MachineID: "A", Slot: 0, Demand: 0},
		{MachineID: "A", Slot: 1, Demand: 15},
	}
	p, err := Builder{Policy: DemandCumulative}.Build(machines, testPrices(2, 2, 4), forecast, 2)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	sched := model.Schedule{Horizon: 2, Entries: []model.ScheduleEntry{
		{MachineID: "A", Slot: 0, Quantity: 10},
		{MachineID: "A", Slot: 1, Quantity: 5},
	}}
	cost, err := Reporter{}.Report(p, sched)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if math.Abs(cost.BaselineCost-50) > 1e-9 {
		t.Fatalf("baseline: expected 50 got %v", cost.BaselineCost)
	}
	if math.Abs(cost.OptimizedCost-40) > 1e-9 {
		t.Fatalf("optimized: expected 40 got %v", cost.OptimizedCost)
	}
	if math.Abs(cost.SavingsAbs-10) > 1e-9 || math.Abs(cost.SavingsPct-20) > 1e-9 {
		t.Fatalf("savings: %#v", cost)
	}
}

func TestReportBaselineClampedToFloor(t *testing.T) {
	// Demand below the production floor: the reference allocation must obey
	// the same physical limits, so both plans cost the same.
	machines := []model.Machine{{ID: "A", Capacity: 10, MinProduction: 2, EnergyRate: 1}}
	p, err := Builder{}.Build(machines, testPrices(1, 5), flatForecast(machines, 1, 0), 1)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	sched := model.Schedule{Horizon: 1, Entries: []model.ScheduleEntry{{MachineID: "A", Slot: 0, Quantity: 2}}}
	cost, err := Reporter{}.Report(p, sched)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if math.Abs(cost.BaselineCost-10) > 1e-9 || cost.SavingsAbs != 0 {
		t.Fatalf("cost: %#v", cost)
	}
}

func TestReportInconsistentResult(t *testing.T) {
	machines := []model.Machine{{ID: "A", Capacity: 100, MinProduction: 0, EnergyRate: 1}}
	p, err := Builder{}.Build(machines, testPrices(1, 5), flatForecast(machines, 1, 4), 1)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// Massive over-production: optimized cost far above baseline.
	sched := model.Schedule{Horizon: 1, Entries: []model.ScheduleEntry{{MachineID: "A", Slot: 0, Quantity: 50}}}
	_, err = Reporter{}.Report(p, sched)
	var inc *InconsistentResultError
	if !errors.As(err, &inc) {
		t.Fatalf("expected InconsistentResultError, got %v", err)
	}
	if inc.OptimizedCost <= inc.BaselineCost {
		t.Fatalf("bad error payload %#v", inc)
	}
}

func TestReportZeroBaselinePercentage(t *testing.T) {
	machines := []model.Machine{{ID: "A", Capacity: 10, MinProduction: 0, EnergyRate: 1}}
	p, err := Builder{}.Build(machines, testPrices(1, 5), flatForecast(machines, 1, 0), 1)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	sched := model.Schedule{Horizon: 1, Entries: []model.ScheduleEntry{{MachineID: "A", Slot: 0, Quantity: 0}}}
	cost, err := Reporter{}.Report(p, sched)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if cost.SavingsPct != 0 {
		t.Fatalf("expected 0%% on zero baseline, got %v", cost.SavingsPct)
	}
}
