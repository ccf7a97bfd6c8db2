package optimize

import (
	"errors"
	"math"
	"testing"

	"github.com/kilianp07/factorysched/core/model"
)

func buildSimpleProblem(t *testing.T) *Problem {
	t.Helper()
	machines := []model.Machine{{ID: "A", Capacity: 10, MinProduction: 1, EnergyRate: 1}}
	p, err := Builder{}.Build(machines, testPrices(2, 1, 2), flatForecast(machines, 2, 4), 2)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return p
}

func TestValidateSnapsToleranceOvershoot(t *testing.T) {
	p := buildSimpleProblem(t)
	sol := &Solution{Values: []float64{10 + 1e-9, 4 - 1e-9}, Optimal: true}
	sched, err := Validator{}.Validate(p, sol)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if q, _ := sched.Quantity("A", 0); q != 10 {
		t.Fatalf("expected snap to capacity, got %v", q)
	}
	if q, _ := sched.Quantity("A", 1); q != 4 {
		t.Fatalf("expected snap to demand floor, got %v", q)
	}
}

func TestValidateCapacityViolation(t *testing.T) {
	p := buildSimpleProblem(t)
	sol := &Solution{Values: []float64{10.5, 4}}
	_, err := Validator{}.Validate(p, sol)
	var inv *ScheduleInvalidError
	if !errors.As(err, &inv) || inv.Constraint != "capacity" || inv.MachineID != "A" || inv.Slot != 0 {
		t.Fatalf("expected capacity violation, got %v", err)
	}
}

func TestValidateDemandViolation(t *testing.T) {
	p := buildSimpleProblem(t)
	sol := &Solution{Values: []float64{4, 3.5}}
	_, err := Validator{}.Validate(p, sol)
	var inv *ScheduleInvalidError
	if !errors.As(err, &inv) || inv.Constraint != "demand" || inv.Slot != 1 {
		t.Fatalf("expected demand violation, got %v", err)
	}
}

func TestValidateFloorViolation(t *testing.T) {
	machines := []model.Machine{{ID: "A", Capacity: 10, MinProduction: 2, EnergyRate: 1}}
	p, err := Builder{}.Build(machines, testPrices(1, 1), flatForecast(machines, 1, 0), 1)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	_, err = Validator{}.Validate(p, &Solution{Values: []float64{1}})
	var inv *ScheduleInvalidError
	if !errors.As(err, &inv) || inv.Constraint != "production floor" {
		t.Fatalf("expected floor violation, got %v", err)
	}
}

func TestValidateNaNAndNegative(t *testing.T) {
	p := buildSimpleProblem(t)
	_, err := Validator{}.Validate(p, &Solution{Values: []float64{math.NaN(), 4}})
	var inv *ScheduleInvalidError
	if !errors.As(err, &inv) || inv.Constraint != "nan value" {
		t.Fatalf("expected nan violation, got %v", err)
	}
	_, err = Validator{}.Validate(p, &Solution{Values: []float64{-0.5, 4}})
	if !errors.As(err, &inv) || inv.Constraint != "negative production" {
		t.Fatalf("expected negative violation, got %v", err)
	}
}

func TestValidateCumulativeDemand(t *testing.T) {
	machines := []model.Machine{{ID: "A", Capacity: 10, MinProduction: 0, EnergyRate: 1}}
	forecast := model.DemandForecast{
		{MachineID: "A", Slot: 0, Demand: 2},
		{MachineID: "A", Slot: 1, Demand: 2},
	}
	p, err := Builder{Policy: DemandCumulative}.Build(machines, testPrices(2, 1, 1), forecast, 2)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// Slot 0 over-produces, slot 1 rides on stock: valid cumulatively.
	if _, err := (Validator{}).Validate(p, &Solution{Values: []float64{4, 0}}); err != nil {
		t.Fatalf("expected valid cumulative schedule, got %v", err)
	}
	// Prefix at slot 0 short by more than tolerance.
	_, err = Validator{}.Validate(p, &Solution{Values: []float64{1, 3}})
	var inv *ScheduleInvalidError
	if !errors.As(err, &inv) || inv.Constraint != "cumulative demand" || inv.Slot != 0 {
		t.Fatalf("expected cumulative violation, got %v", err)
	}
}

func TestValidateSolutionSizeMismatch(t *testing.T) {
	p := buildSimpleProblem(t)
	if _, err := (Validator{}).Validate(p, &Solution{Values: []float64{1}}); err == nil {
		t.Fatal("expected size mismatch error")
	}
}
