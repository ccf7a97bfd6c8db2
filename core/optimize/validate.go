package optimize

import (
	"math"

	"github.com/kilianp07/factorysched/core/model"
)

// Validator re-checks raw solver output against the physical constraints,
// independent of solver internals. Values inside the tolerance band are
// snapped to the exact bound; anything beyond it fails the run.
type Validator struct {
	// Epsilon is the relative tolerance for bound comparisons. Zero
	// selects the default of 1e-6.
	Epsilon float64
}

const defaultEpsilon = 1e-6

func (v Validator) epsilon() float64 {
	if v.Epsilon == 0 {
		return defaultEpsilon
	}
	return v.Epsilon
}

func tolerance(eps, bound float64) float64 {
	return eps * math.Max(1, math.Abs(bound))
}

// Validate checks every solved value for NaN, negativity, bound violations
// and demand satisfaction under the problem's demand policy. On success it
// emits an immutable Schedule with tolerance overshoot snapped to the exact
// bounds.
func (v Validator) Validate(p *Problem, sol *Solution) (model.Schedule, error) {
	eps := v.epsilon()
	if len(sol.Values) != len(p.Vars) {
		return model.Schedule{}, &ScheduleInvalidError{Constraint: "solution size", Value: float64(len(sol.Values))}
	}

	quantities := make([]float64, len(p.Vars))
	for i, va := range p.Vars {
		x := sol.Values[i]
		if math.IsNaN(x) {
			return model.Schedule{}, &ScheduleInvalidError{MachineID: va.MachineID, Slot: va.Slot, Constraint: "nan value", Value: x}
		}
		if x < -tolerance(eps, 0) {
			return model.Schedule{}, &ScheduleInvalidError{MachineID: va.MachineID, Slot: va.Slot, Constraint: "negative production", Value: x}
		}
		if x < va.Lower-tolerance(eps, va.Lower) {
			return model.Schedule{}, &ScheduleInvalidError{MachineID: va.MachineID, Slot: va.Slot, Constraint: "production floor", Value: x}
		}
		if x > va.Upper+tolerance(eps, va.Upper) {
			return model.Schedule{}, &ScheduleInvalidError{MachineID: va.MachineID, Slot: va.Slot, Constraint: "capacity", Value: x}
		}
		quantities[i] = math.Min(math.Max(x, va.Lower), va.Upper)
	}

	for mi, m := range p.Machines {
		switch p.Policy {
		case DemandCumulative:
			var prod, dem float64
			for t := 0; t < p.Horizon; t++ {
				prod += quantities[p.VarIndex(mi, t)]
				dem += p.Demand[model.ForecastKey{MachineID: m.ID, Slot: t}]
				if prod < dem-tolerance(eps, dem) {
					return model.Schedule{}, &ScheduleInvalidError{MachineID: m.ID, Slot: t, Constraint: "cumulative demand", Value: prod}
				}
			}
		default:
			for t := 0; t < p.Horizon; t++ {
				i := p.VarIndex(mi, t)
				d := p.Demand[model.ForecastKey{MachineID: m.ID, Slot: t}]
				if quantities[i] < d-tolerance(eps, d) {
					return model.Schedule{}, &ScheduleInvalidError{MachineID: m.ID, Slot: t, Constraint: "demand", Value: quantities[i]}
				}
				// Snap trivial undershoot onto the demand floor, capped
				// by the machine's capacity bound.
				if quantities[i] < d {
					quantities[i] = math.Min(d, p.Vars[i].Upper)
				}
			}
		}
	}

	entries := make([]model.ScheduleEntry, len(p.Vars))
	for i, va := range p.Vars {
		entries[i] = model.ScheduleEntry{MachineID: va.MachineID, Slot: va.Slot, Quantity: quantities[i]}
	}
	return model.Schedule{Horizon: p.Horizon, Entries: entries}, nil
}
