package optimize

import (
	"math"

	"github.com/kilianp07/factorysched/core/model"
)

// Reporter computes the baseline-versus-optimized cost comparison for a
// validated schedule.
type Reporter struct {
	// Epsilon is the relative tolerance when comparing optimized against
	// baseline cost. Zero selects the default of 1e-6.
	Epsilon float64
}

// Report evaluates the cost formula against the naive reference allocation
// and the validated schedule. The reference produces exactly the forecasted
// demand, clamped into the machine's feasible range so both allocations obey
// the same physical limits and the same demand policy. Savings below
// -epsilon fail with InconsistentResultError.
func (r Reporter) Report(p *Problem, sched model.Schedule) (model.CostResult, error) {
	eps := r.Epsilon
	if eps == 0 {
		eps = defaultEpsilon
	}

	var baseline float64
	for _, m := range p.Machines {
		for t, q := range baselineQuantities(p, m) {
			baseline += q * m.EnergyRate * p.Prices[t]
		}
	}

	rates := make(map[string]float64, len(p.Machines))
	for _, m := range p.Machines {
		rates[m.ID] = m.EnergyRate
	}
	var optimized float64
	for _, e := range sched.Entries {
		optimized += e.Quantity * rates[e.MachineID] * p.Prices[e.Slot]
	}

	savings := baseline - optimized
	if savings < -tolerance(eps, baseline) {
		return model.CostResult{}, &InconsistentResultError{BaselineCost: baseline, OptimizedCost: optimized}
	}
	if savings < 0 {
		savings = 0
	}
	var pct float64
	if baseline > 0 {
		pct = savings / baseline * 100
	}
	return model.CostResult{
		BaselineCost:  baseline,
		OptimizedCost: optimized,
		SavingsAbs:    savings,
		SavingsPct:    pct,
	}, nil
}

// baselineQuantities returns the reference allocation for one machine:
// forecast demand clamped into [MinProduction, Capacity] per slot. Under
// the cumulative policy a single slot's demand may exceed capacity while
// the problem stays feasible, so clamped-off excess is spilled into the
// nearest earlier slots with spare capacity, keeping the reference
// prefix-feasible like any accepted schedule.
func baselineQuantities(p *Problem, m model.Machine) []float64 {
	qs := make([]float64, p.Horizon)
	for t := 0; t < p.Horizon; t++ {
		d := p.Demand[model.ForecastKey{MachineID: m.ID, Slot: t}]
		qs[t] = math.Min(math.Max(d, m.MinProduction), m.Capacity)
	}
	if p.Policy != DemandCumulative {
		return qs
	}
	var prefDemand, prefProd float64
	for t := 0; t < p.Horizon; t++ {
		prefDemand += p.Demand[model.ForecastKey{MachineID: m.ID, Slot: t}]
		prefProd += qs[t]
		deficit := prefDemand - prefProd
		for s := t; s >= 0 && deficit > 0; s-- {
			add := math.Min(deficit, m.Capacity-qs[s])
			if add > 0 {
				qs[s] += add
				prefProd += add
				deficit -= add
			}
		}
	}
	return qs
}
