package optimize

import (
	"fmt"
	"math"

	"github.com/kilianp07/factorysched/core/model"
)

// DemandPolicy selects how forecasted demand binds production.
type DemandPolicy int

const (
	// DemandPerSlot requires every slot's production to cover that slot's
	// forecast. Over-production is permitted but never pays off, so the
	// optimum sits on the demand floor.
	DemandPerSlot DemandPolicy = iota
	// DemandCumulative requires production up to each slot to cover demand
	// up to that slot. Output can be pulled forward into cheaper hours,
	// never deferred.
	DemandCumulative
)

// ParseDemandPolicy converts a configuration string to a DemandPolicy.
func ParseDemandPolicy(s string) (DemandPolicy, error) {
	switch s {
	case "", "per_slot":
		return DemandPerSlot, nil
	case "cumulative":
		return DemandCumulative, nil
	default:
		return DemandPerSlot, fmt.Errorf("unknown demand policy %q", s)
	}
}

func (p DemandPolicy) String() string {
	if p == DemandCumulative {
		return "cumulative"
	}
	return "per_slot"
}

// Variable is one decision variable: the production quantity of a machine
// during a slot, bounded by the machine's production floor and capacity.
type Variable struct {
	MachineID string
	Slot      int
	Lower     float64
	Upper     float64
}

// Term is a coefficient applied to one variable inside a constraint row.
type Term struct {
	Var   int
	Coeff float64
}

// RowKind identifies the constraint family a row belongs to.
type RowKind int

const (
	RowDemand RowKind = iota
	RowCumulativeDemand
	RowPlantCapacity
)

// Row is one linear inequality: sum(Terms) <= Upper.
type Row struct {
	Kind      RowKind
	MachineID string
	Slot      int
	Terms     []Term
	Upper     float64
}

// Problem is a typed linear program, independent of any solver's in-memory
// API. A thin adapter translates it to the chosen backend.
type Problem struct {
	Horizon   int
	Machines  []model.Machine
	Policy    DemandPolicy
	Vars      []Variable
	Rows      []Row
	Objective []float64
	Demand    map[model.ForecastKey]float64
	Prices    map[int]float64
}

// VarIndex returns the variable index for the i-th machine at the given slot.
func (p *Problem) VarIndex(machine, slot int) int {
	return machine*p.Horizon + slot
}

// Builder translates machine specifications, a price series and a demand
// forecast into a Problem. All input completeness checks happen here, before
// anything reaches the solver.
type Builder struct {
	Policy DemandPolicy
	// PlantCapacityFactor caps total production per slot at the given
	// fraction of aggregate machine capacity. Zero disables the constraint.
	PlantCapacityFactor float64
}

// Build constructs the linear program for one horizon. It fails with
// IncompleteInputError when any slot lacks a price or any (machine, slot)
// pair lacks a forecast, and with InvalidMachineSpecError when a machine
// specification is inconsistent.
func (b Builder) Build(machines []model.Machine, prices model.PriceSeries, forecast model.DemandForecast, horizon int) (*Problem, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizon)
	}
	if len(machines) == 0 {
		return nil, fmt.Errorf("no machines to schedule")
	}
	if b.PlantCapacityFactor < 0 || b.PlantCapacityFactor > 1 {
		return nil, fmt.Errorf("plant capacity factor must be in [0,1], got %g", b.PlantCapacityFactor)
	}

	seen := make(map[string]bool, len(machines))
	for _, m := range machines {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if seen[m.ID] {
			return nil, &model.InvalidMachineSpecError{MachineID: m.ID, Reason: "duplicate id"}
		}
		seen[m.ID] = true
	}

	priceIdx := prices.Index()
	for t := 0; t < horizon; t++ {
		if _, ok := priceIdx[t]; !ok {
			return nil, &IncompleteInputError{Slot: t, What: "price"}
		}
	}

	demandIdx := forecast.Index()
	for _, m := range machines {
		for t := 0; t < horizon; t++ {
			d, ok := demandIdx[model.ForecastKey{MachineID: m.ID, Slot: t}]
			if !ok {
				return nil, &IncompleteInputError{MachineID: m.ID, Slot: t, What: "demand forecast"}
			}
			if math.IsNaN(d) || d < 0 {
				return nil, &IncompleteInputError{MachineID: m.ID, Slot: t, What: "non-negative demand forecast"}
			}
		}
	}

	p := &Problem{
		Horizon:   horizon,
		Machines:  machines,
		Policy:    b.Policy,
		Vars:      make([]Variable, 0, len(machines)*horizon),
		Objective: make([]float64, 0, len(machines)*horizon),
		Demand:    demandIdx,
		Prices:    priceIdx,
	}

	for _, m := range machines {
		for t := 0; t < horizon; t++ {
			p.Vars = append(p.Vars, Variable{
				MachineID: m.ID,
				Slot:      t,
				Lower:     m.MinProduction,
				Upper:     m.Capacity,
			})
			p.Objective = append(p.Objective, m.EnergyRate*priceIdx[t])
		}
	}

	for mi, m := range machines {
		switch b.Policy {
		case DemandCumulative:
			var running float64
			for t := 0; t < horizon; t++ {
				running += demandIdx[model.ForecastKey{MachineID: m.ID, Slot: t}]
				terms := make([]Term, 0, t+1)
				for u := 0; u <= t; u++ {
					terms = append(terms, Term{Var: p.VarIndex(mi, u), Coeff: -1})
				}
				p.Rows = append(p.Rows, Row{
					Kind:      RowCumulativeDemand,
					MachineID: m.ID,
					Slot:      t,
					Terms:     terms,
					Upper:     -running,
				})
			}
		default:
			for t := 0; t < horizon; t++ {
				d := demandIdx[model.ForecastKey{MachineID: m.ID, Slot: t}]
				p.Rows = append(p.Rows, Row{
					Kind:      RowDemand,
					MachineID: m.ID,
					Slot:      t,
					Terms:     []Term{{Var: p.VarIndex(mi, t), Coeff: -1}},
					Upper:     -d,
				})
			}
		}
	}

	if b.PlantCapacityFactor > 0 {
		var totalCap float64
		for _, m := range machines {
			totalCap += m.Capacity
		}
		limit := b.PlantCapacityFactor * totalCap
		for t := 0; t < horizon; t++ {
			terms := make([]Term, 0, len(machines))
			for mi := range machines {
				terms = append(terms, Term{Var: p.VarIndex(mi, t), Coeff: 1})
			}
			p.Rows = append(p.Rows, Row{
				Kind:  RowPlantCapacity,
				Slot:  t,
				Terms: terms,
				Upper: limit,
			})
		}
	}

	return p, nil
}
