package model

// ScheduleEntry is the production quantity assigned to one machine for one
// slot. Entries are produced only by a successful, validated solve.
type ScheduleEntry struct {
	MachineID string  `json:"machine_id"`
	Slot      int     `json:"slot"`
	Quantity  float64 `json:"quantity"`
}

// Schedule is the complete assignment for one horizon: exactly one entry per
// (machine, slot). A new run produces a new Schedule, never an in-place
// update.
type Schedule struct {
	Horizon int
	Entries []ScheduleEntry
}

// Quantity returns the assigned production for the given machine and slot.
func (s Schedule) Quantity(machineID string, slot int) (float64, bool) {
	for _, e := range s.Entries {
		if e.MachineID == machineID && e.Slot == slot {
			return e.Quantity, true
		}
	}
	return 0, false
}

// TotalProduction sums the assigned quantities for one machine across the
// horizon.
func (s Schedule) TotalProduction(machineID string) float64 {
	var total float64
	for _, e := range s.Entries {
		if e.MachineID == machineID {
			total += e.Quantity
		}
	}
	return total
}

// CostResult compares the optimized schedule cost against the naive
// baseline. Derived once per run, never mutated afterwards.
type CostResult struct {
	BaselineCost  float64 `json:"baseline_cost"`
	OptimizedCost float64 `json:"optimized_cost"`
	SavingsAbs    float64 `json:"savings_absolute"`
	SavingsPct    float64 `json:"savings_percentage"`
}
