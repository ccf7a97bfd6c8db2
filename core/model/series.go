package model

// PricePoint holds the energy price for a single time slot. Prices are
// shared across machines, typically following a peak/off-peak pattern.
type PricePoint struct {
	Slot  int     `json:"slot"`
	Price float64 `json:"price"`
}

// PriceSeries is an ordered sequence of prices covering a horizon.
type PriceSeries []PricePoint

// Index returns a slot-keyed lookup table. Duplicate slots keep the last
// value seen.
func (s PriceSeries) Index() map[int]float64 {
	m := make(map[int]float64, len(s))
	for _, p := range s {
		m[p.Slot] = p.Price
	}
	return m
}

// ForecastPoint holds the predicted demand for one machine and slot.
type ForecastPoint struct {
	MachineID string  `json:"machine_id"`
	Slot      int     `json:"slot"`
	Demand    float64 `json:"demand"`
}

// DemandForecast is the full set of predicted demand values for one horizon.
type DemandForecast []ForecastPoint

// ForecastKey identifies a (machine, slot) pair.
type ForecastKey struct {
	MachineID string
	Slot      int
}

// Index returns a (machine, slot)-keyed lookup table.
func (f DemandForecast) Index() map[ForecastKey]float64 {
	m := make(map[ForecastKey]float64, len(f))
	for _, p := range f {
		m[ForecastKey{MachineID: p.MachineID, Slot: p.Slot}] = p.Demand
	}
	return m
}
