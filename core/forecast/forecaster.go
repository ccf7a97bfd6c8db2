package forecast

import (
	"fmt"
	"sort"

	"github.com/kilianp07/factorysched/core/model"
)

// HistoryPoint is one observed demand sample for a machine.
type HistoryPoint struct {
	Hour   int // hour of day, 0-23
	Demand float64
}

// History maps machine IDs to chronological demand samples.
type History map[string][]HistoryPoint

// Forecaster produces a demand forecast covering every machine in the
// history for every slot in [0, horizon).
type Forecaster interface {
	Forecast(hist History, horizon int) (model.DemandForecast, error)
}

// New returns the forecaster implementation selected by name.
func New(method string, startHour int) (Forecaster, error) {
	switch method {
	case "", "seasonal":
		return Seasonal{StartHour: startHour}, nil
	case "naive":
		return Naive{}, nil
	default:
		return nil, fmt.Errorf("unknown forecast method %q", method)
	}
}

func sortedMachineIDs(hist History) []string {
	ids := make([]string, 0, len(hist))
	for id := range hist {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Naive repeats the last observed demand value across the horizon. It is
// the fallback when richer methods cannot be applied.
type Naive struct{}

// Forecast implements Forecaster.
func (Naive) Forecast(hist History, horizon int) (model.DemandForecast, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizon)
	}
	var out model.DemandForecast
	for _, id := range sortedMachineIDs(hist) {
		series := hist[id]
		if len(series) == 0 {
			return nil, fmt.Errorf("machine %s: no demand history", id)
		}
		last := series[len(series)-1].Demand
		for t := 0; t < horizon; t++ {
			out = append(out, model.ForecastPoint{MachineID: id, Slot: t, Demand: last})
		}
	}
	return out, nil
}
