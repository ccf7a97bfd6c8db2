package forecast

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/factorysched/core/model"
)

// Seasonal forecasts demand as the hour-of-day mean over the history
// window. Slots map to hours of the day starting at StartHour.
type Seasonal struct {
	// StartHour is the hour of day corresponding to slot 0.
	StartHour int
}

// Forecast implements Forecaster.
func (s Seasonal) Forecast(hist History, horizon int) (model.DemandForecast, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizon)
	}
	if s.StartHour < 0 || s.StartHour > 23 {
		return nil, fmt.Errorf("start hour must be in [0,23], got %d", s.StartHour)
	}
	var out model.DemandForecast
	for _, id := range sortedMachineIDs(hist) {
		series := hist[id]
		if len(series) == 0 {
			return nil, fmt.Errorf("machine %s: no demand history", id)
		}

		byHour := make(map[int][]float64, 24)
		all := make([]float64, 0, len(series))
		for _, p := range series {
			h := ((p.Hour % 24) + 24) % 24
			byHour[h] = append(byHour[h], p.Demand)
			all = append(all, p.Demand)
		}
		overall := stat.Mean(all, nil)

		for t := 0; t < horizon; t++ {
			h := (s.StartHour + t) % 24
			d := overall
			if xs := byHour[h]; len(xs) > 0 {
				d = stat.Mean(xs, nil)
			}
			out = append(out, model.ForecastPoint{MachineID: id, Slot: t, Demand: d})
		}
	}
	return out, nil
}
