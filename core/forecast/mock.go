package forecast

import "github.com/kilianp07/factorysched/core/model"

// MockForecaster returns a fixed forecast regardless of history.
type MockForecaster struct {
	Result model.DemandForecast
	Err    error
}

// Forecast implements Forecaster.
func (m MockForecaster) Forecast(History, int) (model.DemandForecast, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	cp := make(model.DemandForecast, len(m.Result))
	copy(cp, m.Result)
	return cp, nil
}
