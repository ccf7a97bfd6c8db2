package config

import "fmt"

// ForecastConfig selects the demand forecasting method.
type ForecastConfig struct {
	// Method is the forecaster type: "seasonal" or "naive".
	Method string `json:"method"`
	// StartHour is the hour of day the first forecast slot maps to.
	StartHour int `json:"start_hour"`
}

// SetDefaults applies sane defaults.
func (c *ForecastConfig) SetDefaults() {
	if c.Method == "" {
		c.Method = "seasonal"
	}
}

// Validate checks mandatory fields.
func (c ForecastConfig) Validate() error {
	if c.Method != "seasonal" && c.Method != "naive" {
		return fmt.Errorf("unknown method %s", c.Method)
	}
	if c.StartHour < 0 || c.StartHour > 23 {
		return fmt.Errorf("start_hour must be between 0 and 23")
	}
	return nil
}
