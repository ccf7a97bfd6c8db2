package config

import "fmt"

// SimulatorConfig controls synthetic plant data generation.
type SimulatorConfig struct {
	// Machines is the number of machines to generate.
	Machines int `json:"machines"`
	// HistoryDays is the number of days of hourly demand history.
	HistoryDays int `json:"history_days"`
	// Seed makes generation reproducible. Zero seeds from the clock.
	Seed int64 `json:"seed"`
	// PeakPrice is the price reached during peak hours.
	PeakPrice float64 `json:"peak_price"`
	// OffPeakPrice is the price outside peak hours.
	OffPeakPrice float64 `json:"off_peak_price"`
}

// SetDefaults applies sane defaults.
func (c *SimulatorConfig) SetDefaults() {
	if c.Machines == 0 {
		c.Machines = 5
	}
	if c.HistoryDays == 0 {
		c.HistoryDays = 14
	}
	if c.PeakPrice == 0 {
		c.PeakPrice = 30
	}
	if c.OffPeakPrice == 0 {
		c.OffPeakPrice = 12
	}
}

// Validate checks mandatory fields.
func (c SimulatorConfig) Validate() error {
	if c.Machines <= 0 {
		return fmt.Errorf("machines must be positive")
	}
	if c.HistoryDays <= 0 {
		return fmt.Errorf("history_days must be positive")
	}
	if c.PeakPrice <= 0 || c.OffPeakPrice <= 0 {
		return fmt.Errorf("prices must be positive")
	}
	return nil
}
