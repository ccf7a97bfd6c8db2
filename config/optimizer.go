package config

import (
	"fmt"

	"github.com/kilianp07/factorysched/core/optimize"
)

// OptimizerConfig tunes the linear program and its surrounding checks.
type OptimizerConfig struct {
	// Horizon is the number of scheduling slots, typically 24 hours.
	Horizon int `json:"horizon"`
	// DemandPolicy selects how forecast demand binds production:
	// "per_slot" or "cumulative".
	DemandPolicy string `json:"demand_policy"`
	// PlantCapacityFactor caps total plant output per slot as a fraction
	// of summed machine capacities. Zero disables the constraint.
	PlantCapacityFactor float64 `json:"plant_capacity_factor"`
	// Tolerance is the simplex convergence tolerance.
	Tolerance float64 `json:"tolerance"`
	// TimeoutSeconds aborts a solve that runs longer than this.
	TimeoutSeconds int `json:"timeout_seconds"`
	// Epsilon is the feasibility tolerance used when checking and
	// snapping solver output.
	Epsilon float64 `json:"epsilon"`
}

// SetDefaults applies sane defaults.
func (c *OptimizerConfig) SetDefaults() {
	if c.Horizon == 0 {
		c.Horizon = 24
	}
	if c.DemandPolicy == "" {
		c.DemandPolicy = "per_slot"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 30
	}
}

// Validate checks mandatory fields.
func (c OptimizerConfig) Validate() error {
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive")
	}
	if _, err := optimize.ParseDemandPolicy(c.DemandPolicy); err != nil {
		return err
	}
	if c.PlantCapacityFactor < 0 {
		return fmt.Errorf("plant_capacity_factor must not be negative")
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	if c.Epsilon < 0 {
		return fmt.Errorf("epsilon must not be negative")
	}
	return nil
}
