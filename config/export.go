package config

import "fmt"

// ExportConfig controls where run results are written on disk.
type ExportConfig struct {
	// Dir is the directory receiving exported schedules and summaries.
	Dir string `json:"dir"`
	// Format selects the schedule export format: "csv" or "json".
	Format string `json:"format"`
}

// SetDefaults applies sane defaults.
func (c *ExportConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "out"
	}
	if c.Format == "" {
		c.Format = "csv"
	}
}

// Validate checks mandatory fields.
func (c ExportConfig) Validate() error {
	if c.Format != "csv" && c.Format != "json" {
		return fmt.Errorf("unknown format %s", c.Format)
	}
	return nil
}
