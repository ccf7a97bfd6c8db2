package model

import "fmt"

// Machine describes one production machine. The specification is immutable
// for the duration of an optimization run.
type Machine struct {
	ID            string
	Capacity      float64 // maximum production in units per hour
	MinProduction float64 // production floor, 0 when the machine may idle
	EnergyRate    float64 // energy units consumed per production unit
}

// InvalidMachineSpecError reports an inconsistent machine specification.
type InvalidMachineSpecError struct {
	MachineID string
	Reason    string
}

func (e *InvalidMachineSpecError) Error() string {
	return fmt.Sprintf("machine %s: invalid spec: %s", e.MachineID, e.Reason)
}

// Validate checks that the machine specification is sound.
func (m Machine) Validate() error {
	if m.ID == "" {
		return &InvalidMachineSpecError{MachineID: m.ID, Reason: "empty id"}
	}
	if m.Capacity <= 0 {
		return &InvalidMachineSpecError{MachineID: m.ID, Reason: "capacity must be positive"}
	}
	if m.MinProduction < 0 {
		return &InvalidMachineSpecError{MachineID: m.ID, Reason: "min production must not be negative"}
	}
	if m.MinProduction > m.Capacity {
		return &InvalidMachineSpecError{MachineID: m.ID, Reason: "min production exceeds capacity"}
	}
	if m.EnergyRate <= 0 {
		return &InvalidMachineSpecError{MachineID: m.ID, Reason: "energy rate must be positive"}
	}
	return nil
}
