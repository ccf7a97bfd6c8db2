package optimize

import "fmt"

// IncompleteInputError reports a price or forecast series that does not
// cover the full horizon. The run is aborted before any solving happens.
type IncompleteInputError struct {
	MachineID string
	Slot      int
	What      string
}

func (e *IncompleteInputError) Error() string {
	if e.MachineID == "" {
		return fmt.Sprintf("incomplete input: %s at slot %d", e.What, e.Slot)
	}
	return fmt.Sprintf("incomplete input: %s for machine %s at slot %d", e.What, e.MachineID, e.Slot)
}

// FailureKind classifies why a solve did not produce a usable solution.
type FailureKind int

const (
	FailureInfeasible FailureKind = iota
	FailureUnbounded
	FailureTimeout
	FailureInternal
)

// String returns a human-readable failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureInfeasible:
		return "infeasible"
	case FailureUnbounded:
		return "unbounded"
	case FailureTimeout:
		return "timeout"
	default:
		return "internal"
	}
}

// SolveFailure is returned when the LP has no valid solution or the solver
// could not complete. Constraints are never relaxed automatically; the
// caller must adjust inputs and start a new run.
type SolveFailure struct {
	Kind FailureKind
	Err  error
}

func (e *SolveFailure) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("solve failed: %s", e.Kind)
	}
	return fmt.Sprintf("solve failed: %s: %v", e.Kind, e.Err)
}

func (e *SolveFailure) Unwrap() error { return e.Err }

// ScheduleInvalidError reports a solved value that violates a physical
// constraint beyond the numeric tolerance. It names the offending machine,
// slot and constraint so solver drift is never reported as a valid plan.
type ScheduleInvalidError struct {
	MachineID  string
	Slot       int
	Constraint string
	Value      float64
}

func (e *ScheduleInvalidError) Error() string {
	return fmt.Sprintf("invalid schedule: machine %s slot %d violates %s (value %g)",
		e.MachineID, e.Slot, e.Constraint, e.Value)
}

// InconsistentResultError reports an optimized cost above the baseline
// beyond tolerance. This indicates a builder or solver defect and is always
// surfaced instead of reporting negative savings as valid.
type InconsistentResultError struct {
	BaselineCost  float64
	OptimizedCost float64
}

func (e *InconsistentResultError) Error() string {
	return fmt.Sprintf("inconsistent result: optimized cost %.6f exceeds baseline %.6f",
		e.OptimizedCost, e.BaselineCost)
}
