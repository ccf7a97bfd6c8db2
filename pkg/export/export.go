package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/factorysched/core/model"
	"github.com/kilianp07/factorysched/core/optimize"
)

// WriteScheduleJSON writes the production schedule to w in JSON format.
func WriteScheduleJSON(w io.Writer, sched model.Schedule) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sched.Entries)
}

// WriteScheduleCSV writes the production schedule to w in CSV format.
func WriteScheduleCSV(w io.Writer, sched model.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"machine_id", "slot", "quantity"}); err != nil {
		return err
	}
	for _, e := range sched.Entries {
		rec := []string{
			e.MachineID,
			strconv.Itoa(e.Slot),
			strconv.FormatFloat(e.Quantity, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryJSON writes the run summary, including the cost comparison,
// to w in JSON format.
func WriteSummaryJSON(w io.Writer, res *optimize.Result) error {
	summary := struct {
		RunID        string           `json:"run_id"`
		Objective    float64          `json:"objective"`
		Cost         model.CostResult `json:"cost"`
		SolveSeconds float64          `json:"solve_seconds"`
	}{
		RunID:        res.RunID,
		Objective:    res.Objective,
		Cost:         res.Cost,
		SolveSeconds: res.SolveTime.Seconds(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
