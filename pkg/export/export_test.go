package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/factorysched/core/model"
	"github.com/kilianp07/factorysched/core/optimize"
)

func testSchedule() model.Schedule {
	return model.Schedule{
		Horizon: 2,
		Entries: []model.ScheduleEntry{
			{MachineID: "m1", Slot: 0, Quantity: 4},
			{MachineID: "m1", Slot: 1, Quantity: 6.5},
		},
	}
}

func TestWriteScheduleCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteScheduleCSV(&buf, testSchedule()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "machine_id,slot,quantity", lines[0])
	assert.Equal(t, "m1,0,4", lines[1])
	assert.Equal(t, "m1,1,6.5", lines[2])
}

func TestWriteScheduleJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteScheduleJSON(&buf, testSchedule()))

	var entries []model.ScheduleEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	assert.Equal(t, testSchedule().Entries, entries)
}

func TestWriteSummaryJSON(t *testing.T) {
	res := &optimize.Result{
		RunID:     "run-1",
		Objective: 80,
		Cost: model.CostResult{
			BaselineCost:  100,
			OptimizedCost: 80,
			SavingsAbs:    20,
			SavingsPct:    20,
		},
		SolveTime: 250 * time.Millisecond,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryJSON(&buf, res))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run-1", got["run_id"])
	assert.Equal(t, 80.0, got["objective"])
	assert.Equal(t, 0.25, got["solve_seconds"])
}
