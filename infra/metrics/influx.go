package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/factorysched/core/metrics"
	"github.com/kilianp07/factorysched/core/model"
	"github.com/kilianp07/factorysched/infra/logger"
)

// InfluxSink writes optimization runs to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns
// a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun writes the run outcome as one point.
func (s *InfluxSink) RecordRun(res coremetrics.RunResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("optimization_run").
		AddTag("run_id", res.RunID).
		AddTag("status", res.Status).
		AddTag("policy", res.Policy).
		AddField("horizon", res.Horizon).
		AddField("machines", res.Machines).
		AddField("solve_seconds", res.SolveTime.Seconds()).
		AddField("objective", round4(res.Objective)).
		AddField("baseline_cost", round4(res.BaselineCost)).
		AddField("optimized_cost", round4(res.OptimizedCost)).
		AddField("savings_absolute", round4(res.SavingsAbs)).
		AddField("savings_percent", round4(res.SavingsPct)).
		SetTime(res.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSchedule writes one point per schedule entry.
func (s *InfluxSink) RecordSchedule(runID string, entries []model.ScheduleEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	now := time.Now()
	for _, e := range entries {
		p := write.NewPointWithMeasurement("schedule_entry").
			AddTag("run_id", runID).
			AddTag("machine_id", e.MachineID).
			AddField("slot", e.Slot).
			AddField("quantity", round4(e.Quantity)).
			SetTime(now)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
