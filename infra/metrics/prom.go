package metrics

import (
	coremetrics "github.com/kilianp07/factorysched/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records optimization run outcomes in Prometheus metrics.
type PromSink struct {
	runs    *prometheus.CounterVec
	solve   prometheus.Histogram
	savings prometheus.Gauge
	cost    *prometheus.GaugeVec
}

// NewPromSink registers optimization metrics on the default Prometheus
// registerer. The metrics HTTP server is started separately with
// StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optimization_runs_total",
		Help: "Total number of optimization runs by terminal status",
	}, []string{"status"})
	solve := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimization_solve_seconds",
		Help:    "Wall-clock time spent in the LP solver",
		Buckets: prometheus.DefBuckets,
	})
	savings := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "optimization_savings_percent",
		Help: "Savings of the last successful run relative to the baseline cost",
	})
	cost := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "optimization_cost",
		Help: "Baseline and optimized cost of the last successful run",
	}, []string{"kind"})

	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(solve); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			solve = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(savings); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			savings = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(cost); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			cost = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{runs: runs, solve: solve, savings: savings, cost: cost}, nil
}

// RecordRun increments the run counter and updates the cost gauges.
func (s *PromSink) RecordRun(res coremetrics.RunResult) error {
	s.runs.WithLabelValues(res.Status).Inc()
	if res.SolveTime > 0 {
		s.solve.Observe(res.SolveTime.Seconds())
	}
	if res.Status == "optimal" {
		s.savings.Set(res.SavingsPct)
		s.cost.WithLabelValues("baseline").Set(res.BaselineCost)
		s.cost.WithLabelValues("optimized").Set(res.OptimizedCost)
	}
	return nil
}
