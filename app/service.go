package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kilianp07/factorysched/config"
	"github.com/kilianp07/factorysched/core/forecast"
	coremetrics "github.com/kilianp07/factorysched/core/metrics"
	"github.com/kilianp07/factorysched/core/optimize"
	"github.com/kilianp07/factorysched/infra/logger"
	inframetrics "github.com/kilianp07/factorysched/infra/metrics"
	"github.com/kilianp07/factorysched/infra/store"
	"github.com/kilianp07/factorysched/internal/eventbus"
	"github.com/kilianp07/factorysched/pkg/export"
	"github.com/kilianp07/factorysched/simulator"
)

// Service wires the store, forecaster and optimization engine together
// behind the CLI commands.
type Service struct {
	cfg      *config.Config
	store    *store.Store
	engine   *optimize.Engine
	log      logger.Logger
	promPort string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	policy, err := optimize.ParseDemandPolicy(cfg.Optimizer.DemandPolicy)
	if err != nil {
		st.Close()
		return nil, err
	}
	builder := optimize.Builder{
		Policy:              policy,
		PlantCapacityFactor: cfg.Optimizer.PlantCapacityFactor,
	}
	solver := optimize.SimplexSolver{
		Tol:     cfg.Optimizer.Tolerance,
		Timeout: time.Duration(cfg.Optimizer.TimeoutSeconds) * time.Second,
	}

	engine := optimize.NewEngine(builder, solver, logger.New("engine"), sink, eventbus.New())
	engine.Validator = optimize.Validator{Epsilon: cfg.Optimizer.Epsilon}
	engine.Reporter = optimize.Reporter{Epsilon: cfg.Optimizer.Epsilon}

	return &Service{
		cfg:      cfg,
		store:    st,
		engine:   engine,
		log:      logg,
		promPort: cfg.Metrics.PrometheusPort,
	}, nil
}

// Generate populates the store with synthetic machines, demand history and
// a price curve, replacing whatever was there.
func (s *Service) Generate() error {
	gen := simulator.New(s.cfg.Simulator)
	machines := gen.Machines()
	if err := s.store.SaveMachines(machines); err != nil {
		return fmt.Errorf("save machines: %w", err)
	}
	if err := s.store.SaveHistory(gen.History(machines)); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	prices := gen.Prices(s.cfg.Optimizer.Horizon, s.cfg.Forecast.StartHour)
	if err := s.store.SavePrices(prices); err != nil {
		return fmt.Errorf("save prices: %w", err)
	}
	s.log.Infof("generated %d machines, %d days of history, %d price slots",
		len(machines), s.cfg.Simulator.HistoryDays, len(prices))
	return nil
}

// Forecast derives a demand forecast from the stored history and persists
// it for the next optimization run.
func (s *Service) Forecast() error {
	hist, err := s.store.History()
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	fc, err := forecast.New(s.cfg.Forecast.Method, s.cfg.Forecast.StartHour)
	if err != nil {
		return err
	}
	demand, err := fc.Forecast(hist, s.cfg.Optimizer.Horizon)
	if err != nil {
		if _, ok := fc.(forecast.Naive); ok {
			return fmt.Errorf("forecast: %w", err)
		}
		s.log.Warnf("forecast method %s failed, falling back to naive: %v", s.cfg.Forecast.Method, err)
		demand, err = forecast.Naive{}.Forecast(hist, s.cfg.Optimizer.Horizon)
		if err != nil {
			return fmt.Errorf("forecast: %w", err)
		}
	}
	if err := s.store.SaveForecast(demand); err != nil {
		return fmt.Errorf("save forecast: %w", err)
	}
	s.log.Infof("forecast %d points with method %s", len(demand), s.cfg.Forecast.Method)
	return nil
}

// Optimize runs one optimization over the stored inputs, persists the
// result and writes the export files.
func (s *Service) Optimize(ctx context.Context) (*optimize.Result, error) {
	machines, err := s.store.Machines()
	if err != nil {
		return nil, fmt.Errorf("load machines: %w", err)
	}
	prices, err := s.store.Prices()
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}
	demand, err := s.store.Forecast()
	if err != nil {
		return nil, fmt.Errorf("load forecast: %w", err)
	}

	res, err := s.engine.Run(ctx, optimize.Inputs{
		Machines: machines,
		Prices:   prices,
		Forecast: demand,
		Horizon:  s.cfg.Optimizer.Horizon,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveRun(res); err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}
	if err := s.export(res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) export(res *optimize.Result) error {
	dir := s.cfg.Export.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	ext := s.cfg.Export.Format
	schedPath := filepath.Join(dir, "schedule."+ext)
	f, err := os.Create(schedPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if ext == "json" {
		err = export.WriteScheduleJSON(f, res.Schedule)
	} else {
		err = export.WriteScheduleCSV(f, res.Schedule)
	}
	if err != nil {
		return fmt.Errorf("write schedule: %w", err)
	}

	sumPath := filepath.Join(dir, "summary.json")
	sf, err := os.Create(sumPath)
	if err != nil {
		return err
	}
	defer sf.Close()
	if err := export.WriteSummaryJSON(sf, res); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	s.log.Infof("exported %s and %s", schedPath, sumPath)
	return nil
}

// ServeMetrics starts the Prometheus HTTP endpoint when a port is
// configured and blocks until the context is cancelled.
func (s *Service) ServeMetrics(ctx context.Context) error {
	if s.promPort == "" {
		<-ctx.Done()
		return nil
	}
	return inframetrics.StartPromServer(ctx, s.promPort)
}

// Close releases resources held by the service.
func (s *Service) Close() error { return s.store.Close() }
