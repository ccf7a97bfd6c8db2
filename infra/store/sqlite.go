// Package store persists machine specifications, demand history, forecasts
// and optimization results in a local SQLite database. The optimizer core
// treats it purely as an input source and output sink.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kilianp07/factorysched/core/forecast"
	"github.com/kilianp07/factorysched/core/model"
	"github.com/kilianp07/factorysched/core/optimize"
)

// Store wraps a SQLite database holding one plant's scheduling data.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and initializes the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_sync=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS machines (
		id TEXT PRIMARY KEY,
		capacity REAL NOT NULL,
		min_production REAL NOT NULL,
		energy_rate REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		machine_id TEXT NOT NULL,
		hour INTEGER NOT NULL,
		demand REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS prices (
		slot INTEGER PRIMARY KEY,
		price REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS forecasts (
		machine_id TEXT NOT NULL,
		slot INTEGER NOT NULL,
		demand REAL NOT NULL,
		PRIMARY KEY (machine_id, slot)
	);

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		objective REAL NOT NULL,
		baseline_cost REAL NOT NULL,
		optimized_cost REAL NOT NULL,
		savings_absolute REAL NOT NULL,
		savings_percent REAL NOT NULL,
		solve_seconds REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS schedule_entries (
		run_id TEXT NOT NULL,
		machine_id TEXT NOT NULL,
		slot INTEGER NOT NULL,
		quantity REAL NOT NULL,
		PRIMARY KEY (run_id, machine_id, slot)
	);

	CREATE INDEX IF NOT EXISTS idx_history_machine ON history(machine_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveMachines replaces the stored machine specifications.
func (s *Store) SaveMachines(machines []model.Machine) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec("DELETE FROM machines"); err != nil {
		return err
	}
	for _, m := range machines {
		if _, err := tx.Exec(
			"INSERT INTO machines (id, capacity, min_production, energy_rate) VALUES (?, ?, ?, ?)",
			m.ID, m.Capacity, m.MinProduction, m.EnergyRate,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Machines returns the stored machine specifications ordered by id.
func (s *Store) Machines() ([]model.Machine, error) {
	rows, err := s.db.Query("SELECT id, capacity, min_production, energy_rate FROM machines ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Machine
	for rows.Next() {
		var m model.Machine
		if err := rows.Scan(&m.ID, &m.Capacity, &m.MinProduction, &m.EnergyRate); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SaveHistory replaces the demand history for all machines.
func (s *Store) SaveHistory(hist forecast.History) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec("DELETE FROM history"); err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO history (machine_id, hour, demand) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for id, series := range hist {
		for _, p := range series {
			if _, err := stmt.Exec(id, p.Hour, p.Demand); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// History returns the stored demand history keyed by machine.
func (s *Store) History() (forecast.History, error) {
	rows, err := s.db.Query("SELECT machine_id, hour, demand FROM history ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	hist := forecast.History{}
	for rows.Next() {
		var id string
		var p forecast.HistoryPoint
		if err := rows.Scan(&id, &p.Hour, &p.Demand); err != nil {
			return nil, err
		}
		hist[id] = append(hist[id], p)
	}
	return hist, rows.Err()
}

// SavePrices replaces the stored price series.
func (s *Store) SavePrices(prices model.PriceSeries) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec("DELETE FROM prices"); err != nil {
		return err
	}
	for _, p := range prices {
		if _, err := tx.Exec("INSERT INTO prices (slot, price) VALUES (?, ?)", p.Slot, p.Price); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Prices returns the stored price series ordered by slot.
func (s *Store) Prices() (model.PriceSeries, error) {
	rows, err := s.db.Query("SELECT slot, price FROM prices ORDER BY slot")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out model.PriceSeries
	for rows.Next() {
		var p model.PricePoint
		if err := rows.Scan(&p.Slot, &p.Price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SaveForecast replaces the stored demand forecast.
func (s *Store) SaveForecast(f model.DemandForecast) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec("DELETE FROM forecasts"); err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO forecasts (machine_id, slot, demand) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, p := range f {
		if _, err := stmt.Exec(p.MachineID, p.Slot, p.Demand); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Forecast returns the stored demand forecast.
func (s *Store) Forecast() (model.DemandForecast, error) {
	rows, err := s.db.Query("SELECT machine_id, slot, demand FROM forecasts ORDER BY machine_id, slot")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out model.DemandForecast
	for rows.Next() {
		var p model.ForecastPoint
		if err := rows.Scan(&p.MachineID, &p.Slot, &p.Demand); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SaveRun persists a run result and its schedule in one transaction. Each
// run inserts a new row set; prior schedules are never updated in place.
func (s *Store) SaveRun(res *optimize.Result) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(
		`INSERT INTO runs (id, created_at, objective, baseline_cost, optimized_cost,
			savings_absolute, savings_percent, solve_seconds)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, time.Now().UTC().Format(time.RFC3339), res.Objective,
		res.Cost.BaselineCost, res.Cost.OptimizedCost,
		res.Cost.SavingsAbs, res.Cost.SavingsPct, res.SolveTime.Seconds(),
	); err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO schedule_entries (run_id, machine_id, slot, quantity) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, e := range res.Schedule.Entries {
		if _, err := stmt.Exec(res.RunID, e.MachineID, e.Slot, e.Quantity); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ScheduleEntries returns the persisted schedule for a run.
func (s *Store) ScheduleEntries(runID string) ([]model.ScheduleEntry, error) {
	rows, err := s.db.Query(
		"SELECT machine_id, slot, quantity FROM schedule_entries WHERE run_id = ? ORDER BY machine_id, slot", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ScheduleEntry
	for rows.Next() {
		var e model.ScheduleEntry
		if err := rows.Scan(&e.MachineID, &e.Slot, &e.Quantity); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
