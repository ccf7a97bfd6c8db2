// Package simulator generates synthetic plant data: machine specifications,
// hourly demand history and a day-ahead price curve. It exists so the
// optimizer can be exercised end to end without a real plant feed.
package simulator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/kilianp07/factorysched/config"
	"github.com/kilianp07/factorysched/core/forecast"
	"github.com/kilianp07/factorysched/core/model"
)

// Generator produces reproducible synthetic data for one plant.
type Generator struct {
	cfg config.SimulatorConfig
	rng *rand.Rand
}

// New builds a generator from cfg. A zero seed falls back to the clock.
func New(cfg config.SimulatorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// Machines generates machine specifications with randomized capacity,
// minimum output and energy consumption rate.
func (g *Generator) Machines() []model.Machine {
	machines := make([]model.Machine, 0, g.cfg.Machines)
	for i := 0; i < g.cfg.Machines; i++ {
		capacity := 40 + g.rng.Float64()*80 // 40..120 units/hour
		machines = append(machines, model.Machine{
			ID:            fmt.Sprintf("machine-%02d", i+1),
			Capacity:      round2(capacity),
			MinProduction: round2(capacity * (0.05 + g.rng.Float64()*0.10)),
			EnergyRate:    round2(1.5 + g.rng.Float64()*2.5), // kWh per unit
		})
	}
	return machines
}

// History generates hourly demand history for the given machines. Demand
// follows a daily cycle around half the machine's capacity with noise and
// occasional spikes.
func (g *Generator) History(machines []model.Machine) forecast.History {
	hours := g.cfg.HistoryDays * 24
	hist := forecast.History{}
	for _, m := range machines {
		base := m.Capacity * 0.5
		amplitude := m.Capacity * 0.2
		points := make([]forecast.HistoryPoint, 0, hours)
		for h := 0; h < hours; h++ {
			hourOfDay := h % 24
			demand := base + amplitude*math.Sin(2*math.Pi*float64(hourOfDay)/24)
			demand += g.rng.NormFloat64() * m.Capacity * 0.05
			if g.rng.Float64() < 0.02 {
				demand *= 1.5 // demand spike
			}
			demand = clamp(demand, m.MinProduction, m.Capacity)
			points = append(points, forecast.HistoryPoint{Hour: hourOfDay, Demand: round2(demand)})
		}
		hist[m.ID] = points
	}
	return hist
}

// Prices generates a day-ahead hourly price curve. Peak hours (09-21) sit
// near the configured peak price, the rest near the off-peak price, with a
// small amount of noise on both.
func (g *Generator) Prices(horizon, startHour int) model.PriceSeries {
	prices := make(model.PriceSeries, 0, horizon)
	for t := 0; t < horizon; t++ {
		hourOfDay := (startHour + t) % 24
		price := g.cfg.OffPeakPrice
		if hourOfDay >= 9 && hourOfDay < 21 {
			price = g.cfg.PeakPrice
		}
		price *= 1 + g.rng.NormFloat64()*0.05
		if price < 0.01 {
			price = 0.01
		}
		prices = append(prices, model.PricePoint{Slot: t, Price: round2(price)})
	}
	return prices
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
