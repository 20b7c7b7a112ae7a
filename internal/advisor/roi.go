// Package advisor ranks purchases by return on investment and plans a greedy
// purchase order. Gains are measured by running the catch-up estimate on a
// copy of the economy with and without the purchase.
package advisor

import (
	"io"
	"log/slog"
	"sort"

	"github.com/napolitain/idle-economy/internal/models"
	"github.com/napolitain/idle-economy/internal/simulation"
)

const (
	// DefaultHorizon is the window, in seconds, a purchase is judged over
	DefaultHorizon = 3600.0
	// StockDiscount scales the sale value of goods still in the pool
	StockDiscount = 0.5
)

// ROIMetric represents the components of an ROI calculation
type ROIMetric struct {
	GainPerHour float64 // gold-equivalent value per hour
	TotalCost   float64 // gold
}

// Calculate computes the final ROI value
func (m ROIMetric) Calculate() float64 {
	if m.TotalCost <= 0 {
		return m.GainPerHour * 1000 // Very high ROI if free
	}
	return m.GainPerHour / m.TotalCost
}

// PaybackHours returns how long the purchase takes to earn its cost back,
// or -1 if it never does
func (m ROIMetric) PaybackHours() float64 {
	if m.GainPerHour <= 0 {
		return -1
	}
	return m.TotalCost / m.GainPerHour
}

// Recommendation is a ranked purchase
type Recommendation struct {
	Action     Action
	Metric     ROIMetric
	Affordable bool
}

// ResourceValues prices every resource in gold by the best rate any line
// sells it for. Resources nobody sells are worth nothing.
func ResourceValues(c *models.Catalog) map[models.ResourceType]float64 {
	values := map[models.ResourceType]float64{models.Gold: 1}
	for _, sc := range c.Structures {
		for _, p := range sc.Production {
			if p.Output != models.Gold || p.Input == models.None || p.InputPerWorker <= 0 {
				continue
			}
			rate := p.BaseOutputPerWorker / p.InputPerWorker
			if rate > values[p.Input] {
				values[p.Input] = rate
			}
		}
	}
	return values
}

// Advisor evaluates purchases against a catalog
type Advisor struct {
	catalog *models.Catalog
	values  map[models.ResourceType]float64
	horizon float64
	logger  *slog.Logger
}

// New creates an advisor judging purchases over horizon seconds
func New(catalog *models.Catalog, horizon float64) *Advisor {
	if !(horizon > 0) {
		horizon = DefaultHorizon
	}
	return &Advisor{
		catalog: catalog,
		values:  ResourceValues(catalog),
		horizon: horizon,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// worth values a pool in gold. Unsold goods count at StockDiscount of their
// sale value, so selling them is a gain.
func (a *Advisor) worth(pool *simulation.ResourcePool) float64 {
	total := pool.Get(models.Gold)
	for _, rt := range models.AllResourceTypes() {
		if rt == models.Gold {
			continue
		}
		total += pool.Get(rt) * a.values[rt] * StockDiscount
	}
	return total
}

// load builds a quiet simulation from save
func (a *Advisor) load(save *models.SaveData) *simulation.Simulation {
	sim := simulation.New(a.catalog, simulation.WithLogger(a.logger))
	sim.Load(save)
	return sim
}

// project loads save, optionally applies an action paid with lent gold, and
// returns the economy's worth after the horizon
func (a *Advisor) project(save *models.SaveData, action *Action) (float64, bool) {
	sim := a.load(save)
	if action != nil {
		cost := action.Cost(sim)
		sim.Pool().Add(models.Gold, cost)
		if !action.Apply(sim) {
			return 0, false
		}
	}
	sim.CatchUpDuration(a.horizon)
	return a.worth(sim.Pool()), true
}

// Evaluate computes the ROI metric of one action on save
func (a *Advisor) Evaluate(save *models.SaveData, action Action) (ROIMetric, bool) {
	base, _ := a.project(save, nil)
	return a.evaluate(save, action, base)
}

func (a *Advisor) evaluate(save *models.SaveData, action Action, base float64) (ROIMetric, bool) {
	with, ok := a.project(save, &action)
	if !ok {
		return ROIMetric{}, false
	}
	return ROIMetric{
		GainPerHour: (with - base) * 3600 / a.horizon,
		TotalCost:   action.Cost(a.load(save)),
	}, true
}

// Rank evaluates every candidate purchase on save, best ROI first. Ties keep
// catalog order.
func (a *Advisor) Rank(save *models.SaveData) []Recommendation {
	sim := a.load(save)
	gold := sim.Pool().Get(models.Gold)
	base, _ := a.project(save, nil)

	var recs []Recommendation
	for _, action := range Candidates(sim) {
		metric, ok := a.evaluate(save, action, base)
		if !ok {
			continue
		}
		recs = append(recs, Recommendation{
			Action:     action,
			Metric:     metric,
			Affordable: gold >= metric.TotalCost,
		})
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Metric.Calculate() > recs[j].Metric.Calculate()
	})
	return recs
}
