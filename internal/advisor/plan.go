package advisor

import (
	"github.com/napolitain/idle-economy/internal/models"
)

const (
	// waitChunk is the catch-up step, in seconds, used while saving up gold
	waitChunk = 60.0
	// DefaultMaxWait bounds how long the planner waits for one purchase
	DefaultMaxWait = 24 * 3600.0
)

// Step is one purchase of a plan
type Step struct {
	Action      Action
	Description string
	Cost        float64
	Wait        float64 // seconds of offline play before the purchase
	Metric      ROIMetric
}

// Plan is the result of a greedy purchase schedule
type Plan struct {
	Steps     []Step
	TotalWait float64
	Final     *models.SaveData
}

// Plan repeatedly buys the best-ROI purchase that gold income can reach,
// waiting by catch-up until it is affordable. It stops after maxSteps
// purchases or when no remaining purchase gains anything.
func (a *Advisor) Plan(save *models.SaveData, maxSteps int, maxWait float64) *Plan {
	if !(maxWait > 0) {
		maxWait = DefaultMaxWait
	}
	plan := &Plan{}
	current := save

	for len(plan.Steps) < maxSteps {
		step, next, ok := a.nextStep(current, maxWait)
		if !ok {
			break
		}
		plan.Steps = append(plan.Steps, step)
		plan.TotalWait += step.Wait
		current = next
	}

	plan.Final = current
	return plan
}

// nextStep picks the best reachable purchase and returns the save after it
func (a *Advisor) nextStep(save *models.SaveData, maxWait float64) (Step, *models.SaveData, bool) {
	for _, rec := range a.Rank(save) {
		if rec.Metric.GainPerHour <= 0 {
			break
		}
		wait, ok := a.timeToAfford(save, rec.Metric.TotalCost, maxWait)
		if !ok {
			continue
		}

		sim := a.load(save)
		for waited := 0.0; waited < wait; waited += waitChunk {
			sim.CatchUpDuration(waitChunk)
		}
		if !rec.Action.Apply(sim) {
			continue
		}

		next := sim.ToData()
		next.LastSaved = save.LastSaved
		return Step{
			Action:      rec.Action,
			Description: rec.Action.Description(a.catalog),
			Cost:        rec.Metric.TotalCost,
			Wait:        wait,
			Metric:      rec.Metric,
		}, next, true
	}
	return Step{}, nil, false
}

// timeToAfford returns the whole number of wait chunks before the pool holds
// cost gold, false if it never does within maxWait
func (a *Advisor) timeToAfford(save *models.SaveData, cost, maxWait float64) (float64, bool) {
	sim := a.load(save)
	waited := 0.0
	for sim.Pool().Get(models.Gold) < cost {
		if waited >= maxWait {
			return 0, false
		}
		sim.CatchUpDuration(waitChunk)
		waited += waitChunk
	}
	return waited, true
}
