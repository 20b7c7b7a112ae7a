package simulation

import (
	"math"

	"github.com/napolitain/idle-economy/internal/models"
)

// CatchUpReport describes what a catch-up estimated and applied
type CatchUpReport struct {
	// Duration is the offline time in seconds
	Duration float64
	// MaxGeneration is the net generation per resource if every input had
	// been available
	MaxGeneration map[models.ResourceType]float64
	// Generation is the net generation per resource after scarcity, the
	// amount applied to the pool
	Generation map[models.ResourceType]float64
	// Runs counts whole runs completed per structure, including a run that
	// was already in flight
	Runs map[models.StructureType]int
	// Spillover is the progress fraction of the run left in flight at the end
	// of the window, per structure (0 = idle)
	Spillover map[models.StructureType]float64
}

func newCatchUpReport(duration float64) *CatchUpReport {
	r := &CatchUpReport{
		Duration:      duration,
		MaxGeneration: make(map[models.ResourceType]float64),
		Generation:    make(map[models.ResourceType]float64),
		Runs:          make(map[models.StructureType]int),
		Spillover:     make(map[models.StructureType]float64),
	}
	for _, rt := range models.AllResourceTypes() {
		r.MaxGeneration[rt] = 0
		r.Generation[rt] = 0
	}
	return r
}

// runPlan is the constrained-pass outcome for one structure
type runPlan struct {
	// pending: the run in flight at save time is still in flight at the end
	pending   bool
	remaining float64 // seconds left on the pending run

	progress float64 // progress of a newly started in-flight run
	charged  []bool  // lines whose input was charged for that run
}

func (p *runPlan) inFlight() bool {
	for _, c := range p.charged {
		if c {
			return true
		}
	}
	return false
}

// CatchUp estimates the economy's progress since lastSavedAtMillis and applies
// it. Call it once after Load or when the host resumes.
func (s *Simulation) CatchUp(lastSavedAtMillis int64) *CatchUpReport {
	now := s.clock.Now().UnixMilli()
	return s.CatchUpDuration(float64(now-lastSavedAtMillis) / 1000)
}

// CatchUpDuration estimates and applies duration seconds of offline progress.
//
// Structures are visited in the catalog's catch-up order, so an earlier
// producer's estimate is visible to a later consumer within the same pass.
// The first pass collects the unconstrained net generation per resource. The
// second pass keeps those run counts for lines whose input never runs dry and
// caps the others by what stock plus earlier production can pay for. The
// third pass commits timers and applies the constrained generation in one
// batch. Uncertainty is resolved in the player's favor.
func (s *Simulation) CatchUpDuration(duration float64) *CatchUpReport {
	report := newCatchUpReport(duration)
	if !(duration > 0) || math.IsInf(duration, 0) {
		return report
	}

	initial := s.pool.Clone()
	maxGeneration := report.MaxGeneration

	// first pass: desired input/output
	for _, st := range s.catalog.CatchUpOrder {
		structure := s.catchUpCandidate(st)
		if structure == nil {
			continue
		}
		budget, ok := finishInFlight(structure, duration, maxGeneration)
		if !ok {
			// the run in flight outlasts the window, nothing else happens
			continue
		}
		if !structure.HasManager() {
			continue
		}
		unflooredRuns := budget / structure.RunTime()
		flooredRuns := math.Floor(unflooredRuns)
		// a run started but not finished has consumed input without output
		inProgress := unflooredRuns > flooredRuns
		for _, p := range structure.Production() {
			if p.InputType() != models.None {
				maxGeneration[p.InputType()] -= chargedRuns(flooredRuns, inProgress) * p.InputCount()
			}
			maxGeneration[p.OutputType()] += flooredRuns * p.OutputCount()
		}
	}

	// second pass: restrict by what could actually be paid for
	generation := report.Generation
	plans := make(map[models.StructureType]*runPlan)
	for _, st := range s.catalog.CatchUpOrder {
		structure := s.catchUpCandidate(st)
		if structure == nil {
			continue
		}
		plan := &runPlan{charged: make([]bool, len(structure.Production()))}
		plans[st] = plan

		budget := duration
		if structure.IsRunning() {
			if duration >= structure.TimeRemaining() {
				budget, _ = finishInFlight(structure, duration, generation)
				report.Runs[st]++
			} else {
				plan.pending = true
				plan.remaining = structure.TimeRemaining() - duration
				report.Spillover[st] = 1 - plan.remaining/structure.RunTime()
				continue
			}
		}
		if !structure.HasManager() {
			continue
		}

		unflooredTimeRuns := budget / structure.RunTime()
		flooredTimeRuns := math.Floor(unflooredTimeRuns)
		inProgress := unflooredTimeRuns > flooredTimeRuns
		mostRuns := 0.0
		for i, p := range structure.Production() {
			in, out := p.InputType(), p.OutputType()

			// input-free lines and lines whose input stays in surplus run flat out
			if in == models.None || initial[in]+maxGeneration[in] >= 0 {
				if in != models.None {
					generation[in] -= chargedRuns(flooredTimeRuns, inProgress) * p.InputCount()
				}
				generation[out] += flooredTimeRuns * p.OutputCount()
				plan.progress = unflooredTimeRuns - flooredTimeRuns
				plan.charged[i] = inProgress
				mostRuns = math.Max(mostRuns, flooredTimeRuns)
				continue
			}

			// most whole runs the input on hand could pay for, capped by time
			flooredResourceRuns := math.Floor((initial[in] + generation[in]) / p.InputCount())
			if flooredResourceRuns < 0 {
				flooredResourceRuns = 0
			}
			runs := math.Min(flooredResourceRuns, flooredTimeRuns)
			generation[in] -= runs * p.InputCount()
			generation[out] += runs * p.OutputCount()
			mostRuns = math.Max(mostRuns, runs)
			// input to spare after the last whole run: the next run is in flight
			if flooredResourceRuns > flooredTimeRuns {
				generation[in] -= p.InputCount()
				plan.progress = unflooredTimeRuns - flooredTimeRuns
				plan.charged[i] = true
			}
		}
		report.Runs[st] += int(mostRuns)
		if plan.inFlight() {
			report.Spillover[st] = plan.progress
		}
	}

	// final pass: commit structure state, then resources in one batch
	for _, st := range s.catalog.CatchUpOrder {
		plan, ok := plans[st]
		if !ok {
			continue
		}
		structure := s.structures[st]
		switch {
		case plan.pending:
			structure.timer = plan.remaining
		case plan.inFlight():
			structure.SetTimeRemaining(1 - plan.progress)
			for i, p := range structure.Production() {
				p.running = plan.charged[i]
			}
		default:
			structure.clearRun()
		}
	}
	for _, rt := range models.AllResourceTypes() {
		net := generation[rt]
		switch {
		case net > 0:
			s.pool.Add(rt, net)
		case net < 0:
			// an estimate can overdraw when a producer was itself constrained;
			// the pool bottoms out at zero
			if !s.pool.Remove(rt, -net) {
				s.pool.Remove(rt, s.pool.Get(rt))
			}
		}
	}

	return report
}

// catchUpCandidate returns the structure if catch-up can touch it
func (s *Simulation) catchUpCandidate(st models.StructureType) *Structure {
	structure, ok := s.structures[st]
	if !ok || !structure.IsUnlocked() || len(structure.Workers()) == 0 || structure.RunTime() <= 0 {
		return nil
	}
	return structure
}

// finishInFlight credits the run in flight to ledger if it completes within
// duration and returns the time left for new runs. ok is false if the run
// outlasts the window. An idle structure has the whole window.
func finishInFlight(structure *Structure, duration float64, ledger map[models.ResourceType]float64) (float64, bool) {
	if !structure.IsRunning() {
		return duration, true
	}
	if duration < structure.TimeRemaining() {
		return 0, false
	}
	for _, p := range structure.Production() {
		if p.Running() {
			ledger[p.OutputType()] += p.OutputCount()
		}
	}
	return duration - structure.TimeRemaining(), true
}

// chargedRuns is the number of runs whose input was paid: whole runs plus
// the one in flight
func chargedRuns(floored float64, inProgress bool) float64 {
	if inProgress {
		return floored + 1
	}
	return floored
}
