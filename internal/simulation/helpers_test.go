package simulation

import (
	"io"
	"log/slog"
	"time"

	"github.com/napolitain/idle-economy/internal/models"
)

// FakeClock is a manually advanced clock for deterministic tests
type FakeClock struct {
	now time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (f *FakeClock) Now() time.Time {
	return f.now
}

func (f *FakeClock) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

var testStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// chainCatalog is a two-structure chain: the gatherer produces herbs from
// nothing, the brewer turns herbs into potions
func chainCatalog(gatherTime, brewTime, brewInput float64) *models.Catalog {
	return &models.Catalog{
		Worker: models.WorkerConfig{
			LevelingExp:  []float64{100, 1000},
			LevelingCost: []float64{10, 100},
			HireBaseCost: 10,
		},
		Structures: []models.StructureConfig{
			{
				Type:        models.Herbalist,
				Name:        "Gatherer",
				ManagerCost: 5,
				Production: []models.ProductionConfig{
					{Input: models.None, Output: models.Herbs, BaseOutputPerWorker: 1,
						WorkerBonus: []models.SkillBonus{{Skill: models.Harvest, FlatIncrease: 1}}},
				},
				ExpPerRun:      10,
				SkillAvailable: models.Harvest,
				BaseWorkTime:   gatherTime,
			},
			{
				Type:        models.PotionBrewer,
				Name:        "Brewer",
				UnlockCost:  20,
				ManagerCost: 5,
				Production: []models.ProductionConfig{
					{Input: models.Herbs, Output: models.Potions, InputPerWorker: brewInput, BaseOutputPerWorker: 1,
						WorkerBonus: []models.SkillBonus{{Skill: models.Brew, FlatIncrease: 1}}},
				},
				ExpPerRun:      10,
				SkillAvailable: models.Brew,
				BaseWorkTime:   brewTime,
			},
		},
		CatchUpOrder: []models.StructureType{models.Herbalist, models.PotionBrewer},
	}
}

// newChainSim builds a simulation over chainCatalog with one worker in each
// structure and both unlocked
func newChainSim(gatherTime, brewTime, brewInput float64, clock Clock) *Simulation {
	sim := New(chainCatalog(gatherTime, brewTime, brewInput), WithClock(clock), WithLogger(quietLogger()))
	save := models.DefaultSave(sim.Catalog())
	for st, sd := range save.Structures {
		sd.Unlocked = true
		save.Structures[st] = sd
	}
	sim.Load(save)
	return sim
}

func mustStructure(sim *Simulation, st models.StructureType) *Structure {
	s, ok := sim.Structure(st)
	if !ok {
		panic("missing structure " + string(st))
	}
	return s
}
