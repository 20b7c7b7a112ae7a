// Package simulation implements the idle economy: the shared resource pool,
// structures with their workers and production lines, the per-frame update,
// and the offline catch-up estimate.
//
// A Simulation is single-threaded and not safe for concurrent use.
package simulation

import (
	"log/slog"

	"github.com/napolitain/idle-economy/internal/models"
)

// Simulation owns the resource pool and every structure of the catalog
type Simulation struct {
	catalog *models.Catalog
	clock   Clock
	logger  *slog.Logger

	pool          *ResourcePool
	structures    map[models.StructureType]*Structure
	structureList []*Structure // catalog order, used by Update
	workerCount   int
}

// Option configures a Simulation
type Option func(*Simulation)

// WithClock sets the clock used by CatchUp and ToData
func WithClock(c Clock) Option {
	return func(s *Simulation) {
		s.clock = c
	}
}

// WithLogger sets the logger used for data-integrity warnings
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) {
		s.logger = l
	}
}

// New creates a simulation for a validated catalog. Structures start with no
// workers; call Load with models.DefaultSave for a new game.
func New(catalog *models.Catalog, opts ...Option) *Simulation {
	s := &Simulation{
		catalog: catalog,
		clock:   RealClock{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

// reset rebuilds the pool and structures from the catalog defaults
func (s *Simulation) reset() {
	s.pool = NewResourcePool()
	s.structures = make(map[models.StructureType]*Structure, len(s.catalog.Structures))
	s.structureList = make([]*Structure, 0, len(s.catalog.Structures))
	s.workerCount = 0
	for i := range s.catalog.Structures {
		st := NewStructure(&s.catalog.Structures[i], &s.catalog.Worker, s.pool)
		s.structures[st.Type()] = st
		s.structureList = append(s.structureList, st)
	}
}

// Catalog returns the configuration the simulation was built from
func (s *Simulation) Catalog() *models.Catalog { return s.catalog }

// Pool returns the shared resource pool
func (s *Simulation) Pool() *ResourcePool { return s.pool }

// Structure returns a structure by type
func (s *Simulation) Structure(st models.StructureType) (*Structure, bool) {
	structure, ok := s.structures[st]
	return structure, ok
}

// Structures returns all structures in catalog order
func (s *Simulation) Structures() []*Structure { return s.structureList }

// WorkerCount returns the total number of workers across all structures
func (s *Simulation) WorkerCount() int { return s.workerCount }

// NextHireCost returns the gold cost of the next worker
func (s *Simulation) NextHireCost() float64 {
	return s.catalog.Worker.HireCost(s.workerCount)
}

// Load replaces the whole economy with saved data. Structures absent from the
// data keep their defaults; unknown structure types are logged and skipped.
// Load does not catch up, since the data may be a fresh save.
func (s *Simulation) Load(data *models.SaveData) {
	s.reset()
	if data == nil {
		return
	}
	s.pool.Load(data.Pool)

	for st, sd := range data.Structures {
		structure, ok := s.structures[st]
		if !ok {
			s.logger.Warn("ignoring unknown structure in save data", "structure", string(st))
			continue
		}
		structure.Load(sd)
		if hasRunningLine(sd.Running) && !structure.IsRunning() {
			s.logger.Warn("dropped in-flight run of structure that cannot run",
				"structure", string(st), "unlocked", sd.Unlocked, "workers", len(sd.Workers))
		}
		s.workerCount += len(structure.Workers())
	}
}

func hasRunningLine(flags []bool) bool {
	for _, r := range flags {
		if r {
			return true
		}
	}
	return false
}

// Update advances every structure by elapsed seconds in catalog order. A
// structure finishing a run may pay into the pool before a later structure
// updates in the same frame.
func (s *Simulation) Update(elapsed float64) {
	if !(elapsed > 0) {
		return
	}
	for _, st := range s.structureList {
		st.Update(elapsed)
	}
}

// ToData returns the persisted form of the economy, stamped with the current
// time
func (s *Simulation) ToData() *models.SaveData {
	data := &models.SaveData{
		Pool:       s.pool.ToData(),
		Structures: make(map[models.StructureType]models.StructureData, len(s.structureList)),
		LastSaved:  s.clock.Now().UnixMilli(),
	}
	for _, st := range s.structureList {
		data.Structures[st.Type()] = st.ToData()
	}
	return data
}

// HireWorker buys a new worker for a structure at the current hire cost
func (s *Simulation) HireWorker(st models.StructureType) bool {
	structure, ok := s.structures[st]
	if !ok {
		return false
	}
	if !s.pool.Remove(models.Gold, s.NextHireCost()) {
		return false
	}
	s.workerCount++
	structure.AddWorker(NewWorker(st, &s.catalog.Worker, models.NewWorkerData()))
	return true
}

// LevelUpWorker levels the worker at index of a structure, paying the gold
// cost for its current level. The worker learns the structure's skill.
func (s *Simulation) LevelUpWorker(st models.StructureType, index int) bool {
	structure, ok := s.structures[st]
	if !ok || index < 0 || index >= len(structure.Workers()) {
		return false
	}
	w := structure.Workers()[index]
	if !w.CanLevel() {
		return false
	}
	cost, ok := s.catalog.Worker.CostForLevel(w.Level())
	if !ok || !s.pool.Remove(models.Gold, cost) {
		return false
	}
	w.LevelUp(structure.SkillAvailable())
	structure.RecalculateProduction()
	return true
}

// HireManager buys the manager of a structure
func (s *Simulation) HireManager(st models.StructureType) bool {
	structure, ok := s.structures[st]
	if !ok || structure.HasManager() {
		return false
	}
	if !s.pool.Remove(models.Gold, structure.ManagerCost()) {
		return false
	}
	structure.HireManager()
	return true
}

// Unlock buys a structure
func (s *Simulation) Unlock(st models.StructureType) bool {
	structure, ok := s.structures[st]
	if !ok {
		return false
	}
	return structure.Unlock()
}

// Start manually starts a run of a structure
func (s *Simulation) Start(st models.StructureType) bool {
	structure, ok := s.structures[st]
	if !ok {
		return false
	}
	return structure.Start()
}
