package simulation

import "github.com/napolitain/idle-economy/internal/models"

// Structure is a production building: workers, production lines and a timed
// run. It is either idle or running; while running, timer counts down the
// seconds left in the current run.
type Structure struct {
	pool       *ResourcePool
	config     *models.StructureConfig
	workerCfg  *models.WorkerConfig
	workers    []*Worker
	production []*ProductionLine
	running    bool
	unlocked   bool
	managed    bool
	timer      float64
}

// NewStructure creates a structure with no workers. Free structures start
// unlocked.
func NewStructure(config *models.StructureConfig, workerCfg *models.WorkerConfig, pool *ResourcePool) *Structure {
	s := &Structure{
		pool:       pool,
		config:     config,
		workerCfg:  workerCfg,
		workers:    make([]*Worker, 0),
		production: make([]*ProductionLine, len(config.Production)),
		unlocked:   config.UnlockCost == 0,
	}
	for i := range config.Production {
		s.production[i] = NewProductionLine(&config.Production[i])
	}
	return s
}

// Type returns the structure type
func (s *Structure) Type() models.StructureType { return s.config.Type }

// Name returns the display name
func (s *Structure) Name() string { return s.config.Name }

// Config returns the static configuration
func (s *Structure) Config() *models.StructureConfig { return s.config }

// IsUnlocked returns true once the structure has been bought
func (s *Structure) IsUnlocked() bool { return s.unlocked }

// CanUnlock returns true if the pool holds enough gold to unlock
func (s *Structure) CanUnlock() bool {
	return !s.unlocked && s.pool.Get(models.Gold) >= s.config.UnlockCost
}

// UnlockCost returns the gold cost to unlock
func (s *Structure) UnlockCost() float64 { return s.config.UnlockCost }

// ManagerCost returns the gold cost to hire a manager
func (s *Structure) ManagerCost() float64 { return s.config.ManagerCost }

// HasManager returns true if the structure restarts runs on its own
func (s *Structure) HasManager() bool { return s.managed }

// Workers returns the workers in hiring order
func (s *Structure) Workers() []*Worker { return s.workers }

// Production returns the production lines in config order
func (s *Structure) Production() []*ProductionLine { return s.production }

// IsRunning returns true while a run is in flight
func (s *Structure) IsRunning() bool { return s.running }

// RunTime returns the length of one run in seconds
func (s *Structure) RunTime() float64 { return s.config.BaseWorkTime }

// SkillAvailable returns the skill workers learn on level up here
func (s *Structure) SkillAvailable() models.WorkerSkill { return s.config.SkillAvailable }

// TimeRemaining returns the seconds left in the current run, or the full run
// length while idle
func (s *Structure) TimeRemaining() float64 {
	if s.running {
		return s.timer
	}
	return s.config.BaseWorkTime
}

// PercentComplete returns progress of the current run in [0, 1]
func (s *Structure) PercentComplete() float64 {
	if !s.running || s.config.BaseWorkTime <= 0 {
		return 0
	}
	pct := (s.config.BaseWorkTime - s.timer) / s.config.BaseWorkTime
	if pct < 0 {
		return 0
	}
	if pct > 1 {
		return 1
	}
	return pct
}

// CanRun returns true if a new run could start now: idle, unlocked, staffed,
// and at least one line's input is available
func (s *Structure) CanRun() bool {
	if s.running || !s.unlocked || len(s.workers) == 0 || s.config.BaseWorkTime <= 0 {
		return false
	}
	for _, p := range s.production {
		if s.pool.Get(p.InputType()) >= p.InputCount() {
			return true
		}
	}
	return false
}

// Load replaces the dynamic state with persisted data. A running flag on a
// structure that cannot run (locked or unstaffed) is dropped.
func (s *Structure) Load(data models.StructureData) {
	s.workers = make([]*Worker, len(data.Workers))
	for i, wd := range data.Workers {
		s.workers[i] = NewWorker(s.config.Type, s.workerCfg, wd)
	}
	s.RecalculateProduction()

	s.unlocked = data.Unlocked
	s.managed = data.Managed
	s.running = false
	for i, p := range s.production {
		p.running = i < len(data.Running) && data.Running[i]
		if p.running {
			s.running = true
		}
	}
	s.timer = data.Timer

	if s.running && (!s.unlocked || len(s.workers) == 0) {
		s.clearRun()
	}
	if !s.running {
		s.timer = 0
	}
}

// SetTimeRemaining sets the current run to a fraction of the run length.
// Zero (or less) leaves the structure idle.
func (s *Structure) SetTimeRemaining(fraction float64) {
	s.running = fraction > 0
	if !s.running {
		s.timer = 0
		return
	}
	s.timer = fraction * s.config.BaseWorkTime
}

// RecalculateProduction recomputes every line's cached totals. Call after any
// worker's skills change.
func (s *Structure) RecalculateProduction() {
	for _, p := range s.production {
		p.Calculate(s.workers)
	}
}

// HireManager makes the structure restart runs on its own. Payment is
// handled by the caller.
func (s *Structure) HireManager() {
	s.managed = true
}

// AddWorker appends a worker to the structure
func (s *Structure) AddWorker(w *Worker) {
	s.workers = append(s.workers, w)
	for _, p := range s.production {
		p.AddWorker(w)
	}
}

// RemoveWorker removes a worker from the structure, false if not present
func (s *Structure) RemoveWorker(w *Worker) bool {
	for i, cur := range s.workers {
		if cur != w {
			continue
		}
		s.workers = append(s.workers[:i], s.workers[i+1:]...)
		for _, p := range s.production {
			p.RemoveWorker(w)
		}
		return true
	}
	return false
}

// Unlock buys the structure if the pool holds enough gold
func (s *Structure) Unlock() bool {
	if s.unlocked {
		return false
	}
	if !s.pool.Remove(models.Gold, s.config.UnlockCost) {
		return false
	}
	s.unlocked = true
	return true
}

// Start begins a run on every line whose input can be reserved. Lines that
// cannot be paid for sit this run out.
func (s *Structure) Start() bool {
	if !s.CanRun() {
		return false
	}
	for _, p := range s.production {
		p.running = s.pool.Remove(p.InputType(), p.InputCount())
	}
	s.running = true
	s.timer = s.config.BaseWorkTime
	return true
}

// Update advances the structure by elapsed seconds. Meant for frame-sized
// steps: at most one run completes per call.
func (s *Structure) Update(elapsed float64) {
	if s.running {
		s.timer -= elapsed
		if s.timer <= 0 {
			s.completeRun()
		}
		return
	}
	if s.managed && s.CanRun() {
		s.Start()
	}
}

// completeRun pays out running lines, grants experience, and restarts the
// run when managed
func (s *Structure) completeRun() {
	s.running = false
	for _, p := range s.production {
		if p.running {
			s.pool.Add(p.OutputType(), p.OutputCount())
			p.running = false
		}
	}
	for _, w := range s.workers {
		w.AddExperience(s.config.ExpPerRun)
	}
	if s.managed {
		overshoot := s.timer
		if s.Start() {
			// carry the overshoot so drift does not build up across runs
			s.timer += overshoot
		}
	}
	if !s.running {
		s.timer = 0
	}
}

// clearRun drops the in-flight run without paying it out
func (s *Structure) clearRun() {
	s.running = false
	s.timer = 0
	for _, p := range s.production {
		p.running = false
	}
}

// ToData returns the persisted form of the structure
func (s *Structure) ToData() models.StructureData {
	data := models.StructureData{
		Workers:  make([]models.WorkerData, len(s.workers)),
		Running:  make([]bool, len(s.production)),
		Timer:    s.timer,
		Unlocked: s.unlocked,
		Managed:  s.managed,
	}
	for i, w := range s.workers {
		data.Workers[i] = w.ToData()
	}
	for i, p := range s.production {
		data.Running[i] = p.running
	}
	return data
}
