package simulation

import "github.com/napolitain/idle-economy/internal/models"

// Worker is a leveling agent staffed at one structure
type Worker struct {
	job        models.StructureType // owning structure, by identifier only
	cfg        *models.WorkerConfig
	level      int
	experience float64
	skills     models.WorkerSkill
}

// NewWorker creates a worker from persisted data
func NewWorker(job models.StructureType, cfg *models.WorkerConfig, data models.WorkerData) *Worker {
	w := &Worker{
		job:        job,
		cfg:        cfg,
		level:      data.Level,
		experience: data.Experience,
		skills:     data.Skills,
	}
	if w.level < 0 {
		w.level = 0
	}
	if !(w.experience > 0) {
		w.experience = 0
	}
	w.clampExperience()
	return w
}

// Job returns the type of the structure the worker belongs to
func (w *Worker) Job() models.StructureType { return w.job }

// Level returns the current level
func (w *Worker) Level() int { return w.level }

// Experience returns the experience gathered toward the next level
func (w *Worker) Experience() float64 { return w.experience }

// Skills returns the learned skill set
func (w *Worker) Skills() models.WorkerSkill { return w.skills }

// ExpNeededForLevel returns the experience required to level up, 0 at max level
func (w *Worker) ExpNeededForLevel() float64 {
	exp, _ := w.cfg.ExpForLevel(w.level)
	return exp
}

// IsMaxLevel returns true once no further level is configured
func (w *Worker) IsMaxLevel() bool {
	_, ok := w.cfg.ExpForLevel(w.level)
	return !ok
}

// HasSkill returns true if the worker holds the skill
func (w *Worker) HasSkill(s models.WorkerSkill) bool {
	return w.skills&s != 0
}

// HasAllSkills returns true if the worker holds every skill in mask
func (w *Worker) HasAllSkills(mask models.WorkerSkill) bool {
	return w.skills&mask == mask
}

// AddExperience adds experience, capped at the current level's requirement so
// nothing is banked past a level boundary
func (w *Worker) AddExperience(exp float64) {
	if !(exp > 0) {
		return
	}
	w.experience += exp
	w.clampExperience()
}

func (w *Worker) clampExperience() {
	limit, ok := w.cfg.ExpForLevel(w.level)
	if !ok {
		w.experience = 0
		return
	}
	if w.experience >= limit {
		w.experience = limit
	}
}

// ResetExperience clears experience toward the next level
func (w *Worker) ResetExperience() {
	w.experience = 0
}

// CanLevel returns true when the experience requirement is met
func (w *Worker) CanLevel() bool {
	limit, ok := w.cfg.ExpForLevel(w.level)
	return ok && w.experience >= limit
}

// LevelUp advances the worker one level and teaches it newSkill. It refuses
// when CanLevel is false. Paying for the level is the caller's job.
func (w *Worker) LevelUp(newSkill models.WorkerSkill) bool {
	if !w.CanLevel() {
		return false
	}
	w.experience = 0
	w.level++
	w.skills |= newSkill
	return true
}

// ToData returns the persisted form of the worker
func (w *Worker) ToData() models.WorkerData {
	return models.WorkerData{
		Level:      w.level,
		Experience: w.experience,
		Skills:     w.skills,
	}
}
