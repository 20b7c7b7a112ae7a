package models

import "strings"

// ResourceType represents the different resource types in the economy
type ResourceType string

const (
	// None is the sentinel for "no resource": production lines with no input use it
	None     ResourceType = "n"
	Gold     ResourceType = "g"
	Herbs    ResourceType = "h"
	Potions  ResourceType = "p"
	Treasure ResourceType = "t"
)

// AllResourceTypes returns every tracked resource type in deterministic order
func AllResourceTypes() []ResourceType {
	return []ResourceType{Gold, Herbs, Potions, Treasure}
}

// String returns the display name of the resource
func (r ResourceType) String() string {
	switch r {
	case None:
		return "None"
	case Gold:
		return "Gold"
	case Herbs:
		return "Herbs"
	case Potions:
		return "Potions"
	case Treasure:
		return "Treasure"
	}
	return string(r)
}

// IsTracked returns true if the resource is stored in the pool
func (r ResourceType) IsTracked() bool {
	switch r {
	case Gold, Herbs, Potions, Treasure:
		return true
	}
	return false
}

// StructureType identifies a production structure
type StructureType string

const (
	Herbalist       StructureType = "h"
	PotionBrewer    StructureType = "p"
	AdventurerGuild StructureType = "a"
	Market          StructureType = "m"
)

// WorkerSkill is a single skill bit; a worker's skills are a union of these
type WorkerSkill uint32

const (
	Harvest WorkerSkill = 1 << iota
	Brew
	Veteran
	Hero
	Healer
	Vendor
)

// AllWorkerSkills returns all skills in bit order
func AllWorkerSkills() []WorkerSkill {
	return []WorkerSkill{Harvest, Brew, Veteran, Hero, Healer, Vendor}
}

// String returns the skill names joined with "+", or "-" for no skills
func (s WorkerSkill) String() string {
	if s == 0 {
		return "-"
	}
	var names []string
	for _, skill := range AllWorkerSkills() {
		if s&skill == 0 {
			continue
		}
		switch skill {
		case Harvest:
			names = append(names, "Harvest")
		case Brew:
			names = append(names, "Brew")
		case Veteran:
			names = append(names, "Veteran")
		case Hero:
			names = append(names, "Hero")
		case Healer:
			names = append(names, "Healer")
		case Vendor:
			names = append(names, "Vendor")
		}
	}
	return strings.Join(names, "+")
}

// SkillBonus is a flat output increase for each worker holding Skill
type SkillBonus struct {
	Skill        WorkerSkill `yaml:"skill" json:"skill"`
	FlatIncrease float64     `yaml:"flat_increase" json:"flat_increase"`
}

// ProductionConfig is one input -> output recipe of a structure
type ProductionConfig struct {
	Input               ResourceType `yaml:"input" json:"input"`
	Output              ResourceType `yaml:"output" json:"output"`
	InputPerWorker      float64      `yaml:"input_per_worker" json:"input_per_worker"`
	BaseOutputPerWorker float64      `yaml:"base_output_per_worker" json:"base_output_per_worker"`
	WorkerBonus         []SkillBonus `yaml:"worker_bonus" json:"worker_bonus"`
}

// StructureConfig is the static configuration for one structure
type StructureConfig struct {
	Type        StructureType `yaml:"type" json:"type"`
	Name        string        `yaml:"name" json:"name"`
	UnlockCost  float64       `yaml:"unlock_cost" json:"unlock_cost"`   // Gold
	ManagerCost float64       `yaml:"manager_cost" json:"manager_cost"` // Gold

	// Any one satisfied line is enough to run the structure
	Production []ProductionConfig `yaml:"production" json:"production"`

	ExpPerRun      float64     `yaml:"exp_per_run" json:"exp_per_run"`
	SkillAvailable WorkerSkill `yaml:"skill_available" json:"skill_available"`
	BaseWorkTime   float64     `yaml:"base_work_time" json:"base_work_time"` // seconds
}

// WorkerConfig holds leveling and hiring parameters shared by all workers
type WorkerConfig struct {
	LevelingExp  []float64 `yaml:"leveling_exp" json:"leveling_exp"`   // index = current level
	LevelingCost []float64 `yaml:"leveling_cost" json:"leveling_cost"` // Gold, index = current level
	HireBaseCost float64   `yaml:"hire_base_cost" json:"hire_base_cost"`
	HireOffset   int       `yaml:"hire_offset" json:"hire_offset"`
}

// ExpForLevel returns the experience required to leave level, false at max level
func (w *WorkerConfig) ExpForLevel(level int) (float64, bool) {
	if level < 0 || level >= len(w.LevelingExp) {
		return 0, false
	}
	return w.LevelingExp[level], true
}

// CostForLevel returns the gold cost of leveling up from level, false at max level
func (w *WorkerConfig) CostForLevel(level int) (float64, bool) {
	if level < 0 || level >= len(w.LevelingCost) {
		return 0, false
	}
	return w.LevelingCost[level], true
}

// MaxLevel returns the highest level a worker can reach
func (w *WorkerConfig) MaxLevel() int {
	return len(w.LevelingExp)
}

// HireCost returns the gold cost of the next worker given the current total.
// The default catalog starts every structure with one worker, so the offset
// makes the first purchased worker cost one base unit.
func (w *WorkerConfig) HireCost(currentWorkers int) float64 {
	cost := w.HireBaseCost * float64(currentWorkers-w.HireOffset)
	if cost < 0 {
		return 0
	}
	return cost
}

// Catalog is the full designer-tunable economy configuration
type Catalog struct {
	Worker     WorkerConfig      `yaml:"worker" json:"worker"`
	Structures []StructureConfig `yaml:"structures" json:"structures"`

	// Order used by catch-up: producers of a resource before its consumers,
	// the sink structure last. Hand ordered, never computed.
	CatchUpOrder []StructureType `yaml:"catch_up_order" json:"catch_up_order"`
}

// Structure returns the config for a structure type
func (c *Catalog) Structure(st StructureType) (*StructureConfig, bool) {
	for i := range c.Structures {
		if c.Structures[i].Type == st {
			return &c.Structures[i], true
		}
	}
	return nil, false
}

// StructureTypes returns structure types in catalog order
func (c *Catalog) StructureTypes() []StructureType {
	types := make([]StructureType, len(c.Structures))
	for i, s := range c.Structures {
		types[i] = s.Type
	}
	return types
}
