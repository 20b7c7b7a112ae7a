package models

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultCatalog returns the built-in economy: herbs are gathered, brewed into
// potions, carried off by adventurers for treasure, and the market sells the
// surplus of all three for gold.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Worker: WorkerConfig{
			LevelingExp:  []float64{1000, 100000, 10000000},
			LevelingCost: []float64{100, 10000, 1000000},
			HireBaseCost: 10,
			// 4 structures with 1 worker each: the first purchased worker costs 10
			HireOffset: 3,
		},
		Structures: []StructureConfig{
			{
				Type:        Herbalist,
				Name:        "Herbalist",
				UnlockCost:  0,
				ManagerCost: 30,
				Production: []ProductionConfig{
					{
						Input:               None,
						InputPerWorker:      0,
						Output:              Herbs,
						BaseOutputPerWorker: 1,
						WorkerBonus:         []SkillBonus{{Skill: Harvest, FlatIncrease: 1}},
					},
				},
				ExpPerRun:      20,
				SkillAvailable: Harvest,
				BaseWorkTime:   5,
			},
			{
				Type:        PotionBrewer,
				Name:        "Potion Brewer",
				UnlockCost:  40,
				ManagerCost: 50,
				Production: []ProductionConfig{
					{
						Input:               Herbs,
						InputPerWorker:      4,
						Output:              Potions,
						BaseOutputPerWorker: 1,
						WorkerBonus:         []SkillBonus{{Skill: Brew, FlatIncrease: 1}},
					},
				},
				ExpPerRun:      20,
				SkillAvailable: Brew,
				BaseWorkTime:   30,
			},
			{
				Type:        AdventurerGuild,
				Name:        "Adventurer's Guild",
				UnlockCost:  200,
				ManagerCost: 100,
				Production: []ProductionConfig{
					{
						Input:               Potions,
						InputPerWorker:      2,
						Output:              Treasure,
						BaseOutputPerWorker: 1,
						WorkerBonus: []SkillBonus{
							{Skill: Veteran, FlatIncrease: 1},
							{Skill: Harvest, FlatIncrease: 1},
						},
					},
				},
				ExpPerRun:      20,
				SkillAvailable: Veteran,
				BaseWorkTime:   180,
			},
			{
				Type:        Market,
				Name:        "Market",
				UnlockCost:  0,
				ManagerCost: 20,
				// Market batches are deliberately larger than any other consumer's,
				// so with comparable staffing it only sells what the higher tiers
				// leave over.
				Production: []ProductionConfig{
					{
						Input:               Herbs,
						InputPerWorker:      5,
						Output:              Gold,
						BaseOutputPerWorker: 10,
						WorkerBonus:         []SkillBonus{{Skill: Vendor, FlatIncrease: 5}},
					},
					{
						Input:               Potions,
						InputPerWorker:      5,
						Output:              Gold,
						BaseOutputPerWorker: 60,
						WorkerBonus:         []SkillBonus{{Skill: Vendor, FlatIncrease: 15}},
					},
					{
						Input:               Treasure,
						InputPerWorker:      3,
						Output:              Gold,
						BaseOutputPerWorker: 150,
						WorkerBonus:         []SkillBonus{{Skill: Vendor, FlatIncrease: 30}},
					},
				},
				ExpPerRun:      20,
				SkillAvailable: Vendor,
				BaseWorkTime:   25,
			},
		},
		CatchUpOrder: []StructureType{
			// no input requirement, always runs at capacity
			Herbalist,
			// consumers after the producers of what they consume
			PotionBrewer,
			AdventurerGuild,
			// the market sees everything the higher tiers did not take
			Market,
		},
	}
}

// Validate checks the catalog for configuration errors that would break the
// simulation: duplicate or unknown identifiers, non-positive run times, and a
// catch-up order that lists a consumer before a producer of its input.
func (c *Catalog) Validate() error {
	if len(c.Structures) == 0 {
		return errors.New("catalog has no structures")
	}
	if len(c.Worker.LevelingExp) != len(c.Worker.LevelingCost) {
		return fmt.Errorf("worker leveling_exp has %d entries but leveling_cost has %d",
			len(c.Worker.LevelingExp), len(c.Worker.LevelingCost))
	}

	seen := make(map[StructureType]bool)
	for _, s := range c.Structures {
		if s.Type == "" {
			return fmt.Errorf("structure %q has no type", s.Name)
		}
		if seen[s.Type] {
			return fmt.Errorf("duplicate structure type %q", s.Type)
		}
		seen[s.Type] = true
		if s.BaseWorkTime <= 0 {
			return fmt.Errorf("structure %q: base_work_time must be positive, got %v", s.Type, s.BaseWorkTime)
		}
		if len(s.Production) == 0 {
			return fmt.Errorf("structure %q has no production lines", s.Type)
		}
		for i, p := range s.Production {
			if p.Input != None && !p.Input.IsTracked() {
				return fmt.Errorf("structure %q line %d: unknown input %q", s.Type, i, p.Input)
			}
			if !p.Output.IsTracked() {
				return fmt.Errorf("structure %q line %d: unknown output %q", s.Type, i, p.Output)
			}
			if p.Input != None && p.InputPerWorker <= 0 {
				return fmt.Errorf("structure %q line %d: input_per_worker must be positive", s.Type, i)
			}
		}
	}

	if len(c.CatchUpOrder) != len(c.Structures) {
		return fmt.Errorf("catch_up_order lists %d structures, catalog has %d",
			len(c.CatchUpOrder), len(c.Structures))
	}
	ordered := make(map[StructureType]bool)
	for _, st := range c.CatchUpOrder {
		if !seen[st] {
			return fmt.Errorf("catch_up_order: unknown structure %q", st)
		}
		if ordered[st] {
			return fmt.Errorf("catch_up_order: structure %q listed twice", st)
		}
		ordered[st] = true
	}

	// A resource that some structure produces must have all its producers
	// ahead of every consumer. Resources nobody produces come from stock only.
	producers := make(map[ResourceType][]int)
	for i, st := range c.CatchUpOrder {
		cfg, _ := c.Structure(st)
		for _, p := range cfg.Production {
			producers[p.Output] = append(producers[p.Output], i)
		}
	}
	for i, st := range c.CatchUpOrder {
		cfg, _ := c.Structure(st)
		for _, p := range cfg.Production {
			if p.Input == None {
				continue
			}
			for _, pi := range producers[p.Input] {
				if pi > i {
					producer := c.CatchUpOrder[pi]
					return fmt.Errorf("catch_up_order: %q consumes %s but producer %q comes after it",
						st, p.Input, producer)
				}
			}
		}
	}

	return nil
}

// UnmarshalYAML accepts a skill as a number or as "+"-joined names
// (e.g. "Harvest+Vendor")
func (s *WorkerSkill) UnmarshalYAML(value *yaml.Node) error {
	var n uint32
	if err := value.Decode(&n); err == nil {
		*s = WorkerSkill(n)
		return nil
	}

	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("invalid skill: %w", err)
	}
	skill, err := ParseWorkerSkill(raw)
	if err != nil {
		return err
	}
	*s = skill
	return nil
}

// MarshalYAML writes a skill by name so dumped catalogs stay editable. Bits
// without a name are written as a number.
func (s WorkerSkill) MarshalYAML() (any, error) {
	var known WorkerSkill
	for _, skill := range AllWorkerSkills() {
		known |= skill
	}
	if s&^known != 0 {
		return uint32(s), nil
	}
	return s.String(), nil
}

// ParseWorkerSkill parses "+"-joined skill names, case-insensitive
func ParseWorkerSkill(raw string) (WorkerSkill, error) {
	var result WorkerSkill
	for _, part := range strings.Split(raw, "+") {
		name := strings.TrimSpace(part)
		if name == "" || name == "-" {
			continue
		}
		found := false
		for _, skill := range AllWorkerSkills() {
			if strings.EqualFold(skill.String(), name) {
				result |= skill
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown skill %q", name)
		}
	}
	return result, nil
}
