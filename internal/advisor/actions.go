package advisor

import (
	"fmt"

	"github.com/napolitain/idle-economy/internal/models"
	"github.com/napolitain/idle-economy/internal/simulation"
)

// ActionKind is the purchase an action makes
type ActionKind string

const (
	Hire    ActionKind = "hire"
	Manager ActionKind = "manager"
	Unlock  ActionKind = "unlock"
	LevelUp ActionKind = "levelup"
)

// Action is one purchase the player could make
type Action struct {
	Kind      ActionKind
	Structure models.StructureType
	Worker    int // LevelUp only
	// Unlock only: buy the manager in the same purchase
	WithManager bool
}

// Description returns a short human-readable label
func (a Action) Description(c *models.Catalog) string {
	name := string(a.Structure)
	if cfg, ok := c.Structure(a.Structure); ok {
		name = cfg.Name
	}
	switch a.Kind {
	case Hire:
		return "Hire worker at " + name
	case Manager:
		return "Manager for " + name
	case Unlock:
		if a.WithManager {
			return "Unlock " + name + " + manager"
		}
		return "Unlock " + name
	case LevelUp:
		return fmt.Sprintf("Level up %s worker #%d", name, a.Worker+1)
	}
	return string(a.Kind)
}

// Cost returns the gold the action costs in the current state
func (a Action) Cost(sim *simulation.Simulation) float64 {
	st, ok := sim.Structure(a.Structure)
	if !ok {
		return 0
	}
	switch a.Kind {
	case Hire:
		return sim.NextHireCost()
	case Manager:
		return st.ManagerCost()
	case Unlock:
		if a.WithManager {
			return st.UnlockCost() + st.ManagerCost()
		}
		return st.UnlockCost()
	case LevelUp:
		if a.Worker < 0 || a.Worker >= len(st.Workers()) {
			return 0
		}
		cost, _ := sim.Catalog().Worker.CostForLevel(st.Workers()[a.Worker].Level())
		return cost
	}
	return 0
}

// Apply makes the purchase, false if it was refused
func (a Action) Apply(sim *simulation.Simulation) bool {
	switch a.Kind {
	case Hire:
		return sim.HireWorker(a.Structure)
	case Manager:
		return sim.HireManager(a.Structure)
	case Unlock:
		if !sim.Unlock(a.Structure) {
			return false
		}
		if a.WithManager {
			return sim.HireManager(a.Structure)
		}
		return true
	case LevelUp:
		return sim.LevelUpWorker(a.Structure, a.Worker)
	}
	return false
}

// Candidates lists every purchase that is possible in principle right now,
// affordable or not, in catalog order
func Candidates(sim *simulation.Simulation) []Action {
	var out []Action
	for _, st := range sim.Structures() {
		t := st.Type()
		if !st.IsUnlocked() {
			out = append(out, Action{Kind: Unlock, Structure: t, WithManager: !st.HasManager()})
			continue
		}
		out = append(out, Action{Kind: Hire, Structure: t})
		if !st.HasManager() {
			out = append(out, Action{Kind: Manager, Structure: t})
		}
		for i, w := range st.Workers() {
			if w.CanLevel() {
				out = append(out, Action{Kind: LevelUp, Structure: t, Worker: i})
				break
			}
		}
	}
	return out
}
