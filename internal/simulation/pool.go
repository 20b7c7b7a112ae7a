package simulation

import "github.com/napolitain/idle-economy/internal/models"

// ResourcePool holds the quantity of every tracked resource. It is the single
// source of truth for "can this afford that": every purchase and every
// production run goes through Remove.
type ResourcePool struct {
	pool map[models.ResourceType]float64
}

// NewResourcePool creates a pool with every tracked resource at zero
func NewResourcePool() *ResourcePool {
	p := &ResourcePool{pool: make(map[models.ResourceType]float64)}
	for _, rt := range models.AllResourceTypes() {
		p.pool[rt] = 0
	}
	return p
}

// Get returns the stored quantity, zero for untracked resources
func (p *ResourcePool) Get(rt models.ResourceType) float64 {
	return p.pool[rt]
}

// Add increases a resource. None, untracked resources and non-positive
// amounts are ignored.
func (p *ResourcePool) Add(rt models.ResourceType, amount float64) {
	if rt == models.None || !rt.IsTracked() || !(amount > 0) {
		return
	}
	p.pool[rt] += amount
}

// Remove takes amount of a resource if the pool holds at least that much.
// On failure nothing changes. Removing from None always succeeds.
func (p *ResourcePool) Remove(rt models.ResourceType, amount float64) bool {
	if rt == models.None {
		return true
	}
	if amount < 0 || !rt.IsTracked() {
		return false
	}
	if p.pool[rt] >= amount {
		p.pool[rt] -= amount
		return true
	}
	return false
}

// Clone returns a copy of the current quantities
func (p *ResourcePool) Clone() map[models.ResourceType]float64 {
	out := make(map[models.ResourceType]float64, len(p.pool))
	for rt, v := range p.pool {
		out[rt] = v
	}
	return out
}

// Load replaces all quantities. Missing resources load as zero and negative
// values are clamped to zero.
func (p *ResourcePool) Load(data map[models.ResourceType]float64) {
	p.pool = make(map[models.ResourceType]float64)
	for _, rt := range models.AllResourceTypes() {
		v := data[rt]
		if !(v > 0) {
			v = 0
		}
		p.pool[rt] = v
	}
}

// ToData returns the persisted form of the pool
func (p *ResourcePool) ToData() map[models.ResourceType]float64 {
	out := make(map[models.ResourceType]float64)
	for _, rt := range models.AllResourceTypes() {
		out[rt] = p.pool[rt]
	}
	return out
}
