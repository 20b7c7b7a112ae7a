package simulation

import (
	"testing"

	"github.com/napolitain/idle-economy/internal/models"
)

func TestResourcePool_GetUnknown(t *testing.T) {
	p := NewResourcePool()
	if got := p.Get(models.Gold); got != 0 {
		t.Errorf("Expected 0 gold in new pool, got %v", got)
	}
	if got := p.Get("x"); got != 0 {
		t.Errorf("Expected 0 for unknown resource, got %v", got)
	}
}

func TestResourcePool_AddIgnoresNoneAndNegative(t *testing.T) {
	p := NewResourcePool()
	p.Add(models.None, 10)
	p.Add(models.Herbs, 5)
	p.Add(models.Herbs, -3)

	if got := p.Get(models.None); got != 0 {
		t.Errorf("Expected None to stay 0, got %v", got)
	}
	if got := p.Get(models.Herbs); got != 5 {
		t.Errorf("Expected 5 herbs, got %v", got)
	}
}

func TestResourcePool_RemoveAtomic(t *testing.T) {
	p := NewResourcePool()
	p.Add(models.Gold, 10)

	tests := []struct {
		name   string
		amount float64
		ok     bool
		after  float64
	}{
		{"too much", 11, false, 10},
		{"negative", -5, false, 10},
		{"exact part", 4, true, 6},
		{"rest", 6, true, 0},
		{"empty", 0.5, false, 0},
		{"zero from empty", 0, true, 0},
	}
	for _, tt := range tests {
		ok := p.Remove(models.Gold, tt.amount)
		if ok != tt.ok {
			t.Errorf("%s: expected ok=%v, got %v", tt.name, tt.ok, ok)
		}
		if got := p.Get(models.Gold); got != tt.after {
			t.Errorf("%s: expected %v gold after, got %v", tt.name, tt.after, got)
		}
	}
}

func TestResourcePool_RemoveNoneSucceeds(t *testing.T) {
	p := NewResourcePool()
	if !p.Remove(models.None, 1000) {
		t.Error("Expected removing None to succeed")
	}
}

func TestResourcePool_LoadDefaultsAndClamps(t *testing.T) {
	p := NewResourcePool()
	p.Load(map[models.ResourceType]float64{
		models.Gold:  12.5,
		models.Herbs: -4,
		"x":          99,
	})

	if got := p.Get(models.Gold); got != 12.5 {
		t.Errorf("Expected 12.5 gold, got %v", got)
	}
	if got := p.Get(models.Herbs); got != 0 {
		t.Errorf("Expected negative herbs clamped to 0, got %v", got)
	}
	if got := p.Get(models.Potions); got != 0 {
		t.Errorf("Expected absent potions to load as 0, got %v", got)
	}

	data := p.ToData()
	if _, ok := data["x"]; ok {
		t.Error("Expected untracked resource to be dropped")
	}
	if len(data) != len(models.AllResourceTypes()) {
		t.Errorf("Expected %d entries, got %d", len(models.AllResourceTypes()), len(data))
	}
}

func TestResourcePool_CloneIsIndependent(t *testing.T) {
	p := NewResourcePool()
	p.Add(models.Potions, 3)
	clone := p.Clone()
	p.Add(models.Potions, 3)

	if clone[models.Potions] != 3 {
		t.Errorf("Expected clone to keep 3 potions, got %v", clone[models.Potions])
	}
}

// FuzzResourcePoolNonNegative checks that no sequence of adds and removes
// drives a quantity below zero, and that a failed remove changes nothing
func FuzzResourcePoolNonNegative(f *testing.F) {
	f.Add([]byte{1, 10, 0, 20, 1, 5, 0, 5})
	f.Add([]byte{0, 255, 0, 1})
	f.Add([]byte{1, 1, 1, 1, 0, 2})

	f.Fuzz(func(t *testing.T, ops []byte) {
		p := NewResourcePool()
		resources := models.AllResourceTypes()
		for i := 0; i+1 < len(ops); i += 2 {
			rt := resources[int(ops[i]>>1)%len(resources)]
			amount := float64(ops[i+1]) / 4
			if ops[i]&1 == 1 {
				p.Add(rt, amount)
				continue
			}
			before := p.Get(rt)
			ok := p.Remove(rt, amount)
			after := p.Get(rt)
			if ok && after != before-amount {
				t.Fatalf("Remove succeeded but %v -> %v for %v", before, after, amount)
			}
			if !ok && after != before {
				t.Fatalf("Remove failed but quantity changed %v -> %v", before, after)
			}
			if after < 0 {
				t.Fatalf("Quantity went negative: %v", after)
			}
		}
	})
}
