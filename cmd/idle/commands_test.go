package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/napolitain/idle-economy/internal/loader"
	"github.com/napolitain/idle-economy/internal/models"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{42, "42"},
		{2.5, "2.5"},
		{12500, "12.5K"},
		{3400000, "3.40M"},
		{7e9, "7.00B"},
	}
	for _, tt := range tests {
		if got := formatAmount(tt.in); got != tt.want {
			t.Errorf("formatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseSeconds(t *testing.T) {
	if got, err := parseSeconds("90.5"); err != nil || got != 90.5 {
		t.Errorf("Expected 90.5, got %v (%v)", got, err)
	}
	for _, bad := range []string{"0", "-3", "soon", "NaN", "Inf"} {
		if _, err := parseSeconds(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestCompareEconomyHerbalistOnly(t *testing.T) {
	catalog := models.DefaultCatalog()
	save := models.DefaultSave(catalog)
	herbalist := save.Structures[models.Herbalist]
	herbalist.Managed = true
	save.Structures[models.Herbalist] = herbalist

	rows := compareEconomy(catalog, save, 60, frameStep)

	var herbs compareRow
	for _, r := range rows {
		if r.resource == models.Herbs {
			herbs = r
		}
	}
	if herbs.estimated != 12 {
		t.Errorf("Expected catch-up estimate of 12 herbs, got %v", herbs.estimated)
	}
	// frames lose a frame per restart, never gain
	if herbs.simulated > herbs.estimated || herbs.simulated < 11 {
		t.Errorf("Expected frame run close below the estimate, got %v", herbs.simulated)
	}
}

func TestActions(t *testing.T) {
	sim := newTestSim()
	brewer, _ := sim.Structure(models.PotionBrewer)
	herbalist, _ := sim.Structure(models.Herbalist)

	if msg, ok := startAction(sim, brewer); ok || !strings.Contains(msg, "locked") {
		t.Errorf("Expected locked refusal, got %q", msg)
	}
	sim.Pool().Add(models.Gold, 40)
	if msg, ok := unlockAction(sim, brewer); !ok {
		t.Errorf("Expected unlock, got %q", msg)
	}
	if msg, ok := unlockAction(sim, brewer); ok || !strings.Contains(msg, "already") {
		t.Errorf("Expected already unlocked, got %q", msg)
	}
	if msg, ok := startAction(sim, brewer); ok || !strings.Contains(msg, "missing input") {
		t.Errorf("Expected missing input, got %q", msg)
	}

	if _, ok := startAction(sim, herbalist); !ok {
		t.Error("Expected herbalist to start")
	}
	if msg, ok := startAction(sim, herbalist); ok || !strings.Contains(msg, "already running") {
		t.Errorf("Expected already running, got %q", msg)
	}

	sim.Pool().Add(models.Gold, 10)
	if msg, ok := hireAction(sim, herbalist); !ok || !strings.Contains(msg, "worker #2") {
		t.Errorf("Expected second herbalist, got %q (%v)", msg, ok)
	}
}

func TestOpenSessionPersistRoundTrip(t *testing.T) {
	dir := t.TempDir()
	savePath = filepath.Join(dir, "save.pb")
	catalogFile = ""
	quiet = true
	t.Cleanup(func() {
		savePath = "idle-save.json"
		quiet = false
	})

	s, err := openSession()
	if err != nil {
		t.Fatalf("openSession failed: %v", err)
	}
	if s.report != nil {
		t.Error("Expected no catch-up for a new game")
	}
	s.sim.Pool().Add(models.Gold, 15)
	if err := s.persist(); err != nil {
		t.Fatalf("persist failed: %v", err)
	}

	saved, err := loader.LoadSave(savePath)
	if err != nil {
		t.Fatalf("LoadSave failed: %v", err)
	}
	if saved.Pool[models.Gold] != 15 || saved.LastSaved == 0 {
		t.Errorf("Expected 15 gold and a timestamp, got %+v", saved)
	}

	again, err := openSession()
	if err != nil {
		t.Fatalf("openSession failed: %v", err)
	}
	if again.report == nil {
		t.Error("Expected a catch-up for an existing save")
	}
}

func TestOpenSessionCorruptSaveStartsFresh(t *testing.T) {
	dir := t.TempDir()
	savePath = filepath.Join(dir, "save.json")
	catalogFile = ""
	quiet = true
	t.Cleanup(func() {
		savePath = "idle-save.json"
		quiet = false
	})
	if err := os.WriteFile(savePath, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := openSession()
	if err != nil {
		t.Fatalf("openSession failed: %v", err)
	}
	if s.sim.WorkerCount() != 4 {
		t.Errorf("Expected a new game with 4 workers, got %d", s.sim.WorkerCount())
	}
}
