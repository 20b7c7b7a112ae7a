package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/idle-economy/internal/loader"
	"github.com/napolitain/idle-economy/internal/models"
	"github.com/napolitain/idle-economy/internal/simulation"
)

var (
	savePath    string
	catalogFile string
	quiet       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "idle",
		Short: "Idle economy simulator",
		Long: `Runs the herbalist / brewer / guild / market economy from a save file.
Every command loads the save, catches up on the time spent away, and
writes the result back.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&savePath, "save", "s", "idle-save.json", "Save file (.json or .pb)")
	rootCmd.PersistentFlags().StringVarP(&catalogFile, "catalog", "c", "", "YAML catalog override")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")

	rootCmd.AddCommand(
		statusCmd(),
		advanceCmd(),
		compareCmd(),
		purchaseCmd("unlock", "Unlock a structure", unlockAction),
		purchaseCmd("hire", "Hire a worker into a structure", hireAction),
		purchaseCmd("manager", "Hire a structure's manager", managerAction),
		purchaseCmd("start", "Start a run of a structure", startAction),
		levelUpCmd(),
		playCmd(),
		catalogCmd(),
		adviseCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if quiet {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// session is a loaded economy plus what happened while the player was away
type session struct {
	catalog *models.Catalog
	sim     *simulation.Simulation
	report  *simulation.CatchUpReport
	loaded  *models.SaveData
}

// openSession loads the catalog and save, then catches up. A corrupt save is
// reported and replaced by a new game.
func openSession() (*session, error) {
	catalog, err := loader.LoadCatalog(catalogFile)
	if err != nil {
		return nil, err
	}

	save, err := loader.LoadSaveOrDefault(savePath, catalog)
	if err != nil {
		color.Yellow("Warning: %v, starting a new game", err)
	}

	sim := simulation.New(catalog, simulation.WithLogger(newLogger()))
	sim.Load(save)

	s := &session{catalog: catalog, sim: sim, loaded: save}
	if save.LastSaved > 0 {
		s.report = sim.CatchUp(save.LastSaved)
	}
	return s, nil
}

// persist writes the economy back to the save file
func (s *session) persist() error {
	if err := loader.WriteSave(savePath, s.sim.ToData()); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

// printAway reports the catch-up if the player was away long enough to matter
func (s *session) printAway() {
	if quiet || s.report == nil || s.report.Duration < 1 {
		return
	}
	infoColor := color.New(color.FgYellow)
	infoColor.Printf("⏳ Away for %s\n", time.Duration(s.report.Duration*float64(time.Second)).Round(time.Second))
	for _, rt := range models.AllResourceTypes() {
		if g := s.report.Generation[rt]; g != 0 {
			fmt.Printf("   %s %+.0f\n", rt, g)
		}
	}
	fmt.Println()
}
