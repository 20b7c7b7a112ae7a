package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/napolitain/idle-economy/internal/loader"
	"github.com/napolitain/idle-economy/internal/models"
	"github.com/napolitain/idle-economy/internal/simulation"
)

const frameStep = 1.0 / 60

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("14")).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("6")).
	Padding(0, 2)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show resources and structures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			if !quiet {
				fmt.Println(bannerStyle.Render("Idle Economy"))
				fmt.Println()
			}
			s.printAway()
			printPool(s.sim)
			printStructures(s.sim)
			return s.persist()
		},
	}
}

func advanceCmd() *cobra.Command {
	var step float64
	cmd := &cobra.Command{
		Use:   "advance <seconds>",
		Short: "Run the economy frame by frame for a number of seconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := parseSeconds(args[0])
			if err != nil {
				return err
			}
			if !(step > 0) {
				return fmt.Errorf("step must be positive, got %v", step)
			}
			s, err := openSession()
			if err != nil {
				return err
			}
			s.printAway()

			before := s.sim.Pool().Clone()
			advance(s.sim, seconds, step)

			if !quiet {
				color.New(color.FgCyan, color.Bold).Printf("⏩ Advanced %.1fs\n\n", seconds)
			}
			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Resource", "Before", "After", "Change"}),
			)
			for _, rt := range models.AllResourceTypes() {
				after := s.sim.Pool().Get(rt)
				table.Append([]string{rt.String(), formatAmount(before[rt]), formatAmount(after), fmt.Sprintf("%+.0f", after-before[rt])})
			}
			table.Render()
			return s.persist()
		},
	}
	cmd.Flags().Float64Var(&step, "step", frameStep, "Frame length in seconds")
	return cmd
}

// advance runs Update in frame-sized steps
func advance(sim *simulation.Simulation, seconds, step float64) {
	for remaining := seconds; remaining > 0; remaining -= step {
		sim.Update(min(step, remaining))
	}
}

func compareCmd() *cobra.Command {
	var step float64
	cmd := &cobra.Command{
		Use:   "compare <seconds>",
		Short: "Compare the catch-up estimate with a frame-by-frame run",
		Long: `Starts two copies of the current economy. One is caught up in a single
estimate, the other is advanced frame by frame. The save is not modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := parseSeconds(args[0])
			if err != nil {
				return err
			}
			if !(step > 0) {
				return fmt.Errorf("step must be positive, got %v", step)
			}
			s, err := openSession()
			if err != nil {
				return err
			}

			rows := compareEconomy(s.catalog, s.sim.ToData(), seconds, step)
			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Resource", "Start", "Catch-up", "Frames", "Difference"}),
			)
			for _, r := range rows {
				table.Append([]string{
					r.resource.String(),
					formatAmount(r.start),
					formatAmount(r.estimated),
					formatAmount(r.simulated),
					fmt.Sprintf("%+.0f", r.estimated-r.simulated),
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().Float64Var(&step, "step", frameStep, "Frame length in seconds")
	return cmd
}

type compareRow struct {
	resource  models.ResourceType
	start     float64
	estimated float64
	simulated float64
}

// compareEconomy loads save twice and advances one copy with CatchUpDuration
// and the other with Update frames
func compareEconomy(catalog *models.Catalog, save *models.SaveData, seconds, step float64) []compareRow {
	logger := newLogger()
	estimate := simulation.New(catalog, simulation.WithLogger(logger))
	estimate.Load(save)
	frames := simulation.New(catalog, simulation.WithLogger(logger))
	frames.Load(save)

	start := estimate.Pool().Clone()
	estimate.CatchUpDuration(seconds)
	advance(frames, seconds, step)

	rows := make([]compareRow, 0, len(models.AllResourceTypes()))
	for _, rt := range models.AllResourceTypes() {
		rows = append(rows, compareRow{
			resource:  rt,
			start:     start[rt],
			estimated: estimate.Pool().Get(rt),
			simulated: frames.Pool().Get(rt),
		})
	}
	return rows
}

// purchaseAction performs one purchase and describes the outcome
type purchaseAction func(sim *simulation.Simulation, st *simulation.Structure) (string, bool)

func purchaseCmd(use, short string, action purchaseAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <structure>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			st, err := models.ResolveStructure(s.catalog, args[0])
			if err != nil {
				return err
			}
			structure, _ := s.sim.Structure(st)
			s.printAway()

			msg, ok := action(s.sim, structure)
			if !ok {
				color.Red("✗ %s", msg)
				return nil
			}
			color.New(color.FgGreen, color.Bold).Printf("✓ %s\n", msg)
			return s.persist()
		},
	}
}

func unlockAction(sim *simulation.Simulation, st *simulation.Structure) (string, bool) {
	if st.IsUnlocked() {
		return st.Name() + " is already unlocked", false
	}
	if !sim.Unlock(st.Type()) {
		return fmt.Sprintf("%s costs %s gold, you have %s", st.Name(), formatAmount(st.UnlockCost()), formatAmount(sim.Pool().Get(models.Gold))), false
	}
	return "Unlocked " + st.Name(), true
}

func hireAction(sim *simulation.Simulation, st *simulation.Structure) (string, bool) {
	cost := sim.NextHireCost()
	if !sim.HireWorker(st.Type()) {
		return fmt.Sprintf("a worker costs %s gold, you have %s", formatAmount(cost), formatAmount(sim.Pool().Get(models.Gold))), false
	}
	return fmt.Sprintf("Hired worker #%d at %s for %s gold", len(st.Workers()), st.Name(), formatAmount(cost)), true
}

func managerAction(sim *simulation.Simulation, st *simulation.Structure) (string, bool) {
	if st.HasManager() {
		return st.Name() + " already has a manager", false
	}
	if !sim.HireManager(st.Type()) {
		return fmt.Sprintf("the manager costs %s gold, you have %s", formatAmount(st.ManagerCost()), formatAmount(sim.Pool().Get(models.Gold))), false
	}
	return st.Name() + " now runs on its own", true
}

func startAction(sim *simulation.Simulation, st *simulation.Structure) (string, bool) {
	switch {
	case !st.IsUnlocked():
		return st.Name() + " is locked", false
	case st.IsRunning():
		return fmt.Sprintf("%s is already running (%.1fs left)", st.Name(), st.TimeRemaining()), false
	case len(st.Workers()) == 0:
		return st.Name() + " has no workers", false
	}
	if !sim.Start(st.Type()) {
		return st.Name() + " is missing input", false
	}
	return fmt.Sprintf("%s started, done in %.1fs", st.Name(), st.TimeRemaining()), true
}

func levelUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levelup <structure> [worker]",
		Short: "Level up a worker (the first eligible one by default)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			st, err := models.ResolveStructure(s.catalog, args[0])
			if err != nil {
				return err
			}
			structure, _ := s.sim.Structure(st)

			index := firstEligible(structure)
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil || n < 1 || n > len(structure.Workers()) {
					return fmt.Errorf("worker must be between 1 and %d", len(structure.Workers()))
				}
				index = n - 1
			}
			if index < 0 {
				color.Red("✗ no worker at %s has enough experience", structure.Name())
				return nil
			}

			w := structure.Workers()[index]
			cost, _ := s.catalog.Worker.CostForLevel(w.Level())
			if !s.sim.LevelUpWorker(st, index) {
				color.Red("✗ worker #%d: %s/%s exp, level up costs %s gold",
					index+1, formatAmount(w.Experience()), formatAmount(w.ExpNeededForLevel()), formatAmount(cost))
				return nil
			}
			color.New(color.FgGreen, color.Bold).Printf("✓ Worker #%d is now level %d (%s)\n", index+1, w.Level(), w.Skills())
			return s.persist()
		},
	}
}

// firstEligible returns the index of the first worker able to level, or -1
func firstEligible(st *simulation.Structure) int {
	for i, w := range st.Workers() {
		if w.CanLevel() {
			return i
		}
	}
	return -1
}

func catalogCmd() *cobra.Command {
	var dump bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show the structure catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loader.LoadCatalog(catalogFile)
			if err != nil {
				return err
			}
			if dump {
				out, err := yaml.Marshal(catalog)
				if err != nil {
					return fmt.Errorf("failed to encode catalog: %w", err)
				}
				fmt.Print(string(out))
				return nil
			}

			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Code", "Structure", "Unlock", "Manager", "Run", "Skill", "Per worker"}),
			)
			for _, sc := range catalog.Structures {
				table.Append([]string{
					string(sc.Type),
					sc.Name,
					formatAmount(sc.UnlockCost),
					formatAmount(sc.ManagerCost),
					fmt.Sprintf("%.0fs", sc.BaseWorkTime),
					sc.SkillAvailable.String(),
					formatRecipes(sc.Production),
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&dump, "yaml", false, "Print the catalog as YAML, ready to edit and pass to --catalog")
	return cmd
}

func printPool(sim *simulation.Simulation) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Resource", "Amount"}),
	)
	for _, rt := range models.AllResourceTypes() {
		table.Append([]string{rt.String(), formatAmount(sim.Pool().Get(rt))})
	}
	table.Render()
	fmt.Println()
}

func printStructures(sim *simulation.Simulation) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Structure", "State", "Workers", "Manager", "Lines"}),
	)
	for _, st := range sim.Structures() {
		manager := "-"
		if st.HasManager() {
			manager = "yes"
		} else if st.IsUnlocked() {
			manager = formatAmount(st.ManagerCost()) + " g"
		}
		table.Append([]string{
			st.Name(),
			structureState(st),
			strconv.Itoa(len(st.Workers())),
			manager,
			formatLines(st),
		})
	}
	table.Render()
	if !quiet {
		fmt.Printf("\nNext worker: %s gold\n", formatAmount(sim.NextHireCost()))
	}
}

func structureState(st *simulation.Structure) string {
	switch {
	case !st.IsUnlocked():
		return fmt.Sprintf("locked (%s g)", formatAmount(st.UnlockCost()))
	case st.IsRunning():
		return fmt.Sprintf("running %.0f%% (%.1fs)", st.PercentComplete()*100, st.TimeRemaining())
	default:
		return "idle"
	}
}

// formatLines describes the current totals of every line; running lines are
// marked with *
func formatLines(st *simulation.Structure) string {
	parts := make([]string, 0, len(st.Production()))
	for _, p := range st.Production() {
		mark := ""
		if p.Running() {
			mark = "*"
		}
		if p.InputType() == models.None {
			parts = append(parts, fmt.Sprintf("%s%s +%s", mark, p.OutputType(), formatAmount(p.OutputCount())))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s%s %s→%s %s", mark,
			formatAmount(p.InputCount()), p.InputType(), formatAmount(p.OutputCount()), p.OutputType()))
	}
	return strings.Join(parts, ", ")
}

func formatRecipes(lines []models.ProductionConfig) string {
	parts := make([]string, 0, len(lines))
	for _, p := range lines {
		if p.Input == models.None {
			parts = append(parts, fmt.Sprintf("+%s %s", formatAmount(p.BaseOutputPerWorker), p.Output))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s→%s %s",
			formatAmount(p.InputPerWorker), p.Input, formatAmount(p.BaseOutputPerWorker), p.Output))
	}
	return strings.Join(parts, ", ")
}

func formatAmount(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case v >= 1e4:
		return fmt.Sprintf("%.1fK", v/1e3)
	case v == float64(int64(v)):
		return strconv.FormatInt(int64(v), 10)
	default:
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
}

func parseSeconds(raw string) (float64, error) {
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil || !(seconds > 0) || math.IsInf(seconds, 1) {
		return 0, fmt.Errorf("invalid duration %q: expected a positive number of seconds", raw)
	}
	return seconds, nil
}
