package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/idle-economy/internal/advisor"
)

func adviseCmd() *cobra.Command {
	var (
		horizon time.Duration
		steps   int
		maxWait time.Duration
	)
	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Rank purchases by return on investment",
		Long: `Estimates what each purchase would earn over the horizon by catching up
a copy of the economy with and without it. With --plan, buys greedily in
ROI order, waiting offline for gold when needed. The save is not modified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if horizon <= 0 {
				return fmt.Errorf("horizon must be positive, got %v", horizon)
			}
			s, err := openSession()
			if err != nil {
				return err
			}
			a := advisor.New(s.catalog, horizon.Seconds())
			save := s.sim.ToData()

			if steps > 0 {
				printPlan(a.Plan(save, steps, maxWait.Seconds()))
				return nil
			}

			if !quiet {
				color.New(color.FgCyan, color.Bold).Printf("💰 Purchases ranked over %v\n\n", horizon)
			}
			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"#", "Purchase", "Cost", "Gain/h", "ROI", "Payback", "Affordable"}),
			)
			for i, rec := range a.Rank(save) {
				table.Append([]string{
					fmt.Sprintf("%d", i+1),
					rec.Action.Description(s.catalog),
					formatAmount(rec.Metric.TotalCost),
					formatAmount(rec.Metric.GainPerHour),
					fmt.Sprintf("%.2f", rec.Metric.Calculate()),
					formatPayback(rec.Metric.PaybackHours()),
					yesNo(rec.Affordable),
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().DurationVar(&horizon, "horizon", time.Hour, "Window a purchase is judged over")
	cmd.Flags().IntVar(&steps, "plan", 0, "Plan this many purchases instead of ranking")
	cmd.Flags().DurationVar(&maxWait, "max-wait", 24*time.Hour, "Longest wait for one planned purchase")
	return cmd
}

func printPlan(plan *advisor.Plan) {
	if len(plan.Steps) == 0 {
		color.Yellow("No purchase pays off within reach")
		return
	}
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Wait", "Purchase", "Cost", "Gain/h"}),
	)
	for i, step := range plan.Steps {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			(time.Duration(step.Wait) * time.Second).String(),
			step.Description,
			formatAmount(step.Cost),
			formatAmount(step.Metric.GainPerHour),
		})
	}
	table.Render()
	if !quiet {
		color.Green("✅ %d purchases after %v offline", len(plan.Steps), time.Duration(plan.TotalWait)*time.Second)
	}
}

func formatPayback(hours float64) string {
	if hours < 0 {
		return "never"
	}
	return (time.Duration(hours * float64(time.Hour))).Round(time.Second).String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
