package cmd

import (
	"github.com/spf13/cobra"

	"einvoice/internal/logger"
	"einvoice/internal/tui"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Invoice statistics",
}

var analyticsSummaryCmd = &cobra.Command{
	Use:     "summary",
	Short:   "Show totals, status breakdown, top suppliers and monthly revenue",
	Example: `  einvoice analytics summary --from 2024-01-01 --to 2024-12-31`,
	Args:    cobra.NoArgs,
	RunE:    runAnalyticsSummary,
}

func init() {
	rootCmd.AddCommand(analyticsCmd)
	analyticsCmd.AddCommand(analyticsSummaryCmd)
	addDateRangeFlags(analyticsSummaryCmd.Flags().String)
}

func runAnalyticsSummary(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("analytics")

	dates, err := dateRangeFlags(cmd)
	if err != nil {
		return err
	}

	client, err := newClient(cmd, true)
	if err != nil {
		return handleAPIError(err, "loading analytics", log)
	}
	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	summary, err := client.AnalyticsSummary(ctx, dates)
	if err != nil {
		return handleAPIError(err, "loading analytics", log)
	}
	if summary.PeriodFrom == nil {
		summary.PeriodFrom = dates.From
	}
	if summary.PeriodTo == nil {
		summary.PeriodTo = dates.To
	}
	return printResult(cmd, summary, func() string { return tui.RenderAnalytics(summary) })
}
