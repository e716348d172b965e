package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"einvoice/internal/logger"
	"einvoice/pkg/models"
)

var datevCmd = &cobra.Command{
	Use:   "datev",
	Short: "Export bookkeeping data for DATEV",
}

var datevExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the DATEV export for a period",
	Long: `Download the bookkeeping export for all invoices in a period.

Formats:
  csv    DATEV-compatible CSV (default)
  extf   DATEV EXTF Buchungsstapel
  ascii  DATEV ASCII

--skr selects the chart of accounts (SKR03 or SKR04).`,
	Example: `  einvoice datev export --from 2024-01-01 --to 2024-03-31
  einvoice datev export --from 01.04.2024 --to 30.06.2024 --format extf --skr SKR04 -o q2.csv`,
	Args: cobra.NoArgs,
	RunE: runDATEVExport,
}

func init() {
	rootCmd.AddCommand(datevCmd)
	datevCmd.AddCommand(datevExportCmd)

	f := datevExportCmd.Flags()
	addDateRangeFlags(f.String)
	f.String("format", "csv", "Export format: csv, extf or ascii")
	f.String("skr", "", "Chart of accounts: SKR03 or SKR04 (default from account settings)")
	f.StringP("output", "o", "", "Output file or directory (default: server file name)")
}

func addDateRangeFlags(str func(name, value, usage string) *string) {
	str("from", "", "Start date, YYYY-MM-DD or DD.MM.YYYY (inclusive)")
	str("to", "", "End date (inclusive)")
}

func dateRangeFlags(cmd *cobra.Command) (models.DateRange, error) {
	var r models.DateRange
	for name, dst := range map[string]**models.Date{"from": &r.From, "to": &r.To} {
		v, _ := cmd.Flags().GetString(name)
		if v == "" {
			continue
		}
		d, err := models.ParseDate(v)
		if err != nil {
			return r, fmt.Errorf("invalid --%s: %w", name, err)
		}
		*dst = d
	}
	if r.From != nil && r.To != nil && r.To.Before(r.From.Time) {
		return r, fmt.Errorf("--to (%s) is before --from (%s)", r.To, r.From)
	}
	return r, nil
}

func runDATEVExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("datev")

	dates, err := dateRangeFlags(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	switch models.DATEVFormat(strings.ToLower(format)) {
	case models.DATEVFormatCSV, models.DATEVFormatEXTF, models.DATEVFormatASCII:
	default:
		return fmt.Errorf("unknown format %q (use csv, extf or ascii)", format)
	}
	skr, _ := cmd.Flags().GetString("skr")
	if skr != "" && !strings.EqualFold(skr, "SKR03") && !strings.EqualFold(skr, "SKR04") {
		return fmt.Errorf("unknown chart of accounts %q (use SKR03 or SKR04)", skr)
	}

	client, err := newClient(cmd, true)
	if err != nil {
		return handleAPIError(err, "exporting DATEV", log)
	}
	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	doc, err := client.ExportDATEV(ctx, models.DATEVExportOptions{
		DateRange:       dates,
		Format:          models.DATEVFormat(strings.ToLower(format)),
		ChartOfAccounts: skr,
	})
	if err != nil {
		return handleAPIError(err, "exporting DATEV", log)
	}

	output, _ := cmd.Flags().GetString("output")
	path := downloadPath(output, doc.Filename)
	if err := writeOutputFile(path, doc.Data); err != nil {
		return err
	}

	log.Info().Str("path", path).Int("bytes", len(doc.Data)).Str("format", format).Msg("DATEV export saved")
	return printDone(cmd, "Saved DATEV export to %s (%d bytes).", path, len(doc.Data))
}
