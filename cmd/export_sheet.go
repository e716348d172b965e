package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"einvoice/internal/logger"
	"einvoice/internal/sheets"
	"einvoice/pkg/models"
)

// maxExportPages bounds how many list pages export-sheet fetches.
const maxExportPages = 500

var invoiceExportSheetCmd = &cobra.Command{
	Use:   "export-sheet",
	Short: "Append invoices to a Google Sheet",
	Long: `Append invoices to a Google Sheets spreadsheet, one row per invoice. The
sheet and its header row are created if missing. Invoices whose ID is already
in the sheet are skipped.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
The service account needs edit access to the spreadsheet.`,
	Example: `  einvoice invoice export-sheet --sheet-url https://docs.google.com/spreadsheets/d/abc/edit
  einvoice invoice export-sheet --status valid --sheet "Mai 2024"`,
	Args: cobra.NoArgs,
	RunE: runInvoiceExportSheet,
}

func init() {
	invoiceCmd.AddCommand(invoiceExportSheetCmd)

	f := invoiceExportSheetCmd.Flags()
	f.String("sheet-url", "", "Spreadsheet URL (default GOOGLE_SHEET_URL)")
	f.String("sheet", "", "Worksheet name (default from config)")
	f.String("status", "", "Only export invoices with this validation status")
	f.String("payment", "", "Only export invoices with this payment status")
	f.Bool("include-existing", false, "Also append invoices already in the sheet")
}

func runInvoiceExportSheet(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export-sheet")

	sheetURL, _ := cmd.Flags().GetString("sheet-url")
	if sheetURL == "" {
		sheetURL = cfg.GoogleSheetURL
	}
	if sheetURL == "" {
		return fmt.Errorf("no spreadsheet given. Use --sheet-url or set GOOGLE_SHEET_URL")
	}
	sheetName, _ := cmd.Flags().GetString("sheet")
	if sheetName == "" {
		sheetName = cfg.SheetName
	}
	status, _ := cmd.Flags().GetString("status")
	payment, _ := cmd.Flags().GetString("payment")
	includeExisting, _ := cmd.Flags().GetBool("include-existing")

	client, err := newClient(cmd, true)
	if err != nil {
		return handleAPIError(err, "exporting invoices", log)
	}
	ctx, cancel := createCommandContext(0, log)
	defer cancel()

	sheetsService, err := sheets.NewSheetsService(ctx, sheetURL)
	if err != nil {
		return fmt.Errorf("failed to connect to Google Sheets: %w", err)
	}

	var invoices []models.Invoice
	filter := models.InvoiceFilter{
		PageSize:         100,
		ValidationStatus: models.ValidationStatus(status),
		PaymentStatus:    models.PaymentStatus(payment),
	}
	for page := 1; page <= maxExportPages; page++ {
		filter.Page = page
		result, err := client.ListInvoices(ctx, filter)
		if err != nil {
			return handleAPIError(err, "listing invoices", log)
		}
		invoices = append(invoices, result.Items...)
		if len(result.Items) == 0 || len(invoices) >= result.Total {
			break
		}
	}

	existing := map[string]bool{}
	if !includeExisting {
		existing, err = sheetsService.ExistingInvoiceIDs(ctx, sheetName)
		if err != nil {
			log.Warn().Err(err).Msg("Could not read existing rows, exporting everything")
			existing = map[string]bool{}
		}
	}

	now := time.Now()
	rows := make([]sheets.Row, 0, len(invoices))
	skipped := 0
	for i := range invoices {
		if existing[invoices[i].ID] {
			skipped++
			continue
		}
		rows = append(rows, sheets.RowFromInvoice(&invoices[i], now))
	}

	if err := sheetsService.WriteInvoiceRows(ctx, rows, sheetName); err != nil {
		return fmt.Errorf("failed to write to Google Sheet: %w", err)
	}

	log.Info().Int("written", len(rows)).Int("skipped", skipped).Str("sheet", sheetName).Msg("Exported invoices to Google Sheet")

	return printDone(cmd, "Wrote %d invoices to sheet %q (%d already present).", len(rows), sheetName, skipped)
}
