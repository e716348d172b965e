package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"einvoice/internal/api"
	"einvoice/internal/logger"
	"einvoice/internal/ocr"
	"einvoice/internal/tui"
	"einvoice/pkg/models"
)

var validateCmd = &cobra.Command{
	Use:   "validate [invoice-id]",
	Short: "Validate an invoice or an XML file against the XRechnung rules",
	Long: `Validate a stored invoice, or a local XRechnung/ZUGFeRD XML file with --xml.

The backend runs the KoSIT validator when available and falls back to its own
rule set otherwise. Validating a stored invoice updates its validation status
and, when valid, makes the XRechnung XML available for download.

Exits with an error when the invoice is invalid.`,
	Example: `  einvoice validate inv_123
  einvoice validate --xml rechnung.xml
  einvoice validate inv_123 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("xml", "", "Validate a local XML file instead of a stored invoice")
}

func runValidate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("validate")

	xmlPath, _ := cmd.Flags().GetString("xml")
	if (xmlPath == "") == (len(args) == 0) {
		return fmt.Errorf("give either an invoice ID or --xml <file>")
	}

	client, err := newClient(cmd, true)
	if err != nil {
		return handleAPIError(err, "validating", log)
	}
	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	var (
		result *models.ValidationResult
		inv    *models.Invoice
	)
	if xmlPath != "" {
		file, err := ocr.CheckXML(xmlPath)
		if err != nil {
			return handleAPIError(err, "validating XML", log)
		}
		result, err = client.ValidateXML(ctx, string(file.Data))
		if err != nil {
			return handleAPIError(err, "validating XML", log)
		}
	} else {
		log = logger.WithInvoice(log, args[0])
		inv, result, err = validateStored(ctx, client, args[0])
		if err != nil {
			return handleAPIError(err, "validating invoice", log)
		}
	}

	log.Info().
		Bool("is_valid", result.IsValid).
		Int("errors", result.ErrorCount).
		Int("warnings", len(result.Warnings)).
		Str("validator", string(result.Validator)).
		Msg("Validation completed")

	if err := printResult(cmd, result, func() string {
		out := tui.RenderValidation(result)
		if inv != nil {
			out += "\n" + validatedStatusLine(inv)
		}
		return out
	}); err != nil {
		return err
	}
	if !result.IsValid {
		return fmt.Errorf("invoice is not valid (%d errors)", result.ErrorCount)
	}
	return nil
}

// validateStored loads the invoice, validates it and records the outcome on
// the loaded snapshot instead of fetching it again.
func validateStored(ctx context.Context, client *api.Client, id string) (*models.Invoice, *models.ValidationResult, error) {
	inv, err := client.GetInvoice(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	result, err := client.ValidateInvoice(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	inv.ApplyValidation(result)
	return inv, result, nil
}

func validatedStatusLine(inv *models.Invoice) string {
	line := fmt.Sprintf("Invoice %s is now %s", orID(inv), tui.RenderBadge(inv.ValidationStatus.Badge()))
	if inv.XRechnungAvailable {
		line += fmt.Sprintf("\nXRechnung XML is ready: einvoice xrechnung download %s", inv.ID)
	}
	return line + "\n"
}
