package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"einvoice/internal/logger"
	"einvoice/internal/ocr"
	"einvoice/internal/review"
	"einvoice/internal/tui"
	"einvoice/pkg/models"
)

var ocrCmd = &cobra.Command{
	Use:   "ocr",
	Short: "Extract invoice data from scans",
}

var ocrUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a scan (PDF, PNG, JPEG, TIFF) for OCR extraction",
	Long: `Upload a scanned invoice. The backend extracts the invoice fields with a
confidence score per field and stores the result as a new invoice.

Fields whose confidence is below the threshold (default 80, see
CONFIDENCE_THRESHOLD) are listed for manual review, together with failed
consistency checks and amount mismatches. Missing totals are derived from the
other two amounts when possible.`,
	Example: `  einvoice ocr upload rechnung.pdf
  einvoice ocr upload scan.png --threshold 90
  einvoice ocr upload rechnung.pdf --json > extraction.json`,
	Args: cobra.ExactArgs(1),
	RunE: runOCRUpload,
}

func init() {
	rootCmd.AddCommand(ocrCmd)
	ocrCmd.AddCommand(ocrUploadCmd)

	ocrUploadCmd.Flags().Float64("threshold", 0, "Confidence threshold for review (default from config)")
	ocrUploadCmd.Flags().Bool("strict", false, "Exit with an error when the extraction needs review")
}

func confidenceThreshold(cmd *cobra.Command) float64 {
	if v, _ := cmd.Flags().GetFloat64("threshold"); v > 0 {
		return v
	}
	return cfg.ConfidenceThreshold
}

// ocrOutput is the --json shape of a reviewed extraction.
type ocrOutput struct {
	Result *models.OCRResult `json:"result"`
	Review *review.Report    `json:"review"`
}

func runOCRUpload(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("ocr")

	file, err := ocr.CheckScan(args[0])
	if err != nil {
		return handleAPIError(err, "checking scan", log)
	}

	client, err := newClient(cmd, true)
	if err != nil {
		return handleAPIError(err, "uploading scan", log)
	}
	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	log.Info().Str("file", file.Name).Int("size", len(file.Data)).Msg("Uploading scan for OCR")

	result, err := client.UploadOCR(ctx, file)
	if err != nil {
		return handleAPIError(err, "uploading scan", log)
	}
	reconciler := review.NewReconciler(confidenceThreshold(cmd))
	report := reconciler.Reconcile(result)

	log.Info().
		Str("invoice_id", result.InvoiceID).
		Float64("confidence", result.Confidence).
		Bool("needs_review", report.NeedsReview).
		Msg("OCR extraction completed")

	if err := printResult(cmd, ocrOutput{Result: result, Review: report}, func() string {
		return tui.RenderReview(result, report, reconciler.Threshold())
	}); err != nil {
		return err
	}

	if strict, _ := cmd.Flags().GetBool("strict"); strict && report.NeedsReview {
		return fmt.Errorf("extraction needs manual review")
	}
	return nil
}
