package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"einvoice/internal/api"
	"einvoice/internal/logger"
	"einvoice/internal/ocr"
	"einvoice/internal/review"
	"einvoice/internal/sheets"
	"einvoice/internal/tui"
)

var ocrBatchCmd = &cobra.Command{
	Use:   "batch <folder>",
	Short: "Run OCR on every scan in a folder",
	Long: `Run OCR on every PDF, PNG, JPEG and TIFF file in a folder (recursively).

By default files are uploaded one by one over a pool of parallel workers
(--workers, BATCH_WORKERS, default 4); a failing file never stops the batch.
With --server all files are sent in a single request to the backend's batch
endpoint instead.

Each result is reviewed against the confidence threshold. With --sheet the
results are appended to the configured Google Sheet. --dry-run only checks the
files locally and uploads nothing.`,
	Example: `  einvoice ocr batch ./scans
  einvoice ocr batch ./scans --workers 8 --sheet "Eingang Mai"
  einvoice ocr batch ./scans --server
  einvoice ocr batch ./scans --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runOCRBatch,
}

func init() {
	ocrCmd.AddCommand(ocrBatchCmd)

	f := ocrBatchCmd.Flags()
	f.Int("workers", 0, "Number of parallel uploads (default from config)")
	f.Bool("server", false, "Use the backend batch endpoint (one request)")
	f.String("sheet", "", "Append results to this worksheet of GOOGLE_SHEET_URL")
	f.Bool("dry-run", false, "Check files locally without uploading")
	f.Float64("threshold", 0, "Confidence threshold for review (default from config)")
}

func runOCRBatch(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("ocr-batch")

	folder := args[0]
	workers, _ := cmd.Flags().GetInt("workers")
	if workers <= 0 {
		workers = cfg.BatchWorkers
	}
	server, _ := cmd.Flags().GetBool("server")
	sheetName, _ := cmd.Flags().GetString("sheet")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	files, err := ocr.FindScans(folder)
	if err != nil {
		return handleAPIError(err, "scanning folder", log)
	}

	log.Info().
		Str("folder", folder).
		Int("files", len(files)).
		Int("workers", workers).
		Bool("server", server).
		Bool("dry_run", dryRun).
		Msg("Starting OCR batch")

	if dryRun {
		return runOCRBatchDryRun(cmd, files)
	}

	if sheetName != "" && cfg.GoogleSheetURL == "" {
		return fmt.Errorf("--sheet needs GOOGLE_SHEET_URL to be set")
	}

	client, err := newClient(cmd, true)
	if err != nil {
		return handleAPIError(err, "running OCR batch", log)
	}

	ctx, cancel := createCommandContext(0, log)
	defer cancel()

	reconciler := review.NewReconciler(confidenceThreshold(cmd))
	progressOut := cmd.ErrOrStderr()
	if jsonOutput(cmd) {
		progressOut = io.Discard
	}

	start := time.Now()
	var results []ocr.BatchResult
	if server {
		results, err = runServerBatch(cmd, client, reconciler, files)
		if err != nil {
			return handleAPIError(err, "running OCR batch", log)
		}
	} else {
		batch := ocr.NewBatch(client, reconciler, workers, func(done, total int, r ocr.BatchResult) {
			fmt.Fprintf(progressOut, "[%d/%d] %s - %s", done, total, r.Filename(), statusLabel(r.Status))
			if r.Err != nil {
				fmt.Fprintf(progressOut, " (%s)", tui.FailureReason(r.Err))
			} else if r.Result != nil {
				fmt.Fprintf(progressOut, " (%.1f%%)", r.Result.Confidence)
			}
			fmt.Fprintln(progressOut)
		})
		results = batch.Run(ctx, files)
	}

	counts := ocr.Counts(results)
	log.Info().
		Int("success", counts[ocr.StatusSuccess]).
		Int("warning", counts[ocr.StatusWarning]).
		Int("error", counts[ocr.StatusError]).
		Dur("duration", time.Since(start)).
		Msg("OCR batch completed")

	if sheetName != "" {
		if err := writeBatchToSheet(cmd, results, sheetName); err != nil {
			return err
		}
	}

	if err := printResult(cmd, results, func() string { return "\n" + tui.RenderBatch(results) }); err != nil {
		return err
	}
	if counts[ocr.StatusError] == len(results) {
		return fmt.Errorf("all %d files failed", len(results))
	}
	return nil
}

// runServerBatch uploads all files in one request and maps the response back to paths.
func runServerBatch(cmd *cobra.Command, client *api.Client, reconciler *review.Reconciler, paths []string) ([]ocr.BatchResult, error) {
	ctx, cancel := commandContext(cmd, logger.WithComponent("ocr-batch"))
	defer cancel()
	return ocr.RunServer(ctx, client, reconciler, paths)
}

func runOCRBatchDryRun(cmd *cobra.Command, files []string) error {
	results := make([]ocr.BatchResult, len(files))
	for i, p := range files {
		results[i] = ocr.BatchResult{Path: p, Index: i, Status: ocr.StatusSuccess}
		if _, err := ocr.CheckScan(p); err != nil {
			results[i].Status = ocr.StatusError
			results[i].Err = err
		}
	}
	return printResult(cmd, results, func() string {
		s := fmt.Sprintf("Dry run: %d files found\n", len(files))
		for _, r := range results {
			if r.Err != nil {
				s += fmt.Sprintf("  ✗ %s (%s)\n", r.Filename(), r.Err)
			} else {
				s += fmt.Sprintf("  ✓ %s\n", r.Filename())
			}
		}
		return s
	})
}

func writeBatchToSheet(cmd *cobra.Command, results []ocr.BatchResult, sheetName string) error {
	log := logger.WithComponent("ocr-batch")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	sheetsService, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL)
	if err != nil {
		return fmt.Errorf("failed to connect to Google Sheets: %w", err)
	}

	now := time.Now()
	rows := make([]sheets.Row, 0, len(results))
	for _, r := range results {
		rows = append(rows, sheets.RowFromBatch(r, now))
	}
	if err := sheetsService.WriteInvoiceRows(ctx, rows, sheetName); err != nil {
		return fmt.Errorf("failed to write to Google Sheet: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d rows to sheet %q\n", len(rows), sheetName)
	return nil
}

func statusLabel(s ocr.Status) string {
	switch s {
	case ocr.StatusSuccess:
		return "✓ ok"
	case ocr.StatusWarning:
		return "! review"
	default:
		return "✗ failed"
	}
}
