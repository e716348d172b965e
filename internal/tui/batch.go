package tui

import (
	"errors"
	"fmt"
	"strings"

	"einvoice/internal/api"
	"einvoice/internal/ocr"
)

// RenderBatch formats the per-file outcome of an OCR batch.
func RenderBatch(results []ocr.BatchResult) string {
	var b strings.Builder
	counts := ocr.Counts(results)

	b.WriteString("  " + titleStyle.Render(fmt.Sprintf("Processed %d files", len(results))) + "  ")
	b.WriteString(passStyle.Render(fmt.Sprintf("%d ok", counts[ocr.StatusSuccess])) + "  ")
	b.WriteString(warnTagStyle.Render(fmt.Sprintf("%d need review", counts[ocr.StatusWarning])) + "  ")
	b.WriteString(errorTagStyle.Render(fmt.Sprintf("%d failed", counts[ocr.StatusError])))
	b.WriteString("\n  " + separatorLine + "\n")

	for _, r := range results {
		switch r.Status {
		case ocr.StatusSuccess:
			fmt.Fprintf(&b, "  %s %s %s\n", passStyle.Render("✓"), padRight(truncate(r.Filename(), 40), 40),
				dimStyle.Render(fmt.Sprintf("%.1f%%", r.Result.Confidence)))
		case ocr.StatusWarning:
			fields := make([]string, 0, len(r.Review.LowConfidence))
			for _, fs := range r.Review.LowConfidence {
				fields = append(fields, fs.Field.Name)
			}
			note := "review"
			if len(fields) > 0 {
				note = "review: " + strings.Join(fields, ", ")
			}
			fmt.Fprintf(&b, "  %s %s %s\n", warnStyle.Render("!"), padRight(truncate(r.Filename(), 40), 40), warnStyle.Render(note))
		default:
			fmt.Fprintf(&b, "  %s %s %s\n", failStyle.Render("✗"), padRight(truncate(r.Filename(), 40), 40), failStyle.Render(FailureReason(r.Err)))
		}
	}
	return b.String()
}

// FailureReason is the one-line explanation shown for a failed file. Backend
// and network failures use the API's user-facing message; local preflight
// failures are shown as they are.
func FailureReason(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) || errors.Is(err, api.ErrNetwork) {
		return api.ErrorMessage(err)
	}
	return err.Error()
}
