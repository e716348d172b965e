package tui

import (
	"fmt"
	"strings"

	"einvoice/internal/review"
	"einvoice/pkg/models"
)

// RenderReview formats an OCR extraction together with the fields that need a human look.
func RenderReview(result *models.OCRResult, report *review.Report, threshold float64) string {
	var b strings.Builder
	if result == nil {
		return "  " + dimStyle.Render("No OCR result.") + "\n"
	}

	name := orDash(result.Filename)
	title := headStyle.Render("OCR extraction") + "  " + dimStyle.Render(name)
	conf := fmt.Sprintf("Confidence %.1f%%", result.Confidence)
	confStyled := passStyle.Render(conf)
	if result.Confidence < threshold {
		confStyled = warnStyle.Render(conf)
	}
	state := passStyle.Render("Ready to import")
	if report != nil && report.NeedsReview {
		state = warnTagStyle.Render("Needs review")
	}
	idLine := ""
	if result.InvoiceID != "" {
		idLine = "\n" + dimStyle.Render("Invoice ID: "+result.InvoiceID)
	}
	b.WriteString(boxStyle.Render(title + "\n" + confStyled + "  " + state + idLine))
	b.WriteString("\n\n")

	inv := result.Extracted
	fields := [][2]string{
		{"Invoice number", inv.InvoiceNumber},
		{"Issue date", dateString(inv.InvoiceDate)},
		{"Seller", inv.SellerName},
		{"Buyer", inv.BuyerName},
		{"Net", money(inv.NetAmount, inv.CurrencyCode())},
		{"VAT", money(inv.TaxAmount, inv.CurrencyCode())},
		{"Gross", money(inv.GrossAmount, inv.CurrencyCode())},
	}
	for _, f := range fields {
		b.WriteString("  " + dimStyle.Render(padRight(f[0], 16)) + orDash(f[1]) + "\n")
	}

	if report == nil {
		return b.String()
	}

	if len(report.LowConfidence) > 0 {
		b.WriteString("\n  " + titleStyle.Render(fmt.Sprintf("Low confidence (below %.0f%%)", threshold)) + "\n")
		for _, fs := range report.LowConfidence {
			b.WriteString(fmt.Sprintf("    %s %s %s\n",
				warnStyle.Render(padLeft(fmt.Sprintf("%.0f%%", fs.Confidence), 5)),
				padRight(fs.Field.Label, 26),
				dimStyle.Render(fs.Field.BTCode)))
		}
	}
	if len(report.FailedChecks) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Failed checks") + "\n")
		for _, c := range report.FailedChecks {
			b.WriteString("    " + failStyle.Render("✗") + " " + c.Name)
			if c.Message != "" {
				b.WriteString(dimStyle.Render(" - " + c.Message))
			}
			b.WriteString("\n")
		}
	}
	if len(report.Warnings) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Warnings") + "\n")
		for _, w := range report.Warnings {
			b.WriteString("    " + warnStyle.Render("!") + " " + w + "\n")
		}
	}
	return b.String()
}
