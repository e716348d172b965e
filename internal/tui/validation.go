package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"einvoice/internal/review"
	"einvoice/pkg/models"
)

// RenderValidation formats a validation report with its issues grouped by business term.
func RenderValidation(result *models.ValidationResult) string {
	var b strings.Builder
	summary := review.Summarize(result)

	verdict := failStyle.Bold(true).Render("✗ Invalid")
	if summary.Valid {
		verdict = passStyle.Bold(true).Render("✓ Valid")
	}
	title := headStyle.Render("Validation report")
	meta := dimStyle.Render(fmt.Sprintf("Validator: %s", summary.Validator))
	if result != nil && result.Profile != "" {
		meta += dimStyle.Render("  Profile: " + result.Profile)
	}
	if result != nil && result.InvoiceID != "" {
		meta += dimStyle.Render("  Invoice: " + result.InvoiceID)
	}
	b.WriteString(boxStyle.Render(title + "\n" + verdict + "\n" + meta))
	b.WriteString("\n\n")

	errCount, warnCount := 0, 0
	if result != nil {
		errCount, warnCount = len(result.Errors), len(result.Warnings)
	}
	b.WriteString("  ")
	b.WriteString(errorTagStyle.Render(fmt.Sprintf("%d errors", errCount)))
	b.WriteString("  ")
	b.WriteString(warnTagStyle.Render(fmt.Sprintf("%d warnings", warnCount)))
	b.WriteString("\n")

	if len(summary.Errors) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Errors") + "\n")
		renderGroups(&b, summary.Errors, failStyle)
	}
	if len(summary.Warnings) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Warnings") + "\n")
		renderGroups(&b, summary.Warnings, warnStyle)
	}
	if summary.Valid && errCount == 0 && warnCount == 0 {
		b.WriteString("\n  " + passStyle.Render("No issues found.") + "\n")
	}
	if summary.Inconsistent != nil {
		b.WriteString("\n  " + warnTagStyle.Render("Report is inconsistent: ") + dimStyle.Render(summary.Inconsistent.Error()) + "\n")
	}
	return b.String()
}

func renderGroups(b *strings.Builder, groups []review.IssueGroup, marker lipgloss.Style) {
	for _, g := range groups {
		heading := g.Key
		if g.Label != "" {
			heading += " " + dimStyle.Render(g.Label)
		}
		b.WriteString("    " + titleStyle.Render(heading) + "\n")
		for _, issue := range g.Issues {
			line := issue.Message
			if issue.Code != "" {
				line = fmt.Sprintf("[%s] %s", issue.Code, issue.Message)
			}
			b.WriteString("      " + marker.Render("•") + " " + line + "\n")
			if issue.Location != "" {
				b.WriteString("        " + dimStyle.Render(issue.Location) + "\n")
			}
		}
	}
}
