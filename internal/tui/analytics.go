package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"einvoice/pkg/models"
)

// RenderAnalytics formats the dashboard summary.
func RenderAnalytics(s *models.AnalyticsSummary) string {
	var b strings.Builder
	if s == nil {
		return ""
	}

	period := "all time"
	if s.PeriodFrom != nil || s.PeriodTo != nil {
		period = fmt.Sprintf("%s to %s", orDash(dateString(s.PeriodFrom)), orDash(dateString(s.PeriodTo)))
	}
	title := headStyle.Render("Invoice analytics") + "  " + dimStyle.Render(period)
	totals := fmt.Sprintf("%d invoices  ·  Gross %s EUR  ·  Net %s  ·  VAT %s",
		s.TotalInvoices, s.TotalGross.StringFixed(2), s.TotalNet.StringFixed(2), s.TotalTax.StringFixed(2))
	b.WriteString(boxStyle.Render(title + "\n" + titleStyle.Render(totals)))
	b.WriteString("\n\n")

	if !s.OverdueAmount.IsZero() {
		b.WriteString("  " + failStyle.Render("Overdue: "+s.OverdueAmount.StringFixed(2)+" EUR") + "\n")
	}
	if s.AverageOCRScore > 0 {
		b.WriteString("  " + dimStyle.Render(fmt.Sprintf("Average OCR confidence: %.1f%%", s.AverageOCRScore)) + "\n")
	}

	if len(s.ByValidation) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Validation") + "\n")
		keys := make([]string, 0, len(s.ByValidation))
		for k := range s.ByValidation {
			keys = append(keys, string(k))
		}
		sort.Strings(keys)
		for _, k := range keys {
			st := models.ValidationStatus(k)
			b.WriteString("    " + padRight(RenderBadge(st.Badge()), 24) + fmt.Sprintf("%d", s.ByValidation[st]) + "\n")
		}
	}
	if len(s.ByPayment) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Payment") + "\n")
		for _, st := range models.PaymentStatuses() {
			if n, ok := s.ByPayment[st]; ok {
				b.WriteString("    " + padRight(RenderBadge(st.Badge()), 24) + fmt.Sprintf("%d", n) + "\n")
			}
		}
	}
	if len(s.TopSuppliers) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Top suppliers") + "\n")
		for _, sup := range s.TopSuppliers {
			fmt.Fprintf(&b, "    %s %s %s\n",
				padRight(truncate(sup.Name, 30), 30),
				padLeft(fmt.Sprintf("%d", sup.Count), 5),
				padLeft(sup.Amount.StringFixed(2), 14))
		}
	}
	if len(s.MonthlyRevenue) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Monthly revenue") + "\n")
		peak := decimal.Zero
		for _, m := range s.MonthlyRevenue {
			if m.Amount.GreaterThan(peak) {
				peak = m.Amount
			}
		}
		for _, m := range s.MonthlyRevenue {
			fmt.Fprintf(&b, "    %s %s %s\n", m.Month, bar(m.Amount, peak, 30), padLeft(m.Amount.StringFixed(2), 14))
		}
	}
	return b.String()
}

func bar(value, peak decimal.Decimal, width int) string {
	filled := 0
	if peak.IsPositive() && value.IsPositive() {
		filled = int(value.Div(peak).Mul(decimal.NewFromInt(int64(width))).IntPart())
	}
	if filled > width {
		filled = width
	}
	return passStyle.Render(strings.Repeat("█", filled)) + faintStyle.Render(strings.Repeat("░", width-filled))
}
