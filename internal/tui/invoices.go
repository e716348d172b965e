package tui

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"einvoice/pkg/models"
)

func money(d decimal.Decimal, currency string) string {
	return d.StringFixed(2) + " " + currency
}

func dateString(d *models.Date) string {
	if d == nil || d.IsZero() {
		return ""
	}
	return d.String()
}

// RenderInvoiceTable formats one page of invoices.
func RenderInvoiceTable(page *models.Page[models.Invoice]) string {
	var b strings.Builder
	if page == nil || len(page.Items) == 0 {
		return "  " + dimStyle.Render("No invoices found.") + "\n"
	}

	header := fmt.Sprintf("  %s %s %s %s %s %s",
		padRight("NUMBER", 16), padRight("DATE", 10), padRight("SELLER", 22),
		padLeft("GROSS", 14), padRight("VALIDATION", 22), "PAYMENT")
	b.WriteString(titleStyle.Render(header) + "\n")
	b.WriteString("  " + separatorLine + "\n")

	for _, inv := range page.Items {
		fmt.Fprintf(&b, "  %s %s %s %s %s %s\n",
			padRight(truncate(orDash(inv.InvoiceNumber), 16), 16),
			padRight(orDash(dateString(inv.InvoiceDate)), 10),
			padRight(truncate(orDash(inv.SellerName), 22), 22),
			padLeft(money(inv.GrossAmount, inv.CurrencyCode()), 14),
			padRight(RenderBadge(inv.ValidationStatus.Badge()), 22),
			RenderBadge(inv.PaymentStatus.Badge()))
	}

	b.WriteString("\n  " + dimStyle.Render(pageFooter(page.Page, page.PageSize, len(page.Items), page.Total)) + "\n")
	return b.String()
}

func pageFooter(page, pageSize, shown, total int) string {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = shown
	}
	pages := 1
	if pageSize > 0 && total > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	return fmt.Sprintf("Page %d of %d · %d invoices", page, pages, total)
}

// RenderInvoice formats a single invoice with all parties and amounts.
func RenderInvoice(inv *models.Invoice) string {
	var b strings.Builder
	if inv == nil {
		return ""
	}

	title := headStyle.Render("Invoice "+orDash(inv.InvoiceNumber)) + "  " + dimStyle.Render(inv.ID)
	badges := RenderBadge(inv.ValidationStatus.Badge()) + "  " + RenderBadge(inv.PaymentStatus.Badge())
	b.WriteString(boxStyle.Render(title + "\n" + badges))
	b.WriteString("\n\n")

	cur := inv.CurrencyCode()
	rows := [][2]string{
		{"Issue date", dateString(inv.InvoiceDate)},
		{"Due date", dateString(inv.DueDate)},
		{"Seller", inv.SellerName},
		{"Seller VAT ID", inv.SellerVATID},
		{"Buyer", inv.BuyerName},
		{"Buyer reference", inv.BuyerRef},
		{"Net", money(inv.NetAmount, cur)},
		{"VAT", money(inv.TaxAmount, cur)},
		{"Gross", money(inv.GrossAmount, cur)},
		{"IBAN", inv.IBAN},
		{"Source", string(inv.Source)},
	}
	for _, r := range rows {
		b.WriteString("  " + dimStyle.Render(padRight(r[0], 18)) + orDash(r[1]) + "\n")
	}

	if err := inv.CheckAmounts(); err != nil {
		b.WriteString("\n  " + warnStyle.Render("! "+err.Error()) + "\n")
	}

	if len(inv.LineItems) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Line items") + "\n")
		for _, li := range inv.LineItems {
			fmt.Fprintf(&b, "    %s %s x %s %s\n",
				padRight(truncate(li.Description, 32), 32),
				padLeft(li.Quantity.String(), 6),
				padLeft(li.UnitPrice.StringFixed(2), 10),
				padLeft(money(li.NetAmount, cur), 14))
		}
	}

	var docs []string
	if inv.XRechnungAvailable {
		docs = append(docs, "XRechnung")
	}
	if inv.ZUGFeRDAvailable {
		docs = append(docs, "ZUGFeRD")
	}
	if len(docs) > 0 {
		b.WriteString("\n  " + dimStyle.Render("Available: ") + passStyle.Render(strings.Join(docs, ", ")) + "\n")
	}
	return b.String()
}
