package sheets

import (
	"strconv"
	"strings"
	"time"

	"einvoice/internal/ocr"
	"einvoice/internal/review"
	"einvoice/pkg/models"
)

// Headers are the column titles, A to P.
var Headers = []interface{}{
	"Datei", "Rechnungs-ID", "Rechnungsnr", "Datum", "Lieferant", "Kunde",
	"Netto", "MwSt", "Brutto", "Währung", "Validierung", "Zahlung",
	"OCR-Konfidenz", "Prüfung", "Hinweis", "Verarbeitet",
}

const (
	columnRange     = "A:P"
	headerRangeCols = "A1:P1"
	columnCount     = 16
)

// Row is one line of the invoice sheet.
type Row struct {
	Filename         string
	InvoiceID        string
	InvoiceNumber    string
	Date             string
	Seller           string
	Buyer            string
	NetAmount        float64
	TaxAmount        float64
	GrossAmount      float64
	Currency         string
	ValidationStatus string
	PaymentStatus    string
	Confidence       string
	Review           string
	Note             string
	ProcessedAt      string
}

func sheetDate(d *models.Date) string {
	if d == nil || d.IsZero() {
		return ""
	}
	return d.Format("02.01.2006")
}

// RowFromInvoice converts a stored invoice.
func RowFromInvoice(inv *models.Invoice, processedAt time.Time) Row {
	row := Row{
		InvoiceID:        inv.ID,
		InvoiceNumber:    inv.InvoiceNumber,
		Date:             sheetDate(inv.InvoiceDate),
		Seller:           inv.SellerName,
		Buyer:            inv.BuyerName,
		NetAmount:        inv.NetAmount.InexactFloat64(),
		TaxAmount:        inv.TaxAmount.InexactFloat64(),
		GrossAmount:      inv.GrossAmount.InexactFloat64(),
		Currency:         normalizeCurrency(inv.Currency),
		ValidationStatus: inv.ValidationStatus.Label(),
		PaymentStatus:    inv.PaymentStatus.Label(),
		ProcessedAt:      processedAt.Format("02.01.2006 15:04:05"),
	}
	if err := inv.CheckAmounts(); err != nil {
		row.Note = err.Error()
	}
	return row
}

// RowFromBatch converts the outcome of one OCR batch file.
func RowFromBatch(result ocr.BatchResult, processedAt time.Time) Row {
	if result.Err != nil || result.Result == nil {
		row := Row{
			Filename:    result.Filename(),
			Review:      string(ocr.StatusError),
			ProcessedAt: processedAt.Format("02.01.2006 15:04:05"),
		}
		if result.Err != nil {
			row.Note = "Fehler: " + result.Err.Error()
		}
		return row
	}

	inv := result.Result.Extracted
	if result.Review != nil {
		result.Review.Amounts.Apply(&inv)
	}
	if inv.ID == "" {
		inv.ID = result.Result.InvoiceID
	}
	row := RowFromInvoice(&inv, processedAt)
	row.Filename = result.Filename()
	row.Confidence = formatConfidence(result.Result.Confidence)
	row.Review = string(result.Status)
	row.Note = reviewNote(result.Review)
	return row
}

func formatConfidence(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64) + "%"
}

func reviewNote(r *review.Report) string {
	if r == nil {
		return ""
	}
	var parts []string
	if len(r.LowConfidence) > 0 {
		names := make([]string, 0, len(r.LowConfidence))
		for _, fs := range r.LowConfidence {
			names = append(names, fs.Field.Name)
		}
		parts = append(parts, "Prüfen: "+strings.Join(names, ", "))
	}
	for _, c := range r.FailedChecks {
		parts = append(parts, c.Name)
	}
	parts = append(parts, r.Warnings...)
	return strings.Join(parts, "; ")
}

func (row Row) values() []interface{} {
	return []interface{}{
		row.Filename,         // A: Datei
		row.InvoiceID,        // B: Rechnungs-ID
		row.InvoiceNumber,    // C: Rechnungsnr
		row.Date,             // D: Datum
		row.Seller,           // E: Lieferant
		row.Buyer,            // F: Kunde
		row.NetAmount,        // G: Netto
		row.TaxAmount,        // H: MwSt
		row.GrossAmount,      // I: Brutto
		row.Currency,         // J: Währung
		row.ValidationStatus, // K: Validierung
		row.PaymentStatus,    // L: Zahlung
		row.Confidence,       // M: OCR-Konfidenz
		row.Review,           // N: Prüfung
		row.Note,             // O: Hinweis
		row.ProcessedAt,      // P: Verarbeitet
	}
}

// normalizeCurrency standardizes currency codes to consistent format
func normalizeCurrency(currency string) string {
	if currency == "" {
		return models.DefaultCurrency
	}

	normalized := strings.ToUpper(strings.TrimSpace(currency))

	switch normalized {
	case "€", "EURO", "EUROS", "EUR":
		return "EUR"
	case "$", "DOLLAR", "DOLLARS", "USD", "US$":
		return "USD"
	case "£", "POUND", "POUNDS", "GBP":
		return "GBP"
	case "CHF", "FRANKEN", "SWISS FRANC":
		return "CHF"
	default:
		if len(normalized) == 3 {
			return normalized
		}
		return models.DefaultCurrency
	}
}
