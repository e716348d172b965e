package sheets

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"einvoice/internal/ocr"
	"einvoice/internal/review"
	"einvoice/pkg/models"
)

var processed = time.Date(2024, 6, 3, 14, 5, 9, 0, time.UTC)

func TestExtractSpreadsheetID(t *testing.T) {
	id, err := extractSpreadsheetID("https://docs.google.com/spreadsheets/d/1AbC-x_9/edit#gid=0")
	require.NoError(t, err)
	assert.Equal(t, "1AbC-x_9", id)

	_, err = extractSpreadsheetID("https://example.com/sheet")
	assert.ErrorIs(t, err, ErrInvalidSheetURL)
}

func TestNormalizeCurrency(t *testing.T) {
	tests := map[string]string{
		"":       "EUR",
		"€":      "EUR",
		" usd ":  "USD",
		"Pounds": "GBP",
		"sek":    "SEK",
		"euro!!": "EUR",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeCurrency(in), in)
	}
}

func TestRowFromInvoice(t *testing.T) {
	date, _ := models.ParseDate("2024-05-31")
	inv := &models.Invoice{
		ID:               "inv_1",
		InvoiceNumber:    "RE-1",
		InvoiceDate:      date,
		SellerName:       "Muster GmbH",
		BuyerName:        "Beispiel AG",
		NetAmount:        decimal.RequireFromString("100.50"),
		TaxAmount:        decimal.RequireFromString("19.10"),
		GrossAmount:      decimal.RequireFromString("119.60"),
		ValidationStatus: models.StatusXRechnungGenerated,
		PaymentStatus:    models.PaymentPartial,
	}

	row := RowFromInvoice(inv, processed)

	assert.Equal(t, "31.05.2024", row.Date)
	assert.Equal(t, 119.6, row.GrossAmount)
	assert.Equal(t, "EUR", row.Currency)
	assert.Equal(t, "XRechnung generated", row.ValidationStatus)
	assert.Equal(t, "Partially paid", row.PaymentStatus)
	assert.Equal(t, "03.06.2024 14:05:09", row.ProcessedAt)
	assert.Empty(t, row.Note)

	values := row.values()
	assert.Len(t, values, columnCount)
	assert.Len(t, Headers, columnCount)
	assert.Equal(t, "inv_1", values[1])
}

func TestRowFromBatch(t *testing.T) {
	result := &models.OCRResult{
		InvoiceID:        "inv_9",
		Confidence:       61.5,
		FieldConfidences: map[string]float64{"seller_name": 50},
		Extracted: models.Invoice{
			InvoiceNumber: "R-9",
			NetAmount:     decimal.RequireFromString("200"),
			TaxAmount:     decimal.RequireFromString("38"),
		},
	}
	rep := review.NewReconciler(80).Reconcile(result)

	row := RowFromBatch(ocr.BatchResult{Path: "/scans/r9.pdf", Result: result, Review: rep, Status: ocr.StatusWarning}, processed)

	assert.Equal(t, "r9.pdf", row.Filename)
	assert.Equal(t, "inv_9", row.InvoiceID)
	assert.Equal(t, 238.0, row.GrossAmount)
	assert.Equal(t, "61.5%", row.Confidence)
	assert.Equal(t, "warning", row.Review)
	assert.Contains(t, row.Note, "Prüfen: seller_name")
	assert.Contains(t, row.Note, "Gross amount calculated")

	failed := RowFromBatch(ocr.BatchResult{Path: "/scans/bad.pdf", Err: errors.New("file is empty"), Status: ocr.StatusError}, processed)
	assert.Equal(t, "bad.pdf", failed.Filename)
	assert.Equal(t, "error", failed.Review)
	assert.Equal(t, "Fehler: file is empty", failed.Note)
}
