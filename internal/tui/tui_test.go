package tui_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"einvoice/internal/api"
	"einvoice/internal/ocr"
	"einvoice/internal/review"
	"einvoice/internal/tui"
	"einvoice/pkg/models"
)

func sampleInvoice() models.Invoice {
	date, _ := models.ParseDate("2024-05-02")
	return models.Invoice{
		ID:               "inv_123",
		InvoiceNumber:    "RE-2024-0042",
		SellerName:       "Muster GmbH",
		BuyerName:        "Beispiel AG",
		InvoiceDate:      date,
		NetAmount:        decimal.RequireFromString("1000"),
		TaxAmount:        decimal.RequireFromString("190"),
		GrossAmount:      decimal.RequireFromString("1190"),
		Currency:         "EUR",
		ValidationStatus: models.StatusValid,
		PaymentStatus:    models.PaymentOverdue,
		LineItems: []models.LineItem{{
			Description: "Consulting",
			Quantity:    decimal.NewFromInt(10),
			UnitPrice:   decimal.NewFromInt(100),
			NetAmount:   decimal.NewFromInt(1000),
		}},
		XRechnungAvailable: true,
	}
}

func TestRenderBadge(t *testing.T) {
	out := tui.RenderBadge(models.StatusOCRProcessed.Badge())
	assert.Contains(t, out, "OCR processed")

	out = tui.RenderBadge(models.ValidationStatus("archived").Badge())
	assert.Contains(t, out, "archived")
}

func TestRenderValidation_Invalid(t *testing.T) {
	result := &models.ValidationResult{
		InvoiceID: "inv_123",
		Errors: []models.ValidationIssue{
			{Code: "BR-DE-15", Message: "Buyer reference (BT-10) is missing", Location: "/Invoice"},
		},
		Warnings:   []models.ValidationIssue{{Code: "BR-DE-TMP-32", Message: "Check the payment terms"}},
		ErrorCount: 1,
		Validator:  models.ValidatorKoSIT,
	}

	out := tui.RenderValidation(result)

	assert.Contains(t, out, "Invalid")
	assert.Contains(t, out, "1 errors")
	assert.Contains(t, out, "1 warnings")
	assert.Contains(t, out, "BT-10")
	assert.Contains(t, out, "Buyer reference")
	assert.Contains(t, out, "[BR-DE-15]")
	assert.Contains(t, out, "BR-DE-TMP")
	assert.NotContains(t, out, "inconsistent")
}

func TestRenderValidation_Valid(t *testing.T) {
	out := tui.RenderValidation(&models.ValidationResult{IsValid: true, Validator: models.ValidatorLocal})

	assert.Contains(t, out, "Valid")
	assert.Contains(t, out, "No issues found.")
}

func TestRenderValidation_Inconsistent(t *testing.T) {
	out := tui.RenderValidation(&models.ValidationResult{IsValid: true, ErrorCount: 2})
	assert.Contains(t, out, "inconsistent")
}

func TestRenderReview(t *testing.T) {
	result := &models.OCRResult{
		Filename:         "scan.pdf",
		Confidence:       72.5,
		FieldConfidences: map[string]float64{"iban": 41, "invoice_number": 98},
		Extracted:        sampleInvoice(),
		ConsistencyChecks: []models.ConsistencyCheck{
			{Name: "vat_id_format", Passed: false, Message: "malformed"},
		},
	}
	report := review.NewReconciler(80).Reconcile(result)

	out := tui.RenderReview(result, report, 80)

	assert.Contains(t, out, "scan.pdf")
	assert.Contains(t, out, "72.5%")
	assert.Contains(t, out, "Needs review")
	assert.Contains(t, out, "IBAN")
	assert.Contains(t, out, "BT-84")
	assert.Contains(t, out, "vat_id_format")
	assert.Contains(t, out, "RE-2024-0042")
}

func TestRenderInvoiceTable(t *testing.T) {
	page := &models.Page[models.Invoice]{Items: []models.Invoice{sampleInvoice()}, Total: 41, Page: 2, PageSize: 20}

	out := tui.RenderInvoiceTable(page)

	assert.Contains(t, out, "RE-2024-0042")
	assert.Contains(t, out, "2024-05-02")
	assert.Contains(t, out, "1190.00 EUR")
	assert.Contains(t, out, "Valid")
	assert.Contains(t, out, "Overdue")
	assert.Contains(t, out, "Page 2 of 3")

	assert.Contains(t, tui.RenderInvoiceTable(&models.Page[models.Invoice]{}), "No invoices found.")
}

func TestRenderInvoice(t *testing.T) {
	inv := sampleInvoice()
	out := tui.RenderInvoice(&inv)
	assert.Contains(t, out, "Consulting")
	assert.Contains(t, out, "XRechnung")
	assert.NotContains(t, out, "does not match gross")

	inv.GrossAmount = decimal.RequireFromString("1200")
	out = tui.RenderInvoice(&inv)
	assert.Contains(t, out, "does not match gross")
}

func TestRenderAnalytics(t *testing.T) {
	summary := &models.AnalyticsSummary{
		TotalInvoices: 12,
		TotalGross:    decimal.RequireFromString("11900"),
		ByValidation:  map[models.ValidationStatus]int{models.StatusValid: 10, models.StatusInvalid: 2},
		ByPayment:     map[models.PaymentStatus]int{models.PaymentPaid: 9, models.PaymentOverdue: 3},
		OverdueAmount: decimal.RequireFromString("2380"),
		TopSuppliers:  []models.SupplierTotal{{Name: "Muster GmbH", Count: 7, Amount: decimal.RequireFromString("8330")}},
		MonthlyRevenue: []models.MonthlyAmount{
			{Month: "2024-04", Amount: decimal.RequireFromString("5000")},
			{Month: "2024-05", Amount: decimal.RequireFromString("6900")},
		},
	}

	out := tui.RenderAnalytics(summary)

	assert.Contains(t, out, "12 invoices")
	assert.Contains(t, out, "11900.00")
	assert.Contains(t, out, "Overdue: 2380.00 EUR")
	assert.Contains(t, out, "Muster GmbH")
	assert.Contains(t, out, "2024-05")
}

func TestRenderBatch(t *testing.T) {
	results := []ocr.BatchResult{
		{Path: "/in/a.pdf", Status: ocr.StatusSuccess, Result: &models.OCRResult{Confidence: 93}},
		{Path: "/in/b.pdf", Status: ocr.StatusWarning, Result: &models.OCRResult{Confidence: 60},
			Review: &review.Report{NeedsReview: true, LowConfidence: []review.FieldScore{{Field: models.Field{Name: "iban"}, Confidence: 40}}}},
		{Path: "/in/c.pdf", Status: ocr.StatusError, Err: fmt.Errorf("%w: boom", api.ErrNetwork)},
	}

	out := tui.RenderBatch(results)

	assert.Contains(t, out, "Processed 3 files")
	assert.Contains(t, out, "1 ok")
	assert.Contains(t, out, "1 need review")
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "review: iban")
	assert.Contains(t, out, "Network error")
}

func TestFailureReason(t *testing.T) {
	assert.Equal(t, "", tui.FailureReason(nil))
	assert.Equal(t, "file is empty", tui.FailureReason(errors.New("file is empty")))
	apiErr := &api.APIError{Op: "UploadOCR", StatusCode: 413, Detail: "File too large", Err: api.ErrPayloadTooLarge}
	assert.Equal(t, "File too large", tui.FailureReason(apiErr))
}

func TestRenderTable(t *testing.T) {
	out := tui.RenderTable([]string{"ID", "NAME"}, [][]string{{"sup_1", "Muster GmbH"}}, "No suppliers.")
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Muster GmbH")

	assert.Contains(t, tui.RenderTable([]string{"ID"}, nil, "No suppliers."), "No suppliers.")
}
