package models_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"einvoice/pkg/models"
)

func intPtr(i int) *int { return &i }

func TestValidationStatusBadge(t *testing.T) {
	tests := []struct {
		status models.ValidationStatus
		label  string
		tone   models.Tone
	}{
		{models.StatusPending, "Pending", models.ToneNeutral},
		{models.StatusValid, "Valid", models.ToneSuccess},
		{models.StatusInvalid, "Invalid", models.ToneDanger},
		{models.StatusError, "Error", models.ToneDanger},
		{models.StatusOCRProcessed, "OCR processed", models.ToneInfo},
		{models.StatusXRechnungGenerated, "XRechnung generated", models.ToneSuccess},
		{"archived", "archived", models.ToneNeutral},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			b := tt.status.Badge()
			assert.Equal(t, tt.label, b.Label)
			assert.Equal(t, tt.tone, b.Tone)
		})
	}
	assert.False(t, models.ValidationStatus("archived").Known())
	assert.True(t, models.StatusValid.Known())
}

func TestPaymentStatusBadge(t *testing.T) {
	assert.Equal(t, "Partially paid", models.PaymentPartial.Label())
	assert.Equal(t, models.ToneDanger, models.PaymentOverdue.Badge().Tone)
	assert.Equal(t, models.Badge{Label: "refunded", Tone: models.ToneNeutral}, models.PaymentStatus("refunded").Badge())
	assert.Len(t, models.PaymentStatuses(), 5)
}

func TestInvoiceCheckAmounts(t *testing.T) {
	inv := models.Invoice{
		NetAmount:   decimal.RequireFromString("100.00"),
		TaxAmount:   decimal.RequireFromString("19.00"),
		GrossAmount: decimal.RequireFromString("119.02"),
	}
	assert.NoError(t, inv.CheckAmounts())

	inv.GrossAmount = decimal.RequireFromString("119.03")
	err := inv.CheckAmounts()
	var amountErr *models.AmountError
	require.True(t, errors.As(err, &amountErr))
	assert.Equal(t, "0.03", amountErr.Difference.StringFixed(2))
}

func TestInvoiceInputValidate(t *testing.T) {
	in := models.InvoiceInput{
		InvoiceNumber: "RE-2024-001",
		SellerName:    "Muster GmbH",
		BuyerName:     "Beispiel AG",
		NetAmount:     decimal.RequireFromString("1000"),
		TaxAmount:     decimal.RequireFromString("190"),
	}
	require.NoError(t, in.Validate())
	assert.Equal(t, "1190.00", in.GrossAmount.StringFixed(2))

	in.BuyerName = ""
	assert.EqualError(t, in.Validate(), "buyer_name is required")
}

func TestApplyValidation(t *testing.T) {
	inv := &models.Invoice{ValidationStatus: models.StatusPending}
	inv.ApplyValidation(&models.ValidationResult{IsValid: true, XRechnungAvailable: true})
	assert.Equal(t, models.StatusValid, inv.ValidationStatus)
	assert.True(t, inv.XRechnungAvailable)

	inv.ApplyValidation(&models.ValidationResult{IsValid: false, ErrorCount: 1})
	assert.Equal(t, models.StatusInvalid, inv.ValidationStatus)
	assert.True(t, inv.XRechnungAvailable, "a failed run does not withdraw generated XML")

	inv.ApplyValidation(nil)
	assert.Equal(t, models.StatusInvalid, inv.ValidationStatus)
}

func TestValidationResultCheck(t *testing.T) {
	issue := models.ValidationIssue{Code: "BR-DE-15", Message: "Buyer reference missing"}
	tests := []struct {
		name    string
		result  models.ValidationResult
		wantErr bool
	}{
		{"valid", models.ValidationResult{IsValid: true, Validator: models.ValidatorKoSIT}, false},
		{"invalid", models.ValidationResult{Errors: []models.ValidationIssue{issue}, ErrorCount: 1, Validator: models.ValidatorLocal}, false},
		{"count mismatch", models.ValidationResult{Errors: []models.ValidationIssue{issue}, ErrorCount: 2}, true},
		{"valid with errors", models.ValidationResult{IsValid: true, Errors: []models.ValidationIssue{issue}, ErrorCount: 1}, true},
		{"warning count mismatch", models.ValidationResult{IsValid: true, WarningCount: intPtr(1)}, true},
		{"warning count absent", models.ValidationResult{IsValid: true, Warnings: []models.ValidationIssue{issue}}, false},
		{"unknown validator", models.ValidationResult{IsValid: true, Validator: "mustang"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Check()
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInconsistentReport)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOCRResultCheck(t *testing.T) {
	ok := models.OCRResult{Confidence: 88, FieldConfidences: map[string]float64{"invoice_number": 99, "iban": 0}}
	assert.NoError(t, ok.Check())

	bad := models.OCRResult{Confidence: 101, FieldConfidences: map[string]float64{"shoe_size": 50, "iban": -1}}
	err := bad.Check()
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUnknownField)
	assert.Contains(t, err.Error(), "overall confidence")
	assert.Contains(t, err.Error(), "iban")
}

func TestOCRResultDecode(t *testing.T) {
	body := `{
		"confidence": 87.5,
		"field_confidences": {"seller_name": 92, "gross_amount": 71},
		"extracted_data": {"invoice_number": "R-17", "gross_amount": 119.0, "invoice_date": "2024-03-01"},
		"consistency_checks": [{"name": "totals", "passed": false, "message": "net + tax != gross"}]
	}`
	var result models.OCRResult
	require.NoError(t, json.Unmarshal([]byte(body), &result))

	assert.Equal(t, []string{"gross_amount", "seller_name"}, result.ScoredFields())
	assert.Equal(t, "R-17", result.Extracted.InvoiceNumber)
	assert.Equal(t, "2024-03-01", result.Extracted.InvoiceDate.String())
	require.Len(t, result.FailedChecks(), 1)
	assert.Equal(t, "totals", result.FailedChecks()[0].Name)
}

func TestLookupField(t *testing.T) {
	f, ok := models.LookupField("buyer_reference")
	require.True(t, ok)
	assert.Equal(t, "BT-10", f.BTCode)

	_, ok = models.LookupField("nope")
	assert.False(t, ok)
	assert.Len(t, models.RecognizedFields(), 20)
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2024-12-31", "31.12.2024", "2024-12-31T15:04:05Z", " 2024-12-31 "} {
		d, err := models.ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, "2024-12-31", d.String())
	}
	_, err := models.ParseDate("12/31/2024")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	var holder struct {
		Due *models.Date `json:"due_date,omitempty"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"due_date":"2025-01-15"}`), &holder))
	out, err := json.Marshal(holder)
	require.NoError(t, err)
	assert.JSONEq(t, `{"due_date":"2025-01-15"}`, string(out))
}
