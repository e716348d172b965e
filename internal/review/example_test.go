package review_test

import (
	"fmt"

	"github.com/shopspring/decimal"

	"einvoice/internal/review"
	"einvoice/pkg/models"
)

// ExampleReconciler_Reconcile shows how an OCR extraction is reviewed
func ExampleReconciler_Reconcile() {
	result := &models.OCRResult{
		Filename:   "rechnung.pdf",
		Confidence: 91,
		FieldConfidences: map[string]float64{
			"invoice_number": 98,
			"seller_name":    64,
			"buyer_name":     72,
		},
		Extracted: models.Invoice{
			NetAmount: decimal.RequireFromString("100.00"),
			TaxAmount: decimal.RequireFromString("19.00"),
		},
	}

	reconciler := review.NewReconciler(80)
	report := reconciler.Reconcile(result)

	fmt.Println("needs review:", report.NeedsReview)
	for _, f := range report.LowConfidence {
		fmt.Printf("%s (%s): %.0f%%\n", f.Field.Label, f.Field.BTCode, f.Confidence)
	}
	fmt.Println("gross:", report.Amounts.Gross.StringFixed(2), "derived:", report.Amounts.Derived)

	// Output:
	// needs review: true
	// Seller name (BT-27): 64%
	// Buyer name (BT-44): 72%
	// gross: 119.00 derived: gross_amount
}

// ExampleSummarize shows how validation issues are grouped for display
func ExampleSummarize() {
	result := &models.ValidationResult{
		IsValid:    false,
		ErrorCount: 2,
		Validator:  models.ValidatorKoSIT,
		Errors: []models.ValidationIssue{
			{Code: "BR-DE-15", Message: "Buyer reference (BT-10) is missing"},
			{Code: "BR-CO-10", Message: "Sum of line net amounts does not match"},
		},
	}

	summary := review.Summarize(result)
	fmt.Println(summary.Validator, "valid:", summary.Valid)
	for _, g := range summary.Errors {
		fmt.Printf("%s %q: %d\n", g.Key, g.Label, len(g.Issues))
	}

	// Output:
	// KoSIT validator valid: false
	// BR-CO "": 1
	// BT-10 "Buyer reference": 1
}
