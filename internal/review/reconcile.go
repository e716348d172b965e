// Package review turns OCR extractions and validation reports into the list
// of things a person still has to look at before an invoice can be booked.
package review

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"einvoice/internal/logger"
	"einvoice/pkg/models"
)

// DefaultThreshold is the field confidence below which a value needs review.
const DefaultThreshold = 80.0

// FieldScore is a single extracted field with its confidence.
type FieldScore struct {
	Field      models.Field `json:"field"`
	Confidence float64      `json:"confidence"`
}

// AmountCheck is the outcome of cross-validating the extracted totals.
type AmountCheck struct {
	Net   decimal.Decimal `json:"net_amount"`
	Tax   decimal.Decimal `json:"tax_amount"`
	Gross decimal.Decimal `json:"gross_amount"`

	// Derived names the amount that was computed from the other two, if any.
	Derived string `json:"derived,omitempty"`

	// Mismatch is gross - (net + tax) when it exceeds the tolerance.
	Mismatch *decimal.Decimal `json:"mismatch,omitempty"`
}

// Report lists everything in an OCR result that needs a human.
type Report struct {
	NeedsReview   bool                      `json:"needs_review"`
	LowConfidence []FieldScore              `json:"low_confidence"`
	UnknownFields []string                  `json:"unknown_fields,omitempty"`
	FailedChecks  []models.ConsistencyCheck `json:"failed_checks"`
	Warnings      []string                  `json:"warnings"`
	Amounts       AmountCheck               `json:"amounts"`
}

// Reconciler reviews OCR results against a confidence threshold.
type Reconciler struct {
	threshold float64
	log       zerolog.Logger
}

// NewReconciler creates a reconciler. A threshold outside (0, 100] falls back to DefaultThreshold.
func NewReconciler(threshold float64) *Reconciler {
	if threshold <= 0 || threshold > 100 {
		threshold = DefaultThreshold
	}
	return &Reconciler{
		threshold: threshold,
		log:       logger.WithComponent("review"),
	}
}

// Threshold returns the configured confidence threshold.
func (r *Reconciler) Threshold() float64 {
	return r.threshold
}

// Reconcile builds the review report for an OCR result. The result itself is not modified.
func (r *Reconciler) Reconcile(result *models.OCRResult) *Report {
	report := &Report{}
	if result == nil {
		return report
	}

	for _, name := range result.ScoredFields() {
		score := result.FieldConfidences[name]
		field, ok := models.LookupField(name)
		if !ok {
			report.UnknownFields = append(report.UnknownFields, name)
			continue
		}
		if score < r.threshold {
			report.LowConfidence = append(report.LowConfidence, FieldScore{Field: field, Confidence: score})
		}
	}
	sort.SliceStable(report.LowConfidence, func(i, j int) bool {
		a, b := report.LowConfidence[i], report.LowConfidence[j]
		if a.Confidence != b.Confidence {
			return a.Confidence < b.Confidence
		}
		return a.Field.Name < b.Field.Name
	})

	report.FailedChecks = result.FailedChecks()
	report.Warnings = append(report.Warnings, result.Warnings...)

	// Out-of-range scores and unknown fields.
	malformed := result.Check()
	for _, err := range unjoin(malformed) {
		report.Warnings = append(report.Warnings, "Extraction is malformed: "+err.Error())
	}

	report.Amounts = r.checkAmounts(result, report)

	report.NeedsReview = len(report.LowConfidence) > 0 ||
		len(report.FailedChecks) > 0 ||
		report.Amounts.Mismatch != nil ||
		malformed != nil ||
		result.Confidence < r.threshold

	r.log.Debug().
		Str("filename", result.Filename).
		Float64("confidence", result.Confidence).
		Int("low_confidence", len(report.LowConfidence)).
		Int("failed_checks", len(report.FailedChecks)).
		Bool("needs_review", report.NeedsReview).
		Msg("OCR result reviewed")

	return report
}

// checkAmounts cross-validates net + tax = gross and fills in one missing
// total. An amount counts as missing when it is zero and the backend gave it no
// confidence score; a derived value of zero is never recorded.
func (r *Reconciler) checkAmounts(result *models.OCRResult, report *Report) AmountCheck {
	inv := &result.Extracted
	check := AmountCheck{
		Net:   inv.NetAmount,
		Tax:   inv.TaxAmount,
		Gross: inv.GrossAmount,
	}
	missing := func(name string, v decimal.Decimal) bool {
		_, scored := result.FieldConfidences[name]
		return v.IsZero() && !scored
	}

	switch {
	case missing("gross_amount", check.Gross) && !check.Net.IsZero():
		check.Gross = check.Net.Add(check.Tax)
		check.Derived = "gross_amount"
		report.Warnings = append(report.Warnings, "Gross amount calculated from Net + VAT")
	case missing("net_amount", check.Net) && !check.Tax.IsZero() && check.Gross.GreaterThan(check.Tax):
		check.Net = check.Gross.Sub(check.Tax)
		check.Derived = "net_amount"
		report.Warnings = append(report.Warnings, "Net amount calculated from Gross - VAT")
	case missing("tax_amount", check.Tax) && !check.Net.IsZero() &&
		check.Gross.Sub(check.Net).Abs().GreaterThan(models.AmountTolerance):
		check.Tax = check.Gross.Sub(check.Net)
		check.Derived = "tax_amount"
		report.Warnings = append(report.Warnings, "VAT amount calculated from Gross - Net")
	}

	if check.Derived != "" {
		r.log.Info().
			Str("derived", check.Derived).
			Str("net", check.Net.StringFixed(2)).
			Str("tax", check.Tax.StringFixed(2)).
			Str("gross", check.Gross.StringFixed(2)).
			Msg("Calculated missing amount")
		return check
	}

	diff := check.Gross.Sub(check.Net.Add(check.Tax))
	if diff.Abs().GreaterThan(models.AmountTolerance) {
		check.Mismatch = &diff
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"Amount calculation error: Net(%s) + VAT(%s) = %s, but Gross=%s (difference: %s)",
			check.Net.StringFixed(2), check.Tax.StringFixed(2),
			check.Net.Add(check.Tax).StringFixed(2), check.Gross.StringFixed(2),
			diff.Abs().StringFixed(2)))

		r.log.Warn().
			Str("net", check.Net.StringFixed(2)).
			Str("tax", check.Tax.StringFixed(2)).
			Str("gross", check.Gross.StringFixed(2)).
			Str("difference", diff.StringFixed(2)).
			Msg("Amount calculation discrepancy detected")
	}
	return check
}

// unjoin splits an errors.Join result into its parts.
func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// Apply writes derived totals back onto inv.
func (c AmountCheck) Apply(inv *models.Invoice) {
	inv.NetAmount = c.Net
	inv.TaxAmount = c.Tax
	inv.GrossAmount = c.Gross
}
