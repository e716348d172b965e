package models

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownField marks a confidence entry for a field the invoice model does not have.
var ErrUnknownField = errors.New("unknown invoice field")

// Field is a recognized invoice field together with its EN 16931 business term.
type Field struct {
	Name   string `json:"name"`
	BTCode string `json:"bt_code"`
	Label  string `json:"label"`
}

var recognizedFields = []Field{
	{"invoice_number", "BT-1", "Invoice number"},
	{"invoice_date", "BT-2", "Issue date"},
	{"currency", "BT-5", "Currency"},
	{"due_date", "BT-9", "Due date"},
	{"buyer_reference", "BT-10", "Buyer reference"},
	{"order_reference", "BT-13", "Purchase order reference"},
	{"payment_terms", "BT-20", "Payment terms"},
	{"seller_name", "BT-27", "Seller name"},
	{"seller_vat_id", "BT-31", "Seller VAT ID"},
	{"seller_address", "BT-35", "Seller address"},
	{"buyer_name", "BT-44", "Buyer name"},
	{"buyer_vat_id", "BT-48", "Buyer VAT ID"},
	{"buyer_address", "BT-50", "Buyer address"},
	{"iban", "BT-84", "IBAN"},
	{"bic", "BT-86", "BIC"},
	{"net_amount", "BT-109", "Net total"},
	{"tax_amount", "BT-110", "VAT total"},
	{"gross_amount", "BT-112", "Gross total"},
	{"tax_rate", "BT-119", "VAT rate"},
	{"line_items", "BG-25", "Line items"},
}

var fieldsByName = func() map[string]Field {
	m := make(map[string]Field, len(recognizedFields))
	for _, f := range recognizedFields {
		m[f.Name] = f
	}
	return m
}()

// LookupField returns the field definition for name.
func LookupField(name string) (Field, bool) {
	f, ok := fieldsByName[name]
	return f, ok
}

// RecognizedFields returns all fields in BT order.
func RecognizedFields() []Field {
	out := make([]Field, len(recognizedFields))
	copy(out, recognizedFields)
	return out
}

// ConsistencyCheck is a named pass/fail check computed by the backend.
type ConsistencyCheck struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

// OCRResult is the extraction returned by the OCR endpoints.
type OCRResult struct {
	InvoiceID         string             `json:"invoice_id,omitempty"`
	Filename          string             `json:"filename,omitempty"`
	Confidence        float64            `json:"confidence"`
	FieldConfidences  map[string]float64 `json:"field_confidences"`
	Extracted         Invoice            `json:"extracted_data"`
	ConsistencyChecks []ConsistencyCheck `json:"consistency_checks"`
	PageCount         int                `json:"page_count,omitempty"`
	ProcessingTimeMS  int64              `json:"processing_time_ms,omitempty"`
	Warnings          []string           `json:"warnings,omitempty"`
}

// Check verifies score ranges and that every scored field is recognized.
func (r *OCRResult) Check() error {
	var errs []error
	if r.Confidence < 0 || r.Confidence > 100 {
		errs = append(errs, fmt.Errorf("overall confidence %.1f outside 0-100", r.Confidence))
	}
	for _, name := range r.ScoredFields() {
		score := r.FieldConfidences[name]
		if _, ok := fieldsByName[name]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownField, name))
			continue
		}
		if score < 0 || score > 100 {
			errs = append(errs, fmt.Errorf("confidence for %s is %.1f, outside 0-100", name, score))
		}
	}
	return errors.Join(errs...)
}

// ScoredFields returns the keys of FieldConfidences in sorted order.
func (r *OCRResult) ScoredFields() []string {
	names := make([]string, 0, len(r.FieldConfidences))
	for name := range r.FieldConfidences {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FailedChecks returns the consistency checks that did not pass.
func (r *OCRResult) FailedChecks() []ConsistencyCheck {
	var failed []ConsistencyCheck
	for _, c := range r.ConsistencyChecks {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}

// BatchOCRResult is the response of the batch OCR endpoint.
type BatchOCRResult struct {
	Results []OCRResult      `json:"results"`
	Errors  []BatchFileError `json:"errors,omitempty"`
}

// BatchFileError reports a file the backend could not process.
type BatchFileError struct {
	Filename string `json:"filename"`
	Detail   string `json:"detail"`
}
