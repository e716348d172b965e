package models

import (
	"errors"
	"fmt"
	"time"
)

// Validator names the rule engine that produced a report.
type Validator string

const (
	ValidatorKoSIT Validator = "kosit"
	ValidatorLocal Validator = "local"
)

// ErrInconsistentReport marks a validation report that contradicts itself.
var ErrInconsistentReport = errors.New("inconsistent validation report")

// ValidationIssue is a single rule violation or warning.
type ValidationIssue struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
}

// ValidationResult is the report returned by the validation endpoints.
type ValidationResult struct {
	InvoiceID          string            `json:"invoice_id,omitempty"`
	IsValid            bool              `json:"is_valid"`
	Errors             []ValidationIssue `json:"errors"`
	Warnings           []ValidationIssue `json:"warnings"`
	ErrorCount         int               `json:"error_count"`
	WarningCount       *int              `json:"warning_count,omitempty"`
	Validator          Validator         `json:"validator"`
	Profile            string            `json:"profile,omitempty"`
	ValidatedAt        *time.Time        `json:"validated_at,omitempty"`
	XRechnungAvailable bool              `json:"xrechnung_available,omitempty"`
}

// Check verifies the report's internal invariants.
func (r *ValidationResult) Check() error {
	if r.ErrorCount != len(r.Errors) {
		return fmt.Errorf("%w: error_count %d but %d errors listed", ErrInconsistentReport, r.ErrorCount, len(r.Errors))
	}
	if r.WarningCount != nil && *r.WarningCount != len(r.Warnings) {
		return fmt.Errorf("%w: warning_count %d but %d warnings listed", ErrInconsistentReport, *r.WarningCount, len(r.Warnings))
	}
	if r.IsValid != (r.ErrorCount == 0) {
		return fmt.Errorf("%w: is_valid=%t with %d errors", ErrInconsistentReport, r.IsValid, r.ErrorCount)
	}
	switch r.Validator {
	case ValidatorKoSIT, ValidatorLocal, "":
	default:
		return fmt.Errorf("%w: unknown validator %q", ErrInconsistentReport, r.Validator)
	}
	return nil
}

// ValidatorName is the display name of the rule engine.
func (r *ValidationResult) ValidatorName() string {
	switch r.Validator {
	case ValidatorKoSIT:
		return "KoSIT validator"
	case ValidatorLocal:
		return "local rules"
	default:
		return "unknown"
	}
}

// XMLValidationRequest is the body of POST /validate-xml.
type XMLValidationRequest struct {
	XMLContent string `json:"xml_content"`
}
