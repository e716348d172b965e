package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend sends amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// AmountTolerance is the largest accepted difference between gross and net+tax.
var AmountTolerance = decimal.New(2, -2)

// DefaultCurrency is assumed when an invoice carries no currency code.
const DefaultCurrency = "EUR"

// Source records how an invoice entered the system.
type Source string

const (
	SourceManual    Source = "manual"
	SourceOCR       Source = "ocr"
	SourceXMLImport Source = "xml_import"
)

type Invoice struct {
	// Core identifiers
	ID            string `json:"invoice_id"`                // Server-assigned identifier
	InvoiceNumber string `json:"invoice_number"`            // BT-1
	Source        Source `json:"source,omitempty"`          // manual, ocr or xml_import
	BuyerRef      string `json:"buyer_reference,omitempty"` // BT-10 (Leitweg-ID for public buyers)
	OrderRef      string `json:"order_reference,omitempty"` // BT-13

	// Parties
	SellerName    string `json:"seller_name"`
	SellerVATID   string `json:"seller_vat_id,omitempty"`
	SellerAddress string `json:"seller_address,omitempty"`
	BuyerName     string `json:"buyer_name"`
	BuyerVATID    string `json:"buyer_vat_id,omitempty"`
	BuyerAddress  string `json:"buyer_address,omitempty"`

	// Dates
	InvoiceDate *Date `json:"invoice_date,omitempty"` // BT-2
	DueDate     *Date `json:"due_date,omitempty"`     // BT-9

	// Amounts
	NetAmount   decimal.Decimal  `json:"net_amount"`         // BT-109
	TaxAmount   decimal.Decimal  `json:"tax_amount"`         // BT-110
	GrossAmount decimal.Decimal  `json:"gross_amount"`       // BT-112
	TaxRate     *decimal.Decimal `json:"tax_rate,omitempty"` // BT-119
	Currency    string           `json:"currency"`           // BT-5

	// Payment
	IBAN         string `json:"iban,omitempty"`
	BIC          string `json:"bic,omitempty"`
	PaymentTerms string `json:"payment_terms,omitempty"`

	LineItems []LineItem `json:"line_items,omitempty"`

	// Status
	ValidationStatus   ValidationStatus `json:"validation_status"`
	PaymentStatus      PaymentStatus    `json:"payment_status"`
	XRechnungAvailable bool             `json:"xrechnung_available"`
	ZUGFeRDAvailable   bool             `json:"zugferd_available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LineItem is one invoice position (BG-25).
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// CurrencyCode returns the invoice currency, falling back to EUR.
func (inv *Invoice) CurrencyCode() string {
	if inv.Currency == "" {
		return DefaultCurrency
	}
	return inv.Currency
}

// AmountMismatch returns gross - (net + tax).
func (inv *Invoice) AmountMismatch() decimal.Decimal {
	return inv.GrossAmount.Sub(inv.NetAmount.Add(inv.TaxAmount))
}

// CheckAmounts reports whether gross equals net plus tax within AmountTolerance.
func (inv *Invoice) CheckAmounts() error {
	diff := inv.AmountMismatch()
	if diff.Abs().GreaterThan(AmountTolerance) {
		return &AmountError{
			Net:        inv.NetAmount,
			Tax:        inv.TaxAmount,
			Gross:      inv.GrossAmount,
			Difference: diff,
		}
	}
	return nil
}

// ApplyValidation records a validation outcome on the local snapshot.
// Generating XML is the only side effect the backend performs during validation.
func (inv *Invoice) ApplyValidation(result *ValidationResult) {
	if result == nil {
		return
	}
	if result.IsValid {
		inv.ValidationStatus = StatusValid
	} else {
		inv.ValidationStatus = StatusInvalid
	}
	if result.XRechnungAvailable {
		inv.XRechnungAvailable = true
	}
}

// AmountError describes a broken net + tax = gross relation.
type AmountError struct {
	Net        decimal.Decimal
	Tax        decimal.Decimal
	Gross      decimal.Decimal
	Difference decimal.Decimal
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("net (%s) + tax (%s) does not match gross (%s): difference %s",
		e.Net.StringFixed(2), e.Tax.StringFixed(2), e.Gross.StringFixed(2), e.Difference.StringFixed(2))
}

// InvoiceInput is the payload for creating or updating an invoice.
type InvoiceInput struct {
	InvoiceNumber string           `json:"invoice_number"`
	InvoiceDate   *Date            `json:"invoice_date,omitempty"`
	DueDate       *Date            `json:"due_date,omitempty"`
	SellerName    string           `json:"seller_name"`
	SellerVATID   string           `json:"seller_vat_id,omitempty"`
	SellerAddress string           `json:"seller_address,omitempty"`
	BuyerName     string           `json:"buyer_name"`
	BuyerVATID    string           `json:"buyer_vat_id,omitempty"`
	BuyerAddress  string           `json:"buyer_address,omitempty"`
	BuyerRef      string           `json:"buyer_reference,omitempty"`
	NetAmount     decimal.Decimal  `json:"net_amount"`
	TaxAmount     decimal.Decimal  `json:"tax_amount"`
	GrossAmount   decimal.Decimal  `json:"gross_amount"`
	TaxRate       *decimal.Decimal `json:"tax_rate,omitempty"`
	Currency      string           `json:"currency,omitempty"`
	IBAN          string           `json:"iban,omitempty"`
	BIC           string           `json:"bic,omitempty"`
	PaymentTerms  string           `json:"payment_terms,omitempty"`
	LineItems     []LineItem       `json:"line_items,omitempty"`
}

// Validate performs the checks the entry form does before submitting.
func (in *InvoiceInput) Validate() error {
	if in.InvoiceNumber == "" {
		return fmt.Errorf("invoice_number is required")
	}
	if in.SellerName == "" {
		return fmt.Errorf("seller_name is required")
	}
	if in.BuyerName == "" {
		return fmt.Errorf("buyer_name is required")
	}
	if in.GrossAmount.IsZero() {
		in.GrossAmount = in.NetAmount.Add(in.TaxAmount)
	}
	probe := Invoice{NetAmount: in.NetAmount, TaxAmount: in.TaxAmount, GrossAmount: in.GrossAmount}
	return probe.CheckAmounts()
}

// InvoiceFilter holds list query parameters.
type InvoiceFilter struct {
	Page             int
	PageSize         int
	ValidationStatus ValidationStatus
	PaymentStatus    PaymentStatus
	Search           string
	Sort             string
}

// Page is the backend's paginated list envelope.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// BulkDeleteResult reports what a bulk delete removed.
type BulkDeleteResult struct {
	Deleted int      `json:"deleted"`
	Failed  []string `json:"failed,omitempty"`
}
