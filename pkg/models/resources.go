package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the authenticated account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Company   string    `json:"company_name,omitempty"`
	Plan      string    `json:"plan,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
}

// PaymentStatusUpdate is the body of PATCH /invoices/{id}/payment-status.
type PaymentStatusUpdate struct {
	PaymentStatus PaymentStatus    `json:"payment_status"`
	PaidAmount    *decimal.Decimal `json:"paid_amount,omitempty"`
	PaidAt        *Date            `json:"paid_at,omitempty"`
}

type Supplier struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	VATID        string          `json:"vat_id,omitempty"`
	Address      string          `json:"address,omitempty"`
	Email        string          `json:"email,omitempty"`
	IBAN         string          `json:"iban,omitempty"`
	InvoiceCount int             `json:"invoice_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	CreatedAt    time.Time       `json:"created_at"`
}

type SupplierInput struct {
	Name    string `json:"name"`
	VATID   string `json:"vat_id,omitempty"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty"`
	IBAN    string `json:"iban,omitempty"`
}

type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Type      string    `json:"type,omitempty"` // customer or supplier
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Type    string `json:"type,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// RecurringTemplate generates an invoice on a fixed schedule.
type RecurringTemplate struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Frequency   string          `json:"frequency"` // monthly, quarterly, yearly
	NextDate    *Date           `json:"next_date,omitempty"`
	Active      bool            `json:"active"`
	BuyerName   string          `json:"buyer_name"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Currency    string          `json:"currency"`
	Description string          `json:"description,omitempty"`
}

type RecurringInput struct {
	Name        string          `json:"name"`
	Frequency   string          `json:"frequency"`
	StartDate   *Date           `json:"start_date,omitempty"`
	BuyerName   string          `json:"buyer_name"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Currency    string          `json:"currency,omitempty"`
	Description string          `json:"description,omitempty"`
}

// InvoiceTemplate is a saved layout/default set for new invoices.
type InvoiceTemplate struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}

type TemplateInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsDefault   bool   `json:"is_default,omitempty"`
}

type APIKey struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Prefix     string     `json:"prefix"`
	Scopes     []string   `json:"scopes,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CreatedAPIKey carries the secret, which the backend returns only once.
type CreatedAPIKey struct {
	APIKey
	Key string `json:"key"`
}

type APIKeyInput struct {
	Name   string   `json:"name"`
	Scopes []string `json:"scopes,omitempty"`
}

type AuditLogEntry struct {
	ID           string         `json:"id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type,omitempty"`
	ResourceID   string         `json:"resource_id,omitempty"`
	UserEmail    string         `json:"user_email,omitempty"`
	IPAddress    string         `json:"ip_address,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

type Webhook struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Events    []string  `json:"events"`
	Active    bool      `json:"active"`
	Secret    string    `json:"secret,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type WebhookInput struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
}

// WebhookTestResult is the outcome of a test delivery.
type WebhookTestResult struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message,omitempty"`
}

type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Subscription struct {
	Plan             string     `json:"plan"`
	Status           string     `json:"status"`
	InvoicesUsed     int        `json:"invoices_used"`
	InvoiceLimit     int        `json:"invoice_limit"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
	CancelAtEnd      bool       `json:"cancel_at_period_end"`
}

type CheckoutRequest struct {
	Plan       string `json:"plan"`
	SuccessURL string `json:"success_url,omitempty"`
	CancelURL  string `json:"cancel_url,omitempty"`
}

// CheckoutSession and PortalSession point at hosted Stripe pages.
type CheckoutSession struct {
	SessionID string `json:"session_id,omitempty"`
	URL       string `json:"url"`
}

type PortalSession struct {
	URL string `json:"url"`
}

type AnalyticsSummary struct {
	TotalInvoices   int                      `json:"total_invoices"`
	TotalNet        decimal.Decimal          `json:"total_net"`
	TotalTax        decimal.Decimal          `json:"total_tax"`
	TotalGross      decimal.Decimal          `json:"total_gross"`
	ByValidation    map[ValidationStatus]int `json:"by_validation_status"`
	ByPayment       map[PaymentStatus]int    `json:"by_payment_status"`
	OverdueAmount   decimal.Decimal          `json:"overdue_amount"`
	AverageOCRScore float64                  `json:"average_ocr_confidence"`
	TopSuppliers    []SupplierTotal          `json:"top_suppliers,omitempty"`
	MonthlyRevenue  []MonthlyAmount          `json:"monthly_revenue,omitempty"`
	PeriodFrom      *Date                    `json:"period_from,omitempty"`
	PeriodTo        *Date                    `json:"period_to,omitempty"`
}

type SupplierTotal struct {
	Name   string          `json:"name"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type MonthlyAmount struct {
	Month  string          `json:"month"` // YYYY-MM
	Amount decimal.Decimal `json:"amount"`
}

// DateRange bounds analytics and export queries. Nil ends are open.
type DateRange struct {
	From *Date
	To   *Date
}

// DATEVFormat selects the export layout.
type DATEVFormat string

const (
	DATEVFormatCSV   DATEVFormat = "csv"
	DATEVFormatEXTF  DATEVFormat = "extf"
	DATEVFormatASCII DATEVFormat = "ascii"
)

type DATEVExportOptions struct {
	DateRange
	Format          DATEVFormat
	ChartOfAccounts string // SKR03 or SKR04
}
