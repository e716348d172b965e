package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"einvoice/pkg/models"
)

func invoicePath(id string, suffix string) string {
	return "/invoices/" + url.PathEscape(id) + suffix
}

// ListInvoices returns one page of invoices matching filter.
func (c *Client) ListInvoices(ctx context.Context, filter models.InvoiceFilter) (*models.Page[models.Invoice], error) {
	q := pageQuery(filter.Page, filter.PageSize)
	if filter.ValidationStatus != "" {
		q.Set("status", string(filter.ValidationStatus))
	}
	if filter.PaymentStatus != "" {
		q.Set("payment_status", string(filter.PaymentStatus))
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Sort != "" {
		q.Set("sort", filter.Sort)
	}

	var page models.Page[models.Invoice]
	if err := c.doJSON(ctx, "ListInvoices", http.MethodGet, "/invoices", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetInvoice fetches a single invoice.
func (c *Client) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	var inv models.Invoice
	if err := c.doJSON(ctx, "GetInvoice", http.MethodGet, invoicePath(id, ""), nil, nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// CreateInvoice creates an invoice from manual entry.
func (c *Client) CreateInvoice(ctx context.Context, in models.InvoiceInput) (*models.Invoice, error) {
	var inv models.Invoice
	if err := c.doJSON(ctx, "CreateInvoice", http.MethodPost, "/invoices", nil, in, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// UpdateInvoice replaces the editable fields of an invoice.
func (c *Client) UpdateInvoice(ctx context.Context, id string, in models.InvoiceInput) (*models.Invoice, error) {
	var inv models.Invoice
	if err := c.doJSON(ctx, "UpdateInvoice", http.MethodPut, invoicePath(id, ""), nil, in, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// UpdatePaymentStatus sets the payment status of an invoice.
func (c *Client) UpdatePaymentStatus(ctx context.Context, id string, update models.PaymentStatusUpdate) (*models.Invoice, error) {
	const op = "UpdatePaymentStatus"
	if !update.PaymentStatus.Known() {
		return nil, &APIError{Op: op, Err: fmt.Errorf("%w: unknown payment status %q", ErrBadRequest, update.PaymentStatus)}
	}
	var inv models.Invoice
	if err := c.doJSON(ctx, op, http.MethodPatch, invoicePath(id, "/payment-status"), nil, update, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// DeleteInvoice permanently removes an invoice.
func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	return c.doJSON(ctx, "DeleteInvoice", http.MethodDelete, invoicePath(id, ""), nil, nil, nil)
}

// BulkDeleteInvoices removes several invoices in one call.
func (c *Client) BulkDeleteInvoices(ctx context.Context, ids []string) (*models.BulkDeleteResult, error) {
	body := struct {
		InvoiceIDs []string `json:"invoice_ids"`
	}{InvoiceIDs: ids}

	var result models.BulkDeleteResult
	if err := c.doJSON(ctx, "BulkDeleteInvoices", http.MethodPost, "/invoices/bulk-delete", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
