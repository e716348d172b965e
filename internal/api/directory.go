package api

import (
	"context"
	"net/http"
	"net/url"

	"einvoice/pkg/models"
)

func searchQuery(search string) url.Values {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	return q
}

// ListSuppliers returns suppliers, optionally filtered by a search term.
func (c *Client) ListSuppliers(ctx context.Context, search string) ([]models.Supplier, error) {
	return list[models.Supplier](ctx, c, "ListSuppliers", "/suppliers", searchQuery(search))
}

func (c *Client) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	return call[models.Supplier](ctx, c, "GetSupplier", http.MethodGet, "/suppliers/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CreateSupplier(ctx context.Context, in models.SupplierInput) (*models.Supplier, error) {
	return call[models.Supplier](ctx, c, "CreateSupplier", http.MethodPost, "/suppliers", nil, in)
}

func (c *Client) UpdateSupplier(ctx context.Context, id string, in models.SupplierInput) (*models.Supplier, error) {
	return call[models.Supplier](ctx, c, "UpdateSupplier", http.MethodPut, "/suppliers/"+url.PathEscape(id), nil, in)
}

func (c *Client) DeleteSupplier(ctx context.Context, id string) error {
	return c.doJSON(ctx, "DeleteSupplier", http.MethodDelete, "/suppliers/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ListContacts(ctx context.Context) ([]models.Contact, error) {
	return list[models.Contact](ctx, c, "ListContacts", "/contacts", nil)
}

func (c *Client) CreateContact(ctx context.Context, in models.ContactInput) (*models.Contact, error) {
	return call[models.Contact](ctx, c, "CreateContact", http.MethodPost, "/contacts", nil, in)
}

func (c *Client) UpdateContact(ctx context.Context, id string, in models.ContactInput) (*models.Contact, error) {
	return call[models.Contact](ctx, c, "UpdateContact", http.MethodPut, "/contacts/"+url.PathEscape(id), nil, in)
}

func (c *Client) DeleteContact(ctx context.Context, id string) error {
	return c.doJSON(ctx, "DeleteContact", http.MethodDelete, "/contacts/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ListRecurring(ctx context.Context) ([]models.RecurringTemplate, error) {
	return list[models.RecurringTemplate](ctx, c, "ListRecurring", "/recurring", nil)
}

func (c *Client) CreateRecurring(ctx context.Context, in models.RecurringInput) (*models.RecurringTemplate, error) {
	return call[models.RecurringTemplate](ctx, c, "CreateRecurring", http.MethodPost, "/recurring", nil, in)
}

// ToggleRecurring pauses an active schedule or resumes a paused one.
func (c *Client) ToggleRecurring(ctx context.Context, id string) (*models.RecurringTemplate, error) {
	return call[models.RecurringTemplate](ctx, c, "ToggleRecurring", http.MethodPost, "/recurring/"+url.PathEscape(id)+"/toggle", nil, nil)
}

func (c *Client) DeleteRecurring(ctx context.Context, id string) error {
	return c.doJSON(ctx, "DeleteRecurring", http.MethodDelete, "/recurring/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ListTemplates(ctx context.Context) ([]models.InvoiceTemplate, error) {
	return list[models.InvoiceTemplate](ctx, c, "ListTemplates", "/templates", nil)
}

func (c *Client) CreateTemplate(ctx context.Context, in models.TemplateInput) (*models.InvoiceTemplate, error) {
	return call[models.InvoiceTemplate](ctx, c, "CreateTemplate", http.MethodPost, "/templates", nil, in)
}

func (c *Client) DeleteTemplate(ctx context.Context, id string) error {
	return c.doJSON(ctx, "DeleteTemplate", http.MethodDelete, "/templates/"+url.PathEscape(id), nil, nil, nil)
}
