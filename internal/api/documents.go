package api

import (
	"context"
	"net/http"

	"einvoice/pkg/models"
)

// GenerationResult is returned by the XML/PDF generation endpoints.
type GenerationResult struct {
	InvoiceID         string                   `json:"invoice_id"`
	Message           string                   `json:"message,omitempty"`
	Status            models.ValidationStatus  `json:"validation_status,omitempty"`
	Validation        *models.ValidationResult `json:"validation,omitempty"`
	DownloadAvailable bool                     `json:"download_available"`
}

// GenerateXRechnung builds the XRechnung (UBL) XML for an invoice.
func (c *Client) GenerateXRechnung(ctx context.Context, id string) (*GenerationResult, error) {
	var result GenerationResult
	if err := c.doJSON(ctx, "GenerateXRechnung", http.MethodPost, invoicePath(id, "/generate-xrechnung"), nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DownloadXRechnung fetches the generated XRechnung XML.
func (c *Client) DownloadXRechnung(ctx context.Context, id string) (*Download, error) {
	return c.doDownload(ctx, "DownloadXRechnung", http.MethodGet, invoicePath(id, "/download-xrechnung"), nil, "xrechnung_"+id+".xml")
}

// GenerateZUGFeRD builds the hybrid PDF/A-3 with embedded XML.
func (c *Client) GenerateZUGFeRD(ctx context.Context, id string) (*GenerationResult, error) {
	var result GenerationResult
	if err := c.doJSON(ctx, "GenerateZUGFeRD", http.MethodPost, invoicePath(id, "/generate-zugferd"), nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DownloadZUGFeRD fetches the generated ZUGFeRD PDF.
func (c *Client) DownloadZUGFeRD(ctx context.Context, id string) (*Download, error) {
	return c.doDownload(ctx, "DownloadZUGFeRD", http.MethodGet, invoicePath(id, "/download-zugferd"), nil, "zugferd_"+id+".pdf")
}
