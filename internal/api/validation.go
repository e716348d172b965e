package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"einvoice/pkg/models"
)

// ValidateInvoice runs the backend's XRechnung validation for a stored
// invoice. The backend may pre-generate the XML as a side effect; the result
// says so in XRechnungAvailable.
func (c *Client) ValidateInvoice(ctx context.Context, id string) (*models.ValidationResult, error) {
	const op = "ValidateInvoice"

	var result models.ValidationResult
	if err := c.doJSON(ctx, op, http.MethodPost, invoicePath(id, "/validate"), nil, nil, &result); err != nil {
		return nil, err
	}
	if result.InvoiceID == "" {
		result.InvoiceID = id
	}
	return checkReport(op, &result)
}

// ValidateXML validates raw XRechnung/ZUGFeRD XML without storing it.
func (c *Client) ValidateXML(ctx context.Context, xml string) (*models.ValidationResult, error) {
	const op = "ValidateXML"

	if strings.TrimSpace(xml) == "" {
		return nil, &APIError{Op: op, Err: fmt.Errorf("%w: empty XML document", ErrBadRequest)}
	}

	var result models.ValidationResult
	body := models.XMLValidationRequest{XMLContent: xml}
	if err := c.doJSON(ctx, op, http.MethodPost, "/validate-xml", nil, body, &result); err != nil {
		return nil, err
	}
	return checkReport(op, &result)
}

// checkReport rejects reports whose counts and verdict disagree.
func checkReport(op string, result *models.ValidationResult) (*models.ValidationResult, error) {
	if err := result.Check(); err != nil {
		return nil, &APIError{Op: op, StatusCode: http.StatusOK, Err: err}
	}
	return result, nil
}
