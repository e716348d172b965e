package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"einvoice/internal/api"
	"einvoice/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInvoice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/invoices/inv-1/validate", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"is_valid":    false,
			"error_count": 1,
			"errors": []map[string]any{
				{"code": "BR-DE-15", "message": "Buyer reference (BT-10) is missing", "location": "/Invoice/cbc:BuyerReference"},
			},
			"warnings":            []any{},
			"validator":           "kosit",
			"xrechnung_available": true,
		})
	})

	result, err := client.ValidateInvoice(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, "inv-1", result.InvoiceID)
	assert.Equal(t, models.ValidatorKoSIT, result.Validator)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "BR-DE-15", result.Errors[0].Code)

	inv := models.Invoice{ID: "inv-1", ValidationStatus: models.StatusPending}
	inv.ApplyValidation(result)
	assert.Equal(t, models.StatusInvalid, inv.ValidationStatus)
	assert.True(t, inv.XRechnungAvailable)
}

func TestValidateInvoice_InconsistentReport(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"is_valid":    true,
			"error_count": 2,
			"errors":      []any{},
			"validator":   "local",
		})
	})

	_, err := client.ValidateInvoice(context.Background(), "inv-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInconsistentReport)
}

func TestValidateXML(t *testing.T) {
	const doc = `<?xml version="1.0"?><Invoice/>`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/validate-xml", r.URL.Path)
		var body models.XMLValidationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, doc, body.XMLContent)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"is_valid":    true,
			"error_count": 0,
			"errors":      []any{},
			"warnings":    []map[string]any{{"code": "W1", "message": "Optional field empty"}},
			"validator":   "local",
		})
	})

	result, err := client.ValidateXML(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Len(t, result.Warnings, 1)

	_, err = client.ValidateXML(context.Background(), "   ")
	assert.ErrorIs(t, err, api.ErrBadRequest)
}
