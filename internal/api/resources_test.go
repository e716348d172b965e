package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"einvoice/internal/api"
	"einvoice/pkg/models"
)

func TestListSuppliers_Search(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/suppliers", r.URL.Path)
		assert.Equal(t, "Müller", r.URL.Query().Get("search"))
		writeJSON(t, w, http.StatusOK, []map[string]any{
			{"id": "s1", "name": "Müller GmbH", "invoice_count": 3, "total_amount": "1190.00"},
		})
	})

	suppliers, err := client.ListSuppliers(context.Background(), "Müller")
	require.NoError(t, err)
	require.Len(t, suppliers, 1)
	assert.Equal(t, "Müller GmbH", suppliers[0].Name)
	assert.Equal(t, "1190", suppliers[0].TotalAmount.String())
}

func TestToggleRecurring(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/recurring/r-1/toggle", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{"id": "r-1", "active": false})
	})

	tmpl, err := client.ToggleRecurring(context.Background(), "r-1")
	require.NoError(t, err)
	assert.False(t, tmpl.Active)
}

func TestCreateCheckout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/billing/checkout", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "pro", body["plan"])
		writeJSON(t, w, http.StatusOK, map[string]any{"url": "https://checkout.example/s/1"})
	})

	session, err := client.CreateCheckout(context.Background(), models.CheckoutRequest{Plan: "pro"})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/s/1", session.URL)

	_, err = client.CreateCheckout(context.Background(), models.CheckoutRequest{})
	assert.ErrorIs(t, err, api.ErrBadRequest)
}

func TestTestWebhook(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/webhooks/wh-1/test", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{"success": false, "status_code": 502, "message": "Bad Gateway"})
	})

	result, err := client.TestWebhook(context.Background(), "wh-1")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 502, result.StatusCode)
}

func TestNotifications(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.RequestURI())
		mu.Unlock()
		if r.Method == http.MethodGet {
			writeJSON(t, w, http.StatusOK, []map[string]any{{"id": "n1", "title": "Rechnung überfällig", "read": false}})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	items, err := client.ListNotifications(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "n1", items[0].ID)

	require.NoError(t, client.MarkNotificationRead(context.Background(), "n1"))
	require.NoError(t, client.MarkAllNotificationsRead(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"GET /api/notifications?unread=true",
		"POST /api/notifications/n1/read",
		"POST /api/notifications/read-all",
	}, paths)
}

func TestAnalyticsSummary_Range(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/analytics/summary", r.URL.Path)
		assert.Equal(t, "2025-01-01", r.URL.Query().Get("from"))
		assert.Empty(t, r.URL.Query().Get("to"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"total_invoices":       4,
			"total_gross":          "476.00",
			"by_validation_status": map[string]int{"valid": 3, "invalid": 1},
		})
	})

	from, err := parseDate("2025-01-01")
	require.NoError(t, err)
	summary, err := client.AnalyticsSummary(context.Background(), models.DateRange{From: from})
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalInvoices)
	assert.Equal(t, 1, summary.ByValidation[models.StatusInvalid])
}

func TestAuditLog_Query(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/api/audit-log", r.URL.Path)
		assert.Equal(t, "3", q.Get("page"))
		assert.Equal(t, "invoice.delete", q.Get("action"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"items": []map[string]any{{"id": "a1", "action": "invoice.delete"}},
			"total": 41, "page": 3, "page_size": 20,
		})
	})

	page, err := client.AuditLog(context.Background(), 3, 20, "invoice.delete")
	require.NoError(t, err)
	assert.Equal(t, 41, page.Total)
	require.Len(t, page.Items, 1)
}
