package api_test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"einvoice/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pdfBytes = []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n")

func TestUploadOCR_Multipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ocr/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "scan.pdf", header.Filename)
		assert.Equal(t, pdfBytes, data)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))

		writeJSON(t, w, http.StatusOK, map[string]any{
			"invoice_id":        "inv-7",
			"confidence":        91.5,
			"field_confidences": map[string]float64{"invoice_number": 99, "gross_amount": 72},
			"extracted_data":    map[string]any{"invoice_number": "A-1", "gross_amount": 119},
			"consistency_checks": []map[string]any{
				{"name": "net+tax=gross", "passed": true},
			},
		})
	})

	result, err := client.UploadOCR(context.Background(), api.File{Name: "scan.pdf", Data: pdfBytes})
	require.NoError(t, err)
	assert.Equal(t, "inv-7", result.InvoiceID)
	assert.Equal(t, "scan.pdf", result.Filename)
	assert.InDelta(t, 91.5, result.Confidence, 0.001)
	assert.Equal(t, "A-1", result.Extracted.InvoiceNumber)
	assert.NoError(t, result.Check())
}

func TestUploadOCR_FilenameRoundTrip(t *testing.T) {
	names := []string{`Rechnung "Mai".pdf`, `back\slash.pdf`, "Müller & Söhne.pdf"}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, r.ParseMultipartForm(1<<20))
				_, header, err := r.FormFile("file")
				require.NoError(t, err)
				assert.Equal(t, name, header.Filename)
				writeJSON(t, w, http.StatusOK, map[string]any{"confidence": 90})
			})

			result, err := client.UploadOCR(context.Background(), api.File{Name: name, Data: pdfBytes})
			require.NoError(t, err)
			assert.Equal(t, name, result.Filename)
		})
	}
}

func TestUploadOCRBatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Len(t, r.MultipartForm.File["files"], 2)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"results": []map[string]any{{"filename": "a.pdf", "confidence": 80}},
			"errors":  []map[string]any{{"filename": "b.pdf", "detail": "unreadable"}},
		})
	})

	result, err := client.UploadOCRBatch(context.Background(), []api.File{
		{Name: "a.pdf", Data: pdfBytes},
		{Name: "b.pdf", Data: pdfBytes},
	})
	require.NoError(t, err)
	assert.Len(t, result.Results, 1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "unreadable", result.Errors[0].Detail)

	_, err = client.UploadOCRBatch(context.Background(), nil)
	assert.ErrorIs(t, err, api.ErrBadRequest)
}

func TestDownloadXRechnung_Filename(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/invoices/inv-3/download-xrechnung", r.URL.Path)
		w.Header().Set("Content-Type", "application/xml")
		w.Header().Set("Content-Disposition", `attachment; filename="RE-2024-003.xml"`)
		_, _ = io.WriteString(w, "<Invoice/>")
	})

	dl, err := client.DownloadXRechnung(context.Background(), "inv-3")
	require.NoError(t, err)
	assert.Equal(t, "RE-2024-003.xml", dl.Filename)
	assert.Equal(t, "application/xml", dl.ContentType)
	assert.Equal(t, "<Invoice/>", string(dl.Data))
}

func TestDownloadZUGFeRD_FallbackFilename(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdfBytes)
	})

	dl, err := client.DownloadZUGFeRD(context.Background(), "inv-4")
	require.NoError(t, err)
	assert.Equal(t, "zugferd_inv-4.pdf", dl.Filename)
}

func TestExportDATEV_Query(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/api/export/datev", r.URL.Path)
		assert.Equal(t, "extf", q.Get("format"))
		assert.Equal(t, "SKR04", q.Get("skr"))
		assert.Equal(t, "2024-01-01", q.Get("from"))
		assert.Empty(t, q.Get("to"))
		_, _ = io.WriteString(w, "EXTF;700;21")
	})

	from, err := parseDate("2024-01-01")
	require.NoError(t, err)
	dl, err := client.ExportDATEV(context.Background(), datevOptions(from))
	require.NoError(t, err)
	assert.Equal(t, "datev_export.extf", dl.Filename)
	assert.Equal(t, "EXTF;700;21", string(dl.Data))
}
