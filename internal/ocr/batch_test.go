package ocr_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"einvoice/internal/api"
	"einvoice/internal/ocr"
	"einvoice/internal/review"
	"einvoice/pkg/models"
)

type fakeUploader struct {
	mu     sync.Mutex
	calls  []string
	fail   map[string]error
	conf   map[string]float64
	scores map[string]map[string]float64
}

func (f *fakeUploader) UploadOCR(_ context.Context, file api.File) (*models.OCRResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, file.Name)
	f.mu.Unlock()

	if err := f.fail[file.Name]; err != nil {
		return nil, err
	}
	confidence := 95.0
	if c, ok := f.conf[file.Name]; ok {
		confidence = c
	}
	return &models.OCRResult{
		Filename:         file.Name,
		Confidence:       confidence,
		FieldConfidences: f.scores[file.Name],
		Extracted: models.Invoice{
			NetAmount:   decimal.NewFromInt(100),
			TaxAmount:   decimal.NewFromInt(19),
			GrossAmount: decimal.NewFromInt(119),
		},
	}, nil
}

func TestBatch_RunKeepsOrderAndIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "1.pdf", pdfData),
		writeFile(t, dir, "2.pdf", []byte("garbage")),
		writeFile(t, dir, "3.png", pngData),
		writeFile(t, dir, "4.jpg", jpegData),
		writeFile(t, dir, "5.pdf", pdfData),
	}
	uploader := &fakeUploader{
		fail: map[string]error{"4.jpg": api.ErrServer},
		conf: map[string]float64{"5.pdf": 40},
	}

	var (
		mu       sync.Mutex
		progress []int
	)
	batch := ocr.NewBatch(uploader, review.NewReconciler(80), 3, func(done, total int, _ ocr.BatchResult) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 5, total)
		progress = append(progress, done)
	})

	results := batch.Run(context.Background(), paths)

	require.Len(t, results, 5)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, paths[i], r.Path)
	}
	assert.Equal(t, ocr.StatusSuccess, results[0].Status)
	assert.Equal(t, ocr.StatusError, results[1].Status)
	assert.ErrorIs(t, results[1].Err, ocr.ErrUnsupportedFormat)
	assert.Equal(t, ocr.StatusSuccess, results[2].Status)
	assert.Equal(t, ocr.StatusError, results[3].Status)
	assert.True(t, errors.Is(results[3].Err, api.ErrServer))
	assert.Equal(t, ocr.StatusWarning, results[4].Status)
	require.NotNil(t, results[4].Review)
	assert.True(t, results[4].Review.NeedsReview)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, progress)
	assert.Len(t, uploader.calls, 4)
	assert.Equal(t, map[ocr.Status]int{ocr.StatusSuccess: 2, ocr.StatusWarning: 1, ocr.StatusError: 2}, ocr.Counts(results))
	assert.Equal(t, "5.pdf", results[4].Filename())
}

func TestBatch_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeFile(t, dir, "1.pdf", pdfData), writeFile(t, dir, "2.pdf", pdfData)}
	uploader := &fakeUploader{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := ocr.NewBatch(uploader, nil, 0, nil).Run(ctx, paths)

	for _, r := range results {
		assert.Equal(t, ocr.StatusError, r.Status)
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
	assert.Empty(t, uploader.calls)
}

func TestBatchResult_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(ocr.BatchResult{Path: "/in/a.pdf", Status: ocr.StatusError, Err: errors.New("file is empty")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":"/in/a.pdf","status":"error","error":"file is empty"}`, string(data))
}

func TestBatch_MalformedResultNeedsReview(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeFile(t, dir, "a.pdf", pdfData), writeFile(t, dir, "b.pdf", pdfData)}
	uploader := &fakeUploader{
		scores: map[string]map[string]float64{
			"a.pdf": {"shoe_size": 99},
			"b.pdf": {"invoice_number": -5},
		},
	}

	results := ocr.NewBatch(uploader, nil, 2, nil).Run(context.Background(), paths)

	for _, r := range results {
		assert.Equal(t, ocr.StatusWarning, r.Status, r.Path)
		require.NotNil(t, r.Review)
		assert.NotEmpty(t, r.Review.Warnings)
	}
}
