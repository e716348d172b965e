package ocr

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"

	"einvoice/internal/api"
	"einvoice/internal/logger"
	"einvoice/internal/review"
	"einvoice/pkg/models"
)

// Status is the outcome of one file in a batch.
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning" // extracted, but needs manual review
	StatusError   Status = "error"
)

// Uploader is the part of the API client the batch needs.
type Uploader interface {
	UploadOCR(ctx context.Context, file api.File) (*models.OCRResult, error)
}

// BatchResult is the outcome of processing a single file.
type BatchResult struct {
	Path   string            `json:"path"`
	Result *models.OCRResult `json:"result,omitempty"`
	Review *review.Report    `json:"review,omitempty"`
	Err    error             `json:"-"`
	Status Status            `json:"status"`
	Index  int               `json:"-"`
}

// MarshalJSON adds the error text, which encoding/json cannot derive from an error value.
func (r BatchResult) MarshalJSON() ([]byte, error) {
	type plain BatchResult
	out := struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain: plain(r)}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// Filename is the base name of the processed file.
func (r BatchResult) Filename() string {
	return filepath.Base(r.Path)
}

// ProgressFunc is called once per finished file, serialized, with the number done so far.
type ProgressFunc func(done, total int, result BatchResult)

// Batch uploads scans over a fixed worker pool.
type Batch struct {
	uploader   Uploader
	reconciler *review.Reconciler
	workers    int
	progress   ProgressFunc
}

// NewBatch creates a batch runner. workers below one are treated as one; a nil
// reconciler reviews with review.DefaultThreshold.
func NewBatch(uploader Uploader, reconciler *review.Reconciler, workers int, progress ProgressFunc) *Batch {
	if workers < 1 {
		workers = 1
	}
	if reconciler == nil {
		reconciler = review.NewReconciler(0)
	}
	return &Batch{
		uploader:   uploader,
		reconciler: reconciler,
		workers:    workers,
		progress:   progress,
	}
}

type job struct {
	path  string
	index int
}

// Run processes every path and returns results in input order. A failing
// file never stops the batch; canceling ctx fails the remaining files.
func (b *Batch) Run(ctx context.Context, paths []string) []BatchResult {
	log := logger.WithComponent("ocr-batch")

	jobs := make(chan job, len(paths))
	results := make([]BatchResult, len(paths))

	var (
		mu   sync.Mutex
		done int
		wg   sync.WaitGroup
	)

	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for j := range jobs {
				log.Debug().
					Int("worker", workerID).
					Str("file", j.path).
					Int("index", j.index+1).
					Msg("Worker processing scan")

				result := b.processOne(ctx, j.path)
				result.Index = j.index
				results[j.index] = result

				mu.Lock()
				done++
				if b.progress != nil {
					b.progress(done, len(paths), result)
				}
				mu.Unlock()
			}
		}(w)
	}

	for i, p := range paths {
		jobs <- job{path: p, index: i}
	}
	close(jobs)
	wg.Wait()

	return results
}

func (b *Batch) processOne(ctx context.Context, path string) BatchResult {
	result := BatchResult{Path: path, Status: StatusError}

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	file, err := CheckScan(path)
	if err != nil {
		result.Err = err
		return result
	}

	ocrResult, err := b.uploader.UploadOCR(ctx, file)
	if err != nil {
		result.Err = err
		return result
	}

	result.Result = ocrResult
	result.Review = b.reconciler.Reconcile(ocrResult)
	result.Status = statusFor(result.Review)
	return result
}

// statusFor maps a review report to a batch status.
func statusFor(report *review.Report) Status {
	if report.NeedsReview {
		return StatusWarning
	}
	return StatusSuccess
}

// Counts tallies results by status.
func Counts(results []BatchResult) map[Status]int {
	counts := map[Status]int{}
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}
