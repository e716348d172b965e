package ocr

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"einvoice/internal/api"
	"einvoice/internal/logger"
	"einvoice/internal/review"
	"einvoice/pkg/models"
)

// ErrNoResult marks a file the batch endpoint neither extracted nor rejected.
var ErrNoResult = errors.New("no result returned for this file")

// BatchUploader is the part of the API client the server-side batch needs.
type BatchUploader interface {
	UploadOCRBatch(ctx context.Context, files []api.File) (*models.BatchOCRResult, error)
}

// RunServer sends every scan that passes preflight in a single batch request
// and maps the backend's per-file results back to paths. The backend answers
// by filename, so files sharing a base name (same name in different
// subfolders) are sent under a numbered name, e.g. "rechnung (2).pdf".
// Results are returned in input order; only a failed request returns an error.
func RunServer(ctx context.Context, uploader BatchUploader, reconciler *review.Reconciler, paths []string) ([]BatchResult, error) {
	log := logger.WithComponent("ocr-batch")
	if reconciler == nil {
		reconciler = review.NewReconciler(0)
	}

	results := make([]BatchResult, len(paths))
	byName := make(map[string]int, len(paths))
	var files []api.File
	for i, p := range paths {
		results[i] = BatchResult{Path: p, Index: i, Status: StatusError}
		file, err := CheckScan(p)
		if err != nil {
			results[i].Err = err
			continue
		}
		name := uniqueName(file.Name, byName)
		if name != file.Name {
			log.Debug().Str("path", p).Str("sent_as", name).Msg("Renamed duplicate filename for batch upload")
			file.Name = name
		}
		byName[name] = i
		files = append(files, file)
	}
	if len(files) == 0 {
		return results, nil
	}

	resp, err := uploader.UploadOCRBatch(ctx, files)
	if err != nil {
		return nil, err
	}

	for k := range resp.Results {
		r := &resp.Results[k]
		i, ok := byName[r.Filename]
		if !ok {
			log.Warn().Str("filename", r.Filename).Msg("Backend returned a result for an unknown file")
			continue
		}
		results[i].Result = r
		results[i].Review = reconciler.Reconcile(r)
		results[i].Status = statusFor(results[i].Review)
		results[i].Err = nil
	}
	for _, fe := range resp.Errors {
		if i, ok := byName[fe.Filename]; ok && results[i].Result == nil {
			results[i].Err = fmt.Errorf("%s", fe.Detail)
		}
	}
	for i := range results {
		if results[i].Status == StatusError && results[i].Err == nil {
			results[i].Err = ErrNoResult
		}
	}
	return results, nil
}

// uniqueName returns name, or "stem (n).ext" with the smallest n >= 2 not yet in taken.
func uniqueName(name string, taken map[string]int) string {
	if _, ok := taken[name]; !ok {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, n, ext)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}
