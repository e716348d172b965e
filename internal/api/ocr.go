package api

import (
	"context"
	"fmt"

	"einvoice/pkg/models"
)

// UploadOCR sends one scanned invoice for extraction.
func (c *Client) UploadOCR(ctx context.Context, file File) (*models.OCRResult, error) {
	var result models.OCRResult
	if err := c.upload(ctx, "UploadOCR", "/ocr/upload", "file", []File{file}, &result); err != nil {
		return nil, err
	}
	if result.Filename == "" {
		result.Filename = file.Name
	}
	return &result, nil
}

// UploadOCRBatch sends several files in one request; the backend reports
// per-file failures in the result instead of failing the call.
func (c *Client) UploadOCRBatch(ctx context.Context, files []File) (*models.BatchOCRResult, error) {
	const op = "UploadOCRBatch"
	if len(files) == 0 {
		return nil, &APIError{Op: op, Err: fmt.Errorf("%w: no files given", ErrBadRequest)}
	}
	var result models.BatchOCRResult
	if err := c.upload(ctx, op, "/ocr/batch", "files", files, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ImportXML creates an invoice from an existing XRechnung or ZUGFeRD XML file.
func (c *Client) ImportXML(ctx context.Context, file File) (*models.Invoice, error) {
	var inv models.Invoice
	if err := c.upload(ctx, "ImportXML", "/invoices/import-xml", "file", []File{file}, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}
