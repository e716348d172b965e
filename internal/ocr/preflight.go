// Package ocr prepares scanned invoices for the backend's OCR endpoints.
//
// Extraction itself happens server side. This package checks files locally
// before they are uploaded, so obviously wrong input (empty, oversized,
// wrong format) fails fast without a round trip, and it fans a folder of
// scans out over a fixed worker pool.
//
// Accepted scan formats: PDF, PNG, JPEG, TIFF. Maximum size: 20MB.
package ocr

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"einvoice/internal/api"
)

// MaxFileSizeBytes is the largest file the backend accepts (20MB).
const MaxFileSizeBytes = 20 * 1024 * 1024

// Format is a detected document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatTIFF Format = "tiff"
	FormatXML  Format = "xml"
)

var signatures = []struct {
	magic  []byte
	format Format
}{
	{[]byte("%PDF"), FormatPDF},
	{[]byte("\x89PNG\r\n\x1a\n"), FormatPNG},
	{[]byte("\xff\xd8\xff"), FormatJPEG},
	{[]byte("II*\x00"), FormatTIFF},
	{[]byte("MM\x00*"), FormatTIFF},
}

var utf8BOM = []byte("\xef\xbb\xbf")

// Detect identifies the document format from its leading bytes.
func Detect(data []byte) (Format, bool) {
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig.magic) {
			return sig.format, true
		}
	}
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(data, utf8BOM), " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("<")) {
		return FormatXML, true
	}
	return "", false
}

// IsScanName reports whether the file extension is one the batch command picks up.
func IsScanName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		return true
	}
	return false
}

// CheckScan reads a scan from disk and verifies it can be sent to OCR.
func CheckScan(path string) (api.File, error) {
	const op = "CheckScan"
	data, err := readChecked(op, path)
	if err != nil {
		return api.File{}, err
	}
	format, ok := Detect(data)
	if !ok || format == FormatXML {
		return api.File{}, &PreflightError{Op: op, Path: path, Err: fmt.Errorf("%w: expected PDF, PNG, JPEG or TIFF", ErrUnsupportedFormat)}
	}
	return api.File{Name: filepath.Base(path), Data: data}, nil
}

// CheckXML reads an XRechnung/ZUGFeRD XML file and verifies it looks like XML.
func CheckXML(path string) (api.File, error) {
	const op = "CheckXML"
	data, err := readChecked(op, path)
	if err != nil {
		return api.File{}, err
	}
	if format, ok := Detect(data); !ok || format != FormatXML {
		return api.File{}, &PreflightError{Op: op, Path: path, Err: fmt.Errorf("%w: expected an XML document", ErrUnsupportedFormat)}
	}
	return api.File{Name: filepath.Base(path), Data: data}, nil
}

func readChecked(op, path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &PreflightError{Op: op, Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &PreflightError{Op: op, Path: path, Err: ErrNotRegularFile}
	}
	if info.Size() == 0 {
		return nil, &PreflightError{Op: op, Path: path, Err: ErrEmptyFile}
	}
	if info.Size() > MaxFileSizeBytes {
		return nil, &PreflightError{Op: op, Path: path, Err: fmt.Errorf("%w: %d bytes", ErrFileTooLarge, info.Size())}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &PreflightError{Op: op, Path: path, Err: err}
	}
	return data, nil
}

// FindScans walks folder and returns every scan file in lexical order.
func FindScans(folder string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(folder, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsScanName(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &PreflightError{Op: "FindScans", Path: folder, Err: ErrNoDocuments}
	}
	return files, nil
}
