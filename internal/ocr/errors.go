package ocr

import (
	"errors"
	"fmt"
)

// Common preflight errors
var (
	// ErrFileTooLarge is returned when a file exceeds MaxFileSizeBytes.
	ErrFileTooLarge = errors.New("file exceeds the maximum upload size (20MB)")

	// ErrEmptyFile is returned for zero-byte files.
	ErrEmptyFile = errors.New("file is empty")

	// ErrNotRegularFile is returned for directories, devices and the like.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrUnsupportedFormat is returned when the content is not a format the backend accepts.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrNoDocuments is returned when a batch folder contains nothing to upload.
	ErrNoDocuments = errors.New("no supported documents found")
)

// PreflightError wraps errors with the file and check that rejected it.
type PreflightError struct {
	// Op is the check that failed (e.g. "CheckScan", "CheckXML").
	Op string

	// Path is the file that was checked.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *PreflightError) Error() string {
	return fmt.Sprintf("ocr: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *PreflightError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *PreflightError) Is(target error) bool {
	return errors.Is(e.Err, target)
}
