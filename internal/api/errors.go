package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common API errors, matched with errors.Is.
var (
	// ErrMissingBaseURL is returned by New when no API URL is configured.
	ErrMissingBaseURL = errors.New("API base URL is not configured")

	// ErrNetwork is returned when the backend could not be reached at all.
	ErrNetwork = errors.New("network error")

	// ErrBadRequest is returned for 400 responses.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized is returned for 401 responses: missing, expired or revoked credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPaymentRequired is returned for 402 responses, when the plan's invoice quota is used up.
	ErrPaymentRequired = errors.New("payment required")

	// ErrForbidden is returned for 403 responses.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned for 409 responses, e.g. a duplicate invoice number.
	ErrConflict = errors.New("conflict")

	// ErrPayloadTooLarge is returned for 413 responses.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrValidation is returned for 422 responses: the backend rejected the request body.
	ErrValidation = errors.New("request validation failed")

	// ErrRateLimited is returned for 429 responses.
	ErrRateLimited = errors.New("rate limited")

	// ErrServer is returned for 5xx responses.
	ErrServer = errors.New("server error")

	// ErrUnexpectedStatus covers any other non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrDecode is returned when a 2xx body cannot be decoded.
	ErrDecode = errors.New("malformed response body")
)

const (
	networkMessage = "Network error. Please check your connection and try again."
	genericMessage = "An unexpected error occurred. Please try again."
)

// APIError wraps a failed call with what the backend said about it.
type APIError struct {
	// Op is the client operation that failed (e.g. "ValidateInvoice").
	Op string

	// StatusCode is the HTTP status, zero when no response was received.
	StatusCode int

	// Detail is the backend's human-readable "detail" field, if any.
	Detail string

	// RequestID is the X-Request-ID sent with the request.
	RequestID string

	// Err is the underlying sentinel or transport error.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Detail != "":
		return fmt.Sprintf("api: %s failed (%d): %s: %v", e.Op, e.StatusCode, e.Detail, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("api: %s failed (%d): %v", e.Op, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("api: %s failed: %v", e.Op, e.Err)
	}
}

// Unwrap returns the underlying error for error unwrapping.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *APIError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// statusError maps an HTTP status to its sentinel.
func statusError(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return ErrBadRequest
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusPaymentRequired:
		return ErrPaymentRequired
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status == http.StatusRequestEntityTooLarge:
		return ErrPayloadTooLarge
	case status == http.StatusUnprocessableEntity:
		return ErrValidation
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= 500:
		return ErrServer
	default:
		return ErrUnexpectedStatus
	}
}

// fieldError is one entry of a list-shaped "detail" (request body validation).
type fieldError struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// parseDetail extracts the backend's "detail" from an error body. The field is
// either a plain string or a list of {loc, msg} entries.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if len(envelope.Detail) == 0 || string(envelope.Detail) == "null" {
		return envelope.Message
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return text
	}

	var fields []fieldError
	if err := json.Unmarshal(envelope.Detail, &fields); err == nil {
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			loc := locationPath(f.Loc)
			if loc == "" {
				parts = append(parts, f.Msg)
				continue
			}
			parts = append(parts, loc+": "+f.Msg)
		}
		return strings.Join(parts, "; ")
	}

	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Detail, &obj); err == nil {
		return obj.Message
	}
	return ""
}

// locationPath renders ["body", "net_amount"] as "net_amount".
func locationPath(loc []any) string {
	parts := make([]string, 0, len(loc))
	for i, p := range loc {
		s := fmt.Sprint(p)
		if i == 0 && (s == "body" || s == "query" || s == "path") {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ".")
}

// ErrorMessage turns any client error into a message fit for the user. The
// backend's detail wins; transport failures get a retry hint; everything else
// gets a generic message.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if errors.Is(err, ErrNetwork) || errors.Is(err, context.DeadlineExceeded) {
		return networkMessage
	}
	return genericMessage
}
