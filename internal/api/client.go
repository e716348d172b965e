// Package api is a typed client for the e-invoicing REST backend.
//
// Every method maps one endpoint to one HTTP call. There is no retry, backoff
// or request de-duplication: a failure is returned to the caller as an
// *APIError carrying the backend's "detail" message, and ErrorMessage renders
// it for display.
//
// Authentication is either a bearer token obtained through Login or an API key
// created in the dashboard. Each request carries a fresh X-Request-ID.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"einvoice/internal/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	apiPrefix = "/api"

	// maxErrorBody bounds how much of an error response is read for its detail.
	maxErrorBody = 1 << 20

	defaultUserAgent = "einvoice-cli"
)

// Config configures a Client.
type Config struct {
	// BaseURL is the backend origin, e.g. "https://api.example.de".
	BaseURL string

	// Token is a bearer access token. Takes precedence over APIKey.
	Token string

	// APIKey is sent as X-API-Key when no token is set.
	APIKey string

	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout time.Duration

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// HTTPClient replaces the default transport (tests, proxies).
	HTTPClient *http.Client
}

// Client talks to the e-invoicing backend. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	token      string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	log        zerolog.Logger
}

// New creates a client for the configured backend.
func New(cfg Config) (*Client, error) {
	const op = "New"

	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, &APIError{Op: op, Err: ErrMissingBaseURL}
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, &APIError{Op: op, Err: fmt.Errorf("invalid base URL %q", cfg.BaseURL)}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		baseURL:    base,
		token:      cfg.Token,
		apiKey:     cfg.APIKey,
		userAgent:  userAgent,
		httpClient: httpClient,
		log:        logger.WithComponent("api-client"),
	}, nil
}

// WithToken returns a copy of the client that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// BaseURL returns the backend origin the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Download is a file returned by a download endpoint.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + apiPrefix + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// doJSON sends an optional JSON body and decodes a JSON response into out.
func (c *Client) doJSON(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &APIError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}

	resp, requestID, err := c.send(ctx, op, method, path, query, reader, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeBody(op, requestID, resp, out)
}

// doDownload issues a request whose response is a file.
func (c *Client) doDownload(ctx context.Context, op, method, path string, query url.Values, fallbackName string) (*Download, error) {
	resp, requestID, err := c.send(ctx, op, method, path, query, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Op: op, StatusCode: resp.StatusCode, RequestID: requestID, Err: fmt.Errorf("%w: %w", ErrNetwork, err)}
	}

	return &Download{
		Filename:    filenameFrom(resp.Header.Get("Content-Disposition"), fallbackName),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// send performs the request and turns transport failures and non-2xx
// responses into *APIError. The caller closes the body of a returned response.
func (c *Client) send(ctx context.Context, op, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, string, error) {
	requestID := uuid.NewString()
	log := logger.WithRequestID(c.log, requestID)

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, requestID, &APIError{Op: op, RequestID: requestID, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	switch {
	case c.token != "":
		req.Header.Set("Authorization", "Bearer "+c.token)
	case c.apiKey != "":
		req.Header.Set("X-API-Key", c.apiKey)
	}

	start := time.Now()
	log.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Msg("Sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().
			Err(err).
			Str("op", op).
			Dur("duration", time.Since(start)).
			Msg("Request failed before a response was received")
		return nil, requestID, &APIError{Op: op, RequestID: requestID, Err: fmt.Errorf("%w: %w", ErrNetwork, err)}
	}

	log.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Received response")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, requestID, nil
	}

	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Detail:     parseDetail(raw),
		RequestID:  requestID,
		Err:        statusError(resp.StatusCode),
	}
	log.Warn().
		Str("op", op).
		Int("status", resp.StatusCode).
		Str("detail", apiErr.Detail).
		Msg("Backend returned an error")
	return nil, requestID, apiErr
}

func decodeBody(op, requestID string, resp *http.Response, out any) error {
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return &APIError{Op: op, StatusCode: resp.StatusCode, RequestID: requestID, Err: fmt.Errorf("%w: %w", ErrDecode, err)}
	}
	return nil
}

// filenameFrom reads the filename parameter of a Content-Disposition header.
func filenameFrom(disposition, fallback string) string {
	if disposition == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return fallback
	}
	if name := params["filename"]; name != "" {
		return name
	}
	return fallback
}

func pageQuery(page, pageSize int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if pageSize > 0 {
		q.Set("page_size", fmt.Sprint(pageSize))
	}
	return q
}

// call is doJSON for endpoints that return a single decoded value.
func call[T any](ctx context.Context, c *Client, op, method, path string, query url.Values, body any) (*T, error) {
	var out T
	if err := c.doJSON(ctx, op, method, path, query, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// list is call for endpoints that return a bare JSON array.
func list[T any](ctx context.Context, c *Client, op, path string, query url.Values) ([]T, error) {
	var out []T
	if err := c.doJSON(ctx, op, http.MethodGet, path, query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
