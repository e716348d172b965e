package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"einvoice/pkg/models"
)

func rangeQuery(r models.DateRange) url.Values {
	q := url.Values{}
	if r.From != nil {
		q.Set("from", r.From.String())
	}
	if r.To != nil {
		q.Set("to", r.To.String())
	}
	return q
}

// ExportDATEV downloads the bookkeeping export for a period.
func (c *Client) ExportDATEV(ctx context.Context, opts models.DATEVExportOptions) (*Download, error) {
	q := rangeQuery(opts.DateRange)
	format := opts.Format
	if format == "" {
		format = models.DATEVFormatCSV
	}
	q.Set("format", string(format))
	if opts.ChartOfAccounts != "" {
		q.Set("skr", strings.ToUpper(opts.ChartOfAccounts))
	}
	return c.doDownload(ctx, "ExportDATEV", http.MethodGet, "/export/datev", q, "datev_export."+string(format))
}

// AnalyticsSummary returns the dashboard totals for a period.
func (c *Client) AnalyticsSummary(ctx context.Context, r models.DateRange) (*models.AnalyticsSummary, error) {
	return call[models.AnalyticsSummary](ctx, c, "AnalyticsSummary", http.MethodGet, "/analytics/summary", rangeQuery(r), nil)
}

// AuditLog returns one page of audit entries, optionally filtered by action.
func (c *Client) AuditLog(ctx context.Context, page, pageSize int, action string) (*models.Page[models.AuditLogEntry], error) {
	q := pageQuery(page, pageSize)
	if action != "" {
		q.Set("action", action)
	}
	return call[models.Page[models.AuditLogEntry]](ctx, c, "AuditLog", http.MethodGet, "/audit-log", q, nil)
}
