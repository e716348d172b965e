package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// File is an in-memory document sent as a multipart part.
type File struct {
	Name string
	Data []byte
}

// upload posts files as multipart/form-data under field and decodes the JSON reply.
func (c *Client) upload(ctx context.Context, op, path, field string, files []File, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(field), escapeQuotes(f.Name)))
		h.Set("Content-Type", http.DetectContentType(f.Data))
		part, err := w.CreatePart(h)
		if err != nil {
			return &APIError{Op: op, Err: fmt.Errorf("build multipart body: %w", err)}
		}
		if _, err := part.Write(f.Data); err != nil {
			return &APIError{Op: op, Err: fmt.Errorf("build multipart body: %w", err)}
		}
	}
	if err := w.Close(); err != nil {
		return &APIError{Op: op, Err: fmt.Errorf("build multipart body: %w", err)}
	}

	resp, requestID, err := c.send(ctx, op, http.MethodPost, path, nil, &buf, w.FormDataContentType())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeBody(op, requestID, resp, out)
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
