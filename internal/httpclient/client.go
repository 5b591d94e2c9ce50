package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxErrorBody caps how much of a failed upstream body is kept for logging.
const maxErrorBody = 64 << 10

// HTTPClient defines the interface for an HTTP client
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// SendRequest marshals body as JSON, sends it and decodes a 2xx reply into response.
// Non-2xx replies are returned as *UpstreamError, undecodable replies as *DecodeError.
func SendRequest(ctx context.Context, client HTTPClient, method, endpoint string, headers map[string]string, body interface{}, response interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", redactURLError(err, stripQuery(endpoint)))
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return redactURLError(err, redact(req))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       respBody,
			URL:        redact(req),
		}
	}

	if response != nil {
		if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
			return &DecodeError{URL: redact(req), Err: err}
		}
	}

	return nil
}

// redact drops the query string, which may carry an API key.
func redact(req *http.Request) string {
	u := *req.URL
	u.RawQuery = ""
	return u.String()
}

func stripQuery(raw string) string {
	if i := strings.IndexByte(raw, '?'); i != -1 {
		return raw[:i]
	}
	return raw
}

// redactURLError rewrites the URL net/http embeds in its errors.
func redactURLError(err error, safe string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = safe
	}
	return err
}
