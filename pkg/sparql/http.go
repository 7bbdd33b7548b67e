package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	contentTypeForm    = "application/x-www-form-urlencoded"
	contentTypeResults = "application/sparql-results+json"
)

// httpClient handles HTTP communication with the endpoint.
type httpClient struct {
	client    *http.Client
	endpoint  string
	token     string
	userAgent string
	logger    *slog.Logger
}

// newHTTPClient creates a new HTTP client.
func newHTTPClient(cfg *clientConfig) *httpClient {
	return &httpClient{
		client:    cfg.httpClient,
		endpoint:  cfg.endpoint,
		token:     cfg.token,
		userAgent: cfg.userAgent,
		logger:    cfg.logger,
	}
}

// query posts a query using the SPARQL 1.1 Protocol form encoding and
// decodes the JSON results document.
func (h *httpClient) query(ctx context.Context, query string) (*Response, error) {
	reqID := uuid.New().String()

	form := url.Values{}
	form.Set("query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	h.setHeaders(req, reqID)

	h.logger.DebugContext(ctx, "sparql request",
		"request_id", reqID,
		"endpoint", h.endpoint,
		"query_bytes", len(query))

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	result, err := h.handleResponse(resp, reqID)
	if err != nil {
		h.logger.DebugContext(ctx, "sparql request failed",
			"request_id", reqID,
			"status", resp.StatusCode,
			"elapsed", time.Since(start),
			"error", err)
		return nil, err
	}

	rows := 0
	if result.Results != nil {
		rows = len(result.Results.Bindings)
	}
	h.logger.DebugContext(ctx, "sparql response",
		"request_id", reqID,
		"status", resp.StatusCode,
		"rows", rows,
		"elapsed", time.Since(start))

	return result, nil
}

// setHeaders sets common headers for endpoint requests.
func (h *httpClient) setHeaders(req *http.Request, reqID string) {
	req.Header.Set("Content-Type", contentTypeForm)
	req.Header.Set("Accept", contentTypeResults)
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("X-Request-Id", reqID)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
}

// handleResponse handles the endpoint response.
func (h *httpClient) handleResponse(resp *http.Response, reqID string) (*Response, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			HTTPStatus: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
			RequestID:  reqID,
		}
	}

	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &result, nil
}
