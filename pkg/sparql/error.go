package sparql

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is returned when the endpoint answers with a non-200 status.
type Error struct {
	// HTTPStatus is the HTTP status code.
	HTTPStatus int `json:"http_status"`

	// Status is the HTTP status line text, e.g. "400 Bad Request".
	Status string `json:"status"`

	// Body is the response body. Query services usually put the parser or
	// engine error message here.
	Body string `json:"body,omitempty"`

	// RequestID is the X-Request-Id sent with the failed request.
	RequestID string `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := firstLine(e.Body)
	if msg == "" {
		return fmt.Sprintf("sparql: %s (request=%s)", e.Status, e.RequestID)
	}
	return fmt.Sprintf("sparql: %s: %s (request=%s)", e.Status, msg, e.RequestID)
}

// IsRateLimit returns true if the endpoint throttled the request.
func (e *Error) IsRateLimit() bool {
	return e.HTTPStatus == http.StatusTooManyRequests
}

// IsMalformedQuery returns true if the endpoint rejected the query text.
func (e *Error) IsMalformedQuery() bool {
	return e.HTTPStatus == http.StatusBadRequest
}

// IsQueryTimeout returns true if the query engine gave up on the query.
// Blazegraph based services report this as a 500 carrying a
// TimeoutException in the body.
func (e *Error) IsQueryTimeout() bool {
	return e.HTTPStatus == http.StatusGatewayTimeout ||
		strings.Contains(e.Body, "TimeoutException")
}

// IsServerError returns true if this is a server-side error.
func (e *Error) IsServerError() bool {
	return e.HTTPStatus >= 500
}

// AsError extracts *Error from an error.
//
// Example:
//
//	if e, ok := sparql.AsError(err); ok {
//	    if e.IsQueryTimeout() {
//	        // Simplify the query
//	    }
//	}
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
