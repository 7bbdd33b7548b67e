package sparql

import (
	"context"
	"fmt"
)

// Query executes a query and returns the decoded results document.
//
// Transport failures, non-200 responses (*Error) and undecodable bodies are
// returned as errors; nothing is retried.
func (c *Client) Query(ctx context.Context, query string) (*Response, error) {
	return c.http.query(ctx, query)
}

// Select executes a SELECT query and returns its binding rows.
func (c *Client) Select(ctx context.Context, query string) ([]Binding, error) {
	resp, err := c.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return resp.Bindings()
}

// Ask executes an ASK query.
func (c *Client) Ask(ctx context.Context, query string) (bool, error) {
	resp, err := c.Query(ctx, query)
	if err != nil {
		return false, err
	}
	if resp.Boolean == nil {
		return false, fmt.Errorf("sparql: response has no boolean")
	}
	return *resp.Boolean, nil
}
