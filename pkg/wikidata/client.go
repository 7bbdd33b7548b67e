package wikidata

import (
	"context"
	"fmt"

	"github.com/haivivi/wikifacts/pkg/sparql"
)

// Querier executes a SPARQL query. *sparql.Client implements it.
type Querier interface {
	Query(ctx context.Context, query string) (*sparql.Response, error)
}

// Client looks up people and their claims.
type Client struct {
	querier Querier
}

// NewClient creates a Client backed by a sparql.Client built from opts.
// Without options it queries the public Wikidata endpoint.
func NewClient(opts ...sparql.Option) *Client {
	return NewClientWithQuerier(sparql.NewClient(opts...))
}

// NewClientWithQuerier creates a Client backed by q.
func NewClientWithQuerier(q Querier) *Client {
	return &Client{querier: q}
}

// SearchPeople returns the humans whose English label equals name.
// The result may be empty.
func (c *Client) SearchPeople(ctx context.Context, name string) ([]Person, error) {
	rows, err := c.execute(ctx, SearchPeopleQuery(name))
	if err != nil {
		return nil, fmt.Errorf("search people: %w", err)
	}

	people := make([]Person, 0, len(rows))
	for i, row := range rows {
		vals, err := row.Values("name", "description", "id")
		if err != nil {
			return nil, fmt.Errorf("search people: row %d: %w", i, err)
		}
		idURL, err := ParseURL(vals[2])
		if err != nil {
			return nil, fmt.Errorf("search people: row %d: %w", i, err)
		}
		p, err := NewPerson(vals[0], vals[1], idURL)
		if err != nil {
			return nil, fmt.Errorf("search people: row %d: %w", i, err)
		}
		people = append(people, p)
	}
	return people, nil
}

// FetchEntityFields returns the direct claims of the entity id (e.g. "Q42").
// A nil opts means DefaultFetchOptions, which keeps entity-valued claims
// only. Fields come back in the endpoint's DESC(?propID) order.
func (c *Client) FetchEntityFields(ctx context.Context, id string, opts *FetchOptions) ([]Field, error) {
	rows, err := c.execute(ctx, EntityFieldsQuery(id, opts))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", id, err)
	}

	fields := make([]Field, 0, len(rows))
	for i, row := range rows {
		vals, err := row.Values("propID", "propLabel", "valueLabel", "value")
		if err != nil {
			return nil, fmt.Errorf("fetch %s: row %d: %w", id, i, err)
		}
		f, err := NewField(vals[0], vals[1], vals[2])
		if err != nil {
			return nil, fmt.Errorf("fetch %s: row %d: %w", id, i, err)
		}
		fields = append(fields, f.WithValueURL(vals[3]))
	}
	return fields, nil
}

// execute prefixes body, runs it and unwraps results.bindings.
func (c *Client) execute(ctx context.Context, body string) ([]sparql.Binding, error) {
	resp, err := c.querier.Query(ctx, WithPrefixes(body))
	if err != nil {
		return nil, err
	}
	return resp.Bindings()
}
