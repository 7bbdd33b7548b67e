package sparql

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrMissingBinding is returned when a result row lacks a requested
	// variable or does not have the shape of a SPARQL JSON binding. It means
	// the endpoint broke its contract and is not meant to be recovered from.
	ErrMissingBinding = errors.New("sparql: missing binding")

	// ErrNoBindings is returned when a response carries no results.bindings
	// array, e.g. when an ASK or malformed response is read as SELECT.
	ErrNoBindings = errors.New("sparql: response has no results.bindings")
)

// Response is a SPARQL 1.1 JSON results document.
type Response struct {
	Head Head `json:"head"`

	// Results is set for SELECT queries.
	Results *Results `json:"results,omitempty"`

	// Boolean is set for ASK queries.
	Boolean *bool `json:"boolean,omitempty"`
}

// Head lists the projected variables.
type Head struct {
	Vars []string `json:"vars,omitempty"`
	Link []string `json:"link,omitempty"`
}

// Results holds the solution sequence of a SELECT query.
type Results struct {
	Distinct bool      `json:"distinct,omitempty"`
	Ordered  bool      `json:"ordered,omitempty"`
	Bindings []Binding `json:"bindings"`
}

// Bindings returns the results.bindings rows, or ErrNoBindings if the
// response has none. An empty result set is not an error.
func (r *Response) Bindings() ([]Binding, error) {
	if r == nil || r.Results == nil || r.Results.Bindings == nil {
		return nil, ErrNoBindings
	}
	return r.Results.Bindings, nil
}

// Term is one bound RDF term inside a binding row.
type Term struct {
	// Type is "uri", "literal" or "bnode".
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

// Binding is one row of results.bindings, kept as raw JSON until projected.
type Binding json.RawMessage

// MarshalJSON implements json.Marshaler.
func (b Binding) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("null"), nil
	}
	return b, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Binding) UnmarshalJSON(data []byte) error {
	*b = append((*b)[:0], data...)
	return nil
}

// Values returns the value string of each named variable, in the order
// requested. It fails with ErrMissingBinding if a name is not bound in the
// row or if the row or term is not shaped like a SPARQL JSON binding.
//
// Example:
//
//	vals, err := b.Values("name", "id")
//	name, id := vals[0], vals[1]
func (b Binding) Values(names ...string) ([]string, error) {
	var row map[string]json.RawMessage
	if err := json.Unmarshal(b, &row); err != nil || row == nil {
		return nil, fmt.Errorf("%w: row is not an object", ErrMissingBinding)
	}

	vals := make([]string, len(names))
	for i, name := range names {
		raw, ok := row[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingBinding, name)
		}

		var term map[string]json.RawMessage
		if err := json.Unmarshal(raw, &term); err != nil || term == nil {
			return nil, fmt.Errorf("%w: %q is not a term object", ErrMissingBinding, name)
		}

		rawValue, ok := term["value"]
		if !ok {
			return nil, fmt.Errorf("%w: %q has no value", ErrMissingBinding, name)
		}

		var value *string
		if err := json.Unmarshal(rawValue, &value); err != nil || value == nil {
			return nil, fmt.Errorf("%w: %q value is not a string", ErrMissingBinding, name)
		}
		vals[i] = *value
	}

	return vals, nil
}

// Terms decodes the whole row. Unlike Values it keeps term types, language
// tags and datatypes.
func (b Binding) Terms() (map[string]Term, error) {
	var row map[string]Term
	if err := json.Unmarshal(b, &row); err != nil || row == nil {
		return nil, fmt.Errorf("%w: row is not an object", ErrMissingBinding)
	}
	return row, nil
}
