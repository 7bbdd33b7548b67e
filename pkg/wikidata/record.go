package wikidata

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMalformedURL is returned when an identifier URL cannot be parsed or has
// no path segment to take the identifier from.
var ErrMalformedURL = errors.New("wikidata: malformed identifier URL")

// Person is a human entity matched by name.
type Person struct {
	// Name is the English label, e.g. "Douglas Adams".
	Name string `json:"name" yaml:"name"`

	// Description is the English short description,
	// e.g. "English writer and humorist (1952–2001)".
	Description string `json:"description" yaml:"description"`

	// ID is the entity identifier, e.g. "Q42". Always the last path
	// segment of IDURL.
	ID string `json:"id" yaml:"id"`

	// IDURL is the entity URL, e.g. "http://www.wikidata.org/entity/Q42".
	IDURL string `json:"id_url" yaml:"id_url"`
}

// NewPerson builds a Person, taking ID from the last path segment of idURL.
func NewPerson(name, description string, idURL *url.URL) (Person, error) {
	id, err := LastSegment(idURL)
	if err != nil {
		return Person{}, err
	}
	return Person{
		Name:        name,
		Description: description,
		ID:          id,
		IDURL:       idURL.String(),
	}, nil
}

// String formats the person as "Q42: Douglas Adams (English writer)".
func (p Person) String() string {
	return fmt.Sprintf("%s: %s (%s)", p.ID, p.Name, p.Description)
}

// Field is one property/value claim about an entity.
type Field struct {
	// Value is the value label, e.g. "novelist".
	Value string `json:"value" yaml:"value"`

	// Label is the property label, e.g. "occupation".
	Label string `json:"label" yaml:"label"`

	// LabelID is the property identifier, e.g. "P106". Always the last path
	// segment of LabelIDURL.
	LabelID string `json:"label_id" yaml:"label_id"`

	// LabelIDURL is the property URL,
	// e.g. "http://www.wikidata.org/prop/direct/P106".
	LabelIDURL string `json:"label_id_url" yaml:"label_id_url"`

	// ValueID and ValueURL identify the value when it is an entity
	// (e.g. "Q6625963"). Empty for literal values.
	ValueID  string `json:"value_id,omitempty" yaml:"value_id,omitempty"`
	ValueURL string `json:"value_url,omitempty" yaml:"value_url,omitempty"`
}

// NewField parses labelIDURL and builds a Field whose LabelID is its last
// path segment.
func NewField(labelIDURL, label, value string) (Field, error) {
	u, err := ParseURL(labelIDURL)
	if err != nil {
		return Field{}, err
	}
	labelID, err := LastSegment(u)
	if err != nil {
		return Field{}, err
	}
	return Field{
		Value:      value,
		Label:      label,
		LabelID:    labelID,
		LabelIDURL: u.String(),
	}, nil
}

// WithValueURL returns a copy of f linked to the entity at raw. If raw is
// not an entity URL (a literal value), f is returned unchanged.
func (f Field) WithValueURL(raw string) Field {
	if !strings.Contains(raw, "/entity/") {
		return f
	}
	u, err := ParseURL(raw)
	if err != nil {
		return f
	}
	id, err := LastSegment(u)
	if err != nil {
		return f
	}
	f.ValueID = id
	f.ValueURL = u.String()
	return f
}

// IsEntity reports whether the value references another entity.
func (f Field) IsEntity() bool {
	return f.ValueID != ""
}

// String formats the field as "occupation: novelist".
func (f Field) String() string {
	return fmt.Sprintf("%s: %s", f.Label, f.Value)
}

// ParseURL parses an absolute URL. Relative references are rejected.
func ParseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedURL, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrMalformedURL, raw)
	}
	return u, nil
}

// LastSegment returns the final path segment of u, e.g. "Q42" for
// "https://www.wikidata.org/entity/Q42". URLs without a hierarchical path
// (mailto:x) or whose last segment is empty ("https://example.org/") fail.
func LastSegment(u *url.URL) (string, error) {
	if u == nil {
		return "", fmt.Errorf("%w: nil URL", ErrMalformedURL)
	}
	if u.Opaque != "" || !u.IsAbs() {
		return "", fmt.Errorf("%w: %q has no path segments", ErrMalformedURL, u.String())
	}
	path := u.EscapedPath()
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		path = path[i+1:]
	}
	if path == "" {
		return "", fmt.Errorf("%w: %q has no path segments", ErrMalformedURL, u.String())
	}
	return path, nil
}
