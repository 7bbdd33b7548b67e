// Package factstore keeps people and claims fetched from Wikidata in a local
// key-value backed graph, so they can be browsed offline.
//
// Entities are keyed by identifier (Q42), claims are stored per subject in
// fetch order, and claims whose value is another entity are also indexed as
// links in both directions:
//
//	{prefix}:e:{id}                    → msgpack Entity
//	{prefix}:f:{id}:{seq}              → msgpack claim
//	{prefix}:r:{from}:{property}:{to}  → empty (outgoing link)
//	{prefix}:ri:{to}:{property}:{from} → empty (incoming link)
//
// The store only holds what the caller saved. It is never consulted when
// querying the endpoint.
package factstore

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
)

// Sentinel errors.
var (
	// ErrNotFound is returned when an entity or key does not exist.
	ErrNotFound = errors.New("factstore: not found")

	// ErrInvalidKey is returned when an identifier contains the key
	// separator and cannot be used as a key segment.
	ErrInvalidKey = errors.New("factstore: key segment contains separator")
)

// Separator joins key segments in the encoded form.
const Separator byte = ':'

// Key is a hierarchical key such as Key{"wf", "e", "Q42"}.
type Key []string

// String returns the encoded key.
func (k Key) String() string {
	return strings.Join(k, string(Separator))
}

// with returns a new key extended by segs; k is never modified.
func (k Key) with(segs ...string) Key {
	out := make(Key, 0, len(k)+len(segs))
	out = append(out, k...)
	return append(out, segs...)
}

// Entry is a key-value pair.
type Entry struct {
	Key   Key
	Value []byte
}

// Backend is the key-value storage underneath a Store.
type Backend interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Scan iterates in lexicographic key order over entries strictly below
	// prefix, i.e. prefix "a:b" matches "a:b:c" but not "a:bc".
	Scan(ctx context.Context, prefix Key) iter.Seq2[Entry, error]

	// Write applies deletes and then puts atomically.
	Write(ctx context.Context, puts []Entry, deletes []Key) error

	// Close releases any resources held by the backend.
	Close() error
}

// validate rejects segments that would corrupt the key encoding.
func validate(segs ...string) error {
	for _, s := range segs {
		if strings.IndexByte(s, Separator) >= 0 {
			return fmt.Errorf("%w: %q", ErrInvalidKey, s)
		}
	}
	return nil
}

func encodeKey(k Key) []byte {
	return []byte(k.String())
}

func decodeKey(b []byte) Key {
	return Key(strings.Split(string(b), string(Separator)))
}

// scanPrefix returns the byte prefix matching keys strictly below k.
// An empty key matches everything.
func scanPrefix(k Key) []byte {
	if len(k) == 0 {
		return nil
	}
	return append(encodeKey(k), Separator)
}
