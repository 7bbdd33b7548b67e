package factstore

import (
	"bytes"
	"context"
	"iter"
	"slices"
	"sync"
)

// Memory is an in-memory Backend. It is safe for concurrent use and meant
// for tests and throwaway sessions.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key Key) ([]byte, error) {
	m.mu.RLock()
	v, ok := m.data[key.String()]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (m *Memory) Scan(_ context.Context, prefix Key) iter.Seq2[Entry, error] {
	p := scanPrefix(prefix)

	// Snapshot under the read lock so callers may write while iterating.
	m.mu.RLock()
	keys := make([]string, 0)
	vals := make(map[string][]byte)
	for k, v := range m.data {
		if bytes.HasPrefix([]byte(k), p) {
			keys = append(keys, k)
			vals[k] = bytes.Clone(v)
		}
	}
	m.mu.RUnlock()
	slices.Sort(keys)

	return func(yield func(Entry, error) bool) {
		for _, k := range keys {
			if !yield(Entry{Key: decodeKey([]byte(k)), Value: vals[k]}, nil) {
				return
			}
		}
	}
}

func (m *Memory) Write(_ context.Context, puts []Entry, deletes []Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range deletes {
		delete(m.data, k.String())
	}
	for _, e := range puts {
		m.data[e.Key.String()] = bytes.Clone(e.Value)
	}
	return nil
}

func (m *Memory) Close() error {
	return nil
}
