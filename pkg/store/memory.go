package store

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"
)

// Memory is an in-memory Store for tests and throwaway sessions.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key Key) ([]byte, error) {
	k, err := encodeKey(key)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[string(k)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return slices.Clone(val), nil
}

// Set implements Store.
func (m *Memory) Set(_ context.Context, key Key, value []byte) error {
	k, err := encodeKey(key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[string(k)] = slices.Clone(value)
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, key Key) error {
	k, err := encodeKey(key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, string(k))
	return nil
}

// List implements Store.
func (m *Memory) List(ctx context.Context, prefix Key) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		p, err := encodePrefix(prefix)
		if err != nil {
			yield(Entry{}, err)
			return
		}
		m.mu.RLock()
		keys := make([]string, 0, len(m.data))
		for k := range m.data {
			if strings.HasPrefix(k, string(p)) {
				keys = append(keys, k)
			}
		}
		m.mu.RUnlock()
		slices.Sort(keys)

		for _, k := range keys {
			if err := ctx.Err(); err != nil {
				yield(Entry{}, err)
				return
			}
			m.mu.RLock()
			val, ok := m.data[k]
			m.mu.RUnlock()
			if !ok {
				continue
			}
			if !yield(Entry{Key: decodeKey([]byte(k)), Value: slices.Clone(val)}, nil) {
				return
			}
		}
	}
}

// DeletePrefix implements Store.
func (m *Memory) DeletePrefix(_ context.Context, prefix Key) error {
	p, err := encodePrefix(prefix)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.data {
		if strings.HasPrefix(k, string(p)) {
			delete(m.data, k)
		}
	}
	return nil
}

// Close implements Store.
func (m *Memory) Close() error {
	return nil
}
