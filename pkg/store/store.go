// Package store provides the key-value storage behind MIDI session
// capture. Keys are hierarchical paths represented as string slices
// (e.g. ["session", id, "evt", seq]) encoded with a '/' separator.
//
// The package includes a BadgerDB-backed implementation for on-disk
// session archives and an in-memory implementation for tests.
package store

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("store: not found")

// Separator joins key segments in the encoded form. Segments must not
// contain it.
const Separator byte = '/'

// Key is a hierarchical path represented as a slice of string segments.
type Key []string

// String returns the encoded form of the key.
func (k Key) String() string {
	return strings.Join(k, string(Separator))
}

// Append returns a copy of the key with more segments appended.
func (k Key) Append(segments ...string) Key {
	out := make(Key, 0, len(k)+len(segments))
	out = append(out, k...)
	return append(out, segments...)
}

func encodeKey(k Key) ([]byte, error) {
	for _, seg := range k {
		if strings.IndexByte(seg, Separator) >= 0 {
			return nil, fmt.Errorf("store: key segment %q contains separator", seg)
		}
	}
	return []byte(k.String()), nil
}

// encodePrefix encodes a key for prefix matching. The separator is
// appended so the prefix matches only whole segments: listing
// ["session", "a"] must not sweep up a sibling "a2" session. An empty
// prefix matches everything.
func encodePrefix(k Key) ([]byte, error) {
	if len(k) == 0 {
		return nil, nil
	}
	p, err := encodeKey(k)
	if err != nil {
		return nil, err
	}
	return append(p, Separator), nil
}

func decodeKey(b []byte) Key {
	return Key(strings.Split(string(b), string(Separator)))
}

// Entry is a key-value pair yielded by List.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is the key-value store interface.
type Store interface {
	// Get retrieves the value for a key. Returns ErrNotFound if not
	// present.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores a key-value pair, overwriting any existing value.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key Key) error

	// List iterates over entries whose key extends the prefix by one
	// or more whole segments, in lexicographic order of the encoded
	// key. An empty prefix lists everything.
	List(ctx context.Context, prefix Key) iter.Seq2[Entry, error]

	// DeletePrefix removes every key that extends the prefix by one
	// or more whole segments.
	DeletePrefix(ctx context.Context, prefix Key) error

	// Close releases the store's resources.
	Close() error
}
