// Package capture records MIDI input sessions to a store and plays
// them back.
//
// A session is the event stream of one driver input: every decoded
// event is persisted with its timestamp, source endpoint and raw UMP
// words, under session/<id>/evt/<seq>. A yaml manifest under
// session/<id>/manifest carries the session metadata. Replay walks the
// events in order and re-emits their words with the original
// inter-event timing.
package capture

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/kiro-audio/midi/pkg/store"
	"github.com/kiro-audio/midi/pkg/ump"
)

// Manifest describes a recorded session.
type Manifest struct {
	ID        string    `yaml:"id"`
	Input     string    `yaml:"input"`
	Protocol  string    `yaml:"protocol"`
	StartedAt time.Time `yaml:"started_at"`
	EndedAt   time.Time `yaml:"ended_at,omitempty"`
	Events    int64     `yaml:"events"`
}

// record is the stored form of one event.
type record struct {
	Timestamp uint64   `msgpack:"t"`
	Endpoint  uint64   `msgpack:"e"`
	Words     []uint32 `msgpack:"w"`
}

func sessionKey(id string) store.Key {
	return store.Key{"session", id}
}

func manifestKey(id string) store.Key {
	return sessionKey(id).Append("manifest")
}

func eventKey(id string, seq int64) store.Key {
	// Zero-padded so the store's lexicographic order is the event
	// order.
	return sessionKey(id).Append("evt", fmt.Sprintf("%012d", seq))
}

// NewSessionID returns a fresh session ID.
func NewSessionID() string {
	return uuid.NewString()
}

// LoadManifest reads the manifest of a session.
func LoadManifest(ctx context.Context, s store.Store, id string) (Manifest, error) {
	data, err := s.Get(ctx, manifestKey(id))
	if err != nil {
		return Manifest{}, fmt.Errorf("capture: load manifest %s: %w", id, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("capture: parse manifest %s: %w", id, err)
	}
	return m, nil
}

func saveManifest(ctx context.Context, s store.Store, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("capture: marshal manifest %s: %w", m.ID, err)
	}
	if err := s.Set(ctx, manifestKey(m.ID), data); err != nil {
		return fmt.Errorf("capture: save manifest %s: %w", m.ID, err)
	}
	return nil
}

// Sessions iterates over the manifests of all recorded sessions.
func Sessions(ctx context.Context, s store.Store) iter.Seq2[Manifest, error] {
	return func(yield func(Manifest, error) bool) {
		for entry, err := range s.List(ctx, store.Key{"session"}) {
			if err != nil {
				yield(Manifest{}, err)
				return
			}
			k := entry.Key
			if len(k) == 0 || k[len(k)-1] != "manifest" {
				continue
			}
			var m Manifest
			if err := yaml.Unmarshal(entry.Value, &m); err != nil {
				if !yield(Manifest{}, fmt.Errorf("capture: parse manifest %s: %w", k, err)) {
					return
				}
				continue
			}
			if !yield(m, nil) {
				return
			}
		}
	}
}

// DeleteSession removes a session's manifest and events.
func DeleteSession(ctx context.Context, s store.Store, id string) error {
	if err := s.DeletePrefix(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("capture: delete session %s: %w", id, err)
	}
	return nil
}

// Events iterates over the stored events of a session in recording
// order, yielding the timestamp, source endpoint and raw words of each.
func Events(ctx context.Context, s store.Store, id string) iter.Seq2[StoredEvent, error] {
	return func(yield func(StoredEvent, error) bool) {
		for entry, err := range s.List(ctx, sessionKey(id).Append("evt")) {
			if err != nil {
				yield(StoredEvent{}, err)
				return
			}
			var rec record
			if err := msgpack.Unmarshal(entry.Value, &rec); err != nil {
				yield(StoredEvent{}, fmt.Errorf("capture: decode event %s: %w", entry.Key, err))
				return
			}
			words := make([]ump.Word, len(rec.Words))
			for i, w := range rec.Words {
				words[i] = ump.Word(w)
			}
			ev := StoredEvent{
				Timestamp: rec.Timestamp,
				Endpoint:  rec.Endpoint,
				Words:     words,
			}
			if !yield(ev, nil) {
				return
			}
		}
	}
}

// StoredEvent is one recorded event in wire form.
type StoredEvent struct {
	Timestamp uint64
	Endpoint  uint64
	Words     []ump.Word
}
