package capture

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/kiro-audio/midi/pkg/driver"
	"github.com/kiro-audio/midi/pkg/midi"
	"github.com/kiro-audio/midi/pkg/store"
)

// recordQueueSize is the ring capacity between the driver and the
// store writer. The writer touches disk, so it gets a deep queue.
const recordQueueSize = 4096

// Recording is an in-progress capture session.
type Recording struct {
	id      string
	input   string
	store   store.Store
	driver  driver.Driver
	handler *midi.RingHandler

	done chan struct{}

	mu     sync.Mutex
	seq    int64
	closed bool
}

// Record creates the input described by cfg on the driver and starts
// persisting its events to the store under a fresh session ID.
func Record(ctx context.Context, s store.Store, d driver.Driver, cfg midi.InputConfig) (*Recording, error) {
	r := &Recording{
		id:      NewSessionID(),
		input:   cfg.Name,
		store:   s,
		driver:  d,
		handler: midi.NewRingHandler(recordQueueSize),
		done:    make(chan struct{}),
	}

	manifest := Manifest{
		ID:        r.id,
		Input:     cfg.Name,
		Protocol:  cfg.DecodeProtocol().String(),
		StartedAt: time.Now().UTC(),
	}
	if err := saveManifest(ctx, s, manifest); err != nil {
		return nil, err
	}

	if _, err := d.CreateInput(cfg, r.handler); err != nil {
		DeleteSession(ctx, s, r.id)
		return nil, fmt.Errorf("capture: create input: %w", err)
	}

	go r.drain()
	return r, nil
}

// ID returns the session ID of the recording.
func (r *Recording) ID() string { return r.id }

// Events returns the number of events persisted so far.
func (r *Recording) Events() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

func (r *Recording) drain() {
	defer close(r.done)
	ctx := context.Background()
	for ev := range r.handler.Events().All() {
		words := ev.Message.Words()
		rec := record{
			Timestamp: ev.Timestamp,
			Endpoint:  ev.Endpoint,
			Words:     make([]uint32, len(words)),
		}
		for i, w := range words {
			rec.Words[i] = uint32(w)
		}
		data, err := msgpack.Marshal(&rec)
		if err != nil {
			slog.Error("capture: encode event", "session", r.id, "err", err)
			continue
		}

		r.mu.Lock()
		seq := r.seq
		r.seq++
		r.mu.Unlock()

		if err := r.store.Set(ctx, eventKey(r.id, seq), data); err != nil {
			slog.Error("capture: persist event", "session", r.id, "err", err)
		}
	}
}

// Stop detaches the input from its sources, flushes queued events and
// finalizes the manifest.
func (r *Recording) Stop(ctx context.Context) (Manifest, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return Manifest{}, fmt.Errorf("capture: recording %s already stopped", r.id)
	}
	r.closed = true
	r.mu.Unlock()

	// Detach before closing the queue so no event is lost between the
	// two.
	if err := r.driver.SetInputSources(r.input, midi.SourceMatches{}); err != nil {
		slog.Warn("capture: detach input", "session", r.id, "err", err)
	}
	r.handler.Events().CloseWrite()

	select {
	case <-r.done:
	case <-ctx.Done():
		return Manifest{}, ctx.Err()
	}

	manifest, err := LoadManifest(ctx, r.store, r.id)
	if err != nil {
		return Manifest{}, err
	}
	manifest.EndedAt = time.Now().UTC()
	manifest.Events = r.Events()
	if err := saveManifest(ctx, r.store, manifest); err != nil {
		return Manifest{}, err
	}
	slog.Info("capture: session recorded",
		"session", r.id, "input", r.input, "events", manifest.Events)
	return manifest, nil
}
