package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/kiro-audio/midi/pkg/store"
	"github.com/kiro-audio/midi/pkg/ump"
)

// Emitter receives the replayed word stream. driver/pipe sources and
// netump clients satisfy it.
type Emitter interface {
	SendWords(words ...ump.Word) error
}

// ReplayOptions tunes playback.
type ReplayOptions struct {
	// Rate is the playback speed multiplier. 1.0 (and 0) replay with
	// the original timing; 2.0 plays twice as fast. Negative rates are
	// rejected.
	Rate float64

	// NoWait disables inter-event sleeps entirely.
	NoWait bool
}

// Replay streams a recorded session to the emitter, sleeping between
// events to reproduce the original timing. It returns the number of
// replayed events.
func Replay(ctx context.Context, s store.Store, id string, out Emitter, opts ReplayOptions) (int64, error) {
	if opts.Rate < 0 {
		return 0, fmt.Errorf("capture: negative replay rate %v", opts.Rate)
	}
	rate := opts.Rate
	if rate == 0 {
		rate = 1.0
	}

	if _, err := LoadManifest(ctx, s, id); err != nil {
		return 0, err
	}

	var count int64
	var prev uint64
	for ev, err := range Events(ctx, s, id) {
		if err != nil {
			return count, err
		}
		if !opts.NoWait && prev != 0 && ev.Timestamp > prev {
			delay := time.Duration(float64(ev.Timestamp-prev) / rate)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return count, ctx.Err()
			}
		}
		prev = ev.Timestamp

		if err := out.SendWords(ev.Words...); err != nil {
			return count, fmt.Errorf("capture: replay emit: %w", err)
		}
		count++
	}
	return count, nil
}
