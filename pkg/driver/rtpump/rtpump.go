// Package rtpump implements a receive-only MIDI driver carrying UMP
// words in RTP packets over UDP.
//
// Each RTP payload is a run of big-endian 32-bit UMP words. Senders are
// identified by their SSRC: the first packet of an unseen SSRC
// hot-plugs a source, and a source that stays idle past the configured
// timeout is unplugged again. A packet with the RTP marker bit set is a
// name announcement instead, its payload the sender's UTF-8 display
// name; senders announce before their first word packet, and a stream
// whose announcement never arrives is named rtp-<ssrc>. Packet loss and
// reordering are tolerated the RTP way: the decoder resynchronizes on
// packet boundaries, so a lost packet costs its own messages only.
package rtpump

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/pion/rtp"

	"github.com/kiro-audio/midi/pkg/driver"
	"github.com/kiro-audio/midi/pkg/midi"
	"github.com/kiro-audio/midi/pkg/ump"
)

// PayloadType is the RTP dynamic payload type used for UMP streams.
const PayloadType = 97

// DefaultIdleTimeout is how long a source may stay silent before it is
// unplugged.
const DefaultIdleTimeout = 30 * time.Second

// ErrServerClosed is returned by Serve after a call to Close.
var ErrServerClosed = errors.New("rtpump: server closed")

// sourceIDSpace keeps RTP source IDs out of the hub's allocated ID
// range.
const sourceIDSpace = uint64(1) << 32

// Driver is a receive-only MIDI driver fed by RTP packets.
type Driver struct {
	*driver.Hub

	// IdleTimeout unplugs sources after this much silence. Zero means
	// DefaultIdleTimeout.
	IdleTimeout time.Duration

	mu         sync.Mutex
	inShutdown bool
	conn       net.PacketConn
	lastSeen   map[uint32]time.Time
}

// New creates an rtpump driver with the given client name.
func New(name string) *Driver {
	return &Driver{
		Hub:      driver.NewHub(name),
		lastSeen: make(map[uint32]time.Time),
	}
}

// ListenAndServe listens for RTP on the UDP address and blocks until
// the driver is closed.
func (d *Driver) ListenAndServe(addr string) error {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return fmt.Errorf("rtpump: listen: %w", err)
	}
	return d.Serve(conn)
}

// Serve receives RTP packets from the connection and blocks until the
// driver is closed.
func (d *Driver) Serve(conn net.PacketConn) error {
	d.mu.Lock()
	if d.inShutdown {
		d.mu.Unlock()
		conn.Close()
		return ErrServerClosed
	}
	d.conn = conn
	d.mu.Unlock()

	stopJanitor := make(chan struct{})
	defer close(stopJanitor)
	go d.janitor(stopJanitor)

	buf := make([]byte, 65536)
	var pkt rtp.Packet
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			d.mu.Lock()
			closed := d.inShutdown
			d.mu.Unlock()
			if closed {
				return ErrServerClosed
			}
			return fmt.Errorf("rtpump: read: %w", err)
		}
		if err := pkt.Unmarshal(buf[:n]); err != nil {
			slog.Debug("rtpump bad packet", "driver", d.Name(), "err", err)
			continue
		}
		if pkt.PayloadType != PayloadType {
			continue
		}
		if pkt.Marker {
			d.announce(&pkt)
			continue
		}
		if len(pkt.Payload)%4 != 0 {
			continue
		}
		d.deliver(&pkt)
	}
}

// announce hot-plugs the SSRC under its announced name. An announcement
// for a known SSRC only refreshes its idle clock; the name is fixed at
// hot-plug time.
func (d *Driver) announce(pkt *rtp.Packet) {
	name := string(pkt.Payload)
	if name == "" || !utf8.ValidString(name) {
		slog.Debug("rtpump bad announcement",
			"driver", d.Name(), "ssrc", fmt.Sprintf("%08x", pkt.SSRC))
		return
	}

	d.mu.Lock()
	_, known := d.lastSeen[pkt.SSRC]
	d.lastSeen[pkt.SSRC] = time.Now()
	d.mu.Unlock()
	if !known {
		d.AddSource(sourceIDSpace|uint64(pkt.SSRC), name)
	}
}

func (d *Driver) deliver(pkt *rtp.Packet) {
	id := sourceIDSpace | uint64(pkt.SSRC)

	d.mu.Lock()
	_, known := d.lastSeen[pkt.SSRC]
	d.lastSeen[pkt.SSRC] = time.Now()
	d.mu.Unlock()
	if !known {
		d.AddSource(id, sourceName(pkt.SSRC))
	}

	words := make([]ump.Word, len(pkt.Payload)/4)
	for i := range words {
		words[i] = ump.Word(pkt.Payload[4*i])<<24 |
			ump.Word(pkt.Payload[4*i+1])<<16 |
			ump.Word(pkt.Payload[4*i+2])<<8 |
			ump.Word(pkt.Payload[4*i+3])
	}
	d.Deliver(id, uint64(time.Now().UnixNano()), words...)
}

func (d *Driver) janitor(stop <-chan struct{}) {
	timeout := d.IdleTimeout
	if timeout <= 0 {
		timeout = DefaultIdleTimeout
	}
	ticker := time.NewTicker(timeout / 4)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			d.mu.Lock()
			var idle []uint32
			for ssrc, seen := range d.lastSeen {
				if now.Sub(seen) > timeout {
					idle = append(idle, ssrc)
					delete(d.lastSeen, ssrc)
				}
			}
			d.mu.Unlock()
			for _, ssrc := range idle {
				d.RemoveSource(sourceIDSpace | uint64(ssrc))
				slog.Debug("rtpump source idle",
					"driver", d.Name(), "ssrc", fmt.Sprintf("%08x", ssrc))
			}
		}
	}
}

// Close shuts the driver down.
func (d *Driver) Close() error {
	d.mu.Lock()
	if d.inShutdown {
		d.mu.Unlock()
		return nil
	}
	d.inShutdown = true
	conn := d.conn
	d.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
	return d.Hub.Close()
}

// SourceID returns the endpoint ID an SSRC maps to.
func SourceID(ssrc uint32) midi.SourceID {
	return sourceIDSpace | uint64(ssrc)
}

func sourceName(ssrc uint32) string {
	return fmt.Sprintf("rtp-%08x", ssrc)
}
