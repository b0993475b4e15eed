// Package netump implements a network MIDI driver carrying UMP words
// over WebSocket.
//
// A remote device dials the server, announces itself with a small JSON
// hello, and then exchanges binary frames of big-endian 32-bit UMP
// words. Every session becomes a hot-plugged source and destination of
// the driver: words received from the session are decoded and routed to
// the driver's inputs, and messages sent to the session's destination
// ID are delivered to the device.
package netump

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kiro-audio/midi/pkg/driver"
	"github.com/kiro-audio/midi/pkg/ump"
)

// DefaultPath is the HTTP path the driver serves the WebSocket endpoint
// on.
const DefaultPath = "/ump"

// ErrServerClosed is returned by Serve after a call to Close.
var ErrServerClosed = errors.New("netump: server closed")

// hello is the first message of a session, sent as JSON by the client.
type hello struct {
	// Name is the endpoint name the session's source and destination
	// are announced under.
	Name string `json:"name"`
}

// Driver is a MIDI driver backed by a WebSocket server. Create one with
// New, then run it with Serve or ListenAndServe.
type Driver struct {
	*driver.Hub

	upgrader websocket.Upgrader

	mu         sync.Mutex
	inShutdown bool
	listeners  map[net.Listener]struct{}
	sessions   map[*session]struct{}
}

// New creates a netump driver with the given client name.
func New(name string) *Driver {
	return &Driver{
		Hub: driver.NewHub(name),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		listeners: make(map[net.Listener]struct{}),
		sessions:  make(map[*session]struct{}),
	}
}

// Handler returns the http.Handler accepting device sessions. Mount it
// when embedding the driver into an existing server; otherwise use
// Serve or ListenAndServe.
func (d *Driver) Handler() http.Handler {
	return http.HandlerFunc(d.handleSession)
}

// ListenAndServe listens on addr and serves device sessions on
// DefaultPath. It blocks until the driver is closed.
func (d *Driver) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("netump: listen: %w", err)
	}
	return d.Serve(ln)
}

// Serve accepts device sessions on the listener at DefaultPath. It
// blocks until the driver is closed.
func (d *Driver) Serve(ln net.Listener) error {
	d.mu.Lock()
	if d.inShutdown {
		d.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	d.listeners[ln] = struct{}{}
	d.mu.Unlock()

	mux := http.NewServeMux()
	mux.Handle(DefaultPath, d.Handler())
	err := (&http.Server{Handler: mux}).Serve(ln)

	d.mu.Lock()
	delete(d.listeners, ln)
	closed := d.inShutdown
	d.mu.Unlock()
	if closed {
		return ErrServerClosed
	}
	return err
}

func (d *Driver) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := d.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("netump upgrade failed", "driver", d.Name(), "err", err)
		return
	}

	var h hello
	if err := conn.ReadJSON(&h); err != nil || h.Name == "" {
		slog.Debug("netump bad hello", "driver", d.Name(), "err", err)
		conn.Close()
		return
	}

	s := &session{conn: conn, id: d.AllocateID(), name: h.Name}
	d.mu.Lock()
	if d.inShutdown {
		d.mu.Unlock()
		conn.Close()
		return
	}
	d.sessions[s] = struct{}{}
	d.mu.Unlock()

	d.AddSource(s.id, s.name)
	d.AddDestination(s.id, s.name, s)
	slog.Debug("netump session started",
		"driver", d.Name(), "name", s.name, "id", s.id, "remote", conn.RemoteAddr())

	d.readLoop(s)

	d.RemoveSource(s.id)
	d.RemoveDestination(s.id)
	d.mu.Lock()
	delete(d.sessions, s)
	d.mu.Unlock()
	conn.Close()
	slog.Debug("netump session ended", "driver", d.Name(), "name", s.name, "id", s.id)
}

// readLoop delivers incoming frames until the session dies. One
// goroutine per session satisfies the hub's single-deliverer rule.
func (d *Driver) readLoop(s *session) {
	for {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.BinaryMessage {
			continue
		}
		words, err := decodeFrame(data)
		if err != nil {
			slog.Debug("netump bad frame",
				"driver", d.Name(), "name", s.name, "err", err)
			continue
		}
		d.Deliver(s.id, uint64(time.Now().UnixNano()), words...)
	}
}

// Close shuts the driver down: all listeners and sessions are closed.
func (d *Driver) Close() error {
	d.mu.Lock()
	if d.inShutdown {
		d.mu.Unlock()
		return nil
	}
	d.inShutdown = true
	for ln := range d.listeners {
		ln.Close()
	}
	for s := range d.sessions {
		s.conn.Close()
	}
	d.mu.Unlock()
	return d.Hub.Close()
}

// session is one device connection, acting as both a source and a
// destination.
type session struct {
	id   uint64
	name string

	writeMu sync.Mutex
	conn    *websocket.Conn
}

// WriteWords implements driver.WordWriter.
func (s *session) WriteWords(words ...ump.Word) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.BinaryMessage, encodeFrame(words)); err != nil {
		return fmt.Errorf("netump: write: %w", err)
	}
	return nil
}

// encodeFrame packs words into a binary frame, big-endian.
func encodeFrame(words []ump.Word) []byte {
	data := make([]byte, 4*len(words))
	for i, w := range words {
		binary.BigEndian.PutUint32(data[4*i:], w)
	}
	return data
}

// decodeFrame unpacks a binary frame into words.
func decodeFrame(data []byte) ([]ump.Word, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("netump: frame length %d not word aligned", len(data))
	}
	words := make([]ump.Word, len(data)/4)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(data[4*i:])
	}
	return words, nil
}
