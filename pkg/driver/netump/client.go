package netump

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kiro-audio/midi/pkg/queue"
	"github.com/kiro-audio/midi/pkg/ump"
)

// Client is the device side of a netump session: it streams UMP words
// to a netump driver and receives words the driver sends back.
type Client struct {
	name string

	writeMu sync.Mutex
	conn    *websocket.Conn

	recv *queue.Ring[ump.Word]

	closeOnce sync.Once
}

// Dial connects to a netump driver at url (e.g.
// "ws://host:port/ump") and announces the session under the given
// endpoint name.
func Dial(ctx context.Context, url, name string) (*Client, error) {
	if name == "" {
		return nil, fmt.Errorf("netump: empty session name")
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("netump: dial %s: %w", url, err)
	}
	if err := conn.WriteJSON(hello{Name: name}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("netump: send hello: %w", err)
	}

	c := &Client{
		name: name,
		conn: conn,
		recv: queue.NewRing[ump.Word](4096),
	}
	go c.readLoop()
	return c, nil
}

// Name returns the session's endpoint name.
func (c *Client) Name() string { return c.name }

// SendWords streams raw UMP words to the driver.
func (c *Client) SendWords(words ...ump.Word) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteMessage(websocket.BinaryMessage, encodeFrame(words)); err != nil {
		return fmt.Errorf("netump: write: %w", err)
	}
	return nil
}

// SendMessage encodes messages and streams their words to the driver.
func (c *Client) SendMessage(msgs ...ump.Message) error {
	var words []ump.Word
	for _, msg := range msgs {
		words = append(words, msg.Words()...)
	}
	if len(words) == 0 {
		return nil
	}
	return c.SendWords(words...)
}

// Words returns the queue of words the driver has sent to this session.
func (c *Client) Words() *queue.Ring[ump.Word] {
	return c.recv
}

// Messages decodes the words the driver sends to this session with a
// fresh decoder and delivers them to the callback until the session
// ends. It blocks; run it on its own goroutine.
func (c *Client) Messages(p ump.Protocol, f ump.Filter, fn func(ump.Message)) {
	dec := ump.NewDecoder(p)
	for w := range c.recv.All() {
		if msg, ok := dec.Feed(w, f); ok {
			fn(msg)
		}
	}
}

func (c *Client) readLoop() {
	defer c.recv.CloseWrite()
	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.BinaryMessage {
			continue
		}
		words, err := decodeFrame(data)
		if err != nil {
			continue
		}
		for _, w := range words {
			c.recv.Add(w)
		}
	}
}

// Close ends the session.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}
