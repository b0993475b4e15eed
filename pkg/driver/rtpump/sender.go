package rtpump

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/pion/rtp"

	"github.com/kiro-audio/midi/pkg/ump"
)

// Sender streams UMP words to an rtpump driver as RTP packets. It is
// the device side of the transport.
type Sender struct {
	ssrc  uint32
	epoch time.Time

	mu   sync.Mutex
	conn net.Conn
	seq  uint16
}

// NewSender dials the driver's UDP address and sends under the given
// SSRC.
func NewSender(addr string, ssrc uint32) (*Sender, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("rtpump: dial %s: %w", addr, err)
	}
	return &Sender{ssrc: ssrc, epoch: time.Now(), conn: conn}, nil
}

// SSRC returns the sender's SSRC.
func (s *Sender) SSRC() uint32 { return s.ssrc }

// Announce sends a marker-bit packet carrying the sender's display
// name. UDP gives no delivery guarantee, so re-announcing is harmless
// and senders typically announce a few times before their first words.
func (s *Sender) Announce(name string) error {
	if name == "" {
		return fmt.Errorf("rtpump: empty announcement name")
	}
	return s.send(true, []byte(name))
}

// SendWords sends one RTP packet carrying the words.
func (s *Sender) SendWords(words ...ump.Word) error {
	if len(words) == 0 {
		return nil
	}
	payload := make([]byte, 4*len(words))
	for i, w := range words {
		payload[4*i] = byte(w >> 24)
		payload[4*i+1] = byte(w >> 16)
		payload[4*i+2] = byte(w >> 8)
		payload[4*i+3] = byte(w)
	}
	return s.send(false, payload)
}

func (s *Sender) send(marker bool, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	pkt := rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			Marker:         marker,
			PayloadType:    PayloadType,
			SequenceNumber: s.seq,
			Timestamp:      uint32(time.Since(s.epoch) / time.Millisecond),
			SSRC:           s.ssrc,
		},
		Payload: payload,
	}
	data, err := pkt.Marshal()
	if err != nil {
		return fmt.Errorf("rtpump: marshal packet: %w", err)
	}
	if _, err := s.conn.Write(data); err != nil {
		return fmt.Errorf("rtpump: send: %w", err)
	}
	return nil
}

// SendMessage encodes messages and sends their words in one packet.
func (s *Sender) SendMessage(msgs ...ump.Message) error {
	var words []ump.Word
	for _, msg := range msgs {
		words = append(words, msg.Words()...)
	}
	return s.SendWords(words...)
}

// Close closes the sender's socket.
func (s *Sender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}
