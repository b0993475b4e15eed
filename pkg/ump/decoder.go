package ump

// Protocol selects which message pages a Decoder turns into messages.
// Both protocols run over the same packet framing; the difference is in
// which pages carry channel voice traffic.
type Protocol uint8

const (
	// Protocol1 decodes MIDI 1.0 channel voice messages (type 0x2).
	Protocol1 Protocol = 1
	// Protocol2 decodes MIDI 2.0 channel voice messages (type 0x4) and
	// utility messages (type 0x0).
	Protocol2 Protocol = 2
)

// String returns "midi1" or "midi2".
func (p Protocol) String() string {
	if p == Protocol1 {
		return "midi1"
	}
	return "midi2"
}

// Decoder is a streaming UMP decoder. Feed it one word at a time; when a
// word completes a packet the decoder emits the decoded message, if the
// packet decodes under the configured protocol and passes the filter.
//
// The decoder holds at most one partial packet and resets after every
// complete packet, so a single instance handles an unbounded stream.
// Packets of unknown or undecoded pages are consumed and dropped; the
// decoder never desynchronizes. A Decoder is not safe for concurrent
// use.
type Decoder struct {
	protocol Protocol
	packet   [4]Word
	index    int
	length   int
}

// NewDecoder creates a streaming decoder for the given protocol.
func NewDecoder(p Protocol) *Decoder {
	return &Decoder{protocol: p}
}

// Protocol returns the protocol the decoder was created with.
func (d *Decoder) Protocol() Protocol { return d.protocol }

// Feed consumes one word. It returns the decoded message and true when
// the word completes a packet that decodes under the configured protocol
// and passes the filter f. The filter is checked before decoding: first
// the message type and group, then the channel for channel voice pages.
func (d *Decoder) Feed(w Word, f Filter) (Message, bool) {
	if d.index == 0 {
		t, _ := extract(w)
		d.length = t.Len()
	}
	d.packet[d.index] = w
	d.index++

	if d.index < d.length {
		return Message{}, false
	}

	t, group := extract(d.packet[0])
	var msg Message
	var ok bool
	if f.Type(t) && f.Group(group) {
		msg, ok = d.decode(t, group, f)
	}
	d.reset()
	return msg, ok
}

// Reset drops any partial packet. Call it when the word stream itself
// restarts, e.g. after a transport reconnect.
func (d *Decoder) Reset() {
	d.reset()
}

func (d *Decoder) reset() {
	d.index = 0
	d.length = 0
}

func (d *Decoder) decode(t Type, group uint8, f Filter) (Message, bool) {
	switch t {
	case TypeUtility:
		if d.protocol != Protocol2 {
			return Message{}, false
		}
		return Message{Group: group, Data: decodeUtility(d.packet[0])}, true

	case TypeSystem:
		s, ok := decodeSystem(d.packet[0])
		if !ok {
			return Message{}, false
		}
		return Message{Group: group, Data: s}, true

	case TypeChannelVoice1:
		if d.protocol != Protocol1 {
			return Message{}, false
		}
		cv, ok := decodeChannelVoice1(d.packet[0])
		if !ok || !f.Channel(group, cv.Channel) {
			return Message{}, false
		}
		return Message{Group: group, Data: cv}, true

	case TypeChannelVoice2:
		if d.protocol != Protocol2 {
			return Message{}, false
		}
		cv, ok := decodeChannelVoice2(d.packet[0], d.packet[1])
		if !ok || !f.Channel(group, cv.Channel) {
			return Message{}, false
		}
		return Message{Group: group, Data: cv}, true
	}
	return Message{}, false
}
