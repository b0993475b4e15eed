package ump

// Filter selects messages by type, group and channel. It is applied by
// the Decoder before a packet is decoded, so filtered traffic costs only
// a couple of mask checks per packet.
//
// The zero value passes everything: a zero mask means "no restriction".
// Filters are small value types; copying one is cheap and a copy is
// immutable from the writer's point of view, which lets drivers swap a
// source's filter without locking the decode path.
type Filter struct {
	// Types is a bitmask of allowed message types, bit n for Type(n).
	// Zero allows all types.
	Types uint16

	// Groups is a bitmask of allowed groups, bit n for group n.
	// Zero allows all groups.
	Groups uint16

	// Channels holds one bitmask of allowed channels per group.
	// A zero mask allows all channels of that group.
	Channels [16]uint16
}

// WithTypes returns a copy of the filter restricted to the given message
// types in addition to any types already allowed.
func (f Filter) WithTypes(types ...Type) Filter {
	for _, t := range types {
		f.Types |= 1 << uint8(t)
	}
	return f
}

// WithGroups returns a copy of the filter restricted to the given groups
// in addition to any groups already allowed.
func (f Filter) WithGroups(groups ...uint8) Filter {
	for _, g := range groups {
		f.Groups |= 1 << (g & 0x0f)
	}
	return f
}

// WithChannels returns a copy of the filter restricted, within one
// group, to the given channels in addition to any channels already
// allowed for that group.
func (f Filter) WithChannels(group uint8, channels ...uint8) Filter {
	for _, ch := range channels {
		f.Channels[group&0x0f] |= 1 << (ch & 0x0f)
	}
	return f
}

// WithoutTypes returns a copy of the filter with the given message
// types removed from the allowed set. Removing the last allowed type
// empties the mask, which passes all types again.
func (f Filter) WithoutTypes(types ...Type) Filter {
	for _, t := range types {
		f.Types &^= 1 << uint8(t)
	}
	return f
}

// WithoutGroups returns a copy of the filter with the given groups
// removed from the allowed set. Removing the last allowed group empties
// the mask, which passes all groups again.
func (f Filter) WithoutGroups(groups ...uint8) Filter {
	for _, g := range groups {
		f.Groups &^= 1 << (g & 0x0f)
	}
	return f
}

// WithoutChannels returns a copy of the filter with the given channels
// removed from one group's allowed set. Removing the group's last
// allowed channel empties its mask, which passes all channels of that
// group again.
func (f Filter) WithoutChannels(group uint8, channels ...uint8) Filter {
	for _, ch := range channels {
		f.Channels[group&0x0f] &^= 1 << (ch & 0x0f)
	}
	return f
}

// Type reports whether messages of type t pass the filter.
func (f Filter) Type(t Type) bool {
	return f.Types == 0 || f.Types&(1<<uint8(t)) != 0
}

// Group reports whether messages of group g pass the filter.
func (f Filter) Group(g uint8) bool {
	return f.Groups == 0 || f.Groups&(1<<(g&0x0f)) != 0
}

// Channel reports whether channel voice messages on the given group and
// channel pass the filter.
func (f Filter) Channel(group, channel uint8) bool {
	m := f.Channels[group&0x0f]
	return m == 0 || m&(1<<(channel&0x0f)) != 0
}
