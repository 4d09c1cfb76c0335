package eac3

import (
	"fmt"
	"slices"
)

// Channels of each channel mode (acmod), in bitstream order.
var channelArrangements = [8][]Channel{
	{FrontLeft, FrontRight}, // 1+1 dual mono
	{FrontCenter},
	{FrontLeft, FrontRight},
	{FrontLeft, FrontCenter, FrontRight},
	{FrontLeft, FrontRight, RearCenter},
	{FrontLeft, FrontCenter, FrontRight, RearCenter},
	{FrontLeft, FrontRight, SideLeft, SideRight},
	{FrontLeft, FrontCenter, FrontRight, SideLeft, SideRight},
}

// Channels of each custom channel mapping location. Location i is bit 15-i of
// the chanmap field, so channels follow each other in location order.
var mappingTargets = [16][]Channel{
	{FrontLeft},
	{FrontCenter},
	{FrontRight},
	{SideLeft},
	{SideRight},
	{FrontLeftCenter, FrontRightCenter},
	{RearLeft, RearRight},
	{RearCenter},
	{GodsVoice},
	{SurroundDirectLeft, SurroundDirectRight},
	{WideLeft, WideRight},
	{TopFrontLeft, TopFrontRight},
	{TopFrontCenter},
	{TopSideLeft, TopSideRight},
	{ScreenLFE2},
	{ScreenLFE},
}

// mappingLocation returns the custom channel mapping location of a channel, or -1.
func mappingLocation(c Channel) int {
	for location, targets := range mappingTargets {
		if slices.Contains(targets, c) {
			return location
		}
	}

	return -1
}

// ChannelArrangement returns the channels of the frame in bitstream order,
// without the LFE channel. The result is a new slice on every call.
func (h *Header) ChannelArrangement() ([]Channel, error) {
	if h.ChannelMode < 0 || h.ChannelMode >= len(channelArrangements) {
		return nil, &CorruptionError{Reason: fmt.Sprintf("invalid channel mode %d", h.ChannelMode)}
	}

	base := channelArrangements[h.ChannelMode]
	if !h.channelMapping.Present {
		return slices.Clone(base), nil
	}

	return resolveMapping(uint16(h.channelMapping.Value), base)
}

// resolveMapping writes the channels of the set bits of a mapping over a copy of
// base. Slots the mapping does not fill keep their channel from base. The LFE
// bit (bit 0) is not resolved, it is signalled by the LFE flag.
func resolveMapping(mapping uint16, base []Channel) ([]Channel, error) {
	channels := slices.Clone(base)
	slots := len(base)

	n := 0
	for bit := 15; bit > 0; bit-- {
		if (mapping>>bit)&1 == 0 {
			continue
		}

		for _, c := range mappingTargets[15-bit] {
			if n == slots {
				return nil, &CorruptionError{
					Reason: fmt.Sprintf("channel mapping 0x%04X has more channels than the %d of its channel mode", mapping, slots),
				}
			}

			channels[n] = c
			n++
		}
	}

	return channels, nil
}

// plainArrangement returns the channels of the channel mode with LFE appended.
func (h *Header) plainArrangement() []Channel {
	plain := slices.Clone(channelArrangements[h.ChannelMode])
	if h.LFE {
		plain = append(plain, ScreenLFE)
	}

	return plain
}

// SetChannelArrangement makes the frame carry the channels of layout, in order.
// The LFE channel is included in layout when the frame has one.
//
// If the channel mode already describes layout, the custom channel mapping is
// removed. Otherwise a custom mapping is created, which makes the header 2 words
// longer if it had no mapping before. Only E-AC-3 frames carry a mapping, other
// decoders give an UnsupportedFeatureError. Channels that cannot be mapped result in an
// InvalidChannelError, channels not following the mapping order in an
// InvalidChannelOrderError, each listing all offending channels.
func (h *Header) SetChannelArrangement(layout []Channel) error {
	if h.ChannelMode < 0 || h.ChannelMode >= len(channelArrangements) {
		return &CorruptionError{Reason: fmt.Sprintf("invalid channel mode %d", h.ChannelMode)}
	}
	if h.Decoder != DecoderEnhancedAC3 {
		return &UnsupportedFeatureError{Feature: fmt.Sprintf("channel mapping in %s frames", h.Decoder)}
	}

	if slices.Equal(layout, h.plainArrangement()) {
		h.channelMapping = Optional{}

		return nil
	}

	var (
		mapping   uint16
		last      = -1
		invalid   []Channel
		misplaced []Channel
		discrete  []Channel
	)
	for _, c := range layout {
		location := mappingLocation(c)
		if location == -1 {
			invalid = append(invalid, c)

			continue
		}
		if location < last {
			misplaced = append(misplaced, c)

			continue
		}

		last = location
		mapping |= 1 << (15 - location)
		if c != ScreenLFE {
			discrete = append(discrete, c)
		}
	}

	if len(invalid) != 0 {
		return &InvalidChannelError{Channels: invalid}
	}
	if len(misplaced) != 0 {
		return &InvalidChannelOrderError{Channels: misplaced}
	}

	base := channelArrangements[h.ChannelMode]
	slots := len(base)
	resolved, err := resolveMapping(mapping, base)
	if err != nil {
		return err
	}
	if len(discrete) != slots {
		return &CorruptionError{
			Reason: fmt.Sprintf("%d channels do not fill the %d channels of channel mode %d", len(discrete), slots, h.ChannelMode),
		}
	}

	// Pairs resolve in a fixed order
	if !slices.Equal(resolved, discrete) {
		var swapped []Channel
		for i, c := range discrete {
			if resolved[i] != c {
				swapped = append(swapped, c)
			}
		}

		return &InvalidChannelOrderError{Channels: swapped}
	}

	if !h.channelMapping.Present {
		h.WordsPerSyncframe += 2
	}
	h.channelMapping = Some(uint32(mapping))

	return nil
}
