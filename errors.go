package eac3

import (
	"fmt"
	"strings"
)

// SyncError is returned when a frame does not start with the syncword.
// A zero word is not a SyncError, it marks the end of the stream.
type SyncError struct {
	Word uint16
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("eac3: invalid syncword 0x%04X", e.Word)
}

// ReservedValueError is returned when a field holds a value reserved by the format.
type ReservedValueError struct {
	Field string
	Value int
}

func (e *ReservedValueError) Error() string {
	return fmt.Sprintf("eac3: reserved %s %d", e.Field, e.Value)
}

// UnsupportedFeatureError is returned for valid streams using features this
// package does not handle.
type UnsupportedFeatureError struct {
	Feature string
}

func (e *UnsupportedFeatureError) Error() string {
	return "eac3: unsupported " + e.Feature
}

// CorruptionError is returned when decoded values contradict each other.
type CorruptionError struct {
	Reason string
}

func (e *CorruptionError) Error() string {
	return "eac3: corrupted stream: " + e.Reason
}

// InvalidChannelError lists every requested channel that cannot be expressed
// with a custom channel mapping.
type InvalidChannelError struct {
	Channels []Channel
}

func (e *InvalidChannelError) Error() string {
	return "eac3: channels not available in custom mapping: " + joinChannels(e.Channels)
}

// InvalidChannelOrderError lists every requested channel that can be mapped,
// but not in the requested order.
type InvalidChannelOrderError struct {
	Channels []Channel
}

func (e *InvalidChannelOrderError) Error() string {
	return "eac3: channels out of custom mapping order: " + joinChannels(e.Channels)
}

func joinChannels(channels []Channel) string {
	names := make([]string, len(channels))
	for i, c := range channels {
		names[i] = c.String()
	}

	return strings.Join(names, ", ")
}
