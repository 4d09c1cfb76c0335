package eac3_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/bluenviron/mediacommon/pkg/codecs/ac3"
	"github.com/gen2brain/eac3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reencode encodes h and appends the unread payload of c.
func reencode(t *testing.T, h *eac3.Header, c *eac3.BitCursor) []byte {
	t.Helper()

	w, err := h.Encode()
	require.NoError(t, err)

	for c.Remaining() > 0 {
		n := c.Remaining()
		if n > 32 {
			n = 32
		}
		w.WriteBits(c.ReadBits(n), n)
	}

	return w.Bytes()
}

func TestDecodeEnhanced(t *testing.T) {
	frame := eac3Frame()

	var h eac3.Header
	c, err := h.Decode(feedOf(frame))
	require.NoError(t, err)

	assert.Equal(t, eac3.StreamIndependent, h.StreamType)
	assert.Equal(t, 0, h.SubstreamID)
	assert.Equal(t, 384, h.WordsPerSyncframe)
	assert.Equal(t, 0, h.SampleRateCode)
	assert.Equal(t, 6, h.Blocks)
	assert.Equal(t, 7, h.ChannelMode)
	assert.True(t, h.LFE)
	assert.Equal(t, eac3.DecoderEnhancedAC3, h.Decoder)
	assert.False(t, h.ChannelMapping().Present)

	assert.Equal(t, 48000, h.SampleRate())
	assert.Equal(t, 768, h.FrameSize())
	assert.Equal(t, 1536, h.Samples())
	assert.Equal(t, 6, h.ChannelCount())

	// The first 5 bytes were dropped when the frame was completed
	assert.Equal(t, 14, c.Position())
	assert.Equal(t, 6104, c.BackPosition())

	arrangement, err := h.ChannelArrangement()
	require.NoError(t, err)
	assert.Equal(t, []eac3.Channel{eac3.FrontLeft, eac3.FrontCenter, eac3.FrontRight, eac3.SideLeft, eac3.SideRight}, arrangement)

	assert.Equal(t, frame, reencode(t, &h, c))
}

func TestDecodeLegacy(t *testing.T) {
	frame := ac3Frame()

	var h eac3.Header
	c, err := h.Decode(feedOf(frame))
	require.NoError(t, err)

	assert.Equal(t, eac3.DecoderAC3, h.Decoder)
	assert.Equal(t, eac3.StreamRepackaged, h.StreamType)
	assert.Equal(t, 0, h.SubstreamID)
	assert.Equal(t, 768, h.WordsPerSyncframe)
	assert.Equal(t, 28, h.FrameSizeCode())
	assert.Equal(t, 6, h.Blocks)
	assert.Equal(t, 7, h.ChannelMode)
	assert.True(t, h.LFE)
	assert.Equal(t, 0, h.BitstreamMode())

	// 69 header bits, of which 48 were dropped
	assert.Equal(t, 21, c.Position())

	assert.Equal(t, frame, reencode(t, &h, c))
}

func TestDecodeSequence(t *testing.T) {
	first := encodeFrame(t, monoHeader(100), 1)
	second := eac3Frame()

	feed := feedOf(first, second, make([]byte, 64))

	var h eac3.Header
	_, err := h.Decode(feed)
	require.NoError(t, err)
	assert.Equal(t, 100, h.WordsPerSyncframe)
	assert.Equal(t, 1, h.ChannelMode)

	_, err = h.Decode(feed)
	require.NoError(t, err)
	assert.Equal(t, 384, h.WordsPerSyncframe)
	assert.Equal(t, 7, h.ChannelMode)

	// Zero padding after the last frame
	_, err = h.Decode(feed)
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecodeEndOfData(t *testing.T) {
	var h eac3.Header

	_, err := h.Decode(feedOf())
	assert.ErrorIs(t, err, io.EOF)

	_, err = h.Decode(feedOf(make([]byte, 7)))
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		frame  []byte
		target any
	}{
		{"sync", []byte{0x0B, 0x78, 0x00, 0x1F, 0x32, 0x80, 0x00}, new(*eac3.SyncError)},
		{"stream type", []byte{0x0B, 0x77, 0xC0, 0x1F, 0x32, 0x80, 0x00}, new(*eac3.ReservedValueError)},
		{"sample rate", []byte{0x0B, 0x77, 0x00, 0x1F, 0xF2, 0x80, 0x00}, new(*eac3.ReservedValueError)},
		{"frame size code", []byte{0x0B, 0x77, 0x00, 0x00, 0x26, 0x40, 0x00}, new(*eac3.ReservedValueError)},
		{"decoder", []byte{0x0B, 0x77, 0x00, 0x1F, 0x32, 0xA0, 0x00}, new(*eac3.UnsupportedFeatureError)},
		{"short frame", []byte{0x0B, 0x77, 0x00, 0x01, 0x32, 0x80, 0x00}, new(*eac3.CorruptionError)},
		{"truncated", []byte{0x0B, 0x77, 0x00, 0x1F, 0x32, 0x80, 0x00}, new(*eac3.CorruptionError)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := tt.frame
			if tt.name != "truncated" {
				frame = append(bytes.Clone(frame), make([]byte, 57)...)
			}

			var h eac3.Header
			_, err := h.Decode(feedOf(frame))
			assert.ErrorAs(t, err, tt.target)
		})
	}
}

func TestSyncErrorWord(t *testing.T) {
	var h eac3.Header
	_, err := h.Decode(feedOf([]byte{0x12, 0x34, 0, 0, 0, 0, 0}))

	var syncErr *eac3.SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, uint16(0x1234), syncErr.Word)
}

func TestEncodeDependent(t *testing.T) {
	h := monoHeader(64)
	h.StreamType = eac3.StreamDependent
	h.SubstreamID = 10
	h.LFE = true
	require.NoError(t, h.SetChannelArrangement([]eac3.Channel{eac3.FrontRight, eac3.ScreenLFE}))
	assert.Equal(t, 66, h.WordsPerSyncframe)

	frame := encodeFrame(t, h, 3)

	var decoded eac3.Header
	_, err := decoded.Decode(feedOf(frame))
	require.NoError(t, err)

	assert.Equal(t, eac3.StreamDependent, decoded.StreamType)
	assert.Equal(t, 10, decoded.SubstreamID)
	assert.Equal(t, 66, decoded.WordsPerSyncframe)
	assert.Equal(t, eac3.Some(0x2001), decoded.ChannelMapping())

	arrangement, err := decoded.ChannelArrangement()
	require.NoError(t, err)
	assert.Equal(t, []eac3.Channel{eac3.FrontRight}, arrangement)
}

func TestEncodeLegacyVariant(t *testing.T) {
	// bsid 6 frames keep their decoder id
	frame := ac3Frame()
	frame[5] = 0x30 | frame[5]&0x07

	var h eac3.Header
	c, err := h.Decode(feedOf(frame))
	require.NoError(t, err)
	assert.Equal(t, eac3.DecoderAlternateAC3, h.Decoder)

	assert.Equal(t, frame, reencode(t, &h, c))
}

func TestEncodeInvalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(h *eac3.Header)
	}{
		{"stream type", func(h *eac3.Header) { h.StreamType = eac3.StreamReserved }},
		{"sample rate", func(h *eac3.Header) { h.SampleRateCode = 3 }},
		{"blocks", func(h *eac3.Header) { h.Blocks = 4 }},
		{"channel mode", func(h *eac3.Header) { h.ChannelMode = 8 }},
		{"frame size", func(h *eac3.Header) { h.WordsPerSyncframe = 2049 }},
		{"substream", func(h *eac3.Header) { h.SubstreamID = 16 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := monoHeader(100)
			tt.modify(h)

			_, err := h.Encode()
			assert.Error(t, err)
		})
	}
}

func TestHeaderString(t *testing.T) {
	var h eac3.Header
	_, err := h.Decode(feedOf(eac3Frame()))
	require.NoError(t, err)

	assert.Equal(t, "E-AC-3 independent substream 0, 768 bytes, 48000 Hz, 6 blocks, mode 7+LFE", h.String())
}

func TestLegacyFrameSizes(t *testing.T) {
	for fscod := 0; fscod < 3; fscod++ {
		for code := 0; code < 38; code++ {
			prefix := []byte{0x0B, 0x77, 0x00, 0x00, byte(fscod<<6 | code), 0x40, 0x00}

			var info ac3.SyncInfo
			require.NoError(t, info.Unmarshal(prefix))

			frame := append(prefix, make([]byte, info.FrameSize()-len(prefix))...)

			var h eac3.Header
			_, err := h.Decode(feedOf(frame))
			require.NoError(t, err, "fscod %d, frame size code %d", fscod, code)

			assert.Equal(t, info.FrameSize(), h.FrameSize(), "fscod %d, frame size code %d", fscod, code)
			assert.Equal(t, info.SampleRate(), h.SampleRate())
			assert.Equal(t, code, h.FrameSizeCode())
			assert.Equal(t, h.Blocks*eac3.SamplesPerBlock, ac3.SamplesPerFrame)
		}
	}
}
