package eac3_test

import (
	"bytes"
	"testing"

	"github.com/gen2brain/eac3"
	"github.com/stretchr/testify/require"
)

// eac3Frame is a 768 byte independent E-AC-3 5.1 frame at 48 kHz with 6 blocks,
// dialnorm 27 and no optional metadata. The header ends at bit 54.
func eac3Frame() []byte {
	frame := sequence(768)
	copy(frame, []byte{0x0B, 0x77, 0x01, 0x7F, 0x3F, 0x86})
	frame[6] = 0xC0 | frame[6]&0x03

	return frame
}

// ac3Frame is a 1536 byte AC-3 3/2 frame with LFE at 48 kHz (frame size code 28),
// crc1 0xABCD, dialnorm 27 and copyright flags set. The header ends at bit 69.
func ac3Frame() []byte {
	frame := sequence(1536)
	copy(frame, []byte{0x0B, 0x77, 0xAB, 0xCD, 0x1C, 0x40, 0xE5, 0xD8})
	frame[8] = 0xC0 | frame[8]&0x07

	return frame
}

// monoHeader returns the header of an independent single channel E-AC-3 frame.
func monoHeader(words int) *eac3.Header {
	return &eac3.Header{
		StreamType:        eac3.StreamIndependent,
		WordsPerSyncframe: words,
		Blocks:            6,
		ChannelMode:       1,
		Decoder:           eac3.DecoderEnhancedAC3,
	}
}

// encodeFrame encodes h followed by a recognizable payload filling the frame.
func encodeFrame(t *testing.T, h *eac3.Header, seed byte) []byte {
	t.Helper()

	w, err := h.Encode()
	require.NoError(t, err)

	for i := 0; w.Len() < h.WordsPerSyncframe*16; i++ {
		n := h.WordsPerSyncframe*16 - w.Len()
		if n > 8 {
			n = 8
		}
		w.WriteBits(uint32(seed)+uint32(i)*31, n)
	}

	return w.Bytes()
}

// feedOf returns a feed over data delivered in chunks of 100 bytes.
func feedOf(data ...[]byte) *eac3.ChunkFeed {
	return eac3.NewChunkFeed(chunkFetch(bytes.Join(data, nil), 100), nil)
}

// readBits reads n bits from c into bytes of 8 bits, the last one holding the rest.
func readBits(c *eac3.BitCursor, n int) []byte {
	var out []byte
	for n > 0 {
		k := n
		if k > 8 {
			k = 8
		}
		out = append(out, byte(c.ReadBits(k)))
		n -= k
	}

	return out
}
