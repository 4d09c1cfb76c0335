package eac3_test

import (
	"testing"

	"github.com/gen2brain/eac3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitCursorWidths(t *testing.T) {
	const value = uint32(0xDEADBEEF)

	for bits := 1; bits <= 32; bits++ {
		// Odd offsets make every field straddle byte boundaries
		for offset := 0; offset < 8; offset += 3 {
			w := eac3.NewBitWriter(0)
			w.WriteBits(0x5, offset)
			w.WriteBits(value, bits)
			w.WriteBits(0x3, 2)

			c := eac3.NewBitCursor(w.Bytes())
			c.Skip(offset)

			want := value
			if bits < 32 {
				want &= 1<<bits - 1
			}
			assert.Equal(t, want, c.PeekBits(bits), "peek %d bits at %d", bits, offset)
			assert.Equal(t, want, c.ReadBits(bits), "read %d bits at %d", bits, offset)
			assert.Equal(t, offset+bits, c.Position())
			assert.Equal(t, uint32(0x3), c.ReadBits(2))
		}
	}
}

func TestBitCursorSigned(t *testing.T) {
	for bits := 1; bits <= 32; bits++ {
		w := eac3.NewBitWriter(0)
		w.WriteBits(0xFFFFFFFF, bits)
		w.WriteBits(1<<(bits-1), bits)
		if bits > 1 {
			w.WriteBits(1<<(bits-1)-1, bits)
		}

		c := eac3.NewBitCursor(w.Bytes())
		assert.Equal(t, int32(-1), c.ReadSigned(bits), "all ones, %d bits", bits)

		var minimum int64 = -(1 << (bits - 1))
		assert.Equal(t, int32(minimum), c.ReadSigned(bits), "minimum, %d bits", bits)

		if bits > 1 {
			var maximum int64 = 1<<(bits-1) - 1
			assert.Equal(t, int32(maximum), c.ReadSigned(bits), "maximum, %d bits", bits)
		}
	}

	c := eac3.NewBitCursor([]byte{0xA0})
	assert.Equal(t, int32(0), c.ReadSigned(0))
	assert.Equal(t, int32(-6), c.ReadSigned(4))
}

func TestBitCursorFlags(t *testing.T) {
	// 1 | 0110 1001 | 0 | 1 | 0
	c := eac3.NewBitCursor([]byte{0xB4, 0xA0})

	assert.Equal(t, eac3.Some(0x69), c.ReadConditional(8))
	assert.Equal(t, eac3.Optional{}, c.ReadConditional(8))
	assert.True(t, c.ReadBit())
	assert.Equal(t, 0, c.ReadBitInt())
	assert.Equal(t, 4, c.Remaining())
}

func TestBitCursorBytes(t *testing.T) {
	data := []byte{0x12, 0x34, 0x56, 0x78, 0x9A}

	c := eac3.NewBitCursor(data)
	assert.Equal(t, []byte{0x12, 0x34}, c.ReadBytes(2))

	c.Skip(4)
	assert.Equal(t, []byte{0x67, 0x89}, c.ReadBytes(2))

	dst := []byte{0xFF}
	c.SetPosition(0)
	assert.Equal(t, []byte{0xFF, 0x12, 0x34, 0x56}, c.AppendBytes(dst, 3))
}

func TestBitCursorLimit(t *testing.T) {
	c := eac3.NewBitCursorLimit([]byte{1, 2, 3, 4}, 2)

	assert.Equal(t, 16, c.BackPosition())
	assert.Equal(t, uint32(0x0102), c.ReadBits(16))
	assert.Panics(t, func() {
		c.ReadBits(1)
	})
}

func TestBitCursorOutOfRange(t *testing.T) {
	c := eac3.NewBitCursor([]byte{0xFF, 0xFF})
	c.Skip(10)

	assert.Panics(t, func() {
		c.ReadBits(7)
	})
	assert.Panics(t, func() {
		c.ReadBits(33)
	})
	assert.Panics(t, func() {
		c.SetPosition(17)
	})
	assert.Equal(t, 10, c.Position())
}

func TestBitCursorExpand(t *testing.T) {
	c := eac3.NewBitCursor([]byte{0xAA, 0xBB, 0xCC})
	c.Skip(20)

	c.Expand([]byte{0xDD, 0xEE})

	// Only the byte holding the position is kept
	require.Equal(t, 4, c.Position())
	require.Equal(t, 24, c.BackPosition())
	assert.Equal(t, byte(0xCC), c.Byte(0))
	assert.Equal(t, byte(0xEE), c.Byte(2))
	assert.Equal(t, uint32(0xCDDEE), c.ReadBits(20))
	assert.Equal(t, 0, c.Remaining())
}

func TestBitCursorExpandAligned(t *testing.T) {
	c := eac3.NewBitCursor([]byte{0x01, 0x02})
	c.Skip(16)

	c.Expand([]byte{0x03})

	assert.Equal(t, 0, c.Position())
	assert.Equal(t, 8, c.BackPosition())
	assert.Equal(t, uint32(3), c.ReadBits(8))
}
