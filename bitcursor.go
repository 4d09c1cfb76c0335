package eac3

import (
	"fmt"

	"github.com/bluenviron/mediacommon/pkg/bits"
)

// Optional is a bitstream field gated by a presence flag.
type Optional struct {
	Value   uint32
	Present bool
}

// Some returns a present Optional holding v.
func Some(v uint32) Optional {
	return Optional{Value: v, Present: true}
}

// BitCursor reads bits MSB-first from a byte window.
//
// The window can be grown with Expand, which also drops the bytes that were
// already consumed. Positions are counted in bits from the start of the current
// window. Reading outside of the window panics, a truncated or corrupted frame
// is never silently read as zeros.
type BitCursor struct {
	bytes []byte

	position     int
	backPosition int
}

// NewBitCursor creates a cursor over data. The cursor takes ownership of data.
func NewBitCursor(data []byte) *BitCursor {
	return NewBitCursorLimit(data, len(data))
}

// NewBitCursorLimit creates a cursor over the first lastByte bytes of data.
func NewBitCursorLimit(data []byte, lastByte int) *BitCursor {
	data = data[:lastByte:lastByte]

	return &BitCursor{
		bytes:        data,
		backPosition: lastByte << 3,
	}
}

// Position returns the next bit to be read.
func (c *BitCursor) Position() int {
	return c.position
}

// SetPosition moves the read position to an absolute bit of the window.
func (c *BitCursor) SetPosition(position int) {
	if position < 0 || position > c.backPosition {
		panic(fmt.Sprintf("eac3: bit position %d out of range [0:%d]", position, c.backPosition))
	}

	c.position = position
}

// BackPosition returns the bit position marking the logical end of the window.
func (c *BitCursor) BackPosition() int {
	return c.backPosition
}

// Remaining returns the number of unread bits.
func (c *BitCursor) Remaining() int {
	return c.backPosition - c.position
}

// Skip advances the read position by count bits.
func (c *BitCursor) Skip(count int) {
	c.SetPosition(c.position + count)
}

// ReadBits reads count bits (at most 32) as an unsigned value.
func (c *BitCursor) ReadBits(count int) uint32 {
	if count > 32 || count < 0 {
		panic(fmt.Sprintf("eac3: cannot read %d bits at once", count))
	}
	if c.position+count > c.backPosition {
		panic(fmt.Sprintf("eac3: bit read [%d:%d] out of range with length %d",
			c.position, c.position+count, c.backPosition))
	}

	return uint32(bits.ReadBitsUnsafe(c.bytes, &c.position, count))
}

// PeekBits reads count bits without advancing the position.
func (c *BitCursor) PeekBits(count int) uint32 {
	position := c.position
	value := c.ReadBits(count)
	c.position = position

	return value
}

// ReadSigned reads a count bit two's complement value.
func (c *BitCursor) ReadSigned(count int) int32 {
	if count == 0 {
		return 0
	}

	shift := 32 - count

	return int32(c.ReadBits(count)<<shift) >> shift
}

// ReadBit reads a single flag.
func (c *BitCursor) ReadBit() bool {
	return c.ReadBits(1) == 1
}

// ReadBitInt reads a single bit as 0 or 1.
func (c *BitCursor) ReadBitInt() int {
	return int(c.ReadBits(1))
}

// ReadConditional reads a flag, and only if it is set, a count bit value.
func (c *BitCursor) ReadConditional(count int) Optional {
	if !c.ReadBit() {
		return Optional{}
	}

	return Some(c.ReadBits(count))
}

// ReadBytes reads count bytes. The position does not have to be byte aligned.
func (c *BitCursor) ReadBytes(count int) []byte {
	return c.AppendBytes(make([]byte, 0, count), count)
}

// AppendBytes reads count bytes and appends them to dst.
func (c *BitCursor) AppendBytes(dst []byte, count int) []byte {
	if c.position&7 == 0 && c.position+count<<3 <= c.backPosition {
		start := c.position >> 3
		c.position += count << 3

		return append(dst, c.bytes[start:start+count]...)
	}

	for i := 0; i < count; i++ {
		dst = append(dst, byte(c.ReadBits(8)))
	}

	return dst
}

// Expand appends data to the window. Bytes before the byte holding the current
// position are dropped, and both positions are rebased to the new window.
func (c *BitCursor) Expand(data []byte) {
	bytePos := c.position >> 3
	if bytePos > len(c.bytes) {
		bytePos = len(c.bytes)
	}

	kept := len(c.bytes) - bytePos
	bytes := make([]byte, kept+len(data))
	copy(bytes, c.bytes[bytePos:])
	copy(bytes[kept:], data)

	c.bytes = bytes
	c.position -= bytePos << 3
	c.backPosition = len(bytes) << 3
}

// Byte returns the byte at offset of the current window without moving the
// position. Bytes dropped by Expand are no longer addressable.
func (c *BitCursor) Byte(offset int) byte {
	return c.bytes[offset]
}
