package eac3

import (
	"fmt"
	"io"
)

// BitWriter writes bits MSB-first into a growing byte buffer.
//
// The buffer grows by half of its size when exhausted. Its content is only
// usable as bytes after flushing with Bytes or WriteTo, which pad the last
// partial byte with zero bits.
type BitWriter struct {
	buf []byte

	bytePos int
	bitPos  int
}

// NewBitWriter creates a writer with an initial capacity in bytes.
func NewBitWriter(capacity int) *BitWriter {
	if capacity < 8 {
		capacity = 8
	}

	return &BitWriter{
		buf: make([]byte, capacity),
	}
}

// Len returns the number of bits written.
func (w *BitWriter) Len() int {
	return w.bytePos<<3 + w.bitPos
}

// WriteBit writes a single flag.
func (w *BitWriter) WriteBit(value bool) {
	if value {
		w.WriteBits(1, 1)
	} else {
		w.WriteBits(0, 1)
	}
}

// WriteBytes writes the first length bytes of p. The writer does not have to be
// byte aligned.
func (w *BitWriter) WriteBytes(p []byte, length int) {
	if w.bitPos == 0 {
		w.grow(length)
		copy(w.buf[w.bytePos:], p[:length])
		w.bytePos += length

		return
	}

	for _, b := range p[:length] {
		w.WriteBits(uint32(b), 8)
	}
}

// WriteBits writes the low bits of value.
func (w *BitWriter) WriteBits(value uint32, bits int) {
	if bits > 32 || bits < 0 {
		panic(fmt.Sprintf("eac3: cannot write %d bits at once", bits))
	}

	w.grow((w.bitPos+bits)>>3 + 1)

	for bits != 0 {
		free := 8 - w.bitPos
		n := bits
		if free < bits {
			n = free
		}

		chunk := (value >> (bits - n)) & (0xff >> (8 - n))
		w.buf[w.bytePos] |= byte(chunk << (free - n))

		w.bitPos += n
		bits -= n
		if w.bitPos == 8 {
			w.bytePos++
			w.bitPos = 0
		}
	}
}

// WriteOptional writes the value of o if it is present, and nothing otherwise.
func (w *BitWriter) WriteOptional(o Optional, bits int) {
	if o.Present {
		w.WriteBits(o.Value, bits)
	}
}

// WriteConditional writes the presence flag of o followed by its value when
// present. It is the counterpart of BitCursor.ReadConditional.
func (w *BitWriter) WriteConditional(o Optional, bits int) {
	w.WriteBit(o.Present)
	w.WriteOptional(o, bits)
}

// Overwrite replaces bits already written at bitOffset without moving the
// write position. Used for fields at fixed positions that are only known,
// or only valid, after later fields were written sequentially.
func (w *BitWriter) Overwrite(bitOffset int, value uint32, bits int) {
	if bits > 32 || bits < 0 || bitOffset < 0 || bitOffset+bits > w.Len() {
		panic(fmt.Sprintf("eac3: overwrite [%d:%d] out of range with length %d",
			bitOffset, bitOffset+bits, w.Len()))
	}

	for i := 0; i < bits; i++ {
		pos := bitOffset + i
		mask := byte(0x80) >> (pos & 7)
		if (value>>(bits-1-i))&1 == 1 {
			w.buf[pos>>3] |= mask
		} else {
			w.buf[pos>>3] &^= mask
		}
	}
}

// PadTo writes zero bits until Len reaches bits. It does nothing when the
// writer is already at or past bits.
func (w *BitWriter) PadTo(bits int) {
	for remaining := bits - w.Len(); remaining > 0; remaining = bits - w.Len() {
		n := remaining
		if n > 32 {
			n = 32
		}
		w.WriteBits(0, n)
	}
}

// Bytes flushes the writer and returns a copy of the written bytes.
func (w *BitWriter) Bytes() []byte {
	out := make([]byte, w.flushedLen())
	copy(out, w.buf)

	return out
}

// WriteTo flushes the writer to dst.
func (w *BitWriter) WriteTo(dst io.Writer) (int64, error) {
	n, err := dst.Write(w.buf[:w.flushedLen()])

	return int64(n), err
}

func (w *BitWriter) flushedLen() int {
	if w.bitPos != 0 {
		return w.bytePos + 1
	}

	return w.bytePos
}

// grow makes room for count more bytes after the current byte.
func (w *BitWriter) grow(count int) {
	need := w.bytePos + count + 1
	if need <= len(w.buf) {
		return
	}

	size := len(w.buf) + len(w.buf)>>1
	if size < need {
		size = need
	}

	buf := make([]byte, size)
	copy(buf, w.buf)
	w.buf = buf
}
