package h261

import (
	"fmt"
	"io"
)

// Buffer provides MSB-first bit access over a complete H.261 stream.
type Buffer struct {
	bytes []byte

	bitIndex  int
	totalBits int

	hasEnded bool
}

// NewBuffer creates a buffer holding the whole content of r.
// Streams compressed with gzip, zstd or xz are decompressed transparently.
func NewBuffer(r io.Reader) (*Buffer, error) {
	data, err := readSource(r)
	if err != nil {
		return nil, err
	}

	return NewBufferBytes(data), nil
}

// NewBufferBytes creates a buffer over data. The slice is not copied and must not be modified.
func NewBufferBytes(data []byte) *Buffer {
	buf := &Buffer{}
	buf.bytes = data
	buf.totalBits = len(data) << 3

	return buf
}

// Bytes returns the underlying stream.
func (b *Buffer) Bytes() []byte {
	return b.bytes
}

// Index returns byte index.
func (b *Buffer) Index() int {
	return b.bitIndex >> 3
}

// Size returns the total size in bytes.
func (b *Buffer) Size() int {
	return len(b.bytes)
}

// Remaining returns the number of remaining (yet unread) bytes in the buffer.
func (b *Buffer) Remaining() int {
	return len(b.bytes) - (b.bitIndex >> 3)
}

// HasEnded checks whether a read was attempted at the end of the buffer.
func (b *Buffer) HasEnded() bool {
	return b.hasEnded
}

// Rewind the buffer back to the beginning.
func (b *Buffer) Rewind() {
	b.Seek(0)
}

// Tell returns the absolute bit position of the cursor.
func (b *Buffer) Tell() int {
	return b.bitIndex
}

// Seek moves the cursor to the absolute bit position pos, clamped to the buffer.
func (b *Buffer) Seek(pos int) {
	if pos < 0 {
		pos = 0
	} else if pos > b.totalBits {
		pos = b.totalBits
	}

	b.bitIndex = pos
	b.hasEnded = false
}

// SeekRelative moves the cursor by delta bits, which may be negative.
func (b *Buffer) SeekRelative(delta int) {
	b.Seek(b.bitIndex + delta)
}

// BitsRemaining returns the number of unread bits.
func (b *Buffer) BitsRemaining() int {
	return b.totalBits - b.bitIndex
}

// ReadBits consumes count bits (at most 31) and returns them MSB first.
// Bits past the end of the buffer read as zero.
func (b *Buffer) ReadBits(count int) int {
	value := 0
	for ; count > 0; count-- {
		value = (value << 1) | b.read1()
	}

	return value
}

// PeekBits returns the next count bits without consuming them. The end of stream state is left as is.
func (b *Buffer) PeekBits(count int) int {
	pos, ended := b.bitIndex, b.hasEnded
	value := b.ReadBits(count)
	b.bitIndex, b.hasEnded = pos, ended

	return value
}

// CountLeadingZeroBits consumes zero bits up to and including the next one bit
// and returns the number of zeros. It stops at the end of the buffer.
func (b *Buffer) CountLeadingZeroBits() int {
	count := 0
	for b.bitIndex < b.totalBits {
		if b.read1() != 0 {
			return count
		}
		count++
	}

	b.hasEnded = true

	return count
}

func (b *Buffer) has(count int) bool {
	if b.totalBits-b.bitIndex >= count {
		return true
	}

	b.hasEnded = true

	return false
}

func (b *Buffer) read1() int {
	if !b.has(1) {
		return 0
	}

	currentByte := int(b.bytes[b.bitIndex>>3])

	shift := 7 - (b.bitIndex & 7)
	value := (currentByte >> shift) & 1

	b.bitIndex++

	return value
}

func (b *Buffer) skip(count int) {
	if b.has(count) {
		b.bitIndex += count
	}
}

// skipExtra discards a chain of extra information (PEI/PSPARE, GEI/GSPARE) bytes.
func (b *Buffer) skipExtra() int {
	skipped := 0
	for b.has(1) && b.read1() != 0 {
		b.skip(8)
		skipped++
	}

	return skipped
}

// findStartCode moves the cursor bit by bit until the next bits equal code (width bits).
// The code itself is not consumed. Returns false at the end of the buffer.
func (b *Buffer) findStartCode(code, width int) bool {
	for b.BitsRemaining() >= width {
		if b.PeekBits(width) == code {
			return true
		}
		b.bitIndex++
	}

	b.hasEnded = true

	return false
}

// hasStartCode reports whether a start code follows anywhere after the cursor, without moving it.
func (b *Buffer) hasStartCode(code, width int) bool {
	pos, ended := b.bitIndex, b.hasEnded
	found := b.findStartCode(code, width)
	b.bitIndex, b.hasEnded = pos, ended

	return found
}

// readVlc decodes one symbol from table. A miss returns a *VLCError.
func (b *Buffer) readVlc(table []vlc) (int, error) {
	start := b.bitIndex
	trace, depth := 0, 0

	var state vlc

	for {
		bit := b.read1()
		trace = (trace << 1) | bit
		depth++

		state = table[int(state.Index)+bit]
		if state.Index < 0 {
			return 0, &VLCError{Trace: fmt.Sprintf("%0*b", depth, trace), Pos: start}
		}
		if state.Index == 0 {
			break
		}
	}

	return int(state.Value), nil
}

// readVlcOr decodes one symbol from table and returns fallback on a miss.
// The number of consumed bits is returned so that callers can undo the read.
func (b *Buffer) readVlcOr(table []vlc, fallback int) (int, int) {
	start := b.bitIndex

	var state vlc

	for {
		state = table[int(state.Index)+b.read1()]
		if state.Index < 0 {
			return fallback, b.bitIndex - start
		}
		if state.Index == 0 {
			break
		}
	}

	return int(state.Value), b.bitIndex - start
}

// readVlcUint decodes one symbol from an unsigned table. A miss returns a *VLCError.
func (b *Buffer) readVlcUint(table []vlcUint) (uint16, error) {
	start := b.bitIndex
	trace, depth := 0, 0

	var state vlcUint

	for {
		bit := b.read1()
		trace = (trace << 1) | bit
		depth++

		state = table[int(state.Index)+bit]
		if state.Index < 0 {
			return 0, &VLCError{Trace: fmt.Sprintf("%0*b", depth, trace), Pos: start}
		}
		if state.Index == 0 {
			break
		}
	}

	return state.Value, nil
}

// vlc is one entry of a flattened code tree. Index > 0 continues at table[Index+bit],
// Index == 0 is a leaf holding Value and Index < 0 marks an undefined code.
type vlc struct {
	Index int16
	Value int16
}

type vlcUint struct {
	Index int16
	Value uint16
}
