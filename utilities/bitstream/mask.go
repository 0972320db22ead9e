package bitstream

import (
	"fmt"
	"io"
	"strings"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/bitrle"
)

// Mask is an in-memory, growable sequence of bits.
//
// It acts as a [bitrle.BitSink] by appending bits to the end, and as a
// [bitrle.BitSource] by reading from an internal cursor that starts at the
// first bit. The zero value is an empty mask ready to use.
type Mask struct {
	bits   bitmap.Bitmap
	length int
	cursor int
	closed bool
}

// NewMask creates an empty mask with room for at least `capacity` bits before
// it needs to grow.
func NewMask(capacity int) *Mask {
	if capacity < 0 {
		capacity = 0
	}
	return &Mask{bits: bitmap.New(capacity)}
}

// MaskFromBytes creates a mask from the first `length` bits of `data`, most
// significant bit first. The data is copied.
func MaskFromBytes(data []byte, length int) (*Mask, error) {
	if length < 0 || length > len(data)*8 {
		return nil, bitrle.ErrArgumentOutOfRange.WithMessage(
			fmt.Sprintf(
				"can't take %d bits from %d bytes of data", length, len(data)))
	}

	mask := NewMask(length)
	for i := 0; i < length; i++ {
		mask.Append(data[i/8]&(0x80>>uint(i%8)) != 0)
	}
	return mask, nil
}

// ParseMask creates a mask from a string of '0' and '1' characters. Spaces and
// underscores are ignored so long sequences can be grouped for readability,
// e.g. "0000 1111 00".
func ParseMask(s string) (*Mask, error) {
	mask := NewMask(len(s))
	for i, c := range s {
		switch c {
		case '0':
			mask.Append(false)
		case '1':
			mask.Append(true)
		case ' ', '_':
			continue
		default:
			return nil, bitrle.ErrInvalidArgument.WithMessage(
				fmt.Sprintf("invalid character %q at offset %d", c, i))
		}
	}
	return mask, nil
}

// Len returns the number of bits in the mask.
func (m *Mask) Len() int {
	return m.length
}

// Get returns the value of the bit at index `i`. Indexes past the end of the
// mask read as 0.
func (m *Mask) Get(i int) bool {
	if i < 0 || i >= m.length {
		return false
	}
	return m.bits.Get(i)
}

// Set changes the value of an existing bit. Setting a bit past the end of the
// mask extends it, filling the gap with zeroes.
func (m *Mask) Set(i int, value bool) {
	if i < 0 {
		return
	}
	for m.length <= i {
		m.Append(false)
	}
	m.bits.Set(i, value)
}

// Append adds a bit to the end of the mask.
func (m *Mask) Append(bit bool) {
	if m.length >= m.bits.Len() {
		growBy := len(m.bits)
		if growBy == 0 {
			growBy = 1
		}
		m.bits = append(m.bits, make([]byte, growBy)...)
	}
	m.bits.Set(m.length, bit)
	m.length++
}

// Rewind moves the read cursor back to the first bit.
func (m *Mask) Rewind() {
	m.cursor = 0
}

// Remaining returns the number of bits left to read.
func (m *Mask) Remaining() int {
	return m.length - m.cursor
}

// Bytes packs the mask into bytes, most significant bit first, padding the
// final byte with zeroes.
func (m *Mask) Bytes() []byte {
	packed := make([]byte, (m.length+7)/8)
	for i := 0; i < m.length; i++ {
		if m.bits.Get(i) {
			packed[i/8] |= 0x80 >> uint(i%8)
		}
	}
	return packed
}

// Equal returns true if both masks contain the same bits, which is how a
// decoded mask is checked against the one that was encoded. Read cursors are
// not compared.
func (m *Mask) Equal(other *Mask) bool {
	if m.length != other.length {
		return false
	}
	for i := 0; i < m.length; i++ {
		if m.bits.Get(i) != other.bits.Get(i) {
			return false
		}
	}
	return true
}

func (m *Mask) String() string {
	var builder strings.Builder
	builder.Grow(m.length)
	for i := 0; i < m.length; i++ {
		if m.bits.Get(i) {
			builder.WriteByte('1')
		} else {
			builder.WriteByte('0')
		}
	}
	return builder.String()
}

// -----------------------------------------------------------------------------
// BitSource

func (m *Mask) IsEmpty() bool {
	return m.cursor >= m.length
}

func (m *Mask) ReadBit() (bool, error) {
	if m.IsEmpty() {
		return false, io.EOF
	}
	bit := m.bits.Get(m.cursor)
	m.cursor++
	return bit, nil
}

func (m *Mask) ReadUint(width uint8) (uint64, error) {
	if width == 0 || width > 64 {
		return 0, bitrle.ErrArgumentOutOfRange.WithMessage(
			fmt.Sprintf("invalid width: %d not in [1, 64]", width))
	}
	if m.IsEmpty() {
		return 0, io.EOF
	}
	if m.Remaining() < int(width) {
		m.cursor = m.length
		return 0, io.ErrUnexpectedEOF
	}

	value := uint64(0)
	for i := uint8(0); i < width; i++ {
		value <<= 1
		if m.bits.Get(m.cursor) {
			value |= 1
		}
		m.cursor++
	}
	return value, nil
}

// -----------------------------------------------------------------------------
// BitSink

func (m *Mask) WriteBit(bit bool) error {
	if m.closed {
		return bitrle.ErrFileDescriptorBadState.WithMessage("mask is closed")
	}
	m.Append(bit)
	return nil
}

func (m *Mask) WriteUint(value uint64, width uint8) error {
	if m.closed {
		return bitrle.ErrFileDescriptorBadState.WithMessage("mask is closed")
	}
	if width == 0 || width > 64 {
		return bitrle.ErrArgumentOutOfRange.WithMessage(
			fmt.Sprintf("invalid width: %d not in [1, 64]", width))
	}
	for i := int(width) - 1; i >= 0; i-- {
		m.Append((value>>uint(i))&1 != 0)
	}
	return nil
}

// Close marks the mask as finished. Further writes fail, but the mask can
// still be read from.
func (m *Mask) Close() error {
	if m.closed {
		return bitrle.ErrFileDescriptorBadState.WithMessage("mask is already closed")
	}
	m.closed = true
	return nil
}
