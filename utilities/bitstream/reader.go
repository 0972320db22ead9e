package bitstream

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/bitrle"
	"github.com/icza/bitio"
)

// countingByteReader tracks how many bytes the bit reader has pulled from the
// underlying stream. Combined with the number of bits handed out, this tells us
// whether any bits are still cached inside the bit reader.
type countingByteReader struct {
	rd        *bufio.Reader
	bytesRead uint64
}

func (c *countingByteReader) Read(p []byte) (int, error) {
	n, err := c.rd.Read(p)
	c.bytesRead += uint64(n)
	return n, err
}

func (c *countingByteReader) ReadByte() (byte, error) {
	b, err := c.rd.ReadByte()
	if err == nil {
		c.bytesRead++
	}
	return b, err
}

// Reader is a [bitrle.BitSource] reading from an [io.Reader].
type Reader struct {
	source   *countingByteReader
	bits     *bitio.Reader
	consumed uint64
	err      error
}

// NewReader creates a bit reader on top of `rd`. The reader is buffered, so
// callers must not read from `rd` directly afterwards.
func NewReader(rd io.Reader) *Reader {
	source := &countingByteReader{rd: bufio.NewReader(rd)}
	return &Reader{
		source: source,
		bits:   bitio.NewReader(source),
	}
}

// IsEmpty returns true if there are no more bits to read. If the underlying
// stream failed with anything other than [io.EOF], this also returns true and
// the failure is available from [Reader.Err].
func (r *Reader) IsEmpty() bool {
	if r.err != nil {
		return true
	}
	if r.consumed < r.source.bytesRead*8 {
		return false
	}

	_, err := r.source.rd.Peek(1)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.err = bitrle.ErrIOFailed.Wrap(err)
		}
		return true
	}
	return false
}

// Err returns the first non-EOF error encountered while checking for the end
// of the stream, if any.
func (r *Reader) Err() error {
	return r.err
}

// BitsRead returns the number of bits consumed so far.
func (r *Reader) BitsRead() uint64 {
	return r.consumed
}

func (r *Reader) ReadBit() (bool, error) {
	if r.IsEmpty() {
		if r.err != nil {
			return false, r.err
		}
		return false, io.EOF
	}

	bit, err := r.bits.ReadBool()
	if err != nil {
		return false, bitrle.ErrIOFailed.Wrap(err)
	}
	r.consumed++
	return bit, nil
}

func (r *Reader) ReadUint(width uint8) (uint64, error) {
	if width == 0 || width > 64 {
		return 0, bitrle.ErrArgumentOutOfRange.WithMessage(
			fmt.Sprintf("invalid width: %d not in [1, 64]", width))
	}
	if r.IsEmpty() {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}

	value, err := r.bits.ReadBits(width)
	if err != nil {
		if errors.Is(err, io.EOF) {
			// We already know at least one bit was available, so running out
			// now means the value was cut off.
			r.consumed = r.source.bytesRead * 8
			return 0, io.ErrUnexpectedEOF
		}
		return 0, bitrle.ErrIOFailed.Wrap(err)
	}
	r.consumed += uint64(width)
	return value, nil
}
