package bitstream

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dargueta/bitrle"
	"github.com/icza/bitio"
)

type countingWriter struct {
	w            io.Writer
	bytesWritten int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.bytesWritten += int64(n)
	return n, err
}

// Writer is a [bitrle.BitSink] writing to an [io.Writer].
//
// Output is buffered. Nothing is guaranteed to reach the underlying writer
// until [Writer.Close] is called. Closing the Writer does not close the
// underlying writer.
type Writer struct {
	counter     *countingWriter
	buffered    *bufio.Writer
	bits        *bitio.Writer
	bitsWritten uint64
	closed      bool
}

func NewWriter(w io.Writer) *Writer {
	counter := &countingWriter{w: w}
	buffered := bufio.NewWriter(counter)
	return &Writer{
		counter:  counter,
		buffered: buffered,
		bits:     bitio.NewWriter(buffered),
	}
}

// lowBits clears everything in `value` above the lowest `width` bits.
func lowBits(value uint64, width uint8) uint64 {
	if width >= 64 {
		return value
	}
	return value & (uint64(1)<<width - 1)
}

func (w *Writer) checkOpen() error {
	if w.closed {
		return bitrle.ErrFileDescriptorBadState.WithMessage("bit writer is closed")
	}
	return nil
}

func (w *Writer) WriteBit(bit bool) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	if err := w.bits.WriteBool(bit); err != nil {
		return bitrle.ErrIOFailed.Wrap(err)
	}
	w.bitsWritten++
	return nil
}

func (w *Writer) WriteUint(value uint64, width uint8) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	if width == 0 || width > 64 {
		return bitrle.ErrArgumentOutOfRange.WithMessage(
			fmt.Sprintf("invalid width: %d not in [1, 64]", width))
	}
	if err := w.bits.WriteBits(lowBits(value, width), width); err != nil {
		return bitrle.ErrIOFailed.Wrap(err)
	}
	w.bitsWritten += uint64(width)
	return nil
}

// BitsWritten returns the number of bits written so far, not counting padding.
func (w *Writer) BitsWritten() uint64 {
	return w.bitsWritten
}

// BytesWritten returns the number of bytes that have reached the underlying
// writer. After [Writer.Close] this is the total size of the output.
func (w *Writer) BytesWritten() int64 {
	return w.counter.bytesWritten
}

// Close pads the final byte with zero bits and flushes everything to the
// underlying writer.
func (w *Writer) Close() error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	w.closed = true

	if err := w.bits.Close(); err != nil {
		return bitrle.ErrIOFailed.Wrap(err)
	}
	if err := w.buffered.Flush(); err != nil {
		return bitrle.ErrIOFailed.Wrap(err)
	}
	return nil
}
