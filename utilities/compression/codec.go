package compression

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/dargueta/bitrle"
	"github.com/hashicorp/go-multierror"
)

// errorReporter is implemented by sources that can fail while checking for the
// end of the stream, such as [bitstream.Reader].
type errorReporter interface {
	Err() error
}

// closeSink closes `output` and merges any error from that into `err`.
func closeSink(output bitrle.BitSink, err error) error {
	closeErr := output.Close()
	if closeErr == nil {
		return err
	}
	if err == nil {
		return closeErr
	}
	return multierror.Append(err, closeErr)
}

func sourceError(input bitrle.BitSource) error {
	if reporter, ok := input.(errorReporter); ok {
		return reporter.Err()
	}
	return nil
}

// Encode run-length encodes every bit in `input` and writes the fields to
// `output`, then closes `output`. The return value is the number of fields
// emitted.
//
// The stream is assumed to start with a run of zeroes, so a stream starting
// with a 1 begins with a field of 0. A run too long for one field is written as
// a maximum-value field followed by the rest of the run, as if the bit value had
// changed in between. The last run is always written, even if it's empty.
//
// The sink is closed even if an error occurs.
func Encode(input bitrle.BitSource, output bitrle.BitSink, opts Options) (fields int, err error) {
	defer func() {
		err = closeSink(output, err)
	}()

	if err = opts.Validate(); err != nil {
		return 0, err
	}

	// With a header we need to know how many fields there are before writing
	// any of them, so they get buffered. Otherwise they're written immediately.
	var pending []uint32
	emit := func(count uint64) error {
		fields++
		if opts.EmitHeader {
			pending = append(pending, uint32(count))
			return nil
		}
		return output.WriteUint(count, opts.FieldWidth)
	}

	maxRun := opts.MaxRunLength()
	currentValue := false
	count := uint64(0)

	for !input.IsEmpty() {
		bit, readErr := input.ReadBit()
		if readErr != nil {
			return fields, fmt.Errorf("failed to read bit: %w", readErr)
		}

		if bit == currentValue {
			count++
		} else {
			if err = emit(count); err != nil {
				return fields, err
			}
			count = 1
			currentValue = !currentValue
		}

		// Only the first branch can hit this unless the field width is 1.
		if count == maxRun {
			if err = emit(count); err != nil {
				return fields, err
			}
			count = 0
			currentValue = !currentValue
		}
	}

	if err = sourceError(input); err != nil {
		return fields, err
	}
	if err = emit(count); err != nil {
		return fields, err
	}

	if !opts.EmitHeader {
		return fields, nil
	}

	totalBits := uint64(len(pending)) * uint64(opts.FieldWidth)
	if totalBits > math.MaxUint32 {
		return fields, bitrle.ErrResultOutOfRange.WithMessage(
			fmt.Sprintf(
				"%d fields of %d bits don't fit in a %d-bit header",
				len(pending),
				opts.FieldWidth,
				HeaderBits,
			),
		)
	}

	if err = output.WriteUint(totalBits, HeaderBits); err != nil {
		return fields, err
	}
	for _, field := range pending {
		if err = output.WriteUint(uint64(field), opts.FieldWidth); err != nil {
			return fields, err
		}
	}
	return fields, nil
}

// truncated converts an end-of-stream error encountered in the middle of a
// header or field into [bitrle.ErrTruncatedStream].
func truncated(err error, what string) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return bitrle.ErrTruncatedStream.Wrap(err).WithMessage(what)
	}
	return fmt.Errorf("failed to read %s: %w", what, err)
}

// Decode reads fields produced by [Encode] with the same options and writes the
// original bits to `output`, then closes `output`. The return value is the
// number of bits written.
//
// Every field flips the bit value, including fields produced by splitting a
// long run. A header or field cut off by the end of the input fails with
// [bitrle.ErrTruncatedStream]. Input following the last field declared by the
// header is ignored.
//
// The sink is closed even if an error occurs.
func Decode(input bitrle.BitSource, output bitrle.BitSink, opts Options) (bitsWritten int64, err error) {
	defer func() {
		err = closeSink(output, err)
	}()

	if err = opts.Validate(); err != nil {
		return 0, err
	}

	currentValue := false
	expandField := func(fieldIndex int) error {
		runLength, readErr := input.ReadUint(opts.FieldWidth)
		if readErr != nil {
			return truncated(readErr, fmt.Sprintf("field %d", fieldIndex))
		}
		for i := uint64(0); i < runLength; i++ {
			if writeErr := output.WriteBit(currentValue); writeErr != nil {
				return writeErr
			}
		}
		bitsWritten += int64(runLength)
		currentValue = !currentValue
		return nil
	}

	if !opts.EmitHeader {
		for fieldIndex := 0; !input.IsEmpty(); fieldIndex++ {
			if err = expandField(fieldIndex); err != nil {
				return bitsWritten, err
			}
		}
		return bitsWritten, sourceError(input)
	}

	totalBits, err := input.ReadUint(HeaderBits)
	if err != nil {
		return 0, truncated(err, "header")
	}

	fieldIndex := 0
	for consumed := uint64(0); consumed < totalBits; consumed += uint64(opts.FieldWidth) {
		if err = expandField(fieldIndex); err != nil {
			return bitsWritten, err
		}
		fieldIndex++
	}
	return bitsWritten, nil
}
