package compression

import (
	"fmt"

	"github.com/dargueta/bitrle"
)

// HeaderBits is the size of the stream header used by header framing.
const HeaderBits = 32

// MaxFieldWidth is the widest run-length field supported. It's bounded by the
// header: a single maximum-width field must still fit in it.
const MaxFieldWidth = 32

// Options selects the framing of an encoded stream.
type Options struct {
	// FieldWidth is the number of bits in each run-length field. Runs longer
	// than 2^FieldWidth - 1 are split across several fields.
	FieldWidth uint8
	// EmitHeader controls whether the stream begins with a 32-bit count of the
	// field bits that follow. Without a header the decoder stops at the end of
	// its input, which is only unambiguous when fields are whole bytes.
	EmitHeader bool
}

// FixedByteFraming writes each run length as one byte with no header.
var FixedByteFraming = Options{FieldWidth: 8, EmitHeader: false}

// DefaultOptions is header framing with 5-bit fields.
var DefaultOptions = HeaderFraming(5)

// HeaderFraming returns options for a 32-bit header followed by `width`-bit
// fields.
func HeaderFraming(width uint8) Options {
	return Options{FieldWidth: width, EmitHeader: true}
}

// MaxRunLength returns the largest value a single field can hold.
func (opts Options) MaxRunLength() uint64 {
	return uint64(1)<<opts.FieldWidth - 1
}

// Validate returns an error if the options can't be used to encode or decode a
// stream.
func (opts Options) Validate() error {
	if opts.FieldWidth < 1 || opts.FieldWidth > MaxFieldWidth {
		return bitrle.ErrArgumentOutOfRange.WithMessage(
			fmt.Sprintf(
				"invalid field width: %d not in [1, %d]",
				opts.FieldWidth,
				MaxFieldWidth,
			),
		)
	}
	if !opts.EmitHeader && opts.FieldWidth%8 != 0 {
		return bitrle.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"field width must be a multiple of 8 without a header, got %d",
				opts.FieldWidth,
			),
		)
	}
	return nil
}

func (opts Options) String() string {
	if opts.EmitHeader {
		return fmt.Sprintf("header+%d", opts.FieldWidth)
	}
	return fmt.Sprintf("fixed%d", opts.FieldWidth)
}
