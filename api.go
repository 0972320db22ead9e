package bitrle

// BitSource is the interface for anything the codec can read bits from.
//
// Bits are consumed strictly in order. Implementations need not be safe for
// concurrent use.
type BitSource interface {
	// IsEmpty returns true if no more bits remain. It must not consume input.
	IsEmpty() bool
	// ReadBit consumes and returns the next bit. It returns [io.EOF] if no bits
	// remain.
	ReadBit() (bool, error)
	// ReadUint consumes `width` bits and returns them as a big-endian unsigned
	// integer, i.e. the first bit read is the most significant. If no bits
	// remain it returns [io.EOF]; if some but not all of the bits are available
	// it returns [io.ErrUnexpectedEOF].
	ReadUint(width uint8) (uint64, error)
}

// BitSink is the interface for anything the codec can write bits to.
type BitSink interface {
	// WriteBit appends a single bit to the output.
	WriteBit(bit bool) error
	// WriteUint appends the low `width` bits of `value`, most significant bit
	// first.
	WriteUint(value uint64, width uint8) error
	// Close flushes any partially filled byte, padding the unused low bits with
	// zeroes. It must be called exactly once; the sink must not be used
	// afterwards.
	Close() error
}
