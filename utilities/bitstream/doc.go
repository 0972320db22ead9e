// Package bitstream provides the bit sources and sinks the run-length codec
// reads from and writes to.
//
// [Reader] and [Writer] give a bit-level view of an ordinary byte stream. Bits
// are packed most significant bit first, so the first bit of a stream is the
// high bit of its first byte. When a [Writer] is closed, the final partial byte
// is padded with zero bits:
//
//	bits written:  1 0 1 1 0
//	byte emitted:  1011 0000 = 0xb0
//
// A [Mask] is an in-memory bit sequence backed by a bitmap. It implements both
// interfaces, which makes it convenient for building test vectors and for
// random access to decoded masks. [Mask.Bytes] packs bits exactly the way a
// [Writer] would.
package bitstream
