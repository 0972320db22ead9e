// Package compression implements run-length encoding for bit streams that are
// dominated by long runs of identical bits, such as monochrome bitmaps and
// sparse masks.
//
// A stream is described as the lengths of its alternating runs of 0s and 1s,
// always starting with a run of 0s. If the first bit is a 1, the first run has
// length 0. Each length is written as an unsigned field of a fixed width. For
// example, with 5-bit fields:
//
//	00000000 11111111 0000
//	   8        8      4      -> 01000 01000 00100
//
// A run too long to fit in one field is split: a field holding the maximum value
// is written, then the rest of the run continues as though the bit value had
// flipped. A run of 33 zeroes with 5-bit fields is written as 31, 0, 2. The
// decoder flips the value after every field, real boundary or not, which is what
// makes the round trip exact.
//
// There are two framings, selected by [Options]:
//
//   - Fixed-byte framing: every field is one byte and there's no header. The
//     decoder stops at the end of its input.
//   - Header framing: the stream starts with a 32-bit big-endian count of the
//     field bits that follow, then the fields themselves. Any width from 1 to 32
//     bits is allowed. Anything after the last field is ignored.
//
// Field width is a trade-off. Wide fields waste space on short runs, narrow
// fields spend extra fields on long ones. For a 32x48 bitmap, widths of 4, 5 and
// 6 bits come out roughly the same size; [Analyze] computes the exact sizes for
// a given input.
//
// Both framings always emit the final run, even when it's empty. An empty input
// therefore encodes to a single 0 field: one null byte with fixed-byte framing,
// or a header of W followed by W zero bits with header framing.
//
// For storage, the encoded stream can additionally be wrapped in gzip or zstd
// with [CompressArchive].
package compression
