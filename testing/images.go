package testing

import (
	"bytes"
	"crypto/rand"
	"io"
	"testing"

	"github.com/dargueta/bitrle/utilities/compression"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// CreateRandomImage creates a bitmap of the given size filled with random bits.
// This is the worst case for run-length encoding. It is guaranteed to either
// return a valid slice or fail the test and abort.
func CreateRandomImage(t *testing.T, totalBytes uint) []byte {
	backingData := make([]byte, totalBytes)

	_, err := rand.Read(backingData)
	require.NoErrorf(t, err, "failed to initialize %d random bytes", totalBytes)
	return backingData
}

// CreateSparseImage creates a monochrome bitmap of `width` by `height` pixels,
// one bit per pixel with rows padded to a whole byte, containing a filled
// rectangle. The rectangle covers columns [left, right) and rows [top, bottom).
//
// Images like this are mostly long runs and compress well.
func CreateSparseImage(
	t *testing.T, width, height, left, top, right, bottom uint,
) []byte {
	require.LessOrEqual(t, left, right, "rectangle has negative width")
	require.LessOrEqual(t, top, bottom, "rectangle has negative height")
	require.LessOrEqual(t, right, width, "rectangle extends past right edge")
	require.LessOrEqual(t, bottom, height, "rectangle extends past bottom edge")

	bytesPerRow := (width + 7) / 8
	image := make([]byte, bytesPerRow*height)
	for y := top; y < bottom; y++ {
		for x := left; x < right; x++ {
			image[y*bytesPerRow+x/8] |= 0x80 >> (x % 8)
		}
	}
	return image
}

// LoadBitmap takes a run-length encoded bitmap and returns a stream to access
// the decoded data.
//
//   - Writes to the stream do not affect `compressedBytes`.
//   - While the stream can be written to, its size is fixed to `expectedSize`.
//     Attempting to write past the end of this buffer will trigger an error.
func LoadBitmap(
	t *testing.T, compressedBytes []byte, opts compression.Options, expectedSize uint,
) io.ReadWriteSeeker {
	require.Greater(t, len(compressedBytes), 0, "compressed bitmap is empty")

	imageBytes, err := compression.ExpandToBytes(bytes.NewReader(compressedBytes), opts)
	require.NoError(t, err)
	require.Equal(t, expectedSize, uint(len(imageBytes)), "expanded bitmap is wrong size")
	return bytesextra.NewReadWriteSeeker(imageBytes)
}
