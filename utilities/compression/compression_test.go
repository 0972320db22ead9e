package compression_test

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/dargueta/bitrle"
	rtesting "github.com/dargueta/bitrle/testing"
	c "github.com/dargueta/bitrle/utilities/compression"
	"github.com/noxer/bytewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bitmapC9nTestRunner struct {
	Name     string
	Function func(t *testing.T, d []byte, opts c.Options, container c.Container)
}

type bitmapC9nTestData struct {
	Name string
	Data []byte
}

// compressArchiveToBytes is a convenience function wrapping [c.CompressArchive].
// It functions identically, except it returns the compressed data in a new byte
// slice instead of writing to an [io.Writer].
func compressArchiveToBytes(
	input io.Reader, opts c.Options, container c.Container,
) ([]byte, error) {
	buffer := bytes.Buffer{}
	writer := bufio.NewWriter(&buffer)
	_, err := c.CompressArchive(input, writer, opts, container)
	if err != nil {
		return nil, err
	}

	writer.Flush()

	outputSlice := make([]byte, buffer.Len())
	copy(outputSlice, buffer.Bytes())
	return outputSlice, nil
}

// expandArchiveToBytes is the counterpart of compressArchiveToBytes. Like
// [c.ExpandToBytes], it never returns a nil slice on success.
func expandArchiveToBytes(
	input io.Reader, opts c.Options, container c.Container,
) ([]byte, error) {
	buffer := bytes.Buffer{}
	_, err := c.ExpandArchive(input, &buffer, opts, container)
	if err != nil {
		return nil, err
	}

	outputSlice := make([]byte, buffer.Len())
	copy(outputSlice, buffer.Bytes())
	return outputSlice, nil
}

func TestRoundTripBitmapCompression(t *testing.T) {
	testRunners := []bitmapC9nTestRunner{
		{"to_stream", runRoundTripCompressionTest},
		{"to_bytes", runRoundTripCompressionToBytesTest},
	}

	testData := []bitmapC9nTestData{
		{"homogenous", bytes.Repeat([]byte{0}, 9174)},
		{"solid", bytes.Repeat([]byte{0xff}, 1200)},
		{"empty", []byte{}},
		{"sparse", rtesting.CreateSparseImage(t, 64, 96, 10, 20, 40, 70)},
		{"heterogenous", rtesting.CreateRandomImage(t, 119)},
	}

	framings := []c.Options{c.FixedByteFraming, c.DefaultOptions, c.HeaderFraming(12)}
	containers := []c.Container{c.ContainerNone, c.ContainerGzip, c.ContainerZstd}

	for _, runner := range testRunners {
		t.Run(
			runner.Name,
			func(tSub *testing.T) {
				for _, data := range testData {
					for _, opts := range framings {
						for _, container := range containers {
							tSub.Run(
								data.Name+"/"+opts.String()+"/"+container.String(),
								func(tSubSub *testing.T) {
									runner.Function(tSubSub, data.Data, opts, container)
								},
							)
						}
					}
				}
			},
		)
	}
}

func runRoundTripCompressionTest(
	t *testing.T, sourceData []byte, opts c.Options, container c.Container,
) {
	sourceDataReader := bytes.NewReader(sourceData)

	// Random data expands under RLE, worst case one field per bit.
	compressedBuffer := make([]byte, 64+len(sourceData)*8*4)
	compressedWriter := bytewriter.New(compressedBuffer)

	compressedSize, err := c.CompressArchive(sourceDataReader, compressedWriter, opts, container)
	require.NoError(t, err, "unexpected error while compressing")
	t.Logf("bitmap size after compression: %d -> %d", len(sourceData), compressedSize)

	decompressedBuffer := make([]byte, len(sourceData))
	decompressedWriter := bytewriter.New(decompressedBuffer)
	compressedReader := bytes.NewReader(compressedBuffer[:compressedSize])

	n, err := c.ExpandArchive(compressedReader, decompressedWriter, opts, container)
	require.NoError(t, err, "unexpected error while decompressing")
	assert.EqualValues(t, len(sourceData), n, "decompressed bitmap has wrong size")
	assert.Equal(t, sourceData, decompressedBuffer, "decompressed data is wrong")
}

func runRoundTripCompressionToBytesTest(
	t *testing.T, originalData []byte, opts c.Options, container c.Container,
) {
	compressed, err := compressArchiveToBytes(bytes.NewReader(originalData), opts, container)
	require.NoError(t, err, "error while compressing")
	t.Logf("bitmap compressed %d -> %d", len(originalData), len(compressed))

	expanded, err := expandArchiveToBytes(bytes.NewReader(compressed), opts, container)
	require.NoError(t, err, "error while decompressing")
	require.NotNil(t, expanded, "expanded data should never be nil")

	assert.Equal(
		t, len(originalData), len(expanded), "decompressed data length is wrong")
	assert.Equal(t, originalData, expanded, "decompressed data is wrong")
}

func TestCompress__SparseBitmapShrinks(t *testing.T) {
	image := rtesting.CreateSparseImage(t, 64, 96, 8, 8, 56, 88)
	output := bytes.Buffer{}

	n, err := c.Compress(bytes.NewReader(image), &output, c.DefaultOptions)
	require.NoError(t, err)
	assert.Less(t, n, int64(len(image)), "sparse bitmap should compress")
	assert.EqualValues(t, output.Len(), n, "returned size doesn't match output")

	stream := rtesting.LoadBitmap(t, output.Bytes(), c.DefaultOptions, uint(len(image)))
	expanded, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, image, expanded)
}

func TestExpandToBytes(t *testing.T) {
	// Header of 16 bits, then fields 0 and 8: no zeroes, eight ones.
	encoded := []byte{0, 0, 0, 16, 0x00, 0x08}
	expanded, err := c.ExpandToBytes(bytes.NewReader(encoded), c.HeaderFraming(8))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff}, expanded)
}

func TestExpandToBytes__EmptyBitmap(t *testing.T) {
	for _, opts := range []c.Options{c.FixedByteFraming, c.DefaultOptions} {
		compressed := bytes.Buffer{}
		_, err := c.Compress(bytes.NewReader([]byte{}), &compressed, opts)
		require.NoError(t, err)

		expanded, err := c.ExpandToBytes(&compressed, opts)
		require.NoError(t, err)
		require.NotNil(t, expanded, "empty bitmap should expand to a non-nil slice")
		assert.Equal(t, []byte{}, expanded)
	}
}

func TestExpandToBytes__Truncated(t *testing.T) {
	_, err := c.ExpandToBytes(bytes.NewReader([]byte{0, 0, 0, 16, 0x00}), c.HeaderFraming(8))
	assert.ErrorIs(t, err, bitrle.ErrTruncatedStream)
}

func TestParseContainer(t *testing.T) {
	for _, name := range []string{"none", "gzip", "ZSTD"} {
		container, err := c.ParseContainer(name)
		require.NoError(t, err)
		assert.Equal(t, strings.ToLower(name), container.String())
	}

	_, err := c.ParseContainer("lzma")
	assert.ErrorIs(t, err, bitrle.ErrInvalidArgument)
}

func TestCompressArchive__UnknownContainer(t *testing.T) {
	_, err := c.CompressArchive(bytes.NewReader(nil), io.Discard, c.DefaultOptions, c.Container(42))
	assert.ErrorIs(t, err, bitrle.ErrInvalidArgument)

	_, err = c.ExpandArchive(bytes.NewReader(nil), io.Discard, c.DefaultOptions, c.Container(42))
	assert.ErrorIs(t, err, bitrle.ErrInvalidArgument)
}
