package compression

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dargueta/bitrle"
	bs "github.com/dargueta/bitrle/utilities/bitstream"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compress reads bytes from the input and writes the run-length encoded bits to
// the output until the input is exhausted. The return value is the number of
// bytes written, only valid if no error occurred.
func Compress(input io.Reader, output io.Writer, opts Options) (int64, error) {
	writer := bs.NewWriter(output)
	_, err := Encode(bs.NewReader(input), writer, opts)
	return writer.BytesWritten(), err
}

// Expand takes a stream produced by [Compress] with the same options and writes
// the original bytes to the output. The return value is the number of bytes
// written.
func Expand(input io.Reader, output io.Writer, opts Options) (int64, error) {
	writer := bs.NewWriter(output)
	_, err := Decode(bs.NewReader(input), writer, opts)
	return writer.BytesWritten(), err
}

// ExpandToBytes is a convenience function wrapping [Expand]. It functions
// identically, except it returns the expanded data in a new byte slice instead
// of writing to an [io.Writer]. An empty bitmap comes back as an empty, non-nil
// slice.
func ExpandToBytes(input io.Reader, opts Options) ([]byte, error) {
	buffer := bytes.Buffer{}
	_, err := Expand(input, &buffer, opts)
	if err != nil {
		return nil, err
	}

	outputSlice := make([]byte, buffer.Len())
	copy(outputSlice, buffer.Bytes())
	return outputSlice, nil
}

// CompressMask encodes the bits of an in-memory mask, starting at its read
// cursor.
func CompressMask(mask *bs.Mask, output io.Writer, opts Options) (int64, error) {
	writer := bs.NewWriter(output)
	_, err := Encode(mask, writer, opts)
	return writer.BytesWritten(), err
}

// ExpandToMask decodes a stream into an in-memory mask. Unlike [Expand], the
// result keeps the exact number of bits that were encoded, rather than being
// padded out to a whole byte.
func ExpandToMask(input io.Reader, opts Options) (*bs.Mask, error) {
	mask := bs.NewMask(0)
	_, err := Decode(bs.NewReader(input), mask, opts)
	if err != nil {
		return nil, err
	}
	return mask, nil
}

////////////////////////////////////////////////////////////////////////////////
// Containers

// Container is an optional general-purpose compression layer wrapped around the
// run-length encoded output.
type Container int

const (
	ContainerNone Container = iota
	ContainerGzip
	ContainerZstd
)

var containerNames = map[Container]string{
	ContainerNone: "none",
	ContainerGzip: "gzip",
	ContainerZstd: "zstd",
}

func (container Container) String() string {
	name, ok := containerNames[container]
	if ok {
		return name
	}
	return fmt.Sprintf("Container(%d)", int(container))
}

// ParseContainer returns the container with the given name. Matching is case
// insensitive.
func ParseContainer(name string) (Container, error) {
	for container, containerName := range containerNames {
		if strings.EqualFold(name, containerName) {
			return container, nil
		}
	}
	return ContainerNone, bitrle.ErrInvalidArgument.WithMessage(
		fmt.Sprintf("unknown container %q", name))
}

// CompressArchive run-length encodes the input and then compresses the result
// with the given container. The returned int64 gives the number of bytes
// written to the output stream. If an error occurred, the value is undefined
// and should not be used.
func CompressArchive(
	input io.Reader, output io.Writer, opts Options, container Container,
) (int64, error) {
	counter := &byteCounter{w: output}

	switch container {
	case ContainerNone:
		return Compress(input, output, opts)
	case ContainerGzip:
		// Mostly-empty bitmaps shrink a lot further after RLE, and they're not
		// big enough for the highest level to be noticeably slower.
		gzWriter, err := gzip.NewWriterLevel(counter, gzip.BestCompression)
		if err != nil {
			return 0, err
		}
		_, err = Compress(input, gzWriter, opts)
		if closeErr := gzWriter.Close(); err == nil {
			err = closeErr
		}
		return counter.n, err
	case ContainerZstd:
		zstdWriter, err := zstd.NewWriter(
			counter, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return 0, err
		}
		_, err = Compress(input, zstdWriter, opts)
		if closeErr := zstdWriter.Close(); err == nil {
			err = closeErr
		}
		return counter.n, err
	default:
		return 0, bitrle.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("unknown container %s", container))
	}
}

// ExpandArchive reverses [CompressArchive]. The returned int64 gives the number
// of bytes written to the output (i.e. the expanded size of the bitmap).
func ExpandArchive(
	input io.Reader, output io.Writer, opts Options, container Container,
) (int64, error) {
	switch container {
	case ContainerNone:
		return Expand(input, output, opts)
	case ContainerGzip:
		gzReader, err := gzip.NewReader(input)
		if err != nil {
			return 0, err
		}
		defer gzReader.Close()
		return Expand(gzReader, output, opts)
	case ContainerZstd:
		zstdReader, err := zstd.NewReader(input)
		if err != nil {
			return 0, err
		}
		defer zstdReader.Close()
		return Expand(zstdReader, output, opts)
	default:
		return 0, bitrle.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("unknown container %s", container))
	}
}

type byteCounter struct {
	w io.Writer
	n int64
}

func (c *byteCounter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
