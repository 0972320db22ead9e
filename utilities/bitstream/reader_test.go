package bitstream_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/dargueta/bitrle"
	bs "github.com/dargueta/bitrle/utilities/bitstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct {
	err error
}

func (r failingReader) Read(p []byte) (int, error) {
	return 0, r.err
}

func TestReader__Empty(t *testing.T) {
	reader := bs.NewReader(bytes.NewReader([]byte{}))
	assert.True(t, reader.IsEmpty(), "empty stream should be empty")

	_, err := reader.ReadBit()
	assert.ErrorIs(t, err, io.EOF)

	_, err = reader.ReadUint(8)
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, reader.Err())
}

func TestReader__BitsMSBFirst(t *testing.T) {
	reader := bs.NewReader(bytes.NewReader([]byte{0xa5}))
	expected := []bool{true, false, true, false, false, true, false, true}

	for i, expectedBit := range expected {
		require.False(t, reader.IsEmpty(), "stream ended early at bit %d", i)
		bit, err := reader.ReadBit()
		require.NoError(t, err)
		assert.Equal(t, expectedBit, bit, "bit %d is wrong", i)
	}
	assert.True(t, reader.IsEmpty(), "stream should be exhausted")
	assert.EqualValues(t, 8, reader.BitsRead())
}

func TestReader__ReadUintAcrossBytes(t *testing.T) {
	// Same layout as the bitio documentation: 1100 111 101 010101
	reader := bs.NewReader(bytes.NewReader([]byte{0xcf, 0x55}))

	for _, step := range []struct {
		width    uint8
		expected uint64
	}{{4, 0x0c}, {3, 0x07}, {3, 0x05}, {6, 0x15}} {
		value, err := reader.ReadUint(step.width)
		require.NoError(t, err)
		assert.EqualValues(t, step.expected, value, "wrong value for width %d", step.width)
	}
	assert.True(t, reader.IsEmpty())
}

func TestReader__Read32BitHeader(t *testing.T) {
	reader := bs.NewReader(bytes.NewReader([]byte{0x00, 0x00, 0x01, 0x02, 0xff}))
	value, err := reader.ReadUint(32)
	require.NoError(t, err)
	assert.EqualValues(t, 258, value)
	assert.False(t, reader.IsEmpty(), "trailing byte should still be available")
}

func TestReader__PartialValueIsUnexpectedEOF(t *testing.T) {
	reader := bs.NewReader(bytes.NewReader([]byte{0xff}))

	_, err := reader.ReadUint(5)
	require.NoError(t, err)

	_, err = reader.ReadUint(5)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.True(t, reader.IsEmpty(), "reader should be exhausted after a short read")
}

func TestReader__InvalidWidth(t *testing.T) {
	reader := bs.NewReader(bytes.NewReader([]byte{0xff}))
	_, err := reader.ReadUint(0)
	assert.ErrorIs(t, err, bitrle.ErrArgumentOutOfRange)
	_, err = reader.ReadUint(65)
	assert.ErrorIs(t, err, bitrle.ErrArgumentOutOfRange)
}

func TestReader__UnderlyingFailure(t *testing.T) {
	ioErr := errors.New("disk on fire")
	reader := bs.NewReader(failingReader{ioErr})

	assert.True(t, reader.IsEmpty(), "failed stream should report empty")
	assert.ErrorIs(t, reader.Err(), ioErr)
	assert.ErrorIs(t, reader.Err(), bitrle.ErrIOFailed)

	_, err := reader.ReadBit()
	assert.ErrorIs(t, err, ioErr)
}
