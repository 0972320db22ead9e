package compression

import (
	"io"

	"github.com/dargueta/bitrle"
)

// BitRun represents a single run of a particular bit value.
type BitRun struct {
	// Value is the bit value for this run.
	Value bool
	// RunLength gives the number of times the bit occurs in the run.
	//
	// A valid run will always have this be 1 or greater. A value less than 1
	// indicates either EOF was encountered, or an error occurred.
	RunLength int
}

// InvalidBitRun is returned by [BitRunGrouper.GetNextRun] when there are no
// more runs or an error occurred.
var InvalidBitRun = BitRun{Value: false, RunLength: 0}

// BitRunGrouper splits a bit stream into maximal runs of identical bits.
//
// Unlike [Encode], the grouper reports the true value of every run and never
// splits long runs.
type BitRunGrouper struct {
	src        bitrle.BitSource
	nextBit    bool
	hasNextBit bool
}

func NewBitRunGrouper(src bitrle.BitSource) *BitRunGrouper {
	return &BitRunGrouper{src: src}
}

// GetNextRun returns a [BitRun] for the next run of bits in the stream. At the
// end of the stream it returns [InvalidBitRun] and [io.EOF].
func (grouper *BitRunGrouper) GetNextRun() (BitRun, error) {
	var firstBit bool
	if grouper.hasNextBit {
		firstBit = grouper.nextBit
		grouper.hasNextBit = false
	} else {
		if grouper.src.IsEmpty() {
			if err := sourceError(grouper.src); err != nil {
				return InvalidBitRun, err
			}
			return InvalidBitRun, io.EOF
		}
		bit, err := grouper.src.ReadBit()
		if err != nil {
			return InvalidBitRun, err
		}
		firstBit = bit
	}

	runLength := 1
	for !grouper.src.IsEmpty() {
		currentBit, err := grouper.src.ReadBit()
		if err != nil {
			return InvalidBitRun, err
		}
		if currentBit != firstBit {
			// Hit a different bit. There's no way to push it back into the
			// source, so hold on to it for the next call.
			grouper.nextBit = currentBit
			grouper.hasNextBit = true
			break
		}
		runLength++
	}
	return BitRun{Value: firstBit, RunLength: runLength}, nil
}
