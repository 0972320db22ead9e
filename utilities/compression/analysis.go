package compression

import (
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/bitrle"
	bs "github.com/dargueta/bitrle/utilities/bitstream"
	"github.com/gocarina/gocsv"
)

// WidthEstimate is the exact size of a stream encoded with header framing at
// one particular field width.
type WidthEstimate struct {
	FieldWidth  uint8   `csv:"field_width"`
	Fields      int     `csv:"fields"`
	EncodedBits uint64  `csv:"encoded_bits"`
	Ratio       float64 `csv:"ratio"`
}

// Report describes the runs in a bit stream and how well it compresses at a
// range of field widths.
type Report struct {
	TotalBits  int
	OneBits    int
	Runs       int
	LongestRun int
	Estimates  []WidthEstimate
}

// Best returns the estimate with the smallest encoded size. Ties go to the
// narrower width. If there are no estimates, the second return value is false.
func (report Report) Best() (WidthEstimate, bool) {
	if len(report.Estimates) == 0 {
		return WidthEstimate{}, false
	}

	best := report.Estimates[0]
	for _, estimate := range report.Estimates[1:] {
		if estimate.EncodedBits < best.EncodedBits {
			best = estimate
		}
	}
	return best, true
}

// WriteCSV writes one row per estimate, with a header row.
func (report Report) WriteCSV(output io.Writer) error {
	return gocsv.Marshal(report.Estimates, output)
}

// fieldCounter is a sink that only keeps track of how much would be written.
type fieldCounter struct {
	bits uint64
}

func (c *fieldCounter) WriteBit(bit bool) error {
	c.bits++
	return nil
}

func (c *fieldCounter) WriteUint(value uint64, width uint8) error {
	c.bits += uint64(width)
	return nil
}

func (c *fieldCounter) Close() error {
	return nil
}

// Analyze reads the entire input and reports its run structure along with the
// exact encoded size for every field width in [minWidth, maxWidth], using
// header framing.
func Analyze(input io.Reader, minWidth, maxWidth uint8) (Report, error) {
	if minWidth < 1 || maxWidth > MaxFieldWidth || minWidth > maxWidth {
		return Report{}, bitrle.ErrArgumentOutOfRange.WithMessage(
			fmt.Sprintf(
				"invalid width range [%d, %d]; must be within [1, %d]",
				minWidth,
				maxWidth,
				MaxFieldWidth,
			),
		)
	}

	reader := bs.NewReader(input)
	mask := bs.NewMask(0)
	report := Report{}

	grouper := NewBitRunGrouper(reader)
	for {
		run, err := grouper.GetNextRun()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Report{}, err
		}

		report.Runs++
		report.TotalBits += run.RunLength
		if run.Value {
			report.OneBits += run.RunLength
		}
		if run.RunLength > report.LongestRun {
			report.LongestRun = run.RunLength
		}
		for i := 0; i < run.RunLength; i++ {
			mask.Append(run.Value)
		}
	}

	for width := int(minWidth); width <= int(maxWidth); width++ {
		mask.Rewind()
		counter := &fieldCounter{}
		fields, err := Encode(mask, counter, HeaderFraming(uint8(width)))
		if err != nil {
			return Report{}, fmt.Errorf("failed to encode at width %d: %w", width, err)
		}

		estimate := WidthEstimate{
			FieldWidth:  uint8(width),
			Fields:      fields,
			EncodedBits: counter.bits,
		}
		if report.TotalBits > 0 {
			estimate.Ratio = float64(counter.bits) / float64(report.TotalBits)
		}
		report.Estimates = append(report.Estimates, estimate)
	}
	return report, nil
}
