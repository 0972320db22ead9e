package main

import (
	"fmt"
	"io"
	"log"

	"github.com/dargueta/bitrle"
	"github.com/dargueta/bitrle/utilities/compression"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "bitrle",
		Usage: "Compress or expand bitmaps using run-length encoding",
		UsageText: "bitrle [options] - < input.bin > output.rle   (compress)\n" +
			"bitrle [options] + < input.rle > output.bin   (expand)",
		ArgsUsage: "- | +",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:    "width",
				Aliases: []string{"w"},
				Usage:   "number of bits in each run-length field (1-32)",
				Value:   uint(compression.DefaultOptions.FieldWidth),
				EnvVars: []string{"BITRLE_WIDTH"},
			},
			&cli.BoolFlag{
				Name:    "fixed-byte",
				Usage:   "use one-byte fields with no header; overrides --width",
				EnvVars: []string{"BITRLE_FIXED_BYTE"},
			},
			&cli.StringFlag{
				Name:    "container",
				Usage:   "wrap the encoded stream in `FORMAT`: none, gzip, or zstd",
				Value:   compression.ContainerNone.String(),
				EnvVars: []string{"BITRLE_CONTAINER"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log sizes to stderr",
				EnvVars: []string{"BITRLE_VERBOSE"},
			},
		},
		Action: runCodec,
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Report the encoded size of standard input at a range of field widths, as CSV",
				Action: showStats,
				Flags: []cli.Flag{
					&cli.UintFlag{
						Name:  "min-width",
						Usage: "narrowest field width to try",
						Value: 1,
					},
					&cli.UintFlag{
						Name:  "max-width",
						Usage: "widest field width to try",
						Value: 16,
					},
				},
			},
		},
	}
}

// newLogger returns a logger writing to the app's error stream if verbose
// output was requested, and one that discards everything otherwise.
func newLogger(context *cli.Context) *log.Logger {
	if context.Bool("verbose") {
		return log.New(context.App.ErrWriter, "bitrle: ", 0)
	}
	return log.New(io.Discard, "", 0)
}

func widthFlag(context *cli.Context, name string) (uint8, error) {
	width := context.Uint(name)
	if width > compression.MaxFieldWidth {
		return 0, bitrle.ErrArgumentOutOfRange.WithMessage(
			fmt.Sprintf(
				"--%s: %d not in [1, %d]", name, width, compression.MaxFieldWidth),
		)
	}
	return uint8(width), nil
}

func optionsFromFlags(context *cli.Context) (compression.Options, compression.Container, error) {
	container, err := compression.ParseContainer(context.String("container"))
	if err != nil {
		return compression.Options{}, container, err
	}

	if context.Bool("fixed-byte") {
		return compression.FixedByteFraming, container, nil
	}

	width, err := widthFlag(context, "width")
	if err != nil {
		return compression.Options{}, container, err
	}

	opts := compression.HeaderFraming(width)
	return opts, container, opts.Validate()
}

func runCodec(context *cli.Context) error {
	if context.NArg() != 1 {
		return bitrle.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("expected one argument, `-` or `+`, got %d", context.NArg()))
	}

	opts, container, err := optionsFromFlags(context)
	if err != nil {
		return err
	}
	logger := newLogger(context)

	switch mode := context.Args().First(); mode {
	case "-":
		n, err := compression.CompressArchive(
			context.App.Reader, context.App.Writer, opts, container)
		if err != nil {
			return err
		}
		logger.Printf("compressed input to %d bytes (%s, container %s)", n, opts, container)
	case "+":
		n, err := compression.ExpandArchive(
			context.App.Reader, context.App.Writer, opts, container)
		if err != nil {
			return err
		}
		logger.Printf("expanded input to %d bytes (%s, container %s)", n, opts, container)
	default:
		return bitrle.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("illegal command line argument %q", mode))
	}
	return nil
}

func showStats(context *cli.Context) error {
	minWidth, err := widthFlag(context, "min-width")
	if err != nil {
		return err
	}
	maxWidth, err := widthFlag(context, "max-width")
	if err != nil {
		return err
	}

	report, err := compression.Analyze(context.App.Reader, minWidth, maxWidth)
	if err != nil {
		return err
	}

	logger := newLogger(context)
	logger.Printf(
		"%d bits, %d ones, %d runs, longest run %d",
		report.TotalBits,
		report.OneBits,
		report.Runs,
		report.LongestRun,
	)
	if best, ok := report.Best(); ok {
		logger.Printf(
			"best field width is %d: %d bits (%.3f of input)",
			best.FieldWidth,
			best.EncodedBits,
			best.Ratio,
		)
	}
	return report.WriteCSV(context.App.Writer)
}
