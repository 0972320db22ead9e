// Command unzipbitmap expands a gzip-wrapped, header-framed bitmap into a raw
// file.
package main

import (
	"fmt"
	"os"

	"github.com/dargueta/bitrle/utilities/compression"
)

// expandFile decodes the archive at sourcePath into a new file at outputPath,
// returning the number of bytes written.
func expandFile(sourcePath, outputPath string) (int64, error) {
	source, err := os.Open(sourcePath)
	if err != nil {
		return 0, fmt.Errorf("can't read %q: %w", sourcePath, err)
	}
	defer source.Close()

	output, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("can't write %q: %w", outputPath, err)
	}

	written, err := compression.ExpandArchive(
		source, output, compression.DefaultOptions, compression.ContainerGzip)
	closeErr := output.Close()
	if err != nil {
		return written, err
	}
	return written, closeErr
}

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(
			os.Stderr,
			"Expand a gzip-wrapped RLE bitmap.\nUsage: %s archive output-file\n",
			os.Args[0])
		os.Exit(1)
	}

	written, err := expandFile(os.Args[1], os.Args[2])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Printf("Wrote %d bytes to %s.\n", written, os.Args[2])
}
