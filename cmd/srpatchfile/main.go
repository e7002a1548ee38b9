// The srpatchfile command writes bytes to specific locations in an existing
// file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/clarosa/srzone/internal/hexpatch"
)

const usage = `usage: srpatchfile FILE [POS:][XX[XX[...]]]...

Writes one or more bytes to specific locations in FILE. FILE is modified in
place.

POS is the position in the file where the bytes are written, in hexadecimal.
If POS is omitted, the bytes are written after those of the previous argument.
XX is a byte value in hexadecimal. Multiple byte values are written to
consecutive locations.
`

func main() {
	flag.Usage = func() { fmt.Fprintf(flag.CommandLine.Output(), usage) }
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(2)
	}

	patches, err := hexpatch.Parse(args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	f, err := os.OpenFile(args[0], os.O_WRONLY, 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("open file: %w", err))
		os.Exit(1)
	}
	err = hexpatch.Apply(f, patches, os.Stdout)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("patch: %w", err))
		os.Exit(1)
	}
}
