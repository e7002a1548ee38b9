// The srzonecheck command verifies that zone files survive conversion to XML
// and back.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/clarosa/srzone/errors"
	"github.com/clarosa/srzone/internal/roundtrip"
	"github.com/clarosa/srzone/internal/settings"
)

const usage = `usage: srzonecheck [OPTIONS] DIRECTORY

Finds each zone data file (".czn_pc") under DIRECTORY that has a zone header
file (".czh_pc") beside it. Each pair is converted to XML and back, and the
result is compared with the original files. The position of the first
difference is reported for each file that changed.

Exits with a non-zero status if any pair fails.

Options:
`

func main() {
	flags := settings.Bind(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	s, err := flags.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("load settings: %w", err))
		os.Exit(1)
	}

	pairs, err := roundtrip.Find(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("find zones: %w", err))
		os.Exit(1)
	}

	var failed int
	for _, p := range pairs {
		r, err := roundtrip.Check(p, s.Zone)
		switch {
		case err != nil:
			failed++
			fmt.Printf("FAIL %s\n", p.Data)
			fmt.Println(errors.Render(err))
		case !r.OK():
			failed++
			fmt.Printf("FAIL %s\n", p.Data)
			if r.HeaderDiff >= 0 {
				fmt.Printf("     %s differs at 0x%08X\n", p.Header, r.HeaderDiff)
			}
			if r.DataDiff >= 0 {
				fmt.Printf("     %s differs at 0x%08X\n", p.Data, r.DataDiff)
			}
		case s.Verbose:
			fmt.Printf("ok   %s\n", p.Data)
		}
	}
	fmt.Printf("%d of %d zones passed\n", len(pairs)-failed, len(pairs))
	if failed > 0 {
		os.Exit(1)
	}
}
