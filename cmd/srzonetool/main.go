// The srzonetool command converts Saints Row zone files to and from XML.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/clarosa/srzone/errors"
	"github.com/clarosa/srzone/internal/dump"
	"github.com/clarosa/srzone/internal/settings"
	"github.com/clarosa/srzone/zonefile"
)

const usage = `usage: srzonetool [OPTIONS] INPUT...

Reads each INPUT into one zone, and writes the zone to OUTPUT. Supports Saints
Row: The Third and Saints Row IV.

INPUT and OUTPUT are zone data files (".czn_pc"), zone header files
(".czh_pc"), or XML files (".xml"). The format is selected by the file
extension. A data file needs its header file as one of the inputs. An XML
OUTPUT receives every part of the zone that was read.

Options:
`

func main() {
	var output string
	var watchInputs bool
	flag.StringVar(&output, "o", "", "output file (\".czn_pc\", \".czh_pc\", or \".xml\")")
	flag.BoolVar(&watchInputs, "watch", false, "convert again whenever an input file changes")
	flags := settings.Bind(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	s, err := flags.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("load settings: %w", err))
		os.Exit(1)
	}

	c := converter{inputs: inputs, output: output, settings: s}
	ok := c.run()
	if !watchInputs {
		if !ok {
			os.Exit(1)
		}
		return
	}
	if err := watch(inputs, output, func() { c.run() }); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("watch: %w", err))
		os.Exit(1)
	}
}

type converter struct {
	inputs   []string
	output   string
	settings settings.Settings
}

// run converts the inputs once, reporting any error to stderr.
func (c converter) run() bool {
	if err := c.convert(); err != nil {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "ERROR:")
		fmt.Fprintln(os.Stderr, errors.Render(err))
		return false
	}
	return true
}

func (c converter) convert() error {
	cfg := c.settings.Zone
	if c.settings.Verbose {
		log.Printf("[convert] reading %s", strings.Join(c.inputs, ", "))
	}
	f, err := zonefile.ReadFiles(c.inputs, cfg)
	if err != nil {
		return err
	}
	if c.settings.Verbose {
		if err := dump.Dump(os.Stderr, f); err != nil {
			return err
		}
	}
	if c.output == "" {
		return nil
	}
	if err := zonefile.WriteFile(f, c.output, cfg); err != nil {
		return err
	}
	if c.settings.Verbose {
		log.Printf("[convert] wrote %s", c.output)
	}
	return nil
}
