// The srzonefinder command lists the zones of a directory tree by position.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/clarosa/srzone/internal/catalog"
	"github.com/clarosa/srzone/internal/zonemap"
)

const usage = `usage: srzonefinder [OPTIONS] DIRECTORY [X Z]

Scans DIRECTORY and its subdirectories for zone header files (".czh_pc"), and
lists their world coordinates and file names. Zones at the origin are omitted.

The list is sorted by X, then Z, then Y coordinate. If X and Z are given, the
list is instead sorted by distance from that point, closest first.

Options:
`

func main() {
	var dbPath, mapPath string
	var mapSize int
	flag.StringVar(&dbPath, "db", ":memory:", "catalog database file")
	flag.StringVar(&mapPath, "png", "", "also draw the zones to a PNG file")
	flag.IntVar(&mapSize, "size", 1024, "width and height of the PNG map")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 && len(args) != 3 {
		flag.Usage()
		os.Exit(2)
	}

	var x, z float64
	byDistance := len(args) == 3
	if byDistance {
		var err error
		if x, err = strconv.ParseFloat(args[1], 32); err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("X: %w", err))
			os.Exit(2)
		}
		if z, err = strconv.ParseFloat(args[2], 32); err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("Z: %w", err))
			os.Exit(2)
		}
	}

	zones, err := find(dbPath, args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if byDistance {
		catalog.SortByDistance(zones, x, z)
	} else {
		catalog.SortByPosition(zones)
	}
	for _, zone := range zones {
		fmt.Printf("%8.2f %8.2f %8.2f  %s\n", zone.Offset.X, zone.Offset.Y, zone.Offset.Z, filepath.Base(zone.Path))
	}

	if mapPath != "" {
		if err := writeMap(mapPath, zones, mapSize); err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("write map: %w", err))
			os.Exit(1)
		}
	}
}

// find scans dir into the catalog at dbPath, and returns the zones that are
// not at the origin.
func find(dbPath, dir string) ([]catalog.Zone, error) {
	c, err := catalog.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer c.Close()

	warn, err := c.Scan(dir)
	if warn != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("warning: %w", warn))
	}
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	zones, err := c.Zones()
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	return catalog.Located(zones), nil
}

func writeMap(name string, zones []catalog.Zone, size int) error {
	out, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := zonemap.Encode(out, zones, size); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
