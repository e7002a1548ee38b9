// The hexpatch package writes runs of bytes into existing files.
//
// A patch is written as "[pos:]hex", where pos is a hexadecimal file position
// and hex is an even number of hexadecimal digits. A patch without a position
// continues where the previous patch ended.
package hexpatch

import (
	"encoding/hex"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

// Patch is a run of bytes to be written at a position.
type Patch struct {
	Pos   int64
	Bytes []byte
}

var syntax = regexp.MustCompile(`^(([0-9A-Fa-f]+):)?([0-9A-Fa-f]*)$`)

// Parse parses a list of patch arguments. Positions are resolved in order,
// starting at zero.
func Parse(args []string) ([]Patch, error) {
	patches := make([]Patch, 0, len(args))
	var pos int64
	for _, arg := range args {
		m := syntax.FindStringSubmatch(arg)
		if m == nil {
			return nil, fmt.Errorf("syntax error: %s", arg)
		}
		if m[2] != "" {
			p, err := strconv.ParseInt(m[2], 16, 64)
			if err != nil {
				return nil, fmt.Errorf("position %s: %w", m[2], err)
			}
			pos = p
		}
		if len(m[3])%2 != 0 {
			return nil, fmt.Errorf("odd number of digits: %s", arg)
		}
		b, err := hex.DecodeString(m[3])
		if err != nil {
			return nil, err
		}
		patches = append(patches, Patch{Pos: pos, Bytes: b})
		pos += int64(len(b))
	}
	return patches, nil
}

// Apply writes each patch to w in order. If log is not nil, a line is written
// to it for each byte.
func Apply(w io.WriterAt, patches []Patch, log io.Writer) error {
	for _, p := range patches {
		if log != nil {
			for i, b := range p.Bytes {
				fmt.Fprintf(log, "%08X: %02X\n", p.Pos+int64(i), b)
			}
		}
		if _, err := w.WriteAt(p.Bytes, p.Pos); err != nil {
			return err
		}
	}
	return nil
}
