// The zonexml package implements an XML interchange format for zone files.
//
// The format is lossless: a zone read from binary files, written as XML, read
// back, and written as binary reproduces the original bytes. Unparsed regions
// appear as hex dumps, and opaque header fields are carried through.
package zonexml

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/clarosa/srzone"
	"github.com/clarosa/srzone/errors"
)

// Version is the version of the format, written to each document.
const Version = "1.0"

// Actions recorded on errors returned by the codec.
const (
	ActionRead  = "reading XML file"
	ActionWrite = "writing XML file"
)

// Encode writes f to w as an XML document. The header and data are each
// written when present.
func Encode(w io.Writer, f *srzone.File) error {
	doc, err := encodeDocument(f)
	if err != nil {
		return errors.Doing(err, ActionWrite)
	}
	s := etree.NewIndentSettings()
	s.Spaces = 2
	s.PreserveLeafWhitespace = true
	doc.IndentWithSettings(s)
	if _, err := doc.WriteTo(w); err != nil {
		return errors.Doing(errors.IO(err), ActionWrite)
	}
	return nil
}

// Decode reads an XML document from r. The header and data of the returned
// file are each nil when absent from the document.
func Decode(r io.Reader) (*srzone.File, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, errors.Doing(errors.Errorf(errors.FormatViolation, "malformed XML: %w", err), ActionRead)
	}
	f, err := decodeDocument(doc)
	if err != nil {
		return nil, errors.Doing(err, ActionRead)
	}
	return f, nil
}

////////////////////////////////////////////////////////////////

func formatHex16(v uint16) string { return fmt.Sprintf("0x%04X", v) }
func formatHex32(v uint32) string { return fmt.Sprintf("0x%08X", v) }
func formatHex64(v uint64) string { return fmt.Sprintf("0x%016X", v) }

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}

// formatFloat returns the shortest representation that reads back as f.
// Negative zero is kept.
func formatFloat(f float32) string {
	if f == 0 && math.Signbit(float64(f)) {
		return "-0"
	}
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// parseUint parses s as a hexadecimal number when prefixed with "0x", and as
// a decimal number otherwise.
func parseUint(s string, bits int) (uint64, error) {
	s = strings.TrimSpace(s)
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return strconv.ParseUint(s[2:], 16, bits)
	}
	return strconv.ParseUint(s, 10, bits)
}

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	return float32(f), err
}
