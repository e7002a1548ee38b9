// The roundtrip package verifies that zone files survive conversion to XML
// and back without change.
package roundtrip

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/clarosa/srzone"
	"github.com/clarosa/srzone/zonebin"
	"github.com/clarosa/srzone/zonexml"
)

// Pair is a data file and its header file.
type Pair struct {
	Header string
	Data   string
}

// Find returns each data file under root that has a header file beside it,
// in lexical order.
func Find(root string) ([]Pair, error) {
	var pairs []Pair
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := filepath.Ext(path)
		if d.IsDir() || !strings.EqualFold(ext, ".czn_pc") {
			return nil
		}
		header := path[:len(path)-len(ext)] + ".czh_pc"
		if _, err := os.Stat(header); err != nil {
			return nil
		}
		pairs = append(pairs, Pair{Header: header, Data: path})
		return nil
	})
	return pairs, err
}

// Result reports the outcome of checking one pair.
type Result struct {
	Pair
	// HeaderDiff and DataDiff are the offsets of the first byte that differs
	// after the round trip, or -1 if the files are identical.
	HeaderDiff int64
	DataDiff   int64
}

// OK returns whether both files survived unchanged.
func (r Result) OK() bool {
	return r.HeaderDiff < 0 && r.DataDiff < 0
}

// Compare returns the offset of the first byte that differs between a and b,
// or -1 if they are equal. When one is a prefix of the other, the offset is
// the length of the shorter.
func Compare(a, b []byte) int64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return int64(i)
		}
	}
	if len(a) != len(b) {
		return int64(n)
	}
	return -1
}

// Check converts a pair to XML and back, and compares the result with the
// original files. An error is returned if any conversion step fails.
func Check(p Pair, cfg srzone.Config) (r Result, err error) {
	r.Pair = p
	header, err := os.ReadFile(p.Header)
	if err != nil {
		return r, err
	}
	data, err := os.ReadFile(p.Data)
	if err != nil {
		return r, err
	}
	header2, data2, err := Convert(header, data, cfg)
	if err != nil {
		return r, err
	}
	r.HeaderDiff = Compare(header, header2)
	r.DataDiff = Compare(data, data2)
	return r, nil
}

// Convert decodes a header and data file, passes them through XML, and
// returns the re-encoded files.
func Convert(header, data []byte, cfg srzone.Config) (header2, data2 []byte, err error) {
	dec := zonebin.Decoder{Config: cfg}
	f := &srzone.File{}
	if f.Header, err = dec.DecodeHeader(bytes.NewReader(header)); err != nil {
		return nil, nil, err
	}
	if f.Data, err = dec.DecodeData(bytes.NewReader(data), f.Header); err != nil {
		return nil, nil, err
	}

	var x bytes.Buffer
	if err = zonexml.Encode(&x, f); err != nil {
		return nil, nil, err
	}
	if f, err = zonexml.Decode(&x); err != nil {
		return nil, nil, err
	}

	enc := zonebin.Encoder{Config: cfg}
	var h, d bytes.Buffer
	if err = enc.EncodeHeader(&h, f.Header); err != nil {
		return nil, nil, err
	}
	if err = enc.EncodeData(&d, f.Data, f.Header); err != nil {
		return nil, nil, err
	}
	return h.Bytes(), d.Bytes(), nil
}
