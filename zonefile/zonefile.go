// The zonefile package reads and writes zone files by name, selecting the
// binary or XML codec from the file extension.
package zonefile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/clarosa/srzone"
	"github.com/clarosa/srzone/errors"
	"github.com/clarosa/srzone/zonebin"
	"github.com/clarosa/srzone/zonexml"
)

func kindOf(name string) (srzone.Kind, error) {
	kind, err := srzone.KindOf(name)
	if err != nil {
		return kind, fmt.Errorf("%s: %w", name, err)
	}
	return kind, nil
}

// ReadFile reads the named file into f. A header or data file replaces the
// corresponding part of f. An XML file replaces each part it contains.
//
// Data files are interpreted using the header already in f, so a header file
// should be read before its data file.
func ReadFile(f *srzone.File, name string, cfg srzone.Config) error {
	kind, err := kindOf(name)
	if err != nil {
		return err
	}
	file, err := os.Open(name)
	if err != nil {
		return errors.Doing(errors.IO(err), readAction(kind))
	}
	defer file.Close()
	return read(f, kind, file, cfg)
}

func readAction(kind srzone.Kind) string {
	switch kind {
	case srzone.KindHeader:
		return zonebin.ActionReadHeader
	case srzone.KindData:
		return zonebin.ActionReadData
	}
	return zonexml.ActionRead
}

func read(f *srzone.File, kind srzone.Kind, r io.Reader, cfg srzone.Config) error {
	switch kind {
	case srzone.KindHeader:
		h, err := zonebin.Decoder{Config: cfg}.DecodeHeader(r)
		if err != nil {
			return err
		}
		f.Header = h
	case srzone.KindData:
		d, err := zonebin.Decoder{Config: cfg}.DecodeData(r, f.Header)
		if err != nil {
			return err
		}
		f.Data = d
	case srzone.KindXML:
		x, err := zonexml.Decode(r)
		if err != nil {
			return err
		}
		if x.Header != nil {
			f.Header = x.Header
		}
		if x.Data != nil {
			f.Data = x.Data
		}
	}
	return nil
}

// ReadFiles reads each named file into a new File. Header files are read
// first, then XML files, then data files, so that data files can resolve
// references regardless of the order of names.
func ReadFiles(names []string, cfg srzone.Config) (*srzone.File, error) {
	type entry struct {
		name string
		kind srzone.Kind
	}
	entries := make([]entry, len(names))
	for i, name := range names {
		kind, err := kindOf(name)
		if err != nil {
			return nil, err
		}
		entries[i] = entry{name: name, kind: kind}
	}
	rank := map[srzone.Kind]int{srzone.KindHeader: 0, srzone.KindXML: 1, srzone.KindData: 2}
	sort.SliceStable(entries, func(i, j int) bool {
		return rank[entries[i].kind] < rank[entries[j].kind]
	})

	f := &srzone.File{}
	for _, e := range entries {
		if err := ReadFile(f, e.name, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", e.name, err)
		}
	}
	return f, nil
}

// WriteFile writes the part of f selected by the extension of name. An XML
// file receives every part present in f.
//
// The file is written only if encoding succeeds. If writing fails, the
// partial file is removed.
func WriteFile(f *srzone.File, name string, cfg srzone.Config) error {
	kind, err := kindOf(name)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := write(f, kind, &buf, cfg); err != nil {
		return err
	}
	if err := os.WriteFile(name, buf.Bytes(), 0666); err != nil {
		os.Remove(name)
		return errors.Doing(errors.IO(err), writeAction(kind))
	}
	return nil
}

func writeAction(kind srzone.Kind) string {
	switch kind {
	case srzone.KindHeader:
		return zonebin.ActionWriteHeader
	case srzone.KindData:
		return zonebin.ActionWriteData
	}
	return zonexml.ActionWrite
}

func write(f *srzone.File, kind srzone.Kind, w io.Writer, cfg srzone.Config) error {
	switch kind {
	case srzone.KindHeader:
		if f.Header == nil {
			return errors.Doing(errors.Errorf(errors.StructuralConstraintViolation, "no zone header to write"), writeAction(kind))
		}
		return zonebin.Encoder{Config: cfg}.EncodeHeader(w, f.Header)
	case srzone.KindData:
		if f.Data == nil {
			return errors.Doing(errors.Errorf(errors.StructuralConstraintViolation, "no zone data to write"), writeAction(kind))
		}
		return zonebin.Encoder{Config: cfg}.EncodeData(w, f.Data, f.Header)
	case srzone.KindXML:
		if f.Header == nil && f.Data == nil {
			return errors.Doing(errors.Errorf(errors.StructuralConstraintViolation, "no zone to write"), writeAction(kind))
		}
		return zonexml.Encode(w, f)
	}
	return nil
}
