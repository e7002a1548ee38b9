// Package srzone represents Saints Row world zone files in memory.
//
// A zone is stored as a pair of binary files: a header file (".czh_pc")
// holding a string reference table and the world zone header, and a data file
// (".czn_pc") holding an ordered list of sections. The zonebin package reads
// and writes the binary files, and the zonexml package reads and writes a
// lossless XML interchange form of the same data.
package srzone

import (
	"regexp"

	"github.com/clarosa/srzone/errors"
)

// File is a zone loaded from any combination of header, data, and XML files.
type File struct {
	// Header is nil when no header has been loaded.
	Header *Header
	// Data is nil when no data has been loaded.
	Data *Data
}

// Header is the content of a header file.
type Header struct {
	References *ReferenceTable
	WorldZone  *WorldZoneHeader
}

// Data is the content of a data file.
type Data struct {
	Sections []*Section
}

// Kind identifies the kind of file a name refers to.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindHeader       // Zone header file (".czh_pc").
	KindData         // Zone data file (".czn_pc").
	KindXML          // XML interchange file.
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "zone header"
	case KindData:
		return "zone data"
	case KindXML:
		return "XML"
	}
	return "unknown"
}

// ErrUnknownKind indicates a file name whose kind cannot be determined from
// its extension.
var ErrUnknownKind = errors.New("can't determine file format from file name")

var (
	dataExt   = regexp.MustCompile(`(?i)\.czn\w*$`)
	headerExt = regexp.MustCompile(`(?i)\.czh\w*$`)
	xmlExt    = regexp.MustCompile(`(?i)\.x\w*$`)
)

// KindOf returns the kind of file indicated by the extension of name.
// Returns ErrUnknownKind if the extension is not recognized.
func KindOf(name string) (Kind, error) {
	switch {
	case dataExt.MatchString(name):
		return KindData, nil
	case headerExt.MatchString(name):
		return KindHeader, nil
	case xmlExt.MatchString(name):
		return KindXML, nil
	}
	return KindUnknown, ErrUnknownKind
}
