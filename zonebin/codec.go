// The zonebin package implements the binary header (.czh_pc) and data
// (.czn_pc) formats of world zones.
//
// A data file cannot be interpreted in isolation: crunched geometry sections
// name mesh files by offsets into the reference table of the accompanying
// header file. Decoding or encoding such a section without a header fails
// with a ReferenceResolutionFailure.
package zonebin

import (
	"io"

	"github.com/clarosa/srzone"
	"github.com/clarosa/srzone/errors"
)

// Actions recorded on errors returned by the codec.
const (
	ActionReadHeader  = "reading zone header file"
	ActionWriteHeader = "writing zone header file"
	ActionReadData    = "reading zone data file"
	ActionWriteData   = "writing zone data file"
)

// Decoder decodes zone files from the binary format.
type Decoder struct {
	Config srzone.Config
}

// DecodeHeader reads a header file from r.
func (d Decoder) DecodeHeader(r io.Reader) (*srzone.Header, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Doing(errors.IO(err), ActionReadHeader)
	}
	h, err := newReader(b, d.Config).header()
	if err != nil {
		return nil, errors.Doing(err, ActionReadHeader)
	}
	return h, nil
}

// DecodeData reads a data file from r. h is the accompanying header, which
// may be nil if the data contains no crunched geometry.
func (d Decoder) DecodeData(r io.Reader, h *srzone.Header) (*srzone.Data, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Doing(errors.IO(err), ActionReadData)
	}
	rd := newReader(b, d.Config)
	if h != nil && h.References != nil {
		if rd.refs, err = namesByOffset(h.References); err != nil {
			return nil, errors.Doing(err, ActionReadData)
		}
	}
	data, err := rd.data()
	if err != nil {
		return nil, errors.Doing(err, ActionReadData)
	}
	return data, nil
}

// Encoder encodes zone files to the binary format. Nothing is written to the
// destination unless encoding succeeds.
type Encoder struct {
	Config srzone.Config
}

// EncodeHeader writes h to w.
func (e Encoder) EncodeHeader(w io.Writer, h *srzone.Header) error {
	wr := newWriter(e.Config)
	if err := wr.header(h); err != nil {
		return errors.Doing(err, ActionWriteHeader)
	}
	return errors.Doing(wr.flush(w), ActionWriteHeader)
}

// EncodeData writes d to w. h is the accompanying header, which may be nil if
// the data contains no crunched geometry.
func (e Encoder) EncodeData(w io.Writer, d *srzone.Data, h *srzone.Header) error {
	wr := newWriter(e.Config)
	if h != nil && h.References != nil {
		refs, err := offsetsByName(h.References)
		if err != nil {
			return errors.Doing(err, ActionWriteData)
		}
		wr.refs = refs
	}
	if err := wr.data(d); err != nil {
		return errors.Doing(err, ActionWriteData)
	}
	return errors.Doing(wr.flush(w), ActionWriteData)
}
