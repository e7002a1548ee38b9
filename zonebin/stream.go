package zonebin

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/anaminus/parse"
	"github.com/clarosa/srzone"
	"github.com/clarosa/srzone/errors"
	"github.com/orcaman/writerseeker"
	"golang.org/x/text/encoding/charmap"
)

// padding returns the number of bytes needed to advance pos to a multiple of
// n.
func padding(pos, n int64) int64 {
	return (n - pos%n) % n
}

// errorf returns an error of the given kind located at offset.
func errorf(kind errors.Kind, offset int64, format string, args ...interface{}) error {
	return errors.At(errors.Errorf(kind, format, args...), offset)
}

// encodeString converts s to the single-byte encoding used by zone files.
func encodeString(s string) ([]byte, error) {
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.Errorf(errors.FormatViolation, "string %q cannot be encoded: %w", s, err)
	}
	return b, nil
}

func decodeString(b []byte) string {
	s, _ := charmap.ISO8859_1.NewDecoder().Bytes(b)
	return string(s)
}

////////////////////////////////////////////////////////////////

// reader scans a complete file image. Positions are offsets from the start
// of the image.
type reader struct {
	buf []byte
	fr  *parse.BinaryReader
	cfg srzone.Config

	// refs maps offsets within the header's reference table to names. It is
	// nil when no header is available.
	refs map[uint32]string
}

func newReader(b []byte, cfg srzone.Config) *reader {
	return &reader{
		buf: b,
		fr:  parse.NewBinaryReader(bytes.NewReader(b)),
		cfg: cfg,
	}
}

func (r *reader) pos() int64 {
	return r.fr.N()
}

func (r *reader) remaining() int64 {
	return int64(len(r.buf)) - r.pos()
}

// fail returns the error of the underlying reader, located at the current
// position.
func (r *reader) fail() error {
	err := r.fr.Err()
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return errors.At(errors.IO(err), r.pos())
}

func (r *reader) num(v interface{}) error {
	if r.fr.Number(v) {
		return r.fail()
	}
	return nil
}

// bytes reads exactly n bytes.
func (r *reader) bytes(n int64) ([]byte, error) {
	if n > r.remaining() {
		return nil, errors.At(errors.IO(io.ErrUnexpectedEOF), r.pos())
	}
	b := make([]byte, n)
	if r.fr.Bytes(b) {
		return nil, r.fail()
	}
	return b, nil
}

func (r *reader) skip(n int64) error {
	_, err := r.bytes(n)
	return err
}

func (r *reader) align(n int64) error {
	return r.skip(padding(r.pos(), n))
}

// cstring reads a null-terminated string.
func (r *reader) cstring() (string, error) {
	i := bytes.IndexByte(r.buf[r.pos():], 0)
	if i < 0 {
		return "", errorf(errors.IOFailure, r.pos(), "unterminated string: %w", io.ErrUnexpectedEOF)
	}
	b, err := r.bytes(int64(i) + 1)
	if err != nil {
		return "", err
	}
	return decodeString(b[:i]), nil
}

func (r *reader) vector() (v srzone.Vector3, err error) {
	if r.fr.Number(&v.X) || r.fr.Number(&v.Y) || r.fr.Number(&v.Z) {
		return v, r.fail()
	}
	return v, nil
}

func (r *reader) quaternion() (q srzone.Quaternion, err error) {
	if r.fr.Number(&q.X) || r.fr.Number(&q.Y) || r.fr.Number(&q.Z) || r.fr.Number(&q.W) {
		return q, r.fail()
	}
	return q, nil
}

////////////////////////////////////////////////////////////////

// writer builds a file image in memory, so that size and offset fields can be
// patched after the data they describe has been written.
type writer struct {
	ws  *writerseeker.WriterSeeker
	fw  *parse.BinaryWriter
	cfg srzone.Config

	// refs maps names in the header's reference table to offsets. It is nil
	// when no header is available.
	refs map[string]uint32
}

func newWriter(cfg srzone.Config) *writer {
	ws := &writerseeker.WriterSeeker{}
	return &writer{
		ws:  ws,
		fw:  parse.NewBinaryWriter(ws),
		cfg: cfg,
	}
}

func (w *writer) pos() int64 {
	return w.fw.N()
}

func (w *writer) fail() error {
	err := w.fw.Err()
	if err == nil {
		err = io.ErrShortWrite
	}
	return errors.At(errors.IO(err), w.pos())
}

func (w *writer) num(v ...interface{}) error {
	for _, v := range v {
		if w.fw.Number(v) {
			return w.fail()
		}
	}
	return nil
}

func (w *writer) bytes(b []byte) error {
	if w.fw.Bytes(b) {
		return w.fail()
	}
	return nil
}

func (w *writer) align(n int64) error {
	if pad := padding(w.pos(), n); pad > 0 {
		return w.bytes(make([]byte, pad))
	}
	return nil
}

// cstring writes s followed by a null byte.
func (w *writer) cstring(s string) error {
	b, err := encodeString(s)
	if err != nil {
		return errors.At(err, w.pos())
	}
	return w.bytes(append(b, 0))
}

func (w *writer) vector(v srzone.Vector3) error {
	return w.num(v.X, v.Y, v.Z)
}

func (w *writer) quaternion(q srzone.Quaternion) error {
	return w.num(q.X, q.Y, q.Z, q.W)
}

// reserve writes zero as a placeholder, and returns a function that replaces
// the placeholder with a final value of the same type. The write position is
// unchanged by the replacement.
func (w *writer) reserve(zero interface{}) (patch func(v interface{}) error, err error) {
	at := w.pos()
	if err := w.num(zero); err != nil {
		return nil, err
	}
	size := binary.Size(zero)
	return func(v interface{}) error {
		var b bytes.Buffer
		if err := binary.Write(&b, binary.LittleEndian, v); err != nil {
			return errors.At(errors.IO(err), at)
		}
		if b.Len() != size {
			return errorf(errors.IOFailure, at, "patch size %d does not match placeholder size %d", b.Len(), size)
		}
		end := w.pos()
		if _, err := w.ws.Seek(at, io.SeekStart); err != nil {
			return errors.At(errors.IO(err), at)
		}
		if _, err := w.ws.Write(b.Bytes()); err != nil {
			return errors.At(errors.IO(err), at)
		}
		if _, err := w.ws.Seek(end, io.SeekStart); err != nil {
			return errors.At(errors.IO(err), end)
		}
		return nil
	}, nil
}

// flush copies the finished image to dst.
func (w *writer) flush(dst io.Writer) error {
	_, err := io.Copy(dst, w.ws.Reader())
	return errors.IO(err)
}
