package zonebin

import (
	"github.com/clarosa/srzone"
	"github.com/clarosa/srzone/errors"
)

func (r *reader) data() (*srzone.Data, error) {
	d := &srzone.Data{}
	for i := 0; r.pos() <= int64(len(r.buf))-4; i++ {
		s, err := r.section()
		if err != nil {
			return nil, errors.Within(err, errors.Section, i)
		}
		d.Sections = append(d.Sections, s)
	}
	return d, nil
}

func (r *reader) section() (*srzone.Section, error) {
	if err := r.align(4); err != nil {
		return nil, err
	}
	s := &srzone.Section{}
	if err := r.num(&s.ID); err != nil {
		return nil, err
	}
	if !srzone.ValidSectionType(s.Type()) {
		return nil, errorf(errors.FormatViolation, r.pos()-4,
			"invalid section ID 0x%08X; not a valid zone data file", s.ID)
	}
	var cpuSize uint32
	if err := r.num(&cpuSize); err != nil {
		return nil, err
	}
	if s.HasGPUData() {
		if err := r.num(&s.GPUSize); err != nil {
			return nil, err
		}
	}
	if cpuSize == 0 {
		return s, nil
	}

	start := r.pos()
	var err error
	switch {
	case !r.cfg.NoParseObjects && s.Type() == srzone.SectionCrunchedGeometry:
		s.Payload, err = r.crunchedGeometry(cpuSize)
	case !r.cfg.NoParseObjects && s.Type() == srzone.SectionObjects:
		s.Payload, err = r.objectTable()
		if err == nil && r.cfg.NoKeepPadding && r.pos()-start+padding(r.pos(), 4) == int64(cpuSize) {
			// Padding of the final property was not consumed.
			err = r.align(4)
		}
		if err == nil && r.pos()-start != int64(cpuSize) {
			err = errorf(errors.StructuralConstraintViolation, start,
				"object section occupies %d bytes; section header specifies %d", r.pos()-start, cpuSize)
		}
	default:
		var b []byte
		b, err = r.bytes(int64(cpuSize))
		s.Payload = srzone.RawBlock(b)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

////////////////////////////////////////////////////////////////

func (w *writer) data(d *srzone.Data) error {
	for i, s := range d.Sections {
		if err := w.section(s); err != nil {
			return errors.Within(err, errors.Section, i)
		}
	}
	return nil
}

func (w *writer) section(s *srzone.Section) error {
	if err := w.align(4); err != nil {
		return err
	}
	if !srzone.ValidSectionType(s.Type()) {
		return errorf(errors.FormatViolation, w.pos(), "invalid section ID 0x%08X", s.ID)
	}
	if err := w.num(s.ID); err != nil {
		return err
	}
	patchSize, err := w.reserve(uint32(0))
	if err != nil {
		return err
	}
	if s.HasGPUData() {
		if err := w.num(s.GPUSize); err != nil {
			return err
		}
	}

	start := w.pos()
	switch p := s.Payload.(type) {
	case nil:
	case srzone.RawBlock:
		err = w.bytes(p)
	case *srzone.ObjectTable:
		err = w.objectTable(p)
	case *srzone.CrunchedGeometry:
		err = w.crunchedGeometry(p)
	default:
		err = errorf(errors.StructuralConstraintViolation, start, "unsupported section payload %T", p)
	}
	if err != nil {
		return err
	}
	size := w.pos() - start
	if size > 0xFFFFFFFF {
		return errorf(errors.StructuralConstraintViolation, start, "section size %d does not fit in 32 bits", size)
	}
	return patchSize(uint32(size))
}
