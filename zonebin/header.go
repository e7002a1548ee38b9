package zonebin

import (
	"github.com/clarosa/srzone"
	"github.com/clarosa/srzone/errors"
)

// Sizes of reserved regions in the header file.
const (
	referenceTableReserved = 12
	worldZoneReserved      = 24
)

func (r *reader) header() (*srzone.Header, error) {
	refs, err := r.referenceTable()
	if err != nil {
		return nil, err
	}
	if r.refs, err = namesByOffset(refs); err != nil {
		return nil, err
	}
	wz, err := r.worldZoneHeader()
	if err != nil {
		return nil, err
	}
	return &srzone.Header{References: refs, WorldZone: wz}, nil
}

func (r *reader) referenceTable() (*srzone.ReferenceTable, error) {
	t := &srzone.ReferenceTable{}
	if err := r.num(&t.Signature); err != nil {
		return nil, err
	}
	if t.Signature != srzone.ReferenceTableSignature {
		return nil, errorf(errors.FormatViolation, r.pos()-2,
			"incorrect v-file header signature 0x%04X; not a valid zone header file", t.Signature)
	}
	if err := r.num(&t.Version); err != nil {
		return nil, err
	}
	if t.Version != srzone.ReferenceTableVersion {
		return nil, errorf(errors.FormatViolation, r.pos()-2,
			"incorrect v-file header version %d; expected version %d", t.Version, srzone.ReferenceTableVersion)
	}

	// The size of the string region is derived from the names when writing.
	var size, count uint32
	if err := r.num(&size); err != nil {
		return nil, err
	}
	if err := r.num(&t.DataStart); err != nil {
		return nil, err
	}
	if err := r.num(&count); err != nil {
		return nil, err
	}
	if err := r.num(&t.Unknown); err != nil {
		return nil, err
	}
	if err := r.skip(referenceTableReserved); err != nil {
		return nil, err
	}

	capacity := int64(count)
	if capacity > r.remaining() {
		capacity = r.remaining()
	}
	t.Names = make([]string, 0, capacity)
	for i := uint32(0); i < count; i++ {
		name, err := r.cstring()
		if err != nil {
			return nil, errors.Within(err, errors.Reference, int(i))
		}
		t.Names = append(t.Names, name)
	}

	var term uint8
	if err := r.num(&term); err != nil {
		return nil, err
	}
	if term != 0 {
		return nil, errorf(errors.FormatViolation, r.pos()-1, "expected null byte after references, found 0x%02X", term)
	}
	return t, nil
}

func (r *reader) worldZoneHeader() (*srzone.WorldZoneHeader, error) {
	if err := r.align(16); err != nil {
		return nil, err
	}
	sig, err := r.bytes(4)
	if err != nil {
		return nil, err
	}
	wz := &srzone.WorldZoneHeader{Signature: string(sig)}
	if wz.Signature != srzone.WorldZoneSignature {
		return nil, errorf(errors.FormatViolation, r.pos()-4,
			"incorrect world zone header signature %q; expected %q", sig, srzone.WorldZoneSignature)
	}
	if err := r.num(&wz.Version); err != nil {
		return nil, err
	}
	if wz.Version != srzone.WorldZoneVersionSR3 && wz.Version != srzone.WorldZoneVersionSR4 {
		return nil, errorf(errors.FormatViolation, r.pos()-4,
			"unsupported world zone header version %d; expected version %d or %d",
			wz.Version, srzone.WorldZoneVersionSR3, srzone.WorldZoneVersionSR4)
	}
	if err := r.num(&wz.FileHeaderPtr); err != nil {
		return nil, err
	}
	if wz.Offset, err = r.vector(); err != nil {
		return nil, err
	}
	if err := r.num(&wz.FileReferencesPtr); err != nil {
		return nil, err
	}
	var count uint16
	if err := r.num(&count); err != nil {
		return nil, err
	}
	if err := r.num((*uint8)(&wz.ZoneType)); err != nil {
		return nil, err
	}

	var unused uint8
	var triggerPtr uint32
	var triggers, extraObjects uint16
	if err := r.num(&unused); err != nil {
		return nil, err
	}
	if unused != 0 {
		return nil, errorf(errors.FormatViolation, r.pos()-1, "unused world zone header field is %d; expected 0", unused)
	}
	if err := r.num(&triggerPtr); err != nil {
		return nil, err
	}
	if triggerPtr != 0 {
		return nil, errorf(errors.FormatViolation, r.pos()-4, "interior trigger pointer is 0x%08X; expected 0", triggerPtr)
	}
	if err := r.num(&triggers); err != nil {
		return nil, err
	}
	if triggers != 0 {
		return nil, errorf(errors.FormatViolation, r.pos()-2, "number of triggers is %d; expected 0", triggers)
	}
	if err := r.num(&extraObjects); err != nil {
		return nil, err
	}
	if extraObjects != 0 {
		return nil, errorf(errors.FormatViolation, r.pos()-2, "extra objects field is %d; expected 0", extraObjects)
	}
	if err := r.skip(worldZoneReserved); err != nil {
		return nil, err
	}

	wz.MeshReferences = make([]srzone.MeshFileReference, 0, count)
	for i := 0; i < int(count); i++ {
		ref, err := r.meshFileReference()
		if err != nil {
			return nil, errors.Within(err, errors.MeshFileReference, i)
		}
		wz.MeshReferences = append(wz.MeshReferences, ref)
	}
	return wz, nil
}

func (r *reader) meshFileReference() (ref srzone.MeshFileReference, err error) {
	for _, v := range []*int16{&ref.PosX, &ref.PosY, &ref.PosZ, &ref.Pitch, &ref.Bank, &ref.Heading} {
		if err := r.num(v); err != nil {
			return ref, err
		}
	}
	var off uint16
	if err := r.num(&off); err != nil {
		return ref, err
	}
	name, ok := r.refs[uint32(off)]
	if !ok {
		return ref, errorf(errors.ReferenceResolutionFailure, r.pos()-2,
			"reference does not exist in v-file header at offset %d", off)
	}
	ref.File = name
	return ref, nil
}

////////////////////////////////////////////////////////////////

func (w *writer) header(h *srzone.Header) error {
	if h == nil || h.References == nil || h.WorldZone == nil {
		return errors.Errorf(errors.StructuralConstraintViolation, "header is incomplete")
	}
	refs, err := w.referenceTable(h.References)
	if err != nil {
		return err
	}
	w.refs = refs
	return w.worldZoneHeader(h.WorldZone)
}

// referenceTable writes t, and returns the offset of each name within the
// string region.
func (w *writer) referenceTable(t *srzone.ReferenceTable) (map[string]uint32, error) {
	if err := w.num(t.Signature, t.Version); err != nil {
		return nil, err
	}
	patchSize, err := w.reserve(uint32(0))
	if err != nil {
		return nil, err
	}
	if err := w.num(t.DataStart, uint32(len(t.Names)), t.Unknown); err != nil {
		return nil, err
	}
	if err := w.bytes(make([]byte, referenceTableReserved)); err != nil {
		return nil, err
	}

	start := w.pos()
	offsets := make([]uint32, len(t.Names))
	for i, name := range t.Names {
		offsets[i] = uint32(w.pos() - start)
		if err := w.cstring(name); err != nil {
			return nil, errors.Within(err, errors.Reference, i)
		}
	}
	size := w.pos() - start
	if err := w.num(uint8(0)); err != nil {
		return nil, err
	}
	if err := patchSize(uint32(size)); err != nil {
		return nil, err
	}
	return indexOffsets(t.Names, offsets), nil
}

func (w *writer) worldZoneHeader(wz *srzone.WorldZoneHeader) error {
	if len(wz.MeshReferences) > 0xFFFF {
		return errors.Errorf(errors.StructuralConstraintViolation,
			"too many mesh file references (%d)", len(wz.MeshReferences))
	}
	if err := w.align(16); err != nil {
		return err
	}
	sig := []byte(wz.Signature)
	if len(sig) != 4 {
		return errorf(errors.FormatViolation, w.pos(), "world zone header signature %q is not 4 bytes", wz.Signature)
	}
	if err := w.bytes(sig); err != nil {
		return err
	}
	if err := w.num(wz.Version, wz.FileHeaderPtr); err != nil {
		return err
	}
	if err := w.vector(wz.Offset); err != nil {
		return err
	}
	if err := w.num(
		wz.FileReferencesPtr,
		uint16(len(wz.MeshReferences)),
		uint8(wz.ZoneType),
		uint8(0),  // unused
		uint32(0), // interior trigger pointer
		uint16(0), // number of triggers
		uint16(0), // extra objects
	); err != nil {
		return err
	}
	if err := w.bytes(make([]byte, worldZoneReserved)); err != nil {
		return err
	}
	for i, ref := range wz.MeshReferences {
		if err := w.meshFileReference(ref); err != nil {
			return errors.Within(err, errors.MeshFileReference, i)
		}
	}
	return nil
}

func (w *writer) meshFileReference(ref srzone.MeshFileReference) error {
	off, ok := w.refs[ref.File]
	if !ok {
		return errorf(errors.ReferenceResolutionFailure, w.pos(),
			"reference %q does not exist in v-file header", ref.File)
	}
	if off > 0xFFFF {
		return errorf(errors.StructuralConstraintViolation, w.pos(),
			"offset %d of reference %q does not fit in 16 bits", off, ref.File)
	}
	return w.num(ref.PosX, ref.PosY, ref.PosZ, ref.Pitch, ref.Bank, ref.Heading, uint16(off))
}
