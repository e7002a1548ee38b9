package zonebin

import (
	"github.com/clarosa/srzone"
	"github.com/clarosa/srzone/errors"
)

// Size of a mesh file record, holding a reference offset and a material map
// offset.
const meshFileRecordSize = 8

func (r *reader) crunchedGeometry(cpuSize uint32) (*srzone.CrunchedGeometry, error) {
	start := r.pos()
	if r.refs == nil {
		return nil, errorf(errors.ReferenceResolutionFailure, start,
			"crunched geometry section requires the zone header file")
	}
	var count, namesSize uint32
	if err := r.num(&count); err != nil {
		return nil, err
	}
	if err := r.num(&namesSize); err != nil {
		return nil, err
	}

	namesStart := r.pos()
	namesEnd := namesStart + int64(namesSize)
	meshNames := map[uint32]string{}
	for r.pos() < namesEnd {
		off := uint32(r.pos() - namesStart)
		name, err := r.cstring()
		if err != nil {
			return nil, err
		}
		if err := r.align(2); err != nil {
			return nil, err
		}
		meshNames[off] = name
	}
	if r.pos() != namesEnd {
		return nil, errorf(errors.StructuralConstraintViolation, namesStart,
			"mesh name list occupies %d bytes; section specifies %d", r.pos()-namesStart, namesSize)
	}

	if err := r.align(16); err != nil {
		return nil, err
	}
	if int64(count)*(meshFileRecordSize+srzone.FastObjectSize) > r.remaining() {
		return nil, errorf(errors.StructuralConstraintViolation, r.pos(),
			"%d fast objects exceed the remaining data", count)
	}
	g := &srzone.CrunchedGeometry{FastObjects: make([]srzone.FastObject, count)}
	for i := range g.FastObjects {
		fo := &g.FastObjects[i]
		var off uint32
		if err := r.num(&off); err != nil {
			return nil, errors.Within(err, errors.FastObject, i)
		}
		name, ok := r.refs[off]
		if !ok {
			return nil, errors.Within(errorf(errors.ReferenceResolutionFailure, r.pos()-4,
				"reference does not exist in v-file header at offset %d", off), errors.FastObject, i)
		}
		fo.File = name
		if err := r.num(&fo.MaterialMapOffset); err != nil {
			return nil, errors.Within(err, errors.FastObject, i)
		}
	}

	if err := r.align(16); err != nil {
		return nil, err
	}
	for i := range g.FastObjects {
		if err := r.fastObject(&g.FastObjects[i], meshNames); err != nil {
			return nil, errors.Within(err, errors.FastObject, i)
		}
	}

	rest := int64(cpuSize) - (r.pos() - start)
	if rest < 0 {
		return nil, errorf(errors.StructuralConstraintViolation, start,
			"crunched geometry occupies %d bytes; section header specifies %d", r.pos()-start, cpuSize)
	}
	b, err := r.bytes(rest)
	if err != nil {
		return nil, err
	}
	g.MeshVariantData = b
	return g, nil
}

func (r *reader) fastObject(fo *srzone.FastObject, meshNames map[uint32]string) (err error) {
	var off uint32
	if err := r.num(&fo.Handle); err != nil {
		return err
	}
	if err := r.num(&fo.RenderUpdateNext); err != nil {
		return err
	}
	if err := r.num(&off); err != nil {
		return err
	}
	name, ok := meshNames[off]
	if !ok {
		return errorf(errors.ReferenceResolutionFailure, r.pos()-4,
			"mesh name does not exist in crunched geometry section at offset %d", off)
	}
	fo.Name = name
	if fo.Position, err = r.vector(); err != nil {
		return err
	}
	if fo.Orientation, err = r.quaternion(); err != nil {
		return err
	}
	fo.Tail, err = r.bytes(srzone.FastObjectTailSize)
	return err
}

////////////////////////////////////////////////////////////////

func (w *writer) crunchedGeometry(g *srzone.CrunchedGeometry) error {
	if w.refs == nil {
		return errorf(errors.ReferenceResolutionFailure, w.pos(),
			"crunched geometry section requires the zone header file")
	}
	if err := w.num(uint32(len(g.FastObjects))); err != nil {
		return err
	}
	patchNamesSize, err := w.reserve(uint32(0))
	if err != nil {
		return err
	}

	namesStart := w.pos()
	meshOffsets := map[string]uint32{}
	for i, fo := range g.FastObjects {
		if _, ok := meshOffsets[fo.Name]; ok {
			continue
		}
		meshOffsets[fo.Name] = uint32(w.pos() - namesStart)
		if err := w.cstring(fo.Name); err != nil {
			return errors.Within(err, errors.FastObject, i)
		}
		if err := w.align(2); err != nil {
			return err
		}
	}
	if err := patchNamesSize(uint32(w.pos() - namesStart)); err != nil {
		return err
	}

	if err := w.align(16); err != nil {
		return err
	}
	for i, fo := range g.FastObjects {
		off, ok := w.refs[fo.File]
		if !ok {
			return errors.Within(errorf(errors.ReferenceResolutionFailure, w.pos(),
				"reference %q does not exist in v-file header", fo.File), errors.FastObject, i)
		}
		if err := w.num(off, fo.MaterialMapOffset); err != nil {
			return errors.Within(err, errors.FastObject, i)
		}
	}

	if err := w.align(16); err != nil {
		return err
	}
	for i, fo := range g.FastObjects {
		if err := w.fastObject(fo, meshOffsets[fo.Name]); err != nil {
			return errors.Within(err, errors.FastObject, i)
		}
	}
	return w.bytes(g.MeshVariantData)
}

func (w *writer) fastObject(fo srzone.FastObject, nameOffset uint32) error {
	if len(fo.Tail) != srzone.FastObjectTailSize {
		return errorf(errors.StructuralConstraintViolation, w.pos(),
			"fast object data is %d bytes; expected %d", len(fo.Tail), srzone.FastObjectTailSize)
	}
	if err := w.num(fo.Handle, fo.RenderUpdateNext, nameOffset); err != nil {
		return err
	}
	if err := w.vector(fo.Position); err != nil {
		return err
	}
	if err := w.quaternion(fo.Orientation); err != nil {
		return err
	}
	return w.bytes(fo.Tail)
}
