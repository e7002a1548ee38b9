package zonebin

import (
	"github.com/clarosa/srzone"
	"github.com/clarosa/srzone/errors"
)

// propertyDataOffset is the distance from the name-offset origin to the start
// of an object's property data. Name offsets are counted from the object's
// parent handle field.
const propertyDataOffset = 8

func (r *reader) objectTable() (*srzone.ObjectTable, error) {
	t := &srzone.ObjectTable{}
	if err := r.num(&t.Signature); err != nil {
		return nil, err
	}
	if t.Signature != srzone.ObjectTableSignature {
		return nil, errorf(errors.FormatViolation, r.pos()-4,
			"incorrect object section signature 0x%08X; expected 0x%08X", t.Signature, uint32(srzone.ObjectTableSignature))
	}
	if err := r.num(&t.Version); err != nil {
		return nil, err
	}
	if t.Version != srzone.ObjectTableVersion {
		return nil, errorf(errors.FormatViolation, r.pos()-4,
			"unsupported object section version %d; expected version %d", t.Version, srzone.ObjectTableVersion)
	}
	var numObjects, numHandles uint32
	for _, v := range []*uint32{&numObjects, &numHandles, &t.Flags, &t.HandleListPointer, &t.ObjectDataPointer, &t.ObjectDataSize} {
		if err := r.num(v); err != nil {
			return nil, err
		}
	}

	if int64(numHandles)*8 > r.remaining() {
		return nil, errorf(errors.StructuralConstraintViolation, r.pos(),
			"handle list of %d entries exceeds the remaining data", numHandles)
	}
	t.Handles = make([]uint64, numHandles)
	for i := range t.Handles {
		if err := r.num(&t.Handles[i]); err != nil {
			return nil, err
		}
	}

	capacity := int64(numObjects)
	if capacity > r.remaining() {
		capacity = r.remaining()
	}
	t.Objects = make([]*srzone.Object, 0, capacity)
	for i := 0; i < int(numObjects); i++ {
		obj, err := r.object()
		if err != nil {
			return nil, errors.Within(err, errors.Object, i)
		}
		t.Objects = append(t.Objects, obj)
	}
	return t, nil
}

func (r *reader) object() (*srzone.Object, error) {
	if err := r.align(4); err != nil {
		return nil, err
	}
	obj := &srzone.Object{NameIndex: -1}
	var count, bufferSize, nameOffset uint16
	if err := r.num(&obj.Handle); err != nil {
		return nil, err
	}
	if err := r.num(&obj.ParentHandle); err != nil {
		return nil, err
	}
	if err := r.num(&obj.TypeHash); err != nil {
		return nil, err
	}
	for _, v := range []*uint16{&count, &bufferSize, &nameOffset, &obj.Padding} {
		if err := r.num(v); err != nil {
			return nil, err
		}
	}
	if count == 0 {
		return nil, errorf(errors.StructuralConstraintViolation, r.pos()-8, "object has no properties")
	}

	start := r.pos()
	namePos := start + int64(nameOffset) - propertyDataOffset
	obj.Properties = make([]srzone.Property, 0, count)
	for i := 0; i < int(count); i++ {
		at := r.pos() + padding(r.pos(), 4)
		p, err := r.property()
		if err != nil {
			return nil, errors.Within(err, errors.Property, i)
		}
		if at == namePos {
			if p.Value.Type() != srzone.TypeString {
				return nil, errors.Within(errorf(errors.StructuralConstraintViolation, at,
					"object name offset refers to a %s property", p.Value.Type()), errors.Property, i)
			}
			obj.NameIndex = i
		}
		obj.Properties = append(obj.Properties, p)
	}
	if nameOffset != 0 && obj.NameIndex < 0 {
		return nil, errorf(errors.StructuralConstraintViolation, namePos,
			"object name offset %d does not refer to the start of a property", nameOffset)
	}
	return obj, nil
}

func (r *reader) property() (p srzone.Property, err error) {
	if err := r.align(4); err != nil {
		return p, err
	}
	var tag srzone.PropertyType
	var size uint16
	if err := r.num((*uint16)(&tag)); err != nil {
		return p, err
	}
	if err := r.num(&size); err != nil {
		return p, err
	}
	if err := r.num(&p.NameHash); err != nil {
		return p, err
	}

	start := r.pos()
	if r.cfg.NoParseValues {
		p.Value, err = r.valueData(tag, size)
	} else {
		switch tag {
		case srzone.TypeString:
			var s string
			if s, err = r.cstring(); err == nil {
				p.Value = srzone.ValueString(s)
				if n := r.pos() - start; n != int64(size) {
					err = errorf(errors.StructuralConstraintViolation, start,
						"string property occupies %d bytes; property header specifies %d", n, size)
				}
			}
		case srzone.TypeData:
			p.Value, err = r.valueData(tag, size)
		case srzone.TypeTransform:
			if size != srzone.TransformSize {
				return p, errorf(errors.StructuralConstraintViolation, start,
					"transform property has size %d; expected %d", size, srzone.TransformSize)
			}
			var v srzone.ValueTransform
			v.Position, err = r.vector()
			p.Value = v
		case srzone.TypeTransformOrientation:
			if size != srzone.TransformOrientationSize {
				return p, errorf(errors.StructuralConstraintViolation, start,
					"transform property has size %d; expected %d", size, srzone.TransformOrientationSize)
			}
			var v srzone.ValueTransformOrientation
			if v.Position, err = r.vector(); err == nil {
				v.Orientation, err = r.quaternion()
			}
			p.Value = v
		default:
			return p, errorf(errors.FormatViolation, start-8, "unknown property type %d", tag)
		}
	}
	if err != nil {
		return p, err
	}

	if !r.cfg.NoKeepPadding {
		if pad := padding(r.pos(), 4); pad > 0 && pad <= r.remaining() {
			b, err := r.bytes(pad)
			if err != nil {
				return p, err
			}
			p.Padding = b
		}
	}
	return p, nil
}

func (r *reader) valueData(tag srzone.PropertyType, size uint16) (srzone.Value, error) {
	b, err := r.bytes(int64(size))
	if err != nil {
		return nil, err
	}
	return srzone.ValueData{Tag: tag, Bytes: b}, nil
}

////////////////////////////////////////////////////////////////

func (w *writer) objectTable(t *srzone.ObjectTable) error {
	handles := t.Handles
	if w.cfg.RebuildHandleList {
		handles = t.SortedHandles()
	}
	if err := w.num(
		t.Signature,
		t.Version,
		uint32(len(t.Objects)),
		uint32(len(handles)),
		t.Flags,
		t.HandleListPointer,
		t.ObjectDataPointer,
		t.ObjectDataSize,
	); err != nil {
		return err
	}
	for _, h := range handles {
		if err := w.num(h); err != nil {
			return err
		}
	}
	for i, obj := range t.Objects {
		if err := w.object(obj); err != nil {
			return errors.Within(err, errors.Object, i)
		}
	}
	return nil
}

func (w *writer) object(obj *srzone.Object) error {
	if err := w.align(4); err != nil {
		return err
	}
	switch n := len(obj.Properties); {
	case n == 0:
		return errorf(errors.StructuralConstraintViolation, w.pos(), "object has no properties")
	case n > 0xFFFF:
		return errorf(errors.StructuralConstraintViolation, w.pos(), "too many properties (%d)", n)
	}
	if obj.NameIndex >= len(obj.Properties) {
		return errorf(errors.StructuralConstraintViolation, w.pos(),
			"object name refers to property %d of %d", obj.NameIndex+1, len(obj.Properties))
	}
	if obj.NameIndex >= 0 {
		if t := obj.Properties[obj.NameIndex].Value; t == nil || t.Type() != srzone.TypeString {
			return errorf(errors.StructuralConstraintViolation, w.pos(),
				"object name refers to property %d, which is not a string", obj.NameIndex+1)
		}
	}

	if err := w.num(obj.Handle, obj.ParentHandle, obj.TypeHash, uint16(len(obj.Properties))); err != nil {
		return err
	}
	patchSize, err := w.reserve(uint16(0))
	if err != nil {
		return err
	}
	patchName, err := w.reserve(uint16(0))
	if err != nil {
		return err
	}
	if err := w.num(obj.Padding); err != nil {
		return err
	}

	start := w.pos()
	var nameOffset int64
	for i, p := range obj.Properties {
		if err := w.align(4); err != nil {
			return err
		}
		if i == obj.NameIndex {
			nameOffset = w.pos() - start + propertyDataOffset
		}
		if err := w.property(p); err != nil {
			return errors.Within(err, errors.Property, i)
		}
	}
	if err := w.align(4); err != nil {
		return err
	}
	size := w.pos() - start
	if size > 0xFFFF {
		return errorf(errors.StructuralConstraintViolation, start, "object data size %d does not fit in 16 bits", size)
	}
	if nameOffset > 0xFFFF {
		return errorf(errors.StructuralConstraintViolation, start, "object name offset %d does not fit in 16 bits", nameOffset)
	}
	if err := patchSize(uint16(size)); err != nil {
		return err
	}
	return patchName(uint16(nameOffset))
}

func (w *writer) property(p srzone.Property) error {
	if err := w.align(4); err != nil {
		return err
	}
	if p.Value == nil {
		return errorf(errors.StructuralConstraintViolation, w.pos(), "property has no value")
	}
	if err := w.num(uint16(p.Value.Type())); err != nil {
		return err
	}
	patchSize, err := w.reserve(uint16(0))
	if err != nil {
		return err
	}
	if err := w.num(p.NameHash); err != nil {
		return err
	}

	start := w.pos()
	switch v := p.Value.(type) {
	case srzone.ValueString:
		err = w.cstring(string(v))
	case srzone.ValueData:
		err = w.bytes(v.Bytes)
	case srzone.ValueTransform:
		err = w.vector(v.Position)
	case srzone.ValueTransformOrientation:
		if err = w.vector(v.Position); err == nil {
			err = w.quaternion(v.Orientation)
		}
	default:
		err = errorf(errors.StructuralConstraintViolation, start, "unsupported property value %T", v)
	}
	if err != nil {
		return err
	}
	size := w.pos() - start
	if size > 0xFFFF {
		return errorf(errors.StructuralConstraintViolation, start, "property size %d does not fit in 16 bits", size)
	}

	if len(p.Padding) > 0 && int64(len(p.Padding)) == padding(w.pos(), 4) {
		if err := w.bytes(p.Padding); err != nil {
			return err
		}
	}
	return patchSize(uint16(size))
}
