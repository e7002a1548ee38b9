package zonexml

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/clarosa/srzone"
	"github.com/clarosa/srzone/errors"
)

func decodeDocument(doc *etree.Document) (*srzone.File, error) {
	root := doc.Root()
	if root == nil || root.Tag != "root" {
		return nil, errors.Errorf(errors.FormatViolation, "missing <root> element")
	}
	if v := root.FindElement("srzonetool/version"); v != nil && strings.TrimSpace(v.Text()) != Version {
		return nil, errors.Errorf(errors.FormatViolation, "unsupported document version %q; expected %q", v.Text(), Version)
	}

	dec := &decoder{}
	f := &srzone.File{}
	if e := root.SelectElement("czh_pc"); e != nil {
		f.Header = dec.header(e)
	}
	if e := root.SelectElement("czn_pc"); e != nil && dec.err == nil {
		f.Data = dec.data(e)
	}
	if dec.err != nil {
		return nil, dec.err
	}
	return f, nil
}

// decoder retains the first error encountered. Once an error is set, every
// method returns a zero value.
type decoder struct {
	err error
}

func (dec *decoder) fail(err error) {
	if dec.err == nil {
		dec.err = err
	}
}

func (dec *decoder) elem(parent *etree.Element, tag string) *etree.Element {
	if dec.err != nil {
		return nil
	}
	e := parent.SelectElement(tag)
	if e == nil {
		dec.fail(errors.Errorf(errors.FormatViolation, "missing <%s> element in <%s>", tag, parent.Tag))
	}
	return e
}

func (dec *decoder) text(parent *etree.Element, tag string) string {
	if e := dec.elem(parent, tag); e != nil {
		return e.Text()
	}
	return ""
}

func (dec *decoder) uint(parent *etree.Element, tag string, bits int) uint64 {
	s := dec.text(parent, tag)
	if dec.err != nil {
		return 0
	}
	v, err := parseUint(s, bits)
	if err != nil {
		dec.fail(errors.Errorf(errors.FormatViolation, "invalid %d-bit integer %q in <%s>", bits, s, tag))
	}
	return v
}

// optUint is like uint, but returns 0 when the element is absent.
func (dec *decoder) optUint(parent *etree.Element, tag string, bits int) uint64 {
	if dec.err != nil || parent.SelectElement(tag) == nil {
		return 0
	}
	return dec.uint(parent, tag, bits)
}

func (dec *decoder) float(parent *etree.Element, tag string) float32 {
	s := dec.text(parent, tag)
	if dec.err != nil {
		return 0
	}
	f, err := parseFloat(s)
	if err != nil {
		dec.fail(errors.Errorf(errors.FormatViolation, "invalid number %q in <%s>", s, tag))
	}
	return f
}

func (dec *decoder) vector(parent *etree.Element, tag string) (v srzone.Vector3) {
	if e := dec.elem(parent, tag); e != nil {
		v.X = dec.float(e, "x")
		v.Y = dec.float(e, "y")
		v.Z = dec.float(e, "z")
	}
	return v
}

func (dec *decoder) quaternion(parent *etree.Element, tag string) (q srzone.Quaternion) {
	if e := dec.elem(parent, tag); e != nil {
		q.X = dec.float(e, "x")
		q.Y = dec.float(e, "y")
		q.Z = dec.float(e, "z")
		q.W = dec.float(e, "w")
	}
	return q
}

// hex decodes the content of a rawdata element.
func (dec *decoder) hex(e *etree.Element) srzone.RawBlock {
	if dec.err != nil {
		return nil
	}
	if f := e.SelectAttrValue("format", "hex"); f != "hex" {
		dec.fail(errors.Errorf(errors.FormatViolation, "unsupported rawdata format %q", f))
		return nil
	}
	b, err := srzone.ParseHex(e.Text())
	if err != nil {
		dec.fail(err)
	}
	return b
}

// raw decodes the rawdata child of parent.
func (dec *decoder) raw(parent *etree.Element) srzone.RawBlock {
	if e := dec.elem(parent, "rawdata"); e != nil {
		return dec.hex(e)
	}
	return nil
}

////////////////////////////////////////////////////////////////

func (dec *decoder) header(e *etree.Element) *srzone.Header {
	vh := dec.elem(e, "v_file_header")
	wh := dec.elem(e, "world_zone_header")
	if dec.err != nil {
		return nil
	}

	refs := &srzone.ReferenceTable{
		Signature: uint16(dec.uint(vh, "signature", 16)),
		Version:   uint16(dec.uint(vh, "version", 16)),
		DataStart: uint32(dec.uint(vh, "ref_data_start", 32)),
		Unknown:   uint32(dec.uint(vh, "unknown", 32)),
	}
	if list := dec.elem(vh, "references"); list != nil {
		for _, ref := range list.SelectElements("reference") {
			refs.Names = append(refs.Names, ref.Text())
		}
	}

	wz := &srzone.WorldZoneHeader{
		Signature:         dec.text(wh, "signature"),
		Version:           uint32(dec.uint(wh, "version", 32)),
		FileHeaderPtr:     uint32(dec.optUint(wh, "v_file_header_ptr", 32)),
		Offset:            dec.vector(wh, "file_reference_offset"),
		FileReferencesPtr: uint32(dec.uint(wh, "file_references_ptr", 32)),
		ZoneType:          srzone.ZoneType(dec.uint(wh, "zone_type", 8)),
	}
	list := dec.elem(wh, "mesh_file_references")
	if dec.err != nil {
		return nil
	}
	for i, m := range list.SelectElements("mesh_file_reference") {
		ref := srzone.MeshFileReference{File: dec.text(m, "file")}
		ref.SetPosition(srzone.Vector3{
			X: dec.float(m, "pos_x"),
			Y: dec.float(m, "pos_y"),
			Z: dec.float(m, "pos_z"),
		})
		ref.SetOrientation(dec.float(m, "pitch"), dec.float(m, "bank"), dec.float(m, "heading"))
		if dec.err != nil {
			dec.err = errors.Within(dec.err, errors.MeshFileReference, i)
			return nil
		}
		wz.MeshReferences = append(wz.MeshReferences, ref)
	}
	return &srzone.Header{References: refs, WorldZone: wz}
}

////////////////////////////////////////////////////////////////

func (dec *decoder) data(e *etree.Element) *srzone.Data {
	d := &srzone.Data{}
	for i, se := range e.SelectElements("section") {
		s := dec.section(se)
		if dec.err != nil {
			dec.err = errors.Within(dec.err, errors.Section, i)
			return nil
		}
		d.Sections = append(d.Sections, s)
	}
	return d
}

func (dec *decoder) section(e *etree.Element) *srzone.Section {
	s := &srzone.Section{
		ID:      uint32(dec.uint(e, "id", 32)),
		GPUSize: uint32(dec.optUint(e, "gpu_size", 32)),
	}
	cpu := e.SelectElement("cpu_data")
	if cpu == nil || dec.err != nil {
		return s
	}
	children := cpu.ChildElements()
	if len(children) == 0 {
		dec.fail(errors.Errorf(errors.FormatViolation, "empty <cpu_data> element"))
		return nil
	}
	switch c := children[0]; c.Tag {
	case "rawdata":
		s.Payload = dec.hex(c)
	case "object_data":
		if t := dec.objectTable(c); t != nil {
			s.Payload = t
		}
	case "crunched_geometry_data":
		if g := dec.crunchedGeometry(c); g != nil {
			s.Payload = g
		}
	default:
		dec.fail(errors.Errorf(errors.FormatViolation, "unexpected <%s> element in <cpu_data>", c.Tag))
	}
	return s
}

func (dec *decoder) objectTable(e *etree.Element) *srzone.ObjectTable {
	t := &srzone.ObjectTable{
		Signature:         uint32(dec.uint(e, "signature", 32)),
		Version:           uint32(dec.uint(e, "version", 32)),
		Flags:             uint32(dec.uint(e, "flags", 32)),
		HandleListPointer: uint32(dec.uint(e, "handle_list_pointer", 32)),
		ObjectDataPointer: uint32(dec.uint(e, "object_data_pointer", 32)),
		ObjectDataSize:    uint32(dec.uint(e, "object_data_size", 32)),
	}
	handles := dec.elem(e, "handles")
	objects := dec.elem(e, "objects")
	if dec.err != nil {
		return nil
	}
	for _, h := range handles.SelectElements("handle") {
		v, err := parseUint(h.Text(), 64)
		if err != nil {
			dec.fail(errors.Errorf(errors.FormatViolation, "invalid handle %q", h.Text()))
			return nil
		}
		t.Handles = append(t.Handles, v)
	}
	for i, o := range objects.SelectElements("object") {
		obj := dec.object(o)
		if dec.err != nil {
			dec.err = errors.Within(dec.err, errors.Object, i)
			return nil
		}
		t.Objects = append(t.Objects, obj)
	}
	return t
}

func (dec *decoder) object(e *etree.Element) *srzone.Object {
	obj := &srzone.Object{
		Handle:       dec.uint(e, "handle", 64),
		ParentHandle: dec.uint(e, "parent_handle", 64),
		TypeHash:     uint32(dec.uint(e, "object_type_hash", 32)),
		Padding:      uint16(dec.uint(e, "padding", 16)),
		NameIndex:    -1,
	}
	name := dec.elem(e, "name")
	props := dec.elem(e, "properties")
	if dec.err != nil {
		return nil
	}
	for i, p := range props.SelectElements("property") {
		prop := dec.property(p)
		if dec.err != nil {
			dec.err = errors.Within(dec.err, errors.Property, i)
			return nil
		}
		obj.Properties = append(obj.Properties, prop)
	}
	if len(obj.Properties) == 0 {
		dec.fail(errors.Errorf(errors.StructuralConstraintViolation, "object has no properties"))
		return nil
	}

	if attr := name.SelectAttr("property"); attr != nil {
		k, err := strconv.Atoi(strings.TrimSpace(attr.Value))
		if err != nil || k < 1 || k > len(obj.Properties) {
			dec.fail(errors.Errorf(errors.StructuralConstraintViolation,
				"object name refers to property %q of %d", attr.Value, len(obj.Properties)))
			return nil
		}
		if obj.Properties[k-1].Value.Type() != srzone.TypeString {
			dec.fail(errors.Errorf(errors.StructuralConstraintViolation,
				"object name refers to property %d, which is not a string", k))
			return nil
		}
		obj.NameIndex = k - 1
		if s := name.Text(); obj.Name() != s {
			dec.fail(errors.Errorf(errors.StructuralConstraintViolation,
				"object name %q does not match property %d", s, k))
			return nil
		}
	} else if s := name.Text(); s != "" {
		if obj.NameIndex = obj.FindName(s); obj.NameIndex < 0 {
			dec.fail(errors.Errorf(errors.StructuralConstraintViolation,
				"object name %q does not match any property", s))
			return nil
		}
	}
	return obj
}

func (dec *decoder) property(e *etree.Element) (p srzone.Property) {
	tag := srzone.PropertyType(dec.uint(e, "type", 16))
	p.NameHash = dec.nameHash(e)
	value := dec.elem(e, "value")
	if dec.err != nil {
		return p
	}

	if raw := value.SelectElement("rawdata"); raw != nil {
		p.Value = srzone.ValueData{Tag: tag, Bytes: dec.hex(raw)}
	} else {
		switch tag {
		case srzone.TypeString:
			if s := dec.elem(value, "string"); s != nil {
				p.Value = srzone.ValueString(s.Text())
			}
		case srzone.TypeTransform:
			p.Value = srzone.ValueTransform{Position: dec.vector(value, "position")}
		case srzone.TypeTransformOrientation:
			p.Value = srzone.ValueTransformOrientation{
				Position:    dec.vector(value, "position"),
				Orientation: dec.quaternion(value, "orientation"),
			}
		default:
			dec.fail(errors.Errorf(errors.FormatViolation, "property of type %d requires a <rawdata> value", tag))
		}
	}
	if pad := e.SelectElement("padding"); pad != nil {
		p.Padding = dec.raw(pad)
	}
	return p
}

// nameHash reads the name_crc element, which holds either an unsigned 32-bit
// value or a signed decimal.
func (dec *decoder) nameHash(e *etree.Element) int32 {
	s := dec.text(e, "name_crc")
	if dec.err != nil {
		return 0
	}
	if v, err := parseUint(s, 32); err == nil {
		return int32(uint32(v))
	}
	if v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32); err == nil {
		return int32(v)
	}
	dec.fail(errors.Errorf(errors.FormatViolation, "invalid name hash %q", s))
	return 0
}

func (dec *decoder) crunchedGeometry(e *etree.Element) *srzone.CrunchedGeometry {
	list := dec.elem(e, "fast_objects")
	variants := dec.elem(e, "mesh_variant_data")
	if dec.err != nil {
		return nil
	}
	g := &srzone.CrunchedGeometry{}
	for i, f := range list.SelectElements("fast_object") {
		fo := srzone.FastObject{
			Name:              dec.text(f, "name"),
			File:              dec.text(f, "file"),
			MaterialMapOffset: uint32(dec.uint(f, "material_map_offset", 32)),
			Handle:            dec.uint(f, "handle", 64),
			RenderUpdateNext:  uint32(dec.uint(f, "m_render_update_next", 32)),
			Position:          dec.vector(f, "position"),
			Orientation:       dec.quaternion(f, "orientation"),
			Tail:              dec.raw(f),
		}
		if dec.err == nil && len(fo.Tail) != srzone.FastObjectTailSize {
			dec.fail(errors.Errorf(errors.StructuralConstraintViolation,
				"fast object data is %d bytes; expected %d", len(fo.Tail), srzone.FastObjectTailSize))
		}
		if dec.err != nil {
			dec.err = errors.Within(dec.err, errors.FastObject, i)
			return nil
		}
		g.FastObjects = append(g.FastObjects, fo)
	}
	g.MeshVariantData = dec.raw(variants)
	if dec.err != nil {
		return nil
	}
	return g
}
