package zonexml

import (
	"strconv"

	"github.com/beevik/etree"
	"github.com/clarosa/srzone"
	"github.com/clarosa/srzone/errors"
)

func encodeDocument(f *srzone.File) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	root := doc.CreateElement("root")
	root.CreateElement("srzonetool").CreateElement("version").SetText(Version)

	if f.Header != nil {
		if err := encodeHeader(root.CreateElement("czh_pc"), f.Header); err != nil {
			return nil, err
		}
	}
	if f.Data != nil {
		if err := encodeData(root.CreateElement("czn_pc"), f.Data); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// text adds a child element holding s. An empty s produces an empty element.
func text(parent *etree.Element, tag, s string) *etree.Element {
	e := parent.CreateElement(tag)
	if s != "" {
		e.SetText(s)
	}
	return e
}

func indexed(parent *etree.Element, tag string, i int) *etree.Element {
	e := parent.CreateElement(tag)
	e.CreateAttr("index", strconv.Itoa(i+1))
	return e
}

func encodeVector(parent *etree.Element, tag string, v srzone.Vector3) {
	e := parent.CreateElement(tag)
	text(e, "x", formatFloat(v.X))
	text(e, "y", formatFloat(v.Y))
	text(e, "z", formatFloat(v.Z))
}

func encodeQuaternion(parent *etree.Element, tag string, q srzone.Quaternion) {
	e := parent.CreateElement(tag)
	text(e, "x", formatFloat(q.X))
	text(e, "y", formatFloat(q.Y))
	text(e, "z", formatFloat(q.Z))
	text(e, "w", formatFloat(q.W))
}

func encodeRaw(parent *etree.Element, b srzone.RawBlock) {
	e := text(parent, "rawdata", b.Hex())
	e.CreateAttr("format", "hex")
}

////////////////////////////////////////////////////////////////

func encodeHeader(e *etree.Element, h *srzone.Header) error {
	if h.References == nil || h.WorldZone == nil {
		return errors.Errorf(errors.StructuralConstraintViolation, "header is incomplete")
	}

	refs := h.References
	vh := e.CreateElement("v_file_header")
	text(vh, "signature", formatHex16(refs.Signature))
	text(vh, "version", formatUint(uint64(refs.Version)))
	text(vh, "ref_data_start", formatUint(uint64(refs.DataStart)))
	text(vh, "unknown", formatUint(uint64(refs.Unknown)))
	list := vh.CreateElement("references")
	for i, name := range refs.Names {
		ref := indexed(list, "reference", i)
		if name != "" {
			ref.SetText(name)
		}
	}

	wz := h.WorldZone
	wh := e.CreateElement("world_zone_header")
	text(wh, "signature", wz.Signature)
	text(wh, "version", formatUint(uint64(wz.Version)))
	text(wh, "v_file_header_ptr", formatHex32(wz.FileHeaderPtr))
	encodeVector(wh, "file_reference_offset", wz.Offset)
	text(wh, "file_references_ptr", formatHex32(wz.FileReferencesPtr))
	text(wh, "zone_type", formatUint(uint64(wz.ZoneType)))
	text(wh, "zone_type_description", wz.ZoneType.String())
	meshes := wh.CreateElement("mesh_file_references")
	for i, ref := range wz.MeshReferences {
		m := indexed(meshes, "mesh_file_reference", i)
		text(m, "file", ref.File)
		pos := ref.Position()
		text(m, "pos_x", formatFloat(pos.X))
		text(m, "pos_y", formatFloat(pos.Y))
		text(m, "pos_z", formatFloat(pos.Z))
		pitch, bank, heading := ref.Orientation()
		text(m, "pitch", formatFloat(pitch))
		text(m, "bank", formatFloat(bank))
		text(m, "heading", formatFloat(heading))
	}
	return nil
}

////////////////////////////////////////////////////////////////

func encodeData(e *etree.Element, d *srzone.Data) error {
	for i, s := range d.Sections {
		if err := encodeSection(indexed(e, "section", i), s); err != nil {
			return errors.Within(err, errors.Section, i)
		}
	}
	return nil
}

func encodeSection(e *etree.Element, s *srzone.Section) error {
	text(e, "id", formatHex32(s.ID))
	if desc := s.Description(); desc != "" {
		text(e, "description", desc)
	}
	if s.HasGPUData() {
		text(e, "gpu_size", formatUint(uint64(s.GPUSize)))
	}
	if s.Payload == nil {
		return nil
	}
	cpu := e.CreateElement("cpu_data")
	switch p := s.Payload.(type) {
	case srzone.RawBlock:
		encodeRaw(cpu, p)
	case *srzone.ObjectTable:
		return encodeObjectTable(cpu.CreateElement("object_data"), p)
	case *srzone.CrunchedGeometry:
		encodeCrunchedGeometry(cpu.CreateElement("crunched_geometry_data"), p)
	default:
		return errors.Errorf(errors.StructuralConstraintViolation, "unsupported section payload %T", p)
	}
	return nil
}

func encodeObjectTable(e *etree.Element, t *srzone.ObjectTable) error {
	text(e, "signature", formatHex32(t.Signature))
	text(e, "version", formatUint(uint64(t.Version)))
	text(e, "flags", formatHex32(t.Flags))
	text(e, "handle_list_pointer", formatHex32(t.HandleListPointer))
	text(e, "object_data_pointer", formatHex32(t.ObjectDataPointer))
	text(e, "object_data_size", formatUint(uint64(t.ObjectDataSize)))
	handles := e.CreateElement("handles")
	for i, h := range t.Handles {
		indexed(handles, "handle", i).SetText(formatHex64(h))
	}
	objects := e.CreateElement("objects")
	for i, obj := range t.Objects {
		if err := encodeObject(indexed(objects, "object", i), obj); err != nil {
			return errors.Within(err, errors.Object, i)
		}
	}
	return nil
}

func encodeObject(e *etree.Element, obj *srzone.Object) error {
	if name := obj.TypeName(); name != "" {
		e.CreateComment(" " + name + " ")
	}
	name := text(e, "name", obj.Name())
	if obj.NameIndex >= 0 {
		name.CreateAttr("property", strconv.Itoa(obj.NameIndex+1))
	}
	text(e, "handle", formatHex64(obj.Handle))
	text(e, "parent_handle", formatHex64(obj.ParentHandle))
	text(e, "object_type_hash", formatHex32(obj.TypeHash))
	text(e, "padding", formatUint(uint64(obj.Padding)))
	props := e.CreateElement("properties")
	for i, p := range obj.Properties {
		if err := encodeProperty(indexed(props, "property", i), p); err != nil {
			return errors.Within(err, errors.Property, i)
		}
	}
	return nil
}

func encodeProperty(e *etree.Element, p srzone.Property) error {
	if p.Value == nil {
		return errors.Errorf(errors.StructuralConstraintViolation, "property has no value")
	}
	e.CreateComment(" " + p.Value.Type().String() + " ")
	text(e, "type", formatUint(uint64(p.Value.Type())))
	text(e, "name_crc", formatHex32(uint32(p.NameHash)))
	value := e.CreateElement("value")
	switch v := p.Value.(type) {
	case srzone.ValueString:
		text(value, "string", string(v))
	case srzone.ValueData:
		encodeRaw(value, v.Bytes)
	case srzone.ValueTransform:
		encodeVector(value, "position", v.Position)
	case srzone.ValueTransformOrientation:
		encodeVector(value, "position", v.Position)
		encodeQuaternion(value, "orientation", v.Orientation)
	default:
		return errors.Errorf(errors.StructuralConstraintViolation, "unsupported property value %T", v)
	}
	if len(p.Padding) > 0 {
		encodeRaw(e.CreateElement("padding"), p.Padding)
	}
	return nil
}

func encodeCrunchedGeometry(e *etree.Element, g *srzone.CrunchedGeometry) {
	list := e.CreateElement("fast_objects")
	for i, fo := range g.FastObjects {
		f := indexed(list, "fast_object", i)
		text(f, "name", fo.Name)
		text(f, "file", fo.File)
		text(f, "material_map_offset", formatUint(uint64(fo.MaterialMapOffset)))
		text(f, "handle", formatHex64(fo.Handle))
		text(f, "m_render_update_next", formatHex32(fo.RenderUpdateNext))
		encodeVector(f, "position", fo.Position)
		encodeQuaternion(f, "orientation", fo.Orientation)
		encodeRaw(f, fo.Tail)
	}
	encodeRaw(e.CreateElement("mesh_variant_data"), g.MeshVariantData)
}
