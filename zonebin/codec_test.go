package zonebin

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/clarosa/srzone"
	"github.com/clarosa/srzone/errors"
)

// zeros is a run of zero bytes.
type zeros int

// app concatenates values into a little-endian byte image.
func app(vs ...interface{}) []byte {
	var b bytes.Buffer
	for _, v := range vs {
		switch v := v.(type) {
		case string:
			b.WriteString(v)
		case []byte:
			b.Write(v)
		case zeros:
			b.Write(make([]byte, v))
		default:
			if err := binary.Write(&b, binary.LittleEndian, v); err != nil {
				panic(err)
			}
		}
	}
	return b.Bytes()
}

// section wraps payload in a CPU-only section header.
func section(id uint32, payload []byte) []byte {
	return app(id, uint32(len(payload)), payload)
}

func headerImage() []byte {
	return app(
		uint16(0x3854), uint16(4), uint32(11), uint32(0x40), uint32(2), uint32(7), zeros(12),
		"plant_01\x00", "2\x00", uint8(0),
		zeros(4),
		"SR3Z", uint32(29), uint32(0), float32(1), float32(2), float32(3),
		uint32(0), uint16(1), uint8(2), uint8(0), uint32(0), uint16(0), uint16(0), zeros(24),
		int16(64), int16(-32), int16(0), int16(4096), int16(0), int16(-2048), uint16(9),
	)
}

func decodeHeader(t *testing.T, b []byte) *srzone.Header {
	t.Helper()
	h, err := Decoder{}.DecodeHeader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decode header: %v", err)
	}
	return h
}

func checkKind(t *testing.T, err error, kind errors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got no error", kind)
	}
	if k := errors.KindOf(err); k != kind {
		t.Fatalf("expected %s, got %s: %v", kind, k, err)
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	image := headerImage()
	h := decodeHeader(t, image)

	refs := h.References
	if len(refs.Names) != 2 || refs.Names[0] != "plant_01" || refs.Names[1] != "2" {
		t.Fatalf("unexpected names %q", refs.Names)
	}
	if refs.DataStart != 0x40 || refs.Unknown != 7 {
		t.Errorf("unexpected opaque fields (got %#x, %d)", refs.DataStart, refs.Unknown)
	}

	wz := h.WorldZone
	if wz.Version != 29 || wz.ZoneType != 2 {
		t.Errorf("unexpected world zone header %+v", wz)
	}
	if wz.Offset != (srzone.Vector3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("unexpected offset %v", wz.Offset)
	}
	if len(wz.MeshReferences) != 1 {
		t.Fatalf("expected 1 mesh reference, got %d", len(wz.MeshReferences))
	}
	ref := wz.MeshReferences[0]
	if ref.File != "2" {
		t.Errorf("expected mesh file %q, got %q", "2", ref.File)
	}
	if p := ref.Position(); p != (srzone.Vector3{X: 1, Y: -0.5, Z: 0}) {
		t.Errorf("unexpected position %v", p)
	}
	if pitch, _, heading := ref.Orientation(); pitch != 1 || heading != -0.5 {
		t.Errorf("unexpected orientation %v, %v", pitch, heading)
	}

	var buf bytes.Buffer
	if err := (Encoder{}).EncodeHeader(&buf, h); err != nil {
		t.Fatalf("encode header: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), image) {
		t.Errorf("round trip mismatch\nexpected % X\ngot      % X", image, buf.Bytes())
	}
}

func TestHeaderSignature(t *testing.T) {
	image := headerImage()
	image[0] = 0x55
	_, err := Decoder{}.DecodeHeader(bytes.NewReader(image))
	checkKind(t, err, errors.FormatViolation)
	var e *errors.Error
	if errors.As(err, &e) {
		if e.Offset != 0 {
			t.Errorf("expected offset 0, got %d", e.Offset)
		}
		if e.Action != ActionReadHeader {
			t.Errorf("expected action %q, got %q", ActionReadHeader, e.Action)
		}
	}
}

func TestHeaderWorldZoneVersion(t *testing.T) {
	image := headerImage()
	image[52] = 30
	_, err := Decoder{}.DecodeHeader(bytes.NewReader(image))
	checkKind(t, err, errors.FormatViolation)
}

func TestHeaderUnresolvedMesh(t *testing.T) {
	image := headerImage()
	image[len(image)-2] = 3
	_, err := Decoder{}.DecodeHeader(bytes.NewReader(image))
	checkKind(t, err, errors.ReferenceResolutionFailure)
	var e *errors.Error
	if errors.As(err, &e) {
		if len(e.Context) != 1 || e.Context[0] != (errors.Frame{Kind: errors.MeshFileReference, Index: 1}) {
			t.Errorf("unexpected context %v", e.Context)
		}
	}
}

func TestHeaderTruncated(t *testing.T) {
	image := headerImage()
	_, err := Decoder{}.DecodeHeader(bytes.NewReader(image[:len(image)-5]))
	checkKind(t, err, errors.IOFailure)
}

func TestHeaderEncodeByOrdinal(t *testing.T) {
	h := &srzone.Header{
		References: srzone.NewReferenceTable("a", "b"),
		WorldZone:  srzone.NewWorldZoneHeader(srzone.WorldZoneVersionSR4),
	}
	h.WorldZone.MeshReferences = []srzone.MeshFileReference{{File: "2"}, {File: "a"}}
	var buf bytes.Buffer
	if err := (Encoder{}).EncodeHeader(&buf, h); err != nil {
		t.Fatalf("encode header: %v", err)
	}
	got := decodeHeader(t, buf.Bytes())
	refs := got.WorldZone.MeshReferences
	if refs[0].File != "b" || refs[1].File != "a" {
		t.Errorf("unexpected mesh files %q, %q", refs[0].File, refs[1].File)
	}

	h.WorldZone.MeshReferences[0].File = "missing"
	err := (Encoder{}).EncodeHeader(&buf, h)
	checkKind(t, err, errors.ReferenceResolutionFailure)
}

func TestHeaderEncodeUnencodable(t *testing.T) {
	h := &srzone.Header{
		References: srzone.NewReferenceTable("世"),
		WorldZone:  srzone.NewWorldZoneHeader(srzone.WorldZoneVersionSR3),
	}
	var buf bytes.Buffer
	err := (Encoder{}).EncodeHeader(&buf, h)
	checkKind(t, err, errors.FormatViolation)
	if buf.Len() != 0 {
		t.Errorf("expected nothing written on failure, got %d bytes", buf.Len())
	}
}

func TestLatin1Names(t *testing.T) {
	h := &srzone.Header{
		References: srzone.NewReferenceTable("café", "x"),
		WorldZone:  srzone.NewWorldZoneHeader(srzone.WorldZoneVersionSR3),
	}
	h.WorldZone.MeshReferences = []srzone.MeshFileReference{{File: "x"}}
	var buf bytes.Buffer
	if err := (Encoder{}).EncodeHeader(&buf, h); err != nil {
		t.Fatalf("encode header: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("caf\xe9\x00x\x00")) {
		t.Errorf("names not written as single bytes: % X", buf.Bytes())
	}
	got := decodeHeader(t, buf.Bytes())
	if got.References.Names[0] != "café" || got.WorldZone.MeshReferences[0].File != "x" {
		t.Errorf("unexpected header %q", got.References.Names)
	}
}

////////////////////////////////////////////////////////////////

func decodeData(t *testing.T, cfg srzone.Config, b []byte, h *srzone.Header) *srzone.Data {
	t.Helper()
	d, err := Decoder{Config: cfg}.DecodeData(bytes.NewReader(b), h)
	if err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return d
}

func encodeData(t *testing.T, cfg srzone.Config, d *srzone.Data, h *srzone.Header) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := (Encoder{Config: cfg}).EncodeData(&buf, d, h); err != nil {
		t.Fatalf("encode data: %v", err)
	}
	return buf.Bytes()
}

func roundTrip(t *testing.T, cfg srzone.Config, image []byte, h *srzone.Header) *srzone.Data {
	t.Helper()
	d := decodeData(t, cfg, image, h)
	if got := encodeData(t, cfg, d, h); !bytes.Equal(got, image) {
		t.Errorf("round trip mismatch\nexpected % X\ngot      % X", image, got)
	}
	return d
}

func TestEmptyGPUSection(t *testing.T) {
	image := app(uint32(0x80002234), uint32(0), uint32(0))
	d := roundTrip(t, srzone.Config{}, image, nil)
	if len(d.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(d.Sections))
	}
	s := d.Sections[0]
	if !s.HasGPUData() || s.Type() != srzone.SectionObjects || s.Payload != nil {
		t.Errorf("unexpected section %+v", s)
	}
}

func TestRawSections(t *testing.T) {
	image := app(
		section(0x2235, []byte{1, 2, 3}), zeros(1),
		uint32(0x80002236), uint32(4), uint32(99), []byte{9, 8, 7, 6},
	)
	d := roundTrip(t, srzone.Config{}, image, nil)
	if len(d.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(d.Sections))
	}
	if raw, ok := d.Sections[0].Payload.(srzone.RawBlock); !ok || !bytes.Equal(raw, []byte{1, 2, 3}) {
		t.Errorf("unexpected payload %v", d.Sections[0].Payload)
	}
	if d.Sections[1].GPUSize != 99 {
		t.Errorf("expected GPU size 99, got %d", d.Sections[1].GPUSize)
	}
}

func TestTrailingBytes(t *testing.T) {
	image := app(section(0x2235, []byte{1, 2, 3, 4}), []byte{0, 0, 0})
	d := decodeData(t, srzone.Config{}, image, nil)
	if len(d.Sections) != 1 {
		t.Errorf("expected 1 section, got %d", len(d.Sections))
	}
}

func TestInvalidSectionID(t *testing.T) {
	image := app(section(0x2235, []byte{1, 2, 3, 4}), section(0x1234, nil))
	_, err := Decoder{}.DecodeData(bytes.NewReader(image), nil)
	checkKind(t, err, errors.FormatViolation)
	var e *errors.Error
	if errors.As(err, &e) {
		if len(e.Context) != 1 || e.Context[0].Index != 2 {
			t.Errorf("unexpected context %v", e.Context)
		}
		if e.Offset != 12 {
			t.Errorf("expected offset 12, got %d", e.Offset)
		}
	}
}

// objectTable returns an object section payload holding one object with
// count properties. The section is expected at offset 0.
func objectTable(count, nameOffset uint16, props []byte) []byte {
	return app(
		uint32(0x574F4246), uint32(5), uint32(1), uint32(1), uint32(0x11), uint32(0), uint32(0), uint32(0),
		uint64(0x10),
		uint64(0x10), uint64(0xFFFFFFFFFFFFFFFF), uint32(0xABA18B31), count, uint16(len(props)), nameOffset, uint16(0),
		props,
	)
}

func TestObjectName(t *testing.T) {
	props := app(uint16(0), uint16(8), int32(srzone.NameHash), "Door_12\x00")
	image := section(0x2234, objectTable(1, 8, props))
	d := roundTrip(t, srzone.Config{}, image, nil)

	table, ok := d.Sections[0].Payload.(*srzone.ObjectTable)
	if !ok {
		t.Fatalf("expected object table, got %T", d.Sections[0].Payload)
	}
	if len(table.Handles) != 1 || table.Handles[0] != 0x10 || table.Flags != 0x11 {
		t.Errorf("unexpected table %+v", table)
	}
	obj := table.Objects[0]
	if obj.NameIndex != 0 || obj.Name() != "Door_12" {
		t.Errorf("unexpected name %q (index %d)", obj.Name(), obj.NameIndex)
	}
	if obj.TypeName() != "door" {
		t.Errorf("unexpected type name %q", obj.TypeName())
	}
}

func TestObjectUnparsedName(t *testing.T) {
	props := app(uint16(0), uint16(8), int32(srzone.NameHash), "Door_12\x00")
	image := section(0x2234, objectTable(1, 8, props))
	d := roundTrip(t, srzone.Config{NoParseValues: true}, image, nil)
	obj := d.Sections[0].Payload.(*srzone.ObjectTable).Objects[0]
	if _, ok := obj.Properties[0].Value.(srzone.ValueData); !ok {
		t.Errorf("expected data value, got %T", obj.Properties[0].Value)
	}
	if obj.Name() != "1" {
		t.Errorf("expected ordinal name, got %q", obj.Name())
	}
}

func TestObjectNameNotString(t *testing.T) {
	props := app(uint16(1), uint16(4), int32(0), []byte{1, 2, 3, 4})
	image := section(0x2234, objectTable(1, 8, props))
	_, err := Decoder{}.DecodeData(bytes.NewReader(image), nil)
	checkKind(t, err, errors.StructuralConstraintViolation)
	var e *errors.Error
	if errors.As(err, &e) {
		want := []errors.Frame{
			{Kind: errors.Section, Index: 1},
			{Kind: errors.Object, Index: 1},
			{Kind: errors.Property, Index: 1},
		}
		if len(e.Context) != len(want) {
			t.Fatalf("unexpected context %v", e.Context)
		}
		for i := range want {
			if e.Context[i] != want[i] {
				t.Errorf("frame %d: expected %v, got %v", i, want[i], e.Context[i])
			}
		}
	}
}

func TestObjectNameMisaligned(t *testing.T) {
	props := app(uint16(1), uint16(4), int32(0), []byte{1, 2, 3, 4})
	image := section(0x2234, objectTable(1, 10, props))
	_, err := Decoder{}.DecodeData(bytes.NewReader(image), nil)
	checkKind(t, err, errors.StructuralConstraintViolation)
}

func TestObjectNoProperties(t *testing.T) {
	image := section(0x2234, app(
		uint32(0x574F4246), uint32(5), uint32(1), uint32(0), uint32(0), uint32(0), uint32(0), uint32(0),
		uint64(1), uint64(0), uint32(0), uint16(0), uint16(0), uint16(0), uint16(0),
	))
	_, err := Decoder{}.DecodeData(bytes.NewReader(image), nil)
	checkKind(t, err, errors.StructuralConstraintViolation)
}

func TestObjectTableSignature(t *testing.T) {
	props := app(uint16(1), uint16(4), int32(0), []byte{1, 2, 3, 4})
	payload := objectTable(1, 0, props)
	payload[0] = 0
	_, err := Decoder{}.DecodeData(bytes.NewReader(section(0x2234, payload)), nil)
	checkKind(t, err, errors.FormatViolation)

	d := decodeData(t, srzone.Config{NoParseObjects: true}, section(0x2234, payload), nil)
	if _, ok := d.Sections[0].Payload.(srzone.RawBlock); !ok {
		t.Errorf("expected raw payload, got %T", d.Sections[0].Payload)
	}
}

func TestPropertyPadding(t *testing.T) {
	props := app(
		uint16(0), uint16(7), int32(srzone.NameHash), "Door_1\x00", []byte{0xCD},
		uint16(2), uint16(12), int32(-5), float32(1), float32(2), float32(3),
		uint16(3), uint16(28), int32(6), float32(1), float32(2), float32(3), float32(0), float32(0), float32(0), float32(1),
		uint16(9), uint16(2), int32(7), []byte{0xAA, 0xBB}, []byte{0xEE, 0xFF},
	)
	image := section(0x2234, objectTable(4, 8, props))

	_, err := Decoder{}.DecodeData(bytes.NewReader(image), nil)
	checkKind(t, err, errors.FormatViolation)

	cfg := srzone.Config{NoParseValues: true}
	roundTrip(t, cfg, image, nil)

	// Drop the unknown property and parse the rest.
	props = props[:len(props)-12]
	image = section(0x2234, objectTable(3, 8, props))
	d := roundTrip(t, srzone.Config{}, image, nil)
	obj := d.Sections[0].Payload.(*srzone.ObjectTable).Objects[0]
	if p := obj.Properties[0]; !bytes.Equal(p.Padding, []byte{0xCD}) {
		t.Errorf("expected padding CD, got % X", p.Padding)
	}
	if v, ok := obj.Properties[1].Value.(srzone.ValueTransform); !ok || v.Position != (srzone.Vector3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("unexpected transform %v", obj.Properties[1].Value)
	}
	if v, ok := obj.Properties[2].Value.(srzone.ValueTransformOrientation); !ok || v.Orientation.W != 1 {
		t.Errorf("unexpected transform %v", obj.Properties[2].Value)
	}

	// Without kept padding, the gap is written as zeros.
	d = decodeData(t, srzone.Config{NoKeepPadding: true}, image, nil)
	obj = d.Sections[0].Payload.(*srzone.ObjectTable).Objects[0]
	if obj.Properties[0].Padding != nil {
		t.Errorf("expected no padding, got % X", obj.Properties[0].Padding)
	}
	got := encodeData(t, srzone.Config{NoKeepPadding: true}, d, nil)
	want := bytes.Replace(image, []byte("Door_1\x00\xCD"), []byte("Door_1\x00\x00"), 1)
	if !bytes.Equal(got, want) {
		t.Errorf("unexpected image\nexpected % X\ngot      % X", want, got)
	}
}

func TestFinalPaddingDropped(t *testing.T) {
	props := app(uint16(0), uint16(3), int32(0), "ab\x00", []byte{0x77})
	image := section(0x2234, objectTable(1, 0, props))
	d := decodeData(t, srzone.Config{NoKeepPadding: true}, image, nil)
	obj := d.Sections[0].Payload.(*srzone.ObjectTable).Objects[0]
	if v := obj.Properties[0].Value; v != srzone.ValueString("ab") {
		t.Errorf("unexpected value %v", v)
	}
}

func TestPaddingWrittenWithoutKeep(t *testing.T) {
	obj := srzone.NewObject(1, 0, 0,
		srzone.Property{Value: srzone.ValueString("ab"), Padding: srzone.RawBlock{0x77}},
	)
	table := srzone.NewObjectTable()
	table.Objects = []*srzone.Object{obj}
	d := &srzone.Data{Sections: []*srzone.Section{{ID: 0x2234, Payload: table}}}
	got := encodeData(t, srzone.Config{NoKeepPadding: true}, d, nil)
	if !bytes.HasSuffix(got, []byte("ab\x00\x77")) {
		t.Errorf("expected padding written, got % X", got)
	}
}

func TestPropertyPaddingMismatch(t *testing.T) {
	obj := srzone.NewObject(1, 0, 0,
		srzone.Property{Value: srzone.ValueString("abc"), Padding: srzone.RawBlock{1, 2}},
	)
	table := srzone.NewObjectTable()
	table.Objects = []*srzone.Object{obj}
	d := &srzone.Data{Sections: []*srzone.Section{{ID: 0x2234, Payload: table}}}
	got := encodeData(t, srzone.Config{}, d, nil)
	// "abc\0" fills the property exactly, so the stale padding is dropped.
	if !bytes.HasSuffix(got, []byte("abc\x00")) {
		t.Errorf("unexpected image % X", got)
	}
}

func TestTransformSize(t *testing.T) {
	props := app(uint16(2), uint16(8), int32(0), float32(1), float32(2))
	image := section(0x2234, objectTable(1, 0, props))
	_, err := Decoder{}.DecodeData(bytes.NewReader(image), nil)
	checkKind(t, err, errors.StructuralConstraintViolation)
}

func TestStringSize(t *testing.T) {
	props := app(uint16(0), uint16(4), int32(0), "Door_12\x00")
	image := section(0x2234, objectTable(1, 0, props))
	_, err := Decoder{}.DecodeData(bytes.NewReader(image), nil)
	checkKind(t, err, errors.StructuralConstraintViolation)
}

func TestRebuildHandleList(t *testing.T) {
	table := srzone.NewObjectTable()
	table.Handles = []uint64{5, 3, 1}
	table.Objects = []*srzone.Object{
		srzone.NewObject(9, 0, 0, srzone.Property{Value: srzone.ValueString("b")}),
		srzone.NewObject(2, 0, 0, srzone.Property{Value: srzone.ValueString("a")}),
	}
	d := &srzone.Data{Sections: []*srzone.Section{{ID: 0x2234, Payload: table}}}

	got := decodeData(t, srzone.Config{}, encodeData(t, srzone.Config{}, d, nil), nil)
	if h := got.Sections[0].Payload.(*srzone.ObjectTable).Handles; len(h) != 3 || h[0] != 5 {
		t.Errorf("expected handles kept, got %v", h)
	}

	cfg := srzone.Config{RebuildHandleList: true}
	got = decodeData(t, cfg, encodeData(t, cfg, d, nil), nil)
	h := got.Sections[0].Payload.(*srzone.ObjectTable).Handles
	if len(h) != 2 || h[0] != 2 || h[1] != 9 {
		t.Errorf("expected rebuilt handles [2 9], got %v", h)
	}
}

func TestEncodeObjectName(t *testing.T) {
	obj := srzone.NewObject(1, 0, 0,
		srzone.Property{NameHash: 1, Value: srzone.ValueData{Tag: srzone.TypeData, Bytes: srzone.RawBlock{1, 2, 3}}},
		srzone.Property{NameHash: srzone.NameHash, Value: srzone.ValueString("lamp")},
	)
	obj.NameIndex = obj.FindName("lamp")
	table := srzone.NewObjectTable()
	table.Objects = []*srzone.Object{obj}
	d := &srzone.Data{Sections: []*srzone.Section{{ID: 0x2234, Payload: table}}}

	got := decodeData(t, srzone.Config{}, encodeData(t, srzone.Config{}, d, nil), nil)
	o := got.Sections[0].Payload.(*srzone.ObjectTable).Objects[0]
	if o.NameIndex != 1 || o.Name() != "lamp" {
		t.Errorf("unexpected name %q (index %d)", o.Name(), o.NameIndex)
	}

	obj.NameIndex = 0
	var buf bytes.Buffer
	err := (Encoder{}).EncodeData(&buf, d, nil)
	checkKind(t, err, errors.StructuralConstraintViolation)

	obj.Properties = nil
	obj.NameIndex = -1
	err = (Encoder{}).EncodeData(&buf, d, nil)
	checkKind(t, err, errors.StructuralConstraintViolation)
}

////////////////////////////////////////////////////////////////

func geometryHeader() *srzone.Header {
	return &srzone.Header{
		References: srzone.NewReferenceTable("a.cmesh", "b.cmesh"),
		WorldZone:  srzone.NewWorldZoneHeader(srzone.WorldZoneVersionSR3),
	}
}

func fastObject(handle uint64, nameOffset uint32) []byte {
	tail := make([]byte, srzone.FastObjectTailSize)
	for i := range tail {
		tail[i] = byte(i)
	}
	return app(
		handle, uint32(0xFFFFFFFF), nameOffset,
		float32(10), float32(20), float32(30),
		float32(0), float32(0), float32(0), float32(1),
		tail,
	)
}

// geometryImage returns a data file holding one crunched geometry section.
// The section header ends at offset 8.
func geometryImage(cpuSize, namesSize uint32) []byte {
	payload := app(
		uint32(2), namesSize,
		"m1\x00", zeros(1), // offset 16
		zeros(12), // offset 20
		uint32(8), uint32(7), uint32(0), uint32(3), // offset 32
		zeros(0), // offset 48
		fastObject(0x100, 0),
		fastObject(0x200, 0),
		[]byte{1, 2, 3, 4},
	)
	if cpuSize == 0 {
		cpuSize = uint32(len(payload))
	}
	return app(uint32(0x2233), cpuSize, payload)
}

func TestCrunchedGeometry(t *testing.T) {
	h := geometryHeader()
	image := geometryImage(0, 4)
	d := roundTrip(t, srzone.Config{}, image, h)

	g, ok := d.Sections[0].Payload.(*srzone.CrunchedGeometry)
	if !ok {
		t.Fatalf("expected crunched geometry, got %T", d.Sections[0].Payload)
	}
	if len(g.FastObjects) != 2 {
		t.Fatalf("expected 2 fast objects, got %d", len(g.FastObjects))
	}
	fo := g.FastObjects[0]
	if fo.Name != "m1" || fo.File != "b.cmesh" || fo.MaterialMapOffset != 7 || fo.Handle != 0x100 {
		t.Errorf("unexpected fast object %+v", fo)
	}
	if g.FastObjects[1].File != "a.cmesh" || g.FastObjects[1].MaterialMapOffset != 3 {
		t.Errorf("unexpected fast object %+v", g.FastObjects[1])
	}
	if fo.Position != (srzone.Vector3{X: 10, Y: 20, Z: 30}) || fo.Orientation.W != 1 {
		t.Errorf("unexpected transform %v %v", fo.Position, fo.Orientation)
	}
	if !bytes.Equal(g.MeshVariantData, []byte{1, 2, 3, 4}) {
		t.Errorf("unexpected mesh variant data % X", g.MeshVariantData)
	}
}

func TestCrunchedGeometryNoHeader(t *testing.T) {
	image := geometryImage(0, 4)
	_, err := Decoder{}.DecodeData(bytes.NewReader(image), nil)
	checkKind(t, err, errors.ReferenceResolutionFailure)

	d := decodeData(t, srzone.Config{NoParseObjects: true}, image, nil)
	if _, ok := d.Sections[0].Payload.(srzone.RawBlock); !ok {
		t.Errorf("expected raw payload, got %T", d.Sections[0].Payload)
	}
}

func TestCrunchedGeometryNamesSize(t *testing.T) {
	_, err := Decoder{}.DecodeData(bytes.NewReader(geometryImage(0, 3)), geometryHeader())
	checkKind(t, err, errors.StructuralConstraintViolation)
}

func TestCrunchedGeometryOverrun(t *testing.T) {
	_, err := Decoder{}.DecodeData(bytes.NewReader(geometryImage(100, 4)), geometryHeader())
	checkKind(t, err, errors.StructuralConstraintViolation)
}

func TestCrunchedGeometryUnknownFile(t *testing.T) {
	h := &srzone.Header{References: srzone.NewReferenceTable("a.cmesh")}
	_, err := Decoder{}.DecodeData(bytes.NewReader(geometryImage(0, 4)), h)
	checkKind(t, err, errors.ReferenceResolutionFailure)
	var e *errors.Error
	if errors.As(err, &e) {
		if len(e.Context) != 2 || e.Context[1] != (errors.Frame{Kind: errors.FastObject, Index: 1}) {
			t.Errorf("unexpected context %v", e.Context)
		}
	}
}

func TestCrunchedGeometryDedupNames(t *testing.T) {
	tail := make(srzone.RawBlock, srzone.FastObjectTailSize)
	g := &srzone.CrunchedGeometry{FastObjects: []srzone.FastObject{
		{Name: "x", File: "1", Tail: tail},
		{Name: "yy", File: "b.cmesh", Tail: tail},
		{Name: "x", File: "a.cmesh", Tail: tail},
	}}
	d := &srzone.Data{Sections: []*srzone.Section{{ID: 0x2233, Payload: g}}}
	h := geometryHeader()
	image := encodeData(t, srzone.Config{}, d, h)
	if !bytes.Contains(image, []byte("x\x00yy\x00\x00")) {
		t.Errorf("unexpected names in % X", image)
	}

	got := decodeData(t, srzone.Config{}, image, h).Sections[0].Payload.(*srzone.CrunchedGeometry)
	for i, fo := range got.FastObjects {
		want := g.FastObjects[i]
		if want.File == "1" {
			want.File = "a.cmesh"
		}
		if fo.Name != want.Name || fo.File != want.File {
			t.Errorf("fast object %d: expected %s/%s, got %s/%s", i, want.Name, want.File, fo.Name, fo.File)
		}
	}

	var buf bytes.Buffer
	err := (Encoder{}).EncodeData(&buf, d, nil)
	checkKind(t, err, errors.ReferenceResolutionFailure)
}
