package srzone

import (
	"errors"
	"math"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
	}{
		{"sr3_city_0.czn_pc", KindData},
		{"SR3_CITY_0.CZN_PC", KindData},
		{"zone.czn", KindData},
		{"dir/zone.czh_pc", KindHeader},
		{"zone.CZH_xbox2", KindHeader},
		{"zone.xml", KindXML},
		{"zone.XML", KindXML},
		{"zone.x", KindXML},
		{"zone.czn_pc.xml", KindXML},
		{"zone.xml.czh_pc", KindHeader},
	}
	for _, test := range tests {
		kind, err := KindOf(test.name)
		if err != nil || kind != test.kind {
			t.Errorf("KindOf(%q) = %s, %v (expected %s)", test.name, kind, err, test.kind)
		}
	}

	for _, name := range []string{"zone", "zone.bin", "zone.czn_pc.bak~", "czn_pc"} {
		if _, err := KindOf(name); !errors.Is(err, ErrUnknownKind) {
			t.Errorf("KindOf(%q): expected ErrUnknownKind, got %v", name, err)
		}
	}
}

func TestKind_String(t *testing.T) {
	if KindHeader.String() != "zone header" || Kind(9).String() != "unknown" {
		t.Error("unexpected result from String")
	}
}

func TestRawBlockHex(t *testing.T) {
	if s := (RawBlock{0x0A, 0xFF, 0x00}).Hex(); s != "0A FF 00" {
		t.Errorf("unexpected hex %q", s)
	}
	if s := RawBlock(nil).Hex(); s != "" {
		t.Errorf("expected empty hex, got %q", s)
	}

	b, err := ParseHex(" 0a\n\tff  00 \r\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 3 || b[0] != 0x0A || b[1] != 0xFF || b[2] != 0x00 {
		t.Errorf("unexpected bytes % X", b)
	}
	if b, err := ParseHex(""); err != nil || len(b) != 0 {
		t.Errorf("unexpected result for empty input: % X, %v", b, err)
	}
	for _, s := range []string{"0g", "100", "0A,FF", "-1"} {
		if _, err := ParseHex(s); err == nil {
			t.Errorf("ParseHex(%q): expected error", s)
		}
	}
}

func TestMeshFileReferenceFixedPoint(t *testing.T) {
	var m MeshFileReference
	m.SetPosition(Vector3{X: 1.5, Y: -0.5, Z: 511.984375})
	if m.PosX != 96 || m.PosY != -32 || m.PosZ != 32767 {
		t.Errorf("unexpected position fields %d %d %d", m.PosX, m.PosY, m.PosZ)
	}
	if p := m.Position(); p != (Vector3{X: 1.5, Y: -0.5, Z: 511.984375}) {
		t.Errorf("unexpected position %v", p)
	}

	// Halfway values round to even.
	m.SetPosition(Vector3{X: 0.5 / 64, Y: 1.5 / 64, Z: 1e6})
	if m.PosX != 0 || m.PosY != 2 || m.PosZ != math.MaxInt16 {
		t.Errorf("unexpected rounding %d %d %d", m.PosX, m.PosY, m.PosZ)
	}

	m.SetOrientation(1, -1, 0.25)
	if m.Pitch != 4096 || m.Bank != -4096 || m.Heading != 1024 {
		t.Errorf("unexpected orientation fields %d %d %d", m.Pitch, m.Bank, m.Heading)
	}
	if p, b, h := m.Orientation(); p != 1 || b != -1 || h != 0.25 {
		t.Errorf("unexpected orientation %v %v %v", p, b, h)
	}
}

func TestSectionID(t *testing.T) {
	s := &Section{ID: 0x80002234}
	if !s.HasGPUData() || s.Type() != SectionObjects {
		t.Errorf("unexpected type %#x", s.Type())
	}
	if s.Description() == "" {
		t.Errorf("expected description")
	}
	if (&Section{ID: 0x22FF}).Description() != "" {
		t.Errorf("expected no description")
	}
	for _, typ := range []uint32{0x2233, 0x22FF} {
		if !ValidSectionType(typ) {
			t.Errorf("expected %#x to be valid", typ)
		}
	}
	for _, typ := range []uint32{0x2232, 0x2300, 0} {
		if ValidSectionType(typ) {
			t.Errorf("expected %#x to be invalid", typ)
		}
	}
}

func TestObjectName(t *testing.T) {
	obj := NewObject(1, 0, 0xABA18B31,
		Property{NameHash: 1, Value: ValueString("Door_12")},
		Property{NameHash: NameHash, Value: ValueString("Door_12")},
		Property{Value: ValueData{Tag: TypeString, Bytes: RawBlock("x\x00")}},
		Property{Value: ValueTransform{}},
	)
	if obj.Name() != "" {
		t.Errorf("expected no name, got %q", obj.Name())
	}
	if i := obj.FindName("Door_12"); i != 1 {
		t.Errorf("expected name hash preferred, got %d", i)
	}
	obj.Properties[1].NameHash = 2
	if i := obj.FindName("Door_12"); i != 0 {
		t.Errorf("expected first string, got %d", i)
	}
	if i := obj.FindName("3"); i != 2 {
		t.Errorf("expected ordinal, got %d", i)
	}
	for _, name := range []string{"", "0", "5", "03", "Window"} {
		if i := obj.FindName(name); i != -1 {
			t.Errorf("FindName(%q) = %d", name, i)
		}
	}

	obj.NameIndex = 0
	if obj.Name() != "Door_12" {
		t.Errorf("unexpected name %q", obj.Name())
	}
	obj.NameIndex = 2
	if obj.Name() != "3" {
		t.Errorf("unexpected name %q", obj.Name())
	}
	obj.NameIndex = 3
	if obj.Name() != "" {
		t.Errorf("unexpected name %q", obj.Name())
	}
	if obj.TypeName() != "door" {
		t.Errorf("unexpected type name %q", obj.TypeName())
	}
	if _, ok := ObjectTypeName(0); ok {
		t.Errorf("expected unknown type")
	}
}

func TestSortedHandles(t *testing.T) {
	table := NewObjectTable()
	table.Handles = []uint64{1}
	table.Objects = []*Object{NewObject(9, 0, 0), NewObject(2, 0, 0), NewObject(5, 0, 0)}
	h := table.SortedHandles()
	if len(h) != 3 || h[0] != 2 || h[1] != 5 || h[2] != 9 {
		t.Errorf("unexpected handles %v", h)
	}
	if len(table.Handles) != 1 {
		t.Errorf("handle list was modified")
	}
}

func TestPropertyType_String(t *testing.T) {
	if TypeTransform.String() != "compressed transform" || PropertyType(4).String() != "unknown" {
		t.Error("unexpected result from String")
	}
	if PropertyType(4).Known() || !TypeTransformOrientation.Known() {
		t.Error("unexpected result from Known")
	}
	if (ValueData{Tag: 7}).Type() != 7 {
		t.Error("unexpected type of data value")
	}
}

func TestZoneType_String(t *testing.T) {
	if ZoneType(7).String() != "Interior" || ZoneType(200).String() != "unknown" {
		t.Error("unexpected result from String")
	}
}
