package srzone

import (
	"sort"
	"strconv"
)

// Signature and version of an object section.
const (
	ObjectTableSignature = 0x574F4246
	ObjectTableVersion   = 5
)

// NameHash is the name hash of the property that conventionally holds an
// object's name.
const NameHash = 0x355EF946

// ObjectTable is the payload of an object section (type 0x2234).
type ObjectTable struct {
	Signature uint32
	Version   uint32
	Flags     uint32
	// Runtime-only fields, carried through unchanged.
	HandleListPointer uint32
	ObjectDataPointer uint32
	ObjectDataSize    uint32

	// Handles is stored independently of Objects; its order need not match.
	Handles []uint64
	Objects []*Object
}

func (*ObjectTable) isPayload() {}

// NewObjectTable returns an empty table with the expected signature and
// version.
func NewObjectTable() *ObjectTable {
	return &ObjectTable{Signature: ObjectTableSignature, Version: ObjectTableVersion}
}

// SortedHandles returns the handles of each object, in ascending order.
func (t *ObjectTable) SortedHandles() []uint64 {
	handles := make([]uint64, len(t.Objects))
	for i, obj := range t.Objects {
		handles[i] = obj.Handle
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	return handles
}

// Object is one record of an object section.
type Object struct {
	Handle       uint64
	ParentHandle uint64
	TypeHash     uint32
	Padding      uint16
	Properties   []Property

	// NameIndex is the index of the property that holds the object's name, or
	// -1 if the object has no name.
	NameIndex int
}

// NewObject returns an unnamed object.
func NewObject(handle, parent uint64, typeHash uint32, props ...Property) *Object {
	return &Object{
		Handle:       handle,
		ParentHandle: parent,
		TypeHash:     typeHash,
		Properties:   props,
		NameIndex:    -1,
	}
}

// Name returns the name of the object, or an empty string if it has none.
//
// When the name property was read without interpreting its value, the name
// is the 1-based index of the property.
func (o *Object) Name() string {
	if o.NameIndex < 0 || o.NameIndex >= len(o.Properties) {
		return ""
	}
	switch v := o.Properties[o.NameIndex].Value.(type) {
	case ValueString:
		return string(v)
	case ValueData:
		if v.Tag == TypeString {
			return strconv.Itoa(o.NameIndex + 1)
		}
	}
	return ""
}

// FindName returns the index of the property that supplies name, or -1 if no
// property does. A string property with the conventional name hash is
// preferred, then any string property with the value, then a 1-based
// property index.
func (o *Object) FindName(name string) int {
	if name == "" {
		return -1
	}
	for i, p := range o.Properties {
		if v, ok := p.Value.(ValueString); ok && p.NameHash == NameHash && string(v) == name {
			return i
		}
	}
	for i, p := range o.Properties {
		if v, ok := p.Value.(ValueString); ok && string(v) == name {
			return i
		}
	}
	if n, err := strconv.Atoi(name); err == nil && n >= 1 && n <= len(o.Properties) && strconv.Itoa(n) == name {
		return n - 1
	}
	return -1
}

// TypeName returns the name of the object's type, or an empty string if the
// type hash is not known.
func (o *Object) TypeName() string {
	return objectTypeNames[o.TypeHash]
}

// ObjectTypeName returns the name of the object type with the given hash, and
// whether it is known.
func ObjectTypeName(hash uint32) (string, bool) {
	name, ok := objectTypeNames[hash]
	return name, ok
}

// Volition CRC hashes of object type names.
var objectTypeNames = map[uint32]string{
	0x9819E2A7: "action_node",
	0xDE264D4E: "action_node_group",
	0x50C01AFB: "activity_start",
	0x454D826F: "audio_emitter",
	0xD3C09F8C: "audio_emitter_multi",
	0xAB4A8269: "base_object",
	0x9F3E6097: "battlefront",
	0xA6CFE79E: "brass",
	0xDBEDBF51: "city_takeover_region",
	0x8FC2C162: "climbable_spline",
	0x5229C9DA: "cover_node",
	0x69653449: "crib",
	0x81431719: "ctg_object",
	0x948906B7: "cto_start",
	0x423D4B45: "cutscene_slate_obj",
	0x13ECAFE7: "damage_region",
	0x105A7D93: "detour_hull",
	0x54E38BEE: "district",
	0xABA18B31: "door",
	0xDA1A82F0: "effect_object",
	0x324FE51A: "flashpoint",
	0xC378FD50: "garage_info",
	0x71DDAD68: "general_mover",
	0x15A381D8: "hood",
	0xD5DF5C6D: "hotspot",
	0xA932538B: "hotspot_target",
	0x634022E8: "human",
	0x82606C1C: "interior_volume",
	0x01A3592D: "item",
	0x6A44E812: "level_light",
	0x4652DBF2: "level_respawn",
	0x161048E8: "light_list",
	0x2F481200: "light_vis_volume",
	0x991E5B37: "mission_info",
	0x445C1F3D: "navpoint",
	0x302B6A22: "navpoint_path",
	0xB9CDAF3E: "npc",
	0x89E8818E: "object_debris",
	0xEB1C95CA: "object_rig",
	0x41ACD323: "object_tree",
	0xD489BF77: "occluder",
	0xBA73CC6F: "parking_spot",
	0x573CE01E: "photo_op",
	0xC68ACA17: "physical_object",
	0x29DBDBC6: "player",
	0xDF712A1B: "projectile",
	0xB78242F1: "resource_object",
	0x2C033366: "roadblock",
	0x7AD3AD35: "script_group",
	0x59FC5EA5: "script_group_object",
	0x2BB7B8C5: "script_interior",
	0xB426E6A6: "script_item",
	0xB3FB6098: "script_light_group",
	0x252BD154: "script_mover",
	0xA518E725: "script_npc",
	0x8D42DB8B: "script_peered",
	0x97335A0B: "script_vehicle",
	0x5E20A824: "scripted_mission_start",
	0xD14F1482: "scripted_path",
	0x46883C82: "shop_object",
	0x4D3AEC73: "silent_mission_start",
	0xBE2F0901: "smooth_scripted_path",
	0xA94DBBA7: "spawn_region",
	0x82470BA4: "survival",
	0xF300989F: "trigger_volume",
	0x86EC3BF8: "vehicle",
	0x765E72F7: "vfx_volume",
	0xD8F10645: "weapon",
}
