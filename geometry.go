package srzone

// Sizes within a crunched geometry section.
const (
	FastObjectSize     = 112
	FastObjectTailSize = FastObjectSize - 44
)

// CrunchedGeometry is the payload of a crunched geometry section (type
// 0x2233). It places level meshes within the zone.
type CrunchedGeometry struct {
	FastObjects []FastObject
	// MeshVariantData is the unparsed remainder of the section.
	MeshVariantData RawBlock
}

func (*CrunchedGeometry) isPayload() {}

// FastObject is one mesh instance of a crunched geometry section.
type FastObject struct {
	// Name is the mesh name, stored in the section's own name table.
	Name string
	// File is the mesh file, stored in the header's reference table.
	File              string
	MaterialMapOffset uint32

	Handle           uint64
	RenderUpdateNext uint32
	Position         Vector3
	Orientation      Quaternion
	// Tail is the unparsed remainder of the record, FastObjectTailSize bytes
	// long.
	Tail RawBlock
}
