package srzone

import "math"

// Signatures and versions of the header file.
const (
	ReferenceTableSignature = 0x3854
	ReferenceTableVersion   = 4

	WorldZoneSignature  = "SR3Z"
	WorldZoneVersionSR3 = 29
	WorldZoneVersionSR4 = 32
)

// ReferenceTable is the string pool at the start of a header file (the
// "v-file header"). Mesh file references and crunched geometry name files by
// the byte offset of a string within the pool.
type ReferenceTable struct {
	Signature uint16
	Version   uint16
	// DataStart is carried through unchanged. Some files set it to zero and
	// others do not.
	DataStart uint32
	Unknown   uint32
	// Names in file order.
	Names []string
}

// NewReferenceTable returns an empty table with the expected signature and
// version.
func NewReferenceTable(names ...string) *ReferenceTable {
	return &ReferenceTable{
		Signature: ReferenceTableSignature,
		Version:   ReferenceTableVersion,
		Names:     names,
	}
}

// ZoneType categorizes how a zone is streamed.
type ZoneType uint8

var zoneTypeNames = [...]string{
	"Unknown",
	"Global Always Loaded",
	"Streaming",
	"Streaming Always Loaded",
	"Test Level",
	"Mission",
	"Activity",
	"Interior",
	"Interior Always Loaded",
	"Test Level Always Loaded",
	"Mission Always Loaded",
	"High LOD",
	"Num World Zone Types",
}

func (t ZoneType) String() string {
	if int(t) < len(zoneTypeNames) {
		return zoneTypeNames[t]
	}
	return "unknown"
}

// WorldZoneHeader follows the reference table in a header file.
type WorldZoneHeader struct {
	Signature string
	Version   uint32
	// FileHeaderPtr is a runtime pointer slot; files normally hold zero.
	FileHeaderPtr     uint32
	Offset            Vector3
	FileReferencesPtr uint32
	ZoneType          ZoneType
	MeshReferences    []MeshFileReference
}

// NewWorldZoneHeader returns a header with the expected signature and the
// given version.
func NewWorldZoneHeader(version uint32) *WorldZoneHeader {
	return &WorldZoneHeader{Signature: WorldZoneSignature, Version: version}
}

// Scales of the fixed-point fields of a MeshFileReference.
const (
	meshPosScale    = 1 << 6
	meshOrientScale = 1 << 12
)

// MeshFileReference places a mesh file within a zone. Position and
// orientation are stored as 16-bit fixed-point values.
type MeshFileReference struct {
	// File is the name of the mesh file, as found in the reference table.
	File string

	PosX, PosY, PosZ     int16
	Pitch, Bank, Heading int16
}

func fixedToFloat(v int16, scale float32) float32 {
	return float32(v) / scale
}

func floatToFixed(f float32, scale float64) int16 {
	v := math.RoundToEven(float64(f) * scale)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// Position returns the position as floats.
func (m MeshFileReference) Position() Vector3 {
	return Vector3{
		X: fixedToFloat(m.PosX, meshPosScale),
		Y: fixedToFloat(m.PosY, meshPosScale),
		Z: fixedToFloat(m.PosZ, meshPosScale),
	}
}

// SetPosition sets the position, rounding to the nearest representable
// value.
func (m *MeshFileReference) SetPosition(v Vector3) {
	m.PosX = floatToFixed(v.X, meshPosScale)
	m.PosY = floatToFixed(v.Y, meshPosScale)
	m.PosZ = floatToFixed(v.Z, meshPosScale)
}

// Orientation returns pitch, bank, and heading as floats.
func (m MeshFileReference) Orientation() (pitch, bank, heading float32) {
	return fixedToFloat(m.Pitch, meshOrientScale),
		fixedToFloat(m.Bank, meshOrientScale),
		fixedToFloat(m.Heading, meshOrientScale)
}

// SetOrientation sets pitch, bank, and heading, rounding to the nearest
// representable value.
func (m *MeshFileReference) SetOrientation(pitch, bank, heading float32) {
	m.Pitch = floatToFixed(pitch, meshOrientScale)
	m.Bank = floatToFixed(bank, meshOrientScale)
	m.Heading = floatToFixed(heading, meshOrientScale)
}
