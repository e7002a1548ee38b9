package srzone

// Section type codes.
const (
	SectionCrunchedGeometry = 0x2233
	SectionObjects          = 0x2234

	// Valid section types lie within [SectionTypeMin, SectionTypeMax).
	SectionTypeMin = 0x2233
	SectionTypeMax = 0x2300

	// SectionGPUFlag is set in a section ID when the section has GPU data.
	SectionGPUFlag = 0x80000000
)

// Section is one typed chunk of a data file.
type Section struct {
	// ID holds the type code in the low 31 bits and the GPU flag in the top
	// bit.
	ID uint32
	// GPUSize is the size of the section's data in the GPU file. It is
	// carried through unchanged.
	GPUSize uint32
	// Payload is nil when the section has no CPU data.
	Payload Payload
}

// Type returns the section type code.
func (s *Section) Type() uint32 {
	return s.ID &^ SectionGPUFlag
}

// HasGPUData returns whether the GPU flag is set.
func (s *Section) HasGPUData() bool {
	return s.ID&SectionGPUFlag != 0
}

// Description returns a description of the section type, or an empty string
// if the type is not known.
func (s *Section) Description() string {
	return sectionTypeNames[s.Type()]
}

// ValidSectionType returns whether t is within the range of section types.
func ValidSectionType(t uint32) bool {
	return SectionTypeMin <= t && t < SectionTypeMax
}

// Payload is the CPU data of a section. It is one of RawBlock, *ObjectTable,
// or *CrunchedGeometry.
type Payload interface {
	isPayload()
}

var sectionTypeNames = map[uint32]string{
	0x2233: "crunched reference geometry - transforms and things for level meshes",
	0x2234: "objects - nav points, environmental effects, and many, many more things",
	0x2235: "navmesh",
	0x2236: "traffic data",
	0x2237: "world editor generated geometry - things directly made from the editor like terrain",
	0x2238: "sidewalk data",
	0x2239: "section trailer (??)",
	0x2240: "light clip meshes",
	0x2241: "traffic signal data",
	0x2242: "mover constraint data",
	0x2243: "zone triggers(interiors, missions)",
	0x2244: "heightmap",
	0x2245: "cobject rbb tree - cobjects are things that are not a full on object like tables and chairs",
	0x2246: "undergrowth - foliage",
	0x2247: "water volumes",
	0x2248: "wave killers",
	0x2249: "water surfaces",
	0x2250: "parking data",
	0x2251: "rain killers",
	0x2252: "level mesh supplemental lod data",
	0x2253: "cobject grid data - object fading",
	0x2254: "ae rbb (??)",
	0x2255: "havok pathfinding data(SR4 only?)",
}
