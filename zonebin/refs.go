package zonebin

import (
	"strconv"

	"github.com/clarosa/srzone"
)

// namesByOffset maps the offset of each name within the string region of t to
// the name.
func namesByOffset(t *srzone.ReferenceTable) (map[uint32]string, error) {
	m := make(map[uint32]string, len(t.Names))
	var off uint32
	for _, name := range t.Names {
		b, err := encodeString(name)
		if err != nil {
			return nil, err
		}
		m[off] = name
		off += uint32(len(b)) + 1
	}
	return m, nil
}

// offsetsByName maps each name of t to its offset within the string region.
// When a name occurs more than once, the first occurrence is used. Each name
// is also reachable by its 1-based index, unless a name already has that
// spelling.
func offsetsByName(t *srzone.ReferenceTable) (map[string]uint32, error) {
	offsets := make([]uint32, len(t.Names))
	var off uint32
	for i, name := range t.Names {
		b, err := encodeString(name)
		if err != nil {
			return nil, err
		}
		offsets[i] = off
		off += uint32(len(b)) + 1
	}
	return indexOffsets(t.Names, offsets), nil
}

func indexOffsets(names []string, offsets []uint32) map[string]uint32 {
	m := make(map[string]uint32, len(names)*2)
	for i, name := range names {
		if _, ok := m[name]; !ok {
			m[name] = offsets[i]
		}
	}
	for i := range names {
		id := strconv.Itoa(i + 1)
		if _, ok := m[id]; !ok {
			m[id] = offsets[i]
		}
	}
	return m
}
