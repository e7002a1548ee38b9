package srzone

// Config controls how zone files are interpreted. The zero value selects the
// default behavior.
//
// A Config is copied into each read or write call, so changing one while a
// call is in progress has no effect on that call.
type Config struct {
	// If NoParseObjects is true, object and crunched geometry sections are
	// kept as raw blocks.
	NoParseObjects bool

	// If NoParseValues is true, every property value is kept as raw data,
	// regardless of its type tag.
	NoParseValues bool

	// If NoKeepPadding is true, the bytes between a property's value and the
	// next 4-byte boundary are discarded on read. Padding already held by a
	// property is still written when its length fits the gap.
	NoKeepPadding bool

	// If RebuildHandleList is true, the handle list of an object section is
	// regenerated from the sorted handles of its objects when written.
	RebuildHandleList bool
}
