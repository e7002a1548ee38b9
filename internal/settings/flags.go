package settings

import "flag"

// Flags binds the command-line options that override a settings file.
type Flags struct {
	fs *flag.FlagSet

	// Config is the settings file named on the command line.
	Config string

	verbose         bool
	noKeepPadding   bool
	noParseObject   bool
	noParseProperty bool
	rebuild         bool
}

// Bind defines the shared options on fs.
func Bind(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.Config, "config", "", "settings file (default "+DefaultFile+" if present)")
	fs.BoolVar(&f.verbose, "v", false, "display detailed information")
	fs.BoolVar(&f.noKeepPadding, "no-keep-padding", false, "don't preserve property padding on zone file read")
	fs.BoolVar(&f.noParseObject, "no-parse-object", false, "don't parse objects on zone file read")
	fs.BoolVar(&f.noParseProperty, "no-parse-property", false, "don't parse property values on zone file read")
	fs.BoolVar(&f.rebuild, "rebuild-handle-list", false, "rebuild object handle list before writing")
	return f
}

// Load reads the settings file, then applies each option that was set on the
// command line. It must be called after the flag set is parsed.
func (f *Flags) Load() (s Settings, err error) {
	if f.Config != "" {
		s, err = Load(f.Config)
	} else {
		s, err = LoadDefault()
	}
	if err != nil {
		return s, err
	}
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "v":
			s.Verbose = f.verbose
		case "no-keep-padding":
			s.Zone.NoKeepPadding = f.noKeepPadding
		case "no-parse-object":
			s.Zone.NoParseObjects = f.noParseObject
		case "no-parse-property":
			s.Zone.NoParseValues = f.noParseProperty
		case "rebuild-handle-list":
			s.Zone.RebuildHandleList = f.rebuild
		}
	})
	return s, nil
}
