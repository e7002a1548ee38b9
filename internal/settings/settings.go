// The settings package loads tool options from an INI file.
//
// Recognized keys:
//
//	[zone]
//	keep_padding        = true
//	parse_objects       = true
//	parse_properties    = true
//	rebuild_handle_list = false
//
//	[tool]
//	verbose = false
//
// Missing keys keep their defaults.
package settings

import (
	"fmt"

	"github.com/clarosa/srzone"
	"gopkg.in/ini.v1"
)

// DefaultFile is the name of the settings file looked up in the working
// directory when no other file is given.
const DefaultFile = "srzone.ini"

// Settings holds options shared by the command-line tools.
type Settings struct {
	Zone    srzone.Config
	Verbose bool
}

// key reads a boolean key into v if the key is present.
func key(sec *ini.Section, name string, v *bool) error {
	if !sec.HasKey(name) {
		return nil
	}
	b, err := sec.Key(name).Bool()
	if err != nil {
		return fmt.Errorf("[%s] %s: %w", sec.Name(), name, err)
	}
	*v = b
	return nil
}

// Load reads settings from the INI file at path.
func Load(path string) (s Settings, err error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return s, err
	}
	return parse(cfg)
}

// LoadDefault reads DefaultFile if it exists, and returns the defaults
// otherwise.
func LoadDefault() (s Settings, err error) {
	cfg, err := ini.LooseLoad(DefaultFile)
	if err != nil {
		return s, err
	}
	return parse(cfg)
}

func parse(cfg *ini.File) (s Settings, err error) {
	keep, objects, values := true, true, true
	zone := cfg.Section("zone")
	if err = key(zone, "keep_padding", &keep); err != nil {
		return s, err
	}
	if err = key(zone, "parse_objects", &objects); err != nil {
		return s, err
	}
	if err = key(zone, "parse_properties", &values); err != nil {
		return s, err
	}
	if err = key(zone, "rebuild_handle_list", &s.Zone.RebuildHandleList); err != nil {
		return s, err
	}
	if err = key(cfg.Section("tool"), "verbose", &s.Verbose); err != nil {
		return s, err
	}
	s.Zone.NoKeepPadding = !keep
	s.Zone.NoParseObjects = !objects
	s.Zone.NoParseValues = !values
	return s, nil
}
