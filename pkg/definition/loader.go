package definition

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// File is the on-disk TOML form of a definition override.
//
//	[options]
//	description = "..."
//	depends = ["libc6"]
//
//	args = ["dmqnode=/usr/sbin/", "doc/etc/dmq.conf=/etc/dmqnode/"]
type File struct {
	Options Options  `toml:"options"`
	Args    []string `toml:"args"`
}

// LoadFile reads a TOML definition file and merges it over Defaults(v)
func LoadFile(path string, v Vars) (Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return Definition{}, fmt.Errorf("opening definition: %w", err)
	}
	defer f.Close()

	def, err := Load(f, v)
	if err != nil {
		return Definition{}, fmt.Errorf("loading %s: %w", path, err)
	}
	return def, nil
}

// Load decodes a TOML definition from r and merges it over Defaults(v).
// Mapping entries from the file are appended after the defaults.
func Load(r io.Reader, v Vars) (Definition, error) {
	var file File
	md, err := toml.NewDecoder(r).Decode(&file)
	if err != nil {
		return Definition{}, fmt.Errorf("parsing definition: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Definition{}, fmt.Errorf("unknown keys in definition: %s", strings.Join(keys, ", "))
	}

	def := Defaults(v)
	def.Options.Merge(expandOptions(file.Options, v))

	for _, raw := range file.Args {
		m, err := ParseMapping(v.Expand(raw))
		if err != nil {
			return Definition{}, err
		}
		def.Append(m)
	}

	return def, nil
}

func expandOptions(o Options, v Vars) Options {
	o.Name = v.Expand(o.Name)
	o.URL = v.Expand(o.URL)
	o.Maintainer = v.Expand(o.Maintainer)
	o.Vendor = v.Expand(o.Vendor)
	o.Description = v.Expand(o.Description)
	return o
}

// Encode writes d in the TOML file form
func Encode(w io.Writer, d Definition) error {
	file := File{Options: d.Options, Args: d.ArgStrings()}
	if err := toml.NewEncoder(w).Encode(file); err != nil {
		return fmt.Errorf("encoding definition: %w", err)
	}
	return nil
}
