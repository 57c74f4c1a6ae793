package definition

// Definition is everything the packaging step needs: the options record and
// the ordered install mappings.
type Definition struct {
	Options Options   `json:"options" toml:"options"`
	Args    []Mapping `json:"args" toml:"args"`
}

// Defaults evaluates the DMQ node packaging defaults for v.
// The result shares no state with earlier calls.
func Defaults(v Vars) Definition {
	fullname := v.FullName()
	return Definition{
		Options: Options{
			Name:        fullname,
			URL:         DefaultURL,
			Maintainer:  DefaultMaintainer,
			Vendor:      DefaultVendor,
			Description: DefaultDescription,
			Version:     v.Version,
			Iteration:   v.Iteration,
			Arch:        v.Arch,
		},
		Args: []Mapping{ReadmeMapping(fullname)},
	}
}

// Apply merges the defaults for v into d in place and appends the README
// mapping. It is not idempotent: each call appends another README entry.
func (d *Definition) Apply(v Vars) {
	def := Defaults(v)
	d.Options.Merge(def.Options)
	d.Args = append(d.Args, def.Args...)
}

// Append adds mappings to the end of the list without deduplication
func (d *Definition) Append(m ...Mapping) {
	d.Args = append(d.Args, m...)
}

// Clone returns a deep copy of d
func (d Definition) Clone() Definition {
	out := d
	out.Options.Depends = append([]string(nil), d.Options.Depends...)
	out.Args = append([]Mapping(nil), d.Args...)
	return out
}

// ArgStrings renders the mapping list as "source=destination" strings
func (d Definition) ArgStrings() []string {
	out := make([]string, 0, len(d.Args))
	for _, m := range d.Args {
		out = append(out, m.String())
	}
	return out
}

// Summary is the one-line synopsis of the package
func (d Definition) Summary() string {
	return d.Options.Summary()
}
