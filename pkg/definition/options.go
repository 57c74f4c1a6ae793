package definition

import "strings"

// Options is the descriptive metadata attached to a package.
type Options struct {
	Name        string   `json:"name" toml:"name"`
	URL         string   `json:"url" toml:"url"`
	Maintainer  string   `json:"maintainer" toml:"maintainer"`
	Vendor      string   `json:"vendor" toml:"vendor"`
	Description string   `json:"description" toml:"description"`
	Version     string   `json:"version,omitempty" toml:"version"`
	Iteration   string   `json:"iteration,omitempty" toml:"iteration"`
	Arch        string   `json:"arch,omitempty" toml:"arch"`
	License     string   `json:"license,omitempty" toml:"license"`
	Category    string   `json:"category,omitempty" toml:"category"`
	Priority    string   `json:"priority,omitempty" toml:"priority"`
	Depends     []string `json:"depends,omitempty" toml:"depends"`
}

// Merge overwrites fields of o with the non-empty fields of other.
// Depends lists are concatenated.
func (o *Options) Merge(other Options) {
	set := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	set(&o.Name, other.Name)
	set(&o.URL, other.URL)
	set(&o.Maintainer, other.Maintainer)
	set(&o.Vendor, other.Vendor)
	set(&o.Description, other.Description)
	set(&o.Version, other.Version)
	set(&o.Iteration, other.Iteration)
	set(&o.Arch, other.Arch)
	set(&o.License, other.License)
	set(&o.Category, other.Category)
	set(&o.Priority, other.Priority)
	o.Depends = append(o.Depends, other.Depends...)
}

// Summary returns the first line of the description
func (o Options) Summary() string {
	line, _, _ := strings.Cut(strings.TrimSpace(o.Description), "\n")
	return strings.TrimSpace(line)
}

// PackageVersion is FullVersion with DefaultVersion standing in for an
// empty version
func (o Options) PackageVersion() string {
	if o.Version == "" {
		o.Version = DefaultVersion
	}
	return o.FullVersion()
}

// FullVersion returns version and iteration joined the Debian way
func (o Options) FullVersion() string {
	if o.Iteration == "" {
		return o.Version
	}
	return o.Version + "-" + o.Iteration
}
