package definition

import "strings"

// Vars carries the values the package name and paths are computed from.
type Vars struct {
	Name      string // Base package name (e.g., "dmqnode")
	Suffix    string // Appended to Name, e.g. "-d2" or a distribution suffix
	Version   string // Upstream version
	Iteration string // Package revision
	Arch      string // Target architecture
}

// DefaultVars returns Vars for the DMQ node with no suffix
func DefaultVars() Vars {
	return Vars{Name: DefaultName}
}

// BaseName returns Name, or DefaultName when it is empty
func (v Vars) BaseName() string {
	if v.Name == "" {
		return DefaultName
	}
	return v.Name
}

// FullName returns the base name with the suffix appended
func (v Vars) FullName() string {
	return v.BaseName() + v.Suffix
}

// Expand replaces the known placeholders in s
func (v Vars) Expand(s string) string {
	if !strings.Contains(s, "{") {
		return s
	}
	r := strings.NewReplacer(
		PlaceholderFullName, v.FullName(),
		PlaceholderName, v.BaseName(),
		PlaceholderVersion, v.Version,
		PlaceholderArch, v.Arch,
	)
	return r.Replace(s)
}
