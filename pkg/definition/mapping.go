package definition

import (
	"fmt"
	"strings"
)

// Mapping pairs a file in the source tree with its install destination.
type Mapping struct {
	Source string
	Dest   string
}

// ParseMapping parses a "source=destination" entry
func ParseMapping(s string) (Mapping, error) {
	src, dst, ok := strings.Cut(s, "=")
	src = strings.TrimSpace(src)
	dst = strings.TrimSpace(dst)
	if !ok || src == "" || dst == "" {
		return Mapping{}, fmt.Errorf("%w: %q", ErrInvalidMapping, s)
	}
	return Mapping{Source: src, Dest: dst}, nil
}

// String renders the mapping in "source=destination" form
func (m Mapping) String() string {
	return m.Source + "=" + m.Dest
}

// IsDirDest reports whether the source is placed inside Dest rather than at it
func (m Mapping) IsDirDest() bool {
	return strings.HasSuffix(m.Dest, "/")
}

// MarshalText implements encoding.TextMarshaler
func (m Mapping) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Mapping) UnmarshalText(text []byte) error {
	parsed, err := ParseMapping(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ReadmeMapping returns the documentation mapping for the given full name
func ReadmeMapping(fullname string) Mapping {
	return Mapping{
		Source: ReadmeSource,
		Dest:   fmt.Sprintf("%s/%s/", DocRoot, fullname),
	}
}
