package definition

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Validate checks that the descriptive fields are set and that every mapping
// source exists under root. All problems found are returned joined.
func (d Definition) Validate(root string) error {
	var errs []error

	required := []struct {
		field string
		value string
	}{
		{"name", d.Options.Name},
		{"url", d.Options.URL},
		{"maintainer", d.Options.Maintainer},
		{"vendor", d.Options.Vendor},
		{"description", d.Options.Description},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingField, r.field))
		}
	}

	for _, m := range d.Args {
		if m.Source == "" || m.Dest == "" {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidMapping, m.String()))
			continue
		}
		if !path.IsAbs(m.Dest) {
			errs = append(errs, fmt.Errorf("%w: %s", ErrRelativeDest, m.Dest))
		}
		src := m.Source
		if !filepath.IsAbs(src) {
			src = filepath.Join(root, src)
		}
		if _, err := os.Lstat(src); err != nil {
			if os.IsNotExist(err) {
				errs = append(errs, fmt.Errorf("%w: %s", ErrSourceNotFound, m.Source))
			} else {
				errs = append(errs, fmt.Errorf("checking %s: %w", m.Source, err))
			}
		}
	}

	return errors.Join(errs...)
}
