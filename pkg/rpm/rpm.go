// Package rpm reads metadata back out of RPM packages produced by the fpm
// backend.
package rpm

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/sassoftware/go-rpmutils"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/definition"
)

// Package is the metadata of an RPM file
type Package struct {
	Options       definition.Options
	Summary       string
	Files         []string // absolute install paths
	InstalledSize int64
}

// Inspect reads the header of the RPM at path
func Inspect(path string) (*Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rpm: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses an RPM header from r
func Read(r io.Reader) (*Package, error) {
	hdr, err := rpmutils.ReadHeader(r)
	if err != nil {
		return nil, fmt.Errorf("reading rpm header: %w", err)
	}
	return fromHeader(hdr)
}

func fromHeader(hdr *rpmutils.RpmHeader) (*Package, error) {
	nevra, err := hdr.GetNEVRA()
	if err != nil {
		return nil, fmt.Errorf("reading nevra: %w", err)
	}

	pkg := &Package{
		Options: definition.Options{
			Name:        nevra.Name,
			Version:     nevra.Version,
			Iteration:   nevra.Release,
			Arch:        nevra.Arch,
			URL:         optionalString(hdr, rpmutils.URL),
			Vendor:      optionalString(hdr, rpmutils.VENDOR),
			Maintainer:  optionalString(hdr, rpmutils.PACKAGER),
			Description: optionalString(hdr, rpmutils.DESCRIPTION),
			License:     optionalString(hdr, rpmutils.LICENSE),
			Category:    optionalString(hdr, rpmutils.GROUP),
		},
		Summary: optionalString(hdr, rpmutils.SUMMARY),
	}

	if deps, err := hdr.GetStrings(rpmutils.REQUIRENAME); err == nil {
		for _, d := range deps {
			// rpmlib() and path requirements are added by rpmbuild
			if d != "" && !strings.HasPrefix(d, "/") && !isRpmlib(d) {
				pkg.Options.Depends = append(pkg.Options.Depends, d)
			}
		}
	}

	files, err := hdr.GetFiles()
	if err != nil {
		return nil, fmt.Errorf("reading file list: %w", err)
	}
	for _, fi := range files {
		pkg.Files = append(pkg.Files, fi.Name())
	}

	if size, err := hdr.InstalledSize(); err == nil {
		pkg.InstalledSize = size
	}

	return pkg, nil
}

func isRpmlib(dep string) bool {
	return strings.HasPrefix(dep, "rpmlib(")
}

// optionalString returns the tag value or "" when the tag is absent
func optionalString(hdr *rpmutils.RpmHeader, tag int) string {
	s, err := hdr.GetString(tag)
	if err != nil {
		return ""
	}
	return s
}

// Verify checks the digests and OpenPGP signatures of the RPM at path
// against the armoured keyring at keyringPath. It returns the key IDs of
// the signatures found.
func Verify(path, keyringPath string) ([]string, error) {
	kf, err := os.Open(keyringPath)
	if err != nil {
		return nil, fmt.Errorf("opening public key: %w", err)
	}
	defer kf.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(kf)
	if err != nil {
		return nil, fmt.Errorf("loading keyring: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rpm: %w", err)
	}
	defer f.Close()

	_, sigs, err := rpmutils.Verify(f, keyring)
	if err != nil {
		return nil, fmt.Errorf("verify failed: %w", err)
	}
	if len(sigs) == 0 {
		return nil, fmt.Errorf("no GPG signatures found")
	}

	ids := make([]string, 0, len(sigs))
	for _, s := range sigs {
		ids = append(ids, fmt.Sprintf("%016X", s.KeyId))
	}
	return ids, nil
}
