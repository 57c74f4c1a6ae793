package deb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blakesmith/ar"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/archive"
)

// Inspect opens the .deb at path and reads its control data and file list
func Inspect(path string) (*Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening .deb file: %w", err)
	}
	defer f.Close()

	return Read(f, nil)
}

// Read parses a .deb stream. If contents is not nil, the bodies of regular
// data files are stored in it keyed by "./usr/..." path.
func Read(r io.Reader, contents map[string][]byte) (*Package, error) {
	arReader := ar.NewReader(r)
	pkg := &Package{MD5Sums: make(map[string]string)}

	sawBinary := false
	for {
		header, err := arReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading ar entry: %w", err)
		}

		// GNU ar terminates member names with "/"
		name := strings.TrimSuffix(strings.TrimSpace(header.Name), "/")

		switch {
		case name == MemberBinary:
			data, err := io.ReadAll(arReader)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", name, err)
			}
			if !strings.HasPrefix(string(data), "2.") {
				return nil, fmt.Errorf("unsupported deb format version %q", strings.TrimSpace(string(data)))
			}
			sawBinary = true
		case strings.HasPrefix(name, "control.tar"):
			if err := readControlMember(arReader, name, pkg); err != nil {
				return nil, err
			}
		case strings.HasPrefix(name, "data.tar"):
			if err := readDataMember(arReader, name, pkg, contents); err != nil {
				return nil, err
			}
		}
	}

	if !sawBinary {
		return nil, fmt.Errorf("not a Debian package: no %s member", MemberBinary)
	}
	if pkg.Control == nil {
		return nil, fmt.Errorf("no control.tar.* found in .deb package")
	}
	return pkg, nil
}

func readControlMember(r io.Reader, name string, pkg *Package) error {
	dr, err := archive.NewDecompressor(r, archive.CompressionFromName(name))
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer dr.Close()

	files := make(map[string][]byte)
	if _, err := archive.ListTar(dr, files); err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}

	control, ok := files["./control"]
	if !ok {
		return fmt.Errorf("%s has no control file", name)
	}
	pkg.Control, err = ParseControl(strings.NewReader(string(control)))
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(strings.NewReader(string(files["./md5sums"])))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 2 {
			pkg.MD5Sums[fields[1]] = fields[0]
		}
	}
	return scanner.Err()
}

func readDataMember(r io.Reader, name string, pkg *Package, contents map[string][]byte) error {
	dr, err := archive.NewDecompressor(r, archive.CompressionFromName(name))
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer dr.Close()

	entries, err := archive.ListTar(dr, contents)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	for _, e := range entries {
		pkg.Files = append(pkg.Files, e.Name)
	}
	return nil
}
