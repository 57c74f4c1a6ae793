// Package payload expands install mappings into the concrete file tree a
// package will install.
package payload

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/definition"
)

// Kind is the type of an installed entry
type Kind int

const (
	KindFile Kind = iota
	KindDir
	KindSymlink
)

func (k Kind) String() string {
	switch k {
	case KindDir:
		return "dir"
	case KindSymlink:
		return "symlink"
	default:
		return "file"
	}
}

// Entry is one path in the install tree
type Entry struct {
	Source     string // Host path, empty for synthesised directories
	Path       string // Absolute install path, slash separated, no trailing slash
	Kind       Kind
	Mode       fs.FileMode // Permission bits only
	Size       int64
	ModTime    time.Time
	LinkTarget string
}

// Open opens the source of a file entry
func (e Entry) Open() (io.ReadCloser, error) {
	if e.Kind != KindFile {
		return nil, fmt.Errorf("%s is not a regular file", e.Path)
	}
	return os.Open(e.Source)
}

// Resolve expands maps relative to root into a sorted, deduplicated list of
// entries. Parent directories are included for every entry.
func Resolve(root string, maps []definition.Mapping) ([]Entry, error) {
	byPath := make(map[string]Entry)

	for _, m := range maps {
		src := m.Source
		if !filepath.IsAbs(src) {
			src = filepath.Join(root, src)
		}

		info, err := os.Lstat(src)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", definition.ErrSourceNotFound, m.Source)
			}
			return nil, fmt.Errorf("reading %s: %w", m.Source, err)
		}

		dest := path.Clean(m.Dest)
		if m.IsDirDest() && !info.IsDir() {
			dest = path.Join(dest, filepath.Base(src))
		}
		if !path.IsAbs(dest) {
			return nil, fmt.Errorf("%w: %s", definition.ErrRelativeDest, m.Dest)
		}

		if info.IsDir() {
			if err := walkDir(src, dest, byPath); err != nil {
				return nil, err
			}
			continue
		}

		entry, err := newEntry(src, dest, info)
		if err != nil {
			return nil, err
		}
		byPath[dest] = entry
	}

	addParents(byPath)

	entries := make([]Entry, 0, len(byPath))
	for _, e := range byPath {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	return entries, nil
}

func walkDir(src, dest string, out map[string]Entry) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := path.Join(dest, filepath.ToSlash(rel))
		// the archive root is implicit
		if target == "/" {
			return nil
		}

		info, err := os.Lstat(p)
		if err != nil {
			return err
		}
		entry, err := newEntry(p, target, info)
		if err != nil {
			return err
		}
		out[target] = entry
		return nil
	})
}

func newEntry(src, dest string, info fs.FileInfo) (Entry, error) {
	e := Entry{
		Source:  src,
		Path:    dest,
		Mode:    info.Mode().Perm(),
		ModTime: info.ModTime(),
	}

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return Entry{}, fmt.Errorf("reading link %s: %w", src, err)
		}
		e.Kind = KindSymlink
		e.LinkTarget = target
	case info.IsDir():
		e.Kind = KindDir
	case info.Mode().IsRegular():
		e.Kind = KindFile
		e.Size = info.Size()
	default:
		return Entry{}, fmt.Errorf("unsupported file type %v for %s", info.Mode().Type(), src)
	}

	return e, nil
}

func addParents(byPath map[string]Entry) {
	var modTime time.Time
	for _, e := range byPath {
		if e.ModTime.After(modTime) {
			modTime = e.ModTime
		}
	}

	paths := make([]string, 0, len(byPath))
	for p := range byPath {
		paths = append(paths, p)
	}
	for _, p := range paths {
		for dir := path.Dir(p); dir != "/" && dir != "."; dir = path.Dir(dir) {
			if _, ok := byPath[dir]; ok {
				continue
			}
			byPath[dir] = Entry{Path: dir, Kind: KindDir, Mode: 0755, ModTime: modTime}
		}
	}
}

// InstalledSize returns the sum of regular file sizes in bytes
func InstalledSize(entries []Entry) int64 {
	var total int64
	for _, e := range entries {
		if e.Kind == KindFile {
			total += e.Size
		}
	}
	return total
}

// RelPath returns the entry path in "./usr/..." archive form
func RelPath(e Entry) string {
	rel := "." + e.Path
	if e.Kind == KindDir && !strings.HasSuffix(rel, "/") {
		rel += "/"
	}
	return rel
}
