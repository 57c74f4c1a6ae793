package archive

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// OutputFile is written under a temporary name in its final directory and
// renamed into place by Commit, so failed builds leave no partial artifact.
type OutputFile struct {
	*os.File
	final string
	done  bool
}

// Create opens a temporary file in dir that Commit renames to dir/name
func Create(dir, name string) (*OutputFile, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", name, uuid.New().String()[:8]))
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", tmp, err)
	}
	return &OutputFile{File: f, final: filepath.Join(dir, name)}, nil
}

// Commit closes the file and moves it to its final path
func (o *OutputFile) Commit() (string, error) {
	if o.done {
		return "", fmt.Errorf("output %s already finished", o.final)
	}
	o.done = true
	if err := o.File.Close(); err != nil {
		os.Remove(o.File.Name())
		return "", fmt.Errorf("closing %s: %w", o.final, err)
	}
	if err := os.Rename(o.File.Name(), o.final); err != nil {
		os.Remove(o.File.Name())
		return "", fmt.Errorf("renaming to %s: %w", o.final, err)
	}
	return o.final, nil
}

// Abort discards the temporary file. It is a no-op after Commit.
func (o *OutputFile) Abort() {
	if o.done {
		return
	}
	o.done = true
	o.File.Close()
	os.Remove(o.File.Name())
}

// Digest returns the hex SHA256 and size of the file at path
func Digest(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	hasher := sha256.New()
	n, err := io.Copy(hasher, f)
	if err != nil {
		return "", 0, fmt.Errorf("computing hash: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), n, nil
}
