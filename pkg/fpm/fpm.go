// Package fpm drives the external fpm packaging tool with a DMQ node
// package definition.
package fpm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/definition"
)

// Target is an fpm output type (-t)
type Target string

const (
	TargetDeb Target = "deb"
	TargetRPM Target = "rpm"
)

// DefaultPath is the fpm executable looked up on PATH
const DefaultPath = "fpm"

// ErrNotInstalled is returned when the fpm executable cannot be found
var ErrNotInstalled = errors.New("fpm not found")

// Options are the per-run settings that are not part of the definition
type Options struct {
	Target    Target
	Root      string // -C, the directory mapping sources are relative to
	OutputDir string // -p
}

// Args renders the fpm argument vector for def. Every mapping is passed
// through in order, duplicates included.
func Args(def definition.Definition, opts Options) []string {
	o := def.Options
	target := opts.Target
	if target == "" {
		target = TargetDeb
	}

	args := []string{
		"-s", "dir",
		"-t", string(target),
		"-n", o.Name,
		"--url", o.URL,
		"--maintainer", o.Maintainer,
		"--vendor", o.Vendor,
		"--description", o.Description,
	}

	if o.Version != "" {
		args = append(args, "-v", o.Version)
	}
	if o.Iteration != "" {
		args = append(args, "--iteration", o.Iteration)
	}
	if o.Arch != "" {
		args = append(args, "-a", o.Arch)
	}
	if o.License != "" {
		args = append(args, "--license", o.License)
	}
	if o.Category != "" {
		args = append(args, "--category", o.Category)
	}
	for _, dep := range o.Depends {
		args = append(args, "-d", dep)
	}

	if opts.OutputDir != "" {
		args = append(args, "-p", strings.TrimSuffix(opts.OutputDir, "/")+"/")
	}
	if opts.Root != "" {
		args = append(args, "-C", opts.Root)
	}
	args = append(args, "-f")

	return append(args, def.ArgStrings()...)
}

// Config configures a Runner
type Config struct {
	Path   string             // fpm executable, DefaultPath if empty
	Debug  bool               // Pass --verbose to fpm
	Logger *zap.SugaredLogger // Custom logger (optional)
}

// Runner executes fpm
type Runner struct {
	config *Config
	logger *zap.SugaredLogger
}

// NewRunner creates a Runner
func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Runner{config: cfg, logger: logger}
}

// Available reports whether the configured fpm executable can be found
func (r *Runner) Available() bool {
	_, err := exec.LookPath(r.config.Path)
	return err == nil
}

// Available reports whether fpm is on PATH
func Available() bool {
	return NewRunner(nil).Available()
}

var createdPath = regexp.MustCompile(`:path=>"([^"]+)"`)

// Run executes fpm for def and returns the path of the created package
func (r *Runner) Run(ctx context.Context, def definition.Definition, opts Options) (string, error) {
	bin, err := exec.LookPath(r.config.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotInstalled, r.config.Path)
	}

	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
	}

	args := Args(def, opts)
	if r.config.Debug {
		args = append([]string{"--verbose"}, args...)
	}
	r.logger.Debugf("Running %s %s", bin, strings.Join(args, " "))

	start := time.Now()
	cmd := exec.CommandContext(ctx, bin, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("fpm failed: %w\n%s", err, strings.TrimSpace(out.String()))
	}
	r.logger.Debugf("fpm output: %s", strings.TrimSpace(out.String()))

	if m := createdPath.FindStringSubmatch(out.String()); m != nil {
		path := m[1]
		if !filepath.IsAbs(path) && opts.OutputDir == "" && opts.Root != "" {
			path = filepath.Join(opts.Root, path)
		}
		return filepath.Abs(path)
	}

	path, err := newestPackage(opts.OutputDir, string(opts.Target), start)
	if err != nil {
		return "", err
	}
	return path, nil
}

// newestPackage finds the package fpm wrote when its output could not be
// parsed
func newestPackage(dir, ext string, since time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if ext == "" {
		ext = string(TargetDeb)
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*."+ext))
	if err != nil {
		return "", err
	}

	var newest string
	var newestTime time.Time
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.ModTime().Before(since.Add(-time.Second)) {
			continue
		}
		if info.ModTime().After(newestTime) {
			newest, newestTime = m, info.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("fpm reported success but no .%s was found in %s", ext, dir)
	}
	return filepath.Abs(newest)
}
