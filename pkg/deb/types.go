package deb

import (
	"go.uber.org/zap"
)

// Config configures the Debian package builder
type Config struct {
	Compression string             // data member compression: xz, gz or zst
	TempDir     string             // where Write spools the data member (default: os.TempDir)
	Debug       bool               // Enable debug logging
	Logger      *zap.SugaredLogger // Custom logger (optional)
}

// Builder writes Debian binary packages
type Builder struct {
	config *Config
	logger *zap.SugaredLogger
}

// Control holds the fields of a binary package control file
type Control struct {
	Package       string
	Version       string
	Architecture  string
	Maintainer    string
	InstalledSize int64 // in KiB
	Depends       []string
	Section       string
	Priority      string
	Homepage      string
	Vendor        string
	License       string
	Description   string // first line is the synopsis
}

// Package is a .deb read back from disk
type Package struct {
	Control *Control
	Files   []string          // data member paths in "./usr/..." form
	MD5Sums map[string]string // path without "./" -> md5
}
