package core

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	k8syaml "sigs.k8s.io/yaml"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/definition"
)

// Config holds dmqpkg configuration
type Config struct {
	Name        string `yaml:"name,omitempty"`
	Suffix      string `yaml:"suffix,omitempty"`
	Format      string `yaml:"format,omitempty"`
	Compression string `yaml:"compression,omitempty"`
	OutputDir   string `yaml:"output_dir,omitempty"`
	SourceRoot  string `yaml:"source_root,omitempty"`
	Definition  string `yaml:"definition,omitempty"`
	FpmPath     string `yaml:"fpm_path,omitempty"`
	SignKey     string `yaml:"sign_key,omitempty"`
	LogLevel    string `yaml:"log_level,omitempty"`
	LogFile     string `yaml:"log_file,omitempty"`
	Debug       bool   `yaml:"debug,omitempty"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Name:        definition.DefaultName,
		Format:      DefaultFormat,
		Compression: DefaultCompression,
		OutputDir:   getDefaultOutputDir(),
		SourceRoot:  ".",
		FpmPath:     DefaultFpmPath,
		LogLevel:    "info",
	}
}

// DefaultConfigPath returns $HOME/.config/dmqpkg/config.yaml
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dmqpkg", "config.yaml"), nil
}

// LoadConfig loads configuration from file. A missing file yields the
// defaults. Values in the file override the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := ValidateConfig(data); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if dir := os.Getenv(EnvOutputDir); dir != "" {
		cfg.OutputDir = dir
	}

	return cfg, nil
}

// ValidateConfig checks YAML config bytes against the config schema
func ValidateConfig(data []byte) error {
	jsonData, err := k8syaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("converting config to JSON: %w", err)
	}
	// An empty document converts to null
	if string(jsonData) == "null" {
		return nil
	}
	if err := definition.ValidateConfigJSON(jsonData); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Vars returns the naming variables the config selects
func (c *Config) Vars() definition.Vars {
	return definition.Vars{Name: c.Name, Suffix: c.Suffix}
}

func getDefaultOutputDir() string {
	if dir := os.Getenv(EnvOutputDir); dir != "" {
		return dir
	}
	return "build"
}
