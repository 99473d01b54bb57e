package compiler

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config drives one layoutc generate run
type Config struct {
	// Input is the corpus path, relative to the config file
	Input string `yaml:"input"`

	// Output is the generated Go file, relative to the config file
	Output string `yaml:"output"`

	// Package is the package clause of the generated file
	Package string `yaml:"package"`

	RootType string `yaml:"root_type,omitempty"`

	// ExternTypes maps schema value types to Go types defined elsewhere
	ExternTypes map[string]string `yaml:"extern_types,omitempty"`

	// Imports are added to the generated file, for qualified extern types
	Imports []string `yaml:"imports,omitempty"`

	ObfuscationKey uint64 `yaml:"obfuscation_key,omitempty"`
}

// LoadConfig reads a config file. Unknown keys are rejected and relative
// paths are resolved against the config file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	dir := filepath.Dir(path)
	if cfg.Input != "" && !filepath.IsAbs(cfg.Input) {
		cfg.Input = filepath.Join(dir, cfg.Input)
	}
	if cfg.Output != "" && !filepath.IsAbs(cfg.Output) {
		cfg.Output = filepath.Join(dir, cfg.Output)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input is required")
	}
	if c.Output == "" {
		return fmt.Errorf("output is required")
	}
	if c.Package == "" {
		return fmt.Errorf("package is required")
	}
	return nil
}

func (c *Config) Options() Options {
	return Options{
		RootType:       c.RootType,
		ExternTypes:    c.ExternTypes,
		ObfuscationKey: c.ObfuscationKey,
	}
}

func (c *Config) Generator() Generator {
	return Generator{
		Package: c.Package,
		Imports: c.Imports,
		Source:  filepath.Base(c.Input),
	}
}
