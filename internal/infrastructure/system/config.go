// Package system provides infrastructure for runtime configuration.
// This covers the config file (~/.renval/config.yaml) holding secret store
// sources and redaction policy, separate from per-run flags.
package system

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"
)

// Config represents the runtime configuration file (~/.renval/config.yaml).
type Config struct {
	// MinVersion optionally pins the minimum renval version this config is
	// written for, as a semver constraint (e.g. ">= 0.3.0").
	MinVersion string          `yaml:"min_version"`
	Secrets    SecretsConfig   `yaml:"secrets"`
	Redaction  RedactionConfig `yaml:"redaction"`
}

// SecretsConfig configures secret resolution sources.
type SecretsConfig struct {
	// Local defines static secrets for development (ref -> value)
	Local map[string]string `yaml:"local"`

	// Env defines environment variable mappings (ref -> env_var_name)
	Env map[string]string `yaml:"env"`

	// Files defines file path mappings (ref -> file_path)
	Files map[string]string `yaml:"files"`
}

// RedactionConfig configures how sensitive data is sanitized.
type RedactionConfig struct {
	HashMode        HashModeConfig `yaml:"hash_mode"`
	Patterns        []string       `yaml:"patterns"`
	DisableGitleaks bool           `yaml:"disable_gitleaks"`
}

// HashModeConfig controls hash-based redaction.
type HashModeConfig struct {
	Salt    string `yaml:"salt"`
	Enabled bool   `yaml:"enabled"`
}

// ConfigLoader loads runtime configuration from disk.
type ConfigLoader struct{}

// NewConfigLoader creates a new runtime config loader.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{}
}

// DefaultConfig returns a Config with safe defaults for all fields.
// This is used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Secrets: SecretsConfig{
			Local: make(map[string]string),
			Env:   make(map[string]string),
			Files: make(map[string]string),
		},
		Redaction: RedactionConfig{
			HashMode: HashModeConfig{
				Enabled: false,
			},
			Patterns: []string{},
		},
	}
}

// Load loads the runtime configuration from the specified path.
// If the file does not exist, returns DefaultConfig() with safe defaults so
// renval works out-of-the-box without configuration.
func (l *ConfigLoader) Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	//nolint:gosec // G304: path is user-provided config file, validated to exist above
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read runtime config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse runtime config: %w", err)
	}

	return &config, nil
}

// CheckVersion validates the running version against the config's
// min_version constraint, when one is set.
func (c *Config) CheckVersion(current string) error {
	return CheckVersionConstraint(c.MinVersion, current)
}

// CheckVersionConstraint validates a version against a semver constraint.
// An empty constraint always passes.
func CheckVersionConstraint(constraint, current string) error {
	if constraint == "" {
		return nil
	}

	cons, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}

	version, err := semver.NewVersion(current)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", current, err)
	}

	if !cons.Check(version) {
		return fmt.Errorf("renval %s does not satisfy required version %q", current, constraint)
	}
	return nil
}
