package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings is the contents of config.yaml.
type Settings struct {
	// DefaultProjectType is used by init when --type is not given
	DefaultProjectType string `yaml:"defaultProjectType,omitempty"`

	// DefaultFramework is used by init when --framework is not given
	DefaultFramework string `yaml:"defaultFramework,omitempty"`

	// ReservedNames replaces the built-in reserved words when non-empty
	ReservedNames []string `yaml:"reservedNames,omitempty"`

	// DisallowedDefaultNames extends the names free-named instances may not take
	DisallowedDefaultNames []string `yaml:"disallowedDefaultNames,omitempty"`

	// CatalogDirs are extra catalog sources, layered between the project
	// catalog and the global one. Relative entries resolve against the root.
	CatalogDirs []string `yaml:"catalogDirs,omitempty"`

	// Telemetry enables the edit-action log. Defaults to true.
	Telemetry *bool `yaml:"telemetry,omitempty"`
}

// TelemetryEnabled reports whether edit actions should be recorded.
func (s *Settings) TelemetryEnabled() bool {
	return s.Telemetry == nil || *s.Telemetry
}

// LoadSettings reads config.yaml. A missing file yields zero settings.
func LoadSettings(p *Paths) (*Settings, error) {
	data, err := os.ReadFile(p.Config)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", p.Config, err)
	}

	for i, dir := range s.CatalogDirs {
		if !filepath.IsAbs(dir) {
			s.CatalogDirs[i] = filepath.Join(p.Root, dir)
		}
	}
	return &s, nil
}
