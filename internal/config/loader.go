package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads a benchmark configuration from a YAML or JSON file,
// validates it, and applies defaults.
func LoadConfig(path string) (*BenchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml", ".json":
		// yaml.v3 parses JSON as a YAML subset, so one path covers both
	default:
		return nil, fmt.Errorf("unsupported config format %q (expected .yaml, .yml, or .json)", ext)
	}

	return ParseConfig(data)
}

// ParseConfig parses and validates configuration bytes.
func ParseConfig(data []byte) (*BenchConfig, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if doc != nil {
		if err := ValidateSchema(doc); err != nil {
			return nil, err
		}
	}

	var cfg BenchConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
