package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadRunConfig reads a pipeline configuration from a YAML file.
func LoadRunConfig(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load run config: %w", err)
	}

	cfg, err := ParseRunConfig(b)
	if err != nil {
		return nil, fmt.Errorf("load run config %q: %w", path, err)
	}
	return cfg, nil
}

// ParseRunConfig decodes a YAML document whose top level must be a mapping.
// An empty document yields an empty configuration.
func ParseRunConfig(b []byte) (map[string]any, error) {
	var cfg map[string]any
	if err := yaml.NewDecoder(bytes.NewReader(b)).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse run config: %w", err)
	}
	if cfg == nil {
		cfg = map[string]any{}
	}
	return cfg, nil
}
