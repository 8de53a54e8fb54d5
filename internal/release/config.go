// Package release publishes tagged releases of the integration package when
// the manifest version changes.
package release

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/voltlabs/cebridge/internal/manifest"
)

// Config describes the release target and trigger inputs.
type Config struct {
	Owner         string `yaml:"owner"`
	Repo          string `yaml:"repo"`
	Branch        string `yaml:"branch"`
	ManifestPath  string `yaml:"manifest"`
	NotesPreamble string `yaml:"notes_preamble,omitempty"`
}

// LoadConfig reads a release config file (release.yaml) and applies defaults.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read release config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse release config: %w", err)
	}
	cfg.applyDefaults()
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("release config must set owner and repo")
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Branch == "" {
		c.Branch = "main"
	}
	if c.ManifestPath == "" {
		c.ManifestPath = manifest.DefaultPath
	}
}
