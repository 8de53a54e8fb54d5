// Package install copies the integration package into a Home Assistant
// configuration directory, the manual-install path described in the README.
package install

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/voltlabs/cebridge/internal/manifest"
)

// Metadata records an install so uninstall and status can find it.
type Metadata struct {
	Domain      string    `json:"domain"`
	Version     string    `json:"version"`
	Source      string    `json:"source"`
	Target      string    `json:"target"`
	InstalledAt time.Time `json:"installed_at"`
}

const metadataFile = ".cebridge-install.json"

// Install copies the integration package rooted at srcDir (the directory
// containing manifest.json) into configDir/custom_components/<domain>. An
// existing install of the same domain is replaced.
func Install(srcDir, configDir string) (*Metadata, error) {
	m, err := manifest.Load(filepath.Join(srcDir, "manifest.json"))
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	target := filepath.Join(configDir, "custom_components", m.Domain)
	if err := os.RemoveAll(target); err != nil {
		return nil, fmt.Errorf("remove previous install: %w", err)
	}
	if err := copyTree(srcDir, target); err != nil {
		return nil, err
	}

	meta := &Metadata{
		Domain:      m.Domain,
		Version:     m.Version,
		Source:      srcDir,
		Target:      target,
		InstalledAt: time.Now().UTC(),
	}
	if err := writeMetadata(target, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// Uninstall removes an installed integration package for domain.
func Uninstall(configDir, domain string) error {
	target := filepath.Join(configDir, "custom_components", domain)
	if _, err := os.Stat(target); os.IsNotExist(err) {
		return fmt.Errorf("%s is not installed under %s", domain, configDir)
	}
	return os.RemoveAll(target)
}

// Status returns install metadata for domain, or (nil, nil) when not installed.
func Status(configDir, domain string) (*Metadata, error) {
	path := filepath.Join(configDir, "custom_components", domain, metadataFile)
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var meta Metadata
	if err := json.Unmarshal(b, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func writeMetadata(target string, meta *Metadata) error {
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(target, metadataFile), b, 0o644)
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		out := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(out, 0o755)
		}
		return copyFile(path, out)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}
