// Package manifest reads and validates the integration manifest that drives
// release publishing. The manifest is read-only input: it is authored by
// maintainers and never mutated here.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/voltlabs/cebridge/internal/nameutil"
)

// DefaultPath is the well-known manifest location inside the integration package.
const DefaultPath = "custom_components/combined_energy/manifest.json"

// Manifest describes the integration package. Only domain and version are
// consumed by the publisher; the remaining fields are descriptive metadata.
type Manifest struct {
	Domain        string   `json:"domain"`
	Name          string   `json:"name"`
	Version       string   `json:"version"`
	Documentation string   `json:"documentation,omitempty"`
	IssueTracker  string   `json:"issue_tracker,omitempty"`
	CodeOwners    []string `json:"codeowners,omitempty"`
	Requirements  []string `json:"requirements,omitempty"`
	ConfigFlow    bool     `json:"config_flow,omitempty"`
	IOTClass      string   `json:"iot_class,omitempty"`

	// raw keeps the full key/value mapping for Flatten so fields this
	// struct does not model still appear in the flattened output.
	raw map[string]json.RawMessage
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(b)
}

// Parse decodes manifest JSON. The document must be a key/value mapping.
func Parse(b []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := json.Unmarshal(b, &m.raw); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// Validate checks the invariants the publisher depends on: domain and version
// must be present and version must parse as a release tag suffix.
func (m *Manifest) Validate() error {
	if err := nameutil.ValidateDomain(m.Domain); err != nil {
		return err
	}
	if strings.TrimSpace(m.Version) == "" {
		return fmt.Errorf("manifest has no version")
	}
	if _, err := semver.NewVersion(m.Version); err != nil {
		return fmt.Errorf("manifest version %q: %w", m.Version, err)
	}
	return nil
}

// SemVer returns the parsed manifest version. Validate must have succeeded.
func (m *Manifest) SemVer() (*semver.Version, error) {
	return semver.NewVersion(m.Version)
}

// Tag returns the release tag for this manifest version ("v" + version).
func (m *Manifest) Tag() string {
	return "v" + m.Version
}

// Flatten renders the manifest's top-level key/value pairs as key=value lines,
// one per key, in sorted key order. Scalar values are rendered bare, compound
// values as compact JSON. Downstream consumers read the version line.
func (m *Manifest) Flatten() []string {
	keys := make([]string, 0, len(m.raw))
	for k := range m.raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+flattenValue(m.raw[k]))
	}
	return out
}

func flattenValue(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return string(raw)
		}
		return string(b)
	}
}
