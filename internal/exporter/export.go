// Package exporter provides functionality to export the local registry.
package exporter

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	// _ import for sqlite driver registration
	_ "modernc.org/sqlite"

	"github.com/voltlabs/cebridge/internal/config"
	"github.com/voltlabs/cebridge/internal/registry"
)

// ExportDatabase copies the active cebridge database to dstPath.
func ExportDatabase(dstPath string) error {
	src, err := config.DBPath()
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source db: %w", err)
	}
	defer func() { _ = in.Close() }()
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("create dst dir: %w", err)
	}
	out, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create dst db: %w", err)
	}
	defer func() { _ = out.Close() }()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy db: %w", err)
	}
	return nil
}

type releaseExport struct {
	Tag       string `json:"tag"`
	Version   string `json:"version"`
	URL       string `json:"url,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ExportReleases writes the recorded releases as JSON to w, newest first.
func ExportReleases(db *sql.DB, w io.Writer) error {
	r := registry.NewRepository(db)
	releases, err := r.ListReleases()
	if err != nil {
		return err
	}
	out := make([]releaseExport, 0, len(releases))
	for _, rel := range releases {
		e := releaseExport{Tag: rel.Tag, Version: rel.Version, CreatedAt: rel.CreatedAt}
		if rel.URL.Valid {
			e.URL = rel.URL.String
		}
		out = append(out, e)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
