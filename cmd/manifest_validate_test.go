package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManifestShowAndValidateCLI(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "manifest.json")
	manifest := `{"domain": "combined_energy", "version": "1.2.1", "name": "Combined Energy", "iot_class": "cloud_polling"}`
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	// Capture stdout
	oldOut := os.Stdout
	rOut, wOut, _ := os.Pipe()
	os.Stdout = wOut

	rootCmd.SetArgs([]string{"manifest", "show", path})
	if err := rootCmd.Execute(); err != nil {
		os.Stdout = oldOut
		t.Fatalf("manifest show failed: %v", err)
	}
	rootCmd.SetArgs([]string{"manifest", "validate", path})
	if err := rootCmd.Execute(); err != nil {
		os.Stdout = oldOut
		t.Fatalf("manifest validate failed: %v", err)
	}

	_ = wOut.Close()
	os.Stdout = oldOut
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, rOut)
	out := buf.String()

	if !strings.Contains(out, "domain=combined_energy") || !strings.Contains(out, "version=1.2.1") {
		t.Fatalf("expected flattened manifest, got: %s", out)
	}
	// Keys come out sorted.
	if strings.Index(out, "domain=") > strings.Index(out, "version=") {
		t.Fatalf("expected sorted keys, got: %s", out)
	}
	if !strings.Contains(out, "is valid: combined_energy 1.2.1 (tag v1.2.1)") {
		t.Fatalf("expected validation summary, got: %s", out)
	}
}

func TestManifestValidateRejectsBadVersionCLI(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "manifest.json")
	if err := os.WriteFile(path, []byte(`{"domain": "combined_energy", "version": "not-semver"}`), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"manifest", "validate", path})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected validation failure for non-semver version")
	}
}
