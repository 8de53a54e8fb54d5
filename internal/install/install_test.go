package install

import (
	"os"
	"path/filepath"
	"testing"
)

func writePackage(t *testing.T, version string) string {
	t.Helper()
	src := t.TempDir()
	manifest := `{"domain": "combined_energy", "version": "` + version + `"}`
	if err := os.WriteFile(filepath.Join(src, "manifest.json"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "sensor.py"), []byte("# sensors\n"), 0o644); err != nil {
		t.Fatalf("write sensor.py: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(src, "translations"), 0o755); err != nil {
		t.Fatalf("mkdir translations: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "translations", "en.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write en.json: %v", err)
	}
	return src
}

func TestInstallAndStatus(t *testing.T) {
	src := writePackage(t, "1.2.1")
	configDir := t.TempDir()

	meta, err := Install(src, configDir)
	if err != nil {
		t.Fatalf("install failed: %v", err)
	}
	if meta.Domain != "combined_energy" || meta.Version != "1.2.1" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}

	target := filepath.Join(configDir, "custom_components", "combined_energy")
	for _, name := range []string{"manifest.json", "sensor.py", filepath.Join("translations", "en.json")} {
		if _, err := os.Stat(filepath.Join(target, name)); err != nil {
			t.Fatalf("expected %s installed: %v", name, err)
		}
	}

	got, err := Status(configDir, "combined_energy")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if got == nil || got.Version != "1.2.1" {
		t.Fatalf("unexpected status: %+v", got)
	}
}

func TestInstallReplacesExisting(t *testing.T) {
	configDir := t.TempDir()
	if _, err := Install(writePackage(t, "1.2.0"), configDir); err != nil {
		t.Fatalf("first install: %v", err)
	}

	// The newer package no longer ships sensor.py under a stale name.
	src := writePackage(t, "1.2.1")
	if err := os.Rename(filepath.Join(src, "sensor.py"), filepath.Join(src, "entity.py")); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := Install(src, configDir); err != nil {
		t.Fatalf("second install: %v", err)
	}

	target := filepath.Join(configDir, "custom_components", "combined_energy")
	if _, err := os.Stat(filepath.Join(target, "sensor.py")); !os.IsNotExist(err) {
		t.Fatal("stale files must be removed on reinstall")
	}
	meta, err := Status(configDir, "combined_energy")
	if err != nil || meta == nil {
		t.Fatalf("status: %v %+v", err, meta)
	}
	if meta.Version != "1.2.1" {
		t.Fatalf("expected upgraded version, got %s", meta.Version)
	}
}

func TestInstallRejectsInvalidManifest(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "manifest.json"), []byte(`{"domain": "combined_energy"}`), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if _, err := Install(src, t.TempDir()); err == nil {
		t.Fatal("expected install to fail without a version")
	}
}

func TestUninstall(t *testing.T) {
	configDir := t.TempDir()
	if _, err := Install(writePackage(t, "1.2.1"), configDir); err != nil {
		t.Fatalf("install: %v", err)
	}
	if err := Uninstall(configDir, "combined_energy"); err != nil {
		t.Fatalf("uninstall: %v", err)
	}
	meta, err := Status(configDir, "combined_energy")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if meta != nil {
		t.Fatalf("expected no install after uninstall, got %+v", meta)
	}
	if err := Uninstall(configDir, "combined_energy"); err == nil {
		t.Fatal("expected error uninstalling a missing package")
	}
}
