package release

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestShouldTrigger(t *testing.T) {
	manifest := filepath.Join("pkg", "manifest.json")

	ev := fsnotify.Event{Name: manifest, Op: fsnotify.Write}
	if !ShouldTrigger(ev, manifest) {
		t.Fatal("write to manifest must trigger")
	}
	ev = fsnotify.Event{Name: manifest, Op: fsnotify.Create}
	if !ShouldTrigger(ev, manifest) {
		t.Fatal("create of manifest must trigger")
	}
	ev = fsnotify.Event{Name: filepath.Join("pkg", "README.md"), Op: fsnotify.Write}
	if ShouldTrigger(ev, manifest) {
		t.Fatal("changes to other files must not trigger")
	}
	ev = fsnotify.Event{Name: manifest, Op: fsnotify.Chmod}
	if ShouldTrigger(ev, manifest) {
		t.Fatal("chmod must not trigger")
	}
}

func TestMaybePublishSkipsPublishedVersion(t *testing.T) {
	gh := &fakeGitHub{t: t}
	p := testPublisher(t, writeManifest(t, "1.2.1"), gh)
	if _, err := p.Repo.CreateRelease("v1.2.1", "1.2.1", "", ""); err != nil {
		t.Fatalf("seed release: %v", err)
	}

	w := &Watcher{Publisher: p}
	w.maybePublish(context.Background())
	if gh.calls.Load() != 0 {
		t.Fatal("already-published version must not trigger a publish")
	}
}

func TestMaybePublishNewVersion(t *testing.T) {
	gh := &fakeGitHub{t: t}
	p := testPublisher(t, writeManifest(t, "1.2.1"), gh)

	w := &Watcher{Publisher: p}
	w.maybePublish(context.Background())
	if gh.calls.Load() != 1 {
		t.Fatalf("expected one publish call, got %d", gh.calls.Load())
	}
	ok, _ := p.Repo.HasRelease("v1.2.1")
	if !ok {
		t.Fatal("expected release recorded")
	}
}

func TestWatcherDebouncesWriteBursts(t *testing.T) {
	gh := &fakeGitHub{t: t}
	path := writeManifest(t, "1.2.1")
	p := testPublisher(t, path, gh)

	w := &Watcher{Publisher: p, Debounce: 100 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	// A burst of writes, spaced past the debounce window so the timer has
	// fired between them, must still publish exactly once per version.
	for i := 0; i < 3; i++ {
		content := `{"domain": "combined_energy", "version": "1.2.1"}`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write manifest: %v", err)
		}
		time.Sleep(250 * time.Millisecond)
	}

	cancel()
	<-done
	if gh.calls.Load() != 1 {
		t.Fatalf("expected exactly one publish for one version, got %d", gh.calls.Load())
	}
	ok, _ := p.Repo.HasRelease("v1.2.1")
	if !ok {
		t.Fatal("expected release recorded")
	}
}

func TestMaybePublishInvalidManifest(t *testing.T) {
	gh := &fakeGitHub{t: t}
	path := writeManifest(t, "1.2.1")
	p := testPublisher(t, path, gh)

	// Corrupt the manifest; the watcher must not publish.
	if err := os.WriteFile(path, []byte(`{"domain": "combined_energy"`), 0o644); err != nil {
		t.Fatalf("corrupt manifest: %v", err)
	}
	w := &Watcher{Publisher: p}
	w.maybePublish(context.Background())
	if gh.calls.Load() != 0 {
		t.Fatal("invalid manifest must not trigger a publish")
	}
}
