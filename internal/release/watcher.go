package release

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/voltlabs/cebridge/internal/manifest"
)

// Watcher triggers the publisher when the manifest file changes. Changes to
// any other file are ignored, and a manifest change only publishes when its
// version differs from the last recorded tag.
type Watcher struct {
	Publisher *Publisher
	Log       *slog.Logger

	// Debounce collapses bursts of write events into a single run.
	Debounce time.Duration
}

// Run watches the manifest path until ctx is cancelled. Individual publish
// failures are logged and do not stop the watcher; the next qualifying change
// triggers a fresh run.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = fw.Close() }()

	manifestPath := w.Publisher.Config.ManifestPath
	// Watch the directory: editors replace files on save, which drops
	// watches registered on the file itself.
	if err := fw.Add(filepath.Dir(manifestPath)); err != nil {
		return err
	}

	log := w.logger()
	log.Info("watching manifest", "path", manifestPath)

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ShouldTrigger(ev, manifestPath) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				// Drain a fired-but-unread timer so Reset does not
				// deliver a stale tick.
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", "error", err)
		case <-timerC:
			timer = nil
			timerC = nil
			w.maybePublish(ctx)
		}
	}
}

// ShouldTrigger reports whether a filesystem event qualifies as a manifest
// change: the event must name the manifest path and be a write or create.
func ShouldTrigger(ev fsnotify.Event, manifestPath string) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
		return false
	}
	return filepath.Clean(ev.Name) == filepath.Clean(manifestPath)
}

// maybePublish publishes when the manifest version has not been released yet.
func (w *Watcher) maybePublish(ctx context.Context) {
	log := w.logger()

	m, err := manifest.Load(w.Publisher.Config.ManifestPath)
	if err != nil {
		log.Error("manifest unreadable", "error", err)
		return
	}
	if err := m.Validate(); err != nil {
		log.Error("manifest invalid", "error", err)
		return
	}
	published, err := w.Publisher.Repo.HasRelease(m.Tag())
	if err != nil {
		log.Error("registry lookup failed", "error", err)
		return
	}
	if published {
		log.Debug("version unchanged, skipping", "tag", m.Tag())
		return
	}
	if _, err := w.Publisher.Publish(ctx); err != nil {
		log.Error("publish failed", "error", err)
	}
}

func (w *Watcher) logger() *slog.Logger {
	if w.Log != nil {
		return w.Log
	}
	return slog.Default()
}
