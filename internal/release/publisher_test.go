package release

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	_ "modernc.org/sqlite"

	dbpkg "github.com/voltlabs/cebridge/internal/db"
	"github.com/voltlabs/cebridge/internal/registry"
)

func testRepo(t *testing.T) *registry.Repository {
	t.Helper()
	conn, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	if err := dbpkg.ApplyMigrations(conn); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return registry.NewRepository(conn)
}

func writeManifest(t *testing.T, version string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.json")
	content := `{"domain": "combined_energy", "version": "` + version + `"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

// fakeGitHub serves the release-creation endpoint, remembering created tags
// and rejecting duplicates with 422 like the real API.
type fakeGitHub struct {
	t     *testing.T
	calls atomic.Int64
	tags  map[string]bool
	fail  int // when non-zero, respond with this status
}

func (f *fakeGitHub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		if f.fail != 0 {
			w.WriteHeader(f.fail)
			return
		}
		var req ReleaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			f.t.Errorf("bad request body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if !req.GenerateReleaseNotes {
			f.t.Error("expected generate_release_notes to be set")
		}
		if req.MakeLatest != "true" {
			f.t.Errorf("expected make_latest true, got %q", req.MakeLatest)
		}
		if f.tags[req.TagName] {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		if f.tags == nil {
			f.tags = map[string]bool{}
		}
		f.tags[req.TagName] = true
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(ReleaseResponse{
			ID:      1,
			TagName: req.TagName,
			HTMLURL: "https://example.com/releases/" + req.TagName,
			Body:    "notes",
		})
	}
}

func testPublisher(t *testing.T, manifestPath string, gh *fakeGitHub) *Publisher {
	t.Helper()
	srv := httptest.NewServer(gh.handler())
	t.Cleanup(srv.Close)
	client := NewGitHubClient("")
	client.BaseURL = srv.URL
	return &Publisher{
		Config: &Config{Owner: "acme", Repo: "ha-combined-energy", Branch: "main", ManifestPath: manifestPath},
		GitHub: client,
		Repo:   testRepo(t),
	}
}

func TestPublishCreatesRelease(t *testing.T) {
	gh := &fakeGitHub{t: t}
	p := testPublisher(t, writeManifest(t, "1.2.1"), gh)

	res, err := p.Publish(context.Background())
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if res.Tag != "v1.2.1" {
		t.Fatalf("unexpected tag: %s", res.Tag)
	}
	if len(res.Outputs) == 0 {
		t.Fatal("expected flattened manifest outputs")
	}

	rels, err := p.Repo.ListReleases()
	if err != nil {
		t.Fatalf("list releases: %v", err)
	}
	if len(rels) != 1 || rels[0].Tag != "v1.2.1" {
		t.Fatalf("expected one recorded release v1.2.1, got %+v", rels)
	}
	runs, err := p.Repo.ListRuns()
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != registry.RunStatusOK {
		t.Fatalf("expected one successful run, got %+v", runs)
	}
}

func TestPublishDuplicateTagLocal(t *testing.T) {
	gh := &fakeGitHub{t: t}
	p := testPublisher(t, writeManifest(t, "1.2.1"), gh)
	if _, err := p.Repo.CreateRelease("v1.2.1", "1.2.1", "", ""); err != nil {
		t.Fatalf("seed release: %v", err)
	}

	_, err := p.Publish(context.Background())
	if !errors.Is(err, registry.ErrTagExists) {
		t.Fatalf("expected ErrTagExists, got %v", err)
	}
	if gh.calls.Load() != 0 {
		t.Fatal("local duplicate must not reach the release API")
	}
	runs, _ := p.Repo.ListRuns()
	if len(runs) != 1 || runs[0].Status != registry.RunStatusFailed {
		t.Fatalf("expected recorded failed run, got %+v", runs)
	}
}

func TestPublishDuplicateTagRemote(t *testing.T) {
	gh := &fakeGitHub{t: t, tags: map[string]bool{"v1.2.1": true}}
	p := testPublisher(t, writeManifest(t, "1.2.1"), gh)

	_, err := p.Publish(context.Background())
	if !errors.Is(err, ErrRemoteTagExists) {
		t.Fatalf("expected ErrRemoteTagExists, got %v", err)
	}
	// The remote tag is recorded so later runs fail fast.
	ok, _ := p.Repo.HasRelease("v1.2.1")
	if !ok {
		t.Fatal("expected remote tag recorded locally")
	}
}

func TestPublishMalformedManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := os.WriteFile(path, []byte(`{"domain": "combined_energy"`), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	gh := &fakeGitHub{t: t}
	p := testPublisher(t, path, gh)

	if _, err := p.Publish(context.Background()); err == nil {
		t.Fatal("expected publish to fail on malformed manifest")
	}
	if gh.calls.Load() != 0 {
		t.Fatal("extraction failure must halt before any release is created")
	}
	rels, _ := p.Repo.ListReleases()
	if len(rels) != 0 {
		t.Fatalf("no release may exist after extraction failure, got %+v", rels)
	}
	runs, err := p.Repo.ListRuns()
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != registry.RunStatusFailed {
		t.Fatalf("expected recorded failed run, got %+v", runs)
	}
	if !runs[0].Error.Valid {
		t.Fatal("expected failed run to carry the error")
	}
}

func TestPublishMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := os.WriteFile(path, []byte(`{"domain": "combined_energy", "name": "x"}`), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	gh := &fakeGitHub{t: t}
	p := testPublisher(t, path, gh)

	if _, err := p.Publish(context.Background()); err == nil {
		t.Fatal("expected publish to fail without a version")
	}
	if gh.calls.Load() != 0 {
		t.Fatal("no release may be requested without a version")
	}
	runs, err := p.Repo.ListRuns()
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != registry.RunStatusFailed {
		t.Fatalf("expected recorded failed run, got %+v", runs)
	}
	if runs[0].Tag != "" {
		t.Fatalf("expected empty tag without a version, got %q", runs[0].Tag)
	}
}

func TestPublishBadVersionRecordsPartialTag(t *testing.T) {
	gh := &fakeGitHub{t: t}
	p := testPublisher(t, writeManifest(t, "not-semver"), gh)

	if _, err := p.Publish(context.Background()); err == nil {
		t.Fatal("expected publish to fail on a non-semver version")
	}
	if gh.calls.Load() != 0 {
		t.Fatal("no release may be requested for an invalid version")
	}
	runs, err := p.Repo.ListRuns()
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != registry.RunStatusFailed {
		t.Fatalf("expected recorded failed run, got %+v", runs)
	}
	if runs[0].Tag != "vnot-semver" || runs[0].Version != "not-semver" {
		t.Fatalf("expected partial tag recorded, got %+v", runs[0])
	}
}

func TestPublishTransientFailure(t *testing.T) {
	gh := &fakeGitHub{t: t, fail: http.StatusBadGateway}
	p := testPublisher(t, writeManifest(t, "1.2.1"), gh)

	if _, err := p.Publish(context.Background()); err == nil {
		t.Fatal("expected publish to fail on 502")
	}
	if gh.calls.Load() != 1 {
		t.Fatalf("transient failures must not be retried, got %d calls", gh.calls.Load())
	}
	rels, _ := p.Repo.ListReleases()
	if len(rels) != 0 {
		t.Fatalf("no release may be recorded after a failed create, got %+v", rels)
	}
}

func TestVersionBumpPublishesOnlyNewTag(t *testing.T) {
	gh := &fakeGitHub{t: t}
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	write := func(version string) {
		content := `{"domain": "combined_energy", "version": "` + version + `"}`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write manifest: %v", err)
		}
	}

	write("1.2.0")
	p := testPublisher(t, path, gh)
	if _, err := p.Publish(context.Background()); err != nil {
		t.Fatalf("publish 1.2.0: %v", err)
	}

	write("1.2.1")
	if _, err := p.Publish(context.Background()); err != nil {
		t.Fatalf("publish 1.2.1: %v", err)
	}

	rels, _ := p.Repo.ListReleases()
	if len(rels) != 2 {
		t.Fatalf("expected 2 releases, got %+v", rels)
	}
	if rels[0].Tag != "v1.2.1" || rels[1].Tag != "v1.2.0" {
		t.Fatalf("unexpected tags: %+v", rels)
	}
	// Re-publishing the same version fails and does not touch v1.2.0.
	if _, err := p.Publish(context.Background()); !errors.Is(err, registry.ErrTagExists) {
		t.Fatalf("expected ErrTagExists on re-publish, got %v", err)
	}
}
