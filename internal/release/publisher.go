package release

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/voltlabs/cebridge/internal/manifest"
	"github.com/voltlabs/cebridge/internal/registry"
)

// Publisher turns a manifest version into exactly one tagged release.
//
// A publish run is a single linear sequence: parse and validate the manifest,
// guard against duplicate tags, create the remote release with generated
// notes marked latest, record the result. Every failure halts the run before
// a release exists and is recorded as a failed run; nothing is retried.
type Publisher struct {
	Config *Config
	GitHub *GitHubClient
	Repo   *registry.Repository
	Log    *slog.Logger
}

// Result describes a completed publish run.
type Result struct {
	RunID   string
	Tag     string
	Version string
	URL     string
	Outputs []string
}

// Publish runs the pipeline once. On success the created release is recorded
// in the local registry; on failure a failed run is recorded, with an empty
// tag when the manifest never yielded a version, and the error is returned.
func (p *Publisher) Publish(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	log := p.logger().With("run_id", runID)

	m, err := manifest.Load(p.Config.ManifestPath)
	if err != nil {
		log.Error("manifest extraction failed", "error", err)
		p.recordFailure(runID, "", "", err)
		return nil, err
	}
	if err := m.Validate(); err != nil {
		log.Error("manifest extraction failed", "error", err)
		// The tag may be partial here; the run is recorded with whatever
		// the manifest yielded so history shows the failure.
		tag := ""
		if m.Version != "" {
			tag = m.Tag()
		}
		p.recordFailure(runID, tag, m.Version, err)
		return nil, err
	}

	tag := m.Tag()
	outputs := m.Flatten()
	log.Info("manifest extracted", "tag", tag, "version", m.Version)

	if ok, err := p.Repo.HasRelease(tag); err != nil {
		return nil, err
	} else if ok {
		err := fmt.Errorf("%w: %s", registry.ErrTagExists, tag)
		p.recordFailure(runID, tag, m.Version, err)
		return nil, err
	}

	req := ReleaseRequest{
		TagName:              tag,
		TargetCommitish:      p.Config.Branch,
		Name:                 tag,
		Body:                 p.Config.NotesPreamble,
		GenerateReleaseNotes: true,
		MakeLatest:           "true",
	}
	rel, err := p.GitHub.CreateRelease(ctx, p.Config.Owner, p.Config.Repo, req)
	if err != nil {
		p.recordFailure(runID, tag, m.Version, err)
		if errors.Is(err, ErrRemoteTagExists) {
			// Keep the registry consistent with the remote: the tag is taken.
			if _, rerr := p.Repo.CreateRelease(tag, m.Version, "", ""); rerr != nil && !errors.Is(rerr, registry.ErrTagExists) {
				log.Error("record remote release", "error", rerr)
			}
		}
		log.Error("publish failed", "tag", tag, "error", err)
		return nil, err
	}

	if _, err := p.Repo.CreateRelease(tag, m.Version, rel.HTMLURL, rel.Body); err != nil {
		return nil, err
	}
	if err := p.Repo.RecordRun(runID, tag, m.Version, registry.RunStatusOK, ""); err != nil {
		return nil, err
	}
	log.Info("release published", "tag", tag, "url", rel.HTMLURL)

	return &Result{
		RunID:   runID,
		Tag:     tag,
		Version: m.Version,
		URL:     rel.HTMLURL,
		Outputs: outputs,
	}, nil
}

func (p *Publisher) recordFailure(runID, tag, version string, cause error) {
	if err := p.Repo.RecordRun(runID, tag, version, registry.RunStatusFailed, cause.Error()); err != nil {
		p.logger().Error("record failed run", "error", err)
	}
}

func (p *Publisher) logger() *slog.Logger {
	if p.Log != nil {
		return p.Log
	}
	return slog.Default()
}
