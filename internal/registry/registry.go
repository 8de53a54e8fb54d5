package registry

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrTagExists is returned when a release with the requested tag has already
// been published. The caller must bump the manifest version and retry.
var ErrTagExists = errors.New("release tag already exists")

// Repository provides CRUD operations for releases, publish runs and poll data.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository using db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateRelease inserts a new release record. The tag is unique; attempting to
// record a duplicate tag returns ErrTagExists and leaves the registry unchanged.
func (r *Repository) CreateRelease(tag, version, url, notes string) (int64, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return 0, fmt.Errorf("invalid tag: tag cannot be empty")
	}
	trx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = trx.Rollback() }()

	res, err := trx.Exec(`INSERT INTO releases (tag, version, url, notes, created_at)
			SELECT ?, ?, ?, ?, datetime('now')
			WHERE NOT EXISTS(SELECT 1 FROM releases WHERE tag = ?)`, tag, version, url, notes, tag)
	if err != nil {
		return 0, fmt.Errorf("insert release: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, ErrTagExists
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := trx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// HasRelease reports whether a release with the given tag has been recorded.
func (r *Repository) HasRelease(tag string) (bool, error) {
	row := r.db.QueryRow("SELECT COUNT(1) FROM releases WHERE tag = ?", tag)
	var n int
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// LatestRelease returns the most recently recorded release, or nil when the
// registry is empty.
func (r *Repository) LatestRelease() (*Release, error) {
	row := r.db.QueryRow(`SELECT id, tag, version, url, notes, created_at
			FROM releases ORDER BY id DESC LIMIT 1`)
	rel, err := scanRelease(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rel, err
}

// ListReleases returns all recorded releases, newest first.
func (r *Repository) ListReleases() ([]Release, error) {
	rows, err := r.db.Query(`SELECT id, tag, version, url, notes, created_at
			FROM releases ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Release
	for rows.Next() {
		var rel Release
		if err := rows.Scan(&rel.ID, &rel.Tag, &rel.Version, &rel.URL, &rel.Notes, &rel.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRelease(row rowScanner) (*Release, error) {
	var rel Release
	if err := row.Scan(&rel.ID, &rel.Tag, &rel.Version, &rel.URL, &rel.Notes, &rel.CreatedAt); err != nil {
		return nil, err
	}
	return &rel, nil
}

// RecordRun appends a publish run record. errMsg may be empty for successful runs.
func (r *Repository) RecordRun(runID, tag, version, status, errMsg string) error {
	var e any
	if errMsg != "" {
		e = errMsg
	}
	_, err := r.db.Exec(`INSERT INTO publish_runs (run_id, tag, version, status, error, created_at)
			VALUES (?, ?, ?, ?, ?, datetime('now'))`, runID, tag, version, status, e)
	if err != nil {
		return fmt.Errorf("insert publish run: %w", err)
	}
	return nil
}

// ListRuns returns publish runs, newest first.
func (r *Repository) ListRuns() ([]PublishRun, error) {
	rows, err := r.db.Query(`SELECT id, run_id, tag, version, status, error, created_at
			FROM publish_runs ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []PublishRun
	for rows.Next() {
		var run PublishRun
		if err := rows.Scan(&run.ID, &run.RunID, &run.Tag, &run.Version, &run.Status, &run.Error, &run.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// InsertSamples stores a batch of sensor samples inside a single transaction.
func (r *Repository) InsertSamples(samples []PollSample) error {
	if len(samples) == 0 {
		return nil
	}
	trx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = trx.Rollback() }()
	for _, s := range samples {
		if _, err := trx.Exec(`INSERT INTO poll_samples (device_id, device_type, sensor_key, value, unit, sampled_at)
				VALUES (?, ?, ?, ?, ?, ?)`, s.DeviceID, s.DeviceType, s.SensorKey, s.Value, s.Unit, s.SampledAt); err != nil {
			return fmt.Errorf("insert poll sample: %w", err)
		}
	}
	return trx.Commit()
}

// LatestSamples returns the most recent sample per device/sensor pair.
func (r *Repository) LatestSamples() ([]PollSample, error) {
	rows, err := r.db.Query(`SELECT id, device_id, device_type, sensor_key, value, unit, sampled_at
			FROM poll_samples
			WHERE id IN (SELECT MAX(id) FROM poll_samples GROUP BY device_id, sensor_key)
			ORDER BY device_id, sensor_key`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []PollSample
	for rows.Next() {
		var s PollSample
		if err := rows.Scan(&s.ID, &s.DeviceID, &s.DeviceType, &s.SensorKey, &s.Value, &s.Unit, &s.SampledAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// RecordLogSession appends a log-session refresh record.
func (r *Repository) RecordLogSession(installationID int64, archiveSaved bool) error {
	_, err := r.db.Exec(`INSERT INTO log_sessions (installation_id, archive_saved, refreshed_at)
			VALUES (?, ?, datetime('now'))`, installationID, archiveSaved)
	if err != nil {
		return fmt.Errorf("insert log session: %w", err)
	}
	return nil
}
