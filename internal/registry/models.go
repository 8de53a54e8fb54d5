// Package registry provides the local release and polling registry.
package registry

import "database/sql"

// Release is a published, immutable tagged release recorded locally.
type Release struct {
	ID        int64
	Tag       string
	Version   string
	URL       sql.NullString
	Notes     sql.NullString
	CreatedAt string
}

// PublishRun is one attempt to publish a release. Runs are append-only;
// failed runs are kept alongside successful ones.
type PublishRun struct {
	ID        int64
	RunID     string
	Tag       string
	Version   string
	Status    string
	Error     sql.NullString
	CreatedAt string
}

// Run statuses.
const (
	RunStatusOK     = "ok"
	RunStatusFailed = "failed"
)

// PollSample is a single sensor value captured by the coordinator.
type PollSample struct {
	ID         int64
	DeviceID   int64
	DeviceType string
	SensorKey  string
	Value      sql.NullFloat64
	Unit       sql.NullString
	SampledAt  string
}

// LogSessionRecord marks one log-session refresh against the service.
type LogSessionRecord struct {
	ID             int64
	InstallationID int64
	ArchiveSaved   bool
	RefreshedAt    string
}
