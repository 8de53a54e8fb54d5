package coordinator

import (
	"context"
	"time"

	"github.com/voltlabs/cebridge/internal/ceapi"
)

// API is the slice of the Combined Energy client the coordinator needs.
type API interface {
	StartLogSession(ctx context.Context) (*ceapi.LogSession, error)
	Readings(ctx context.Context, rangeStart, rangeEnd *time.Time, increment int) (*ceapi.Readings, error)
	TariffDetails(ctx context.Context) (*ceapi.TariffDetails, error)
}

// ReadingsIterator fetches successive readings windows. The first window
// reaches back InitialDelta; each later window starts where the previous
// one ended, so no samples are skipped between polls.
type ReadingsIterator struct {
	API          API
	Increment    int
	InitialDelta time.Duration

	last *time.Time
	now  func() time.Time
}

// NewReadingsIterator returns an iterator with the given sample increment
// (seconds) and initial look-back window.
func NewReadingsIterator(api API, increment int, initialDelta time.Duration) *ReadingsIterator {
	return &ReadingsIterator{
		API:          api,
		Increment:    increment,
		InitialDelta: initialDelta,
		now:          time.Now,
	}
}

// Next fetches the next readings window.
func (it *ReadingsIterator) Next(ctx context.Context) (*ceapi.Readings, error) {
	start := it.last
	if start == nil {
		s := it.now().Add(-it.InitialDelta)
		start = &s
	}
	readings, err := it.API.Readings(ctx, start, nil, it.Increment)
	if err != nil {
		return nil, err
	}
	if !readings.RangeEnd.IsZero() {
		end := readings.RangeEnd.Time
		it.last = &end
	}
	return readings, nil
}
