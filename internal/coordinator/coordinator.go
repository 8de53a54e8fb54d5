// Package coordinator drives the periodic polling loops against the Combined
// Energy service: log-session keepalive, readings and tariff refreshes.
package coordinator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/voltlabs/cebridge/internal/ceapi"
)

// Refresh cadence. The log session must be refreshed periodically or the
// service stops returning readings.
const (
	LogSessionRefreshDelay = 10 * time.Minute
	ReadingsUpdateDelay    = time.Minute
	TariffUpdateDelay      = time.Hour

	ReadingsIncrement    = 5 // seconds per sample
	ReadingsInitialDelta = 160 * time.Second
)

// Update is delivered to listeners after each successful readings refresh.
type Update struct {
	Readings map[int64]ceapi.DeviceReadings
	Tariff   *ceapi.Tariff
	At       time.Time
}

// Listener receives coordinator updates.
type Listener func(Update)

// Coordinator polls the service and fans updates out to listeners. Auth
// failures abort the run; transient refresh failures are logged and the
// loop continues.
type Coordinator struct {
	API API
	Log *slog.Logger

	// Intervals default to the package constants when zero.
	SessionInterval  time.Duration
	ReadingsInterval time.Duration
	TariffInterval   time.Duration

	// SessionHook is invoked after each log-session refresh, readings hook
	// after each successful readings poll (both optional, used to persist
	// state into the registry).
	SessionHook  func(*ceapi.LogSession)
	ReadingsHook func(*ceapi.Readings)

	mu        sync.Mutex
	listeners []Listener
	iterator  *ReadingsIterator
	tariff    *ceapi.Tariff
	latest    map[int64]ceapi.DeviceReadings
}

// AddListener registers a listener for readings updates.
func (c *Coordinator) AddListener(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Latest returns the most recent per-device readings.
func (c *Coordinator) Latest() map[int64]ceapi.DeviceReadings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest
}

// Tariff returns the most recently fetched tariff, or nil before first fetch.
func (c *Coordinator) Tariff() *ceapi.Tariff {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tariff
}

// Run polls until ctx is cancelled. An initial refresh of every loop runs
// immediately so callers see data without waiting a full interval.
func (c *Coordinator) Run(ctx context.Context) error {
	log := c.logger()
	c.iterator = NewReadingsIterator(c.API, ReadingsIncrement, ReadingsInitialDelta)

	if err := c.RefreshSession(ctx); err != nil {
		if ceapi.IsAuthError(err) {
			return err
		}
		log.Error("initial log session refresh failed", "error", err)
	}
	if err := c.RefreshTariff(ctx); err != nil {
		log.Error("initial tariff refresh failed", "error", err)
	}
	if err := c.RefreshReadings(ctx); err != nil {
		if ceapi.IsAuthError(err) {
			return err
		}
		log.Error("initial readings refresh failed", "error", err)
	}

	sessionTicker := time.NewTicker(c.interval(c.SessionInterval, LogSessionRefreshDelay))
	readingsTicker := time.NewTicker(c.interval(c.ReadingsInterval, ReadingsUpdateDelay))
	tariffTicker := time.NewTicker(c.interval(c.TariffInterval, TariffUpdateDelay))
	defer sessionTicker.Stop()
	defer readingsTicker.Stop()
	defer tariffTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sessionTicker.C:
			if err := c.RefreshSession(ctx); err != nil {
				if ceapi.IsAuthError(err) {
					return err
				}
				log.Error("log session refresh failed", "error", err)
			}
		case <-readingsTicker.C:
			if err := c.RefreshReadings(ctx); err != nil {
				if ceapi.IsAuthError(err) {
					return err
				}
				log.Error("readings refresh failed", "error", err)
			}
		case <-tariffTicker.C:
			if err := c.RefreshTariff(ctx); err != nil {
				log.Error("tariff refresh failed", "error", err)
			}
		}
	}
}

// RefreshSession restarts the service-side log session.
func (c *Coordinator) RefreshSession(ctx context.Context) error {
	session, err := c.API.StartLogSession(ctx)
	if err != nil {
		return err
	}
	c.logger().Debug("log session restarted", "installation_id", session.InstallationID)
	if c.SessionHook != nil {
		c.SessionHook(session)
	}
	return nil
}

// RefreshReadings fetches the next readings window and notifies listeners.
func (c *Coordinator) RefreshReadings(ctx context.Context) error {
	if c.iterator == nil {
		c.iterator = NewReadingsIterator(c.API, ReadingsIncrement, ReadingsInitialDelta)
	}
	readings, err := c.iterator.Next(ctx)
	if err != nil {
		return err
	}
	byDevice := readings.ByDevice()

	c.mu.Lock()
	c.latest = byDevice
	tariff := c.tariff
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	if c.ReadingsHook != nil {
		c.ReadingsHook(readings)
	}
	update := Update{Readings: byDevice, Tariff: tariff, At: readings.ServerTime.Time}
	for _, l := range listeners {
		l(update)
	}
	return nil
}

// RefreshTariff fetches the current tariff plan.
func (c *Coordinator) RefreshTariff(ctx context.Context) error {
	details, err := c.API.TariffDetails(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.tariff = &details.Tariff
	c.mu.Unlock()
	return nil
}

func (c *Coordinator) interval(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}

func (c *Coordinator) logger() *slog.Logger {
	if c.Log != nil {
		return c.Log
	}
	return slog.Default()
}
