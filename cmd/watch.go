package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/voltlabs/cebridge/internal/ceapi"
	"github.com/voltlabs/cebridge/internal/coordinator"
	"github.com/voltlabs/cebridge/internal/db"
	"github.com/voltlabs/cebridge/internal/registry"
	"github.com/voltlabs/cebridge/internal/sensor"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the service continuously and record sensor samples",
	Long:  "Poll the Combined Energy service continuously: keeps the log session\nalive, fetches readings and tariff updates, and records sensor samples\ninto the local registry until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()
		repo := registry.NewRepository(dbConn)

		log := slog.New(slog.NewTextHandler(os.Stderr, nil))

		coord := &coordinator.Coordinator{
			API: client,
			Log: log,
			SessionHook: func(s *ceapi.LogSession) {
				if err := repo.RecordLogSession(s.InstallationID, s.ArchiveSaved); err != nil {
					log.Error("record log session", "error", err)
				}
			},
			ReadingsHook: func(r *ceapi.Readings) {
				if err := repo.InsertSamples(samplesFrom(r)); err != nil {
					log.Error("record samples", "error", err)
				}
			},
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err = coord.Run(ctx)
		if ctx.Err() != nil {
			// Interrupted: a clean shutdown, not a failure.
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// samplesFrom flattens a readings window into registry samples.
func samplesFrom(r *ceapi.Readings) []registry.PollSample {
	at := r.ServerTime.Format(time.RFC3339)
	var out []registry.PollSample
	for i := range r.Devices {
		d := &r.Devices[i]
		if d.DeviceID == nil {
			continue
		}
		for _, s := range sensor.States(d) {
			out = append(out, registry.PollSample{
				DeviceID:   *d.DeviceID,
				DeviceType: d.DeviceType,
				SensorKey:  s.Key,
				Value:      nullFloat(s.Value),
				Unit:       nullString(s.Unit),
				SampledAt:  at,
			})
		}
	}
	return out
}
