package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/voltlabs/cebridge/internal/coordinator"
	"github.com/voltlabs/cebridge/internal/sensor"
)

var readingsCmd = &cobra.Command{
	Use:   "readings",
	Short: "Fetch a window of readings and print sensor values",
	Long:  "Fetch a window of readings and print sensor values. Example:\n  cebridge readings --since 10m",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		since, _ := cmd.Flags().GetDuration("since")
		increment, _ := cmd.Flags().GetInt("increment")

		start := time.Now().Add(-since)
		readings, err := client.Readings(cmd.Context(), &start, nil, increment)
		if err != nil {
			return err
		}
		fmt.Printf("range %s .. %s (%d samples of %ds)\n",
			readings.RangeStart.Format(time.RFC3339),
			readings.RangeEnd.Format(time.RFC3339),
			readings.RangeCount, readings.Seconds)
		for _, d := range readings.Devices {
			if d.DeviceID == nil {
				continue
			}
			for _, s := range sensor.States(&d) {
				fmt.Printf("device %d\t%s\t%g %s\n", *d.DeviceID, s.Key, s.Value, s.Unit)
			}
		}
		return nil
	},
}

func init() {
	readingsCmd.Flags().Duration("since", coordinator.ReadingsInitialDelta, "Look-back window")
	readingsCmd.Flags().Int("increment", coordinator.ReadingsIncrement, "Sample width in seconds")
	rootCmd.AddCommand(readingsCmd)
}
