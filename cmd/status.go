package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voltlabs/cebridge/internal/db"
	"github.com/voltlabs/cebridge/internal/registry"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the installation and the latest recorded sensor values",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		inst, err := client.Installation(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("installation: %d (%s)\n", inst.ID, inst.Name)
		fmt.Printf("status: %s\n", inst.Status)
		fmt.Printf("devices: %d\n", len(inst.Devices))

		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		r := registry.NewRepository(dbConn)
		samples, err := r.LatestSamples()
		if err != nil {
			return err
		}
		if len(samples) == 0 {
			fmt.Println("no recorded samples: run 'cebridge watch' to start polling")
			return nil
		}
		for _, s := range samples {
			if !s.Value.Valid {
				continue
			}
			unit := ""
			if s.Unit.Valid {
				unit = s.Unit.String
			}
			fmt.Printf("device %d\t%s\t%g %s\t(%s)\n", s.DeviceID, s.SensorKey, s.Value.Float64, unit, s.SampledAt)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
