package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voltlabs/cebridge/internal/nameutil"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List devices of the monitored installation",
	Long:  "List devices of the monitored installation. Example:\n  cebridge devices --match solar",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		inst, err := client.Installation(cmd.Context())
		if err != nil {
			return err
		}
		match, _ := cmd.Flags().GetString("match")
		for _, d := range inst.Devices {
			if match != "" && !nameutil.FuzzyMatch(d.Name, match) && !nameutil.FuzzyMatch(d.DeviceType, match) {
				continue
			}
			fmt.Printf("%d\t%s\t%s\t%s\n", d.ID, d.DeviceType, d.Name, d.Status)
		}
		return nil
	},
}

func init() {
	devicesCmd.Flags().String("match", "", "Fuzzy-filter devices by name or type")
	rootCmd.AddCommand(devicesCmd)
}
