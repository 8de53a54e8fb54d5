package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voltlabs/cebridge/internal/creds"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the configured Combined Energy account",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, ok, err := creds.GetProfile()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("no account configured")
			return nil
		}
		fmt.Printf("account: %s\n", profile.Account)
		if profile.InstallationID != 0 {
			fmt.Printf("installation: %d\n", profile.InstallationID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
