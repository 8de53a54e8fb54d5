package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voltlabs/cebridge/internal/creds"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored Combined Energy credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, ok, err := creds.GetProfile()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("no account configured")
			return nil
		}
		if err := creds.DeletePassword(profile.Account); err != nil {
			return err
		}
		if err := creds.ClearProfile(); err != nil {
			return err
		}
		fmt.Printf("Logged out %s\n", profile.Account)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
