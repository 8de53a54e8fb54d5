package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/voltlabs/cebridge/internal/ceapi"
	"github.com/voltlabs/cebridge/internal/creds"
)

var loginCmd = &cobra.Command{
	Use:   "login <mobile-or-email>",
	Short: "Verify Combined Energy credentials and store them",
	Long:  "Verify Combined Energy credentials against the service and store them.\nThe password is kept in the OS keyring; the account and installation id in the profile.\nExample:\n  cebridge login me@example.com",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account := args[0]
		password := os.Getenv("CEBRIDGE_PASSWORD")
		if password == "" {
			fmt.Print("Password: ")
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return err
			}
			password = string(b)
		}

		client := ceapi.New(account, password)
		if _, err := client.Login(cmd.Context()); err != nil {
			return err
		}
		// Fetching the installation confirms the account has access and
		// yields the id used as the profile's unique identifier.
		inst, err := client.Installation(cmd.Context())
		if err != nil {
			return err
		}

		if err := creds.StorePassword(account, password); err != nil {
			return fmt.Errorf("store password in keyring: %w", err)
		}
		if err := creds.SetProfile(creds.Profile{Account: account, InstallationID: inst.ID}); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s (installation %d: %s)\n", account, inst.ID, inst.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
