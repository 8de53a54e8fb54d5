package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voltlabs/cebridge/internal/manifest"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect the integration manifest",
}

var manifestShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Print the manifest as key=value lines",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := manifest.Load(manifestArgPath(args))
		if err != nil {
			return err
		}
		for _, line := range m.Flatten() {
			fmt.Println(line)
		}
		return nil
	},
}

var manifestValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate the manifest's domain and version",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := manifestArgPath(args)
		m, err := manifest.Load(path)
		if err != nil {
			return err
		}
		if err := m.Validate(); err != nil {
			return err
		}
		fmt.Printf("%s is valid: %s %s (tag %s)\n", path, m.Domain, m.Version, m.Tag())
		return nil
	},
}

func manifestArgPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return manifest.DefaultPath
}

func init() {
	manifestCmd.AddCommand(manifestShowCmd)
	manifestCmd.AddCommand(manifestValidateCmd)
	rootCmd.AddCommand(manifestCmd)
}
