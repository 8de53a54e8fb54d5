package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/voltlabs/cebridge/internal/install"
	"github.com/voltlabs/cebridge/internal/manifest"
)

var installCmd = &cobra.Command{
	Use:   "install <ha-config-dir>",
	Short: "Install the integration package into a Home Assistant config dir",
	Long:  "Copy the integration package into <ha-config-dir>/custom_components.\nExample:\n  cebridge install ~/.homeassistant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, _ := cmd.Flags().GetString("package")
		meta, err := install.Install(src, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("installed %s %s to %s\n", meta.Domain, meta.Version, meta.Target)
		return nil
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <ha-config-dir>",
	Short: "Remove the installed integration package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, _ := cmd.Flags().GetString("domain")
		if err := install.Uninstall(args[0], domain); err != nil {
			return err
		}
		fmt.Printf("uninstalled %s from %s\n", domain, args[0])
		return nil
	},
}

func init() {
	installCmd.Flags().String("package", filepath.Dir(manifest.DefaultPath), "Integration package directory (contains manifest.json)")
	uninstallCmd.Flags().String("domain", "combined_energy", "Integration domain to remove")
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
}
