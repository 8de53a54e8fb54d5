package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voltlabs/cebridge/internal/config"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "cebridge",
	Short: "cebridge bridges the Combined Energy monitoring service",
	Long:  "cebridge polls the Combined Energy home-energy monitoring service,\nflattens device readings into sensor states, and automates releases of\nthe bundled Home Assistant integration package",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.Init(configFile)
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("cebridge: run 'cebridge --help' to see available commands")
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: XDG config home)")
}
