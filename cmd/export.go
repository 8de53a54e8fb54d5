package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voltlabs/cebridge/internal/db"
	"github.com/voltlabs/cebridge/internal/exporter"
)

var exportCmd = &cobra.Command{
	Use:   "export <dst>",
	Short: "Export the local registry",
	Long:  "Export the local registry. By default the SQLite database is copied to <dst>;\nwith --releases the recorded releases are written as JSON.\nExamples:\n  cebridge export backup.db\n  cebridge export releases.json --releases",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asReleases, _ := cmd.Flags().GetBool("releases")
		if !asReleases {
			if err := exporter.ExportDatabase(args[0]); err != nil {
				return err
			}
			fmt.Printf("exported database to %s\n", args[0])
			return nil
		}

		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if err := exporter.ExportReleases(dbConn, f); err != nil {
			return err
		}
		fmt.Printf("exported releases to %s\n", args[0])
		return nil
	},
}

func init() {
	exportCmd.Flags().Bool("releases", false, "Export recorded releases as JSON")
	rootCmd.AddCommand(exportCmd)
}
