package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voltlabs/cebridge/internal/db"
	"github.com/voltlabs/cebridge/internal/registry"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show publish run history",
	Long:  "Show publish run history (runs, timestamps, status, errors)",
	RunE: func(_ *cobra.Command, args []string) error {
		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		r := registry.NewRepository(dbConn)
		runs, err := r.ListRuns()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no publish runs recorded")
			return nil
		}
		for _, run := range runs {
			detail := ""
			if run.Error.Valid {
				detail = "\t" + run.Error.String
			}
			fmt.Printf("%s\t%s\t%s\t%s%s\n", run.Tag, run.CreatedAt, run.Status, run.RunID, detail)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
