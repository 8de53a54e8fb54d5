package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var tariffCmd = &cobra.Command{
	Use:   "tariff",
	Short: "Show the installation's tariff plan and current rate",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		details, err := client.TariffDetails(cmd.Context())
		if err != nil {
			return err
		}
		t := details.Tariff
		fmt.Printf("plan: %s (%s)\n", t.PlanName, t.RetailerName)
		fmt.Printf("type: %s\n", t.TariffType)
		fmt.Printf("daily fee: $%.4f\n", t.DailyFee)
		fmt.Printf("feed-in: $%.4f/kWh\n", t.FeedInCost)
		if cost := t.CostAt(time.Now()); cost != nil {
			fmt.Printf("current rate: $%.4f/kWh\n", *cost)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tariffCmd)
}
