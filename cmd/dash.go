package cmd

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/voltlabs/cebridge/internal/coordinator"
	"github.com/voltlabs/cebridge/internal/dash"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Live dashboard of sensor values",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		inst, err := client.Installation(cmd.Context())
		if err != nil {
			return err
		}

		// Keep coordinator noise out of the TUI.
		log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		coord := &coordinator.Coordinator{API: client, Log: log}

		updates := dash.Listen(coord)
		errs := make(chan error, 1)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() {
			if err := coord.Run(ctx); err != nil && ctx.Err() == nil {
				errs <- err
			}
		}()

		p := tea.NewProgram(dash.NewModel(inst, updates, errs), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashCmd)
}
