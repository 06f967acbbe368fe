package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.ensureClient()
			if err != nil {
				return err
			}
			view, err := client.status(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch status: %w", err)
			}

			out := cmd.OutOrStdout()
			state := "stopped"
			if view.Running {
				state = "running"
			}
			fmt.Fprintf(out, "Daemon: %s\n", state)
			fmt.Fprintf(out, "Database: %s\n", view.DatabasePath)
			fmt.Fprintf(out, "Pending found items: %d\n", view.PendingFound)
			return nil
		},
	}
}
