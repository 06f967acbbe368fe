package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCancelCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <item-id>",
		Short: "Cancel a pending report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.ensureClient()
			if err != nil {
				return err
			}

			itemID := strings.TrimSpace(args[0])
			if err := client.cancel(cmd.Context(), itemID); err != nil {
				return fmt.Errorf("cancel item: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Item %s cancelled\n", itemID)
			return nil
		},
	}
}
