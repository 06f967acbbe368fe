package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newArchiveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <item-id>",
		Short: "Archive a report and its management records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.ensureClient()
			if err != nil {
				return err
			}

			itemID := strings.TrimSpace(args[0])
			if err := client.archive(cmd.Context(), itemID); err != nil {
				return fmt.Errorf("archive item: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Item %s archived\n", itemID)
			return nil
		},
	}
}
