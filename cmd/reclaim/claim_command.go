package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newClaimCommand(ctx *commandContext) *cobra.Command {
	var proofNote string

	cmd := &cobra.Command{
		Use:   "claim <item-id>",
		Short: "Mark a posted item as claimed by its owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.ensureClient()
			if err != nil {
				return err
			}

			view, err := client.claim(cmd.Context(), strings.TrimSpace(args[0]), proofNote)
			if err != nil {
				return fmt.Errorf("claim item: %w", err)
			}

			out := cmd.OutOrStdout()
			if view.AlreadyClaimed {
				fmt.Fprintf(out, "Item %s was already claimed\n", view.ItemID)
				return nil
			}
			fmt.Fprintf(out, "Item %s marked as claimed\n", view.ItemID)
			return nil
		},
	}

	cmd.Flags().StringVar(&proofNote, "proof", "", "Note recording the ownership proof presented")
	return cmd
}
