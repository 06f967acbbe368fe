package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <item-id>",
		Short: "Verify a pending found item and notify likely owners",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.ensureClient()
			if err != nil {
				return err
			}

			view, err := client.verify(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("verify item: %w", err)
			}

			out := cmd.OutOrStdout()
			if view.AlreadyPosted {
				fmt.Fprintf(out, "Item %s is already posted; no notifications sent\n", view.ItemID)
				return nil
			}

			fmt.Fprintf(out, "Item %s verified and posted\n", view.ItemID)
			if view.ManagementUpdated > 0 {
				fmt.Fprintf(out, "Management records updated: %d\n", view.ManagementUpdated)
			}

			delivered := 0
			skipped := 0
			failed := 0
			for _, outcome := range view.Notifications {
				switch {
				case outcome.Skipped:
					skipped++
				case outcome.Delivered:
					delivered++
				default:
					failed++
				}
			}
			fmt.Fprintf(out, "Notifications: %d delivered", delivered)
			if skipped > 0 {
				fmt.Fprintf(out, ", %d skipped", skipped)
			}
			if failed > 0 {
				fmt.Fprintf(out, ", %d failed", failed)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}
