package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newInboxCommand(ctx *commandContext) *cobra.Command {
	var markRead bool

	cmd := &cobra.Command{
		Use:   "inbox <uid>",
		Short: "Show notifications for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.ensureClient()
			if err != nil {
				return err
			}

			uid := strings.TrimSpace(args[0])
			views, err := client.inbox(cmd.Context(), uid)
			if err != nil {
				return fmt.Errorf("fetch inbox: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "No notifications")
				return nil
			}

			unread := 0
			for _, view := range views {
				if !view.Read {
					unread++
				}
			}

			if stdoutIsTerminal() {
				fmt.Fprintln(out, renderInboxTable(views))
			} else {
				for _, view := range views {
					marker := " "
					if !view.Read {
						marker = "*"
					}
					fmt.Fprintf(out, "%s %s  %-16s %s  %s\n",
						marker,
						view.CreatedAt.Format(tableTimeFormat),
						view.Type,
						view.ItemID,
						stripMarkup(view.Message))
				}
			}
			fmt.Fprintf(out, "%d notifications, %d unread\n", len(views), unread)

			if markRead && unread > 0 {
				if err := client.markInboxRead(cmd.Context(), uid); err != nil {
					return fmt.Errorf("mark notifications read: %w", err)
				}
				fmt.Fprintln(out, "Marked all notifications as read")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&markRead, "read", false, "Mark all notifications as read after listing")
	return cmd
}

// stripMarkup removes the <b> emphasis tags used in stored notification messages.
func stripMarkup(message string) string {
	replacer := strings.NewReplacer("<b>", "", "</b>", "")
	return replacer.Replace(message)
}
