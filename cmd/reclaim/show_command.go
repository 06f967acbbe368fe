package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "show <item-id>",
		Short: "Display a single report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.ensureClient()
			if err != nil {
				return err
			}

			itemID := strings.TrimSpace(args[0])
			view, err := client.show(cmd.Context(), kind, itemID)
			if err != nil {
				return fmt.Errorf("fetch report: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Item:        %s (%s)\n", view.ItemID, view.Kind)
			fmt.Fprintf(out, "Name:        %s\n", view.ItemName)
			fmt.Fprintf(out, "Category:    %s\n", view.Category)
			fmt.Fprintf(out, "Status:      %s\n", view.Status)
			fmt.Fprintf(out, "Claim:       %s\n", view.ClaimStatus)
			fmt.Fprintf(out, "Location:    %s\n", view.LocationLabel)
			fmt.Fprintf(out, "Event date:  %s\n", view.DateOfEvent.Format("2006-01-02"))
			fmt.Fprintf(out, "Reported by: %s\n", view.ReporterUID)
			fmt.Fprintf(out, "Reported at: %s\n", view.CreatedAt.Format("2006-01-02 15:04"))
			if view.Archived {
				fmt.Fprintln(out, "Archived:    yes")
			}
			if view.Description != "" {
				fmt.Fprintf(out, "Description: %s\n", view.Description)
			}
			if len(view.Images) > 0 {
				fmt.Fprintf(out, "Images:      %d\n", len(view.Images))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Report kind (lost or found); searched across both when omitted")
	return cmd
}
