package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newPendingCommand(ctx *commandContext) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List reports awaiting verification",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.ensureClient()
			if err != nil {
				return err
			}
			views, err := client.pending(cmd.Context(), kind)
			if err != nil {
				return fmt.Errorf("list pending reports: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "No pending reports")
				return nil
			}

			if !stdoutIsTerminal() {
				for _, view := range views {
					fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n",
						view.ItemID, view.Kind, view.ItemName, view.Category,
						view.CreatedAt.Format(tableTimeFormat))
				}
				return nil
			}

			fmt.Fprintln(out, renderReportTable(views))
			fmt.Fprintf(out, "%s pending\n", strconv.Itoa(len(views)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Limit to one report kind (lost or found)")
	return cmd
}
