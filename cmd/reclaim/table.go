package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const tableTimeFormat = "2006-01-02 15:04"

// renderReportTable lays out report rows for terminal display with the
// reported-at column right-aligned.
func renderReportTable(views []reportView) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"Item", "Kind", "Name", "Category", "Location", "Reported"})
	for _, view := range views {
		tw.AppendRow(table.Row{
			view.ItemID,
			view.Kind,
			view.ItemName,
			view.Category,
			view.LocationLabel,
			view.CreatedAt.Format(tableTimeFormat),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 6, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// renderInboxTable lays out notification rows, marking unread ones in the
// leading column. Stored messages carry <b> emphasis tags that are stripped
// for terminal output.
func renderInboxTable(views []notificationView) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{" ", "Received", "Type", "Item", "Message"})
	for _, view := range views {
		marker := " "
		if !view.Read {
			marker = "*"
		}
		tw.AppendRow(table.Row{
			marker,
			view.CreatedAt.Format(tableTimeFormat),
			view.Type,
			view.ItemID,
			stripMarkup(view.Message),
		})
	}
	return tw.Render()
}

func newTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	return tw
}
