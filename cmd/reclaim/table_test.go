package main

import (
	"strings"
	"testing"
	"time"
)

func TestRenderReportTable(t *testing.T) {
	views := []reportView{
		{
			ItemID:        "1111-2222-3333",
			Kind:          "found",
			ItemName:      "Blue Backpack",
			Category:      "bags",
			LocationLabel: "Library",
			CreatedAt:     time.Date(2026, 5, 2, 16, 30, 0, 0, time.UTC),
		},
		{
			ItemID:        "4444-5555-6666",
			Kind:          "lost",
			ItemName:      "Silver Water Bottle",
			Category:      "drinkware",
			LocationLabel: "Gymnasium",
			CreatedAt:     time.Date(2026, 5, 3, 9, 0, 0, 0, time.UTC),
		},
	}

	rendered := renderReportTable(views)
	for _, want := range []string{"Item", "Reported", "1111-2222-3333", "Blue Backpack", "2026-05-02 16:30"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("table missing %q:\n%s", want, rendered)
		}
	}
	if strings.Index(rendered, "1111-2222-3333") > strings.Index(rendered, "4444-5555-6666") {
		t.Fatalf("rows out of order:\n%s", rendered)
	}
}

func TestRenderInboxTableMarksUnreadAndStripsMarkup(t *testing.T) {
	views := []notificationView{
		{
			ItemID:    "1111-2222-3333",
			Message:   "Your item <b>Blue Backpack</b> has been posted",
			Type:      "item_posted",
			Read:      false,
			CreatedAt: time.Date(2026, 5, 2, 16, 30, 0, 0, time.UTC),
		},
		{
			ItemID:    "1111-2222-3333",
			Message:   "A likely match was found",
			Type:      "likely_match",
			Read:      true,
			CreatedAt: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
		},
	}

	rendered := renderInboxTable(views)
	if !strings.Contains(rendered, "Your item Blue Backpack has been posted") {
		t.Fatalf("markup not stripped:\n%s", rendered)
	}
	lines := strings.Split(rendered, "\n")
	var unreadLine, readLine string
	for _, line := range lines {
		if strings.Contains(line, "item_posted") {
			unreadLine = line
		}
		if strings.Contains(line, "likely_match") {
			readLine = line
		}
	}
	if !strings.Contains(unreadLine, "*") {
		t.Fatalf("unread row missing marker: %q", unreadLine)
	}
	if strings.Contains(readLine, "*") {
		t.Fatalf("read row should not carry marker: %q", readLine)
	}
}
