package store_test

import (
	"context"
	"testing"
	"time"

	"reclaim/internal/report"
	"reclaim/internal/store"
	"reclaim/internal/testsupport"
)

func addNotification(t *testing.T, st *store.Store, uid, itemID, kind string, createdAt time.Time) *report.NotificationRecord {
	t.Helper()
	record := &report.NotificationRecord{
		UID:       uid,
		ItemID:    itemID,
		Message:   "message for " + uid,
		Type:      kind,
		CreatedAt: createdAt,
	}
	if err := st.AddNotification(context.Background(), record); err != nil {
		t.Fatalf("AddNotification failed: %v", err)
	}
	return record
}

func TestNotificationsForUIDUnreadFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	older := addNotification(t, st, "uid-1", "1111-1111-1111", report.NotificationMatchCandidate, base)
	newer := addNotification(t, st, "uid-1", "2222-2222-2222", report.NotificationItemPosted, base.Add(time.Hour))
	readRec := addNotification(t, st, "uid-1", "3333-3333-3333", report.NotificationLikelyMatch, base.Add(2*time.Hour))
	addNotification(t, st, "uid-2", "4444-4444-4444", report.NotificationMatchCandidate, base)

	if err := st.MarkNotificationRead(ctx, readRec.ID); err != nil {
		t.Fatalf("MarkNotificationRead failed: %v", err)
	}

	records, err := st.NotificationsForUID(ctx, "uid-1")
	if err != nil {
		t.Fatalf("NotificationsForUID failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	// Unread first, newest within the group; the read one trails.
	if records[0].ID != newer.ID || records[1].ID != older.ID || records[2].ID != readRec.ID {
		t.Fatalf("ordering wrong: %q, %q, %q", records[0].ID, records[1].ID, records[2].ID)
	}
}

func TestMarkAllNotificationsRead(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	now := time.Now().UTC()
	addNotification(t, st, "uid-1", "1111-1111-1111", report.NotificationMatchCandidate, now)
	addNotification(t, st, "uid-1", "2222-2222-2222", report.NotificationItemPosted, now)
	addNotification(t, st, "uid-2", "3333-3333-3333", report.NotificationMatchCandidate, now)

	marked, err := st.MarkAllNotificationsRead(ctx, "uid-1")
	if err != nil {
		t.Fatalf("MarkAllNotificationsRead failed: %v", err)
	}
	if marked != 2 {
		t.Fatalf("marked %d, want 2", marked)
	}

	total, unread, err := st.CountNotifications(ctx, "uid-1")
	if err != nil {
		t.Fatalf("CountNotifications failed: %v", err)
	}
	if total != 2 || unread != 0 {
		t.Fatalf("counts %d/%d, want 2/0", total, unread)
	}

	// Other recipients untouched, repeat is a no-op.
	_, unread, err = st.CountNotifications(ctx, "uid-2")
	if err != nil {
		t.Fatalf("CountNotifications failed: %v", err)
	}
	if unread != 1 {
		t.Fatalf("uid-2 unread %d, want 1", unread)
	}
	marked, err = st.MarkAllNotificationsRead(ctx, "uid-1")
	if err != nil {
		t.Fatalf("MarkAllNotificationsRead failed: %v", err)
	}
	if marked != 0 {
		t.Fatalf("repeat marked %d, want 0", marked)
	}
}

func TestHasNotification(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	addNotification(t, st, "back-office", "1111-1111-1111", report.NotificationExpiryFlagged, time.Now().UTC())

	has, err := st.HasNotification(ctx, "back-office", "1111-1111-1111", report.NotificationExpiryFlagged)
	if err != nil {
		t.Fatalf("HasNotification failed: %v", err)
	}
	if !has {
		t.Fatal("expected flag to exist")
	}

	has, err = st.HasNotification(ctx, "back-office", "1111-1111-1111", report.NotificationItemPosted)
	if err != nil {
		t.Fatalf("HasNotification failed: %v", err)
	}
	if has {
		t.Fatal("different type must not match")
	}

	has, err = st.HasNotification(ctx, "someone-else", "1111-1111-1111", report.NotificationExpiryFlagged)
	if err != nil {
		t.Fatalf("HasNotification failed: %v", err)
	}
	if has {
		t.Fatal("different recipient must not match")
	}
}

func TestAddNotificationRequiresUID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	record := &report.NotificationRecord{Message: "orphan", Type: report.NotificationItemPosted}
	if err := st.AddNotification(context.Background(), record); err == nil {
		t.Fatal("expected error for missing uid")
	}
}
