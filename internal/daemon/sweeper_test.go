package daemon_test

import (
	"context"
	"testing"
	"time"

	"reclaim/internal/config"
	"reclaim/internal/daemon"
	"reclaim/internal/logging"
	"reclaim/internal/report"
	"reclaim/internal/testsupport"
)

func TestSweepOnceFlagsExpiredPending(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	sweeper := daemon.NewSweeper(cfg, st, logging.NewNop())
	ctx := context.Background()

	rep := testsupport.MustCreateReport(t, st, report.KindFound)
	past := time.Now().UTC().Add(-time.Hour)
	record := &report.ManagementRecord{
		ItemID:     rep.ItemID,
		Kind:       report.KindFound,
		Status:     report.StatusPending,
		ExpiryTime: &past,
	}
	if err := st.CreateManagementRecord(ctx, record); err != nil {
		t.Fatalf("CreateManagementRecord failed: %v", err)
	}

	sweeper.SweepOnce(ctx)

	records, err := st.NotificationsForUID(ctx, cfg.Notifications.BackOfficeUID)
	if err != nil {
		t.Fatalf("NotificationsForUID failed: %v", err)
	}
	if len(records) != 1 || records[0].Type != report.NotificationExpiryFlagged {
		t.Fatalf("back-office records: %v", records)
	}
	if records[0].ItemID != rep.ItemID {
		t.Fatalf("flag names item %q, want %q", records[0].ItemID, rep.ItemID)
	}

	// The sweep never changes status.
	current, err := st.GetReport(ctx, report.KindFound, rep.ItemID)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if current.Status != report.StatusPending {
		t.Fatalf("sweep changed status to %q", current.Status)
	}
}

func TestSweepOnceDeduplicatesFlags(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	sweeper := daemon.NewSweeper(cfg, st, logging.NewNop())
	ctx := context.Background()

	rep := testsupport.MustCreateReport(t, st, report.KindFound)
	past := time.Now().UTC().Add(-time.Hour)
	record := &report.ManagementRecord{
		ItemID:     rep.ItemID,
		Kind:       report.KindFound,
		Status:     report.StatusPending,
		ExpiryTime: &past,
	}
	if err := st.CreateManagementRecord(ctx, record); err != nil {
		t.Fatalf("CreateManagementRecord failed: %v", err)
	}

	sweeper.SweepOnce(ctx)
	sweeper.SweepOnce(ctx)

	total, _, err := st.CountNotifications(ctx, cfg.Notifications.BackOfficeUID)
	if err != nil {
		t.Fatalf("CountNotifications failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("repeat sweeps produced %d flags, want 1", total)
	}
}

func TestSweepOnceInertWithoutBackOfficeUID(t *testing.T) {
	cfg := testsupport.NewConfig(t, func(c *config.Config) {
		c.Notifications.BackOfficeUID = ""
	})
	st := testsupport.MustOpenStore(t, cfg)
	sweeper := daemon.NewSweeper(cfg, st, logging.NewNop())
	ctx := context.Background()

	rep := testsupport.MustCreateReport(t, st, report.KindFound)
	past := time.Now().UTC().Add(-time.Hour)
	record := &report.ManagementRecord{
		ItemID:     rep.ItemID,
		Kind:       report.KindFound,
		Status:     report.StatusPending,
		ExpiryTime: &past,
	}
	if err := st.CreateManagementRecord(ctx, record); err != nil {
		t.Fatalf("CreateManagementRecord failed: %v", err)
	}

	sweeper.SweepOnce(ctx)

	total, _, err := st.CountNotifications(ctx, "back-office")
	if err != nil {
		t.Fatalf("CountNotifications failed: %v", err)
	}
	if total != 0 {
		t.Fatal("sweeper must be inert without a configured recipient")
	}
}
