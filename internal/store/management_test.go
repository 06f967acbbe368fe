package store_test

import (
	"context"
	"testing"
	"time"

	"reclaim/internal/report"
	"reclaim/internal/testsupport"
)

func TestManagementRecordRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	found := testsupport.MustCreateReport(t, st, report.KindFound)
	lost := testsupport.MustCreateReport(t, st, report.KindLost)
	matches := []report.MatchResult{testsupport.Match("tx-1", lost, 82)}

	record := testsupport.MustCreateManagement(t, st, found, matches)
	if record.ID == 0 {
		t.Fatal("expected record id to be assigned")
	}

	records, err := st.ManagementRecordsByItem(ctx, found.ItemID)
	if err != nil {
		t.Fatalf("ManagementRecordsByItem failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := records[0]
	if got.HighestMatchingRate != 82 {
		t.Fatalf("highest matching rate %d, want 82", got.HighestMatchingRate)
	}
	if len(got.TopMatches) != 1 || got.TopMatches[0].TransactionID != "tx-1" {
		t.Fatalf("top matches not round-tripped: %#v", got.TopMatches)
	}
	if got.TopMatches[0].Counterpart.ItemID != lost.ItemID {
		t.Fatalf("counterpart snapshot missing: %#v", got.TopMatches[0].Counterpart)
	}
	if got.ExpiryTime == nil {
		t.Fatal("found-item record should carry an expiry time")
	}
}

func TestUpdateManagementStatusCountsRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	found := testsupport.MustCreateReport(t, st, report.KindFound)
	testsupport.MustCreateManagement(t, st, found, nil)

	updated, err := st.UpdateManagementStatus(ctx, found.ItemID, report.StatusPosted)
	if err != nil {
		t.Fatalf("UpdateManagementStatus failed: %v", err)
	}
	if updated != 1 {
		t.Fatalf("updated %d rows, want 1", updated)
	}

	records, err := st.ManagementRecordsByItem(ctx, found.ItemID)
	if err != nil {
		t.Fatalf("ManagementRecordsByItem failed: %v", err)
	}
	if records[0].Status != report.StatusPosted {
		t.Fatalf("record status %q, want posted", records[0].Status)
	}

	// Unknown item touches nothing.
	updated, err = st.UpdateManagementStatus(ctx, "0000-0000-0000", report.StatusPosted)
	if err != nil {
		t.Fatalf("UpdateManagementStatus failed: %v", err)
	}
	if updated != 0 {
		t.Fatalf("updated %d rows for unknown item", updated)
	}
}

func TestArchiveManagementRecordsHidesThem(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	found := testsupport.MustCreateReport(t, st, report.KindFound)
	testsupport.MustCreateManagement(t, st, found, nil)

	if err := st.ArchiveManagementRecords(ctx, found.ItemID); err != nil {
		t.Fatalf("ArchiveManagementRecords failed: %v", err)
	}
	if err := st.ArchiveManagementRecords(ctx, found.ItemID); err != nil {
		t.Fatalf("repeat archive failed: %v", err)
	}

	records, err := st.ManagementRecordsByItem(ctx, found.ItemID)
	if err != nil {
		t.Fatalf("ManagementRecordsByItem failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("archived records still listed: %d", len(records))
	}
}

func TestListExpiredPending(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	expired := testsupport.MustCreateReport(t, st, report.KindFound)
	fresh := testsupport.MustCreateReport(t, st, report.KindFound)

	past := time.Now().UTC().Add(-2 * time.Hour)
	future := time.Now().UTC().Add(2 * time.Hour)

	expiredRecord := &report.ManagementRecord{
		ItemID:     expired.ItemID,
		Kind:       report.KindFound,
		Status:     report.StatusPending,
		ExpiryTime: &past,
	}
	if err := st.CreateManagementRecord(ctx, expiredRecord); err != nil {
		t.Fatalf("CreateManagementRecord failed: %v", err)
	}
	freshRecord := &report.ManagementRecord{
		ItemID:     fresh.ItemID,
		Kind:       report.KindFound,
		Status:     report.StatusPending,
		ExpiryTime: &future,
	}
	if err := st.CreateManagementRecord(ctx, freshRecord); err != nil {
		t.Fatalf("CreateManagementRecord failed: %v", err)
	}

	records, err := st.ListExpiredPending(ctx, time.Now().UTC())
	if err != nil {
		t.Fatalf("ListExpiredPending failed: %v", err)
	}
	if len(records) != 1 || records[0].ItemID != expired.ItemID {
		t.Fatalf("expected only the expired record, got %v", records)
	}

	// Posting the item removes it from the sweep set.
	if _, err := st.UpdateManagementStatus(ctx, expired.ItemID, report.StatusPosted); err != nil {
		t.Fatalf("UpdateManagementStatus failed: %v", err)
	}
	records, err = st.ListExpiredPending(ctx, time.Now().UTC())
	if err != nil {
		t.Fatalf("ListExpiredPending failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("posted item still in sweep set: %v", records)
	}
}
