package testsupport

import (
	"context"
	"testing"
	"time"

	"reclaim/internal/config"
	"reclaim/internal/report"
	"reclaim/internal/store"
)

// MustOpenStore opens a store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewReport builds a valid report of the given kind with sensible test
// defaults. Options mutate the report before persistence is attempted.
func NewReport(kind report.Kind, opts ...func(*report.Report)) *report.Report {
	rep := &report.Report{
		Kind:          kind,
		ReporterUID:   "uid-" + string(kind) + "-reporter",
		ItemName:      "Blue Backpack",
		Category:      "bags",
		Description:   "Navy blue backpack with a laptop sleeve",
		Images:        []string{"https://cdn.campus.example/items/backpack.jpg"},
		LocationLabel: "Main Library",
		DateOfEvent:   time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		PersonalInfo: report.PersonalInfo{
			FullName: "Test Reporter",
			Email:    "reporter@campus.example",
		},
	}
	for _, opt := range opts {
		opt(rep)
	}
	return rep
}

// MustCreateReport persists a report built from NewReport.
func MustCreateReport(t testing.TB, st *store.Store, kind report.Kind, opts ...func(*report.Report)) *report.Report {
	t.Helper()

	rep := NewReport(kind, opts...)
	if err := st.CreateReport(context.Background(), rep); err != nil {
		t.Fatalf("store.CreateReport: %v", err)
	}
	return rep
}

// MustCreateManagement persists a management record for a stored report.
func MustCreateManagement(t testing.TB, st *store.Store, rep *report.Report, matches []report.MatchResult) *report.ManagementRecord {
	t.Helper()

	record := &report.ManagementRecord{
		ItemID:              rep.ItemID,
		Kind:                rep.Kind,
		Status:              rep.Status,
		TopMatches:          matches,
		HighestMatchingRate: report.HighestScore(matches),
	}
	if rep.Kind == report.KindFound {
		expiry := rep.CreatedAt.Add(24 * time.Hour)
		record.ExpiryTime = &expiry
	}
	if err := st.CreateManagementRecord(context.Background(), record); err != nil {
		t.Fatalf("store.CreateManagementRecord: %v", err)
	}
	return record
}

// Match builds a MatchResult against a counterpart report with the given
// overall score.
func Match(transactionID string, counterpart *report.Report, overall int) report.MatchResult {
	return report.MatchResult{
		TransactionID: transactionID,
		Counterpart:   report.SnapshotOf(counterpart),
		Scores: report.MatchScores{
			OverallScore:     overall,
			DescriptionScore: overall,
			ImageScore:       overall,
		},
	}
}
