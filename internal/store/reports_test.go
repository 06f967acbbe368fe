package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"reclaim/internal/report"
	"reclaim/internal/store"
	"reclaim/internal/testsupport"
)

func TestCreateReportAssignsIDAndStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	found := testsupport.NewReport(report.KindFound)
	if err := st.CreateReport(ctx, found); err != nil {
		t.Fatalf("CreateReport failed: %v", err)
	}
	if found.ItemID == "" {
		t.Fatal("expected item id to be assigned")
	}
	if found.Status != report.StatusPending {
		t.Fatalf("found item status %q, want pending", found.Status)
	}
	if found.ClaimStatus != report.ClaimUnclaimed {
		t.Fatalf("claim status %q, want unclaimed", found.ClaimStatus)
	}

	lost := testsupport.NewReport(report.KindLost)
	if err := st.CreateReport(ctx, lost); err != nil {
		t.Fatalf("CreateReport failed: %v", err)
	}
	if lost.Status != report.StatusPosted {
		t.Fatalf("lost item status %q, want posted", lost.Status)
	}
}

func TestCreateReportRejectsMalformedID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	rep := testsupport.NewReport(report.KindLost, func(r *report.Report) {
		r.ItemID = "not-an-id"
	})
	if err := st.CreateReport(context.Background(), rep); err == nil {
		t.Fatal("expected malformed id to be rejected")
	}
}

func TestCreateReportDuplicateID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first := testsupport.MustCreateReport(t, st, report.KindFound)

	dup := testsupport.NewReport(report.KindFound, func(r *report.Report) {
		r.ItemID = first.ItemID
	})
	err := st.CreateReport(ctx, dup)
	if !errors.Is(err, store.ErrDuplicateItemID) {
		t.Fatalf("expected ErrDuplicateItemID, got %v", err)
	}
}

func TestGetReportMissReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	rep, err := st.GetReport(context.Background(), report.KindFound, "0000-0000-0000")
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if rep != nil {
		t.Fatalf("expected nil for a miss, got %#v", rep)
	}
}

func TestGetReportRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	created := testsupport.MustCreateReport(t, st, report.KindFound, func(r *report.Report) {
		r.ProofNote = ""
		r.PersonalInfo.Phone = "555-0100"
	})

	fetched, err := st.GetReport(ctx, report.KindFound, created.ItemID)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected report")
	}
	if fetched.ItemName != created.ItemName || fetched.LocationLabel != created.LocationLabel {
		t.Fatalf("fetched report differs: %#v", fetched)
	}
	if len(fetched.Images) != 1 || fetched.Images[0] != created.Images[0] {
		t.Fatalf("images not round-tripped: %v", fetched.Images)
	}
	if fetched.PersonalInfo.Phone != "555-0100" {
		t.Fatalf("personal info not round-tripped: %#v", fetched.PersonalInfo)
	}
	if !fetched.DateOfEvent.Equal(created.DateOfEvent) {
		t.Fatalf("date of event %v, want %v", fetched.DateOfEvent, created.DateOfEvent)
	}

	// The wrong collection misses.
	wrongKind, err := st.GetReport(ctx, report.KindLost, created.ItemID)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if wrongKind != nil {
		t.Fatal("found item must not be visible in the lost collection")
	}
}

func TestListPendingToleratesMixedCaseStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	rep := testsupport.MustCreateReport(t, st, report.KindFound)

	// Simulate a historical row written with capitalized status.
	db, err := sql.Open("sqlite", st.Path())
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	defer db.Close()
	if _, err := db.ExecContext(ctx, `UPDATE reports SET status = 'Pending' WHERE item_id = ?`, rep.ItemID); err != nil {
		t.Fatalf("rewrite status: %v", err)
	}

	pending, err := st.ListPending(ctx, report.KindFound)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ItemID != rep.ItemID {
		t.Fatalf("mixed-case pending row not listed: %v", pending)
	}
	if pending[0].Status != report.StatusPending {
		t.Fatalf("status not normalized on scan: %q", pending[0].Status)
	}

	// The CAS transition matches the row case-insensitively too.
	won, err := st.TransitionStatus(ctx, rep.ItemID, report.StatusPending, report.StatusPosted)
	if err != nil {
		t.Fatalf("TransitionStatus failed: %v", err)
	}
	if !won {
		t.Fatal("transition should match the mixed-case row")
	}
}

func TestTransitionStatusIsCompareAndSwap(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	rep := testsupport.MustCreateReport(t, st, report.KindFound)

	won, err := st.TransitionStatus(ctx, rep.ItemID, report.StatusPending, report.StatusPosted)
	if err != nil {
		t.Fatalf("TransitionStatus failed: %v", err)
	}
	if !won {
		t.Fatal("first transition should win")
	}

	// Second attempt loses without error.
	won, err = st.TransitionStatus(ctx, rep.ItemID, report.StatusPending, report.StatusPosted)
	if err != nil {
		t.Fatalf("TransitionStatus failed: %v", err)
	}
	if won {
		t.Fatal("repeat transition must not win")
	}

	current, err := st.GetReport(ctx, report.KindFound, rep.ItemID)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if current.Status != report.StatusPosted {
		t.Fatalf("status %q after transitions, want posted", current.Status)
	}
}

func TestSetClaimedRequiresPostedUnclaimed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	pending := testsupport.MustCreateReport(t, st, report.KindFound)
	changed, err := st.SetClaimed(ctx, pending.ItemID, "")
	if err != nil {
		t.Fatalf("SetClaimed failed: %v", err)
	}
	if changed {
		t.Fatal("pending item must not be claimable")
	}

	posted := testsupport.MustCreateReport(t, st, report.KindLost)
	changed, err = st.SetClaimed(ctx, posted.ItemID, "student card checked")
	if err != nil {
		t.Fatalf("SetClaimed failed: %v", err)
	}
	if !changed {
		t.Fatal("posted item should be claimable")
	}

	// Status stays posted; only the claim axis moved.
	current, err := st.FindReport(ctx, posted.ItemID)
	if err != nil {
		t.Fatalf("FindReport failed: %v", err)
	}
	if current.Status != report.StatusPosted {
		t.Fatalf("claim changed status to %q", current.Status)
	}
	if current.ClaimStatus != report.ClaimClaimed {
		t.Fatalf("claim status %q, want claimed", current.ClaimStatus)
	}
	if current.ProofNote != "student card checked" {
		t.Fatalf("proof note %q", current.ProofNote)
	}

	// Repeat claim changes nothing.
	changed, err = st.SetClaimed(ctx, posted.ItemID, "other note")
	if err != nil {
		t.Fatalf("SetClaimed failed: %v", err)
	}
	if changed {
		t.Fatal("already-claimed item must not change again")
	}
}

func TestArchiveReportIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	rep := testsupport.MustCreateReport(t, st, report.KindLost)

	for i := 0; i < 2; i++ {
		if err := st.ArchiveReport(ctx, rep.ItemID); err != nil {
			t.Fatalf("ArchiveReport attempt %d failed: %v", i+1, err)
		}
	}

	current, err := st.FindReport(ctx, rep.ItemID)
	if err != nil {
		t.Fatalf("FindReport failed: %v", err)
	}
	if !current.Archived {
		t.Fatal("report should be archived")
	}
	// Archived rows keep their status.
	if current.Status != report.StatusPosted {
		t.Fatalf("archive changed status to %q", current.Status)
	}

	active, err := st.ListActive(ctx, report.KindLost)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	for _, r := range active {
		if r.ItemID == rep.ItemID {
			t.Fatal("archived report must not appear in active listings")
		}
	}
}

func TestFindReportSearchesBothKinds(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	lost := testsupport.MustCreateReport(t, st, report.KindLost)
	found := testsupport.MustCreateReport(t, st, report.KindFound)

	for _, want := range []*report.Report{lost, found} {
		got, err := st.FindReport(ctx, "  "+want.ItemID+"  ")
		if err != nil {
			t.Fatalf("FindReport failed: %v", err)
		}
		if got == nil || got.ItemID != want.ItemID || got.Kind != want.Kind {
			t.Fatalf("FindReport(%q) = %#v", want.ItemID, got)
		}
	}
}
