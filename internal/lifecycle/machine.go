package lifecycle

import (
	"context"
	"log/slog"

	"reclaim/internal/logging"
	"reclaim/internal/report"
	"reclaim/internal/services"
	"reclaim/internal/store"
)

// Machine owns the status field and its legal transitions across the report
// and management collections. Transitions are monotonic; nothing ever moves a
// status backwards.
type Machine struct {
	store  *store.Store
	logger *slog.Logger
}

// New constructs the state machine over the shared store.
func New(st *store.Store, logger *slog.Logger) *Machine {
	return &Machine{
		store:  st,
		logger: logging.WithComponent(logger, "lifecycle"),
	}
}

// VerifyResult describes the outcome of a pending -> posted transition.
type VerifyResult struct {
	Report *report.Report
	// AlreadyPosted is set when the item was posted before this call, either
	// historically or by a concurrent verification that won the write.
	AlreadyPosted bool
	// ManagementUpdated counts management records moved to posted.
	ManagementUpdated int64
}

// Verify executes the pending -> posted transition for a found item. Calling
// it on an already-posted item succeeds as a no-op so that network retries
// are harmless; a cancelled item is a hard failure. The report write is an
// optimistic compare-and-swap, so of two concurrent calls exactly one
// performs the transition and the other observes AlreadyPosted.
func (m *Machine) Verify(ctx context.Context, itemID string) (*VerifyResult, error) {
	rep, err := m.store.GetReport(ctx, report.KindFound, itemID)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, services.Wrap(services.ErrNotFound, "lifecycle", "verify", "no found-item report with id "+itemID, nil)
	}

	switch rep.Status {
	case report.StatusCancelled:
		return nil, services.Wrap(services.ErrConflict, "lifecycle", "verify", "cannot verify a cancelled item", nil)
	case report.StatusPosted:
		return &VerifyResult{Report: rep, AlreadyPosted: true}, nil
	}

	won, err := m.store.TransitionStatus(ctx, itemID, report.StatusPending, report.StatusPosted)
	if err != nil {
		return nil, err
	}
	if !won {
		// Lost the optimistic write. Re-read to classify what happened.
		current, err := m.store.GetReport(ctx, report.KindFound, itemID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, services.Wrap(services.ErrIntegrity, "lifecycle", "verify", "report vanished during transition", nil)
		}
		if current.Status == report.StatusCancelled {
			return nil, services.Wrap(services.ErrConflict, "lifecycle", "verify", "cannot verify a cancelled item", nil)
		}
		m.logger.Warn("duplicate verification attempt",
			slog.String(logging.FieldItemID, itemID),
			slog.String(logging.FieldAlert, "concurrency_race"))
		return &VerifyResult{Report: current, AlreadyPosted: true}, nil
	}

	updated, err := m.store.UpdateManagementStatus(ctx, itemID, report.StatusPosted)
	if err != nil {
		return nil, err
	}
	rep.Status = report.StatusPosted

	m.logger.Info("item verified",
		slog.String(logging.FieldItemID, itemID),
		slog.Int64("management_records", updated))
	return &VerifyResult{Report: rep, ManagementUpdated: updated}, nil
}

// ClaimResult describes the outcome of a claim resolution.
type ClaimResult struct {
	Report *report.Report
	// AlreadyClaimed is set when the item was claimed before this call.
	AlreadyClaimed bool
}

// Claim resolves a posted item as returned to its owner. ClaimStatus flips to
// claimed while status deliberately stays posted; the two axes are
// independent. Claiming an already-claimed item is a no-op.
func (m *Machine) Claim(ctx context.Context, itemID, proofNote string) (*ClaimResult, error) {
	rep, err := m.store.FindReport(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, services.Wrap(services.ErrNotFound, "lifecycle", "claim", "no report with id "+itemID, nil)
	}

	changed, err := m.store.SetClaimed(ctx, itemID, proofNote)
	if err != nil {
		return nil, err
	}
	if changed {
		rep.ClaimStatus = report.ClaimClaimed
		rep.ProofNote = proofNote
		m.logger.Info("item claimed", slog.String(logging.FieldItemID, itemID))
		return &ClaimResult{Report: rep}, nil
	}

	if rep.ClaimStatus == report.ClaimClaimed {
		return &ClaimResult{Report: rep, AlreadyClaimed: true}, nil
	}
	return nil, services.Wrap(services.ErrConflict, "lifecycle", "claim",
		"item is "+string(rep.Status)+", only posted items can be claimed", nil)
}

// Cancel moves a pending found item to the cancelled terminal state and
// mirrors the status onto its management records. Repeat cancellation is a
// no-op; cancelling a posted item is a hard failure.
func (m *Machine) Cancel(ctx context.Context, itemID string) error {
	rep, err := m.store.GetReport(ctx, report.KindFound, itemID)
	if err != nil {
		return err
	}
	if rep == nil {
		return services.Wrap(services.ErrNotFound, "lifecycle", "cancel", "no found-item report with id "+itemID, nil)
	}

	switch rep.Status {
	case report.StatusCancelled:
		return nil
	case report.StatusPosted:
		return services.Wrap(services.ErrConflict, "lifecycle", "cancel", "cannot cancel a posted item", nil)
	}

	won, err := m.store.TransitionStatus(ctx, itemID, report.StatusPending, report.StatusCancelled)
	if err != nil {
		return err
	}
	if !won {
		current, err := m.store.GetReport(ctx, report.KindFound, itemID)
		if err != nil {
			return err
		}
		if current != nil && current.Status == report.StatusCancelled {
			return nil
		}
		return services.Wrap(services.ErrConflict, "lifecycle", "cancel", "item moved out of pending during cancellation", nil)
	}

	if _, err := m.store.UpdateManagementStatus(ctx, itemID, report.StatusCancelled); err != nil {
		return err
	}
	m.logger.Info("item cancelled", slog.String(logging.FieldItemID, itemID))
	return nil
}

// Archive sets the archived overlay on the report and its management records.
// Archival is idempotent and excludes the item from matching and browsing
// without removing anything.
func (m *Machine) Archive(ctx context.Context, itemID string) error {
	rep, err := m.store.FindReport(ctx, itemID)
	if err != nil {
		return err
	}
	if rep == nil {
		return services.Wrap(services.ErrNotFound, "lifecycle", "archive", "no report with id "+itemID, nil)
	}

	if err := m.store.ArchiveReport(ctx, itemID); err != nil {
		return err
	}
	if err := m.store.ArchiveManagementRecords(ctx, itemID); err != nil {
		return err
	}
	if !rep.Archived {
		m.logger.Info("item archived", slog.String(logging.FieldItemID, itemID))
	}
	return nil
}
