package workflow

import (
	"context"
	"log/slog"

	"reclaim/internal/identity"
	"reclaim/internal/lifecycle"
	"reclaim/internal/logging"
	"reclaim/internal/notify"
	"reclaim/internal/report"
	"reclaim/internal/services"
	"reclaim/internal/store"
)

// Verifier is the back-office operation that promotes a pending found item to
// posted and runs the verification-time fan-out from the stored matches. Each
// step fails with a distinct, operator-visible cause; none of them are
// collapsed into a generic failure.
type Verifier struct {
	store   *store.Store
	machine *lifecycle.Machine
	fanout  *notify.Fanout
	logger  *slog.Logger
}

// NewVerifier wires the verification workflow.
func NewVerifier(st *store.Store, machine *lifecycle.Machine, fanout *notify.Fanout, logger *slog.Logger) *Verifier {
	return &Verifier{
		store:   st,
		machine: machine,
		fanout:  fanout,
		logger:  logging.WithComponent(logger, "verification"),
	}
}

// VerificationOutcome reports the result of one verification attempt.
type VerificationOutcome struct {
	ItemID string
	// AlreadyPosted marks the soft success of re-verifying a posted item;
	// no notifications are sent in that case.
	AlreadyPosted bool
	// ManagementUpdated counts management records moved to posted.
	ManagementUpdated int64
	Notifications     []notify.Outcome
}

// Verify resolves an operator-entered identifier and executes the
// pending -> posted transition plus its fan-out.
func (v *Verifier) Verify(ctx context.Context, rawID string) (*VerificationOutcome, error) {
	itemID := identity.Normalize(rawID)
	if !identity.ValidItemID(itemID) {
		return nil, services.Wrap(services.ErrValidation, "verification", "resolve id",
			"malformed item id "+rawID, nil)
	}

	rep, err := v.store.GetReport(ctx, report.KindFound, itemID)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, services.Wrap(services.ErrNotFound, "verification", "resolve id",
			"no found-item report with id "+itemID, nil)
	}

	switch rep.Status {
	case report.StatusPosted:
		// Soft success: the network layer may retry a verify. No fan-out.
		return &VerificationOutcome{ItemID: itemID, AlreadyPosted: true}, nil
	case report.StatusCancelled:
		return nil, services.Wrap(services.ErrConflict, "verification", "status check",
			"cannot verify a cancelled item", nil)
	}

	records, err := v.store.ManagementRecordsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, services.Wrap(services.ErrIntegrity, "verification", "load management record",
			"management record missing for item "+itemID, nil)
	}

	result, err := v.machine.Verify(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if result.AlreadyPosted {
		// A concurrent verification won the transition and already fanned
		// out. Suppressing a second batch keeps notifications deduplicated.
		return &VerificationOutcome{ItemID: itemID, AlreadyPosted: true}, nil
	}

	// Fan-out uses the stored matches, not a fresh matching call.
	outcomes := v.fanout.VerificationBatch(ctx, result.Report, records[0].TopMatches)

	v.logger.Info("verification complete",
		slog.String(logging.FieldItemID, itemID),
		slog.Int64("management_records", result.ManagementUpdated),
		slog.Int("notified", len(outcomes)),
		slog.Int("notify_failed", notify.Failed(outcomes)))

	return &VerificationOutcome{
		ItemID:            itemID,
		ManagementUpdated: result.ManagementUpdated,
		Notifications:     outcomes,
	}, nil
}
