package notify

import (
	"context"
	"log/slog"
	"strings"

	"reclaim/internal/config"
	"reclaim/internal/logging"
	"reclaim/internal/report"
	"reclaim/internal/services/mailer"
	"reclaim/internal/store"
)

// Fanout writes one notification record and attempts one email per eligible
// recipient. The record write is the source of truth; email is best-effort
// and never blocks or fails the batch.
type Fanout struct {
	store                 *store.Store
	sender                mailer.Sender
	logger                *slog.Logger
	submissionThreshold   int
	verificationThreshold int
	topMatchLimit         int
}

// New constructs a Fanout from configuration. A nil sender disables the
// email leg.
func New(cfg *config.Config, st *store.Store, sender mailer.Sender, logger *slog.Logger) *Fanout {
	if sender == nil {
		sender = mailer.Noop{}
	}
	return &Fanout{
		store:                 st,
		sender:                sender,
		logger:                logging.WithComponent(logger, "notify"),
		submissionThreshold:   cfg.Notifications.SubmissionThreshold,
		verificationThreshold: cfg.Notifications.VerificationThreshold,
		topMatchLimit:         cfg.Notifications.TopMatchLimit,
	}
}

// Outcome is the per-recipient result of one fan-out attempt.
type Outcome struct {
	UID        string
	Type       string
	Skipped    bool
	SkipReason string
	RecordErr  error
	EmailErr   error
}

// Delivered reports whether the in-app record exists.
func (o Outcome) Delivered() bool {
	return !o.Skipped && o.RecordErr == nil
}

// Failed counts outcomes whose notification record could not be written.
// Skips and email failures do not count; email is best-effort by contract.
func Failed(outcomes []Outcome) int {
	failed := 0
	for _, o := range outcomes {
		if !o.Skipped && o.RecordErr != nil {
			failed++
		}
	}
	return failed
}

// Deliver writes one notification record and attempts the email leg. The two
// sub-operations are independent; an email failure leaves the record intact.
func (f *Fanout) Deliver(ctx context.Context, record *report.NotificationRecord, email string) Outcome {
	outcome := Outcome{UID: record.UID, Type: record.Type}

	if strings.TrimSpace(record.UID) == "" {
		outcome.Skipped = true
		outcome.SkipReason = "missing recipient uid"
		return outcome
	}

	if err := f.store.AddNotification(ctx, record); err != nil {
		outcome.RecordErr = err
		f.logger.Error("notification record write failed",
			slog.String(logging.FieldUID, record.UID),
			slog.String("type", record.Type),
			slog.String("error", err.Error()))
		return outcome
	}

	if strings.TrimSpace(email) != "" {
		if err := f.sender.Send(ctx, email, subjectFor(record.Type), record.Message); err != nil {
			outcome.EmailErr = err
			f.logger.Warn("email delivery failed",
				slog.String(logging.FieldUID, record.UID),
				slog.String("type", record.Type),
				slog.String("error", err.Error()))
		}
	}
	return outcome
}

// SubmissionBatch runs the submission-time fan-out for a freshly persisted
// lost report. For each of the top matches clearing the submission threshold
// the counterpart finder is notified; when the single best match also clears
// it, the lost reporter receives a likely-match notification naming that
// match's transaction identifier. One failed attempt never short-circuits the
// rest of the batch.
func (f *Fanout) SubmissionBatch(ctx context.Context, rep *report.Report, matches []report.MatchResult) []Outcome {
	top := report.TopMatches(matches, f.topMatchLimit)

	outcomes := make([]Outcome, 0, len(top)+1)
	for _, match := range top {
		if match.Scores.OverallScore < f.submissionThreshold {
			continue
		}
		record := &report.NotificationRecord{
			UID:     match.Counterpart.ReporterUID,
			ItemID:  match.Counterpart.ItemID,
			Message: candidateMessage(rep, match),
			Type:    report.NotificationMatchCandidate,
		}
		outcomes = append(outcomes, f.Deliver(ctx, record, match.Counterpart.PersonalInfo.Email))
	}

	if len(top) > 0 && top[0].Scores.OverallScore >= f.submissionThreshold {
		record := &report.NotificationRecord{
			UID:     rep.ReporterUID,
			ItemID:  rep.ItemID,
			Message: likelyMatchMessage(rep, top[0]),
			Type:    report.NotificationLikelyMatch,
		}
		outcomes = append(outcomes, f.Deliver(ctx, record, rep.PersonalInfo.Email))
	}

	return outcomes
}

// VerificationBatch runs the verification-time fan-out for a found report
// using the management record's stored matches. Counterpart lost reporters
// are notified for every match clearing the verification threshold; the
// found-item reporter is notified unconditionally that their item is posted.
func (f *Fanout) VerificationBatch(ctx context.Context, rep *report.Report, matches []report.MatchResult) []Outcome {
	outcomes := make([]Outcome, 0, len(matches)+1)
	for _, match := range matches {
		if match.Scores.OverallScore < f.verificationThreshold {
			continue
		}
		record := &report.NotificationRecord{
			UID:     match.Counterpart.ReporterUID,
			ItemID:  match.Counterpart.ItemID,
			Message: matchPostedMessage(rep, match),
			Type:    report.NotificationMatchPosted,
		}
		outcomes = append(outcomes, f.Deliver(ctx, record, match.Counterpart.PersonalInfo.Email))
	}

	record := &report.NotificationRecord{
		UID:     rep.ReporterUID,
		ItemID:  rep.ItemID,
		Message: itemPostedMessage(rep),
		Type:    report.NotificationItemPosted,
	}
	outcomes = append(outcomes, f.Deliver(ctx, record, rep.PersonalInfo.Email))

	return outcomes
}
