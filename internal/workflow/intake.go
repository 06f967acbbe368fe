package workflow

import (
	"context"
	"log/slog"
	"time"

	"reclaim/internal/config"
	"reclaim/internal/logging"
	"reclaim/internal/notify"
	"reclaim/internal/report"
	"reclaim/internal/services"
	"reclaim/internal/services/matcher"
	"reclaim/internal/services/moderation"
	"reclaim/internal/store"
)

// Intake orchestrates report submission: validation, image moderation,
// persistence, the one-shot matching call, the management summary write, and
// the submission-time notification fan-out. The steps run in sequence with no
// cross-collection transaction; the intake run records which of them
// completed.
type Intake struct {
	cfg     *config.Config
	store   *store.Store
	matcher matcher.Service
	gate    moderation.Gate
	fanout  *notify.Fanout
	logger  *slog.Logger
}

// NewIntake wires the submission pipeline. The moderation gate may be nil
// when image moderation is disabled.
func NewIntake(cfg *config.Config, st *store.Store, match matcher.Service, gate moderation.Gate, fanout *notify.Fanout, logger *slog.Logger) *Intake {
	return &Intake{
		cfg:     cfg,
		store:   st,
		matcher: match,
		gate:    gate,
		fanout:  fanout,
		logger:  logging.WithComponent(logger, "intake"),
	}
}

// SubmitImage carries one image of a submission. Data is moderated when
// present; URL-only entries were hosted (and moderated) upstream.
type SubmitImage struct {
	URL  string
	Data []byte
}

// Submission is the reporter-supplied payload for a new item report.
type Submission struct {
	Kind          report.Kind
	ItemID        string
	ReporterUID   string
	ItemName      string
	Category      string
	Description   string
	LocationLabel string
	DateOfEvent   time.Time
	PersonalInfo  report.PersonalInfo
	Images        []SubmitImage
}

// SubmitResult reports what the intake pipeline accomplished. The report may
// be persisted even when matching degraded; callers surface that distinctly
// instead of failing the submission.
type SubmitResult struct {
	Report           *report.Report
	Run              *report.IntakeRun
	FlaggedImages    int
	MatchingDegraded bool
	Matches          []report.MatchResult
	Notifications    []notify.Outcome
}

// Submit runs the full intake pipeline for one report.
func (in *Intake) Submit(ctx context.Context, sub Submission) (*SubmitResult, error) {
	images, flagged, err := in.moderateImages(ctx, sub.Images)
	if err != nil {
		return nil, err
	}

	rep := &report.Report{
		ItemID:        sub.ItemID,
		Kind:          sub.Kind,
		ReporterUID:   sub.ReporterUID,
		ItemName:      sub.ItemName,
		Category:      sub.Category,
		Description:   sub.Description,
		Images:        images,
		LocationLabel: sub.LocationLabel,
		DateOfEvent:   sub.DateOfEvent,
		PersonalInfo:  sub.PersonalInfo,
	}
	if err := rep.Validate(); err != nil {
		return nil, services.Wrap(services.ErrValidation, "intake", "submit", err.Error(), nil)
	}

	// The report commit happens first and is never rolled back by later
	// matching or notification failures.
	if err := in.store.CreateReport(ctx, rep); err != nil {
		return nil, services.Wrap(services.ErrValidation, "intake", "submit", "persist report", err)
	}

	result := &SubmitResult{Report: rep, FlaggedImages: flagged}

	run, err := in.store.CreateIntakeRun(ctx, rep.ItemID)
	if err != nil {
		// The report exists; surface the degraded intake rather than failing.
		in.logger.Error("intake run write failed",
			slog.String(logging.FieldItemID, rep.ItemID),
			slog.String("error", err.Error()))
		return result, nil
	}
	result.Run = run
	if err := in.store.MarkRunReportWritten(ctx, run.ID); err != nil {
		in.logger.Warn("intake run update failed", slog.String(logging.FieldRunID, run.ID), slog.String("error", err.Error()))
	}

	matches, err := in.matcher.FindMatches(ctx, rep)
	if err != nil {
		// Report saved, matching degraded: substitute an empty match list and
		// skip downstream fan-out for this submission.
		result.MatchingDegraded = true
		in.logger.Error("matching call failed",
			slog.String(logging.FieldItemID, rep.ItemID),
			slog.String("error", err.Error()))
		_ = in.store.SetRunError(ctx, run.ID, err.Error())
		matches = nil
	}
	result.Matches = matches

	record := in.buildManagementRecord(rep, matches)
	if err := in.store.CreateManagementRecord(ctx, record); err != nil {
		in.logger.Error("management record write failed",
			slog.String(logging.FieldItemID, rep.ItemID),
			slog.String("error", err.Error()))
		_ = in.store.SetRunError(ctx, run.ID, err.Error())
		return result, nil
	}
	if err := in.store.MarkRunMatchesWritten(ctx, run.ID); err != nil {
		in.logger.Warn("intake run update failed", slog.String(logging.FieldRunID, run.ID), slog.String("error", err.Error()))
	}

	// Submission-time fan-out applies to lost reports only; found reports
	// notify at verification time from the stored matches.
	var outcomes []notify.Outcome
	if rep.Kind == report.KindLost && !result.MatchingDegraded {
		outcomes = in.fanout.SubmissionBatch(ctx, rep, matches)
	}
	result.Notifications = outcomes
	if err := in.store.MarkRunNotifyDone(ctx, run.ID, len(outcomes), notify.Failed(outcomes)); err != nil {
		in.logger.Warn("intake run update failed", slog.String(logging.FieldRunID, run.ID), slog.String("error", err.Error()))
	}

	in.logger.Info("report submitted",
		slog.String(logging.FieldItemID, rep.ItemID),
		slog.String("kind", string(rep.Kind)),
		slog.String(logging.FieldStatus, string(rep.Status)),
		slog.Int("matches", len(matches)),
		slog.Int("notified", len(outcomes)))
	return result, nil
}

func (in *Intake) moderateImages(ctx context.Context, images []SubmitImage) ([]string, int, error) {
	keep := make([]bool, len(images))
	var pending [][]byte
	var pendingIndexes []int
	for i, img := range images {
		if in.gate != nil && len(img.Data) > 0 {
			pending = append(pending, img.Data)
			pendingIndexes = append(pendingIndexes, i)
			continue
		}
		keep[i] = true
	}

	flagged := 0
	if len(pending) > 0 {
		batch, err := moderation.CheckBatch(ctx, in.gate, pending)
		if err != nil {
			// Fail closed: a classifier error or indeterminate verdict rejects
			// the whole batch and no report is created.
			return nil, 0, err
		}
		for _, idx := range batch.SafeIndexes {
			keep[pendingIndexes[idx]] = true
		}
		flagged = batch.Flagged
	}

	// Stored image order follows the submission order.
	urls := make([]string, 0, len(images))
	for i, img := range images {
		if keep[i] {
			urls = append(urls, img.URL)
		}
	}
	return urls, flagged, nil
}

func (in *Intake) buildManagementRecord(rep *report.Report, matches []report.MatchResult) *report.ManagementRecord {
	top := report.TopMatches(matches, in.cfg.Notifications.TopMatchLimit)
	record := &report.ManagementRecord{
		ItemID:              rep.ItemID,
		Kind:                rep.Kind,
		Status:              rep.Status,
		TopMatches:          top,
		HighestMatchingRate: report.HighestScore(top),
	}
	if rep.Kind == report.KindFound {
		expiry := rep.CreatedAt.Add(time.Duration(in.cfg.Notifications.PendingWindowHours) * time.Hour)
		record.ExpiryTime = &expiry
	}
	return record
}
