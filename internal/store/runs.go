package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"reclaim/internal/identity"
	"reclaim/internal/report"
)

const runColumns = "id, item_id, report_written, matches_written, notify_done, notify_total, notify_failed, last_error, created_at, updated_at"

// CreateIntakeRun records the start of a submission workflow for an item.
func (s *Store) CreateIntakeRun(ctx context.Context, itemID string) (*report.IntakeRun, error) {
	ctx = ensureContext(ctx)
	now := time.Now().UTC()
	run := &report.IntakeRun{
		ID:        uuid.NewString(),
		ItemID:    identity.Normalize(itemID),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.execWithRetry(ctx,
		`INSERT INTO intake_runs (id, item_id, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.ItemID, formatTime(now), formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert intake run: %w", err)
	}
	return run, nil
}

// MarkRunReportWritten flags the report-write step as complete.
func (s *Store) MarkRunReportWritten(ctx context.Context, runID string) error {
	return s.updateRun(ctx, runID, `report_written = 1`)
}

// MarkRunMatchesWritten flags the management-record write as complete.
func (s *Store) MarkRunMatchesWritten(ctx context.Context, runID string) error {
	return s.updateRun(ctx, runID, `matches_written = 1`)
}

// MarkRunNotifyDone records the fan-out batch outcome.
func (s *Store) MarkRunNotifyDone(ctx context.Context, runID string, total, failed int) error {
	_, err := s.execWithRetry(ctx,
		`UPDATE intake_runs SET notify_done = 1, notify_total = ?, notify_failed = ?, updated_at = ? WHERE id = ?`,
		total, failed, formatTime(time.Now().UTC()), runID,
	)
	if err != nil {
		return fmt.Errorf("update intake run: %w", err)
	}
	return nil
}

// SetRunError records the last failure observed during a run.
func (s *Store) SetRunError(ctx context.Context, runID, message string) error {
	_, err := s.execWithRetry(ctx,
		`UPDATE intake_runs SET last_error = ?, updated_at = ? WHERE id = ?`,
		nullableString(message), formatTime(time.Now().UTC()), runID,
	)
	if err != nil {
		return fmt.Errorf("update intake run: %w", err)
	}
	return nil
}

func (s *Store) updateRun(ctx context.Context, runID, assignment string) error {
	_, err := s.execWithRetry(ctx,
		`UPDATE intake_runs SET `+assignment+`, updated_at = ? WHERE id = ?`,
		formatTime(time.Now().UTC()), runID,
	)
	if err != nil {
		return fmt.Errorf("update intake run: %w", err)
	}
	return nil
}

// LatestIntakeRun returns the most recent run for an item, or (nil, nil).
func (s *Store) LatestIntakeRun(ctx context.Context, itemID string) (*report.IntakeRun, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM intake_runs
         WHERE item_id = ?
         ORDER BY created_at DESC LIMIT 1`,
		identity.Normalize(itemID),
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get intake run: %w", err)
	}
	return run, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*report.IntakeRun, error) {
	var (
		id             string
		itemID         string
		reportWritten  int
		matchesWritten int
		notifyDone     int
		notifyTotal    int
		notifyFailed   int
		lastError      sql.NullString
		createdRaw     string
		updatedRaw     string
	)

	if err := scanner.Scan(
		&id,
		&itemID,
		&reportWritten,
		&matchesWritten,
		&notifyDone,
		&notifyTotal,
		&notifyFailed,
		&lastError,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	run := &report.IntakeRun{
		ID:             id,
		ItemID:         itemID,
		ReportWritten:  reportWritten != 0,
		MatchesWritten: matchesWritten != 0,
		NotifyDone:     notifyDone != 0,
		NotifyTotal:    notifyTotal,
		NotifyFailed:   notifyFailed,
		LastError:      lastError.String,
	}
	if parsed, err := parseTimeString(createdRaw); err == nil {
		run.CreatedAt = parsed
	}
	if parsed, err := parseTimeString(updatedRaw); err == nil {
		run.UpdatedAt = parsed
	}
	return run, nil
}
