package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"reclaim/internal/identity"
	"reclaim/internal/report"
)

// ErrDuplicateItemID indicates a report insert collided with an existing item identifier.
var ErrDuplicateItemID = errors.New("duplicate item id")

const reportColumns = "item_id, kind, reporter_uid, item_name, category, description, images_json, location_label, date_of_event, personal_info_json, claim_status, proof_note, archived, status, created_at, updated_at"

// CreateReport validates and persists a new report. A missing item identifier
// is assigned; the initial status is derived from the item kind. Persisting a
// report never triggers matching; that sequencing belongs to the caller.
func (s *Store) CreateReport(ctx context.Context, rep *report.Report) error {
	ctx = ensureContext(ctx)
	if rep == nil {
		return errors.New("nil report")
	}
	if err := rep.Validate(); err != nil {
		return fmt.Errorf("validate report: %w", err)
	}

	if strings.TrimSpace(rep.ItemID) == "" {
		id, err := identity.NewItemID()
		if err != nil {
			return err
		}
		rep.ItemID = id
	} else if !identity.ValidItemID(rep.ItemID) {
		return fmt.Errorf("malformed item id %q", rep.ItemID)
	}
	rep.ItemID = identity.Normalize(rep.ItemID)

	if rep.Status == "" {
		rep.Status = report.InitialStatus(rep.Kind)
	}
	if rep.ClaimStatus == "" {
		rep.ClaimStatus = report.ClaimUnclaimed
	}

	now := time.Now().UTC()
	if rep.CreatedAt.IsZero() {
		rep.CreatedAt = now
	}
	rep.UpdatedAt = now

	imagesJSON, err := json.Marshal(rep.Images)
	if err != nil {
		return fmt.Errorf("encode images: %w", err)
	}
	personalJSON, err := json.Marshal(rep.PersonalInfo)
	if err != nil {
		return fmt.Errorf("encode personal info: %w", err)
	}

	_, err = s.execWithRetry(ctx,
		`INSERT INTO reports (`+reportColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.ItemID,
		string(rep.Kind),
		rep.ReporterUID,
		rep.ItemName,
		rep.Category,
		rep.Description,
		string(imagesJSON),
		rep.LocationLabel,
		formatTime(rep.DateOfEvent),
		string(personalJSON),
		string(rep.ClaimStatus),
		nullableString(rep.ProofNote),
		boolToInt(rep.Archived),
		string(rep.Status),
		formatTime(rep.CreatedAt),
		formatTime(rep.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", ErrDuplicateItemID, rep.ItemID)
		}
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// GetReport fetches one report from the given collection. A miss returns
// (nil, nil).
func (s *Store) GetReport(ctx context.Context, kind report.Kind, itemID string) (*report.Report, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE item_id = ? AND kind = ?`,
		identity.Normalize(itemID), string(kind),
	)
	rep, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return rep, nil
}

// ListPending returns non-archived reports awaiting verification. Historical
// rows may carry mixed-case status values, so the filter is case-insensitive.
func (s *Store) ListPending(ctx context.Context, kind report.Kind) ([]*report.Report, error) {
	return s.listReports(ctx,
		`SELECT `+reportColumns+` FROM reports
         WHERE kind = ? AND LOWER(status) = ? AND archived = 0
         ORDER BY created_at ASC`,
		string(kind), string(report.StatusPending),
	)
}

// ListActive returns all non-archived reports of a kind, newest first.
func (s *Store) ListActive(ctx context.Context, kind report.Kind) ([]*report.Report, error) {
	return s.listReports(ctx,
		`SELECT `+reportColumns+` FROM reports
         WHERE kind = ? AND archived = 0
         ORDER BY created_at DESC`,
		string(kind),
	)
}

func (s *Store) listReports(ctx context.Context, query string, args ...any) ([]*report.Report, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []*report.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}

// TransitionStatus performs the optimistic status write: the row changes only
// when its current status still equals from (case-insensitive). The returned
// bool reports whether this caller won the write; a concurrent transition or
// an already-advanced row yields false with no error.
func (s *Store) TransitionStatus(ctx context.Context, itemID string, from, to report.Status) (bool, error) {
	res, err := s.execWithRetry(ctx,
		`UPDATE reports SET status = ?, updated_at = ?
         WHERE item_id = ? AND LOWER(status) = ?`,
		string(to),
		formatTime(time.Now().UTC()),
		identity.Normalize(itemID),
		string(from),
	)
	if err != nil {
		return false, fmt.Errorf("transition report status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transition report status: %w", err)
	}
	return affected > 0, nil
}

// SetClaimed marks a posted report as claimed. Status stays posted; claiming
// and posting are independent axes. Returns false when the row was not in a
// claimable state.
func (s *Store) SetClaimed(ctx context.Context, itemID, proofNote string) (bool, error) {
	res, err := s.execWithRetry(ctx,
		`UPDATE reports SET claim_status = ?, proof_note = ?, updated_at = ?
         WHERE item_id = ? AND LOWER(status) = ? AND claim_status = ?`,
		string(report.ClaimClaimed),
		nullableString(proofNote),
		formatTime(time.Now().UTC()),
		identity.Normalize(itemID),
		string(report.StatusPosted),
		string(report.ClaimUnclaimed),
	)
	if err != nil {
		return false, fmt.Errorf("set claimed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set claimed: %w", err)
	}
	return affected > 0, nil
}

// ArchiveReport sets the archived overlay. Archiving an already-archived
// report is a no-op, not an error.
func (s *Store) ArchiveReport(ctx context.Context, itemID string) error {
	_, err := s.execWithRetry(ctx,
		`UPDATE reports SET archived = 1, updated_at = ? WHERE item_id = ?`,
		formatTime(time.Now().UTC()),
		identity.Normalize(itemID),
	)
	if err != nil {
		return fmt.Errorf("archive report: %w", err)
	}
	return nil
}

// FindReport looks a report up across both collections. A miss returns (nil, nil).
func (s *Store) FindReport(ctx context.Context, itemID string) (*report.Report, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE item_id = ?`,
		identity.Normalize(itemID),
	)
	rep, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find report: %w", err)
	}
	return rep, nil
}

func scanReport(scanner interface{ Scan(dest ...any) error }) (*report.Report, error) {
	var (
		itemID       string
		kindStr      string
		reporterUID  string
		itemName     string
		category     string
		description  string
		imagesJSON   string
		location     string
		dateRaw      string
		personalJSON string
		claimStatus  string
		proofNote    sql.NullString
		archived     int
		statusRaw    string
		createdRaw   string
		updatedRaw   string
	)

	if err := scanner.Scan(
		&itemID,
		&kindStr,
		&reporterUID,
		&itemName,
		&category,
		&description,
		&imagesJSON,
		&location,
		&dateRaw,
		&personalJSON,
		&claimStatus,
		&proofNote,
		&archived,
		&statusRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	kind, err := report.ParseKind(kindStr)
	if err != nil {
		return nil, err
	}
	status, err := report.ParseStatus(statusRaw)
	if err != nil {
		return nil, err
	}

	rep := &report.Report{
		ItemID:        itemID,
		Kind:          kind,
		ReporterUID:   reporterUID,
		ItemName:      itemName,
		Category:      category,
		Description:   description,
		LocationLabel: location,
		ClaimStatus:   report.ClaimStatus(claimStatus),
		ProofNote:     proofNote.String,
		Archived:      archived != 0,
		Status:        status,
	}

	if err := json.Unmarshal([]byte(imagesJSON), &rep.Images); err != nil {
		return nil, fmt.Errorf("decode images: %w", err)
	}
	if err := json.Unmarshal([]byte(personalJSON), &rep.PersonalInfo); err != nil {
		return nil, fmt.Errorf("decode personal info: %w", err)
	}

	if parsed, err := parseTimeString(dateRaw); err == nil {
		rep.DateOfEvent = parsed
	}
	if parsed, err := parseTimeString(createdRaw); err == nil {
		rep.CreatedAt = parsed
	}
	if parsed, err := parseTimeString(updatedRaw); err == nil {
		rep.UpdatedAt = parsed
	}
	return rep, nil
}
