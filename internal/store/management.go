package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"reclaim/internal/identity"
	"reclaim/internal/report"
)

const managementColumns = "id, item_id, kind, status, top_matches_json, highest_matching_rate, expiry_time, archived, created_at, updated_at"

// CreateManagementRecord persists the denormalized back-office summary
// written after the matching call completes.
func (s *Store) CreateManagementRecord(ctx context.Context, record *report.ManagementRecord) error {
	ctx = ensureContext(ctx)
	if record == nil {
		return fmt.Errorf("nil management record")
	}
	if record.ItemID == "" {
		return fmt.Errorf("management record requires an item id")
	}

	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	matchesJSON, err := json.Marshal(record.TopMatches)
	if err != nil {
		return fmt.Errorf("encode top matches: %w", err)
	}

	res, err := s.execWithRetry(ctx,
		`INSERT INTO management_records (
            item_id, kind, status, top_matches_json, highest_matching_rate,
            expiry_time, archived, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ItemID,
		string(record.Kind),
		string(record.Status),
		string(matchesJSON),
		record.HighestMatchingRate,
		nullableTime(record.ExpiryTime),
		boolToInt(record.Archived),
		formatTime(record.CreatedAt),
		formatTime(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert management record: %w", err)
	}
	record.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert management record: %w", err)
	}
	return nil
}

// ManagementRecordsByItem returns every non-archived management record
// sharing the item identifier. The contract is at most one per item, but
// duplicates are returned so transitions can repair all of them.
func (s *Store) ManagementRecordsByItem(ctx context.Context, itemID string) ([]*report.ManagementRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+managementColumns+` FROM management_records
         WHERE item_id = ? AND archived = 0
         ORDER BY id ASC`,
		identity.Normalize(itemID),
	)
	if err != nil {
		return nil, fmt.Errorf("list management records: %w", err)
	}
	defer rows.Close()

	var records []*report.ManagementRecord
	for rows.Next() {
		record, err := scanManagementRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan management record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate management records: %w", err)
	}
	return records, nil
}

// UpdateManagementStatus writes a new status onto every management record
// with the item identifier and returns how many rows changed.
func (s *Store) UpdateManagementStatus(ctx context.Context, itemID string, status report.Status) (int64, error) {
	res, err := s.execWithRetry(ctx,
		`UPDATE management_records SET status = ?, updated_at = ? WHERE item_id = ?`,
		string(status),
		formatTime(time.Now().UTC()),
		identity.Normalize(itemID),
	)
	if err != nil {
		return 0, fmt.Errorf("update management status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update management status: %w", err)
	}
	return affected, nil
}

// ArchiveManagementRecords sets the archived overlay on every record for the
// item. Idempotent.
func (s *Store) ArchiveManagementRecords(ctx context.Context, itemID string) error {
	_, err := s.execWithRetry(ctx,
		`UPDATE management_records SET archived = 1, updated_at = ? WHERE item_id = ?`,
		formatTime(time.Now().UTC()),
		identity.Normalize(itemID),
	)
	if err != nil {
		return fmt.Errorf("archive management records: %w", err)
	}
	return nil
}

// ListExpiredPending returns non-archived management records still pending
// past their expiry time.
func (s *Store) ListExpiredPending(ctx context.Context, now time.Time) ([]*report.ManagementRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+managementColumns+` FROM management_records
         WHERE LOWER(status) = ? AND archived = 0
           AND expiry_time IS NOT NULL AND expiry_time < ?
         ORDER BY expiry_time ASC`,
		string(report.StatusPending),
		formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("list expired pending: %w", err)
	}
	defer rows.Close()

	var records []*report.ManagementRecord
	for rows.Next() {
		record, err := scanManagementRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan management record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expired pending: %w", err)
	}
	return records, nil
}

func scanManagementRecord(scanner interface{ Scan(dest ...any) error }) (*report.ManagementRecord, error) {
	var (
		id          int64
		itemID      string
		kindStr     string
		statusRaw   string
		matchesJSON string
		highest     int
		expiryRaw   sql.NullString
		archived    int
		createdRaw  string
		updatedRaw  string
	)

	if err := scanner.Scan(
		&id,
		&itemID,
		&kindStr,
		&statusRaw,
		&matchesJSON,
		&highest,
		&expiryRaw,
		&archived,
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

	record := &report.ManagementRecord{
		ID:                  id,
		ItemID:              itemID,
		Kind:                kind,
		Status:              status,
		HighestMatchingRate: highest,
		Archived:            archived != 0,
	}

	if err := json.Unmarshal([]byte(matchesJSON), &record.TopMatches); err != nil {
		return nil, fmt.Errorf("decode top matches: %w", err)
	}

	if expiryRaw.Valid {
		if parsed, err := parseTimeString(expiryRaw.String); err == nil {
			record.ExpiryTime = &parsed
		}
	}
	if parsed, err := parseTimeString(createdRaw); err == nil {
		record.CreatedAt = parsed
	}
	if parsed, err := parseTimeString(updatedRaw); err == nil {
		record.UpdatedAt = parsed
	}
	return record, nil
}
