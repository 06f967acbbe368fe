package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"reclaim/internal/identity"
	"reclaim/internal/report"
)

const notificationColumns = "id, uid, item_id, message, type, read, created_at"

// AddNotification persists one in-app notification record. The record is
// never mutated by the orchestrator after creation; only the recipient marks
// it read.
func (s *Store) AddNotification(ctx context.Context, record *report.NotificationRecord) error {
	ctx = ensureContext(ctx)
	if record == nil {
		return fmt.Errorf("nil notification")
	}
	if record.UID == "" {
		return fmt.Errorf("notification requires a recipient uid")
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.execWithRetry(ctx,
		`INSERT INTO notifications (`+notificationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.UID,
		nullableString(record.ItemID),
		record.Message,
		record.Type,
		boolToInt(record.Read),
		formatTime(record.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// NotificationsForUID returns a recipient's notifications, unread first,
// newest within each group.
func (s *Store) NotificationsForUID(ctx context.Context, uid string) ([]*report.NotificationRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications
         WHERE uid = ?
         ORDER BY read ASC, created_at DESC`,
		uid,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var records []*report.NotificationRecord
	for rows.Next() {
		record, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return records, nil
}

// MarkNotificationRead flags one record as read.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := s.execWithRetry(ctx,
		`UPDATE notifications SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// MarkAllNotificationsRead flags every record for a recipient as read,
// returning how many changed. Used by the inbox-open bulk action.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, uid string) (int64, error) {
	res, err := s.execWithRetry(ctx,
		`UPDATE notifications SET read = 1 WHERE uid = ? AND read = 0`, uid)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return affected, nil
}

// HasNotification reports whether a recipient already holds a notification of
// the given type for an item. Used to deduplicate sweeper flags.
func (s *Store) HasNotification(ctx context.Context, uid, itemID, notificationType string) (bool, error) {
	ctx = ensureContext(ctx)
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM notifications WHERE uid = ? AND item_id = ? AND type = ?`,
		uid, identity.Normalize(itemID), notificationType,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check notification: %w", err)
	}
	return count > 0, nil
}

// CountNotifications returns total and unread counts for a recipient.
func (s *Store) CountNotifications(ctx context.Context, uid string) (total, unread int, err error) {
	ctx = ensureContext(ctx)
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(SUM(CASE WHEN read = 0 THEN 1 ELSE 0 END), 0)
         FROM notifications WHERE uid = ?`,
		uid,
	).Scan(&total, &unread)
	if err != nil {
		return 0, 0, fmt.Errorf("count notifications: %w", err)
	}
	return total, unread, nil
}

func scanNotification(scanner interface{ Scan(dest ...any) error }) (*report.NotificationRecord, error) {
	var (
		id         string
		uid        string
		itemID     sql.NullString
		message    string
		kind       string
		read       int
		createdRaw string
	)

	if err := scanner.Scan(&id, &uid, &itemID, &message, &kind, &read, &createdRaw); err != nil {
		return nil, err
	}

	record := &report.NotificationRecord{
		ID:      id,
		UID:     uid,
		ItemID:  itemID.String,
		Message: message,
		Type:    kind,
		Read:    read != 0,
	}
	if parsed, err := parseTimeString(createdRaw); err == nil {
		record.CreatedAt = parsed
	}
	return record, nil
}
