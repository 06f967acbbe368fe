// Package store persists reports, management records, notifications, and
// intake runs in SQLite. Writes retry on SQLITE_BUSY; per-row updates are the
// only atomicity boundary across collections.
package store
