// Package report defines the domain model shared across the reclaim
// collections: item reports, management records, match results, notification
// records, and the closed status vocabulary with its single normalization
// point.
package report
