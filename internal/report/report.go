package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind distinguishes the two report collections.
type Kind string

const (
	KindLost  Kind = "lost"
	KindFound Kind = "found"
)

// ParseKind normalizes a raw kind value.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "lost":
		return KindLost, nil
	case "found":
		return KindFound, nil
	default:
		return "", fmt.Errorf("unknown report kind %q", value)
	}
}

// Opposite returns the collection searched for matches against this kind.
func (k Kind) Opposite() Kind {
	if k == KindLost {
		return KindFound
	}
	return KindLost
}

var titleCaser = cases.Title(language.English)

// Label returns the display form of the kind ("Lost" / "Found").
func (k Kind) Label() string {
	return titleCaser.String(string(k))
}

// Status represents the lifecycle of an item report.
//
// Found items move pending -> posted, with cancelled reachable only from
// pending. Lost items are posted immediately. Claiming does not change
// status; it flips ClaimStatus while status stays posted.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPosted    Status = "posted"
	StatusCancelled Status = "cancelled"
)

// ParseStatus is the single normalization point for persisted status values.
// Historical rows carry mixed casing ("pending" / "Pending"), so comparison is
// case-insensitive everywhere and raw strings must never be compared directly.
func ParseStatus(value string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "pending":
		return StatusPending, nil
	case "posted":
		return StatusPosted, nil
	case "cancelled", "canceled":
		return StatusCancelled, nil
	default:
		return "", fmt.Errorf("unknown report status %q", value)
	}
}

// StatusEqual compares a raw persisted value against a canonical status.
func StatusEqual(raw string, status Status) bool {
	parsed, err := ParseStatus(raw)
	return err == nil && parsed == status
}

// InitialStatus returns the status assigned at submission per item kind.
func InitialStatus(kind Kind) Status {
	if kind == KindFound {
		return StatusPending
	}
	return StatusPosted
}

// ClaimStatus tracks whether an item has been returned to its owner.
// It is an axis independent of Status.
type ClaimStatus string

const (
	ClaimUnclaimed ClaimStatus = "unclaimed"
	ClaimClaimed   ClaimStatus = "claimed"
)

// PersonalInfo is the denormalized reporter profile captured at submission
// time. It is intentionally not kept in sync with later profile edits.
type PersonalInfo struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
}

// Report is a single lost-or-found item submission.
type Report struct {
	ItemID        string
	Kind          Kind
	ReporterUID   string
	ItemName      string
	Category      string
	Description   string
	Images        []string
	LocationLabel string
	DateOfEvent   time.Time
	PersonalInfo  PersonalInfo
	ClaimStatus   ClaimStatus
	ProofNote     string
	Archived      bool
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate enforces the required-field set checked before any persistence.
func (r *Report) Validate() error {
	var missing []string
	if strings.TrimSpace(r.ItemName) == "" {
		missing = append(missing, "item name")
	}
	if r.DateOfEvent.IsZero() {
		missing = append(missing, "date of event")
	}
	if strings.TrimSpace(r.LocationLabel) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(r.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(r.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if len(r.Images) == 0 {
		return errors.New("at least one image is required")
	}
	if strings.TrimSpace(r.ReporterUID) == "" {
		return errors.New("reporter uid is required")
	}
	return nil
}

// Snapshot captures the subset of a counterpart report frozen into a match.
// It is a copy, not a reference; later edits to the source report do not
// propagate here.
type Snapshot struct {
	ItemID        string       `json:"itemId"`
	Kind          Kind         `json:"kind"`
	ReporterUID   string       `json:"reporterUid"`
	ItemName      string       `json:"itemName"`
	Category      string       `json:"category"`
	Images        []string     `json:"images"`
	LocationLabel string       `json:"locationLabel"`
	DateOfEvent   time.Time    `json:"dateOfEvent"`
	PersonalInfo  PersonalInfo `json:"personalInfoSnapshot"`
}

// SnapshotOf freezes a report into a Snapshot.
func SnapshotOf(r *Report) Snapshot {
	images := make([]string, len(r.Images))
	copy(images, r.Images)
	return Snapshot{
		ItemID:        r.ItemID,
		Kind:          r.Kind,
		ReporterUID:   r.ReporterUID,
		ItemName:      r.ItemName,
		Category:      r.Category,
		Images:        images,
		LocationLabel: r.LocationLabel,
		DateOfEvent:   r.DateOfEvent,
		PersonalInfo:  r.PersonalInfo,
	}
}

// MatchScores are the integer 0-100 scores produced by the matching service.
// OverallScore is the sole input to fan-out threshold decisions.
type MatchScores struct {
	OverallScore     int `json:"overallScore"`
	DescriptionScore int `json:"descriptionScore"`
	ImageScore       int `json:"imageScore"`
}

// MatchResult is one scored pairing between a lost and a found report.
// Immutable once produced.
type MatchResult struct {
	TransactionID string      `json:"transactionId"`
	Counterpart   Snapshot    `json:"counterpartItem"`
	Scores        MatchScores `json:"scores"`
}

// SortMatches orders matches by overall score, highest first. The sort is
// stable so service-provided ordering breaks ties.
func SortMatches(matches []MatchResult) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Scores.OverallScore > matches[j].Scores.OverallScore
	})
}

// TopMatches returns the best matches by overall score, at most limit.
func TopMatches(matches []MatchResult, limit int) []MatchResult {
	ordered := make([]MatchResult, len(matches))
	copy(ordered, matches)
	SortMatches(ordered)
	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return ordered
}

// HighestScore returns the best overall score in a match list, zero when empty.
func HighestScore(matches []MatchResult) int {
	best := 0
	for _, m := range matches {
		if m.Scores.OverallScore > best {
			best = m.Scores.OverallScore
		}
	}
	return best
}

// ManagementRecord is the denormalized back-office summary of a report plus
// its computed matches, keyed by the same item identifier.
type ManagementRecord struct {
	ID                  int64
	ItemID              string
	Kind                Kind
	Status              Status
	TopMatches          []MatchResult
	HighestMatchingRate int
	ExpiryTime          *time.Time
	Archived            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Notification types written by the fan-out and the daemon sweeper.
const (
	NotificationMatchCandidate = "match_candidate"
	NotificationLikelyMatch    = "likely_match"
	NotificationMatchPosted    = "match_posted"
	NotificationItemPosted     = "item_posted"
	NotificationExpiryFlagged  = "expiry_flagged"
)

// NotificationRecord is the in-app notification written per recipient. It is
// the source of truth for fan-out; email delivery is best-effort on top.
type NotificationRecord struct {
	ID        string
	UID       string
	ItemID    string
	Message   string
	Type      string
	Read      bool
	CreatedAt time.Time
}

// IntakeRun tracks which steps of a submission completed, so partial
// completion is queryable instead of silently drifting between collections.
type IntakeRun struct {
	ID             string
	ItemID         string
	ReportWritten  bool
	MatchesWritten bool
	NotifyDone     bool
	NotifyTotal    int
	NotifyFailed   int
	LastError      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
