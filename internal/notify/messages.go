package notify

import (
	"fmt"

	"reclaim/internal/report"
)

// Notification messages use a <b> inline-emphasis convention consumed by the
// in-app inbox renderer.

func candidateMessage(lost *report.Report, match report.MatchResult) string {
	return fmt.Sprintf(
		"Someone reported losing <b>%s</b> near %s. It scored %d%% against the item you found. Please review your matches.",
		lost.ItemName, lost.LocationLabel, match.Scores.OverallScore,
	)
}

func likelyMatchMessage(lost *report.Report, best report.MatchResult) string {
	return fmt.Sprintf(
		"We found a likely match for your lost item <b>%s</b> (match %s, %d%%). We will notify you once it is verified.",
		lost.ItemName, best.TransactionID, best.Scores.OverallScore,
	)
}

func matchPostedMessage(found *report.Report, match report.MatchResult) string {
	return fmt.Sprintf(
		"A found item matching your lost report <b>%s</b> has been verified and posted (%d%%). Visit the %s Items desk to continue.",
		match.Counterpart.ItemName, match.Scores.OverallScore, found.Kind.Label(),
	)
}

func itemPostedMessage(found *report.Report) string {
	return fmt.Sprintf(
		"Your found item <b>%s</b> has been verified and is now posted.",
		found.ItemName,
	)
}

// ExpiryMessage is the back-office flag for a found item whose pending window
// lapsed without verification.
func ExpiryMessage(record *report.ManagementRecord) string {
	return fmt.Sprintf(
		"%s item <b>%s</b> is still pending past its review window.",
		record.Kind.Label(), record.ItemID,
	)
}

func subjectFor(notificationType string) string {
	switch notificationType {
	case report.NotificationMatchCandidate:
		return "Lost & Found: possible match for an item you found"
	case report.NotificationLikelyMatch:
		return "Lost & Found: likely match for your lost item"
	case report.NotificationMatchPosted:
		return "Lost & Found: a matching found item was posted"
	case report.NotificationItemPosted:
		return "Lost & Found: your found item is posted"
	case report.NotificationExpiryFlagged:
		return "Lost & Found: pending item past review window"
	default:
		return "Lost & Found notification"
	}
}
