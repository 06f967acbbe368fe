package daemon

import (
	"time"

	"reclaim/internal/notify"
	"reclaim/internal/report"
	"reclaim/internal/workflow"
)

// Wire types for the daemon API. Field names follow the persisted record
// shapes so back-office tooling sees one vocabulary.

type personalInfoPayload struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
}

type imagePayload struct {
	URL  string `json:"url"`
	Data []byte `json:"data,omitempty"`
}

type submitRequest struct {
	Kind          string              `json:"kind"`
	ItemID        string              `json:"itemId,omitempty"`
	ReporterUID   string              `json:"reporterUid"`
	ItemName      string              `json:"itemName"`
	Category      string              `json:"category"`
	Description   string              `json:"description"`
	LocationLabel string              `json:"locationLabel"`
	DateOfEvent   time.Time           `json:"dateOfEvent"`
	PersonalInfo  personalInfoPayload `json:"personalInfo"`
	Images        []imagePayload      `json:"images"`
}

type reportPayload struct {
	ItemID        string              `json:"itemId"`
	Kind          string              `json:"kind"`
	ReporterUID   string              `json:"reporterUid"`
	ItemName      string              `json:"itemName"`
	Category      string              `json:"category"`
	Description   string              `json:"description"`
	Images        []string            `json:"images"`
	LocationLabel string              `json:"locationLabel"`
	DateOfEvent   time.Time           `json:"dateOfEvent"`
	PersonalInfo  personalInfoPayload `json:"personalInfoSnapshot"`
	ClaimStatus   string              `json:"claimStatus"`
	Archived      bool                `json:"archived"`
	Status        string              `json:"status"`
	CreatedAt     time.Time           `json:"createdAt"`
}

type outcomePayload struct {
	UID        string `json:"uid"`
	Type       string `json:"type"`
	Delivered  bool   `json:"delivered"`
	Skipped    bool   `json:"skipped,omitempty"`
	SkipReason string `json:"skipReason,omitempty"`
	EmailError string `json:"emailError,omitempty"`
}

type submitResponse struct {
	Report           reportPayload    `json:"report"`
	RunID            string           `json:"runId,omitempty"`
	FlaggedImages    int              `json:"flaggedImages"`
	MatchingDegraded bool             `json:"matchingDegraded"`
	MatchCount       int              `json:"matchCount"`
	Notifications    []outcomePayload `json:"notifications"`
}

type verifyResponse struct {
	ItemID            string           `json:"itemId"`
	AlreadyPosted     bool             `json:"alreadyPosted"`
	ManagementUpdated int64            `json:"managementUpdated"`
	Notifications     []outcomePayload `json:"notifications"`
}

type notificationPayload struct {
	ID        string    `json:"id"`
	UID       string    `json:"uid"`
	ItemID    string    `json:"itemId,omitempty"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"timestamp"`
}

type runPayload struct {
	ID             string `json:"id"`
	ItemID         string `json:"itemId"`
	ReportWritten  bool   `json:"reportWritten"`
	MatchesWritten bool   `json:"matchesWritten"`
	NotifyDone     bool   `json:"notifyDone"`
	NotifyTotal    int    `json:"notifyTotal"`
	NotifyFailed   int    `json:"notifyFailed"`
	LastError      string `json:"lastError,omitempty"`
}

func toReportPayload(rep *report.Report) reportPayload {
	return reportPayload{
		ItemID:        rep.ItemID,
		Kind:          string(rep.Kind),
		ReporterUID:   rep.ReporterUID,
		ItemName:      rep.ItemName,
		Category:      rep.Category,
		Description:   rep.Description,
		Images:        rep.Images,
		LocationLabel: rep.LocationLabel,
		DateOfEvent:   rep.DateOfEvent,
		PersonalInfo:  personalInfoPayload(rep.PersonalInfo),
		ClaimStatus:   string(rep.ClaimStatus),
		Archived:      rep.Archived,
		Status:        string(rep.Status),
		CreatedAt:     rep.CreatedAt,
	}
}

func toOutcomePayloads(outcomes []notify.Outcome) []outcomePayload {
	payloads := make([]outcomePayload, 0, len(outcomes))
	for _, o := range outcomes {
		p := outcomePayload{
			UID:        o.UID,
			Type:       o.Type,
			Delivered:  o.Delivered(),
			Skipped:    o.Skipped,
			SkipReason: o.SkipReason,
		}
		if o.EmailErr != nil {
			p.EmailError = o.EmailErr.Error()
		}
		payloads = append(payloads, p)
	}
	return payloads
}

func toSubmitResponse(result *workflow.SubmitResult) submitResponse {
	resp := submitResponse{
		Report:           toReportPayload(result.Report),
		FlaggedImages:    result.FlaggedImages,
		MatchingDegraded: result.MatchingDegraded,
		MatchCount:       len(result.Matches),
		Notifications:    toOutcomePayloads(result.Notifications),
	}
	if result.Run != nil {
		resp.RunID = result.Run.ID
	}
	return resp
}

func toVerifyResponse(outcome *workflow.VerificationOutcome) verifyResponse {
	return verifyResponse{
		ItemID:            outcome.ItemID,
		AlreadyPosted:     outcome.AlreadyPosted,
		ManagementUpdated: outcome.ManagementUpdated,
		Notifications:     toOutcomePayloads(outcome.Notifications),
	}
}

func toNotificationPayloads(records []*report.NotificationRecord) []notificationPayload {
	payloads := make([]notificationPayload, 0, len(records))
	for _, r := range records {
		payloads = append(payloads, notificationPayload{
			ID:        r.ID,
			UID:       r.UID,
			ItemID:    r.ItemID,
			Message:   r.Message,
			Type:      r.Type,
			Read:      r.Read,
			CreatedAt: r.CreatedAt,
		})
	}
	return payloads
}

func toRunPayload(run *report.IntakeRun) runPayload {
	return runPayload{
		ID:             run.ID,
		ItemID:         run.ItemID,
		ReportWritten:  run.ReportWritten,
		MatchesWritten: run.MatchesWritten,
		NotifyDone:     run.NotifyDone,
		NotifyTotal:    run.NotifyTotal,
		NotifyFailed:   run.NotifyFailed,
		LastError:      run.LastError,
	}
}
