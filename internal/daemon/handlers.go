package daemon

import (
	"encoding/json"
	"net/http"
	"strings"

	"reclaim/internal/report"
	"reclaim/internal/workflow"
)

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	pendingFound, err := s.daemon.store.ListPending(r.Context(), report.KindFound)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"running":      s.daemon.running.Load(),
		"databasePath": s.daemon.store.Path(),
		"pendingFound": len(pendingFound),
	})
}

func (s *apiServer) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	kind, err := report.ParseKind(req.Kind)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	images := make([]workflow.SubmitImage, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, workflow.SubmitImage{URL: img.URL, Data: img.Data})
	}

	result, err := s.daemon.intake.Submit(r.Context(), workflow.Submission{
		Kind:          kind,
		ItemID:        req.ItemID,
		ReporterUID:   req.ReporterUID,
		ItemName:      req.ItemName,
		Category:      req.Category,
		Description:   req.Description,
		LocationLabel: req.LocationLabel,
		DateOfEvent:   req.DateOfEvent,
		PersonalInfo:  report.PersonalInfo(req.PersonalInfo),
		Images:        images,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toSubmitResponse(result))
}

// handleReport serves GET /api/reports/{kind}/{itemId}.
func (s *apiServer) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/reports/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		s.writeError(w, http.StatusBadRequest, "expected /api/reports/{kind}/{itemId}")
		return
	}
	var rep *report.Report
	if parts[0] == "any" {
		found, err := s.daemon.store.FindReport(r.Context(), parts[1])
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		rep = found
	} else {
		kind, err := report.ParseKind(parts[0])
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		found, err := s.daemon.store.GetReport(r.Context(), kind, parts[1])
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		rep = found
	}
	if rep == nil {
		s.writeError(w, http.StatusNotFound, "no such report")
		return
	}
	s.writeJSON(w, http.StatusOK, toReportPayload(rep))
}

func (s *apiServer) handlePending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	kind := report.KindFound
	if raw := r.URL.Query().Get("kind"); raw != "" {
		parsed, err := report.ParseKind(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		kind = parsed
	}

	reports, err := s.daemon.store.ListPending(r.Context(), kind)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	payloads := make([]reportPayload, 0, len(reports))
	for _, rep := range reports {
		payloads = append(payloads, toReportPayload(rep))
	}
	s.writeJSON(w, http.StatusOK, payloads)
}

// handleItemAction serves POST /api/items/{itemId}/{verify|claim|cancel|archive}
// and GET /api/items/{itemId}/run.
func (s *apiServer) handleItemAction(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/items/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		s.writeError(w, http.StatusBadRequest, "expected /api/items/{itemId}/{action}")
		return
	}
	itemID, action := parts[0], parts[1]

	if action == "run" {
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		run, err := s.daemon.store.LatestIntakeRun(r.Context(), itemID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if run == nil {
			s.writeError(w, http.StatusNotFound, "no intake run for item")
			return
		}
		s.writeJSON(w, http.StatusOK, toRunPayload(run))
		return
	}

	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	switch action {
	case "verify":
		outcome, err := s.daemon.verifier.Verify(r.Context(), itemID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, toVerifyResponse(outcome))
	case "claim":
		var body struct {
			ProofNote string `json:"proofNote"`
		}
		// Body is optional for claims.
		_ = json.NewDecoder(r.Body).Decode(&body)
		result, err := s.daemon.machine.Claim(r.Context(), itemID, body.ProofNote)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{
			"itemId":         itemID,
			"alreadyClaimed": result.AlreadyClaimed,
			"claimStatus":    string(result.Report.ClaimStatus),
		})
	case "cancel":
		if err := s.daemon.machine.Cancel(r.Context(), itemID); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"itemId": itemID, "status": string(report.StatusCancelled)})
	case "archive":
		if err := s.daemon.machine.Archive(r.Context(), itemID); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"itemId": itemID, "archived": true})
	default:
		s.writeError(w, http.StatusNotFound, "unknown item action "+action)
	}
}

// handleInbox serves GET /api/inbox/{uid} and POST /api/inbox/{uid}/read.
func (s *apiServer) handleInbox(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/inbox/"), "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		records, err := s.daemon.store.NotificationsForUID(r.Context(), parts[0])
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, toNotificationPayloads(records))
	case len(parts) == 2 && parts[1] == "read":
		if r.Method != http.MethodPost {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		updated, err := s.daemon.store.MarkAllNotificationsRead(r.Context(), parts[0])
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"uid": parts[0], "marked": updated})
	default:
		s.writeError(w, http.StatusBadRequest, "expected /api/inbox/{uid} or /api/inbox/{uid}/read")
	}
}
