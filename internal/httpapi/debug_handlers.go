package httpapi

import (
	"net/http"

	"carvis-engine/internal/track"
)

// DebugHandler rewrites tracking dates so notification rules can be
// exercised without waiting days. Loopback binding is the only guard;
// these are developer endpoints.
type DebugHandler struct {
	App *track.App
}

type backdateReq struct {
	JobID   string `json:"jobId"`
	DaysAgo int    `json:"daysAgo"`
}

func (h DebugHandler) Backdate(w http.ResponseWriter, r *http.Request) {
	var req backdateReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	if req.JobID == "" || req.DaysAgo < 0 {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "jobId and non-negative daysAgo are required")
		return
	}
	h.App.DebugBackdate(r.Context(), req.JobID, req.DaysAgo)
	writeJSON(w, map[string]any{"notifications": h.App.Notifications()})
}

type setDeadlineReq struct {
	JobID         string `json:"jobId"`
	DaysRemaining int    `json:"daysRemaining"`
}

func (h DebugHandler) SetDeadline(w http.ResponseWriter, r *http.Request) {
	var req setDeadlineReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	if req.JobID == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "jobId is required")
		return
	}
	h.App.DebugSetDeadline(r.Context(), req.JobID, req.DaysRemaining)
	writeJSON(w, map[string]any{"notifications": h.App.Notifications()})
}
