package httpapi

import (
	"net/http"

	"carvis-engine/internal/ai"
	"carvis-engine/internal/domain"
	"carvis-engine/internal/track"
)

// AssistHandler serves the generated career assets. Every endpoint needs
// the provider; plain-text assets come back as {"content": ...}.
type AssistHandler struct {
	App *track.App
	AI  *ai.Client
}

func (h AssistHandler) requireAI(w http.ResponseWriter, r *http.Request) bool {
	if h.AI == nil {
		WriteError(w, r, http.StatusServiceUnavailable, "ai_unavailable", "ai provider is not configured")
		return false
	}
	return true
}

type jobRef struct {
	JobID string `json:"jobId"`
}

func (h AssistHandler) job(w http.ResponseWriter, r *http.Request) (domain.Job, bool) {
	var req jobRef
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", err.Error())
		return domain.Job{}, false
	}
	job, ok := h.App.Job(req.JobID)
	if !ok {
		WriteError(w, r, http.StatusNotFound, "not_found", "unknown job "+req.JobID)
		return domain.Job{}, false
	}
	return job, true
}

func (h AssistHandler) TailorCV(w http.ResponseWriter, r *http.Request) {
	if !h.requireAI(w, r) {
		return
	}
	job, ok := h.job(w, r)
	if !ok {
		return
	}
	user := h.App.User()
	writeJSON(w, map[string]string{"content": h.AI.TailorCV(r.Context(), user.CV, job)})
}

func (h AssistHandler) TailorCoverLetter(w http.ResponseWriter, r *http.Request) {
	if !h.requireAI(w, r) {
		return
	}
	job, ok := h.job(w, r)
	if !ok {
		return
	}
	user := h.App.User()
	writeJSON(w, map[string]string{"content": h.AI.TailorCoverLetter(r.Context(), user.CoverLetter, user, job)})
}

func (h AssistHandler) InterviewTips(w http.ResponseWriter, r *http.Request) {
	if !h.requireAI(w, r) {
		return
	}
	job, ok := h.job(w, r)
	if !ok {
		return
	}
	writeJSON(w, map[string]string{"content": h.AI.InterviewTips(r.Context(), h.App.User(), job)})
}

func (h AssistHandler) FollowUpEmail(w http.ResponseWriter, r *http.Request) {
	if !h.requireAI(w, r) {
		return
	}
	job, ok := h.job(w, r)
	if !ok {
		return
	}
	writeJSON(w, map[string]string{"content": h.AI.FollowUpEmail(r.Context(), h.App.User(), job)})
}

type outreachReq struct {
	Alum domain.Alum `json:"alum"`
}

func (h AssistHandler) Outreach(w http.ResponseWriter, r *http.Request) {
	if !h.requireAI(w, r) {
		return
	}
	var req outreachReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	if req.Alum.Name == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_fields", "alum.name is required")
		return
	}
	writeJSON(w, map[string]string{"content": h.AI.OutreachMessage(r.Context(), h.App.User(), req.Alum)})
}

type networkingToolsReq struct {
	ContactID string `json:"contactId"`
}

func (h AssistHandler) NetworkingTools(w http.ResponseWriter, r *http.Request) {
	if !h.requireAI(w, r) {
		return
	}
	var req networkingToolsReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", err.Error())
		return
	}

	var contact domain.NetworkContact
	found := false
	for _, c := range h.App.Contacts() {
		if c.ID == req.ContactID {
			contact, found = c, true
			break
		}
	}
	if !found {
		WriteError(w, r, http.StatusNotFound, "not_found", "unknown contact "+req.ContactID)
		return
	}

	tools, err := h.AI.GenerateNetworkingTools(r.Context(), h.App.User(), contact)
	if err != nil {
		WriteError(w, r, http.StatusBadGateway, "generate_failed", err.Error())
		return
	}
	writeJSON(w, tools)
}

func (h AssistHandler) StarterPins(w http.ResponseWriter, r *http.Request) {
	if !h.requireAI(w, r) {
		return
	}
	pins := h.AI.StarterPins(r.Context(), h.App.User())
	if pins == nil {
		pins = []domain.Pin{}
	}
	writeJSON(w, map[string]any{"pins": pins})
}

type analyzeProfileReq struct {
	CVText string `json:"cvText"`
}

// AnalyzeProfile extracts profile fields from raw CV text during
// onboarding. Provider failure yields an empty profile, not an error.
func (h AssistHandler) AnalyzeProfile(w http.ResponseWriter, r *http.Request) {
	if !h.requireAI(w, r) {
		return
	}
	var req analyzeProfileReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	writeJSON(w, h.AI.AnalyzeProfile(r.Context(), req.CVText))
}
