package httpapi

import (
	"net/http"
	"strings"

	"carvis-engine/internal/domain"
	"carvis-engine/internal/track"
)

type ProfileHandler struct {
	App *track.App
}

func (h ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"user":      h.App.User(),
		"onboarded": h.App.Onboarded(),
	})
}

func (h ProfileHandler) Put(w http.ResponseWriter, r *http.Request) {
	var u domain.User
	if err := decodeJSON(r, &u); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	h.App.SetUser(r.Context(), u)
	writeJSON(w, u)
}

// CompleteOnboarding stores the assembled profile and unlocks the rest of
// the app.
func (h ProfileHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	var u domain.User
	if err := decodeJSON(r, &u); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	if strings.TrimSpace(u.Name) == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_fields", "name is required")
		return
	}
	h.App.CompleteOnboarding(r.Context(), u)
	writeJSON(w, map[string]any{"user": u, "onboarded": true})
}

type PinsHandler struct {
	App *track.App
}

func (h PinsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"pins": h.App.Pins()})
}

func (h PinsHandler) Add(w http.ResponseWriter, r *http.Request) {
	var p domain.Pin
	if err := decodeJSON(r, &p); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	if strings.TrimSpace(p.Title) == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_fields", "title is required")
		return
	}
	writeJSON(w, h.App.AddPin(r.Context(), p))
}

// DeleteByPath handles DELETE /pins/{id}.
func (h PinsHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	id, _ := pathParts(r.URL.Path, "/pins/")
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_id", "pin id is required")
		return
	}
	h.App.DeletePin(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

type ContactsHandler struct {
	App *track.App
}

func (h ContactsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"contacts": h.App.Contacts()})
}

func (h ContactsHandler) Add(w http.ResponseWriter, r *http.Request) {
	var c domain.NetworkContact
	if err := decodeJSON(r, &c); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	if strings.TrimSpace(c.Name) == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_fields", "name is required")
		return
	}
	writeJSON(w, h.App.AddContact(r.Context(), c))
}
