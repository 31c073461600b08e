package httpapi

import (
	"net/http"

	"carvis-engine/internal/domain"
	"carvis-engine/internal/track"
)

type NotificationsHandler struct {
	App *track.App
}

func (h NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"notifications": h.App.Notifications()})
}

// ByPath handles POST /notifications/{id}/{dismiss|action}.
func (h NotificationsHandler) ByPath(w http.ResponseWriter, r *http.Request) {
	id, action := pathParts(r.URL.Path, "/notifications/")
	switch {
	case id != "" && action == "dismiss":
		h.App.Dismiss(r.Context(), id)
		w.WriteHeader(http.StatusNoContent)
	case id != "" && action == "action":
		var cmd domain.Command
		if err := decodeJSON(r, &cmd); err != nil {
			WriteError(w, r, http.StatusBadRequest, "bad_json", err.Error())
			return
		}
		cmd.NotificationID = id
		h.dispatch(w, r, cmd)
	default:
		WriteError(w, r, http.StatusNotFound, "not_found", "unknown notifications path")
	}
}

// Action runs a notification's attached command through the reducer and
// returns whatever the command resolved to.
func (h NotificationsHandler) Action(w http.ResponseWriter, r *http.Request) {
	var cmd domain.Command
	if err := decodeJSON(r, &cmd); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	h.dispatch(w, r, cmd)
}

func (h NotificationsHandler) dispatch(w http.ResponseWriter, r *http.Request, cmd domain.Command) {
	res, err := h.App.Dispatch(r.Context(), cmd)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_command", err.Error())
		return
	}
	writeJSON(w, res)
}
