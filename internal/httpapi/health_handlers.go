package httpapi

import (
	"net/http"
	"time"

	"carvis-engine/internal/track"
)

type HealthHandler struct {
	App *track.App
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"ok":        true,
		"onboarded": h.App.Onboarded(),
		"time":      time.Now().Format(time.RFC3339),
	})
}
