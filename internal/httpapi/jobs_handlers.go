package httpapi

import (
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"carvis-engine/internal/ai"
	"carvis-engine/internal/domain"
	"carvis-engine/internal/track"
)

type JobsHandler struct {
	App *track.App
	AI  *ai.Client
}

// List serves the job feeds. With no kind filter it returns all three
// lists so the UI can hydrate in one round trip.
func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("kind") {
	case "":
		writeJSON(w, map[string]any{
			"curated":  h.App.CuratedJobs(),
			"all":      h.App.AllJobs(),
			"external": h.App.ExternalJobs(),
		})
	case "curated":
		writeJSON(w, h.App.CuratedJobs())
	case "all":
		writeJSON(w, h.App.AllJobs())
	case "external":
		writeJSON(w, h.App.ExternalJobs())
	default:
		WriteError(w, r, http.StatusBadRequest, "bad_kind", "kind must be curated, all, or external")
	}
}

// Refresh regenerates both feeds from the provider. Curated and discover
// calls run concurrently; either failing fails the refresh.
func (h JobsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.AI == nil {
		WriteError(w, r, http.StatusServiceUnavailable, "ai_unavailable", "ai provider is not configured")
		return
	}

	user := h.App.User()
	var curated, all []domain.Job

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		curated, err = h.AI.CuratedJobs(ctx, user)
		return err
	})
	g.Go(func() error {
		var err error
		all, err = h.AI.DiscoverJobs(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		WriteError(w, r, http.StatusBadGateway, "refresh_failed", err.Error())
		return
	}

	h.App.SetJobLists(curated, all)
	writeJSON(w, map[string]any{"curated": curated, "all": all})
}

// AddExternal logs a job applied to outside the app.
func (h JobsHandler) AddExternal(w http.ResponseWriter, r *http.Request) {
	var j domain.Job
	if err := decodeJSON(r, &j); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	if strings.TrimSpace(j.Company) == "" || strings.TrimSpace(j.Title) == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_fields", "company and title are required")
		return
	}
	writeJSON(w, h.App.AddExternalJob(r.Context(), j))
}

// ByPath routes /jobs/{id} and /jobs/{id}/{apply|enrich|alumni}.
func (h JobsHandler) ByPath(w http.ResponseWriter, r *http.Request) {
	id, action := pathParts(r.URL.Path, "/jobs/")
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_id", "job id is required")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		job, ok := h.App.Job(id)
		if !ok {
			WriteError(w, r, http.StatusNotFound, "not_found", "unknown job "+id)
			return
		}
		writeJSON(w, job)

	case action == "apply" && r.Method == http.MethodPost:
		if _, ok := h.App.Job(id); !ok {
			WriteError(w, r, http.StatusNotFound, "not_found", "unknown job "+id)
			return
		}
		h.App.Apply(r.Context(), id)
		w.WriteHeader(http.StatusNoContent)

	case action == "enrich" && r.Method == http.MethodPost:
		h.enrich(w, r, id)

	case action == "alumni" && r.Method == http.MethodPost:
		h.alumni(w, r, id)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h JobsHandler) enrich(w http.ResponseWriter, r *http.Request, id string) {
	if h.AI == nil {
		WriteError(w, r, http.StatusServiceUnavailable, "ai_unavailable", "ai provider is not configured")
		return
	}
	job, ok := h.App.Job(id)
	if !ok {
		WriteError(w, r, http.StatusNotFound, "not_found", "unknown job "+id)
		return
	}
	if job.CompanyInfo != "" {
		// Already enriched; serve the cached version.
		writeJSON(w, job)
		return
	}

	e := h.AI.EnrichJob(r.Context(), job)
	job.CompanyInfo = e.CompanyInfo
	job.CompanyNews = e.CompanyNews
	job.IndustryNews = e.IndustryNews
	job.RecruiterContact = e.RecruiterContact
	h.App.UpdateJob(job)
	writeJSON(w, job)
}

func (h JobsHandler) alumni(w http.ResponseWriter, r *http.Request, id string) {
	if h.AI == nil {
		WriteError(w, r, http.StatusServiceUnavailable, "ai_unavailable", "ai provider is not configured")
		return
	}
	job, ok := h.App.Job(id)
	if !ok {
		WriteError(w, r, http.StatusNotFound, "not_found", "unknown job "+id)
		return
	}
	alumni, err := h.AI.FindAlumni(r.Context(), job)
	if err != nil {
		WriteError(w, r, http.StatusBadGateway, "alumni_failed", err.Error())
		return
	}
	writeJSON(w, map[string]any{"alumni": alumni})
}
