package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach /shutdown (needs
// srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	hh := HealthHandler{App: d.App}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Jobs
	jh := JobsHandler{App: d.App, AI: d.AI}
	mux.HandleFunc("/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))
	mux.HandleFunc("/jobs/refresh", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: jh.Refresh,
	}))
	mux.HandleFunc("/jobs/external", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: jh.AddExternal,
	}))
	mux.HandleFunc("/jobs/", jh.ByPath) // /jobs/{id}[/apply|enrich|alumni]

	// Notifications
	nh := NotificationsHandler{App: d.App}
	mux.HandleFunc("/notifications", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: nh.List,
	}))
	mux.HandleFunc("/notifications/action", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: nh.Action,
	}))
	mux.HandleFunc("/notifications/", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: nh.ByPath, // /notifications/{id}/dismiss or .../action
	}))

	// Missions
	mh := MissionsHandler{App: d.App}
	mux.HandleFunc("/missions", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: mh.Get,
	}))
	mux.HandleFunc("/missions/progress", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: mh.Progress,
	}))
	mux.HandleFunc("/missions/claim", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: mh.Claim,
	}))
	mux.HandleFunc("/missions/reset", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: mh.Reset,
	}))

	// Inbox scan
	sch := ScanHandler{
		App:        d.App,
		CfgVal:     d.CfgVal,
		ScanStatus: d.ScanStatus,
		Hub:        d.Hub,
		Scanner:    d.Scanner,
	}
	mux.HandleFunc("/scan", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sch.Run,
	}))
	mux.HandleFunc("/scan/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sch.Status,
	}))

	// Generated assets
	ah := AssistHandler{App: d.App, AI: d.AI}
	mux.HandleFunc("/assist/cv", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.TailorCV,
	}))
	mux.HandleFunc("/assist/cover-letter", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.TailorCoverLetter,
	}))
	mux.HandleFunc("/assist/interview-tips", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.InterviewTips,
	}))
	mux.HandleFunc("/assist/follow-up-email", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.FollowUpEmail,
	}))
	mux.HandleFunc("/assist/outreach", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.Outreach,
	}))
	mux.HandleFunc("/assist/networking-tools", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.NetworkingTools,
	}))
	mux.HandleFunc("/assist/starter-pins", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.StarterPins,
	}))
	mux.HandleFunc("/assist/profile", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.AnalyzeProfile,
	}))

	// Profile, pins, contacts
	ph := ProfileHandler{App: d.App}
	mux.HandleFunc("/profile", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.Get,
		http.MethodPut: ph.Put,
	}))
	mux.HandleFunc("/profile/onboarding/complete", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ph.CompleteOnboarding,
	}))

	pih := PinsHandler{App: d.App}
	mux.HandleFunc("/pins", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  pih.List,
		http.MethodPost: pih.Add,
	}))
	mux.HandleFunc("/pins/", methodMux(map[string]http.HandlerFunc{
		http.MethodDelete: pih.DeleteByPath, // expects /pins/{id}
	}))

	coh := ContactsHandler{App: d.App}
	mux.HandleFunc("/contacts", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  coh.List,
		http.MethodPost: coh.Add,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	seh := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/api/secrets/imap", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: seh.SetIMAPPassword,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// DB maintenance
	dbh := DBHandler{DB: d.DB}
	mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dbh.Checkpoint,
	}))

	// Debug clocks
	dh := DebugHandler{App: d.App}
	mux.HandleFunc("/debug/backdate", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dh.Backdate,
	}))
	mux.HandleFunc("/debug/deadline", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dh.SetDeadline,
	}))

	return mux
}
