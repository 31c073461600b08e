package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"carvis-engine/internal/config"
	"carvis-engine/internal/domain"
	"carvis-engine/internal/events"
	"carvis-engine/internal/inbox"
	"carvis-engine/internal/track"
)

type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) Intn(int) int     { return r.n }

type testEnv struct {
	app *track.App
	srv *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	app := track.New(track.WithHub(events.NewHub()))
	app.SetJobLists(
		[]domain.Job{{ID: "c1", Company: "Acme", Title: "PM", Deadline: domain.DeadlineUnknown}},
		[]domain.Job{{ID: "a1", Company: "Globex", Title: "BA"}},
	)

	cfgPath := filepath.Join(t.TempDir(), "config.yml")
	cfg, _ := config.NormalizeAndValidate(func() config.Config {
		var c config.Config
		c.App.Port = 38500
		return c
	}())
	if err := config.SaveAtomic(cfgPath, cfg); err != nil {
		t.Fatal(err)
	}

	var cfgVal atomic.Value
	cfgVal.Store(cfg)
	var scanStatus atomic.Value
	scanStatus.Store(inbox.Status{})

	scanner := &inbox.Scanner{Rand: fixedRand{f: 0.7}}

	mux := NewMux(Deps{
		App:         app,
		Hub:         events.NewHub(),
		CfgVal:      &cfgVal,
		ScanStatus:  &scanStatus,
		UserCfgPath: cfgPath,
		LoadCfg: func() (config.Config, error) {
			raw, err := config.Load(cfgPath)
			if err != nil {
				return config.Config{}, err
			}
			normalized, _ := config.NormalizeAndValidate(raw)
			return normalized, nil
		},
		Scanner: scanner,
	})

	srv := httptest.NewServer(Chain(mux, Cors, RequestID, Recover))
	t.Cleanup(srv.Close)
	return &testEnv{app: app, srv: srv}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	resp := e.do(t, http.MethodGet, "/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["ok"] != true {
		t.Errorf("body = %v", body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("no request id header")
	}
}

func TestJobsListAndGet(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodGet, "/jobs?kind=curated", nil)
	jobs := decode[[]domain.Job](t, resp)
	if len(jobs) != 1 || jobs[0].ID != "c1" {
		t.Fatalf("curated = %+v", jobs)
	}

	resp = e.do(t, http.MethodGet, "/jobs/a1", nil)
	job := decode[domain.Job](t, resp)
	if job.Company != "Globex" {
		t.Errorf("job = %+v", job)
	}

	resp = e.do(t, http.MethodGet, "/jobs/nope", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing job status = %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodGet, "/jobs?kind=bogus", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad kind status = %d", resp.StatusCode)
	}
}

func TestApplyFlow(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/jobs/c1/apply", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("apply status = %d", resp.StatusCode)
	}
	if !e.app.Snapshot().AppliedJobIDs["c1"] {
		t.Error("apply did not register")
	}

	resp = e.do(t, http.MethodPost, "/jobs/nope/apply", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("apply to unknown job status = %d", resp.StatusCode)
	}
}

func TestExternalJobValidation(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/jobs/external", domain.Job{Title: "PM"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing company accepted: %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodPost, "/jobs/external", domain.Job{Company: "Initech", Title: "PM"})
	job := decode[domain.Job](t, resp)
	if !strings.HasPrefix(job.ID, "ext-") || !job.IsExternal {
		t.Errorf("job = %+v", job)
	}
}

func TestNotificationLifecycleOverHTTP(t *testing.T) {
	e := newTestEnv(t)

	e.do(t, http.MethodPost, "/jobs/c1/apply", nil)
	resp := e.do(t, http.MethodPost, "/debug/backdate", map[string]any{"jobId": "c1", "daysAgo": 9})
	body := decode[map[string][]domain.Notification](t, resp)
	if len(body["notifications"]) != 1 || body["notifications"][0].ID != "followup-c1-7" {
		t.Fatalf("backdate notifications = %+v", body)
	}

	resp = e.do(t, http.MethodPost, "/notifications/action", domain.Command{
		Type:           domain.CmdConfirmFollowUp,
		JobID:          "c1",
		NotificationID: "followup-c1-7",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("action status = %d", resp.StatusCode)
	}
	res := decode[track.DispatchResult](t, resp)
	if res.Message == "" {
		t.Error("empty dispatch message")
	}

	resp = e.do(t, http.MethodGet, "/notifications", nil)
	listing := decode[map[string][]domain.Notification](t, resp)
	if len(listing["notifications"]) != 0 {
		t.Errorf("notifications after confirm = %+v", listing)
	}
}

func TestDismissByPath(t *testing.T) {
	e := newTestEnv(t)

	e.do(t, http.MethodPost, "/debug/deadline", map[string]any{"jobId": "c1", "daysRemaining": 7})
	resp := e.do(t, http.MethodPost, "/notifications/deadline-c1-7/dismiss", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("dismiss status = %d", resp.StatusCode)
	}
	if len(e.app.Notifications()) != 0 {
		t.Errorf("notification still live: %+v", e.app.Notifications())
	}
}

func TestMissionsOverHTTP(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodGet, "/missions", nil)
	st := decode[domain.MissionState](t, resp)
	if len(st.Missions) != 4 {
		t.Fatalf("missions = %+v", st)
	}

	resp = e.do(t, http.MethodPost, "/missions/claim", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("premature claim status = %d", resp.StatusCode)
	}

	for _, m := range st.Missions {
		for i := 0; i < m.Target; i++ {
			e.do(t, http.MethodPost, "/missions/progress", map[string]string{"missionId": m.ID})
		}
	}

	resp = e.do(t, http.MethodPost, "/missions/claim", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("claim status = %d", resp.StatusCode)
	}
	claimed := decode[domain.MissionState](t, resp)
	if !claimed.IsWeekCompleted || claimed.Streak != 2 {
		t.Errorf("claimed = %+v", claimed)
	}

	resp = e.do(t, http.MethodPost, "/missions/reset", nil)
	reset := decode[domain.MissionState](t, resp)
	if reset.IsWeekCompleted || reset.Streak != 2 {
		t.Errorf("reset = %+v", reset)
	}
}

func TestScanRunProducesNotification(t *testing.T) {
	e := newTestEnv(t)
	e.do(t, http.MethodPost, "/jobs/c1/apply", nil)

	resp := e.do(t, http.MethodPost, "/scan", nil)
	body := decode[map[string]any](t, resp)
	if body["ok"] != true {
		t.Fatalf("scan response = %v", body)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		if len(e.app.Notifications()) > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("scan produced no notification")
		}
		time.Sleep(10 * time.Millisecond)
	}

	n := e.app.Notifications()[0]
	if !strings.Contains(n.Message, "advanced to the next stage") {
		t.Errorf("notification = %+v", n)
	}

	for {
		resp = e.do(t, http.MethodGet, "/scan/status", nil)
		st := decode[inbox.Status](t, resp)
		if !st.Running {
			if st.LastSource != "simulation" || st.LastRunAt == "" {
				t.Errorf("status = %+v", st)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("scan never finished")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestAssistWithoutAIReturns503(t *testing.T) {
	e := newTestEnv(t)
	for _, path := range []string{
		"/assist/cv", "/assist/cover-letter", "/assist/interview-tips",
		"/assist/follow-up-email", "/assist/outreach",
		"/assist/networking-tools", "/assist/starter-pins", "/assist/profile",
	} {
		resp := e.do(t, http.MethodPost, path, map[string]string{"jobId": "c1"})
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d, want 503", path, resp.StatusCode)
		}
	}

	resp := e.do(t, http.MethodPost, "/jobs/refresh", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("/jobs/refresh status = %d, want 503", resp.StatusCode)
	}
}

func TestProfilePinsContacts(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPut, "/profile", domain.User{Name: "Jordan"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put profile status = %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodPost, "/profile/onboarding/complete", domain.User{Name: "Jordan"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("onboarding status = %d", resp.StatusCode)
	}
	if !e.app.Onboarded() {
		t.Error("onboarded flag not set")
	}

	resp = e.do(t, http.MethodPost, "/pins", domain.Pin{Title: "STAR: launch"})
	pin := decode[domain.Pin](t, resp)
	if !strings.HasPrefix(pin.ID, "pin-") {
		t.Errorf("pin = %+v", pin)
	}

	resp = e.do(t, http.MethodDelete, "/pins/"+pin.ID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete pin status = %d", resp.StatusCode)
	}
	if len(e.app.Pins()) != 0 {
		t.Errorf("pins after delete = %+v", e.app.Pins())
	}

	resp = e.do(t, http.MethodPost, "/contacts", domain.NetworkContact{Name: "Sam", Company: "Acme"})
	contact := decode[domain.NetworkContact](t, resp)
	if !strings.HasPrefix(contact.ID, "contact-") {
		t.Errorf("contact = %+v", contact)
	}
}

func TestConfigGetAndPut(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodGet, "/config", nil)
	cfg := decode[config.Config](t, resp)
	if cfg.App.Port != 38500 {
		t.Fatalf("config = %+v", cfg)
	}

	cfg.App.Port = 0
	resp = e.do(t, http.MethodPut, "/config", cfg)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid config accepted: %d", resp.StatusCode)
	}

	cfg.App.Port = 40000
	resp = e.do(t, http.MethodPut, "/config", cfg)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("valid config rejected: %d", resp.StatusCode)
	}
	saved := decode[config.Config](t, resp)
	if saved.App.Port != 40000 {
		t.Errorf("saved = %+v", saved)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	e := newTestEnv(t)
	resp := e.do(t, http.MethodDelete, "/missions", nil)
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestUnknownFieldRejected(t *testing.T) {
	e := newTestEnv(t)
	resp := e.do(t, http.MethodPost, "/missions/progress", map[string]string{"mission": "apply"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown field accepted: %d", resp.StatusCode)
	}
}
