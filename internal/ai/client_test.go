package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"carvis-engine/internal/config"
	"carvis-engine/internal/domain"
)

// chatStub fakes the chat-completions endpoint, returning reply for every
// request and recording the last prompt.
func chatStub(t *testing.T, reply string, status int) (*httptest.Server, *string) {
	t.Helper()
	var lastPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) > 0 {
			lastPrompt = req.Messages[0].Content
		}

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": reply}, "finish_reason": "stop"}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &lastPrompt
}

func stubClient(t *testing.T, reply string, status int) (*Client, *string) {
	t.Helper()
	srv, prompt := chatStub(t, reply, status)

	var cfg config.Config
	cfg.AI.BaseURL = srv.URL + "/v1"
	cfg.AI.Model = "gpt-4o-mini"
	cfg.AI.CuratedCount = 2
	cfg.AI.DiscoverCount = 3
	cfg.AI.RequestsPerSec = 100

	c, err := New(cfg, "test-key")
	if err != nil {
		t.Fatal(err)
	}
	return c, prompt
}

func TestNewRequiresKey(t *testing.T) {
	var cfg config.Config
	if _, err := New(cfg, "  "); err == nil {
		t.Error("empty api key accepted")
	}
}

func TestGenerateReturnsText(t *testing.T) {
	c, prompt := stubClient(t, "Dear hiring team, ...", http.StatusOK)

	got := c.Generate(context.Background(), "draft a follow-up")
	if got != "Dear hiring team, ..." {
		t.Errorf("got %q", got)
	}
	if *prompt != "draft a follow-up" {
		t.Errorf("prompt = %q", *prompt)
	}
}

func TestGenerateFallsBackOnError(t *testing.T) {
	c, _ := stubClient(t, "", http.StatusInternalServerError)

	if got := c.Generate(context.Background(), "anything"); got != Fallback {
		t.Errorf("got %q, want fallback copy", got)
	}
}

func TestGenerateJSONStripsFences(t *testing.T) {
	c, _ := stubClient(t, "```json\n{\"message\":\"hi\",\"topics\":[\"a\",\"b\"]}\n```", http.StatusOK)

	var out NetworkingTools
	if err := c.GenerateJSON(context.Background(), "tools", &out); err != nil {
		t.Fatal(err)
	}
	if out.Message != "hi" || len(out.Topics) != 2 {
		t.Errorf("out = %+v", out)
	}
}

func TestCuratedJobsParsesEnvelope(t *testing.T) {
	reply := `{"jobs":[{"title":"Strategy Associate","company":"Acme","location":"London","description":"...","industry":"Consulting","mode":"Hybrid","visa":"Yes","status":"Open","url":"https://acme.example/jobs/1","deadline":"2025-07-01"}]}`
	c, prompt := stubClient(t, reply, http.StatusOK)

	user := domain.User{Name: "Jordan", Aspirations: "Strategy", CV: "experienced..."}
	jobs, err := c.CuratedJobs(context.Background(), user)
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 {
		t.Fatalf("jobs = %+v", jobs)
	}
	j := jobs[0]
	if !strings.HasPrefix(j.ID, "c-ai-job-") {
		t.Errorf("id = %q", j.ID)
	}
	if j.Company != "Acme" || j.Deadline != "2025-07-01" || j.Tenure != "Full-time" {
		t.Errorf("job = %+v", j)
	}
	if j.Skills == nil {
		t.Error("skills should be an empty slice, not nil")
	}
	if !strings.Contains(*prompt, "Strategy") {
		t.Errorf("prompt missing aspirations: %q", *prompt)
	}
}

func TestDiscoverJobsIDPrefix(t *testing.T) {
	reply := `{"jobs":[{"title":"BA","company":"Globex"},{"title":"PM","company":"Initech"}]}`
	c, _ := stubClient(t, reply, http.StatusOK)

	jobs, err := c.DiscoverJobs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 2 {
		t.Fatalf("jobs = %+v", jobs)
	}
	for _, j := range jobs {
		if !strings.HasPrefix(j.ID, "ai-job-") {
			t.Errorf("id = %q", j.ID)
		}
	}
}

func TestEnrichJobNeverErrors(t *testing.T) {
	c, _ := stubClient(t, "", http.StatusInternalServerError)

	e := c.EnrichJob(context.Background(), domain.Job{ID: "j1", Company: "Acme"})
	for _, field := range []string{e.CompanyInfo, e.CompanyNews, e.IndustryNews, e.RecruiterContact} {
		if field != Fallback {
			t.Errorf("field = %q, want fallback", field)
		}
	}
}

func TestFindAlumniSetsCompany(t *testing.T) {
	reply := `{"alumni":[{"name":"Sam","role":"Manager"},{"name":"Alex","role":"Director"}]}`
	c, _ := stubClient(t, reply, http.StatusOK)

	alumni, err := c.FindAlumni(context.Background(), domain.Job{Company: "Acme", Title: "PM"})
	if err != nil {
		t.Fatal(err)
	}
	if len(alumni) != 2 {
		t.Fatalf("alumni = %+v", alumni)
	}
	for _, a := range alumni {
		if a.Company != "Acme" || !strings.HasPrefix(a.ID, "alum-") {
			t.Errorf("alum = %+v", a)
		}
	}
}

func TestAnalyzeProfileSwallowsFailure(t *testing.T) {
	c, _ := stubClient(t, "", http.StatusInternalServerError)

	p := c.AnalyzeProfile(context.Background(), "cv text")
	if p.Name != "" || len(p.Skills) != 0 {
		t.Errorf("profile = %+v", p)
	}
}

func TestStarterPinsAssignIDs(t *testing.T) {
	reply := `{"pins":[{"title":"STAR: launch","content":"..."},{"title":"STAR: rescue","content":"..."}]}`
	c, _ := stubClient(t, reply, http.StatusOK)

	pins := c.StarterPins(context.Background(), domain.User{Aspirations: "Strategy"})
	if len(pins) != 2 {
		t.Fatalf("pins = %+v", pins)
	}
	for _, p := range pins {
		if !strings.HasPrefix(p.ID, "starter-pin-") {
			t.Errorf("pin = %+v", p)
		}
	}
}

func TestComfortMessagePromptNamesCompany(t *testing.T) {
	c, prompt := stubClient(t, "Chin up! Here's a joke to brighten up your day: ...", http.StatusOK)

	got := c.ComfortMessage(context.Background(), domain.User{Name: "Jordan"}, "Acme")
	if !strings.Contains(got, "joke") {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(*prompt, "Acme") || !strings.Contains(*prompt, "Jordan") {
		t.Errorf("prompt = %q", *prompt)
	}
}
