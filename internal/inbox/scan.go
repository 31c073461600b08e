// Package inbox infers application status updates from the user's mailbox.
// With a connected IMAP account it reads real subjects; otherwise it runs a
// pseudo-random local simulation. The simulation is a placeholder for real
// inbox integration and must not be treated as a reliable status source.
package inbox

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"carvis-engine/internal/config"
	"carvis-engine/internal/domain"
	"carvis-engine/internal/notify"
)

// Rand is the randomness source for the simulation branch; injected so
// tests can drive deterministic sequences.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

type mathRand struct{ r *rand.Rand }

func (m mathRand) Float64() float64 { return m.r.Float64() }
func (m mathRand) Intn(n int) int   { return m.r.Intn(n) }

// NewRand returns a time-seeded Rand for production use.
func NewRand() Rand {
	return mathRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Comforter produces the post-rejection message; satisfied by the ai client.
type Comforter interface {
	ComfortMessage(ctx context.Context, user domain.User, company string) string
}

// Outcome is one scan's result: the notification to surface plus the
// resolved content its action dispatches to.
type Outcome struct {
	Notification domain.Notification
	Comfort      string
	JobID        string
	Source       string // "imap" or "simulation"
}

// Status mirrors the last scan for the API.
type Status struct {
	LastRunAt  string `json:"last_run_at"`
	LastOkAt   string `json:"last_ok_at"`
	LastError  string `json:"last_error"`
	LastSource string `json:"last_source"`
	Running    bool   `json:"running"`
}

type Scanner struct {
	Rand    Rand
	Comfort Comforter

	// Password yields the IMAP app password; Fetch pulls recent messages.
	// Both are injectable for tests.
	Password func() (string, error)
	Fetch    func(ctx context.Context, cfg config.Config, password string) ([]Message, error)
}

func NewScanner(comfort Comforter, password func() (string, error)) *Scanner {
	return &Scanner{
		Rand:     NewRand(),
		Comfort:  comfort,
		Password: password,
		Fetch:    FetchRecent,
	}
}

// Scan tries the real mailbox first when email is enabled. Any failure on
// that path (no password, dial error) falls back to the simulation; an
// unconnected mailbox is a normal state, not an error.
func (s *Scanner) Scan(ctx context.Context, cfg config.Config, user domain.User, snap notify.Snapshot) Outcome {
	if cfg.Email.Enabled {
		out, ok := s.scanMailbox(ctx, cfg)
		if ok {
			return out
		}
		log.Printf("level=info msg=\"mailbox scan unavailable, simulating\"")
	}
	return s.Simulate(ctx, user, snap)
}

func (s *Scanner) scanMailbox(ctx context.Context, cfg config.Config) (Outcome, bool) {
	password, err := s.Password()
	if err != nil {
		return Outcome{}, false
	}

	msgs, err := s.Fetch(ctx, cfg, password)
	if err != nil {
		log.Printf("level=warn msg=\"imap fetch failed\" err=%v", err)
		return Outcome{}, false
	}

	match, ok := newestRelevant(msgs, cfg.Email.SearchSubjectAny)
	if !ok {
		return Outcome{
			Notification: domain.Notification{
				ID:       "scan-" + uuid.NewString(),
				Severity: domain.SeverityInfo,
				Message:  "No new application updates found in recent emails.",
			},
			Source: "imap",
		}, true
	}

	return Outcome{
		Notification: domain.Notification{
			ID:       "scan-" + uuid.NewString(),
			Severity: domain.SeveritySuccess,
			Message:  fmt.Sprintf("Inbox Scan: Found an update: %q. Check your inbox!", match.Subject),
		},
		Source: "imap",
	}, true
}

// newestRelevant picks the most recent message whose subject contains any
// keyword, case-insensitive.
func newestRelevant(msgs []Message, keywords []string) (Message, bool) {
	var best Message
	found := false
	for _, m := range msgs {
		subject := strings.ToLower(m.Subject)
		for _, kw := range keywords {
			if kw != "" && strings.Contains(subject, strings.ToLower(kw)) {
				if !found || m.Date.After(best.Date) {
					best = m
					found = true
				}
				break
			}
		}
	}
	return best, found
}

// Simulate draws a hypothetical status update: roughly 60% no update, 20%
// advanced, 20% rejected, over one uniformly picked trackable job.
func (s *Scanner) Simulate(ctx context.Context, user domain.User, snap notify.Snapshot) Outcome {
	trackable := trackableJobs(snap)

	if len(trackable) == 0 {
		return Outcome{
			Notification: domain.Notification{
				ID:       "scan-" + uuid.NewString(),
				Severity: domain.SeverityInfo,
				Message:  "Email scan complete. No active job applications found to track.",
			},
			Source: "simulation",
		}
	}

	job := trackable[s.Rand.Intn(len(trackable))]
	r := s.Rand.Float64()

	if r <= 0.6 {
		return Outcome{
			Notification: domain.Notification{
				ID:       "scan-" + uuid.NewString(),
				Severity: domain.SeverityInfo,
				Message:  "Email scan complete. No new updates found.",
			},
			Source: "simulation",
		}
	}

	id := "email-update-" + uuid.NewString()

	if r > 0.8 {
		comfort := "Keep your head up. Every application is practice, and the right role is still out there."
		if s.Comfort != nil {
			comfort = s.Comfort.ComfortMessage(ctx, user, job.Company)
		}
		return Outcome{
			Notification: domain.Notification{
				ID:       id,
				Severity: domain.SeverityWarning,
				Message:  fmt.Sprintf("Update found for %s: Application Unsuccessful.", job.Company),
				Action: &domain.Action{
					Label:   "View Message",
					Command: domain.Command{Type: domain.CmdViewComfort, NotificationID: id, JobID: job.ID},
				},
			},
			Comfort: comfort,
			JobID:   job.ID,
			Source:  "simulation",
		}
	}

	return Outcome{
		Notification: domain.Notification{
			ID:       id,
			Severity: domain.SeveritySuccess,
			Message:  fmt.Sprintf("Good news! You've advanced to the next stage at %s.", job.Company),
			Action: &domain.Action{
				Label:   "Next Steps",
				Command: domain.Command{Type: domain.CmdNextSteps, NotificationID: id, JobID: job.ID},
			},
		},
		JobID:  job.ID,
		Source: "simulation",
	}
}

// trackableJobs is internally applied jobs plus all externally logged ones,
// minus anything already holding an offer.
func trackableJobs(snap notify.Snapshot) []domain.Job {
	var out []domain.Job
	for _, list := range [][]domain.Job{snap.AllJobs, snap.CuratedJobs} {
		for _, j := range list {
			if snap.AppliedJobIDs[j.ID] && !j.HasOffer() {
				out = append(out, j)
			}
		}
	}
	for _, j := range snap.ExternalJobs {
		if !j.HasOffer() {
			out = append(out, j)
		}
	}
	return out
}
