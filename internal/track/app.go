// Package track owns all mutable tracking state. Every mutation is a
// sequential transition under one mutex; reads hand out copies. Persistence
// is best-effort: a failed write is logged, never fatal to the session.
package track

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"time"

	"carvis-engine/internal/domain"
	"carvis-engine/internal/events"
	"carvis-engine/internal/mission"
	"carvis-engine/internal/notify"
	"carvis-engine/internal/store"
)

type App struct {
	mu  sync.Mutex
	db  *sql.DB     // nil when persistence is off (tests)
	hub *events.Hub // nil when nobody listens
	now func() time.Time

	user      domain.User
	onboarded bool

	curated  []domain.Job
	all      []domain.Job
	external []domain.Job

	applied          map[string]bool
	applicationDates map[string]string
	followUpLog      map[string]string
	dismissed        map[string]bool

	notifications []domain.Notification
	missions      domain.MissionState

	// resolved scan outcomes keyed by notification id, consumed by the
	// view_comfort / next_steps commands
	scanResults map[string]ScanResult
}

// ScanResult carries what a scan notification resolves to when its action
// is dispatched.
type ScanResult struct {
	Comfort string
	JobID   string
}

type Option func(*App)

func WithDB(db *sql.DB) Option          { return func(a *App) { a.db = db } }
func WithHub(h *events.Hub) Option      { return func(a *App) { a.hub = h } }
func WithClock(f func() time.Time) Option { return func(a *App) { a.now = f } }

func New(opts ...Option) *App {
	a := &App{
		now:              time.Now,
		applied:          map[string]bool{},
		applicationDates: map[string]string{},
		followUpLog:      map[string]string{},
		dismissed:        map[string]bool{},
		missions:         mission.Defaults(),
		scanResults:      map[string]ScanResult{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// LoadPersisted pulls the saved session out of sqlite. Missing or corrupt
// state falls back to defaults per piece.
func (a *App) LoadPersisted(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	user, onboarded, err := store.LoadProfile(ctx, a.db)
	if err != nil {
		return err
	}
	a.user = user
	a.onboarded = onboarded

	tr, err := store.LoadTracking(ctx, a.db)
	if err != nil {
		return err
	}
	a.applicationDates = tr.ApplicationDates
	a.followUpLog = tr.FollowUpLog
	a.dismissed = tr.Dismissed
	a.applied = make(map[string]bool, len(tr.ApplicationDates))
	for id := range tr.ApplicationDates {
		a.applied[id] = true
	}

	ext, err := store.ListExternalJobs(ctx, a.db)
	if err != nil {
		return err
	}
	a.external = ext

	if st, ok, err := store.LoadMissionState(ctx, a.db); err != nil {
		return err
	} else if ok {
		a.missions = st
	}

	if pins, err := store.ListPins(ctx, a.db); err == nil && len(pins) > 0 {
		a.user.Pins = pins
	}
	if contacts, err := store.ListContacts(ctx, a.db); err == nil && len(contacts) > 0 {
		a.user.NetworkContacts = contacts
	}

	a.recomputeLocked()
	return nil
}

// Snapshot copies the state the notification engine and scanner read.
func (a *App) Snapshot() notify.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *App) snapshotLocked() notify.Snapshot {
	return notify.Snapshot{
		CuratedJobs:      append([]domain.Job(nil), a.curated...),
		AllJobs:          append([]domain.Job(nil), a.all...),
		ExternalJobs:     append([]domain.Job(nil), a.external...),
		AppliedJobIDs:    copyBoolMap(a.applied),
		ApplicationDates: copyStringMap(a.applicationDates),
		FollowUpLog:      copyStringMap(a.followUpLog),
		Dismissed:        copyBoolMap(a.dismissed),
	}
}

// Recompute re-derives reminder notifications from current state and merges
// them into the live list. Safe to call on a timer; idempotent on
// unchanged input.
func (a *App) Recompute() {
	a.mu.Lock()
	changed := a.recomputeLocked()
	a.mu.Unlock()
	if changed {
		a.publish(events.TypeNotificationsChanged, nil)
	}
}

func (a *App) recomputeLocked() bool {
	computed := notify.Evaluate(a.snapshotLocked(), a.now())
	merged := notify.Merge(a.notifications, computed)
	changed := len(merged) != len(a.notifications)
	a.notifications = merged
	return changed
}

func (a *App) Notifications() []domain.Notification {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.Notification(nil), a.notifications...)
}

// Job returns any tracked job by id, searching curated, general and
// external lists in that order.
func (a *App) Job(id string) (domain.Job, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.jobLocked(id)
}

func (a *App) jobLocked(id string) (domain.Job, bool) {
	for _, list := range [][]domain.Job{a.curated, a.all, a.external} {
		for _, j := range list {
			if j.ID == id {
				return j, true
			}
		}
	}
	return domain.Job{}, false
}

func (a *App) CuratedJobs() []domain.Job {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.Job(nil), a.curated...)
}

func (a *App) AllJobs() []domain.Job {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.Job(nil), a.all...)
}

func (a *App) ExternalJobs() []domain.Job {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.Job(nil), a.external...)
}

// SetJobLists replaces the AI-sourced job lists after a refresh.
func (a *App) SetJobLists(curated, all []domain.Job) {
	a.mu.Lock()
	if curated != nil {
		a.curated = curated
	}
	if all != nil {
		a.all = all
	}
	a.recomputeLocked()
	a.mu.Unlock()
	a.publish(events.TypeJobsRefreshed, map[string]any{
		"curated": len(curated), "all": len(all),
	})
}

// UpdateJob swaps an enriched job back into whichever list holds it.
func (a *App) UpdateJob(j domain.Job) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, list := range [][]domain.Job{a.curated, a.all, a.external} {
		for i := range list {
			if list[i].ID == j.ID {
				list[i] = j
			}
		}
	}
}

func (a *App) today() string {
	return a.now().UTC().Format("2006-01-02")
}

func (a *App) publish(typ string, data any) {
	if a.hub != nil {
		a.hub.Publish(events.MakeEvent("", typ, 1, data))
	}
}

func (a *App) persist(what string, err error) {
	if err != nil {
		log.Printf("level=warn msg=\"persist failed\" what=%s err=%v", what, err)
	}
}

func copyBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
