package track

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"carvis-engine/internal/domain"
	"carvis-engine/internal/events"
	"carvis-engine/internal/mission"
	"carvis-engine/internal/store"
)

// Apply marks a job as applied. The set add is idempotent but the date
// always overwrites with today: a re-apply on a later day moves the clock.
func (a *App) Apply(ctx context.Context, jobID string) {
	a.mu.Lock()
	today := a.today()
	a.applied[jobID] = true
	a.applicationDates[jobID] = today
	mission.RecordProgress(&a.missions, mission.Apply)
	a.recomputeLocked()
	a.mu.Unlock()

	if a.db != nil {
		a.persist("application", store.SetApplication(ctx, a.db, jobID, today))
		a.persist("missions", store.SaveMissionState(ctx, a.db, a.MissionState()))
	}
	a.publish(events.TypeJobApplied, map[string]any{"id": jobID})
	a.publish(events.TypeNotificationsChanged, nil)
}

// AddExternalJob prepends a manually logged application.
func (a *App) AddExternalJob(ctx context.Context, j domain.Job) domain.Job {
	if j.ID == "" {
		j.ID = "ext-" + uuid.NewString()
	}
	j.IsExternal = true

	a.mu.Lock()
	a.external = append([]domain.Job{j}, a.external...)
	mission.RecordProgress(&a.missions, mission.Apply)
	a.recomputeLocked()
	a.mu.Unlock()

	if a.db != nil {
		a.persist("external_job", store.InsertExternalJob(ctx, a.db, j))
		a.persist("missions", store.SaveMissionState(ctx, a.db, a.MissionState()))
	}
	a.publish(events.TypeExternalJobAdded, map[string]any{"id": j.ID})
	return j
}

// ConfirmFollowUp records today's follow-up for a job, advances the
// maintenance mission, and permanently suppresses the prompting
// notification.
func (a *App) ConfirmFollowUp(ctx context.Context, jobID, notificationID string) {
	a.mu.Lock()
	today := a.today()
	a.followUpLog[jobID] = today
	mission.RecordProgress(&a.missions, mission.FollowUp)
	a.dismissLocked(notificationID)
	a.mu.Unlock()

	if a.db != nil {
		a.persist("followup", store.SetFollowUp(ctx, a.db, jobID, today))
		a.persist("dismissed", store.AddDismissed(ctx, a.db, notificationID))
		a.persist("missions", store.SaveMissionState(ctx, a.db, a.MissionState()))
	}
	a.publish(events.TypeNotificationsChanged, nil)
}

// Dismiss removes a notification from the live list and remembers its id so
// the engine never regenerates it.
func (a *App) Dismiss(ctx context.Context, notificationID string) {
	a.mu.Lock()
	a.dismissLocked(notificationID)
	a.mu.Unlock()

	if a.db != nil {
		a.persist("dismissed", store.AddDismissed(ctx, a.db, notificationID))
	}
	a.publish(events.TypeNotificationsChanged, nil)
}

func (a *App) dismissLocked(notificationID string) {
	a.dismissed[notificationID] = true
	kept := a.notifications[:0]
	for _, n := range a.notifications {
		if n.ID != notificationID {
			kept = append(kept, n)
		}
	}
	a.notifications = kept
	delete(a.scanResults, notificationID)
}

// DebugBackdate rewrites a job's applied date daysAgo days into the past,
// clears its follow-up entry and un-dismisses its follow-up milestones so
// the engine re-evaluates against the new timeline. Demo tooling.
func (a *App) DebugBackdate(ctx context.Context, jobID string, daysAgo int) {
	a.mu.Lock()
	date := a.now().UTC().AddDate(0, 0, -daysAgo).Format("2006-01-02")
	a.applicationDates[jobID] = date
	delete(a.followUpLog, jobID)
	a.clearDismissedPrefixLocked("followup-" + jobID)
	a.recomputeLocked()
	a.mu.Unlock()

	if a.db != nil {
		a.persist("application", store.SetApplication(ctx, a.db, jobID, date))
		a.persist("followup", store.DeleteFollowUp(ctx, a.db, jobID))
		a.persist("dismissed", store.DeleteDismissedPrefix(ctx, a.db, "followup-"+jobID))
	}
	a.publish(events.TypeNotificationsChanged, nil)
}

// DebugSetDeadline moves a job's deadline daysRemaining days out on both
// the curated and general lists and un-dismisses its deadline milestones.
func (a *App) DebugSetDeadline(ctx context.Context, jobID string, daysRemaining int) {
	a.mu.Lock()
	deadline := a.now().UTC().AddDate(0, 0, daysRemaining).Format("2006-01-02")
	for _, list := range [][]domain.Job{a.curated, a.all} {
		for i := range list {
			if list[i].ID == jobID {
				list[i].Deadline = deadline
			}
		}
	}
	a.clearDismissedPrefixLocked("deadline-" + jobID)
	a.recomputeLocked()
	a.mu.Unlock()

	if a.db != nil {
		a.persist("dismissed", store.DeleteDismissedPrefix(ctx, a.db, "deadline-"+jobID))
	}
	a.publish(events.TypeNotificationsChanged, nil)
}

func (a *App) clearDismissedPrefixLocked(prefix string) {
	for id := range a.dismissed {
		if strings.HasPrefix(id, prefix) {
			delete(a.dismissed, id)
		}
	}
}

// AddScanNotification attaches an inbox-scan outcome to the live list,
// newest first, with its resolved content for later command dispatch.
func (a *App) AddScanNotification(n domain.Notification, res ScanResult) {
	a.mu.Lock()
	a.notifications = append([]domain.Notification{n}, a.notifications...)
	if n.Action != nil {
		a.scanResults[n.ID] = res
	}
	a.mu.Unlock()
	a.publish(events.TypeScanFinished, map[string]any{"id": n.ID})
	a.publish(events.TypeNotificationsChanged, nil)
}

func (a *App) String() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fmt.Sprintf("track.App{jobs=%d/%d/%d applied=%d notifications=%d}",
		len(a.curated), len(a.all), len(a.external), len(a.applied), len(a.notifications))
}
