package track

import (
	"context"

	"carvis-engine/internal/domain"
	"carvis-engine/internal/events"
	"carvis-engine/internal/mission"
	"carvis-engine/internal/store"
)

func (a *App) MissionState() domain.MissionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.missions
	st.Missions = append([]domain.Mission(nil), a.missions.Missions...)
	return st
}

// RecordMissionProgress advances one mission by a single step; capped at
// target, ignored once the week is claimed.
func (a *App) RecordMissionProgress(ctx context.Context, missionID string) {
	a.mu.Lock()
	mission.RecordProgress(&a.missions, missionID)
	a.mu.Unlock()

	if a.db != nil {
		a.persist("missions", store.SaveMissionState(ctx, a.db, a.MissionState()))
	}
	a.publish(events.TypeMissionsChanged, nil)
}

// ClaimReward completes the week. Callers check AllComplete first; this
// layer records whatever the caller decided, per the weekly-loop contract.
func (a *App) ClaimReward(ctx context.Context) domain.MissionState {
	a.mu.Lock()
	mission.ClaimReward(&a.missions, a.now())
	a.mu.Unlock()

	st := a.MissionState()
	if a.db != nil {
		a.persist("missions", store.SaveMissionState(ctx, a.db, st))
	}
	a.publish(events.TypeMissionsChanged, nil)
	return st
}

// ResetWeek starts the next weekly cycle.
func (a *App) ResetWeek(ctx context.Context) domain.MissionState {
	a.mu.Lock()
	mission.ResetWeek(&a.missions)
	a.mu.Unlock()

	st := a.MissionState()
	if a.db != nil {
		a.persist("missions", store.SaveMissionState(ctx, a.db, st))
	}
	a.publish(events.TypeMissionsChanged, nil)
	return st
}

func (a *App) AllMissionsComplete() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return mission.AllComplete(a.missions)
}
