// Package mission implements the weekly mission loop: InProgress until every
// mission hits its target, then the reward is claimable, then the claimed
// week is frozen until an external weekly reset.
package mission

import (
	"time"

	"carvis-engine/internal/domain"
)

// Mission ids double as progress categories; callers advance by id.
const (
	Network  = "network"
	Apply    = "apply"
	FollowUp = "followup"
	Learn    = "learn"
)

// Defaults returns a fresh week of missions with zero progress.
func Defaults() domain.MissionState {
	return domain.MissionState{
		Streak:          1,
		IsWeekCompleted: false,
		Missions: []domain.Mission{
			{ID: Network, Title: "The Network Weaver", Description: "Connect with 3 alumni via the job details page.", Current: 0, Target: 3, Type: "network", Icon: "handshake"},
			{ID: Apply, Title: "Application Sprint", Description: "Submit applications for 5 new roles.", Current: 0, Target: 5, Type: "apply", Icon: "rocket"},
			{ID: FollowUp, Title: "Maintenance Check", Description: "Follow up on 3 applied roles that are over 7 days old.", Current: 0, Target: 3, Type: "followup", Icon: "clipboard"},
			{ID: Learn, Title: "Knowledge Base", Description: "Save 2 new answers to your pinboard.", Current: 0, Target: 2, Type: "learn", Icon: "brain"},
		},
	}
}

// RecordProgress bumps the matching mission by one, never past its target.
// A claimed week ignores further progress entirely.
func RecordProgress(st *domain.MissionState, missionID string) {
	if st.IsWeekCompleted {
		return
	}
	for i := range st.Missions {
		m := &st.Missions[i]
		if m.ID == missionID && m.Current < m.Target {
			m.Current++
			return
		}
	}
}

// AllComplete reports whether every mission reached its target.
func AllComplete(st domain.MissionState) bool {
	for _, m := range st.Missions {
		if m.Current < m.Target {
			return false
		}
	}
	return len(st.Missions) > 0
}

// ClaimReward marks the week complete and extends the streak.
// Precondition (caller-checked, not enforced): AllComplete(st).
func ClaimReward(st *domain.MissionState, now time.Time) {
	st.IsWeekCompleted = true
	st.Streak++
	st.LastCompletedDate = now.UTC().Format(time.RFC3339)
}

// ResetWeek starts the next week: progress zeroed, claim flag cleared,
// streak carried over.
func ResetWeek(st *domain.MissionState) {
	st.IsWeekCompleted = false
	for i := range st.Missions {
		st.Missions[i].Current = 0
	}
}
