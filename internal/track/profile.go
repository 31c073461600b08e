package track

import (
	"context"

	"github.com/google/uuid"

	"carvis-engine/internal/domain"
	"carvis-engine/internal/mission"
	"carvis-engine/internal/store"
)

func (a *App) User() domain.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

func (a *App) Onboarded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.onboarded
}

func (a *App) SetUser(ctx context.Context, u domain.User) {
	a.mu.Lock()
	a.user = u
	onboarded := a.onboarded
	a.mu.Unlock()

	if a.db != nil {
		a.persist("profile", store.SaveProfile(ctx, a.db, u, onboarded))
	}
}

// CompleteOnboarding stores the assembled profile and flips the flag that
// gates job discovery and notifications.
func (a *App) CompleteOnboarding(ctx context.Context, u domain.User) {
	a.mu.Lock()
	a.user = u
	a.onboarded = true
	a.mu.Unlock()

	if a.db != nil {
		a.persist("profile", store.SaveProfile(ctx, a.db, u, true))
	}
}

// AddPin saves a snippet to the pinboard and advances the knowledge
// mission.
func (a *App) AddPin(ctx context.Context, p domain.Pin) domain.Pin {
	if p.ID == "" {
		p.ID = "pin-" + uuid.NewString()
	}

	a.mu.Lock()
	a.user.Pins = append(a.user.Pins, p)
	mission.RecordProgress(&a.missions, mission.Learn)
	a.mu.Unlock()

	if a.db != nil {
		a.persist("pin", store.InsertPin(ctx, a.db, p))
		a.persist("missions", store.SaveMissionState(ctx, a.db, a.MissionState()))
	}
	return p
}

func (a *App) DeletePin(ctx context.Context, id string) {
	a.mu.Lock()
	kept := a.user.Pins[:0]
	for _, p := range a.user.Pins {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	a.user.Pins = kept
	a.mu.Unlock()

	if a.db != nil {
		a.persist("pin", store.DeletePin(ctx, a.db, id))
	}
}

func (a *App) Pins() []domain.Pin {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.Pin(nil), a.user.Pins...)
}

// AddContact logs a networking contact and advances the network mission.
func (a *App) AddContact(ctx context.Context, c domain.NetworkContact) domain.NetworkContact {
	if c.ID == "" {
		c.ID = "contact-" + uuid.NewString()
	}

	a.mu.Lock()
	a.user.NetworkContacts = append(a.user.NetworkContacts, c)
	mission.RecordProgress(&a.missions, mission.Network)
	a.mu.Unlock()

	if a.db != nil {
		a.persist("contact", store.InsertContact(ctx, a.db, c))
		a.persist("missions", store.SaveMissionState(ctx, a.db, a.MissionState()))
	}
	return c
}

func (a *App) Contacts() []domain.NetworkContact {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.NetworkContact(nil), a.user.NetworkContacts...)
}
