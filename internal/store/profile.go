package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"carvis-engine/internal/domain"
)

// LoadProfile returns the persisted user profile and onboarded flag.
// A missing or corrupt row falls back to a zero profile without error.
func LoadProfile(ctx context.Context, db *sql.DB) (domain.User, bool, error) {
	var payload string
	var onboarded int
	err := db.QueryRowContext(ctx,
		`SELECT payload, onboarded FROM profile WHERE id = 1;`).Scan(&payload, &onboarded)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, err
	}

	var u domain.User
	if err := json.Unmarshal([]byte(payload), &u); err != nil {
		// best-effort storage: a corrupt profile resets to defaults
		return domain.User{}, onboarded == 1, nil
	}
	return u, onboarded == 1, nil
}

func SaveProfile(ctx context.Context, db *sql.DB, u domain.User, onboarded bool) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	flag := 0
	if onboarded {
		flag = 1
	}
	_, err = db.ExecContext(ctx, `
INSERT INTO profile(id, payload, onboarded, updated_at)
VALUES(1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET payload=excluded.payload, onboarded=excluded.onboarded, updated_at=excluded.updated_at;`,
		string(b), flag, time.Now().UTC().Format(time.RFC3339))
	return err
}
