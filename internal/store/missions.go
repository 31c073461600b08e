package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"carvis-engine/internal/domain"
)

// LoadMissionState returns the persisted weekly mission state; ok is false
// when there is nothing usable and the caller should start a default week.
func LoadMissionState(ctx context.Context, db *sql.DB) (domain.MissionState, bool, error) {
	var payload string
	err := db.QueryRowContext(ctx,
		`SELECT payload FROM mission_state WHERE id = 1;`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MissionState{}, false, nil
	}
	if err != nil {
		return domain.MissionState{}, false, err
	}

	var st domain.MissionState
	if err := json.Unmarshal([]byte(payload), &st); err != nil || len(st.Missions) == 0 {
		return domain.MissionState{}, false, nil
	}
	return st, true, nil
}

func SaveMissionState(ctx context.Context, db *sql.DB, st domain.MissionState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
INSERT INTO mission_state(id, payload, updated_at)
VALUES(1, ?, ?)
ON CONFLICT(id) DO UPDATE SET payload=excluded.payload, updated_at=excluded.updated_at;`,
		string(b), time.Now().UTC().Format(time.RFC3339))
	return err
}
