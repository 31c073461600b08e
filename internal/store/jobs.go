package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"carvis-engine/internal/domain"
)

// InsertExternalJob persists a manually tracked application. The full job is
// stored as JSON; company/title columns exist for listing order and debug
// queries only.
func InsertExternalJob(ctx context.Context, db *sql.DB, j domain.Job) error {
	b, err := json.Marshal(j)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
INSERT OR REPLACE INTO external_jobs(id, company, title, payload, created_at)
VALUES(?, ?, ?, ?, ?);`,
		j.ID, j.Company, j.Title, string(b), time.Now().UTC().Format(time.RFC3339))
	return err
}

// ListExternalJobs returns external jobs newest first, skipping rows whose
// payload no longer parses.
func ListExternalJobs(ctx context.Context, db *sql.DB) ([]domain.Job, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT payload FROM external_jobs ORDER BY created_at DESC, rowid DESC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Job
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var j domain.Job
		if err := json.Unmarshal([]byte(payload), &j); err != nil {
			continue
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
