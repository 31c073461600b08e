package store

import (
	"context"
	"database/sql"
	"time"

	"carvis-engine/internal/domain"
)

func ListPins(ctx context.Context, db *sql.DB) ([]domain.Pin, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, title, content FROM pins ORDER BY created_at ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Pin
	for rows.Next() {
		var p domain.Pin
		if err := rows.Scan(&p.ID, &p.Title, &p.Content); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func InsertPin(ctx context.Context, db *sql.DB, p domain.Pin) error {
	_, err := db.ExecContext(ctx, `
INSERT OR REPLACE INTO pins(id, title, content, created_at)
VALUES(?, ?, ?, ?);`,
		p.ID, p.Title, p.Content, time.Now().UTC().Format(time.RFC3339))
	return err
}

func DeletePin(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM pins WHERE id = ?;`, id)
	return err
}
