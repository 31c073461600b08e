package store

import (
	"context"
	"database/sql"

	"carvis-engine/internal/domain"
)

func ListContacts(ctx context.Context, db *sql.DB) ([]domain.NetworkContact, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, name, company, role, date_contacted, event, notes
FROM contacts
ORDER BY date_contacted DESC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.NetworkContact
	for rows.Next() {
		var c domain.NetworkContact
		if err := rows.Scan(&c.ID, &c.Name, &c.Company, &c.Role, &c.DateContacted, &c.Event, &c.Notes); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func InsertContact(ctx context.Context, db *sql.DB, c domain.NetworkContact) error {
	_, err := db.ExecContext(ctx, `
INSERT OR REPLACE INTO contacts(id, name, company, role, date_contacted, event, notes)
VALUES(?, ?, ?, ?, ?, ?, ?);`,
		c.ID, c.Name, c.Company, c.Role, c.DateContacted, c.Event, c.Notes)
	return err
}
