package store

import "database/sql"

// Migrate brings the schema to the current version, tracked via
// PRAGMA user_version.
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1 ----

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profile (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  payload TEXT NOT NULL,
  onboarded INTEGER NOT NULL DEFAULT 0,
  updated_at TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS external_jobs (
  id TEXT PRIMARY KEY,
  company TEXT NOT NULL,
  title TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS applications (
  job_id TEXT PRIMARY KEY,
  applied_at TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS followups (
  job_id TEXT PRIMARY KEY,
  followed_up_at TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS dismissed (
  notification_id TEXT PRIMARY KEY
);`,
		`CREATE TABLE IF NOT EXISTS pins (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  content TEXT NOT NULL,
  created_at TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS contacts (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  company TEXT NOT NULL,
  role TEXT NOT NULL,
  date_contacted TEXT NOT NULL DEFAULT '',
  event TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT ''
);`,
		`CREATE TABLE IF NOT EXISTS mission_state (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  payload TEXT NOT NULL,
  updated_at TEXT NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS idx_external_jobs_created ON external_jobs(created_at DESC);`,
	}

	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}
