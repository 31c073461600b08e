package store

import (
	"context"
	"database/sql"
)

// Tracking is the persisted slice of application-tracking state.
type Tracking struct {
	ApplicationDates map[string]string // job id -> YYYY-MM-DD
	FollowUpLog      map[string]string // job id -> YYYY-MM-DD
	Dismissed        map[string]bool   // notification ids
}

func LoadTracking(ctx context.Context, db *sql.DB) (Tracking, error) {
	tr := Tracking{
		ApplicationDates: map[string]string{},
		FollowUpLog:      map[string]string{},
		Dismissed:        map[string]bool{},
	}

	rows, err := db.QueryContext(ctx, `SELECT job_id, applied_at FROM applications;`)
	if err != nil {
		return tr, err
	}
	defer rows.Close()
	for rows.Next() {
		var id, at string
		if err := rows.Scan(&id, &at); err != nil {
			return tr, err
		}
		tr.ApplicationDates[id] = at
	}
	if err := rows.Err(); err != nil {
		return tr, err
	}

	frows, err := db.QueryContext(ctx, `SELECT job_id, followed_up_at FROM followups;`)
	if err != nil {
		return tr, err
	}
	defer frows.Close()
	for frows.Next() {
		var id, at string
		if err := frows.Scan(&id, &at); err != nil {
			return tr, err
		}
		tr.FollowUpLog[id] = at
	}
	if err := frows.Err(); err != nil {
		return tr, err
	}

	drows, err := db.QueryContext(ctx, `SELECT notification_id FROM dismissed;`)
	if err != nil {
		return tr, err
	}
	defer drows.Close()
	for drows.Next() {
		var id string
		if err := drows.Scan(&id); err != nil {
			return tr, err
		}
		tr.Dismissed[id] = true
	}
	return tr, drows.Err()
}

// SetApplication records (or overwrites) the applied date for a job.
func SetApplication(ctx context.Context, db *sql.DB, jobID, appliedAt string) error {
	_, err := db.ExecContext(ctx, `
INSERT INTO applications(job_id, applied_at) VALUES(?, ?)
ON CONFLICT(job_id) DO UPDATE SET applied_at=excluded.applied_at;`, jobID, appliedAt)
	return err
}

func SetFollowUp(ctx context.Context, db *sql.DB, jobID, followedUpAt string) error {
	_, err := db.ExecContext(ctx, `
INSERT INTO followups(job_id, followed_up_at) VALUES(?, ?)
ON CONFLICT(job_id) DO UPDATE SET followed_up_at=excluded.followed_up_at;`, jobID, followedUpAt)
	return err
}

func DeleteFollowUp(ctx context.Context, db *sql.DB, jobID string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM followups WHERE job_id = ?;`, jobID)
	return err
}

func AddDismissed(ctx context.Context, db *sql.DB, notificationID string) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO dismissed(notification_id) VALUES(?);`, notificationID)
	return err
}

// DeleteDismissedPrefix clears dismissed ids for one job's milestone family,
// e.g. "followup-<jobId>" after a debug backdate.
func DeleteDismissedPrefix(ctx context.Context, db *sql.DB, prefix string) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM dismissed WHERE notification_id LIKE ? || '%';`, prefix)
	return err
}
