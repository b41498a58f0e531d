package eventlog

import (
	"context"
	"database/sql"
	"time"
)

// Event types appended by the application.
const (
	TypeAssignmentCreated     = "AssignmentCreated"
	TypeAssignmentDeactivated = "AssignmentDeactivated"
	TypeSubmissionGraded      = "SubmissionGraded"
	TypeStudentAdded          = "StudentAdded"
	TypeStudentDeactivated    = "StudentDeactivated"
)

type Event struct {
	Seq       int64
	SiteID    string
	Type      string
	Key       string // natural key: assignment or submission ID
	DataJSON  string
	CreatedAt int64
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Append(ctx context.Context, e Event) error {
	if e.SiteID == "" {
		e.SiteID = "local"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.SiteID, e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}

// Recent returns the newest events, most recent first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, site_id, typ, key, data, created_at
		 FROM event_log ORDER BY seq DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Seq, &e.SiteID, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
