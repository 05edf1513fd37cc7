// Package eventlog records session lifecycle events (upload, answer,
// completion, reset) in an append-only table, for after-the-fact
// inspection of study activity.
package eventlog

import (
	"context"
	"database/sql"
	"time"
)

const (
	TypeQuizUploaded   = "QuizUploaded"
	TypeAnswerSelected = "AnswerSelected"
	TypeQuizCompleted  = "QuizCompleted"
	TypeProgressReset  = "ProgressReset"
	TypeSessionWiped   = "SessionWiped"
)

type Event struct {
	Offset    int64  `json:"offset"`
	SessionID string `json:"session_id"`
	Type      string `json:"type"`
	DataJSON  string `json:"data"`
	CreatedAt int64  `json:"created_at"`
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Append(ctx context.Context, sessionID, typ, dataJSON string) error {
	if r == nil || r.db == nil {
		return nil
	}
	if dataJSON == "" {
		dataJSON = "{}"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (session_id, typ, data, created_at)
		 VALUES ($1,$2,$3,$4)`,
		sessionID, typ, dataJSON, time.Now().Unix())
	return err
}

// BySession returns a session's events, oldest first.
func (r *Repo) BySession(ctx context.Context, sessionID string, limit int) ([]Event, error) {
	if r == nil || r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT "offset", session_id, typ, data, created_at FROM event_log
		 WHERE session_id=$1 ORDER BY "offset" ASC LIMIT $2`,
		sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.SessionID, &e.Type, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
