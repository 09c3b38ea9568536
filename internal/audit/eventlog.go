// Package audit appends grading lifecycle events to the event_log table so
// downstream collaborators (transcript sync, notification) can follow what
// the grading pipeline decided and when.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	EventAssessmentGraded = "AssessmentGraded"
	EventAutoEvaluated    = "AutoEvaluated"
	EventGradeRecorded    = "GradeRecorded"
	EventScoreForced      = "ScoreForced"
)

type Event struct {
	Seq       int64
	Type      string
	Key       string
	DataJSON  string
	CreatedAt int64
}

type Log struct{ db *sql.DB }

func NewLog(db *sql.DB) *Log { return &Log{db: db} }

// Append records one event. The payload is marshaled to JSON; a nil Log is a
// no-op so callers without a database (tests, memory store) need no guard.
func (l *Log) Append(ctx context.Context, typ, key string, payload any) error {
	if l == nil || l.db == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		typ, key, string(data), time.Now().Unix())
	return err
}

// List returns events for one key, oldest first.
func (l *Log) List(ctx context.Context, key string) ([]Event, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT seq, typ, key, data, created_at FROM event_log WHERE key=$1 ORDER BY seq`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Seq, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
