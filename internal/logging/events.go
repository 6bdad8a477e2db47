package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region event-kinds

// Event kinds written to the engine_events table.
const (
	EventQualityDegraded = "quality_degraded"
	EventEmptyBuffer     = "empty_buffer"
	EventSessionComplete = "session_complete"
)

// #endregion event-kinds

// #region event-entry

// EventEntry is one row of the durable event log.
type EventEntry struct {
	SessionID string
	Kind      string
	Detail    string
	CreatedAt time.Time
}

// #endregion event-entry

// #region log-event

// LogEvent writes an entry to the engine_events table.
func LogEvent(db *sql.DB, entry EventEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO engine_events (session_id, kind, detail, created_at)
		 VALUES (?, ?, ?, ?)`,
		nullIfEmpty(entry.SessionID),
		entry.Kind,
		nullIfEmpty(entry.Detail),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log event: %w", err)
	}
	return nil
}

// #endregion log-event

// #region list-events

// ListEvents returns the most recent event entries, newest first.
func ListEvents(db *sql.DB, limit int) ([]EventEntry, error) {
	rows, err := db.Query(
		`SELECT session_id, kind, detail, created_at FROM engine_events
		 ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var entries []EventEntry
	for rows.Next() {
		var e EventEntry
		var sessionID, detail sql.NullString
		var createdStr string
		if err := rows.Scan(&sessionID, &e.Kind, &detail, &createdStr); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if sessionID.Valid {
			e.SessionID = sessionID.String
		}
		if detail.Valid {
			e.Detail = detail.String
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion list-events

// #region helpers

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
