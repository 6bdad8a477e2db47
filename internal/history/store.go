// Package history persists session outcomes in SQLite, replacing unbounded
// in-memory growth with a prunable, exportable store.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/adaptive-learning/engine/internal/classify"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/control"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/logging"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/session"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS session_outcomes (
	outcome_id      TEXT PRIMARY KEY,
	session_id      TEXT NOT NULL,
	user_id         TEXT NOT NULL,
	started_at      TEXT NOT NULL,
	ended_at        TEXT NOT NULL,
	stage           TEXT NOT NULL,
	success_rate    REAL NOT NULL,
	content_mastery REAL NOT NULL,
	avg_attention   REAL NOT NULL,
	avg_engagement  REAL NOT NULL,
	avg_efficiency  REAL NOT NULL,
	recommendations TEXT NOT NULL,
	created_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS metric_snapshots (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	outcome_id     TEXT NOT NULL,
	seq            INTEGER NOT NULL,
	snapshot_id    TEXT NOT NULL,
	ts             TEXT NOT NULL,
	delta          REAL NOT NULL,
	theta          REAL NOT NULL,
	alpha          REAL NOT NULL,
	beta           REAL NOT NULL,
	gamma          REAL NOT NULL,
	attention      REAL NOT NULL,
	cognitive_load REAL NOT NULL,
	engagement     REAL NOT NULL,
	efficiency     REAL NOT NULL,
	state          TEXT NOT NULL,
	FOREIGN KEY (outcome_id) REFERENCES session_outcomes(outcome_id)
);

CREATE TABLE IF NOT EXISTS engine_events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT,
	kind       TEXT NOT NULL,
	detail     TEXT,
	created_at TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct

// Store manages session outcome history in SQLite.
type Store struct {
	db *sql.DB
}

// StoredOutcome pairs a persisted outcome with its storage identity.
// Outcome.Metrics is populated only by GetOutcome, not by ListOutcomes.
type StoredOutcome struct {
	OutcomeID string
	CreatedAt time.Time
	Snapshots int
	Outcome   session.SessionOutcome
}

// #endregion store-struct

// #region constructor

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region save-outcome

// SaveOutcome inserts an outcome and its snapshots in one transaction.
// Implements session.OutcomeSink.
func (s *Store) SaveOutcome(o session.SessionOutcome) error {
	recsJSON, err := json.Marshal(o.Recommendations)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	outcomeID := uuid.New().String()
	_, err = tx.Exec(
		`INSERT INTO session_outcomes (outcome_id, session_id, user_id, started_at, ended_at,
			stage, success_rate, content_mastery, avg_attention, avg_engagement, avg_efficiency,
			recommendations, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		outcomeID, o.SessionID, o.UserID,
		o.StartedAt.Format(time.RFC3339Nano), o.EndedAt.Format(time.RFC3339Nano),
		string(o.Stage), o.SuccessRate, o.ContentMastery,
		o.AvgAttention, o.AvgEngagement, o.AvgEfficiency,
		string(recsJSON), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}

	for i, m := range o.Metrics {
		_, err = tx.Exec(
			`INSERT INTO metric_snapshots (outcome_id, seq, snapshot_id, ts,
				delta, theta, alpha, beta, gamma,
				attention, cognitive_load, engagement, efficiency, state)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			outcomeID, i, m.ID, m.Timestamp.Format(time.RFC3339Nano),
			m.Bands.Delta, m.Bands.Theta, m.Bands.Alpha, m.Bands.Beta, m.Bands.Gamma,
			m.Attention, m.CognitiveLoad, m.Engagement, m.LearningEfficiency, string(m.State),
		)
		if err != nil {
			return fmt.Errorf("insert snapshot %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// #endregion save-outcome

// #region log-event

// LogEvent writes to the durable event log. Implements session.EventSink.
func (s *Store) LogEvent(sessionID, kind, detail string) error {
	return logging.LogEvent(s.db, logging.EventEntry{
		SessionID: sessionID,
		Kind:      kind,
		Detail:    detail,
	})
}

// #endregion log-event

// #region list-outcomes

// ListOutcomes returns the most recent outcomes, newest first, without
// their snapshot lists.
func (s *Store) ListOutcomes(limit int) ([]StoredOutcome, error) {
	rows, err := s.db.Query(
		`SELECT o.outcome_id, o.session_id, o.user_id, o.started_at, o.ended_at,
			o.stage, o.success_rate, o.content_mastery,
			o.avg_attention, o.avg_engagement, o.avg_efficiency,
			o.recommendations, o.created_at,
			(SELECT COUNT(*) FROM metric_snapshots m WHERE m.outcome_id = o.outcome_id)
		 FROM session_outcomes o
		 ORDER BY o.created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []StoredOutcome
	for rows.Next() {
		so, err := scanOutcome(rows)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, so)
	}
	return outcomes, rows.Err()
}

// GetOutcome retrieves one outcome with its full ordered snapshot list.
func (s *Store) GetOutcome(outcomeID string) (StoredOutcome, error) {
	row := s.db.QueryRow(
		`SELECT outcome_id, session_id, user_id, started_at, ended_at,
			stage, success_rate, content_mastery,
			avg_attention, avg_engagement, avg_efficiency,
			recommendations, created_at,
			(SELECT COUNT(*) FROM metric_snapshots m WHERE m.outcome_id = session_outcomes.outcome_id)
		 FROM session_outcomes WHERE outcome_id = ?`, outcomeID,
	)
	so, err := scanOutcome(row)
	if err != nil {
		return StoredOutcome{}, fmt.Errorf("get outcome %s: %w", outcomeID, err)
	}

	so.Outcome.Metrics, err = s.snapshots(outcomeID)
	if err != nil {
		return StoredOutcome{}, err
	}
	return so, nil
}

// snapshots loads the ordered snapshot list for one outcome.
func (s *Store) snapshots(outcomeID string) ([]session.MetricSnapshot, error) {
	rows, err := s.db.Query(
		`SELECT snapshot_id, ts, delta, theta, alpha, beta, gamma,
			attention, cognitive_load, engagement, efficiency, state
		 FROM metric_snapshots WHERE outcome_id = ? ORDER BY seq ASC`, outcomeID,
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var metrics []session.MetricSnapshot
	for rows.Next() {
		var m session.MetricSnapshot
		var tsStr, stateStr string
		if err := rows.Scan(&m.ID, &tsStr,
			&m.Bands.Delta, &m.Bands.Theta, &m.Bands.Alpha, &m.Bands.Beta, &m.Bands.Gamma,
			&m.Attention, &m.CognitiveLoad, &m.Engagement, &m.LearningEfficiency, &stateStr,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		m.Timestamp, _ = time.Parse(time.RFC3339Nano, tsStr)
		m.State = classify.NeuralState(stateStr)
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// #endregion list-outcomes

// #region prune

// CountOutcomes reports how many outcomes the store holds.
func (s *Store) CountOutcomes() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM session_outcomes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count outcomes: %w", err)
	}
	return n, nil
}

// Prune deletes the oldest outcomes (and their snapshots) beyond keep.
// The eviction hook for long-lived engines.
func (s *Store) Prune(keep int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`DELETE FROM metric_snapshots WHERE outcome_id IN (
			SELECT outcome_id FROM session_outcomes
			ORDER BY created_at DESC LIMIT -1 OFFSET ?
		)`, keep,
	)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}

	_, err = tx.Exec(
		`DELETE FROM session_outcomes WHERE outcome_id IN (
			SELECT outcome_id FROM session_outcomes
			ORDER BY created_at DESC LIMIT -1 OFFSET ?
		)`, keep,
	)
	if err != nil {
		return fmt.Errorf("prune outcomes: %w", err)
	}

	return tx.Commit()
}

// #endregion prune

// #region scan-helpers

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOutcome(r rowScanner) (StoredOutcome, error) {
	var so StoredOutcome
	var startedStr, endedStr, stageStr, recsJSON, createdStr string
	err := r.Scan(
		&so.OutcomeID, &so.Outcome.SessionID, &so.Outcome.UserID, &startedStr, &endedStr,
		&stageStr, &so.Outcome.SuccessRate, &so.Outcome.ContentMastery,
		&so.Outcome.AvgAttention, &so.Outcome.AvgEngagement, &so.Outcome.AvgEfficiency,
		&recsJSON, &createdStr, &so.Snapshots,
	)
	if err != nil {
		return StoredOutcome{}, fmt.Errorf("scan outcome: %w", err)
	}
	so.Outcome.StartedAt, _ = time.Parse(time.RFC3339Nano, startedStr)
	so.Outcome.EndedAt, _ = time.Parse(time.RFC3339Nano, endedStr)
	so.Outcome.Stage = control.Stage(stageStr)
	so.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	if err := json.Unmarshal([]byte(recsJSON), &so.Outcome.Recommendations); err != nil {
		return StoredOutcome{}, fmt.Errorf("unmarshal recommendations: %w", err)
	}
	return so, nil
}

// #endregion scan-helpers

// compile-time sink checks
var (
	_ session.OutcomeSink = (*Store)(nil)
	_ session.EventSink   = (*Store)(nil)
)
