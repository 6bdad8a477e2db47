package session

// #region imports
import (
	"time"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/adaptive-learning/engine/internal/bands"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/classify"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/control"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/recommend"
)

// #endregion

// #region phase

// Phase tracks where the engine sits in the session lifecycle.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseAccumulating Phase = "accumulating"
	PhaseCompleting   Phase = "completing"
)

// #endregion phase

// #region metric-snapshot

// MetricSnapshot is the immutable per-tick record: band powers, derived
// indices, and the classified neural state. Snapshots keep arrival order in
// the session buffer; duration math depends on first/last timestamps.
type MetricSnapshot struct {
	ID                 string               `json:"id"`
	Timestamp          time.Time            `json:"timestamp"`
	Bands              bands.Powers         `json:"bands"`
	Attention          float32              `json:"attention"`
	CognitiveLoad      float32              `json:"cognitive_load"`
	Engagement         float32              `json:"engagement"`
	LearningEfficiency float32              `json:"learning_efficiency"`
	State              classify.NeuralState `json:"state"`
}

// #endregion metric-snapshot

// #region session-outcome

// SessionOutcome is the aggregate record emitted at session completion.
// Metrics holds the full ordered snapshot list; zero-length Metrics marks a
// low-confidence outcome (completion without any ticks).
type SessionOutcome struct {
	SessionID       string           `json:"session_id"`
	UserID          string           `json:"user_id"`
	StartedAt       time.Time        `json:"started_at"`
	EndedAt         time.Time        `json:"ended_at"`
	Stage           control.Stage    `json:"stage"`
	SuccessRate     float32          `json:"success_rate"`
	ContentMastery  float32          `json:"content_mastery"`
	AvgAttention    float32          `json:"avg_attention"`
	AvgEngagement   float32          `json:"avg_engagement"`
	AvgEfficiency   float32          `json:"avg_efficiency"`
	Recommendations []string         `json:"recommendations"`
	Metrics         []MetricSnapshot `json:"metrics"`
}

// #endregion session-outcome

// #region progress-summary

// ProgressSummary is the read-only aggregation over the session history.
// HasSessions false is the explicit no-sessions-yet sentinel; the controller
// fields are still populated from current state.
type ProgressSummary struct {
	HasSessions       bool          `json:"has_sessions"`
	Sessions          int           `json:"sessions"`
	Stage             control.Stage `json:"stage"`
	Difficulty        float32       `json:"difficulty"`
	Pacing            float32       `json:"pacing"`
	AvgSuccessRate    float32       `json:"avg_success_rate"`
	AvgMastery        float32       `json:"avg_mastery"`
	AvgAttention      float32       `json:"avg_attention"`
	AvgEngagement     float32       `json:"avg_engagement"`
	TotalLearningTime time.Duration `json:"total_learning_time"`
}

// #endregion progress-summary

// #region sinks

// OutcomeSink mirrors completed outcomes to durable storage. Sink failures
// are logged, never propagated: persistence is best-effort from the
// engine's point of view.
type OutcomeSink interface {
	SaveOutcome(outcome SessionOutcome) error
}

// EventSink records degradation events and lifecycle warnings durably.
type EventSink interface {
	LogEvent(sessionID, kind, detail string) error
}

// #endregion sinks

// #region config

// Config wires an Engine. Zero-value fields fall back to defaults; Sink and
// Events may stay nil for a purely in-memory engine.
type Config struct {
	Extractor    bands.Extractor
	Classifier   []classify.Rule
	Recommender  []recommend.Rule
	Control      control.Config
	InitialState control.State
	HistoryCap   int // in-memory outcomes kept for ProgressSummary; 0 = default
	Sink         OutcomeSink
	Events       EventSink
	Log          *zap.SugaredLogger
}

// DefaultHistoryCap bounds the in-memory outcome history. Older outcomes
// are evicted once the cap is reached; the durable sink keeps the rest.
const DefaultHistoryCap = 256

// #endregion config
