// Package session orchestrates the per-tick pipeline and the session
// lifecycle: idle → accumulating → completing → idle.
package session

// #region imports
import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/adaptive-learning/engine/internal/bands"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/classify"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/control"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/indices"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/logging"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/recommend"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/traits"
)

// #endregion

// #region engine

// Engine is the adaptive learning engine for a single learner. One instance
// per user; instances share nothing, so no locking is needed as long as that
// isolation is respected.
type Engine struct {
	userID  string
	profile traits.Profile

	extractor  bands.Extractor
	rules      []classify.Rule
	recRules   []recommend.Rule
	controlCfg control.Config
	state      control.State

	phase        Phase
	sessionStart time.Time
	buffer       []MetricSnapshot

	history    []SessionOutcome
	historyCap int

	sink   OutcomeSink
	events EventSink
	log    *zap.SugaredLogger
}

// #endregion engine

// #region constructor

// New builds an engine for one learner. Fails fast when the trait profile
// has any field outside [0, 1]; no partial engine is ever returned.
func New(userID string, profile traits.Profile, cfg Config) (*Engine, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	if cfg.Extractor == nil {
		cfg.Extractor = bands.NewAmplitudeExtractor(nil)
	}
	if cfg.Classifier == nil {
		cfg.Classifier = classify.DefaultRules()
	}
	if cfg.Recommender == nil {
		cfg.Recommender = recommend.DefaultRules()
	}
	if cfg.Control == (control.Config{}) {
		cfg.Control = control.DefaultConfig()
	}
	if cfg.InitialState == (control.State{}) {
		cfg.InitialState = control.DefaultState()
	}
	if cfg.HistoryCap <= 0 {
		cfg.HistoryCap = DefaultHistoryCap
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop().Sugar()
	}

	return &Engine{
		userID:     userID,
		profile:    profile,
		extractor:  cfg.Extractor,
		rules:      cfg.Classifier,
		recRules:   cfg.Recommender,
		controlCfg: cfg.Control,
		state:      cfg.InitialState,
		phase:      PhaseIdle,
		historyCap: cfg.HistoryCap,
		sink:       cfg.Sink,
		events:     cfg.Events,
		log:        cfg.Log,
	}, nil
}

// #endregion constructor

// #region process-tick

// ProcessTick runs one sample window through extractor → indices →
// classifier, buffers the resulting snapshot, and returns it. Starts a
// session implicitly when idle. Never fails: an empty window degrades to
// all-zero band powers with a logged quality event.
func (e *Engine) ProcessTick(window []float32) MetricSnapshot {
	if e.phase == PhaseIdle {
		e.phase = PhaseAccumulating
		e.sessionStart = time.Now().UTC()
	}

	var powers bands.Powers
	if len(window) == 0 {
		e.log.Warnw("empty sample window, signal quality degraded", "user_id", e.userID)
		e.logEvent("", logging.EventQualityDegraded, "empty sample window yielded zero band powers")
	} else {
		powers = e.extractor.Extract(window)
	}

	return e.appendSnapshot(powers)
}

// ProcessBands ingests pre-extracted band powers, bypassing the extractor.
// Used when replaying recorded sessions whose raw windows were not kept.
func (e *Engine) ProcessBands(powers bands.Powers) MetricSnapshot {
	if e.phase == PhaseIdle {
		e.phase = PhaseAccumulating
		e.sessionStart = time.Now().UTC()
	}
	return e.appendSnapshot(powers)
}

// appendSnapshot derives indices, classifies, and buffers one snapshot.
func (e *Engine) appendSnapshot(powers bands.Powers) MetricSnapshot {
	idx := indices.Compute(powers, e.profile)
	snap := MetricSnapshot{
		ID:                 uuid.New().String(),
		Timestamp:          time.Now().UTC(),
		Bands:              powers,
		Attention:          idx.Attention,
		CognitiveLoad:      idx.CognitiveLoad,
		Engagement:         idx.Engagement,
		LearningEfficiency: idx.LearningEfficiency,
		State:              classify.Classify(e.rules, idx.Attention, idx.CognitiveLoad, idx.Engagement),
	}
	e.buffer = append(e.buffer, snap)
	return snap
}

// #endregion process-tick

// #region complete-session

// CompleteSession closes the current session: aggregates the buffer, runs
// the recommendation rules and both controller rules, records the outcome,
// and resets to idle. Completing with an empty buffer is non-fatal; the
// averages come from one synthetic neutral snapshot and the outcome carries
// zero-length Metrics as a low-confidence marker.
func (e *Engine) CompleteSession(sessionID string, successRate, contentMastery float32) SessionOutcome {
	e.phase = PhaseCompleting
	now := time.Now().UTC()

	successRate = clamp(successRate)
	contentMastery = clamp(contentMastery)

	agg := e.aggregateBuffer(sessionID)

	recs := recommend.Generate(e.recRules, recommend.Aggregates{
		AvgAttention:  agg.attention,
		AvgEngagement: agg.engagement,
		AvgLoad:       agg.load,
		SampleCount:   len(e.buffer),
	}, e.profile)

	res := control.Apply(e.state, control.Inputs{
		Performance:  successRate,
		AvgAttention: agg.attention,
		AvgLoad:      agg.load,
	}, e.profile, e.controlCfg)
	e.state = res.State

	started := e.sessionStart
	if started.IsZero() {
		started = now
	}

	metrics := make([]MetricSnapshot, len(e.buffer))
	copy(metrics, e.buffer)

	outcome := SessionOutcome{
		SessionID:       sessionID,
		UserID:          e.userID,
		StartedAt:       started,
		EndedAt:         now,
		Stage:           res.State.Stage,
		SuccessRate:     successRate,
		ContentMastery:  contentMastery,
		AvgAttention:    agg.attention,
		AvgEngagement:   agg.engagement,
		AvgEfficiency:   agg.efficiency,
		Recommendations: recs,
		Metrics:         metrics,
	}

	e.history = append(e.history, outcome)
	if len(e.history) > e.historyCap {
		e.history = e.history[len(e.history)-e.historyCap:]
	}

	if e.sink != nil {
		if err := e.sink.SaveOutcome(outcome); err != nil {
			e.log.Errorw("persist outcome failed", "session_id", sessionID, "err", err)
		}
	}
	e.logEvent(sessionID, logging.EventSessionComplete, res.Reason)
	e.log.Infow("session complete",
		"session_id", sessionID,
		"ticks", len(metrics),
		"stage", string(res.State.Stage),
		"difficulty", res.State.Difficulty,
		"pacing", res.State.Pacing,
	)

	e.buffer = nil
	e.sessionStart = time.Time{}
	e.phase = PhaseIdle

	return outcome
}

// sessionAggregates holds buffer averages for one completing session.
type sessionAggregates struct {
	attention  float32
	load       float32
	engagement float32
	efficiency float32
}

// aggregateBuffer averages the snapshot buffer. An empty buffer substitutes
// one synthetic neutral snapshot (all indices 0.5) with a logged warning.
func (e *Engine) aggregateBuffer(sessionID string) sessionAggregates {
	if len(e.buffer) == 0 {
		e.log.Warnw("completing session with empty metric buffer, using neutral snapshot",
			"session_id", sessionID, "user_id", e.userID)
		e.logEvent(sessionID, logging.EventEmptyBuffer, "no ticks recorded; neutral snapshot substituted")
		return sessionAggregates{attention: 0.5, load: 0.5, engagement: 0.5, efficiency: 0.5}
	}

	var agg sessionAggregates
	for _, s := range e.buffer {
		agg.attention += s.Attention
		agg.load += s.CognitiveLoad
		agg.engagement += s.Engagement
		agg.efficiency += s.LearningEfficiency
	}
	n := float32(len(e.buffer))
	agg.attention /= n
	agg.load /= n
	agg.engagement /= n
	agg.efficiency /= n
	return agg
}

// #endregion complete-session

// #region progress-summary

// ProgressSummary aggregates the full in-memory session history. With no
// completed sessions it returns the sentinel (HasSessions false) with the
// current controller state still filled in.
func (e *Engine) ProgressSummary() ProgressSummary {
	summary := ProgressSummary{
		Stage:      e.state.Stage,
		Difficulty: e.state.Difficulty,
		Pacing:     e.state.Pacing,
	}
	if len(e.history) == 0 {
		return summary
	}

	summary.HasSessions = true
	summary.Sessions = len(e.history)
	for _, o := range e.history {
		summary.AvgSuccessRate += o.SuccessRate
		summary.AvgMastery += o.ContentMastery
		summary.AvgAttention += o.AvgAttention
		summary.AvgEngagement += o.AvgEngagement
		summary.TotalLearningTime += o.EndedAt.Sub(o.StartedAt)
	}
	n := float32(len(e.history))
	summary.AvgSuccessRate /= n
	summary.AvgMastery /= n
	summary.AvgAttention /= n
	summary.AvgEngagement /= n
	return summary
}

// #endregion progress-summary

// #region accessors

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() Phase { return e.phase }

// State returns the current controller state.
func (e *Engine) State() control.State { return e.state }

// Profile returns the learner's trait profile.
func (e *Engine) Profile() traits.Profile { return e.profile }

// UserID returns the learner this engine belongs to.
func (e *Engine) UserID() string { return e.userID }

// BufferLen reports how many snapshots the open session has accumulated.
func (e *Engine) BufferLen() int { return len(e.buffer) }

// History returns the in-memory outcome history, oldest first.
func (e *Engine) History() []SessionOutcome {
	out := make([]SessionOutcome, len(e.history))
	copy(out, e.history)
	return out
}

// #endregion accessors

// #region helpers

// logEvent writes to the durable event sink when one is attached.
func (e *Engine) logEvent(sessionID, kind, detail string) {
	if e.events == nil {
		return
	}
	if err := e.events.LogEvent(sessionID, kind, detail); err != nil {
		e.log.Warnw("event log failed", "kind", kind, "err", err)
	}
}

// clamp restricts v to [0, 1].
func clamp(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion helpers
