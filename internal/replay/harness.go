// Package replay re-runs recorded learner sessions through a fresh engine,
// deterministically, for regression checks and offline tuning.
package replay

import (
	"fmt"

	"github.com/danielpatrickdp/adaptive-learning/engine/internal/control"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/session"
)

// #region types

// SessionResult captures the outcome of replaying one recorded session.
type SessionResult struct {
	SessionID string
	Outcome   session.SessionOutcome
	State     control.State

	// Divergences lists every failed expectation; empty means the session
	// matched, or carried no expectations.
	Divergences []string
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalSessions int
	TotalTicks    int
	Matched       int
	Diverged      int
	FinalState    control.State
}

// #endregion types

// #region replay

// Replay runs every recorded session through eng in order: ticks →
// completion → expectation check. The engine accumulates controller state
// across sessions exactly as it would live.
func Replay(eng *session.Engine, sessions []FixtureSession) []SessionResult {
	results := make([]SessionResult, 0, len(sessions))

	for _, fs := range sessions {
		for _, tick := range fs.Ticks {
			if tick.Bands != nil {
				eng.ProcessBands(tick.Bands.ToPowers())
				continue
			}
			eng.ProcessTick(tick.Window)
		}

		outcome := eng.CompleteSession(fs.SessionID, fs.SuccessRate, fs.ContentMastery)

		r := SessionResult{
			SessionID: fs.SessionID,
			Outcome:   outcome,
			State:     eng.State(),
		}
		if fs.ExpectStage != "" && string(outcome.Stage) != fs.ExpectStage {
			r.Divergences = append(r.Divergences,
				fmt.Sprintf("stage: expected %s, got %s", fs.ExpectStage, outcome.Stage))
		}
		if fs.ExpectRecCount > 0 && len(outcome.Recommendations) != fs.ExpectRecCount {
			r.Divergences = append(r.Divergences,
				fmt.Sprintf("recommendations: expected %d, got %d",
					fs.ExpectRecCount, len(outcome.Recommendations)))
		}
		results = append(results, r)
	}

	return results
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []SessionResult, finalState control.State) Summary {
	s := Summary{
		TotalSessions: len(results),
		FinalState:    finalState,
	}
	for _, r := range results {
		s.TotalTicks += len(r.Outcome.Metrics)
		if len(r.Divergences) == 0 {
			s.Matched++
		} else {
			s.Diverged++
		}
	}
	return s
}

// #endregion replay
