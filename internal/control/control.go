// Package control adjusts difficulty and pacing once per completed session.
package control

import (
	"fmt"

	"github.com/danielpatrickdp/adaptive-learning/engine/internal/traits"
)

// #region apply

// Apply is a pure function that computes the next controller state from the
// current state, session aggregates, and the trait profile. Idempotent for
// identical inputs; invoked exactly once per completed session.
func Apply(old State, in Inputs, profile traits.Profile, cfg Config) Result {
	next := old
	next.Difficulty = NextDifficulty(old.Difficulty, in.Performance, profile, cfg)
	next.Pacing = NextPacing(old.Pacing, in.AvgAttention, in.AvgLoad, cfg)
	next.Stage = StageFor(next.Difficulty, cfg)

	return Result{
		State:           next,
		DifficultyDelta: next.Difficulty - old.Difficulty,
		PacingDelta:     next.Pacing - old.Pacing,
		Reason: fmt.Sprintf("performance=%.2f attention=%.2f load=%.2f → difficulty %.3f→%.3f pacing %.2f→%.2f",
			in.Performance, in.AvgAttention, in.AvgLoad,
			old.Difficulty, next.Difficulty, old.Pacing, next.Pacing),
	}
}

// #endregion apply

// #region difficulty

// NextDifficulty steps difficulty by performance, then applies trait-weighted
// damping so identical performance histories converge to different steady
// states per learner. The damping factor lies in [0.7, 1.0].
func NextDifficulty(cur, performance float32, profile traits.Profile, cfg Config) float32 {
	d := cur
	switch {
	case performance > cfg.RaiseThreshold:
		d += cfg.DifficultyStep
		if d > cfg.MaxDifficulty {
			d = cfg.MaxDifficulty
		}
	case performance < cfg.LowerThreshold:
		d -= cfg.DifficultyStep
		if d < cfg.MinDifficulty {
			d = cfg.MinDifficulty
		}
	}

	damping := 0.7 + 0.3*((profile.LearningEfficiency+profile.Persistence)/2)
	d *= damping

	return clampRange(d, cfg.MinDifficulty, cfg.MaxDifficulty)
}

// #endregion difficulty

// #region pacing

// NextPacing slows pacing when attention sags or load spikes, speeds it when
// the learner is comfortably ahead, and otherwise leaves it alone.
func NextPacing(cur, avgAttention, avgLoad float32, cfg Config) float32 {
	switch {
	case avgAttention < cfg.LowAttention || avgLoad > cfg.HighLoad:
		cur *= cfg.SlowFactor
	case avgAttention > cfg.HighAttention && avgLoad < cfg.LowLoad:
		cur *= cfg.FastFactor
	}
	return clampRange(cur, cfg.MinPacing, cfg.MaxPacing)
}

// #endregion pacing

// #region stage

// StageFor maps a difficulty level to its instructional stage.
func StageFor(difficulty float32, cfg Config) Stage {
	switch {
	case difficulty >= cfg.AdvancedAt:
		return StageAdvanced
	case difficulty >= cfg.IntermediateAt:
		return StageIntermediate
	default:
		return StageFoundation
	}
}

// #endregion stage

// #region helpers

// clampRange restricts v to [lo, hi].
func clampRange(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// #endregion helpers
