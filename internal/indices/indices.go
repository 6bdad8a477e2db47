// Package indices derives the momentary cognitive indices from band powers.
package indices

import (
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/bands"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/traits"
)

// alphaFloor keeps the attention ratio finite when alpha power is zero.
const alphaFloor = 0.01

// Weights for the learning-efficiency blend. The 0.7/0.3 signal/trait
// split is a tuned constant; changing it changes every downstream
// controller decision.
const (
	signalWeight = 0.7
	traitWeight  = 0.3
)

// #region set

// Set bundles the four derived indices for one tick. All values in [0, 1].
type Set struct {
	Attention          float32 `json:"attention"`
	CognitiveLoad      float32 `json:"cognitive_load"`
	Engagement         float32 `json:"engagement"`
	LearningEfficiency float32 `json:"learning_efficiency"`
}

// Compute derives the full index set from band powers and the trait profile.
func Compute(p bands.Powers, profile traits.Profile) Set {
	att := Attention(p)
	eng := Engagement(p)
	return Set{
		Attention:          att,
		CognitiveLoad:      CognitiveLoad(p),
		Engagement:         eng,
		LearningEfficiency: LearningEfficiency(att, eng, profile),
	}
}

// #endregion set

// #region calculators

// Attention is the beta/alpha ratio, floored on alpha.
func Attention(p bands.Powers) float32 {
	return clamp(p.Beta / (p.Alpha + alphaFloor))
}

// CognitiveLoad weighs theta against inverse alpha.
func CognitiveLoad(p bands.Powers) float32 {
	return clamp(0.7*p.Theta + 0.3*(1-p.Alpha))
}

// Engagement blends beta, gamma, and alpha.
func Engagement(p bands.Powers) float32 {
	return clamp(0.5*p.Beta + 0.3*p.Gamma + 0.2*p.Alpha)
}

// LearningEfficiency blends the momentary signal with the static trait
// profile at the fixed signal/trait split.
func LearningEfficiency(attention, engagement float32, profile traits.Profile) float32 {
	signal := 0.6*attention + 0.4*engagement
	trait := 0.4*profile.LearningEfficiency + 0.3*profile.ProcessingSpeed + 0.3*profile.AttentionSpan
	return clamp(signalWeight*signal + traitWeight*trait)
}

// #endregion calculators

// #region helpers

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
