// Package recommend turns session aggregates into ranked guidance.
package recommend

import "github.com/danielpatrickdp/adaptive-learning/engine/internal/traits"

// MaxRecommendations caps the returned list.
const MaxRecommendations = 5

// FallbackMessage is returned when no session metrics exist yet.
const FallbackMessage = "Complete a learning session to receive tailored recommendations."

// #region aggregates

// Aggregates carries the session-level averages the rules consume.
// SampleCount is the number of real metric snapshots behind the averages;
// zero means the session produced no metrics.
type Aggregates struct {
	AvgAttention  float32
	AvgEngagement float32
	AvgLoad       float32
	SampleCount   int
}

// #endregion aggregates

// #region rules

// Rule pairs a predicate with the guidance it contributes. Rules are
// evaluated in slice order; each contributes at most one entry and the
// result keeps this order, so priority is part of the contract.
type Rule struct {
	Name    string
	Match   func(agg Aggregates, profile traits.Profile) bool
	Message string
}

// DefaultRules returns the standard guidance rules in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:    "low_attention",
			Match:   func(a Aggregates, _ traits.Profile) bool { return a.AvgAttention < 0.5 },
			Message: "Shorten study sessions and remove distractions to rebuild attention.",
		},
		{
			Name:    "low_engagement",
			Match:   func(a Aggregates, _ traits.Profile) bool { return a.AvgEngagement < 0.6 },
			Message: "Switch to more interactive material to lift engagement.",
		},
		{
			Name:    "high_load",
			Match:   func(a Aggregates, _ traits.Profile) bool { return a.AvgLoad > 0.8 },
			Message: "Insert review sessions and take more frequent breaks to lower cognitive load.",
		},
		{
			Name:    "advance",
			Match:   func(a Aggregates, _ traits.Profile) bool { return a.AvgAttention > 0.8 && a.AvgEngagement > 0.8 },
			Message: "Advance to more challenging material; attention and engagement are both strong.",
		},
		{
			Name:    "curiosity",
			Match:   func(_ Aggregates, p traits.Profile) bool { return p.Curiosity > 0.7 },
			Message: "Explore related topics to keep curiosity fed.",
		},
		{
			Name:    "persistence",
			Match:   func(_ Aggregates, p traits.Profile) bool { return p.Persistence > 0.8 },
			Message: "Take on harder stretch problems that reward persistence.",
		},
	}
}

// #endregion rules

// #region generate

// Generate evaluates the rules in order and returns at most
// MaxRecommendations messages. An empty session (SampleCount == 0) yields
// the single fallback message; this function never fails.
func Generate(rules []Rule, agg Aggregates, profile traits.Profile) []string {
	if agg.SampleCount == 0 {
		return []string{FallbackMessage}
	}

	var out []string
	for _, r := range rules {
		if len(out) == MaxRecommendations {
			break
		}
		if r.Match(agg, profile) {
			out = append(out, r.Message)
		}
	}
	return out
}

// #endregion generate
