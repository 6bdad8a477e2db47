// Package classify maps derived indices to a discrete neural state.
package classify

// #region neural-state

// NeuralState is the discrete classification of a learner's momentary state.
type NeuralState string

const (
	StateResting  NeuralState = "resting"
	StateActive   NeuralState = "active"
	StateFocused  NeuralState = "focused"
	StateLearning NeuralState = "learning"
	// StateRecall is part of the state vocabulary but is not emitted by the
	// default rule chain; custom rule sets may produce it.
	StateRecall NeuralState = "recall"
)

// #endregion neural-state

// #region rules

// Rule pairs a predicate with the state it produces. Rules are evaluated in
// slice order and the first match wins, so ordering is part of the contract.
type Rule struct {
	Name  string
	Match func(attention, load, engagement float32) bool
	State NeuralState
}

// DefaultRules returns the standard rule chain in priority order.
// Reordering these rules changes classification semantics.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:  "learning",
			Match: func(att, _, eng float32) bool { return eng > 0.8 && att > 0.7 },
			State: StateLearning,
		},
		{
			Name:  "focused",
			Match: func(att, load, _ float32) bool { return att > 0.7 && load < 0.5 },
			State: StateFocused,
		},
		{
			Name:  "active",
			Match: func(_, _, eng float32) bool { return eng > 0.6 },
			State: StateActive,
		},
		{
			Name:  "resting",
			Match: func(_, load, _ float32) bool { return load < 0.3 },
			State: StateResting,
		},
	}
}

// #endregion rules

// #region classify

// Classify runs the rule chain over one index triple. Deterministic: equal
// inputs always yield equal states. Falls back to active when no rule fires.
func Classify(rules []Rule, attention, load, engagement float32) NeuralState {
	for _, r := range rules {
		if r.Match(attention, load, engagement) {
			return r.State
		}
	}
	return StateActive
}

// #endregion classify
