package recommend

import (
	"testing"

	"github.com/danielpatrickdp/adaptive-learning/engine/internal/traits"
)

func generate(agg Aggregates, profile traits.Profile) []string {
	return Generate(DefaultRules(), agg, profile)
}

func TestEmptySessionFallback(t *testing.T) {
	got := generate(Aggregates{}, traits.Neutral())
	if len(got) != 1 {
		t.Fatalf("expected single fallback message, got %d entries", len(got))
	}
	if got[0] != FallbackMessage {
		t.Fatalf("expected fallback message, got %q", got[0])
	}
}

func TestCapAtFiveWithPriorityOrder(t *testing.T) {
	// All six rules trigger: low attention, low engagement, high load
	// cannot co-trigger with the advance rule, so force the trait rules
	// plus the three struggle rules, and verify a conflicting set instead.
	agg := Aggregates{AvgAttention: 0.4, AvgEngagement: 0.5, AvgLoad: 0.9, SampleCount: 3}
	profile := traits.Neutral()
	profile.Curiosity = 0.9
	profile.Persistence = 0.9

	got := generate(agg, profile)
	if len(got) != 5 {
		t.Fatalf("expected 5 recommendations, got %d", len(got))
	}

	rules := DefaultRules()
	wantOrder := []string{
		rules[0].Message, // low_attention
		rules[1].Message, // low_engagement
		rules[2].Message, // high_load
		rules[4].Message, // curiosity (advance cannot fire here)
		rules[5].Message, // persistence
	}
	for i, want := range wantOrder {
		if got[i] != want {
			t.Errorf("position %d: got %q, want %q", i, got[i], want)
		}
	}
}

func TestNoDuplicates(t *testing.T) {
	agg := Aggregates{AvgAttention: 0.3, AvgEngagement: 0.3, AvgLoad: 0.9, SampleCount: 10}
	profile := traits.Uniform(0.9)
	got := generate(agg, profile)
	seen := map[string]bool{}
	for _, msg := range got {
		if seen[msg] {
			t.Fatalf("duplicate recommendation: %q", msg)
		}
		seen[msg] = true
	}
}

func TestAdvanceRule(t *testing.T) {
	agg := Aggregates{AvgAttention: 0.85, AvgEngagement: 0.85, AvgLoad: 0.4, SampleCount: 5}
	got := generate(agg, traits.Neutral())
	if len(got) != 1 {
		t.Fatalf("expected only the advance rule, got %v", got)
	}
	if got[0] != DefaultRules()[3].Message {
		t.Fatalf("expected advance message, got %q", got[0])
	}
}

func TestQuietSessionNoRecommendations(t *testing.T) {
	// Mid-range everything, modest traits: no rule fires.
	agg := Aggregates{AvgAttention: 0.6, AvgEngagement: 0.7, AvgLoad: 0.5, SampleCount: 4}
	got := generate(agg, traits.Neutral())
	if len(got) != 0 {
		t.Fatalf("expected no recommendations, got %v", got)
	}
}

func TestTraitRulesThresholdExclusive(t *testing.T) {
	agg := Aggregates{AvgAttention: 0.6, AvgEngagement: 0.7, AvgLoad: 0.5, SampleCount: 4}
	profile := traits.Neutral()
	profile.Curiosity = 0.7
	profile.Persistence = 0.8
	if got := generate(agg, profile); len(got) != 0 {
		t.Fatalf("thresholds are exclusive, got %v", got)
	}
}
