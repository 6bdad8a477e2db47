package control

import (
	"math"
	"testing"

	"github.com/danielpatrickdp/adaptive-learning/engine/internal/traits"
)

func approx(t *testing.T, name string, got, want float32) {
	t.Helper()
	if math.Abs(float64(got-want)) > 1e-5 {
		t.Fatalf("%s: got %f, want %f", name, got, want)
	}
}

func TestDifficultyRaisesOnHighPerformance(t *testing.T) {
	cfg := DefaultConfig()
	// Full damping (traits at 1.0) isolates the step rule.
	approx(t, "raised difficulty", NextDifficulty(0.5, 0.9, traits.Uniform(1), cfg), 0.6)
}

func TestDifficultyLowersOnLowPerformance(t *testing.T) {
	cfg := DefaultConfig()
	approx(t, "lowered difficulty", NextDifficulty(0.5, 0.4, traits.Uniform(1), cfg), 0.4)
}

func TestDifficultyUnchangedInBand(t *testing.T) {
	cfg := DefaultConfig()
	approx(t, "unchanged difficulty", NextDifficulty(0.5, 0.7, traits.Uniform(1), cfg), 0.5)
}

func TestDifficultyDampingPersonalizes(t *testing.T) {
	cfg := DefaultConfig()
	persistent := traits.Uniform(0.5)
	persistent.Persistence = 0.9
	fragile := traits.Uniform(0.5)
	fragile.Persistence = 0.3

	// Same low-performance session, same starting difficulty: the more
	// persistent learner retains numerically more difficulty.
	dPersistent := NextDifficulty(0.7, 0.5, persistent, cfg)
	dFragile := NextDifficulty(0.7, 0.5, fragile, cfg)
	if dPersistent <= dFragile {
		t.Fatalf("persistence 0.9 should keep more difficulty: %f vs %f", dPersistent, dFragile)
	}
}

func TestDifficultyBoundsUnderAnySequence(t *testing.T) {
	cfg := DefaultConfig()
	profile := traits.Uniform(0.2)
	performances := []float32{0, 0, 0, 1, 1, 1, 1, 1, 0.95, 0.1, 0.99, 0, 1, 0.5, 0.86, 0.59}

	d := DefaultState().Difficulty
	for i, p := range performances {
		d = NextDifficulty(d, p, profile, cfg)
		if d < cfg.MinDifficulty || d > cfg.MaxDifficulty {
			t.Fatalf("step %d: difficulty %f escaped [%f, %f]", i, d, cfg.MinDifficulty, cfg.MaxDifficulty)
		}
	}
}

func TestDifficultyThresholdsExclusive(t *testing.T) {
	cfg := DefaultConfig()
	full := traits.Uniform(1)
	// Exactly at the raise threshold: no step.
	approx(t, "at raise threshold", NextDifficulty(0.5, 0.85, full, cfg), 0.5)
	// Exactly at the lower threshold: no step.
	approx(t, "at lower threshold", NextDifficulty(0.5, 0.60, full, cfg), 0.5)
}

func TestPacingSlowsOnLowAttention(t *testing.T) {
	cfg := DefaultConfig()
	approx(t, "slowed pacing", NextPacing(1.0, 0.4, 0.5, cfg), 0.9)
}

func TestPacingSlowsOnHighLoad(t *testing.T) {
	cfg := DefaultConfig()
	approx(t, "slowed pacing", NextPacing(1.0, 0.7, 0.9, cfg), 0.9)
}

func TestPacingSpeedsWhenComfortable(t *testing.T) {
	cfg := DefaultConfig()
	got := NextPacing(1.0, 0.85, 0.4, cfg)
	if got < 1.09 || got > 1.11 {
		t.Fatalf("expected ~1.1, got %f", got)
	}
}

func TestPacingFloorsAndCaps(t *testing.T) {
	cfg := DefaultConfig()

	p := float32(1.0)
	for i := 0; i < 30; i++ {
		p = NextPacing(p, 0.1, 0.9, cfg)
	}
	if p != cfg.MinPacing {
		t.Fatalf("expected floor %f, got %f", cfg.MinPacing, p)
	}

	p = 1.0
	for i := 0; i < 30; i++ {
		p = NextPacing(p, 0.9, 0.2, cfg)
	}
	if p != cfg.MaxPacing {
		t.Fatalf("expected cap %f, got %f", cfg.MaxPacing, p)
	}
}

func TestPacingUnchangedInBand(t *testing.T) {
	cfg := DefaultConfig()
	if got := NextPacing(1.2, 0.6, 0.6, cfg); got != 1.2 {
		t.Fatalf("expected 1.2, got %f", got)
	}
}

func TestStageForThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		difficulty float32
		want       Stage
	}{
		{0.1, StageFoundation},
		{0.39, StageFoundation},
		{0.4, StageIntermediate},
		{0.74, StageIntermediate},
		{0.75, StageAdvanced},
		{1.0, StageAdvanced},
	}
	for _, tc := range cases {
		if got := StageFor(tc.difficulty, cfg); got != tc.want {
			t.Errorf("difficulty %f: got %s, want %s", tc.difficulty, got, tc.want)
		}
	}
}

func TestApplyIdempotentForEqualInputs(t *testing.T) {
	cfg := DefaultConfig()
	profile := traits.Uniform(0.7)
	old := DefaultState()
	in := Inputs{Performance: 0.9, AvgAttention: 0.85, AvgLoad: 0.3}

	first := Apply(old, in, profile, cfg)
	second := Apply(old, in, profile, cfg)
	if first.State != second.State {
		t.Fatalf("apply not idempotent: %+v vs %+v", first.State, second.State)
	}
	if first.State.Difficulty <= old.Difficulty {
		t.Fatalf("high performance should raise difficulty: %f", first.State.Difficulty)
	}
	if first.State.Pacing <= old.Pacing {
		t.Fatalf("comfortable session should speed pacing: %f", first.State.Pacing)
	}
}

func TestApplyReinforcementThresholdUntouched(t *testing.T) {
	old := DefaultState()
	res := Apply(old, Inputs{Performance: 1, AvgAttention: 1, AvgLoad: 0}, traits.Uniform(0.5), DefaultConfig())
	if res.State.ReinforcementThreshold != old.ReinforcementThreshold {
		t.Fatalf("reinforcement threshold must not be mutated by rules")
	}
}
