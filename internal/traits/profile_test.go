package traits

import "testing"

func TestNewAcceptsInRangeProfile(t *testing.T) {
	p, err := New(Uniform(0.7))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Curiosity != 0.7 || p.AdaptationRate != 0.7 {
		t.Fatalf("profile fields not preserved: %+v", p)
	}
}

func TestNewAcceptsBoundaryValues(t *testing.T) {
	if _, err := New(Uniform(0)); err != nil {
		t.Fatalf("all-zero profile should validate: %v", err)
	}
	if _, err := New(Uniform(1)); err != nil {
		t.Fatalf("all-one profile should validate: %v", err)
	}
}

func TestNewRejectsOutOfRange(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Profile)
	}{
		{"curiosity high", func(p *Profile) { p.Curiosity = 1.2 }},
		{"persistence negative", func(p *Profile) { p.Persistence = -0.1 }},
		{"openness high", func(p *Profile) { p.Openness = 2 }},
		{"processing speed negative", func(p *Profile) { p.ProcessingSpeed = -1 }},
		{"learning efficiency high", func(p *Profile) { p.LearningEfficiency = 1.001 }},
		{"attention span negative", func(p *Profile) { p.AttentionSpan = -0.001 }},
		{"memory retention high", func(p *Profile) { p.MemoryRetention = 5 }},
		{"adaptation rate negative", func(p *Profile) { p.AdaptationRate = -3 }},
	}
	for _, tc := range cases {
		p := Neutral()
		tc.mutate(&p)
		if _, err := New(p); err == nil {
			t.Errorf("%s: expected validation error, got nil", tc.name)
		}
	}
}

func TestNeutralIsMidpoint(t *testing.T) {
	p := Neutral()
	if p.Persistence != 0.5 {
		t.Fatalf("expected 0.5, got %f", p.Persistence)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("neutral profile must validate: %v", err)
	}
}
