package source

import (
	"context"
	"math"
	"testing"

	"github.com/danielpatrickdp/adaptive-learning/engine/internal/bands"
)

func TestSyntheticDeterministic(t *testing.T) {
	a := NewSynthetic(42)
	b := NewSynthetic(42)

	for i := 0; i < 3; i++ {
		wa, err := a.Next(context.Background())
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		wb, _ := b.Next(context.Background())
		if len(wa) != 256 || len(wb) != 256 {
			t.Fatalf("unexpected window size %d/%d", len(wa), len(wb))
		}
		for j := range wa {
			if wa[j] != wb[j] {
				t.Fatalf("window %d diverges at sample %d: %f vs %f", i, j, wa[j], wb[j])
			}
		}
	}
}

func TestSyntheticSeedsDiffer(t *testing.T) {
	a, _ := NewSynthetic(1).Next(context.Background())
	b, _ := NewSynthetic(2).Next(context.Background())
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical windows")
	}
}

func TestSyntheticWindowSizeOption(t *testing.T) {
	s := NewSynthetic(7, WithWindowSize(64))
	w, err := s.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(w) != 64 {
		t.Fatalf("expected 64 samples, got %d", len(w))
	}
}

// toneAmplitude correlates the window against a sinusoid at freq and returns
// the recovered amplitude. Exact when freq spans whole cycles in the window.
func toneAmplitude(w []float32, freq, sampleRate float64) float64 {
	var sinSum, cosSum float64
	for i, x := range w {
		t := float64(i) / sampleRate
		sinSum += float64(x) * math.Sin(2*math.Pi*freq*t)
		cosSum += float64(x) * math.Cos(2*math.Pi*freq*t)
	}
	n := float64(len(w))
	return 2 / n * math.Hypot(sinSum, cosSum)
}

// A mix dominated by one band should put most of the signal energy at that
// band's center frequency.
func TestSyntheticMixShapesSpectrum(t *testing.T) {
	// Standard band order: delta, theta, alpha, beta, gamma. Boost alpha.
	s := NewSynthetic(3, WithMix([]float32{0.1, 0.1, 1.0, 0.1, 0.1}), WithWindowSize(512))
	w, err := s.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}

	defs := bands.DefaultBands()
	fs := float64(bands.DefaultSampleRate)
	alpha := toneAmplitude(w, float64(defs[2].Center()), fs)
	theta := toneAmplitude(w, float64(defs[1].Center()), fs)
	beta := toneAmplitude(w, float64(defs[3].Center()), fs)
	if alpha <= 3*theta || alpha <= 3*beta {
		t.Fatalf("alpha tone not dominant: alpha=%f theta=%f beta=%f", alpha, theta, beta)
	}
}
