package source

import (
	"context"
	"math"
	"math/rand"

	"github.com/danielpatrickdp/adaptive-learning/engine/internal/bands"
)

// #region synthetic

// Synthetic generates deterministic sample windows: one sinusoid per band at
// the band center, weighted by a per-band mix, plus small seeded noise. Two
// sources with the same seed and mix produce identical windows, which makes
// fixture generation reproducible.
type Synthetic struct {
	rng        *rand.Rand
	bandDefs   []bands.Band
	mix        []float32
	windowSize int
	sampleRate float32
	phase      float64
}

// SyntheticOption mutates a Synthetic during construction.
type SyntheticOption func(*Synthetic)

// WithMix sets per-band sinusoid weights, aligned with the standard band
// order. Missing entries default to 1.
func WithMix(mix []float32) SyntheticOption {
	return func(s *Synthetic) { s.mix = mix }
}

// WithWindowSize overrides the default 256-sample window.
func WithWindowSize(n int) SyntheticOption {
	return func(s *Synthetic) {
		if n > 0 {
			s.windowSize = n
		}
	}
}

// WithSampleRate overrides the default sample rate.
func WithSampleRate(rate float32) SyntheticOption {
	return func(s *Synthetic) {
		if rate > 0 {
			s.sampleRate = rate
		}
	}
}

// NewSynthetic builds a seeded generator over the standard bands.
func NewSynthetic(seed int64, opts ...SyntheticOption) *Synthetic {
	s := &Synthetic{
		rng:        rand.New(rand.NewSource(seed)),
		bandDefs:   bands.DefaultBands(),
		windowSize: 256,
		sampleRate: bands.DefaultSampleRate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next returns the next window. Phase is continuous across windows so the
// generated signal has no seams. Never returns an error.
func (s *Synthetic) Next(_ context.Context) ([]float32, error) {
	w := make([]float32, s.windowSize)
	dt := 1.0 / float64(s.sampleRate)

	for i := range w {
		t := s.phase + float64(i)*dt
		var v float64
		for bi, b := range s.bandDefs {
			weight := 1.0
			if bi < len(s.mix) {
				weight = float64(s.mix[bi])
			}
			v += weight * math.Sin(2*math.Pi*float64(b.Center())*t)
		}
		v /= float64(len(s.bandDefs))
		v += (s.rng.Float64()*2 - 1) * 0.05
		w[i] = float32(v)
	}

	s.phase += float64(s.windowSize) * dt
	return w, nil
}

// Close is a no-op for the synthetic source.
func (s *Synthetic) Close() error { return nil }

// #endregion synthetic

var _ SampleSource = (*Synthetic)(nil)
