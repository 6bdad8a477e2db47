package bands

import "math"

// #region amplitude-extractor

// AmplitudeExtractor estimates band power as the window's mean absolute
// amplitude scaled by a per-band 1/f-style gain. It is a cheap proxy, not
// spectral analysis: every band tracks overall signal amplitude, with lower
// bands attributed proportionally more energy. Deterministic for a given
// window.
type AmplitudeExtractor struct {
	bands []Band
}

// NewAmplitudeExtractor builds the proxy extractor over the given bands.
// Pass nil for the standard five-band layout.
func NewAmplitudeExtractor(bandDefs []Band) *AmplitudeExtractor {
	if len(bandDefs) == 0 {
		bandDefs = DefaultBands()
	}
	return &AmplitudeExtractor{bands: bandDefs}
}

// Extract returns the per-band amplitude proxy. An empty window yields
// all-zero powers.
func (e *AmplitudeExtractor) Extract(window []float32) Powers {
	var p Powers
	if len(window) == 0 {
		return p
	}
	m := meanAbs(window)
	for _, b := range e.bands {
		// 1/f falloff: higher-frequency bands receive a smaller share
		// of the same broadband amplitude.
		gain := 1 / (1 + 0.02*b.Center())
		p.set(b.Name, clamp(gain*m))
	}
	return p
}

// #endregion amplitude-extractor

// #region goertzel-extractor

// probesPerBand is the number of evenly spaced frequencies sampled per band.
const probesPerBand = 4

// DefaultSampleRate is assumed when a source does not declare one.
const DefaultSampleRate float32 = 256

// GoertzelExtractor estimates band power with Goertzel filters at a handful
// of probe frequencies per band. It is a real spectral estimate, suitable
// when the upstream source supplies genuine periodic signal at a known
// sample rate.
type GoertzelExtractor struct {
	bands      []Band
	sampleRate float32
}

// NewGoertzelExtractor builds the spectral extractor. Pass nil bands for the
// standard layout. sampleRate must exceed twice the highest band edge for
// the top band to contribute; probes at or above Nyquist are skipped.
func NewGoertzelExtractor(bandDefs []Band, sampleRate float32) *GoertzelExtractor {
	if len(bandDefs) == 0 {
		bandDefs = DefaultBands()
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &GoertzelExtractor{bands: bandDefs, sampleRate: sampleRate}
}

// Extract returns normalized per-band spectral magnitudes. An empty window
// yields all-zero powers.
func (e *GoertzelExtractor) Extract(window []float32) Powers {
	var p Powers
	if len(window) == 0 {
		return p
	}
	nyquist := e.sampleRate / 2
	for _, b := range e.bands {
		var sum float32
		var n int
		step := (b.High - b.Low) / float32(probesPerBand)
		for i := 0; i < probesPerBand; i++ {
			freq := b.Low + step*(float32(i)+0.5)
			if freq >= nyquist {
				continue
			}
			sum += goertzelMagnitude(window, freq, e.sampleRate)
			n++
		}
		if n > 0 {
			p.set(b.Name, clamp(sum/float32(n)))
		}
	}
	return p
}

// goertzelMagnitude runs a single Goertzel filter and returns the amplitude
// of the probed frequency, normalized so a unit sinusoid at that frequency
// reads close to 1.
func goertzelMagnitude(window []float32, freq, sampleRate float32) float32 {
	n := len(window)
	omega := 2 * math.Pi * float64(freq) / float64(sampleRate)
	coeff := 2 * math.Cos(omega)

	var s1, s2 float64
	for _, x := range window {
		s0 := float64(x) + coeff*s1 - s2
		s2 = s1
		s1 = s0
	}
	power := s1*s1 + s2*s2 - coeff*s1*s2
	if power < 0 {
		power = 0
	}
	return float32(2 * math.Sqrt(power) / float64(n))
}

// #endregion goertzel-extractor

// #region helpers

// meanAbs computes the mean absolute sample value.
func meanAbs(window []float32) float32 {
	var sum float64
	for _, x := range window {
		sum += math.Abs(float64(x))
	}
	return float32(sum / float64(len(window)))
}

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
