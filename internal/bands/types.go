package bands

// #region band

// Band names a frequency range in abstract hertz-like units.
type Band struct {
	Name string  `json:"name" yaml:"name"`
	Low  float32 `json:"low" yaml:"low"`
	High float32 `json:"high" yaml:"high"`
}

// Center returns the midpoint of the band.
func (b Band) Center() float32 {
	return (b.Low + b.High) / 2
}

// DefaultBands returns the standard five-band layout.
func DefaultBands() []Band {
	return []Band{
		{Name: "delta", Low: 0.5, High: 4},
		{Name: "theta", Low: 4, High: 8},
		{Name: "alpha", Low: 8, High: 12},
		{Name: "beta", Low: 12, High: 30},
		{Name: "gamma", Low: 30, High: 100},
	}
}

// #endregion band

// #region powers

// Powers holds one clamped [0, 1] energy estimate per band.
type Powers struct {
	Delta float32 `json:"delta"`
	Theta float32 `json:"theta"`
	Alpha float32 `json:"alpha"`
	Beta  float32 `json:"beta"`
	Gamma float32 `json:"gamma"`
}

// set assigns a value by band name. Unknown names are ignored.
func (p *Powers) set(name string, v float32) {
	switch name {
	case "delta":
		p.Delta = v
	case "theta":
		p.Theta = v
	case "alpha":
		p.Alpha = v
	case "beta":
		p.Beta = v
	case "gamma":
		p.Gamma = v
	}
}

// #endregion powers

// #region extractor-interface

// Extractor converts one raw sample window into per-band powers.
// Implementations must return all-zero powers for an empty window and
// must never fail: degraded input degrades output, nothing more.
type Extractor interface {
	Extract(window []float32) Powers
}

// #endregion extractor-interface
