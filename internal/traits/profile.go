package traits

import "fmt"

// #region profile

// Profile holds the static per-learner aptitude scalars used to
// personalize adaptation. All fields are normalized to [0, 1].
// A Profile is immutable for the lifetime of the engine that owns it.
type Profile struct {
	Curiosity          float32 `json:"curiosity" yaml:"curiosity"`
	Persistence        float32 `json:"persistence" yaml:"persistence"`
	Openness           float32 `json:"openness" yaml:"openness"`
	ProcessingSpeed    float32 `json:"processing_speed" yaml:"processing_speed"`
	LearningEfficiency float32 `json:"learning_efficiency" yaml:"learning_efficiency"`
	AttentionSpan      float32 `json:"attention_span" yaml:"attention_span"`
	MemoryRetention    float32 `json:"memory_retention" yaml:"memory_retention"`
	AdaptationRate     float32 `json:"adaptation_rate" yaml:"adaptation_rate"`
}

// #endregion profile

// #region constructor

// New validates p and returns it. Construction fails if any trait
// lies outside [0, 1]; no partially valid profile is ever returned.
func New(p Profile) (Profile, error) {
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Neutral returns a profile with every trait at 0.5.
func Neutral() Profile {
	return Uniform(0.5)
}

// Uniform returns a profile with every trait set to v.
func Uniform(v float32) Profile {
	return Profile{
		Curiosity:          v,
		Persistence:        v,
		Openness:           v,
		ProcessingSpeed:    v,
		LearningEfficiency: v,
		AttentionSpan:      v,
		MemoryRetention:    v,
		AdaptationRate:     v,
	}
}

// #endregion constructor

// #region validate

// Validate checks every trait against the [0, 1] range.
func (p Profile) Validate() error {
	fields := []struct {
		name  string
		value float32
	}{
		{"curiosity", p.Curiosity},
		{"persistence", p.Persistence},
		{"openness", p.Openness},
		{"processing_speed", p.ProcessingSpeed},
		{"learning_efficiency", p.LearningEfficiency},
		{"attention_span", p.AttentionSpan},
		{"memory_retention", p.MemoryRetention},
		{"adaptation_rate", p.AdaptationRate},
	}
	for _, f := range fields {
		if f.value < 0 || f.value > 1 {
			return fmt.Errorf("trait %s = %v outside [0, 1]", f.name, f.value)
		}
	}
	return nil
}

// #endregion validate
