package control

// #region stage

// Stage is the coarse instructional level derived from difficulty.
type Stage string

const (
	StageFoundation   Stage = "foundation"
	StageIntermediate Stage = "intermediate"
	StageAdvanced     Stage = "advanced"
)

// #endregion stage

// #region state

// State holds the mutable controller variables. Only Apply mutates these,
// and only once per completed session.
type State struct {
	Stage                  Stage   `json:"stage"`
	Difficulty             float32 `json:"difficulty"`              // always within [MinDifficulty, MaxDifficulty]
	Pacing                 float32 `json:"pacing"`                  // always within [MinPacing, MaxPacing]
	ReinforcementThreshold float32 `json:"reinforcement_threshold"` // config-tuned, not mutated by rules
}

// DefaultState returns the starting controller state for a new learner.
func DefaultState() State {
	return State{
		Stage:                  StageIntermediate,
		Difficulty:             0.5,
		Pacing:                 1.0,
		ReinforcementThreshold: 0.7,
	}
}

// #endregion state

// #region config

// Config holds the controller thresholds and bounds.
type Config struct {
	RaiseThreshold float32 `yaml:"raise_threshold"` // performance above this raises difficulty
	LowerThreshold float32 `yaml:"lower_threshold"` // performance below this lowers difficulty
	DifficultyStep float32 `yaml:"difficulty_step"`
	MinDifficulty  float32 `yaml:"min_difficulty"`
	MaxDifficulty  float32 `yaml:"max_difficulty"`

	LowAttention  float32 `yaml:"low_attention"`  // session-average attention below this slows pacing
	HighAttention float32 `yaml:"high_attention"` // session-average attention above this may speed pacing
	HighLoad      float32 `yaml:"high_load"`      // session-average load above this slows pacing
	LowLoad       float32 `yaml:"low_load"`       // session-average load below this may speed pacing
	SlowFactor    float32 `yaml:"slow_factor"`
	FastFactor    float32 `yaml:"fast_factor"`
	MinPacing     float32 `yaml:"min_pacing"`
	MaxPacing     float32 `yaml:"max_pacing"`

	IntermediateAt float32 `yaml:"intermediate_at"` // difficulty at or above this enters intermediate
	AdvancedAt     float32 `yaml:"advanced_at"`     // difficulty at or above this enters advanced
}

// DefaultConfig returns the standard controller tuning.
func DefaultConfig() Config {
	return Config{
		RaiseThreshold: 0.85,
		LowerThreshold: 0.60,
		DifficultyStep: 0.1,
		MinDifficulty:  0.1,
		MaxDifficulty:  1.0,

		LowAttention:  0.5,
		HighAttention: 0.8,
		HighLoad:      0.8,
		LowLoad:       0.5,
		SlowFactor:    0.9,
		FastFactor:    1.1,
		MinPacing:     0.5,
		MaxPacing:     2.0,

		IntermediateAt: 0.4,
		AdvancedAt:     0.75,
	}
}

// #endregion config

// #region inputs

// Inputs carries the session aggregates the controller rules consume.
type Inputs struct {
	Performance  float32 // success rate of the completed session
	AvgAttention float32
	AvgLoad      float32
}

// #endregion inputs

// #region result

// Result bundles the new state with per-rule telemetry.
type Result struct {
	State           State
	DifficultyDelta float32
	PacingDelta     float32
	Reason          string
}

// #endregion result
