package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/adaptive-learning/engine/internal/bands"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/traits"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: one learner
// profile plus an ordered list of recorded sessions.
type Fixture struct {
	Description string           `json:"description"`
	UserID      string           `json:"user_id"`
	Profile     traits.Profile   `json:"profile"`
	Sessions    []FixtureSession `json:"sessions"`
}

// FixtureSession is one recorded session: ticks, completion inputs, and
// optional expectations checked after completion.
type FixtureSession struct {
	SessionID      string        `json:"session_id"`
	Ticks          []FixtureTick `json:"ticks"`
	SuccessRate    float32       `json:"success_rate"`
	ContentMastery float32       `json:"content_mastery"`

	// Expectations; zero values mean "not asserted".
	ExpectStage    string `json:"expect_stage,omitempty"`
	ExpectRecCount int    `json:"expect_rec_count,omitempty"`
}

// FixtureTick carries either a raw sample window or precomputed band powers.
// Exported fixtures use Bands since raw windows are not persisted.
type FixtureTick struct {
	Window []float32     `json:"window,omitempty"`
	Bands  *FixtureBands `json:"bands,omitempty"`
}

// FixtureBands mirrors bands.Powers with JSON tags.
type FixtureBands struct {
	Delta float32 `json:"delta"`
	Theta float32 `json:"theta"`
	Alpha float32 `json:"alpha"`
	Beta  float32 `json:"beta"`
	Gamma float32 `json:"gamma"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if err := f.Profile.Validate(); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return &f, nil
}

// SaveFixture writes a fixture as indented JSON.
func SaveFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// ToPowers converts fixture bands to domain band powers.
func (b *FixtureBands) ToPowers() bands.Powers {
	return bands.Powers{
		Delta: b.Delta,
		Theta: b.Theta,
		Alpha: b.Alpha,
		Beta:  b.Beta,
		Gamma: b.Gamma,
	}
}

// FromPowers converts domain band powers to fixture bands.
func FromPowers(p bands.Powers) *FixtureBands {
	return &FixtureBands{
		Delta: p.Delta,
		Theta: p.Theta,
		Alpha: p.Alpha,
		Beta:  p.Beta,
		Gamma: p.Gamma,
	}
}

// #endregion fixture-loader
