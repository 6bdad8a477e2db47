package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/danielpatrickdp/adaptive-learning/engine/internal/bands"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/classify"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/control"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/logging"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/session"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleOutcome(sessionID string, ticks int) session.SessionOutcome {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	metrics := make([]session.MetricSnapshot, ticks)
	for i := range metrics {
		metrics[i] = session.MetricSnapshot{
			ID:                 sessionID + "-snap",
			Timestamp:          start.Add(time.Duration(i) * time.Second),
			Bands:              bands.Powers{Delta: 0.4, Theta: 0.3, Alpha: 0.5, Beta: 0.6, Gamma: 0.1},
			Attention:          0.7,
			CognitiveLoad:      0.3,
			Engagement:         0.6,
			LearningEfficiency: 0.65,
			State:              classify.StateFocused,
		}
	}
	return session.SessionOutcome{
		SessionID:       sessionID,
		UserID:          "user-1",
		StartedAt:       start,
		EndedAt:         start.Add(time.Duration(ticks) * time.Second),
		Stage:           control.StageIntermediate,
		SuccessRate:     0.85,
		ContentMastery:  0.8,
		AvgAttention:    0.7,
		AvgEngagement:   0.6,
		AvgEfficiency:   0.65,
		Recommendations: []string{"advance"},
		Metrics:         metrics,
	}
}

func TestSaveAndListOutcomes(t *testing.T) {
	s := tempStore(t)

	if err := s.SaveOutcome(sampleOutcome("s1", 3)); err != nil {
		t.Fatalf("SaveOutcome: %v", err)
	}
	if err := s.SaveOutcome(sampleOutcome("s2", 2)); err != nil {
		t.Fatalf("SaveOutcome: %v", err)
	}

	outcomes, err := s.ListOutcomes(10)
	if err != nil {
		t.Fatalf("ListOutcomes: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	for _, so := range outcomes {
		if so.OutcomeID == "" {
			t.Fatal("expected non-empty outcome id")
		}
		if so.Outcome.UserID != "user-1" {
			t.Fatalf("unexpected user id %s", so.Outcome.UserID)
		}
	}
}

func TestGetOutcomeRoundTrip(t *testing.T) {
	s := tempStore(t)
	want := sampleOutcome("s1", 4)
	if err := s.SaveOutcome(want); err != nil {
		t.Fatalf("SaveOutcome: %v", err)
	}

	list, err := s.ListOutcomes(1)
	if err != nil {
		t.Fatalf("ListOutcomes: %v", err)
	}
	if list[0].Snapshots != 4 {
		t.Fatalf("expected 4 snapshots, got %d", list[0].Snapshots)
	}

	got, err := s.GetOutcome(list[0].OutcomeID)
	if err != nil {
		t.Fatalf("GetOutcome: %v", err)
	}
	if got.Outcome.SessionID != "s1" {
		t.Fatalf("expected s1, got %s", got.Outcome.SessionID)
	}
	if got.Outcome.Stage != control.StageIntermediate {
		t.Fatalf("unexpected stage %s", got.Outcome.Stage)
	}
	if len(got.Outcome.Metrics) != 4 {
		t.Fatalf("expected 4 metrics, got %d", len(got.Outcome.Metrics))
	}
	m := got.Outcome.Metrics[0]
	if m.State != classify.StateFocused {
		t.Fatalf("unexpected state %s", m.State)
	}
	if m.Bands.Beta != 0.6 {
		t.Fatalf("band power lost in round trip: %f", m.Bands.Beta)
	}
	if len(got.Outcome.Recommendations) != 1 || got.Outcome.Recommendations[0] != "advance" {
		t.Fatalf("recommendations lost: %v", got.Outcome.Recommendations)
	}
	// Arrival order must survive storage.
	for i := 1; i < len(got.Outcome.Metrics); i++ {
		if got.Outcome.Metrics[i].Timestamp.Before(got.Outcome.Metrics[i-1].Timestamp) {
			t.Fatalf("snapshot order lost at %d", i)
		}
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	s := tempStore(t)
	for i := 0; i < 5; i++ {
		o := sampleOutcome("s", 1)
		o.SessionID = string(rune('a' + i))
		// Spread created_at by saving sequentially; sqlite timestamps carry
		// nanosecond precision so ordering is stable.
		if err := s.SaveOutcome(o); err != nil {
			t.Fatalf("SaveOutcome %d: %v", i, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	if err := s.Prune(2); err != nil {
		t.Fatalf("Prune: %v", err)
	}

	n, err := s.CountOutcomes()
	if err != nil {
		t.Fatalf("CountOutcomes: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 outcomes after prune, got %d", n)
	}

	outcomes, err := s.ListOutcomes(10)
	if err != nil {
		t.Fatalf("ListOutcomes: %v", err)
	}
	if outcomes[0].Outcome.SessionID != "e" || outcomes[1].Outcome.SessionID != "d" {
		t.Fatalf("prune kept wrong outcomes: %s, %s",
			outcomes[0].Outcome.SessionID, outcomes[1].Outcome.SessionID)
	}

	// Snapshots of pruned outcomes must be gone too.
	var snaps int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM metric_snapshots`).Scan(&snaps); err != nil {
		t.Fatalf("count snapshots: %v", err)
	}
	if snaps != 2 {
		t.Fatalf("expected 2 snapshots after prune, got %d", snaps)
	}
}

func TestEventLogRoundTrip(t *testing.T) {
	s := tempStore(t)

	if err := s.LogEvent("s1", logging.EventEmptyBuffer, "no ticks recorded"); err != nil {
		t.Fatalf("LogEvent: %v", err)
	}
	if err := s.LogEvent("", logging.EventQualityDegraded, "empty window"); err != nil {
		t.Fatalf("LogEvent: %v", err)
	}

	events, err := logging.ListEvents(s.DB(), 10)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// Newest first.
	if events[0].Kind != logging.EventQualityDegraded {
		t.Fatalf("unexpected first event %s", events[0].Kind)
	}
	if events[1].SessionID != "s1" {
		t.Fatalf("session id lost: %q", events[1].SessionID)
	}
}

func TestLowConfidenceOutcomePersists(t *testing.T) {
	s := tempStore(t)
	o := sampleOutcome("empty", 0)
	o.Metrics = nil
	if err := s.SaveOutcome(o); err != nil {
		t.Fatalf("SaveOutcome: %v", err)
	}
	list, err := s.ListOutcomes(1)
	if err != nil {
		t.Fatalf("ListOutcomes: %v", err)
	}
	if list[0].Snapshots != 0 {
		t.Fatalf("expected 0 snapshots, got %d", list[0].Snapshots)
	}
}
