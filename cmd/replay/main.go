package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/adaptive-learning/engine/internal/config"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/history"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/replay"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/session"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/traits"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to engine history db (DB audit mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	cfgPath := flag.String("config", "", "optional engine config (traits, controller tuning)")
	last := flag.Int("last", 0, "DB mode: audit only the N most recent sessions (0 = all)")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/history.db [--config cfg.yaml] [--last N]")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixture.json [--config cfg.yaml]")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath, cfg)
	} else {
		exitCode = runDBMode(*dbPath, *last, cfg)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region fixture-mode

func runFixtureMode(path string, cfg config.Config) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	eng, err := newEngine(f.UserID, f.Profile, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build engine: %v\n", err)
		return 2
	}

	results := replay.Replay(eng, f.Sessions)
	return printComparison(results, eng)
}

// #endregion fixture-mode

// #region db-mode

// runDBMode re-runs every stored session, oldest first, through a fresh
// engine and compares the replayed stage against the stored one. Catches
// drift after controller retuning. Raw windows are not persisted, so the
// replay runs from stored band powers.
func runDBMode(dbPath string, last int, cfg config.Config) int {
	store, err := history.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer store.Close()

	sessions, userID, err := extractSessions(store, last)
	if err != nil {
		fmt.Fprintf(os.Stderr, "extract sessions: %v\n", err)
		return 2
	}
	if len(sessions) == 0 {
		fmt.Fprintln(os.Stderr, "no stored sessions found")
		return 2
	}

	eng, err := newEngine(userID, cfg.Traits, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build engine: %v\n", err)
		return 2
	}

	results := replay.Replay(eng, sessions)
	return printComparison(results, eng)
}

// extractSessions turns stored outcomes into replayable fixture sessions,
// oldest first, with the stored stage as the expectation.
func extractSessions(store *history.Store, last int) ([]replay.FixtureSession, string, error) {
	limit := last
	if limit <= 0 {
		var err error
		limit, err = store.CountOutcomes()
		if err != nil {
			return nil, "", err
		}
	}

	listed, err := store.ListOutcomes(limit)
	if err != nil {
		return nil, "", err
	}

	// ListOutcomes returns newest first; replay needs chronological order.
	var userID string
	sessions := make([]replay.FixtureSession, 0, len(listed))
	for i := len(listed) - 1; i >= 0; i-- {
		so, err := store.GetOutcome(listed[i].OutcomeID)
		if err != nil {
			return nil, "", err
		}
		userID = so.Outcome.UserID

		ticks := make([]replay.FixtureTick, len(so.Outcome.Metrics))
		for j, m := range so.Outcome.Metrics {
			ticks[j] = replay.FixtureTick{Bands: replay.FromPowers(m.Bands)}
		}
		sessions = append(sessions, replay.FixtureSession{
			SessionID:      so.Outcome.SessionID,
			Ticks:          ticks,
			SuccessRate:    so.Outcome.SuccessRate,
			ContentMastery: so.Outcome.ContentMastery,
			ExpectStage:    string(so.Outcome.Stage),
			ExpectRecCount: len(so.Outcome.Recommendations),
		})
	}
	return sessions, userID, nil
}

// #endregion db-mode

// #region output

func newEngine(userID string, profile traits.Profile, cfg config.Config) (*session.Engine, error) {
	return session.New(userID, profile, session.Config{
		Extractor: cfg.BuildExtractor(),
		Control:   cfg.Control,
	})
}

// printComparison outputs a per-session table and returns the exit code:
// 0 on a clean run, 1 when any session diverges.
func printComparison(results []replay.SessionResult, eng *session.Engine) int {
	fmt.Printf("%-16s| %-14s| %-6s| %s\n", "Session", "Stage", "Ticks", "Result")
	fmt.Printf("%-16s+%-15s+%-7s+%s\n",
		"----------------", "---------------", "-------", "--------")

	for _, r := range results {
		status := "OK"
		if len(r.Divergences) > 0 {
			status = "DIFF"
		}
		fmt.Printf("%-16s| %-14s| %-6d| %s\n",
			r.SessionID, r.Outcome.Stage, len(r.Outcome.Metrics), status)
		for _, d := range r.Divergences {
			fmt.Printf("    %s\n", d)
		}
	}

	sum := replay.Summarize(results, eng.State())
	fmt.Printf("\nSummary: %d sessions, %d ticks, %d match, %d diverge\n",
		sum.TotalSessions, sum.TotalTicks, sum.Matched, sum.Diverged)
	fmt.Printf("Final state: stage=%s difficulty=%.3f pacing=%.2f\n",
		sum.FinalState.Stage, sum.FinalState.Difficulty, sum.FinalState.Pacing)

	if sum.Diverged > 0 {
		return 1
	}
	return 0
}

// #endregion output
