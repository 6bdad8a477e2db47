package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/adaptive-learning/engine/internal/config"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/history"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/replay"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to engine history db")
	outPath := flag.String("out", "", "output fixture JSON path")
	cfgPath := flag.String("config", "", "engine config to embed the trait profile from")
	last := flag.Int("last", 4, "number of most recent sessions to export")
	desc := flag.String("desc", "exported from history db", "fixture description")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/history.db --out path/to/fixture.json [--config cfg.yaml] [--last N]")
		os.Exit(2)
	}

	if err := run(*dbPath, *outPath, *cfgPath, *last, *desc); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

// run exports the last N sessions, oldest first, as a replay fixture. The
// stored stage and recommendation count become the fixture expectations, so
// the export is a frozen regression baseline for the current tuning. Raw
// windows are not persisted; exported ticks carry band powers.
func run(dbPath, outPath, cfgPath string, last int, desc string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	listed, err := store.ListOutcomes(last)
	if err != nil {
		return err
	}
	if len(listed) == 0 {
		return fmt.Errorf("no stored sessions to export")
	}

	f := &replay.Fixture{
		Description: desc,
		Profile:     cfg.Traits,
	}

	// ListOutcomes returns newest first; fixtures replay chronologically.
	for i := len(listed) - 1; i >= 0; i-- {
		so, err := store.GetOutcome(listed[i].OutcomeID)
		if err != nil {
			return err
		}
		f.UserID = so.Outcome.UserID

		ticks := make([]replay.FixtureTick, len(so.Outcome.Metrics))
		for j, m := range so.Outcome.Metrics {
			ticks[j] = replay.FixtureTick{Bands: replay.FromPowers(m.Bands)}
		}
		f.Sessions = append(f.Sessions, replay.FixtureSession{
			SessionID:      so.Outcome.SessionID,
			Ticks:          ticks,
			SuccessRate:    so.Outcome.SuccessRate,
			ContentMastery: so.Outcome.ContentMastery,
			ExpectStage:    string(so.Outcome.Stage),
			ExpectRecCount: len(so.Outcome.Recommendations),
		})
	}

	if err := replay.SaveFixture(outPath, f); err != nil {
		return err
	}

	total := 0
	for _, s := range f.Sessions {
		total += len(s.Ticks)
	}
	fmt.Printf("exported %d sessions (%d ticks) to %s\n", len(f.Sessions), total, outPath)
	return nil
}

// #endregion export
