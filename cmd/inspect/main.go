package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/danielpatrickdp/adaptive-learning/engine/internal/history"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/logging"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to engine history db")
	last := flag.Int("last", 20, "show N most recent sessions")
	outcomeID := flag.String("outcome", "", "show single outcome detail")
	events := flag.Bool("events", false, "show the engine event log instead of outcomes")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/history.db [--last N] [--outcome id] [--events] [--json]")
		os.Exit(2)
	}

	store, err := history.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case *events:
		err = runEventMode(store, *last, *jsonOut)
	case *outcomeID != "":
		err = runDetailMode(store, *outcomeID, *jsonOut)
	default:
		err = runListMode(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	OutcomeID   string  `json:"outcome_id"`
	SessionID   string  `json:"session_id"`
	UserID      string  `json:"user_id"`
	Stage       string  `json:"stage"`
	SuccessRate float32 `json:"success_rate"`
	Mastery     float32 `json:"content_mastery"`
	Ticks       int     `json:"ticks"`
	Duration    string  `json:"duration"`
	CreatedAt   string  `json:"created_at"`
}

func runListMode(store *history.Store, last int, jsonOut bool) error {
	outcomes, err := store.ListOutcomes(last)
	if err != nil {
		return err
	}
	if len(outcomes) == 0 {
		fmt.Fprintln(os.Stderr, "no sessions found")
		return nil
	}

	rows := make([]listRow, len(outcomes))
	for i, so := range outcomes {
		rows[i] = listRow{
			OutcomeID:   so.OutcomeID,
			SessionID:   so.Outcome.SessionID,
			UserID:      so.Outcome.UserID,
			Stage:       string(so.Outcome.Stage),
			SuccessRate: so.Outcome.SuccessRate,
			Mastery:     so.Outcome.ContentMastery,
			Ticks:       so.Snapshots,
			Duration:    so.Outcome.EndedAt.Sub(so.Outcome.StartedAt).Round(time.Second).String(),
			CreatedAt:   so.CreatedAt.Format(time.RFC3339),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-36s| %-12s| %-12s| %-7s| %-7s| %-6s| %s\n",
		"Outcome", "Session", "Stage", "Success", "Mastery", "Ticks", "When")
	for _, r := range rows {
		fmt.Printf("%-36s| %-12s| %-12s| %-7.2f| %-7.2f| %-6d| %s\n",
			r.OutcomeID, r.SessionID, r.Stage, r.SuccessRate, r.Mastery, r.Ticks, r.CreatedAt)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

func runDetailMode(store *history.Store, outcomeID string, jsonOut bool) error {
	so, err := store.GetOutcome(outcomeID)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(so)
	}

	o := so.Outcome
	fmt.Printf("Outcome %s\n", so.OutcomeID)
	fmt.Printf("  session=%s user=%s stage=%s\n", o.SessionID, o.UserID, o.Stage)
	fmt.Printf("  success=%.2f mastery=%.2f\n", o.SuccessRate, o.ContentMastery)
	fmt.Printf("  avg: attention=%.2f engagement=%.2f efficiency=%.2f\n",
		o.AvgAttention, o.AvgEngagement, o.AvgEfficiency)
	fmt.Printf("  %s → %s (%s)\n",
		o.StartedAt.Format(time.RFC3339), o.EndedAt.Format(time.RFC3339),
		o.EndedAt.Sub(o.StartedAt).Round(time.Second))

	if len(o.Recommendations) > 0 {
		fmt.Println("  recommendations:")
		for i, r := range o.Recommendations {
			fmt.Printf("    %d. %s\n", i+1, r)
		}
	}

	if len(o.Metrics) > 0 {
		fmt.Printf("\n%-5s| %-9s| %-9s| %-9s| %-9s| %s\n",
			"Tick", "Attention", "Load", "Engage", "Effic", "State")
		for i, m := range o.Metrics {
			fmt.Printf("%-5d| %-9.3f| %-9.3f| %-9.3f| %-9.3f| %s\n",
				i, m.Attention, m.CognitiveLoad, m.Engagement, m.LearningEfficiency, m.State)
		}
	}
	return nil
}

// #endregion detail-mode

// #region event-mode

func runEventMode(store *history.Store, last int, jsonOut bool) error {
	events, err := logging.ListEvents(store.DB(), last)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(os.Stderr, "no events found")
		return nil
	}

	if jsonOut {
		return printJSON(events)
	}

	fmt.Printf("%-20s| %-12s| %-18s| %s\n", "When", "Session", "Kind", "Detail")
	for _, e := range events {
		fmt.Printf("%-20s| %-12s| %-18s| %s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.SessionID, e.Kind, e.Detail)
	}
	return nil
}

// #endregion event-mode

// #region helpers

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// #endregion helpers
