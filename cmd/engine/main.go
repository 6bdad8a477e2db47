package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/adaptive-learning/engine/internal/config"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/history"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/logging"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/session"
	"github.com/danielpatrickdp/adaptive-learning/engine/internal/source"
)

// #region main
func main() {
	cfgPath := envOr("ENGINE_CONFIG", "")
	dbOverride := envOr("ENGINE_DB", "")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if dbOverride != "" {
		cfg.History.Path = dbOverride
	}

	logger, err := logging.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	sessCfg := session.Config{
		Extractor:  cfg.BuildExtractor(),
		HistoryCap: cfg.Engine.HistoryCap,
		Log:        logger,
	}

	var store *history.Store
	if cfg.History.Path != "" {
		store, err = history.NewStore(cfg.History.Path)
		if err != nil {
			log.Fatalf("failed to open history store: %v", err)
		}
		defer store.Close()
		sessCfg.Sink = store
		sessCfg.Events = store
	}

	eng, err := session.New(cfg.Engine.UserID, cfg.Traits, sessCfg)
	if err != nil {
		log.Fatalf("failed to build engine: %v", err)
	}

	src, err := buildSource(cfg.Source)
	if err != nil {
		log.Fatalf("failed to build sample source: %v", err)
	}
	defer src.Close()

	fmt.Println("Adaptive Learning Engine ready.")
	fmt.Printf("  user: %s | extractor: %s | source: %s", cfg.Engine.UserID, cfg.Engine.Extractor, cfg.Source.Kind)
	if cfg.History.Path != "" {
		fmt.Printf(" | db: %s", cfg.History.Path)
	}
	fmt.Println()
	fmt.Println("Commands: tick [n] | complete <id> <success> <mastery> | summary | state | quit")

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "quit", "exit":
			return

		case "tick":
			n := 1
			if len(fields) > 1 {
				n, err = strconv.Atoi(fields[1])
				if err != nil || n < 1 {
					fmt.Println("usage: tick [n]")
					continue
				}
			}
			for i := 0; i < n; i++ {
				window, err := src.Next(context.Background())
				if err != nil {
					log.Printf("source error: %v", err)
					break
				}
				snap := eng.ProcessTick(window)
				fmt.Printf("[%s] att=%.2f load=%.2f eng=%.2f eff=%.2f state=%s\n",
					snap.ID[:8], snap.Attention, snap.CognitiveLoad,
					snap.Engagement, snap.LearningEfficiency, snap.State)
			}

		case "complete":
			if len(fields) != 4 {
				fmt.Println("usage: complete <session-id> <success-rate> <mastery>")
				continue
			}
			success, err1 := strconv.ParseFloat(fields[2], 32)
			mastery, err2 := strconv.ParseFloat(fields[3], 32)
			if err1 != nil || err2 != nil {
				fmt.Println("usage: complete <session-id> <success-rate> <mastery>")
				continue
			}
			outcome := eng.CompleteSession(fields[1], float32(success), float32(mastery))
			fmt.Printf("session %s complete: stage=%s ticks=%d avg_att=%.2f avg_eng=%.2f\n",
				outcome.SessionID, outcome.Stage, len(outcome.Metrics),
				outcome.AvgAttention, outcome.AvgEngagement)
			for i, r := range outcome.Recommendations {
				fmt.Printf("  %d. %s\n", i+1, r)
			}

		case "summary":
			sum := eng.ProgressSummary()
			if !sum.HasSessions {
				fmt.Println("no completed sessions yet")
				continue
			}
			fmt.Printf("sessions=%d stage=%s difficulty=%.2f pacing=%.2f\n",
				sum.Sessions, sum.Stage, sum.Difficulty, sum.Pacing)
			fmt.Printf("avg: success=%.2f mastery=%.2f attention=%.2f engagement=%.2f\n",
				sum.AvgSuccessRate, sum.AvgMastery, sum.AvgAttention, sum.AvgEngagement)
			fmt.Printf("total learning time: %s\n", sum.TotalLearningTime)

		case "state":
			st := eng.State()
			fmt.Printf("phase=%s stage=%s difficulty=%.3f pacing=%.2f buffered=%d\n",
				eng.Phase(), st.Stage, st.Difficulty, st.Pacing, eng.BufferLen())

		default:
			fmt.Println("commands: tick [n] | complete <id> <success> <mastery> | summary | state | quit")
		}
	}
}

// #endregion main

// #region helpers

func buildSource(cfg config.SourceConfig) (source.SampleSource, error) {
	if cfg.Kind == "socket" {
		return source.DialSocket(context.Background(), cfg.URL)
	}
	return source.NewSynthetic(cfg.Seed, source.WithWindowSize(cfg.WindowSize)), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
