// Command battle-sim runs autopilot battles from the command line: a single
// seed, a seed search, or verification of a saved replay file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/magefree/battle-engine-go/internal/battle/autopilot"
	"github.com/magefree/battle-engine-go/internal/battle/content"
	"github.com/magefree/battle-engine-go/internal/battle/encounter"
	"github.com/magefree/battle-engine-go/internal/battle/replay"
	"github.com/magefree/battle-engine-go/internal/battle/rng"
	"github.com/magefree/battle-engine-go/internal/battle/rules"
	"github.com/magefree/battle-engine-go/internal/config"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "optional configuration file")
	enemies    = flag.String("enemies", content.EnemyJawWorm, "comma-separated enemy ids")
	deck       = flag.String("deck", "", "comma-separated card ids (default: starter deck)")
	relics     = flag.String("relics", "", "comma-separated relic ids")
	seed       = flag.Uint64("seed", 0, "battle seed (0 draws a fresh one)")
	search     = flag.Int("search", 0, "play this many consecutive seeds starting at -seed")
	verify     = flag.String("verify", "", "replay file to re-simulate and verify")
	outDir     = flag.String("out", "", "directory for the replay of a single battle")
	printLog   = flag.Bool("log", false, "print the event log of a single battle")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lib := content.NewLibrary()
	if err := run(ctx, cfg, lib, logger); err != nil {
		logger.Error("battle-sim failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, lib *rules.Library, logger *zap.Logger) error {
	if *verify != "" {
		return verifyFile(*verify, lib, logger)
	}

	setup := cfg.Battle.Fill(encounter.Setup{
		Enemies: splitIDs(*enemies),
		Deck:    splitIDs(*deck),
		Relics:  splitIDs(*relics),
	})

	if *search > 0 {
		results, err := autopilot.Search(ctx, setup, lib, autopilot.SearchOptions{
			From:       *seed,
			Count:      *search,
			Workers:    cfg.Battle.SearchWorkers,
			MaxActions: cfg.Battle.MaxActions,
		}, logger)
		if err != nil {
			return err
		}
		for _, r := range results {
			if r.Won {
				fmt.Printf("seed %d: won in %d turns with %d hp\n", r.Seed, r.Turns, r.PlayerHP)
			}
		}
		fmt.Printf("%d/%d seeds won\n", autopilot.Wins(results), len(results))
		return nil
	}

	battleSeed := *seed
	if battleSeed == 0 {
		fresh, err := rng.NewSeed()
		if err != nil {
			return err
		}
		battleSeed = fresh
	}
	e, err := setup.Build(lib, battleSeed, logger)
	if err != nil {
		return err
	}
	res, err := autopilot.Play(ctx, e, lib, cfg.Battle.MaxActions)
	if err != nil && !errors.Is(err, autopilot.ErrActionLimit) {
		return err
	}

	if *printLog {
		for _, event := range e.Events() {
			fmt.Println(event.String())
		}
	}
	rec := replay.New(setup, battleSeed, res.Actions, e.Events(), e.State())
	if *outDir != "" {
		path, err := rec.SaveToFile(*outDir)
		if err != nil {
			return err
		}
		logger.Info("replay saved", zap.String("path", path))
	}

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	return out.Encode(struct {
		BattleID string           `json:"battle_id"`
		Digest   string           `json:"digest"`
		Result   autopilot.Result `json:"result"`
	}{rec.BattleID, rec.Digest, res})
}

func verifyFile(path string, lib *rules.Library, logger *zap.Logger) error {
	rec, err := replay.LoadFromFile(path)
	if err != nil {
		return err
	}
	if err := replay.Verify(rec, lib, logger); err != nil {
		return err
	}
	fmt.Printf("replay %s verified: seed %d, %d actions, digest %s\n", rec.BattleID, rec.Seed, len(rec.Actions), rec.Digest)
	return nil
}

func splitIDs(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
