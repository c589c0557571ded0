package autopilot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/magefree/battle-engine-go/internal/battle/encounter"
	"github.com/magefree/battle-engine-go/internal/battle/engine"
	"github.com/magefree/battle-engine-go/internal/battle/rules"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxActions bounds a single autopilot battle.
const DefaultMaxActions = 2000

// ErrActionLimit is returned when a battle is still running after the
// action budget is spent.
var ErrActionLimit = errors.New("autopilot action limit reached")

// Result summarizes one autopilot battle.
type Result struct {
	Seed     uint64         `json:"seed"`
	Won      bool           `json:"won"`
	Turns    int            `json:"turns"`
	PlayerHP int            `json:"player_hp"`
	Actions  []rules.Action `json:"actions"`
	Stats    engine.Stats   `json:"stats"`
}

// Play starts the battle if needed and drives it with Choose until it ends.
// Every dispatched action is recorded, rejected ones included, so the list
// replays to the same log.
func Play(ctx context.Context, e *engine.Engine, lib *rules.Library, maxActions int) (Result, error) {
	if maxActions <= 0 {
		maxActions = DefaultMaxActions
	}
	if e.State().Turn == 0 {
		e.StartBattle()
	}

	var actions []rules.Action
	for !e.IsOver() {
		if err := ctx.Err(); err != nil {
			return result(e, actions), err
		}
		if len(actions) >= maxActions {
			return result(e, actions), ErrActionLimit
		}
		action := Choose(e, lib)
		actions = append(actions, action)
		e.Dispatch(action)
	}
	return result(e, actions), nil
}

func result(e *engine.Engine, actions []rules.Action) Result {
	state := e.State()
	return Result{
		Seed:     e.Seed(),
		Won:      state.PlayerWon,
		Turns:    state.Turn,
		PlayerHP: state.Player.CurrentHP,
		Actions:  actions,
		Stats:    e.Stats(),
	}
}

// SearchOptions configures Search.
type SearchOptions struct {
	From  uint64
	Count int
	// Workers defaults to 1.
	Workers    int
	MaxActions int
}

// Search plays the setup once per seed in [From, From+Count) and returns the
// results ordered by seed. Battles run in parallel, one engine per seed.
func Search(ctx context.Context, setup encounter.Setup, lib *rules.Library, opts SearchOptions, logger *zap.Logger) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := setup.Validate(lib); err != nil {
		return nil, err
	}
	if opts.Count <= 0 {
		return nil, nil
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	var (
		mu      sync.Mutex
		results = make([]Result, 0, opts.Count)
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < opts.Count; i++ {
		seed := opts.From + uint64(i)
		g.Go(func() error {
			e, err := setup.Build(lib, seed, nil)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			res, err := Play(ctx, e, lib, opts.MaxActions)
			if errors.Is(err, ErrActionLimit) {
				logger.Warn("battle hit the action limit", zap.Uint64("seed", seed))
			} else if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Seed < results[j].Seed })
	logger.Info("seed search finished",
		zap.Uint64("from", opts.From),
		zap.Int("count", opts.Count),
		zap.Int("wins", Wins(results)),
	)
	return results, nil
}

// Wins counts the won battles.
func Wins(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Won {
			n++
		}
	}
	return n
}
