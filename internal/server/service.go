package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/magefree/battle-engine-go/internal/battle/autopilot"
	"github.com/magefree/battle-engine-go/internal/battle/encounter"
	"github.com/magefree/battle-engine-go/internal/battle/engine"
	"github.com/magefree/battle-engine-go/internal/battle/replay"
	"github.com/magefree/battle-engine-go/internal/battle/rng"
	"github.com/magefree/battle-engine-go/internal/battle/rules"
	"github.com/magefree/battle-engine-go/internal/config"
	"github.com/magefree/battle-engine-go/internal/repository"
	"go.uber.org/zap"
)

// BattleStore is the persistence the service needs. *repository.BattleRepository
// satisfies it; nil disables history.
type BattleStore interface {
	Save(ctx context.Context, b repository.Battle) error
	Get(ctx context.Context, id uuid.UUID) (repository.Battle, error)
}

// ErrNoStore is returned for history lookups when persistence is disabled.
var ErrNoStore = errors.New("battle history is disabled")

// Outcome is the result of a finished battle run by the service.
type Outcome struct {
	BattleID string
	Seed     uint64
	Result   autopilot.Result
	Digest   string
	Events   []rules.Event
	State    rules.State
}

// BattleService runs battles for the gRPC and websocket front ends.
type BattleService struct {
	lib       *rules.Library
	battle    config.BattleConfig
	store     BattleStore
	replayDir string
	logger    *zap.Logger
}

// NewBattleService creates the service. store may be nil.
func NewBattleService(lib *rules.Library, cfg *config.Config, store BattleStore, logger *zap.Logger) *BattleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BattleService{
		lib:       lib,
		battle:    cfg.Battle,
		store:     store,
		replayDir: cfg.Replay.Directory,
		logger:    logger,
	}
}

// Library returns the content library battles are built from.
func (s *BattleService) Library() *rules.Library {
	return s.lib
}

// NewBattle builds an unstarted engine for setup. Seed 0 draws a fresh seed.
func (s *BattleService) NewBattle(setup encounter.Setup, seed uint64) (*engine.Engine, encounter.Setup, error) {
	setup = s.battle.Fill(setup)
	if seed == 0 {
		fresh, err := rng.NewSeed()
		if err != nil {
			return nil, setup, fmt.Errorf("failed to draw seed: %w", err)
		}
		seed = fresh
	}
	e, err := setup.Build(s.lib, seed, s.logger)
	if err != nil {
		return nil, setup, err
	}
	return e, setup, nil
}

// Simulate plays setup with the autopilot and records the battle.
func (s *BattleService) Simulate(ctx context.Context, setup encounter.Setup, seed uint64) (Outcome, error) {
	e, setup, err := s.NewBattle(setup, seed)
	if err != nil {
		return Outcome{}, err
	}
	res, err := autopilot.Play(ctx, e, s.lib, s.battle.MaxActions)
	if err != nil && !errors.Is(err, autopilot.ErrActionLimit) {
		return Outcome{}, err
	}
	if err != nil {
		s.logger.Warn("simulation stopped at the action limit", zap.Uint64("seed", e.Seed()))
	}
	rec, err := s.Record(ctx, e, setup, res.Actions)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		BattleID: rec.BattleID,
		Seed:     e.Seed(),
		Result:   res,
		Digest:   rec.Digest,
		Events:   e.Events(),
		State:    e.State(),
	}, nil
}

// Record stores a battle that was driven by actions. Storage failures are
// logged, not returned: the battle itself already happened.
func (s *BattleService) Record(ctx context.Context, e *engine.Engine, setup encounter.Setup, actions []rules.Action) (replay.Record, error) {
	state := e.State()
	rec := replay.New(setup, e.Seed(), actions, e.Events(), state)

	if s.replayDir != "" {
		if path, err := rec.SaveToFile(s.replayDir); err != nil {
			s.logger.Error("failed to write replay file", zap.String("battle_id", rec.BattleID), zap.Error(err))
		} else {
			s.logger.Debug("replay written", zap.String("path", path))
		}
	}
	if s.store != nil {
		row, err := repository.FromRecord(rec, state.Player.CurrentHP)
		if err != nil {
			return rec, err
		}
		if err := s.store.Save(ctx, row); err != nil {
			s.logger.Error("failed to store battle", zap.String("battle_id", rec.BattleID), zap.Error(err))
		}
	}

	s.logger.Info("battle recorded",
		zap.String("battle_id", rec.BattleID),
		zap.Uint64("seed", rec.Seed),
		zap.Bool("won", rec.Won),
		zap.Int("turns", rec.Turns),
		zap.Int("actions", len(actions)),
	)
	return rec, nil
}

// VerifyReplay re-simulates a stored battle.
func (s *BattleService) VerifyReplay(ctx context.Context, battleID string) (replay.Record, error) {
	if s.store == nil {
		return replay.Record{}, ErrNoStore
	}
	id, err := uuid.Parse(battleID)
	if err != nil {
		return replay.Record{}, fmt.Errorf("invalid battle id %q: %w", battleID, err)
	}
	row, err := s.store.Get(ctx, id)
	if err != nil {
		return replay.Record{}, err
	}
	rec, err := row.Record()
	if err != nil {
		return replay.Record{}, err
	}
	return rec, replay.Verify(rec, s.lib, s.logger)
}
