// Package encounter turns a declarative battle setup (content ids only) into
// an engine configuration. Setups are what clients send, what replays store
// and what the seed search iterates over.
package encounter

import (
	"errors"
	"fmt"

	"github.com/magefree/battle-engine-go/internal/battle/content"
	"github.com/magefree/battle-engine-go/internal/battle/engine"
	"github.com/magefree/battle-engine-go/internal/battle/rng"
	"github.com/magefree/battle-engine-go/internal/battle/rules"
	"go.uber.org/zap"
)

// spawnNode salts the generator that rolls enemy HP so it never shares a
// stream with the battle itself.
const spawnNode = "encounter/spawn"

// Setup describes a battle by content ids.
type Setup struct {
	Enemies []string `json:"enemies" mapstructure:"enemies"`
	// Deck lists card ids; empty means the starter deck.
	Deck   []string `json:"deck,omitempty" mapstructure:"deck"`
	Relics []string `json:"relics,omitempty" mapstructure:"relics"`

	// Zero values select the defaults.
	PlayerHP        int    `json:"player_hp,omitempty" mapstructure:"player_hp"`
	MaxEnergy       int    `json:"max_energy,omitempty" mapstructure:"max_energy"`
	CardsPerTurn    int    `json:"cards_per_turn,omitempty" mapstructure:"cards_per_turn"`
	ForesightPolicy string `json:"foresight_policy,omitempty" mapstructure:"foresight_policy"`
}

var (
	// ErrInvalidSetup wraps every validation failure.
	ErrInvalidSetup = errors.New("invalid setup")
	// ErrEmptySetup is returned for a setup without enemies.
	ErrEmptySetup = errors.New("setup has no enemies")
)

// Validate checks every id against lib.
func (s Setup) Validate(lib *rules.Library) error {
	if err := s.validate(lib); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSetup, err)
	}
	return nil
}

func (s Setup) validate(lib *rules.Library) error {
	if len(s.Enemies) == 0 {
		return ErrEmptySetup
	}
	for _, id := range s.Enemies {
		if _, err := lib.Enemies.Require(id); err != nil {
			return err
		}
	}
	for _, id := range s.Deck {
		if _, err := lib.Cards.Require(id); err != nil {
			return err
		}
	}
	for _, id := range s.Relics {
		if _, err := lib.Relics.Require(id); err != nil {
			return err
		}
	}
	if s.PlayerHP < 0 {
		return fmt.Errorf("player hp must not be negative, got %d", s.PlayerHP)
	}
	if s.ForesightPolicy != "" {
		if _, err := engine.ParseForesightPolicy(s.ForesightPolicy); err != nil {
			return err
		}
	}
	return nil
}

// Config resolves the setup into an engine configuration for seed.
func (s Setup) Config(lib *rules.Library, seed uint64) (engine.Config, error) {
	if err := s.Validate(lib); err != nil {
		return engine.Config{}, err
	}

	spawn := rng.New(rng.DeriveBattleSeed(seed, 0, spawnNode))
	enemies := make([]rules.Entity, 0, len(s.Enemies))
	for slot, id := range s.Enemies {
		enemy, err := content.SpawnEnemy(lib, id, slot, spawn)
		if err != nil {
			return engine.Config{}, err
		}
		enemies = append(enemies, enemy)
	}

	deck := content.StarterDeck()
	if len(s.Deck) > 0 {
		deck = content.Deck(s.Deck...)
	}

	player := rules.NewPlayer()
	if s.PlayerHP > 0 {
		player = rules.NewEntity(rules.PlayerID, player.Name, s.PlayerHP)
	}

	policy := engine.ForesightAutoPick
	if s.ForesightPolicy != "" {
		policy, _ = engine.ParseForesightPolicy(s.ForesightPolicy)
	}

	return engine.Config{
		Player:          player,
		Enemies:         enemies,
		Deck:            deck,
		Relics:          append([]string(nil), s.Relics...),
		Seed:            seed,
		CardsPerTurn:    s.CardsPerTurn,
		MaxEnergy:       s.MaxEnergy,
		ForesightPolicy: policy,
	}, nil
}

// Build creates an engine for the setup. The battle is not started.
func (s Setup) Build(lib *rules.Library, seed uint64, logger *zap.Logger) (*engine.Engine, error) {
	cfg, err := s.Config(lib, seed)
	if err != nil {
		return nil, err
	}
	return engine.New(cfg, lib, logger)
}
