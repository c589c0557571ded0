// Package engine runs a single deterministic battle.
//
// An Engine owns the battle state, the seeded generator, the equipped relics
// and the event log. It is synchronous and not safe for concurrent use; the
// only suspension is a pending foresight prompt that the caller resolves with
// SubmitForesightChoice.
package engine

import (
	"errors"
	"fmt"

	"github.com/magefree/battle-engine-go/internal/battle/relics"
	"github.com/magefree/battle-engine-go/internal/battle/rng"
	"github.com/magefree/battle-engine-go/internal/battle/rules"
	"go.uber.org/zap"
)

// ForesightPolicy selects how foresight picks the card that goes to hand.
type ForesightPolicy int

const (
	// ForesightAutoPick takes the first attack among the revealed cards,
	// otherwise the first revealed card.
	ForesightAutoPick ForesightPolicy = iota
	// ForesightChoice suspends the battle until SubmitForesightChoice.
	ForesightChoice
)

var policyNames = map[ForesightPolicy]string{
	ForesightAutoPick: "auto",
	ForesightChoice:   "choice",
}

func (p ForesightPolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("ForesightPolicy(%d)", int(p))
}

// ParseForesightPolicy maps "auto" and "choice" to a policy.
func ParseForesightPolicy(s string) (ForesightPolicy, error) {
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return ForesightAutoPick, fmt.Errorf("unknown foresight policy %q", s)
}

// Config is everything a battle needs up front.
type Config struct {
	// Player defaults to rules.NewPlayer when its ID is empty.
	Player  rules.Entity
	Enemies []rules.Entity
	Deck    []rules.Card
	// Relics are equipped in order; duplicates are ignored.
	Relics []string
	Seed   uint64

	// CardsPerTurn and MaxEnergy fall back to the rules defaults when <= 0.
	CardsPerTurn    int
	MaxEnergy       int
	ForesightPolicy ForesightPolicy
}

var (
	// ErrNoEnemies is returned by New for a battle without opponents.
	ErrNoEnemies = errors.New("battle needs at least one enemy")
	// ErrInvalidEntity is returned by New for an entity outside
	// 0 <= hp <= max hp or with negative block.
	ErrInvalidEntity = errors.New("invalid entity")
)

// Engine is the battle state machine.
type Engine struct {
	lib    *rules.Library
	rng    *rng.SeededRNG
	relics *relics.Manager
	logger *zap.Logger

	state   rules.State
	events  []rules.Event
	bus     *rules.EventBus
	pending *rules.PendingInput
	stats   Stats

	seed         uint64
	policy       ForesightPolicy
	cardsPerTurn int
	started      bool

	// Per-turn trackers, reset by startNewTurn.
	foresightUsedThisTurn  bool
	foresightCountThisTurn int
	cardsPlayedThisTurn    int

	// Boss debuffs queued for the next player turn and the active values
	// they are promoted into.
	foresightPenaltyNextTurn      int
	foresightPenalty              int
	firstCardCostIncreaseNextTurn int
	firstCardCostIncrease         int

	scheduledDiscards int
	madnessDiscards   int
	intentRewrites    int
	skipNextMadness   bool
}

func checkEntity(ent rules.Entity) error {
	switch {
	case ent.MaxHP <= 0:
		return fmt.Errorf("%w: %s has max hp %d", ErrInvalidEntity, ent.ID, ent.MaxHP)
	case ent.CurrentHP < 0 || ent.CurrentHP > ent.MaxHP:
		return fmt.Errorf("%w: %s has hp %d of %d", ErrInvalidEntity, ent.ID, ent.CurrentHP, ent.MaxHP)
	case ent.Block < 0:
		return fmt.Errorf("%w: %s has block %d", ErrInvalidEntity, ent.ID, ent.Block)
	}
	return nil
}

// New validates cfg against lib and prepares a battle. The draw pile is the
// deck shuffled with the battle generator; nothing is emitted until
// StartBattle.
func New(cfg Config, lib *rules.Library, logger *zap.Logger) (*Engine, error) {
	if lib == nil {
		return nil, errors.New("engine requires a content library")
	}
	if len(cfg.Enemies) == 0 {
		return nil, ErrNoEnemies
	}
	for _, card := range cfg.Deck {
		if _, err := lib.Cards.Require(card.CardID); err != nil {
			return nil, fmt.Errorf("invalid deck card %q: %w", card.ID, err)
		}
	}
	for i, enemy := range cfg.Enemies {
		if enemy.EnemyID == "" {
			continue
		}
		if _, err := lib.Enemies.Require(enemy.EnemyID); err != nil {
			return nil, fmt.Errorf("invalid enemy in slot %d: %w", i, err)
		}
	}

	player := cfg.Player
	if player.ID == "" {
		player = rules.NewPlayer()
	}
	if err := checkEntity(player); err != nil {
		return nil, err
	}
	for _, enemy := range cfg.Enemies {
		if err := checkEntity(enemy); err != nil {
			return nil, err
		}
	}
	enemies := make([]rules.Entity, len(cfg.Enemies))
	for i := range cfg.Enemies {
		enemies[i] = cfg.Enemies[i].Clone()
	}

	state := rules.NewState(player.Clone(), enemies)
	if cfg.MaxEnergy > 0 {
		state.MaxEnergy = cfg.MaxEnergy
	}
	cardsPerTurn := cfg.CardsPerTurn
	if cardsPerTurn <= 0 {
		cardsPerTurn = rules.DefaultCardsPerTurn
	}

	r := rng.New(cfg.Seed)
	state.DrawPile = rng.Shuffle(r, cfg.Deck)

	e := &Engine{
		lib:          lib,
		rng:          r,
		relics:       relics.NewManager(lib, logger),
		logger:       logger,
		state:        state,
		bus:          rules.NewEventBus(),
		seed:         cfg.Seed,
		policy:       cfg.ForesightPolicy,
		cardsPerTurn: cardsPerTurn,
	}
	for _, id := range cfg.Relics {
		e.relics.Add(id)
	}
	return e, nil
}

// StartBattle clears the event log, emits battleStarted and begins turn 1.
// It returns false when the battle was already started.
func (e *Engine) StartBattle() bool {
	if e.started {
		e.reject("battle already started")
		return false
	}
	e.started = true
	e.events = nil
	if e.logger != nil {
		e.logger.Info("battle started",
			zap.Uint64("seed", e.seed),
			zap.Int("enemies", len(e.state.Enemies)),
			zap.Int("deck", len(e.state.DrawPile)),
			zap.Strings("relics", e.relics.IDs()),
		)
	}
	e.emit(rules.BattleStartedEvent())
	e.startNewTurn()
	return true
}

// State returns a deep copy of the battle state.
func (e *Engine) State() rules.State {
	return e.state.Clone()
}

// Events returns a copy of the event log since the last ClearEvents.
func (e *Engine) Events() []rules.Event {
	return append([]rules.Event(nil), e.events...)
}

// ClearEvents empties the event log. Subscribers are unaffected.
func (e *Engine) ClearEvents() {
	e.events = nil
}

// Subscribe registers a listener that sees every event as it is emitted and
// returns a handle for Unsubscribe.
func (e *Engine) Subscribe(listener rules.Listener) int {
	return e.bus.Subscribe(listener)
}

// Unsubscribe removes a listener registered with Subscribe.
func (e *Engine) Unsubscribe(handle int) {
	e.bus.Unsubscribe(handle)
}

// PendingInput returns the unresolved prompt, if any.
func (e *Engine) PendingInput() (rules.PendingInput, bool) {
	if e.pending == nil {
		return rules.PendingInput{}, false
	}
	return e.pending.Clone(), true
}

// Relics returns the equipped relic ids in equip order.
func (e *Engine) Relics() []string {
	return e.relics.IDs()
}

// Stats returns the accumulated battle statistics.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Seed returns the seed the battle generator was created with.
func (e *Engine) Seed() uint64 {
	return e.seed
}

// IsOver reports whether the battle reached a terminal state.
func (e *Engine) IsOver() bool {
	return e.state.IsOver
}

// HandleAction executes a player action. It returns false, with an
// invalidAction or notEnoughEnergy event, when the action is rejected.
// Foresight choices must go through SubmitForesightChoice or Dispatch.
func (e *Engine) HandleAction(action rules.Action) bool {
	switch {
	case e.state.IsOver:
		e.reject("battle is over")
		return false
	case e.pending != nil:
		e.reject("a foresight choice is pending")
		return false
	case !e.started || !e.state.IsPlayerTurn:
		e.reject("not the player's turn")
		return false
	}

	switch action.Kind {
	case rules.ActionPlayCard:
		return e.playCard(action.HandIndex, action.Target)
	case rules.ActionEndTurn:
		e.endTurn()
		return true
	default:
		e.reject(fmt.Sprintf("unsupported action %s", action.Kind))
		return false
	}
}

// Dispatch routes any action, including foresight choices, to the matching
// entry point. Replays and remote clients use it.
func (e *Engine) Dispatch(action rules.Action) bool {
	if action.Kind == rules.ActionChooseForesight {
		return e.SubmitForesightChoice(action.Index)
	}
	return e.HandleAction(action)
}

// CostToPlay returns the energy the card at handIndex would cost right now,
// or false for an invalid index or unknown card.
func (e *Engine) CostToPlay(handIndex int) (int, bool) {
	if handIndex < 0 || handIndex >= len(e.state.Hand) {
		return 0, false
	}
	def, ok := e.lib.Cards.Get(e.state.Hand[handIndex].CardID)
	if !ok {
		return 0, false
	}
	return e.effectiveCost(def), true
}

// PlayableCardIndices lists hand indices that are affordable and have a
// legal target. It never mutates the battle.
func (e *Engine) PlayableCardIndices() []int {
	if e.state.IsOver || e.pending != nil || !e.state.IsPlayerTurn {
		return nil
	}
	living := len(e.state.LivingEnemyIndices())
	var out []int
	for i, card := range e.state.Hand {
		def, ok := e.lib.Cards.Get(card.CardID)
		if !ok {
			continue
		}
		if def.Targeting == rules.TargetingSingleEnemy && living == 0 {
			continue
		}
		if e.effectiveCost(def) <= e.state.Energy {
			out = append(out, i)
		}
	}
	return out
}

func (e *Engine) effectiveCost(def rules.CardDefinition) int {
	cost := def.Cost
	if e.cardsPlayedThisTurn == 0 {
		cost += e.firstCardCostIncrease
	}
	return max(0, cost)
}

func (e *Engine) emit(event rules.Event) {
	e.events = append(e.events, event)
	e.bus.Publish(event)
	if e.logger != nil {
		e.logger.Debug("battle event", zap.Stringer("event", event))
	}
}

func (e *Engine) reject(reason string) {
	if e.logger != nil {
		e.logger.Debug("rejected action", zap.String("reason", reason))
	}
	e.emit(rules.InvalidActionEvent(reason))
}

// fire dispatches a relic trigger and applies the resulting effects.
func (e *Engine) fire(trigger rules.Trigger) {
	for _, effect := range e.relics.Dispatch(trigger, e.state.Snapshot()) {
		if e.state.IsOver && trigger.Kind != rules.TriggerBattleEnd {
			return
		}
		e.apply(effect)
	}
}

func (e *Engine) entityName(t rules.Target) string {
	if ent := e.state.Entity(t); ent != nil {
		return ent.Name
	}
	return t.String()
}
