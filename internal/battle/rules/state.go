package rules

import (
	"encoding/json"
	"fmt"
)

const (
	// DefaultMaxEnergy is the per-turn energy of a new battle.
	DefaultMaxEnergy = 3
	// DefaultCardsPerTurn is the number of cards drawn at turn start.
	DefaultCardsPerTurn = 5
)

// State is the mutable battle snapshot owned by the engine.
// DrawPile's last element is the top of the pile.
type State struct {
	Player       Entity
	Enemies      []Entity
	Energy       int
	MaxEnergy    int
	Turn         int
	IsPlayerTurn bool
	DrawPile     []Card
	Hand         []Card
	DiscardPile  []Card
	IsOver       bool
	PlayerWon    bool
}

// NewState creates a battle state before the first turn.
func NewState(player Entity, enemies []Entity) State {
	return State{
		Player:    player,
		Enemies:   enemies,
		MaxEnergy: DefaultMaxEnergy,
	}
}

// Entity resolves a target to the addressed entity, or nil for an
// out-of-range enemy slot.
func (s *State) Entity(t Target) *Entity {
	if t.IsPlayer() {
		return &s.Player
	}
	if t.Index < 0 || t.Index >= len(s.Enemies) {
		return nil
	}
	return &s.Enemies[t.Index]
}

// LivingEnemyIndices returns slots of enemies with HP left, in slot order.
func (s *State) LivingEnemyIndices() []int {
	var out []int
	for i := range s.Enemies {
		if s.Enemies[i].IsAlive() {
			out = append(out, i)
		}
	}
	return out
}

// AllEnemiesDead reports whether no enemy is alive.
func (s *State) AllEnemiesDead() bool {
	return len(s.LivingEnemyIndices()) == 0
}

// Clone returns a deep copy safe to hand to callers.
func (s State) Clone() State {
	out := s
	out.Player = s.Player.Clone()
	out.Enemies = make([]Entity, len(s.Enemies))
	for i := range s.Enemies {
		out.Enemies[i] = s.Enemies[i].Clone()
	}
	out.DrawPile = append([]Card(nil), s.DrawPile...)
	out.Hand = append([]Card(nil), s.Hand...)
	out.DiscardPile = append([]Card(nil), s.DiscardPile...)
	return out
}

// Snapshot is the read-only view handed to card, enemy, status and relic
// definitions.
type Snapshot struct {
	Turn    int
	Player  Entity
	Enemies []Entity
	Energy  int
}

// Snapshot captures a deep copy of the current combatants.
func (s *State) Snapshot() Snapshot {
	enemies := make([]Entity, len(s.Enemies))
	for i := range s.Enemies {
		enemies[i] = s.Enemies[i].Clone()
	}
	return Snapshot{
		Turn:    s.Turn,
		Player:  s.Player.Clone(),
		Enemies: enemies,
		Energy:  s.Energy,
	}
}

// ActionKind enumerates player actions.
type ActionKind int

const (
	ActionPlayCard ActionKind = iota
	ActionEndTurn
	ActionChooseForesight
)

var actionKindNames = map[ActionKind]string{
	ActionPlayCard:        "play_card",
	ActionEndTurn:         "end_turn",
	ActionChooseForesight: "choose_foresight",
}

func (k ActionKind) String() string {
	if name, ok := actionKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// Action is a player decision. ChooseForesight is only meaningful while a
// foresight prompt is pending; Index is the option index.
type Action struct {
	Kind      ActionKind `json:"kind"`
	HandIndex int        `json:"hand_index,omitempty"`
	Target    int        `json:"target"`
	Index     int        `json:"index,omitempty"`
}

// UnmarshalJSON decodes an action, leaving Target at NoTarget when the
// field is absent.
func (a *Action) UnmarshalJSON(data []byte) error {
	type plain Action
	decoded := plain{Target: NoTarget}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*a = Action(decoded)
	return nil
}

// PlayCard plays the card at handIndex against target (NoTarget for none).
func PlayCard(handIndex, target int) Action {
	return Action{Kind: ActionPlayCard, HandIndex: handIndex, Target: target}
}

// EndTurn ends the player's turn.
func EndTurn() Action {
	return Action{Kind: ActionEndTurn, Target: NoTarget}
}

// ChooseForesight resolves a pending foresight prompt.
func ChooseForesight(index int) Action {
	return Action{Kind: ActionChooseForesight, Index: index, Target: NoTarget}
}

// PendingKind identifies the kind of unresolved choice.
type PendingKind int

const (
	PendingForesight PendingKind = iota
)

// PendingInput is an unresolved mid-resolution choice. Options lists the
// revealed cards, top of the draw pile first.
type PendingInput struct {
	Kind      PendingKind
	Options   []Card
	FromCount int
}

// Clone copies the pending input.
func (p PendingInput) Clone() PendingInput {
	out := p
	out.Options = append([]Card(nil), p.Options...)
	return out
}
