package rules

import (
	"fmt"

	"github.com/magefree/battle-engine-go/internal/battle/rng"
	"github.com/magefree/battle-engine-go/internal/battle/status"
)

// NoTarget marks a card play without an explicit enemy target.
const NoTarget = -1

// Card is a card instance: a per-battle instance id plus its definition key.
type Card struct {
	ID     string `json:"id"`
	CardID string `json:"card_id"`
}

// CardType classifies card definitions.
type CardType int

const (
	CardAttack CardType = iota
	CardSkill
	CardPower
	CardConsumable
)

var cardTypeNames = map[CardType]string{
	CardAttack:     "attack",
	CardSkill:      "skill",
	CardPower:      "power",
	CardConsumable: "consumable",
}

func (t CardType) String() string {
	if name, ok := cardTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("CardType(%d)", int(t))
}

// Rarity is shared by cards and relics.
type Rarity int

const (
	RarityStarter Rarity = iota
	RarityCommon
	RarityUncommon
	RarityRare
	RarityBoss
)

// Targeting is a card's target requirement.
type Targeting int

const (
	TargetingNone Targeting = iota
	TargetingSingleEnemy
)

// CardDefinition is an immutable card template.
// Play receives a snapshot and the chosen enemy slot (NoTarget when none).
type CardDefinition struct {
	ID         string
	Name       string
	Type       CardType
	Rarity     Rarity
	Cost       int
	RulesText  string
	UpgradedID string
	Targeting  Targeting
	Play       func(snapshot Snapshot, target int) []Effect
}

// TargetOr returns target, or fallback when no target was chosen.
func TargetOr(target, fallback int) int {
	if target == NoTarget {
		return fallback
	}
	return target
}

// Intent is the human-readable preview of an enemy move.
type Intent struct {
	Icon          string `json:"icon,omitempty"`
	Text          string `json:"text"`
	PreviewDamage int    `json:"preview_damage,omitempty"`
}

// EnemyMove pairs a preview with the effects executed on the enemy turn.
type EnemyMove struct {
	Intent  Intent
	Effects []Effect
}

// Clone copies the move including its effect list.
func (m EnemyMove) Clone() EnemyMove {
	out := EnemyMove{Intent: m.Intent}
	if m.Effects != nil {
		out.Effects = append([]Effect(nil), m.Effects...)
	}
	return out
}

// EnemyDefinition is an enemy template. ChooseMove must be a pure function of
// its inputs and the generator stream.
type EnemyDefinition struct {
	ID         string
	Name       string
	HPMin      int
	HPMax      int
	ChooseMove func(selfIndex int, snapshot Snapshot, r *rng.SeededRNG) EnemyMove
}

// Hook modifies one kind of numeric computation.
type Hook struct {
	Phase  status.ModifierPhase
	Modify func(value, stacks int) int
}

// StatusDefinition describes a status kind.
// Outgoing, Incoming and Block are optional hooks; OnTurnEnd is optional.
type StatusDefinition struct {
	ID        string
	Name      string
	Icon      string
	Positive  bool
	Decay     status.Decay
	Priority  int
	Outgoing  *Hook
	Incoming  *Hook
	Block     *Hook
	OnTurnEnd func(owner Target, stacks int, snapshot Snapshot) []Effect
}

// RelicDefinition is an equipable passive. OnTrigger may be nil for relics
// whose effect the engine checks directly.
type RelicDefinition struct {
	ID          string
	Name        string
	Description string
	Rarity      Rarity
	Icon        string
	OnTrigger   func(trigger Trigger, snapshot Snapshot) []Effect
}

// Ids the engine interprets directly. Content registers definitions under
// these ids; the engine checks them for the madness and foresight mechanics.
const (
	StatusMadness           = "madness"
	StatusSequenceResonance = "sequence_resonance"
	StatusWeak              = "weak"

	RelicBrokenWatch  = "broken_watch"
	RelicSanityAnchor = "sanity_anchor"
	RelicProphetNotes = "prophet_notes"
	RelicMadnessMask  = "madness_mask"
)
