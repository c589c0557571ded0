package rules

import "fmt"

// TargetKind selects the side an effect points at.
type TargetKind int

const (
	TargetPlayer TargetKind = iota
	TargetEnemy
)

// Target addresses the player or an enemy slot. Enemy slot order is the only
// enemy identity the engine uses for targeting.
type Target struct {
	Kind  TargetKind
	Index int
}

// Player targets the player.
func Player() Target {
	return Target{Kind: TargetPlayer}
}

// Enemy targets the enemy in the given slot.
func Enemy(index int) Target {
	return Target{Kind: TargetEnemy, Index: index}
}

// IsPlayer reports whether t addresses the player.
func (t Target) IsPlayer() bool {
	return t.Kind == TargetPlayer
}

func (t Target) String() string {
	if t.Kind == TargetPlayer {
		return "player"
	}
	return fmt.Sprintf("enemy[%d]", t.Index)
}

// RewrittenIntentKind is the replacement move a rewrite installs.
type RewrittenIntentKind int

const (
	RewriteDefend RewrittenIntentKind = iota
	RewriteSkip
)

// RewrittenIntent is the simplified move that replaces an enemy's plan.
type RewrittenIntent struct {
	Kind  RewrittenIntentKind
	Block int
}

// DefendIntent rewrites a plan into gaining block.
func DefendIntent(block int) RewrittenIntent {
	return RewrittenIntent{Kind: RewriteDefend, Block: block}
}

// SkipIntent rewrites a plan into doing nothing.
func SkipIntent() RewrittenIntent {
	return RewrittenIntent{Kind: RewriteSkip}
}

// EffectKind enumerates the primitive battle operations.
type EffectKind int

const (
	EffectDealDamage EffectKind = iota
	EffectGainBlock
	EffectDrawCards
	EffectGainEnergy
	EffectApplyStatus
	EffectHeal
	EffectForesight
	EffectRewind
	EffectClearMadness
	EffectRewriteIntent
	EffectForesightPenaltyNextTurn
	EffectFirstCardCostIncreaseNextTurn
	EffectDiscardRandomHand
	EffectEnemyHeal
	EffectDealDamagePerForesight
)

var effectKindNames = map[EffectKind]string{
	EffectDealDamage:                    "deal_damage",
	EffectGainBlock:                     "gain_block",
	EffectDrawCards:                     "draw_cards",
	EffectGainEnergy:                    "gain_energy",
	EffectApplyStatus:                   "apply_status",
	EffectHeal:                          "heal",
	EffectForesight:                     "foresight",
	EffectRewind:                        "rewind",
	EffectClearMadness:                  "clear_madness",
	EffectRewriteIntent:                 "rewrite_intent",
	EffectForesightPenaltyNextTurn:      "foresight_penalty_next_turn",
	EffectFirstCardCostIncreaseNextTurn: "first_card_cost_increase_next_turn",
	EffectDiscardRandomHand:             "discard_random_hand",
	EffectEnemyHeal:                     "enemy_heal",
	EffectDealDamagePerForesight:        "deal_damage_per_foresight",
}

func (k EffectKind) String() string {
	if name, ok := effectKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EffectKind(%d)", int(k))
}

// Effect is an uninterpreted instruction. Cards, enemy moves, statuses and
// relics only ever produce effects; the engine is the sole interpreter.
// Amount carries the base value, count or stack delta depending on Kind.
type Effect struct {
	Kind       EffectKind
	Source     Target
	Target     Target
	Amount     int
	StatusID   string
	EnemyIndex int
	Intent     RewrittenIntent
}

// DealDamage deals base damage, before modifiers, from source to target.
func DealDamage(source, target Target, base int) Effect {
	return Effect{Kind: EffectDealDamage, Source: source, Target: target, Amount: base}
}

// GainBlock grants base block, before modifiers.
func GainBlock(target Target, base int) Effect {
	return Effect{Kind: EffectGainBlock, Target: target, Amount: base}
}

// DrawCards draws count cards for the player.
func DrawCards(count int) Effect {
	return Effect{Kind: EffectDrawCards, Amount: count}
}

// GainEnergy adds energy to the player.
func GainEnergy(amount int) Effect {
	return Effect{Kind: EffectGainEnergy, Amount: amount}
}

// ApplyStatus adds stacks (possibly negative) of a status.
func ApplyStatus(target Target, statusID string, stacks int) Effect {
	return Effect{Kind: EffectApplyStatus, Target: target, StatusID: statusID, Amount: stacks}
}

// Heal restores HP up to the target's maximum.
func Heal(target Target, amount int) Effect {
	return Effect{Kind: EffectHeal, Target: target, Amount: amount}
}

// Foresight reveals the top count cards and moves one to hand.
func Foresight(count int) Effect {
	return Effect{Kind: EffectForesight, Amount: count}
}

// Rewind returns the most recently discarded cards to hand.
func Rewind(count int) Effect {
	return Effect{Kind: EffectRewind, Amount: count}
}

// ClearMadness removes madness stacks from the player; 0 clears all.
func ClearMadness(amount int) Effect {
	return Effect{Kind: EffectClearMadness, Amount: amount}
}

// RewriteIntent replaces an enemy's planned move.
func RewriteIntent(enemyIndex int, intent RewrittenIntent) Effect {
	return Effect{Kind: EffectRewriteIntent, EnemyIndex: enemyIndex, Intent: intent}
}

// ForesightPenaltyNextTurn lowers every foresight of the player's next turn.
func ForesightPenaltyNextTurn(amount int) Effect {
	return Effect{Kind: EffectForesightPenaltyNextTurn, Amount: amount}
}

// FirstCardCostIncreaseNextTurn raises the cost of the first card played next turn.
func FirstCardCostIncreaseNextTurn(amount int) Effect {
	return Effect{Kind: EffectFirstCardCostIncreaseNextTurn, Amount: amount}
}

// DiscardRandomHand discards count random cards from the player's hand.
func DiscardRandomHand(count int) Effect {
	return Effect{Kind: EffectDiscardRandomHand, Amount: count}
}

// EnemyHeal heals the enemy in the given slot.
func EnemyHeal(enemyIndex, amount int) Effect {
	return Effect{Kind: EffectEnemyHeal, EnemyIndex: enemyIndex, Amount: amount}
}

// DealDamagePerForesight deals perForesight times the number of foresights
// resolved this turn.
func DealDamagePerForesight(source, target Target, perForesight int) Effect {
	return Effect{Kind: EffectDealDamagePerForesight, Source: source, Target: target, Amount: perForesight}
}
