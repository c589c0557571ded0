package rules

import "fmt"

// TriggerKind names a lifecycle moment relics can react to.
type TriggerKind int

const (
	TriggerBattleStart TriggerKind = iota
	TriggerBattleEnd
	TriggerTurnStart
	TriggerTurnEnd
	TriggerCardPlayed
	TriggerCardDrawn
	TriggerDamageDealt
	TriggerDamageTaken
	TriggerBlockGained
	TriggerEnemyKilled
)

var triggerNames = map[TriggerKind]string{
	TriggerBattleStart: "battle_start",
	TriggerBattleEnd:   "battle_end",
	TriggerTurnStart:   "turn_start",
	TriggerTurnEnd:     "turn_end",
	TriggerCardPlayed:  "card_played",
	TriggerCardDrawn:   "card_drawn",
	TriggerDamageDealt: "damage_dealt",
	TriggerDamageTaken: "damage_taken",
	TriggerBlockGained: "block_gained",
	TriggerEnemyKilled: "enemy_killed",
}

func (k TriggerKind) String() string {
	if name, ok := triggerNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TriggerKind(%d)", int(k))
}

// Trigger is a fired lifecycle moment with its payload.
type Trigger struct {
	Kind   TriggerKind
	Turn   int
	Won    bool
	CardID string
	Amount int
}

// BattleStart fires once, on turn 1.
func BattleStart() Trigger { return Trigger{Kind: TriggerBattleStart} }

// BattleEnd fires when the battle reaches a terminal state.
func BattleEnd(won bool) Trigger { return Trigger{Kind: TriggerBattleEnd, Won: won} }

// TurnStart fires at the start of every player turn.
func TurnStart(turn int) Trigger { return Trigger{Kind: TriggerTurnStart, Turn: turn} }

// TurnEnd fires at the end of every player turn.
func TurnEnd(turn int) Trigger { return Trigger{Kind: TriggerTurnEnd, Turn: turn} }

// CardPlayed fires after a card leaves the hand.
func CardPlayed(cardID string) Trigger { return Trigger{Kind: TriggerCardPlayed, CardID: cardID} }

// CardDrawn fires for every drawn card.
func CardDrawn(cardID string) Trigger { return Trigger{Kind: TriggerCardDrawn, CardID: cardID} }

// DamageDealt fires when the player deals positive damage.
func DamageDealt(amount int) Trigger { return Trigger{Kind: TriggerDamageDealt, Amount: amount} }

// DamageTaken fires when the player loses HP to damage.
func DamageTaken(amount int) Trigger { return Trigger{Kind: TriggerDamageTaken, Amount: amount} }

// BlockGained fires when the player gains block.
func BlockGained(amount int) Trigger { return Trigger{Kind: TriggerBlockGained, Amount: amount} }

// EnemyKilled fires when an enemy goes from alive to dead.
func EnemyKilled() Trigger { return Trigger{Kind: TriggerEnemyKilled} }
