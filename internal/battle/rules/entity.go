package rules

import "github.com/magefree/battle-engine-go/internal/battle/status"

const (
	// PlayerID is the entity id of the player.
	PlayerID = "player"
	// DefaultPlayerMaxHP is the starting maximum HP of a new player.
	DefaultPlayerMaxHP = 80
)

// Entity is a combatant: the player or an enemy.
type Entity struct {
	ID        string
	Name      string
	MaxHP     int
	CurrentHP int
	Block     int
	Statuses  status.Container

	// EnemyID references the enemy definition driving this entity's AI.
	EnemyID string
	// PlannedMove is the enemy's committed move for the coming enemy turn.
	PlannedMove *EnemyMove
}

// NewEntity creates a combatant at full HP.
func NewEntity(id, name string, maxHP int) Entity {
	if maxHP < 1 {
		maxHP = 1
	}
	return Entity{
		ID:        id,
		Name:      name,
		MaxHP:     maxHP,
		CurrentHP: maxHP,
		Statuses:  status.NewContainer(),
	}
}

// NewPlayer creates the default player entity.
func NewPlayer() Entity {
	return NewEntity(PlayerID, "Player", DefaultPlayerMaxHP)
}

// NewEnemyEntity creates an enemy bound to an enemy definition.
func NewEnemyEntity(id, name string, maxHP int, enemyID string) Entity {
	e := NewEntity(id, name, maxHP)
	e.EnemyID = enemyID
	return e
}

// IsAlive reports whether the entity has HP left.
func (e *Entity) IsAlive() bool {
	return e.CurrentHP > 0
}

// TakeDamage removes block first, then HP, flooring HP at 0.
// It returns the HP actually lost and the amount absorbed by block.
func (e *Entity) TakeDamage(amount int) (dealt, blocked int) {
	if amount <= 0 {
		return 0, 0
	}
	blocked = min(e.Block, amount)
	e.Block -= blocked
	remaining := amount - blocked
	dealt = min(e.CurrentHP, remaining)
	e.CurrentHP -= dealt
	return dealt, blocked
}

// GainBlock adds block; non-positive amounts are ignored.
func (e *Entity) GainBlock(amount int) {
	if amount > 0 {
		e.Block += amount
	}
}

// ClearBlock drops all block and returns how much was removed.
func (e *Entity) ClearBlock() int {
	cleared := e.Block
	e.Block = 0
	return cleared
}

// Heal restores HP up to MaxHP and returns the amount restored.
// Dead entities are not revived.
func (e *Entity) Heal(amount int) int {
	if amount <= 0 || !e.IsAlive() {
		return 0
	}
	before := e.CurrentHP
	e.CurrentHP = min(e.MaxHP, e.CurrentHP+amount)
	return e.CurrentHP - before
}

// Clone returns a deep copy, including statuses and the planned move.
func (e Entity) Clone() Entity {
	out := e
	out.Statuses = e.Statuses.Clone()
	if e.PlannedMove != nil {
		move := e.PlannedMove.Clone()
		out.PlannedMove = &move
	}
	return out
}
