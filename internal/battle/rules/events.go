package rules

import (
	"strconv"
	"strings"
	"sync"
)

// EventType indicates the category of a battle event.
type EventType string

const (
	// Battle/turn boundaries
	EventBattleStarted EventType = "BATTLE_STARTED"
	EventTurnStarted   EventType = "TURN_STARTED"
	EventTurnEnded     EventType = "TURN_ENDED"
	EventEnergyReset   EventType = "ENERGY_RESET"
	EventEnergyGained  EventType = "ENERGY_GAINED"
	EventBlockCleared  EventType = "BLOCK_CLEARED"
	EventBattleWon     EventType = "BATTLE_WON"
	EventBattleLost    EventType = "BATTLE_LOST"

	// Cards
	EventDrew          EventType = "DREW"
	EventShuffled      EventType = "SHUFFLED"
	EventPlayed        EventType = "PLAYED"
	EventHandDiscarded EventType = "HAND_DISCARDED"

	// Combat
	EventDamageDealt EventType = "DAMAGE_DEALT"
	EventBlockGained EventType = "BLOCK_GAINED"
	EventHealed      EventType = "HEALED"
	EventEntityDied  EventType = "ENTITY_DIED"
	EventEnemyIntent EventType = "ENEMY_INTENT"
	EventEnemyAction EventType = "ENEMY_ACTION"

	// Statuses
	EventStatusApplied EventType = "STATUS_APPLIED"
	EventStatusExpired EventType = "STATUS_EXPIRED"

	// Rejections
	EventNotEnoughEnergy EventType = "NOT_ENOUGH_ENERGY"
	EventInvalidAction   EventType = "INVALID_ACTION"

	// Madness and foresight
	EventMadnessReduced   EventType = "MADNESS_REDUCED"
	EventMadnessThreshold EventType = "MADNESS_THRESHOLD"
	EventMadnessDiscard   EventType = "MADNESS_DISCARD"
	EventMadnessCleared   EventType = "MADNESS_CLEARED"
	EventForesightChosen  EventType = "FORESIGHT_CHOSEN"
	EventRewindCard       EventType = "REWIND_CARD"
	EventIntentRewritten  EventType = "INTENT_REWRITTEN"
)

// Event is an immutable record of something that already happened.
// Only the fields relevant to Type are populated; the struct stays comparable
// so logs can be compared value by value.
type Event struct {
	Type EventType `json:"type"`

	Turn      int `json:"turn,omitempty"`
	Amount    int `json:"amount,omitempty"`
	Blocked   int `json:"blocked,omitempty"`
	Cost      int `json:"cost,omitempty"`
	Count     int `json:"count,omitempty"`
	Stacks    int `json:"stacks,omitempty"`
	Level     int `json:"level,omitempty"`
	From      int `json:"from,omitempty"`
	To        int `json:"to,omitempty"`
	Required  int `json:"required,omitempty"`
	Available int `json:"available,omitempty"`

	Source         string `json:"source,omitempty"`
	Target         string `json:"target,omitempty"`
	CardID         string `json:"card_id,omitempty"`
	CardInstanceID string `json:"card_instance_id,omitempty"`
	EntityID       string `json:"entity_id,omitempty"`
	Name           string `json:"name,omitempty"`
	Action         string `json:"action,omitempty"`
	StatusID       string `json:"status_id,omitempty"`
	Reason         string `json:"reason,omitempty"`
	OldIntent      string `json:"old_intent,omitempty"`
	NewIntent      string `json:"new_intent,omitempty"`
}

// String renders the event canonically: the type followed by every non-empty
// field in declaration order. Log digests are computed over this form.
func (e Event) String() string {
	var b strings.Builder
	b.WriteString(string(e.Type))
	writeInt := func(key string, v int) {
		if v != 0 {
			b.WriteByte(' ')
			b.WriteString(key)
			b.WriteByte('=')
			b.WriteString(strconv.Itoa(v))
		}
	}
	writeStr := func(key, v string) {
		if v != "" {
			b.WriteByte(' ')
			b.WriteString(key)
			b.WriteByte('=')
			b.WriteString(strconv.Quote(v))
		}
	}
	writeInt("turn", e.Turn)
	writeInt("amount", e.Amount)
	writeInt("blocked", e.Blocked)
	writeInt("cost", e.Cost)
	writeInt("count", e.Count)
	writeInt("stacks", e.Stacks)
	writeInt("level", e.Level)
	writeInt("from", e.From)
	writeInt("to", e.To)
	writeInt("required", e.Required)
	writeInt("available", e.Available)
	writeStr("source", e.Source)
	writeStr("target", e.Target)
	writeStr("card_id", e.CardID)
	writeStr("card_instance_id", e.CardInstanceID)
	writeStr("entity_id", e.EntityID)
	writeStr("name", e.Name)
	writeStr("action", e.Action)
	writeStr("status_id", e.StatusID)
	writeStr("reason", e.Reason)
	writeStr("old_intent", e.OldIntent)
	writeStr("new_intent", e.NewIntent)
	return b.String()
}

// Listener receives published events.
type Listener func(Event)

// EventBus fans events out to listeners synchronously, in subscription order.
type EventBus struct {
	mu         sync.RWMutex
	nextHandle int
	handles    []int
	listeners  map[int]Listener
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{listeners: make(map[int]Listener)}
}

// Subscribe registers a listener and returns a handle, or -1 for nil listeners.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	bus.handles = append(bus.handles, handle)
	return handle
}

// Unsubscribe removes the listener identified by handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for i, h := range bus.handles {
		if h == handle {
			bus.handles = append(bus.handles[:i], bus.handles[i+1:]...)
			break
		}
	}
}

// Publish delivers the event to every listener.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	for _, h := range bus.handles {
		bus.listeners[h](event)
	}
}

// Event constructors. Names mirror the event types.

func BattleStartedEvent() Event { return Event{Type: EventBattleStarted} }

func TurnStartedEvent(turn int) Event { return Event{Type: EventTurnStarted, Turn: turn} }

func TurnEndedEvent(turn int) Event { return Event{Type: EventTurnEnded, Turn: turn} }

func EnergyResetEvent(amount int) Event { return Event{Type: EventEnergyReset, Amount: amount} }

func EnergyGainedEvent(amount, current int) Event {
	return Event{Type: EventEnergyGained, Amount: amount, Available: current}
}

func BlockClearedEvent(target string, amount int) Event {
	return Event{Type: EventBlockCleared, Target: target, Amount: amount}
}

func BattleWonEvent() Event { return Event{Type: EventBattleWon} }

func BattleLostEvent() Event { return Event{Type: EventBattleLost} }

func DrewEvent(cardID string) Event { return Event{Type: EventDrew, CardID: cardID} }

func ShuffledEvent(count int) Event { return Event{Type: EventShuffled, Count: count} }

func PlayedEvent(instanceID, cardID string, cost int) Event {
	return Event{Type: EventPlayed, CardInstanceID: instanceID, CardID: cardID, Cost: cost}
}

func HandDiscardedEvent(count int) Event { return Event{Type: EventHandDiscarded, Count: count} }

func DamageDealtEvent(source, target string, amount, blocked int) Event {
	return Event{Type: EventDamageDealt, Source: source, Target: target, Amount: amount, Blocked: blocked}
}

func BlockGainedEvent(target string, amount int) Event {
	return Event{Type: EventBlockGained, Target: target, Amount: amount}
}

func HealedEvent(target string, amount int) Event {
	return Event{Type: EventHealed, Target: target, Amount: amount}
}

func EntityDiedEvent(entityID, name string) Event {
	return Event{Type: EventEntityDied, EntityID: entityID, Name: name}
}

func EnemyIntentEvent(enemyID, action string, damage int) Event {
	return Event{Type: EventEnemyIntent, EntityID: enemyID, Action: action, Amount: damage}
}

func EnemyActionEvent(enemyID, action string) Event {
	return Event{Type: EventEnemyAction, EntityID: enemyID, Action: action}
}

func StatusAppliedEvent(target, name, statusID string, stacks int) Event {
	return Event{Type: EventStatusApplied, Target: target, Name: name, StatusID: statusID, Stacks: stacks}
}

func StatusExpiredEvent(target, name, statusID string) Event {
	return Event{Type: EventStatusExpired, Target: target, Name: name, StatusID: statusID}
}

func NotEnoughEnergyEvent(required, available int) Event {
	return Event{Type: EventNotEnoughEnergy, Required: required, Available: available}
}

func InvalidActionEvent(reason string) Event {
	return Event{Type: EventInvalidAction, Reason: reason}
}

func MadnessReducedEvent(from, to int) Event {
	return Event{Type: EventMadnessReduced, From: from, To: to}
}

func MadnessThresholdEvent(level int, effect string) Event {
	return Event{Type: EventMadnessThreshold, Level: level, Name: effect}
}

func MadnessDiscardEvent(cardID string) Event {
	return Event{Type: EventMadnessDiscard, CardID: cardID}
}

func MadnessClearedEvent(amount int) Event {
	return Event{Type: EventMadnessCleared, Amount: amount}
}

func ForesightChosenEvent(cardID string, fromCount int) Event {
	return Event{Type: EventForesightChosen, CardID: cardID, Count: fromCount}
}

func RewindCardEvent(cardID string) Event { return Event{Type: EventRewindCard, CardID: cardID} }

func IntentRewrittenEvent(enemyName, oldIntent, newIntent string) Event {
	return Event{Type: EventIntentRewritten, Name: enemyName, OldIntent: oldIntent, NewIntent: newIntent}
}
