package server

import (
	"github.com/magefree/battle-engine-go/internal/battle/engine"
	"github.com/magefree/battle-engine-go/internal/battle/rules"
)

// StateView is the client-facing battle snapshot.
type StateView struct {
	Turn         int           `json:"turn"`
	IsPlayerTurn bool          `json:"is_player_turn"`
	Energy       int           `json:"energy"`
	MaxEnergy    int           `json:"max_energy"`
	Player       EntityView    `json:"player"`
	Enemies      []EntityView  `json:"enemies"`
	Hand         []rules.Card  `json:"hand"`
	Playable     []int         `json:"playable"`
	DrawPile     int           `json:"draw_pile"`
	DiscardPile  int           `json:"discard_pile"`
	Pending      []rules.Card  `json:"pending,omitempty"`
	Relics       []string      `json:"relics,omitempty"`
	IsOver       bool          `json:"is_over"`
	PlayerWon    bool          `json:"player_won"`
	Stats        *engine.Stats `json:"stats,omitempty"`
}

type EntityView struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	HP       int            `json:"hp"`
	MaxHP    int            `json:"max_hp"`
	Block    int            `json:"block"`
	Statuses map[string]int `json:"statuses,omitempty"`
	Intent   *rules.Intent  `json:"intent,omitempty"`
}

func entityView(ent rules.Entity) EntityView {
	v := EntityView{
		ID:    ent.ID,
		Name:  ent.Name,
		HP:    ent.CurrentHP,
		MaxHP: ent.MaxHP,
		Block: ent.Block,
	}
	if stacks := ent.Statuses.All(); len(stacks) > 0 {
		v.Statuses = make(map[string]int, len(stacks))
		for _, st := range stacks {
			v.Statuses[st.ID] = st.Stacks
		}
	}
	if ent.PlannedMove != nil {
		intent := ent.PlannedMove.Intent
		v.Intent = &intent
	}
	return v
}

func newStateView(e *engine.Engine) StateView {
	state := e.State()
	v := StateView{
		Turn:         state.Turn,
		IsPlayerTurn: state.IsPlayerTurn,
		Energy:       state.Energy,
		MaxEnergy:    state.MaxEnergy,
		Player:       entityView(state.Player),
		Enemies:      make([]EntityView, len(state.Enemies)),
		Hand:         state.Hand,
		Playable:     e.PlayableCardIndices(),
		DrawPile:     len(state.DrawPile),
		DiscardPile:  len(state.DiscardPile),
		Relics:       e.Relics(),
		IsOver:       state.IsOver,
		PlayerWon:    state.PlayerWon,
	}
	for i, enemy := range state.Enemies {
		v.Enemies[i] = entityView(enemy)
	}
	if pending, ok := e.PendingInput(); ok {
		v.Pending = pending.Options
	}
	if state.IsOver {
		stats := e.Stats()
		v.Stats = &stats
	}
	return v
}
