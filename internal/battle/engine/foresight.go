package engine

import (
	"fmt"

	"github.com/magefree/battle-engine-go/internal/battle/rules"
)

// foresight reveals the top cards of the draw pile and moves one to hand.
// The first foresight of a turn reveals one extra card with the broken watch;
// an active penalty reveals fewer. Nothing is reshuffled to fill the reveal.
func (e *Engine) foresight(count int) {
	effective := count
	if !e.foresightUsedThisTurn && e.relics.Has(rules.RelicBrokenWatch) {
		effective++
	}
	effective = max(0, effective-e.foresightPenalty)
	e.foresightUsedThisTurn = true
	e.foresightCountThisTurn++

	revealed := min(effective, len(e.state.DrawPile))
	if revealed == 0 {
		return
	}
	options := make([]rules.Card, revealed)
	top := len(e.state.DrawPile) - 1
	for i := range options {
		options[i] = e.state.DrawPile[top-i]
	}
	e.state.DrawPile = e.state.DrawPile[:len(e.state.DrawPile)-revealed]

	if e.policy == ForesightChoice && e.pending == nil {
		e.pending = &rules.PendingInput{Kind: rules.PendingForesight, Options: options, FromCount: revealed}
		return
	}
	e.resolveForesight(options, e.autoPick(options), revealed)
}

// autoPick chooses the first attack, otherwise the first card.
func (e *Engine) autoPick(options []rules.Card) int {
	for i, card := range options {
		if def, ok := e.lib.Cards.Get(card.CardID); ok && def.Type == rules.CardAttack {
			return i
		}
	}
	return 0
}

// resolveForesight moves options[chosen] to hand and puts the rest back on
// top of the draw pile in their revealed order.
func (e *Engine) resolveForesight(options []rules.Card, chosen, fromCount int) {
	card := options[chosen]
	e.state.Hand = append(e.state.Hand, card)
	for i := len(options) - 1; i >= 0; i-- {
		if i != chosen {
			e.state.DrawPile = append(e.state.DrawPile, options[i])
		}
	}
	e.emit(rules.ForesightChosenEvent(card.CardID, fromCount))

	if stacks := e.state.Player.Statuses.Stacks(rules.StatusSequenceResonance); stacks > 0 && e.state.Player.IsAlive() {
		e.state.Player.GainBlock(stacks)
		e.stats.BlockGained += stacks
		e.emit(rules.BlockGainedEvent(e.state.Player.Name, stacks))
		e.fire(rules.BlockGained(stacks))
	}
}

// SubmitForesightChoice resolves the pending foresight prompt by option
// index. It returns false, with an invalidAction event, when nothing is
// pending or the index is out of range.
func (e *Engine) SubmitForesightChoice(index int) bool {
	if e.pending == nil || e.pending.Kind != rules.PendingForesight {
		e.reject("no foresight choice is pending")
		return false
	}
	if index < 0 || index >= len(e.pending.Options) {
		e.reject(fmt.Sprintf("invalid foresight option %d", index))
		return false
	}
	pending := e.pending
	e.pending = nil
	e.resolveForesight(pending.Options, index, pending.FromCount)
	return true
}

// returnPendingCards puts the cards of an abandoned prompt back on the draw
// pile so the card multiset stays intact.
func (e *Engine) returnPendingCards() {
	if e.pending == nil {
		return
	}
	for i := len(e.pending.Options) - 1; i >= 0; i-- {
		e.state.DrawPile = append(e.state.DrawPile, e.pending.Options[i])
	}
	e.pending = nil
}
