package engine

import (
	"github.com/magefree/battle-engine-go/internal/battle/rng"
	"github.com/magefree/battle-engine-go/internal/battle/rules"
)

// drawCards draws up to count cards, reshuffling the discard pile into the
// draw pile whenever it runs out. Drawing stops early when both are empty.
func (e *Engine) drawCards(count int) {
	for i := 0; i < count; i++ {
		if !e.drawOne() {
			return
		}
	}
}

func (e *Engine) drawOne() bool {
	if len(e.state.DrawPile) == 0 {
		if len(e.state.DiscardPile) == 0 {
			return false
		}
		e.reshuffle()
	}
	last := len(e.state.DrawPile) - 1
	card := e.state.DrawPile[last]
	e.state.DrawPile = e.state.DrawPile[:last]
	e.state.Hand = append(e.state.Hand, card)
	e.stats.CardsDrawn++
	e.emit(rules.DrewEvent(card.CardID))
	e.fire(rules.CardDrawn(card.CardID))
	return true
}

func (e *Engine) reshuffle() {
	count := len(e.state.DiscardPile)
	e.state.DrawPile = rng.Shuffle(e.rng, e.state.DiscardPile)
	e.state.DiscardPile = nil
	e.emit(rules.ShuffledEvent(count))
}

// discardRandom discards count random hand cards now when it is the player's
// turn and the hand has cards, otherwise after the next turn's draw.
func (e *Engine) discardRandom(count int) {
	if count <= 0 {
		return
	}
	if !e.state.IsPlayerTurn || len(e.state.Hand) == 0 {
		e.scheduledDiscards += count
		return
	}
	e.discardRandomCards(count)
}

// discardRandomCards discards up to count random hand cards and logs the
// number actually discarded.
func (e *Engine) discardRandomCards(count int) {
	discarded := 0
	for ; discarded < count && len(e.state.Hand) > 0; discarded++ {
		e.discardRandomCard()
	}
	if discarded > 0 {
		e.emit(rules.HandDiscardedEvent(discarded))
	}
}

// discardRandomCard moves a random hand card to the discard pile.
// The hand must not be empty.
func (e *Engine) discardRandomCard() rules.Card {
	idx := e.rng.NextInt(len(e.state.Hand))
	card := e.state.Hand[idx]
	e.state.Hand = append(e.state.Hand[:idx], e.state.Hand[idx+1:]...)
	e.state.DiscardPile = append(e.state.DiscardPile, card)
	return card
}

// applyScheduledDiscards runs the discards deferred to this turn's start.
// Madness discards go first.
func (e *Engine) applyScheduledDiscards() {
	for ; e.madnessDiscards > 0; e.madnessDiscards-- {
		if len(e.state.Hand) == 0 {
			continue
		}
		card := e.discardRandomCard()
		e.emit(rules.MadnessDiscardEvent(card.CardID))
	}
	e.discardRandomCards(e.scheduledDiscards)
	e.scheduledDiscards = 0
}

func (e *Engine) discardHand() {
	n := len(e.state.Hand)
	if n == 0 {
		return
	}
	e.state.DiscardPile = append(e.state.DiscardPile, e.state.Hand...)
	e.state.Hand = nil
	e.emit(rules.HandDiscardedEvent(n))
}
