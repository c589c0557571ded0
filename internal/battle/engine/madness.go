package engine

import "github.com/magefree/battle-engine-go/internal/battle/rules"

// Base madness thresholds for tiers 1 to 3. The sanity anchor raises each by
// anchorBonus.
var madnessThresholds = [3]int{3, 6, 10}

const anchorBonus = 3

// Threshold effect descriptions carried by madnessThreshold events.
const (
	MadnessTier1Text = "discard a random card"
	MadnessTier2Text = "gain 1 Weak"
	MadnessTier3Text = "take 50% more damage"
)

// MadnessThresholds returns the tier thresholds for the equipped relics.
func (e *Engine) MadnessThresholds() [3]int {
	out := madnessThresholds
	if e.relics.Has(rules.RelicSanityAnchor) {
		for i := range out {
			out[i] += anchorBonus
		}
	}
	return out
}

// madnessTier is the number of thresholds the player's madness has reached.
func (e *Engine) madnessTier() int {
	stacks := e.state.Player.Statuses.Stacks(rules.StatusMadness)
	tier := 0
	for _, threshold := range e.MadnessThresholds() {
		if stacks >= threshold {
			tier++
		}
	}
	return tier
}

// checkMadness runs at turn start before the draw. Tier 3 has no immediate
// effect; it amplifies incoming damage through damageExtras.
func (e *Engine) checkMadness() {
	tier := e.madnessTier()
	if tier >= 1 {
		e.emit(rules.MadnessThresholdEvent(1, MadnessTier1Text))
		if len(e.state.Hand) > 0 {
			card := e.discardRandomCard()
			e.emit(rules.MadnessDiscardEvent(card.CardID))
		} else {
			e.madnessDiscards++
		}
	}
	if tier >= 2 {
		e.emit(rules.MadnessThresholdEvent(2, MadnessTier2Text))
		e.applyStatus(rules.Player(), rules.StatusWeak, 1)
	}
	if tier >= 3 {
		e.emit(rules.MadnessThresholdEvent(3, MadnessTier3Text))
	}
}

// reduceMadness lowers the player's madness by one at the end of their turn.
func (e *Engine) reduceMadness() {
	from := e.state.Player.Statuses.Stacks(rules.StatusMadness)
	if from <= 0 {
		return
	}
	e.state.Player.Statuses.Apply(rules.StatusMadness, -1)
	e.emit(rules.MadnessReducedEvent(from, from-1))
}
