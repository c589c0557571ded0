package engine

import (
	"fmt"

	"github.com/magefree/battle-engine-go/internal/battle/calc"
	"github.com/magefree/battle-engine-go/internal/battle/rules"
	"github.com/magefree/battle-engine-go/internal/battle/status"
	"go.uber.org/zap"
)

// madnessMaskThreshold is the madness needed for the mask's damage bonus.
const madnessMaskThreshold = 6

// amplifyPriority places engine multipliers after every status multiplier.
const amplifyPriority = 200

// apply is the single interpreter for effects. Every effect runs to
// completion, events included, before the caller moves to the next one.
func (e *Engine) apply(effect rules.Effect) {
	switch effect.Kind {
	case rules.EffectDealDamage:
		e.dealDamage(effect.Source, effect.Target, effect.Amount)
	case rules.EffectDealDamagePerForesight:
		e.dealDamage(effect.Source, effect.Target, effect.Amount*e.foresightCountThisTurn)
	case rules.EffectGainBlock:
		e.gainBlock(effect.Target, effect.Amount)
	case rules.EffectDrawCards:
		e.drawCards(effect.Amount)
	case rules.EffectGainEnergy:
		e.gainEnergy(effect.Amount)
	case rules.EffectApplyStatus:
		e.applyStatus(effect.Target, effect.StatusID, effect.Amount)
	case rules.EffectHeal:
		e.heal(effect.Target, effect.Amount)
	case rules.EffectEnemyHeal:
		e.heal(rules.Enemy(effect.EnemyIndex), effect.Amount)
	case rules.EffectForesight:
		e.foresight(effect.Amount)
	case rules.EffectRewind:
		e.rewind(effect.Amount)
	case rules.EffectClearMadness:
		e.clearMadness(effect.Amount)
	case rules.EffectRewriteIntent:
		e.rewriteIntent(effect.EnemyIndex, effect.Intent)
	case rules.EffectForesightPenaltyNextTurn:
		if effect.Amount > 0 {
			e.foresightPenaltyNextTurn += effect.Amount
		}
	case rules.EffectFirstCardCostIncreaseNextTurn:
		if effect.Amount > 0 {
			e.firstCardCostIncreaseNextTurn += effect.Amount
		}
	case rules.EffectDiscardRandomHand:
		e.discardRandom(effect.Amount)
	default:
		e.reject(fmt.Sprintf("unsupported effect %s", effect.Kind))
	}
}

func (e *Engine) dealDamage(source, target rules.Target, base int) {
	defender := e.state.Entity(target)
	if defender == nil {
		e.reject(fmt.Sprintf("invalid damage target %s", target))
		return
	}
	if !defender.IsAlive() {
		return
	}

	var amount int
	if source == target {
		// Damage over time from the owner's own statuses ignores modifiers.
		amount = max(0, base)
	} else {
		amount = calc.Damage(base, e.state.Entity(source), defender, e.lib.Statuses, e.damageExtras(source, target)...)
	}

	dealt, blocked := defender.TakeDamage(amount)
	switch {
	case target.IsPlayer():
		e.stats.DamageTaken += dealt
	case source.IsPlayer():
		e.stats.DamageDealt += dealt
	}

	// A killing hit logs the death ahead of the damage that caused it.
	if !defender.IsAlive() {
		e.emit(rules.EntityDiedEvent(defender.ID, defender.Name))
		if !target.IsPlayer() {
			e.stats.EnemiesKilled++
			e.fire(rules.EnemyKilled())
		}
	}
	e.emit(rules.DamageDealtEvent(e.entityName(source), defender.Name, dealt, blocked))
	if dealt > 0 {
		if source.IsPlayer() && !target.IsPlayer() {
			e.fire(rules.DamageDealt(dealt))
		}
		if target.IsPlayer() {
			e.fire(rules.DamageTaken(dealt))
		}
	}
	e.checkBattleEnd()
}

// damageExtras returns the relic and madness multipliers that apply to a hit.
func (e *Engine) damageExtras(source, target rules.Target) []calc.Extra {
	var extras []calc.Extra
	if source.IsPlayer() && e.relics.Has(rules.RelicMadnessMask) &&
		e.state.Player.Statuses.Stacks(rules.StatusMadness) >= madnessMaskThreshold {
		extras = append(extras, amplify(calc.Outgoing))
	}
	if target.IsPlayer() && e.madnessTier() >= 3 {
		extras = append(extras, amplify(calc.Incoming))
	}
	return extras
}

func amplify(side calc.Side) calc.Extra {
	return calc.Extra{
		Side:     side,
		Phase:    status.PhaseMultiply,
		Priority: amplifyPriority,
		Modify:   func(v int) int { return status.Scale(v, 3, 2) },
	}
}

func (e *Engine) gainBlock(target rules.Target, base int) {
	ent := e.state.Entity(target)
	if ent == nil {
		e.reject(fmt.Sprintf("invalid block target %s", target))
		return
	}
	if !ent.IsAlive() {
		return
	}
	amount := calc.Block(base, ent, e.lib.Statuses)
	if amount <= 0 {
		return
	}
	ent.GainBlock(amount)
	e.emit(rules.BlockGainedEvent(ent.Name, amount))
	if target.IsPlayer() {
		e.stats.BlockGained += amount
		e.fire(rules.BlockGained(amount))
	}
}

func (e *Engine) gainEnergy(amount int) {
	if amount == 0 {
		return
	}
	e.state.Energy = max(0, e.state.Energy+amount)
	e.emit(rules.EnergyGainedEvent(amount, e.state.Energy))
}

func (e *Engine) applyStatus(target rules.Target, statusID string, stacks int) {
	ent := e.state.Entity(target)
	if ent == nil {
		e.reject(fmt.Sprintf("invalid status target %s", target))
		return
	}
	if target.IsPlayer() && statusID == rules.StatusMadness && stacks > 0 && e.skipNextMadness {
		e.skipNextMadness = false
		e.emit(rules.StatusAppliedEvent(ent.Name, e.relicName(rules.RelicProphetNotes), statusID, 0))
		return
	}
	def, ok := e.lib.Statuses.Get(statusID)
	if !ok {
		e.reject(fmt.Sprintf("unknown status %q", statusID))
		return
	}
	if stacks == 0 || !ent.IsAlive() {
		return
	}
	ent.Statuses.Apply(statusID, stacks)
	e.emit(rules.StatusAppliedEvent(ent.Name, def.Name, statusID, stacks))
}

func (e *Engine) relicName(id string) string {
	if def, ok := e.lib.Relics.Get(id); ok {
		return def.Name
	}
	return id
}

func (e *Engine) heal(target rules.Target, amount int) {
	ent := e.state.Entity(target)
	if ent == nil {
		e.reject(fmt.Sprintf("invalid heal target %s", target))
		return
	}
	if healed := ent.Heal(amount); healed > 0 {
		e.emit(rules.HealedEvent(ent.Name, healed))
	}
}

func (e *Engine) rewind(count int) {
	for i := 0; i < count && len(e.state.DiscardPile) > 0; i++ {
		last := len(e.state.DiscardPile) - 1
		card := e.state.DiscardPile[last]
		e.state.DiscardPile = e.state.DiscardPile[:last]
		e.state.Hand = append(e.state.Hand, card)
		e.emit(rules.RewindCardEvent(card.CardID))
	}
}

func (e *Engine) clearMadness(amount int) {
	current := e.state.Player.Statuses.Stacks(rules.StatusMadness)
	if current <= 0 {
		return
	}
	removed := current
	if amount > 0 {
		removed = min(amount, current)
	}
	e.state.Player.Statuses.Apply(rules.StatusMadness, -removed)
	e.emit(rules.MadnessClearedEvent(removed))
}

// Planned move texts installed by an intent rewrite.
const (
	RewrittenDefendText = "Defend (rewritten)"
	RewrittenSkipText   = "Skip (rewritten)"
)

func (e *Engine) rewriteIntent(enemyIndex int, intent rules.RewrittenIntent) {
	if enemyIndex < 0 || enemyIndex >= len(e.state.Enemies) || !e.state.Enemies[enemyIndex].IsAlive() {
		e.reject(fmt.Sprintf("invalid rewrite target %d", enemyIndex))
		return
	}
	enemy := &e.state.Enemies[enemyIndex]
	if enemy.PlannedMove == nil {
		e.reject(fmt.Sprintf("%s has no planned move", enemy.Name))
		return
	}

	var move rules.EnemyMove
	switch intent.Kind {
	case rules.RewriteDefend:
		move = rules.EnemyMove{
			Intent:  rules.Intent{Icon: "🛡️", Text: RewrittenDefendText},
			Effects: []rules.Effect{rules.GainBlock(rules.Enemy(enemyIndex), intent.Block)},
		}
	default:
		move = rules.EnemyMove{Intent: rules.Intent{Icon: "💤", Text: RewrittenSkipText}}
	}

	old := enemy.PlannedMove.Intent.Text
	enemy.PlannedMove = &move
	e.emit(rules.IntentRewrittenEvent(enemy.Name, old, move.Intent.Text))

	e.intentRewrites++
	if e.intentRewrites == 1 && e.relics.Has(rules.RelicProphetNotes) {
		e.skipNextMadness = true
	}
	if e.logger != nil {
		e.logger.Debug("intent rewritten",
			zap.String("enemy", enemy.ID),
			zap.String("old", old),
			zap.String("new", move.Intent.Text),
		)
	}
}
