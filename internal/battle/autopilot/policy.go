// Package autopilot drives battles without a human: a greedy card policy,
// a runner that plays a battle to the end and a seed search over setups.
package autopilot

import (
	"github.com/magefree/battle-engine-go/internal/battle/engine"
	"github.com/magefree/battle-engine-go/internal/battle/rules"
)

// Scoring weights for the greedy policy.
const (
	weightDamage  = 10
	weightBlock   = 8
	weightLethal  = 1000
	weightUtility = 3
)

// Choose returns the next action for the battle. It only reads the engine.
//
// A pending foresight prompt takes the first attack option. Otherwise every
// playable card is previewed against the current snapshot and the best one
// is played; block only scores while the planned enemy damage exceeds the
// player's block. With nothing worth playing the turn ends.
func Choose(e *engine.Engine, lib *rules.Library) rules.Action {
	if pending, ok := e.PendingInput(); ok {
		return rules.ChooseForesight(pickForesight(pending, lib))
	}

	state := e.State()
	target := weakestEnemy(state)
	snapshot := state.Snapshot()
	need := incomingDamage(state) - state.Player.Block

	best, bestScore := -1, 0
	for _, i := range e.PlayableCardIndices() {
		def, ok := lib.Cards.Get(state.Hand[i].CardID)
		if !ok || def.Play == nil {
			continue
		}
		t := rules.NoTarget
		if def.Targeting == rules.TargetingSingleEnemy {
			t = target
		}
		score := scoreEffects(def.Play(snapshot, t), snapshot, need)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return rules.EndTurn()
	}

	def, _ := lib.Cards.Get(state.Hand[best].CardID)
	if def.Targeting == rules.TargetingSingleEnemy {
		return rules.PlayCard(best, target)
	}
	return rules.PlayCard(best, rules.NoTarget)
}

func pickForesight(pending rules.PendingInput, lib *rules.Library) int {
	for i, card := range pending.Options {
		if def, ok := lib.Cards.Get(card.CardID); ok && def.Type == rules.CardAttack {
			return i
		}
	}
	return 0
}

// weakestEnemy is the living enemy with the least HP, lowest slot on ties.
func weakestEnemy(state rules.State) int {
	target := rules.NoTarget
	for _, i := range state.LivingEnemyIndices() {
		if target == rules.NoTarget || state.Enemies[i].CurrentHP < state.Enemies[target].CurrentHP {
			target = i
		}
	}
	return target
}

func incomingDamage(state rules.State) int {
	total := 0
	for i := range state.Enemies {
		enemy := state.Enemies[i]
		if enemy.IsAlive() && enemy.PlannedMove != nil {
			total += enemy.PlannedMove.Intent.PreviewDamage
		}
	}
	return total
}

// scoreEffects estimates the value of an effect list from base amounts. It
// ignores modifiers; the policy only needs a ranking.
func scoreEffects(effects []rules.Effect, snapshot rules.Snapshot, need int) int {
	score := 0
	damage := make(map[int]int)
	for _, effect := range effects {
		switch effect.Kind {
		case rules.EffectDealDamage:
			if effect.Target.IsPlayer() {
				score -= effect.Amount * weightDamage
				continue
			}
			damage[effect.Target.Index] += effect.Amount
			score += effect.Amount * weightDamage
		case rules.EffectGainBlock:
			if !effect.Target.IsPlayer() {
				continue
			}
			useful := min(effect.Amount, max(need, 0))
			need -= useful
			score += useful * weightBlock
		case rules.EffectDealDamagePerForesight, rules.EffectDrawCards, rules.EffectForesight,
			rules.EffectGainEnergy, rules.EffectRewind, rules.EffectRewriteIntent,
			rules.EffectHeal, rules.EffectClearMadness:
			score += weightUtility
		case rules.EffectApplyStatus:
			if !effect.Target.IsPlayer() || (effect.Amount > 0 && effect.StatusID != rules.StatusMadness) {
				score += weightUtility
			}
		}
	}
	for index, amount := range damage {
		if index >= 0 && index < len(snapshot.Enemies) {
			enemy := snapshot.Enemies[index]
			if enemy.IsAlive() && amount >= enemy.CurrentHP+enemy.Block {
				score += weightLethal
			}
		}
	}
	return score
}
