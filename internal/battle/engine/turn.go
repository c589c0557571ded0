package engine

import (
	"fmt"

	"github.com/magefree/battle-engine-go/internal/battle/rules"
	"github.com/magefree/battle-engine-go/internal/battle/status"
	"go.uber.org/zap"
)

func (e *Engine) startNewTurn() {
	e.state.Turn++
	e.state.IsPlayerTurn = true
	e.stats.Turns = e.state.Turn

	e.foresightUsedThisTurn = false
	e.foresightCountThisTurn = 0
	e.cardsPlayedThisTurn = 0
	e.foresightPenalty, e.foresightPenaltyNextTurn = e.foresightPenaltyNextTurn, 0
	e.firstCardCostIncrease, e.firstCardCostIncreaseNextTurn = e.firstCardCostIncreaseNextTurn, 0

	e.emit(rules.TurnStartedEvent(e.state.Turn))
	e.state.Energy = e.state.MaxEnergy
	e.emit(rules.EnergyResetEvent(e.state.Energy))

	if e.state.Turn == 1 {
		e.fire(rules.BattleStart())
	}
	e.fire(rules.TurnStart(e.state.Turn))
	if e.state.IsOver {
		return
	}

	if cleared := e.state.Player.ClearBlock(); cleared > 0 {
		e.emit(rules.BlockClearedEvent(e.state.Player.Name, cleared))
	}

	e.checkMadness()
	e.drawCards(e.cardsPerTurn)
	e.applyScheduledDiscards()
	e.planEnemyMoves()
}

// planEnemyMoves commits every living enemy's move for the coming enemy turn.
func (e *Engine) planEnemyMoves() {
	snapshot := e.state.Snapshot()
	for i := range e.state.Enemies {
		enemy := &e.state.Enemies[i]
		enemy.PlannedMove = nil
		if !enemy.IsAlive() {
			continue
		}
		def, ok := e.lib.Enemies.Get(enemy.EnemyID)
		if !ok || def.ChooseMove == nil {
			continue
		}
		move := def.ChooseMove(i, snapshot, e.rng).Clone()
		enemy.PlannedMove = &move
		e.emit(rules.EnemyIntentEvent(enemy.ID, move.Intent.Text, move.Intent.PreviewDamage))
	}
}

func (e *Engine) playCard(handIndex, target int) bool {
	if handIndex < 0 || handIndex >= len(e.state.Hand) {
		e.reject(fmt.Sprintf("invalid hand index %d", handIndex))
		return false
	}
	card := e.state.Hand[handIndex]
	def, ok := e.lib.Cards.Get(card.CardID)
	if !ok {
		e.reject(fmt.Sprintf("unknown card %q", card.CardID))
		return false
	}

	resolved := rules.NoTarget
	if def.Targeting == rules.TargetingSingleEnemy {
		living := e.state.LivingEnemyIndices()
		switch {
		case target != rules.NoTarget:
			if target < 0 || target >= len(e.state.Enemies) || !e.state.Enemies[target].IsAlive() {
				e.reject(fmt.Sprintf("invalid target %d", target))
				return false
			}
			resolved = target
		case len(living) == 1:
			resolved = living[0]
		case len(living) == 0:
			e.reject("no living enemy to target")
			return false
		default:
			e.reject(fmt.Sprintf("%s needs a target", def.Name))
			return false
		}
	}

	cost := e.effectiveCost(def)
	if cost > e.state.Energy {
		e.emit(rules.NotEnoughEnergyEvent(cost, e.state.Energy))
		return false
	}

	e.state.Energy -= cost
	if e.cardsPlayedThisTurn == 0 {
		e.firstCardCostIncrease = 0
	}
	e.cardsPlayedThisTurn++
	e.state.Hand = append(e.state.Hand[:handIndex], e.state.Hand[handIndex+1:]...)
	e.emit(rules.PlayedEvent(card.ID, card.CardID, cost))
	e.stats.recordPlay(def.Type)
	if e.logger != nil {
		e.logger.Debug("card played",
			zap.String("card_id", card.CardID),
			zap.Int("cost", cost),
			zap.Int("target", resolved),
		)
	}

	e.fire(rules.CardPlayed(card.CardID))
	if def.Play != nil && !e.state.IsOver {
		for _, effect := range def.Play(e.state.Snapshot(), resolved) {
			if e.state.IsOver {
				break
			}
			e.apply(effect)
		}
	}
	e.state.DiscardPile = append(e.state.DiscardPile, card)
	e.checkBattleEnd()
	return true
}

func (e *Engine) endTurn() {
	e.discardHand()
	e.processTurnEnd(rules.Player())
	e.reduceMadness()
	if e.state.IsOver {
		return
	}

	e.fire(rules.TurnEnd(e.state.Turn))
	if e.state.IsOver {
		return
	}
	e.emit(rules.TurnEndedEvent(e.state.Turn))
	e.state.IsPlayerTurn = false

	e.enemyTurn()
	if e.state.IsOver {
		return
	}
	for i := range e.state.Enemies {
		enemy := &e.state.Enemies[i]
		if cleared := enemy.ClearBlock(); cleared > 0 {
			e.emit(rules.BlockClearedEvent(enemy.Name, cleared))
		}
	}
	e.startNewTurn()
}

// enemyTurn runs every living enemy's planned move in slot order and stops as
// soon as the battle ends.
func (e *Engine) enemyTurn() {
	for i := range e.state.Enemies {
		enemy := &e.state.Enemies[i]
		if !enemy.IsAlive() {
			continue
		}
		move := enemy.PlannedMove
		enemy.PlannedMove = nil
		if move == nil {
			e.reject(fmt.Sprintf("%s has no planned move", enemy.Name))
		} else {
			e.emit(rules.EnemyActionEvent(enemy.ID, move.Intent.Text))
			for _, effect := range move.Effects {
				if e.state.IsOver {
					break
				}
				e.apply(effect)
			}
		}
		if !e.state.IsOver {
			e.processTurnEnd(rules.Enemy(i))
		}
		e.checkBattleEnd()
		if e.state.IsOver {
			return
		}
	}
}

// processTurnEnd fires the owner's status turn-end effects, then decays
// statuses with a turn-end decay rule.
func (e *Engine) processTurnEnd(owner rules.Target) {
	ent := e.state.Entity(owner)
	if ent == nil || !ent.IsAlive() {
		return
	}
	for _, st := range ent.Statuses.All() {
		def, ok := e.lib.Statuses.Get(st.ID)
		if !ok || def.OnTurnEnd == nil {
			continue
		}
		for _, effect := range def.OnTurnEnd(owner, st.Stacks, e.state.Snapshot()) {
			if e.state.IsOver {
				return
			}
			e.apply(effect)
		}
	}
	if e.state.IsOver {
		return
	}

	for _, st := range ent.Statuses.All() {
		def, ok := e.lib.Statuses.Get(st.ID)
		if !ok || def.Decay.Kind != status.DecayTurnEnd {
			continue
		}
		ent.Statuses.Apply(st.ID, -def.Decay.Amount)
		if !ent.Statuses.Has(st.ID) {
			e.emit(rules.StatusExpiredEvent(ent.Name, def.Name, st.ID))
		}
	}
}

// checkBattleEnd marks the battle over once every enemy or the player is
// dead. Death events are emitted where the damage happens, not here.
func (e *Engine) checkBattleEnd() {
	if e.state.IsOver {
		return
	}
	switch {
	case e.state.AllEnemiesDead():
		e.finish(true)
	case !e.state.Player.IsAlive():
		e.finish(false)
	}
}

func (e *Engine) finish(won bool) {
	e.state.IsOver = true
	e.state.PlayerWon = won
	e.state.IsPlayerTurn = false
	e.returnPendingCards()
	if won {
		e.emit(rules.BattleWonEvent())
	} else {
		e.emit(rules.BattleLostEvent())
	}
	if e.logger != nil {
		e.logger.Info("battle finished",
			zap.Bool("won", won),
			zap.Int("turn", e.state.Turn),
			zap.Int("player_hp", e.state.Player.CurrentHP),
		)
	}
	e.fire(rules.BattleEnd(won))
}
