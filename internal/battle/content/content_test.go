package content_test

import (
	"testing"

	"github.com/magefree/battle-engine-go/internal/battle/content"
	"github.com/magefree/battle-engine-go/internal/battle/rng"
	"github.com/magefree/battle-engine-go/internal/battle/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotWith(turn int, enemies ...rules.Entity) rules.Snapshot {
	return rules.Snapshot{Turn: turn, Player: rules.NewPlayer(), Enemies: enemies, Energy: 3}
}

func TestLibraryRegistersEverything(t *testing.T) {
	lib := content.NewLibrary()

	for _, id := range []string{"strike", "defend", "bash", "spirit_sight", "truth_whisper", "meditation",
		"sanity_burn", "fate_rewrite", "fate_rewrite+", "time_shard", "fate_echo", "sequence_resonance"} {
		_, ok := lib.Cards.Get(id)
		assert.True(t, ok, "card %s", id)
	}
	for _, id := range []string{"strength", "dexterity", "vulnerable", "weak", "frail", "poison", "madness", "sequence_resonance"} {
		_, ok := lib.Statuses.Get(id)
		assert.True(t, ok, "status %s", id)
	}
	assert.Equal(t, 8, lib.Enemies.Len())
	assert.Equal(t, 9, lib.Relics.Len())
}

func TestUpgradedIDsResolve(t *testing.T) {
	lib := content.NewLibrary()
	for _, id := range lib.Cards.IDs() {
		def, _ := lib.Cards.Get(id)
		if def.UpgradedID == "" {
			continue
		}
		_, ok := lib.Cards.Get(def.UpgradedID)
		assert.True(t, ok, "%s upgrades to missing %s", id, def.UpgradedID)
	}
}

func TestStrikeTargetsChosenEnemy(t *testing.T) {
	lib := content.NewLibrary()
	def, err := lib.Cards.Require(content.CardStrike)
	require.NoError(t, err)

	assert.Equal(t, rules.TargetingSingleEnemy, def.Targeting)
	assert.Equal(t, []rules.Effect{rules.DealDamage(rules.Player(), rules.Enemy(1), 6)}, def.Play(rules.Snapshot{}, 1))
	assert.Equal(t, []rules.Effect{rules.DealDamage(rules.Player(), rules.Enemy(0), 6)}, def.Play(rules.Snapshot{}, rules.NoTarget))
}

func TestFateRewritePlusRewritesLivingEnemies(t *testing.T) {
	lib := content.NewLibrary()
	def, err := lib.Cards.Require("fate_rewrite+")
	require.NoError(t, err)

	a := rules.NewEntity("e0", "A", 10)
	b := rules.NewEntity("e1", "B", 10)
	b.CurrentHP = 0
	c := rules.NewEntity("e2", "C", 10)

	effects := def.Play(snapshotWith(1, a, b, c), rules.NoTarget)
	assert.Equal(t, []rules.Effect{
		rules.RewriteIntent(0, rules.DefendIntent(10)),
		rules.RewriteIntent(2, rules.DefendIntent(10)),
		rules.ApplyStatus(rules.Player(), content.StatusMadness, 2),
	}, effects)
}

func TestPoisonTurnEndDealsStacks(t *testing.T) {
	lib := content.NewLibrary()
	def, err := lib.Statuses.Require(content.StatusPoison)
	require.NoError(t, err)

	effects := def.OnTurnEnd(rules.Player(), 4, rules.Snapshot{})
	assert.Equal(t, []rules.Effect{rules.DealDamage(rules.Player(), rules.Player(), 4)}, effects)
	assert.Empty(t, def.OnTurnEnd(rules.Player(), 0, rules.Snapshot{}))
}

func TestRelicTriggers(t *testing.T) {
	lib := content.NewLibrary()

	burning, err := lib.Relics.Require(content.RelicBurningBlood)
	require.NoError(t, err)
	assert.Equal(t, []rules.Effect{rules.Heal(rules.Player(), 6)}, burning.OnTrigger(rules.BattleEnd(true), rules.Snapshot{}))
	assert.Empty(t, burning.OnTrigger(rules.BattleEnd(false), rules.Snapshot{}))

	abyssal, err := lib.Relics.Require(content.RelicAbyssalEye)
	require.NoError(t, err)
	assert.Equal(t, []rules.Effect{
		rules.Foresight(3),
		rules.ApplyStatus(rules.Player(), content.StatusMadness, 1),
	}, abyssal.OnTrigger(rules.BattleStart(), rules.Snapshot{}))
	assert.Empty(t, abyssal.OnTrigger(rules.TurnStart(2), rules.Snapshot{}))

	watch, err := lib.Relics.Require(content.RelicBrokenWatch)
	require.NoError(t, err)
	assert.Nil(t, watch.OnTrigger, "broken watch is checked by the engine directly")
}

func TestCipherPhases(t *testing.T) {
	lib := content.NewLibrary()
	def, err := lib.Enemies.Require(content.EnemyCipher)
	require.NoError(t, err)

	cipher := rules.NewEnemyEntity("cipher", "Cipher", 100, content.EnemyCipher)

	// Phase 1: HP above 60%.
	move := def.ChooseMove(0, snapshotWith(3, cipher), rng.New(1))
	assert.Contains(t, move.Intent.Text, content.CipherForesightCounter)
	assert.Contains(t, move.Effects, rules.ForesightPenaltyNextTurn(1))

	// Phase 2: HP at 50%.
	cipher.CurrentHP = 50
	move = def.ChooseMove(0, snapshotWith(2, cipher), rng.New(2))
	assert.Contains(t, move.Intent.Text, content.CipherFateDeprivation)
	assert.Contains(t, move.Effects, rules.DiscardRandomHand(2))
	assert.Contains(t, move.Effects, rules.ApplyStatus(rules.Player(), content.StatusMadness, 2))

	// Phase 3: HP at 30%.
	cipher.CurrentHP = 30
	r := rng.New(3)
	move = def.ChooseMove(0, snapshotWith(2, cipher), r)
	assert.Contains(t, move.Intent.Text, content.CipherFateRewrite)
	assert.Contains(t, move.Effects, rules.FirstCardCostIncreaseNextTurn(1))

	move = def.ChooseMove(0, snapshotWith(3, cipher), r)
	assert.Contains(t, move.Intent.Text, content.CipherTimeRewind)
	assert.Contains(t, move.Effects, rules.EnemyHeal(0, 15))
}

func TestChooseMoveIsPure(t *testing.T) {
	lib := content.NewLibrary()
	for _, id := range lib.Enemies.IDs() {
		def, _ := lib.Enemies.Get(id)
		enemy := rules.NewEnemyEntity("e0", def.Name, def.HPMax, id)
		for turn := 1; turn <= 6; turn++ {
			a := def.ChooseMove(0, snapshotWith(turn, enemy), rng.New(77))
			b := def.ChooseMove(0, snapshotWith(turn, enemy), rng.New(77))
			assert.Equal(t, a, b, "%s turn %d", id, turn)
		}
	}
}

func TestCultistOpensWithBuff(t *testing.T) {
	lib := content.NewLibrary()
	def, err := lib.Enemies.Require(content.EnemyCultist)
	require.NoError(t, err)

	enemy := rules.NewEnemyEntity("e0", "Cultist", 50, content.EnemyCultist)
	first := def.ChooseMove(0, snapshotWith(1, enemy), rng.New(1))
	assert.Equal(t, []rules.Effect{rules.ApplyStatus(rules.Enemy(0), content.StatusStrength, 3)}, first.Effects)

	second := def.ChooseMove(0, snapshotWith(2, enemy), rng.New(1))
	assert.Equal(t, 6, second.Intent.PreviewDamage)
}

func TestSpawnEnemyRollsWithinRange(t *testing.T) {
	lib := content.NewLibrary()
	r := rng.New(5)
	for slot := 0; slot < 20; slot++ {
		e, err := content.SpawnEnemy(lib, content.EnemyLouse, slot, r)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, e.MaxHP, 10)
		assert.LessOrEqual(t, e.MaxHP, 15)
		assert.Equal(t, e.MaxHP, e.CurrentHP)
		assert.Equal(t, content.EnemyLouse, e.EnemyID)
	}

	_, err := content.SpawnEnemy(lib, "nope", 0, r)
	assert.ErrorIs(t, err, rules.ErrUnknownID)
}

func TestDecks(t *testing.T) {
	deck := content.StarterDeck()
	assert.Len(t, deck, 10)
	assert.Equal(t, rules.Card{ID: "strike_1", CardID: "strike"}, deck[0])
	assert.Equal(t, rules.Card{ID: "bash_1", CardID: "bash"}, deck[9])

	custom := content.Deck("strike", "defend", "strike")
	assert.Equal(t, []rules.Card{
		{ID: "strike_1", CardID: "strike"},
		{ID: "defend_1", CardID: "defend"},
		{ID: "strike_2", CardID: "strike"},
	}, custom)
}
