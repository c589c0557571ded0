package engine_test

import (
	"testing"

	"github.com/magefree/battle-engine-go/internal/battle/content"
	"github.com/magefree/battle-engine-go/internal/battle/engine"
	"github.com/magefree/battle-engine-go/internal/battle/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func foresightChosen(events []rules.Event) []rules.Event {
	var out []rules.Event
	for _, ev := range events {
		if ev.Type == rules.EventForesightChosen {
			out = append(out, ev)
		}
	}
	return out
}

func TestThirdEyeSuspendsForChoice(t *testing.T) {
	e := startBattle(t, engine.Config{
		Enemies:         []rules.Entity{enemy(0, idleEnemy, "Dummy", 100)},
		Deck:            repeat(content.CardStrike, 10),
		Relics:          []string{content.RelicThirdEye},
		ForesightPolicy: engine.ForesightChoice,
	})

	pending, ok := e.PendingInput()
	require.True(t, ok)
	assert.Equal(t, rules.PendingForesight, pending.Kind)
	assert.Equal(t, 2, pending.FromCount)
	assert.Len(t, pending.Options, 2)
	assert.Len(t, e.State().Hand, 5)
	assert.Len(t, e.State().DrawPile, 3)
	assert.Equal(t, 10, cardCount(e))

	assert.False(t, e.HandleAction(rules.EndTurn()))
	assert.Equal(t, rules.InvalidActionEvent("a foresight choice is pending"), lastEvent(t, e))
	assert.False(t, e.HandleAction(rules.PlayCard(0, rules.NoTarget)))
	assert.False(t, e.SubmitForesightChoice(2))
	_, stillPending := e.PendingInput()
	assert.True(t, stillPending)

	e.ClearEvents()
	require.True(t, e.SubmitForesightChoice(1))
	assert.Equal(t, []rules.Event{rules.ForesightChosenEvent(content.CardStrike, 2)}, e.Events())

	_, stillPending = e.PendingInput()
	assert.False(t, stillPending)
	assert.Len(t, e.State().Hand, 6)
	assert.Len(t, e.State().DrawPile, 4)
	assert.Equal(t, pending.Options[0], e.State().DrawPile[3], "unchosen card goes back on top")
	assert.Equal(t, 10, cardCount(e))

	assert.True(t, e.HandleAction(rules.EndTurn()))
}

func TestSubmitWithoutPendingIsRejected(t *testing.T) {
	e := startBattle(t, engine.Config{
		Enemies: []rules.Entity{enemy(0, idleEnemy, "Dummy", 100)},
		Deck:    repeat(content.CardStrike, 10),
	})

	assert.False(t, e.SubmitForesightChoice(0))
	assert.Equal(t, rules.InvalidActionEvent("no foresight choice is pending"), lastEvent(t, e))
	assert.False(t, e.HandleAction(rules.ChooseForesight(0)))
	assert.False(t, e.Dispatch(rules.ChooseForesight(0)))
}

func TestDispatchRoutesForesightChoice(t *testing.T) {
	e := startBattle(t, engine.Config{
		Enemies:         []rules.Entity{enemy(0, idleEnemy, "Dummy", 100)},
		Deck:            repeat(content.CardStrike, 10),
		Relics:          []string{content.RelicThirdEye},
		ForesightPolicy: engine.ForesightChoice,
	})

	assert.False(t, e.HandleAction(rules.ChooseForesight(0)))
	require.True(t, e.Dispatch(rules.ChooseForesight(0)))
	_, pending := e.PendingInput()
	assert.False(t, pending)
	assert.True(t, e.Dispatch(rules.PlayCard(0, rules.NoTarget)))
}

func TestSecondForesightWhilePendingAutoResolves(t *testing.T) {
	e := startBattle(t, engine.Config{
		Enemies:         []rules.Entity{enemy(0, idleEnemy, "Dummy", 100)},
		Deck:            repeat(content.CardStrike, 12),
		Relics:          []string{content.RelicThirdEye, content.RelicAbyssalEye},
		ForesightPolicy: engine.ForesightChoice,
	})

	pending, ok := e.PendingInput()
	require.True(t, ok)
	assert.Equal(t, 2, pending.FromCount)
	assert.Equal(t, []rules.Event{rules.ForesightChosenEvent(content.CardStrike, 3)}, foresightChosen(e.Events()))
	assert.Equal(t, 1, e.State().Player.Statuses.Stacks(content.StatusMadness))
	assert.Equal(t, 12, cardCount(e))
}

func TestAutoPickPrefersAttack(t *testing.T) {
	e := startBattle(t, engine.Config{
		Enemies:      []rules.Entity{enemy(0, idleEnemy, "Dummy", 100)},
		Deck:         content.Deck(content.CardDefend, content.CardDefend, content.CardStrike),
		Relics:       []string{content.RelicAbyssalEye},
		CardsPerTurn: 1,
	})

	// Foresight 3 at battle start reveals the whole deck.
	assert.Equal(t, []rules.Event{rules.ForesightChosenEvent(content.CardStrike, 3)}, foresightChosen(e.Events()))
	state := e.State()
	require.Len(t, state.Hand, 2)
	assert.Equal(t, content.CardStrike, state.Hand[0].CardID)
	assert.Equal(t, content.CardDefend, state.Hand[1].CardID)
	assert.Len(t, state.DrawPile, 1)
}

func TestBrokenWatchBonusOncePerTurn(t *testing.T) {
	e := startBattle(t, engine.Config{
		Enemies: []rules.Entity{enemy(0, idleEnemy, "Dummy", 100)},
		Deck:    repeat(content.CardSpiritSight, 12),
		Relics:  []string{content.RelicBrokenWatch},
	})
	e.ClearEvents()

	require.True(t, e.HandleAction(rules.PlayCard(0, rules.NoTarget)))
	assert.Equal(t, []rules.Event{rules.ForesightChosenEvent(content.CardSpiritSight, 3)}, foresightChosen(e.Events()))
	e.ClearEvents()

	require.True(t, e.HandleAction(rules.PlayCard(0, rules.NoTarget)))
	assert.Equal(t, []rules.Event{rules.ForesightChosenEvent(content.CardSpiritSight, 2)}, foresightChosen(e.Events()))
	assert.Equal(t, 2, e.State().Player.Statuses.Stacks(content.StatusMadness))
}

func TestForesightPenaltyNextTurn(t *testing.T) {
	e := startBattle(t, engine.Config{
		Enemies:         []rules.Entity{enemy(0, hexEnemy, "Hexer", 100)},
		Deck:            repeat(content.CardSpiritSight, 15),
		ForesightPolicy: engine.ForesightChoice,
	})
	require.True(t, e.HandleAction(rules.EndTurn()))
	require.Equal(t, 2, e.State().Turn)

	require.True(t, e.HandleAction(rules.PlayCard(0, rules.NoTarget)))
	pending, ok := e.PendingInput()
	require.True(t, ok)
	assert.Equal(t, 1, pending.FromCount)

	e.ClearEvents()
	require.True(t, e.SubmitForesightChoice(0))
	assert.Equal(t, []rules.Event{rules.ForesightChosenEvent(content.CardSpiritSight, 1)}, e.Events())
}

func TestFirstCardCostIncrease(t *testing.T) {
	e := startBattle(t, engine.Config{
		Enemies: []rules.Entity{enemy(0, taxEnemy, "Taxer", 100)},
		Deck:    repeat(content.CardSpiritSight, 15),
	})
	cost, ok := e.CostToPlay(0)
	require.True(t, ok)
	assert.Equal(t, 0, cost)

	require.True(t, e.HandleAction(rules.EndTurn()))
	cost, _ = e.CostToPlay(0)
	assert.Equal(t, 1, cost)

	e.ClearEvents()
	require.True(t, e.HandleAction(rules.PlayCard(0, rules.NoTarget)))
	played := e.Events()[0]
	assert.Equal(t, rules.EventPlayed, played.Type)
	assert.Equal(t, 1, played.Cost)
	assert.Equal(t, 2, e.State().Energy)

	cost, _ = e.CostToPlay(0)
	assert.Equal(t, 0, cost)
	require.True(t, e.HandleAction(rules.PlayCard(0, rules.NoTarget)))
	assert.Equal(t, 2, e.State().Energy)
}

func TestSequenceResonanceBlocksOnForesight(t *testing.T) {
	player := rules.NewPlayer()
	player.Statuses.Apply(content.StatusSequenceResonance, 2)
	e := startBattle(t, engine.Config{
		Player:  player,
		Enemies: []rules.Entity{enemy(0, idleEnemy, "Dummy", 100)},
		Deck:    repeat(content.CardSpiritSight, 10),
	})
	e.ClearEvents()

	require.True(t, e.HandleAction(rules.PlayCard(0, rules.NoTarget)))
	assert.Contains(t, e.Events(), rules.BlockGainedEvent("Player", 2))
	assert.Equal(t, 2, e.State().Player.Block)
}

func TestFateEchoScalesWithForesights(t *testing.T) {
	deck := content.Deck(content.CardSpiritSight, content.CardSpiritSight, content.CardFateEcho)
	e := startBattle(t, engine.Config{
		Enemies:      []rules.Entity{enemy(0, idleEnemy, "Dummy", 100)},
		Deck:         deck,
		CardsPerTurn: 3,
	})

	require.True(t, e.HandleAction(rules.PlayCard(handIndexOf(t, e, content.CardSpiritSight), rules.NoTarget)))
	require.True(t, e.HandleAction(rules.PlayCard(handIndexOf(t, e, content.CardSpiritSight), rules.NoTarget)))
	e.ClearEvents()
	require.True(t, e.HandleAction(rules.PlayCard(handIndexOf(t, e, content.CardFateEcho), rules.NoTarget)))

	assert.Contains(t, e.Events(), rules.DamageDealtEvent("Player", "Dummy", 8, 0))
}

func TestRewindReturnsLastDiscard(t *testing.T) {
	e := startBattle(t, engine.Config{
		Enemies:      []rules.Entity{enemy(0, idleEnemy, "Dummy", 100)},
		Deck:         content.Deck(content.CardStrike, content.CardTimeShard),
		CardsPerTurn: 2,
	})

	require.True(t, e.HandleAction(rules.PlayCard(handIndexOf(t, e, content.CardStrike), rules.NoTarget)))
	e.ClearEvents()
	require.True(t, e.HandleAction(rules.PlayCard(handIndexOf(t, e, content.CardTimeShard), rules.NoTarget)))

	assert.Contains(t, e.Events(), rules.RewindCardEvent(content.CardStrike))
	state := e.State()
	require.Len(t, state.Hand, 1)
	assert.Equal(t, content.CardStrike, state.Hand[0].CardID)
	assert.Equal(t, []rules.Card{{ID: "time_shard_1", CardID: content.CardTimeShard}}, state.DiscardPile)
	assert.Equal(t, 1, state.Player.Statuses.Stacks(content.StatusMadness))
}

func TestMeditationClearsMadness(t *testing.T) {
	player := rules.NewPlayer()
	player.Statuses.Apply(content.StatusMadness, 2)
	e := startBattle(t, engine.Config{
		Player:       player,
		Enemies:      []rules.Entity{enemy(0, idleEnemy, "Dummy", 100)},
		Deck:         content.Deck(content.CardMeditation),
		CardsPerTurn: 1,
	})
	e.ClearEvents()

	require.True(t, e.HandleAction(rules.PlayCard(0, rules.NoTarget)))

	events := e.Events()
	assert.Contains(t, events, rules.BlockGainedEvent("Player", 4))
	assert.Contains(t, events, rules.MadnessClearedEvent(2))
	assert.Equal(t, 0, e.State().Player.Statuses.Stacks(content.StatusMadness))
}

func TestMadnessThresholdsAtTurnStart(t *testing.T) {
	player := rules.NewPlayer()
	player.Statuses.Apply(content.StatusMadness, 6)
	e := startBattle(t, engine.Config{
		Player:  player,
		Enemies: []rules.Entity{enemy(0, idleEnemy, "Dummy", 100)},
		Deck:    repeat(content.CardStrike, 10),
	})

	events := e.Events()
	assert.Contains(t, events, rules.MadnessThresholdEvent(1, engine.MadnessTier1Text))
	assert.Contains(t, events, rules.MadnessThresholdEvent(2, engine.MadnessTier2Text))
	assert.NotContains(t, events, rules.MadnessThresholdEvent(3, engine.MadnessTier3Text))
	assert.Contains(t, events, rules.StatusAppliedEvent("Player", "Weak", content.StatusWeak, 1))
	assert.Contains(t, events, rules.MadnessDiscardEvent(content.CardStrike))

	state := e.State()
	assert.Len(t, state.Hand, 4)
	assert.Len(t, state.DiscardPile, 1)
	assert.Equal(t, 1, state.Player.Statuses.Stacks(content.StatusWeak))

	// The discard happens after the draw.
	types := eventTypes(events)
	lastDrew, discard := -1, -1
	for i, typ := range types {
		switch typ {
		case rules.EventDrew:
			lastDrew = i
		case rules.EventMadnessDiscard:
			discard = i
		}
	}
	assert.Greater(t, discard, lastDrew)

	e.ClearEvents()
	require.True(t, e.HandleAction(rules.EndTurn()))
	assert.Contains(t, e.Events(), rules.MadnessReducedEvent(6, 5))
}

func TestSanityAnchorRaisesThresholds(t *testing.T) {
	player := rules.NewPlayer()
	player.Statuses.Apply(content.StatusMadness, 6)
	e := startBattle(t, engine.Config{
		Player:  player,
		Enemies: []rules.Entity{enemy(0, idleEnemy, "Dummy", 100)},
		Deck:    repeat(content.CardStrike, 10),
		Relics:  []string{content.RelicSanityAnchor},
	})

	assert.Equal(t, [3]int{6, 9, 13}, e.MadnessThresholds())
	events := e.Events()
	assert.Contains(t, events, rules.MadnessThresholdEvent(1, engine.MadnessTier1Text))
	assert.Equal(t, 1, countType(events, rules.EventMadnessThreshold))
	assert.False(t, e.State().Player.Statuses.Has(content.StatusWeak))
}

func TestMadnessMaskAmplifiesAttacks(t *testing.T) {
	player := rules.NewPlayer()
	player.Statuses.Apply(content.StatusMadness, 6)
	e := startBattle(t, engine.Config{
		Player:  player,
		Enemies: []rules.Entity{enemy(0, idleEnemy, "Dummy", 100)},
		Deck:    repeat(content.CardStrike, 6),
		Relics:  []string{content.RelicSanityAnchor, content.RelicMadnessMask},
	})
	e.ClearEvents()

	require.True(t, e.HandleAction(rules.PlayCard(0, rules.NoTarget)))
	assert.Contains(t, e.Events(), rules.DamageDealtEvent("Player", "Dummy", 9, 0))
}

func TestMadnessTierThreeAmplifiesIncoming(t *testing.T) {
	player := rules.NewPlayer()
	player.Statuses.Apply(content.StatusMadness, 11)
	e := startBattle(t, engine.Config{
		Player:  player,
		Enemies: []rules.Entity{enemy(0, bruteEnemy, "Brute", 100)},
		Deck:    repeat(content.CardStrike, 10),
	})
	assert.Contains(t, e.Events(), rules.MadnessThresholdEvent(3, engine.MadnessTier3Text))

	require.True(t, e.HandleAction(rules.EndTurn()))

	// Madness drops to 10 before the enemy acts, still tier 3.
	assert.Contains(t, e.Events(), rules.DamageDealtEvent("Brute", "Player", 15, 0))
	assert.Equal(t, 65, e.State().Player.CurrentHP)
}

func TestFateRewriteReplacesIntent(t *testing.T) {
	e := startBattle(t, engine.Config{
		Enemies:      []rules.Entity{enemy(0, bruteEnemy, "Brute", 100)},
		Deck:         content.Deck(content.CardFateRewrite),
		CardsPerTurn: 1,
	})
	e.ClearEvents()

	require.True(t, e.HandleAction(rules.PlayCard(0, rules.NoTarget)))
	assert.Contains(t, e.Events(), rules.IntentRewrittenEvent("Brute", "Smash 10", engine.RewrittenDefendText))
	assert.Equal(t, engine.RewrittenDefendText, e.State().Enemies[0].PlannedMove.Intent.Text)
	assert.Equal(t, 2, e.State().Player.Statuses.Stacks(content.StatusMadness))

	e.ClearEvents()
	require.True(t, e.HandleAction(rules.EndTurn()))
	events := e.Events()
	assert.Contains(t, events, rules.EnemyActionEvent("e0", engine.RewrittenDefendText))
	assert.Contains(t, events, rules.BlockGainedEvent("Brute", 10))
	assert.Contains(t, events, rules.BlockClearedEvent("Brute", 10))
	assert.Equal(t, 80, e.State().Player.CurrentHP)
}

func TestProphetNotesSkipsFirstRewriteMadness(t *testing.T) {
	e := startBattle(t, engine.Config{
		Enemies:      []rules.Entity{enemy(0, bruteEnemy, "Brute", 100)},
		Deck:         content.Deck(content.CardFateRewrite),
		CardsPerTurn: 1,
		Relics:       []string{content.RelicProphetNotes},
	})
	e.ClearEvents()

	require.True(t, e.HandleAction(rules.PlayCard(0, rules.NoTarget)))
	assert.Contains(t, e.Events(), rules.StatusAppliedEvent("Player", "Prophet's Notes", content.StatusMadness, 0))
	assert.Equal(t, 0, e.State().Player.Statuses.Stacks(content.StatusMadness))

	// Only the first rewrite of the battle is free.
	require.True(t, e.HandleAction(rules.EndTurn()))
	require.True(t, e.HandleAction(rules.PlayCard(0, rules.NoTarget)))
	assert.Equal(t, 2, e.State().Player.Statuses.Stacks(content.StatusMadness))
}

func TestDiscardRandomHandIsScheduledOffTurn(t *testing.T) {
	lib := testLibrary()
	lib.RegisterEnemy(fixedEnemy("test_thief", "Thief", rules.EnemyMove{
		Intent:  rules.Intent{Text: "Steal"},
		Effects: []rules.Effect{rules.DiscardRandomHand(2)},
	}))
	e, err := engine.New(engine.Config{
		Enemies: []rules.Entity{enemy(0, "test_thief", "Thief", 100)},
		Deck:    repeat(content.CardStrike, 10),
	}, lib, nil)
	require.NoError(t, err)
	require.True(t, e.StartBattle())

	require.True(t, e.HandleAction(rules.EndTurn()))

	assert.Contains(t, e.Events(), rules.HandDiscardedEvent(2))
	assert.Len(t, e.State().Hand, 3)
	assert.Equal(t, 10, cardCount(e))
}

func TestDiscardRandomHandDuringTurnLogsCount(t *testing.T) {
	lib := testLibrary()
	lib.RegisterCard(rules.CardDefinition{
		ID: "test_purge", Name: "Purge", Type: rules.CardSkill, Cost: 0,
		Play: func(rules.Snapshot, int) []rules.Effect {
			return []rules.Effect{rules.DiscardRandomHand(1)}
		},
	})
	e, err := engine.New(engine.Config{
		Enemies: []rules.Entity{enemy(0, idleEnemy, "Dummy", 100)},
		Deck:    content.Deck("test_purge", content.CardStrike, content.CardStrike, content.CardStrike, content.CardStrike),
	}, lib, nil)
	require.NoError(t, err)
	require.True(t, e.StartBattle())
	e.ClearEvents()

	idx := -1
	for i, card := range e.State().Hand {
		if card.CardID == "test_purge" {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	require.True(t, e.HandleAction(rules.PlayCard(idx, rules.NoTarget)))

	assert.Equal(t, []rules.EventType{rules.EventPlayed, rules.EventHandDiscarded}, eventTypes(e.Events()))
	assert.Equal(t, rules.HandDiscardedEvent(1), e.Events()[1])
	assert.Len(t, e.State().Hand, 3)
	assert.Equal(t, 5, cardCount(e))
}

func TestUnknownStatusIsInvalidAction(t *testing.T) {
	lib := testLibrary()
	lib.RegisterCard(rules.CardDefinition{
		ID: "test_curse", Name: "Curse", Type: rules.CardSkill, Cost: 0,
		Play: func(rules.Snapshot, int) []rules.Effect {
			return []rules.Effect{
				rules.ApplyStatus(rules.Enemy(0), "no_such_status", 1),
				rules.DealDamage(rules.Player(), rules.Enemy(7), 5),
				rules.GainBlock(rules.Player(), 3),
			}
		},
	})
	e, err := engine.New(engine.Config{
		Enemies:      []rules.Entity{enemy(0, idleEnemy, "Dummy", 100)},
		Deck:         content.Deck("test_curse"),
		CardsPerTurn: 1,
	}, lib, nil)
	require.NoError(t, err)
	require.True(t, e.StartBattle())
	e.ClearEvents()

	require.True(t, e.HandleAction(rules.PlayCard(0, rules.NoTarget)))
	assert.Equal(t, 2, countType(e.Events(), rules.EventInvalidAction))
	assert.Equal(t, 3, e.State().Player.Block)
	assert.Equal(t, 100, e.State().Enemies[0].CurrentHP)
}
