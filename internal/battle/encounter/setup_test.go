package encounter

import (
	"testing"

	"github.com/magefree/battle-engine-go/internal/battle/content"
	"github.com/magefree/battle-engine-go/internal/battle/engine"
	"github.com/magefree/battle-engine-go/internal/battle/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestValidate(t *testing.T) {
	lib := content.NewLibrary()

	assert.ErrorIs(t, Setup{}.Validate(lib), ErrEmptySetup)
	assert.ErrorIs(t, Setup{Enemies: []string{"ghost"}}.Validate(lib), rules.ErrUnknownID)
	assert.ErrorIs(t, Setup{Enemies: []string{content.EnemyLouse}, Deck: []string{"nope"}}.Validate(lib), rules.ErrUnknownID)
	assert.ErrorIs(t, Setup{Enemies: []string{content.EnemyLouse}, Relics: []string{"nope"}}.Validate(lib), rules.ErrUnknownID)
	assert.Error(t, Setup{Enemies: []string{content.EnemyLouse}, ForesightPolicy: "sometimes"}.Validate(lib))
	assert.NoError(t, Setup{Enemies: []string{content.EnemyLouse}, ForesightPolicy: "choice"}.Validate(lib))
}

func TestConfigDefaults(t *testing.T) {
	lib := content.NewLibrary()
	cfg, err := Setup{Enemies: []string{content.EnemyCultist, content.EnemyLouse}}.Config(lib, 9)
	require.NoError(t, err)

	assert.Equal(t, content.StarterDeck(), cfg.Deck)
	assert.Equal(t, rules.DefaultPlayerMaxHP, cfg.Player.MaxHP)
	assert.Equal(t, engine.ForesightAutoPick, cfg.ForesightPolicy)
	require.Len(t, cfg.Enemies, 2)
	assert.Equal(t, "e0", cfg.Enemies[0].ID)
	assert.Equal(t, "e1", cfg.Enemies[1].ID)
	assert.Equal(t, uint64(9), cfg.Seed)
}

func TestConfigIsStablePerSeed(t *testing.T) {
	lib := content.NewLibrary()
	setup := Setup{
		Enemies:         []string{content.EnemyJawWorm},
		Deck:            []string{content.CardStrike, content.CardSpiritSight},
		PlayerHP:        50,
		ForesightPolicy: "choice",
	}

	a, err := setup.Config(lib, 1234)
	require.NoError(t, err)
	b, err := setup.Config(lib, 1234)
	require.NoError(t, err)

	assert.Equal(t, a.Enemies[0].MaxHP, b.Enemies[0].MaxHP)
	assert.Equal(t, 50, a.Player.MaxHP)
	assert.Equal(t, engine.ForesightChoice, a.ForesightPolicy)
	assert.Equal(t, []rules.Card{
		{ID: "strike_1", CardID: content.CardStrike},
		{ID: "spirit_sight_1", CardID: content.CardSpiritSight},
	}, a.Deck)
}

func TestBuild(t *testing.T) {
	e, err := Setup{Enemies: []string{content.EnemyLouse}}.Build(content.NewLibrary(), 3, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.True(t, e.StartBattle())
	assert.Equal(t, 1, e.State().Turn)
}
