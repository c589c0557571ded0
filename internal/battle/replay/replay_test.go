package replay

import (
	"context"
	"testing"

	"github.com/magefree/battle-engine-go/internal/battle/autopilot"
	"github.com/magefree/battle-engine-go/internal/battle/content"
	"github.com/magefree/battle-engine-go/internal/battle/encounter"
	"github.com/magefree/battle-engine-go/internal/battle/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func recordBattle(t *testing.T, setup encounter.Setup, seed uint64) (Record, []rules.Event) {
	t.Helper()
	lib := content.NewLibrary()
	e, err := setup.Build(lib, seed, zaptest.NewLogger(t))
	require.NoError(t, err)
	res, err := autopilot.Play(context.Background(), e, lib, 0)
	require.NoError(t, err)
	return New(setup, seed, res.Actions, e.Events(), e.State()), e.Events()
}

func TestVerifyReproducesBattle(t *testing.T) {
	setup := encounter.Setup{Enemies: []string{content.EnemyJawWorm}, Relics: []string{content.RelicBurningBlood}}
	rec, events := recordBattle(t, setup, 2024)

	require.NotEmpty(t, rec.BattleID)
	assert.Equal(t, Digest(events), rec.Digest)
	assert.NoError(t, Verify(rec, content.NewLibrary(), zaptest.NewLogger(t)))
}

func TestVerifyDetectsTampering(t *testing.T) {
	rec, _ := recordBattle(t, encounter.Setup{Enemies: []string{content.EnemyLouse}}, 7)

	rec.Seed++
	assert.ErrorIs(t, Verify(rec, content.NewLibrary(), zaptest.NewLogger(t)), ErrChecksumMismatch)
}

func TestDigestIsOrderSensitive(t *testing.T) {
	a := []rules.Event{rules.TurnStartedEvent(1), rules.EnergyResetEvent(3)}
	b := []rules.Event{rules.EnergyResetEvent(3), rules.TurnStartedEvent(1)}

	assert.NotEqual(t, Digest(a), Digest(b))
	assert.Equal(t, Digest(a), Digest(append([]rules.Event(nil), a...)))
	assert.Len(t, Digest(nil), 64)
}

func TestMarshalRoundTrip(t *testing.T) {
	rec, _ := recordBattle(t, encounter.Setup{Enemies: []string{content.EnemyCultist}, ForesightPolicy: "auto"}, 99)

	data, err := rec.Marshal()
	require.NoError(t, err)
	loaded, err := Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, rec.BattleID, loaded.BattleID)
	assert.Equal(t, rec.Actions, loaded.Actions)
	assert.True(t, rec.CreatedAt.Equal(loaded.CreatedAt))
	assert.NoError(t, Verify(loaded, content.NewLibrary(), nil))
}

func TestSaveAndLoadFile(t *testing.T) {
	rec, _ := recordBattle(t, encounter.Setup{Enemies: []string{content.EnemyLouse}}, 5)

	filename, err := rec.SaveToFile(t.TempDir())
	require.NoError(t, err)
	loaded, err := LoadFromFile(filename)
	require.NoError(t, err)
	assert.Equal(t, rec.Digest, loaded.Digest)

	_, err = LoadFromFile(filename + ".missing")
	assert.Error(t, err)
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	_, err := Unmarshal([]byte("not a replay"))
	assert.Error(t, err)
}
