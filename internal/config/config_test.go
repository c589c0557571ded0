package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/magefree/battle-engine-go/internal/battle/encounter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":50051", cfg.Server.GRPC.Address)
	assert.Equal(t, "/battle", cfg.Server.WebSocket.Path)
	assert.Equal(t, 10*time.Second, cfg.Server.WebSocket.WriteTimeout)
	assert.Equal(t, 5, cfg.Battle.CardsPerTurn)
	assert.Equal(t, "auto", cfg.Battle.ForesightPolicy)
	assert.Empty(t, cfg.Database.URL)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  grpc:
    address: "127.0.0.1:6000"
logging:
  format: json
battle:
  foresight_policy: choice
  search_workers: 8
database:
  max_conn_lifetime: 30m
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:6000", cfg.Server.GRPC.Address)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "choice", cfg.Battle.ForesightPolicy)
	assert.Equal(t, 8, cfg.Battle.SearchWorkers)
	assert.Equal(t, 30*time.Minute, cfg.Database.MaxConnLifetime)
	assert.Equal(t, 3, cfg.Battle.MaxEnergy)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BATTLE_BATTLE_MAX_ENERGY", "4")
	t.Setenv("BATTLE_DATABASE_URL", "postgres://localhost/test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Battle.MaxEnergy)
	assert.Equal(t, "postgres://localhost/test", cfg.Database.URL)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, `
battle:
  foresight_policy: sometimes
  cards_per_turn: 0
logging:
  format: xml
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "foresight_policy")
	assert.Contains(t, err.Error(), "cards_per_turn")
	assert.Contains(t, err.Error(), "logging.format")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFillKeepsExplicitValues(t *testing.T) {
	b := BattleConfig{CardsPerTurn: 5, MaxEnergy: 3, ForesightPolicy: "auto"}

	filled := b.Fill(encounter.Setup{MaxEnergy: 6})
	assert.Equal(t, 5, filled.CardsPerTurn)
	assert.Equal(t, 6, filled.MaxEnergy)
	assert.Equal(t, "auto", filled.ForesightPolicy)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))

	logger, err = NewLogger(LoggingConfig{Level: "bogus", Format: "console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
