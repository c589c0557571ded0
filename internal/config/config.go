// Package config loads the service configuration with viper: a YAML file,
// defaults for everything, and BATTLE_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/magefree/battle-engine-go/internal/battle/encounter"
	"github.com/magefree/battle-engine-go/internal/battle/engine"
	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Battle   BattleConfig   `mapstructure:"battle"`
	Replay   ReplayConfig   `mapstructure:"replay"`
}

// ServerConfig holds listener settings.
type ServerConfig struct {
	GRPC      GRPCConfig      `mapstructure:"grpc"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
}

type GRPCConfig struct {
	Address              string `mapstructure:"address"`
	MaxConcurrentStreams int    `mapstructure:"max_concurrent_streams"`
}

type WebSocketConfig struct {
	Address string `mapstructure:"address"`
	Path    string `mapstructure:"path"`
	// AllowedOrigins empty means any origin.
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	// StepDelay paces autopilot events on the feed; 0 streams as fast as possible.
	StepDelay time.Duration `mapstructure:"step_delay"`
}

// DatabaseConfig configures the pgx pool. An empty URL disables
// persistence.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BattleConfig holds engine defaults applied to setups that leave them zero.
type BattleConfig struct {
	CardsPerTurn    int    `mapstructure:"cards_per_turn"`
	MaxEnergy       int    `mapstructure:"max_energy"`
	ForesightPolicy string `mapstructure:"foresight_policy"`
	MaxActions      int    `mapstructure:"max_actions"`
	SearchWorkers   int    `mapstructure:"search_workers"`
}

// Fill copies the configured defaults into the zero fields of setup.
func (b BattleConfig) Fill(setup encounter.Setup) encounter.Setup {
	if setup.CardsPerTurn == 0 {
		setup.CardsPerTurn = b.CardsPerTurn
	}
	if setup.MaxEnergy == 0 {
		setup.MaxEnergy = b.MaxEnergy
	}
	if setup.ForesightPolicy == "" {
		setup.ForesightPolicy = b.ForesightPolicy
	}
	return setup
}

type ReplayConfig struct {
	// Directory receives .replay files; empty disables file output.
	Directory string `mapstructure:"directory"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.grpc.address", ":50051")
	v.SetDefault("server.grpc.max_concurrent_streams", 100)
	v.SetDefault("server.websocket.address", ":8080")
	v.SetDefault("server.websocket.path", "/battle")
	v.SetDefault("server.websocket.write_timeout", 10*time.Second)
	v.SetDefault("server.websocket.step_delay", time.Duration(0))

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", time.Hour)
	v.SetDefault("database.connect_timeout", 5*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("battle.cards_per_turn", 5)
	v.SetDefault("battle.max_energy", 3)
	v.SetDefault("battle.foresight_policy", engine.ForesightAutoPick.String())
	v.SetDefault("battle.max_actions", 2000)
	v.SetDefault("battle.search_workers", 4)

	v.SetDefault("replay.directory", "")
}

// Load reads path (optional when empty) and applies env overrides such as
// BATTLE_SERVER_GRPC_ADDRESS.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BATTLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.GRPC.Address == "" {
		errs = append(errs, errors.New("server.grpc.address is required"))
	}
	if c.Server.GRPC.MaxConcurrentStreams <= 0 {
		errs = append(errs, errors.New("server.grpc.max_concurrent_streams must be positive"))
	}
	if c.Battle.CardsPerTurn <= 0 {
		errs = append(errs, errors.New("battle.cards_per_turn must be positive"))
	}
	if c.Battle.MaxEnergy <= 0 {
		errs = append(errs, errors.New("battle.max_energy must be positive"))
	}
	if c.Battle.MaxActions <= 0 {
		errs = append(errs, errors.New("battle.max_actions must be positive"))
	}
	if c.Battle.SearchWorkers <= 0 {
		errs = append(errs, errors.New("battle.search_workers must be positive"))
	}
	if _, err := engine.ParseForesightPolicy(c.Battle.ForesightPolicy); err != nil {
		errs = append(errs, fmt.Errorf("battle.foresight_policy: %w", err))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}
	if c.Database.MinConns > c.Database.MaxConns {
		errs = append(errs, errors.New("database.min_conns exceeds database.max_conns"))
	}
	return errors.Join(errs...)
}
