// Package config provides Viper-based configuration loading for the game
// server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds the websocket gateway's HTTP listener settings.
type ServerConfig struct {
	// Host is the bind address for the HTTP listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the HTTP listener.
	Port int `mapstructure:"port"`
	// WriteTimeout bounds a single websocket write.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// PongTimeout is how long a connection may go without answering a ping
	// before it is considered dead.
	PongTimeout time.Duration `mapstructure:"pong_timeout"`
	// PingInterval is how often the gateway pings each connection. Must be
	// shorter than PongTimeout.
	PingInterval time.Duration `mapstructure:"ping_interval"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// GameConfig holds the defaults applied to newly created rooms and the
// directory maintenance settings.
type GameConfig struct {
	// PacksDir is an optional directory of prompt pack YAML files. Empty
	// means only the bundled pack is available.
	PacksDir string `mapstructure:"packs_dir"`
	// GuessSeconds is the default per-turn guess time limit.
	GuessSeconds int `mapstructure:"guess_seconds"`
	// Rounds is the default number of rounds per game.
	Rounds int `mapstructure:"rounds"`
	// AllowSpectators is the default spectator policy for new rooms.
	AllowSpectators bool `mapstructure:"allow_spectators"`
	// MaxPlayers is the default roster cap for new rooms. 0 = no cap.
	MaxPlayers int `mapstructure:"max_players"`
	// SweepInterval is how often empty rooms are evicted.
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateServer(c.Server); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateServer(s ServerConfig) error {
	var errs []string
	if s.Host == "" {
		errs = append(errs, "server.host must not be empty")
	}
	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", s.Port))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if s.PongTimeout <= 0 {
		errs = append(errs, "server.pong_timeout must be positive")
	}
	if s.PingInterval <= 0 {
		errs = append(errs, "server.ping_interval must be positive")
	} else if s.PongTimeout > 0 && s.PingInterval >= s.PongTimeout {
		errs = append(errs, "server.ping_interval must be shorter than server.pong_timeout")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.GuessSeconds < 1 {
		errs = append(errs, fmt.Sprintf("game.guess_seconds must be >= 1, got %d", g.GuessSeconds))
	}
	if g.Rounds < 1 {
		errs = append(errs, fmt.Sprintf("game.rounds must be >= 1, got %d", g.Rounds))
	}
	if g.MaxPlayers < 0 {
		errs = append(errs, fmt.Sprintf("game.max_players must be >= 0, got %d", g.MaxPlayers))
	}
	if g.SweepInterval <= 0 {
		errs = append(errs, "game.sweep_interval must be positive")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with SKETCH_ prefix
	v.SetEnvPrefix("SKETCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.pong_timeout", "60s")
	v.SetDefault("server.ping_interval", "30s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("game.packs_dir", "")
	v.SetDefault("game.guess_seconds", 30)
	v.SetDefault("game.rounds", 10)
	v.SetDefault("game.allow_spectators", true)
	v.SetDefault("game.max_players", 12)
	v.SetDefault("game.sweep_interval", "1m")
}
