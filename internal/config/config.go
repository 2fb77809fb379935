// Package config provides Viper-based configuration loading for the taxi
// shift server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP/WebSocket listen settings.
type ServerConfig struct {
	// Host is the bind address for the API listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the API listener.
	Port int `mapstructure:"port"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds PostgreSQL connection settings for the save store.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// FlavorConfig holds passenger flavor text provider settings.
type FlavorConfig struct {
	// Provider selects the implementation: "anthropic" or "static".
	Provider string `mapstructure:"provider"`
	// APIKey is the Anthropic API key. Empty falls back to the static provider.
	APIKey string `mapstructure:"api_key"`
	// Model is the Anthropic model identifier.
	Model string `mapstructure:"model"`
	// Timeout bounds a single flavor fetch before the fallback record is used.
	Timeout time.Duration `mapstructure:"timeout"`
}

// GameConfig holds gameplay pacing and tuning settings.
type GameConfig struct {
	// SaveSlot is the save store namespace for this server's session.
	SaveSlot string `mapstructure:"save_slot"`
	// SearchDelay is the artificial delay before an offer appears.
	SearchDelay time.Duration `mapstructure:"search_delay"`
	// RequeueDelay is the pause before re-searching after a decline or an
	// acknowledged ride.
	RequeueDelay time.Duration `mapstructure:"requeue_delay"`
	// DrivingDuration is the fixed ride timer.
	DrivingDuration time.Duration `mapstructure:"driving_duration"`
	// BonusChance is the probability in [0,1] that a hot order is flagged
	// when a shift ends with enough energy left.
	BonusChance float64 `mapstructure:"bonus_chance"`
}

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Flavor   FlavorConfig   `mapstructure:"flavor"`
	Game     GameConfig     `mapstructure:"game"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateServer(c.Server); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateFlavor(c.Flavor); err != nil {
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
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
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

func validateFlavor(f FlavorConfig) error {
	var errs []string
	validProviders := map[string]bool{"anthropic": true, "static": true}
	if !validProviders[f.Provider] {
		errs = append(errs, fmt.Sprintf("flavor.provider must be one of [anthropic, static], got %q", f.Provider))
	}
	if f.Provider == "anthropic" && f.Model == "" {
		errs = append(errs, "flavor.model must not be empty when flavor.provider is anthropic")
	}
	if f.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("flavor.timeout must be > 0, got %s", f.Timeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.SaveSlot == "" {
		errs = append(errs, "game.save_slot must not be empty")
	}
	if g.SearchDelay < 0 {
		errs = append(errs, "game.search_delay must not be negative")
	}
	if g.RequeueDelay < 0 {
		errs = append(errs, "game.requeue_delay must not be negative")
	}
	if g.DrivingDuration <= 0 {
		errs = append(errs, fmt.Sprintf("game.driving_duration must be > 0, got %s", g.DrivingDuration))
	}
	if g.BonusChance < 0 || g.BonusChance > 1 {
		errs = append(errs, fmt.Sprintf("game.bonus_chance must be in [0,1], got %g", g.BonusChance))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with TAXI_ prefix
	v.SetEnvPrefix("TAXI")
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

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "taxi")
	v.SetDefault("database.password", "taxi")
	v.SetDefault("database.name", "taxi")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("flavor.provider", "static")
	v.SetDefault("flavor.api_key", "")
	v.SetDefault("flavor.model", "claude-haiku-4-5")
	v.SetDefault("flavor.timeout", "1500ms")

	v.SetDefault("game.save_slot", "taxi_save_v3")
	v.SetDefault("game.search_delay", "2s")
	v.SetDefault("game.requeue_delay", "1s")
	v.SetDefault("game.driving_duration", "2500ms")
	v.SetDefault("game.bonus_chance", 0.4)
}
