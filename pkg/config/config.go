// Package config loads service configuration from defaults, an optional
// YAML file, and MINICRM_-prefixed environment variables, in that order
// of increasing precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/minicrm-io/minicrm/pkg/storage"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AuthConfig holds token and password-hashing settings.
type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenLifetime time.Duration `yaml:"token_lifetime"`
	BcryptCost    int           `yaml:"bcrypt_cost"`
}

// RedisConfig holds the optional shared cache settings. An empty Addr
// disables Redis entirely.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// RateLimitConfig holds request throttling settings.
type RateLimitConfig struct {
	Enabled       bool    `yaml:"enabled"`
	RatePerSecond float64 `yaml:"rate_per_second"`
	Burst         int     `yaml:"burst"`
	MaxClients    int     `yaml:"max_clients"`
}

// ObservabilityConfig holds logging and stats settings.
type ObservabilityConfig struct {
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
	StatsSchedule string `yaml:"stats_schedule"`
}

// Config is the root service configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      storage.Config      `yaml:"database"`
	Auth          AuthConfig          `yaml:"auth"`
	Redis         RedisConfig         `yaml:"redis"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// Default returns the development configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: storage.DefaultConfig(),
		Auth: AuthConfig{
			TokenLifetime: 24 * time.Hour,
			BcryptCost:    10,
		},
		RateLimit: RateLimitConfig{
			Enabled:       true,
			RatePerSecond: 20,
			Burst:         40,
			MaxClients:    4096,
		},
		Observability: ObservabilityConfig{
			LogLevel:      "info",
			LogFormat:     "json",
			StatsSchedule: "@every 1m",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty; a missing file is an error), then environment
// variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail at an awkward moment
// deep inside startup.
func (c Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth JWT secret is required (set MINICRM_JWT_SECRET)")
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.Server.Addr, "MINICRM_ADDR")
	setDuration(&c.Server.ReadTimeout, "MINICRM_READ_TIMEOUT")
	setDuration(&c.Server.WriteTimeout, "MINICRM_WRITE_TIMEOUT")
	setDuration(&c.Server.ShutdownTimeout, "MINICRM_SHUTDOWN_TIMEOUT")

	setString(&c.Database.Driver, "MINICRM_DB_DRIVER")
	setString(&c.Database.DSN, "MINICRM_DB_DSN")
	setInt(&c.Database.MaxOpenConns, "MINICRM_DB_MAX_OPEN_CONNS")
	setInt(&c.Database.MaxIdleConns, "MINICRM_DB_MAX_IDLE_CONNS")

	setString(&c.Auth.JWTSecret, "MINICRM_JWT_SECRET")
	setDuration(&c.Auth.TokenLifetime, "MINICRM_TOKEN_LIFETIME")
	setInt(&c.Auth.BcryptCost, "MINICRM_BCRYPT_COST")

	setString(&c.Redis.Addr, "MINICRM_REDIS_ADDR")
	setString(&c.Redis.Password, "MINICRM_REDIS_PASSWORD")
	setInt(&c.Redis.DB, "MINICRM_REDIS_DB")

	setBool(&c.RateLimit.Enabled, "MINICRM_RATE_LIMIT_ENABLED")
	setFloat(&c.RateLimit.RatePerSecond, "MINICRM_RATE_LIMIT_RPS")
	setInt(&c.RateLimit.Burst, "MINICRM_RATE_LIMIT_BURST")

	setString(&c.Observability.LogLevel, "MINICRM_LOG_LEVEL")
	setString(&c.Observability.LogFormat, "MINICRM_LOG_FORMAT")
	setString(&c.Observability.StatsSchedule, "MINICRM_STATS_SCHEDULE")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = parsed
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}
