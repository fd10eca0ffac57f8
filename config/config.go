// Package config loads the YAML configuration shared by the client, the
// server and the bench tool.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/plus3/tetracube/field"
	"github.com/plus3/tetracube/game"
	"github.com/plus3/tetracube/leaderboard"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Field               string        `yaml:"field"`
	GravityRate         float64       `yaml:"gravity_rate"`
	ClearDelay          time.Duration `yaml:"clear_delay"`
	TexturedProbability float64       `yaml:"textured_probability"`
	Seed                uint64        `yaml:"seed"`
	Player              string        `yaml:"player"`

	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Server      ServerConfig      `yaml:"server"`
}

type LeaderboardConfig struct {
	Driver string `yaml:"driver"` // json, postgres or none
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
	Size   int    `yaml:"size"`
}

type ServerConfig struct {
	Addr     string `yaml:"addr"`
	TickRate int    `yaml:"tick_rate"` // ticks per second
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Field:               field.Size4x4.String(),
		GravityRate:         game.DefaultGravityRate,
		ClearDelay:          game.DefaultClearDelay,
		TexturedProbability: game.DefaultTexturedProbability,
		Player:              "player",
		Leaderboard: LeaderboardConfig{
			Driver: "json",
			Path:   "leaderboard.json",
			Size:   3,
		},
		Server: ServerConfig{
			Addr:     ":8080",
			TickRate: 60,
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and reports the first problem.
func (c *Config) Validate() error {
	if _, err := field.ParseSize(c.Field); err != nil {
		return fmt.Errorf("field: %w", err)
	}
	if c.GravityRate <= 0 {
		return fmt.Errorf("gravity_rate must be positive")
	}
	if c.ClearDelay < 0 {
		return fmt.Errorf("clear_delay must not be negative")
	}
	if c.TexturedProbability < 0 || c.TexturedProbability > 1 {
		return fmt.Errorf("textured_probability must be within [0, 1]")
	}

	switch c.Leaderboard.Driver {
	case "none":
	case "json":
		if c.Leaderboard.Path == "" {
			return fmt.Errorf("leaderboard.path is required for the json driver")
		}
	case "postgres":
		if c.Leaderboard.DSN == "" {
			return fmt.Errorf("leaderboard.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown leaderboard.driver %q", c.Leaderboard.Driver)
	}
	if c.Leaderboard.Size <= 0 {
		return fmt.Errorf("leaderboard.size must be positive")
	}

	if c.Server.TickRate <= 0 {
		return fmt.Errorf("server.tick_rate must be positive")
	}
	return nil
}

// Settings converts the game part of the configuration. A zero seed is
// replaced with one taken from the clock.
func (c *Config) Settings() (game.Settings, error) {
	size, err := field.ParseSize(c.Field)
	if err != nil {
		return game.Settings{}, fmt.Errorf("field: %w", err)
	}

	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return game.Settings{
		Size:                size,
		GravityRate:         c.GravityRate,
		ClearDelay:          c.ClearDelay,
		TexturedProbability: c.TexturedProbability,
		Seed:                seed,
	}, nil
}

// TickInterval is the server's time between ticks.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Server.TickRate)
}

// OpenLeaderboard opens the configured store.
func (c *Config) OpenLeaderboard() (leaderboard.Store, error) {
	location := c.Leaderboard.Path
	if c.Leaderboard.Driver == "postgres" {
		location = c.Leaderboard.DSN
	}

	store, err := leaderboard.Open(c.Leaderboard.Driver, location, c.Leaderboard.Size)
	if err != nil {
		return nil, fmt.Errorf("open leaderboard: %w", err)
	}
	return store, nil
}
