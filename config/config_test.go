package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plus3/tetracube/config"
	"github.com/plus3/tetracube/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tetracube.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	settings, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, field.Size4x4, settings.Size)
	assert.Equal(t, time.Second, settings.ClearDelay)
	assert.NotZero(t, settings.Seed)
	assert.Equal(t, time.Second/60, cfg.TickInterval())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
field: 6x6
gravity_rate: 2.5
clear_delay: 250ms
textured_probability: 0
seed: 42
leaderboard:
  driver: postgres
  dsn: postgres://localhost/tetracube?sslmode=disable
server:
  tick_rate: 30
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "6x6", cfg.Field)
	assert.Equal(t, 250*time.Millisecond, cfg.ClearDelay)
	assert.Equal(t, 0.0, cfg.TexturedProbability)
	assert.Equal(t, "postgres", cfg.Leaderboard.Driver)
	assert.Equal(t, 3, cfg.Leaderboard.Size, "unset keys keep their defaults")
	assert.Equal(t, ":8080", cfg.Server.Addr)

	settings, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, field.Size6x6, settings.Size)
	assert.Equal(t, uint64(42), settings.Seed)
	assert.Equal(t, 2.5, settings.GravityRate)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown field size", "field: 7x7"},
		{"zero gravity", "gravity_rate: 0"},
		{"negative delay", "clear_delay: -1s"},
		{"probability above one", "textured_probability: 1.5"},
		{"unknown driver", "leaderboard: {driver: redis}"},
		{"json without path", "leaderboard: {driver: json, path: ''}"},
		{"postgres without dsn", "leaderboard: {driver: postgres}"},
		{"bad size", "leaderboard: {size: 0}"},
		{"bad tick rate", "server: {tick_rate: 0}"},
		{"not yaml", "field: [unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenLeaderboard(t *testing.T) {
	cfg := config.Default()
	cfg.Leaderboard.Path = filepath.Join(t.TempDir(), "board.json")

	store, err := cfg.OpenLeaderboard()
	require.NoError(t, err)
	require.NoError(t, store.Close())
	assert.FileExists(t, cfg.Leaderboard.Path)

	cfg.Leaderboard.Driver = "none"
	store, err = cfg.OpenLeaderboard()
	require.NoError(t, err)
	assert.NoError(t, store.Close())

	cfg.Leaderboard.Driver = "sqlite"
	_, err = cfg.OpenLeaderboard()
	assert.ErrorContains(t, err, "open leaderboard")
}
