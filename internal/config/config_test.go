package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/tripgraph/internal/routing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "empty.yaml", "{}\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, routing.StandardDefaults(), cfg.Routing)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "tripgraph", cfg.Logger.ServiceName)
	assert.Equal(t, "green", cfg.Logger.Colors.Info)
	assert.Empty(t, cfg.Logger.LogFile)
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "tripgraph.yaml", `
logger:
  level: debug
  format: json
  log_file: /var/log/tripgraph.log
routing:
  walk_speed: 1.1
  max_walk_distance: 1200
  modes: WALK,BICYCLE
  optimize: SAFE
  elevator_hop_time: 30
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, "/var/log/tripgraph.log", cfg.Logger.LogFile)
	assert.Equal(t, 1.1, cfg.Routing.WalkSpeed)
	assert.Equal(t, 1200.0, cfg.Routing.MaxWalkDistance)
	assert.Equal(t, "WALK,BICYCLE", cfg.Routing.Modes)
	assert.Equal(t, routing.OptimizeSafe, cfg.Routing.Optimize)
	assert.Equal(t, 30, cfg.Routing.ElevatorHopTime)
	// Untouched keys keep their defaults.
	assert.Equal(t, routing.StandardDefaults().BoardCost, cfg.Routing.BoardCost)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("MissingExplicitFile", func(t *testing.T) {
		t.Parallel()
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "bad.yaml", "routing: [unclosed\n")
		_, err := LoadFile(path)
		assert.Error(t, err)
	})

	t.Run("BadLevel", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "level.yaml", "logger:\n  level: loud\n")
		_, err := LoadFile(path)
		assert.ErrorContains(t, err, "invalid logger config")
	})

	t.Run("WrongType", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "type.yaml", "routing:\n  walk_speed: fast\n")
		_, err := LoadFile(path)
		assert.Error(t, err)
	})
}

// Environment tests cannot run in parallel.
func TestLoad_Environment(t *testing.T) {
	t.Setenv("TRIPGRAPH_ROUTING_WALK_SPEED", "1.5")
	t.Setenv("TRIPGRAPH_LOGGER_LEVEL", "warn")

	path := writeFile(t, t.TempDir(), "env.yaml", "routing:\n  walk_speed: 1.1\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1.5, cfg.Routing.WalkSpeed)
	assert.Equal(t, "warn", cfg.Logger.Level)
}

func TestNewViper_SearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tripgraph.yaml", "routing:\n  num_itineraries: 5\n")
	t.Chdir(dir)

	v, err := NewViper("")
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Routing.NumItineraries)

	t.Chdir(t.TempDir())
	v, err = NewViper("")
	require.NoError(t, err, "a missing default file is not an error")
	cfg, err = Load(v)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Routing.NumItineraries)
}
