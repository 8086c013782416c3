package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigJSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "config.json", `{"pattern":"acorn","generations":5000,"frame_rate":1000000,"workers":4}`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "acorn", cfg.Pattern)
	assert.Equal(t, 5000, cfg.Generations)
	assert.Equal(t, time.Millisecond, cfg.FrameRate)
	assert.Equal(t, 4, cfg.Workers)
	// Untouched fields keep their defaults.
	assert.Equal(t, RendererBorder, cfg.Renderer)
}

func TestLoadConfigYAML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "config.yaml", "pattern: random\nrows: 30\ncols: 60\nframe_rate: 150ms\nshow_generations: true\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, RandomPattern, cfg.Pattern)
	assert.Equal(t, 30, cfg.Rows)
	assert.Equal(t, 60, cfg.Cols)
	assert.Equal(t, 150*time.Millisecond, cfg.FrameRate)
	assert.True(t, cfg.ShowGenerations)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, "broken.json", "{"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GOL_PATTERN", "block")
	t.Setenv("GOL_GENERATIONS", "7")
	t.Setenv("GOL_FRAME_RATE", "20ms")

	cfg := DefaultConfig()
	cfg.Workers = 3
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "block", cfg.Pattern)
	assert.Equal(t, 7, cfg.Generations)
	assert.Equal(t, 20*time.Millisecond, cfg.FrameRate)
	assert.Equal(t, 3, cfg.Workers, "unset variables keep the current value")
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	t.Setenv("GOL_ROWS", "many")

	cfg := DefaultConfig()
	assert.Error(t, cfg.ApplyEnv())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty pattern", func(c *Config) { c.Pattern = "" }},
		{"negative rows", func(c *Config) { c.Rows, c.Cols = -1, 5 }},
		{"rows without cols", func(c *Config) { c.Rows = 5 }},
		{"negative generations", func(c *Config) { c.Generations = -1 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"negative frame rate", func(c *Config) { c.FrameRate = -time.Second }},
		{"density above one", func(c *Config) { c.RandomDensity = 1.5 }},
		{"unknown renderer", func(c *Config) { c.Renderer = "sdl" }},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }},
		{"random without dimensions", func(c *Config) { c.Pattern = RandomPattern }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, ErrInvalidConfig), "%v", err)
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Pattern = "acorn"
	cfg.FrameRate = 40 * time.Millisecond
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
