package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// RandomPattern seeds the grid with random cells instead of a named pattern
	RandomPattern = "random"

	LogFormatText = "text"
	LogFormatJSON = "json"

	RendererBorder   = "border"
	RendererTerminal = "terminal"
	RendererNone     = "none"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the configuration for a run. Values come from defaults, then
// the config file, then GOL_* environment variables, then command-line flags.
type Config struct {
	Pattern         string        `json:"pattern" yaml:"pattern" env:"GOL_PATTERN"`
	Rows            int           `json:"rows" yaml:"rows" env:"GOL_ROWS"` // 0 = pattern default
	Cols            int           `json:"cols" yaml:"cols" env:"GOL_COLS"` // 0 = pattern default
	Generations     int           `json:"generations" yaml:"generations" env:"GOL_GENERATIONS"`
	ShowGenerations bool          `json:"show_generations" yaml:"show_generations" env:"GOL_SHOW_GENERATIONS"`
	FrameRate       time.Duration `json:"frame_rate" yaml:"frame_rate" env:"GOL_FRAME_RATE"`
	Workers         int           `json:"workers" yaml:"workers" env:"GOL_WORKERS"` // 0 = one per CPU
	UseMemoryPool   bool          `json:"use_memory_pool" yaml:"use_memory_pool" env:"GOL_USE_MEMORY_POOL"`
	RandomDensity   float64       `json:"random_density" yaml:"random_density" env:"GOL_RANDOM_DENSITY"`
	RandomSeed      int64         `json:"random_seed" yaml:"random_seed" env:"GOL_RANDOM_SEED"` // 0 = time based
	Renderer        string        `json:"renderer" yaml:"renderer" env:"GOL_RENDERER"`
	LogFormat       string        `json:"log_format" yaml:"log_format" env:"GOL_LOG_FORMAT"`
	StatsPath       string        `json:"stats_path" yaml:"stats_path" env:"GOL_STATS_PATH"`
	SnapshotPath    string        `json:"snapshot_path" yaml:"snapshot_path" env:"GOL_SNAPSHOT_PATH"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Pattern:         "glider",
		Generations:     20,
		ShowGenerations: false,
		UseMemoryPool:   true,
		RandomDensity:   0.15,
		Renderer:        RendererBorder,
		LogFormat:       LogFormatText,
	}
}

// LoadConfig loads configuration from a JSON or YAML file (chosen by
// extension) on top of the defaults. An empty filename yields the defaults.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()
	if filename == "" {
		return config, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// ApplyEnv overwrites fields whose GOL_* environment variable is set
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return errors.Wrap(err, "[ApplyEnv] failed to parse environment")
	}
	return nil
}

// Validate checks values that would otherwise fail deep inside a run
func (c Config) Validate() error {
	var problems []string
	if c.Pattern == "" {
		problems = append(problems, "pattern is empty")
	}
	if c.Rows < 0 || c.Cols < 0 {
		problems = append(problems, "rows and cols must not be negative")
	}
	if (c.Rows == 0) != (c.Cols == 0) {
		problems = append(problems, "rows and cols must be set together")
	}
	if c.Generations < 0 {
		problems = append(problems, "generations must not be negative")
	}
	if c.Workers < 0 {
		problems = append(problems, "workers must not be negative")
	}
	if c.FrameRate < 0 {
		problems = append(problems, "frame_rate must not be negative")
	}
	if c.RandomDensity < 0 || c.RandomDensity > 1 {
		problems = append(problems, "random_density must be within [0,1]")
	}
	switch c.Renderer {
	case RendererBorder, RendererTerminal, RendererNone:
	default:
		problems = append(problems, "unknown renderer "+c.Renderer)
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		problems = append(problems, "unknown log_format "+c.LogFormat)
	}
	if c.Pattern == RandomPattern && c.Rows == 0 {
		problems = append(problems, "random pattern needs rows and cols")
	}

	if len(problems) > 0 {
		return errors.Wrap(ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file
func (c Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "[WriteYAML] marshaling config")
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "[WriteYAML] writing %s", path)
	}
	return nil
}
