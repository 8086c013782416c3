package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/bounded-gol/model"
	"github.com/sheikhrachel/bounded-gol/seeds"
	"github.com/sheikhrachel/bounded-gol/utils"
)

// parseConfig layers defaults, the config file, GOL_* variables and finally
// the flags the user actually passed
func parseConfig(args []string, stderr io.Writer) (utils.Config, error) {
	fs := flag.NewFlagSet("gol", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		def         = utils.DefaultConfig()
		configPath  = fs.String("config", "", "Path to a .json or .yaml config file")
		pattern     = fs.String("pattern", def.Pattern, "Seed pattern name, or \"random\"")
		rows        = fs.Int("rows", def.Rows, "Grid rows (0 = pattern default)")
		cols        = fs.Int("cols", def.Cols, "Grid columns (0 = pattern default)")
		generations = fs.Int("generations", def.Generations, "Number of generations to run")
		show        = fs.Bool("show", def.ShowGenerations, "Print every generation")
		frameRate   = fs.Duration("frame-rate", def.FrameRate, "Delay between displayed generations")
		workers     = fs.Int("workers", def.Workers, "Concurrent row bands per step (0 = one per CPU)")
		density     = fs.Float64("density", def.RandomDensity, "Alive probability for the random pattern")
		seed        = fs.Int64("seed", def.RandomSeed, "RNG seed for the random pattern (0 = time based)")
		renderer    = fs.String("renderer", def.Renderer, "border, terminal or none")
		logFormat   = fs.String("log-format", def.LogFormat, "text or json")
		statsPath   = fs.String("stats", def.StatsPath, "Write per-generation stats CSV to this file")
		snapshot    = fs.String("snapshot", def.SnapshotPath, "Write the final grid in binary form to this file")
		writeConfig = fs.String("write-config", "", "Write the resolved configuration as YAML to this file")
	)
	if err := fs.Parse(args); err != nil {
		return def, errors.Wrap(err, "[parseConfig] parsing flags")
	}

	cfg, err := utils.LoadConfig(*configPath)
	if err != nil {
		return cfg, err
	}
	if err = cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "pattern":
			cfg.Pattern = *pattern
		case "rows":
			cfg.Rows = *rows
		case "cols":
			cfg.Cols = *cols
		case "generations":
			cfg.Generations = *generations
		case "show":
			cfg.ShowGenerations = *show
		case "frame-rate":
			cfg.FrameRate = *frameRate
		case "workers":
			cfg.Workers = *workers
		case "density":
			cfg.RandomDensity = *density
		case "seed":
			cfg.RandomSeed = *seed
		case "renderer":
			cfg.Renderer = *renderer
		case "log-format":
			cfg.LogFormat = *logFormat
		case "stats":
			cfg.StatsPath = *statsPath
		case "snapshot":
			cfg.SnapshotPath = *snapshot
		}
	})

	if err = cfg.Validate(); err != nil {
		return cfg, err
	}
	if *writeConfig != "" {
		if err = cfg.WriteYAML(*writeConfig); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// newLogger builds the run's structured logger, tagged with a fresh run id
func newLogger(config utils.Config, w io.Writer) *slog.Logger {
	var handler slog.Handler
	if config.LogFormat == utils.LogFormatJSON {
		handler = slog.NewJSONHandler(w, nil)
	} else {
		handler = slog.NewTextHandler(w, nil)
	}
	return slog.New(handler).With("run_id", uuid.New().String())
}

// initializeGrid builds the starting population described by the config
func initializeGrid(config utils.Config) (*model.Grid, error) {
	if config.Pattern == utils.RandomPattern {
		grid, err := model.NewGrid(config.Rows, config.Cols)
		if err != nil {
			return nil, errors.Wrap(err, "[initializeGrid]")
		}
		seed := config.RandomSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		seeds.Randomize(grid, config.RandomDensity, rand.New(rand.NewSource(seed)))
		return grid, nil
	}

	pattern, err := seeds.ParsePattern(config.Pattern)
	if err != nil {
		return nil, err
	}
	if config.Rows == 0 {
		return seeds.NewSeeded(pattern)
	}

	grid, err := model.NewGrid(config.Rows, config.Cols)
	if err != nil {
		return nil, errors.Wrap(err, "[initializeGrid]")
	}
	origin := seeds.Offset{Row: config.Rows / 2, Col: config.Cols / 2}
	if err = seeds.Seed(grid, pattern, origin); err != nil {
		return nil, err
	}
	return grid, nil
}

// newRenderer returns nil when rendering is disabled
func newRenderer(config utils.Config, out io.Writer) model.Renderer {
	switch config.Renderer {
	case utils.RendererTerminal:
		return &model.TerminalRenderer{Out: out}
	case utils.RendererNone:
		return nil
	default:
		return &model.BorderRenderer{Out: out}
	}
}

// game is everything a run needs besides its configuration
type game struct {
	config   utils.Config
	engine   *model.Engine
	renderer model.Renderer
	recorder *utils.StatsRecorder
	stats    *utils.Stats
	logger   *slog.Logger
	out      io.Writer
}

func newGame(config utils.Config, out io.Writer, logger *slog.Logger, recorder *utils.StatsRecorder) *game {
	var pool *model.GridPool
	if config.UseMemoryPool {
		pool = model.NewGridPool()
	}
	return &game{
		config:   config,
		engine:   model.NewEngine(config.Workers, pool),
		renderer: newRenderer(config, out),
		recorder: recorder,
		stats:    utils.NewStats(),
		logger:   logger,
		out:      out,
	}
}

// display prints a heading followed by the grid
func (g *game) display(heading string, grid *model.Grid) error {
	if g.renderer == nil {
		return nil
	}
	if g.config.Renderer == utils.RendererTerminal {
		if err := g.renderer.Clear(); err != nil {
			g.logger.Warn("failed to clear terminal", "error", err)
		}
	}
	if _, err := fmt.Fprintln(g.out, heading); err != nil {
		return errors.Wrap(err, "[display] writing heading")
	}
	return g.renderer.Display(grid)
}

// record logs one generation to the stats CSV and moving averages
func (g *game) record(generation int, grid *model.Grid, stepTime time.Duration) error {
	living := grid.CountLivingCells()
	g.stats.Update(generation+1, living, stepTime)
	return g.recorder.Write(utils.GenerationRecord{
		Generation: generation,
		Living:     living,
		Density:    float64(living) / float64(grid.Rows()*grid.Cols()),
		Hash:       grid.Hash(),
		StepMicros: stepTime.Microseconds(),
	})
}

// pause waits out the frame delay unless the run is cancelled first
func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// play runs the configured number of generations from initial and returns
// the final grid. Observer failures stop the run at the next boundary.
func (g *game) play(ctx context.Context, initial *model.Grid) (*model.Grid, error) {
	if err := g.display("Starting Population:", initial); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var (
		lastFrame = time.Now()
		observer  = func(generation int, grid *model.Grid) {
			stepTime := time.Since(lastFrame)
			if err := g.record(generation, grid, stepTime); err != nil {
				cancel(err)
				return
			}
			if g.config.ShowGenerations {
				if err := g.display(fmt.Sprintf("Generation %d:", generation), grid); err != nil {
					cancel(err)
					return
				}
				pause(ctx, g.config.FrameRate)
			}
			lastFrame = time.Now()
		}
	)

	final, err := g.engine.Run(ctx, initial, g.config.Generations, observer)
	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		return final, cause
	}
	if err != nil {
		return final, err
	}

	heading := fmt.Sprintf("\nFinal Population: %d generations\n", g.config.Generations)
	return final, g.display(heading, final)
}

// writeSnapshot stores the grid's binary encoding at path
func writeSnapshot(path string, grid *model.Grid) error {
	data, err := grid.MarshalBinary()
	if err != nil {
		return errors.Wrap(err, "[writeSnapshot] encoding grid")
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "[writeSnapshot] writing %s", path)
	}
	return nil
}
