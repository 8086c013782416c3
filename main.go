package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/bounded-gol/utils"
)

func main() {
	// Handle Ctrl+C gracefully: the engine stops at the next generation boundary
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// run is main without the process plumbing. Errors are logged before they are
// returned.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	config, err := parseConfig(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		// Usage has already been printed
		return nil
	}
	logger := newLogger(config, stderr)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return err
	}

	grid, err := initializeGrid(config)
	if err != nil {
		logger.Error("failed to seed grid", "pattern", config.Pattern, "error", err)
		return err
	}

	var statsOut io.Writer
	if config.StatsPath != "" {
		f, err := os.Create(config.StatsPath)
		if err != nil {
			logger.Error("failed to create stats file", "path", config.StatsPath, "error", err)
			return errors.Wrap(err, "[run] creating stats file")
		}
		defer f.Close()
		statsOut = f
	}

	g := newGame(config, stdout, logger, utils.NewStatsRecorder(statsOut))
	logger.Info("starting simulation",
		"pattern", config.Pattern,
		"rows", grid.Rows(),
		"cols", grid.Cols(),
		"living", grid.CountLivingCells(),
		"generations", config.Generations,
		"workers", config.Workers,
		"memory_pool", config.UseMemoryPool,
	)

	final, err := g.play(ctx, grid)
	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down gracefully", "completed_generations", g.stats.TotalGenerations)
	} else if err != nil {
		logger.Error("simulation failed", "error", err)
		return err
	}

	if config.SnapshotPath != "" && final != nil {
		if err = writeSnapshot(config.SnapshotPath, final); err != nil {
			logger.Error("failed to write snapshot", "error", err)
			return err
		}
	}

	logger.Info("simulation finished",
		"generations", g.stats.TotalGenerations,
		"living", final.CountLivingCells(),
		"avg_population", g.stats.AveragePopulation,
		"gen_per_sec", g.stats.GenerationsPerSecond,
		"runtime", time.Since(g.stats.StartTime).Round(time.Millisecond).String(),
	)
	return nil
}
