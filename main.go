package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fearfield/config"
	"github.com/pthm-cable/fearfield/game"
	"github.com/pthm-cable/fearfield/grid"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and snapshots")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files when -output-dir is not set")
	snapshotEvery := flag.Int("snapshot-every", 0, "Save a snapshot every N ticks (0 = only on S key)")
	restore := flag.String("restore", "", "Snapshot file to load before the first frame")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [%s]\n", os.Args[0], config.ArgsUsage)
		flag.PrintDefaults()
	}
	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.ApplyArgs(flag.Args()); err != nil {
		slog.Error("invalid arguments", "error", err, "usage", config.ArgsUsage)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	if *configPath == "" && flag.NArg() == 0 {
		slog.Info("using defaults")
	}
	slog.Info("parameters",
		"n", cfg.Grid.N,
		"dt", cfg.Physics.DT,
		"diffusion", cfg.Physics.Diffusion,
		"viscosity", cfg.Physics.Viscosity,
		"force", cfg.Input.Force,
		"source", cfg.Input.Source,
		"fear_a", cfg.Species[0].Fear,
		"fear_b", cfg.Species[1].Fear,
		"stats_window_ticks", cfg.Derived.StatsWindowTicks,
	)

	opts := game.Options{
		Headless:      *headless,
		LogStats:      *logStats,
		OutputDir:     *outputDir,
		SnapshotDir:   *snapshotDir,
		SnapshotEvery: *snapshotEvery,
		RestorePath:   *restore,
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		g := newGame(cfg, opts)
		defer g.Unload()

		slog.Info("starting headless simulation", "max_ticks", *maxTicks)

		for !g.Quit() {
			g.UpdateHeadless()

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				return
			}
		}
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Fear field")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := newGame(cfg, opts)
	defer g.Unload()

	for !rl.WindowShouldClose() && !g.Quit() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}

// newGame builds the simulation or exits. Allocation failures are reported
// with the requested size.
func newGame(cfg *config.Config, opts game.Options) *game.Game {
	g, err := game.NewGame(cfg, opts)
	if err != nil {
		var allocErr *grid.AllocationError
		if errors.As(err, &allocErr) {
			slog.Error("cannot allocate data", "n", cfg.Grid.N, "error", allocErr)
		} else {
			slog.Error("failed to start", "error", err)
		}
		os.Exit(1)
	}
	return g
}
