// Package game wires one simulation context to the window, the telemetry
// pipeline and the command line options.
package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/fearfield/camera"
	"github.com/pthm-cable/fearfield/config"
	"github.com/pthm-cable/fearfield/grid"
	"github.com/pthm-cable/fearfield/renderer"
	"github.com/pthm-cable/fearfield/systems"
	"github.com/pthm-cable/fearfield/telemetry"
	"github.com/pthm-cable/fearfield/ui"
)

// Options configures a run beyond what the config file holds.
type Options struct {
	Headless      bool
	LogStats      bool
	OutputDir     string // CSV logs, config copy and snapshots (empty = disabled)
	SnapshotDir   string // standalone snapshot directory, used when OutputDir is empty
	SnapshotEvery int    // save a snapshot every N ticks (0 = only on request)
	RestorePath   string // snapshot to load before the first frame
}

// Game holds the complete simulation state and its collaborators.
type Game struct {
	cfg  *config.Config
	opts Options

	store    *grid.Store
	species  *systems.SpeciesRegistry
	orch     *systems.Orchestrator
	queue    *systems.EventQueue
	viewport *camera.Viewport
	phases   *systems.PhaseRegistry

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager

	// Presentation, nil when headless
	field        *renderer.FieldRenderer
	hud          *ui.HUD
	speciesPanel *ui.SpeciesPanel
	perfPanel    *ui.PerfPanel
	controls     *ui.ControlsPanel

	tick int32
	quit bool

	screenWidth, screenHeight float32
}

// NewGame allocates the field store and builds a simulation context from
// cfg. An *grid.AllocationError is returned unwrapped so callers can report it.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	orch, err := systems.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:          cfg,
		opts:         opts,
		store:        orch.Store(),
		species:      orch.Species(),
		orch:         orch,
		viewport:     orch.Viewport(),
		queue:        &systems.EventQueue{},
		phases:       systems.NewPhaseRegistry(),
		screenWidth:  float32(cfg.Screen.Width),
		screenHeight: float32(cfg.Screen.Height),
	}

	g.collector = telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.DT32)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10)
	g.orch.SetTimer(g.perfCollector)

	g.outputManager, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.store.Release()
		return nil, err
	}
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	if opts.RestorePath != "" {
		if err := g.restore(opts.RestorePath); err != nil {
			g.Unload()
			return nil, err
		}
	}

	if !opts.Headless {
		g.field = renderer.NewFieldRenderer(g.viewport)
		g.hud = ui.NewHUD()
		g.speciesPanel = ui.NewSpeciesPanel(10, 76, 170)
		g.perfPanel = ui.NewPerfPanel(0, 0, 200)
		g.controls = ui.NewControlsPanel(0, 0, 150)
		g.layoutPanels()
	}

	return g, nil
}

// Update polls the window, then runs one frame.
func (g *Game) Update() {
	g.pollInput()
	g.frame()
}

// UpdateHeadless runs one frame without touching the window.
func (g *Game) UpdateHeadless() {
	g.frame()
}

// frame drains queued input, advances the orchestrator and feeds telemetry.
func (g *Game) frame() {
	cmds := g.orch.ProcessEvents(g.queue)
	for i := 0; i < cmds.Clears; i++ {
		g.collector.RecordClear()
	}
	if cmds.ToggleControls && g.controls != nil {
		g.controls.Toggle()
	}
	if cmds.Quit {
		g.quit = true
		return
	}

	input := g.orch.Input()
	g.perfCollector.StartTick()
	g.orch.Step()
	g.perfCollector.EndTick()
	g.collector.RecordInjection(input.Down(systems.ButtonPrimary), input.Down(systems.ButtonSecondary))

	g.tick++

	g.flushTelemetry()

	if cmds.Snapshot || (g.opts.SnapshotEvery > 0 && int(g.tick)%g.opts.SnapshotEvery == 0) {
		g.saveSnapshot()
	}
}

// speciesRefs lists the species in store order for snapshots.
func (g *Game) speciesRefs() []telemetry.SpeciesRef {
	refs := make([]telemetry.SpeciesRef, g.species.Len())
	for k := range refs {
		refs[k] = telemetry.SpeciesRef{
			Name:   g.species.Name(k),
			Fear:   g.species.Fear(k),
			Fields: g.species.Fields(k),
		}
	}
	return refs
}

// restore loads a snapshot into the store.
func (g *Game) restore(path string) error {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	if err := snap.Restore(g.store, g.speciesRefs()); err != nil {
		return fmt.Errorf("restore %s: %w", path, err)
	}
	g.tick = snap.Tick
	slog.Info("snapshot restored", "path", path, "tick", snap.Tick)
	return nil
}

// Tick returns the number of frames run, including restored ones.
func (g *Game) Tick() int32 {
	return g.tick
}

// Quit reports whether a quit event was processed.
func (g *Game) Quit() bool {
	return g.quit
}

// Unload flushes output and releases the field store.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.store.Release()
}
