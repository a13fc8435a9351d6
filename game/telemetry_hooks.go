package game

import (
	"log/slog"

	"github.com/pthm-cable/fearfield/grid"
	"github.com/pthm-cable/fearfield/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	var fields [grid.NumSpecies]grid.FieldSet
	for k := range fields {
		fields[k] = g.species.Fields(k)
	}

	stats := g.collector.Flush(g.tick, g.store, fields)
	perfStats := g.perfCollector.Stats()

	if g.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.opts.LogStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// saveSnapshot writes the current fields to the output directory, or to the
// snapshot directory when output is disabled.
func (g *Game) saveSnapshot() {
	snapshot := telemetry.Capture(g.store, g.tick, g.cfg.Derived.DT32, g.speciesRefs())

	var (
		path string
		err  error
	)
	switch {
	case g.outputManager != nil:
		path, err = g.outputManager.WriteSnapshot(snapshot)
	case g.opts.SnapshotDir != "":
		path, err = telemetry.SaveSnapshot(snapshot, g.opts.SnapshotDir)
	default:
		slog.Warn("snapshot requested but no output or snapshot dir set", "tick", g.tick)
		return
	}
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}
