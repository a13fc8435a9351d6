package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fearfield/components"
	"github.com/pthm-cable/fearfield/grid"
	"github.com/pthm-cable/fearfield/renderer"
	"github.com/pthm-cable/fearfield/systems"
	"github.com/pthm-cable/fearfield/telemetry"
	"github.com/pthm-cable/fearfield/ui"
)

// Draw renders the current display mode and the UI.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	layers := g.layers()
	if g.orch.Display == systems.DisplayVelocity {
		g.field.DrawVelocity(g.store, layers)
	} else {
		g.field.DrawDensity(g.store, layers)
	}

	g.drawUI()

	rl.EndDrawing()
}

// layers lists the species for the field renderer.
func (g *Game) layers() []renderer.Layer {
	layers := make([]renderer.Layer, g.species.Len())
	for k := range layers {
		layers[k] = renderer.Layer{Fields: g.species.Fields(k), Tint: g.species.Tint(k)}
	}
	return layers
}

func (g *Game) drawUI() {
	g.hud.Draw(ui.HUDData{
		Title:    "Fear field",
		Tick:     g.tick,
		FPS:      rl.GetFPS(),
		Display:  g.orch.Display.String(),
		Selected: g.species.Name(g.orch.Input().Selected()),
		SimTime:  float32(g.tick) * g.cfg.Derived.DT32,
	})

	g.speciesPanel.Draw(g.speciesStats())

	perf := g.perfCollector.Stats()
	g.perfPanel.Draw(ui.PerfPanelData{
		PhaseAvg: perf.PhaseAvg,
		PhasePct: perf.PhasePct,
		TickAvg:  perf.AvgTickDuration,
		Registry: g.phases,
	})

	g.controls.Draw(ui.ControlsState{
		Display:  g.orch.Display,
		Selected: g.species.Name(g.orch.Input().Selected()),
	}, g.queue)

	g.hud.DrawControls(int32(g.screenHeight), ui.ControlsLegend)
}

// speciesStats samples each species for the HUD.
func (g *Game) speciesStats() []ui.SpeciesStats {
	n := g.store.N()
	stats := make([]ui.SpeciesStats, 0, grid.NumSpecies)
	g.species.Each(func(sp *components.Species, fear *components.Fear, fields *components.Fields, tint *components.Tint) {
		s := telemetry.SampleSpecies(n,
			g.store.Field(fields.Density), g.store.Field(fields.U), g.store.Field(fields.V))
		stats = append(stats, ui.SpeciesStats{
			Name:  sp.Name,
			Color: rl.Color{R: tint.R, G: tint.G, B: tint.B, A: 255},
			Values: map[string]float64{
				"mass":      s.Mass,
				"max_speed": s.MaxSpeed,
				"fear":      float64(fear.Coeff),
			},
		})
	})
	return stats
}
