// Package renderer draws the simulation fields.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fearfield/camera"
	"github.com/pthm-cable/fearfield/components"
	"github.com/pthm-cable/fearfield/grid"
)

// Layer is one species as the renderer sees it.
type Layer struct {
	Fields grid.FieldSet
	Tint   components.Tint
}

// FieldRenderer draws densities as smooth-shaded quads and velocities as
// line segments, in screen space given by the viewport.
type FieldRenderer struct {
	viewport *camera.Viewport

	// VelocityScale multiplies velocity before it becomes a line length.
	// At 1 a velocity of 1 spans the whole window.
	VelocityScale float32
}

// NewFieldRenderer creates a renderer drawing through vp.
func NewFieldRenderer(vp *camera.Viewport) *FieldRenderer {
	return &FieldRenderer{viewport: vp, VelocityScale: 1}
}

// DrawDensity draws one quad per pair of neighboring cell centers, shading
// each corner with the density of the cell it sits on. Species add their
// tints, so overlapping mass mixes colors.
func (r *FieldRenderer) DrawDensity(store *grid.Store, layers []Layer) {
	n := store.N()
	grid.Require(r.viewport.N == n, "draw_density", "viewport n=%d does not match store n=%d", r.viewport.N, n)

	dens := make([][]float32, len(layers))
	for k, l := range layers {
		dens[k] = store.Field(l.Fields.Density)
	}
	cw, ch := r.viewport.CellSize()

	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			// Top-left corner of the quad is the center of cell (i, j+1)
			x, y := r.viewport.GridToScreen(i, j+1)
			rec := rl.Rectangle{X: x, Y: y, Width: cw, Height: ch}

			// Corners counter-clockwise from top-left
			rl.DrawRectangleGradientEx(rec,
				mix(layers, dens, store.IX(i, j+1)),
				mix(layers, dens, store.IX(i, j)),
				mix(layers, dens, store.IX(i+1, j)),
				mix(layers, dens, store.IX(i+1, j+1)),
			)
		}
	}
}

// DrawVelocity draws one segment per interior cell from its center along
// the species velocity, each species in its tint.
func (r *FieldRenderer) DrawVelocity(store *grid.Store, layers []Layer) {
	n := store.N()
	grid.Require(r.viewport.N == n, "draw_velocity", "viewport n=%d does not match store n=%d", r.viewport.N, n)

	w, h := r.viewport.Width*r.VelocityScale, r.viewport.Height*r.VelocityScale

	for _, l := range layers {
		u, v := store.Field(l.Fields.U), store.Field(l.Fields.V)
		color := rl.Color{R: l.Tint.R, G: l.Tint.G, B: l.Tint.B, A: 255}

		for i := 1; i <= n; i++ {
			for j := 1; j <= n; j++ {
				idx := store.IX(i, j)
				x, y := r.viewport.GridToScreen(i, j)
				// Screen y grows downward
				rl.DrawLineV(
					rl.Vector2{X: x, Y: y},
					rl.Vector2{X: x + u[idx]*w, Y: y - v[idx]*h},
					color,
				)
			}
		}
	}
}

// mix sums the tint of every layer weighted by its density at idx.
func mix(layers []Layer, dens [][]float32, idx int) rl.Color {
	var red, green, blue float32
	for k, l := range layers {
		d := dens[k][idx]
		if d <= 0 {
			continue
		}
		red += d * float32(l.Tint.R)
		green += d * float32(l.Tint.G)
		blue += d * float32(l.Tint.B)
	}
	return rl.Color{R: clampByte(red), G: clampByte(green), B: clampByte(blue), A: 255}
}

func clampByte(v float32) uint8 {
	if v >= 255 {
		return 255
	}
	if v <= 0 {
		return 0
	}
	return uint8(v)
}
