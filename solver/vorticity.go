package solver

import (
	"math"

	"github.com/pthm-cable/fearfield/grid"
)

// VortexIntegrator adds vorticity-confinement forcing to u0/v0 and then runs
// the stable step. The curl buffer holds |ω| between the two passes.
type VortexIntegrator struct {
	Stable  *StableIntegrator
	Epsilon float32
}

// Integrate implements VelocityIntegrator.
func (vi *VortexIntegrator) Integrate(n int, u, v, u0, v0, curl []float32, visc, dt float32) {
	checkShape("VelStep", n, u, v, u0, v0, curl)
	vi.confine(n, u, v, u0, v0, curl)
	vi.Stable.Integrate(n, u, v, u0, v0, curl, visc, dt)
}

// vorticity returns ω = ∂v/∂x - ∂u/∂y at an interior cell.
func vorticity(n int, u, v []float32, i, j int) float32 {
	dvdx := 0.5 * (v[grid.IX(n, i+1, j)] - v[grid.IX(n, i-1, j)])
	dudy := 0.5 * (u[grid.IX(n, i, j+1)] - u[grid.IX(n, i, j-1)])
	return dvdx - dudy
}

func (vi *VortexIntegrator) confine(n int, u, v, fu, fv, curl []float32) {
	ix := func(i, j int) int { return grid.IX(n, i, j) }

	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			w := vorticity(n, u, v, i, j)
			if w < 0 {
				w = -w
			}
			curl[ix(i, j)] = w
		}
	}
	setBoundary(n, boundScalar, curl)

	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			nx := 0.5 * (curl[ix(i+1, j)] - curl[ix(i-1, j)])
			ny := 0.5 * (curl[ix(i, j+1)] - curl[ix(i, j-1)])
			norm := float32(math.Sqrt(float64(nx*nx+ny*ny))) + 1e-5
			nx /= norm
			ny /= norm

			w := vorticity(n, u, v, i, j)
			fu[ix(i, j)] += vi.Epsilon * ny * w
			fv[ix(i, j)] -= vi.Epsilon * nx * w
		}
	}
}
