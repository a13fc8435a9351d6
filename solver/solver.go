// Package solver implements the numerical steps the frame orchestrator drives:
// the fear interaction, velocity integration and density transport of
// Stam's stable-fluids scheme on an (N+2)² padded grid.
//
// All steps are stateless with respect to the caller: buffers come in as
// slices, any double buffering is local to the step, and results land in the
// slices the caller passed.
package solver

import "github.com/pthm-cable/fearfield/grid"

// DefaultIterations is the Gauss-Seidel sweep count per linear solve.
const DefaultIterations = 20

// DefaultVorticityEpsilon scales vortex-confinement forcing.
const DefaultVorticityEpsilon = 0.1

// Solver is the capability set the orchestrator consumes.
type Solver interface {
	// FearStep accumulates into u0/v0 the velocity a species with density x
	// gains from the density y: -coeff*dt*x*∇y per interior cell.
	FearStep(n int, x, u, u0, v, v0, y []float32, coeff, dt float32)
	// VelStep integrates u, v in place using u0, v0 as forcing. curl is
	// scratch space for variants that need it.
	VelStep(n int, u, v, u0, v0, curl []float32, visc, dt float32)
	// DensStep transports x in place along (u, v) with x0 as source.
	DensStep(n int, x, x0, u, v []float32, diff, dt float32)
}

// VelocityIntegrator is one way of advancing a velocity field.
type VelocityIntegrator interface {
	Integrate(n int, u, v, u0, v0, curl []float32, visc, dt float32)
}

// Params selects the solver variant. It is fixed at construction.
type Params struct {
	Iterations           int
	VorticityConfinement bool
	VorticityEpsilon     float32
}

// Stam is the stable-fluids Solver.
type Stam struct {
	iterations int
	vel        VelocityIntegrator
}

// New builds a Stam solver with the velocity integrator chosen by p.
func New(p Params) *Stam {
	iters := p.Iterations
	if iters <= 0 {
		iters = DefaultIterations
	}
	stable := &StableIntegrator{Iterations: iters}

	var vel VelocityIntegrator = stable
	if p.VorticityConfinement {
		eps := p.VorticityEpsilon
		if eps == 0 {
			eps = DefaultVorticityEpsilon
		}
		vel = &VortexIntegrator{Stable: stable, Epsilon: eps}
	}

	return &Stam{iterations: iters, vel: vel}
}

// Integrator returns the velocity integrator selected at construction.
func (s *Stam) Integrator() VelocityIntegrator { return s.vel }

// VelStep delegates to the configured integrator.
func (s *Stam) VelStep(n int, u, v, u0, v0, curl []float32, visc, dt float32) {
	s.vel.Integrate(n, u, v, u0, v0, curl, visc, dt)
}

// DensStep adds x0 as a source, diffuses and advects x.
func (s *Stam) DensStep(n int, x, x0, u, v []float32, diff, dt float32) {
	checkShape("DensStep", n, x, x0, u, v)

	addSource(x, x0, dt)
	x0, x = x, x0
	diffuse(n, boundScalar, x, x0, diff, dt, s.iterations)
	x0, x = x, x0
	advect(n, boundScalar, x, x0, u, v, dt)
}

// StableIntegrator adds forcing, diffuses, projects, self-advects and
// projects again.
type StableIntegrator struct {
	Iterations int
}

// Integrate implements VelocityIntegrator. curl is unused.
func (s *StableIntegrator) Integrate(n int, u, v, u0, v0, curl []float32, visc, dt float32) {
	checkShape("VelStep", n, u, v, u0, v0)

	addSource(u, u0, dt)
	addSource(v, v0, dt)

	u0, u = u, u0
	diffuse(n, boundHorizontal, u, u0, visc, dt, s.Iterations)
	v0, v = v, v0
	diffuse(n, boundVertical, v, v0, visc, dt, s.Iterations)
	project(n, u, v, u0, v0, s.Iterations)

	u0, u = u, u0
	v0, v = v, v0
	advect(n, boundHorizontal, u, u0, u0, v0, dt)
	advect(n, boundVertical, v, v0, u0, v0, dt)
	project(n, u, v, u0, v0, s.Iterations)
}

func checkShape(op string, n int, bufs ...[]float32) {
	grid.Require(n > 0, op, "resolution %d", n)
	want := (n + 2) * (n + 2)
	for k, b := range bufs {
		grid.Require(len(b) == want, op, "buffer %d has %d cells, want %d", k, len(b), want)
	}
}
