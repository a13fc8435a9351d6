package systems

import (
	"github.com/pthm-cable/fearfield/camera"
	"github.com/pthm-cable/fearfield/grid"
	"github.com/pthm-cable/fearfield/solver"
)

// CohesionStrength is the magnitude of the intra-species interaction.
// It is applied as attraction (coefficient -CohesionStrength), so each
// species clusters toward its own mass. The demo this follows passed +0.05,
// which under the FearStep sign convention repels a species from itself.
const CohesionStrength float32 = 0.05

// PhaseTimer receives a mark at the start of every frame phase.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Params holds the solver parameters shared by both species.
type Params struct {
	DT        float32
	Diffusion float32
	Viscosity float32
}

// Commands reports the events a frame's input asked the caller to act on.
type Commands struct {
	Quit     bool
	Snapshot bool
	Clears   int // number of clear events applied

	// ToggleControls is set when an odd number of toggles arrived
	ToggleControls bool
}

// Orchestrator owns one simulation context: the field store, the species
// bound to it, the pointer input and the display mode. Step advances it by
// exactly one frame.
type Orchestrator struct {
	store    *grid.Store
	species  *SpeciesRegistry
	solver   solver.Solver
	input    *InputMapper
	viewport *camera.Viewport
	params   Params

	// Cohesion is the coefficient handed to the cohesion phase.
	// Negative attracts.
	Cohesion float32

	Display DisplayMode

	timer  PhaseTimer
	frames int
}

// NewOrchestrator wires a simulation context together.
func NewOrchestrator(store *grid.Store, species *SpeciesRegistry, s solver.Solver, input *InputMapper, vp *camera.Viewport, p Params) *Orchestrator {
	return &Orchestrator{
		store:    store,
		species:  species,
		solver:   s,
		input:    input,
		viewport: vp,
		params:   p,
		Cohesion: -CohesionStrength,
	}
}

// SetTimer installs a phase timer. nil disables timing.
func (o *Orchestrator) SetTimer(t PhaseTimer) { o.timer = t }

// Store returns the field store.
func (o *Orchestrator) Store() *grid.Store { return o.store }

// Species returns the species registry.
func (o *Orchestrator) Species() *SpeciesRegistry { return o.species }

// Input returns the input mapper.
func (o *Orchestrator) Input() *InputMapper { return o.input }

// Viewport returns the pixel to cell mapping.
func (o *Orchestrator) Viewport() *camera.Viewport { return o.viewport }

// Params returns the solver parameters.
func (o *Orchestrator) Params() Params { return o.params }

// Frames returns the number of completed frames.
func (o *Orchestrator) Frames() int { return o.frames }

// Reset zeroes every buffer. Only valid between frames.
func (o *Orchestrator) Reset() {
	o.store.Clear()
}

// ProcessEvents drains q, applying pointer and toggle events to the input
// mapper and clear and display events to the context. Events run in arrival
// order, before the next frame starts.
func (o *Orchestrator) ProcessEvents(q *EventQueue) Commands {
	var cmds Commands
	q.Drain(func(e Event) {
		if o.input.Handle(e) {
			return
		}
		switch e.Kind {
		case EventClear:
			o.Reset()
			cmds.Clears++
		case EventToggleDisplay:
			o.Display = o.Display.Toggle()
		case EventQuit:
			cmds.Quit = true
		case EventSnapshot:
			cmds.Snapshot = true
		case EventToggleControls:
			cmds.ToggleControls = !cmds.ToggleControls
		}
	})
	return cmds
}

func (o *Orchestrator) mark(phase string) {
	if o.timer != nil {
		o.timer.StartPhase(phase)
	}
}

// Step runs one frame: reset staging, inject input, fear, cohesion,
// velocity integration, density transport. Each phase finishes for both
// species before the next begins. A released store or a malformed buffer
// panics with *grid.PreconditionViolation.
func (o *Orchestrator) Step() {
	grid.Require(o.store != nil && !o.store.Released(), "step", "store is released")

	s := o.store
	n := s.N()
	dt := o.params.DT

	o.mark(PhaseReset)
	for k := 0; k < grid.NumSpecies; k++ {
		staging := o.species.Fields(k).Staging()
		s.ClearFields(staging[:]...)
	}

	o.mark(PhaseInject)
	o.input.Apply(s, o.species.Fields(o.input.Selected()), o.viewport)

	o.mark(PhaseFear)
	for k := 0; k < grid.NumSpecies; k++ {
		other := o.species.Fields(o.species.Other(k))
		o.interact(k, s.Field(other.Density), o.species.Fear(k))
	}
	o.swapVelocities()

	o.mark(PhaseCohesion)
	for k := 0; k < grid.NumSpecies; k++ {
		own := o.species.Fields(k)
		o.interact(k, s.Field(own.Density), o.Cohesion)
	}
	o.swapVelocities()

	o.mark(PhaseVelocity)
	curl := s.Field(s.Curl())
	for k := 0; k < grid.NumSpecies; k++ {
		fs := o.species.Fields(k)
		o.solver.VelStep(n, s.Field(fs.U), s.Field(fs.V), s.Field(fs.UPrev), s.Field(fs.VPrev), curl, o.params.Viscosity, dt)
	}

	o.mark(PhaseDensity)
	for k := 0; k < grid.NumSpecies; k++ {
		fs := o.species.Fields(k)
		o.solver.DensStep(n, s.Field(fs.Density), s.Field(fs.DensityPrev), s.Field(fs.U), s.Field(fs.V), o.params.Diffusion, dt)
	}

	o.frames++
}

// interact runs the fear step for species k against source density y.
func (o *Orchestrator) interact(k int, y []float32, coeff float32) {
	s := o.store
	fs := o.species.Fields(k)
	o.solver.FearStep(s.N(), s.Field(fs.Density), s.Field(fs.U), s.Field(fs.UPrev), s.Field(fs.V), s.Field(fs.VPrev), y, coeff, o.params.DT)
}

// swapVelocities exchanges current and staging velocity for both species.
func (o *Orchestrator) swapVelocities() {
	for k := 0; k < grid.NumSpecies; k++ {
		fs := o.species.Fields(k)
		o.store.Swap(fs.U, fs.UPrev)
		o.store.Swap(fs.V, fs.VPrev)
	}
}
