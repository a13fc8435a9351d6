package systems

import (
	"github.com/pthm-cable/fearfield/camera"
	"github.com/pthm-cable/fearfield/config"
	"github.com/pthm-cable/fearfield/grid"
	"github.com/pthm-cable/fearfield/solver"
)

// NewFromConfig allocates a store and builds a complete simulation context
// from cfg, seeding densities when cfg.Seed is enabled. The caller owns the
// store and releases it through Store().Release(). Allocation failures come
// back as *grid.AllocationError.
func NewFromConfig(cfg *config.Config) (*Orchestrator, error) {
	store, err := grid.Allocate(cfg.Grid.N, cfg.Grid.MaxCells)
	if err != nil {
		return nil, err
	}

	species, err := NewSpeciesRegistry(store, cfg.Species)
	if err != nil {
		store.Release()
		return nil, err
	}

	s := solver.New(solver.Params{
		Iterations:           cfg.Physics.SolverIterations,
		VorticityConfinement: cfg.Physics.VorticityConfinement,
		VorticityEpsilon:     float32(cfg.Physics.VorticityEpsilon),
	})
	vp := camera.New(float32(cfg.Screen.Width), float32(cfg.Screen.Height), cfg.Grid.N)
	input := NewInputMapper(cfg.Derived.Force32, cfg.Derived.Source32)

	o := NewOrchestrator(store, species, s, input, vp, Params{
		DT:        cfg.Derived.DT32,
		Diffusion: cfg.Derived.Diffusion32,
		Viscosity: cfg.Derived.Viscosity32,
	})

	if cfg.Seed.Enabled {
		SeedDensity(store, species, cfg.Seed)
	}
	return o, nil
}
