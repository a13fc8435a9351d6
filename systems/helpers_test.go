package systems

import (
	"testing"

	"github.com/pthm-cable/fearfield/camera"
	"github.com/pthm-cable/fearfield/config"
	"github.com/pthm-cable/fearfield/grid"
	"github.com/pthm-cable/fearfield/solver"
)

// cellPx is the pixel size of one cell in test viewports.
const cellPx = 8

func testConfig(t testing.TB) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return cfg
}

func newTestStore(t testing.TB, n int) *grid.Store {
	t.Helper()
	store, err := grid.Allocate(n, 0)
	if err != nil {
		t.Fatalf("Allocate(%d): %v", n, err)
	}
	t.Cleanup(store.Release)
	return store
}

func newTestRegistry(t testing.TB, store *grid.Store) *SpeciesRegistry {
	t.Helper()
	reg, err := NewSpeciesRegistry(store, testConfig(t).Species)
	if err != nil {
		t.Fatalf("NewSpeciesRegistry: %v", err)
	}
	return reg
}

func testViewport(n int) *camera.Viewport {
	return camera.New(float32(n*cellPx), float32(n*cellPx), n)
}

// newTestOrchestrator builds a context around s with force 5 and source 100.
func newTestOrchestrator(t testing.TB, n int, s solver.Solver, p Params) *Orchestrator {
	t.Helper()
	store := newTestStore(t, n)
	reg := newTestRegistry(t, store)
	return NewOrchestrator(store, reg, s, NewInputMapper(5, 100), testViewport(n), p)
}

// pixelFor returns a pixel inside cell (i, j) of an n-cell test viewport.
func pixelFor(n, i, j int) (x, y float32) {
	x = float32((i-1)*cellPx + cellPx/2)
	y = float32((n-j)*cellPx + cellPx/2)
	return x, y
}

func nonZeroCells(x []float32) []int {
	var idx []int
	for k, val := range x {
		if val != 0 {
			idx = append(idx, k)
		}
	}
	return idx
}

func fill(x []float32, f func(k int) float32) {
	for k := range x {
		x[k] = f(k)
	}
}
