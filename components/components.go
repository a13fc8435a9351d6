// Package components defines the ECS components that describe a species.
package components

import "github.com/pthm-cable/fearfield/grid"

// Species identifies one simulated population.
type Species struct {
	Index int    // slot in the grid store, 0 or 1
	Name  string // display name, e.g. "elves"
}

// Fear holds the signed interaction coefficient a species applies to the
// other species' density. Positive repels, negative attracts.
type Fear struct {
	Coeff float32
}

// Fields binds a species to its buffers in the grid store.
type Fields struct {
	grid.FieldSet
}

// Tint is the display color of a species.
type Tint struct {
	R, G, B uint8
}
