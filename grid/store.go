// Package grid owns the padded scalar fields of the simulation.
//
// Every field lives in a single arena and is addressed through a Handle.
// Swapping two handles exchanges the buffers behind them in O(1); no element
// is ever copied.
package grid

import (
	"fmt"
	"math"
)

// NumSpecies is the number of simulated populations.
const NumSpecies = 2

// DefaultMaxCells caps the total number of float32 cells across all buffers
// (256 MiB).
const DefaultMaxCells = 1 << 26

// fieldsPerSpecies counts density, u, v and their staging buffers.
const fieldsPerSpecies = 6

// bufferCount is every species buffer plus the shared curl scratch buffer.
const bufferCount = NumSpecies*fieldsPerSpecies + 1

// Handle addresses one buffer in a Store.
type Handle int

// FieldSet names the six buffers that belong to one species. The *Prev
// buffers are the staging side of each pair.
type FieldSet struct {
	Density, DensityPrev Handle
	U, UPrev             Handle
	V, VPrev             Handle
}

// Handles lists the set's handles in a stable order.
func (fs FieldSet) Handles() [fieldsPerSpecies]Handle {
	return [fieldsPerSpecies]Handle{fs.Density, fs.DensityPrev, fs.U, fs.UPrev, fs.V, fs.VPrev}
}

// Staging lists the staging handles.
func (fs FieldSet) Staging() [3]Handle {
	return [3]Handle{fs.DensityPrev, fs.UPrev, fs.VPrev}
}

// Store is the arena of field buffers for one grid resolution.
type Store struct {
	n    int
	size int

	bufs    [][]float32
	species [NumSpecies]FieldSet
	curl    Handle

	released bool
}

// Allocate reserves all buffers for resolution n, each (n+2)² cells, zeroed.
// maxCells bounds the total reservation; zero selects DefaultMaxCells.
// On failure nothing stays reachable and an *AllocationError is returned.
func Allocate(n, maxCells int) (*Store, error) {
	if n <= 0 {
		return nil, &AllocationError{N: n, Reason: "resolution must be positive"}
	}
	if maxCells <= 0 {
		maxCells = DefaultMaxCells
	}
	side := int64(n) + 2
	if side > math.MaxInt32 {
		return nil, &AllocationError{N: n, Reason: "resolution overflows cell index"}
	}
	cells := side * side
	if cells*bufferCount > int64(maxCells) {
		return nil, &AllocationError{
			N:      n,
			Reason: fmt.Sprintf("%d cells exceed budget of %d", cells*bufferCount, maxCells),
		}
	}

	s := &Store{
		n:    n,
		size: int(cells),
		bufs: make([][]float32, bufferCount),
	}
	for h := range s.bufs {
		buf, err := reserve(s.size)
		if err != nil {
			s.Release()
			return nil, &AllocationError{N: n, Reason: err.Error()}
		}
		s.bufs[h] = buf
	}

	next := Handle(0)
	for k := range s.species {
		s.species[k] = FieldSet{
			Density: next, DensityPrev: next + 1,
			U: next + 2, UPrev: next + 3,
			V: next + 4, VPrev: next + 5,
		}
		next += fieldsPerSpecies
	}
	s.curl = next

	return s, nil
}

// reserve turns a refused make into an error instead of a crash.
func reserve(size int) (buf []float32, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = fmt.Errorf("reserve %d cells: %v", size, r)
		}
	}()
	return make([]float32, size), nil
}

// N returns the interior resolution.
func (s *Store) N() int { return s.n }

// Len returns the number of cells in every buffer, (N+2)².
func (s *Store) Len() int { return s.size }

// IX maps cell coordinates, boundary ring included, to a linear index.
func (s *Store) IX(i, j int) int { return IX(s.n, i, j) }

// IX maps (i, j) on a grid of interior resolution n to a linear index.
func IX(n, i, j int) int { return i + (n+2)*j }

// Species returns the field set of species k.
func (s *Store) Species(k int) FieldSet {
	Require(k >= 0 && k < NumSpecies, "Species", "species %d out of range", k)
	return s.species[k]
}

// Curl returns the scratch buffer used by vortex confinement.
func (s *Store) Curl() Handle { return s.curl }

// Field returns the buffer currently behind h. The slice is only valid until
// the next Swap involving h.
func (s *Store) Field(h Handle) []float32 {
	s.check("Field", h)
	buf := s.bufs[h]
	Require(len(buf) == s.size, "Field", "buffer %d has %d cells, want %d", h, len(buf), s.size)
	return buf
}

// Swap exchanges the buffers behind a and b.
func (s *Store) Swap(a, b Handle) {
	s.check("Swap", a)
	s.check("Swap", b)
	s.bufs[a], s.bufs[b] = s.bufs[b], s.bufs[a]
}

// ClearFields zero-fills the given buffers.
func (s *Store) ClearFields(hs ...Handle) {
	for _, h := range hs {
		clear(s.Field(h))
	}
}

// Clear zero-fills every buffer.
func (s *Store) Clear() {
	Require(!s.released, "Clear", "store released")
	for _, buf := range s.bufs {
		clear(buf)
	}
}

// Load copies data into the buffer behind h.
func (s *Store) Load(h Handle, data []float32) {
	buf := s.Field(h)
	Require(len(data) == len(buf), "Load", "got %d cells, want %d", len(data), len(buf))
	copy(buf, data)
}

// Release drops every buffer. It may be called more than once.
func (s *Store) Release() {
	for h := range s.bufs {
		s.bufs[h] = nil
	}
	s.released = true
}

// Released reports whether Release has been called.
func (s *Store) Released() bool { return s.released }

func (s *Store) check(op string, h Handle) {
	Require(!s.released, op, "store released")
	Require(h >= 0 && int(h) < len(s.bufs), op, "unknown handle %d", h)
}
