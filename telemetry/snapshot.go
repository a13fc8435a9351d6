package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/fearfield/grid"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the authoritative fields of both species at a frame
// boundary. Staging buffers are not saved; they are zeroed every frame.
type Snapshot struct {
	Version int     `json:"version"`
	N       int     `json:"n"`
	Tick    int32   `json:"tick"`
	DT      float32 `json:"dt"`

	Species []SpeciesState `json:"species"`
}

// SpeciesState holds one species' fields, each (N+2)² cells.
type SpeciesState struct {
	Name    string    `json:"name"`
	Fear    float32   `json:"fear"`
	Density []float32 `json:"density"`
	U       []float32 `json:"u"`
	V       []float32 `json:"v"`
}

// SpeciesRef names a species and the handles of its buffers.
type SpeciesRef struct {
	Name   string
	Fear   float32
	Fields grid.FieldSet
}

// Capture copies the current fields of every species out of store.
func Capture(store *grid.Store, tick int32, dt float32, species []SpeciesRef) *Snapshot {
	snap := &Snapshot{
		Version: SnapshotVersion,
		N:       store.N(),
		Tick:    tick,
		DT:      dt,
	}
	for _, sp := range species {
		snap.Species = append(snap.Species, SpeciesState{
			Name:    sp.Name,
			Fear:    sp.Fear,
			Density: append([]float32(nil), store.Field(sp.Fields.Density)...),
			U:       append([]float32(nil), store.Field(sp.Fields.U)...),
			V:       append([]float32(nil), store.Field(sp.Fields.V)...),
		})
	}
	return snap
}

// Restore loads the snapshot's fields into store and zeroes the staging
// buffers. species must list the same number of species in the same order.
func (s *Snapshot) Restore(store *grid.Store, species []SpeciesRef) error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("snapshot version %d, want %d", s.Version, SnapshotVersion)
	}
	if s.N != store.N() {
		return fmt.Errorf("snapshot grid n=%d does not match store n=%d", s.N, store.N())
	}
	if len(s.Species) != len(species) {
		return fmt.Errorf("snapshot has %d species, want %d", len(s.Species), len(species))
	}
	for _, st := range s.Species {
		for name, buf := range map[string][]float32{"density": st.Density, "u": st.U, "v": st.V} {
			if len(buf) != store.Len() {
				return fmt.Errorf("species %q %s has %d cells, want %d", st.Name, name, len(buf), store.Len())
			}
		}
	}

	for k, st := range s.Species {
		fs := species[k].Fields
		store.Load(fs.Density, st.Density)
		store.Load(fs.U, st.U)
		store.Load(fs.V, st.V)
		staging := fs.Staging()
		store.ClearFields(staging[:]...)
	}
	return nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Tick))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
