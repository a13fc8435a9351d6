package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/fearfield/grid"
)

func testRefs(store *grid.Store) []SpeciesRef {
	return []SpeciesRef{
		{Name: "elves", Fear: 0.00025, Fields: store.Species(0)},
		{Name: "orcs", Fear: -0.0005, Fields: store.Species(1)},
	}
}

func TestSnapshotSaveLoadRestore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := grid.Allocate(6, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Release()
	refs := testRefs(store)

	store.Field(refs[0].Fields.Density)[store.IX(2, 3)] = 1.5
	store.Field(refs[1].Fields.U)[store.IX(4, 4)] = -0.25
	store.Field(refs[1].Fields.V)[store.IX(1, 6)] = 0.125

	snapshot := Capture(store, 1000, 0.1, refs)

	// Capture copies; later writes do not leak in
	store.Field(refs[0].Fields.Density)[store.IX(2, 3)] = 9

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if loaded.Version != SnapshotVersion || loaded.N != 6 || loaded.Tick != 1000 {
		t.Errorf("header = %d/%d/%d", loaded.Version, loaded.N, loaded.Tick)
	}
	if len(loaded.Species) != 2 || loaded.Species[1].Name != "orcs" || loaded.Species[1].Fear != -0.0005 {
		t.Fatalf("species = %+v", loaded.Species)
	}

	// Dirty staging to check Restore zeroes it
	store.Field(refs[0].Fields.DensityPrev)[7] = 3

	if err := loaded.Restore(store, refs); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got := store.Field(refs[0].Fields.Density)[store.IX(2, 3)]; got != 1.5 {
		t.Errorf("density = %f, want 1.5", got)
	}
	if got := store.Field(refs[1].Fields.U)[store.IX(4, 4)]; got != -0.25 {
		t.Errorf("u = %f, want -0.25", got)
	}
	if got := store.Field(refs[1].Fields.V)[store.IX(1, 6)]; got != 0.125 {
		t.Errorf("v = %f, want 0.125", got)
	}
	if got := store.Field(refs[0].Fields.DensityPrev)[7]; got != 0 {
		t.Errorf("staging = %f after restore, want 0", got)
	}
}

func TestSnapshotRestoreRejectsMismatch(t *testing.T) {
	small, err := grid.Allocate(4, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer small.Release()
	large, err := grid.Allocate(8, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer large.Release()

	snap := Capture(small, 1, 0.1, testRefs(small))

	tests := []struct {
		name   string
		mutate func(*Snapshot)
		store  *grid.Store
		want   string
	}{
		{"grid size", func(*Snapshot) {}, large, "does not match"},
		{"version", func(s *Snapshot) { s.Version = 99 }, small, "version"},
		{"species count", func(s *Snapshot) { s.Species = s.Species[:1] }, small, "species"},
		{"short field", func(s *Snapshot) { s.Species[0].U = s.Species[0].U[:3] }, small, "cells"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cp := *snap
			cp.Species = append([]SpeciesState(nil), snap.Species...)
			tc.mutate(&cp)

			err := cp.Restore(tc.store, testRefs(tc.store))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := SaveSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 3000}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected := filepath.Join(tmpDir, "snapshot_3000.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestLoadSnapshotErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadSnapshot(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(bad); err == nil {
		t.Error("expected error for malformed file")
	}
}
