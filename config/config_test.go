package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}

	if cfg.Grid.N != 64 {
		t.Errorf("N = %d, want 64", cfg.Grid.N)
	}
	if cfg.Physics.DT != 0.1 {
		t.Errorf("dt = %g, want 0.1", cfg.Physics.DT)
	}
	if cfg.Input.Force != 5 || cfg.Input.Source != 100 {
		t.Errorf("force/source = %g/%g, want 5/100", cfg.Input.Force, cfg.Input.Source)
	}
	if len(cfg.Species) != 2 {
		t.Fatalf("species = %d, want 2", len(cfg.Species))
	}
	if cfg.Species[0].Fear <= 0 || cfg.Species[1].Fear >= 0 {
		t.Errorf("default fears = %g/%g, want repelled/attracted", cfg.Species[0].Fear, cfg.Species[1].Fear)
	}
	if cfg.Derived.DT32 != float32(0.1) {
		t.Errorf("derived dt = %f", cfg.Derived.DT32)
	}
	if cfg.Derived.StatsWindowTicks < 1 {
		t.Errorf("stats window ticks = %d", cfg.Derived.StatsWindowTicks)
	}
}

func TestLoadOverlaysUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := "grid:\n  n: 128\nphysics:\n  viscosity: 0.001\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Grid.N != 128 {
		t.Errorf("N = %d, want 128", cfg.Grid.N)
	}
	if cfg.Physics.Viscosity != 0.001 {
		t.Errorf("viscosity = %g, want 0.001", cfg.Physics.Viscosity)
	}
	// Untouched fields keep their defaults
	if cfg.Physics.DT != 0.1 {
		t.Errorf("dt = %g, want default 0.1", cfg.Physics.DT)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestApplyArgs(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	args := []string{"32", "0.05", "0.0001", "0.0002", "3", "50", "0.1", "-0.2"}
	if err := cfg.ApplyArgs(args); err != nil {
		t.Fatalf("ApplyArgs: %v", err)
	}

	if cfg.Grid.N != 32 {
		t.Errorf("N = %d", cfg.Grid.N)
	}
	if cfg.Physics.DT != 0.05 || cfg.Derived.DT32 != float32(0.05) {
		t.Errorf("dt = %g / %f", cfg.Physics.DT, cfg.Derived.DT32)
	}
	if cfg.Physics.Diffusion != 0.0001 || cfg.Physics.Viscosity != 0.0002 {
		t.Errorf("diff/visc = %g/%g", cfg.Physics.Diffusion, cfg.Physics.Viscosity)
	}
	if cfg.Input.Force != 3 || cfg.Input.Source != 50 {
		t.Errorf("force/source = %g/%g", cfg.Input.Force, cfg.Input.Source)
	}
	if cfg.Species[0].Fear != 0.1 || cfg.Species[1].Fear != -0.2 {
		t.Errorf("fears = %g/%g", cfg.Species[0].Fear, cfg.Species[1].Fear)
	}
}

func TestApplyArgsRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"wrong count", []string{"64", "0.1"}},
		{"bad N", []string{"x", "0.1", "0", "0", "5", "100", "0", "0"}},
		{"bad float", []string{"64", "fast", "0", "0", "5", "100", "0", "0"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			if err := cfg.ApplyArgs(tc.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidateRejectsInsaneValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero N", func(c *Config) { c.Grid.N = 0 }, "grid.n"},
		{"negative N", func(c *Config) { c.Grid.N = -4 }, "grid.n"},
		{"zero dt", func(c *Config) { c.Physics.DT = 0 }, "physics.dt"},
		{"negative dt", func(c *Config) { c.Physics.DT = -0.1 }, "physics.dt"},
		{"negative diffusion", func(c *Config) { c.Physics.Diffusion = -1 }, "physics.diffusion"},
		{"negative viscosity", func(c *Config) { c.Physics.Viscosity = -1 }, "physics.viscosity"},
		{"no iterations", func(c *Config) { c.Physics.SolverIterations = 0 }, "solver_iterations"},
		{"one species", func(c *Config) { c.Species = c.Species[:1] }, "exactly 2 species"},
		{"bad color", func(c *Config) { c.Species[0].Color = []int{1, 2} }, "color"},
		{"color range", func(c *Config) { c.Species[1].Color = []int{0, 300, 0} }, "out of range"},
		{"screen", func(c *Config) { c.Screen.Width = 0 }, "screen size"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			tc.mutate(cfg)
			err = cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Grid.N = 96

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Grid.N != 96 {
		t.Errorf("N after round trip = %d, want 96", back.Grid.N)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cp := cfg.Clone()
	cp.Species[0].Fear = 1
	cp.Species[1].Color[0] = 7
	cp.Physics.DT = 0.5
	cp.Refresh()

	if cfg.Species[0].Fear == 1 || cfg.Species[1].Color[0] == 7 {
		t.Error("clone shares species with the original")
	}
	if cfg.Derived.DT32 == 0.5 {
		t.Error("refresh on the clone changed the original")
	}
	if cp.Derived.DT32 != 0.5 {
		t.Errorf("clone DT32 = %v after refresh, want 0.5", cp.Derived.DT32)
	}
}
