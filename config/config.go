// Package config provides configuration loading and validation for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Grid      GridConfig      `yaml:"grid"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Input     InputConfig     `yaml:"input"`
	Species   []SpeciesConfig `yaml:"species"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Seed      SeedConfig      `yaml:"seed"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// GridConfig holds the grid resolution.
type GridConfig struct {
	N        int `yaml:"n"`         // Interior cells per axis
	MaxCells int `yaml:"max_cells"` // Allocation budget across all buffers (0 = default)
}

// PhysicsConfig holds solver parameters shared by both species.
type PhysicsConfig struct {
	DT                   float64 `yaml:"dt"`
	Diffusion            float64 `yaml:"diffusion"`
	Viscosity            float64 `yaml:"viscosity"`
	SolverIterations     int     `yaml:"solver_iterations"`
	VorticityConfinement bool    `yaml:"vorticity_confinement"`
	VorticityEpsilon     float64 `yaml:"vorticity_epsilon"`
}

// InputConfig scales pointer input into injected forces and sources.
type InputConfig struct {
	Force  float64 `yaml:"force"`  // Velocity per pixel of pointer movement
	Source float64 `yaml:"source"` // Density deposited per frame
}

// SpeciesConfig describes one population.
type SpeciesConfig struct {
	Name  string  `yaml:"name"`
	Fear  float64 `yaml:"fear"`  // Positive repels, negative attracts
	Color []int   `yaml:"color"` // RGB, 0-255
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Simulated seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // Frames averaged by the perf collector
}

// SeedConfig controls optional noise-seeded initial densities.
type SeedConfig struct {
	Enabled    bool    `yaml:"enabled"`
	RandomSeed int64   `yaml:"random_seed"`
	Alpha      float64 `yaml:"alpha"`
	Beta       float64 `yaml:"beta"`
	Octaves    int32   `yaml:"octaves"`
	Scale      float64 `yaml:"scale"`     // Noise frequency per cell
	Threshold  float64 `yaml:"threshold"` // Noise below this leaves the cell empty
	Amount     float64 `yaml:"amount"`    // Density at full noise
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32        float32
	Diffusion32 float32
	Viscosity32 float32
	Force32     float32
	Source32    float32

	StatsWindowTicks int // StatsWindow / DT, at least 1
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// ArgsUsage documents the positional override form accepted by ApplyArgs.
const ArgsUsage = `N dt diff visc force source fearA fearB
where:
	 N         : grid resolution
	 dt        : time step
	 diff      : diffusion rate of all densities
	 visc      : viscosity of the fluid
	 force     : scales the mouse movement that generates a force
	 source    : amount of density that will be deposited
	 fearA     : how much the first species loves (<0) or fears (>0) the second
	 fearB     : how much the second species loves (<0) or fears (>0) the first`

// ApplyArgs overrides parameters from the positional form described by
// ArgsUsage. It accepts exactly zero or eight arguments.
func (c *Config) ApplyArgs(args []string) error {
	if len(args) == 0 {
		return nil
	}
	if len(args) != 8 {
		return fmt.Errorf("expected 0 or 8 positional arguments, got %d", len(args))
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("parsing N: %w", err)
	}
	floats := make([]float64, 7)
	names := []string{"dt", "diff", "visc", "force", "source", "fearA", "fearB"}
	for i := range floats {
		floats[i], err = strconv.ParseFloat(args[i+1], 64)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", names[i], err)
		}
	}

	c.Grid.N = n
	c.Physics.DT = floats[0]
	c.Physics.Diffusion = floats[1]
	c.Physics.Viscosity = floats[2]
	c.Input.Force = floats[3]
	c.Input.Source = floats[4]
	if len(c.Species) == 2 {
		c.Species[0].Fear = floats[5]
		c.Species[1].Fear = floats[6]
	}

	c.computeDerived()
	return nil
}

// Validate rejects parameters the simulation cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Grid.N <= 0 {
		errs = append(errs, fmt.Errorf("grid.n must be positive, got %d", c.Grid.N))
	}
	if c.Grid.MaxCells < 0 {
		errs = append(errs, fmt.Errorf("grid.max_cells must not be negative, got %d", c.Grid.MaxCells))
	}
	if c.Physics.DT <= 0 {
		errs = append(errs, fmt.Errorf("physics.dt must be positive, got %g", c.Physics.DT))
	}
	if c.Physics.Diffusion < 0 {
		errs = append(errs, fmt.Errorf("physics.diffusion must not be negative, got %g", c.Physics.Diffusion))
	}
	if c.Physics.Viscosity < 0 {
		errs = append(errs, fmt.Errorf("physics.viscosity must not be negative, got %g", c.Physics.Viscosity))
	}
	if c.Physics.SolverIterations <= 0 {
		errs = append(errs, fmt.Errorf("physics.solver_iterations must be positive, got %d", c.Physics.SolverIterations))
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height))
	}
	if c.Telemetry.StatsWindow <= 0 {
		errs = append(errs, fmt.Errorf("telemetry.stats_window must be positive, got %g", c.Telemetry.StatsWindow))
	}
	if len(c.Species) != 2 {
		errs = append(errs, fmt.Errorf("exactly 2 species required, got %d", len(c.Species)))
	}
	for i, sp := range c.Species {
		if sp.Name == "" {
			errs = append(errs, fmt.Errorf("species[%d]: name is empty", i))
		}
		if len(sp.Color) != 3 {
			errs = append(errs, fmt.Errorf("species[%d]: color needs 3 components, got %d", i, len(sp.Color)))
			continue
		}
		for _, ch := range sp.Color {
			if ch < 0 || ch > 255 {
				errs = append(errs, fmt.Errorf("species[%d]: color component %d out of range", i, ch))
				break
			}
		}
	}
	if c.Seed.Enabled && c.Seed.Octaves <= 0 {
		errs = append(errs, fmt.Errorf("seed.octaves must be positive, got %d", c.Seed.Octaves))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.Diffusion32 = float32(c.Physics.Diffusion)
	c.Derived.Viscosity32 = float32(c.Physics.Viscosity)
	c.Derived.Force32 = float32(c.Input.Force)
	c.Derived.Source32 = float32(c.Input.Source)

	c.Derived.StatsWindowTicks = 1
	if c.Physics.DT > 0 && c.Telemetry.StatsWindow > 0 {
		if ticks := int(c.Telemetry.StatsWindow / c.Physics.DT); ticks > 1 {
			c.Derived.StatsWindowTicks = ticks
		}
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Species = make([]SpeciesConfig, len(c.Species))
	for i, sp := range c.Species {
		sp.Color = append([]int(nil), sp.Color...)
		cp.Species[i] = sp
	}
	return &cp
}

// Refresh recomputes derived values after fields were changed in code.
func (c *Config) Refresh() {
	c.computeDerived()
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
