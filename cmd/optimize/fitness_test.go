package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/fearfield/config"
	"github.com/pthm-cable/fearfield/telemetry"
)

func TestParseTarget(t *testing.T) {
	for _, s := range []string{"segregation", "mixing"} {
		if _, err := ParseTarget(s); err != nil {
			t.Errorf("ParseTarget(%q): %v", s, err)
		}
	}
	if _, err := ParseTarget("chaos"); err == nil {
		t.Error("expected error for unknown target")
	}
}

func TestUnstable(t *testing.T) {
	tests := []struct {
		name  string
		stats telemetry.WindowStats
		want  bool
	}{
		{"calm", telemetry.WindowStats{MassA: 10, MassB: 10, MaxSpeedA: 1}, false},
		{"nan mass", telemetry.WindowStats{MassA: math.NaN()}, true},
		{"inf speed", telemetry.WindowStats{MaxSpeedB: math.Inf(1)}, true},
		{"too fast", telemetry.WindowStats{MaxSpeedA: maxStableSpeed + 1}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := unstable(tc.stats); got != tc.want {
				t.Errorf("unstable = %v, want %v", got, tc.want)
			}
		})
	}
}

func windows(overlap float64) []telemetry.WindowStats {
	ws := make([]telemetry.WindowStats, 6)
	for i := range ws {
		ws[i] = telemetry.WindowStats{MassA: 10, MassB: 10, Overlap: overlap, CentroidDistance: 5}
	}
	return ws
}

func TestComputeQualityFollowsTarget(t *testing.T) {
	seg := &FitnessEvaluator{target: TargetSegregation}
	mix := &FitnessEvaluator{target: TargetMixing}

	apart, together := windows(0), windows(10)

	if seg.computeQuality(apart) <= seg.computeQuality(together) {
		t.Error("segregation target does not prefer separated species")
	}
	if mix.computeQuality(together) <= mix.computeQuality(apart) {
		t.Error("mixing target does not prefer overlapping species")
	}

	// Fully separated, steady and mass-preserving scores 1
	if q := seg.computeQuality(apart); math.Abs(q-1) > 1e-9 {
		t.Errorf("ideal segregation quality = %v, want 1", q)
	}
	if q := seg.computeQuality(apart[:2]); q != 0 {
		t.Errorf("warmup-only quality = %v, want 0", q)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Grid.N = 12
	cfg.Physics.SolverIterations = 4
	cfg.Refresh()

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 12, []int64{1, 2}, cfg, TargetSegregation)
	fe.statsWindow = 0.2

	x := pv.DefaultVector()
	a := fe.Evaluate(x)
	b := fe.Evaluate(x)

	if a != b {
		t.Errorf("evaluations differ: %v vs %v", a, b)
	}
	if a != 1 && (a > 0 || a < -1) {
		t.Errorf("fitness %v outside [-1, 0] and not the unstable penalty", a)
	}
	if cfg.Species[0].Fear != pv.Specs[0].Default || cfg.Seed.Enabled {
		t.Error("evaluation mutated the base config")
	}
}
