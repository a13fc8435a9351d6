package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/fearfield/config"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()

	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-12 {
			t.Errorf("%s: %v after round trip, want %v", pv.Specs[i].Name, back[i], def[i])
		}
	}
}

func TestParamVectorClamp(t *testing.T) {
	pv := NewParamVector()
	got := pv.Clamp([]float64{-1, 1, -1, 1})
	want := []float64{-0.002, 0.002, 0, 0.0005}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s clamped to %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestApplyToConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()

	if got := pv.ExtractFromConfig(cfg); len(got) != pv.Dim() {
		t.Fatalf("extracted %d values, want %d", len(got), pv.Dim())
	}
	for i, v := range pv.ExtractFromConfig(cfg) {
		if v != pv.Specs[i].Default {
			t.Errorf("%s default %v does not match config %v", pv.Specs[i].Name, pv.Specs[i].Default, v)
		}
	}

	pv.ApplyToConfig(cfg, []float64{0.001, -0.001, 0.0001, 0.0002})

	if cfg.Species[0].Fear != 0.001 || cfg.Species[1].Fear != -0.001 {
		t.Errorf("fears = %v/%v", cfg.Species[0].Fear, cfg.Species[1].Fear)
	}
	if cfg.Derived.Viscosity32 != float32(0.0002) {
		t.Errorf("derived viscosity = %v, want refresh after apply", cfg.Derived.Viscosity32)
	}
}
