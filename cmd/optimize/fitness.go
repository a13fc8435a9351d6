package main

import (
	"fmt"
	"math"
	"sync"

	"github.com/pthm-cable/fearfield/config"
	"github.com/pthm-cable/fearfield/grid"
	"github.com/pthm-cable/fearfield/systems"
	"github.com/pthm-cable/fearfield/telemetry"
)

// Target selects the behavior the optimizer rewards.
type Target string

const (
	TargetSegregation Target = "segregation" // species keep apart
	TargetMixing      Target = "mixing"      // species share cells
)

// ParseTarget validates a -target flag value.
func ParseTarget(s string) (Target, error) {
	switch t := Target(s); t {
	case TargetSegregation, TargetMixing:
		return t, nil
	}
	return "", fmt.Errorf("unknown target %q (want %s or %s)", s, TargetSegregation, TargetMixing)
}

// FitnessEvaluator runs headless simulations and computes fitness.
// Each seed runs in its own simulation context, concurrently.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	target      Target
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config, target Target) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		target:      target,
		statsWindow: 1.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Runs whose speed exceeds this many cells per time unit count as unstable.
const maxStableSpeed = 50.0

// runResult holds the results from a single simulation run.
type runResult struct {
	windowStats []telemetry.WindowStats
	unstable    bool
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Fitness is the negated mean quality across seeds; unstable runs score 1.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r, err := fe.runSimulation(x, s)
			if err != nil || r.unstable {
				results[idx] = -1
				return
			}
			results[idx] = fe.computeQuality(r.windowStats)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, q := range results {
		if q < 0 {
			fe.setLastQuality(0)
			return 1
		}
		total += q
	}
	quality := total / float64(len(results))
	fe.setLastQuality(quality)

	return -quality
}

func (fe *FitnessEvaluator) setLastQuality(q float64) {
	fe.mu.Lock()
	fe.lastQuality = q
	fe.mu.Unlock()
}

// runSimulation executes a single headless run from a noise-seeded start.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) (*runResult, error) {
	cfg := fe.baseConfig.Clone()
	cfg.Seed.Enabled = true
	cfg.Seed.RandomSeed = seed
	fe.params.ApplyToConfig(cfg, x)

	orch, err := systems.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	store := orch.Store()
	defer store.Release()

	var fields [grid.NumSpecies]grid.FieldSet
	for k := range fields {
		fields[k] = orch.Species().Fields(k)
	}

	collector := telemetry.NewCollector(fe.statsWindow, cfg.Derived.DT32)
	result := &runResult{}

	for tick := int32(1); tick <= fe.maxTicks; tick++ {
		orch.Step()

		if !collector.ShouldFlush(tick) {
			continue
		}
		stats := collector.Flush(tick, store, fields)
		if unstable(stats) {
			result.unstable = true
			return result, nil
		}
		result.windowStats = append(result.windowStats, stats)
	}

	return result, nil
}

// unstable reports a blown-up window.
func unstable(s telemetry.WindowStats) bool {
	for _, v := range []float64{s.MassA, s.MassB, s.MaxSpeedA, s.MaxSpeedB} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return s.MaxSpeedA > maxStableSpeed || s.MaxSpeedB > maxStableSpeed
}

// Quality component weights.
const (
	qualityWeightTarget    = 0.6
	qualityWeightStability = 0.2
	qualityWeightRetention = 0.2

	qualityWarmupWindows = 2 // skip first N windows
)

// computeQuality scores a run in [0, 1].
// The target term rewards low (segregation) or high (mixing) overlap
// relative to the smaller species, stability rewards a steady centroid
// distance and retention rewards keeping the seeded mass in the box.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	initialMass := windows[0].MassA + windows[0].MassB
	var targetSum float64
	var targetCount int
	distances := make([]float64, 0, len(valid))

	for _, w := range valid {
		smaller := math.Min(w.MassA, w.MassB)
		if smaller <= 0 {
			continue
		}
		ratio := clamp01(w.Overlap / smaller)
		if fe.target == TargetMixing {
			targetSum += ratio
		} else {
			targetSum += 1 - ratio
		}
		targetCount++
		distances = append(distances, w.CentroidDistance)
	}

	if targetCount == 0 {
		return 0
	}
	targetScore := targetSum / float64(targetCount)

	stabilityScore := 0.0
	if len(distances) >= 2 {
		c := cv(distances)
		stabilityScore = math.Exp(-c * c)
	}

	retentionScore := 0.0
	if initialMass > 0 {
		last := valid[len(valid)-1]
		retentionScore = clamp01((last.MassA + last.MassB) / initialMass)
	}

	quality := qualityWeightTarget*targetScore +
		qualityWeightStability*stabilityScore +
		qualityWeightRetention*retentionScore

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	n := float64(len(values))
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	if mean == 0 {
		return 0
	}
	var sqDiff float64
	for _, v := range values {
		d := v - mean
		sqDiff += d * d
	}
	return math.Sqrt(sqDiff/n) / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
