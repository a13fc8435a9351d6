package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/fearfield/grid"
)

// WindowStats holds aggregated statistics for a time window.
// Species are reported as a and b in store order.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Input during window
	ForceFrames  int `csv:"force_frames"`
	SourceFrames int `csv:"source_frames"`
	Clears       int `csv:"clears"`

	// Species a, sampled at window end
	MassA      float64 `csv:"mass_a"`
	PeakA      float64 `csv:"peak_a"`
	MaxSpeedA  float64 `csv:"max_speed_a"`
	SpeedP50A  float64 `csv:"speed_p50_a"`
	SpeedP90A  float64 `csv:"speed_p90_a"`
	CentroidAX float64 `csv:"centroid_a_x"`
	CentroidAY float64 `csv:"centroid_a_y"`

	// Species b, sampled at window end
	MassB      float64 `csv:"mass_b"`
	PeakB      float64 `csv:"peak_b"`
	MaxSpeedB  float64 `csv:"max_speed_b"`
	SpeedP50B  float64 `csv:"speed_p50_b"`
	SpeedP90B  float64 `csv:"speed_p90_b"`
	CentroidBX float64 `csv:"centroid_b_x"`
	CentroidBY float64 `csv:"centroid_b_y"`

	// Interaction
	CentroidDistance float64 `csv:"centroid_distance"` // in cells, 0 when either species is empty
	Overlap          float64 `csv:"overlap"`           // Σ min(a, b) over the interior
}

// SpeciesSample summarizes one species' fields at an instant.
type SpeciesSample struct {
	// Interior density magnitude total and the largest interior density
	Mass float64
	Peak float64

	// Speed over the interior; percentiles cover occupied cells only
	MaxSpeed float64
	SpeedP50 float64
	SpeedP90 float64

	// Density-weighted center, in cell coordinates
	CentroidX float64
	CentroidY float64

	// Interior cells with density > 0
	Occupied int
}

// InteriorPeak returns the largest interior density, 0 for an empty field.
func InteriorPeak(n int, d []float32) float64 {
	var peak float32
	stride := n + 2
	for j := 1; j <= n; j++ {
		for _, x := range d[j*stride+1 : j*stride+n+1] {
			if x > peak {
				peak = x
			}
		}
	}
	return float64(peak)
}

// SampleSpecies computes a SpeciesSample from density d and velocity (u, v)
// on an n×n interior.
func SampleSpecies(n int, d, u, v []float32) SpeciesSample {
	size := (n + 2) * (n + 2)
	grid.Require(len(d) == size && len(u) == size && len(v) == size,
		"sample", "buffers do not match n=%d", n)

	var s SpeciesSample
	s.Mass = InteriorMass(n, d)
	s.Peak = InteriorPeak(n, d)

	var speeds []float64
	var wx, wy float64
	stride := n + 2
	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			p := i + stride*j
			speed := math.Hypot(float64(u[p]), float64(v[p]))
			if speed > s.MaxSpeed {
				s.MaxSpeed = speed
			}
			if d[p] <= 0 {
				continue
			}
			s.Occupied++
			speeds = append(speeds, speed)
			wx += float64(d[p]) * float64(i)
			wy += float64(d[p]) * float64(j)
		}
	}

	if s.Mass > 0 {
		s.CentroidX = wx / s.Mass
		s.CentroidY = wy / s.Mass
	}
	sort.Float64s(speeds)
	s.SpeedP50 = Percentile(speeds, 0.50)
	s.SpeedP90 = Percentile(speeds, 0.90)
	return s
}

// InteriorMass sums |d| over the interior, one row at a time.
func InteriorMass(n int, d []float32) float64 {
	stride := n + 2
	var total float64
	for j := 1; j <= n; j++ {
		row := d[j*stride+1 : j*stride+1+n]
		total += float64(blas32.Asum(vec(row)))
	}
	return total
}

// Overlap sums min(a, b) over the interior: how much of the two species
// shares the same cells.
func Overlap(n int, a, b []float32) float64 {
	stride := n + 2
	var total float64
	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			p := i + stride*j
			total += float64(min(a[p], b[p]))
		}
	}
	return total
}

func vec(x []float32) blas32.Vector {
	return blas32.Vector{N: len(x), Inc: 1, Data: x}
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("force_frames", s.ForceFrames),
		slog.Int("source_frames", s.SourceFrames),
		slog.Int("clears", s.Clears),
		slog.Float64("mass_a", s.MassA),
		slog.Float64("mass_b", s.MassB),
		slog.Float64("peak_a", s.PeakA),
		slog.Float64("peak_b", s.PeakB),
		slog.Float64("max_speed_a", s.MaxSpeedA),
		slog.Float64("max_speed_b", s.MaxSpeedB),
		slog.Float64("centroid_distance", s.CentroidDistance),
		slog.Float64("overlap", s.Overlap),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"force_frames", s.ForceFrames,
		"source_frames", s.SourceFrames,
		"clears", s.Clears,
		"mass_a", s.MassA,
		"mass_b", s.MassB,
		"max_speed_a", s.MaxSpeedA,
		"max_speed_b", s.MaxSpeedB,
		"speed_p90_a", s.SpeedP90A,
		"speed_p90_b", s.SpeedP90B,
		"centroid_distance", s.CentroidDistance,
		"overlap", s.Overlap,
	)
}
