package systems

import (
	"github.com/aquilax/go-perlin"

	"github.com/pthm-cable/fearfield/config"
	"github.com/pthm-cable/fearfield/grid"
)

// SeedDensity fills the interior of each species' density field with
// thresholded Perlin noise. Species k draws from seed RandomSeed+k, so the two
// populations start in different places. Cells below the threshold stay
// empty. Boundary cells are left to the solver.
func SeedDensity(store *grid.Store, species *SpeciesRegistry, cfg config.SeedConfig) {
	grid.Require(!store.Released(), "seed", "store is released")

	n := store.N()
	span := 1 - cfg.Threshold
	if span <= 0 {
		span = 1
	}

	for k := 0; k < species.Len(); k++ {
		noise := perlin.NewPerlin(cfg.Alpha, cfg.Beta, cfg.Octaves, cfg.RandomSeed+int64(k))
		d := store.Field(species.Fields(k).Density)

		for j := 1; j <= n; j++ {
			for i := 1; i <= n; i++ {
				// Noise2D is roughly in [-1, 1]
				val := noise.Noise2D(float64(i)*cfg.Scale, float64(j)*cfg.Scale)
				if val <= cfg.Threshold {
					d[store.IX(i, j)] = 0
					continue
				}
				d[store.IX(i, j)] = float32(cfg.Amount * (val - cfg.Threshold) / span)
			}
		}
	}
}
