package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fearfield/components"
	"github.com/pthm-cable/fearfield/config"
	"github.com/pthm-cable/fearfield/grid"
)

// SpeciesRegistry holds one ECS entity per species. The entity carries the
// species' identity, fear coefficient, buffer handles and display tint.
type SpeciesRegistry struct {
	world *ecs.World

	mapper *ecs.Map4[components.Species, components.Fear, components.Fields, components.Tint]
	filter *ecs.Filter4[components.Species, components.Fear, components.Fields, components.Tint]

	speciesMap *ecs.Map1[components.Species]
	fearMap    *ecs.Map1[components.Fear]
	fieldsMap  *ecs.Map1[components.Fields]
	tintMap    *ecs.Map1[components.Tint]

	// Entities indexed by species slot
	entities [grid.NumSpecies]ecs.Entity
}

// NewSpeciesRegistry spawns one entity per configured species and binds it
// to the matching field set in store.
func NewSpeciesRegistry(store *grid.Store, species []config.SpeciesConfig) (*SpeciesRegistry, error) {
	if len(species) != grid.NumSpecies {
		return nil, fmt.Errorf("need %d species, got %d", grid.NumSpecies, len(species))
	}

	world := ecs.NewWorld()
	r := &SpeciesRegistry{
		world:      world,
		mapper:     ecs.NewMap4[components.Species, components.Fear, components.Fields, components.Tint](world),
		filter:     ecs.NewFilter4[components.Species, components.Fear, components.Fields, components.Tint](world),
		speciesMap: ecs.NewMap1[components.Species](world),
		fearMap:    ecs.NewMap1[components.Fear](world),
		fieldsMap:  ecs.NewMap1[components.Fields](world),
		tintMap:    ecs.NewMap1[components.Tint](world),
	}

	for k, sc := range species {
		sp := components.Species{Index: k, Name: sc.Name}
		fear := components.Fear{Coeff: float32(sc.Fear)}
		fields := components.Fields{FieldSet: store.Species(k)}
		tint := tintFromConfig(sc.Color)
		r.entities[k] = r.mapper.NewEntity(&sp, &fear, &fields, &tint)
	}

	return r, nil
}

func tintFromConfig(c []int) components.Tint {
	if len(c) != 3 {
		return components.Tint{R: 255, G: 255, B: 255}
	}
	return components.Tint{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2])}
}

// Len returns the number of species.
func (r *SpeciesRegistry) Len() int { return grid.NumSpecies }

// Entity returns the entity for species k.
func (r *SpeciesRegistry) Entity(k int) ecs.Entity {
	r.check(k)
	return r.entities[k]
}

// Name returns the display name of species k.
func (r *SpeciesRegistry) Name(k int) string {
	return r.speciesMap.Get(r.Entity(k)).Name
}

// Fields returns the buffer handles of species k.
func (r *SpeciesRegistry) Fields(k int) grid.FieldSet {
	return r.fieldsMap.Get(r.Entity(k)).FieldSet
}

// Fear returns the fear coefficient species k applies to the other's density.
func (r *SpeciesRegistry) Fear(k int) float32 {
	return r.fearMap.Get(r.Entity(k)).Coeff
}

// SetFear replaces the fear coefficient of species k.
func (r *SpeciesRegistry) SetFear(k int, coeff float32) {
	r.fearMap.Get(r.Entity(k)).Coeff = coeff
}

// Tint returns the display color of species k.
func (r *SpeciesRegistry) Tint(k int) components.Tint {
	return *r.tintMap.Get(r.Entity(k))
}

// Other returns the index of the species that is not k.
func (r *SpeciesRegistry) Other(k int) int {
	r.check(k)
	return (k + 1) % grid.NumSpecies
}

// Each calls fn for every species entity.
func (r *SpeciesRegistry) Each(fn func(sp *components.Species, fear *components.Fear, fields *components.Fields, tint *components.Tint)) {
	query := r.filter.Query()
	for query.Next() {
		fn(query.Get())
	}
}

func (r *SpeciesRegistry) check(k int) {
	grid.Require(k >= 0 && k < grid.NumSpecies, "species", "index %d out of range", k)
}
