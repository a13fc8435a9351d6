package systems

import "github.com/pthm-cable/fearfield/telemetry"

// Phase identifiers, in the order the orchestrator runs them. They double as
// perf collector phase names.
const (
	PhaseReset    = telemetry.PhaseReset
	PhaseInject   = telemetry.PhaseInject
	PhaseFear     = telemetry.PhaseFear
	PhaseCohesion = telemetry.PhaseCohesion
	PhaseVelocity = telemetry.PhaseVelocity
	PhaseDensity  = telemetry.PhaseDensity
)

// PhaseInfo describes a frame phase for UI display.
type PhaseInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this phase does
	Category    string // Grouping (e.g., "staging", "coupling", "transport")
}

// PhaseRegistry holds metadata about all frame phases.
// This centralizes phase naming so the HUD and perf tracker stay in sync.
type PhaseRegistry struct {
	phases []PhaseInfo
	byID   map[string]PhaseInfo
}

// NewPhaseRegistry creates a registry with every orchestrator phase.
func NewPhaseRegistry() *PhaseRegistry {
	reg := &PhaseRegistry{
		byID: make(map[string]PhaseInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds the phases in execution order.
// Update this when the frame protocol changes.
func (r *PhaseRegistry) registerDefaults() {
	r.Register(PhaseInfo{ID: PhaseReset, Name: "Reset", Description: "Zeroes staging buffers", Category: "staging"})
	r.Register(PhaseInfo{ID: PhaseInject, Name: "Inject", Description: "Writes pointer force and source", Category: "staging"})

	r.Register(PhaseInfo{ID: PhaseFear, Name: "Fear", Description: "Cross-species attraction and repulsion", Category: "coupling"})
	r.Register(PhaseInfo{ID: PhaseCohesion, Name: "Cohesion", Description: "Intra-species clustering", Category: "coupling"})

	r.Register(PhaseInfo{ID: PhaseVelocity, Name: "Velocity", Description: "Diffuses, advects and projects velocity", Category: "transport"})
	r.Register(PhaseInfo{ID: PhaseDensity, Name: "Density", Description: "Diffuses and advects density", Category: "transport"})
}

// Register adds a phase to the registry.
func (r *PhaseRegistry) Register(info PhaseInfo) {
	r.phases = append(r.phases, info)
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *PhaseRegistry) Get(id string) (PhaseInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *PhaseRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered phases.
func (r *PhaseRegistry) All() []PhaseInfo {
	return r.phases
}

// ByCategory returns phases filtered by category.
func (r *PhaseRegistry) ByCategory(category string) []PhaseInfo {
	var result []PhaseInfo
	for _, info := range r.phases {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// IDs returns all phase IDs in execution order.
func (r *PhaseRegistry) IDs() []string {
	ids := make([]string, len(r.phases))
	for i, info := range r.phases {
		ids[i] = info.ID
	}
	return ids
}
