package components

// FieldDescriptor describes a per-species statistic for HUD display.
type FieldDescriptor struct {
	ID     string // Unique identifier
	Label  string // Display name
	Format string // Printf format (e.g., "%.2f")
}

// SpeciesStatDescriptors returns the statistics shown for every species.
func SpeciesStatDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "mass", Label: "Mass", Format: "%.1f"},
		{ID: "max_speed", Label: "Max speed", Format: "%.3f"},
		{ID: "fear", Label: "Fear", Format: "%+.5f"},
	}
}
