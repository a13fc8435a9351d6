package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fearfield/components"
	"github.com/pthm-cable/fearfield/systems"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title    string
	Tick     int32
	FPS      int32
	Display  string
	Selected string // species receiving pointer input
	SimTime  float32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | t=%.1fs | FPS: %d", data.Tick, data.SimTime, data.FPS),
		10, 35, 14, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Showing %s | Placing %s", data.Display, data.Selected),
		10, 52, 14, rl.LightGray,
	)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-20, 12, rl.Gray)
}

// SpeciesStats holds the live statistics of one species, keyed by the IDs
// of components.SpeciesStatDescriptors.
type SpeciesStats struct {
	Name   string
	Color  rl.Color
	Values map[string]float64
}

// SpeciesPanel renders per-species statistics.
type SpeciesPanel struct {
	renderer    *Renderer
	descriptors []components.FieldDescriptor
	x, y        int32
	width       int32
}

// NewSpeciesPanel creates a species panel.
func NewSpeciesPanel(x, y, width int32) *SpeciesPanel {
	return &SpeciesPanel{
		renderer:    NewRenderer(),
		descriptors: components.SpeciesStatDescriptors(),
		x:           x,
		y:           y,
		width:       width,
	}
}

// SetPosition updates the panel position.
func (p *SpeciesPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel and returns the Y below it.
func (p *SpeciesPanel) Draw(species []SpeciesStats) int32 {
	r := p.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	rows := int32(len(species) * (len(p.descriptors) + 1))
	height := rows*lineHeight + padding*2
	r.DrawPanel(p.x, p.y, p.width, height)

	y := p.y + padding
	for _, sp := range species {
		y = r.DrawColorSwatch(p.x+padding, y, sp.Name, sp.Color)
		for _, fd := range p.descriptors {
			y = r.DrawLabelValue(p.x+padding, y, fd.Label, fmt.Sprintf(fd.Format, sp.Values[fd.ID]))
		}
	}
	return p.y + height
}

// PerfPanelData holds frame phase timings for display.
type PerfPanelData struct {
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64
	TickAvg  time.Duration
	Registry *systems.PhaseRegistry
}

// PerfPanel renders the per-phase performance breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders phases in frame order.
func (p *PerfPanel) Draw(data PerfPanelData) {
	r := p.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	phases := data.Registry.All()

	height := int32(len(phases)+2)*lineHeight + padding*2
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + padding
	y := r.DrawSectionHeader(x, p.y+padding, "Frame phases")
	y = r.DrawLabelValue(x, y, "Tick", data.TickAvg.Round(time.Microsecond).String())

	for _, phase := range phases {
		y = r.DrawBar(x, y, phase.Name, float32(data.PhasePct[phase.ID]/100), p.width-padding*2)
	}
}
