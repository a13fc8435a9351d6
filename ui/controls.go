package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fearfield/systems"
)

// ControlsLegend lists the keyboard and mouse bindings.
var ControlsLegend = systems.Legend()

// ControlsState is what the button labels reflect.
type ControlsState struct {
	Display  systems.DisplayMode
	Selected string
}

// ControlsPanel renders clickable buttons that queue the same events as
// the keyboard bindings.
type ControlsPanel struct {
	renderer *Renderer
	x, y     float32
	width    float32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width float32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y float32) {
	c.x = x
	c.y = y
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point lies on a visible button, so the
// caller can keep clicks on the panel from injecting into the fluid.
func (c *ControlsPanel) Contains(px, py float32) bool {
	if !c.visible {
		return false
	}
	h := c.renderer.Theme.ButtonHeight
	rec := rl.Rectangle{X: c.x, Y: c.y, Width: c.width, Height: h*4 + 6}
	return rl.CheckCollisionPointRec(rl.Vector2{X: px, Y: py}, rec)
}

// Draw renders the buttons and pushes an event for each one clicked.
func (c *ControlsPanel) Draw(state ControlsState, q *systems.EventQueue) {
	if !c.visible {
		return
	}

	h := c.renderer.Theme.ButtonHeight
	row := func(i int) rl.Rectangle {
		return rl.Rectangle{X: c.x, Y: c.y + float32(i)*(h+2), Width: c.width, Height: h}
	}

	view := "Show velocity"
	if state.Display == systems.DisplayVelocity {
		view = "Show density"
	}
	if gui.Button(row(0), view) {
		q.Push(systems.Event{Kind: systems.EventToggleDisplay})
	}
	if gui.Button(row(1), "Placing: "+state.Selected) {
		q.Push(systems.Event{Kind: systems.EventToggleSpecies})
	}
	if gui.Button(row(2), "Clear") {
		q.Push(systems.Event{Kind: systems.EventClear})
	}
	if gui.Button(row(3), "Snapshot") {
		q.Push(systems.Event{Kind: systems.EventSnapshot})
	}
}
