package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fearfield/systems"
)

var mouseBindings = []struct {
	button rl.MouseButton
	mapped systems.Button
}{
	{rl.MouseButtonLeft, systems.ButtonPrimary},
	{rl.MouseButtonRight, systems.ButtonSecondary},
}

// pollInput turns this frame's window input into queued events.
func (g *Game) pollInput() {
	g.handleResize()

	// Letter key codes equal their uppercase ASCII value
	for _, b := range systems.KeyBindings {
		if rl.IsKeyPressed(int32(b.Key)) {
			g.queue.Push(systems.Event{Kind: b.Kind})
		}
	}

	mouse := rl.GetMousePosition()
	g.queue.Push(systems.Event{Kind: systems.EventPointerMove, X: mouse.X, Y: mouse.Y})

	for _, b := range mouseBindings {
		// Presses on the control panel belong to its buttons
		if rl.IsMouseButtonPressed(b.button) && !g.controls.Contains(mouse.X, mouse.Y) {
			g.queue.Push(systems.Event{Kind: systems.EventPointerDown, X: mouse.X, Y: mouse.Y, Button: b.mapped})
		}
		if rl.IsMouseButtonReleased(b.button) {
			g.queue.Push(systems.Event{Kind: systems.EventPointerUp, X: mouse.X, Y: mouse.Y, Button: b.mapped})
		}
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.viewport.Resize(w, h)
	g.layoutPanels()
}

// layoutPanels anchors the panels to the window's right edge.
func (g *Game) layoutPanels() {
	w := int32(g.screenWidth)
	g.perfPanel.SetPosition(w-210, 10)
	g.controls.SetPosition(g.screenWidth-160, 150)
}
