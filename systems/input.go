package systems

import (
	"strings"

	"github.com/pthm-cable/fearfield/camera"
	"github.com/pthm-cable/fearfield/grid"
)

// Button identifies a pointer button.
type Button uint8

const (
	ButtonPrimary   Button = iota // injects force
	ButtonSecondary               // injects density
	numButtons
)

// EventKind enumerates user input events.
type EventKind uint8

const (
	EventPointerMove EventKind = iota
	EventPointerDown
	EventPointerUp
	EventClear
	EventQuit
	EventToggleDisplay
	EventToggleSpecies
	EventSnapshot
	EventToggleControls
)

// KeyBinding ties a letter key to the event it queues. Key is the uppercase
// letter, which is also the window layer's key code.
type KeyBinding struct {
	Key   rune
	Kind  EventKind
	Label string
}

// KeyBindings lists every keyboard control in legend order.
var KeyBindings = []KeyBinding{
	{'V', EventToggleDisplay, "view"},
	{'R', EventToggleSpecies, "species"},
	{'C', EventClear, "clear"},
	{'S', EventSnapshot, "snapshot"},
	{'H', EventToggleControls, "controls"},
	{'Q', EventQuit, "quit"},
}

// Legend describes the pointer buttons and KeyBindings on one line.
func Legend() string {
	parts := []string{"LMB: push", "RMB: add density"}
	for _, b := range KeyBindings {
		parts = append(parts, string(b.Key)+": "+b.Label)
	}
	return strings.Join(parts, " | ")
}

// Event is one queued user input.
type Event struct {
	Kind   EventKind
	X, Y   float32 // pointer position in pixels, for pointer events
	Button Button  // for EventPointerDown and EventPointerUp
}

// EventQueue buffers input between frames. The window layer pushes events as
// they arrive; the simulation drains them once, before the frame starts.
type EventQueue struct {
	events []Event
}

// Push appends an event.
func (q *EventQueue) Push(e Event) {
	q.events = append(q.events, e)
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int { return len(q.events) }

// Drain calls fn for each pending event in arrival order and empties the queue.
func (q *EventQueue) Drain(fn func(Event)) {
	for _, e := range q.events {
		fn(e)
	}
	q.events = q.events[:0]
}

// DisplayMode selects what the presentation layer draws.
type DisplayMode uint8

const (
	DisplayDensity DisplayMode = iota
	DisplayVelocity
)

// Toggle returns the other display mode.
func (m DisplayMode) Toggle() DisplayMode {
	if m == DisplayDensity {
		return DisplayVelocity
	}
	return DisplayDensity
}

func (m DisplayMode) String() string {
	if m == DisplayVelocity {
		return "velocity"
	}
	return "density"
}

// InputMapper turns pointer state into force and source injections for the
// selected species.
type InputMapper struct {
	Force  float32 // velocity per pixel of pointer displacement
	Source float32 // density written per frame while the source button is down

	prevX, prevY float32
	curX, curY   float32
	down         [numButtons]bool

	selected int
}

// NewInputMapper creates a mapper with species 0 selected.
func NewInputMapper(force, source float32) *InputMapper {
	return &InputMapper{Force: force, Source: source}
}

// Move records a new pointer position.
func (m *InputMapper) Move(x, y float32) {
	m.curX, m.curY = x, y
}

// Press marks a button down. The displacement restarts from the press point.
func (m *InputMapper) Press(b Button, x, y float32) {
	m.setButton(b, true, x, y)
}

// Release marks a button up.
func (m *InputMapper) Release(b Button, x, y float32) {
	m.setButton(b, false, x, y)
}

func (m *InputMapper) setButton(b Button, down bool, x, y float32) {
	m.curX, m.curY = x, y
	m.prevX, m.prevY = x, y
	if b < numButtons {
		m.down[b] = down
	}
}

// Down reports whether button b is held.
func (m *InputMapper) Down(b Button) bool {
	return b < numButtons && m.down[b]
}

// Selected returns the index of the species receiving injections.
func (m *InputMapper) Selected() int { return m.selected }

// ToggleSpecies cycles the selected species.
func (m *InputMapper) ToggleSpecies() {
	m.selected = (m.selected + 1) % grid.NumSpecies
}

// Handle applies a pointer event to the mapper state. Non-pointer events are
// ignored and reported as unhandled.
func (m *InputMapper) Handle(e Event) bool {
	switch e.Kind {
	case EventPointerMove:
		m.Move(e.X, e.Y)
	case EventPointerDown:
		m.Press(e.Button, e.X, e.Y)
	case EventPointerUp:
		m.Release(e.Button, e.X, e.Y)
	case EventToggleSpecies:
		m.ToggleSpecies()
	default:
		return false
	}
	return true
}

// Apply writes this frame's injection into the staging buffers fs of store.
// It writes nothing when no button is down or when the pointer maps outside
// the interior. The previous pointer position always advances to the current
// one. Returns whether a cell was written.
func (m *InputMapper) Apply(store *grid.Store, fs grid.FieldSet, vp *camera.Viewport) bool {
	defer func() {
		m.prevX, m.prevY = m.curX, m.curY
	}()

	force, source := m.down[ButtonPrimary], m.down[ButtonSecondary]
	if !force && !source {
		return false
	}

	grid.Require(vp.N == store.N(), "inject", "viewport N=%d does not match store N=%d", vp.N, store.N())
	i, j, ok := vp.Cell(m.curX, m.curY)
	if !ok {
		return false
	}
	idx := store.IX(i, j)

	if force {
		store.Field(fs.UPrev)[idx] = m.Force * (m.curX - m.prevX)
		store.Field(fs.VPrev)[idx] = m.Force * (m.prevY - m.curY)
	}
	if source {
		store.Field(fs.DensityPrev)[idx] = m.Source
	}
	return true
}
