package systems

import (
	"strings"
	"testing"

	"github.com/pthm-cable/fearfield/grid"
)

func TestApplyWithoutButtonsWritesNothing(t *testing.T) {
	const n = 8
	store := newTestStore(t, n)
	m := NewInputMapper(5, 100)
	fs := store.Species(0)

	m.Move(pixelFor(n, 3, 3))
	if m.Apply(store, fs, testViewport(n)) {
		t.Error("Apply reported a write with no buttons down")
	}
	for _, h := range fs.Handles() {
		if cells := nonZeroCells(store.Field(h)); len(cells) != 0 {
			t.Errorf("handle %d written at %v", h, cells)
		}
	}
}

func TestApplyForceInjection(t *testing.T) {
	const n = 8
	store := newTestStore(t, n)
	m := NewInputMapper(5, 100)
	fs := store.Species(0)

	m.Press(ButtonPrimary, 12, 40)
	m.Move(20, 28) // cell (3, 5)
	if !m.Apply(store, fs, testViewport(n)) {
		t.Fatal("Apply did not write")
	}

	idx := store.IX(3, 5)
	u := store.Field(fs.UPrev)
	v := store.Field(fs.VPrev)
	if u[idx] != 5*(20-12) {
		t.Errorf("u = %f, want %f", u[idx], float32(5*(20-12)))
	}
	// y is inverted: pointer moved up the screen, so v is positive
	if v[idx] != 5*(40-28) {
		t.Errorf("v = %f, want %f", v[idx], float32(5*(40-28)))
	}

	for name, buf := range map[string][]float32{"u": u, "v": v} {
		cells := nonZeroCells(buf)
		if len(cells) != 1 || cells[0] != idx {
			t.Errorf("%s staging written at %v, want only %d", name, cells, idx)
		}
	}
	if cells := nonZeroCells(store.Field(fs.DensityPrev)); len(cells) != 0 {
		t.Errorf("density staging written at %v without the source button", cells)
	}
}

func TestApplySourceIgnoresDisplacement(t *testing.T) {
	const n = 8
	tests := []struct {
		name   string
		fromX  float32
		fromY  float32
		toCell [2]int
	}{
		{"still", 20, 28, [2]int{3, 5}},
		{"small move", 18, 30, [2]int{3, 5}},
		{"large move", 1, 1, [2]int{6, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore(t, n)
			m := NewInputMapper(5, 100)
			fs := store.Species(1)

			m.Press(ButtonSecondary, tc.fromX, tc.fromY)
			m.Move(pixelFor(n, tc.toCell[0], tc.toCell[1]))
			m.Apply(store, fs, testViewport(n))

			idx := store.IX(tc.toCell[0], tc.toCell[1])
			if got := store.Field(fs.DensityPrev)[idx]; got != 100 {
				t.Errorf("density = %f, want 100", got)
			}
			if cells := nonZeroCells(store.Field(fs.UPrev)); len(cells) != 0 {
				t.Errorf("velocity staging written at %v without the force button", cells)
			}
		})
	}
}

func TestApplyBothButtons(t *testing.T) {
	const n = 8
	store := newTestStore(t, n)
	m := NewInputMapper(2, 7)
	fs := store.Species(0)

	m.Press(ButtonPrimary, 20, 28)
	m.Press(ButtonSecondary, 20, 28)
	m.Move(28, 28) // cell (4, 5)
	m.Apply(store, fs, testViewport(n))

	idx := store.IX(4, 5)
	if store.Field(fs.UPrev)[idx] != 16 || store.Field(fs.DensityPrev)[idx] != 7 {
		t.Errorf("u = %f, d = %f, want 16 and 7", store.Field(fs.UPrev)[idx], store.Field(fs.DensityPrev)[idx])
	}
}

func TestApplyDiscardsOutsideInterior(t *testing.T) {
	const n = 8
	size := float32(n * cellPx)
	tests := []struct {
		name string
		x, y float32
	}{
		{"left", -3, 20},
		{"right", size, 20},
		{"far right", size + 50, 20},
		{"top", 20, 0},
		{"above", 20, -40},
		{"below", 20, size + 30},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore(t, n)
			m := NewInputMapper(5, 100)
			fs := store.Species(0)

			m.Press(ButtonPrimary, 20, 20)
			m.Press(ButtonSecondary, 20, 20)
			m.Move(tc.x, tc.y)
			if m.Apply(store, fs, testViewport(n)) {
				t.Error("Apply reported a write outside the interior")
			}
			for _, h := range fs.Handles() {
				if cells := nonZeroCells(store.Field(h)); len(cells) != 0 {
					t.Errorf("handle %d written at %v", h, cells)
				}
			}
		})
	}
}

func TestApplyAdvancesPreviousPosition(t *testing.T) {
	const n = 8
	vp := testViewport(n)

	t.Run("after write", func(t *testing.T) {
		store := newTestStore(t, n)
		m := NewInputMapper(1, 1)
		fs := store.Species(0)

		m.Press(ButtonPrimary, 12, 28)
		m.Move(20, 28)
		m.Apply(store, fs, vp)
		store.Clear()

		m.Move(23, 28)
		m.Apply(store, fs, vp)
		if got := store.Field(fs.UPrev)[store.IX(3, 5)]; got != 3 {
			t.Errorf("second displacement = %f, want 3", got)
		}
	})

	t.Run("after discard", func(t *testing.T) {
		store := newTestStore(t, n)
		m := NewInputMapper(1, 1)
		fs := store.Species(0)

		m.Press(ButtonPrimary, 20, 28)
		m.Move(-10, 28)
		m.Apply(store, fs, vp)

		m.Move(20, 28)
		m.Apply(store, fs, vp)
		if got := store.Field(fs.UPrev)[store.IX(3, 5)]; got != 30 {
			t.Errorf("displacement after discard = %f, want 30", got)
		}
	})

	t.Run("without buttons", func(t *testing.T) {
		store := newTestStore(t, n)
		m := NewInputMapper(1, 1)
		fs := store.Species(0)

		m.Press(ButtonPrimary, 20, 28)
		m.Release(ButtonPrimary, 20, 28)
		m.Move(40, 28)
		m.Apply(store, fs, vp)

		// Hold the button without pressing again so prev is not reset
		m.down[ButtonPrimary] = true
		m.Move(42, 28)
		m.Apply(store, fs, vp)
		if got := store.Field(fs.UPrev)[store.IX(6, 5)]; got != 2 {
			t.Errorf("displacement = %f, want 2", got)
		}
	})
}

func TestPressResetsDisplacement(t *testing.T) {
	const n = 8
	store := newTestStore(t, n)
	m := NewInputMapper(5, 100)
	fs := store.Species(0)

	m.Move(4, 4)
	m.Press(ButtonPrimary, 20, 28)
	m.Apply(store, fs, testViewport(n))

	if cells := nonZeroCells(store.Field(fs.UPrev)); len(cells) != 0 {
		t.Errorf("press wrote a displacement jump at %v", cells)
	}
}

func TestViewportMismatchPanics(t *testing.T) {
	store := newTestStore(t, 8)
	m := NewInputMapper(5, 100)
	m.Press(ButtonSecondary, 10, 10)

	defer func() {
		if _, ok := recover().(*grid.PreconditionViolation); !ok {
			t.Fatal("expected *grid.PreconditionViolation panic")
		}
	}()
	m.Apply(store, store.Species(0), testViewport(16))
}

func TestToggleSpeciesTwiceRestores(t *testing.T) {
	m := NewInputMapper(5, 100)
	start := m.Selected()

	m.ToggleSpecies()
	if m.Selected() == start {
		t.Fatal("toggle did not change selection")
	}
	m.ToggleSpecies()
	if m.Selected() != start {
		t.Errorf("selection = %d after two toggles, want %d", m.Selected(), start)
	}
}

func TestDisplayModeToggleTwiceRestores(t *testing.T) {
	for _, mode := range []DisplayMode{DisplayDensity, DisplayVelocity} {
		once := mode.Toggle()
		if once == mode {
			t.Errorf("%v: toggle did not change mode", mode)
		}
		if twice := once.Toggle(); twice != mode {
			t.Errorf("%v: two toggles gave %v", mode, twice)
		}
	}
}

func TestEventQueueDrainsInOrder(t *testing.T) {
	var q EventQueue
	q.Push(Event{Kind: EventPointerDown, Button: ButtonPrimary, X: 1, Y: 2})
	q.Push(Event{Kind: EventPointerMove, X: 3, Y: 4})
	q.Push(Event{Kind: EventClear})

	var kinds []EventKind
	q.Drain(func(e Event) { kinds = append(kinds, e.Kind) })

	want := []EventKind{EventPointerDown, EventPointerMove, EventClear}
	if len(kinds) != len(want) {
		t.Fatalf("drained %d events, want %d", len(kinds), len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, kinds[i], want[i])
		}
	}
	if q.Len() != 0 {
		t.Errorf("queue holds %d events after drain", q.Len())
	}
}

func TestHandlePointerEvents(t *testing.T) {
	m := NewInputMapper(5, 100)

	m.Handle(Event{Kind: EventPointerDown, Button: ButtonSecondary, X: 10, Y: 10})
	if !m.Down(ButtonSecondary) || m.Down(ButtonPrimary) {
		t.Error("secondary press not recorded")
	}
	m.Handle(Event{Kind: EventPointerUp, Button: ButtonSecondary, X: 10, Y: 10})
	if m.Down(ButtonSecondary) {
		t.Error("release not recorded")
	}
	if m.Handle(Event{Kind: EventQuit}) {
		t.Error("quit should not be handled by the mapper")
	}
}

func TestKeyBindingsAndLegend(t *testing.T) {
	legend := Legend()
	seen := map[rune]bool{}
	for _, b := range KeyBindings {
		if b.Key < 'A' || b.Key > 'Z' {
			t.Errorf("key %q is not an uppercase letter", b.Key)
		}
		if seen[b.Key] {
			t.Errorf("key %q bound twice", b.Key)
		}
		seen[b.Key] = true
		if want := string(b.Key) + ": " + b.Label; !strings.Contains(legend, want) {
			t.Errorf("legend %q missing %q", legend, want)
		}
	}
	for _, k := range "CQVRSH" {
		if !seen[k] {
			t.Errorf("no binding for %q", k)
		}
	}
	if !strings.HasPrefix(legend, "LMB: push | RMB: add density | ") {
		t.Errorf("legend %q does not start with the pointer buttons", legend)
	}
}

func TestProcessEventsToggleControls(t *testing.T) {
	o := newTestOrchestrator(t, 8, nil, Params{DT: 0.1})

	tests := []struct {
		toggles int
		want    bool
	}{
		{0, false},
		{1, true},
		{2, false},
		{3, true},
	}
	for _, tc := range tests {
		var q EventQueue
		for i := 0; i < tc.toggles; i++ {
			q.Push(Event{Kind: EventToggleControls})
		}
		if got := o.ProcessEvents(&q).ToggleControls; got != tc.want {
			t.Errorf("%d toggles: ToggleControls = %v, want %v", tc.toggles, got, tc.want)
		}
	}
}
