// Package camera maps between window pixels and grid cells.
package camera

// Viewport maps window pixels onto the N×N interior of the grid.
// Pixel space has its origin at the top-left corner with y growing down;
// grid space has (1,1) at the bottom-left interior cell with j growing up.
type Viewport struct {
	// Window dimensions in pixels
	Width, Height float32

	// Interior cells per axis
	N int
}

// New creates a viewport for a window of the given size over an N×N grid.
func New(width, height float32, n int) *Viewport {
	return &Viewport{Width: width, Height: height, N: n}
}

// Cell returns the grid cell under pixel (px, py).
// ok is false when the pixel falls outside the interior [1, N] on either axis.
func (v *Viewport) Cell(px, py float32) (i, j int, ok bool) {
	if v.Width <= 0 || v.Height <= 0 {
		return 0, 0, false
	}
	n := float32(v.N)
	fi := (px/v.Width)*n + 1
	fj := ((v.Height-py)/v.Height)*n + 1

	// Anything left of or below the first cell is out, including values
	// that truncate toward zero.
	if fi < 1 || fj < 1 {
		return 0, 0, false
	}
	i, j = int(fi), int(fj)
	if i > v.N || j > v.N {
		return 0, 0, false
	}
	return i, j, true
}

// CellSize returns the on-screen size of one cell.
func (v *Viewport) CellSize() (w, h float32) {
	if v.N <= 0 {
		return 0, 0
	}
	return v.Width / float32(v.N), v.Height / float32(v.N)
}

// GridToScreen returns the pixel position of grid point (i, j).
// Cell i spans pixels [(i-1)*w, i*w); its grid point sits at the center.
func (v *Viewport) GridToScreen(i, j int) (sx, sy float32) {
	w, h := v.CellSize()
	sx = (float32(i) - 0.5) * w
	sy = v.Height - (float32(j)-0.5)*h
	return sx, sy
}

// Resize updates the window dimensions.
func (v *Viewport) Resize(width, height float32) {
	v.Width = width
	v.Height = height
}
