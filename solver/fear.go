package solver

// FearStep implements the interaction step shared by cross-species fear and
// intra-species cohesion. The velocity a cell gains is proportional to how
// much of the species is there (x) and to the local slope of y.
//
// coeff > 0 pushes down the slope of y (repulsion), coeff < 0 up it
// (attraction). Nothing is written when coeff is zero. u and v are only
// validated; the result accumulates into u0 and v0.
func (s *Stam) FearStep(n int, x, u, u0, v, v0, y []float32, coeff, dt float32) {
	checkShape("FearStep", n, x, u, u0, v, v0, y)
	if coeff == 0 {
		return
	}

	k := -coeff * dt
	stride := n + 2
	for j := 1; j <= n; j++ {
		row := j * stride
		for i := 1; i <= n; i++ {
			p := row + i
			w := x[p]
			if w == 0 {
				continue
			}
			gx := 0.5 * (y[p+1] - y[p-1])
			gy := 0.5 * (y[p+stride] - y[p-stride])
			u0[p] += k * w * gx
			v0[p] += k * w * gy
		}
	}
}
