package solver

import (
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/fearfield/grid"
)

// boundary selects how the ring cells mirror the interior.
type boundary uint8

const (
	boundScalar     boundary = iota // continuous on every wall
	boundHorizontal                 // x component, reflected on the left/right walls
	boundVertical                   // y component, reflected on the bottom/top walls
)

func vec(x []float32) blas32.Vector {
	return blas32.Vector{N: len(x), Inc: 1, Data: x}
}

// addSource computes x += dt*s.
func addSource(x, s []float32, dt float32) {
	blas32.Axpy(dt, vec(s), vec(x))
}

func setBoundary(n int, b boundary, x []float32) {
	ix := func(i, j int) int { return grid.IX(n, i, j) }

	for i := 1; i <= n; i++ {
		if b == boundHorizontal {
			x[ix(0, i)] = -x[ix(1, i)]
			x[ix(n+1, i)] = -x[ix(n, i)]
		} else {
			x[ix(0, i)] = x[ix(1, i)]
			x[ix(n+1, i)] = x[ix(n, i)]
		}
		if b == boundVertical {
			x[ix(i, 0)] = -x[ix(i, 1)]
			x[ix(i, n+1)] = -x[ix(i, n)]
		} else {
			x[ix(i, 0)] = x[ix(i, 1)]
			x[ix(i, n+1)] = x[ix(i, n)]
		}
	}

	x[ix(0, 0)] = 0.5 * (x[ix(1, 0)] + x[ix(0, 1)])
	x[ix(0, n+1)] = 0.5 * (x[ix(1, n+1)] + x[ix(0, n)])
	x[ix(n+1, 0)] = 0.5 * (x[ix(n, 0)] + x[ix(n+1, 1)])
	x[ix(n+1, n+1)] = 0.5 * (x[ix(n, n+1)] + x[ix(n+1, n)])
}

// linSolve runs Gauss-Seidel relaxation of x = (x0 + a*Σneighbors) / c.
func linSolve(n int, b boundary, x, x0 []float32, a, c float32, iters int) {
	invC := 1 / c
	stride := n + 2
	for k := 0; k < iters; k++ {
		for j := 1; j <= n; j++ {
			row := j * stride
			for i := 1; i <= n; i++ {
				p := row + i
				x[p] = (x0[p] + a*(x[p-1]+x[p+1]+x[p-stride]+x[p+stride])) * invC
			}
		}
		setBoundary(n, b, x)
	}
}

func diffuse(n int, b boundary, x, x0 []float32, diff, dt float32, iters int) {
	a := dt * diff * float32(n*n)
	linSolve(n, b, x, x0, a, 1+4*a, iters)
}

// advect traces each cell center back along (u, v) and samples d0 bilinearly.
func advect(n int, b boundary, d, d0, u, v []float32, dt float32) {
	ix := func(i, j int) int { return grid.IX(n, i, j) }
	dt0 := dt * float32(n)
	lo, hi := float32(0.5), float32(n)+0.5

	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			x := float32(i) - dt0*u[ix(i, j)]
			y := float32(j) - dt0*v[ix(i, j)]
			x = min(max(x, lo), hi)
			y = min(max(y, lo), hi)

			i0, j0 := int(x), int(y)
			i1, j1 := i0+1, j0+1
			s1 := x - float32(i0)
			s0 := 1 - s1
			t1 := y - float32(j0)
			t0 := 1 - t1

			d[ix(i, j)] = s0*(t0*d0[ix(i0, j0)]+t1*d0[ix(i0, j1)]) +
				s1*(t0*d0[ix(i1, j0)]+t1*d0[ix(i1, j1)])
		}
	}
	setBoundary(n, b, d)
}

// project removes the divergent part of (u, v). p and div are scratch.
func project(n int, u, v, p, div []float32, iters int) {
	ix := func(i, j int) int { return grid.IX(n, i, j) }
	h := 1 / float32(n)

	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			div[ix(i, j)] = -0.5 * h * (u[ix(i+1, j)] - u[ix(i-1, j)] + v[ix(i, j+1)] - v[ix(i, j-1)])
			p[ix(i, j)] = 0
		}
	}
	setBoundary(n, boundScalar, div)
	setBoundary(n, boundScalar, p)

	linSolve(n, boundScalar, p, div, 1, 4, iters)

	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			u[ix(i, j)] -= 0.5 * (p[ix(i+1, j)] - p[ix(i-1, j)]) / h
			v[ix(i, j)] -= 0.5 * (p[ix(i, j+1)] - p[ix(i, j-1)]) / h
		}
	}
	setBoundary(n, boundHorizontal, u)
	setBoundary(n, boundVertical, v)
}
