package kernels

import (
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/types"
)

// CGInit starts a conjugate gradient solve: u = energy*density, conductivities from
// the density, r = u - Au, p = Mr. Returns the local r.Mr. The energy and density
// halos must be current.
func CGInit(c *grid2D.Chunk, coefficient types.Coefficient, precon types.Preconditioner,
	rx, ry float64) (rro float64, err error) {
	if err = checkCoefficient(coefficient); err != nil {
		return
	}
	var (
		density = c.Field(types.Density)
		energy  = c.Field(types.Energy)
		u       = c.Field(types.U)
		p       = c.Field(types.P)
		r       = c.Field(types.R)
		w       = c.Field(types.W)
		mi      = c.Field(types.Mi)
	)
	for i := range u {
		p[i] = 0
		r[i] = 0
		u[i] = energy[i] * density[i]
	}
	setConductivity(c, coefficient, rx, ry)
	setPreconditioner(c, precon)
	s := newStencil(c)
	rro = sumRows(c, c.HaloDepth, c.Y-c.HaloDepth, func(jj int) (sum float64) {
		i1, i2 := interiorRow(c, jj)
		for i := i1; i < i2; i++ {
			w[i] = s.apply(u, i)
			r[i] = u[i] - w[i]
			p[i] = mi[i] * r[i]
			sum += r[i] * p[i]
		}
		return
	})
	return
}

// CGCalcW computes w = Ap and returns the local p.w. The p halo must be current.
func CGCalcW(c *grid2D.Chunk) (pw float64) {
	var (
		p = c.Field(types.P)
		w = c.Field(types.W)
		s = newStencil(c)
	)
	pw = sumRows(c, c.HaloDepth, c.Y-c.HaloDepth, func(jj int) float64 {
		i1, i2 := interiorRow(c, jj)
		for i := i1; i < i2; i++ {
			w[i] = s.apply(p, i)
		}
		return floats.Dot(p[i1:i2], w[i1:i2])
	})
	return
}

// CGCalcUR advances u += alpha p, r -= alpha w and returns the local r.Mr.
func CGCalcUR(c *grid2D.Chunk, alpha float64) (rrn float64) {
	var (
		u, p = c.Field(types.U), c.Field(types.P)
		r, w = c.Field(types.R), c.Field(types.W)
		mi   = c.Field(types.Mi)
	)
	rrn = sumRows(c, c.HaloDepth, c.Y-c.HaloDepth, func(jj int) (sum float64) {
		i1, i2 := interiorRow(c, jj)
		floats.AddScaled(u[i1:i2], alpha, p[i1:i2])
		floats.AddScaled(r[i1:i2], -alpha, w[i1:i2])
		for i := i1; i < i2; i++ {
			sum += r[i] * mi[i] * r[i]
		}
		return
	})
	return
}

// CGCalcP sets the next search direction p = Mr + beta p.
func CGCalcP(c *grid2D.Chunk, beta float64) {
	var (
		p, r = c.Field(types.P), c.Field(types.R)
		mi   = c.Field(types.Mi)
	)
	forRows(c.HaloDepth, c.Y-c.HaloDepth, func(jj int) {
		i1, i2 := interiorRow(c, jj)
		for i := i1; i < i2; i++ {
			p[i] = mi[i]*r[i] + beta*p[i]
		}
	})
}
