package kernels

import (
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/types"
)

// ChebyInit takes the first Chebyshev step: r = u0 - Au, p = Mr/theta, u += p.
// The u halo must be current.
func ChebyInit(c *grid2D.Chunk, theta float64) {
	var (
		u, u0 = c.Field(types.U), c.Field(types.U0)
		p, r  = c.Field(types.P), c.Field(types.R)
		w, mi = c.Field(types.W), c.Field(types.Mi)
		s     = newStencil(c)
	)
	forRows(c.HaloDepth, c.Y-c.HaloDepth, func(jj int) {
		i1, i2 := interiorRow(c, jj)
		for i := i1; i < i2; i++ {
			w[i] = s.apply(u, i)
			r[i] = u0[i] - w[i]
			p[i] = mi[i] * r[i] / theta
		}
	})
	chebyCalcU(c)
}

// ChebyIterate applies one step of the Chebyshev recurrence with the caller's
// coefficients: r = u0 - Au, p = alpha p + beta Mr, u += p.
func ChebyIterate(c *grid2D.Chunk, alpha, beta float64) {
	var (
		u, u0 = c.Field(types.U), c.Field(types.U0)
		p, r  = c.Field(types.P), c.Field(types.R)
		w, mi = c.Field(types.W), c.Field(types.Mi)
		s     = newStencil(c)
	)
	forRows(c.HaloDepth, c.Y-c.HaloDepth, func(jj int) {
		i1, i2 := interiorRow(c, jj)
		for i := i1; i < i2; i++ {
			w[i] = s.apply(u, i)
			r[i] = u0[i] - w[i]
			p[i] = alpha*p[i] + beta*mi[i]*r[i]
		}
	})
	chebyCalcU(c)
}

// u is only updated once every row has read it.
func chebyCalcU(c *grid2D.Chunk) {
	var (
		u, p = c.Field(types.U), c.Field(types.P)
	)
	forRows(c.HaloDepth, c.Y-c.HaloDepth, func(jj int) {
		i1, i2 := interiorRow(c, jj)
		floats.Add(u[i1:i2], p[i1:i2])
	})
}
