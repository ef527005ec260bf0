package kernels

import (
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/types"
)

// PPCGInit seeds the polynomial smoother direction sd = Mr/theta.
func PPCGInit(c *grid2D.Chunk, theta float64) {
	var (
		sd, r = c.Field(types.Sd), c.Field(types.R)
		mi    = c.Field(types.Mi)
	)
	forRows(c.HaloDepth, c.Y-c.HaloDepth, func(jj int) {
		i1, i2 := interiorRow(c, jj)
		for i := i1; i < i2; i++ {
			sd[i] = mi[i] * r[i] / theta
		}
	})
}

// PPCGInnerIteration is one smoother sub step: r -= A sd, u += sd, then
// sd = alpha sd + beta Mr. The sd halo must be current.
func PPCGInnerIteration(c *grid2D.Chunk, alpha, beta float64) {
	var (
		u, r   = c.Field(types.U), c.Field(types.R)
		sd, mi = c.Field(types.Sd), c.Field(types.Mi)
		s      = newStencil(c)
	)
	forRows(c.HaloDepth, c.Y-c.HaloDepth, func(jj int) {
		i1, i2 := interiorRow(c, jj)
		for i := i1; i < i2; i++ {
			r[i] -= s.apply(sd, i)
		}
		floats.Add(u[i1:i2], sd[i1:i2])
	})
	forRows(c.HaloDepth, c.Y-c.HaloDepth, func(jj int) {
		i1, i2 := interiorRow(c, jj)
		for i := i1; i < i2; i++ {
			sd[i] = alpha*sd[i] + beta*mi[i]*r[i]
		}
	})
}
