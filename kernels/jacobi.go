package kernels

import (
	"math"

	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/types"
)

// JacobiInit sets u0 = u = energy*density inside the outer ring of cells and builds
// the conductivities. The energy and density halos must be current.
func JacobiInit(c *grid2D.Chunk, coefficient types.Coefficient, rx, ry float64) (err error) {
	if err = checkCoefficient(coefficient); err != nil {
		return
	}
	var (
		density = c.Field(types.Density)
		energy  = c.Field(types.Energy)
		u, u0   = c.Field(types.U), c.Field(types.U0)
		X       = c.X
	)
	forRows(1, c.Y-1, func(jj int) {
		for kk := 1; kk < X-1; kk++ {
			i := kk + jj*X
			u0[i] = energy[i] * density[i]
			u[i] = u0[i]
		}
	})
	setConductivity(c, coefficient, rx, ry)
	return
}

// JacobiIterate performs one Jacobi sweep, keeping the previous iterate in r, and
// returns the local sum of |u_new - u_old|. The u halo must be current.
func JacobiIterate(c *grid2D.Chunk) (errSum float64) {
	var (
		u, u0  = c.Field(types.U), c.Field(types.U0)
		r      = c.Field(types.R)
		kx, ky = c.Field(types.Kx), c.Field(types.Ky)
		X      = c.X
	)
	copy(r, u)
	errSum = sumRows(c, c.HaloDepth, c.Y-c.HaloDepth, func(jj int) (sum float64) {
		i1, i2 := interiorRow(c, jj)
		for i := i1; i < i2; i++ {
			u[i] = (u0[i] + (kx[i+1]*r[i+1] + kx[i]*r[i-1]) + (ky[i+X]*r[i+X] + ky[i]*r[i-X])) /
				(1 + (kx[i] + kx[i+1]) + (ky[i] + ky[i+X]))
			sum += math.Abs(u[i] - r[i])
		}
		return
	})
	return
}
