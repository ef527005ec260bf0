package kernels

import (
	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/types"
)

// CopyU snapshots the interior of u into u0.
func CopyU(c *grid2D.Chunk) {
	var (
		u, u0 = c.Field(types.U), c.Field(types.U0)
	)
	forRows(c.HaloDepth, c.Y-c.HaloDepth, func(jj int) {
		i1, i2 := interiorRow(c, jj)
		copy(u0[i1:i2], u[i1:i2])
	})
}

// CalculateResidual recomputes r = u0 - Au from scratch. The u halo must be current.
func CalculateResidual(c *grid2D.Chunk) {
	var (
		u, u0 = c.Field(types.U), c.Field(types.U0)
		r     = c.Field(types.R)
		s     = newStencil(c)
	)
	forRows(c.HaloDepth, c.Y-c.HaloDepth, func(jj int) {
		i1, i2 := interiorRow(c, jj)
		for i := i1; i < i2; i++ {
			r[i] = u0[i] - s.apply(u, i)
		}
	})
}

// StoreEnergy keeps the end of step energy as the start of the next step.
func StoreEnergy(c *grid2D.Chunk) {
	copy(c.Field(types.Energy0), c.Field(types.Energy))
}

// RestoreEnergy resets energy to the stored energy0, used to seed the first step.
func RestoreEnergy(c *grid2D.Chunk) {
	copy(c.Field(types.Energy), c.Field(types.Energy0))
}

// Finalise converts the solved temperature back into energy, energy = u/density.
func Finalise(c *grid2D.Chunk) {
	var (
		u       = c.Field(types.U)
		density = c.Field(types.Density)
		energy  = c.Field(types.Energy)
	)
	forRows(c.HaloDepth, c.Y-c.HaloDepth, func(jj int) {
		i1, i2 := interiorRow(c, jj)
		for i := i1; i < i2; i++ {
			energy[i] = u[i] / density[i]
		}
	})
}
