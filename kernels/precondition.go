package kernels

import (
	"fmt"

	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/types"
)

// setPreconditioner fills mi on the interior: the inverse operator diagonal for
// jac_diag, one otherwise. Needs kx and ky.
func setPreconditioner(c *grid2D.Chunk, precon types.Preconditioner) {
	var (
		mi = c.Field(types.Mi)
		s  = newStencil(c)
	)
	switch precon {
	case types.PreconNone, types.PreconJacDiag:
	default:
		panic(fmt.Sprintf("unknown preconditioner %d", precon))
	}
	forRows(c.HaloDepth, c.Y-c.HaloDepth, func(jj int) {
		i1, i2 := interiorRow(c, jj)
		for i := i1; i < i2; i++ {
			if precon == types.PreconJacDiag {
				mi[i] = 1 / s.diagonal(i)
			} else {
				mi[i] = 1
			}
		}
	})
}
