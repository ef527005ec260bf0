package Diffusion2D

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/types"
	"github.com/notargets/gotealeaf/utils"
)

// OperatorResidual measures |u0 - Au|^2 with A assembled independently of the
// kernels as a sparse matrix from each chunk's conductivities. The u halo must be
// current.
func (d *Diffusion) OperatorResidual() (rr float64, err error) {
	if err = d.forEachChunk(func(n int, c *grid2D.Chunk) (err error) {
		d.partials[n], err = chunkOperatorResidual(c)
		return
	}); err != nil {
		return
	}
	rr = floats.Sum(d.partials)
	return
}

func chunkOperatorResidual(c *grid2D.Chunk) (rr float64, err error) {
	var (
		A  = utils.NewStencilOperator(c.X, c.Y, c.HaloDepth, c.Field(types.Kx), c.Field(types.Ky))
		Au = make([]float64, c.Nx*c.Ny)
	)
	if err = A.MulVec(Au, c.Field(types.U)); err != nil {
		err = fmt.Errorf("chunk %d: %w", c.ID, err)
		return
	}
	floats.Sub(Au, c.InteriorValues(types.U0))
	rr = floats.Dot(Au, Au)
	return
}
