package Diffusion2D

import (
	"math"

	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/kernels"
	"github.com/notargets/gotealeaf/types"
)

// jacobiResidualInterval is how often the sweep difference is replaced by the true
// residual norm as the error.
const jacobiResidualInterval = 50

func (d *Diffusion) jacobiDriver(res *StepResult, rx, ry float64) (err error) {
	if err = d.forEachChunk(func(_ int, c *grid2D.Chunk) error {
		return kernels.JacobiInit(c, d.Coefficient, rx, ry)
	}); err != nil {
		return
	}
	d.eachChunk(kernels.CopyU)
	if err = d.exchange(1, types.U); err != nil {
		return
	}
	for tt := 0; tt < d.MaxIters; tt++ {
		res.Error = d.sumChunks(kernels.JacobiIterate)
		if tt%jacobiResidualInterval == 0 {
			if err = d.exchange(1, types.U); err != nil {
				return
			}
			d.eachChunk(kernels.CalculateResidual)
			res.Error = d.sumChunks(func(c *grid2D.Chunk) float64 { return kernels.Calculate2Norm(c, types.R) })
		}
		if err = checkBreakdown("jacobi", tt, res.Error); err != nil {
			return
		}
		if err = d.exchange(1, types.U); err != nil {
			return
		}
		res.Iterations = tt + 1
		if math.Abs(res.Error) < d.Eps {
			break
		}
	}
	return
}
