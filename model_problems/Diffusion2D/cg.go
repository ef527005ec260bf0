package Diffusion2D

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/kernels"
	"github.com/notargets/gotealeaf/types"
)

// cgInit starts every CG family solve and returns the global r.Mr.
func (d *Diffusion) cgInit(rx, ry float64) (rro float64, err error) {
	if err = d.forEachChunk(func(n int, c *grid2D.Chunk) (err error) {
		d.partials[n], err = kernels.CGInit(c, d.Coefficient, d.Preconditioner, rx, ry)
		return
	}); err != nil {
		return
	}
	rro = floats.Sum(d.partials)
	if err = d.exchange(1, types.U, types.P); err != nil {
		return
	}
	d.eachChunk(kernels.CopyU)
	return
}

// cgMainStep is one CG iteration. The step's alpha and beta are recorded for the
// eigenvalue estimate, rro is advanced to the new r.Mr which is also returned.
func (d *Diffusion) cgMainStep(tt int, rro *float64) (rrn float64, err error) {
	var (
		pw, alpha, beta float64
	)
	pw = d.sumChunks(kernels.CGCalcW)
	alpha = *rro / pw
	if err = checkBreakdown("cg", tt, alpha); err != nil {
		return
	}
	rrn = d.sumChunks(func(c *grid2D.Chunk) float64 { return kernels.CGCalcUR(c, alpha) })
	beta = rrn / *rro
	if err = checkBreakdown("cg", tt, beta); err != nil {
		return
	}
	d.eachChunk(func(c *grid2D.Chunk) {
		c.CGAlphas[tt], c.CGBetas[tt] = alpha, beta
		kernels.CGCalcP(c, beta)
	})
	*rro = rrn
	return
}

func (d *Diffusion) cgDriver(res *StepResult, rx, ry float64) (err error) {
	var rro float64
	if rro, err = d.cgInit(rx, ry); err != nil {
		return
	}
	if res.Error = rro; math.Abs(rro) < d.Eps {
		return
	}
	for tt := 0; tt < d.MaxIters; tt++ {
		if res.Error, err = d.cgMainStep(tt, &rro); err != nil {
			return
		}
		res.Iterations = tt + 1
		if err = d.exchange(1, types.P); err != nil {
			return
		}
		if math.Abs(res.Error) < d.Eps {
			break
		}
	}
	return
}
