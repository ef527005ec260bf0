package Diffusion2D

import (
	"math"

	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/kernels"
	"github.com/notargets/gotealeaf/types"
)

// ppcgDriver is CG with a Chebyshev polynomial smoother applied inside every outer
// iteration once the spectrum has been estimated.
func (d *Diffusion) ppcgDriver(res *StepResult, rx, ry float64) (err error) {
	var (
		rro      float64
		switched bool
	)
	if rro, err = d.cgInit(rx, ry); err != nil {
		return
	}
	if res.Error = rro; math.Abs(rro) < d.Eps {
		return
	}
	for tt := 0; tt < d.MaxIters; tt++ {
		if !switched {
			res.Error, err = d.cgMainStep(tt, &rro)
		} else {
			res.Error, err = d.ppcgMainStep(tt, &rro)
			res.PolyIterations++
		}
		if err != nil {
			return
		}
		if err = d.exchange(1, types.P); err != nil {
			return
		}
		res.Iterations = tt + 1
		if math.Abs(res.Error) < d.Eps {
			break
		}
		if !switched && d.switchToPolynomial(tt, res.Error) {
			if err = d.polyCoefficients(tt+1, d.PPCGInnerSteps, res); err != nil {
				return
			}
			switched = true
		}
	}
	return
}

// ppcgMainStep is one outer iteration: a CG update of u and r, the inner smoother,
// then the new search direction from the smoothed residual.
func (d *Diffusion) ppcgMainStep(tt int, rro *float64) (rrn float64, err error) {
	var (
		pw, alpha, beta float64
	)
	pw = d.sumChunks(kernels.CGCalcW)
	alpha = *rro / pw
	if err = checkBreakdown("ppcg", tt, alpha); err != nil {
		return
	}
	d.eachChunk(func(c *grid2D.Chunk) { kernels.CGCalcUR(c, alpha) })
	if err = d.ppcgInner(); err != nil {
		return
	}
	rrn = d.sumChunks(kernels.CalculatePreconditionedNorm)
	beta = rrn / *rro
	if err = checkBreakdown("ppcg", tt, beta); err != nil {
		return
	}
	d.eachChunk(func(c *grid2D.Chunk) { kernels.CGCalcP(c, beta) })
	*rro = rrn
	return
}

func (d *Diffusion) ppcgInner() (err error) {
	d.eachChunk(func(c *grid2D.Chunk) { kernels.PPCGInit(c, c.Theta) })
	if err = d.exchange(1, types.Sd); err != nil {
		return
	}
	for k := 0; k < d.PPCGInnerSteps; k++ {
		d.eachChunk(func(c *grid2D.Chunk) {
			kernels.PPCGInnerIteration(c, c.ChebyAlphas[k], c.ChebyBetas[k])
		})
		if err = d.exchange(1, types.Sd); err != nil {
			return
		}
	}
	return
}
