package Diffusion2D

import (
	"math"

	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/kernels"
	"github.com/notargets/gotealeaf/types"
)

// chebyNormInterval is how often, in outer iterations, the Chebyshev error is
// recomputed once past the estimated iteration count.
const chebyNormInterval = 10

// chebyDriver runs CG until the spectrum can be estimated, then switches to the
// Chebyshev iteration, which needs no global reductions except the occasional norm.
func (d *Diffusion) chebyDriver(res *StepResult, rx, ry float64) (err error) {
	var (
		rro, bb  float64
		switched bool
		nCheby   int // Chebyshev steps, the first one being the initial step
	)
	if rro, err = d.cgInit(rx, ry); err != nil {
		return
	}
	if res.Error = rro; math.Abs(rro) < d.Eps {
		return
	}
	for tt := 0; tt < d.MaxIters; tt++ {
		switch {
		case !switched:
			if res.Error, err = d.cgMainStep(tt, &rro); err != nil {
				return
			}
			err = d.exchange(1, types.P)
		case nCheby == 0:
			nCheby++
			if bb, res.Error, err = d.chebyInit(); err != nil {
				return
			}
			res.EstimatedIterations = EstimateChebyIterations(res.EigMin, res.EigMax, d.Eps, bb, res.Error)
		default:
			var (
				calcNorm = nCheby+1 >= res.EstimatedIterations && (tt+1)%chebyNormInterval == 0
				rrn      float64
			)
			if rrn, err = d.chebyMainStep(nCheby-1, calcNorm); err != nil {
				return
			}
			nCheby++
			if calcNorm {
				res.Error = rrn
			}
		}
		if err != nil {
			return
		}
		res.Iterations = tt + 1
		if math.Abs(res.Error) < d.Eps {
			break
		}
		if !switched && d.switchToPolynomial(tt, res.Error) {
			if err = d.polyCoefficients(tt+1, d.MaxIters, res); err != nil {
				return
			}
			switched = true
		}
	}
	res.PolyIterations = nCheby
	return
}

// chebyInit takes the first Chebyshev step, returning |u0|^2 and the residual r.r.
func (d *Diffusion) chebyInit() (bb, rrn float64, err error) {
	if err = d.exchange(1, types.U); err != nil {
		return
	}
	bb = d.sumChunks(func(c *grid2D.Chunk) float64 { return kernels.Calculate2Norm(c, types.U0) })
	d.eachChunk(func(c *grid2D.Chunk) { kernels.ChebyInit(c, c.Theta) })
	if err = d.exchange(1, types.U); err != nil {
		return
	}
	rrn = d.sumChunks(func(c *grid2D.Chunk) float64 { return kernels.Calculate2Norm(c, types.R) })
	return
}

// chebyMainStep applies coefficient k of the recurrence. The residual norm is only
// reduced when asked for.
func (d *Diffusion) chebyMainStep(k int, calcNorm bool) (rrn float64, err error) {
	d.eachChunk(func(c *grid2D.Chunk) { kernels.ChebyIterate(c, c.ChebyAlphas[k], c.ChebyBetas[k]) })
	if err = d.exchange(1, types.U); err != nil {
		return
	}
	if calcNorm {
		d.eachChunk(kernels.CalculateResidual)
		rrn = d.sumChunks(func(c *grid2D.Chunk) float64 { return kernels.Calculate2Norm(c, types.R) })
	}
	return
}
