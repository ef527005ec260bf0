package Diffusion2D

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/utils"
)

// EstimateEigenvalues bounds the spectrum of the preconditioned operator from the
// first n CG coefficients. The CG recurrence is a Lanczos process whose tridiagonal
// has diagonal 1/alpha_i + beta_{i-1}/alpha_{i-1} and off diagonal sqrt(beta_i)/alpha_i.
// The extreme Ritz values are widened by 5% on either side.
func EstimateEigenvalues(alphas, betas []float64, n int) (eigMin, eigMax float64, err error) {
	if n < 1 || n > len(alphas) || n > len(betas) {
		err = fmt.Errorf("%w: cannot estimate eigenvalues from %d coefficients", ErrBreakdown, n)
		return
	}
	var (
		T  = mat.NewSymDense(n, nil)
		es mat.EigenSym
	)
	for i := 0; i < n; i++ {
		diag := 1 / alphas[i]
		if i > 0 {
			diag += betas[i-1] / alphas[i-1]
		}
		T.SetSym(i, i, diag)
		if i < n-1 {
			T.SetSym(i, i+1, math.Sqrt(betas[i])/alphas[i])
		}
	}
	if ok := es.Factorize(T, false); !ok {
		err = fmt.Errorf("%w: eigenvalue factorisation of the Lanczos tridiagonal failed", ErrBreakdown)
		return
	}
	vals := es.Values(nil)
	eigMin, eigMax = floats.Min(vals), floats.Max(vals)
	if eigMin < 0 || eigMax < 0 {
		err = fmt.Errorf("%w: negative eigenvalue estimate [%g, %g]", ErrBreakdown, eigMin, eigMax)
		return
	}
	eigMin *= 0.95
	eigMax *= 1.05
	if !utils.IsFinite(eigMin) || !utils.IsFinite(eigMax) || !(eigMax > eigMin) {
		err = fmt.Errorf("%w: degenerate eigenvalue estimate [%g, %g]", ErrBreakdown, eigMin, eigMax)
	}
	return
}

// ChebyCoefficients fills the first n Chebyshev recurrence coefficients for the
// interval [eigMin, eigMax] and returns the interval centre theta.
func ChebyCoefficients(eigMin, eigMax float64, alphas, betas []float64, n int) (theta float64) {
	var (
		delta  = 0.5 * (eigMax - eigMin)
		sigma  float64
		rhoOld float64
	)
	theta = 0.5 * (eigMax + eigMin)
	sigma = theta / delta
	rhoOld = 1 / sigma
	for k := 0; k < n; k++ {
		rhoNew := 1 / (2*sigma - rhoOld)
		alphas[k] = rhoNew * rhoOld
		betas[k] = 2 * rhoNew / delta
		rhoOld = rhoNew
	}
	return
}

// EstimateChebyIterations predicts the Chebyshev steps needed to reduce an error of
// err to eps*bb for a spectrum with condition number eigMax/eigMin. Zero is returned
// when no sensible estimate exists.
func EstimateChebyIterations(eigMin, eigMax, eps, bb, err float64) (est int) {
	var (
		cn    = eigMax / eigMin
		gamma = (math.Sqrt(cn) - 1) / (math.Sqrt(cn) + 1)
		ratio = math.Log(eps*bb/(4*err)) / (2 * math.Log(gamma))
	)
	if !utils.IsFinite(ratio) || ratio < 0 {
		return 0
	}
	est = int(math.Round(ratio))
	return
}

// polyCoefficients estimates the spectrum from the first n CG steps and fills in
// the Chebyshev coefficients of every chunk.
func (d *Diffusion) polyCoefficients(n, numCoefficients int, res *StepResult) (err error) {
	var (
		c0 = d.Chunks[0]
	)
	if res.EigMin, res.EigMax, err = EstimateEigenvalues(c0.CGAlphas, c0.CGBetas, n); err != nil {
		return
	}
	d.eachChunk(func(c *grid2D.Chunk) {
		c.EigMin, c.EigMax = res.EigMin, res.EigMax
		c.Theta = ChebyCoefficients(c.EigMin, c.EigMax, c.ChebyAlphas, c.ChebyBetas, numCoefficients)
	})
	d.Logger.WithFields(logrus.Fields{
		"cg_steps": n,
		"eig_min":  res.EigMin,
		"eig_max":  res.EigMax,
	}).Debug("switching to polynomial solver")
	return
}

// switchToPolynomial decides whether CG has run long enough to hand over.
func (d *Diffusion) switchToPolynomial(tt int, rrn float64) bool {
	return tt+1 >= d.Presteps && rrn < d.switchLimit()
}
