// Package kernels holds the per chunk numerical kernels of the diffusion solvers.
// Every kernel works on one chunk, reads halos the caller has already refreshed and
// returns local partial reductions for the caller to combine across chunks. None
// of them log, allocate or communicate.
package kernels

import (
	"errors"
	"fmt"

	"github.com/exascience/pargo/parallel"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/types"
)

var ErrCoefficient = errors.New("unknown conductivity coefficient")

func checkCoefficient(coefficient types.Coefficient) (err error) {
	if coefficient != types.Conductivity && coefficient != types.RecipConductivity {
		err = fmt.Errorf("%w: %d", ErrCoefficient, coefficient)
	}
	return
}

// stencil applies the implicit diffusion operator
//
//	(Ax)_i = (1 + kx[i+1] + kx[i] + ky[i+X] + ky[i]) x_i
//	         - kx[i+1] x_{i+1} - kx[i] x_{i-1} - ky[i+X] x_{i+X} - ky[i] x_{i-X}
type stencil struct {
	kx, ky []float64
	X      int
}

func newStencil(c *grid2D.Chunk) stencil {
	return stencil{kx: c.Field(types.Kx), ky: c.Field(types.Ky), X: c.X}
}

func (s stencil) apply(a []float64, i int) float64 {
	var (
		kx, ky, X = s.kx, s.ky, s.X
	)
	return (1+(kx[i+1]+kx[i])+(ky[i+X]+ky[i]))*a[i] -
		(kx[i+1]*a[i+1]+kx[i]*a[i-1]) -
		(ky[i+X]*a[i+X]+ky[i]*a[i-X])
}

func (s stencil) diagonal(i int) float64 {
	return 1 + (s.kx[i+1] + s.kx[i]) + (s.ky[i+s.X] + s.ky[i])
}

// forRows runs body on every row in [j1,j2), batches of rows run in parallel.
func forRows(j1, j2 int, body func(jj int)) {
	if j2 <= j1 {
		return
	}
	parallel.Range(j1, j2, 0, func(low, high int) {
		for jj := low; jj < high; jj++ {
			body(jj)
		}
	})
}

// sumRows adds up a per row reduction. Partials land in the chunk scratch and are
// summed in row order, so the result does not depend on the batching.
func sumRows(c *grid2D.Chunk, j1, j2 int, rowSum func(jj int) float64) float64 {
	partials := c.RowPartials[:j2-j1]
	forRows(j1, j2, func(jj int) {
		partials[jj-j1] = rowSum(jj)
	})
	return floats.Sum(partials)
}

// interiorRow returns the half open index range of row jj's interior cells.
func interiorRow(c *grid2D.Chunk, jj int) (i1, i2 int) {
	i1 = c.HaloDepth + jj*c.X
	i2 = c.X - c.HaloDepth + jj*c.X
	return
}

// setConductivity builds the face conductivities from the cell density. kx[i] couples
// cell i to i-1 and ky[i] couples i to i-X, so faces one past the interior on the
// right and top are included. The density halo must be current to depth one.
func setConductivity(c *grid2D.Chunk, coefficient types.Coefficient, rx, ry float64) {
	var (
		density        = c.Field(types.Density)
		kx, ky         = c.Field(types.Kx), c.Field(types.Ky)
		X              = c.X
		k1, k2, j1, j2 = c.Interior()
	)
	cond := func(i int) float64 {
		if coefficient == types.RecipConductivity {
			return 1 / density[i]
		}
		return density[i]
	}
	forRows(j1, j2+1, func(jj int) {
		for kk := k1; kk < k2+1; kk++ {
			i := kk + jj*X
			w := cond(i)
			if jj < j2 {
				wl := cond(i - 1)
				kx[i] = rx * (wl + w) / (2 * wl * w)
			}
			if kk < k2 {
				wd := cond(i - X)
				ky[i] = ry * (wd + w) / (2 * wd * w)
			}
		}
	})
}
