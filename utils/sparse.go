package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
)

// DOK is an assembly format sparse matrix, converted to CSR once built.
type DOK struct {
	M    *sparse.DOK
	name string
}

func NewDOK(nr, nc int, name string) (R DOK) {
	R = DOK{
		M:    sparse.NewDOK(nr, nc),
		name: name,
	}
	return
}

func (m DOK) Dims() (r, c int)          { return m.M.Dims() }
func (m DOK) At(i, j int) float64       { return m.M.At(i, j) }
func (m DOK) Set(i, j int, val float64) { m.M.Set(i, j, val) }

// Add accumulates into an entry, stencil assembly visits some entries twice.
func (m DOK) Add(i, j int, val float64) { m.M.Set(i, j, m.M.At(i, j)+val) }

func (m DOK) ToCSR() CSR {
	return CSR{
		M:    m.M.ToCSR(),
		name: m.name,
	}
}

type CSR struct {
	M    *sparse.CSR
	name string
}

func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) NNZ() int            { return m.M.NNZ() }
func (m CSR) Name() string        { return m.name }

// MulVec computes y = A x.
func (m CSR) MulVec(y, x []float64) (err error) {
	var (
		nr, nc = m.Dims()
	)
	if len(y) != nr || len(x) != nc {
		err = fmt.Errorf("dimension mismatch multiplying %s (%d x %d): len(y) = %d, len(x) = %d",
			m.name, nr, nc, len(y), len(x))
		return
	}
	for i := range y {
		y[i] = 0
	}
	m.M.DoNonZero(func(i, j int, v float64) {
		y[i] += v * x[j]
	})
	return
}

// NewStencilOperator assembles the five point diffusion operator of a chunk with a
// padded row length of x and a halo depth of hd. Rows are the interior cells in
// row major order, columns are every padded cell so halo values take part.
func NewStencilOperator(x, y, hd int, kx, ky []float64) (A CSR) {
	var (
		nx, ny = x - 2*hd, y - 2*hd
		D      = NewDOK(nx*ny, x*y, "stencil")
		row    int
	)
	if len(kx) != x*y || len(ky) != x*y {
		panic(fmt.Errorf("coefficient length %d, %d does not match padded size %d",
			len(kx), len(ky), x*y))
	}
	for jj := hd; jj < y-hd; jj++ {
		for kk := hd; kk < x-hd; kk++ {
			i := kk + jj*x
			D.Add(row, i, 1+kx[i+1]+kx[i]+ky[i+x]+ky[i])
			D.Add(row, i+1, -kx[i+1])
			D.Add(row, i-1, -kx[i])
			D.Add(row, i+x, -ky[i+x])
			D.Add(row, i-x, -ky[i])
			row++
		}
	}
	A = D.ToCSR()
	return
}
