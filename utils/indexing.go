package utils

import (
	"fmt"
)

// Index is an ordered list of linear offsets into a field array.
type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

// NewGridRange lists the row-major offsets of the block [i1,i2) x [j1,j2) of a grid
// whose rows hold nx values. Rows are outermost, so i varies fastest.
func NewGridRange(nx, i1, i2, j1, j2 int) (I Index) {
	var (
		ni, nj = i2 - i1, j2 - j1
		ind    int
	)
	if ni <= 0 || nj <= 0 {
		return Index{}
	}
	I = NewIndex(ni * nj)
	for j := j1; j < j2; j++ {
		for i := i1; i < i2; i++ {
			I[ind] = i + j*nx
			ind++
		}
	}
	return
}

func (I Index) Apply(f func(val int) int) (r Index) {
	r = make(Index, len(I))
	for i, val := range I {
		r[i] = f(val)
	}
	return
}

// Gather copies src[I[n]] into dst[n].
func (I Index) Gather(dst, src []float64) (err error) {
	if len(dst) != len(I) {
		err = fmt.Errorf("gather into %d values from an index of length %d", len(dst), len(I))
		return
	}
	for n, ind := range I {
		dst[n] = src[ind]
	}
	return
}

// Scatter copies src[n] into dst[I[n]].
func (I Index) Scatter(dst, src []float64) (err error) {
	if len(src) != len(I) {
		err = fmt.Errorf("scatter of %d values through an index of length %d", len(src), len(I))
		return
	}
	for n, ind := range I {
		dst[ind] = src[n]
	}
	return
}
