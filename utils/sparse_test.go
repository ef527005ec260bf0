package utils

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStencilOperator(t *testing.T) {
	var (
		x, y, hd = 4, 4, 1
		kx       = make([]float64, x*y)
		ky       = make([]float64, x*y)
	)
	for i := range kx {
		kx[i], ky[i] = 0.5, 0.25
	}
	A := NewStencilOperator(x, y, hd, kx, ky)
	nr, nc := A.Dims()
	assert.Equal(t, 4, nr)
	assert.Equal(t, 16, nc)
	assert.Equal(t, 20, A.NNZ())
	{ // Test the diagonal and the off diagonals of the first interior cell
		assert.InDelta(t, 2.5, A.At(0, 5), 1.e-14)
		assert.InDelta(t, -0.5, A.At(0, 6), 1.e-14)
		assert.InDelta(t, -0.5, A.At(0, 4), 1.e-14)
		assert.InDelta(t, -0.25, A.At(0, 9), 1.e-14)
		assert.InDelta(t, -0.25, A.At(0, 1), 1.e-14)
		assert.Equal(t, 0., A.At(0, 0))
	}
	{ // Test a constant field maps to itself
		u := make([]float64, x*y)
		for i := range u {
			u[i] = 3
		}
		w := make([]float64, nr)
		assert.NoError(t, A.MulVec(w, u))
		for _, val := range w {
			assert.InDelta(t, 3., val, 1.e-14)
		}
		assert.Error(t, A.MulVec(w, u[:5]))
	}
	assert.Panics(t, func() { NewStencilOperator(x, y, hd, kx[:3], ky) })
}

func TestIndex(t *testing.T) {
	I := NewGridRange(5, 1, 3, 2, 4)
	assert.Equal(t, Index{11, 12, 16, 17}, I)
	assert.Equal(t, Index{}, NewGridRange(5, 3, 3, 0, 2))
	assert.Equal(t, Index{12, 13, 17, 18}, I.Apply(func(v int) int { return v + 1 }))
	var (
		field = make([]float64, 25)
		buf   = make([]float64, 4)
	)
	for i := range field {
		field[i] = float64(i)
	}
	assert.NoError(t, I.Gather(buf, field))
	assert.Equal(t, []float64{11, 12, 16, 17}, buf)
	out := make([]float64, 25)
	assert.NoError(t, I.Scatter(out, buf))
	assert.Equal(t, 16., out[16])
	assert.Equal(t, 0., out[15])
	assert.Error(t, I.Gather(buf[:3], field))
	assert.Error(t, I.Scatter(out, buf[:2]))
}

func TestLogger(t *testing.T) {
	var out bytes.Buffer
	logger, err := NewLogger("warn", &out)
	assert.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")
	_, err = NewLogger("loud", nil)
	assert.Error(t, err)
	assert.True(t, IsFinite(1))
	assert.False(t, IsFinite(math.Inf(1)))
	assert.True(t, IsNan([]float64{0, math.NaN()}))
}
