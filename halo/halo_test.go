package halo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/types"
	"github.com/notargets/gotealeaf/utils"
)

func fillField(c *grid2D.Chunk, id types.FieldID, offset float64) {
	fld := c.Field(id)
	for i := range fld {
		fld[i] = offset + float64(i)
	}
}

func TestPackOrUnpack(t *testing.T) {
	var (
		hd = 3
	)
	A, err := grid2D.NewChunk(0, 5, 4, hd, 0)
	require.NoError(t, err)
	fillField(A, types.Energy, 100)
	{ // Test round trip on every face and depth
		for f := types.Face(0); f < types.NumFaces; f++ {
			for d := 1; d <= hd; d++ {
				B, err := grid2D.NewChunk(1, 5, 4, hd, 0)
				require.NoError(t, err)
				n, err := StripSize(A, f, d)
				require.NoError(t, err)
				buf := make([]float64, n)
				require.NoError(t, PackOrUnpack(A, f, d, true, types.Energy, buf))
				require.NoError(t, PackOrUnpack(B, f.Opposite(), d, false, types.Energy, buf))
				var (
					src = A.Field(types.Energy)
					dst = B.Field(types.Energy)
				)
				for m, ind := range A.Index.Pack[f][d-1] {
					assert.Equal(t, src[ind], dst[B.Index.Unpack[f.Opposite()][d-1][m]])
				}
				// Nothing outside the strip is written
				var touched int
				for _, val := range dst {
					if val != 0 {
						touched++
					}
				}
				assert.Equal(t, n, touched)
			}
		}
	}
	{ // Test strip sizes follow the face orientation
		n, _ := StripSize(A, types.Left, 2)
		assert.Equal(t, 8, n)
		n, _ = StripSize(A, types.Top, 2)
		assert.Equal(t, 10, n)
	}
	{ // Test contract violations
		err := PackOrUnpack(A, types.Left, 1, true, types.U, make([]float64, 5))
		assert.True(t, errors.Is(err, ErrBufferSize))
		err = PackOrUnpack(A, types.Left, 1, false, types.U, make([]float64, 3))
		assert.True(t, errors.Is(err, ErrBufferSize))
		err = PackOrUnpack(A, types.Left, 0, true, types.U, nil)
		assert.True(t, errors.Is(err, ErrDepth))
		err = PackOrUnpack(A, types.Left, hd+1, true, types.U, nil)
		assert.True(t, errors.Is(err, ErrDepth))
		err = PackOrUnpack(A, types.Face(6), 1, true, types.U, nil)
		assert.True(t, errors.Is(err, ErrFace))
	}
}

func TestLocalHalos(t *testing.T) {
	c, err := grid2D.NewChunk(0, 4, 3, 2, 0)
	require.NoError(t, err)
	fillField(c, types.U, 0)
	fillField(c, types.P, 0)
	c.Neighbours[types.Right] = 1
	require.NoError(t, LocalHalos(c, 2, types.NewFieldMask(types.U)))
	var (
		u  = c.Field(types.U)
		p  = c.Field(types.P)
		at = func(kk, jj int) int { return kk + jj*c.X }
	)
	// Left face mirrors columns 2,3 into 1,0
	assert.Equal(t, float64(at(2, 3)), u[at(1, 3)])
	assert.Equal(t, float64(at(3, 3)), u[at(0, 3)])
	// Bottom face mirrors rows 2,3 into 1,0
	assert.Equal(t, float64(at(4, 2)), u[at(4, 1)])
	assert.Equal(t, float64(at(4, 3)), u[at(4, 0)])
	// Top face, rows 3,4 into 5,6
	assert.Equal(t, float64(at(3, 4)), u[at(3, 5)])
	assert.Equal(t, float64(at(3, 3)), u[at(3, 6)])
	// Right face has a neighbour, the masked out field is untouched
	assert.Equal(t, float64(at(6, 3)), u[at(6, 3)])
	assert.Equal(t, float64(at(1, 3)), p[at(1, 3)])
	// Depth 1 only touches the first halo ring
	fillField(c, types.U, 0)
	require.NoError(t, LocalHalos(c, 1, types.NewFieldMask(types.U)))
	assert.Equal(t, float64(at(2, 3)), u[at(1, 3)])
	assert.Equal(t, float64(at(0, 3)), u[at(0, 3)])
	assert.True(t, errors.Is(LocalHalos(c, 3, types.NewFieldMask(types.U)), ErrDepth))
}

// newLayout cuts an Nx x Ny grid into chunks and fills field id with a global pattern.
func newLayout(t *testing.T, Nx, Ny, NumChunks, hd int, id types.FieldID,
	pattern func(gi, gj int) float64) (chunks []*grid2D.Chunk) {
	cl, err := utils.NewChunkLayout(Nx, Ny, NumChunks)
	require.NoError(t, err)
	for n := 0; n < cl.NumChunks(); n++ {
		l, r, b, tp := cl.Extent(n)
		c, err := grid2D.NewChunk(n, r-l, tp-b, hd, 0)
		require.NoError(t, err)
		c.Left, c.Bottom = l, b
		c.Neighbours = cl.Neighbours(n)
		fld := c.Field(id)
		k1, k2, j1, j2 := c.Interior()
		for jj := j1; jj < j2; jj++ {
			for kk := k1; kk < k2; kk++ {
				fld[kk+jj*c.X] = pattern(c.Left+kk-hd, c.Bottom+jj-hd)
			}
		}
		chunks = append(chunks, c)
	}
	return
}

func reflectIndex(g, n int) int {
	switch {
	case g < 0:
		return -1 - g
	case g >= n:
		return 2*n - 1 - g
	}
	return g
}

func TestExchangerUpdate(t *testing.T) {
	var (
		Nx, Ny  = 9, 7
		hd      = 2
		pattern = func(gi, gj int) float64 { return float64(gi) + 100*float64(gj) }
	)
	for _, NumChunks := range []int{1, 2, 4, 6} {
		for depth := 1; depth <= hd; depth++ {
			chunks := newLayout(t, Nx, Ny, NumChunks, hd, types.Sd, pattern)
			ex := NewExchanger(NewMailBoxTransport(len(chunks)))
			require.NoError(t, ex.Update(chunks, depth, types.NewFieldMask(types.Sd)))
			for _, c := range chunks {
				var (
					fld            = c.Field(types.Sd)
					k1, k2, j1, j2 = c.Interior()
				)
				for jj := j1; jj < j2; jj++ {
					for kk := k1 - depth; kk < k2+depth; kk++ {
						gi, gj := c.Left+kk-hd, c.Bottom+jj-hd
						assert.Equal(t, pattern(reflectIndex(gi, Nx), gj), fld[kk+jj*c.X])
					}
				}
				for jj := j1 - depth; jj < j2+depth; jj++ {
					for kk := k1; kk < k2; kk++ {
						gi, gj := c.Left+kk-hd, c.Bottom+jj-hd
						assert.Equal(t, pattern(gi, reflectIndex(gj, Ny)), fld[kk+jj*c.X])
					}
				}
			}
		}
	}
	{ // Test an empty mask is a no-op
		chunks := newLayout(t, Nx, Ny, 2, hd, types.U, pattern)
		ex := NewExchanger(NewMailBoxTransport(2))
		require.NoError(t, ex.Update(chunks, 5, types.NewFieldMask()))
		assert.Equal(t, 0., chunks[0].Field(types.U)[0])
		assert.True(t, errors.Is(ex.Update(chunks, 5, types.NewFieldMask(types.U)), ErrDepth))
	}
}

func TestMailBoxTransport(t *testing.T) {
	mt := NewMailBoxTransport(2)
	buf := make([]float64, 3)
	{ // Test delivery after flush only
		require.NoError(t, mt.Send(0, 1, Tag(types.U, types.Right), []float64{1, 2, 3}))
		err := mt.Recv(1, 0, Tag(types.U, types.Right), buf)
		assert.True(t, errors.Is(err, ErrNoMessage))
		require.NoError(t, mt.Flush(0))
		require.NoError(t, mt.Recv(1, 0, Tag(types.U, types.Right), buf))
		assert.Equal(t, []float64{1, 2, 3}, buf)
		err = mt.Recv(1, 0, Tag(types.U, types.Right), buf)
		assert.True(t, errors.Is(err, ErrNoMessage))
	}
	{ // Test tags keep fields apart and sizes are checked
		require.NoError(t, mt.Send(1, 0, Tag(types.P, types.Left), []float64{4, 5, 6}))
		require.NoError(t, mt.Send(1, 0, Tag(types.U, types.Left), []float64{7, 8}))
		require.NoError(t, mt.Flush(1))
		require.NoError(t, mt.Recv(0, 1, Tag(types.P, types.Left), buf))
		assert.Equal(t, []float64{4, 5, 6}, buf)
		err := mt.Recv(0, 1, Tag(types.U, types.Left), buf)
		assert.True(t, errors.Is(err, ErrBufferSize))
	}
	assert.Error(t, mt.Send(0, 2, 0, buf))
	assert.Error(t, mt.Flush(-1))
}
