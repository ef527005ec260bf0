package grid2D

import (
	"fmt"
	"math"

	"github.com/notargets/gotealeaf/types"
)

// Chunk is one rectangular piece of the decomposed domain: Nx x Ny interior cells
// surrounded by HaloDepth ghost cells on each side. Every field is a row major
// X x Y array, cell (kk, jj) lives at kk + jj*X.
type Chunk struct {
	ID                int
	Nx, Ny, HaloDepth int
	X, Y              int
	MaxIters          int
	Left, Bottom      int // Global cell offset of the interior
	Neighbours        [types.NumFaces]int
	Dx, Dy            float64

	VertexX, VertexY   []float64 // X+1, Y+1 vertices
	VertexDx, VertexDy []float64
	CellX, CellY       []float64
	CellDx, CellDy     []float64

	// Solver coefficient sequences, one entry per iteration
	CGAlphas, CGBetas       []float64
	ChebyAlphas, ChebyBetas []float64
	Theta, EigMin, EigMax   float64

	// Per row scratch for reductions, four quantities per row
	RowPartials []float64

	Index *IndexTable

	arena   *Arena
	handles [types.NumFields]Handle
	fields  [types.NumFields][]float64
}

// NewChunk allocates every field and sequence of a chunk from one zeroed arena. No
// partially built chunk is returned on failure.
func NewChunk(ID, Nx, Ny, HaloDepth, MaxIters int) (c *Chunk, err error) {
	var (
		X, Y   = int64(Nx) + 2*int64(HaloDepth), int64(Ny) + 2*int64(HaloDepth)
		size   int64
		arena  *Arena
		handle Handle
	)
	if Nx < 1 || Ny < 1 || HaloDepth < 1 || MaxIters < 0 {
		err = fmt.Errorf("%w: invalid chunk shape %d x %d, halo depth %d, %d iterations",
			ErrAllocation, Nx, Ny, HaloDepth, MaxIters)
		return
	}
	if X > math.MaxInt32 || Y > math.MaxInt32 {
		err = fmt.Errorf("%w: chunk dimensions %d x %d overflow", ErrAllocation, X, Y)
		return
	}
	size = int64(types.NumFields)*X*Y + // fields
		2*(X+1) + 2*(Y+1) + 2*X + 2*Y + // mesh vectors
		4*Y + // reduction partials
		4*int64(MaxIters) // coefficient sequences
	if arena, err = NewArena(size); err != nil {
		return
	}
	c = &Chunk{
		ID:        ID,
		Nx:        Nx,
		Ny:        Ny,
		HaloDepth: HaloDepth,
		X:         int(X),
		Y:         int(Y),
		MaxIters:  MaxIters,
		arena:     arena,
	}
	for f := range c.Neighbours {
		c.Neighbours[f] = types.ExternalFace
	}
	alloc := func(n int) []float64 {
		if err != nil {
			return nil
		}
		if handle, err = arena.Alloc(n); err != nil {
			return nil
		}
		return arena.Slice(handle)
	}
	for id := types.FieldID(0); id < types.NumFields; id++ {
		c.fields[id] = alloc(c.X * c.Y)
		c.handles[id] = handle
	}
	c.VertexX, c.VertexDx = alloc(c.X+1), alloc(c.X+1)
	c.VertexY, c.VertexDy = alloc(c.Y+1), alloc(c.Y+1)
	c.CellX, c.CellDx = alloc(c.X), alloc(c.X)
	c.CellY, c.CellDy = alloc(c.Y), alloc(c.Y)
	c.RowPartials = alloc(4 * c.Y)
	c.CGAlphas, c.CGBetas = alloc(MaxIters), alloc(MaxIters)
	c.ChebyAlphas, c.ChebyBetas = alloc(MaxIters), alloc(MaxIters)
	if err != nil {
		arena.Release()
		c = nil
		return
	}
	c.Index = NewIndexTable(c.X, c.Y, HaloDepth)
	return
}

// Field returns the storage of a field. It panics on a freed chunk.
func (c *Chunk) Field(id types.FieldID) []float64 {
	if c.arena == nil {
		panic(fmt.Sprintf("chunk %d: field %s requested after Free", c.ID, id))
	}
	return c.fields[id]
}

func (c *Chunk) Handle(id types.FieldID) Handle { return c.handles[id] }

// Free drops the arena and every view into it.
func (c *Chunk) Free() {
	if c.arena == nil {
		return
	}
	c.arena.Release()
	c.arena = nil
	c.fields = [types.NumFields][]float64{}
	c.VertexX, c.VertexY, c.VertexDx, c.VertexDy = nil, nil, nil, nil
	c.CellX, c.CellY, c.CellDx, c.CellDy = nil, nil, nil, nil
	c.CGAlphas, c.CGBetas, c.ChebyAlphas, c.ChebyBetas = nil, nil, nil, nil
	c.RowPartials = nil
	c.Index = nil
}

func (c *Chunk) IsFreed() bool { return c.arena == nil }

func (c *Chunk) IsExternal(f types.Face) bool { return c.Neighbours[f] == types.ExternalFace }

// Interior bounds, kk in [K1,K2) and jj in [J1,J2).
func (c *Chunk) Interior() (K1, K2, J1, J2 int) {
	return c.HaloDepth, c.X - c.HaloDepth, c.HaloDepth, c.Y - c.HaloDepth
}

// InteriorValues copies the interior of a field into an Nx*Ny row major slice.
func (c *Chunk) InteriorValues(id types.FieldID) (vals []float64) {
	var (
		fld            = c.Field(id)
		k1, k2, j1, j2 = c.Interior()
	)
	vals = make([]float64, 0, c.Nx*c.Ny)
	for jj := j1; jj < j2; jj++ {
		vals = append(vals, fld[k1+jj*c.X:k2+jj*c.X]...)
	}
	return
}
