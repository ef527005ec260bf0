package Diffusion2D

import (
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/types"
)

// forEachChunk runs f on every chunk concurrently and returns the first error.
func (d *Diffusion) forEachChunk(f func(n int, c *grid2D.Chunk) error) error {
	var g errgroup.Group
	for n, c := range d.Chunks {
		n, c := n, c
		g.Go(func() error { return f(n, c) })
	}
	return g.Wait()
}

func (d *Diffusion) eachChunk(f func(c *grid2D.Chunk)) {
	_ = d.forEachChunk(func(_ int, c *grid2D.Chunk) error {
		f(c)
		return nil
	})
}

// sumChunks evaluates a chunk reduction everywhere and combines the partials in
// chunk order, so the total does not depend on goroutine scheduling.
func (d *Diffusion) sumChunks(f func(c *grid2D.Chunk) float64) float64 {
	_ = d.forEachChunk(func(n int, c *grid2D.Chunk) error {
		d.partials[n] = f(c)
		return nil
	})
	return floats.Sum(d.partials)
}

// exchange refreshes the halos of the given fields, depth is clamped to the chunks'
// halo depth.
func (d *Diffusion) exchange(depth int, ids ...types.FieldID) error {
	return d.Exchanger.Update(d.Chunks, min(depth, d.HaloDepth), types.NewFieldMask(ids...))
}

// GatherField assembles the interior of a field over all chunks into one global
// row major XCells x YCells array.
func (d *Diffusion) GatherField(id types.FieldID) (A []float64) {
	var (
		Nx = d.Layout.Nx
	)
	A = make([]float64, Nx*d.Layout.Ny)
	for _, c := range d.Chunks {
		fld := c.Field(id)
		for j := 0; j < c.Ny; j++ {
			var (
				ind  = c.Left + (c.Bottom+j)*Nx
				pind = c.HaloDepth + (c.HaloDepth+j)*c.X
			)
			copy(A[ind:ind+c.Nx], fld[pind:pind+c.Nx])
		}
	}
	return
}

// ScatterField is the inverse of GatherField, it loads a global interior array into
// the chunks. Halos are left for the next exchange.
func (d *Diffusion) ScatterField(id types.FieldID, A []float64) {
	var (
		Nx = d.Layout.Nx
	)
	for _, c := range d.Chunks {
		fld := c.Field(id)
		for j := 0; j < c.Ny; j++ {
			var (
				ind  = c.Left + (c.Bottom+j)*Nx
				pind = c.HaloDepth + (c.HaloDepth+j)*c.X
			)
			copy(fld[pind:pind+c.Nx], A[ind:ind+c.Nx])
		}
	}
}
