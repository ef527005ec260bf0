package geometry2D

import (
	"fmt"
	"math"

	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/types"
)

// State is one initial condition region. The first state is the background and
// covers the whole domain, later states overwrite the cells they cover.
type State struct {
	Density, Energy float64
	Geometry        types.Geometry
	XMin, XMax      float64
	YMin, YMax      float64
	Radius          float64
}

type BoundingBox struct {
	XMin, XMax, YMin, YMax float64
}

// Overlaps is true when the cell spanning [x0,x1) x [y0,y1) touches the box.
func (bb BoundingBox) Overlaps(x0, x1, y0, y1 float64) bool {
	return x1 >= bb.XMin && x0 < bb.XMax && y1 >= bb.YMin && y0 < bb.YMax
}

func (s State) Box() BoundingBox {
	return BoundingBox{XMin: s.XMin, XMax: s.XMax, YMin: s.YMin, YMax: s.YMax}
}

func (s State) Validate() (err error) {
	switch {
	case s.Density <= 0:
		err = fmt.Errorf("state density must be positive, have %g", s.Density)
	case s.Geometry == types.Circular && s.Radius <= 0:
		err = fmt.Errorf("circular state needs a positive radius, have %g", s.Radius)
	case s.Geometry == types.Rectangular && (s.XMax < s.XMin || s.YMax < s.YMin):
		err = fmt.Errorf("rectangular state has an inverted extent")
	}
	return
}

// covers decides whether state s applies to cell (kk, jj) of c.
func (s State) covers(c *grid2D.Chunk, kk, jj int) bool {
	switch s.Geometry {
	case types.Rectangular:
		return s.Box().Overlaps(c.VertexX[kk], c.VertexX[kk+1], c.VertexY[jj], c.VertexY[jj+1])
	case types.Circular:
		radius := math.Hypot(c.CellX[kk]-s.XMin, c.CellY[jj]-s.YMin)
		return radius <= s.Radius
	case types.Point:
		return c.VertexX[kk] == s.XMin && c.VertexY[jj] == s.YMin
	}
	panic(fmt.Sprintf("unknown state geometry %d", s.Geometry))
}

// SetChunkState applies the states in order, last writer wins, and seeds the
// temperature u = energy0 * density away from the outermost ring of cells.
// SetChunkData must have been called first.
func SetChunkState(c *grid2D.Chunk, states []State) (err error) {
	if len(states) == 0 {
		err = fmt.Errorf("at least one state is required")
		return
	}
	for ss, s := range states {
		if err = s.Validate(); err != nil {
			err = fmt.Errorf("state %d: %w", ss, err)
			return
		}
	}
	var (
		density = c.Field(types.Density)
		energy0 = c.Field(types.Energy0)
		u       = c.Field(types.U)
		X, Y    = c.X, c.Y
	)
	for i := range density {
		density[i] = states[0].Density
		energy0[i] = states[0].Energy
	}
	for _, s := range states[1:] {
		for jj := 0; jj < Y; jj++ {
			for kk := 0; kk < X; kk++ {
				if s.covers(c, kk, jj) {
					density[kk+jj*X] = s.Density
					energy0[kk+jj*X] = s.Energy
				}
			}
		}
	}
	for jj := 1; jj < Y-1; jj++ {
		for kk := 1; kk < X-1; kk++ {
			u[kk+jj*X] = energy0[kk+jj*X] * density[kk+jj*X]
		}
	}
	return
}
