package geometry2D

import (
	"fmt"

	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/types"
)

// Mesh is the uniform global mesh the chunks are cut from.
type Mesh struct {
	XMin, XMax, YMin, YMax float64
	XCells, YCells         int
}

func (m Mesh) Dx() float64 { return (m.XMax - m.XMin) / float64(m.XCells) }
func (m Mesh) Dy() float64 { return (m.YMax - m.YMin) / float64(m.YCells) }

func (m Mesh) Validate() (err error) {
	switch {
	case m.XCells < 1 || m.YCells < 1:
		err = fmt.Errorf("mesh needs at least one cell per direction, have %d x %d", m.XCells, m.YCells)
	case m.XMax <= m.XMin || m.YMax <= m.YMin:
		err = fmt.Errorf("empty mesh extent [%g,%g] x [%g,%g]", m.XMin, m.XMax, m.YMin, m.YMax)
	}
	return
}

// SetChunkData fills the vertex and cell coordinates of a chunk whose interior
// starts at global cell (left, bottom), then the cell volumes and face areas.
// Coordinates extend through the halo.
func SetChunkData(c *grid2D.Chunk, m Mesh, left, bottom int) {
	var (
		dx, dy = m.Dx(), m.Dy()
		xMin   = m.XMin + dx*float64(left)
		yMin   = m.YMin + dy*float64(bottom)
		hd     = c.HaloDepth
	)
	c.Left, c.Bottom = left, bottom
	c.Dx, c.Dy = dx, dy
	for ii := 0; ii < c.X+1; ii++ {
		c.VertexX[ii] = xMin + dx*float64(ii-hd)
		c.VertexDx[ii] = dx
	}
	for ii := 0; ii < c.Y+1; ii++ {
		c.VertexY[ii] = yMin + dy*float64(ii-hd)
		c.VertexDy[ii] = dy
	}
	for ii := 0; ii < c.X; ii++ {
		c.CellX[ii] = 0.5 * (c.VertexX[ii] + c.VertexX[ii+1])
		c.CellDx[ii] = dx
	}
	for ii := 0; ii < c.Y; ii++ {
		c.CellY[ii] = 0.5 * (c.VertexY[ii] + c.VertexY[ii+1])
		c.CellDy[ii] = dy
	}
	var (
		volume = c.Field(types.Volume)
		xArea  = c.Field(types.XArea)
		yArea  = c.Field(types.YArea)
	)
	for i := range volume {
		volume[i] = dx * dy
		xArea[i] = dy
		yArea[i] = dx
	}
}
