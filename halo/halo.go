package halo

import (
	"errors"
	"fmt"

	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/types"
)

var (
	ErrBufferSize = errors.New("halo buffer size mismatch")
	ErrDepth      = errors.New("halo depth out of range")
	ErrFace       = errors.New("invalid face")
)

func checkDepth(c *grid2D.Chunk, depth int) (err error) {
	if depth < 1 || depth > c.HaloDepth {
		err = fmt.Errorf("%w: depth %d, chunk %d has halo depth %d", ErrDepth, depth, c.ID, c.HaloDepth)
	}
	return
}

// StripSize is the buffer length pack and unpack expect for a face and depth.
func StripSize(c *grid2D.Chunk, face types.Face, depth int) (n int, err error) {
	if face >= types.NumFaces {
		err = fmt.Errorf("%w: %d", ErrFace, face)
		return
	}
	if err = checkDepth(c, depth); err != nil {
		return
	}
	n = c.Index.StripSize(face, depth)
	return
}

// LocalHalos mirrors the interior into the halo of every external face for each
// field in the mask. Faces shared with a neighbour are left to the exchange.
func LocalHalos(c *grid2D.Chunk, depth int, mask types.FieldMask) (err error) {
	if err = checkDepth(c, depth); err != nil {
		return
	}
	for _, id := range mask.Fields() {
		fld := c.Field(id)
		for f := types.Face(0); f < types.NumFaces; f++ {
			if !c.IsExternal(f) {
				continue
			}
			var (
				dst = c.Index.Unpack[f][depth-1]
				src = c.Index.Reflect[f][depth-1]
			)
			for n, ind := range dst {
				fld[ind] = fld[src[n]]
			}
		}
	}
	return
}

// PackOrUnpack moves the depth thick strip of one field through buffer. Packing
// reads the interior strip next to face, unpacking writes the halo strip on face.
// The buffer must be exactly StripSize long.
func PackOrUnpack(c *grid2D.Chunk, face types.Face, depth int, pack bool,
	field types.FieldID, buffer []float64) (err error) {
	var n int
	if n, err = StripSize(c, face, depth); err != nil {
		return
	}
	if len(buffer) != n {
		err = fmt.Errorf("%w: chunk %d face %s depth %d needs %d values, buffer holds %d",
			ErrBufferSize, c.ID, face, depth, n, len(buffer))
		return
	}
	if field >= types.NumFields {
		panic(fmt.Sprintf("unknown field %d", field))
	}
	if pack {
		err = c.Index.Pack[face][depth-1].Gather(buffer, c.Field(field))
	} else {
		err = c.Index.Unpack[face][depth-1].Scatter(c.Field(field), buffer)
	}
	return
}
