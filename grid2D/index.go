package grid2D

import (
	"github.com/notargets/gotealeaf/types"
	"github.com/notargets/gotealeaf/utils"
)

// IndexTable holds, per face and halo depth, the linear offsets a halo operation
// touches. Entry [f][d-1] is for depth d. Pack lists the interior strip sent to the
// neighbour on face f, Unpack the halo strip filled from it and Reflect, aligned with
// Unpack, the interior cell mirrored into each halo cell on an external face.
// Left and right strips run row by row with depth fastest, bottom and top strips
// run along the face first and then by depth row.
type IndexTable struct {
	X, Y, HaloDepth int
	Pack            [types.NumFaces][]utils.Index
	Unpack          [types.NumFaces][]utils.Index
	Reflect         [types.NumFaces][]utils.Index
}

func NewIndexTable(X, Y, hd int) (it *IndexTable) {
	it = &IndexTable{X: X, Y: Y, HaloDepth: hd}
	for f := types.Face(0); f < types.NumFaces; f++ {
		it.Pack[f] = make([]utils.Index, hd)
		it.Unpack[f] = make([]utils.Index, hd)
		it.Reflect[f] = make([]utils.Index, hd)
		for d := 1; d <= hd; d++ {
			it.Pack[f][d-1], it.Unpack[f][d-1] = it.strips(f, d)
			it.Reflect[f][d-1] = it.Unpack[f][d-1].Apply(it.mirror(f))
		}
	}
	return
}

func (it *IndexTable) strips(f types.Face, d int) (pack, unpack utils.Index) {
	var (
		X, Y, hd = it.X, it.Y, it.HaloDepth
	)
	switch f {
	case types.Left:
		pack = utils.NewGridRange(X, hd, hd+d, hd, Y-hd)
		unpack = utils.NewGridRange(X, hd-d, hd, hd, Y-hd)
	case types.Right:
		pack = utils.NewGridRange(X, X-hd-d, X-hd, hd, Y-hd)
		unpack = utils.NewGridRange(X, X-hd, X-hd+d, hd, Y-hd)
	case types.Bottom:
		pack = utils.NewGridRange(X, hd, X-hd, hd, hd+d)
		unpack = utils.NewGridRange(X, hd, X-hd, hd-d, hd)
	case types.Top:
		pack = utils.NewGridRange(X, hd, X-hd, Y-hd-d, Y-hd)
		unpack = utils.NewGridRange(X, hd, X-hd, Y-hd, Y-hd+d)
	default:
		panic("unknown face")
	}
	return
}

// mirror maps a halo cell to the interior cell at the same distance from the face.
func (it *IndexTable) mirror(f types.Face) func(ind int) int {
	var (
		X, Y, hd = it.X, it.Y, it.HaloDepth
	)
	return func(ind int) int {
		kk, jj := ind%X, ind/X
		switch f {
		case types.Left:
			kk = 2*hd - 1 - kk
		case types.Right:
			kk = 2*(X-hd) - 1 - kk
		case types.Bottom:
			jj = 2*hd - 1 - jj
		case types.Top:
			jj = 2*(Y-hd) - 1 - jj
		}
		return kk + jj*X
	}
}

// StripSize is the number of values moved through face f at depth d.
func (it *IndexTable) StripSize(f types.Face, d int) int {
	return len(it.Pack[f][d-1])
}
