package kernels

import (
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/types"
)

// Calculate2Norm returns the local sum of squares of a field's interior.
func Calculate2Norm(c *grid2D.Chunk, buffer types.FieldID) (norm float64) {
	fld := c.Field(buffer)
	norm = sumRows(c, c.HaloDepth, c.Y-c.HaloDepth, func(jj int) float64 {
		i1, i2 := interiorRow(c, jj)
		return floats.Dot(fld[i1:i2], fld[i1:i2])
	})
	return
}

// CalculatePreconditionedNorm returns the local r.Mr.
func CalculatePreconditionedNorm(c *grid2D.Chunk) (rmr float64) {
	var (
		r, mi = c.Field(types.R), c.Field(types.Mi)
	)
	rmr = sumRows(c, c.HaloDepth, c.Y-c.HaloDepth, func(jj int) (sum float64) {
		i1, i2 := interiorRow(c, jj)
		for i := i1; i < i2; i++ {
			sum += r[i] * mi[i] * r[i]
		}
		return
	})
	return
}

// Summary holds the volume integrals of a chunk or, once added, of the domain.
type Summary struct {
	Vol, Mass, IE, Temp float64
}

func (s Summary) Add(o Summary) Summary {
	return Summary{Vol: s.Vol + o.Vol, Mass: s.Mass + o.Mass, IE: s.IE + o.IE, Temp: s.Temp + o.Temp}
}

// FieldSummary integrates volume, mass, internal energy (density*energy0) and
// temperature (density*u) over the interior.
func FieldSummary(c *grid2D.Chunk) (s Summary) {
	var (
		volume  = c.Field(types.Volume)
		density = c.Field(types.Density)
		energy0 = c.Field(types.Energy0)
		u       = c.Field(types.U)
		j1, j2  = c.HaloDepth, c.Y - c.HaloDepth
		nRows   = j2 - j1
		parts   = c.RowPartials
	)
	forRows(j1, j2, func(jj int) {
		var (
			i1, i2              = interiorRow(c, jj)
			vol, mass, ie, temp float64
		)
		for i := i1; i < i2; i++ {
			cellVol := volume[i]
			cellMass := cellVol * density[i]
			vol += cellVol
			mass += cellMass
			ie += cellMass * energy0[i]
			temp += cellMass * u[i]
		}
		row := jj - j1
		parts[row], parts[nRows+row], parts[2*nRows+row], parts[3*nRows+row] = vol, mass, ie, temp
	})
	s = Summary{
		Vol:  floats.Sum(parts[:nRows]),
		Mass: floats.Sum(parts[nRows : 2*nRows]),
		IE:   floats.Sum(parts[2*nRows : 3*nRows]),
		Temp: floats.Sum(parts[3*nRows : 4*nRows]),
	}
	return
}
