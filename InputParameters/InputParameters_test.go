package InputParameters

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputParameters(t *testing.T) {
	fileInput := []byte(`
Title: Hot spot
XMax: 10.
YMax: 10.
XCells: 20
YCells: 10
DtInit: 0.004
EndStep: 5
Solver: ppcg
Preconditioner: jac_diag
CheckResult: false
ExpectedTemperature: 103.5
States:
  - Density: 100.
    Energy: 0.0001
  - Density: 0.1
    Energy: 25.
    Geometry: rectangle
    XMin: 0.
    XMax: 1.
    YMax: 2.
  - Density: 0.1
    Energy: 0.1
    Geometry: circle
    XMin: 5.
    YMin: 5.
    Radius: 1.5
`)
	{ // Test parsing over the defaults
		ip := NewInputParameters2D()
		require.NoError(t, ip.Parse(fileInput))
		assert.Equal(t, "Hot spot", ip.Title)
		assert.Equal(t, 20, ip.XCells)
		assert.Equal(t, 10., ip.XMax)
		assert.Equal(t, 5, ip.EndStep)
		assert.Equal(t, "ppcg", ip.Solver)
		assert.False(t, ip.CheckResult)
		require.NotNil(t, ip.ExpectedTemperature)
		assert.Equal(t, 103.5, *ip.ExpectedTemperature)
		require.Len(t, ip.States, 3)
		assert.Equal(t, 25., ip.States[1].Energy)
		assert.Equal(t, "circle", ip.States[2].Geometry)
		assert.Equal(t, 1.5, ip.States[2].Radius)
		// Untouched defaults
		assert.Equal(t, 10., ip.EndTime)
		assert.Equal(t, 10000, ip.MaxIters)
		assert.Equal(t, 1.e-15, ip.Eps)
		assert.Equal(t, 2, ip.HaloDepth)
		assert.Equal(t, "conductivity", ip.Coefficient)
		assert.NoError(t, ip.Validate())

		var buf bytes.Buffer
		logger := logrus.New()
		logger.SetOutput(&buf)
		ip.Print(logger)
		assert.Contains(t, buf.String(), "Hot spot")
		assert.Contains(t, buf.String(), "state 3")
	}
	{ // Test validation failures
		ip := NewInputParameters2D()
		assert.Error(t, ip.Validate(), "no states")
		require.NoError(t, ip.Parse(fileInput))
		ip.Solver = "gmres"
		assert.Error(t, ip.Validate())
		ip.Solver = "cg"
		ip.States[1].Geometry = "hexagon"
		assert.Error(t, ip.Validate())
		ip.States[1].Geometry = "rectangle"
		ip.HaloDepth = 0
		assert.Error(t, ip.Validate())
		ip.HaloDepth = 2
		ip.Coefficient = "viscosity"
		assert.Error(t, ip.Validate())
	}
	{ // Test malformed YAML is reported
		ip := NewInputParameters2D()
		assert.Error(t, ip.Parse([]byte("XCells: [1, 2")))
	}
}
