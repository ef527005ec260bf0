package Diffusion2D

import (
	"fmt"
	"math"

	"github.com/notargets/gotealeaf/InputParameters"
	"github.com/notargets/gotealeaf/geometry2D"
	"github.com/notargets/gotealeaf/types"
	"github.com/notargets/gotealeaf/utils"
)

// Settings is the fully resolved run configuration of a diffusion problem.
type Settings struct {
	Mesh   geometry2D.Mesh
	States []geometry2D.State

	DtInit, EndTime float64
	EndStep         int // Zero leaves the step count to EndTime

	Solver         types.SolverType
	Coefficient    types.Coefficient
	Preconditioner types.Preconditioner
	MaxIters       int
	Eps            float64

	// Switch from CG to the polynomial solvers
	Presteps    int
	ErrorSwitch bool
	EpsLim      float64

	PPCGInnerSteps int
	HaloDepth      int
	NumChunks      int

	CheckResult         bool
	SummaryFrequency    int
	CheckTemperature    bool
	ExpectedTemperature float64
	BreakdownFallback   bool
}

// NewSettings resolves a parsed input deck.
func NewSettings(ip *InputParameters.InputParameters2D) (s Settings, err error) {
	if err = ip.Validate(); err != nil {
		return
	}
	s = Settings{
		Mesh: geometry2D.Mesh{
			XMin: ip.XMin, XMax: ip.XMax, YMin: ip.YMin, YMax: ip.YMax,
			XCells: ip.XCells, YCells: ip.YCells,
		},
		DtInit:            ip.DtInit,
		EndTime:           ip.EndTime,
		EndStep:           ip.EndStep,
		MaxIters:          ip.MaxIters,
		Eps:               ip.Eps,
		Presteps:          ip.Presteps,
		ErrorSwitch:       ip.ErrorSwitch,
		EpsLim:            ip.EpsLim,
		PPCGInnerSteps:    ip.PPCGInnerSteps,
		HaloDepth:         ip.HaloDepth,
		NumChunks:         ip.NumChunks,
		CheckResult:       ip.CheckResult,
		SummaryFrequency:  ip.SummaryFrequency,
		BreakdownFallback: ip.BreakdownFallback,
		CheckTemperature:  ip.ExpectedTemperature != nil,
	}
	if s.CheckTemperature {
		s.ExpectedTemperature = *ip.ExpectedTemperature
	}
	if s.Solver, err = types.NewSolverType(ip.Solver); err != nil {
		return
	}
	if s.Coefficient, err = types.NewCoefficient(ip.Coefficient); err != nil {
		return
	}
	if s.Preconditioner, err = types.NewPreconditioner(ip.Preconditioner); err != nil {
		return
	}
	for n, st := range ip.States {
		var g types.Geometry
		if g, err = types.NewGeometry(st.Geometry); err != nil {
			err = fmt.Errorf("state %d: %w", n+1, err)
			return
		}
		s.States = append(s.States, geometry2D.State{
			Density: st.Density, Energy: st.Energy, Geometry: g,
			XMin: st.XMin, XMax: st.XMax, YMin: st.YMin, YMax: st.YMax,
			Radius: st.Radius,
		})
	}
	err = s.Validate()
	return
}

func (s Settings) Validate() (err error) {
	if err = s.Mesh.Validate(); err != nil {
		return
	}
	switch {
	case len(s.States) == 0:
		err = fmt.Errorf("at least one state is required")
	case s.DtInit <= 0:
		err = fmt.Errorf("initial timestep must be positive, have %g", s.DtInit)
	case s.EndStep <= 0 && s.EndTime <= 0:
		err = fmt.Errorf("one of end time or end step must be positive")
	case s.EndStep < 0:
		err = fmt.Errorf("end step must not be negative, have %d", s.EndStep)
	case s.MaxIters < 1:
		err = fmt.Errorf("max iterations must be at least 1, have %d", s.MaxIters)
	case !(s.Eps > 0):
		err = fmt.Errorf("convergence tolerance must be positive, have %g", s.Eps)
	case s.HaloDepth < 1:
		err = fmt.Errorf("halo depth must be at least 1, have %d", s.HaloDepth)
	case s.NumChunks < 1:
		err = fmt.Errorf("number of chunks must be at least 1, have %d", s.NumChunks)
	case s.Presteps < 0:
		err = fmt.Errorf("presteps must not be negative, have %d", s.Presteps)
	case s.Solver == types.PPCGSolver && (s.PPCGInnerSteps < 1 || s.PPCGInnerSteps > s.MaxIters):
		err = fmt.Errorf("ppcg inner steps must lie in [1, %d], have %d", s.MaxIters, s.PPCGInnerSteps)
	}
	return
}

// NumSteps is the number of timesteps a run takes, the lesser of EndStep and the
// steps needed to reach EndTime.
func (s Settings) NumSteps() (n int) {
	n = math.MaxInt
	if s.EndTime > 0 {
		n = int(math.Ceil(s.EndTime/s.DtInit - 1.e-9))
	}
	if s.EndStep > 0 && s.EndStep < n {
		n = s.EndStep
	}
	return
}

// switchLimit is the error CG must reach before handing over to a polynomial solver.
func (s Settings) switchLimit() float64 {
	if s.ErrorSwitch {
		return s.EpsLim
	}
	return utils.ERROR_SWITCH_MAX
}
