package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
	"github.com/sirupsen/logrus"

	"github.com/notargets/gotealeaf/types"
)

// StateParameters is one initial condition region of the input deck. The first
// state is the background and needs no geometry.
type StateParameters struct {
	Density  float64 `json:"Density"`
	Energy   float64 `json:"Energy"`
	Geometry string  `json:"Geometry"` // rectangle, circle or point
	XMin     float64 `json:"XMin"`
	XMax     float64 `json:"XMax"`
	YMin     float64 `json:"YMin"`
	YMax     float64 `json:"YMax"`
	Radius   float64 `json:"Radius"`
}

// Parameters obtained from the YAML input file
type InputParameters2D struct {
	Title               string            `json:"Title"`
	XMin                float64           `json:"XMin"`
	XMax                float64           `json:"XMax"`
	YMin                float64           `json:"YMin"`
	YMax                float64           `json:"YMax"`
	XCells              int               `json:"XCells"`
	YCells              int               `json:"YCells"`
	DtInit              float64           `json:"DtInit"`
	EndTime             float64           `json:"EndTime"`
	EndStep             int               `json:"EndStep"`
	Solver              string            `json:"Solver"`
	Coefficient         string            `json:"Coefficient"`
	Preconditioner      string            `json:"Preconditioner"`
	MaxIters            int               `json:"MaxIters"`
	Eps                 float64           `json:"Eps"`
	Presteps            int               `json:"Presteps"`
	ErrorSwitch         bool              `json:"ErrorSwitch"`
	EpsLim              float64           `json:"EpsLim"`
	PPCGInnerSteps      int               `json:"PPCGInnerSteps"`
	HaloDepth           int               `json:"HaloDepth"`
	NumChunks           int               `json:"NumChunks"`
	CheckResult         bool              `json:"CheckResult"`
	SummaryFrequency    int               `json:"SummaryFrequency"`
	BreakdownFallback   bool              `json:"BreakdownFallback"`
	ExpectedTemperature *float64          `json:"ExpectedTemperature"` // Checked at the end when present
	States              []StateParameters `json:"States"`
}

// NewInputParameters2D returns a deck holding the default settings, fields missing
// from a parsed file keep these values.
func NewInputParameters2D() *InputParameters2D {
	return &InputParameters2D{
		Title:            "TeaLeaf",
		XMin:             0,
		XMax:             100,
		YMin:             0,
		YMax:             100,
		XCells:           10,
		YCells:           10,
		DtInit:           0.1,
		EndTime:          10,
		Solver:           "cg",
		Coefficient:      "conductivity",
		Preconditioner:   "none",
		MaxIters:         10000,
		Eps:              1.e-15,
		Presteps:         30,
		EpsLim:           1.e-5,
		PPCGInnerSteps:   10,
		HaloDepth:        2,
		NumChunks:        1,
		CheckResult:      true,
		SummaryFrequency: 10,
	}
}

func (ip *InputParameters2D) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// Validate rejects decks that cannot describe a run.
func (ip *InputParameters2D) Validate() (err error) {
	switch {
	case len(ip.States) == 0:
		err = fmt.Errorf("input deck has no states")
	case ip.XCells < 1 || ip.YCells < 1:
		err = fmt.Errorf("cell counts must be positive, have %d x %d", ip.XCells, ip.YCells)
	case ip.HaloDepth < 1:
		err = fmt.Errorf("halo depth must be at least 1, have %d", ip.HaloDepth)
	case ip.NumChunks < 1:
		err = fmt.Errorf("number of chunks must be at least 1, have %d", ip.NumChunks)
	}
	if err != nil {
		return
	}
	if _, err = types.NewSolverType(ip.Solver); err != nil {
		return
	}
	if _, err = types.NewCoefficient(ip.Coefficient); err != nil {
		return
	}
	if _, err = types.NewPreconditioner(ip.Preconditioner); err != nil {
		return
	}
	for n, st := range ip.States {
		if _, err = types.NewGeometry(st.Geometry); err != nil {
			err = fmt.Errorf("state %d: %w", n+1, err)
			return
		}
	}
	return
}

func (ip *InputParameters2D) Print(logger *logrus.Logger) {
	logger.WithFields(logrus.Fields{
		"title":  ip.Title,
		"domain": fmt.Sprintf("[%g,%g] x [%g,%g]", ip.XMin, ip.XMax, ip.YMin, ip.YMax),
		"cells":  fmt.Sprintf("%d x %d", ip.XCells, ip.YCells),
		"dt":     ip.DtInit,
		"end":    fmt.Sprintf("time %g, step %d", ip.EndTime, ip.EndStep),
		"solver": ip.Solver,
		"eps":    ip.Eps,
		"chunks": ip.NumChunks,
	}).Info("input parameters")
	for n, st := range ip.States {
		logger.WithFields(logrus.Fields{
			"density":  st.Density,
			"energy":   st.Energy,
			"geometry": st.Geometry,
		}).Infof("state %d", n+1)
	}
}
