package types

import (
	"fmt"
	"strings"
)

// Face labels the four sides of a chunk. Opposite faces differ in the low bit.
type Face uint8

const (
	Left Face = iota
	Right
	Bottom
	Top
	NumFaces = 4
)

// ExternalFace marks a chunk side that lies on the domain boundary.
const ExternalFace = -1

var FacePrintNames = [NumFaces]string{"left", "right", "bottom", "top"}

func (f Face) Opposite() Face { return f ^ 1 }

// IsX is true for the faces that exchange whole rows (left and right).
func (f Face) IsX() bool { return f == Left || f == Right }

func (f Face) String() string {
	if f >= NumFaces {
		return fmt.Sprintf("Face(%d)", uint8(f))
	}
	return FacePrintNames[f]
}

type FieldID uint8

const (
	Density FieldID = iota
	Energy0
	Energy
	U
	U0
	P
	R
	Mi
	W
	Kx
	Ky
	Sd
	Volume
	XArea
	YArea
	NumFields
)

var FieldPrintNames = [NumFields]string{
	"density", "energy0", "energy", "u", "u0", "p", "r", "mi", "w", "kx", "ky", "sd",
	"volume", "x_area", "y_area",
}

func (id FieldID) String() string {
	if id >= NumFields {
		return fmt.Sprintf("FieldID(%d)", uint8(id))
	}
	return FieldPrintNames[id]
}

// FieldMask selects the fields taking part in one halo exchange round.
type FieldMask uint32

func NewFieldMask(ids ...FieldID) (m FieldMask) {
	for _, id := range ids {
		m |= 1 << id
	}
	return
}

func (m FieldMask) Has(id FieldID) bool { return m&(1<<id) != 0 }

func (m FieldMask) IsEmpty() bool { return m == 0 }

// Fields lists the selected fields in FieldID order.
func (m FieldMask) Fields() (ids []FieldID) {
	for id := FieldID(0); id < NumFields; id++ {
		if m.Has(id) {
			ids = append(ids, id)
		}
	}
	return
}

type SolverType uint8

const (
	JacobiSolver SolverType = iota
	CGSolver
	ChebySolver
	PPCGSolver
)

var (
	SolverNameMap = map[string]SolverType{
		"jacobi":    JacobiSolver,
		"cg":        CGSolver,
		"cheby":     ChebySolver,
		"chebyshev": ChebySolver,
		"ppcg":      PPCGSolver,
	}
	SolverPrintNames = []string{"Jacobi", "Conjugate Gradient", "Chebyshev", "PPCG"}
)

func NewSolverType(label string) (st SolverType, err error) {
	var ok bool
	if st, ok = SolverNameMap[strings.ToLower(label)]; !ok {
		err = fmt.Errorf("unknown solver %q, must be one of jacobi, cg, cheby, ppcg", label)
	}
	return
}

func (st SolverType) String() string {
	if int(st) >= len(SolverPrintNames) {
		return fmt.Sprintf("SolverType(%d)", uint8(st))
	}
	return SolverPrintNames[st]
}

// Coefficient selects how the face conductivities are derived from density.
type Coefficient uint8

const (
	Conductivity Coefficient = iota + 1
	RecipConductivity
)

var CoefficientNameMap = map[string]Coefficient{
	"conductivity":       Conductivity,
	"recip_conductivity": RecipConductivity,
}

func NewCoefficient(label string) (co Coefficient, err error) {
	var ok bool
	if co, ok = CoefficientNameMap[strings.ToLower(label)]; !ok {
		err = fmt.Errorf("unknown coefficient %q, must be conductivity or recip_conductivity", label)
	}
	return
}

func (co Coefficient) String() string {
	switch co {
	case Conductivity:
		return "conductivity"
	case RecipConductivity:
		return "recip_conductivity"
	}
	return fmt.Sprintf("Coefficient(%d)", uint8(co))
}

type Preconditioner uint8

const (
	PreconNone Preconditioner = iota
	PreconJacDiag
)

var PreconditionerNameMap = map[string]Preconditioner{
	"":         PreconNone,
	"none":     PreconNone,
	"jac_diag": PreconJacDiag,
}

func NewPreconditioner(label string) (pc Preconditioner, err error) {
	var ok bool
	if pc, ok = PreconditionerNameMap[strings.ToLower(label)]; !ok {
		err = fmt.Errorf("unknown preconditioner %q, must be none or jac_diag", label)
	}
	return
}

func (pc Preconditioner) String() string {
	if pc == PreconJacDiag {
		return "jac_diag"
	}
	return "none"
}

// Geometry is the shape of an initial state region.
type Geometry uint8

const (
	Rectangular Geometry = iota
	Circular
	Point
)

var GeometryNameMap = map[string]Geometry{
	"":          Rectangular,
	"rectangle": Rectangular,
	"circle":    Circular,
	"point":     Point,
}

func NewGeometry(label string) (g Geometry, err error) {
	var ok bool
	if g, ok = GeometryNameMap[strings.ToLower(label)]; !ok {
		err = fmt.Errorf("unknown state geometry %q, must be rectangle, circle or point", label)
	}
	return
}
