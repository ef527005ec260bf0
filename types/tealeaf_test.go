package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypes(t *testing.T) {
	{ // Test face pairing
		assert.Equal(t, Right, Left.Opposite())
		assert.Equal(t, Left, Right.Opposite())
		assert.Equal(t, Top, Bottom.Opposite())
		assert.Equal(t, Bottom, Top.Opposite())
		assert.True(t, Left.IsX())
		assert.False(t, Top.IsX())
		assert.Equal(t, "bottom", Bottom.String())
	}
	{ // Test field masks
		m := NewFieldMask(U, P, Density)
		assert.True(t, m.Has(U))
		assert.True(t, m.Has(Density))
		assert.False(t, m.Has(Sd))
		assert.Equal(t, []FieldID{Density, U, P}, m.Fields())
		assert.True(t, NewFieldMask().IsEmpty())
		assert.Nil(t, NewFieldMask().Fields())
	}
	{ // Test name lookups
		st, err := NewSolverType("CG")
		assert.NoError(t, err)
		assert.Equal(t, CGSolver, st)
		st, err = NewSolverType("chebyshev")
		assert.NoError(t, err)
		assert.Equal(t, ChebySolver, st)
		_, err = NewSolverType("gmres")
		assert.Error(t, err)

		co, err := NewCoefficient("recip_conductivity")
		assert.NoError(t, err)
		assert.Equal(t, RecipConductivity, co)
		assert.Equal(t, Coefficient(2), co)

		pc, err := NewPreconditioner("")
		assert.NoError(t, err)
		assert.Equal(t, PreconNone, pc)
		_, err = NewPreconditioner("ilu")
		assert.Error(t, err)

		g, err := NewGeometry("circle")
		assert.NoError(t, err)
		assert.Equal(t, Circular, g)
	}
}
