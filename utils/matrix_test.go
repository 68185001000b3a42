package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix(t *testing.T) {
	// The mat.Matrix view must not recurse
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		assert.Equal(t, 4., M.T().At(0, 1))
	}
	// Row, Col and negative indexing
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		assert.Equal(t, []float64{4, 5, 6}, M.Row(-1).Data())
		assert.Equal(t, []float64{2, 5}, M.Col(1).Data())
	}
	// MulVec
	{
		M := NewMatrix(2, 2, []float64{
			2, 0,
			1, 3,
		})
		v := M.MulVec(NewVector(2, []float64{1, 2}))
		assert.Equal(t, []float64{2, 7}, v.Data())
	}
	// Read only protection
	{
		M := NewMatrix(2, 2)
		M.SetReadOnly("M")
		assert.True(t, M.IsReadOnly())
		assert.Panics(t, func() { M.Set(0, 0, 1) })
		C := M.Copy()
		assert.False(t, C.IsReadOnly())
		assert.NotPanics(t, func() { C.Set(0, 0, 1) })
		assert.Equal(t, 0., M.At(0, 0))
	}
	// Inverse
	{
		M := NewMatrix(2, 2, []float64{
			4, 7,
			2, 6,
		})
		Minv, err := M.Inverse()
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0.6, -0.7, -0.2, 0.4}, Minv.Data(), 1e-12)
		// The receiver is untouched
		assert.Equal(t, []float64{4, 7, 2, 6}, M.Data())
		_, err = NewMatrix(2, 2, []float64{1, 2, 2, 4}).Inverse()
		assert.Error(t, err)
	}
	// Scale
	{
		M := NewMatrix(1, 3, []float64{1, -2, 3}).Scale(-2)
		assert.Equal(t, []float64{-2, 4, -6}, M.Data())
	}
	// Conditioning
	{
		M := NewMatrix(2, 2, []float64{
			10, 0,
			0, 0.1,
		})
		values := M.SingularValueList()
		assert.InDeltaSlice(t, []float64{10, 0.1}, values, 1e-12)
		assert.InDelta(t, 100., ConditionOf(values), 1e-9)
		S := NewMatrix(2, 2, []float64{
			1, 1,
			1, 1,
		})
		assert.Greater(t, ConditionOf(S.SingularValueList()), 1e15)
		assert.True(t, math.IsInf(ConditionOf(nil), 1))
	}
	// Finite checks
	{
		M := NewMatrix(1, 2, []float64{1, math.Inf(1)})
		assert.False(t, AllFinite(M))
		M.Set(0, 1, math.NaN())
		assert.False(t, AllFinite(M))
		M.Set(0, 1, 2)
		assert.True(t, AllFinite(M))
		assert.True(t, AllFinite(NewVector(2, []float64{1, 2})))
	}
}

func TestUniformStep(t *testing.T) {
	dt, ok := UniformStep([]float64{0, 60, 120, 180})
	assert.True(t, ok)
	assert.Equal(t, 60., dt)
	_, ok = UniformStep([]float64{0, 60, 125})
	assert.False(t, ok)
	_, ok = UniformStep([]float64{0})
	assert.False(t, ok)
	_, ok = UniformStep([]float64{1, 0})
	assert.False(t, ok)
	// Accumulated floating point steps still count as uniform
	times := make([]float64, 50)
	for i := range times {
		times[i] = float64(i) * 0.1
	}
	_, ok = UniformStep(times)
	assert.True(t, ok)

	assert.True(t, Increasing([]float64{0, 1, 2}))
	assert.False(t, Increasing([]float64{0, 1, 1}))
	assert.False(t, Increasing([]float64{0, math.NaN()}))
	assert.False(t, Increasing(nil))
}
