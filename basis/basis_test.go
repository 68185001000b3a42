package basis

import (
	"math"
	"testing"

	"github.com/notargets/heatflux/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKernel(t *testing.T) {
	e, err := NewExpansion([]float64{0, 10, 30, 40})
	require.NoError(t, err)
	assert.Equal(t, 4, e.Modes())
	assert.Equal(t, 3, e.Fitted())

	// First kernel has no rise
	assert.Equal(t, 1., e.Kernel(0, 0))
	assert.Equal(t, 0.5, e.Kernel(0, 5))
	assert.Equal(t, 0., e.Kernel(0, -1))
	assert.Equal(t, 0., e.Kernel(0, 10))
	// Interior kernel uses local widths on each side
	assert.Equal(t, 0.5, e.Kernel(1, 5))
	assert.Equal(t, 1., e.Kernel(1, 10))
	assert.Equal(t, 0.5, e.Kernel(1, 20))
	assert.Equal(t, 0., e.Kernel(1, 30))
	// Last kernel has no fall and peaks at the last anchor
	assert.Equal(t, 0.5, e.Kernel(3, 35))
	assert.Equal(t, 1., e.Kernel(3, 40))
	assert.Equal(t, 0., e.Kernel(3, 41))
	assert.Equal(t, 0., e.Kernel(4, 40))
	assert.Equal(t, 0., e.Kernel(-1, 0))

	// Kernels never exceed one and sum to one across the anchor span
	for tt := 0.; tt <= 40; tt += 0.25 {
		var sum float64
		for _, k := range e.Kernels(tt) {
			assert.True(t, k >= 0 && k <= 1)
			sum += k
		}
		assert.InDelta(t, 1., sum, 1e-12, "t = %v", tt)
	}
	for _, anchor := range e.Anchors {
		assert.Equal(t, []float64{1}, nonZero(e.Kernels(anchor)))
	}
}

func nonZero(v []float64) (r []float64) {
	for _, x := range v {
		if x != 0 {
			r = append(r, x)
		}
	}
	return
}

func TestEvaluate(t *testing.T) {
	e, err := Linspace(0, 100, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 25, 50, 75, 100}, e.Anchors)
	a := []float64{1, 3, -2, 4, 7}
	for j, anchor := range e.Anchors {
		assert.InDelta(t, a[j], e.Evaluate(a, anchor), 1e-12)
	}
	assert.InDelta(t, 2., e.Evaluate(a, 12.5), 1e-12)
	assert.InDelta(t, 5.5, e.Evaluate(a, 87.5), 1e-12)
	// Fewer coefficients than kernels leave the rest at zero
	assert.InDelta(t, 0., e.Evaluate(a[:4], 100), 1e-12)
	assert.InDelta(t, 2., e.Evaluate(a[:4], 87.5), 1e-12)
	assert.Equal(t, 0., e.Evaluate(a, 150))
}

func TestExpansionDomain(t *testing.T) {
	for _, anchors := range [][]float64{
		nil,
		{1},
		{0, 0},
		{0, 2, 1},
		{0, math.NaN()},
		{0, math.Inf(1)},
	} {
		_, err := NewExpansion(anchors)
		assert.True(t, errors.Is(err, types.ErrDomain), "%v", anchors)
	}
	_, err := Linspace(0, 10, 1)
	assert.True(t, errors.Is(err, types.ErrDomain))
	_, err = Linspace(10, 10, 3)
	assert.True(t, errors.Is(err, types.ErrDomain))
}
