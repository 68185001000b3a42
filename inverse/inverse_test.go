package inverse

import (
	"math"
	"testing"

	"github.com/notargets/heatflux/Slab1D"
	"github.com/notargets/heatflux/basis"
	"github.com/notargets/heatflux/propagator"
	"github.com/notargets/heatflux/sensitivity"
	"github.com/notargets/heatflux/types"
	"github.com/notargets/heatflux/utils"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLeastSquares(t *testing.T) {
	var (
		S = mat.NewDense(4, 2, []float64{
			1, 0,
			0, 2,
			1, 1,
			3, -1,
		})
		y    = []float64{1, 2, 3, 0.5}
		want mat.VecDense
	)
	// QR reference
	require.NoError(t, want.SolveVec(S, mat.NewVecDense(4, y)))
	a, err := NormalEquations{}.Solve(S, y)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want.RawVector().Data, a, 1e-12)

	d, err := Diagnose(S)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Rank)
	assert.Len(t, d.SingularValues, 2)
	assert.InDelta(t, d.SingularValues[0]/d.SingularValues[1], d.Condition, 1e-12)
	// A wrapped matrix is diagnosed without copying and agrees
	dw, err := Diagnose(utils.NewMatrixFromDense(S))
	require.NoError(t, err)
	assert.Equal(t, d.Rank, dw.Rank)
	assert.InDeltaSlice(t, d.SingularValues, dw.SingularValues, 1e-12)

	_, err = NormalEquations{}.Solve(S, y[:3])
	assert.True(t, errors.Is(err, types.ErrSizeMismatch))
	assert.Equal(t, []float64{2, 3, 0.5}, DropInitial(y))
	assert.Empty(t, DropInitial(y[:1]))
}

func TestRankDeficient(t *testing.T) {
	S := mat.NewDense(3, 3, []float64{
		1, 0, 2,
		0, 0, 1,
		1, 0, 0,
	})
	_, err := NormalEquations{}.Solve(S, []float64{1, 2, 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrSingularSystem))
	var sing *SingularSystemError
	require.True(t, errors.As(err, &sing))
	assert.Equal(t, 2, sing.Rank)
	assert.Equal(t, 3, sing.Columns)
	assert.Contains(t, err.Error(), "rank 2 of 3")

	// More columns than rows
	wide := mat.NewDense(2, 3, []float64{
		1, 0, 0,
		0, 1, 0,
	})
	d, err := Diagnose(wide)
	require.NoError(t, err)
	assert.True(t, math.IsInf(d.Condition, 1))
	_, err = NormalEquations{}.Solve(wide, []float64{1, 2})
	assert.True(t, errors.Is(err, types.ErrSingularSystem))
}

type pipeline struct {
	sys       *Slab1D.System
	times     []float64
	expansion *basis.Expansion
}

func buildS(t *testing.T, K, m, sensorNode int) (S mat.Matrix, pipe pipeline) {
	sys, err := Slab1D.NewSystem(
		Slab1D.Geometry{Thickness: 0.05, Nodes: 11},
		Slab1D.Material{Conductivity: 0.3, Capacity: 1.2e6},
		Slab1D.Boundary{H: 10})
	require.NoError(t, err)
	C, err := Slab1D.SensorAtNode(sys.Geometry, sensorNode)
	require.NoError(t, err)
	times := make([]float64, K)
	for i := range times {
		times[i] = float64(i) * 60
	}
	expansion, err := basis.Linspace(0, times[K-1], m)
	require.NoError(t, err)
	b, err := sensitivity.NewBuilder(sys, C, times, expansion, sensitivity.DefaultOptions())
	require.NoError(t, err)
	Sm, err := b.Build()
	require.NoError(t, err)
	return Sm, pipeline{sys, times, expansion}
}

func TestRoundTrip(t *testing.T) {
	var (
		S, pipe = buildS(t, 41, 6, 0)
		a       = []float64{200, 900, 400, 1300, 600}
	)
	C, err := Slab1D.SensorAtNode(pipe.sys.Geometry, 0)
	require.NoError(t, err)
	u := propagator.Func(func(t float64) float64 { return pipe.expansion.Evaluate(a, t) })
	y, err := propagator.Green{}.Trace(pipe.sys, C, nil, pipe.times, u)
	require.NoError(t, err)
	got, err := NormalEquations{}.Solve(S, DropInitial(y))
	require.NoError(t, err)
	for j := range a {
		assert.InDelta(t, a[j], got[j], 1e-6*math.Abs(a[j]), "a[%d]", j)
	}
}

func TestExcessiveModes(t *testing.T) {
	for m := 12; m <= 15; m++ {
		S, _ := buildS(t, 11, m, 5)
		_, err := NormalEquations{}.Solve(S, make([]float64, 10))
		assert.Truef(t, errors.Is(err, types.ErrSingularSystem), "m = %d: %v", m, err)
	}
	S, _ := buildS(t, 11, 3, 5)
	_, err := NormalEquations{}.Solve(S, make([]float64, 10))
	assert.NoError(t, err)
}
