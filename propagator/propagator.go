package propagator

import (
	"math"

	"github.com/notargets/heatflux/Slab1D"
	"github.com/notargets/heatflux/types"
	"github.com/notargets/heatflux/utils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"
)

// Tracer produces the sensor temperature at each of times, starting from
// state T0 at time zero. Temperatures are relative to ambient.
type Tracer interface {
	Trace(sys *Slab1D.System, C utils.Vector, T0 []float64, times []float64, u Input) ([]float64, error)
}

var (
	_ Tracer = Implicit{}
	_ Tracer = Green{}
)

func initialState(sys *Slab1D.System, T0 []float64) (*mat.VecDense, error) {
	var (
		N = sys.Nodes()
	)
	if T0 == nil {
		return mat.NewVecDense(N, nil), nil
	}
	if len(T0) != N {
		return nil, errors.Wrapf(types.ErrSizeMismatch, "initial state has %d values for %d nodes", len(T0), N)
	}
	if !utils.AllFinite(T0) {
		return nil, errors.Wrap(types.ErrDomain, "initial state is not finite")
	}
	return mat.NewVecDense(N, append([]float64(nil), T0...)), nil
}

func checkSensor(sys *Slab1D.System, C utils.Vector) error {
	if C.V == nil || C.Len() != sys.Nodes() {
		n := 0
		if C.V != nil {
			n = C.Len()
		}
		return errors.Wrapf(types.ErrSizeMismatch, "sensor has %d weights for %d nodes", n, sys.Nodes())
	}
	return nil
}

func checkTimes(times []float64) error {
	if len(times) == 0 {
		return errors.Wrap(types.ErrDomain, "no output times")
	}
	if !utils.Increasing(times) {
		return errors.Wrap(types.ErrDomain, "times must be finite and strictly increasing")
	}
	if times[0] < 0 {
		return errors.Wrapf(types.ErrDomain, "negative time %v", times[0])
	}
	return nil
}

// resample linearly interpolates y given on grid onto times, holding the
// last value past the end of grid.
func resample(grid, y, times []float64) (r []float64) {
	r = make([]float64, len(times))
	if len(grid) == 1 {
		for i := range r {
			r[i] = y[0]
		}
		return
	}
	var (
		pl   interp.PiecewiseLinear
		last = grid[len(grid)-1]
	)
	_ = pl.Fit(grid, y)
	for i, t := range times {
		r[i] = pl.Predict(math.Min(math.Max(t, grid[0]), last))
	}
	return
}

// QuadratureGrid is the grid a convolution over [0, times[k]] is
// integrated on. It is times itself when times starts at 0. Otherwise
// times is preceded by evenly spaced points covering [0, times[0]), no
// coarser than the first step of times, so that times[k] is grid[offset+k].
func QuadratureGrid(times []float64) (grid []float64, offset int) {
	if len(times) == 0 || times[0] == 0 {
		return append([]float64(nil), times...), 0
	}
	h := times[0]
	if len(times) > 1 {
		h = math.Min(h, times[1]-times[0])
	}
	offset = int(math.Ceil(times[0]/h - 1e-9))
	grid = make([]float64, offset, offset+len(times))
	for i := 0; i < offset; i++ {
		grid[i] = float64(i) * times[0] / float64(offset)
	}
	grid = append(grid, times...)
	return
}
