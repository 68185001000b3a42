package reconstruct

import (
	"math"

	"github.com/notargets/heatflux/Slab1D"
	"github.com/notargets/heatflux/basis"
	"github.com/notargets/heatflux/propagator"
	"github.com/notargets/heatflux/types"
	"github.com/notargets/heatflux/utils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Signal is a heat flux history rebuilt from fitted basis coefficients.
type Signal struct {
	Coefficients []float64
	Expansion    *basis.Expansion
}

var _ propagator.Input = (*Signal)(nil)

func NewSignal(a []float64, expansion *basis.Expansion) (*Signal, error) {
	if expansion == nil {
		return nil, errors.Wrap(types.ErrDomain, "nil basis expansion")
	}
	if len(a) > expansion.Modes() {
		return nil, errors.Wrapf(types.ErrSizeMismatch, "%d coefficients for %d modes", len(a), expansion.Modes())
	}
	if !utils.AllFinite(a) {
		return nil, errors.Wrap(types.ErrDomain, "coefficients must be finite")
	}
	return &Signal{
		Coefficients: append([]float64(nil), a...),
		Expansion:    expansion,
	}, nil
}

func (s *Signal) At(t float64) float64 { return s.Expansion.Evaluate(s.Coefficients, t) }

func (s *Signal) Sample(times []float64) []float64 { return propagator.Sample(s, times) }

// UniformGrid is n equally spaced times on [t0, t1].
func UniformGrid(t0, t1 float64, n int) ([]float64, error) {
	if n < 2 || !(t1 > t0) {
		return nil, errors.Wrapf(types.ErrDomain, "cannot place %d points on [%v, %v]", n, t0, t1)
	}
	return floats.Span(make([]float64, n), t0, t1), nil
}

type Residuals struct {
	Predicted []float64 // re-simulated sensor trace
	Values    []float64 // observed minus predicted
	RMS       float64
	Max       float64 // largest absolute residual
}

// Validate drives the slab with the reconstructed input and compares the
// simulated sensor trace with the observations y at every time, including
// the first. A nil prop selects the exact propagator.
func Validate(sys *Slab1D.System, C utils.Vector, T0, times, y []float64,
	signal propagator.Input, prop propagator.Tracer) (r *Residuals, err error) {
	if len(y) != len(times) {
		err = errors.Wrapf(types.ErrSizeMismatch, "%d observations for %d times", len(y), len(times))
		return
	}
	if prop == nil {
		prop = propagator.Green{}
	}
	r = &Residuals{}
	if r.Predicted, err = prop.Trace(sys, C, T0, times, signal); err != nil {
		return nil, err
	}
	r.Values = make([]float64, len(y))
	floats.SubTo(r.Values, y, r.Predicted)
	if r.RMS, err = RMS(y, r.Predicted); err != nil {
		return nil, err
	}
	r.Max = floats.Norm(r.Values, math.Inf(1))
	return
}

// RMS is the root mean square difference of a and b.
func RMS(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.Wrapf(types.ErrSizeMismatch, "lengths %d and %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, errors.Wrap(types.ErrDomain, "no samples")
	}
	return floats.Distance(a, b, 2) / math.Sqrt(float64(len(a))), nil
}
