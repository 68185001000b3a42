package propagator

import (
	"math"

	"github.com/notargets/heatflux/types"
	"github.com/notargets/heatflux/utils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/interp"
)

// Input is a boundary heat flux u(t) in W/m^2.
type Input interface {
	At(t float64) float64
}

type Constant float64

func (c Constant) At(float64) float64 { return float64(c) }

type Func func(t float64) float64

func (f Func) At(t float64) float64 { return f(t) }

// History is a tabulated input, linear between samples and flat outside.
type History struct {
	Times, Values []float64
	pl            interp.PiecewiseLinear
}

func NewHistory(times, values []float64) (h *History, err error) {
	if len(times) != len(values) {
		err = errors.Wrapf(types.ErrSizeMismatch, "history has %d times and %d values", len(times), len(values))
		return
	}
	if !utils.Increasing(times) {
		err = errors.Wrap(types.ErrDomain, "history times must be finite and strictly increasing")
		return
	}
	if !utils.AllFinite(values) {
		err = errors.Wrap(types.ErrDomain, "history values must be finite")
		return
	}
	h = &History{
		Times:  append([]float64(nil), times...),
		Values: append([]float64(nil), values...),
	}
	if len(times) > 1 {
		if err = h.pl.Fit(h.Times, h.Values); err != nil {
			return nil, errors.Wrap(types.ErrDomain, err.Error())
		}
	}
	return
}

func (h *History) At(t float64) float64 {
	var (
		n = len(h.Times)
	)
	switch {
	case n == 1 || t <= h.Times[0]:
		return h.Values[0]
	case t >= h.Times[n-1]:
		return h.Values[n-1]
	case math.IsNaN(t):
		return math.NaN()
	}
	return h.pl.Predict(t)
}

// Sample evaluates u on every time in times.
func Sample(u Input, times []float64) (values []float64) {
	values = make([]float64, len(times))
	for i, t := range times {
		values[i] = u.At(t)
	}
	return
}
