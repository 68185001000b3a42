package HeatFlux1D

import (
	"math"
	"sync/atomic"

	"github.com/notargets/heatflux/Slab1D"
	"github.com/notargets/heatflux/propagator"
	"github.com/notargets/heatflux/types"
	"github.com/notargets/heatflux/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Params are the quantities an external sampler varies.
type Params struct {
	Conductivity   float64
	SensorPosition float64
}

// Evaluator is the forward model seen by samplers and calibration loops:
// for a parameter set it predicts the sensor trace at the observation
// times under a known flux history.
type Evaluator struct {
	hf       *HeatFlux
	input    propagator.Input
	times    []float64
	observed []float64
	failures int64
}

func (hf *HeatFlux) NewEvaluator(u propagator.Input, times, observed []float64) (e *Evaluator, err error) {
	if len(times) != len(observed) {
		return nil, errors.Wrapf(types.ErrSizeMismatch, "%d observations for %d times", len(observed), len(times))
	}
	if !utils.Increasing(times) || times[0] < 0 {
		return nil, errors.Wrap(types.ErrDomain, "observation times must be non-negative and strictly increasing")
	}
	e = &Evaluator{
		hf:       hf,
		input:    u,
		times:    append([]float64(nil), times...),
		observed: append([]float64(nil), observed...),
	}
	return
}

// Forward predicts the sensor readings for p with the implicit scheme,
// interpolated onto the observation times.
func (e *Evaluator) Forward(p Params) (y []float64, err error) {
	var (
		sys *Slab1D.System
		C   utils.Vector
		ip  = e.hf.IP
	)
	mat := e.hf.Material()
	mat.Conductivity = p.Conductivity
	if sys, err = e.hf.Sys.Rebuild(mat); err != nil {
		return
	}
	if C, err = Slab1D.SensorAt(sys.Geometry, p.SensorPosition); err != nil {
		return
	}
	imp := propagator.Implicit{Dt: ip.TimeStep, MaxSteps: ip.MaxSteps}
	return imp.Trace(sys, C, e.hf.InitialState(), e.times, e.input)
}

// Cost is the sum of squared residuals. A numerical failure yields +Inf
// and is counted; configuration errors are returned.
func (e *Evaluator) Cost(p Params) (cost float64, err error) {
	var (
		y []float64
	)
	if y, err = e.Forward(p); err != nil {
		if types.IsEvaluationFailure(err) {
			e.fail(p, err)
			return math.Inf(1), nil
		}
		return math.NaN(), err
	}
	for i := range y {
		r := e.observed[i] - y[i]
		cost += r * r
	}
	return
}

// LogLikelihood is the Gaussian log likelihood of the observations with
// noise standard deviation sigma. A numerical failure yields -Inf.
func (e *Evaluator) LogLikelihood(p Params, sigma float64) (ll float64, err error) {
	var (
		cost float64
		n    = float64(len(e.observed))
	)
	if math.IsNaN(sigma) || sigma <= 0 {
		return math.NaN(), errors.Wrapf(types.ErrConfiguration, "noise sigma must be positive, got %v", sigma)
	}
	if cost, err = e.Cost(p); err != nil {
		return math.NaN(), err
	}
	if math.IsInf(cost, 1) {
		return math.Inf(-1), nil
	}
	ll = -0.5*cost/(sigma*sigma) - n*math.Log(sigma*math.Sqrt(2*math.Pi))
	return
}

// Failures counts evaluations turned into sentinels.
func (e *Evaluator) Failures() int64 { return atomic.LoadInt64(&e.failures) }

func (e *Evaluator) fail(p Params, err error) {
	atomic.AddInt64(&e.failures, 1)
	e.hf.log.WithFields(logrus.Fields{
		"conductivity": p.Conductivity,
		"sensor":       p.SensorPosition,
	}).WithError(err).Warn("forward evaluation failed")
}

// Sweep evaluates Cost for every parameter set on NP goroutines.
func (e *Evaluator) Sweep(params []Params, NP int) (costs []float64, err error) {
	var (
		pm = utils.NewPartitionMap(NP, len(params))
	)
	costs = make([]float64, len(params))
	err = pm.Run(func(bn, kMin, kMax int) (err error) {
		for k := kMin; k < kMax; k++ {
			if costs[k], err = e.Cost(params[k]); err != nil {
				return
			}
		}
		return
	})
	if err != nil {
		return nil, err
	}
	return
}
