package HeatFlux1D

import (
	"time"

	"github.com/notargets/heatflux/InputParameters"
	"github.com/notargets/heatflux/Slab1D"
	"github.com/notargets/heatflux/basis"
	"github.com/notargets/heatflux/inverse"
	"github.com/notargets/heatflux/propagator"
	"github.com/notargets/heatflux/reconstruct"
	"github.com/notargets/heatflux/sensitivity"
	"github.com/notargets/heatflux/types"
	"github.com/notargets/heatflux/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// HeatFlux is one configured slab with a sensor: it runs forward
// simulations and reconstructs the surface flux from sensor readings.
type HeatFlux struct {
	IP     *InputParameters.InputParametersHeat
	Sys    *Slab1D.System
	Sensor utils.Vector
	Scheme types.Scheme
	Solver inverse.Solver
	log    *logrus.Entry
}

func NewHeatFlux(ip *InputParameters.InputParametersHeat, log *logrus.Entry) (hf *HeatFlux, err error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if err = ip.Validate(); err != nil {
		return
	}
	hf = &HeatFlux{
		IP:     ip,
		Solver: inverse.NormalEquations{},
		log:    log.WithField("title", ip.Title),
	}
	if hf.Scheme, err = types.NewScheme(ip.Scheme); err != nil {
		return nil, err
	}
	if hf.Sys, err = Slab1D.NewSystem(hf.Geometry(), hf.Material(), Slab1D.Boundary{H: ip.H}); err != nil {
		return nil, err
	}
	if hf.Sensor, err = Slab1D.SensorAt(hf.Sys.Geometry, ip.SensorPosition); err != nil {
		return nil, err
	}
	hf.log.WithFields(logrus.Fields{
		"nodes":        ip.Nodes,
		"thickness":    ip.Thickness,
		"conductivity": ip.Conductivity,
		"capacity":     ip.Capacity,
		"h":            ip.H,
		"biot":         hf.Sys.Boundary.Biot(hf.Sys.Geometry, hf.Sys.Material),
		"sensor":       ip.SensorPosition,
		"scheme":       hf.Scheme.String(),
	}).Debug("slab configured")
	return
}

func (hf *HeatFlux) Geometry() Slab1D.Geometry {
	return Slab1D.Geometry{Thickness: hf.IP.Thickness, Nodes: hf.IP.Nodes}
}

func (hf *HeatFlux) Material() Slab1D.Material {
	return Slab1D.Material{Conductivity: hf.IP.Conductivity, Capacity: hf.IP.Capacity}
}

// InitialState is the uniform starting temperature, or nil for zero.
func (hf *HeatFlux) InitialState() []float64 {
	if hf.IP.InitialTemperature == 0 {
		return nil
	}
	T0 := make([]float64, hf.IP.Nodes)
	for i := range T0 {
		T0[i] = hf.IP.InitialTemperature
	}
	return T0
}

// Propagator returns the configured scheme.
func (hf *HeatFlux) Propagator() propagator.Tracer {
	switch hf.Scheme {
	case types.Scheme_Green:
		return propagator.Green{MaxEvaluations: hf.IP.MaxEvaluations}
	default:
		return propagator.Implicit{Dt: hf.IP.TimeStep, MaxSteps: hf.IP.MaxSteps}
	}
}

// Simulate returns the whole temperature field on times.
func (hf *HeatFlux) Simulate(times []float64, u propagator.Input) (tr *propagator.Trajectory, err error) {
	var (
		start = time.Now()
	)
	if len(times) == 0 {
		return nil, errors.Wrap(types.ErrDomain, "no output times")
	}
	switch hf.Scheme {
	case types.Scheme_Green:
		tr, err = propagator.Green{MaxEvaluations: hf.IP.MaxEvaluations}.Field(hf.Sys, hf.InitialState(), times, u)
	default:
		if !utils.Increasing(times) || times[0] < 0 {
			return nil, errors.Wrap(types.ErrDomain, "times must be non-negative and strictly increasing")
		}
		imp := propagator.Implicit{Dt: hf.IP.TimeStep, MaxSteps: hf.IP.MaxSteps}
		if tr, err = imp.Field(hf.Sys, hf.InitialState(), times[len(times)-1], u); err == nil {
			tr = tr.Resample(times)
		}
	}
	if err != nil {
		return nil, err
	}
	hf.log.WithFields(logrus.Fields{
		"steps":   len(times),
		"elapsed": time.Since(start).String(),
	}).Debug("forward simulation done")
	return
}

// Prepared is an inversion set up for one observation grid. Its
// sensitivity matrix is reused for any number of observation vectors.
type Prepared struct {
	hf          *HeatFlux
	Times       []float64
	Expansion   *basis.Expansion
	S           utils.Matrix
	Diagnostics inverse.Diagnostics
	Evaluations int64
	free        []float64 // sensor response to the initial state alone
}

type Result struct {
	Coefficients []float64
	Signal       *reconstruct.Signal
	Times        []float64 // reconstruction grid
	Flux         []float64 // reconstructed flux on Times
	Residuals    *reconstruct.Residuals
}

func (hf *HeatFlux) Prepare(times []float64) (p *Prepared, err error) {
	var (
		start = time.Now()
		b     *sensitivity.Builder
	)
	if len(times) < 2 {
		return nil, errors.Wrapf(types.ErrDomain, "need at least 2 observation times, got %d", len(times))
	}
	p = &Prepared{hf: hf, Times: append([]float64(nil), times...)}
	if p.Expansion, err = basis.Linspace(times[0], times[len(times)-1], hf.IP.Modes); err != nil {
		return nil, err
	}
	opts := sensitivity.Options{
		Workers:        hf.IP.Workers,
		Cache:          hf.IP.CacheResponses,
		MaxEvaluations: hf.IP.MaxEvaluations,
	}
	if b, err = sensitivity.NewBuilder(hf.Sys, hf.Sensor, times, p.Expansion, opts); err != nil {
		return nil, err
	}
	if p.S, err = b.Build(); err != nil {
		return nil, err
	}
	p.Evaluations = b.Evaluations()
	if p.Diagnostics, err = inverse.Diagnose(p.S); err != nil {
		return nil, err
	}
	if T0 := hf.InitialState(); T0 != nil {
		if p.free, err = (propagator.Green{}).Trace(hf.Sys, hf.Sensor, T0, times, propagator.Constant(0)); err != nil {
			return nil, err
		}
	}
	rows, cols := p.S.Dims()
	hf.log.WithFields(logrus.Fields{
		"rows":        rows,
		"columns":     cols,
		"rank":        p.Diagnostics.Rank,
		"condition":   p.Diagnostics.Condition,
		"evaluations": p.Evaluations,
		"elapsed":     time.Since(start).String(),
	}).Info("sensitivity matrix built")
	return
}

// Solve fits the flux to observations y taken at the prepared times.
func (p *Prepared) Solve(y []float64) (r *Result, err error) {
	var (
		hf   = p.hf
		yFit = append([]float64(nil), y...)
	)
	if len(y) != len(p.Times) {
		return nil, errors.Wrapf(types.ErrSizeMismatch, "%d observations for %d times", len(y), len(p.Times))
	}
	for i := range p.free {
		yFit[i] -= p.free[i]
	}
	r = &Result{}
	if r.Coefficients, err = hf.Solver.Solve(p.S, inverse.DropInitial(yFit)); err != nil {
		var sing *inverse.SingularSystemError
		if errors.As(err, &sing) {
			hf.log.WithFields(logrus.Fields{
				"rank":      sing.Rank,
				"columns":   sing.Columns,
				"condition": sing.Condition,
			}).Warn("sensitivity matrix is singular, reduce the number of modes")
		}
		return nil, err
	}
	if r.Signal, err = reconstruct.NewSignal(r.Coefficients, p.Expansion); err != nil {
		return nil, err
	}
	if r.Times, err = reconstruct.UniformGrid(p.Times[0], p.Times[len(p.Times)-1], hf.IP.ReconstructionPoints); err != nil {
		return nil, err
	}
	r.Flux = r.Signal.Sample(r.Times)
	if r.Residuals, err = reconstruct.Validate(hf.Sys, hf.Sensor, hf.InitialState(), p.Times, y, r.Signal, nil); err != nil {
		return nil, err
	}
	hf.log.WithFields(logrus.Fields{
		"rms": r.Residuals.RMS,
		"max": r.Residuals.Max,
	}).Info("flux reconstructed")
	return
}

// Invert prepares and solves in one call.
func (hf *HeatFlux) Invert(times, y []float64) (r *Result, err error) {
	var (
		p *Prepared
	)
	if p, err = hf.Prepare(times); err != nil {
		return
	}
	return p.Solve(y)
}
