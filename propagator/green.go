package propagator

import (
	"math"

	"github.com/notargets/heatflux/Slab1D"
	"github.com/notargets/heatflux/types"
	"github.com/notargets/heatflux/utils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/mat"
)

// Green propagates the state exactly with the matrix exponential and
// convolves the input with the impulse response by trapezoid quadrature
// over the given time grid.
type Green struct {
	Exp            Exponentiator // nil selects PadeExp
	MaxEvaluations int           // matrix exponentials per call, 0 is unlimited
}

func (p Green) exponentiator() Exponentiator {
	if p.Exp == nil {
		return PadeExp{}
	}
	return p.Exp
}

// budget counts matrix exponentials against MaxEvaluations.
type budget struct {
	max, used int
}

func (bg *budget) spend() error {
	bg.used++
	if bg.max > 0 && bg.used > bg.max {
		return errors.Wrapf(types.ErrIterationLimit, "more than %d matrix exponentials", bg.max)
	}
	return nil
}

// Response is the sensor reading g(lag) = C exp(A lag) b for a unit flux
// impulse applied lag seconds earlier.
func (p Green) Response(sys *Slab1D.System, C utils.Vector, lag float64) (g float64, err error) {
	if err = checkSensor(sys, C); err != nil {
		return
	}
	if math.IsNaN(lag) || math.IsInf(lag, 0) || lag < 0 {
		err = errors.Wrapf(types.ErrDomain, "invalid lag %v", lag)
		return
	}
	var (
		v *mat.VecDense
	)
	if v, err = p.impulse(sys, lag); err != nil {
		return
	}
	g = mat.Dot(C.V, v)
	if math.IsNaN(g) || math.IsInf(g, 0) {
		err = errors.Wrapf(types.ErrNumericalFailure, "non-finite response at lag %v", lag)
	}
	return
}

// impulse is exp(A lag) b.
func (p Green) impulse(sys *Slab1D.System, lag float64) (v *mat.VecDense, err error) {
	var (
		E mat.Dense
	)
	p.exponentiator().Exp(&E, sys.A.M, lag)
	v = mat.NewVecDense(sys.Nodes(), nil)
	v.MulVec(&E, sys.B.V)
	if !utils.AllFinite(v.RawVector().Data) {
		err = errors.Wrapf(types.ErrNumericalFailure, "non-finite impulse response at lag %v", lag)
	}
	return
}

// decay returns exp(A t_k) T0 for every k, stepping the semigroup from
// one grid time to the next.
func (p Green) decay(sys *Slab1D.System, T0 *mat.VecDense, times []float64, bg *budget) (d []*mat.VecDense, err error) {
	var (
		N          = sys.Nodes()
		dt, unif   = utils.UniformStep(times)
		Edt        mat.Dense
		haveEdt    bool
		exp        = p.exponentiator()
		prev, tPrv = T0, 0.
	)
	d = make([]*mat.VecDense, len(times))
	if mat.Norm(T0, math.Inf(1)) == 0 {
		for k := range d {
			d[k] = mat.NewVecDense(N, nil)
		}
		return
	}
	for k, t := range times {
		d[k] = mat.NewVecDense(N, nil)
		switch step := t - tPrv; {
		case step == 0:
			d[k].CopyVec(prev)
		case unif && k > 0:
			if !haveEdt {
				if err = bg.spend(); err != nil {
					return
				}
				exp.Exp(&Edt, sys.A.M, dt)
				haveEdt = true
			}
			d[k].MulVec(&Edt, prev)
		default:
			var E mat.Dense
			if err = bg.spend(); err != nil {
				return
			}
			exp.Exp(&E, sys.A.M, step)
			d[k].MulVec(&E, prev)
		}
		if !utils.AllFinite(d[k].RawVector().Data) {
			err = errors.Wrapf(types.ErrNumericalFailure, "non-finite state at t = %v", t)
			return
		}
		prev, tPrv = d[k], t
	}
	return
}

// lags looks up exp(A (t_k - t_i)) b for k >= i, memoised by step count
// when the grid is uniform.
func (p Green) lags(sys *Slab1D.System, times []float64, bg *budget) func(k, i int) (*mat.VecDense, error) {
	var (
		dt, unif = utils.UniformStep(times)
		byStep   = make([]*mat.VecDense, len(times))
	)
	return func(k, i int) (v *mat.VecDense, err error) {
		if !unif {
			if err = bg.spend(); err != nil {
				return
			}
			return p.impulse(sys, times[k]-times[i])
		}
		if v = byStep[k-i]; v != nil {
			return
		}
		if err = bg.spend(); err != nil {
			return
		}
		if v, err = p.impulse(sys, float64(k-i)*dt); err != nil {
			return
		}
		byStep[k-i] = v
		return
	}
}

// scalarLags is lags seen through the sensor C.
func (p Green) scalarLags(sys *Slab1D.System, C utils.Vector, times []float64, bg *budget) func(k, i int) (float64, error) {
	var (
		_, unif = utils.UniformStep(times)
		vectors = p.lags(sys, times, bg)
		byStep  = make([]float64, len(times))
		have    = make([]bool, len(times))
	)
	return func(k, i int) (g float64, err error) {
		if unif && have[k-i] {
			return byStep[k-i], nil
		}
		var v *mat.VecDense
		if v, err = vectors(k, i); err != nil {
			return
		}
		g = mat.Dot(C.V, v)
		if unif {
			byStep[k-i], have[k-i] = g, true
		}
		return
	}
}

// Field returns the full temperature field on times, starting from T0 at
// time zero. The forcing is integrated from zero even when times starts
// later.
func (p Green) Field(sys *Slab1D.System, T0 []float64, times []float64, u Input) (tr *Trajectory, err error) {
	var (
		N      = sys.Nodes()
		bg     = &budget{max: p.MaxEvaluations}
		x0     *mat.VecDense
		d      []*mat.VecDense
		uVals  []float64
		f      []float64
		impuls []*mat.VecDense
	)
	if err = checkTimes(times); err != nil {
		return
	}
	if x0, err = initialState(sys, T0); err != nil {
		return
	}
	grid, offset := QuadratureGrid(times)
	if uVals, err = sampleInput(u, grid); err != nil {
		return
	}
	if d, err = p.decay(sys, x0, times, bg); err != nil {
		return
	}
	response := p.lags(sys, grid, bg)
	tr = &Trajectory{
		Times: append([]float64(nil), times...),
		T:     utils.NewMatrix(len(times), N),
	}
	f = make([]float64, len(grid))
	impuls = make([]*mat.VecDense, len(grid))
	for k := range times {
		var (
			kg  = offset + k
			row = d[k].RawVector().Data
		)
		if kg > 0 {
			for i := 0; i <= kg; i++ {
				if impuls[i], err = response(kg, i); err != nil {
					return nil, err
				}
			}
			for n := 0; n < N; n++ {
				for i := 0; i <= kg; i++ {
					f[i] = impuls[i].AtVec(n) * uVals[i]
				}
				row[n] += integrate.Trapezoidal(grid[:kg+1], f[:kg+1])
			}
		}
		if !utils.AllFinite(row) {
			return nil, errors.Wrapf(types.ErrNumericalFailure, "non-finite state at t = %v", times[k])
		}
		tr.T.SetRow(k, row)
	}
	return
}

// Trace applies C inside the convolution so only the scalar response
// g(lag) is integrated.
func (p Green) Trace(sys *Slab1D.System, C utils.Vector, T0 []float64, times []float64, u Input) (y []float64, err error) {
	var (
		bg    = &budget{max: p.MaxEvaluations}
		x0    *mat.VecDense
		d     []*mat.VecDense
		uVals []float64
		f     []float64
	)
	if err = checkSensor(sys, C); err != nil {
		return
	}
	if err = checkTimes(times); err != nil {
		return
	}
	if x0, err = initialState(sys, T0); err != nil {
		return
	}
	grid, offset := QuadratureGrid(times)
	if uVals, err = sampleInput(u, grid); err != nil {
		return
	}
	if d, err = p.decay(sys, x0, times, bg); err != nil {
		return
	}
	response := p.scalarLags(sys, C, grid, bg)
	y = make([]float64, len(times))
	f = make([]float64, len(grid))
	for k := range times {
		kg := offset + k
		y[k] = mat.Dot(C.V, d[k])
		if kg == 0 {
			continue
		}
		for i := 0; i <= kg; i++ {
			var g float64
			if g, err = response(kg, i); err != nil {
				return nil, err
			}
			f[i] = g * uVals[i]
		}
		y[k] += integrate.Trapezoidal(grid[:kg+1], f[:kg+1])
		if math.IsNaN(y[k]) || math.IsInf(y[k], 0) {
			return nil, errors.Wrapf(types.ErrNumericalFailure, "non-finite sensor value at t = %v", times[k])
		}
	}
	return
}

func sampleInput(u Input, times []float64) (vals []float64, err error) {
	vals = Sample(u, times)
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Wrapf(types.ErrDomain, "input is not finite at t = %v", times[i])
		}
	}
	return
}
