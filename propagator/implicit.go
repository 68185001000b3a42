package propagator

import (
	"math"

	"github.com/notargets/heatflux/Slab1D"
	"github.com/notargets/heatflux/types"
	"github.com/notargets/heatflux/utils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Implicit integrates the state with backward Euler on the uniform grid
// 0, Dt, ..., n Dt covering the requested horizon. The step operator
// (I - Dt A)^-1 is formed once per call.
type Implicit struct {
	Dt       float64
	MaxSteps int // 0 is unlimited
}

func (p Implicit) Field(sys *Slab1D.System, T0 []float64, finalTime float64, u Input) (tr *Trajectory, err error) {
	if math.IsNaN(p.Dt) || math.IsInf(p.Dt, 0) || p.Dt <= 0 {
		err = errors.Wrapf(types.ErrConfiguration, "time step must be positive, got %v", p.Dt)
		return
	}
	if math.IsNaN(finalTime) || math.IsInf(finalTime, 0) || finalTime < 0 {
		err = errors.Wrapf(types.ErrDomain, "invalid final time %v", finalTime)
		return
	}
	var (
		N      = sys.Nodes()
		nSteps = int(math.Ceil(finalTime/p.Dt - 1e-9))
		Tk     *mat.VecDense
		step   utils.Matrix
		rhs    = utils.NewVector(N)
		b      = sys.B.V
	)
	if nSteps < 0 {
		nSteps = 0
	}
	if p.MaxSteps > 0 && nSteps > p.MaxSteps {
		err = errors.Wrapf(types.ErrIterationLimit, "%d steps needed, limit is %d", nSteps, p.MaxSteps)
		return
	}
	if Tk, err = initialState(sys, T0); err != nil {
		return
	}
	// step = (I - Dt A)^-1, inverted once
	M := sys.A.Copy().Scale(-p.Dt)
	for i := 0; i < N; i++ {
		M.Set(i, i, M.At(i, i)+1)
	}
	if step, err = M.Inverse(); err != nil {
		return nil, errors.Wrap(types.ErrNumericalFailure, err.Error())
	}

	tr = &Trajectory{
		Times: make([]float64, nSteps+1),
		T:     utils.NewMatrix(nSteps+1, N),
	}
	tr.T.SetRow(0, Tk.RawVector().Data)
	for k := 0; k < nSteps; k++ {
		var (
			t   = float64(k+1) * p.Dt
			val = u.At(t)
		)
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, errors.Wrapf(types.ErrDomain, "input is not finite at t = %v", t)
		}
		rhs.V.AddScaledVec(Tk, p.Dt*val, b)
		Tk = step.MulVec(rhs).V
		if !utils.AllFinite(Tk.RawVector().Data) {
			return nil, errors.Wrapf(types.ErrNumericalFailure, "non-finite state at t = %v", t)
		}
		tr.Times[k+1] = t
		tr.T.SetRow(k+1, Tk.RawVector().Data)
	}
	return
}

// Trace solves on the internal grid and interpolates C T onto times.
func (p Implicit) Trace(sys *Slab1D.System, C utils.Vector, T0 []float64, times []float64, u Input) (y []float64, err error) {
	var (
		tr *Trajectory
	)
	if err = checkSensor(sys, C); err != nil {
		return
	}
	if err = checkTimes(times); err != nil {
		return
	}
	if tr, err = p.Field(sys, T0, times[len(times)-1], u); err != nil {
		return
	}
	y = resample(tr.Times, tr.Trace(C), times)
	return
}
