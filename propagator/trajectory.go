package propagator

import (
	"github.com/notargets/heatflux/utils"
)

// Trajectory is a temperature field, one row of T per entry of Times.
type Trajectory struct {
	Times []float64
	T     utils.Matrix
}

// Trace maps every state through the sensor C.
func (tr *Trajectory) Trace(C utils.Vector) (y []float64) {
	var (
		K, _ = tr.T.Dims()
	)
	y = make([]float64, K)
	for k := 0; k < K; k++ {
		y[k] = tr.T.Row(k).Dot(C)
	}
	return
}

// Node is the temperature history of node i.
func (tr *Trajectory) Node(i int) []float64 {
	return tr.T.Col(i).Data()
}

// Final is the last state.
func (tr *Trajectory) Final() []float64 {
	return tr.T.Row(-1).Data()
}

// Resample interpolates every node onto times, holding the end states
// outside the trajectory's span.
func (tr *Trajectory) Resample(times []float64) (r *Trajectory) {
	var (
		_, N = tr.T.Dims()
	)
	r = &Trajectory{
		Times: append([]float64(nil), times...),
		T:     utils.NewMatrix(len(times), N),
	}
	for i := 0; i < N; i++ {
		r.T.SetCol(i, resample(tr.Times, tr.Node(i), times))
	}
	return
}
