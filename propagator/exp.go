package propagator

import (
	"gonum.org/v1/gonum/mat"
)

// Exponentiator computes dst = exp(a t).
type Exponentiator interface {
	Exp(dst *mat.Dense, a mat.Matrix, t float64)
}

// PadeExp is the scaling and squaring Pade approximant of mat.Dense.Exp.
type PadeExp struct{}

func (PadeExp) Exp(dst *mat.Dense, a mat.Matrix, t float64) {
	var (
		at mat.Dense
	)
	at.Scale(t, a)
	dst.Exp(&at)
}
