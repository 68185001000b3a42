// Package basis represents a heat flux history as a combination of
// piecewise linear hat functions centred on a set of anchor times.
package basis

import (
	"github.com/notargets/heatflux/types"
	"github.com/notargets/heatflux/utils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

type Expansion struct {
	Anchors []float64
}

func NewExpansion(anchors []float64) (*Expansion, error) {
	if len(anchors) < 2 {
		return nil, errors.Wrapf(types.ErrDomain, "need at least 2 anchors, got %d", len(anchors))
	}
	if !utils.Increasing(anchors) {
		return nil, errors.Wrap(types.ErrDomain, "anchors must be finite and strictly increasing")
	}
	return &Expansion{Anchors: append([]float64(nil), anchors...)}, nil
}

// Linspace places m equally spaced anchors on [t0, t1].
func Linspace(t0, t1 float64, m int) (*Expansion, error) {
	if m < 2 {
		return nil, errors.Wrapf(types.ErrDomain, "need at least 2 anchors, got %d", m)
	}
	if !(t1 > t0) {
		return nil, errors.Wrapf(types.ErrDomain, "empty anchor interval [%v, %v]", t0, t1)
	}
	return NewExpansion(floats.Span(make([]float64, m), t0, t1))
}

// Modes is the number of kernels, one per anchor.
func (e *Expansion) Modes() int { return len(e.Anchors) }

// Fitted is the number of kernels carried by an inversion. The kernel of
// the last anchor is never fitted.
func (e *Expansion) Fitted() int { return len(e.Anchors) - 1 }

// Kernel is hat function j at time t. It rises from 0 to 1 over
// [t_{j-1}, t_j) and falls back to 0 over [t_j, t_{j+1}]; the first kernel
// has no rise and the last has no fall. Out of range j is zero everywhere.
func (e *Expansion) Kernel(j int, t float64) float64 {
	var (
		a = e.Anchors
		m = len(a)
	)
	if j < 0 || j >= m {
		return 0
	}
	if j > 0 && t >= a[j-1] && (t < a[j] || (j == m-1 && t == a[j])) {
		return (t - a[j-1]) / (a[j] - a[j-1])
	}
	if j < m-1 && t >= a[j] && t <= a[j+1] {
		return (a[j+1] - t) / (a[j+1] - a[j])
	}
	return 0
}

// Kernels evaluates every kernel at t.
func (e *Expansion) Kernels(t float64) (k []float64) {
	k = make([]float64, len(e.Anchors))
	for j := range k {
		k[j] = e.Kernel(j, t)
	}
	return
}

// Evaluate is sum_j a_j Kernel(j, t) over the first len(a) kernels.
func (e *Expansion) Evaluate(a []float64, t float64) (u float64) {
	for j := 0; j < len(a) && j < len(e.Anchors); j++ {
		if a[j] != 0 {
			u += a[j] * e.Kernel(j, t)
		}
	}
	return
}
