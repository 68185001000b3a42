// Package inverse solves the linear least squares problem S a = y for the
// basis coefficients of the surface heat flux.
package inverse

import (
	"fmt"
	"math"

	"github.com/notargets/heatflux/types"
	"github.com/notargets/heatflux/utils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Solver is any least squares solver for S a = y.
type Solver interface {
	Solve(S mat.Matrix, y []float64) ([]float64, error)
}

var _ Solver = NormalEquations{}

// SingularSystemError reports a least squares problem whose columns are
// not independent enough to determine every coefficient.
type SingularSystemError struct {
	Rank      int
	Columns   int
	Condition float64
}

func (e *SingularSystemError) Error() string {
	return fmt.Sprintf("singular system: rank %d of %d columns, condition number %.3g",
		e.Rank, e.Columns, e.Condition)
}

func (e *SingularSystemError) Is(target error) bool { return target == types.ErrSingularSystem }

type Diagnostics struct {
	Rank           int
	Condition      float64 // +Inf when rank deficient
	SingularValues []float64
}

// Diagnose computes rank and 2-norm condition number of S with the
// default rank tolerance.
func Diagnose(S mat.Matrix) (Diagnostics, error) {
	return diagnose(S, 0)
}

func diagnose(S mat.Matrix, tol float64) (d Diagnostics, err error) {
	var (
		nr, nc = S.Dims()
	)
	if d.SingularValues = asMatrix(S).SingularValueList(); d.SingularValues == nil {
		err = errors.Wrap(types.ErrNumericalFailure, "singular value decomposition failed")
		return
	}
	d.Condition = utils.ConditionOf(d.SingularValues)
	if len(d.SingularValues) == 0 {
		return
	}
	if tol <= 0 {
		tol = float64(max(nr, nc)) * d.SingularValues[0] * eps
	}
	for _, s := range d.SingularValues {
		if s > tol {
			d.Rank++
		}
	}
	if nc > len(d.SingularValues) {
		d.Condition = math.Inf(1)
	}
	return
}

func asMatrix(S mat.Matrix) utils.Matrix {
	if m, ok := S.(utils.Matrix); ok {
		return m
	}
	return utils.NewMatrixFromDense(mat.DenseCopyOf(S))
}

const eps = 0x1p-52

// NormalEquations solves S^T S a = S^T y by Cholesky factorisation, after
// checking S has full column rank. There is no regularisation.
type NormalEquations struct {
	RankTolerance float64 // singular values at or below are zero; 0 selects max(r,c) sigma_max eps
}

func (ne NormalEquations) Solve(S mat.Matrix, y []float64) (a []float64, err error) {
	var (
		nr, nc = S.Dims()
		d      Diagnostics
		ata    mat.SymDense
		chol   mat.Cholesky
		rhs    mat.VecDense
		sol    mat.VecDense
	)
	if len(y) != nr {
		err = errors.Wrapf(types.ErrSizeMismatch, "%d observations for %d rows", len(y), nr)
		return
	}
	if nc == 0 {
		err = errors.Wrap(types.ErrDomain, "no coefficients to fit")
		return
	}
	if d, err = diagnose(S, ne.RankTolerance); err != nil {
		return
	}
	if d.Rank < nc {
		err = errors.WithStack(&SingularSystemError{Rank: d.Rank, Columns: nc, Condition: d.Condition})
		return
	}
	ata.SymOuterK(1, S.T())
	if ok := chol.Factorize(&ata); !ok {
		err = errors.WithStack(&SingularSystemError{Rank: d.Rank, Columns: nc, Condition: d.Condition})
		return
	}
	rhs.MulVec(S.T(), mat.NewVecDense(nr, append([]float64(nil), y...)))
	if err = chol.SolveVecTo(&sol, &rhs); err != nil {
		// Cholesky reports a mat.Condition when S^T S is too ill conditioned
		// for the solution to carry any digits.
		err = errors.WithStack(&SingularSystemError{Rank: d.Rank, Columns: nc, Condition: d.Condition})
		return
	}
	a = make([]float64, nc)
	copy(a, sol.RawVector().Data)
	for _, v := range a {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Wrap(types.ErrNumericalFailure, "non-finite coefficients")
		}
	}
	return
}

// DropInitial removes the observation at the first time, which carries no
// information about the flux.
func DropInitial(y []float64) []float64 {
	if len(y) < 2 {
		return []float64{}
	}
	return append([]float64(nil), y[1:]...)
}
