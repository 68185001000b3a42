package types

import (
	"github.com/pkg/errors"
)

// Failure classes shared by every package of the engine. Callers test for
// them with errors.Is; the concrete error carries the detail.
var (
	// ErrConfiguration marks invalid geometry, material or run settings. It is
	// raised before any simulation starts and is not recoverable.
	ErrConfiguration = errors.New("configuration error")
	// ErrNumericalFailure marks a propagation that diverged or produced
	// non-finite values.
	ErrNumericalFailure = errors.New("numerical failure")
	// ErrIterationLimit marks a loop that hit its evaluation or step cap
	// before reaching the requested end time.
	ErrIterationLimit = &limitError{}
	// ErrSingularSystem marks a rank deficient least squares problem.
	ErrSingularSystem = errors.New("singular system")
	// ErrSizeMismatch marks incompatible vector or matrix shapes.
	ErrSizeMismatch = errors.New("size mismatch")
	// ErrDomain marks arguments outside the domain of an operation, such as
	// negative times or too few basis anchors.
	ErrDomain = errors.New("domain error")
)

type limitError struct{}

func (e *limitError) Error() string { return "iteration limit reached" }

// Unwrap makes an iteration limit a numerical failure as well.
func (e *limitError) Unwrap() error { return ErrNumericalFailure }

// IsEvaluationFailure reports whether err should be turned into a failed
// evaluation by an outer sampling or sweep loop rather than abort it.
func IsEvaluationFailure(err error) bool {
	return errors.Is(err, ErrNumericalFailure) || errors.Is(err, ErrDomain)
}
