package types

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestTypes(t *testing.T) {
	{ // Scheme labels
		cases := []struct {
			label string
			want  Scheme
		}{
			{"", Scheme_Implicit},
			{"implicit", Scheme_Implicit},
			{" Green ", Scheme_Green},
			{"EXPM", Scheme_Green},
			{"euler", Scheme_Implicit},
			{"exact", Scheme_Green},
		}
		for _, tc := range cases {
			s, err := NewScheme(tc.label)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, s, tc.label)
		}
		_, err := NewScheme("crank-nicolson")
		assert.ErrorIs(t, err, ErrConfiguration)
		assert.Equal(t, "Scheme(7)", Scheme(7).String())
	}
	{ // Error classes
		err := errors.Wrapf(ErrIterationLimit, "after %d steps", 10)
		assert.ErrorIs(t, err, ErrIterationLimit)
		assert.ErrorIs(t, err, ErrNumericalFailure)
		assert.True(t, IsEvaluationFailure(err))
		assert.True(t, IsEvaluationFailure(errors.Wrap(ErrDomain, "t < 0")))
		assert.False(t, IsEvaluationFailure(errors.Wrap(ErrConfiguration, "k <= 0")))
		assert.False(t, IsEvaluationFailure(ErrSingularSystem))
		assert.False(t, errors.Is(ErrNumericalFailure, ErrIterationLimit))
	}
}
