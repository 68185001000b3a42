package utils

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// SingularValueList returns all singular values in descending order, or nil
// when the factorization fails.
func (m Matrix) SingularValueList() []float64 {
	var svd mat.SVD
	if !svd.Factorize(m.M, mat.SVDNone) {
		return nil
	}
	return svd.Values(nil)
}

// ConditionOf is the 2-norm condition number for singular values in
// descending order, +Inf when the smallest is zero or none are given.
func ConditionOf(values []float64) float64 {
	if len(values) == 0 {
		return math.Inf(1)
	}
	minVal, maxVal := values[len(values)-1], values[0]
	if minVal < 1e-300 {
		return math.Inf(1)
	}
	return maxVal / minVal
}
