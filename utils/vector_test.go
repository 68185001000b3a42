package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector(t *testing.T) {
	v := NewVector(3, []float64{1, 2, 3})
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, 14., v.Dot(v))
	r, c := v.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 1, c)
	assert.Equal(t, 2., v.T().At(0, 1))
	assert.Equal(t, []float64{0, 0}, NewVector(2).Data())
	assert.Panics(t, func() { NewVector(2, []float64{1}) })
}
