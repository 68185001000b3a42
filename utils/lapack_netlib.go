//go:build netlib
// +build netlib

package utils

/*
#cgo LDFLAGS: -lopenblas -lgfortran -lm -lpthread
#include <cblas.h>
*/
import "C"

import (
	"gonum.org/v1/gonum/blas/blas64"
	netblas "gonum.org/v1/netlib/blas/netlib"
)

// Building with -tags netlib routes gonum BLAS calls to OpenBLAS.
func init() {
	blas64.Use(netblas.Implementation{})
}
