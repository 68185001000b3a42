package Slab1D

import (
	"math"

	"github.com/notargets/heatflux/types"
	"github.com/notargets/heatflux/utils"
	"github.com/pkg/errors"
)

// SensorAtNode selects the temperature of a single node.
func SensorAtNode(geom Geometry, i int) (C utils.Vector, err error) {
	if i < 0 || i >= geom.Nodes {
		err = errors.Wrapf(types.ErrConfiguration, "sensor node %d outside [0, %d]", i, geom.Nodes-1)
		return
	}
	C = utils.NewVector(geom.Nodes)
	C.V.SetVec(i, 1)
	return
}

// SensorAt reads the temperature at depth x, interpolating linearly
// between the bracketing nodes.
func SensorAt(geom Geometry, x float64) (C utils.Vector, err error) {
	if geom.Nodes < 2 || geom.Thickness <= 0 {
		err = errors.Wrap(types.ErrConfiguration, "invalid geometry")
		return
	}
	if math.IsNaN(x) || x < 0 || x > geom.Thickness {
		err = errors.Wrapf(types.ErrConfiguration, "sensor position %v outside [0, %v]", x, geom.Thickness)
		return
	}
	var (
		s    = x / geom.Spacing()
		i    = int(math.Floor(s))
		frac float64
	)
	if i >= geom.Nodes-1 {
		i, frac = geom.Nodes-2, 1
	} else {
		frac = s - float64(i)
	}
	C = utils.NewVector(geom.Nodes)
	C.V.SetVec(i, 1-frac)
	C.V.SetVec(i+1, frac)
	return
}
