package Slab1D

import (
	"math"

	"github.com/james-bowman/sparse"
	"github.com/notargets/heatflux/types"
	"github.com/notargets/heatflux/utils"
	"github.com/pkg/errors"
)

// Geometry is a slab of given thickness sampled at Nodes equally spaced
// points, node 0 on the excited face and node Nodes-1 on the far face.
type Geometry struct {
	Thickness float64
	Nodes     int
}

func (g Geometry) Spacing() float64 { return g.Thickness / float64(g.Nodes-1) }

func (g Geometry) X() (x []float64) {
	var (
		dx = g.Spacing()
	)
	x = make([]float64, g.Nodes)
	for i := range x {
		x[i] = float64(i) * dx
	}
	x[g.Nodes-1] = g.Thickness
	return
}

type Material struct {
	Conductivity float64 // W/(m K)
	Capacity     float64 // volumetric, J/(m^3 K)
}

func (m Material) Diffusivity() float64 { return m.Conductivity / m.Capacity }

// Boundary is the convective exchange on the far face. H = 0 is adiabatic.
type Boundary struct {
	H float64 // W/(m^2 K)
}

func (bc Boundary) Biot(g Geometry, m Material) float64 {
	return bc.H * g.Spacing() / m.Conductivity
}

// System is the semi-discrete state equation dT/dt = A T + b u(t).
// A is read only once built.
type System struct {
	Geometry Geometry
	Material Material
	Boundary Boundary
	A        utils.Matrix
	B        utils.Vector
}

func NewSystem(geom Geometry, mat Material, bc Boundary) (sys *System, err error) {
	if err = validate(geom, mat, bc); err != nil {
		return
	}
	var (
		N     = geom.Nodes
		dx    = geom.Spacing()
		fac   = mat.Diffusivity() / (dx * dx)
		biot  = bc.Biot(geom, mat)
		SpA   = sparse.NewDOK(N, N)
		bData = make([]float64, N)
	)
	for i := 0; i < N; i++ {
		SpA.Set(i, i, -2*fac)
		if i > 0 {
			SpA.Set(i, i-1, fac)
		}
		if i < N-1 {
			SpA.Set(i, i+1, fac)
		}
	}
	// Ghost nodes mirrored about each face
	SpA.Set(0, 1, 2*fac)
	SpA.Set(N-1, N-2, 2*fac)
	SpA.Set(N-1, N-1, -2*fac-2*biot*fac)
	bData[0] = 2 / (mat.Capacity * dx)

	sys = &System{
		Geometry: geom,
		Material: mat,
		Boundary: bc,
		A:        utils.NewMatrixFromDense(SpA.ToDense()),
		B:        utils.NewVector(N, bData),
	}
	sys.A.SetReadOnly("A")
	if !utils.AllFinite(sys.A) || !utils.AllFinite(sys.B) {
		return nil, errors.Wrap(types.ErrConfiguration, "state matrix is not finite")
	}
	return
}

// Rebuild returns a new System for changed material properties on the
// same geometry and boundary.
func (sys *System) Rebuild(mat Material) (*System, error) {
	return NewSystem(sys.Geometry, mat, sys.Boundary)
}

func (sys *System) Nodes() int { return sys.Geometry.Nodes }

func validate(geom Geometry, mat Material, bc Boundary) error {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
	switch {
	case geom.Nodes < 2:
		return errors.Wrapf(types.ErrConfiguration, "need at least 2 nodes, got %d", geom.Nodes)
	case !finite(geom.Thickness) || geom.Thickness <= 0:
		return errors.Wrapf(types.ErrConfiguration, "thickness must be positive, got %v", geom.Thickness)
	case !finite(mat.Conductivity) || mat.Conductivity <= 0:
		return errors.Wrapf(types.ErrConfiguration, "conductivity must be positive, got %v", mat.Conductivity)
	case !finite(mat.Capacity) || mat.Capacity <= 0:
		return errors.Wrapf(types.ErrConfiguration, "heat capacity must be positive, got %v", mat.Capacity)
	case !finite(bc.H) || bc.H < 0:
		return errors.Wrapf(types.ErrConfiguration, "heat transfer coefficient must be non-negative, got %v", bc.H)
	}
	return nil
}
