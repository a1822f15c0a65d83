package spatialmath

import "github.com/golang/geo/r3"

// HomogeneousPoint is a point (x, y, z, w). w == 0 denotes a direction rather than a finite point.
type HomogeneousPoint struct {
	X, Y, Z, W float64
}

// NewHomogeneousPoint lifts a finite point to homogeneous coordinates with w = 1.
func NewHomogeneousPoint(p r3.Vector) HomogeneousPoint {
	return HomogeneousPoint{p.X, p.Y, p.Z, 1}
}

// NewHomogeneousDirection lifts a direction to homogeneous coordinates with w = 0.
func NewHomogeneousDirection(v r3.Vector) HomogeneousPoint {
	return HomogeneousPoint{v.X, v.Y, v.Z, 0}
}

// XYZ drops the w coordinate.
func (p HomogeneousPoint) XYZ() r3.Vector {
	return r3.Vector{X: p.X, Y: p.Y, Z: p.Z}
}

// FrontXYZ drops the w coordinate after flipping the sign of the point when w is negative, so that
// (x, y, z, w) and (-x, -y, -z, -w) land on the same side of the camera.
func (p HomogeneousPoint) FrontXYZ() r3.Vector {
	if p.W < 0 {
		return r3.Vector{X: -p.X, Y: -p.Y, Z: -p.Z}
	}
	return p.XYZ()
}
