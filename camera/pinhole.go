package camera

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

const numPinholeIntrinsics = 4

// Pinhole is the perspective projection. Intrinsics are ordered [fu, fv, cu, cv].
type Pinhole struct{}

// Type returns the pinhole model type.
func (*Pinhole) Type() ModelType {
	return PinholeModelType
}

// NumIntrinsics is always four.
func (*Pinhole) NumIntrinsics() int {
	return numPinholeIntrinsics
}

// CheckValid checks that the intrinsics describe a usable pinhole.
func (*Pinhole) CheckValid(intrinsics []float64) error {
	if len(intrinsics) != numPinholeIntrinsics {
		return NewNoIntrinsicsError(fmt.Sprintf("pinhole expects %d intrinsics, got %d", numPinholeIntrinsics, len(intrinsics)))
	}
	return checkFocal(intrinsics)
}

// Project divides by depth and applies distortion and the focal block. Points with z <= 0 are behind
// the camera.
func (ph *Pinhole) Project(
	p r3.Vector,
	intrinsics []float64,
	distortion Distortion,
	distortionParams []float64,
	jac *Jacobians,
) (r2.Point, ProjectionResult) {
	if p.Z <= 0 {
		zeroJacobians(jac, numPinholeIntrinsics, distortion)
		return r2.Point{}, PointBehindCamera
	}
	rz := 1 / p.Z
	m := r2.Point{X: p.X * rz, Y: p.Y * rz}

	kp, dkpdm := distortAndScale(m, intrinsics, 0, distortion, distortionParams, jac, jac != nil && jac.Point != nil)
	if jac != nil && jac.Point != nil {
		dmdp := mat.NewDense(2, 3, []float64{
			rz, 0, -p.X * rz * rz,
			0, rz, -p.Y * rz * rz,
		})
		resizeJacobian(jac.Point, 2, 3)
		jac.Point.Mul(dkpdm, dmdp)
	}
	if !isFinitePoint(kp) {
		return kp, ProjectionInvalid
	}
	return kp, KeypointVisible
}

// BackProject returns the bearing (x, y, 1) of the undistorted keypoint.
func (ph *Pinhole) BackProject(kp r2.Point, intrinsics []float64, distortion Distortion) (r3.Vector, bool) {
	m, ok := undistortAndNormalize(kp, intrinsics, distortion)
	if !ok {
		return r3.Vector{}, false
	}
	return r3.Vector{X: m.X, Y: m.Y, Z: 1}, true
}
