package camera

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

const numUnifiedProjectionIntrinsics = 5

// UnifiedProjection is the unified omnidirectional model: a point is first projected onto the unit
// sphere, then perspectively projected from a center shifted by xi along the optical axis.
// Intrinsics are ordered [xi, fu, fv, cu, cv]. With xi = 0 it reduces to the pinhole.
type UnifiedProjection struct{}

// Type returns the unified projection model type.
func (*UnifiedProjection) Type() ModelType {
	return UnifiedProjectionModelType
}

// NumIntrinsics is always five.
func (*UnifiedProjection) NumIntrinsics() int {
	return numUnifiedProjectionIntrinsics
}

// CheckValid checks that the intrinsics describe a usable unified projection.
func (*UnifiedProjection) CheckValid(intrinsics []float64) error {
	if len(intrinsics) != numUnifiedProjectionIntrinsics {
		return NewNoIntrinsicsError(fmt.Sprintf(
			"unified projection expects %d intrinsics, got %d", numUnifiedProjectionIntrinsics, len(intrinsics)))
	}
	xi := intrinsics[0]
	if math.IsNaN(xi) || math.IsInf(xi, 0) || xi < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("invalid mirror parameter xi = %#v", xi))
	}
	return checkFocal(intrinsics[1:])
}

// Project maps p through the unit sphere. Points with z + xi*|p| <= 0 are behind the camera. For xi > 1
// the points with xi*z + |p| <= 0 project but not uniquely, so they are reported invalid.
func (up *UnifiedProjection) Project(
	p r3.Vector,
	intrinsics []float64,
	distortion Distortion,
	distortionParams []float64,
	jac *Jacobians,
) (r2.Point, ProjectionResult) {
	xi := intrinsics[0]
	d := p.Norm()
	s := p.Z + xi*d
	if s <= 0 {
		zeroJacobians(jac, numUnifiedProjectionIntrinsics, distortion)
		return r2.Point{}, PointBehindCamera
	}
	rs := 1 / s
	m := r2.Point{X: p.X * rs, Y: p.Y * rs}

	// the xi column of the intrinsics Jacobian goes through the chain too
	chain := jac != nil && (jac.Point != nil || jac.Intrinsics != nil)
	kp, dkpdm := distortAndScale(m, intrinsics[1:], 1, distortion, distortionParams, jac, chain)
	if jac != nil && jac.Point != nil {
		dsdx := xi * p.X / d
		dsdy := xi * p.Y / d
		dsdz := 1 + xi*p.Z/d
		rs2 := rs * rs
		dmdp := mat.NewDense(2, 3, []float64{
			rs - p.X*dsdx*rs2, -p.X * dsdy * rs2, -p.X * dsdz * rs2,
			-p.Y * dsdx * rs2, rs - p.Y*dsdy*rs2, -p.Y * dsdz * rs2,
		})
		resizeJacobian(jac.Point, 2, 3)
		jac.Point.Mul(dkpdm, dmdp)
	}
	if jac != nil && jac.Intrinsics != nil {
		dmdxi := mat.NewDense(2, 1, []float64{-p.X * d * rs * rs, -p.Y * d * rs * rs})
		var col mat.Dense
		col.Mul(dkpdm, dmdxi)
		jac.Intrinsics.Set(0, 0, col.At(0, 0))
		jac.Intrinsics.Set(1, 0, col.At(1, 0))
	}

	if !isFinitePoint(kp) {
		return kp, ProjectionInvalid
	}
	if xi > 1 && xi*p.Z+d <= 0 {
		return kp, ProjectionInvalid
	}
	return kp, KeypointVisible
}

// BackProject lifts the undistorted keypoint back onto the sphere and returns a bearing with the same
// direction. It fails outside the image of the sphere, where 1 + (1 - xi²)*rho² < 0.
func (up *UnifiedProjection) BackProject(kp r2.Point, intrinsics []float64, distortion Distortion) (r3.Vector, bool) {
	xi := intrinsics[0]
	m, ok := undistortAndNormalize(kp, intrinsics[1:], distortion)
	if !ok {
		return r3.Vector{}, false
	}
	rho2 := m.X*m.X + m.Y*m.Y
	tmp := 1 + (1-xi*xi)*rho2
	if tmp < 0 {
		return r3.Vector{}, false
	}
	return r3.Vector{X: m.X, Y: m.Y, Z: 1 - xi*(rho2+1)/(xi+math.Sqrt(tmp))}, true
}
