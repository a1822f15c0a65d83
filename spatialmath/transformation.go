// Package spatialmath defines the rigid-body math shared by cameras and camera rigs.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Transformation is a rigid-body transform: a unit quaternion rotation followed by a translation.
// T_A_B maps a point expressed in frame B into frame A.
type Transformation struct {
	rotation    quat.Number
	translation r3.Vector
}

// NewIdentityTransformation returns the transform that leaves every point unchanged.
func NewIdentityTransformation() Transformation {
	return Transformation{rotation: quat.Number{Real: 1}}
}

// NewTransformation returns a transform with the given rotation and translation. The rotation is
// normalized; a zero quaternion is treated as the identity rotation.
func NewTransformation(rotation quat.Number, translation r3.Vector) Transformation {
	return Transformation{rotation: normalizeQuat(rotation), translation: translation}
}

// NewRotationFromAxisAngle returns the unit quaternion rotating theta radians about axis.
func NewRotationFromAxisAngle(axis r3.Vector, theta float64) quat.Number {
	return (&R4AA{Theta: theta, RX: axis.X, RY: axis.Y, RZ: axis.Z}).Quaternion()
}

func normalizeQuat(q quat.Number) quat.Number {
	norm := quat.Abs(q)
	if norm == 0 {
		return quat.Number{Real: 1}
	}
	if q.Real < 0 {
		norm = -norm
	}
	return quat.Scale(1/norm, q)
}

// Rotation returns the unit quaternion part of the transform.
func (t Transformation) Rotation() quat.Number {
	return t.rotation
}

// Translation returns the translation part of the transform.
func (t Transformation) Translation() r3.Vector {
	return t.translation
}

// Rotate applies only the rotation to v.
func (t Transformation) Rotate(v r3.Vector) r3.Vector {
	rotated := quat.Mul(quat.Mul(t.rotation, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(t.rotation))
	return r3.Vector{X: rotated.Imag, Y: rotated.Jmag, Z: rotated.Kmag}
}

// Transform maps p from the source frame into the target frame.
func (t Transformation) Transform(p r3.Vector) r3.Vector {
	return t.Rotate(p).Add(t.translation)
}

// Inverse returns the transform mapping the target frame back to the source frame.
func (t Transformation) Inverse() Transformation {
	inv := Transformation{rotation: quat.Conj(t.rotation)}
	inv.translation = inv.Rotate(t.translation).Mul(-1)
	return inv
}

// Compose returns t * other, the transform that applies other first and then t.
func (t Transformation) Compose(other Transformation) Transformation {
	return Transformation{
		rotation:    normalizeQuat(quat.Mul(t.rotation, other.rotation)),
		translation: t.Transform(other.translation),
	}
}

// Equal reports exact equality of rotation and translation.
func (t Transformation) Equal(other Transformation) bool {
	return t.rotation == other.rotation && t.translation == other.translation
}

// AlmostEqual reports whether both transforms move every point by less than tol, comparing the
// rotation up to quaternion sign.
func (t Transformation) AlmostEqual(other Transformation, tol float64) bool {
	if t.translation.Sub(other.translation).Norm() > tol {
		return false
	}
	return QuaternionAlmostEqual(t.rotation, other.rotation, tol) ||
		QuaternionAlmostEqual(t.rotation, quat.Scale(-1, other.rotation), tol)
}

// QuaternionAlmostEqual compares two quaternions component-wise within tol.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	return math.Abs(a.Real-b.Real) < tol &&
		math.Abs(a.Imag-b.Imag) < tol &&
		math.Abs(a.Jmag-b.Jmag) < tol &&
		math.Abs(a.Kmag-b.Kmag) < tol
}

func (t Transformation) String() string {
	q := t.rotation
	return fmt.Sprintf("q(w:%.4f, x:%.4f, y:%.4f, z:%.4f) t(%.4f, %.4f, %.4f)",
		q.Real, q.Imag, q.Jmag, q.Kmag, t.translation.X, t.translation.Y, t.translation.Z)
}
