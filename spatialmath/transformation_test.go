package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func vectorsAlmostEqual(t *testing.T, a, b r3.Vector) {
	t.Helper()
	test.That(t, a.X, test.ShouldAlmostEqual, b.X)
	test.That(t, a.Y, test.ShouldAlmostEqual, b.Y)
	test.That(t, a.Z, test.ShouldAlmostEqual, b.Z)
}

func TestTransformation(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		id := NewIdentityTransformation()
		p := r3.Vector{X: 1, Y: -2, Z: 3}
		test.That(t, id.Transform(p), test.ShouldResemble, p)
		test.That(t, id.Inverse().Equal(id), test.ShouldBeTrue)
	})

	t.Run("rotation about z", func(t *testing.T) {
		tf := NewTransformation(NewRotationFromAxisAngle(r3.Vector{Z: 1}, math.Pi/2), r3.Vector{X: 10})
		vectorsAlmostEqual(t, tf.Transform(r3.Vector{X: 1}), r3.Vector{X: 10, Y: 1})
		vectorsAlmostEqual(t, tf.Rotate(r3.Vector{Y: 1}), r3.Vector{X: -1})
	})

	t.Run("inverse and compose", func(t *testing.T) {
		tf := NewTransformation(NewRotationFromAxisAngle(r3.Vector{X: 1, Y: 1, Z: 0.3}, 0.7), r3.Vector{X: 0.1, Y: -0.2, Z: 0.5})
		p := r3.Vector{X: 0.4, Y: 2, Z: -1}
		vectorsAlmostEqual(t, tf.Inverse().Transform(tf.Transform(p)), p)
		test.That(t, tf.Compose(tf.Inverse()).AlmostEqual(NewIdentityTransformation(), 1e-9), test.ShouldBeTrue)

		other := NewTransformation(NewRotationFromAxisAngle(r3.Vector{Y: 1}, -0.3), r3.Vector{Z: 2})
		vectorsAlmostEqual(t, tf.Compose(other).Transform(p), tf.Transform(other.Transform(p)))
	})

	t.Run("normalization", func(t *testing.T) {
		tf := NewTransformation(quat.Number{Real: 2}, r3.Vector{})
		test.That(t, tf.Rotation(), test.ShouldResemble, quat.Number{Real: 1})
		zero := NewTransformation(quat.Number{}, r3.Vector{})
		test.That(t, zero.Equal(NewIdentityTransformation()), test.ShouldBeTrue)
		flipped := NewTransformation(quat.Number{Real: -1}, r3.Vector{})
		test.That(t, flipped.Equal(NewIdentityTransformation()), test.ShouldBeTrue)
	})

	t.Run("equality", func(t *testing.T) {
		a := NewTransformation(NewRotationFromAxisAngle(r3.Vector{Z: 1}, 0.1), r3.Vector{X: 1})
		b := NewTransformation(NewRotationFromAxisAngle(r3.Vector{Z: 1}, 0.1), r3.Vector{X: 1})
		c := NewTransformation(NewRotationFromAxisAngle(r3.Vector{Z: 1}, 0.1), r3.Vector{X: 1.5})
		test.That(t, a.Equal(b), test.ShouldBeTrue)
		test.That(t, a.Equal(c), test.ShouldBeFalse)
		test.That(t, a.AlmostEqual(c, 1e-3), test.ShouldBeFalse)
		test.That(t, a.AlmostEqual(c, 1), test.ShouldBeTrue)
		test.That(t, a.String(), test.ShouldContainSubstring, "t(1.0000, 0.0000, 0.0000)")
	})
}

func TestHomogeneousPoint(t *testing.T) {
	p := NewHomogeneousPoint(r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, p.W, test.ShouldEqual, 1.)
	test.That(t, p.FrontXYZ(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})

	flipped := HomogeneousPoint{-1, -2, -3, -1}
	test.That(t, flipped.XYZ(), test.ShouldResemble, r3.Vector{X: -1, Y: -2, Z: -3})
	test.That(t, flipped.FrontXYZ(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})

	d := NewHomogeneousDirection(r3.Vector{Z: 1})
	test.That(t, d.W, test.ShouldEqual, 0.)
	test.That(t, d.FrontXYZ(), test.ShouldResemble, r3.Vector{Z: 1})
}

func TestOrientation(t *testing.T) {
	q := (&R4AA{Theta: math.Pi / 2, RX: 0, RY: 0, RZ: 3}).Quaternion()
	test.That(t, QuaternionAlmostEqual(q, NewRotationFromAxisAngle(r3.Vector{Z: 1}, math.Pi/2), 1e-12), test.ShouldBeTrue)
	test.That(t, (&R4AA{Theta: 1}).Quaternion(), test.ShouldResemble, quat.Number{Real: 1})
	test.That(t, NewR4AA().Quaternion(), test.ShouldResemble, quat.Number{Real: 1})

	for _, tc := range []struct {
		axis     r3.Vector
		theta    float64
		expected EulerAngles
	}{
		{r3.Vector{X: 1}, 0.3, EulerAngles{Roll: 0.3}},
		{r3.Vector{Y: 1}, -0.4, EulerAngles{Pitch: -0.4}},
		{r3.Vector{Z: 1}, 2.5, EulerAngles{Yaw: 2.5}},
	} {
		tf := NewTransformation(NewRotationFromAxisAngle(tc.axis, tc.theta), r3.Vector{})
		angles := tf.EulerAngles()
		test.That(t, angles.Roll, test.ShouldAlmostEqual, tc.expected.Roll)
		test.That(t, angles.Pitch, test.ShouldAlmostEqual, tc.expected.Pitch)
		test.That(t, angles.Yaw, test.ShouldAlmostEqual, tc.expected.Yaw)
	}
}
