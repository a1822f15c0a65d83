package camera

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"github.com/viamrobotics/camrig/testutils"
)

var (
	testBrownConradyParams  = []float64{-0.21, 0.04, 0.001, 0.0012, -0.0007}
	testKannalaBrandtParams = []float64{0.012, -0.004, 0.0011, -0.0002}
)

func TestNewDistortion(t *testing.T) {
	d, err := NewDistortion(BrownConradyDistortionType, []float64{0.1, 0.2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d.Type(), test.ShouldEqual, BrownConradyDistortionType)
	test.That(t, d.Parameters(), test.ShouldResemble, []float64{0.1, 0.2, 0, 0, 0})
	test.That(t, d.CheckValid(), test.ShouldBeNil)

	d, err = NewDistortion(KannalaBrandtDistortionType, testKannalaBrandtParams)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d.Type(), test.ShouldEqual, KannalaBrandtDistortionType)
	test.That(t, d.NumParameters(), test.ShouldEqual, 4)
	test.That(t, d.Parameters(), test.ShouldResemble, testKannalaBrandtParams)

	_, err = NewDistortion(KannalaBrandtDistortionType, []float64{1, 2, 3, 4, 5})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "too long")

	_, err = NewDistortion("equidistant_plus", nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "equidistant_plus")
}

func TestDistortionCheckValid(t *testing.T) {
	var bc *BrownConrady
	test.That(t, bc.CheckValid(), test.ShouldNotBeNil)
	bc, err := NewBrownConrady([]float64{math.NaN()})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, bc.CheckValid().Error(), test.ShouldContainSubstring, "finite")

	var kb *KannalaBrandt
	test.That(t, kb.CheckValid(), test.ShouldNotBeNil)
	kb, err = NewKannalaBrandt([]float64{0, math.Inf(1)})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, kb.CheckValid().Error(), test.ShouldContainSubstring, "finite")
}

func TestDistortionJacobians(t *testing.T) {
	bc, err := NewBrownConrady(testBrownConradyParams)
	test.That(t, err, test.ShouldBeNil)
	kb, err := NewKannalaBrandt(testKannalaBrandtParams)
	test.That(t, err, test.ShouldBeNil)

	for _, d := range []Distortion{bc, kb} {
		t.Run(string(d.Type()), func(t *testing.T) {
			for _, p := range []r2.Point{{X: 0.3, Y: -0.2}, {X: -0.05, Y: 0.41}, {X: 0.6, Y: 0.55}} {
				var jPoint, jParams mat.Dense
				d.Distort(p, nil, &jPoint, &jParams)

				numPoint := numericJacobian(2, func(y, x []float64) {
					out := d.Distort(r2.Point{X: x[0], Y: x[1]}, nil, nil, nil)
					y[0], y[1] = out.X, out.Y
				}, []float64{p.X, p.Y})
				expectJacobianNear(t, &jPoint, numPoint, 1e-6)

				numParams := numericJacobian(2, func(y, x []float64) {
					out := d.Distort(p, x, nil, nil)
					y[0], y[1] = out.X, out.Y
				}, d.Parameters())
				expectJacobianNear(t, &jParams, numParams, 1e-6)
			}
		})
	}
}

func TestDistortionRoundTrip(t *testing.T) {
	bc, err := NewBrownConrady(testBrownConradyParams)
	test.That(t, err, test.ShouldBeNil)
	kb, err := NewKannalaBrandt(testKannalaBrandtParams)
	test.That(t, err, test.ShouldBeNil)

	for _, d := range []Distortion{bc, kb} {
		t.Run(string(d.Type()), func(t *testing.T) {
			for _, p := range []r2.Point{{X: 0, Y: 0}, {X: 0.3, Y: -0.2}, {X: -0.05, Y: 0.41}, {X: 0.2, Y: 0.25}} {
				distorted := d.Distort(p, nil, nil, nil)
				undistorted, ok := d.Undistort(distorted)
				test.That(t, ok, test.ShouldBeTrue)
				test.That(t, undistorted.X, test.ShouldAlmostEqual, p.X, 1e-8)
				test.That(t, undistorted.Y, test.ShouldAlmostEqual, p.Y, 1e-8)
			}
		})
	}
}

func TestKannalaBrandtNearCenter(t *testing.T) {
	kb, err := NewKannalaBrandt(testKannalaBrandtParams)
	test.That(t, err, test.ShouldBeNil)
	var jPoint, jParams mat.Dense
	p := kb.Distort(r2.Point{}, nil, &jPoint, &jParams)
	test.That(t, p, test.ShouldResemble, r2.Point{})
	test.That(t, mat.Equal(&jPoint, mat.NewDense(2, 2, []float64{1, 0, 0, 1})), test.ShouldBeTrue)
	test.That(t, mat.Equal(&jParams, mat.NewDense(2, 4, nil)), test.ShouldBeTrue)
}

func TestKannalaBrandtUndistortFailsPastHorizon(t *testing.T) {
	kb, err := NewKannalaBrandt(nil)
	test.That(t, err, test.ShouldBeNil)
	// with zero coefficients theta_d == theta, so a radius above pi/2 has no solution in front.
	_, ok := kb.Undistort(r2.Point{X: 2, Y: 0})
	test.That(t, ok, test.ShouldBeFalse)
}

func TestDistortionOverrideLength(t *testing.T) {
	bc, err := NewBrownConrady(testBrownConradyParams)
	test.That(t, err, test.ShouldBeNil)
	testutils.ExpectContractViolation(t, func() {
		bc.Distort(r2.Point{X: 0.1}, []float64{1, 2}, nil, nil)
	}, "brown_conrady", "expects 5")
}
