package camera

import (
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// numericJacobian differentiates f at x with central differences.
func numericJacobian(rows int, f func(y, x []float64), x []float64) *mat.Dense {
	dst := mat.NewDense(rows, len(x), nil)
	fd.Jacobian(dst, f, x, &fd.JacobianSettings{Formula: fd.Central})
	return dst
}

func expectJacobianNear(t *testing.T, analytic, numeric mat.Matrix, tol float64) {
	t.Helper()
	ar, ac := analytic.Dims()
	nr, nc := numeric.Dims()
	test.That(t, ar, test.ShouldEqual, nr)
	test.That(t, ac, test.ShouldEqual, nc)
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			test.That(t, analytic.At(i, j), test.ShouldAlmostEqual, numeric.At(i, j), tol)
		}
	}
}
