package camera

import (
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"
)

const numBrownConradyParameters = 5

// BrownConrady is the radial-tangential lens model. For normalized coordinates (x, y) with
// r² = x² + y²:
//
//	x_d = x * (1 + k1*r² + k2*r⁴ + k3*r⁶) + 2*p1*x*y + p2*(r² + 2*x²)
//	y_d = y * (1 + k1*r² + k2*r⁴ + k3*r⁶) + 2*p2*x*y + p1*(r² + 2*y²)
type BrownConrady struct {
	RadialK1     float64 `json:"rk1"`
	RadialK2     float64 `json:"rk2"`
	RadialK3     float64 `json:"rk3"`
	TangentialP1 float64 `json:"tp1"`
	TangentialP2 float64 `json:"tp2"`
}

// NewBrownConrady takes in a slice of floats that will be passed into the struct in order.
func NewBrownConrady(inp []float64) (*BrownConrady, error) {
	params, err := padParameters(inp, numBrownConradyParameters)
	if err != nil {
		return nil, err
	}
	return &BrownConrady{params[0], params[1], params[2], params[3], params[4]}, nil
}

// Type returns the type of distortion model.
func (bc *BrownConrady) Type() DistortionType {
	return BrownConradyDistortionType
}

// NumParameters is always five: k1, k2, k3, p1, p2.
func (bc *BrownConrady) NumParameters() int {
	return numBrownConradyParameters
}

// Parameters returns the parameters of the distortion model as a list of floats.
func (bc *BrownConrady) Parameters() []float64 {
	if bc == nil {
		return []float64{}
	}
	return []float64{bc.RadialK1, bc.RadialK2, bc.RadialK3, bc.TangentialP1, bc.TangentialP2}
}

// CheckValid checks if the fields for BrownConrady have valid inputs.
func (bc *BrownConrady) CheckValid() error {
	if bc == nil {
		return InvalidDistortionError("BrownConrady shaped distortion_parameters not provided")
	}
	for _, p := range bc.Parameters() {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return InvalidDistortionError("BrownConrady parameters must be finite")
		}
	}
	return nil
}

// Distort applies the forward model.
func (bc *BrownConrady) Distort(p r2.Point, params []float64, jPoint, jParams *mat.Dense) r2.Point {
	if params == nil {
		params = bc.Parameters()
	} else {
		checkParameterOverride(BrownConradyDistortionType, params, numBrownConradyParameters)
	}
	k1, k2, k3, p1, p2 := params[0], params[1], params[2], params[3], params[4]
	x, y := p.X, p.Y

	rad2 := x*x + y*y
	rad4 := rad2 * rad2
	rad6 := rad4 * rad2
	radial := 1 + k1*rad2 + k2*rad4 + k3*rad6

	xd := x*radial + 2*p1*x*y + p2*(rad2+2*x*x)
	yd := y*radial + 2*p2*x*y + p1*(rad2+2*y*y)

	if jPoint != nil {
		resizeJacobian(jPoint, 2, 2)
		dRadial := 2 * (k1 + 2*k2*rad2 + 3*k3*rad4)
		jPoint.Set(0, 0, radial+x*x*dRadial+2*p1*y+6*p2*x)
		jPoint.Set(0, 1, x*y*dRadial+2*p1*x+2*p2*y)
		jPoint.Set(1, 0, x*y*dRadial+2*p1*x+2*p2*y)
		jPoint.Set(1, 1, radial+y*y*dRadial+6*p1*y+2*p2*x)
	}
	if jParams != nil {
		resizeJacobian(jParams, 2, numBrownConradyParameters)
		jParams.SetRow(0, []float64{x * rad2, x * rad4, x * rad6, 2 * x * y, rad2 + 2*x*x})
		jParams.SetRow(1, []float64{y * rad2, y * rad4, y * rad6, rad2 + 2*y*y, 2 * x * y})
	}
	return r2.Point{X: xd, Y: yd}
}

// Undistort finds the undistorted point that would produce p with an iterative Newton-Raphson method.
func (bc *BrownConrady) Undistort(p r2.Point) (r2.Point, bool) {
	const maxIterations = 20
	const tolerance = 1e-10

	// Start with the distorted point as initial guess
	u := p
	var jac mat.Dense
	for i := 0; i < maxIterations; i++ {
		est := bc.Distort(u, nil, &jac, nil)
		errX, errY := est.X-p.X, est.Y-p.Y
		if errX*errX+errY*errY < tolerance*tolerance {
			return u, true
		}

		det := jac.At(0, 0)*jac.At(1, 1) - jac.At(0, 1)*jac.At(1, 0)
		if det == 0 || math.IsNaN(det) {
			return u, false
		}
		// Update: u -= J^-1 * err
		u.X -= (jac.At(1, 1)*errX - jac.At(0, 1)*errY) / det
		u.Y -= (-jac.At(1, 0)*errX + jac.At(0, 0)*errY) / det
	}
	est := bc.Distort(u, nil, nil, nil)
	errX, errY := est.X-p.X, est.Y-p.Y
	return u, errX*errX+errY*errY < tolerance*tolerance
}
