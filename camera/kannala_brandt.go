package camera

import (
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"
)

const (
	numKannalaBrandtParameters = 4
	// below this radius the model is the identity to first order.
	kannalaBrandtMinRadius = 1e-8
)

// KannalaBrandt is the equidistant fisheye lens model. For normalized coordinates with radius r and
// incidence angle theta = atan(r):
//
//	theta_d = theta * (1 + k1*theta² + k2*theta⁴ + k3*theta⁶ + k4*theta⁸)
//	(x_d, y_d) = (theta_d / r) * (x, y)
type KannalaBrandt struct {
	K1 float64 `json:"k1"`
	K2 float64 `json:"k2"`
	K3 float64 `json:"k3"`
	K4 float64 `json:"k4"`
}

// NewKannalaBrandt takes in a slice of floats that will be passed into the struct in order.
func NewKannalaBrandt(inp []float64) (*KannalaBrandt, error) {
	params, err := padParameters(inp, numKannalaBrandtParameters)
	if err != nil {
		return nil, err
	}
	return &KannalaBrandt{params[0], params[1], params[2], params[3]}, nil
}

// Type returns the type of distortion model.
func (kb *KannalaBrandt) Type() DistortionType {
	return KannalaBrandtDistortionType
}

// NumParameters is always four: k1..k4.
func (kb *KannalaBrandt) NumParameters() int {
	return numKannalaBrandtParameters
}

// Parameters returns the parameters of the distortion model as a list of floats.
func (kb *KannalaBrandt) Parameters() []float64 {
	if kb == nil {
		return []float64{}
	}
	return []float64{kb.K1, kb.K2, kb.K3, kb.K4}
}

// CheckValid checks if the fields for KannalaBrandt have valid inputs.
func (kb *KannalaBrandt) CheckValid() error {
	if kb == nil {
		return InvalidDistortionError("KannalaBrandt shaped distortion_parameters not provided")
	}
	for _, p := range kb.Parameters() {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return InvalidDistortionError("KannalaBrandt parameters must be finite")
		}
	}
	return nil
}

// thetaD returns the distorted angle and its derivative with respect to theta.
func thetaD(theta float64, k []float64) (float64, float64) {
	t2 := theta * theta
	t4 := t2 * t2
	t6 := t4 * t2
	t8 := t4 * t4
	value := theta * (1 + k[0]*t2 + k[1]*t4 + k[2]*t6 + k[3]*t8)
	derivative := 1 + 3*k[0]*t2 + 5*k[1]*t4 + 7*k[2]*t6 + 9*k[3]*t8
	return value, derivative
}

// Distort applies the forward model.
func (kb *KannalaBrandt) Distort(p r2.Point, params []float64, jPoint, jParams *mat.Dense) r2.Point {
	if params == nil {
		params = kb.Parameters()
	} else {
		checkParameterOverride(KannalaBrandtDistortionType, params, numKannalaBrandtParameters)
	}
	x, y := p.X, p.Y
	r := math.Hypot(x, y)
	if r < kannalaBrandtMinRadius {
		if jPoint != nil {
			resizeJacobian(jPoint, 2, 2)
			jPoint.Set(0, 0, 1)
			jPoint.Set(1, 1, 1)
		}
		if jParams != nil {
			resizeJacobian(jParams, 2, numKannalaBrandtParameters)
		}
		return p
	}

	theta := math.Atan(r)
	td, dtdTheta := thetaD(theta, params)
	scale := td / r

	if jPoint != nil {
		resizeJacobian(jPoint, 2, 2)
		// d(scale)/dr, with d(theta)/dr = 1 / (1 + r²)
		dScale := (dtdTheta/(1+r*r) - scale) / r
		jPoint.Set(0, 0, scale+dScale*x*x/r)
		jPoint.Set(0, 1, dScale*x*y/r)
		jPoint.Set(1, 0, dScale*x*y/r)
		jPoint.Set(1, 1, scale+dScale*y*y/r)
	}
	if jParams != nil {
		resizeJacobian(jParams, 2, numKannalaBrandtParameters)
		power := theta
		for i := 0; i < numKannalaBrandtParameters; i++ {
			power *= theta * theta
			jParams.Set(0, i, x/r*power)
			jParams.Set(1, i, y/r*power)
		}
	}
	return r2.Point{X: scale * x, Y: scale * y}
}

// Undistort solves theta_d(theta) = |p| for theta with Newton's method. It fails when the solution
// reaches the edge of the pinhole plane at theta = pi/2.
func (kb *KannalaBrandt) Undistort(p r2.Point) (r2.Point, bool) {
	const maxIterations = 20
	const tolerance = 1e-12

	rd := math.Hypot(p.X, p.Y)
	if rd < kannalaBrandtMinRadius {
		return p, true
	}
	params := kb.Parameters()
	theta := rd
	converged := false
	for i := 0; i < maxIterations; i++ {
		value, derivative := thetaD(theta, params)
		residual := value - rd
		if math.Abs(residual) < tolerance {
			converged = true
			break
		}
		if derivative == 0 || math.IsNaN(derivative) {
			return p, false
		}
		theta -= residual / derivative
	}
	if !converged {
		value, _ := thetaD(theta, params)
		converged = math.Abs(value-rd) < tolerance
	}
	if !converged || theta < 0 || theta >= math.Pi/2 {
		return p, false
	}
	scale := math.Tan(theta) / rd
	return r2.Point{X: scale * p.X, Y: scale * p.Y}, true
}
