package camera

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/viamrobotics/camrig/utils"
)

// DistortionType is the name of the distortion model.
type DistortionType string

const (
	// BrownConradyDistortionType is for simple lenses of narrow field easily modeled as a pinhole camera.
	BrownConradyDistortionType = DistortionType("brown_conrady")
	// KannalaBrandtDistortionType is for wide-angle and fisheye lens distortion.
	KannalaBrandtDistortionType = DistortionType("kannala_brandt")
)

// Distortion maps ideal normalized image coordinates to distorted ones according to a lens model.
// A camera without a Distortion uses the identity distortion.
type Distortion interface {
	Type() DistortionType
	NumParameters() int
	// Parameters returns a copy of the distortion coefficients.
	Parameters() []float64
	CheckValid() error
	// Distort applies the model to p. A nil params uses the model's own coefficients. jPoint (2x2)
	// and jParams (2xNumParameters) are filled only when non-nil.
	Distort(p r2.Point, params []float64, jPoint, jParams *mat.Dense) r2.Point
	// Undistort inverts Distort using the model's own coefficients. It reports false when no
	// undistorted point could be found.
	Undistort(p r2.Point) (r2.Point, bool)
}

// InvalidDistortionError is used when the distortion_parameters are invalid.
func InvalidDistortionError(msg string) error {
	return errors.Wrap(errors.New("invalid distortion_parameters"), msg)
}

// NewDistortion returns a Distortion given a valid DistortionType and its parameters.
func NewDistortion(distortionType DistortionType, parameters []float64) (Distortion, error) {
	switch distortionType {
	case BrownConradyDistortionType:
		return NewBrownConrady(parameters)
	case KannalaBrandtDistortionType:
		return NewKannalaBrandt(parameters)
	default:
		return nil, errors.Errorf("do not know how to parse %q distortion model", distortionType)
	}
}

// padParameters copies inp into a slice of length n, filling missing values with 0.0.
func padParameters(inp []float64, n int) ([]float64, error) {
	if len(inp) > n {
		return nil, errors.Errorf("list of parameters too long, expected max %d, got %d", n, len(inp))
	}
	out := make([]float64, n)
	copy(out, inp)
	return out, nil
}

// checkParameterOverride panics when an override does not match the model's parameter count.
func checkParameterOverride(t DistortionType, params []float64, n int) {
	if len(params) != n {
		utils.ContractViolation("%s distortion expects %d parameters, got %d", t, n, len(params))
	}
}

// resizeJacobian prepares dst to hold a zeroed r x c Jacobian.
func resizeJacobian(dst *mat.Dense, r, c int) {
	if !dst.IsEmpty() {
		if rows, cols := dst.Dims(); rows == r && cols == c {
			dst.Zero()
			return
		}
		dst.Reset()
	}
	dst.ReuseAs(r, c)
}
