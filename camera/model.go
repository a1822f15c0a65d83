package camera

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ModelType is the name of the projection model of a camera.
type ModelType string

const (
	// PinholeModelType is the perspective projection with intrinsics [fu, fv, cu, cv].
	PinholeModelType = ModelType("pinhole")
	// UnifiedProjectionModelType is the unified omnidirectional projection with intrinsics [xi, fu, fv, cu, cv].
	UnifiedProjectionModelType = ModelType("unified_projection")
)

// ErrNoIntrinsics is when a camera does not have intrinsics parameters or other parameters.
var ErrNoIntrinsics = errors.New("camera intrinsic parameters are not available")

// NewNoIntrinsicsError is used when the intrinsics are not defined or not usable.
func NewNoIntrinsicsError(msg string) error {
	return errors.Wrap(ErrNoIntrinsics, msg)
}

// Jacobians selects which derivatives of a projection get computed. A nil field is skipped entirely.
// Requested fields are resized to 2x3 (Point), 2xNumIntrinsics (Intrinsics) and 2xNumParameters
// (Distortion). Distortion is left empty when the camera has no distortion.
type Jacobians struct {
	Point      *mat.Dense
	Intrinsics *mat.Dense
	Distortion *mat.Dense
}

// Model is the stateless math of a projection model. It never applies the image box: a point with a
// valid projection is reported as KeypointVisible and the Camera decides whether it is in frame.
type Model interface {
	Type() ModelType
	NumIntrinsics() int
	CheckValid(intrinsics []float64) error
	Project(
		p r3.Vector,
		intrinsics []float64,
		distortion Distortion,
		distortionParams []float64,
		jac *Jacobians,
	) (r2.Point, ProjectionResult)
	BackProject(kp r2.Point, intrinsics []float64, distortion Distortion) (r3.Vector, bool)
}

// NewModel returns the Model registered under the given type.
func NewModel(modelType ModelType) (Model, error) {
	switch modelType {
	case PinholeModelType:
		return &Pinhole{}, nil
	case UnifiedProjectionModelType:
		return &UnifiedProjection{}, nil
	default:
		return nil, errors.Errorf("do not know how to parse %q camera model", modelType)
	}
}

// checkFocal validates the trailing [fu, fv, cu, cv] block shared by all models.
func checkFocal(k []float64) error {
	for _, v := range k {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNoIntrinsicsError("intrinsics must be finite")
		}
	}
	if k[0] <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("invalid focal length fu = %#v", k[0]))
	}
	if k[1] <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("invalid focal length fv = %#v", k[1]))
	}
	return nil
}

// zeroJacobians resizes every requested Jacobian and clears it. It is used when a projection fails
// before any derivative can be computed.
func zeroJacobians(jac *Jacobians, numIntrinsics int, distortion Distortion) {
	if jac == nil {
		return
	}
	if jac.Point != nil {
		resizeJacobian(jac.Point, 2, 3)
	}
	if jac.Intrinsics != nil {
		resizeJacobian(jac.Intrinsics, 2, numIntrinsics)
	}
	if jac.Distortion != nil {
		if distortion == nil {
			jac.Distortion.Reset()
		} else {
			resizeJacobian(jac.Distortion, 2, distortion.NumParameters())
		}
	}
}

// distortAndScale maps normalized image coordinates m to pixels with the focal block k = [fu, fv, cu, cv].
// When jac is non-nil it fills the focal columns of jac.Intrinsics, which start at column offset, and
// jac.Distortion. With chain set it also returns d(kp)/d(m) (2x2) so the model can chain its own
// derivatives; otherwise that matrix is neither computed nor returned.
func distortAndScale(
	m r2.Point,
	k []float64,
	offset int,
	distortion Distortion,
	distortionParams []float64,
	jac *Jacobians,
	chain bool,
) (r2.Point, *mat.Dense) {
	fu, fv, cu, cv := k[0], k[1], k[2], k[3]

	var jd *mat.Dense
	if jac != nil && chain {
		jd = mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	}
	md := m
	if distortion != nil {
		var jdParams *mat.Dense
		if jac != nil {
			jdParams = jac.Distortion
		}
		md = distortion.Distort(m, distortionParams, jd, jdParams)
	} else if jac != nil && jac.Distortion != nil {
		jac.Distortion.Reset()
	}
	kp := r2.Point{X: fu*md.X + cu, Y: fv*md.Y + cv}
	if jac == nil {
		return kp, nil
	}

	if jac.Distortion != nil && distortion != nil {
		scaleRows(jac.Distortion, fu, fv)
	}
	if jac.Intrinsics != nil {
		resizeJacobian(jac.Intrinsics, 2, offset+4)
		jac.Intrinsics.Set(0, offset, md.X)
		jac.Intrinsics.Set(1, offset+1, md.Y)
		jac.Intrinsics.Set(0, offset+2, 1)
		jac.Intrinsics.Set(1, offset+3, 1)
	}
	if jd != nil {
		scaleRows(jd, fu, fv)
	}
	return kp, jd
}

// scaleRows multiplies the two rows of a 2xN matrix by su and sv.
func scaleRows(m *mat.Dense, su, sv float64) {
	_, c := m.Dims()
	for j := 0; j < c; j++ {
		m.Set(0, j, su*m.At(0, j))
		m.Set(1, j, sv*m.At(1, j))
	}
}

// undistortAndNormalize maps a pixel back to undistorted normalized image coordinates.
func undistortAndNormalize(kp r2.Point, k []float64, distortion Distortion) (r2.Point, bool) {
	m := r2.Point{X: (kp.X - k[2]) / k[0], Y: (kp.Y - k[3]) / k[1]}
	if distortion == nil {
		return m, true
	}
	return distortion.Undistort(m)
}

func isFinitePoint(p r2.Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
