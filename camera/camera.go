// Package camera implements calibrated camera geometry: projecting 3D points to pixels and
// back-projecting pixels to bearings, with optional analytic Jacobians and parameter overrides.
package camera

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/viamrobotics/camrig/spatialmath"
	"github.com/viamrobotics/camrig/utils"
)

// DefaultLabel is the label of a camera that was never given one.
const DefaultLabel = "unnamed camera"

// Camera is a calibrated camera: a projection Model with its intrinsics, an optional lens Distortion
// and the size of the image. The geometry is immutable after construction; only the id, label and line
// delay can change. A *Camera is the identity used when binding frames to a rig.
type Camera struct {
	id                   uuid.UUID
	label                string
	lineDelayNanoseconds uint64

	width      int
	height     int
	intrinsics []float64
	model      Model
	distortion Distortion
}

// NewCamera validates its inputs and returns a camera with a random id. A nil distortion means the
// identity distortion.
func NewCamera(model Model, intrinsics []float64, width, height int, distortion Distortion) (*Camera, error) {
	if model == nil {
		return nil, errors.New("camera model is required")
	}
	if len(intrinsics) != model.NumIntrinsics() {
		return nil, NewNoIntrinsicsError(fmt.Sprintf(
			"%s camera expects %d intrinsics, got %d", model.Type(), model.NumIntrinsics(), len(intrinsics)))
	}
	if err := model.CheckValid(intrinsics); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, NewNoIntrinsicsError(fmt.Sprintf("invalid size (%#v, %#v)", width, height))
	}
	if distortion != nil {
		if err := distortion.CheckValid(); err != nil {
			return nil, err
		}
	}
	return &Camera{
		id:         uuid.New(),
		label:      DefaultLabel,
		width:      width,
		height:     height,
		intrinsics: append([]float64(nil), intrinsics...),
		model:      model,
		distortion: distortion,
	}, nil
}

// NewPinholeCamera returns a pinhole camera.
func NewPinholeCamera(fu, fv, cu, cv float64, width, height int, distortion Distortion) (*Camera, error) {
	return NewCamera(&Pinhole{}, []float64{fu, fv, cu, cv}, width, height, distortion)
}

// NewUnifiedProjectionCamera returns a unified projection camera.
func NewUnifiedProjectionCamera(xi, fu, fv, cu, cv float64, width, height int, distortion Distortion) (*Camera, error) {
	return NewCamera(&UnifiedProjection{}, []float64{xi, fu, fv, cu, cv}, width, height, distortion)
}

// ID returns the camera id.
func (c *Camera) ID() uuid.UUID {
	return c.id
}

// SetID sets the camera id.
func (c *Camera) SetID(id uuid.UUID) {
	c.id = id
}

// Label returns the human readable name of the camera.
func (c *Camera) Label() string {
	return c.label
}

// SetLabel sets the human readable name of the camera.
func (c *Camera) SetLabel(label string) {
	c.label = label
}

// LineDelayNanoseconds is the rolling shutter delay between two image rows.
func (c *Camera) LineDelayNanoseconds() uint64 {
	return c.lineDelayNanoseconds
}

// SetLineDelayNanoseconds sets the rolling shutter delay between two image rows.
func (c *Camera) SetLineDelayNanoseconds(delay uint64) {
	c.lineDelayNanoseconds = delay
}

// ImageWidth returns the number of columns of the image.
func (c *Camera) ImageWidth() int {
	return c.width
}

// ImageHeight returns the number of rows of the image.
func (c *Camera) ImageHeight() int {
	return c.height
}

// Intrinsics returns a copy of the intrinsics in the model's order.
func (c *Camera) Intrinsics() []float64 {
	return append([]float64(nil), c.intrinsics...)
}

// Model returns the projection model.
func (c *Camera) Model() Model {
	return c.model
}

// Distortion returns the lens distortion, or nil when the camera has none.
func (c *Camera) Distortion() Distortion {
	return c.distortion
}

// Project3 projects a point in the camera frame to a keypoint.
func (c *Camera) Project3(p r3.Vector) (r2.Point, ProjectionResult) {
	return c.Project3Functional(p, nil, nil, nil)
}

// Project3WithJacobian projects p and writes d(keypoint)/d(p) into jPoint, resized to 2x3.
func (c *Camera) Project3WithJacobian(p r3.Vector, jPoint *mat.Dense) (r2.Point, ProjectionResult) {
	return c.Project3Functional(p, nil, nil, &Jacobians{Point: jPoint})
}

// Project3Functional is the general projection. A non-nil intrinsics or distortionParams is used in
// place of the camera's own values for this call only. Only the non-nil fields of jac are computed.
func (c *Camera) Project3Functional(
	p r3.Vector,
	intrinsics []float64,
	distortionParams []float64,
	jac *Jacobians,
) (r2.Point, ProjectionResult) {
	if intrinsics == nil {
		intrinsics = c.intrinsics
	} else if len(intrinsics) != c.model.NumIntrinsics() {
		utils.ContractViolation("%s camera expects %d intrinsics, got an override of %d",
			c.model.Type(), c.model.NumIntrinsics(), len(intrinsics))
	}
	if distortionParams != nil {
		if c.distortion == nil {
			utils.ContractViolation("camera %s has no distortion, cannot override distortion parameters", c.id)
		}
		if len(distortionParams) != c.distortion.NumParameters() {
			utils.ContractViolation("%s distortion expects %d parameters, got an override of %d",
				c.distortion.Type(), c.distortion.NumParameters(), len(distortionParams))
		}
	}

	kp, result := c.model.Project(p, intrinsics, c.distortion, distortionParams, jac)
	if result != KeypointVisible {
		return kp, result
	}
	if !c.IsKeypointInImageBox(kp) {
		return kp, KeypointOutsideImageBox
	}
	return kp, KeypointVisible
}

// IsKeypointInImageBox reports whether kp lies in [0,width) x [0,height).
func (c *Camera) IsKeypointInImageBox(kp r2.Point) bool {
	return kp.X >= 0 && kp.X < float64(c.width) && kp.Y >= 0 && kp.Y < float64(c.height)
}

// Project4 projects a homogeneous point. Points with w < 0 are negated first.
func (c *Camera) Project4(p spatialmath.HomogeneousPoint) (r2.Point, ProjectionResult) {
	return c.Project3(p.FrontXYZ())
}

// Project4WithJacobian projects a homogeneous point and writes the 2x4 Jacobian into jPoint. Its
// first three columns are the Jacobian of the 3D projection and the last column is zero.
func (c *Camera) Project4WithJacobian(p spatialmath.HomogeneousPoint, jPoint *mat.Dense) (r2.Point, ProjectionResult) {
	if jPoint == nil {
		return c.Project4(p)
	}
	var j3 mat.Dense
	kp, result := c.Project3WithJacobian(p.FrontXYZ(), &j3)
	resizeJacobian(jPoint, 2, 4)
	jPoint.Slice(0, 2, 0, 3).(*mat.Dense).Copy(&j3)
	return kp, result
}

// BackProject3 returns a bearing in the camera frame that projects onto kp. The bearing is not
// normalized. It reports false when the keypoint has no valid preimage.
func (c *Camera) BackProject3(kp r2.Point) (r3.Vector, bool) {
	return c.model.BackProject(kp, c.intrinsics, c.distortion)
}

// BackProject4 is BackProject3 returning a homogeneous direction with w = 0.
func (c *Camera) BackProject4(kp r2.Point) (spatialmath.HomogeneousPoint, bool) {
	bearing, ok := c.BackProject3(kp)
	return spatialmath.NewHomogeneousDirection(bearing), ok
}

// IsProjectable3 reports whether p projects to a visible keypoint.
func (c *Camera) IsProjectable3(p r3.Vector) bool {
	_, result := c.Project3(p)
	return result.IsKeypointVisible()
}

// IsProjectable4 reports whether p projects to a visible keypoint.
func (c *Camera) IsProjectable4(p spatialmath.HomogeneousPoint) bool {
	_, result := c.Project4(p)
	return result.IsKeypointVisible()
}

// Equal compares the calibration of two cameras: intrinsics, line delay and image size. Ids, labels and
// distortion are not compared.
func (c *Camera) Equal(other *Camera) bool {
	if c == nil || other == nil {
		return c == other
	}
	return floats.Equal(c.intrinsics, other.intrinsics) &&
		c.lineDelayNanoseconds == other.lineDelayNanoseconds &&
		c.width == other.width &&
		c.height == other.height
}

func (c *Camera) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Camera(%s): %s\n", c.id, c.label)
	fmt.Fprintf(&sb, "  line delay: %d\n", c.lineDelayNanoseconds)
	fmt.Fprintf(&sb, "  image (cols,rows): %d, %d\n", c.width, c.height)
	fmt.Fprintf(&sb, "  model: %s %v\n", c.model.Type(), c.intrinsics)
	if c.distortion == nil {
		sb.WriteString("  distortion: none")
	} else {
		fmt.Fprintf(&sb, "  distortion: %s %v", c.distortion.Type(), c.distortion.Parameters())
	}
	return sb.String()
}
