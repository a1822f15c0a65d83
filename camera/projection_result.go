package camera

// ProjectionResult describes whether, and if not why not, a 3D point maps to a usable keypoint.
// Non-visible results are expected outcomes that callers branch on, not errors.
type ProjectionResult int

const (
	// Uninitialized is the zero value; no projection has been computed.
	Uninitialized ProjectionResult = iota
	// KeypointVisible means the keypoint lies inside the image box.
	KeypointVisible
	// KeypointOutsideImageBox means the point projects validly but outside [0,width) x [0,height).
	KeypointOutsideImageBox
	// PointBehindCamera means the point lies behind the camera's projection center.
	PointBehindCamera
	// ProjectionInvalid means the model could not produce a meaningful keypoint.
	ProjectionInvalid
)

// IsKeypointVisible reports whether the keypoint is usable.
func (r ProjectionResult) IsKeypointVisible() bool {
	return r == KeypointVisible
}

func (r ProjectionResult) String() string {
	switch r {
	case Uninitialized:
		return "UNINITIALIZED"
	case KeypointVisible:
		return "KEYPOINT_VISIBLE"
	case KeypointOutsideImageBox:
		return "KEYPOINT_OUTSIDE_IMAGE_BOX"
	case PointBehindCamera:
		return "POINT_BEHIND_CAMERA"
	case ProjectionInvalid:
		return "PROJECTION_INVALID"
	}
	return "UNKNOWN"
}
