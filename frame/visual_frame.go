// Package frame holds images taken by the cameras of a rig, singly and as synchronized sets.
package frame

import (
	"github.com/google/uuid"

	"github.com/viamrobotics/camrig/camera"
	"github.com/viamrobotics/camrig/utils"
)

// VisualFrame is one capture of one camera.
type VisualFrame struct {
	id          uuid.UUID
	timestampNs int64
	camera      *camera.Camera
}

// NewVisualFrame returns a frame taken at the given time in nanoseconds. cam may be nil and set later.
func NewVisualFrame(id uuid.UUID, timestampNs int64, cam *camera.Camera) *VisualFrame {
	return &VisualFrame{id: id, timestampNs: timestampNs, camera: cam}
}

// ID returns the frame id.
func (f *VisualFrame) ID() uuid.UUID {
	return f.id
}

// Timestamp returns the capture time in nanoseconds.
func (f *VisualFrame) Timestamp() int64 {
	return f.timestampNs
}

// SetTimestamp sets the capture time in nanoseconds.
func (f *VisualFrame) SetTimestamp(timestampNs int64) {
	f.timestampNs = timestampNs
}

// CameraGeometry returns the camera the frame was taken with, or nil.
func (f *VisualFrame) CameraGeometry() *camera.Camera {
	return f.camera
}

// SetCameraGeometry sets the camera the frame was taken with.
func (f *VisualFrame) SetCameraGeometry(cam *camera.Camera) {
	f.camera = cam
}

// Equal compares ids, timestamps and camera calibrations.
func (f *VisualFrame) Equal(other *VisualFrame) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.id == other.id &&
		f.timestampNs == other.timestampNs &&
		utils.CheckSharedEqual(f.camera, other.camera)
}
