// Package rig describes a set of cameras rigidly mounted on one body.
package rig

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"

	"github.com/viamrobotics/camrig/camera"
	"github.com/viamrobotics/camrig/spatialmath"
	"github.com/viamrobotics/camrig/utils"
)

// Rig is an ordered set of cameras together with the transform T_C_B of each camera, which maps
// points in the body frame into that camera's frame. A Rig is immutable once built and its cameras
// are shared by pointer with every frame bound to it.
type Rig struct {
	id           uuid.UUID
	label        string
	cameras      []*camera.Camera
	bodyToCamera []spatialmath.Transformation
}

// New builds a rig. Camera i is mounted with the transform bodyToCamera[i].
func New(id uuid.UUID, label string, bodyToCamera []spatialmath.Transformation, cameras []*camera.Camera) (*Rig, error) {
	if len(cameras) == 0 {
		return nil, errors.New("a rig needs at least one camera")
	}
	if len(bodyToCamera) != len(cameras) {
		return nil, errors.Errorf("rig has %d cameras but %d body to camera transforms", len(cameras), len(bodyToCamera))
	}
	seen := make(map[uuid.UUID]int, len(cameras))
	for i, cam := range cameras {
		if cam == nil {
			return nil, errors.Errorf("camera %d is nil", i)
		}
		if prev, ok := seen[cam.ID()]; ok {
			return nil, errors.Errorf("cameras %d and %d share the id %s", prev, i, cam.ID())
		}
		seen[cam.ID()] = i
	}
	return &Rig{
		id:           id,
		label:        label,
		cameras:      append([]*camera.Camera(nil), cameras...),
		bodyToCamera: append([]spatialmath.Transformation(nil), bodyToCamera...),
	}, nil
}

// ID returns the rig id.
func (r *Rig) ID() uuid.UUID {
	return r.id
}

// Label returns the human readable name of the rig.
func (r *Rig) Label() string {
	return r.label
}

// NumCameras returns the number of cameras.
func (r *Rig) NumCameras() int {
	return len(r.cameras)
}

// Camera returns the shared camera at index i.
func (r *Rig) Camera(i int) *camera.Camera {
	utils.CheckIndex("camera", i, len(r.cameras))
	return r.cameras[i]
}

// Cameras returns the cameras in rig order.
func (r *Rig) Cameras() []*camera.Camera {
	return append([]*camera.Camera(nil), r.cameras...)
}

// BodyToCamera returns T_C_B for camera i.
func (r *Rig) BodyToCamera(i int) spatialmath.Transformation {
	utils.CheckIndex("camera", i, len(r.cameras))
	return r.bodyToCamera[i]
}

// CameraToBody returns T_B_C for camera i.
func (r *Rig) CameraToBody(i int) spatialmath.Transformation {
	return r.BodyToCamera(i).Inverse()
}

// CameraID returns the id of camera i.
func (r *Rig) CameraID(i int) uuid.UUID {
	return r.Camera(i).ID()
}

// HasCameraWithID reports whether one of the cameras has the given id.
func (r *Rig) HasCameraWithID(id uuid.UUID) bool {
	_, ok := r.CameraIndex(id)
	return ok
}

// CameraIndex returns the index of the camera with the given id, or false when there is none.
func (r *Rig) CameraIndex(id uuid.UUID) (int, bool) {
	for i, cam := range r.cameras {
		if cam.ID() == id {
			return i, true
		}
	}
	return -1, false
}

// ProjectBodyPoint moves a body frame point into every camera and projects it there.
func (r *Rig) ProjectBodyPoint(p r3.Vector) ([]r2.Point, []camera.ProjectionResult) {
	keypoints := make([]r2.Point, len(r.cameras))
	results := make([]camera.ProjectionResult, len(r.cameras))
	for i, cam := range r.cameras {
		keypoints[i], results[i] = cam.Project3(r.bodyToCamera[i].Transform(p))
	}
	return keypoints, results
}

// transformTolerance absorbs the rounding of renormalizing a rotation that was already unit length.
const transformTolerance = 1e-12

// Equal compares ids, labels, the calibration of each camera and each transform.
func (r *Rig) Equal(other *Rig) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.id != other.id || r.label != other.label || len(r.cameras) != len(other.cameras) {
		return false
	}
	for i := range r.cameras {
		if !utils.CheckSharedEqual(r.cameras[i], other.cameras[i]) {
			return false
		}
		if !r.bodyToCamera[i].AlmostEqual(other.bodyToCamera[i], transformTolerance) {
			return false
		}
	}
	return true
}

// String prints a table of the cameras with their model, image size and mounting transform. The
// orientation is given in degrees.
func (r *Rig) String() string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("Rig(%s): %s", r.id, r.label))
	t.AppendHeader(table.Row{"#", "ID", "Label", "Model", "Distortion", "Image", "Translation", "Orientation"})
	for i, cam := range r.cameras {
		tra := r.bodyToCamera[i].Translation()
		ori := r.bodyToCamera[i].EulerAngles()
		distortion := "none"
		if d := cam.Distortion(); d != nil {
			distortion = string(d.Type())
		}
		t.AppendRow([]interface{}{
			fmt.Sprintf("%d", i),
			cam.ID().String(),
			cam.Label(),
			string(cam.Model().Type()),
			distortion,
			fmt.Sprintf("%dx%d", cam.ImageWidth(), cam.ImageHeight()),
			fmt.Sprintf("X:%.3f, Y:%.3f, Z:%.3f", tra.X, tra.Y, tra.Z),
			fmt.Sprintf(
				"Roll:%.2f, Pitch:%.2f, Yaw:%.2f",
				utils.RadToDeg(ori.Roll),
				utils.RadToDeg(ori.Pitch),
				utils.RadToDeg(ori.Yaw),
			),
		})
	}
	return t.Render()
}
