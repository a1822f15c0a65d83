package frame

import (
	"github.com/google/uuid"

	"github.com/viamrobotics/camrig/camera"
	"github.com/viamrobotics/camrig/rig"
	"github.com/viamrobotics/camrig/spatialmath"
	"github.com/viamrobotics/camrig/utils"
)

// VisualNFrame is a set of frames captured at the same time by the cameras of one rig. Slot i holds the
// frame of camera i. Once a rig is set, every frame in the set references exactly the rig's camera for
// its slot; any call that would break that panics. A VisualNFrame is not safe for concurrent mutation.
type VisualNFrame struct {
	id     uuid.UUID
	rig    *rig.Rig
	frames []*VisualFrame
}

// NewVisualNFrame returns a set with numFrames empty slots and no rig.
func NewVisualNFrame(id uuid.UUID, numFrames int) *VisualNFrame {
	if numFrames < 0 {
		utils.ContractViolation("cannot create a visual nframe with %d frames", numFrames)
	}
	return &VisualNFrame{id: id, frames: make([]*VisualFrame, numFrames)}
}

// NewVisualNFrameWithRig returns a set with one empty slot per camera of r.
func NewVisualNFrameWithRig(id uuid.UUID, r *rig.Rig) *VisualNFrame {
	if r == nil {
		utils.ContractViolation("visual nframe %s needs a rig", id)
	}
	return &VisualNFrame{id: id, rig: r, frames: make([]*VisualFrame, r.NumCameras())}
}

// NewVisualNFrameFromRig is NewVisualNFrameWithRig with a random id.
func NewVisualNFrameFromRig(r *rig.Rig) *VisualNFrame {
	return NewVisualNFrameWithRig(uuid.New(), r)
}

// ID returns the id of the set.
func (nf *VisualNFrame) ID() uuid.UUID {
	return nf.id
}

// SetID sets the id of the set.
func (nf *VisualNFrame) SetID(id uuid.UUID) {
	nf.id = id
}

// Rig returns the rig, or nil when none has been set.
func (nf *VisualNFrame) Rig() *rig.Rig {
	return nf.rig
}

// SetRig binds the set to r. Frames without a camera get the rig's camera for their slot, frames that
// already reference it are left alone and a frame bound to any other camera makes SetRig panic. Nothing
// changes unless the whole binding succeeds.
func (nf *VisualNFrame) SetRig(r *rig.Rig) {
	if r == nil {
		utils.ContractViolation("cannot bind visual nframe %s to a nil rig", nf.id)
	}
	if r.NumCameras() != len(nf.frames) {
		utils.ContractViolation("rig %s has %d cameras but visual nframe %s has %d frames",
			r.ID(), r.NumCameras(), nf.id, len(nf.frames))
	}
	firstSlot := make(map[*VisualFrame]int, len(nf.frames))
	for i, f := range nf.frames {
		if f == nil {
			continue
		}
		if bound := f.CameraGeometry(); bound != nil && bound != r.Camera(i) {
			utils.ContractViolation("frame %d already bound to camera %s, cannot rebind to camera %s",
				i, bound.ID(), r.Camera(i).ID())
		}
		if j, ok := firstSlot[f]; ok && r.Camera(j) != r.Camera(i) {
			utils.ContractViolation("frame %s sits in slots %d and %d, cannot bind it to cameras %s and %s",
				f.ID(), j, i, r.Camera(j).ID(), r.Camera(i).ID())
		}
		firstSlot[f] = i
	}
	nf.rig = r
	for i, f := range nf.frames {
		if f != nil && f.CameraGeometry() == nil {
			f.SetCameraGeometry(r.Camera(i))
		}
	}
}

// SetFrame stores f in slot i, replacing what was there. When a rig is set, f must reference the rig's
// camera i.
func (nf *VisualNFrame) SetFrame(i int, f *VisualFrame) {
	utils.CheckIndex("frame", i, len(nf.frames))
	if f == nil {
		utils.ContractViolation("cannot set frame %d of visual nframe %s to nil", i, nf.id)
	}
	if nf.rig != nil && f.CameraGeometry() != nf.rig.Camera(i) {
		utils.ContractViolation("frame %d references camera %s but the rig has camera %s at that index",
			i, cameraIDString(f.CameraGeometry()), nf.rig.Camera(i).ID())
	}
	nf.frames[i] = f
}

func cameraIDString(cam *camera.Camera) string {
	if cam == nil {
		return "<nil>"
	}
	return cam.ID().String()
}

// Frame returns the frame in slot i, or nil when the slot is empty.
func (nf *VisualNFrame) Frame(i int) *VisualFrame {
	utils.CheckIndex("frame", i, len(nf.frames))
	return nf.frames[i]
}

// HasFrame reports whether slot i holds a frame.
func (nf *VisualNFrame) HasFrame(i int) bool {
	return nf.Frame(i) != nil
}

// NumFrames returns the number of slots.
func (nf *VisualNFrame) NumFrames() int {
	return len(nf.frames)
}

func (nf *VisualNFrame) mustRig() *rig.Rig {
	if nf.rig == nil {
		utils.ContractViolation("visual nframe %s has no rig", nf.id)
	}
	return nf.rig
}

// NumCameras returns the number of cameras of the rig.
func (nf *VisualNFrame) NumCameras() int {
	return nf.mustRig().NumCameras()
}

// Camera returns camera i of the rig.
func (nf *VisualNFrame) Camera(i int) *camera.Camera {
	return nf.mustRig().Camera(i)
}

// BodyToCamera returns T_C_B of camera i of the rig.
func (nf *VisualNFrame) BodyToCamera(i int) spatialmath.Transformation {
	return nf.mustRig().BodyToCamera(i)
}

// CameraID returns the id of camera i of the rig.
func (nf *VisualNFrame) CameraID(i int) uuid.UUID {
	return nf.mustRig().CameraID(i)
}

// HasCameraWithID reports whether the rig has a camera with the given id.
func (nf *VisualNFrame) HasCameraWithID(id uuid.UUID) bool {
	return nf.mustRig().HasCameraWithID(id)
}

// CameraIndex returns the rig index of the camera with the given id, or false when there is none.
func (nf *VisualNFrame) CameraIndex(id uuid.UUID) (int, bool) {
	return nf.mustRig().CameraIndex(id)
}

// MinTimestamp returns the earliest timestamp of the frames present, or false when there are none.
func (nf *VisualNFrame) MinTimestamp() (int64, bool) {
	return nf.extremeTimestamp(func(a, b int64) bool { return a < b })
}

// MaxTimestamp returns the latest timestamp of the frames present, or false when there are none.
func (nf *VisualNFrame) MaxTimestamp() (int64, bool) {
	return nf.extremeTimestamp(func(a, b int64) bool { return a > b })
}

func (nf *VisualNFrame) extremeTimestamp(better func(a, b int64) bool) (int64, bool) {
	var best int64
	found := false
	for _, f := range nf.frames {
		if f == nil {
			continue
		}
		if !found || better(f.Timestamp(), best) {
			best = f.Timestamp()
			found = true
		}
	}
	return best, found
}

// Equal compares ids, rigs and every slot.
func (nf *VisualNFrame) Equal(other *VisualNFrame) bool {
	if nf == nil || other == nil {
		return nf == other
	}
	if nf.id != other.id || !utils.CheckSharedEqual(nf.rig, other.rig) || len(nf.frames) != len(other.frames) {
		return false
	}
	for i := range nf.frames {
		if !utils.CheckSharedEqual(nf.frames[i], other.frames[i]) {
			return false
		}
	}
	return true
}
