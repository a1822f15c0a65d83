// Package config reads JSON descriptions of camera rigs and builds rigs from them.
package config

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/num/quat"

	"github.com/viamrobotics/camrig/camera"
	"github.com/viamrobotics/camrig/logging"
	"github.com/viamrobotics/camrig/rig"
	"github.com/viamrobotics/camrig/spatialmath"
	"github.com/viamrobotics/camrig/utils"
)

// RigConfig describes a camera rig.
type RigConfig struct {
	ID      string         `json:"id,omitempty"`
	Label   string         `json:"label,omitempty"`
	Cameras []CameraConfig `json:"cameras"`

	ConfigFilePath string `json:"-"`
}

// CameraConfig describes one camera of a rig and where it is mounted.
type CameraConfig struct {
	ID                   string            `json:"id,omitempty"`
	Label                string            `json:"label,omitempty"`
	Model                camera.ModelType  `json:"model"`
	Intrinsics           []float64         `json:"intrinsics"`
	Width                int               `json:"width_px"`
	Height               int               `json:"height_px"`
	LineDelayNanoseconds uint64            `json:"line_delay_nanoseconds,omitempty"`
	Distortion           *DistortionConfig `json:"distortion,omitempty"`
	BodyToCamera         TransformConfig   `json:"T_C_B"`
}

// DistortionConfig names a lens distortion model and its coefficients.
type DistortionConfig struct {
	Type       camera.DistortionType `json:"type"`
	Parameters []float64             `json:"parameters"`
}

// Translation is a translation in meters.
type Translation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Rotation is a quaternion. It does not need to be normalized.
type Rotation struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// unitQuaternionTolerance is how far from 1 the norm of a configured rotation may be before Build warns.
const unitQuaternionTolerance = 1e-6

func (r *Rotation) quaternion() quat.Number {
	return quat.Number{Real: r.W, Imag: r.X, Jmag: r.Y, Kmag: r.Z}
}

// Orientation is a rotation of TH degrees about the axis (X, Y, Z).
type Orientation struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
	TH float64 `json:"th"`
}

// TransformConfig is the transform T_C_B from the body frame into a camera frame. The rotation is given
// either as a quaternion or as an axis angle orientation; when both are missing it is the identity.
type TransformConfig struct {
	Translation Translation  `json:"translation"`
	Rotation    *Rotation    `json:"rotation,omitempty"`
	Orientation *Orientation `json:"orientation,omitempty"`
}

// Transformation converts the config into a spatialmath.Transformation.
func (tc TransformConfig) Transformation() spatialmath.Transformation {
	rotation := quat.Number{Real: 1}
	switch {
	case tc.Rotation != nil:
		rotation = tc.Rotation.quaternion()
	case tc.Orientation != nil:
		o := tc.Orientation
		rotation = (&spatialmath.R4AA{Theta: utils.DegToRad(o.TH), RX: o.X, RY: o.Y, RZ: o.Z}).Quaternion()
	}
	return spatialmath.NewTransformation(rotation, r3.Vector{X: tc.Translation.X, Y: tc.Translation.Y, Z: tc.Translation.Z})
}

// Validate ensures all parts of the config are valid. Every problem found is reported.
func (cfg *RigConfig) Validate(path string) error {
	var err error
	if cfg.ID != "" {
		if _, parseErr := uuid.Parse(cfg.ID); parseErr != nil {
			err = multierr.Append(err, utils.NewConfigValidationError(path, errors.Wrap(parseErr, "invalid id")))
		}
	}
	if len(cfg.Cameras) == 0 {
		err = multierr.Append(err, utils.NewConfigValidationFieldRequiredError(path, "cameras"))
	}
	ids := make(map[string]int, len(cfg.Cameras))
	for i := range cfg.Cameras {
		camPath := fmt.Sprintf("%s.cameras.%d", path, i)
		err = multierr.Append(err, cfg.Cameras[i].Validate(camPath))
		if id := cfg.Cameras[i].ID; id != "" {
			if prev, ok := ids[id]; ok {
				err = multierr.Append(err, utils.NewConfigValidationError(camPath,
					errors.Errorf("id %s is already used by camera %d", id, prev)))
			}
			ids[id] = i
		}
	}
	return err
}

// Validate ensures the camera config is usable.
func (cfg *CameraConfig) Validate(path string) error {
	var err error
	if cfg.ID != "" {
		if _, parseErr := uuid.Parse(cfg.ID); parseErr != nil {
			err = multierr.Append(err, utils.NewConfigValidationError(path, errors.Wrap(parseErr, "invalid id")))
		}
	}
	if cfg.Model == "" {
		err = multierr.Append(err, utils.NewConfigValidationFieldRequiredError(path, "model"))
	} else if _, modelErr := camera.NewModel(cfg.Model); modelErr != nil {
		err = multierr.Append(err, utils.NewConfigValidationError(path, modelErr))
	}
	if cfg.Width <= 0 {
		err = multierr.Append(err, utils.NewConfigValidationFieldRequiredError(path, "width_px"))
	}
	if cfg.Height <= 0 {
		err = multierr.Append(err, utils.NewConfigValidationFieldRequiredError(path, "height_px"))
	}
	if cfg.Distortion != nil && cfg.Distortion.Type == "" {
		err = multierr.Append(err, utils.NewConfigValidationFieldRequiredError(path, "distortion.type"))
	}
	if r := cfg.BodyToCamera.Rotation; r != nil && r.W == 0 && r.X == 0 && r.Y == 0 && r.Z == 0 {
		err = multierr.Append(err, utils.NewConfigValidationError(path, errors.New("T_C_B.rotation must not be zero")))
	}
	if o := cfg.BodyToCamera.Orientation; o != nil {
		if cfg.BodyToCamera.Rotation != nil {
			err = multierr.Append(err, utils.NewConfigValidationError(path,
				errors.New("T_C_B takes a rotation or an orientation, not both")))
		}
		if o.X == 0 && o.Y == 0 && o.Z == 0 && o.TH != 0 {
			err = multierr.Append(err, utils.NewConfigValidationError(path, errors.New("T_C_B.orientation axis must not be zero")))
		}
	}
	return err
}

// Camera builds the camera described by the config.
func (cfg *CameraConfig) Camera() (*camera.Camera, error) {
	model, err := camera.NewModel(cfg.Model)
	if err != nil {
		return nil, err
	}
	var distortion camera.Distortion
	if cfg.Distortion != nil {
		if distortion, err = camera.NewDistortion(cfg.Distortion.Type, cfg.Distortion.Parameters); err != nil {
			return nil, err
		}
	}
	cam, err := camera.NewCamera(model, cfg.Intrinsics, cfg.Width, cfg.Height, distortion)
	if err != nil {
		return nil, err
	}
	if cfg.ID != "" {
		id, err := uuid.Parse(cfg.ID)
		if err != nil {
			return nil, err
		}
		cam.SetID(id)
	}
	if cfg.Label != "" {
		cam.SetLabel(cfg.Label)
	}
	cam.SetLineDelayNanoseconds(cfg.LineDelayNanoseconds)
	return cam, nil
}

// Build validates the config and builds the rig it describes. Missing ids are generated.
func (cfg *RigConfig) Build(logger logging.Logger) (*rig.Rig, error) {
	if err := cfg.Validate("rig"); err != nil {
		return nil, err
	}
	id := uuid.New()
	if cfg.ID != "" {
		id = uuid.MustParse(cfg.ID)
	} else {
		logger.Debugw("rig has no id, generated one", "id", id)
	}

	cams := make([]*camera.Camera, 0, len(cfg.Cameras))
	transforms := make([]spatialmath.Transformation, 0, len(cfg.Cameras))
	for i := range cfg.Cameras {
		cam, err := cfg.Cameras[i].Camera()
		if err != nil {
			return nil, errors.Wrapf(err, "error building camera %d", i)
		}
		if cfg.Cameras[i].ID == "" {
			logger.Debugw("camera has no id, generated one", "index", i, "id", cam.ID())
		}
		if rot := cfg.Cameras[i].BodyToCamera.Rotation; rot != nil {
			if norm := quat.Abs(rot.quaternion()); math.Abs(norm-1) > unitQuaternionTolerance {
				logger.Warnw("T_C_B rotation is not a unit quaternion, normalizing it", "index", i, "norm", norm)
			}
		}
		cams = append(cams, cam)
		transforms = append(transforms, cfg.Cameras[i].BodyToCamera.Transformation())
	}
	r, err := rig.New(id, cfg.Label, transforms, cams)
	if err != nil {
		return nil, err
	}
	logger.Infow("built rig", "id", r.ID(), "label", r.Label(), "cameras", r.NumCameras())
	return r, nil
}

// FromRig returns the config describing r.
func FromRig(r *rig.Rig) *RigConfig {
	return &RigConfig{
		ID:    r.ID().String(),
		Label: r.Label(),
		Cameras: lo.Map(r.Cameras(), func(cam *camera.Camera, i int) CameraConfig {
			transform := r.BodyToCamera(i)
			q, t := transform.Rotation(), transform.Translation()
			camCfg := CameraConfig{
				ID:                   cam.ID().String(),
				Label:                cam.Label(),
				Model:                cam.Model().Type(),
				Intrinsics:           cam.Intrinsics(),
				Width:                cam.ImageWidth(),
				Height:               cam.ImageHeight(),
				LineDelayNanoseconds: cam.LineDelayNanoseconds(),
				BodyToCamera: TransformConfig{
					Translation: Translation{X: t.X, Y: t.Y, Z: t.Z},
					Rotation:    &Rotation{W: q.Real, X: q.Imag, Y: q.Jmag, Z: q.Kmag},
				},
			}
			if d := cam.Distortion(); d != nil {
				camCfg.Distortion = &DistortionConfig{Type: d.Type(), Parameters: d.Parameters()}
			}
			return camCfg
		}),
	}
}
