package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"github.com/viamrobotics/camrig/camera"
	"github.com/viamrobotics/camrig/config"
	"github.com/viamrobotics/camrig/logging"
	"github.com/viamrobotics/camrig/rig"
)

// printf prints a message with no prefix.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// successf prints a message in green.
func successf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	color.New(color.FgGreen).Fprintf(w, format+"\n", a...)
}

// warningf prints a message prefixed by "Warning: " in yellow.
func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	color.New(color.Bold, color.FgYellow).Fprint(w, "Warning: ")
	printf(w, format, a...)
}

// newLogger returns a logger writing to the app's error writer at the level the flags ask for.
func newLogger(c *cli.Context) (logging.Logger, error) {
	level, err := logging.LevelFromString(c.String(generalFlagLogLevel))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid --%s", generalFlagLogLevel)
	}
	if c.Bool(generalFlagDebug) {
		level = logging.DEBUG
	}
	logger := logging.NewLogger("camrig", c.App.ErrWriter)
	logger.SetLevel(level)
	return logger, nil
}

func loadRig(c *cli.Context, logger logging.Logger) (*rig.Rig, error) {
	path := c.String(generalFlagConfig)
	if path == "" {
		return nil, errors.Errorf("--%s is required", generalFlagConfig)
	}
	return config.ReadRig(c.Context, path, logger.Sublogger("config"))
}

// DescribeAction prints the rig table followed by the parameters of every camera.
func DescribeAction(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	r, err := loadRig(c, logger)
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", r.String())
	for _, cam := range r.Cameras() {
		printf(c.App.Writer, "%s", cam.String())
	}
	return nil
}

func parseVector(name string, values []float64, n int) ([]float64, error) {
	if len(values) != n {
		return nil, errors.Errorf("--%s needs %d comma separated values, got %d", name, n, len(values))
	}
	return values, nil
}

// ProjectAction projects a point given in the body frame into every camera, or a point given in one
// camera's frame into that camera.
func ProjectAction(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	r, err := loadRig(c, logger)
	if err != nil {
		return err
	}
	values, err := parseVector(projectFlagPoint, c.Float64Slice(projectFlagPoint), 3)
	if err != nil {
		return err
	}
	p := r3.Vector{X: values[0], Y: values[1], Z: values[2]}

	var (
		indices   []int
		keypoints []r2.Point
		results   []camera.ProjectionResult
	)
	switch frame := c.String(projectFlagFrame); frame {
	case frameBody:
		keypoints, results = r.ProjectBodyPoint(p)
		indices = lo.Range(len(keypoints))
	case frameCamera:
		idx := c.Int(projectFlagCamera)
		if idx < 0 || idx >= r.NumCameras() {
			return errors.Errorf("--%s must be in [0, %d) for points in the camera frame", projectFlagCamera, r.NumCameras())
		}
		kp, result := r.Camera(idx).Project3(p)
		indices, keypoints, results = []int{idx}, []r2.Point{kp}, []camera.ProjectionResult{result}
	default:
		return errors.Errorf("unknown frame %q, expected %q or %q", frame, frameBody, frameCamera)
	}
	logger.Debugw("projected point", "point", p, "frame", c.String(projectFlagFrame))

	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Label", "U", "V", "Result"})
	for i, idx := range indices {
		t.AppendRow([]interface{}{
			fmt.Sprintf("%d", idx),
			r.Camera(idx).Label(),
			fmt.Sprintf("%.3f", keypoints[i].X),
			fmt.Sprintf("%.3f", keypoints[i].Y),
			results[i].String(),
		})
	}
	printf(c.App.Writer, "%s", t.Render())
	return nil
}

// BackProjectAction prints the bearing of a pixel in the camera frame and in the body frame.
func BackProjectAction(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	r, err := loadRig(c, logger)
	if err != nil {
		return err
	}
	values, err := parseVector(backprojectFlagPixel, c.Float64Slice(backprojectFlagPixel), 2)
	if err != nil {
		return err
	}
	idx := c.Int(projectFlagCamera)
	if idx < 0 || idx >= r.NumCameras() {
		return errors.Errorf("--%s must be in [0, %d)", projectFlagCamera, r.NumCameras())
	}

	bearing, ok := r.Camera(idx).BackProject3(r2.Point{X: values[0], Y: values[1]})
	if !ok {
		return errors.Errorf("pixel (%g, %g) cannot be back-projected by camera %d", values[0], values[1], idx)
	}
	bearing = bearing.Normalize()
	cameraToBody := r.CameraToBody(idx)
	printf(c.App.Writer, "camera %d bearing: (%.6f, %.6f, %.6f)", idx, bearing.X, bearing.Y, bearing.Z)
	bodyBearing := cameraToBody.Rotate(bearing)
	origin := cameraToBody.Translation()
	printf(c.App.Writer, "body ray: origin (%.6f, %.6f, %.6f) direction (%.6f, %.6f, %.6f)",
		origin.X, origin.Y, origin.Z, bodyBearing.X, bodyBearing.Y, bodyBearing.Z)
	return nil
}

// DiffAction prints the differences between two rig configs.
func DiffAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("diff needs exactly two config files")
	}
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	left, err := config.Read(c.Context, c.Args().Get(0), logger)
	if err != nil {
		return err
	}
	right, err := config.Read(c.Context, c.Args().Get(1), logger)
	if err != nil {
		return err
	}
	diff, err := config.DiffConfigs(left, right)
	if err != nil {
		return err
	}
	if diff.Equal {
		successf(c.App.Writer, "configs are equal")
		return nil
	}
	warningf(c.App.Writer, "configs differ")
	printf(c.App.Writer, "%s", diff.String())
	return nil
}

// SchemaAction prints the JSON schema of rig config files.
func SchemaAction(c *cli.Context) error {
	out, err := config.Schema()
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", out)
	return nil
}
