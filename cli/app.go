// Package cli contains the camrig command line interface.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	generalFlagConfig   = "config"
	generalFlagDebug    = "debug"
	generalFlagLogLevel = "log-level"

	projectFlagPoint  = "point"
	projectFlagCamera = "camera"
	projectFlagFrame  = "frame"

	backprojectFlagPixel = "pixel"

	frameBody   = "body"
	frameCamera = "camera"
)

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "camrig",
		Usage:           "inspect calibrated camera rigs",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    generalFlagConfig,
				Aliases: []string{"c"},
				Usage:   "load the rig from `FILE`",
			},
			&cli.BoolFlag{
				Name:    generalFlagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging, overrides --log-level",
			},
			&cli.StringFlag{
				Name:  generalFlagLogLevel,
				Usage: "log to stderr at `LEVEL`: debug, info, warn or error",
				Value: "warn",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "describe",
				Usage:  "print the cameras of the rig",
				Action: DescribeAction,
			},
			{
				Name:      "project",
				Usage:     "project a 3D point into the cameras of the rig",
				UsageText: "camrig --config FILE project --point x,y,z [--frame body|camera --camera INDEX]",
				Flags: []cli.Flag{
					&cli.Float64SliceFlag{
						Name:     projectFlagPoint,
						Usage:    "point as x,y,z in meters",
						Required: true,
					},
					&cli.StringFlag{
						Name:  projectFlagFrame,
						Usage: "frame the point is expressed in, body or camera",
						Value: frameBody,
					},
					&cli.IntFlag{
						Name:  projectFlagCamera,
						Usage: "camera index, required for points in the camera frame",
						Value: -1,
					},
				},
				Action: ProjectAction,
			},
			{
				Name:      "backproject",
				Usage:     "back-project a pixel of one camera to a bearing",
				UsageText: "camrig --config FILE backproject --camera INDEX --pixel u,v",
				Flags: []cli.Flag{
					&cli.Float64SliceFlag{
						Name:     backprojectFlagPixel,
						Usage:    "pixel as u,v",
						Required: true,
					},
					&cli.IntFlag{
						Name:     projectFlagCamera,
						Usage:    "camera index",
						Required: true,
					},
				},
				Action: BackProjectAction,
			},
			{
				Name:      "diff",
				Usage:     "show the differences between two rig configs",
				ArgsUsage: "<left.json> <right.json>",
				Action:    DiffAction,
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schema of rig config files",
				Action: SchemaAction,
			},
		},
	}
}
