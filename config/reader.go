package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"

	"github.com/viamrobotics/camrig/logging"
	"github.com/viamrobotics/camrig/rig"
)

// Read reads a rig config from the given file. Environment variables in the file are expanded first.
func Read(
	ctx context.Context,
	filePath string,
	logger logging.Logger,
) (*RigConfig, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	return FromReader(ctx, filePath, bytes.NewReader(buf), logger)
}

// ReadRig reads the config in the given file and builds the rig it describes.
func ReadRig(
	ctx context.Context,
	filePath string,
	logger logging.Logger,
) (*rig.Rig, error) {
	cfg, err := Read(ctx, filePath, logger)
	if err != nil {
		return nil, err
	}
	return cfg.Build(logger)
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(
	ctx context.Context,
	originalPath string,
	r io.Reader,
	logger logging.Logger,
) (*RigConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := RigConfig{
		ConfigFilePath: originalPath,
	}
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode rig config from json")
	}
	if err := cfg.Validate("rig"); err != nil {
		return nil, errors.Wrapf(err, "failed to process rig config")
	}
	logger.Debugw("read rig config", "path", originalPath, "cameras", len(cfg.Cameras))
	return &cfg, nil
}
