package main

import (
	"errors"
	"os"

	"github.com/d2verb/ledlink/internal/artifact"
	"github.com/d2verb/ledlink/internal/registry"
	"github.com/d2verb/ledlink/internal/ui"
)

type InspectCmd struct {
	Target    string `arg:"" predictor:"artifact" help:"Path to a frame file, or the name of a stored artifact"`
	PixelSize int    `name:"pixel-size" help:"LED grid side length (default: from config)"`
}

func (c *InspectCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}

	pixelSize := cfg.PixelSize
	if c.PixelSize > 0 {
		pixelSize = c.PixelSize
	}

	path, err := resolveArtifact(c.Target, cfg.ArtifactDir)
	if err != nil {
		return err
	}

	info, err := artifact.InspectFile(path, pixelSize)
	if errors.Is(err, os.ErrNotExist) {
		return errArtifactNotFound(c.Target)
	}
	ui.PrintArtifactDetails(ui.ArtifactDetails{
		Path:      path,
		Size:      info.Size,
		FrameSize: info.FrameSize,
		Frames:    info.Frames,
		SavedAt:   info.Trailer.SaveTime,
		Err:       err,
	})
	if err != nil {
		return errInvalidArtifact()
	}
	return nil
}

// resolveArtifact prefers an existing path and falls back to the name of
// an artifact in dir.
func resolveArtifact(target, dir string) (string, error) {
	if _, err := os.Stat(target); err == nil {
		return target, nil
	}
	path, err := registry.New(dir).Path(target)
	if err != nil {
		return "", errArtifactNotFound(target)
	}
	return path, nil
}
