package main

import (
	"fmt"
	"os"

	"github.com/d2verb/ledlink/internal/ui"
)

type LEDCmd struct {
	Name string `arg:"" predictor:"artifact" help:"Artifact to play"`
}

func (c *LEDCmd) Run(g *Globals) error {
	cl, _, err := dial(g)
	if err != nil {
		return err
	}
	defer cl.Close()

	if err := cl.RunLED(c.Name); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Playing %s", ui.Cyan(c.Name)))
	return nil
}

type RGBCmd struct {
	Red   int `arg:"" help:"Red (0-255)"`
	Green int `arg:"" help:"Green (0-255)"`
	Blue  int `arg:"" help:"Blue (0-255)"`
}

func (c *RGBCmd) Validate() error {
	for _, v := range []int{c.Red, c.Green, c.Blue} {
		if v < 0 || v > 255 {
			return fmt.Errorf("color components must be 0-255, got %d", v)
		}
	}
	return nil
}

func (c *RGBCmd) Run(g *Globals) error {
	cl, _, err := dial(g)
	if err != nil {
		return err
	}
	defer cl.Close()

	if err := cl.RunRGB(c.Red, c.Green, c.Blue); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Color set to (%d, %d, %d)", c.Red, c.Green, c.Blue))
	return nil
}

type PlaylistCmd struct {
	Name string `arg:"" help:"Playlist name"`
	File string `arg:"" type:"existingfile" predictor:"file" help:"JSON playlist file"`
}

func (c *PlaylistCmd) Run(g *Globals) error {
	payload, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.File, err)
	}

	cl, _, err := dial(g)
	if err != nil {
		return err
	}
	defer cl.Close()

	if err := cl.RunPlaylist(c.Name, payload); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Playlist %s sent", ui.Cyan(c.Name)))
	return nil
}
