package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/d2verb/ledlink/internal/registry"
	"github.com/d2verb/ledlink/internal/ui"
)

type UploadCmd struct {
	File string `arg:"" type:"existingfile" predictor:"file" help:"Local file to send"`
	As   string `name:"as" help:"Name to store the file under (default: base name of FILE)"`
}

// storedName is the name the endpoint will store the upload under.
func (c *UploadCmd) storedName() (string, error) {
	name := c.As
	if name == "" {
		name = filepath.Base(c.File)
	}
	if err := registry.ValidateName(name); err != nil {
		return "", err
	}
	return name, nil
}

func (c *UploadCmd) Run(g *Globals) error {
	name, err := c.storedName()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.File, err)
	}

	cl, cfg, err := dial(g)
	if err != nil {
		return err
	}
	defer cl.Close()

	ui.PrintInfo(fmt.Sprintf("Uploading %s (%s)...", name, ui.FormatSize(int64(len(data)))))
	if err := cl.Upload(name, data); err != nil {
		return mapReplyError(err, cfg.Device)
	}
	ui.PrintSuccess(fmt.Sprintf("Acknowledged: %s", name))
	return nil
}
