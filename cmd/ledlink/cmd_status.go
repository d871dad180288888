package main

import (
	"github.com/d2verb/ledlink/internal/daemon"
	"github.com/d2verb/ledlink/internal/ui"
)

type StatusCmd struct{}

func (c *StatusCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}

	status, err := daemon.GetStatus(cfg.PIDFile)
	if err != nil {
		ui.PrintWarning(err.Error())
	}

	ui.PrintStatus(ui.EndpointStatus{
		Running:     status.Running,
		PID:         status.PID,
		Device:      cfg.Device,
		BaudRate:    cfg.BaudRate,
		ArtifactDir: cfg.ArtifactDir,
		LogPath:     cfg.LogFile,
	})

	if !status.Running {
		return errNotRunning()
	}
	return nil
}
