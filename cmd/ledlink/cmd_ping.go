package main

import (
	"fmt"
	"time"

	"github.com/d2verb/ledlink/internal/ui"
)

type PingCmd struct{}

func (c *PingCmd) Run(g *Globals) error {
	cl, cfg, err := dial(g)
	if err != nil {
		return err
	}
	defer cl.Close()

	start := time.Now()
	if err := cl.Ping(); err != nil {
		return mapReplyError(err, cfg.Device)
	}
	ui.PrintSuccess(fmt.Sprintf("Endpoint on %s is alive %s", cfg.Device, ui.Dim(fmt.Sprintf("(%s)", time.Since(start).Round(time.Millisecond)))))
	return nil
}
