package main

import (
	"fmt"

	"github.com/d2verb/ledlink/internal/client"
	"github.com/d2verb/ledlink/internal/config"
	"github.com/d2verb/ledlink/internal/transport"
)

// loadConfig reads the config file and applies flag overrides.
func loadConfig(g *Globals) (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.Device != "" {
		cfg.Device = g.Device
	}
	if g.Baud != 0 {
		cfg.BaudRate = g.Baud
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// dial opens a client on the configured serial device.
func dial(g *Globals) (*client.Client, *config.Config, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, nil, err
	}
	cl, err := client.Dial(cfg.Device, cfg.BaudRate)
	if err != nil {
		return nil, nil, err
	}
	if g.Timeout > 0 {
		cl.SetReplyTimeout(g.Timeout)
	}
	return cl, cfg, nil
}

// mapReplyError turns a missing reply into a user-facing error.
func mapReplyError(err error, device string) error {
	if transport.IsTimeout(err) {
		return errNoReply(device)
	}
	return err
}
