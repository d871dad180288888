package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/d2verb/ledlink/internal/config"
	"github.com/d2verb/ledlink/internal/daemon"
	"github.com/d2verb/ledlink/internal/launcher"
	"github.com/d2verb/ledlink/internal/logging"
	"github.com/d2verb/ledlink/internal/registry"
	"github.com/d2verb/ledlink/internal/transfer"
	"github.com/d2verb/ledlink/internal/transport"
)

type ServeCmd struct {
	Console bool `help:"Also write the log to stderr"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if err := daemon.AcquirePIDFile(cfg.PIDFile); err != nil {
		if errors.Is(err, daemon.ErrAlreadyRunning) {
			pid, _ := daemon.ReadPIDFile(cfg.PIDFile)
			return errAlreadyRunning(pid)
		}
		return err
	}
	defer daemon.RemovePIDFile(cfg.PIDFile)

	// Set up log writers
	logWriter := logging.NewRotatingWriter(cfg.LogConfig(cfg.LogFile))
	defer logWriter.Close()

	playerLogWriter := logging.NewRotatingWriter(cfg.LogConfig(cfg.PlayerLog))
	defer playerLogWriter.Close()

	logger := logging.NewLogger(logging.WithConsole(logWriter, c.Console))

	link, err := transport.OpenSerial(cfg.Device, cfg.BaudRate)
	if err != nil {
		logger.Error("open serial failed", "device", cfg.Device, "error", err)
		return err
	}
	link.SetReadTimeout(cfg.ReadTimeout)

	d := newDispatcher(cfg, link, playerLogWriter, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Closing the link unblocks the pending read.
	go func() {
		<-ctx.Done()
		link.Close()
	}()

	logger.Info("endpoint started", "device", cfg.Device, "baud", cfg.BaudRate, "pid", os.Getpid())
	err = d.Serve(ctx)
	logger.Info("endpoint stopped")
	return err
}

// newDispatcher wires the endpoint components around link.
func newDispatcher(cfg *config.Config, link *transport.Stream, playerLog io.Writer, logger *slog.Logger) *daemon.Dispatcher {
	artifacts := registry.New(cfg.ArtifactDir)
	playlists := registry.New(cfg.PlaylistDir)

	rcv := transfer.NewReceiver(link, artifacts, logger)
	rcv.SetChunkSize(cfg.ChunkSize)

	proc := launcher.New(cfg.WorkDir, logger)
	proc.SetLogWriter(playerLog)

	return daemon.New(link, rcv, artifacts, playlists, proc, daemon.Settings{
		ArtifactExt:    cfg.ArtifactExt,
		LEDPlayer:      cfg.LEDPlayer,
		RGBSetter:      cfg.RGBSetter,
		PlaylistPlayer: cfg.PlaylistPlayer,
		PixelSize:      cfg.PixelSize,
	}, logger)
}
