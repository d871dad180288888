// Package daemon implements the serial command endpoint.
package daemon

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/d2verb/ledlink/internal/artifact"
	"github.com/d2verb/ledlink/internal/launcher"
	"github.com/d2verb/ledlink/internal/protocol"
	"github.com/d2verb/ledlink/internal/registry"
	"github.com/d2verb/ledlink/internal/transfer"
)

// link is the line side of the transport.
type link interface {
	ReadLine() (string, error)
	WriteLine(text string) error
	HasPendingData() bool
}

// receiver pulls an announced upload off the link.
type receiver interface {
	Receive(name string, size int64) (transfer.Outcome, error)
}

// artifactStore manages uploaded artifacts.
type artifactStore interface {
	Path(name string) (string, error)
	Delete(name string) error
	List(ext string) ([]string, error)
}

// playlistStore persists playlist payloads.
type playlistStore interface {
	WriteFile(name string, data []byte) (string, error)
}

// processLauncher spawns the player executables.
type processLauncher interface {
	Run(ctx context.Context, path string, args ...string) error
	Detach(path string, args ...string) *launcher.Task
}

// Settings are the fixed parts of the command handlers.
type Settings struct {
	ArtifactExt    string
	LEDPlayer      string
	RGBSetter      string
	PlaylistPlayer string
	PixelSize      int
}

// playlistSuffix is appended to a playlist name to form its file name.
const playlistSuffix = "_play.json"

// Dispatcher reads one command line at a time and runs its handler to
// completion before reading the next. Only RUN_LED returns before its
// side effect finishes.
type Dispatcher struct {
	link      link
	receiver  receiver
	artifacts artifactStore
	playlists playlistStore
	launcher  processLauncher
	settings  Settings
	logger    *slog.Logger

	// Test hook (defaults to artifact.InspectFile)
	inspect func(path string, pixelSize int) (artifact.Info, error)
}

// New creates a dispatcher. All collaborators are required.
func New(l link, rcv receiver, artifacts artifactStore, playlists playlistStore, proc processLauncher, settings Settings, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		panic("logger must not be nil")
	}
	return &Dispatcher{
		link:      l,
		receiver:  rcv,
		artifacts: artifacts,
		playlists: playlists,
		launcher:  proc,
		settings:  settings,
		logger:    logger,
		inspect:   artifact.InspectFile,
	}
}

// Serve runs the command loop. It returns nil once ctx is cancelled (the
// caller closes the link to unblock the pending read) and the link error
// if reading a command line fails; nothing else ends the loop.
func (d *Dispatcher) Serve(ctx context.Context) error {
	d.logger.Info("waiting for commands")
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := d.link.ReadLine()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			d.logger.Error("link read failed", "error", err)
			return err
		}
		d.handleLine(ctx, line)
	}
}

func (d *Dispatcher) handleLine(ctx context.Context, raw string) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return
	}

	cmd, err := protocol.Parse(line)
	if err != nil {
		d.logger.Warn("invalid command", "error", err)
		return
	}
	d.handleCommand(ctx, cmd)
}

func (d *Dispatcher) handleCommand(ctx context.Context, cmd protocol.Command) {
	switch c := cmd.(type) {
	case protocol.Ping:
		d.handlePing()
	case protocol.Upload:
		d.handleUpload(c)
	case protocol.Delete:
		d.handleDelete(c)
	case protocol.ListFiles:
		d.handleListFiles()
	case protocol.RunLED:
		d.handleRunLED(c)
	case protocol.RunRGB:
		d.handleRunRGB(ctx, c)
	case protocol.RunPlaylist:
		d.handleRunPlaylist(ctx, c)
	case protocol.Pass:
	default:
		d.logger.Info("ignored", "line", cmd.Line())
	}
}

func (d *Dispatcher) handlePing() {
	if err := d.link.WriteLine(protocol.ReplyAlive); err != nil {
		d.logger.Error("reply to ping failed", "error", err)
	}
}

func (d *Dispatcher) handleUpload(c protocol.Upload) {
	out, err := d.receiver.Receive(c.Name, c.Size)
	if err != nil {
		d.logger.Error("upload link error", "file", c.Name, "error", err)
	}
	if out.Complete && strings.HasSuffix(c.Name, d.settings.ArtifactExt) {
		d.inspectArtifact(c.Name)
	}
}

// inspectArtifact logs whether a received artifact is a well-formed frame
// file. It never changes the upload outcome.
func (d *Dispatcher) inspectArtifact(name string) {
	path, err := d.artifacts.Path(name)
	if err != nil {
		return
	}
	info, err := d.inspect(path, d.settings.PixelSize)
	if err != nil {
		d.logger.Warn("artifact failed validation", "file", name, "error", err)
		return
	}
	d.logger.Info("artifact validated", "file", name, "frames", info.Frames)
}

func (d *Dispatcher) handleDelete(c protocol.Delete) {
	err := d.artifacts.Delete(c.Name)
	switch {
	case err == nil:
		d.logger.Info("deleted", "file", c.Name)
	case registry.IsNotFound(err):
		d.logger.Warn("delete failed (not found)", "file", c.Name)
	default:
		d.logger.Error("delete failed", "file", c.Name, "error", err)
	}
}

func (d *Dispatcher) handleListFiles() {
	names, err := d.artifacts.List(d.settings.ArtifactExt)
	if err != nil {
		d.logger.Error("list files failed", "error", err)
		if werr := d.link.WriteLine(protocol.ReplyErrorPrefix + err.Error()); werr != nil {
			d.logger.Error("send list error failed", "error", werr)
		}
		return
	}

	data, err := json.Marshal(names)
	if err != nil {
		d.logger.Error("encode file list failed", "error", err)
		return
	}
	if err := d.link.WriteLine(string(data)); err != nil {
		d.logger.Error("send file list failed", "error", err)
		return
	}
	d.logger.Info("sent file list", "count", len(names))
}

func (d *Dispatcher) handleRunLED(c protocol.RunLED) {
	d.logger.Info("run led", "file", c.Name)
	// The task handle is dropped: the loop must keep answering PING while
	// the player runs, and the launcher logs how it ends.
	_ = d.launcher.Detach(d.settings.LEDPlayer, c.Name, strconv.Itoa(d.settings.PixelSize))
}

func (d *Dispatcher) handleRunRGB(ctx context.Context, c protocol.RunRGB) {
	d.logger.Info("run rgb", "r", c.R, "g", c.G, "b", c.B)
	if err := d.launcher.Run(ctx, d.settings.RGBSetter, c.Args()...); err != nil {
		d.logger.Error("rgb setter failed", "error", err)
	}
}

// handleRunPlaylist reads the JSON payload line only if it is already
// waiting. A payload that arrives after the check is read later as an
// ordinary (unknown) command line.
func (d *Dispatcher) handleRunPlaylist(ctx context.Context, c protocol.RunPlaylist) {
	d.logger.Info("run playlist", "playlist", c.ListName)
	if !d.link.HasPendingData() {
		d.logger.Warn("no playlist payload after RUN_PLAYLIST", "playlist", c.ListName)
		return
	}

	payload, err := d.link.ReadLine()
	if err != nil {
		d.logger.Error("read playlist payload failed", "playlist", c.ListName, "error", err)
		return
	}

	path, err := d.playlists.WriteFile(c.ListName+playlistSuffix, []byte(strings.TrimSpace(payload)+"\n"))
	if err != nil {
		d.logger.Error("save playlist failed", "playlist", c.ListName, "error", err)
		return
	}
	// The player runs from its own working directory.
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	d.logger.Info("playlist saved", "path", path)

	if err := d.launcher.Run(ctx, d.settings.PlaylistPlayer, path, strconv.Itoa(d.settings.PixelSize)); err != nil {
		d.logger.Error("playlist player failed", "playlist", c.ListName, "error", err)
	}
}
