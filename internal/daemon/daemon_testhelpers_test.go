package daemon

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/d2verb/ledlink/internal/launcher"
	"github.com/d2verb/ledlink/internal/registry"
	"github.com/d2verb/ledlink/internal/transfer"
	"github.com/d2verb/ledlink/internal/transport"
)

const replyTimeout = 2 * time.Second

// syncBuffer is a bytes.Buffer safe for concurrent log writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type call struct {
	path string
	args []string
}

// stubLauncher records spawns. When release is set, Run blocks until it is
// closed or ctx is cancelled.
type stubLauncher struct {
	mu       sync.Mutex
	runs     []call
	detached []call
	release  chan struct{}
	runErr   error
}

func (s *stubLauncher) Run(ctx context.Context, path string, args ...string) error {
	s.mu.Lock()
	s.runs = append(s.runs, call{path: path, args: args})
	release := s.release
	s.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.runErr
}

func (s *stubLauncher) Detach(path string, args ...string) *launcher.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detached = append(s.detached, call{path: path, args: args})
	return nil
}

func (s *stubLauncher) runCalls() []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]call(nil), s.runs...)
}

func (s *stubLauncher) detachCalls() []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]call(nil), s.detached...)
}

var testSettings = Settings{
	ArtifactExt:    ".bin",
	LEDPlayer:      "./test_files/rpi_test",
	RGBSetter:      "./rgb_test",
	PlaylistPlayer: "./rpi_play",
	PixelSize:      4,
}

// harness runs a Dispatcher against the far end of an in-memory pipe.
type harness struct {
	peer      *transport.Stream
	peerConn  net.Conn
	launcher  processLauncher
	artifacts *registry.Store
	playlists *registry.Store
	logs      *syncBuffer
	cancel    context.CancelFunc
	done      chan error
}

type harnessOptions struct {
	artifactDir string
	playlistDir string
	launcher    processLauncher
}

func newHarness(t *testing.T, stub *stubLauncher) *harness {
	t.Helper()
	return newHarnessWith(t, harnessOptions{launcher: stub})
}

func newHarnessWith(t *testing.T, opts harnessOptions) *harness {
	t.Helper()

	peerConn, endpointConn := net.Pipe()
	endpoint := transport.NewStream(endpointConn)
	endpoint.SetReadTimeout(200 * time.Millisecond)

	if opts.artifactDir == "" {
		opts.artifactDir = t.TempDir()
	}
	if opts.playlistDir == "" {
		opts.playlistDir = filepath.Join(t.TempDir(), "jsonFile")
	}
	if opts.launcher == nil {
		opts.launcher = &stubLauncher{}
	}

	logs := &syncBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))
	artifacts := registry.New(opts.artifactDir)
	playlists := registry.New(opts.playlistDir)
	if err := playlists.EnsureDir(); err != nil {
		t.Fatal(err)
	}
	rcv := transfer.NewReceiver(endpoint, artifacts, logger)

	d := New(endpoint, rcv, artifacts, playlists, opts.launcher, testSettings, logger)

	ctx, cancel := context.WithCancel(context.Background())
	h := &harness{
		peer:      transport.NewStream(peerConn),
		peerConn:  peerConn,
		launcher:  opts.launcher,
		artifacts: artifacts,
		playlists: playlists,
		logs:      logs,
		cancel:    cancel,
		done:      make(chan error, 1),
	}
	go func() {
		h.done <- d.Serve(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		peerConn.Close()
		endpointConn.Close()
	})
	return h
}

// send writes raw bytes to the endpoint in a single write.
func (h *harness) send(t *testing.T, data string) {
	t.Helper()
	if _, err := h.peer.Write([]byte(data)); err != nil {
		t.Fatalf("send %q: %v", data, err)
	}
}

// expectLine waits for the next reply line.
func (h *harness) expectLine(t *testing.T, want string) {
	t.Helper()
	got, err := h.peer.ReadLineWithin(replyTimeout)
	if err != nil {
		t.Fatalf("waiting for %q: %v", want, err)
	}
	if got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
}

// sync round-trips a PING. Commands are handled in order, so every
// command sent before it has finished once the reply arrives.
func (h *harness) sync(t *testing.T) {
	t.Helper()
	h.send(t, "PING\n")
	h.expectLine(t, "I_AM_ALIVE")
}

func (h *harness) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.done:
		return err
	case <-time.After(replyTimeout):
		t.Fatal("Serve did not return")
		return nil
	}
}

func (h *harness) logContains(t *testing.T, want string) {
	t.Helper()
	if logs := h.logs.String(); !strings.Contains(logs, want) {
		t.Errorf("logs missing %q:\n%s", want, logs)
	}
}
