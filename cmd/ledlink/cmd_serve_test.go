package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/d2verb/ledlink/internal/client"
	"github.com/d2verb/ledlink/internal/config"
	"github.com/d2verb/ledlink/internal/transport"
)

func TestNewDispatcher_EndToEnd(t *testing.T) {
	// Arrange: an endpoint wired from config, driven by the client
	cfg := config.DefaultConfig()
	root := t.TempDir()
	cfg.ArtifactDir = filepath.Join(root, "bin_files")
	cfg.PlaylistDir = filepath.Join(root, "jsonFile")
	cfg.WorkDir = root
	cfg.LogFile = filepath.Join(root, "transfer_log.txt")
	cfg.PlayerLog = filepath.Join(root, "player.log")
	cfg.PIDFile = filepath.Join(root, "ledlink.pid")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	peerConn, endpointConn := net.Pipe()
	link := transport.NewStream(endpointConn)
	link.SetReadTimeout(200 * time.Millisecond)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := newDispatcher(cfg, link, io.Discard, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		peerConn.Close()
		endpointConn.Close()
	})

	cl := client.New(peerConn)
	cl.SetReplyTimeout(2 * time.Second)

	// Act + Assert
	if err := cl.Ping(); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if err := cl.Upload("wave.bin", []byte("frames")); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if err := cl.Upload("notes.txt", []byte("hi")); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	names, err := cl.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if !reflect.DeepEqual(names, []string{"wave.bin"}) {
		t.Errorf("List() = %v, want [wave.bin]", names)
	}

	if err := cl.Delete("wave.bin"); err != nil {
		t.Fatal(err)
	}
	if err := cl.Ping(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(cfg.ArtifactDir, "wave.bin")); !os.IsNotExist(err) {
		t.Errorf("wave.bin should be deleted, stat err = %v", err)
	}

	cancel()
	endpointConn.Close()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v, want nil after cancel", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
}
