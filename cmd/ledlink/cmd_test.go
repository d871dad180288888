package main

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestUploadCmd_StoredName(t *testing.T) {
	tests := []struct {
		name    string
		cmd     UploadCmd
		want    string
		wantErr bool
	}{
		{"base name", UploadCmd{File: "/home/pi/frames/wave.bin"}, "wave.bin", false},
		{"explicit name", UploadCmd{File: "out.bin", As: "sunset.bin"}, "sunset.bin", false},
		{"name with separator", UploadCmd{File: "out.bin", As: "a/b.bin"}, "", true},
		{"dot dot", UploadCmd{File: "out.bin", As: ".."}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cmd.storedName()

			if (err != nil) != tt.wantErr {
				t.Fatalf("storedName() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("storedName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRGBCmd_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     RGBCmd
		wantErr bool
	}{
		{"black", RGBCmd{0, 0, 0}, false},
		{"white", RGBCmd{255, 255, 255}, false},
		{"red too high", RGBCmd{256, 0, 0}, true},
		{"blue negative", RGBCmd{0, 0, -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLocalArtifacts(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	files := map[string]int{"b.bin": 10, "a.bin": 2048, "notes.txt": 5}
	for name, size := range files {
		if err := os.WriteFile(filepath.Join(dir, name), make([]byte, size), 0644); err != nil {
			t.Fatal(err)
		}
	}

	// Act
	items, err := localArtifacts(dir, ".bin")

	// Assert
	if err != nil {
		t.Fatalf("localArtifacts() error = %v", err)
	}
	var got []string
	for _, it := range items {
		got = append(got, it.Name)
	}
	if !reflect.DeepEqual(got, []string{"a.bin", "b.bin"}) {
		t.Errorf("names = %v, want [a.bin b.bin]", got)
	}
	if items[0].Size != 2048 {
		t.Errorf("a.bin size = %d, want 2048", items[0].Size)
	}
}

func TestResolveArtifact(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	stored := filepath.Join(dir, "wave.bin")
	if err := os.WriteFile(stored, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	outside := filepath.Join(t.TempDir(), "local.bin")
	if err := os.WriteFile(outside, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		target  string
		want    string
		wantErr bool
	}{
		{"existing path", outside, outside, false},
		{"stored name", "wave.bin", stored, false},
		{"invalid name", "../../etc/passwd", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveArtifact(tt.target, dir)

			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveArtifact() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveArtifact() = %q, want %q", got, tt.want)
			}
			var exitErr *ExitError
			if tt.wantErr && !errors.As(err, &exitErr) {
				t.Errorf("error should be an ExitError, got %T", err)
			}
		})
	}
}
