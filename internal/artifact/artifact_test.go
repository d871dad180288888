package artifact

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func buildFile(frames int, pixelSize int, trailer Trailer) []byte {
	var b bytes.Buffer
	b.Write(make([]byte, HeaderSize))
	b.Write(bytes.Repeat([]byte{0x10}, frames*FrameSize(pixelSize)))
	b.Write(EncodeTrailer(trailer))
	return b.Bytes()
}

func TestFrameSize(t *testing.T) {
	if got := FrameSize(4); got != 48 {
		t.Errorf("FrameSize(4) = %d, want 48", got)
	}
}

func TestInspect(t *testing.T) {
	saved := time.UnixMilli(1748163600000)

	tests := []struct {
		name       string
		data       []byte
		wantErr    error
		wantFrames uint32
	}{
		{
			name:       "valid",
			data:       buildFile(3, 4, Trailer{FrameCount: 3, SaveTime: saved, EndMarker: EndMarker}),
			wantFrames: 3,
		},
		{
			name:    "too short",
			data:    make([]byte, 20),
			wantErr: ErrTooShort,
		},
		{
			name:    "header and trailer only",
			data:    buildFile(0, 4, Trailer{EndMarker: EndMarker}),
			wantErr: ErrNoFrames,
		},
		{
			name:    "bad end marker",
			data:    buildFile(2, 4, Trailer{FrameCount: 2, EndMarker: 0xCAFEBABE}),
			wantErr: ErrBadEndMarker,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Inspect(bytes.NewReader(tt.data), int64(len(tt.data)), 4)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Inspect() error = %v, want %v", err, tt.wantErr)
			}
			if info.Frames != tt.wantFrames {
				t.Errorf("Frames = %d, want %d", info.Frames, tt.wantFrames)
			}
		})
	}
}

func TestInspect_TrailerFields(t *testing.T) {
	saved := time.UnixMilli(1748163600123)
	data := buildFile(1, 4, Trailer{FrameCount: 1, SaveTime: saved, EndMarker: EndMarker})

	info, err := Inspect(bytes.NewReader(data), int64(len(data)), 4)

	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if !info.Trailer.SaveTime.Equal(saved) {
		t.Errorf("SaveTime = %v, want %v", info.Trailer.SaveTime, saved)
	}
}

func TestInspect_FrameCountMismatch(t *testing.T) {
	data := buildFile(2, 4, Trailer{FrameCount: 5, EndMarker: EndMarker})

	_, err := Inspect(bytes.NewReader(data), int64(len(data)), 4)

	var fce *FrameCountError
	if !errors.As(err, &fce) {
		t.Fatalf("Inspect() error = %v, want FrameCountError", err)
	}
	if fce.Trailer != 5 || fce.Actual != 2 {
		t.Errorf("FrameCountError = %+v, want trailer 5 actual 2", fce)
	}
}

func TestInspect_InvalidPixelSize(t *testing.T) {
	data := buildFile(1, 4, Trailer{FrameCount: 1, EndMarker: EndMarker})

	if _, err := Inspect(bytes.NewReader(data), int64(len(data)), 0); err == nil {
		t.Error("Inspect() with pixel size 0 should fail")
	}
}

func TestInspectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "show.bin")
	data := buildFile(4, 4, Trailer{FrameCount: 4, EndMarker: EndMarker})
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	info, err := InspectFile(path, 4)

	if err != nil {
		t.Fatalf("InspectFile() error = %v", err)
	}
	if info.Size != int64(len(data)) || info.Frames != 4 {
		t.Errorf("Info = %+v", info)
	}
}

func TestInspectFile_Missing(t *testing.T) {
	if _, err := InspectFile(filepath.Join(t.TempDir(), "nope.bin"), 4); !os.IsNotExist(err) {
		t.Errorf("InspectFile() error = %v, want not-exist", err)
	}
}
