// Package artifact inspects LED frame files as the players read them:
// a 32-byte header, fixed-size RGB frames, and a 16-byte trailer.
package artifact

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

const (
	HeaderSize  = 32
	TrailerSize = 16
	EndMarker   = 0xDEADBEEF
)

var (
	ErrTooShort     = errors.New("artifact: shorter than header and trailer")
	ErrNoFrames     = errors.New("artifact: header and trailer only")
	ErrBadEndMarker = errors.New("artifact: bad end marker")
)

// FrameCountError indicates the trailer disagrees with the frame data.
type FrameCountError struct {
	Trailer uint32
	Actual  uint32
}

func (e *FrameCountError) Error() string {
	return fmt.Sprintf("artifact: trailer records %d frames, file holds %d", e.Trailer, e.Actual)
}

// Trailer is the fixed record at the end of a frame file.
type Trailer struct {
	FrameCount uint32
	SaveTime   time.Time
	EndMarker  uint32
}

// Info describes an inspected frame file.
type Info struct {
	Size      int64
	FrameSize int
	Frames    uint32
	Trailer   Trailer
}

// FrameSize returns the byte size of one frame for a square grid of
// pixelSize×pixelSize RGB LEDs.
func FrameSize(pixelSize int) int {
	return pixelSize * pixelSize * 3
}

// DecodeTrailer decodes a little-endian trailer.
func DecodeTrailer(b []byte) Trailer {
	return Trailer{
		FrameCount: binary.LittleEndian.Uint32(b[0:4]),
		SaveTime:   time.UnixMilli(int64(binary.LittleEndian.Uint64(b[4:12]))),
		EndMarker:  binary.LittleEndian.Uint32(b[12:16]),
	}
}

// EncodeTrailer encodes t in the on-disk layout.
func EncodeTrailer(t Trailer) []byte {
	b := make([]byte, TrailerSize)
	binary.LittleEndian.PutUint32(b[0:4], t.FrameCount)
	binary.LittleEndian.PutUint64(b[4:12], uint64(t.SaveTime.UnixMilli()))
	binary.LittleEndian.PutUint32(b[12:16], t.EndMarker)
	return b
}

// Inspect validates a frame file of the given size. The returned Info is
// filled in as far as validation got, even on error.
func Inspect(r io.ReaderAt, size int64, pixelSize int) (Info, error) {
	info := Info{Size: size, FrameSize: FrameSize(pixelSize)}
	if info.FrameSize <= 0 {
		return info, fmt.Errorf("artifact: invalid pixel size %d", pixelSize)
	}
	if size < HeaderSize+TrailerSize {
		return info, ErrTooShort
	}
	if size == HeaderSize+TrailerSize {
		return info, ErrNoFrames
	}

	buf := make([]byte, TrailerSize)
	if _, err := r.ReadAt(buf, size-TrailerSize); err != nil {
		return info, fmt.Errorf("artifact: read trailer: %w", err)
	}
	info.Trailer = DecodeTrailer(buf)
	if info.Trailer.EndMarker != EndMarker {
		return info, ErrBadEndMarker
	}

	info.Frames = uint32((size - HeaderSize - TrailerSize) / int64(info.FrameSize))
	if info.Frames != info.Trailer.FrameCount {
		return info, &FrameCountError{Trailer: info.Trailer.FrameCount, Actual: info.Frames}
	}
	return info, nil
}

// InspectFile is Inspect on a file path.
func InspectFile(path string, pixelSize int) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Info{}, err
	}
	return Inspect(f, st.Size(), pixelSize)
}
