// Package protocol defines the line protocol spoken over the serial link.
package protocol

import (
	"fmt"
	"strconv"
)

// Exact-match command lines.
const (
	LinePing      = "PING"
	LineListFiles = "LIST_FILES"
)

// Command prefixes.
const (
	PrefixUpload      = "UPLOAD:"
	PrefixDelete      = "DELETE:"
	PrefixRunLED      = "RUN_LED:"
	PrefixRunRGB      = "RUN_RGB:"
	PrefixRunPlaylist = "RUN_PLAYLIST:"
	PrefixPass        = "PASS:"
)

// Replies sent back to the peer.
const (
	ReplyAlive       = "I_AM_ALIVE"
	ReplyAckPrefix   = "ACK:"
	ReplyErrorPrefix = "ERROR: "
)

// Command is one parsed protocol line. Line renders it back to the wire
// form, so the peer side can build commands with the same types.
type Command interface {
	Line() string
}

// Ping is a liveness check.
type Ping struct{}

// Upload announces Size raw bytes following the line.
type Upload struct {
	Name string
	Size int64
}

// Delete removes an artifact.
type Delete struct {
	Name string
}

// ListFiles requests the artifact names.
type ListFiles struct{}

// RunLED plays an artifact without blocking the link.
type RunLED struct {
	Name string
}

// RunRGB sets a solid color. On the wire the components are ordered
// G,R,B; the setter executable receives them as R,G,B.
type RunRGB struct {
	R, G, B int
}

// RunPlaylist announces a playlist; its JSON payload is the next line.
type RunPlaylist struct {
	ListName string
}

// Pass is an explicit no-op.
type Pass struct {
	Text string
}

// Unknown is any line that matches no command.
type Unknown struct {
	Raw string
}

func (Ping) Line() string {
	return LinePing
}

func (c Upload) Line() string {
	return fmt.Sprintf("%s%s:%d", PrefixUpload, c.Name, c.Size)
}

func (c Delete) Line() string {
	return PrefixDelete + c.Name
}

func (ListFiles) Line() string {
	return LineListFiles
}

func (c RunLED) Line() string {
	return PrefixRunLED + c.Name
}

func (c RunRGB) Line() string {
	return fmt.Sprintf("%s%d,%d,%d", PrefixRunRGB, c.G, c.R, c.B)
}

func (c RunPlaylist) Line() string {
	return PrefixRunPlaylist + c.ListName
}

func (c Pass) Line() string {
	return PrefixPass + c.Text
}

func (c Unknown) Line() string {
	return c.Raw
}

// Args returns the setter arguments in R,G,B order.
func (c RunRGB) Args() []string {
	return []string{strconv.Itoa(c.R), strconv.Itoa(c.G), strconv.Itoa(c.B)}
}

// AckLine is the terminal reply for an upload attempt.
func AckLine(name string) string {
	return ReplyAckPrefix + name
}
