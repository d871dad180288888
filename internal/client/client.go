// Package client drives a ledlink endpoint from the controller side of the
// serial link.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/d2verb/ledlink/internal/protocol"
	"github.com/d2verb/ledlink/internal/transport"
)

// DefaultReplyTimeout bounds the wait for a reply line.
const DefaultReplyTimeout = 5 * time.Second

// bitsPerByte is the on-wire cost of one byte in 8N1 framing.
const bitsPerByte = 10

// ReplyError is an "ERROR: " reply from the endpoint.
type ReplyError struct {
	Message string
}

func (e *ReplyError) Error() string {
	return "endpoint error: " + e.Message
}

// UnexpectedReplyError is a reply that does not answer the command sent.
type UnexpectedReplyError struct {
	Want string
	Got  string
}

func (e *UnexpectedReplyError) Error() string {
	return fmt.Sprintf("unexpected reply %q (want %s)", e.Got, e.Want)
}

// Client sends commands over a link. It is not safe for concurrent use:
// replies carry no correlation, so commands must be issued one at a time.
type Client struct {
	link    *transport.Stream
	timeout time.Duration
	baud    int
}

// New creates a client over rw.
func New(rw io.ReadWriter) *Client {
	return &Client{
		link:    transport.NewStream(rw),
		timeout: DefaultReplyTimeout,
	}
}

// Dial opens the serial device and returns a client on it.
func Dial(device string, baud int) (*Client, error) {
	s, err := transport.OpenSerial(device, baud)
	if err != nil {
		return nil, err
	}
	return &Client{link: s, timeout: DefaultReplyTimeout, baud: baud}, nil
}

// SetReplyTimeout changes how long a reply is awaited.
func (c *Client) SetReplyTimeout(d time.Duration) {
	c.timeout = d
}

// SetBaudRate sets the link speed Upload uses to allow for the payload
// still draining from the tty queue. Zero means no allowance.
func (c *Client) SetBaudRate(baud int) {
	c.baud = baud
}

// uploadTimeout is the reply timeout plus the wire time of size bytes.
func (c *Client) uploadTimeout(size int) time.Duration {
	if c.baud <= 0 {
		return c.timeout
	}
	seconds := float64(size) * bitsPerByte / float64(c.baud)
	return c.timeout + time.Duration(seconds*float64(time.Second))
}

// Close closes the link.
func (c *Client) Close() error {
	return c.link.Close()
}

// Send writes a command line without waiting for a reply.
func (c *Client) Send(cmd protocol.Command) error {
	if err := c.link.WriteLine(cmd.Line()); err != nil {
		return fmt.Errorf("send %s: %w", commandName(cmd), err)
	}
	return nil
}

func (c *Client) readReply() (string, error) {
	return c.readReplyWithin(c.timeout)
}

func (c *Client) readReplyWithin(d time.Duration) (string, error) {
	line, err := c.link.ReadLineWithin(d)
	if err != nil {
		return "", fmt.Errorf("read reply: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Ping checks that the endpoint is alive.
func (c *Client) Ping() error {
	if err := c.Send(protocol.Ping{}); err != nil {
		return err
	}
	reply, err := c.readReply()
	if err != nil {
		return err
	}
	if reply != protocol.ReplyAlive {
		return &UnexpectedReplyError{Want: protocol.ReplyAlive, Got: reply}
	}
	return nil
}

// Upload sends data as name and waits for the acknowledgement. The ack
// confirms the endpoint finished reading, not that every byte was stored.
// The wait covers the payload's wire time when the baud rate is known.
func (c *Client) Upload(name string, data []byte) error {
	header := protocol.Upload{Name: name, Size: int64(len(data))}.Line() + "\n"
	msg := make([]byte, 0, len(header)+len(data))
	msg = append(msg, header...)
	msg = append(msg, data...)
	if _, err := c.link.Write(msg); err != nil {
		return fmt.Errorf("send upload: %w", err)
	}

	reply, err := c.readReplyWithin(c.uploadTimeout(len(data)))
	if err != nil {
		return err
	}
	if want := protocol.AckLine(name); reply != want {
		return &UnexpectedReplyError{Want: want, Got: reply}
	}
	return nil
}

// List returns the artifact names stored on the endpoint.
func (c *Client) List() ([]string, error) {
	if err := c.Send(protocol.ListFiles{}); err != nil {
		return nil, err
	}
	reply, err := c.readReply()
	if err != nil {
		return nil, err
	}
	if msg, ok := strings.CutPrefix(reply, protocol.ReplyErrorPrefix); ok {
		return nil, &ReplyError{Message: msg}
	}

	var names []string
	if err := json.Unmarshal([]byte(reply), &names); err != nil {
		return nil, &UnexpectedReplyError{Want: "JSON file list", Got: reply}
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// Delete removes an artifact. The endpoint does not reply.
func (c *Client) Delete(name string) error {
	return c.Send(protocol.Delete{Name: name})
}

// RunLED starts the LED player on an artifact. The endpoint does not reply.
func (c *Client) RunLED(name string) error {
	return c.Send(protocol.RunLED{Name: name})
}

// RunRGB sets a solid color. The endpoint does not reply.
func (c *Client) RunRGB(r, g, b int) error {
	return c.Send(protocol.RunRGB{R: r, G: g, B: b})
}

// RunPlaylist sends a playlist and starts it. The command and the payload
// go out in one write so the payload is already queued when the endpoint
// looks for it.
func (c *Client) RunPlaylist(name string, payload []byte) error {
	var compact bytes.Buffer
	if err := json.Compact(&compact, bytes.TrimSpace(payload)); err != nil {
		return fmt.Errorf("playlist payload: %w", err)
	}
	msg := protocol.RunPlaylist{ListName: name}.Line() + "\n" + compact.String() + "\n"
	if _, err := c.link.Write([]byte(msg)); err != nil {
		return fmt.Errorf("send playlist: %w", err)
	}
	return nil
}

func commandName(cmd protocol.Command) string {
	line := cmd.Line()
	if i := strings.IndexByte(line, ':'); i >= 0 {
		return line[:i]
	}
	return line
}
