// Package transport provides the duplex line/byte link to the peer controller.
package transport

import (
	"bufio"
	"io"
	"strings"
	"sync"
	"time"
)

// deadliner is implemented by links that support read timeouts
// (*os.File for pollable ttys, net.Conn).
type deadliner interface {
	SetReadDeadline(t time.Time) error
}

// Stream is a line-oriented view over a byte link. Reads go through a
// single buffered reader so that text lines and raw payload bytes are
// consumed from the same position.
type Stream struct {
	rw          io.ReadWriter
	r           *bufio.Reader
	readTimeout time.Duration
	pending     func() int

	wmu sync.Mutex
}

// NewStream wraps rw. Without a read timeout, ReadExact only stops early
// at end of stream.
func NewStream(rw io.ReadWriter) *Stream {
	return &Stream{
		rw: rw,
		r:  bufio.NewReader(rw),
	}
}

// SetReadTimeout sets how long a single ReadExact pull may wait for data.
// Zero disables the timeout. Has no effect when the link has no deadlines.
func (s *Stream) SetReadTimeout(d time.Duration) {
	s.readTimeout = d
}

// SetPendingProbe installs a non-blocking probe reporting how many bytes
// are queued below the buffered reader (e.g. the kernel tty input queue).
func (s *Stream) SetPendingProbe(fn func() int) {
	s.pending = fn
}

// ReadLine blocks until a full line arrives and returns it without the
// terminator. Invalid UTF-8 is replaced with U+FFFD. A final unterminated
// line is returned before end of stream is reported.
func (s *Stream) ReadLine() (string, error) {
	line, err := s.r.ReadString('\n')
	if err != nil {
		if line != "" && isIdle(err) {
			return decodeLine(line), nil
		}
		return "", &Error{Op: OpReadLine, Err: err}
	}
	return decodeLine(line), nil
}

// ReadLineWithin is ReadLine bounded by d.
func (s *Stream) ReadLineWithin(d time.Duration) (string, error) {
	dl, ok := s.rw.(deadliner)
	if !ok || d <= 0 {
		return s.ReadLine()
	}
	if err := dl.SetReadDeadline(time.Now().Add(d)); err != nil {
		return "", &Error{Op: OpReadLine, Err: err}
	}
	defer dl.SetReadDeadline(time.Time{})

	line, err := s.r.ReadString('\n')
	if err != nil {
		return "", &Error{Op: OpReadLine, Err: err}
	}
	return decodeLine(line), nil
}

// ReadExact pulls up to n bytes. It returns fewer than n bytes, with a nil
// error, when the stream ends or stays idle past the read timeout.
func (s *Stream) ReadExact(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	if dl, ok := s.rw.(deadliner); ok && s.readTimeout > 0 {
		if err := dl.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
			return nil, &Error{Op: OpRead, Err: err}
		}
		defer dl.SetReadDeadline(time.Time{})
	}

	buf := make([]byte, n)
	got := 0
	for got < n {
		m, err := s.r.Read(buf[got:])
		got += m
		if err != nil {
			if isIdle(err) {
				break
			}
			return buf[:got], &Error{Op: OpRead, Err: err}
		}
		if m == 0 {
			break
		}
	}
	return buf[:got], nil
}

// HasPendingData reports, without blocking, whether unread input is
// already available.
func (s *Stream) HasPendingData() bool {
	if s.r.Buffered() > 0 {
		return true
	}
	return s.pending != nil && s.pending() > 0
}

// Write sends raw bytes.
func (s *Stream) Write(p []byte) (int, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	n, err := s.rw.Write(p)
	if err != nil {
		return n, &Error{Op: OpWrite, Err: err}
	}
	return n, nil
}

// WriteLine sends text followed by a newline in a single write.
func (s *Stream) WriteLine(text string) error {
	_, err := s.Write([]byte(text + "\n"))
	return err
}

// Close closes the underlying link if it is closable. Closing unblocks a
// pending ReadLine on ttys and net connections.
func (s *Stream) Close() error {
	if c, ok := s.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func decodeLine(line string) string {
	line = strings.TrimRight(line, "\r\n")
	return strings.ToValidUTF8(line, "\uFFFD")
}
