package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
)

// Op names the link operation that failed.
type Op string

const (
	OpOpen      Op = "open"
	OpConfigure Op = "configure"
	OpReadLine  Op = "read line"
	OpRead      Op = "read"
	OpWrite     Op = "write"
)

// Error indicates an I/O failure on the link itself.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("link %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err is a link-level I/O failure.
func IsTransportError(err error) bool {
	var te *Error
	return errors.As(err, &te)
}

// isIdle reports whether err means "no more data for now" rather than a
// broken link: end of stream or an expired read deadline.
func isIdle(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsTimeout reports whether err is a link read that hit its deadline.
func IsTimeout(err error) bool {
	var te *Error
	if !errors.As(err, &te) {
		return false
	}
	if errors.Is(te.Err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(te.Err, &ne) && ne.Timeout()
}
