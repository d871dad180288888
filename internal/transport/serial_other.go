//go:build !linux

package transport

import "errors"

// OpenSerial is only implemented for Linux ttys.
func OpenSerial(device string, baud int) (*Stream, error) {
	return nil, &Error{Op: OpOpen, Err: errors.New("serial links are only supported on linux")}
}
