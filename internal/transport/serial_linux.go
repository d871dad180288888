//go:build linux

package transport

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

var baudRates = map[int]uint32{
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
	230400: unix.B230400,
	460800: unix.B460800,
	921600: unix.B921600,
}

// OpenSerial opens a tty in raw 8N1 mode at the given baud rate and
// discards any input queued before the open.
//
// The device is opened non-blocking so the runtime poller handles it;
// that is what makes read deadlines (and therefore ReadExact timeouts)
// work on the returned Stream.
func OpenSerial(device string, baud int) (*Stream, error) {
	speed, ok := baudRates[baud]
	if !ok {
		return nil, &Error{Op: OpConfigure, Err: fmt.Errorf("unsupported baud rate %d", baud)}
	}

	f, err := os.OpenFile(device, os.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, &Error{Op: OpOpen, Err: err}
	}

	// Fd() would switch the file back to blocking mode, so all ioctls go
	// through the raw conn.
	rc, err := f.SyscallConn()
	if err != nil {
		f.Close()
		return nil, &Error{Op: OpConfigure, Err: err}
	}

	var cfgErr error
	if err := rc.Control(func(fd uintptr) {
		cfgErr = configureRaw(int(fd), speed)
	}); err != nil {
		f.Close()
		return nil, &Error{Op: OpConfigure, Err: err}
	}
	if cfgErr != nil {
		f.Close()
		return nil, &Error{Op: OpConfigure, Err: fmt.Errorf("%s: %w", device, cfgErr)}
	}

	s := NewStream(f)
	s.SetPendingProbe(func() int {
		n := 0
		_ = rc.Control(func(fd uintptr) {
			n, _ = unix.IoctlGetInt(int(fd), unix.TIOCINQ)
		})
		return n
	})
	return s, nil
}

func configureRaw(fd int, speed uint32) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("get termios: %w", err)
	}

	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF | unix.IXANY
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.CSTOPB | unix.CBAUD
	t.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL | speed
	t.Ispeed = speed
	t.Ospeed = speed
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, t); err != nil {
		return fmt.Errorf("set termios: %w", err)
	}
	if err := unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIFLUSH); err != nil {
		return fmt.Errorf("flush input: %w", err)
	}
	return nil
}
