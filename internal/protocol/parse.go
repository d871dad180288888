package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FormatError indicates a line that starts like a command but is malformed.
type FormatError struct {
	Line   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed command %q: %s: %v", e.Line, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed command %q: %s", e.Line, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsFormatError reports whether err indicates a malformed command line.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// Parse classifies one trimmed, non-empty line. Lines that match no command
// yield Unknown; only malformed arguments of a recognized command are errors.
func Parse(line string) (Command, error) {
	switch {
	case line == LinePing:
		return Ping{}, nil
	case strings.HasPrefix(line, PrefixUpload):
		return parseUpload(line)
	case strings.HasPrefix(line, PrefixDelete):
		return Delete{Name: after(line, PrefixDelete)}, nil
	case line == LineListFiles:
		return ListFiles{}, nil
	case strings.HasPrefix(line, PrefixRunLED):
		return RunLED{Name: after(line, PrefixRunLED)}, nil
	case strings.HasPrefix(line, PrefixRunRGB):
		return parseRunRGB(line)
	case strings.HasPrefix(line, PrefixRunPlaylist):
		return RunPlaylist{ListName: after(line, PrefixRunPlaylist)}, nil
	case strings.HasPrefix(line, PrefixPass):
		return Pass{Text: after(line, PrefixPass)}, nil
	default:
		return Unknown{Raw: line}, nil
	}
}

// after returns the trimmed text following the first occurrence of prefix.
func after(line, prefix string) string {
	_, rest, _ := strings.Cut(line, prefix)
	return strings.TrimSpace(rest)
}

func parseUpload(line string) (Command, error) {
	parts := strings.Split(line, ":")
	if len(parts) < 3 {
		return nil, &FormatError{Line: line, Reason: "expected UPLOAD:<name>:<size>"}
	}

	size, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
	if err != nil {
		return nil, &FormatError{Line: line, Reason: "invalid size", Err: err}
	}
	if size < 0 {
		return nil, &FormatError{Line: line, Reason: "negative size"}
	}

	return Upload{Name: strings.TrimSpace(parts[1]), Size: size}, nil
}

func parseRunRGB(line string) (Command, error) {
	fields := strings.Split(after(line, PrefixRunRGB), ",")
	if len(fields) != 3 {
		return nil, &FormatError{Line: line, Reason: "expected three comma-separated values"}
	}

	var vals [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, &FormatError{Line: line, Reason: "invalid color value", Err: err}
		}
		vals[i] = v
	}

	g, r, b := vals[0], vals[1], vals[2]
	return RunRGB{R: r, G: g, B: b}, nil
}
