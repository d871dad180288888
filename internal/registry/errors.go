package registry

import (
	"errors"
	"fmt"
)

// NotFoundError indicates the named file does not exist in the store.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file %s not found", e.Name)
}

// IsNotFound reports whether err indicates a missing file.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// InvalidNameError indicates a name that cannot address a file in a flat
// directory.
type InvalidNameError struct {
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid file name %q: %s", e.Name, e.Reason)
}

// IsInvalidName reports whether err indicates an unusable file name.
func IsInvalidName(err error) bool {
	var in *InvalidNameError
	return errors.As(err, &in)
}
