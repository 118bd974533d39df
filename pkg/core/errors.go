package core

import (
	"errors"
	"io/fs"
)

// Cause strips the op/path decoration from a path error so messages that
// already name the path do not repeat it.
func Cause(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
