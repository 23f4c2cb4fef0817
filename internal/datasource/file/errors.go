package file

import "errors"

// ErrIsDir is returned when the source path names a directory.
var ErrIsDir = errors.New("is a directory")
