package builder

import "errors"

var (
	ErrInvalidProjectRoot = errors.New("project directory doesn't exist or is not a directory")
	ErrNoSourcesFound     = errors.New("no source files found")
	ErrCompileFailure     = errors.New("compilation failed")
	ErrNothingToLink      = errors.New("no object files to link")
	ErrLinkFailure        = errors.New("linking failed")
	ErrExecutableNotFound = errors.New("executable not found")
)
