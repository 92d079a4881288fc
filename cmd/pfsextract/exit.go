package main

import (
	"errors"

	"github.com/samcharles93/pfsextract/internal/input"
	"github.com/samcharles93/pfsextract/internal/sink"
)

// Process exit codes.
const (
	exitOK          = 0
	exitUsage       = 1
	exitOpenInput   = 2
	exitAlloc       = 3
	exitShortRead   = 4
	exitCreateDir   = 5
	exitOpenDirRoot = 6
)

var errUsage = errors.New("usage: pfsextract <pfs_file>")

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// exitCode maps an error returned by a command to the process exit status.
// Parse failures share the usage status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var dirErr *sink.DirError
	switch {
	case errors.Is(err, input.ErrOpen):
		return exitOpenInput
	case errors.Is(err, input.ErrTooLarge):
		return exitAlloc
	case errors.Is(err, input.ErrShortRead):
		return exitShortRead
	case errors.As(err, &dirErr):
		if dirErr.Op == "create" {
			return exitCreateDir
		}
		return exitOpenDirRoot
	}
	return exitUsage
}
