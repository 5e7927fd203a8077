package compiler

import "errors"

var (
	ErrContentNil         = errors.New("go source content is nil")
	ErrWrapFailed         = errors.New("unable to wrap go source into an evaluation unit")
	ErrResolveFailed      = errors.New("unable to resolve module context for compilation")
	ErrCompileFailed      = errors.New("go build reported errors")
	ErrToolchainMissing   = errors.New("go toolchain not found")
	ErrExecCreationFailed = errors.New("unable to create gonative executable")
)
