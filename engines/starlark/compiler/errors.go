package compiler

import "errors"

var (
	ErrContentNil         = errors.New("starlark content is nil")
	ErrBytecodeNil        = errors.New("starlark bytecode is nil")
	ErrExecCreationFailed = errors.New("unable to create starlark executable")
	ErrValidationFailed   = errors.New("starlark script validation error")
)
