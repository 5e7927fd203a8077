package compiler

import (
	starlarkLib "go.starlark.net/starlark"

	engineTypes "github.com/robbyt/go-dyneval/engines/types"
)

// Executable represents a compiled Starlark script.
type Executable struct {
	sourceBytes []byte
	program     *starlarkLib.Program
}

func newExecutable(sourceBytes []byte, program *starlarkLib.Program) *Executable {
	if len(sourceBytes) == 0 || program == nil {
		return nil
	}
	return &Executable{
		sourceBytes: sourceBytes,
		program:     program,
	}
}

// GetSource returns the original script content.
func (e *Executable) GetSource() string {
	return string(e.sourceBytes)
}

// GetByteCode returns the compiled program as an opaque value.
func (e *Executable) GetByteCode() any {
	return e.program
}

// GetStarlarkProgram returns the compiled program with its concrete type.
func (e *Executable) GetStarlarkProgram() *starlarkLib.Program {
	return e.program
}

// GetMachineType returns the engine type for this content.
func (e *Executable) GetMachineType() engineTypes.Type {
	return engineTypes.Starlark
}
