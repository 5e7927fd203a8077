package script

import (
	engineTypes "github.com/robbyt/go-dyneval/engines/types"
)

// ExecutableContent represents validated source that is ready for execution.
// It provides access to the original source and the engine-specific compiled
// form: in-memory bytecode for interpreter engines, or a built plugin
// artifact for the gonative engine.
type ExecutableContent interface {
	// GetSource returns the original source content as a string, before
	// any wrapping or compilation.
	GetSource() string

	// GetByteCode returns the compiled form in an engine-specific format.
	// The evaluator for the matching engine type asserts it back into the
	// concrete type it requires; a mismatched engine fails at runtime.
	GetByteCode() any

	// GetMachineType returns the engine type this content runs on.
	GetMachineType() engineTypes.Type
}
