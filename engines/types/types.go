// Package types enumerates the evaluation engines this module provides.
package types

import "fmt"

// Type identifies an evaluation engine.
type Type string

const (
	// GoNative compiles Go source with the host toolchain into a plugin
	// artifact, loaded and executed in-process.
	GoNative Type = "gonative"

	// Starlark interprets Starlark source in-process.
	Starlark Type = "starlark"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// Validate returns an error if the type is not a known engine.
func (t Type) Validate() error {
	switch t {
	case GoNative, Starlark:
		return nil
	}
	return fmt.Errorf("invalid engine type: %q", string(t))
}
