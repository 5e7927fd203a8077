// Package dyneval evaluates source code at runtime and returns the result
// as a typed Go value. Its primary use case is application configuration
// expressed as executable code rather than a static data format.
//
// The gonative engine wraps a Go snippet into a self-contained unit,
// compiles it with the host toolchain into a plugin artifact, loads the
// artifact into the running process, and executes it. A Starlark engine is
// also provided for sandbox-free in-process interpretation.
package dyneval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-dyneval/engines/gonative"
	gonativeCompiler "github.com/robbyt/go-dyneval/engines/gonative/compiler"
	"github.com/robbyt/go-dyneval/engines/starlark"
	"github.com/robbyt/go-dyneval/platform"
	"github.com/robbyt/go-dyneval/platform/constants"
	"github.com/robbyt/go-dyneval/platform/data"
	"github.com/robbyt/go-dyneval/platform/script/loader"
)

// ErrTypeMismatch is returned by EvalAs when the evaluated result's runtime
// type does not match the requested type. It is distinct from evaluation
// failures so callers can tell "my config produced the wrong shape" apart
// from "my expression raised".
var ErrTypeMismatch = errors.New("result type mismatch")

// FromGoString creates a gonative evaluator from a Go snippet. The snippet
// is compiled immediately; the returned evaluator can run it any number of
// times. Compiler options configure artifact retention, the workspace root,
// and the build timeout.
func FromGoString(
	content string,
	logHandler slog.Handler,
	compilerOpts ...gonativeCompiler.FunctionalOption,
) (platform.Evaluator, error) {
	l, err := loader.NewFromString(content)
	if err != nil {
		return nil, err
	}
	return gonative.NewEvaluator(
		logHandler,
		l,
		defaultProvider(),
		compilerOpts...,
	)
}

// FromGoFile creates a gonative evaluator from a Go source file.
// Equivalent to reading the file and passing its content to FromGoString.
func FromGoFile(
	path string,
	logHandler slog.Handler,
	compilerOpts ...gonativeCompiler.FunctionalOption,
) (platform.Evaluator, error) {
	l, err := loader.NewFromDisk(path)
	if err != nil {
		return nil, err
	}
	return gonative.NewEvaluator(
		logHandler,
		l,
		defaultProvider(),
		compilerOpts...,
	)
}

// FromGoStringWithData creates a gonative evaluator with static data made
// available to the snippet through its Ctx variable.
func FromGoStringWithData(
	content string,
	logHandler slog.Handler,
	staticData map[string]any,
) (platform.Evaluator, error) {
	l, err := loader.NewFromString(content)
	if err != nil {
		return nil, err
	}
	return gonative.FromGoLoaderWithData(logHandler, l, staticData)
}

// FromStarlarkString creates a Starlark evaluator from a script string.
func FromStarlarkString(content string, logHandler slog.Handler) (platform.Evaluator, error) {
	l, err := loader.NewFromString(content)
	if err != nil {
		return nil, err
	}
	return starlark.FromStarlarkLoader(logHandler, l)
}

// FromStarlarkFile creates a Starlark evaluator from a script file.
func FromStarlarkFile(path string, logHandler slog.Handler) (platform.Evaluator, error) {
	l, err := loader.NewFromDisk(path)
	if err != nil {
		return nil, err
	}
	return starlark.FromStarlarkLoader(logHandler, l)
}

// FromStarlarkStringWithData creates a Starlark evaluator with static data
// made available to the script through its ctx global.
func FromStarlarkStringWithData(
	content string,
	logHandler slog.Handler,
	staticData map[string]any,
) (platform.Evaluator, error) {
	l, err := loader.NewFromString(content)
	if err != nil {
		return nil, err
	}
	return starlark.FromStarlarkLoaderWithData(logHandler, l, staticData)
}

// EvalAs runs the evaluator and casts the result to T. A nil result yields
// T's zero value; any other result whose runtime type is not T returns
// ErrTypeMismatch naming both types.
func EvalAs[T any](ctx context.Context, evaluator platform.Evaluator) (T, error) {
	var zero T

	response, err := evaluator.Eval(ctx)
	if err != nil {
		return zero, err
	}

	value := response.Interface()
	if value == nil {
		return zero, nil
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("%w: have %T, want %T", ErrTypeMismatch, value, zero)
	}
	return typed, nil
}

// defaultProvider wires the context-keyed dynamic data provider used when
// no static data is supplied.
func defaultProvider() data.Provider {
	return data.NewContextProvider(constants.EvalData)
}
