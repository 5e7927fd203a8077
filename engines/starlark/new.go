// Package starlark evaluates Starlark scripts in-process, as a lightweight
// interpreter alternative to the compile-and-load gonative engine.
package starlark

import (
	"fmt"
	"log/slog"

	"github.com/robbyt/go-dyneval/engines/starlark/compiler"
	"github.com/robbyt/go-dyneval/engines/starlark/evaluator"
	"github.com/robbyt/go-dyneval/platform/constants"
	"github.com/robbyt/go-dyneval/platform/data"
	"github.com/robbyt/go-dyneval/platform/script"
	"github.com/robbyt/go-dyneval/platform/script/loader"
)

// FromStarlarkLoader creates a Starlark evaluator from a loader with
// dynamic data only (ContextProvider).
func FromStarlarkLoader(
	logHandler slog.Handler,
	ldr loader.Loader,
) (*evaluator.Evaluator, error) {
	return NewEvaluator(
		logHandler,
		ldr,
		data.NewContextProvider(constants.EvalData),
	)
}

// FromStarlarkLoaderWithData creates a Starlark evaluator with both static
// and dynamic data capabilities. To add runtime data, use the
// AddDataToContext method on the evaluator to enrich the context.
func FromStarlarkLoaderWithData(
	logHandler slog.Handler,
	ldr loader.Loader,
	staticData map[string]any,
) (*evaluator.Evaluator, error) {
	staticProvider := data.NewStaticProvider(staticData)
	dynamicProvider := data.NewContextProvider(constants.EvalData)
	compositeProvider := data.NewCompositeProvider(staticProvider, dynamicProvider)

	return NewEvaluator(
		logHandler,
		ldr,
		compositeProvider,
	)
}

// NewCompiler creates a new Starlark compiler using the functional options
// pattern.
func NewCompiler(opts ...compiler.FunctionalOption) (*compiler.Compiler, error) {
	return compiler.New(opts...)
}

// NewEvaluator creates a Starlark evaluator with bytecode compiled and
// ready for execution.
func NewEvaluator(
	logHandler slog.Handler,
	ldr loader.Loader,
	dataProvider data.Provider,
) (*evaluator.Evaluator, error) {
	if dataProvider == nil {
		return nil, fmt.Errorf("provider is nil")
	}

	opts := []compiler.FunctionalOption{compiler.WithCtxGlobal()}
	if logHandler != nil {
		opts = append(opts, compiler.WithLogHandler(logHandler))
	}

	comp, err := NewCompiler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create starlark compiler: %w", err)
	}

	execUnitID := ""
	if sourceURL := ldr.GetSourceURL(); sourceURL != nil {
		execUnitID = sourceURL.String()
	}

	execUnit, err := script.NewExecutableUnit(
		logHandler,
		execUnitID,
		ldr,
		comp,
		dataProvider,
	)
	if err != nil {
		return nil, err
	}

	return evaluator.New(logHandler, execUnit), nil
}
