// Package gonative evaluates Go source at runtime: a snippet is wrapped
// into a self-contained unit, compiled into a plugin artifact with the host
// toolchain, loaded into the running process, and executed.
package gonative

import (
	"fmt"
	"log/slog"

	"github.com/robbyt/go-dyneval/engines/gonative/compiler"
	"github.com/robbyt/go-dyneval/engines/gonative/evaluator"
	"github.com/robbyt/go-dyneval/platform/constants"
	"github.com/robbyt/go-dyneval/platform/data"
	"github.com/robbyt/go-dyneval/platform/script"
	"github.com/robbyt/go-dyneval/platform/script/loader"
)

// FromGoLoader creates a gonative evaluator from a loader with dynamic data
// only (ContextProvider).
//
// Input parameters:
// - logHandler: logger handler for logging
// - ldr: loader implementation for loading the Go source content
//
// Returns an evaluator, which implements the platform.Evaluator interface.
func FromGoLoader(
	logHandler slog.Handler,
	ldr loader.Loader,
) (*evaluator.Evaluator, error) {
	return NewEvaluator(
		logHandler,
		ldr,
		data.NewContextProvider(constants.EvalData),
	)
}

// FromGoLoaderWithData creates a gonative evaluator with both static and
// dynamic data capabilities. To add runtime data, use the AddDataToContext
// method on the evaluator to enrich the context.
//
// Input parameters:
// - logHandler: logger handler for logging
// - ldr: loader implementation for loading the Go source content
// - staticData: map of initial static data passed to the snippet's Ctx
//
// Returns an evaluator, which implements the platform.Evaluator interface.
func FromGoLoaderWithData(
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

// NewCompiler creates a new gonative compiler using the functional options
// pattern. Returns a compiler implementing the script.Compiler interface.
func NewCompiler(opts ...compiler.FunctionalOption) (*compiler.Compiler, error) {
	return compiler.New(opts...)
}

// NewEvaluator builds and compiles the source with the host toolchain, and
// returns an evaluator ready for execution. Compiler options configure
// artifact retention, the workspace root, and the build timeout.
func NewEvaluator(
	logHandler slog.Handler,
	ldr loader.Loader,
	dataProvider data.Provider,
	compilerOpts ...compiler.FunctionalOption,
) (*evaluator.Evaluator, error) {
	if dataProvider == nil {
		return nil, fmt.Errorf("provider is nil")
	}

	var allOpts []compiler.FunctionalOption
	if logHandler != nil {
		allOpts = append(allOpts, compiler.WithLogHandler(logHandler))
	}
	allOpts = append(allOpts, compilerOpts...)

	comp, err := NewCompiler(allOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gonative compiler: %w", err)
	}

	execUnitID := ""
	if sourceURL := ldr.GetSourceURL(); sourceURL != nil {
		execUnitID = sourceURL.String()
	}

	// compiles the source and builds the plugin artifact
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
