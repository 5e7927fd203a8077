// Package evaluator loads a built plugin artifact and executes its
// generated producer function.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"plugin"
	"sync"
	"time"

	gonativeCompiler "github.com/robbyt/go-dyneval/engines/gonative/compiler"
	"github.com/robbyt/go-dyneval/internal/helpers"
	"github.com/robbyt/go-dyneval/platform"
	"github.com/robbyt/go-dyneval/platform/data"
	"github.com/robbyt/go-dyneval/platform/script"
)

// Evaluator executes a compiled gonative unit. The plugin is opened lazily
// on the first Eval call and shares the host's type namespace: symbols in
// the generated unit resolve against everything the running process links,
// while the unique plugin path keeps the unit itself scoped.
type Evaluator struct {
	execUnit *script.ExecutableUnit

	loadOnce sync.Once
	loadErr  error
	evalFn   func() any
	ctxSlot  *map[string]any

	// serializes data injection and invocation, since the Ctx slot is a
	// single package-level variable in the loaded unit
	runMu sync.Mutex

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a new Evaluator for a compiled gonative unit.
func New(handler slog.Handler, execUnit *script.ExecutableUnit) *Evaluator {
	handler, logger := helpers.SetupLogger(handler, "gonative", "Evaluator")

	return &Evaluator{
		execUnit:   execUnit,
		logHandler: handler,
		logger:     logger,
	}
}

func (be *Evaluator) String() string {
	return "gonative.Evaluator"
}

// load opens the plugin and resolves the generated symbols, exactly once.
// On success the backing workspace is released; on failure it is kept so
// the generated source can be inspected.
func (be *Evaluator) load(artifact *gonativeCompiler.Artifact) error {
	be.loadOnce.Do(func() {
		plg, err := plugin.Open(artifact.Path)
		if err != nil {
			be.loadErr = fmt.Errorf("%w: opening %s: %w", ErrLoadFailed, artifact.Path, err)
			return
		}

		sym, err := plg.Lookup(gonativeCompiler.EvalFuncName)
		if err != nil {
			be.loadErr = fmt.Errorf("%w: %w", ErrLoadFailed, err)
			return
		}
		fn, ok := sym.(func() any)
		if !ok {
			be.loadErr = fmt.Errorf("%w: symbol %s has type %T, want func() any",
				ErrLoadFailed, gonativeCompiler.EvalFuncName, sym)
			return
		}
		be.evalFn = fn

		// the data slot is optional; wrap always declares it, but a unit
		// built elsewhere may omit it
		if ctxSym, err := plg.Lookup(gonativeCompiler.CtxVarName); err == nil {
			if slot, ok := ctxSym.(*map[string]any); ok {
				be.ctxSlot = slot
			}
		}

		artifact.Release()
	})
	return be.loadErr
}

// loadInputData retrieves input data using the unit's data provider.
func (be *Evaluator) loadInputData(ctx context.Context) (map[string]any, error) {
	logger := be.logger.WithGroup("loadInputData")

	if be.execUnit == nil || be.execUnit.GetDataProvider() == nil {
		logger.WarnContext(ctx, "no data provider available, using empty data")
		return make(map[string]any), nil
	}

	inputData, err := be.execUnit.GetDataProvider().GetData(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get input data from provider", "error", err)
		return nil, err
	}

	logger.DebugContext(ctx, "input data loaded from provider", "keys", len(inputData))
	return inputData, nil
}

// invoke runs the generated producer, converting a panic raised by the
// evaluated code into an error at the library boundary.
func (be *Evaluator) invoke() (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrEvaluationFailed, r)
		}
	}()
	return be.evalFn(), nil
}

// Eval loads the compiled plugin (first call only), injects runtime data,
// and executes the generated producer function.
func (be *Evaluator) Eval(ctx context.Context) (platform.EvaluatorResponse, error) {
	logger := be.logger.WithGroup("Eval")
	if be.execUnit == nil {
		return nil, fmt.Errorf("executable unit is nil")
	}
	if be.execUnit.GetContent() == nil {
		return nil, fmt.Errorf("content is nil")
	}

	exeID := be.execUnit.GetID()
	if exeID == "" {
		return nil, fmt.Errorf("exeID is empty")
	}
	logger = logger.With("exeID", exeID)

	bytecode := be.execUnit.GetContent().GetByteCode()
	artifact, ok := bytecode.(*gonativeCompiler.Artifact)
	if !ok {
		return nil, fmt.Errorf("%w: got %T for ID: %s", ErrBytecodeType, bytecode, exeID)
	}

	if err := be.load(artifact); err != nil {
		return nil, err
	}

	rawInputData, err := be.loadInputData(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get input data: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// the invocation itself is synchronous and cannot be cancelled
	be.runMu.Lock()
	if be.ctxSlot != nil {
		*be.ctxSlot = rawInputData
	}
	startTime := time.Now()
	result, err := be.invoke()
	execTime := time.Since(startTime)
	be.runMu.Unlock()

	if err != nil {
		return nil, err
	}
	logger.DebugContext(ctx, "exec complete", "execTime", execTime)

	response := newEvalResult(be.logHandler, result, execTime, exeID)

	// an error value returned by the snippet is the snippet's own failure,
	// surfaced distinctly from engine errors
	if errVal, ok := result.(error); ok {
		return response, fmt.Errorf("%w: %w", ErrEvaluationFailed, errVal)
	}

	return response, nil
}

// AddDataToContext implements the data.Setter interface, storing runtime
// data for a later Eval call.
func (be *Evaluator) AddDataToContext(
	ctx context.Context,
	d ...map[string]any,
) (context.Context, error) {
	logger := be.logger.WithGroup("AddDataToContext")

	if be.execUnit == nil || be.execUnit.GetDataProvider() == nil {
		return ctx, fmt.Errorf("no data provider available")
	}

	return data.AddDataToContextHelper(
		ctx,
		logger,
		be.execUnit.GetDataProvider(),
		d...,
	)
}
