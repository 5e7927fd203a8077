// Package evaluator executes compiled Starlark programs.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	starlarkLib "go.starlark.net/starlark"

	"github.com/robbyt/go-dyneval/engines/starlark/internal"
	"github.com/robbyt/go-dyneval/internal/helpers"
	"github.com/robbyt/go-dyneval/platform"
	"github.com/robbyt/go-dyneval/platform/constants"
	"github.com/robbyt/go-dyneval/platform/data"
	"github.com/robbyt/go-dyneval/platform/script"
)

// Evaluator runs compiled Starlark bytecode with input data from the unit's
// data provider.
type Evaluator struct {
	// ctxKey is the variable name scripts use to access input data
	ctxKey string

	execUnit *script.ExecutableUnit

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a new Evaluator for a compiled Starlark unit.
func New(handler slog.Handler, execUnit *script.ExecutableUnit) *Evaluator {
	handler, logger := helpers.SetupLogger(handler, "starlark", "Evaluator")

	return &Evaluator{
		ctxKey:     constants.Ctx,
		execUnit:   execUnit,
		logHandler: handler,
		logger:     logger,
	}
}

func (be *Evaluator) String() string {
	return "starlark.Evaluator"
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

// exec runs the program with the given predeclared globals. The result is
// the script's final expression value ("_"), falling back to a variable
// named "result".
func (be *Evaluator) exec(
	ctx context.Context,
	program *starlarkLib.Program,
	predeclared starlarkLib.StringDict,
) (*execResult, error) {
	logger := be.logger.WithGroup("exec")

	thread := &starlarkLib.Thread{
		Name: "eval",
		Print: func(thread *starlarkLib.Thread, msg string) {
			logger.InfoContext(ctx, msg, "starlark-thread", thread.Name)
		},
	}

	// cancel the thread when the context ends while the program runs
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel(ctx.Err().Error())
		case <-done:
		}
	}()

	startTime := time.Now()
	finalGlobals, err := program.Init(thread, predeclared)
	execTime := time.Since(startTime)

	if err != nil {
		return nil, fmt.Errorf("starlark execution error: %w", err)
	}

	mainVal := finalGlobals["_"]
	if mainVal == nil || mainVal == starlarkLib.None {
		if resultVal, ok := finalGlobals["result"]; ok {
			mainVal = resultVal
		}
	}
	if mainVal == nil {
		mainVal = starlarkLib.None
	}

	return newEvalResult(be.logHandler, mainVal, execTime, ""), nil
}

// Eval evaluates the compiled program with data from the context.
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
	program, ok := bytecode.(*starlarkLib.Program)
	if !ok {
		return nil, fmt.Errorf(
			"unable to type assert bytecode into *starlark.Program for ID: %s", exeID)
	}

	rawInputData, err := be.loadInputData(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get input data: %w", err)
	}

	predeclared, err := internal.InputToStringDict(be.ctxKey, rawInputData)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare globals: %w", err)
	}

	result, err := be.exec(ctx, program, predeclared)
	if err != nil {
		return nil, fmt.Errorf("exec error: %w", err)
	}
	result.scriptExeID = exeID
	logger.DebugContext(ctx, "exec complete", "result", result)

	return result, nil
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
