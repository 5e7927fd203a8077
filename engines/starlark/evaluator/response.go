package evaluator

import (
	"fmt"
	"log/slog"
	"time"

	starlarkLib "go.starlark.net/starlark"

	"github.com/robbyt/go-dyneval/engines/starlark/internal"
	"github.com/robbyt/go-dyneval/internal/helpers"
	"github.com/robbyt/go-dyneval/platform/data"
)

// execResult wraps the Starlark value produced by one evaluation.
type execResult struct {
	starlarkLib.Value
	execTime    time.Duration
	scriptExeID string
	logHandler  slog.Handler
	logger      *slog.Logger
}

func newEvalResult(
	handler slog.Handler,
	value starlarkLib.Value,
	execTime time.Duration,
	versionID string,
) *execResult {
	handler, logger := helpers.SetupLogger(handler, "starlark", "execResult")

	if value == nil {
		value = starlarkLib.None
	}

	return &execResult{
		Value:       value,
		execTime:    execTime,
		scriptExeID: versionID,
		logHandler:  handler,
		logger:      logger,
	}
}

func (r *execResult) String() string {
	return fmt.Sprintf(
		"ExecResult{Type: %s, Value: %v, ExecTime: %s, ScriptExeID: %s}",
		r.Type(), r.Value, r.GetExecTime(), r.GetScriptExeID())
}

// Type maps Starlark types onto the shared type taxonomy.
func (r *execResult) Type() data.Types {
	switch r.Value.Type() {
	case "NoneType":
		return data.NONE
	case "bool":
		return data.BOOL
	case "int":
		return data.INT
	case "float":
		return data.FLOAT
	case "string":
		return data.STRING
	case "list":
		return data.LIST
	case "tuple":
		return data.TUPLE
	case "dict":
		return data.MAP
	case "set":
		return data.SET
	case "function", "builtin_function_or_method":
		return data.FUNCTION
	default:
		r.logger.Error("unknown starlark type", "type", r.Value.Type())
		return data.ERROR
	}
}

func (r *execResult) GetScriptExeID() string {
	return r.scriptExeID
}

func (r *execResult) GetExecTime() string {
	return r.execTime.String()
}

func (r *execResult) Inspect() string {
	return r.Value.String()
}

// Interface returns the result as a native Go value.
func (r *execResult) Interface() any {
	v, err := internal.FromStarlarkValue(r.Value)
	if err != nil {
		r.logger.Error("failed to convert starlark value", "error", err)
		return nil
	}
	return v
}
