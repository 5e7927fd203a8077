package evaluator

import (
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/robbyt/go-dyneval/internal/helpers"
	"github.com/robbyt/go-dyneval/platform/data"
)

// execResult wraps the native Go value produced by one evaluation.
type execResult struct {
	value       any
	execTime    time.Duration
	scriptExeID string
	logHandler  slog.Handler
	logger      *slog.Logger
}

func newEvalResult(handler slog.Handler, value any, execTime time.Duration, versionID string) *execResult {
	handler, logger := helpers.SetupLogger(handler, "gonative", "execResult")

	return &execResult{
		value:       value,
		execTime:    execTime,
		scriptExeID: versionID,
		logHandler:  handler,
		logger:      logger,
	}
}

func (r *execResult) String() string {
	return fmt.Sprintf(
		"ExecResult{Type: %s, Value: %v, ExecTime: %s, ScriptExeID: %s}",
		r.Type(), r.value, r.GetExecTime(), r.GetScriptExeID())
}

// Type maps the result's native Go type onto the shared type taxonomy.
func (r *execResult) Type() data.Types {
	if r.value == nil {
		return data.NONE
	}
	if _, isErr := r.value.(error); isErr {
		return data.ERROR
	}

	t, known := kindToType(reflect.ValueOf(r.value))
	if !known {
		r.logger.Error("unknown result kind", "type", fmt.Sprintf("%T", r.value))
	}
	return t
}

// kindToType classifies a reflect value into the shared type taxonomy.
// Pointers are classified by what they point at.
func kindToType(v reflect.Value) (data.Types, bool) {
	switch v.Kind() {
	case reflect.Bool:
		return data.BOOL, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return data.INT, true
	case reflect.Float32, reflect.Float64:
		return data.FLOAT, true
	case reflect.String:
		return data.STRING, true
	case reflect.Slice, reflect.Array:
		return data.LIST, true
	case reflect.Map:
		return data.MAP, true
	case reflect.Func:
		return data.FUNCTION, true
	case reflect.Struct:
		return data.STRUCT, true
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return data.NONE, true
		}
		return kindToType(v.Elem())
	default:
		return data.ERROR, false
	}
}

func (r *execResult) GetScriptExeID() string {
	return r.scriptExeID
}

func (r *execResult) GetExecTime() string {
	return r.execTime.String()
}

func (r *execResult) Inspect() string {
	return fmt.Sprintf("%v", r.value)
}

// Interface returns the result as its native Go value.
func (r *execResult) Interface() any {
	return r.value
}
