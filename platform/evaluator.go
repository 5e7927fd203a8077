// Package platform defines the engine-agnostic interfaces of the evaluation
// pipeline: evaluators, their responses, and the data flow into a run.
package platform

import (
	"context"

	"github.com/robbyt/go-dyneval/platform/data"
)

// EvaluatorResponse wraps the value produced by one evaluation.
type EvaluatorResponse interface {
	// Type reports the runtime type of the result.
	Type() data.Types

	// Inspect returns a string representation of the result.
	Inspect() string

	// Interface converts the result to a native Go value.
	Interface() any

	// GetScriptExeID returns the ID of the executable unit that produced
	// the result.
	GetScriptExeID() string

	// GetExecTime returns how long the evaluation took.
	GetExecTime() string
}

// EvalOnly is the interface for the generic code evaluator.
type EvalOnly interface {
	// Eval executes the pre-compiled unit with data from the context.
	// The source and its configuration were provided during evaluator
	// creation; runtime data is retrieved through the ExecutableUnit's
	// DataProvider. Compilation (expensive) happens once, at creation;
	// Eval (inexpensive) may run many times.
	Eval(ctx context.Context) (EvaluatorResponse, error)
}

// Evaluator combines EvalOnly with data preparation, providing a unified
// API for loading runtime data and evaluating code against it.
type Evaluator interface {
	EvalOnly
	data.Setter
}
