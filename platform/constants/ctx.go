// Package constants holds shared keys used to move evaluation data through
// context objects and into running scripts.
package constants

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// EvalData is the key used to store evaluation data in the context.
	// Add data with an evaluator's AddDataToContext, read it with ctx.Value().
	EvalData ContextKey = "eval_data"

	// Ctx is the top-scope variable name scripts use to access input data.
	// Interpreter engines expose it lowercase; the gonative engine exports
	// it as a capitalized symbol so the plugin runtime can resolve it.
	Ctx = "ctx"
)
