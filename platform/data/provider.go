// Package data defines how runtime input data reaches an evaluation.
// Providers decouple where data lives (static maps, context values) from the
// engine that consumes it, enabling the "compile once, run many times"
// pattern: the compiled unit is fixed while each Eval call can carry
// different input data.
package data

import (
	"context"
)

// Getter retrieves evaluation input data from a context.
type Getter interface {
	GetData(ctx context.Context) (map[string]any, error)
}

// Setter prepares data for evaluation by enriching a context.
// Separating data preparation from evaluation lets the two steps run on
// different systems, or at different times.
type Setter interface {
	// AddDataToContext enriches a context with data for evaluation.
	// The variadic parameter accepts maps with string keys and arbitrary
	// values; later maps override earlier ones for duplicate keys.
	AddDataToContext(ctx context.Context, data ...map[string]any) (context.Context, error)
}

// Provider is the combined interface for accessing runtime data during
// evaluation.
type Provider interface {
	Getter
	Setter
}
