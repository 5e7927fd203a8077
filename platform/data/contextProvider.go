package data

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/robbyt/go-dyneval/platform/constants"
)

// ErrContextKeyEmpty is returned when a ContextProvider was created with an
// empty context key.
var ErrContextKeyEmpty = errors.New("context key is empty")

// ContextProvider retrieves and stores evaluation data in the context under
// a configured key.
type ContextProvider struct {
	contextKey constants.ContextKey
}

// NewContextProvider creates a new ContextProvider with the given context
// key. The key determines where data is stored in the context object.
func NewContextProvider(contextKey constants.ContextKey) *ContextProvider {
	return &ContextProvider{contextKey: contextKey}
}

// GetData extracts the data map from the context using the configured key.
// A context without a stored value yields an empty map, not an error.
func (p *ContextProvider) GetData(ctx context.Context) (map[string]any, error) {
	if p.contextKey == "" {
		return nil, ErrContextKeyEmpty
	}

	value := ctx.Value(p.contextKey)
	if value == nil {
		return make(map[string]any), nil
	}

	d, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid input data type: expected map[string]any, got %T", value)
	}

	return d, nil
}

// AddDataToContext merges the provided maps into the data already stored in
// the context, and returns a new context holding the merged result. Nested
// maps are merged recursively; later values override earlier ones for
// duplicate keys.
func (p *ContextProvider) AddDataToContext(
	ctx context.Context,
	data ...map[string]any,
) (context.Context, error) {
	if p.contextKey == "" {
		return ctx, ErrContextKeyEmpty
	}

	merged := make(map[string]any)
	if existing, ok := ctx.Value(p.contextKey).(map[string]any); ok {
		merged = maps.Clone(existing)
	}

	for _, d := range data {
		if d == nil {
			continue
		}
		merged = deepMerge(merged, d)
	}

	return context.WithValue(ctx, p.contextKey, merged), nil
}
