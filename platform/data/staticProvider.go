package data

import (
	"context"
	"errors"
	"maps"
)

// ErrStaticProviderNoRuntimeUpdates is returned when attempting to add
// runtime data to a StaticProvider.
var ErrStaticProviderNoRuntimeUpdates = errors.New(
	"StaticProvider doesn't support adding data at runtime")

// StaticProvider returns a predefined map of data. Useful when the input
// data is known at evaluator-creation time and never changes between runs.
type StaticProvider struct {
	data map[string]any
}

// NewStaticProvider creates a new StaticProvider with the given data map.
func NewStaticProvider(data map[string]any) *StaticProvider {
	if data == nil {
		data = make(map[string]any)
	}
	return &StaticProvider{data: data}
}

// GetData returns a copy of the static data map, regardless of the context.
func (p *StaticProvider) GetData(_ context.Context) (map[string]any, error) {
	return maps.Clone(p.data), nil
}

// AddDataToContext always fails: static data is fixed at creation time.
func (p *StaticProvider) AddDataToContext(
	ctx context.Context,
	_ ...map[string]any,
) (context.Context, error) {
	return ctx, ErrStaticProviderNoRuntimeUpdates
}
