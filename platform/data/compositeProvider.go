package data

import (
	"context"
	"errors"
	"fmt"
	"maps"
)

// CompositeProvider combines multiple providers, with later providers
// overriding values from earlier ones in the chain.
type CompositeProvider struct {
	providers []Provider
}

// NewCompositeProvider creates a provider that queries the given providers
// in order.
func NewCompositeProvider(providers ...Provider) *CompositeProvider {
	return &CompositeProvider{providers: providers}
}

// GetData retrieves data from all providers and merges the results into a
// single map. Providers are queried in sequence, with later providers
// overriding values from earlier ones. Nested maps are merged deeply; other
// values are replaced entirely. Returns the first provider failure.
func (p *CompositeProvider) GetData(ctx context.Context) (map[string]any, error) {
	result := make(map[string]any)

	for i, provider := range p.providers {
		if provider == nil {
			continue
		}

		d, err := provider.GetData(ctx)
		if err != nil {
			return nil, fmt.Errorf("error from provider %d: %w", i, err)
		}

		result = deepMerge(result, d)
	}

	return result, nil
}

// AddDataToContext forwards the data to every provider that accepts runtime
// updates. Providers that reject updates (such as StaticProvider) are
// tolerated as long as at least one provider stores the data.
func (p *CompositeProvider) AddDataToContext(
	ctx context.Context,
	data ...map[string]any,
) (context.Context, error) {
	var errz []error
	stored := false
	currentCtx := ctx

	for _, provider := range p.providers {
		if provider == nil {
			continue
		}

		nextCtx, err := provider.AddDataToContext(currentCtx, data...)
		if err != nil {
			if errors.Is(err, ErrStaticProviderNoRuntimeUpdates) {
				continue
			}
			errz = append(errz, err)
			continue
		}
		currentCtx = nextCtx
		stored = true
	}

	if !stored && len(errz) > 0 {
		return ctx, fmt.Errorf("all providers failed to add data to context: %w", errors.Join(errz...))
	}

	return currentCtx, nil
}

// deepMerge recursively merges map[string]any values. Values from dst
// override those from src. Nested maps are merged rather than replaced;
// slices and scalar values are replaced entirely.
func deepMerge(src, dst map[string]any) map[string]any {
	result := maps.Clone(src)
	if result == nil {
		result = make(map[string]any)
	}

	for key, dstVal := range dst {
		srcVal, exists := result[key]
		if !exists {
			result[key] = dstVal
			continue
		}

		srcMap, srcOK := srcVal.(map[string]any)
		dstMap, dstOK := dstVal.(map[string]any)
		if srcOK && dstOK {
			result[key] = deepMerge(srcMap, dstMap)
			continue
		}

		result[key] = dstVal
	}

	return result
}
