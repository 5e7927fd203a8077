package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider(t *testing.T) {
	t.Parallel()

	t.Run("GetData returns a copy", func(t *testing.T) {
		original := map[string]any{"name": "app", "port": 8080}
		provider := NewStaticProvider(original)

		got, err := provider.GetData(t.Context())
		require.NoError(t, err)
		require.Equal(t, original, got)

		// mutating the returned map must not affect later reads
		got["name"] = "changed"
		again, err := provider.GetData(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "app", again["name"])
	})

	t.Run("nil data yields empty map", func(t *testing.T) {
		provider := NewStaticProvider(nil)

		got, err := provider.GetData(t.Context())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("AddDataToContext is rejected", func(t *testing.T) {
		provider := NewStaticProvider(map[string]any{"a": 1})

		ctx, err := provider.AddDataToContext(t.Context(), map[string]any{"b": 2})
		require.ErrorIs(t, err, ErrStaticProviderNoRuntimeUpdates)
		assert.Equal(t, context.Context(t.Context()), ctx)
	})
}
