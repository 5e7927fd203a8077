package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "gonative", GoNative.String())
	require.Equal(t, "starlark", Starlark.String())
}

func TestTypeValidate(t *testing.T) {
	t.Parallel()

	for _, valid := range []Type{GoNative, Starlark} {
		require.NoError(t, valid.Validate())
	}

	for _, invalid := range []Type{"", "wasm", "GONATIVE"} {
		err := invalid.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid engine type")
	}
}
