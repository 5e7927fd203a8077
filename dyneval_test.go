package dyneval_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-dyneval"
	"github.com/robbyt/go-dyneval/platform/data"
)

func requireToolchain(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping toolchain test in short mode")
	}
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skipf("plugin loading not supported on %s", runtime.GOOS)
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go binary not in PATH")
	}
}

func TestFromStarlarkString(t *testing.T) {
	t.Parallel()

	t.Run("eval as int64", func(t *testing.T) {
		ev, err := dyneval.FromStarlarkString("result = 40 + 2", nil)
		require.NoError(t, err)

		got, err := dyneval.EvalAs[int64](t.Context(), ev)
		require.NoError(t, err)
		require.Equal(t, int64(42), got)
	})

	t.Run("eval as map", func(t *testing.T) {
		ev, err := dyneval.FromStarlarkString(`result = {"host": "localhost", "port": 8080}`, nil)
		require.NoError(t, err)

		got, err := dyneval.EvalAs[map[string]any](t.Context(), ev)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"host": "localhost", "port": int64(8080)}, got)
	})

	t.Run("type mismatch", func(t *testing.T) {
		ev, err := dyneval.FromStarlarkString(`result = "not a number"`, nil)
		require.NoError(t, err)

		got, err := dyneval.EvalAs[int64](t.Context(), ev)
		require.Error(t, err)
		require.ErrorIs(t, err, dyneval.ErrTypeMismatch)
		require.Contains(t, err.Error(), "have string")
		require.Zero(t, got)
	})

	t.Run("nil result yields zero value", func(t *testing.T) {
		ev, err := dyneval.FromStarlarkString("x = 1", nil)
		require.NoError(t, err)

		got, err := dyneval.EvalAs[string](t.Context(), ev)
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("invalid source", func(t *testing.T) {
		_, err := dyneval.FromStarlarkString("def broken(:", nil)
		require.Error(t, err)
	})

	t.Run("empty source", func(t *testing.T) {
		_, err := dyneval.FromStarlarkString("", nil)
		require.Error(t, err)
	})
}

func TestFromStarlarkStringWithData(t *testing.T) {
	t.Parallel()

	ev, err := dyneval.FromStarlarkStringWithData(
		`result = ctx["base"] * ctx["factor"]`,
		nil,
		map[string]any{"base": 6},
	)
	require.NoError(t, err)

	ctx, err := ev.AddDataToContext(t.Context(), map[string]any{"factor": 7})
	require.NoError(t, err)

	got, err := dyneval.EvalAs[int64](ctx, ev)
	require.NoError(t, err)
	require.Equal(t, int64(42), got)
}

func TestFromStarlarkFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.star")
	require.NoError(t, os.WriteFile(path, []byte(`result = {"debug": True}`), 0o644))

	ev, err := dyneval.FromStarlarkFile(path, nil)
	require.NoError(t, err)

	got, err := dyneval.EvalAs[map[string]any](t.Context(), ev)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"debug": true}, got)
}

func TestFromGoString(t *testing.T) {
	requireToolchain(t)
	t.Parallel()

	t.Run("eval as int", func(t *testing.T) {
		ev, err := dyneval.FromGoString("40 + 2", nil)
		require.NoError(t, err)

		got, err := dyneval.EvalAs[int](t.Context(), ev)
		require.NoError(t, err)
		require.Equal(t, 42, got)
	})

	t.Run("eval as struct via map", func(t *testing.T) {
		source := `map[string]any{"host": "localhost", "port": 8080}`
		ev, err := dyneval.FromGoString(source, nil)
		require.NoError(t, err)

		got, err := dyneval.EvalAs[map[string]any](t.Context(), ev)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"host": "localhost", "port": 8080}, got)
	})

	t.Run("type mismatch", func(t *testing.T) {
		ev, err := dyneval.FromGoString(`"not a number"`, nil)
		require.NoError(t, err)

		_, err = dyneval.EvalAs[int](t.Context(), ev)
		require.Error(t, err)
		require.ErrorIs(t, err, dyneval.ErrTypeMismatch)
	})
}

func TestFromGoStringWithData(t *testing.T) {
	requireToolchain(t)
	t.Parallel()

	ev, err := dyneval.FromGoStringWithData(
		`Ctx["n"].(int) * 2`,
		nil,
		map[string]any{"n": 21},
	)
	require.NoError(t, err)

	got, err := dyneval.EvalAs[int](t.Context(), ev)
	require.NoError(t, err)
	require.Equal(t, 42, got)
}

func TestFromGoFile(t *testing.T) {
	requireToolchain(t)
	t.Parallel()

	path := filepath.Join(t.TempDir(), "snippet.txt")
	require.NoError(t, os.WriteFile(path, []byte("10 * 10"), 0o644))

	ev, err := dyneval.FromGoFile(path, nil)
	require.NoError(t, err)

	got, err := dyneval.EvalAs[int](t.Context(), ev)
	require.NoError(t, err)
	require.Equal(t, 100, got)
}

func TestFromGoFileInvalidPath(t *testing.T) {
	t.Parallel()

	_, err := dyneval.FromGoFile("relative/path.go", nil)
	require.Error(t, err)
}

func TestEvalAsDirectProvider(t *testing.T) {
	t.Parallel()

	// data flows from a static provider into the script's ctx global
	ev, err := dyneval.FromStarlarkStringWithData(
		`result = "hello, " + ctx["name"]`,
		nil,
		map[string]any{"name": "world"},
	)
	require.NoError(t, err)

	got, err := dyneval.EvalAs[string](t.Context(), ev)
	require.NoError(t, err)
	require.Equal(t, "hello, world", got)

	// the same evaluator keeps producing the same result
	again, err := dyneval.EvalAs[string](t.Context(), ev)
	require.NoError(t, err)
	require.Equal(t, got, again)

	// respond with the full response surface as well
	resp, err := ev.Eval(t.Context())
	require.NoError(t, err)
	require.Equal(t, data.STRING, resp.Type())
	require.NotEmpty(t, resp.GetScriptExeID())
}
