package compiler

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	starlarkLib "go.starlark.net/starlark"

	engineTypes "github.com/robbyt/go-dyneval/engines/types"
)

func reader(source string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(source))
}

func TestNewCompiler(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		c, err := New()
		require.NoError(t, err)
		require.NotNil(t, c)
		require.Empty(t, c.globals)
		require.Equal(t, "starlark.Compiler", c.String())
	})

	t.Run("with ctx global", func(t *testing.T) {
		c, err := New(WithCtxGlobal())
		require.NoError(t, err)
		require.Contains(t, c.globals, "ctx")

		// applying it twice does not duplicate the entry
		c, err = New(WithCtxGlobal(), WithCtxGlobal())
		require.NoError(t, err)
		require.Equal(t, []string{"ctx"}, c.globals)
	})

	t.Run("with custom globals", func(t *testing.T) {
		c, err := New(WithGlobals([]string{"request", "env"}))
		require.NoError(t, err)
		require.Equal(t, []string{"request", "env"}, c.globals)
	})

	t.Run("nil log handler rejected", func(t *testing.T) {
		_, err := New(WithLogHandler(nil))
		require.Error(t, err)
	})

	t.Run("nil logger rejected", func(t *testing.T) {
		_, err := New(WithLogger(nil))
		require.Error(t, err)
	})
}

func TestCompile(t *testing.T) {
	t.Parallel()

	t.Run("valid scripts", func(t *testing.T) {
		cases := []struct {
			name   string
			source string
			opts   []FunctionalOption
		}{
			{
				name:   "simple assignment",
				source: "result = 40 + 2",
			},
			{
				name:   "function definition",
				source: "def double(x):\n    return x * 2\nresult = double(21)",
			},
			{
				name:   "ctx reference with ctx global",
				source: `result = ctx["name"]`,
				opts:   []FunctionalOption{WithCtxGlobal()},
			},
			{
				name:   "while loop",
				source: "i = 0\nwhile i < 3:\n    i += 1\nresult = i",
			},
			{
				name:   "top level conditional",
				source: "if True:\n    result = 1\nelse:\n    result = 2",
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				c, err := New(tc.opts...)
				require.NoError(t, err)

				content, err := c.Compile(reader(tc.source))
				require.NoError(t, err)
				require.Equal(t, tc.source, content.GetSource())
				require.Equal(t, engineTypes.Starlark, content.GetMachineType())
				require.IsType(t, (*starlarkLib.Program)(nil), content.GetByteCode())
			})
		}
	})

	t.Run("invalid scripts", func(t *testing.T) {
		c, err := New()
		require.NoError(t, err)

		cases := []struct {
			name   string
			source string
		}{
			{
				name:   "syntax error",
				source: "def broken(:",
			},
			{
				name:   "undefined reference",
				source: "result = ctx['name']",
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				content, err := c.Compile(reader(tc.source))
				require.Error(t, err)
				require.ErrorIs(t, err, ErrValidationFailed)
				require.Nil(t, content)
			})
		}
	})

	t.Run("nil reader", func(t *testing.T) {
		c, err := New()
		require.NoError(t, err)

		content, err := c.Compile(nil)
		require.ErrorIs(t, err, ErrContentNil)
		require.Nil(t, content)
	})

	t.Run("empty script", func(t *testing.T) {
		c, err := New()
		require.NoError(t, err)

		content, err := c.Compile(reader(""))
		require.ErrorIs(t, err, ErrContentNil)
		require.Nil(t, content)
	})
}

func TestNewExecutable(t *testing.T) {
	t.Parallel()

	require.Nil(t, newExecutable(nil, &starlarkLib.Program{}))
	require.Nil(t, newExecutable([]byte("result = 1"), nil))
}
