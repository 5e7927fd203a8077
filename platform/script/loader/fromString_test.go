package loader

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-dyneval/internal/helpers"
)

func TestNewFromString(t *testing.T) {
	t.Parallel()

	t.Run("valid content", func(t *testing.T) {
		cases := []struct {
			name    string
			content string
			want    string
		}{
			{
				name:    "simple content",
				content: "3 + 4",
				want:    "3 + 4",
			},
			{
				name:    "trim whitespace",
				content: "  1 + 2  ",
				want:    "1 + 2",
			},
			{
				name:    "multiline content",
				content: "x := 1\ny := 2\nreturn x + y",
				want:    "x := 1\ny := 2\nreturn x + y",
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				l, err := NewFromString(tc.content)
				require.NoError(t, err)
				require.NotNil(t, l)

				reader, err := l.GetReader()
				require.NoError(t, err)
				content, err := io.ReadAll(reader)
				require.NoError(t, err)
				require.NoError(t, reader.Close())
				require.Equal(t, tc.want, string(content))

				// the URL carries the content hash
				expectedHash := helpers.SHA256(tc.want)[:8]
				require.Contains(t, l.GetSourceURL().String(), expectedHash)
			})
		}
	})

	t.Run("invalid content", func(t *testing.T) {
		for _, content := range []string{"", "   \n\t   "} {
			l, err := NewFromString(content)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrScriptNotAvailable)
			require.Nil(t, l)
		}
	})

	t.Run("distinct content gets distinct URLs", func(t *testing.T) {
		first, err := NewFromString("1 + 1")
		require.NoError(t, err)
		second, err := NewFromString("2 + 2")
		require.NoError(t, err)

		require.NotEqual(t, first.GetSourceURL().String(), second.GetSourceURL().String())
	})
}

func TestFromStringString(t *testing.T) {
	t.Parallel()

	l, err := NewFromString("1 + 1")
	require.NoError(t, err)
	require.Equal(t, "loader.FromString{Chars: 5}", l.String())
}
