package loader

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFromDisk(t *testing.T) {
	t.Parallel()

	t.Run("valid paths", func(t *testing.T) {
		dir := t.TempDir()
		scriptPath := filepath.Join(dir, "script.go")
		require.NoError(t, os.WriteFile(scriptPath, []byte("1 + 2"), 0o644))

		cases := []struct {
			name string
			path string
		}{
			{
				name: "absolute path",
				path: scriptPath,
			},
			{
				name: "file scheme prefix",
				path: "file://" + scriptPath,
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				l, err := NewFromDisk(tc.path)
				require.NoError(t, err)
				require.NotNil(t, l)
				require.Equal(t, "file", l.GetSourceURL().Scheme)
				require.Equal(t, scriptPath, l.GetSourceURL().Path)

				reader, err := l.GetReader()
				require.NoError(t, err)
				content, err := io.ReadAll(reader)
				require.NoError(t, err)
				require.NoError(t, reader.Close())
				require.Equal(t, "1 + 2", string(content))
			})
		}
	})

	t.Run("invalid paths", func(t *testing.T) {
		cases := []struct {
			name    string
			path    string
			wantErr error
		}{
			{
				name:    "empty path",
				path:    "",
				wantErr: ErrScriptNotAvailable,
			},
			{
				name:    "relative path",
				path:    "scripts/eval.go",
				wantErr: ErrScriptNotAvailable,
			},
			{
				name:    "unsupported scheme",
				path:    "https://example.com/eval.go",
				wantErr: ErrSchemeUnsupported,
			},
			{
				name:    "root path",
				path:    "/",
				wantErr: ErrScriptNotAvailable,
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				l, err := NewFromDisk(tc.path)
				require.Error(t, err)
				require.ErrorIs(t, err, tc.wantErr)
				require.Nil(t, l)
			})
		}
	})

	t.Run("missing file fails at read time", func(t *testing.T) {
		l, err := NewFromDisk(filepath.Join(t.TempDir(), "missing.go"))
		require.NoError(t, err)

		_, err = l.GetReader()
		require.Error(t, err)
	})
}

func TestFromDiskString(t *testing.T) {
	t.Parallel()

	t.Run("existing file includes checksum", func(t *testing.T) {
		scriptPath := filepath.Join(t.TempDir(), "script.go")
		require.NoError(t, os.WriteFile(scriptPath, []byte("1 + 2"), 0o644))

		l, err := NewFromDisk(scriptPath)
		require.NoError(t, err)
		require.Contains(t, l.String(), "SHA256:")
		require.Contains(t, l.String(), scriptPath)
	})

	t.Run("missing file omits checksum", func(t *testing.T) {
		l, err := NewFromDisk(filepath.Join(t.TempDir(), "missing.go"))
		require.NoError(t, err)
		require.NotContains(t, l.String(), "SHA256:")
	})
}
