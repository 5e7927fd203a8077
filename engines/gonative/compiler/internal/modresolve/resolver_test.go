package modresolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/mod/modfile"
)

func writeGoMod(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte(content), 0o644))
}

func TestExpandLocal(t *testing.T) {
	t.Parallel()

	t.Run("requires and replaces", func(t *testing.T) {
		dir := t.TempDir()
		writeGoMod(t, dir, `module example.com/local

go 1.26

require (
	github.com/google/uuid v1.6.0
	golang.org/x/mod v0.30.0
)

replace golang.org/x/mod => ../modfork
`)

		ctx, err := expandLocal(dir)
		require.NoError(t, err)

		require.Equal(t, []Module{
			{Path: "github.com/google/uuid", Version: "v1.6.0"},
			{Path: "golang.org/x/mod", Version: "v0.30.0"},
		}, ctx.Requires)

		// relative replacement targets are rebased onto the module directory
		require.Len(t, ctx.Replaces, 1)
		require.Equal(t, "golang.org/x/mod", ctx.Replaces[0].Old.Path)
		require.Equal(t, filepath.Join(dir, "../modfork"), ctx.Replaces[0].New.Path)
		require.Empty(t, ctx.Replaces[0].New.Version)
	})

	t.Run("absolute replacement target kept as-is", func(t *testing.T) {
		dir := t.TempDir()
		writeGoMod(t, dir, `module example.com/local

go 1.26

replace example.com/dep => /srv/checkouts/dep
`)

		ctx, err := expandLocal(dir)
		require.NoError(t, err)
		require.Len(t, ctx.Replaces, 1)
		require.Equal(t, "/srv/checkouts/dep", ctx.Replaces[0].New.Path)
	})

	t.Run("module-to-module replacement untouched", func(t *testing.T) {
		dir := t.TempDir()
		writeGoMod(t, dir, `module example.com/local

go 1.26

replace example.com/dep v1.0.0 => example.com/fork v1.0.1
`)

		ctx, err := expandLocal(dir)
		require.NoError(t, err)
		require.Len(t, ctx.Replaces, 1)
		require.Equal(t, "example.com/fork", ctx.Replaces[0].New.Path)
		require.Equal(t, "v1.0.1", ctx.Replaces[0].New.Version)
	})

	t.Run("missing go.mod", func(t *testing.T) {
		_, err := expandLocal(t.TempDir())
		require.Error(t, err)
	})

	t.Run("malformed go.mod", func(t *testing.T) {
		dir := t.TempDir()
		writeGoMod(t, dir, "this is not a module file {{{")

		_, err := expandLocal(dir)
		require.Error(t, err)
	})
}

func TestContextAddRequire(t *testing.T) {
	t.Parallel()

	ctx := &Context{}
	seen := make(map[string]bool)

	ctx.addRequire(seen, "github.com/google/uuid", "v1.6.0")
	ctx.addRequire(seen, "github.com/google/uuid", "v1.5.0") // duplicate path skipped
	ctx.addRequire(seen, "golang.org/x/mod", "")             // missing version skipped
	ctx.addRequire(seen, "", "v1.0.0")                       // missing path skipped
	ctx.addRequire(seen, "golang.org/x/sync", "v0.19.0")

	require.Equal(t, []Module{
		{Path: "github.com/google/uuid", Version: "v1.6.0"},
		{Path: "golang.org/x/sync", Version: "v0.19.0"},
	}, ctx.Requires)
}

func TestGoModFile(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		ctx := &Context{
			GoVersion: "1.26",
			Requires: []Module{
				{Path: "github.com/google/uuid", Version: "v1.6.0"},
				{Path: "golang.org/x/mod", Version: "v0.30.0"},
			},
			Replaces: []Replacement{
				{
					Old: Module{Path: "golang.org/x/mod"},
					New: Module{Path: "/srv/checkouts/mod"},
				},
			},
		}

		rendered, err := ctx.GoModFile("dyneval/eval_abc123")
		require.NoError(t, err)

		f, err := modfile.Parse("go.mod", rendered, nil)
		require.NoError(t, err)
		require.Equal(t, "dyneval/eval_abc123", f.Module.Mod.Path)
		require.Equal(t, "1.26", f.Go.Version)

		require.Len(t, f.Require, 2)
		require.Equal(t, "github.com/google/uuid", f.Require[0].Mod.Path)
		require.Equal(t, "v1.6.0", f.Require[0].Mod.Version)

		require.Len(t, f.Replace, 1)
		require.Equal(t, "/srv/checkouts/mod", f.Replace[0].New.Path)
	})

	t.Run("empty context still renders", func(t *testing.T) {
		ctx := &Context{GoVersion: "1.26"}
		rendered, err := ctx.GoModFile("dyneval/eval_empty")
		require.NoError(t, err)

		f, err := modfile.Parse("go.mod", rendered, nil)
		require.NoError(t, err)
		require.Empty(t, f.Require)
	})
}

func TestHostContext(t *testing.T) {
	t.Parallel()

	// the test binary is module-built, so the context reflects this module's
	// own dependency set
	ctx, err := HostContext(nil)
	require.NoError(t, err)
	require.NotNil(t, ctx)
	require.True(t, modfile.GoVersionRE.MatchString(ctx.GoVersion))

	seen := make(map[string]bool)
	for _, m := range ctx.Requires {
		require.NotEmpty(t, m.Path)
		require.NotEmpty(t, m.Version)
		require.False(t, seen[m.Path], "duplicate requirement %s", m.Path)
		seen[m.Path] = true
	}
}

func TestLanguageVersion(t *testing.T) {
	t.Parallel()

	v := languageVersion()
	require.True(t, modfile.GoVersionRE.MatchString(v), "got %q", v)
}
