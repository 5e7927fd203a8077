// Package modresolve synthesizes the module context a generated unit
// compiles against, so snippets can reference every dependency the host
// process itself links.
package modresolve

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"runtime/debug"
	"strings"

	"golang.org/x/mod/modfile"
)

// Module identifies one module requirement.
type Module struct {
	Path    string
	Version string
}

// Replacement redirects a module requirement. A New entry with an empty
// Version points at a local directory.
type Replacement struct {
	Old Module
	New Module
}

// Context is the resolved module view used to emit the workspace go.mod:
// the language version, every requirement visible to the host binary, and
// the replacement directives needed for them to resolve.
type Context struct {
	GoVersion string
	Requires  []Module
	Replaces  []Replacement
}

// HostContext captures the module context of the running process from its
// embedded build info. For every dependency replaced by a local directory,
// that directory's own go.mod is expanded one level (see expandLocal);
// entries found this way are never re-scanned.
func HostContext(logger *slog.Logger) (*Context, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ctx := &Context{GoVersion: languageVersion()}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		// binary built without module support; the unit compiles against
		// the standard library only
		logger.Warn("no build info embedded in host binary, module context is empty")
		return ctx, nil
	}

	seen := make(map[string]bool)
	for _, dep := range bi.Deps {
		ctx.addRequire(seen, dep.Path, dep.Version)

		rep := dep.Replace
		if rep == nil {
			continue
		}

		if rep.Version != "" {
			// module-to-module redirect, carried through unchanged
			ctx.Replaces = append(ctx.Replaces, Replacement{
				Old: Module{Path: dep.Path, Version: dep.Version},
				New: Module{Path: rep.Path, Version: rep.Version},
			})
			continue
		}

		// local directory replacement: carry the directive and expand the
		// directory's own go.mod one level
		ctx.Replaces = append(ctx.Replaces, Replacement{
			Old: Module{Path: dep.Path, Version: dep.Version},
			New: Module{Path: rep.Path},
		})

		nested, err := expandLocal(rep.Path)
		if err != nil {
			return nil, fmt.Errorf("expanding local replacement %s for %s: %w", rep.Path, dep.Path, err)
		}
		for _, m := range nested.Requires {
			ctx.addRequire(seen, m.Path, m.Version)
		}
		ctx.Replaces = append(ctx.Replaces, nested.Replaces...)
	}

	logger.Debug("resolved host module context",
		"requires", len(ctx.Requires), "replaces", len(ctx.Replaces))
	return ctx, nil
}

func (c *Context) addRequire(seen map[string]bool, path, version string) {
	if path == "" || version == "" || seen[path] {
		return
	}
	seen[path] = true
	c.Requires = append(c.Requires, Module{Path: path, Version: version})
}

// expandLocal reads the go.mod of a locally-replaced module and returns its
// requirements and replacement directives. Relative replacement targets are
// rebased onto the module's own directory, since they would otherwise
// resolve against the workspace. The expansion is deliberately one level
// deep: requirements found here are not themselves expanded.
func expandLocal(dir string) (*Context, error) {
	goModPath := filepath.Join(dir, "go.mod")
	content, err := os.ReadFile(goModPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", goModPath, err)
	}

	f, err := modfile.Parse(goModPath, content, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", goModPath, err)
	}

	out := &Context{}
	for _, r := range f.Require {
		out.Requires = append(out.Requires, Module{Path: r.Mod.Path, Version: r.Mod.Version})
	}
	for _, r := range f.Replace {
		newPath := r.New.Path
		if r.New.Version == "" && !filepath.IsAbs(newPath) {
			newPath = filepath.Join(dir, newPath)
		}
		out.Replaces = append(out.Replaces, Replacement{
			Old: Module{Path: r.Old.Path, Version: r.Old.Version},
			New: Module{Path: newPath, Version: r.New.Version},
		})
	}

	return out, nil
}

// GoModFile renders the context as a go.mod for the given module path,
// preserving requirement order.
func (c *Context) GoModFile(modulePath string) ([]byte, error) {
	f := &modfile.File{}
	if err := f.AddModuleStmt(modulePath); err != nil {
		return nil, fmt.Errorf("adding module statement: %w", err)
	}
	if err := f.AddGoStmt(c.GoVersion); err != nil {
		return nil, fmt.Errorf("adding go statement: %w", err)
	}

	for _, m := range c.Requires {
		f.AddNewRequire(m.Path, m.Version, false)
	}
	for _, r := range c.Replaces {
		if err := f.AddReplace(r.Old.Path, r.Old.Version, r.New.Path, r.New.Version); err != nil {
			return nil, fmt.Errorf("adding replace %s: %w", r.Old.Path, err)
		}
	}

	return f.Format()
}

var versionRe = regexp.MustCompile(`^go(\d+\.\d+(?:\.\d+)?)`)

// languageVersion extracts a go.mod-compatible version from the runtime,
// falling back to a known-good floor for development toolchains.
func languageVersion() string {
	if m := versionRe.FindStringSubmatch(runtime.Version()); m != nil {
		return m[1]
	}
	if v := strings.TrimPrefix(runtime.Version(), "go"); modfile.GoVersionRE.MatchString(v) {
		return v
	}
	return "1.26"
}
