// Package compiler synthesizes a compilable unit from a Go snippet and
// builds it into a loadable plugin artifact with the host toolchain.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robbyt/go-dyneval/engines/gonative/compiler/internal/gobuild"
	"github.com/robbyt/go-dyneval/engines/gonative/compiler/internal/modresolve"
	"github.com/robbyt/go-dyneval/engines/gonative/compiler/internal/workspace"
	"github.com/robbyt/go-dyneval/internal/helpers"
	"github.com/robbyt/go-dyneval/platform/script"
)

// unitPathPrefix namespaces every generated unit's plugin path.
const unitPathPrefix = "dyneval/"

// Compiler builds Go snippets into plugin artifacts. Each Compile call is
// independent: it gets a fresh unit name and workspace, so concurrent
// compilations never collide.
type Compiler struct {
	workRoot        string
	retainArtifacts bool
	buildTimeout    time.Duration
	vetChecks       bool

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a gonative Compiler instance with the provided options.
func New(opts ...FunctionalOption) (*Compiler, error) {
	c := &Compiler{}
	c.applyDefaults()

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("error applying compiler option: %w", err)
		}
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid compiler configuration: %w", err)
	}

	if c.logger != nil {
		c.logHandler = c.logger.Handler()
	} else {
		c.logHandler, c.logger = helpers.SetupLogger(c.logHandler, "gonative", "Compiler")
	}

	return c, nil
}

func (c *Compiler) String() string {
	return "gonative.Compiler"
}

// Compile reads the snippet, wraps it into a self-contained main package,
// resolves the host's module context, and invokes the toolchain. The
// returned ExecutableContent carries the built artifact; loading and
// execution happen in the evaluator.
func (c *Compiler) Compile(reader io.ReadCloser) (script.ExecutableContent, error) {
	if reader == nil {
		return nil, ErrContentNil
	}

	sourceBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	if err := reader.Close(); err != nil {
		return nil, fmt.Errorf("failed to close reader: %w", err)
	}

	return c.compile(string(sourceBytes))
}

func (c *Compiler) compile(source string) (*Executable, error) {
	logger := c.logger.WithGroup("compile")

	if strings.TrimSpace(source) == "" {
		logger.Error("Compile called with empty source")
		return nil, ErrContentNil
	}

	unitName := newUnitName()
	logger = logger.With("unit", unitName)
	logger.Debug("starting compilation")

	tc, err := modresolve.DefaultToolchain()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrToolchainMissing, err)
	}

	wrapped, err := wrapSource(source)
	if err != nil {
		logger.Warn("wrap failed", "error", err)
		return nil, err
	}

	ws, err := workspace.New(c.workRoot, unitName, c.retainArtifacts, c.logHandler)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrapFailed, err)
	}

	if _, err := ws.WriteFile(unitName+".go", wrapped); err != nil {
		ws.Cleanup()
		return nil, fmt.Errorf("%w: %w", ErrWrapFailed, err)
	}

	modCtx, err := modresolve.HostContext(logger)
	if err != nil {
		ws.Cleanup()
		return nil, fmt.Errorf("%w: %w", ErrResolveFailed, err)
	}

	goMod, err := modCtx.GoModFile(unitPathPrefix + unitName)
	if err != nil {
		ws.Cleanup()
		return nil, fmt.Errorf("%w: %w", ErrResolveFailed, err)
	}
	if _, err := ws.WriteFile("go.mod", goMod); err != nil {
		ws.Cleanup()
		return nil, fmt.Errorf("%w: %w", ErrResolveFailed, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.buildTimeout)
	defer cancel()

	artifactPath := ws.Path(unitName + ".so")
	buildOut, buildErr := gobuild.Build(ctx, gobuild.Params{
		GoBin:      tc.GoBin,
		Dir:        ws.Dir(),
		Output:     artifactPath,
		PluginPath: unitPathPrefix + unitName,
	})
	if buildErr != nil {
		ws.Cleanup()
		if errors.Is(buildErr, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: build timed out after %s", ErrCompileFailed, c.buildTimeout)
		}
		cerr := &CompileError{
			Unit:        unitName,
			Diagnostics: parseDiagnostics(buildOut, SeverityError),
			Output:      string(buildOut),
		}
		logger.Warn("build failed", "diagnostics", len(cerr.Diagnostics))
		return nil, cerr
	}

	var warnings []Diagnostic
	if c.vetChecks {
		if vetOut, vetErr := gobuild.Vet(ctx, tc.GoBin, ws.Dir()); vetErr != nil {
			warnings = parseDiagnostics(vetOut, SeverityWarning)
			logger.Warn("vet reported findings", "count", len(warnings))
		}
	}

	exe := newExecutable(source, &Artifact{
		UnitName:   unitName,
		PluginPath: unitPathPrefix + unitName,
		Path:       artifactPath,
		ws:         ws,
	}, warnings)
	if exe == nil {
		ws.Cleanup()
		return nil, ErrExecCreationFailed
	}

	logger.Debug("compilation complete", "artifact", artifactPath)
	return exe, nil
}

// newUnitName generates a process-unique identifier for one compilation.
// The name is a valid Go identifier, and scopes the workspace directory,
// the generated file, and the plugin path.
func newUnitName() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "eval_" + id[:12]
}
