// Package compiler validates Starlark source and compiles it to in-memory
// bytecode.
package compiler

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	starlarkLib "go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/robbyt/go-dyneval/internal/helpers"
	"github.com/robbyt/go-dyneval/platform/script"
)

// Compiler compiles Starlark source into a reusable program.
type Compiler struct {
	globals    []string
	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a new Starlark-specific Compiler instance with the provided
// options. Global names are used during parsing to validate references to
// values injected at eval time.
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
		c.logHandler, c.logger = helpers.SetupLogger(c.logHandler, "starlark", "Compiler")
	}

	return c, nil
}

func (c *Compiler) String() string {
	return "starlark.Compiler"
}

// fileOptions enables the non-core language features scripts commonly rely
// on. Kept fixed so compilation is deterministic across calls.
var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// Compile turns the provided source into a runnable Starlark program.
func (c *Compiler) Compile(reader io.ReadCloser) (script.ExecutableContent, error) {
	if reader == nil {
		return nil, ErrContentNil
	}

	sourceBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	if err := reader.Close(); err != nil {
		return nil, fmt.Errorf("failed to close reader: %w", err)
	}

	return c.compile(sourceBytes)
}

func (c *Compiler) compile(sourceBytes []byte) (*Executable, error) {
	logger := c.logger.WithGroup("compile")
	if len(sourceBytes) == 0 {
		logger.Error("Compile called with empty script")
		return nil, ErrContentNil
	}

	isPredeclared := func(name string) bool {
		return slices.Contains(c.globals, name)
	}

	_, program, err := starlarkLib.SourceProgramOptions(
		fileOptions, "eval.star", sourceBytes, isPredeclared)
	if err != nil {
		logger.Warn("compilation failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	if program == nil {
		return nil, ErrBytecodeNil
	}

	exe := newExecutable(sourceBytes, program)
	if exe == nil {
		return nil, ErrExecCreationFailed
	}

	logger.Debug("compilation complete")
	return exe, nil
}
