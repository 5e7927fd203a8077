package compiler

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// FunctionalOption is a function that configures a Compiler instance.
type FunctionalOption func(*Compiler) error

// WithWorkRoot sets the directory under which per-compilation workspaces
// are created. Defaults to the platform temp directory.
func WithWorkRoot(dir string) FunctionalOption {
	return func(c *Compiler) error {
		c.workRoot = dir
		return nil
	}
}

// WithRetainArtifacts keeps each compilation's workspace (generated source,
// go.mod, built plugin) on disk instead of removing it after loading.
// Useful for inspecting what a snippet compiled into.
func WithRetainArtifacts(retain bool) FunctionalOption {
	return func(c *Compiler) error {
		c.retainArtifacts = retain
		return nil
	}
}

// WithBuildTimeout bounds how long one toolchain invocation may run before
// it is killed. Defaults to two minutes.
func WithBuildTimeout(d time.Duration) FunctionalOption {
	return func(c *Compiler) error {
		if d <= 0 {
			return fmt.Errorf("build timeout must be positive, got %s", d)
		}
		c.buildTimeout = d
		return nil
	}
}

// WithVetChecks controls whether go vet runs after a successful build.
// Findings are attached to the executable as warning diagnostics and never
// block evaluation. Enabled by default.
func WithVetChecks(enabled bool) FunctionalOption {
	return func(c *Compiler) error {
		c.vetChecks = enabled
		return nil
	}
}

// WithLogHandler creates an option to set the log handler for the compiler.
// This is the preferred option for logging configuration, providing
// flexibility through the slog.Handler interface.
func WithLogHandler(handler slog.Handler) FunctionalOption {
	return func(c *Compiler) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		c.logHandler = handler
		// Clear logger if handler is explicitly set
		c.logger = nil
		return nil
	}
}

// WithLogger creates an option to set a specific logger for the compiler,
// for users who want to customize their logging group configuration.
func WithLogger(logger *slog.Logger) FunctionalOption {
	return func(c *Compiler) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.logger = logger
		// Clear handler if logger is explicitly set
		c.logHandler = nil
		return nil
	}
}

// applyDefaults sets the default values for a compiler.
func (c *Compiler) applyDefaults() {
	if c.logHandler == nil && c.logger == nil {
		c.logHandler = slog.NewTextHandler(os.Stderr, nil)
	}
	if c.buildTimeout == 0 {
		c.buildTimeout = 2 * time.Minute
	}
	c.vetChecks = true
}

// validate checks if the compiler configuration is valid.
func (c *Compiler) validate() error {
	if c.logHandler == nil && c.logger == nil {
		return fmt.Errorf("either log handler or logger must be specified")
	}
	if c.buildTimeout <= 0 {
		return fmt.Errorf("build timeout must be positive")
	}
	return nil
}
