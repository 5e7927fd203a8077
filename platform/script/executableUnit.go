// Package script ties a loaded piece of source to its compiled form and the
// data provider used when it runs.
package script

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	engineTypes "github.com/robbyt/go-dyneval/engines/types"
	"github.com/robbyt/go-dyneval/internal/helpers"
	"github.com/robbyt/go-dyneval/platform/data"
	"github.com/robbyt/go-dyneval/platform/script/loader"
)

const checksumLength = 12

// ExecutableUnit represents a specific version of an evaluatable piece of
// source: its content, compiled form, and the provider supplying runtime
// data to each run.
type ExecutableUnit struct {
	// ID is a unique identifier for this executable unit, derived from a
	// hash of the source content when not provided explicitly.
	ID string

	// CreatedAt records when this executable unit was instantiated.
	CreatedAt time.Time

	// ScriptLoader loads the source content into local memory from various
	// places (file, string, etc.).
	ScriptLoader loader.Loader

	// Compiler is the engine-specific compiler that produced this unit.
	Compiler Compiler

	// Content holds the compiled form and source representation.
	Content ExecutableContent

	// DataProvider supplies runtime data during evaluation.
	DataProvider data.Provider

	logHandler slog.Handler
	logger     *slog.Logger
}

// NewExecutableUnit creates a new ExecutableUnit from the provided loader
// and compiler. Compilation happens here, once; the returned unit is then
// evaluated any number of times. When versionID is empty, a checksum of the
// compiled source is used.
func NewExecutableUnit(
	handler slog.Handler,
	versionID string,
	scriptLoader loader.Loader,
	compiler Compiler,
	dataProvider data.Provider,
) (*ExecutableUnit, error) {
	handler, logger := helpers.SetupLogger(handler, "script", "ExecutableUnit")

	if compiler == nil {
		return nil, errors.New("compiler is nil")
	}
	if scriptLoader == nil {
		return nil, errors.New("loader is nil")
	}

	reader, err := scriptLoader.GetReader()
	if err != nil {
		return nil, fmt.Errorf("failed to get reader from loader: %w", err)
	}

	exe, err := compiler.Compile(reader)
	if err != nil {
		return nil, fmt.Errorf("compiler failed: %w", err)
	}

	if versionID == "" {
		versionID = helpers.SHA256(exe.GetSource())
		if len(versionID) > checksumLength {
			versionID = versionID[:checksumLength]
		}
	}

	return &ExecutableUnit{
		ID:           versionID,
		CreatedAt:    time.Now(),
		ScriptLoader: scriptLoader,
		Compiler:     compiler,
		Content:      exe,
		DataProvider: dataProvider,
		logHandler:   handler,
		logger:       logger.With("ID", versionID),
	}, nil
}

func (exe *ExecutableUnit) String() string {
	return fmt.Sprintf("ExecutableUnit{ID: %s, CreatedAt: %s, Compiler: %s, Loader: %s}",
		exe.ID, exe.CreatedAt, exe.Compiler, exe.ScriptLoader)
}

// GetID returns the unique identifier for this unit.
func (exe *ExecutableUnit) GetID() string {
	return exe.ID
}

// GetContent returns the validated and compiled content.
func (exe *ExecutableUnit) GetContent() ExecutableContent {
	return exe.Content
}

// GetCreatedAt returns the timestamp when the unit was created.
func (exe *ExecutableUnit) GetCreatedAt() time.Time {
	return exe.CreatedAt
}

// GetMachineType returns the engine type this unit runs on.
func (exe *ExecutableUnit) GetMachineType() engineTypes.Type {
	return exe.Content.GetMachineType()
}

// GetCompiler returns the compiler that produced this unit.
func (exe *ExecutableUnit) GetCompiler() Compiler {
	return exe.Compiler
}

// GetLoader returns the loader that provided the source.
func (exe *ExecutableUnit) GetLoader() loader.Loader {
	return exe.ScriptLoader
}

// GetDataProvider returns the data provider for this unit.
func (exe *ExecutableUnit) GetDataProvider() data.Provider {
	return exe.DataProvider
}
