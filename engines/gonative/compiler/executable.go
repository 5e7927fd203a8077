package compiler

import (
	"github.com/robbyt/go-dyneval/engines/gonative/compiler/internal/workspace"
	engineTypes "github.com/robbyt/go-dyneval/engines/types"
)

// Artifact is the compiled output of one unit: a plugin file on disk plus
// the identity needed to load it.
type Artifact struct {
	// UnitName is the synthesized identifier, unique per compilation.
	UnitName string

	// PluginPath is the plugin namespace path baked into the artifact.
	PluginPath string

	// Path is the filesystem location of the built plugin.
	Path string

	ws *workspace.Workspace
}

// Release removes the backing workspace. Called by the evaluator once the
// plugin is mapped into the process; the loaded artifact stays usable after
// the file is unlinked. Honors the compiler's retention setting.
func (a *Artifact) Release() {
	if a.ws != nil {
		a.ws.Cleanup()
	}
}

// WorkspaceDir returns the artifact directory for inspection, relevant when
// the compiler was configured to retain artifacts.
func (a *Artifact) WorkspaceDir() string {
	if a.ws == nil {
		return ""
	}
	return a.ws.Dir()
}

// Executable represents a Go snippet compiled into a plugin artifact.
type Executable struct {
	source   string
	artifact *Artifact
	warnings []Diagnostic
}

func newExecutable(source string, artifact *Artifact, warnings []Diagnostic) *Executable {
	if source == "" || artifact == nil {
		return nil
	}
	return &Executable{
		source:   source,
		artifact: artifact,
		warnings: warnings,
	}
}

// GetSource returns the original snippet, before wrapping.
func (e *Executable) GetSource() string {
	return e.source
}

// GetByteCode returns the built artifact as an opaque value.
func (e *Executable) GetByteCode() any {
	return e.artifact
}

// GetGoNativeArtifact returns the built artifact with its concrete type.
func (e *Executable) GetGoNativeArtifact() *Artifact {
	return e.artifact
}

// GetWarnings returns the informational diagnostics collected after a
// successful build. They never block evaluation.
func (e *Executable) GetWarnings() []Diagnostic {
	return e.warnings
}

// GetMachineType returns the engine type for this content.
func (e *Executable) GetMachineType() engineTypes.Type {
	return engineTypes.GoNative
}
