// Package workspace manages the temporary directory holding one
// compilation's generated source, module files, and built artifact.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/robbyt/go-dyneval/internal/helpers"
)

// Workspace is the artifact directory of a single compilation. Every
// compilation gets its own directory, so concurrent compilations never
// share files.
type Workspace struct {
	dir    string
	retain bool
	logger *slog.Logger

	mu      sync.Mutex
	files   []string
	cleaned bool
}

// New creates the workspace directory under root, or under the platform
// temp directory when root is empty. With retain set, Cleanup leaves the
// directory in place for inspection.
func New(root, unitName string, retain bool, handler slog.Handler) (*Workspace, error) {
	_, logger := helpers.SetupLogger(handler, "gonative", "workspace")

	if root == "" {
		root = os.TempDir()
	}

	dir := filepath.Join(root, "dyneval-"+unitName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create workspace directory %s: %w", dir, err)
	}

	return &Workspace{
		dir:    dir,
		retain: retain,
		logger: logger.With("dir", dir),
	}, nil
}

// Dir returns the workspace directory path.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path returns the path of a file inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// WriteFile writes a tracked file into the workspace and returns its path.
func (w *Workspace) WriteFile(name string, content []byte) (string, error) {
	path := w.Path(name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("unable to write %s: %w", path, err)
	}

	w.mu.Lock()
	w.files = append(w.files, path)
	w.mu.Unlock()

	w.logger.Debug("wrote workspace file", "name", name, "bytes", len(content))
	return path, nil
}

// Files returns the paths written through WriteFile, in order.
func (w *Workspace) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.files)
}

// Cleanup removes the workspace directory. It is idempotent and
// best-effort: removal failures are logged, not returned. When the
// workspace was created with retention enabled, the directory is kept.
func (w *Workspace) Cleanup() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cleaned {
		return
	}
	w.cleaned = true

	if w.retain {
		w.logger.Debug("retaining workspace artifacts")
		return
	}

	if err := os.RemoveAll(w.dir); err != nil {
		w.logger.Warn("unable to remove workspace", "error", err)
	}
}
