// Package gobuild invokes the go toolchain over a prepared workspace.
package gobuild

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Params configures one build invocation.
type Params struct {
	// GoBin is the path of the go binary.
	GoBin string
	// Dir is the workspace directory holding the generated main package.
	Dir string
	// Output is the path the plugin artifact is written to.
	Output string
	// PluginPath is the unique plugin namespace path baked into the
	// artifact, keeping concurrently loaded units apart.
	PluginPath string
}

// Build compiles the workspace's main package into a plugin artifact with a
// bounded wait: cancelling the context kills the toolchain process. The
// combined toolchain output is always returned for diagnostic parsing.
func Build(ctx context.Context, p Params) ([]byte, error) {
	args := []string{
		"build",
		"-buildmode=plugin",
		"-ldflags=-pluginpath=" + p.PluginPath,
		"-o", p.Output,
		".",
	}

	out, err := run(ctx, p.GoBin, p.Dir, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, fmt.Errorf("go build interrupted: %w", ctxErr)
		}
		return out, fmt.Errorf("go build failed: %w", err)
	}
	return out, nil
}

// Vet runs go vet over the workspace. Findings are informational; the
// returned output is parsed into warning diagnostics by the caller.
func Vet(ctx context.Context, goBin, dir string) ([]byte, error) {
	out, err := run(ctx, goBin, dir, "vet", ".")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, fmt.Errorf("go vet interrupted: %w", ctxErr)
		}
		return out, fmt.Errorf("go vet reported findings: %w", err)
	}
	return out, nil
}

func run(ctx context.Context, goBin, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, goBin, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		// the synthesized go.mod is authoritative and may be amended
		"GOFLAGS=-mod=mod",
		"GO111MODULE=on",
		// no go.sum is synthesized for the workspace
		"GOSUMDB=off",
		"GOPRIVATE=*",
		// plugin buildmode requires cgo
		"CGO_ENABLED=1",
	)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	return output.Bytes(), err
}
