package modresolve

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

// Toolchain holds the discovered install locations of the go compiler and
// its runtime tree.
type Toolchain struct {
	GoBin  string
	GOROOT string
}

var (
	toolchainOnce sync.Once
	toolchain     Toolchain
	toolchainErr  error
)

// DefaultToolchain locates the go binary and GOROOT for the current
// process. Discovery runs exactly once, even under concurrent first use;
// the result is immutable and safe for unsynchronized reads afterwards.
func DefaultToolchain() (Toolchain, error) {
	toolchainOnce.Do(func() {
		bin, err := exec.LookPath("go")
		if err != nil {
			toolchainErr = fmt.Errorf("go binary not found in PATH: %w", err)
			return
		}

		goroot := ""
		if out, err := exec.Command(bin, "env", "GOROOT").Output(); err == nil {
			goroot = strings.TrimSpace(string(out))
		}
		if goroot == "" {
			goroot = runtime.GOROOT()
		}

		toolchain = Toolchain{GoBin: bin, GOROOT: goroot}
	})

	return toolchain, toolchainErr
}
