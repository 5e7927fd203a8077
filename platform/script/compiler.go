package script

import (
	"io"
)

// Compiler validates and compiles source content into executable form.
// Each engine provides its own implementation: interpreter engines compile
// to in-memory bytecode, the gonative engine synthesizes and builds a
// loadable plugin artifact.
type Compiler interface {
	// Compile reads the source from the reader, validates it, and returns
	// it as ExecutableContent ready for execution. The reader is always
	// closed. Returns an error describing validation or build failures.
	Compile(reader io.ReadCloser) (ExecutableContent, error)
}
