package helpers

import (
	"log/slog"
	"os"
)

// SetupLogger creates a configured logger for an engine component.
// If the provided handler is nil, a default text handler writing to stderr
// is created, grouped under the engine name.
//
// Parameters:
//   - handler: The slog.Handler to use, or nil for defaults
//   - engineName: The name of the engine (e.g., "gonative", "starlark")
//   - componentName: Optional component group within the engine
//
// Returns the configured handler and a logger created from it.
func SetupLogger(handler slog.Handler, engineName string, componentName string) (slog.Handler, *slog.Logger) {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, nil).WithGroup(engineName)
	}

	if componentName != "" {
		return handler, slog.New(handler.WithGroup(componentName))
	}

	return handler, slog.New(handler)
}
