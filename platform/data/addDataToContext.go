package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNoDataProvider is returned when context preparation is attempted
// without a configured data provider.
var ErrNoDataProvider = errors.New("no data provider available")

// AddDataToContextHelper implements the common logic for adding data to a
// context for evaluation. Engine implementations call this from their
// AddDataToContext methods to keep data handling behavior consistent.
func AddDataToContextHelper(
	ctx context.Context,
	logger *slog.Logger,
	provider Provider,
	d ...map[string]any,
) (context.Context, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if provider == nil {
		logger.WarnContext(ctx, "no data provider available for context preparation")
		return ctx, ErrNoDataProvider
	}

	enrichedCtx, err := provider.AddDataToContext(ctx, d...)
	if err != nil {
		return ctx, fmt.Errorf("failed to prepare context: %w", err)
	}

	return enrichedCtx, nil
}
